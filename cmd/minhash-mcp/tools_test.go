package main

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/minhash/api"
	"github.com/use-agent/minhash/config"
)

const fessText = "Fess is very powerful and easily deployable Enterprise Search Server."

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()
	cfg := config.Load()
	cfg.Server.Mode = "test"
	cfg.Auth.Enabled = true
	cfg.Auth.APIKeys = []string{"k"}

	srv := httptest.NewServer(api.NewRouter(cfg, nil, time.Now()))
	t.Cleanup(srv.Close)

	c := newAPIClient(srv.URL+"/", "k")
	c.pollInterval = 10 * time.Millisecond
	return c
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestHandleSignature(t *testing.T) {
	c := newTestAPI(t)

	res, err := c.handleSignature(context.Background(), call(map[string]any{"text": fessText}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "bits: 128 (16 bytes")
	assert.Contains(t, text, "tokens: 10")
	assert.Contains(t, text, "binary: 0010101000010011")
}

func TestHandleSignature_Errors(t *testing.T) {
	c := newTestAPI(t)

	res, err := c.handleSignature(context.Background(), call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = c.handleSignature(context.Background(), call(map[string]any{"text": "x", "hash_bit": 1000}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "INVALID_INPUT")
}

func TestHandleCompareAndSimilarity(t *testing.T) {
	c := newTestAPI(t)
	ctx := context.Background()

	res, err := c.handleSimilarity(ctx, call(map[string]any{
		"text_a": fessText,
		"text_b": "Fess is very powerful and easily deployable Search Server.",
		"seed":   0,
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "similarity: 0.953125 over 128 bits")

	res, err = c.handleCompare(ctx, call(map[string]any{"signature_a": "/w==", "signature_b": "Dw=="}))
	require.NoError(t, err)
	assert.Equal(t, "similarity: 0.5 (4 of 8 bits equal)", resultText(t, res))

	res, err = c.handleCompare(ctx, call(map[string]any{"signature_a": "/w==", "signature_b": "%%"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "INVALID_ENCODING")
}

func TestHandleBatchSignature(t *testing.T) {
	c := newTestAPI(t)

	res, err := c.handleBatchSignature(context.Background(), call(map[string]any{
		"texts":     []any{"a b c", "d e f", ""},
		"num_funcs": 8,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "completed: 3/3")
	assert.Contains(t, text, "[2] /w==")
}

func TestAPIClient_Unauthorized(t *testing.T) {
	c := newTestAPI(t)
	c.apiKey = ""

	res, err := c.handleCompare(context.Background(), call(map[string]any{"signature_a": "", "signature_b": ""}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "UNAUTHORIZED")
}
