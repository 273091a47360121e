package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/use-agent/minhash/models"
)

// apiClient talks to a running minhash HTTP server.
type apiClient struct {
	apiURL       string
	apiKey       string
	http         *http.Client
	pollInterval time.Duration
}

func newAPIClient(apiURL, apiKey string) *apiClient {
	return &apiClient{
		apiURL:       strings.TrimRight(apiURL, "/"),
		apiKey:       apiKey,
		http:         &http.Client{Timeout: 60 * time.Second},
		pollInterval: 500 * time.Millisecond,
	}
}

// do sends a request to the API and decodes the JSON response into out.
// Non-2xx responses are turned into an error carrying the API error detail.
func (c *apiClient) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var apiErr models.ErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != nil {
			return fmt.Errorf("%s: %s", apiErr.Error.Code, apiErr.Error.Message)
		}
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// signatureParams reads the optional signing arguments of a tool call.
func signatureParams(request mcp.CallToolRequest) models.SignatureParams {
	p := models.SignatureParams{
		Tokenizer: request.GetString("tokenizer", ""),
		Lowercase: request.GetBool("lowercase", false),
		Shingle:   request.GetInt("shingle", 0),
		HashBit:   request.GetInt("hash_bit", 0),
		NumFuncs:  request.GetInt("num_funcs", 0),
	}
	if seed := request.GetInt("seed", -1); seed >= 0 {
		s := uint32(seed)
		p.Seed = &s
	}
	return p
}

func (c *apiClient) handleSignature(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required"), nil
	}

	var resp models.SignatureResponse
	req := models.SignatureRequest{Text: text, SignatureParams: signatureParams(request)}
	if err := c.do(ctx, http.MethodPost, "/api/v1/signature", req, &resp); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("signature failed: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "signature: %s\n", resp.Signature)
	fmt.Fprintf(&sb, "bits: %d (%d bytes, %d set)\n", resp.Bits, resp.Bytes, resp.BitCount)
	fmt.Fprintf(&sb, "tokens: %d\n", resp.Tokens)
	fmt.Fprintf(&sb, "binary: %s", resp.Binary)
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *apiClient) handleCompare(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := request.RequireString("signature_a")
	if err != nil {
		return mcp.NewToolResultError("signature_a is required"), nil
	}
	b, err := request.RequireString("signature_b")
	if err != nil {
		return mcp.NewToolResultError("signature_b is required"), nil
	}

	var resp models.CompareResponse
	req := models.CompareRequest{SignatureA: a, SignatureB: b, NumBits: request.GetInt("num_bits", 0)}
	if err := c.do(ctx, http.MethodPost, "/api/v1/compare", req, &resp); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("compare failed: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("similarity: %g (%d of %d bits equal)",
		resp.Similarity, resp.SameBits, resp.NumBits)), nil
}

func (c *apiClient) handleSimilarity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := request.RequireString("text_a")
	if err != nil {
		return mcp.NewToolResultError("text_a is required"), nil
	}
	b, err := request.RequireString("text_b")
	if err != nil {
		return mcp.NewToolResultError("text_b is required"), nil
	}

	var resp models.SimilarityResponse
	req := models.SimilarityRequest{TextA: a, TextB: b, SignatureParams: signatureParams(request)}
	if err := c.do(ctx, http.MethodPost, "/api/v1/similarity", req, &resp); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("similarity failed: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "similarity: %g over %d bits\n", resp.Similarity, resp.Bits)
	fmt.Fprintf(&sb, "signature_a: %s\n", resp.SignatureA)
	fmt.Fprintf(&sb, "signature_b: %s", resp.SignatureB)
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *apiClient) handleBatchSignature(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	texts, err := request.RequireStringSlice("texts")
	if err != nil || len(texts) == 0 {
		return mcp.NewToolResultError("texts is required and must be a non-empty array of strings"), nil
	}

	docs := make([]models.BatchDocument, len(texts))
	for i, t := range texts {
		docs[i] = models.BatchDocument{Text: t}
	}

	var accepted models.BatchResponse
	req := models.BatchRequest{Documents: docs, Params: signatureParams(request)}
	if err := c.do(ctx, http.MethodPost, "/api/v1/batch/signature", req, &accepted); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("batch request failed: %v", err)), nil
	}

	status, err := c.pollBatch(ctx, accepted.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("polling batch job failed: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "batch %s %s: %d/%d\n", status.ID, status.Status, status.Completed, status.Total)
	for _, r := range status.Results {
		if r == nil {
			continue
		}
		if r.Error != nil {
			fmt.Fprintf(&sb, "[%d] error: %s\n", r.Index, r.Error.Message)
			continue
		}
		fmt.Fprintf(&sb, "[%d] %s\n", r.Index, r.Signature)
	}
	return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
}

// pollBatch polls a batch job until it leaves the processing state or ctx
// is cancelled.
func (c *apiClient) pollBatch(ctx context.Context, id string) (*models.BatchStatusResponse, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			var status models.BatchStatusResponse
			if err := c.do(ctx, http.MethodGet, "/api/v1/batch/"+id, nil, &status); err != nil {
				return nil, err
			}
			if status.Status != models.BatchProcessing {
				return &status, nil
			}
		}
	}
}
