package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	apiURL := os.Getenv("MINHASH_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	// An empty key is allowed for servers running with auth disabled.
	c := newAPIClient(apiURL, os.Getenv("MINHASH_API_KEY"))

	s := server.NewMCPServer(
		"minhash",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("minhash_signature",
		withSignatureParams(
			mcp.WithDescription("Compute a b-bit MinHash signature of a text. The fraction of equal bits between two signatures estimates the Jaccard similarity of their token sets."),
			mcp.WithString("text",
				mcp.Required(),
				mcp.Description("The text (or HTML document for the html/dom tokenizers) to sign"),
			),
		)...,
	), c.handleSignature)

	s.AddTool(mcp.NewTool("minhash_compare",
		mcp.WithDescription("Compare two base64 MinHash signatures and return the fraction of equal bits (0 to 1)."),
		mcp.WithString("signature_a",
			mcp.Required(),
			mcp.Description("First signature, standard base64"),
		),
		mcp.WithString("signature_b",
			mcp.Required(),
			mcp.Description("Second signature, standard base64"),
		),
		mcp.WithNumber("num_bits",
			mcp.Description("Logical signature length in bits when it is not a multiple of 8"),
		),
	), c.handleCompare)

	s.AddTool(mcp.NewTool("minhash_similarity",
		withSignatureParams(
			mcp.WithDescription("Estimate the Jaccard similarity of two texts by signing both with the same parameters and comparing the signatures."),
			mcp.WithString("text_a",
				mcp.Required(),
				mcp.Description("First text"),
			),
			mcp.WithString("text_b",
				mcp.Required(),
				mcp.Description("Second text"),
			),
		)...,
	), c.handleSimilarity)

	s.AddTool(mcp.NewTool("minhash_batch_signature",
		withSignatureParams(
			mcp.WithDescription("Sign many texts at once with shared parameters. Waits for the batch job to finish and returns one signature per text."),
			mcp.WithArray("texts",
				mcp.Required(),
				mcp.Description("Texts to sign"),
				mcp.WithStringItems(),
			),
		)...,
	), c.handleBatchSignature)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}

// withSignatureParams appends the optional tokenizer and hash family
// arguments shared by every signing tool.
func withSignatureParams(opts ...mcp.ToolOption) []mcp.ToolOption {
	return append(opts,
		mcp.WithString("tokenizer",
			mcp.Description("Token source: 'whitespace' (default), 'html' (visible text of an HTML page), or 'dom' (tag structure)"),
			mcp.Enum("whitespace", "html", "dom"),
		),
		mcp.WithBoolean("lowercase",
			mcp.Description("Lowercase tokens before hashing"),
		),
		mcp.WithNumber("shingle",
			mcp.Description("Group consecutive tokens into word n-grams of this size"),
		),
		mcp.WithNumber("hash_bit",
			mcp.Description("Bits kept per hash function (default 1)"),
		),
		mcp.WithNumber("seed",
			mcp.Description("Base seed of the hash family (default 0)"),
		),
		mcp.WithNumber("num_funcs",
			mcp.Description("Number of hash functions (default 128)"),
		),
	)
}
