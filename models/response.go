package models

// SignatureResponse is the response for POST /api/v1/signature.
type SignatureResponse struct {
	// Success indicates whether the signature was produced.
	Success bool `json:"success"`

	// Signature is the standard base64 encoding of the signature bytes.
	Signature string `json:"signature"`

	// Binary renders the signature as '0'/'1', most significant bit of
	// each byte first.
	Binary string `json:"binary"`

	// Bits is the logical signature length (num_funcs * hash_bit).
	Bits int `json:"bits"`

	// Bytes is the encoded signature length.
	Bytes int `json:"bytes"`

	// BitCount is the number of set bits.
	BitCount int `json:"bit_count"`

	// Tokens is the number of tokens observed. Omitted on cache hits.
	Tokens int `json:"tokens,omitempty"`

	// Params echoes the effective parameters after defaults.
	Params *SignatureParams `json:"params,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (cache disabled or bypassed).
	CacheStatus string `json:"cache_status,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// CompareResponse is the response for POST /api/v1/compare.
type CompareResponse struct {
	Success    bool         `json:"success"`
	Similarity float64      `json:"similarity"`
	NumBits    int          `json:"num_bits"`
	SameBits   int          `json:"same_bits"`
	Error      *ErrorDetail `json:"error,omitempty"`
}

// SimilarityResponse is the response for POST /api/v1/similarity.
type SimilarityResponse struct {
	Success    bool         `json:"success"`
	Similarity float64      `json:"similarity"`
	SignatureA string       `json:"signature_a"`
	SignatureB string       `json:"signature_b"`
	Bits       int          `json:"bits"`
	Timing     TimingInfo   `json:"timing"`
	Error      *ErrorDetail `json:"error,omitempty"`
}

// CombineResponse is the response for POST /api/v1/combine.
type CombineResponse struct {
	Success   bool         `json:"success"`
	Signature string       `json:"signature"`
	Binary    string       `json:"binary"`
	Bits      int          `json:"bits"`
	Bytes     int          `json:"bytes"`
	Timing    TimingInfo   `json:"timing"`
	Error     *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// HashingUs is the time spent tokenizing and hashing, in microseconds.
	HashingUs int64 `json:"hashing_us"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status   string         `json:"status"` // "healthy" or "degraded"
	Uptime   string         `json:"uptime"`
	Version  string         `json:"version"`
	Defaults HealthDefaults `json:"defaults"`
	Cache    CacheStats     `json:"cache"`

	// ActiveBatches is the number of batch jobs still processing.
	ActiveBatches int `json:"active_batches"`
}

// HealthDefaults reports the parameters applied when a request omits them.
type HealthDefaults struct {
	Tokenizer  string   `json:"tokenizer"`
	Tokenizers []string `json:"tokenizers"`
	HashBit    int      `json:"hash_bit"`
	Seed       uint32   `json:"seed"`
	NumFuncs   int      `json:"num_funcs"`
}

// CacheStats reports the state of the signature cache.
type CacheStats struct {
	Enabled    bool  `json:"enabled"`
	Entries    int   `json:"entries"`
	MaxEntries int   `json:"max_entries"`
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
}
