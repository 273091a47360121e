package models

// SignatureParams selects the tokenizer and hash family for one signature.
// Zero values are replaced by server defaults in Defaults.
type SignatureParams struct {
	// Tokenizer names the token source: "whitespace" (default), "html", "dom".
	Tokenizer string `json:"tokenizer,omitempty" binding:"omitempty,oneof=whitespace html dom"`

	// Lowercase folds tokens to lower case before hashing.
	Lowercase bool `json:"lowercase,omitempty"`

	// Shingle groups consecutive tokens into word n-grams when > 1.
	Shingle int `json:"shingle,omitempty" binding:"omitempty,min=1,max=16"`

	// HTMLMode is "readability" (default) or "raw"; html tokenizer only.
	HTMLMode string `json:"html_mode,omitempty" binding:"omitempty,oneof=readability raw"`

	// CSSSelector scopes html text extraction to matching elements.
	CSSSelector string `json:"css_selector,omitempty"`

	// ExcludeSelectors are removed from the document before extraction.
	ExcludeSelectors []string `json:"exclude_selectors,omitempty"`

	// SourceURL is the document location handed to readability.
	SourceURL string `json:"source_url,omitempty" binding:"omitempty,url"`

	// DOMShingle is the tag n-gram size of the dom tokenizer. Default: 3.
	DOMShingle int `json:"dom_shingle,omitempty" binding:"omitempty,min=1,max=16"`

	// HashBit is the number of bits kept per hash function.
	HashBit int `json:"hash_bit,omitempty" binding:"omitempty,min=1"`

	// Seed is the base seed of the hash family. A nil seed uses the default.
	Seed *uint32 `json:"seed,omitempty"`

	// NumFuncs is the number of hash functions.
	NumFuncs int `json:"num_funcs,omitempty" binding:"omitempty,min=1"`
}

// ParamDefaults carries the server-side fallbacks for SignatureParams.
type ParamDefaults struct {
	Tokenizer string
	HashBit   int
	Seed      uint32
	NumFuncs  int
}

// Defaults applies default values to unset fields.
func (p *SignatureParams) Defaults(d ParamDefaults) {
	if p.Tokenizer == "" {
		p.Tokenizer = d.Tokenizer
	}
	if p.HashBit == 0 {
		p.HashBit = d.HashBit
	}
	if p.Seed == nil {
		s := d.Seed
		p.Seed = &s
	}
	if p.NumFuncs == 0 {
		p.NumFuncs = d.NumFuncs
	}
	if p.Tokenizer == "html" && p.HTMLMode == "" {
		p.HTMLMode = "readability"
	}
}

// SignatureRequest is the payload for POST /api/v1/signature.
type SignatureRequest struct {
	// Text is the document to sign. An empty text is valid and yields the
	// all-sentinel signature.
	Text string `json:"text"`

	SignatureParams

	// NoCache bypasses the signature cache for this request.
	NoCache bool `json:"no_cache,omitempty"`
}

// CompareRequest is the payload for POST /api/v1/compare.
type CompareRequest struct {
	// SignatureA and SignatureB are standard base64 signatures.
	SignatureA string `json:"signature_a"`
	SignatureB string `json:"signature_b"`

	// NumBits overrides the number of bits used as the denominator, for
	// signatures whose bit length is not a multiple of 8.
	NumBits int `json:"num_bits,omitempty" binding:"omitempty,min=1"`
}

// SimilarityRequest is the payload for POST /api/v1/similarity.
type SimilarityRequest struct {
	TextA string `json:"text_a"`
	TextB string `json:"text_b"`

	SignatureParams
}

// CombineField is one field of a CombineRequest.
type CombineField struct {
	Text string `json:"text"`

	// NumBits is how many bits of this field's signature are kept.
	// Default: the field signature's full bit length.
	NumBits int `json:"num_bits,omitempty" binding:"omitempty,min=1"`

	SignatureParams
}

// CombineRequest is the payload for POST /api/v1/combine.
type CombineRequest struct {
	Fields []CombineField `json:"fields" binding:"required,min=1,max=32,dive"`
}

// BatchRequest is the payload for POST /api/v1/batch/signature.
type BatchRequest struct {
	// Documents are signed with the shared Params. Required.
	Documents []BatchDocument `json:"documents" binding:"required,min=1,dive"`

	// Params applies to every document in the batch.
	Params SignatureParams `json:"params"`

	WebhookURL    string `json:"webhook_url,omitempty" binding:"omitempty,url"`
	WebhookSecret string `json:"webhook_secret,omitempty"`
}

// BatchDocument is one text in a batch, with an optional caller-chosen id.
type BatchDocument struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}
