package handler

import (
	"errors"
	"fmt"
	"iter"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/minhash/config"
	"github.com/use-agent/minhash/minhash"
	"github.com/use-agent/minhash/models"
	"github.com/use-agent/minhash/tokenize"
)

// paramDefaults extracts the request fallbacks from configuration.
func paramDefaults(cfg config.MinHashConfig) models.ParamDefaults {
	return models.ParamDefaults{
		Tokenizer: cfg.Tokenizer,
		HashBit:   cfg.HashBit,
		Seed:      cfg.Seed,
		NumFuncs:  cfg.NumFuncs,
	}
}

// newSigner applies defaults to p, enforces the configured limits and builds
// the tokenizer and signer it describes.
func newSigner(p *models.SignatureParams, cfg config.MinHashConfig) (*minhash.Signer, error) {
	p.Defaults(paramDefaults(cfg))

	if cfg.MaxHashBit > 0 && p.HashBit > cfg.MaxHashBit {
		return nil, models.NewSignatureError(models.ErrCodeInvalidInput,
			fmt.Sprintf("hash_bit %d exceeds limit %d", p.HashBit, cfg.MaxHashBit), nil)
	}
	if cfg.MaxNumFuncs > 0 && p.NumFuncs > cfg.MaxNumFuncs {
		return nil, models.NewSignatureError(models.ErrCodeInvalidInput,
			fmt.Sprintf("num_funcs %d exceeds limit %d", p.NumFuncs, cfg.MaxNumFuncs), nil)
	}

	tok, err := tokenize.ByName(p.Tokenizer, tokenize.Options{
		Lowercase:  p.Lowercase,
		Shingle:    p.Shingle,
		HTMLMode:   p.HTMLMode,
		Selector:   p.CSSSelector,
		Exclude:    p.ExcludeSelectors,
		SourceURL:  p.SourceURL,
		DOMShingle: p.DOMShingle,
	})
	if err != nil {
		return nil, models.NewSignatureError(models.ErrCodeInvalidTokenizer, err.Error(), err)
	}

	s, err := minhash.NewSigner(tok, p.HashBit, *p.Seed, p.NumFuncs)
	if err != nil {
		return nil, models.NewSignatureError(models.ErrCodeInvalidInput, err.Error(), err)
	}
	return s, nil
}

// checkText rejects texts larger than the configured limit.
func checkText(cfg config.MinHashConfig, name, text string) error {
	if cfg.MaxTextBytes > 0 && len(text) > cfg.MaxTextBytes {
		return models.NewSignatureError(models.ErrCodeInvalidInput,
			fmt.Sprintf("%s is %d bytes, limit is %d", name, len(text), cfg.MaxTextBytes), nil)
	}
	return nil
}

// counted wraps seq so that *n holds the number of tokens yielded.
func counted(seq iter.Seq[string], n *int) iter.Seq[string] {
	return func(yield func(string) bool) {
		for t := range seq {
			*n++
			if !yield(t) {
				return
			}
		}
	}
}

// signText signs text with s and reports the number of tokens observed.
func signText(s *minhash.Signer, b *minhash.Builder, text string) ([]byte, int) {
	n := 0
	b.Reset()
	b.ObserveAll(counted(s.Tokens(text), &n))
	return b.Finalize(), n
}

// respondError maps an error to the correct HTTP status code and writes a
// structured JSON error response.
func respondError(c *gin.Context, err error) {
	var sigErr *models.SignatureError
	if !errors.As(err, &sigErr) {
		sigErr = models.NewSignatureError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(sigErr), models.ErrorResponse{
		Success: false,
		Error:   sigErr.ToDetail(),
	})
}

// badRequest reports a binding or validation failure.
func badRequest(c *gin.Context, err error) {
	respondError(c, models.NewSignatureError(models.ErrCodeInvalidInput, err.Error(), err))
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.SignatureError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput, models.ErrCodeInvalidEncoding, models.ErrCodeInvalidTokenizer:
		return http.StatusBadRequest // 400
	case models.ErrCodeNotFound:
		return http.StatusNotFound // 404
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
