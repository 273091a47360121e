package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/minhash/cache"
	"github.com/use-agent/minhash/config"
	"github.com/use-agent/minhash/minhash"
	"github.com/use-agent/minhash/models"
)

// Signature returns a handler for POST /api/v1/signature.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Cache lookup keyed by text and effective parameters.
//  3. Tokenize + hash                           (records hashing_us)
//  4. Cache store, respond.
func Signature(cfg *config.Config, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.SignatureRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := checkText(cfg.MinHash, "text", req.Text); err != nil {
			respondError(c, err)
			return
		}
		signer, err := newSigner(&req.SignatureParams, cfg.MinHash)
		if err != nil {
			respondError(c, err)
			return
		}

		// ── 2. Cache lookup ─────────────────────────────────────────
		useCache := cc != nil && !req.NoCache
		var cacheKey string
		if useCache {
			cacheKey = cache.Key(req.Text, &req.SignatureParams)
			if e, hit := cc.Get(cacheKey); hit {
				resp := signatureResponse(signer, e.Signature, e.Tokens, &req.SignatureParams)
				resp.CacheStatus = "hit"
				resp.Timing.TotalMs = time.Since(totalStart).Milliseconds()
				c.JSON(http.StatusOK, resp)
				return
			}
		}

		// ── 3. Sign ─────────────────────────────────────────────────
		hashStart := time.Now()
		sig, tokens := signText(signer, signer.NewBuilder(), req.Text)
		hashingUs := time.Since(hashStart).Microseconds()

		// ── 4. Cache store + respond ────────────────────────────────
		resp := signatureResponse(signer, sig, tokens, &req.SignatureParams)
		if useCache {
			cc.Set(cacheKey, sig, tokens)
			resp.CacheStatus = "miss"
		}
		resp.Timing = models.TimingInfo{
			TotalMs:   time.Since(totalStart).Milliseconds(),
			HashingUs: hashingUs,
		}
		c.JSON(http.StatusOK, resp)
	}
}

func signatureResponse(s *minhash.Signer, sig []byte, tokens int, p *models.SignatureParams) *models.SignatureResponse {
	return &models.SignatureResponse{
		Success:   true,
		Signature: minhash.Encode(sig),
		Binary:    minhash.BinaryString(sig),
		Bits:      s.NumBits(),
		Bytes:     len(sig),
		BitCount:  minhash.BitCount(sig),
		Tokens:    tokens,
		Params:    p,
	}
}
