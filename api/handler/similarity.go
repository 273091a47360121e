package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/minhash/config"
	"github.com/use-agent/minhash/minhash"
	"github.com/use-agent/minhash/models"
)

// Similarity returns a handler for POST /api/v1/similarity. Both texts are
// signed with the same parameters and the signatures compared.
func Similarity(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.SimilarityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := checkText(cfg.MinHash, "text_a", req.TextA); err != nil {
			respondError(c, err)
			return
		}
		if err := checkText(cfg.MinHash, "text_b", req.TextB); err != nil {
			respondError(c, err)
			return
		}
		signer, err := newSigner(&req.SignatureParams, cfg.MinHash)
		if err != nil {
			respondError(c, err)
			return
		}

		hashStart := time.Now()
		b := signer.NewBuilder()
		a, _ := signText(signer, b, req.TextA)
		bb, _ := signText(signer, b, req.TextB)
		hashingUs := time.Since(hashStart).Microseconds()

		c.JSON(http.StatusOK, models.SimilarityResponse{
			Success:    true,
			Similarity: minhash.CompareBits(signer.NumBits(), a, bb),
			SignatureA: minhash.Encode(a),
			SignatureB: minhash.Encode(bb),
			Bits:       signer.NumBits(),
			Timing: models.TimingInfo{
				TotalMs:   time.Since(totalStart).Milliseconds(),
				HashingUs: hashingUs,
			},
		})
	}
}
