package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/minhash/config"
	"github.com/use-agent/minhash/minhash"
	"github.com/use-agent/minhash/models"
)

// Combine returns a handler for POST /api/v1/combine. Each field is signed
// with its own parameters and the first num_bits bits of every field are
// concatenated in request order.
func Combine(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.CombineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		fields := make([]minhash.Field, 0, len(req.Fields))
		total := 0
		for i := range req.Fields {
			f := &req.Fields[i]
			if err := checkText(cfg.MinHash, fmt.Sprintf("fields[%d].text", i), f.Text); err != nil {
				respondError(c, err)
				return
			}
			signer, err := newSigner(&f.SignatureParams, cfg.MinHash)
			if err != nil {
				respondError(c, err)
				return
			}
			if f.NumBits == 0 {
				f.NumBits = signer.NumBits()
			}
			total += f.NumBits
			fields = append(fields, minhash.NewField(signer, f.Text, f.NumBits))
		}

		limit := cfg.MinHash.MaxNumFuncs * max(cfg.MinHash.MaxHashBit, 1)
		if cfg.MinHash.MaxNumFuncs > 0 && total > limit {
			respondError(c, models.NewSignatureError(models.ErrCodeInvalidInput,
				fmt.Sprintf("combined signature of %d bits exceeds limit %d", total, limit), nil))
			return
		}

		hashStart := time.Now()
		sig, err := minhash.Calculate(fields...)
		if err != nil {
			respondError(c, models.NewSignatureError(models.ErrCodeInvalidInput, err.Error(), err))
			return
		}
		hashingUs := time.Since(hashStart).Microseconds()

		c.JSON(http.StatusOK, models.CombineResponse{
			Success:   true,
			Signature: minhash.Encode(sig),
			Binary:    minhash.BinaryString(sig),
			Bits:      total,
			Bytes:     len(sig),
			Timing: models.TimingInfo{
				TotalMs:   time.Since(totalStart).Milliseconds(),
				HashingUs: hashingUs,
			},
		})
	}
}
