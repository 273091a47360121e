package handler

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/minhash/minhash"
	"github.com/use-agent/minhash/models"
)

// Compare returns a handler for POST /api/v1/compare.
//
// Absent or length-mismatched signatures are not errors: they compare as 0.
// Only undecodable base64 is rejected.
func Compare() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CompareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		var (
			sim float64
			err error
		)
		if req.NumBits > 0 {
			sim, err = minhash.CompareBase64Bits(req.NumBits, req.SignatureA, req.SignatureB)
		} else {
			sim, err = minhash.CompareBase64(req.SignatureA, req.SignatureB)
		}
		if err != nil {
			if errors.Is(err, minhash.ErrInvalidEncoding) {
				respondError(c, models.NewSignatureError(models.ErrCodeInvalidEncoding, err.Error(), err))
				return
			}
			respondError(c, err)
			return
		}

		numBits := req.NumBits
		if numBits == 0 {
			// Decoding already succeeded above.
			a, _ := minhash.Decode(req.SignatureA)
			numBits = len(a) * 8
		}

		c.JSON(http.StatusOK, models.CompareResponse{
			Success:    true,
			Similarity: sim,
			NumBits:    numBits,
			SameBits:   int(math.Round(sim * float64(numBits))),
		})
	}
}
