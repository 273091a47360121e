package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureParams_Defaults(t *testing.T) {
	d := ParamDefaults{Tokenizer: "whitespace", HashBit: 1, Seed: 7, NumFuncs: 128}

	var p SignatureParams
	p.Defaults(d)
	assert.Equal(t, "whitespace", p.Tokenizer)
	assert.Equal(t, 1, p.HashBit)
	require.NotNil(t, p.Seed)
	assert.Equal(t, uint32(7), *p.Seed)
	assert.Equal(t, 128, p.NumFuncs)
	assert.Empty(t, p.HTMLMode)

	zero := uint32(0)
	p = SignatureParams{Tokenizer: "html", HashBit: 2, Seed: &zero, NumFuncs: 16}
	p.Defaults(d)
	assert.Equal(t, "readability", p.HTMLMode)
	assert.Equal(t, 2, p.HashBit)
	assert.Equal(t, uint32(0), *p.Seed, "explicit zero seed must survive defaults")
	assert.Equal(t, 16, p.NumFuncs)
}

func TestSignatureError(t *testing.T) {
	cause := errors.New("boom")
	err := NewSignatureError(ErrCodeInvalidEncoding, "bad base64", cause)

	assert.Equal(t, "INVALID_ENCODING: bad base64: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, &ErrorDetail{Code: ErrCodeInvalidEncoding, Message: "bad base64"}, err.ToDetail())

	bare := NewSignatureError(ErrCodeInternal, "oops", nil)
	assert.Equal(t, "INTERNAL_ERROR: oops", bare.Error())
}

func TestBatchJob_Snapshot(t *testing.T) {
	job := &BatchJob{ID: "batch-1", Status: BatchProcessing, Total: 2, Results: make([]*BatchResult, 2)}
	job.Record(1, &BatchResult{Index: 1, Signature: "AA=="})

	snap := job.Snapshot()
	assert.Equal(t, 1, snap.Completed)
	assert.Nil(t, snap.Results[0])
	assert.Equal(t, "AA==", snap.Results[1].Signature)

	job.Record(0, &BatchResult{Index: 0})
	job.Finish(BatchCompleted)
	assert.Nil(t, snap.Results[0], "snapshot must not alias job results")
	assert.Equal(t, BatchCompleted, job.Snapshot().Status)
}
