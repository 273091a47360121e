package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	body := []byte(`{"type":"batch.completed"}`)
	sig := Sign("s3cret", body)

	assert.Regexp(t, `^sha256=[0-9a-f]{64}$`, sig)
	assert.True(t, Verify("s3cret", body, sig))
	assert.False(t, Verify("other", body, sig))
	assert.False(t, Verify("s3cret", []byte("{}"), sig))
	assert.False(t, Verify("s3cret", body, sig[len("sha256="):]))
}

func TestDeliver(t *testing.T) {
	var got Event
	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		header = r.Header.Get(SignatureHeader)
		if !Verify("key", body, header) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ev := &Event{Type: EventBatchCompleted, JobID: "batch-1", Timestamp: 42, Data: map[string]int{"total": 3}}
	require.NoError(t, Deliver(context.Background(), srv.URL, "key", ev))
	assert.Equal(t, EventBatchCompleted, got.Type)
	assert.Equal(t, "batch-1", got.JobID)
	assert.NotEmpty(t, header)

	err := Deliver(context.Background(), srv.URL, "wrong", ev)
	assert.ErrorContains(t, err, "status 403")
}

func TestDeliver_NoSecretNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(SignatureHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
	}))
	defer srv.Close()

	require.NoError(t, Deliver(context.Background(), srv.URL, "", &Event{Type: EventBatchCompleted}))
}

func TestDeliverAsync_Retries(t *testing.T) {
	orig := retryDelays
	retryDelays = []time.Duration{0, time.Millisecond, time.Millisecond}
	defer func() { retryDelays = orig }()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	err := <-DeliverAsync(srv.URL, "", &Event{Type: EventBatchCompleted, JobID: "b"})
	assert.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDeliverAsync_Exhausted(t *testing.T) {
	orig := retryDelays
	retryDelays = []time.Duration{0, time.Millisecond}
	defer func() { retryDelays = orig }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := <-DeliverAsync(srv.URL, "", &Event{Type: EventBatchCompleted})
	assert.ErrorContains(t, err, "status 500")
}
