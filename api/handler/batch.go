package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/use-agent/minhash/config"
	"github.com/use-agent/minhash/minhash"
	"github.com/use-agent/minhash/models"
	"github.com/use-agent/minhash/webhook"
)

// BatchStore holds all in-flight and completed batch jobs.
type BatchStore struct {
	jobs   sync.Map // id -> *models.BatchJob
	active atomic.Int32
}

// NewBatchStore creates a BatchStore. A background goroutine expires jobs
// older than ttl every 5 minutes.
func NewBatchStore(ttl time.Duration) *BatchStore {
	s := &BatchStore{}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			s.expire(time.Now().Add(-ttl).Unix())
		}
	}()
	return s
}

// Active returns the number of jobs still processing.
func (s *BatchStore) Active() int { return int(s.active.Load()) }

func (s *BatchStore) expire(cutoff int64) {
	s.jobs.Range(func(key, value any) bool {
		job := value.(*models.BatchJob)
		if job.CreatedAt < cutoff {
			s.jobs.Delete(key)
		}
		return true
	})
}

// PostBatch returns a handler for POST /api/v1/batch/signature.
// It validates the request, creates a batch job, and signs the documents in
// the background with a bounded worker pool.
func PostBatch(cfg *config.Config, store *BatchStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.BatchResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		if limit := cfg.Batch.MaxDocuments; limit > 0 && len(req.Documents) > limit {
			respondError(c, models.NewSignatureError(models.ErrCodeInvalidInput,
				fmt.Sprintf("maximum %d documents per batch", limit), nil))
			return
		}
		for i, d := range req.Documents {
			if err := checkText(cfg.MinHash, fmt.Sprintf("documents[%d].text", i), d.Text); err != nil {
				respondError(c, err)
				return
			}
		}
		signer, err := newSigner(&req.Params, cfg.MinHash)
		if err != nil {
			respondError(c, err)
			return
		}

		jobID := "batch-" + uuid.NewString()
		job := &models.BatchJob{
			ID:        jobID,
			Status:    models.BatchProcessing,
			Total:     len(req.Documents),
			Results:   make([]*models.BatchResult, len(req.Documents)),
			CreatedAt: time.Now().Unix(),
		}
		store.jobs.Store(jobID, job)
		store.active.Add(1)

		secret := req.WebhookSecret
		if secret == "" {
			secret = cfg.Webhook.Secret
		}

		// Launch signing in background.
		go func() {
			defer store.active.Add(-1)
			runBatch(signer, job, req.Documents, cfg.Batch.Workers)
			if req.WebhookURL != "" {
				webhook.DeliverAsync(req.WebhookURL, secret, &webhook.Event{
					Type:      webhook.EventBatchCompleted,
					JobID:     job.ID,
					Timestamp: time.Now().Unix(),
					Data:      job.Snapshot(),
				})
			}
		}()

		c.JSON(http.StatusAccepted, models.BatchResponse{
			Success: true,
			ID:      jobID,
			Status:  models.BatchProcessing,
			Total:   len(req.Documents),
		})
	}
}

// GetBatch returns a handler for GET /api/v1/batch/:id.
func GetBatch(store *BatchStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("id")
		val, ok := store.jobs.Load(jobID)
		if !ok {
			respondError(c, models.NewSignatureError(models.ErrCodeNotFound, "batch job not found", nil))
			return
		}

		c.JSON(http.StatusOK, val.(*models.BatchJob).Snapshot())
	}
}

// runBatch signs every document with a fixed pool of workers. Each worker
// owns one Builder and reuses it through Reset.
func runBatch(signer *minhash.Signer, job *models.BatchJob, docs []models.BatchDocument, workers int) {
	if workers <= 0 {
		workers = 4
	}
	workers = min(workers, len(docs))

	indexes := make(chan int)
	var wg sync.WaitGroup
	var failed atomic.Int32

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := signer.NewBuilder()
			for idx := range indexes {
				res := signOne(signer, b, idx, docs[idx])
				if res.Error != nil {
					failed.Add(1)
				}
				job.Record(idx, res)
			}
		}()
	}

	for i := range docs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	failedCount := int(failed.Load())
	status := models.BatchCompleted
	switch {
	case failedCount == job.Total:
		status = models.BatchFailed
	case failedCount > 0:
		status = models.BatchPartial
	}
	job.Finish(status)

	slog.Info("batch job finished",
		"id", job.ID,
		"status", status,
		"failed", failedCount,
		"total", job.Total,
		"workers", workers,
	)
}

// signOne signs a single document, turning a tokenizer panic into a
// per-document error so one bad input cannot take down the batch.
func signOne(signer *minhash.Signer, b *minhash.Builder, idx int, doc models.BatchDocument) (res *models.BatchResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("batch document panicked", "index", idx, "panic", r)
			res = &models.BatchResult{
				Index: idx,
				ID:    doc.ID,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInternal,
					Message: fmt.Sprint(r),
				},
			}
		}
	}()

	sig, tokens := signText(signer, b, doc.Text)
	return &models.BatchResult{
		Index:     idx,
		ID:        doc.ID,
		Signature: minhash.Encode(sig),
		BitCount:  minhash.BitCount(sig),
		Tokens:    tokens,
	}
}
