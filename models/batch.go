package models

import "sync"

// BatchResponse is the immediate response for POST /api/v1/batch/signature.
type BatchResponse struct {
	Success bool         `json:"success"`
	ID      string       `json:"id,omitempty"`
	Status  string       `json:"status,omitempty"`
	Total   int          `json:"total"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// BatchStatusResponse is the response for GET /api/v1/batch/:id.
type BatchStatusResponse struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"`
	Completed int            `json:"completed"`
	Total     int            `json:"total"`
	Results   []*BatchResult `json:"results,omitempty"`
}

// BatchResult is the signature of one batch document.
type BatchResult struct {
	Index     int          `json:"index"`
	ID        string       `json:"id,omitempty"`
	Signature string       `json:"signature,omitempty"`
	BitCount  int          `json:"bit_count"`
	Tokens    int          `json:"tokens"`
	Error     *ErrorDetail `json:"error,omitempty"`
}

// Batch job states.
const (
	BatchProcessing = "processing"
	BatchCompleted  = "completed"
	BatchPartial    = "partial"
	BatchFailed     = "failed"
)

// BatchJob tracks an in-progress batch signing operation.
type BatchJob struct {
	mu sync.RWMutex

	ID        string
	Status    string
	Total     int
	Completed int
	Results   []*BatchResult
	CreatedAt int64 // unix timestamp
}

// Record stores the result at idx and bumps the completed counter.
func (j *BatchJob) Record(idx int, r *BatchResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Results[idx] = r
	j.Completed++
}

// Finish sets the final status.
func (j *BatchJob) Finish(status string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
}

// Snapshot returns a consistent copy for serialization.
func (j *BatchJob) Snapshot() BatchStatusResponse {
	j.mu.RLock()
	defer j.mu.RUnlock()
	results := make([]*BatchResult, len(j.Results))
	copy(results, j.Results)
	return BatchStatusResponse{
		ID:        j.ID,
		Status:    j.Status,
		Completed: j.Completed,
		Total:     j.Total,
		Results:   results,
	}
}
