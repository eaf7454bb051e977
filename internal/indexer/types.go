package indexer

// ProgressFunc reports per-item progress during bulk embedding.
type ProgressFunc func(current, total int, entityID string)

// BulkResult summarizes a bulk embedding run. Per-item failures are collected
// here; they never abort the batch.
type BulkResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Total   int      `json:"total"`
	Errors  []string `json:"errors,omitempty"`
}

func (r *BulkResult) addError(err error) {
	r.Failed++
	r.Errors = append(r.Errors, err.Error())
}

func (r *BulkResult) merge(other *BulkResult) {
	r.Success += other.Success
	r.Failed += other.Failed
	r.Total += other.Total
	r.Errors = append(r.Errors, other.Errors...)
}
