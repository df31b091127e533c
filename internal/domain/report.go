package domain

// Success pairs a work item key with the record it produced.
type Success[T any] struct {
	Key    string `json:"key"`
	Record T      `json:"record"`
}

// Outcome is a non-successful work item with a human-readable reason.
type Outcome struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// Report is the per-item result of a batch. Skipped holds benign outcomes
// (already ingested, judged not relevant); Failed holds errors.
type Report[T any] struct {
	Succeeded []Success[T] `json:"succeeded"`
	Skipped   []Outcome    `json:"skipped"`
	Failed    []Outcome    `json:"failed"`
}

// NewReport returns a report whose buckets encode as empty arrays.
func NewReport[T any]() *Report[T] {
	return &Report[T]{
		Succeeded: []Success[T]{},
		Skipped:   []Outcome{},
		Failed:    []Outcome{},
	}
}

func (r *Report[T]) Succeed(key string, record T) {
	r.Succeeded = append(r.Succeeded, Success[T]{Key: key, Record: record})
}

func (r *Report[T]) Skip(key, reason string) {
	r.Skipped = append(r.Skipped, Outcome{Key: key, Reason: reason})
}

func (r *Report[T]) Fail(key, reason string) {
	r.Failed = append(r.Failed, Outcome{Key: key, Reason: reason})
}

// Attempted is the number of items that reached a terminal outcome.
func (r *Report[T]) Attempted() int {
	return len(r.Succeeded) + len(r.Skipped) + len(r.Failed)
}
