package model

import (
	"sync"
	"time"
)

// TraceRecord is one diagnostic entry for an upstream call.
type TraceRecord struct {
	Time       time.Time `json:"time"`
	Tag        string    `json:"tag"`
	HTTPStatus int       `json:"http_status"`
	ErrCode    string    `json:"err_code,omitempty"`
	Error      string    `json:"error,omitempty"`
	LatencyMs  int64     `json:"latency_ms"`
}

// Trace collects records for a single render. A nil *Trace discards everything.
type Trace struct {
	mu      sync.Mutex
	records []TraceRecord
}

func NewTrace() *Trace { return &Trace{} }

// Add appends a record. Safe for concurrent use.
func (t *Trace) Add(rec TraceRecord) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.records = append(t.records, rec)
	t.mu.Unlock()
}

// Records returns a copy of the collected records.
func (t *Trace) Records() []TraceRecord {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TraceRecord, len(t.records))
	copy(out, t.records)
	return out
}
