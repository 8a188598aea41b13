package store

import "time"

// TaskRow is a persisted task: content-hash id, type identifier, and
// the canonical JSON payload. Decoding through the registry happens in
// the engine; the store speaks raw rows.
type TaskRow struct {
	ID   string
	Type string
	Data string
}

// MethodRow is a persisted method. Same shape as TaskRow.
type MethodRow struct {
	ID   string
	Type string
	Data string
}

// RunRow is one persisted run record.
type RunRow struct {
	ID         string
	Seq        int64
	TaskID     string
	MethodID   string
	ResultType string
	Result     string
	CreatedAt  time.Time
}

// RunFilter narrows a run listing. Zero-value fields do not filter;
// both set combine conjunctively.
type RunFilter struct {
	TaskType   string
	MethodType string
}
