package app

import "time"

// Operation tracks the CLI command an App was built for. Its ID tags every
// log line written during the run, and its status is logged on Close.
type Operation struct {
	ID        string // UTC start time, e.g. 20240115T103000Z
	Name      string
	StartedAt time.Time
	Status    string // "success" or "error"
	failures  int
}

// NewOperation creates an Operation that starts at now.
func NewOperation(name string, now time.Time) *Operation {
	now = now.UTC()
	return &Operation{
		ID:        now.Format("20060102T150405Z"),
		Name:      name,
		StartedAt: now,
		Status:    "success",
	}
}

// Record notes the outcome of one step. Any error marks the operation failed.
func (op *Operation) Record(err error) {
	if err != nil {
		op.failures++
		op.Status = "error"
	}
}

// Failures returns how many recorded steps failed.
func (op *Operation) Failures() int {
	return op.failures
}
