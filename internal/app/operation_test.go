package app

import (
	"errors"
	"testing"
	"time"
)

func TestNewOperation(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 30, 0, 0, time.FixedZone("CET", 3600))

	op := NewOperation("upload", start)

	if op.Name != "upload" {
		t.Errorf("Name = %q, want %q", op.Name, "upload")
	}
	if op.ID != "20240115T093000Z" {
		t.Errorf("ID = %q, want %q", op.ID, "20240115T093000Z")
	}
	if !op.StartedAt.Equal(start) {
		t.Errorf("StartedAt = %v, want %v", op.StartedAt, start)
	}
	if op.Status != "success" {
		t.Errorf("Status = %q, want %q", op.Status, "success")
	}
}

func TestOperation_Record(t *testing.T) {
	tests := []struct {
		name         string
		errs         []error
		wantStatus   string
		wantFailures int
	}{
		{name: "no steps", wantStatus: "success"},
		{name: "all succeed", errs: []error{nil, nil}, wantStatus: "success"},
		{name: "one failure", errs: []error{nil, errors.New("boom"), nil}, wantStatus: "error", wantFailures: 1},
		{name: "failure is sticky", errs: []error{errors.New("a"), errors.New("b"), nil}, wantStatus: "error", wantFailures: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperation("upload", time.Now())
			for _, err := range tt.errs {
				op.Record(err)
			}
			if op.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", op.Status, tt.wantStatus)
			}
			if op.Failures() != tt.wantFailures {
				t.Errorf("Failures() = %d, want %d", op.Failures(), tt.wantFailures)
			}
		})
	}
}
