package testutil

import (
	"errors"
	"testing"

	"secupload/internal/registry"
	"secupload/internal/upload"
)

// ErrBackendDown is returned by every FailingRegistry operation.
var ErrBackendDown = errors.New("backend down")

// NewTestRegistry creates a new in-memory SQLite registry with the schema applied.
// The registry is automatically closed when the test completes.
func NewTestRegistry(t *testing.T) upload.Registry {
	t.Helper()

	reg, err := registry.NewSQLiteRegistry(registry.MemoryDSN)
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}

	t.Cleanup(func() {
		reg.Close()
	})

	return reg
}

// FailingRegistry is a Registry whose backend is unreachable.
type FailingRegistry struct{}

func (FailingRegistry) Get(string) (upload.StoredFile, bool, error) {
	return upload.StoredFile{}, false, ErrBackendDown
}

func (FailingRegistry) Insert(upload.StoredFile) error { return ErrBackendDown }

func (FailingRegistry) List() ([]upload.StoredFile, error) { return nil, ErrBackendDown }

func (FailingRegistry) Close() error { return nil }

var _ upload.Registry = FailingRegistry{}
