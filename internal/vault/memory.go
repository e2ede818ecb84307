package vault

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"secupload/internal/upload"
)

// ErrContentNotFound is returned by GetContent for an id that was never stored.
var ErrContentNotFound = errors.New("content not found")

// MemoryVault is an in-memory implementation of the upload.Vault interface.
// It keeps all content in memory, making it useful for testing.
// This implementation is safe for concurrent use.
type MemoryVault struct {
	name    string
	content map[string][]byte // content id -> bytes
	mu      sync.RWMutex
}

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:    name,
		content: make(map[string][]byte),
	}
}

// PutContent stores content under its content id.
func (m *MemoryVault) PutContent(id string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Idempotent: storing the same id multiple times is safe
	m.content[id] = data
	return nil
}

// GetContent retrieves content by id.
func (m *MemoryVault) GetContent(id string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.content[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrContentNotFound, id)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}

	return nil
}

// HasContent reports whether id has been stored.
func (m *MemoryVault) HasContent(id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.content[id]
	return ok, nil
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

// Compile-time check that MemoryVault implements upload.Vault interface
var _ upload.Vault = (*MemoryVault)(nil)
