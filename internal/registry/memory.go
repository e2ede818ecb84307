package registry

import (
	"sort"
	"sync"

	"secupload/internal/upload"
)

// MemoryRegistry is an in-memory implementation of upload.Registry.
// It is created empty and lives as long as the process holding it.
// This implementation is safe for concurrent use.
type MemoryRegistry struct {
	files map[string]upload.StoredFile // id -> record
	mu    sync.RWMutex
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		files: make(map[string]upload.StoredFile),
	}
}

// Get returns a copy of the record for id.
func (m *MemoryRegistry) Get(id string) (upload.StoredFile, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	file, ok := m.files[id]
	return file, ok, nil
}

// Insert adds file if its id is not present yet.
func (m *MemoryRegistry) Insert(file upload.StoredFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[file.ID]; ok {
		return &upload.DuplicateError{ID: file.ID}
	}
	m.files[file.ID] = file
	return nil
}

// List returns copies of all records ordered by upload time, then id.
func (m *MemoryRegistry) List() ([]upload.StoredFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]upload.StoredFile, 0, len(m.files))
	for _, f := range m.files {
		files = append(files, f)
	}
	sortFiles(files)
	return files, nil
}

// Close is a no-op for the in-memory registry.
func (m *MemoryRegistry) Close() error {
	return nil
}

func sortFiles(files []upload.StoredFile) {
	sort.Slice(files, func(i, j int) bool {
		if !files[i].UploadedAt.Equal(files[j].UploadedAt) {
			return files[i].UploadedAt.Before(files[j].UploadedAt)
		}
		return files[i].ID < files[j].ID
	})
}

// Compile-time check that MemoryRegistry implements upload.Registry
var _ upload.Registry = (*MemoryRegistry)(nil)
