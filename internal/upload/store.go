package upload

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"secupload/internal/validate"
)

// Store is the content-addressed upload registry. Every operation runs as a
// single critical section guarded by mu, so registration is atomic with
// respect to duplicate detection: of two concurrent uploads of the same
// bytes, exactly one succeeds.
//
// Store performs no file or network I/O of its own; callers hand it bytes
// they have already read.
type Store struct {
	mu       sync.Mutex
	registry Registry
	layout   Layout
	logger   Logger
	clock    Clock
}

// NewStore creates a Store over the given registry.
// A nil logger or clock falls back to NopLogger and RealClock.
func NewStore(registry Registry, layout Layout, logger Logger, clock Clock) *Store {
	if logger == nil {
		logger = NewNopLogger()
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Store{
		registry: registry,
		layout:   layout,
		logger:   logger,
		clock:    clock,
	}
}

// Register validates data against claimedName and records it under its
// content identifier, which it returns.
//
// Errors match ErrInvalidInput or ErrInvalidFormat when validation fails,
// ErrDuplicateUpload (as *DuplicateError carrying the existing id) when the
// content is already registered, and ErrRegistryUnavailable when the backend
// fails.
func (s *Store) Register(data []byte, claimedName string) (string, error) {
	kind, err := Validate(data, claimedName)
	if err != nil {
		return "", err
	}

	id := ContentID(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists, err := s.registry.Get(id)
	if err != nil {
		return "", fmt.Errorf("%w: looking up %s: %v", ErrRegistryUnavailable, id, err)
	}
	if exists {
		s.logger.Warn("duplicate upload rejected", "id", id, "name", claimedName)
		return "", &DuplicateError{ID: id}
	}

	category := Video
	if kind.IsImage() {
		category = Image
	}
	base := filepath.Base(claimedName)

	file := StoredFile{
		ID:              id,
		DestinationPath: s.layout.dirFor(category) + base,
		Category:        category,
		OriginalName:    base,
		MIME:            kind.MIME,
		Size:            int64(len(data)),
		UploadedAt:      s.clock.Now(),
	}

	if err := s.registry.Insert(file); err != nil {
		// A persistent backend shared with another process can still
		// report a conflict the Get above did not see.
		if errors.Is(err, ErrDuplicateUpload) {
			return "", &DuplicateError{ID: id}
		}
		return "", fmt.Errorf("%w: inserting %s: %v", ErrRegistryUnavailable, id, err)
	}

	s.logger.Info("upload registered", "id", id, "category", category.String(), "path", file.DestinationPath)
	return id, nil
}

// Verify confirms that id is registered and reports its category.
func (s *Store) Verify(id string) (Report, error) {
	file, err := s.Get(id)
	if err != nil {
		return Report{}, err
	}
	return Report{
		ID:              file.ID,
		Category:        file.Category,
		DestinationPath: file.DestinationPath,
	}, nil
}

// Path returns the destination path recorded for id. Any string is accepted
// as a key; unknown or malformed identifiers simply report false.
func (s *Store) Path(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok, err := s.registry.Get(id)
	if err != nil {
		s.logger.Error("path lookup failed", "id", id, "error", err)
		return "", false
	}
	if !ok {
		return "", false
	}
	return file.DestinationPath, true
}

// Get returns a copy of the record for id, or ErrNotFound.
func (s *Store) Get(id string) (StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok, err := s.registry.Get(id)
	if err != nil {
		return StoredFile{}, fmt.Errorf("%w: looking up %s: %v", ErrRegistryUnavailable, id, err)
	}
	if !ok {
		return StoredFile{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return file, nil
}

// List returns every registered record ordered by upload time.
func (s *Store) List() ([]StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.registry.List()
	if err != nil {
		return nil, fmt.Errorf("%w: listing: %v", ErrRegistryUnavailable, err)
	}
	return files, nil
}

// Validate runs the content check Register performs, without touching the
// registry. Errors match ErrInvalidInput or ErrInvalidFormat.
func Validate(data []byte, claimedName string) (validate.Kind, error) {
	kind, err := validate.Check(data, claimedName)
	if err != nil {
		return validate.Kind{}, classifyValidation(err)
	}
	return kind, nil
}

// classifyValidation maps validator errors onto the store's error kinds.
func classifyValidation(err error) error {
	switch {
	case errors.Is(err, validate.ErrEmptyContent), errors.Is(err, validate.ErrNoExtension):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
}
