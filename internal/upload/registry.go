package upload

// Registry is the backing map from content identifier to StoredFile.
// Implementations return copies; callers never hold references into
// backend storage. The Store serializes all calls, but implementations must
// still be safe for concurrent use on their own.
type Registry interface {
	// Get returns the record for id. ok is false if no record exists.
	Get(id string) (file StoredFile, ok bool, err error)

	// Insert adds a new record keyed by file.ID.
	// It returns an error matching ErrDuplicateUpload if the key exists and
	// never overwrites an existing record.
	Insert(file StoredFile) error

	// List returns every record ordered by UploadedAt, then ID.
	List() ([]StoredFile, error)

	// Close releases backend resources.
	Close() error
}
