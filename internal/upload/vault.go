package upload

import "io"

// Vault stores the bytes of accepted uploads, keyed by content identifier.
// All operations use io.Reader/io.Writer so implementations can stream.
type Vault interface {
	// PutContent stores content identified by id.
	// The operation is idempotent: storing the same id multiple times is safe.
	// size is the number of bytes that will be read from r.
	PutContent(id string, r io.Reader, size int64) error

	// GetContent retrieves content by id and writes it to w.
	GetContent(id string, w io.Writer) error

	// HasContent reports whether content for id has been stored.
	HasContent(id string) (bool, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
