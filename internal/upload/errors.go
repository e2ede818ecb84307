package upload

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput means the bytes were empty or unreadable, or the claimed
	// name carries no extension.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidFormat means the content is not an image or video, or the
	// claimed extension does not match the sniffed type.
	ErrInvalidFormat = errors.New("invalid file format")

	// ErrDuplicateUpload is matched by every *DuplicateError.
	ErrDuplicateUpload = errors.New("duplicate upload")

	// ErrNotFound means no record exists for an identifier.
	ErrNotFound = errors.New("not found")

	// ErrMalformedIdentifier is returned by callers that reject an identifier
	// string before querying the store.
	ErrMalformedIdentifier = errors.New("malformed identifier")

	// ErrMalformedURL is returned by callers that reject a URL string.
	ErrMalformedURL = errors.New("malformed url")

	// ErrRegistryUnavailable wraps backend failures. It is never swallowed by
	// Register, Verify, Get or List.
	ErrRegistryUnavailable = errors.New("registry unavailable")
)

// DuplicateError reports that content is already registered under ID.
type DuplicateError struct {
	ID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("content already uploaded with id %s", e.ID)
}

// Is lets errors.Is(err, ErrDuplicateUpload) match.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicateUpload
}
