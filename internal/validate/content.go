package validate

import (
	"bytes"
	"errors"
	"path/filepath"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	"github.com/h2non/filetype/types"
)

var (
	// ErrEmptyContent is returned when there are no bytes to sniff.
	ErrEmptyContent = errors.New("content is empty")

	// ErrNoExtension is returned when the claimed name has no extension.
	ErrNoExtension = errors.New("file name has no extension")

	// ErrNotMedia is returned when the content is neither an image nor a video.
	ErrNotMedia = errors.New("content is not an image or video")

	// ErrExtensionMismatch is returned when the claimed extension disagrees
	// with the sniffed type.
	ErrExtensionMismatch = errors.New("extension does not match content")
)

// extensionAliases maps alternate spellings to the canonical extension the
// sniffer reports for the same format.
var extensionAliases = map[string]string{
	"jpeg": "jpg",
	"jpe":  "jpg",
	"tiff": "tif",
	"qt":   "mov",
}

// Kind is the sniffed type of an accepted upload.
type Kind struct {
	Extension string // canonical extension, without the dot
	MIME      string // e.g. "image/png"
	image     bool
}

// IsImage reports whether the content was sniffed as an image.
func (k Kind) IsImage() bool { return k.image }

// IsVideo reports whether the content was sniffed as a video.
func (k Kind) IsVideo() bool { return !k.image }

// Content reports whether data is an image or video whose type matches the
// extension of claimedName. See Check for the failure reasons.
func Content(data []byte, claimedName string) bool {
	_, err := Check(data, claimedName)
	return err == nil
}

// Check sniffs data and compares the result with the extension of
// claimedName. The content is always classified before the name is looked
// at; the extension alone is never trusted. Check does not touch the
// filesystem: claimedName is only inspected as a string.
func Check(data []byte, claimedName string) (Kind, error) {
	if len(data) == 0 {
		return Kind{}, ErrEmptyContent
	}

	kind, err := sniff(data)
	if err != nil {
		return Kind{}, err
	}

	ext := Extension(claimedName)
	if ext == "" {
		return Kind{}, ErrNoExtension
	}

	if NormalizeExtension(ext) != kind.Extension {
		return Kind{}, ErrExtensionMismatch
	}
	return kind, nil
}

// Extension returns the text after the last dot of the last path element of
// name, or "" if there is none.
func Extension(name string) string {
	ext := filepath.Ext(name)
	if len(ext) <= 1 {
		return ""
	}
	return ext[1:]
}

// NormalizeExtension maps known aliases (jpeg, jpe, tiff, qt) to their
// canonical form. Other extensions are returned unchanged; the comparison
// stays case-sensitive.
func NormalizeExtension(ext string) string {
	if canonical, ok := extensionAliases[ext]; ok {
		return canonical
	}
	return ext
}

// ebmlMagic opens every EBML container. filetype only reports WebM when the
// "webm" DocType follows; Matroska is recognised by its own DocType first.
var ebmlMagic = []byte{0x1A, 0x45, 0xDF, 0xA3}

func sniff(data []byte) (Kind, error) {
	t, err := filetype.Match(data)
	if err != nil {
		return Kind{}, ErrNotMedia
	}
	if t == types.Unknown && bytes.HasPrefix(data, ebmlMagic) {
		t = matchers.TypeWebm
	}
	if t == types.Unknown {
		return Kind{}, ErrNotMedia
	}

	switch t.MIME.Type {
	case "image":
		return Kind{Extension: t.Extension, MIME: t.MIME.Value, image: true}, nil
	case "video":
		return Kind{Extension: t.Extension, MIME: t.MIME.Value}, nil
	default:
		return Kind{}, ErrNotMedia
	}
}
