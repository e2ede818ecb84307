package upload

import (
	"fmt"
	"time"
)

// MediaCategory is the coarse classification of an accepted upload.
type MediaCategory int

const (
	Image MediaCategory = iota + 1
	Video
)

func (c MediaCategory) String() string {
	switch c {
	case Image:
		return "image"
	case Video:
		return "video"
	default:
		return "unknown"
	}
}

// ParseMediaCategory is the inverse of MediaCategory.String.
func ParseMediaCategory(s string) (MediaCategory, error) {
	switch s {
	case "image":
		return Image, nil
	case "video":
		return Video, nil
	default:
		return 0, fmt.Errorf("unknown media category: %q", s)
	}
}

// StoredFile is the registry record for one accepted upload.
// The ID is the content identifier (see ContentID), not a random UUID.
type StoredFile struct {
	ID              string        // UUIDv5 of the content
	DestinationPath string        // category directory + original base name
	Category        MediaCategory // image or video
	OriginalName    string        // base name as claimed by the uploader
	MIME            string        // sniffed MIME type
	Size            int64         // content size in bytes
	UploadedAt      time.Time
}

// Report confirms that an identifier is registered.
type Report struct {
	ID              string
	Category        MediaCategory
	DestinationPath string
}

// Layout holds the fixed category directories used to build destination paths.
// Directories are concatenated with the base name as-is, so they normally end
// with a separator.
type Layout struct {
	ImagesDir string
	VideosDir string
}

// DefaultLayout returns the directories used when none are configured.
func DefaultLayout() Layout {
	return Layout{
		ImagesDir: "sec.upload/images/",
		VideosDir: "sec.upload/videos/",
	}
}

func (l Layout) dirFor(c MediaCategory) string {
	if c == Image {
		return l.ImagesDir
	}
	return l.VideosDir
}
