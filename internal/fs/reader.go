package fs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"secupload/internal/upload"
)

// Candidate is a file read from disk and ready to be registered.
type Candidate struct {
	Path string // absolute path
	Name string // name handed to the validator, i.e. the path as given
	Data []byte
}

// Reader loads candidate files. It is the only part of the upload path that
// touches the filesystem; the validator and store work on bytes.
type Reader struct {
	maxSize int64
}

// NewReader creates a Reader that refuses files larger than maxSize bytes.
func NewReader(maxSize int64) *Reader {
	return &Reader{maxSize: maxSize}
}

// Read validates rawPath and returns its contents.
// Every failure matches upload.ErrInvalidInput.
func (r *Reader) Read(rawPath string) (Candidate, error) {
	if rawPath == "" {
		return Candidate{}, fmt.Errorf("%w: empty path", upload.ErrInvalidInput)
	}

	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return Candidate{}, fmt.Errorf("%w: resolving %s: %v", upload.ErrInvalidInput, rawPath, err)
	}

	// Lstat so that a symlink is reported as such instead of followed.
	info, err := os.Lstat(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Candidate{}, fmt.Errorf("%w: no such file: %s", upload.ErrInvalidInput, rawPath)
		}
		return Candidate{}, fmt.Errorf("%w: stat %s: %v", upload.ErrInvalidInput, rawPath, err)
	}
	if err := checkMode(info.Mode(), absPath); err != nil {
		return Candidate{}, err
	}
	if info.Size() > r.maxSize {
		return Candidate{}, fmt.Errorf("%w: %s is %d bytes, limit is %d", upload.ErrInvalidInput, rawPath, info.Size(), r.maxSize)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return Candidate{}, fmt.Errorf("%w: opening %s: %v", upload.ErrInvalidInput, rawPath, err)
	}
	defer f.Close()

	// The file can grow between Lstat and here; read one byte past the limit to notice.
	data, err := io.ReadAll(io.LimitReader(f, r.maxSize+1))
	if err != nil {
		return Candidate{}, fmt.Errorf("%w: reading %s: %v", upload.ErrInvalidInput, rawPath, err)
	}
	if int64(len(data)) > r.maxSize {
		return Candidate{}, fmt.Errorf("%w: %s exceeds limit of %d bytes", upload.ErrInvalidInput, rawPath, r.maxSize)
	}

	return Candidate{Path: absPath, Name: rawPath, Data: data}, nil
}

// FindFiles lists the regular files in dir, sorted by path. Subdirectories
// are descended when recursive is set. Paths matched by ignore (relative to
// dir) are skipped; a nil ignore skips nothing.
func FindFiles(dir string, recursive bool, ignore *IgnoreMatcher) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", upload.ErrInvalidInput, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", upload.ErrInvalidInput, dir)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == dir {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive || ignore.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || ignore.Match(rel) {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

func checkMode(mode fs.FileMode, path string) error {
	switch {
	case mode.IsRegular():
		return nil
	case mode.IsDir():
		return fmt.Errorf("%w: is a directory: %s", upload.ErrInvalidInput, path)
	case mode&fs.ModeSymlink != 0:
		return fmt.Errorf("%w: symlinks not supported: %s", upload.ErrInvalidInput, path)
	case mode&fs.ModeDevice != 0:
		return fmt.Errorf("%w: device files not supported: %s", upload.ErrInvalidInput, path)
	case mode&fs.ModeNamedPipe != 0:
		return fmt.Errorf("%w: named pipes not supported: %s", upload.ErrInvalidInput, path)
	case mode&fs.ModeSocket != 0:
		return fmt.Errorf("%w: sockets not supported: %s", upload.ErrInvalidInput, path)
	default:
		return fmt.Errorf("%w: not a regular file: %s", upload.ErrInvalidInput, path)
	}
}
