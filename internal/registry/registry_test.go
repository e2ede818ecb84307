package registry

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"secupload/internal/upload"
)

// newBackends returns one fresh instance of every Registry implementation.
func newBackends(t *testing.T) map[string]upload.Registry {
	t.Helper()

	sqliteReg, err := NewSQLiteRegistry(MemoryDSN)
	if err != nil {
		t.Fatalf("NewSQLiteRegistry() error = %v", err)
	}
	boltReg, err := NewBoltRegistry(filepath.Join(t.TempDir(), "registry.bolt"))
	if err != nil {
		t.Fatalf("NewBoltRegistry() error = %v", err)
	}

	backends := map[string]upload.Registry{
		"memory": NewMemoryRegistry(),
		"sqlite": sqliteReg,
		"bolt":   boltReg,
	}
	t.Cleanup(func() {
		for _, r := range backends {
			r.Close()
		}
	})
	return backends
}

func sampleFile(id string, at time.Time) upload.StoredFile {
	return upload.StoredFile{
		ID:              id,
		DestinationPath: "sec.upload/images/" + id + ".png",
		Category:        upload.Image,
		OriginalName:    "/tmp/" + id + ".png",
		MIME:            "image/png",
		Size:            42,
		UploadedAt:      at,
	}
}

func TestRegistry_GetMissing(t *testing.T) {
	for name, reg := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := reg.Get("does-not-exist")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if found {
				t.Error("Get() found = true, want false")
			}
		})
	}
}

func TestRegistry_InsertThenGet(t *testing.T) {
	at := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	for name, reg := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleFile("abc", at)
			want.Category = upload.Video
			want.MIME = "video/webm"

			if err := reg.Insert(want); err != nil {
				t.Fatalf("Insert() error = %v", err)
			}

			got, found, err := reg.Get("abc")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !found {
				t.Fatal("Get() found = false, want true")
			}
			if got.ID != want.ID || got.DestinationPath != want.DestinationPath {
				t.Errorf("Get() = %+v, want %+v", got, want)
			}
			if got.Category != upload.Video {
				t.Errorf("Category = %v, want %v", got.Category, upload.Video)
			}
			if got.OriginalName != want.OriginalName || got.MIME != want.MIME || got.Size != want.Size {
				t.Errorf("Get() = %+v, want %+v", got, want)
			}
			if !got.UploadedAt.Equal(at) {
				t.Errorf("UploadedAt = %v, want %v", got.UploadedAt, at)
			}
		})
	}
}

func TestRegistry_InsertDuplicate(t *testing.T) {
	at := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	for name, reg := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			first := sampleFile("dup", at)
			if err := reg.Insert(first); err != nil {
				t.Fatalf("first Insert() error = %v", err)
			}

			second := sampleFile("dup", at.Add(time.Hour))
			second.DestinationPath = "sec.upload/images/other.png"
			err := reg.Insert(second)
			if !errors.Is(err, upload.ErrDuplicateUpload) {
				t.Fatalf("second Insert() error = %v, want ErrDuplicateUpload", err)
			}
			var dupErr *upload.DuplicateError
			if !errors.As(err, &dupErr) || dupErr.ID != "dup" {
				t.Errorf("second Insert() error = %v, want DuplicateError{ID: dup}", err)
			}

			got, _, err := reg.Get("dup")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.DestinationPath != first.DestinationPath {
				t.Errorf("DestinationPath = %q, want first record kept (%q)", got.DestinationPath, first.DestinationPath)
			}
		})
	}
}

func TestRegistry_List(t *testing.T) {
	base := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	for name, reg := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			empty, err := reg.List()
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(empty) != 0 {
				t.Fatalf("List() on empty registry = %d records, want 0", len(empty))
			}

			// Inserted out of order; same timestamp for b and c ties on id.
			for _, f := range []upload.StoredFile{
				sampleFile("c", base.Add(time.Minute)),
				sampleFile("a", base.Add(2*time.Minute)),
				sampleFile("b", base.Add(time.Minute)),
				sampleFile("z", base),
			} {
				if err := reg.Insert(f); err != nil {
					t.Fatalf("Insert(%s) error = %v", f.ID, err)
				}
			}

			files, err := reg.List()
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			want := []string{"z", "b", "c", "a"}
			if len(files) != len(want) {
				t.Fatalf("List() returned %d records, want %d", len(files), len(want))
			}
			for i, id := range want {
				if files[i].ID != id {
					t.Errorf("List()[%d].ID = %q, want %q", i, files[i].ID, id)
				}
			}
		})
	}
}

func TestRegistry_ConcurrentInsertSameID(t *testing.T) {
	at := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	for name, reg := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			const workers = 8
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				successes int
			)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					err := reg.Insert(sampleFile("race", at))
					if err == nil {
						mu.Lock()
						successes++
						mu.Unlock()
						return
					}
					if !errors.Is(err, upload.ErrDuplicateUpload) {
						t.Errorf("Insert() error = %v, want nil or ErrDuplicateUpload", err)
					}
				}()
			}
			wg.Wait()

			if successes != 1 {
				t.Errorf("successful inserts = %d, want 1", successes)
			}
		})
	}
}
