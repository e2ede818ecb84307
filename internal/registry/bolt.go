package registry

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"secupload/internal/upload"
)

var uploadsBucket = []byte("uploads")

// boltRecord is the JSON form of a StoredFile inside the uploads bucket.
type boltRecord struct {
	ID              string    `json:"id"`
	DestinationPath string    `json:"destination_path"`
	Category        string    `json:"category"`
	OriginalName    string    `json:"original_name"`
	MIME            string    `json:"mime"`
	Size            int64     `json:"size"`
	UploadedAt      time.Time `json:"uploaded_at"`
}

// BoltRegistry implements upload.Registry on a bbolt file.
// Keys are content identifiers, values are JSON-encoded records.
type BoltRegistry struct {
	db *bolt.DB
}

// NewBoltRegistry opens (creating if needed) the bolt file at path.
// bbolt holds an exclusive file lock, so a second process opening the same
// file waits up to one second and then fails.
func NewBoltRegistry(path string) (*BoltRegistry, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt registry %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(uploadsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating uploads bucket: %w", err)
	}

	return &BoltRegistry{db: db}, nil
}

func (r *BoltRegistry) Get(id string) (upload.StoredFile, bool, error) {
	var (
		file  upload.StoredFile
		found bool
	)
	err := r.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(uploadsBucket).Get([]byte(id))
		if data == nil {
			return nil
		}
		found = true

		var err error
		file, err = decodeRecord(data)
		return err
	})
	if err != nil {
		return upload.StoredFile{}, false, fmt.Errorf("reading upload %s: %w", id, err)
	}
	return file, found, nil
}

func (r *BoltRegistry) Insert(file upload.StoredFile) error {
	encoded, err := json.Marshal(boltRecord{
		ID:              file.ID,
		DestinationPath: file.DestinationPath,
		Category:        file.Category.String(),
		OriginalName:    file.OriginalName,
		MIME:            file.MIME,
		Size:            file.Size,
		UploadedAt:      file.UploadedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding upload %s: %w", file.ID, err)
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(uploadsBucket)
		key := []byte(file.ID)
		if b.Get(key) != nil {
			return &upload.DuplicateError{ID: file.ID}
		}
		return b.Put(key, encoded)
	})
}

func (r *BoltRegistry) List() ([]upload.StoredFile, error) {
	var files []upload.StoredFile
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(uploadsBucket).ForEach(func(_, v []byte) error {
			file, err := decodeRecord(v)
			if err != nil {
				return err
			}
			files = append(files, file)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	sortFiles(files)
	return files, nil
}

// BackupTo writes a consistent copy of the bolt file to destPath.
func (r *BoltRegistry) BackupTo(destPath string) error {
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.CopyFile(destPath, 0600)
	})
	if err != nil {
		return fmt.Errorf("backing up registry to %s: %w", destPath, err)
	}
	return nil
}

func (r *BoltRegistry) Close() error {
	return r.db.Close()
}

func decodeRecord(data []byte) (upload.StoredFile, error) {
	var rec boltRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return upload.StoredFile{}, err
	}
	category, err := upload.ParseMediaCategory(rec.Category)
	if err != nil {
		return upload.StoredFile{}, err
	}
	return upload.StoredFile{
		ID:              rec.ID,
		DestinationPath: rec.DestinationPath,
		Category:        category,
		OriginalName:    rec.OriginalName,
		MIME:            rec.MIME,
		Size:            rec.Size,
		UploadedAt:      rec.UploadedAt,
	}, nil
}

// Compile-time check that BoltRegistry implements upload.Registry
var _ upload.Registry = (*BoltRegistry)(nil)
