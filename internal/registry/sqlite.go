package registry

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"secupload/internal/registry/migrations"
	"secupload/internal/upload"
)

// MemoryDSN opens a private in-memory SQLite database.
const MemoryDSN = ":memory:"

// SQLiteRegistry implements upload.Registry on a SQLite database, so the
// registry survives restarts.
type SQLiteRegistry struct {
	db   *sql.DB
	path string
}

// NewSQLiteRegistry opens (creating if needed) the database at path and
// brings its schema up to date. path can be a file path or MemoryDSN.
func NewSQLiteRegistry(path string) (*SQLiteRegistry, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRegistry{db: db, path: path}, nil
}

// NewSQLiteRegistryFromDB wraps an existing connection. The schema is not
// touched; use CheckMigrations to confirm it is current.
func NewSQLiteRegistryFromDB(db *sql.DB) *SQLiteRegistry {
	return &SQLiteRegistry{db: db}
}

// OpenConnection opens and configures a SQLite connection pool.
// Pragmas go through the DSN so that every pooled connection gets them.
// An in-memory database lives per connection, so the pool is pinned to one.
func OpenConnection(path string) (*sql.DB, error) {
	dsn := path + "?_foreign_keys=on&_busy_timeout=5000"
	if path == MemoryDSN {
		dsn = "file::memory:?_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == MemoryDSN {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// CheckMigrations reports whether the schema matches this binary.
func (s *SQLiteRegistry) CheckMigrations() error {
	return migrations.CheckStatus(s.db)
}

func (s *SQLiteRegistry) Get(id string) (upload.StoredFile, bool, error) {
	row := s.db.QueryRow(`
		SELECT id, destination_path, category, original_name, mime, size, uploaded_at
		FROM uploads WHERE id = ?`, id)

	file, err := scanFile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return upload.StoredFile{}, false, nil
		}
		return upload.StoredFile{}, false, fmt.Errorf("finding upload %s: %w", id, err)
	}
	return file, true, nil
}

func (s *SQLiteRegistry) Insert(file upload.StoredFile) error {
	_, err := s.db.Exec(`
		INSERT INTO uploads (id, destination_path, category, original_name, mime, size, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		file.ID,
		file.DestinationPath,
		file.Category.String(),
		file.OriginalName,
		file.MIME,
		file.Size,
		file.UploadedAt.UTC(),
	)
	if err != nil {
		if isDuplicateKey(err) {
			return &upload.DuplicateError{ID: file.ID}
		}
		return fmt.Errorf("inserting upload %s: %w", file.ID, err)
	}
	return nil
}

func (s *SQLiteRegistry) List() ([]upload.StoredFile, error) {
	rows, err := s.db.Query(`
		SELECT id, destination_path, category, original_name, mime, size, uploaded_at
		FROM uploads ORDER BY uploaded_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	defer rows.Close()

	var files []upload.StoredFile
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning upload: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating uploads: %w", err)
	}
	return files, nil
}

// BackupTo writes a consistent snapshot of the database to destPath.
func (s *SQLiteRegistry) BackupTo(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up registry to %s: %w", destPath, err)
	}
	return nil
}

func (s *SQLiteRegistry) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(row scanner) (upload.StoredFile, error) {
	var (
		file       upload.StoredFile
		category   string
		uploadedAt time.Time
	)
	err := row.Scan(
		&file.ID,
		&file.DestinationPath,
		&category,
		&file.OriginalName,
		&file.MIME,
		&file.Size,
		&uploadedAt,
	)
	if err != nil {
		return upload.StoredFile{}, err
	}

	file.Category, err = upload.ParseMediaCategory(category)
	if err != nil {
		return upload.StoredFile{}, err
	}
	file.UploadedAt = uploadedAt
	return file, nil
}

// isDuplicateKey reports a primary key conflict. CHECK and NOT NULL
// failures are constraint errors too but mean a malformed record.
func isDuplicateKey(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// Compile-time check that SQLiteRegistry implements upload.Registry
var _ upload.Registry = (*SQLiteRegistry)(nil)
