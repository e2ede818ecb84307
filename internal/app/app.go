package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"secupload/internal/config"
	"secupload/internal/encryption"
	"secupload/internal/fs"
	"secupload/internal/registry"
	"secupload/internal/upload"
	"secupload/internal/validate"
	"secupload/internal/vault"
)

var (
	// ErrNoVault is returned by Export when uploads are not kept.
	ErrNoVault = errors.New("no vault configured")

	// ErrEncryptionDisabled is returned by SetupKeys when encryption type is none.
	ErrEncryptionDisabled = errors.New("encryption is disabled")

	// ErrKeysNotConfigured is returned by Upload when encryption is enabled
	// but `secupload keys init` has not been run.
	ErrKeysNotConfigured = errors.New("encryption keys not configured, run `secupload keys init`")

	// ErrCorruptContent is returned by Export when the vault bytes do not hash
	// back to the requested identifier.
	ErrCorruptContent = errors.New("vault content does not match its identifier")
)

// migrationChecker is implemented by registries with a versioned schema.
type migrationChecker interface {
	CheckMigrations() error
}

// registryBackuper is implemented by registries that can snapshot themselves.
type registryBackuper interface {
	BackupTo(destPath string) error
}

// App is the application layer between the CLI and the upload store.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw strings, and releases resources on Close.
type App struct {
	cfg       *config.Config
	registry  upload.Registry
	store     *upload.Store
	vault     upload.Vault     // nil when vault type is none
	encryptor upload.Encryptor // nil when encryption type is none
	reader    *fs.Reader
	logger    *slog.Logger
	op        *Operation
	logFile   *os.File
}

// UploadResult is the outcome of one file in a directory upload.
type UploadResult struct {
	Path string
	ID   string
	Err  error
}

// NewApp creates a fully wired App from the given config.
// operation names the CLI command being run (e.g. "upload", "verify").
// The caller must call Close when done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	return newApp(cfg, operation, os.Stderr)
}

func newApp(cfg *config.Config, operation string, console io.Writer) (*App, error) {
	op := NewOperation(operation, time.Now())

	logger, logFile, err := newLogger(cfg.LogDir, op.ID, console, slog.LevelInfo)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	reg, err := registry.NewRegistryFromConfig(cfg.Registry)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating registry: %w", err)
	}

	if checker, ok := reg.(migrationChecker); ok {
		if err := checker.CheckMigrations(); err != nil {
			reg.Close()
			logFile.Close()
			return nil, fmt.Errorf("registry schema out of date: %w", err)
		}
	}

	v, err := vault.NewVaultFromConfig(cfg.Vault)
	if err != nil {
		reg.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating vault: %w", err)
	}
	if v != nil {
		if err := v.ValidateSetup(); err != nil {
			reg.Close()
			logFile.Close()
			return nil, fmt.Errorf("vault not usable: %w", err)
		}
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		reg.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	layout := upload.Layout{ImagesDir: cfg.Storage.ImagesDir, VideosDir: cfg.Storage.VideosDir}
	if layout.ImagesDir == "" && layout.VideosDir == "" {
		layout = upload.DefaultLayout()
	}
	store := upload.NewStore(reg, layout, &slogAdapter{l: logger}, upload.RealClock{})

	logger.Info("operation started", "operation", operation, "registry", cfg.Registry.Type, "vault", cfg.Vault.Type)

	return &App{
		cfg:       cfg,
		registry:  reg,
		store:     store,
		vault:     v,
		encryptor: enc,
		reader:    fs.NewReader(cfg.Storage.MaxSize()),
		logger:    logger,
		op:        op,
		logFile:   logFile,
	}, nil
}

// Upload reads the file at rawPath, validates it, keeps its bytes in the
// vault (encrypted when configured) and registers it. It returns the content
// identifier. The vault write happens first and is idempotent, so a
// registered id always has content behind it.
func (a *App) Upload(rawPath string) (string, error) {
	id, err := a.upload(rawPath)
	a.op.Record(err)
	// The store already logs duplicates with the existing id.
	if err != nil && !errors.Is(err, upload.ErrDuplicateUpload) {
		a.logger.Warn("upload rejected", "path", rawPath, "error", err)
	}
	return id, err
}

func (a *App) upload(rawPath string) (string, error) {
	cand, err := a.reader.Read(rawPath)
	if err != nil {
		return "", err
	}

	if _, err := upload.Validate(cand.Data, cand.Name); err != nil {
		return "", err
	}

	if err := a.storeContent(upload.ContentID(cand.Data), cand.Data); err != nil {
		return "", err
	}

	return a.store.Register(cand.Data, cand.Name)
}

// UploadDir uploads every regular file in rawDir, skipping paths matched by
// the configured ignore patterns and the directory's ignore file. A failure
// on one file does not stop the others.
func (a *App) UploadDir(rawDir string, recursive bool) ([]UploadResult, error) {
	ignore, err := fs.LoadIgnoreMatcher(rawDir, a.cfg.Storage.Ignore)
	if err != nil {
		return nil, err
	}

	paths, err := fs.FindFiles(rawDir, recursive, ignore)
	if err != nil {
		return nil, err
	}

	results := make([]UploadResult, 0, len(paths))
	for _, p := range paths {
		id, err := a.Upload(p)
		results = append(results, UploadResult{Path: p, ID: id, Err: err})
	}
	return results, nil
}

func (a *App) storeContent(id string, data []byte) error {
	if a.vault == nil {
		return nil
	}

	has, err := a.vault.HasContent(id)
	if err != nil {
		return fmt.Errorf("checking vault for %s: %w", id, err)
	}
	if has {
		return nil
	}

	payload := data
	if a.encryptor != nil {
		if !a.encryptor.IsConfigured() {
			return ErrKeysNotConfigured
		}
		var sealed bytes.Buffer
		if err := a.encryptor.Encrypt(bytes.NewReader(data), &sealed); err != nil {
			return fmt.Errorf("encrypting %s: %w", id, err)
		}
		payload = sealed.Bytes()
	}

	if err := a.vault.PutContent(id, bytes.NewReader(payload), int64(len(payload))); err != nil {
		return fmt.Errorf("storing %s in vault: %w", id, err)
	}
	return nil
}

// Verify reports the category of a registered identifier.
// Malformed identifiers are rejected before the store is queried.
func (a *App) Verify(id string) (upload.Report, error) {
	if err := a.CheckUUID(id); err != nil {
		return upload.Report{}, err
	}
	return a.store.Verify(id)
}

// Path returns the destination path recorded for id.
func (a *App) Path(id string) (string, error) {
	if err := a.CheckUUID(id); err != nil {
		return "", err
	}
	path, ok := a.store.Path(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", upload.ErrNotFound, id)
	}
	return path, nil
}

// List returns every registered upload ordered by upload time.
func (a *App) List() ([]upload.StoredFile, error) {
	return a.store.List()
}

// NeedsPassphrase reports whether Export will unlock a private key.
func (a *App) NeedsPassphrase() bool {
	return a.encryptor != nil
}

// Export writes the original bytes of upload id to w. passphrase unlocks the
// private key when encryption is configured and is ignored otherwise.
// The bytes are checked against id before anything is written.
func (a *App) Export(id, passphrase string, w io.Writer) error {
	err := a.export(id, passphrase, w)
	a.op.Record(err)
	return err
}

func (a *App) export(id, passphrase string, w io.Writer) error {
	if err := a.CheckUUID(id); err != nil {
		return err
	}
	if _, err := a.store.Get(id); err != nil {
		return err
	}
	if a.vault == nil {
		return ErrNoVault
	}

	var stored bytes.Buffer
	if err := a.vault.GetContent(id, &stored); err != nil {
		return fmt.Errorf("reading %s from vault: %w", id, err)
	}

	plain := &stored
	if a.encryptor != nil {
		ctx, err := a.encryptor.Unlock(passphrase)
		if err != nil {
			return fmt.Errorf("unlocking private key: %w", err)
		}
		plain = &bytes.Buffer{}
		if err := ctx.Decrypt(&stored, plain); err != nil {
			return fmt.Errorf("decrypting %s: %w", id, err)
		}
	}

	if upload.ContentID(plain.Bytes()) != id {
		return fmt.Errorf("%w: %s", ErrCorruptContent, id)
	}

	if _, err := plain.WriteTo(w); err != nil {
		return fmt.Errorf("writing %s: %w", id, err)
	}
	a.logger.Info("upload exported", "id", id)
	return nil
}

// CheckURL validates candidate as a URL. tlds overrides the configured
// whitelist when non-nil; an empty whitelist accepts every TLD.
func (a *App) CheckURL(candidate string, tlds []string) error {
	if tlds == nil {
		tlds = a.cfg.URL.TLDWhitelist
	}
	if validate.IsURL(candidate, tlds) {
		return nil
	}
	if tld, ok := validate.URLTLD(candidate); ok {
		return fmt.Errorf("%w: %q: TLD %s not allowed", upload.ErrMalformedURL, candidate, tld)
	}
	return fmt.Errorf("%w: %q", upload.ErrMalformedURL, candidate)
}

// CheckUUID validates id as a canonical version 5 UUID.
func (a *App) CheckUUID(id string) error {
	if !validate.IsUUIDv5(id) {
		return fmt.Errorf("%w: %q", upload.ErrMalformedIdentifier, id)
	}
	return nil
}

// SetupKeys generates the encryption key pair, sealing the private key with passphrase.
func (a *App) SetupKeys(passphrase string) error {
	if a.encryptor == nil {
		return fmt.Errorf("%w: set [encryption] type = \"age\" first", ErrEncryptionDisabled)
	}
	if err := a.encryptor.Setup(passphrase); err != nil {
		return fmt.Errorf("setting up encryption keys: %w", err)
	}
	a.logger.Info("encryption keys created", "public_key", a.cfg.Encryption.PublicKeyPath)
	return nil
}

// BackupRegistry writes a snapshot of the registry to destPath.
func (a *App) BackupRegistry(destPath string) error {
	b, ok := a.registry.(registryBackuper)
	if !ok {
		return fmt.Errorf("registry type %q does not support backup", a.cfg.Registry.Type)
	}
	if err := b.BackupTo(destPath); err != nil {
		return err
	}
	a.logger.Info("registry backed up", "dest", destPath)
	return nil
}

// Close logs the outcome of the operation and releases the registry and log file.
func (a *App) Close() error {
	a.logger.Info("operation finished",
		"operation", a.op.Name,
		"status", a.op.Status,
		"failures", a.op.Failures(),
		"duration", time.Since(a.op.StartedAt).Round(time.Millisecond),
	)

	var firstErr error
	if err := a.registry.Close(); err != nil {
		firstErr = fmt.Errorf("closing registry: %w", err)
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}
	return firstErr
}
