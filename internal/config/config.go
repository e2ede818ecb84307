package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultMaxUploadSize caps candidate files read from disk (256 MiB).
const DefaultMaxUploadSize int64 = 256 << 20

// Config represents the main configuration for secupload.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Storage    StorageConfig    `toml:"storage"`
	Registry   RegistryConfig   `toml:"registry"`
	Vault      VaultConfig      `toml:"vault"`
	Encryption EncryptionConfig `toml:"encryption"`
	URL        URLConfig        `toml:"url"`
}

// StorageConfig holds the fixed category directories used to build
// destination paths, and the size ceiling for candidate files.
type StorageConfig struct {
	ImagesDir     string   `toml:"images_dir"`
	VideosDir     string   `toml:"videos_dir"`
	MaxUploadSize int64    `toml:"max_upload_size"` // bytes; 0 means DefaultMaxUploadSize
	Ignore        []string `toml:"ignore"`          // glob patterns skipped by directory uploads
}

// RegistryConfig represents configuration for the upload registry.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type RegistryConfig struct {
	Type    string `toml:"type"`               // "memory", "sqlite" or "bolt"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite and type=bolt
}

// VaultConfig represents configuration for the content vault.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "none", "memory" or "filesystem"
	Name string `toml:"name"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used to encrypt vault content.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "none" (default), "age" or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// URLConfig holds the top-level domains accepted by `secupload check url`.
// Entries include the leading dot; an empty list accepts every TLD.
type URLConfig struct {
	TLDWhitelist []string `toml:"tld_whitelist"`
}

// NewConfig creates a new Config rooted at baseDir with persistent defaults:
// a sqlite registry, a filesystem vault and no encryption.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Storage: StorageConfig{
			ImagesDir:     "sec.upload/images/",
			VideosDir:     "sec.upload/videos/",
			MaxUploadSize: DefaultMaxUploadSize,
			Ignore:        []string{".DS_Store", "Thumbs.db"},
		},
		Registry: RegistryConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Vault: VaultConfig{
			Type:        "filesystem",
			Name:        "local",
			FSVaultRoot: filepath.Join(baseDir, "vault"),
		},
		Encryption: EncryptionConfig{
			Type:           "none",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "secupload.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "secupload.key"),
		},
	}
}

// MaxSize returns the configured ceiling, or the default when unset.
func (c StorageConfig) MaxSize() int64 {
	if c.MaxUploadSize <= 0 {
		return DefaultMaxUploadSize
	}
	return c.MaxUploadSize
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path, creating parent
// directories as needed.
func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to path. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
