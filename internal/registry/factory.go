package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"secupload/internal/config"
	"secupload/internal/upload"
)

// NewRegistryFromConfig creates a Registry implementation based on the registry config type.
func NewRegistryFromConfig(cfg config.RegistryConfig) (upload.Registry, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryRegistry(), nil
	case "sqlite":
		dir, err := dataDir(cfg)
		if err != nil {
			return nil, err
		}
		return NewSQLiteRegistry(filepath.Join(dir, "registry.db"))
	case "bolt":
		dir, err := dataDir(cfg)
		if err != nil {
			return nil, err
		}
		return NewBoltRegistry(filepath.Join(dir, "registry.bolt"))
	default:
		return nil, fmt.Errorf("unknown registry type: %s", cfg.Type)
	}
}

func dataDir(cfg config.RegistryConfig) (string, error) {
	if cfg.DataDir == "" {
		return "", fmt.Errorf("data_dir required for %s registry", cfg.Type)
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return "", fmt.Errorf("creating registry data dir: %w", err)
	}
	return cfg.DataDir, nil
}
