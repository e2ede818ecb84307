package vault

import (
	"fmt"

	"secupload/internal/config"
	"secupload/internal/upload"
)

// NewVaultFromConfig creates a Vault implementation based on the vault config type.
// Type "none" (or empty) returns a nil Vault: uploads are registered but
// their bytes are not kept.
func NewVaultFromConfig(cfg config.VaultConfig) (upload.Vault, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "memory":
		return NewMemoryVault(cfg.Name), nil
	case "filesystem":
		if cfg.FSVaultRoot == "" {
			return nil, fmt.Errorf("filesystem vault requires fs_vault_root to be set")
		}
		return NewFileSystemVault(cfg.Name, cfg.FSVaultRoot)
	default:
		return nil, fmt.Errorf("unknown vault type: %s", cfg.Type)
	}
}
