package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/envcrypt/internal/errors"
)

// FileName is the project configuration file looked up at the project root.
const FileName = ".envcrypt.toml"

// Staleness modes.
const (
	StalenessMtime   = "mtime"
	StalenessContent = "content"
)

type Config struct {
	Key    KeyConfig    `toml:"key"`
	Files  FilesConfig  `toml:"files"`
	Batch  BatchConfig  `toml:"batch"`
	Cipher CipherConfig `toml:"cipher"`
	Audit  AuditConfig  `toml:"audit"`
}

type KeyConfig struct {
	Env  string `toml:"env"`
	File string `toml:"file"`
}

type FilesConfig struct {
	Source          string   `toml:"source"`
	Encrypted       string   `toml:"encrypted"`
	Exclude         []string `toml:"exclude"`
	PlaintextKeys   []string `toml:"plaintext_keys"`
	EncryptBooleans bool     `toml:"encrypt_booleans"`
}

type BatchConfig struct {
	Workers   int    `toml:"workers"`
	Staleness string `toml:"staleness"`
}

type CipherConfig struct {
	Backend    string `toml:"backend"`
	Iterations int    `toml:"iterations"`
}

type AuditConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Key: KeyConfig{
			Env:  "ENVCRYPT_KEY",
			File: ".envcrypt.key",
		},
		Files: FilesConfig{
			Source:    ".env",
			Encrypted: ".env.encrypted",
		},
		Batch: BatchConfig{
			Workers:   1,
			Staleness: StalenessMtime,
		},
		Cipher: CipherConfig{
			Backend:    "native",
			Iterations: 10000,
		},
		Audit: AuditConfig{
			Path: filepath.Join(".envcrypt", "audit.jsonl"),
		},
	}
}

// Load reads root/.envcrypt.toml over the defaults. A missing file is not an error.
func Load(root string) (*Config, error) {
	cfg := Default()
	path := filepath.Join(root, FileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if err := LoadTOML(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to root/.envcrypt.toml.
func Save(root string, cfg *Config) error {
	path := filepath.Join(root, FileName)
	if err := SaveTOML(path, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Files.Source) == "" || strings.TrimSpace(c.Files.Encrypted) == "" {
		return fmt.Errorf("%w: files.source and files.encrypted must be set", kerrors.ErrInvalidConfig)
	}
	if c.Files.Source == c.Files.Encrypted {
		return fmt.Errorf("%w: files.source and files.encrypted must differ", kerrors.ErrInvalidConfig)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("%w: batch.workers must not be negative", kerrors.ErrInvalidConfig)
	}
	switch c.Batch.Staleness {
	case "", StalenessMtime, StalenessContent:
	default:
		return fmt.Errorf("%w: unknown batch.staleness %q", kerrors.ErrInvalidConfig, c.Batch.Staleness)
	}
	return nil
}

// KeyFilePath returns the key file location, resolved against root when relative.
func (c *Config) KeyFilePath(root string) string {
	return resolve(root, c.Key.File)
}

// AuditPath returns the audit log location, resolved against root when relative.
func (c *Config) AuditPath(root string) string {
	return resolve(root, c.Audit.Path)
}

func resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
