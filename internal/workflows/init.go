package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/envcrypt/internal/configs"
	kerrors "github.com/PolarWolf314/envcrypt/internal/errors"
	"github.com/PolarWolf314/envcrypt/internal/utils"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	Root string

	// Key, when set, is written to the key file.
	Key []byte

	// Force overwrites an existing configuration and key file.
	Force bool
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	ConfigPath string

	// KeyPath is empty when no key was written.
	KeyPath string

	// GitignoreUpdated lists entries appended to .gitignore.
	GitignoreUpdated []string
}

// Init writes a default .envcrypt.toml at the root and, when a key is given,
// the key file. Plaintext sources and the key file are added to .gitignore.
//
// Returns ErrAlreadyInitialized if a configuration exists and Force is unset.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	cfgPath := filepath.Join(opts.Root, configs.FileName)
	if utils.FileExists(cfgPath) && !opts.Force {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrAlreadyInitialized, cfgPath)
	}

	cfg := configs.Default()
	if err := configs.Save(opts.Root, cfg); err != nil {
		return nil, err
	}
	result := &InitResult{ConfigPath: cfgPath}

	if len(opts.Key) > 0 {
		keyPath := cfg.KeyFilePath(opts.Root)
		if utils.FileExists(keyPath) && !opts.Force {
			return nil, fmt.Errorf("%w: key file %s exists", kerrors.ErrAlreadyInitialized, keyPath)
		}
		if err := utils.WriteFileAtomic(keyPath, append([]byte(cfg.Key.Env+"="), append(opts.Key, '\n')...), 0600); err != nil {
			return nil, fmt.Errorf("writing key file: %w", err)
		}
		result.KeyPath = keyPath
	}

	added, err := ensureGitignore(opts.Root, []string{cfg.Files.Source, cfg.Key.File})
	if err != nil {
		return nil, err
	}
	result.GitignoreUpdated = added
	return result, nil
}

// ensureGitignore appends any missing entries to root/.gitignore.
func ensureGitignore(root string, entries []string) ([]string, error) {
	path := filepath.Join(root, ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading .gitignore: %w", err)
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var added []string
	var b strings.Builder
	b.Write(data)
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		b.WriteString("\n")
	}
	for _, e := range entries {
		if e == "" || present[e] || filepath.IsAbs(e) {
			continue
		}
		present[e] = true
		b.WriteString(e + "\n")
		added = append(added, e)
	}
	if len(added) == 0 {
		return nil, nil
	}

	if err := utils.WriteFileAtomic(path, []byte(b.String()), 0644); err != nil {
		return nil, fmt.Errorf("updating .gitignore: %w", err)
	}
	return added, nil
}
