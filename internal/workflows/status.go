package workflows

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/PolarWolf314/envcrypt/internal/batch"
	"github.com/PolarWolf314/envcrypt/internal/configs"
	kerrors "github.com/PolarWolf314/envcrypt/internal/errors"
)

// StackStatus represents the encryption status of a stack.
type StackStatus string

const (
	// StatusCurrent means the encrypted file is not older than the plaintext.
	StatusCurrent StackStatus = "current"
	// StatusStale means the plaintext was modified after encryption.
	StatusStale StackStatus = "stale"
	// StatusUnencrypted means plaintext exists with no encrypted version.
	StatusUnencrypted StackStatus = "unencrypted"
	// StatusEncryptedOnly means encrypted exists with no plaintext.
	StatusEncryptedOnly StackStatus = "encrypted_only"
	// StatusMissing means a named stack has neither file.
	StatusMissing StackStatus = "missing"
)

// StackStatusInfo holds information about a stack's encryption status.
type StackStatusInfo struct {
	Stack  string
	Status StackStatus

	// PlaintextMtime and EncryptedMtime are empty when the file is absent.
	PlaintextMtime string
	EncryptedMtime string
}

// StatusSummary holds counts of stacks by status.
type StatusSummary struct {
	Current       int
	Stale         int
	Unencrypted   int
	EncryptedOnly int
	Missing       int
}

// StatusOptions configures the status workflow.
type StatusOptions struct {
	Root string

	// Stacks limits the report to the named stacks.
	Stacks []string
}

// StatusResult contains the outcome of a status operation.
type StatusResult struct {
	Stacks  []StackStatusInfo
	Summary StatusSummary
}

// Status reports, per stack, whether the encrypted file is up to date. It
// compares modification times only and never needs the key.
//
// Returns ErrInvalidConfig if the project config is malformed.
// Returns ErrNoStacksFound if discovery finds neither kind of file.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	cfg, err := configs.Load(opts.Root)
	if err != nil {
		return nil, err
	}

	dirs, err := statusDirs(opts, cfg)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{}
	for stack, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info := StackStatusInfo{Status: StatusMissing}
		if dir != "" {
			info = determineStackStatus(dir, cfg.Files.Source, cfg.Files.Encrypted)
		}
		info.Stack = stack
		result.Stacks = append(result.Stacks, info)
	}

	sort.Slice(result.Stacks, func(i, j int) bool {
		return result.Stacks[i].Stack < result.Stacks[j].Stack
	})
	result.Summary = calculateStatusSummary(result.Stacks)
	return result, nil
}

// statusDirs maps stack names to directories, from either the named stacks or
// discovery of both plaintext and encrypted files. Named stacks outside the
// root map to an empty directory.
func statusDirs(opts StatusOptions, cfg *configs.Config) (map[string]string, error) {
	dirs := make(map[string]string)

	if len(opts.Stacks) > 0 {
		candidates, missing := batch.Select(opts.Root, cfg.Files.Source, cfg.Files.Encrypted, opts.Stacks)
		for _, c := range candidates {
			dirs[c.Stack] = c.Dir
		}
		for _, o := range missing {
			dirs[o.Stack] = o.Dir
		}
		return dirs, nil
	}

	for _, name := range []string{cfg.Files.Source, cfg.Files.Encrypted} {
		found, err := batch.Discover(opts.Root, name, "", cfg.Files.Exclude)
		if err != nil {
			return nil, err
		}
		for _, c := range found {
			dirs[c.Stack] = c.Dir
		}
	}
	if len(dirs) == 0 {
		return nil, kerrors.ErrNoStacksFound
	}
	return dirs, nil
}

func determineStackStatus(dir, sourceName, encryptedName string) StackStatusInfo {
	plainInfo, plainErr := os.Stat(filepath.Join(dir, sourceName))
	encInfo, encErr := os.Stat(filepath.Join(dir, encryptedName))

	plainExists := plainErr == nil
	encExists := encErr == nil

	var info StackStatusInfo
	if plainExists {
		info.PlaintextMtime = plainInfo.ModTime().Format("2006-01-02T15:04:05Z07:00")
	}
	if encExists {
		info.EncryptedMtime = encInfo.ModTime().Format("2006-01-02T15:04:05Z07:00")
	}

	switch {
	case plainExists && encExists:
		if encInfo.ModTime().Before(plainInfo.ModTime()) {
			info.Status = StatusStale
		} else {
			info.Status = StatusCurrent
		}
	case plainExists:
		info.Status = StatusUnencrypted
	case encExists:
		info.Status = StatusEncryptedOnly
	default:
		info.Status = StatusMissing
	}
	return info
}

func calculateStatusSummary(stacks []StackStatusInfo) StatusSummary {
	var s StatusSummary
	for _, st := range stacks {
		switch st.Status {
		case StatusCurrent:
			s.Current++
		case StatusStale:
			s.Stale++
		case StatusUnencrypted:
			s.Unencrypted++
		case StatusEncryptedOnly:
			s.EncryptedOnly++
		case StatusMissing:
			s.Missing++
		}
	}
	return s
}

