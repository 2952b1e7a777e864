package workflows

import (
	"context"

	"github.com/PolarWolf314/envcrypt/internal/audit"
	"github.com/PolarWolf314/envcrypt/internal/batch"
	"github.com/PolarWolf314/envcrypt/internal/codec"
	"github.com/PolarWolf314/envcrypt/internal/configs"
	"github.com/PolarWolf314/envcrypt/internal/keys"
	logger "github.com/PolarWolf314/envcrypt/internal/logging"
	"github.com/PolarWolf314/envcrypt/internal/transform"
)

// RunOptions configures the encrypt and decrypt workflows.
type RunOptions struct {
	// Root is the project root. Stacks are discovered below it.
	Root string

	// Stacks limits the run to the named stacks. If empty, every stack is processed.
	Stacks []string

	// Key is an explicit passphrase. It wins over the environment and key file.
	Key string

	// Force reprocesses stacks whose destination is already up to date.
	Force bool

	// DryRun transforms in memory without writing anything.
	DryRun bool

	// Workers and Staleness override the project config when set.
	Workers   int
	Staleness string

	Logger logger.Logger

	// OnOutcome is passed through to the batch runner.
	OnOutcome func(batch.Outcome)
}

// RunResult contains the outcome of an encrypt or decrypt run.
type RunResult struct {
	// Summary holds one outcome per stack.
	Summary *batch.Summary

	// KeySource names where the passphrase came from. The key itself is never returned.
	KeySource string

	// Cipher is the backend that was used.
	Cipher string

	// Root is the project root the run used.
	Root string
}

// Encrypt encrypts the source file of every stack into its encrypted sibling.
//
// Returns ErrInvalidConfig if the project config is malformed.
// Returns ErrNoKeyFound if no passphrase is available; no file is touched.
// Returns ErrToolUnavailable if the openssl backend is configured but missing.
// Returns ErrBatchFailed, together with the result, if any stack failed.
func Encrypt(ctx context.Context, opts RunOptions) (*RunResult, error) {
	return run(ctx, transform.Encrypt, opts)
}

// Decrypt decrypts the encrypted file of every stack back into its source file.
// It returns the same errors as Encrypt.
func Decrypt(ctx context.Context, opts RunOptions) (*RunResult, error) {
	return run(ctx, transform.Decrypt, opts)
}

func run(ctx context.Context, dir transform.Direction, opts RunOptions) (*RunResult, error) {
	cfg, err := configs.Load(opts.Root)
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Resolve once, before any file is read.
	key, source, err := keys.NewResolver(opts.Key, cfg.Key.Env, cfg.KeyFilePath(opts.Root)).Resolve()
	if err != nil {
		return nil, err
	}
	opts.Logger.Infof("Using key from %s", source)

	cipher, err := codec.New(cfg.Cipher.Backend, cfg.Cipher.Iterations)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debugf("Cipher backend: %s (%d iterations)", cipher.Name(), cfg.Cipher.Iterations)

	runner := &batch.Runner{
		Codec:   codec.Codec{Cipher: cipher, Key: key},
		Options: batchOptions(cfg, dir, opts),
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		Summary:   summary,
		KeySource: source,
		Cipher:    cipher.Name(),
		Root:      opts.Root,
	}

	if cfg.Audit.Enabled {
		entry := audit.NewEntry(dir.String())
		for _, o := range summary.Outcomes {
			entry.Stacks = append(entry.Stacks, o.Stack)
		}
		entry.Processed, entry.Skipped, entry.Failed = summary.Processed, summary.Skipped, summary.Failed
		entry.DryRun = opts.DryRun
		if err := audit.Log(cfg.AuditPath(opts.Root), entry); err != nil {
			opts.Logger.WarnfAlways("Could not write audit log: %v", err)
		}
	}

	return result, summary.Err()
}

func applyOverrides(cfg *configs.Config, opts RunOptions) {
	if opts.Workers > 0 {
		cfg.Batch.Workers = opts.Workers
	}
	if opts.Staleness != "" {
		cfg.Batch.Staleness = opts.Staleness
	}
}

func batchOptions(cfg *configs.Config, dir transform.Direction, opts RunOptions) batch.Options {
	source, dest := cfg.Files.Source, cfg.Files.Encrypted
	if dir == transform.Decrypt {
		source, dest = dest, source
	}

	return batch.Options{
		Root:       opts.Root,
		Direction:  dir,
		SourceName: source,
		DestName:   dest,
		Stacks:     opts.Stacks,
		Exclude:    cfg.Files.Exclude,
		Force:      opts.Force,
		Staleness:  cfg.Batch.Staleness,
		Workers:    cfg.Batch.Workers,
		DryRun:     opts.DryRun,
		Policy: transform.Policy{
			PlaintextKeys:   cfg.Files.PlaintextKeys,
			EncryptBooleans: cfg.Files.EncryptBooleans,
		},
		Logger:    opts.Logger,
		OnOutcome: opts.OnOutcome,
	}
}

