package batch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/envcrypt/internal/configs"
	kerrors "github.com/PolarWolf314/envcrypt/internal/errors"
	logger "github.com/PolarWolf314/envcrypt/internal/logging"
	"github.com/PolarWolf314/envcrypt/internal/transform"
	"github.com/PolarWolf314/envcrypt/internal/utils"
)

const (
	reasonUpToDate = "already up to date"
	reasonDryRun   = "would write"
)

var errWorkerPanic = errors.New("worker panicked while processing stack")

// Options configures a batch run.
type Options struct {
	// Root is the project root; stacks are directories below it.
	Root      string
	Direction transform.Direction

	// SourceName and DestName are file names inside each stack directory.
	SourceName string
	DestName   string

	// Stacks limits the run to the named stacks. Empty means discover all.
	Stacks  []string
	Exclude []string

	// Force bypasses the staleness check.
	Force bool

	// Staleness is "mtime" (default) or "content".
	Staleness string

	Workers int
	DryRun  bool
	Policy  transform.Policy
	Logger  logger.Logger

	// OnOutcome, when set, is called as each stack finishes. It may be called
	// from several goroutines at once.
	OnOutcome func(Outcome)
}

// Runner applies a codec to every stack under a root.
type Runner struct {
	Codec transform.ValueCodec
	Options
}

// Plan discovers candidates without touching them. Named stacks that lack a
// source file are returned as failed outcomes.
func (r *Runner) Plan() ([]Candidate, []Outcome, error) {
	if len(r.Stacks) > 0 {
		candidates, missing := Select(r.Root, r.SourceName, r.DestName, r.Stacks)
		return candidates, missing, nil
	}

	candidates, err := Discover(r.Root, r.SourceName, r.DestName, r.Exclude)
	if err != nil {
		return nil, nil, err
	}
	if len(candidates) == 0 {
		return nil, nil, fmt.Errorf("%w: no %s files under %s", kerrors.ErrNoStacksFound, r.SourceName, r.Root)
	}
	return candidates, nil, nil
}

// Run processes every candidate. Per-stack failures are recorded in the
// summary and never stop other stacks; the returned error is reserved for
// problems that prevent the run from starting at all.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	candidates, missing, err := r.Plan()
	if err != nil {
		return nil, err
	}

	r.Logger.Debugf("Running %s over %d stacks with %d workers", r.Direction, len(candidates), max(r.Workers, 1))
	for _, o := range missing {
		r.report(o)
	}

	outcomes := make([]Outcome, len(candidates))
	p := newPool(r.Workers)

	for i, c := range candidates {
		i, c := i, c // per-iteration copies; go.mod targets go 1.21 loop semantics
		outcomes[i] =Outcome{Candidate: c, Status: Failed, Err: errWorkerPanic}

		if err := ctx.Err(); err != nil {
			outcomes[i].Err = err
			r.report(outcomes[i])
			continue
		}

		err := p.Submit(ctx, func(ctx context.Context) error {
			outcomes[i] = r.process(ctx, c)
			r.report(outcomes[i])
			return outcomes[i].Err
		})
		if err != nil {
			outcomes[i].Err = err
			r.report(outcomes[i])
		}
	}
	p.Wait()

	// A panicking task never reached its own report call.
	for _, o := range outcomes {
		if errors.Is(o.Err, errWorkerPanic) {
			r.report(o)
		}
	}

	m := p.Metrics()
	r.Logger.Debugf("Worker pool finished: completed=%d failed=%d panics=%d", m.Completed, m.Failed, m.Panics)

	return summarize(append(missing, outcomes...)), nil
}

func (r *Runner) report(o Outcome) {
	if r.OnOutcome != nil {
		r.OnOutcome(o)
	}
}

func (r *Runner) process(ctx context.Context, c Candidate) Outcome {
	out := Outcome{Candidate: c}

	if err := ctx.Err(); err != nil {
		out.Status, out.Err = Failed, err
		return out
	}

	source, err := os.ReadFile(c.Source)
	if os.IsNotExist(err) {
		out.Status, out.Err = Failed, fmt.Errorf("%w: %s", kerrors.ErrSourceMissing, c.Source)
		return out
	}
	if err != nil {
		out.Status, out.Err = Failed, fmt.Errorf("failed to read %s: %w", c.Source, err)
		return out
	}

	if !r.Force {
		fresh, err := r.upToDate(c, source)
		if err != nil {
			out.Status, out.Err = Failed, err
			return out
		}
		if fresh {
			r.Logger.Debugf("Skipping %s: %s", c.Stack, reasonUpToDate)
			out.Status, out.Reason = Skipped, reasonUpToDate
			return out
		}
	}

	r.Logger.Debugf("Transforming %s -> %s", c.Source, c.Dest)
	res, err := transform.Transform(source, r.Direction, r.Codec, r.Policy)
	if err != nil {
		out.Status, out.Err = Failed, fmt.Errorf("%s: %w", c.Source, err)
		return out
	}
	out.Warnings = res.Warnings
	for _, w := range res.Warnings {
		r.Logger.WarnfAlways("%s: %s", c.Stack, w)
	}

	if r.DryRun {
		out.Status, out.Reason = Processed, reasonDryRun
		return out
	}

	if err := utils.WriteFileAtomic(c.Dest, res.Content, r.destMode()); err != nil {
		out.Status, out.Err = Failed, err
		return out
	}
	r.Logger.Debugf("Wrote %s (%d of %d lines changed)", c.Dest, res.Changed, res.Lines)

	out.Status = Processed
	return out
}

// Plaintext destinations hold secrets and are kept private.
func (r *Runner) destMode() os.FileMode {
	if r.Direction == transform.Decrypt {
		return 0600
	}
	return 0644
}

// upToDate reports whether the destination can be left alone. In mtime mode
// a destination that is not older than its source is fresh. In content mode
// both files are decoded and compared, ignoring timestamps.
func (r *Runner) upToDate(c Candidate, source []byte) (bool, error) {
	destInfo, err := os.Stat(c.Dest)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", c.Dest, err)
	}

	if r.Staleness == configs.StalenessContent {
		dest, err := os.ReadFile(c.Dest)
		if err != nil {
			return false, fmt.Errorf("failed to read %s: %w", c.Dest, err)
		}
		return r.sameContent(source, dest), nil
	}

	srcInfo, err := os.Stat(c.Source)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", c.Source, err)
	}
	return !destInfo.ModTime().Before(srcInfo.ModTime()), nil
}

// sameContent compares the fully decoded forms of two files. Anything that
// fails to decode counts as different, so it gets reprocessed and reported.
func (r *Runner) sameContent(a, b []byte) bool {
	da, ok := r.plainDigest(a)
	if !ok {
		return false
	}
	db, ok := r.plainDigest(b)
	if !ok {
		return false
	}
	return bytes.Equal(da, db)
}

func (r *Runner) plainDigest(content []byte) ([]byte, bool) {
	res, err := transform.Transform(content, transform.Decrypt, r.Codec, r.Policy)
	if err != nil {
		return nil, false
	}
	sum := sha256.Sum256(res.Content)
	return sum[:], true
}
