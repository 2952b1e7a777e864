package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"

	"github.com/PolarWolf314/envcrypt/internal/batch"
	"github.com/PolarWolf314/envcrypt/internal/transform"
	"github.com/PolarWolf314/envcrypt/internal/ui"
	"github.com/PolarWolf314/envcrypt/internal/utils"
	"github.com/PolarWolf314/envcrypt/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	runForce    bool
	runDryRun   bool
	runKey      string
	runPrompt   bool
	runKeyStdin bool
)

// reportedError marks an error whose explanation has already been printed.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already shown to the user by a command.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

func resetRunCommandState() {
	runForce = false
	runDryRun = false
	runKey = ""
	runPrompt = false
	runKeyStdin = false
}

func addRunFlags(c *cobra.Command) {
	c.Flags().BoolVarP(&runForce, "force", "f", false, "process stacks even when the destination is up to date")
	c.Flags().BoolVar(&runDryRun, "dry-run", false, "show what would change without writing any file")
	c.Flags().StringVar(&runKey, "key", "", "passphrase to use instead of the environment or key file")
	c.Flags().BoolVar(&runPrompt, "prompt", false, "prompt for the passphrase")
	c.Flags().BoolVar(&runKeyStdin, "key-stdin", false, "read the passphrase from stdin")
	c.MarkFlagsMutuallyExclusive("key", "prompt", "key-stdin")
}

// explicitKey returns the passphrase given through flags, or "" to fall back
// to the environment and key file.
func explicitKey() (string, error) {
	switch {
	case runKey != "":
		Logger.Warnf("Passing the key on the command line leaves it in your shell history")
		return runKey, nil
	case runPrompt:
		pass, err := utils.ReadPassphrase("Passphrase: ")
		if err != nil {
			return "", err
		}
		return string(pass), nil
	case runKeyStdin:
		data, err := utils.ReadStdin()
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	return "", nil
}

type runWorkflow func(context.Context, workflows.RunOptions) (*workflows.RunResult, error)

func runStacks(cmd *cobra.Command, args []string, dir transform.Direction, run runWorkflow) error {
	Logger.Infof("Starting %s command", dir)

	root, err := projectRoot()
	if err != nil {
		return Logger.ErrorfAndReturn("failed to find project root: %w", err)
	}

	key, err := explicitKey()
	if err != nil {
		return Logger.ErrorfAndReturn("failed to read key: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	verb := strings.ToUpper(dir.String()[:1]) + dir.String()[1:]
	message := verb + "ing stacks..."
	s, cleanup := startSpinner(message, cmd.OutOrStdout())
	defer cleanup()

	var done atomic.Int64
	opts := workflows.RunOptions{
		Root:      root,
		Stacks:    args,
		Key:       key,
		Force:     runForce,
		DryRun:    runDryRun,
		Workers:   workers,
		Staleness: staleness,
		Logger:    Logger,
		OnOutcome: func(o batch.Outcome) {
			n := done.Add(1)
			Logger.Debugf("%s finished: %s", o.Stack, o.Status)
			s.Lock()
			s.Suffix = fmt.Sprintf(" %s (%d done)", message, n)
			s.Unlock()
		},
	}

	result, err := run(ctx, opts)
	if result == nil {
		s.FinalMSG = ui.Error.Sprint(ui.SymbolFailed) + " " + ui.Cause(err)
		return reportedError{err}
	}

	final := formatSummary(result.Summary)
	if runDryRun {
		final += "\n" + ui.Info.Sprint(ui.SymbolHint) + " Dry run, no files were written"
	} else if dir == transform.Encrypt && result.Summary.Processed > 0 && err == nil {
		final += "\n" + ui.Info.Sprint(ui.SymbolHint) + " You can now safely commit the encrypted files to version control"
	}
	s.FinalMSG = final

	if err != nil {
		return reportedError{err}
	}
	Logger.Infof("%s command completed: %s", verb, result.Summary)
	return nil
}
