package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/PolarWolf314/envcrypt/internal/batch"
	"github.com/PolarWolf314/envcrypt/internal/configs"
	"github.com/PolarWolf314/envcrypt/internal/ui"
	"github.com/briandowns/spinner"
)

// startSpinner starts a spinner unless verbose or debug output is on, since
// log lines would tear it apart. The returned cleanup stops the spinner and
// prints FinalMSG to out.
func startSpinner(message string, out io.Writer) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Fprint(out, finalMsg)
		}
	}

	return s, cleanup
}

// projectRoot returns --root, or the nearest ancestor of the working
// directory holding .envcrypt.toml.
func projectRoot() (string, error) {
	if rootDir != "" {
		return rootDir, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	root, err := configs.FindProjectRoot(wd)
	if err != nil {
		return "", err
	}
	Logger.Debugf("Project root: %s", root)
	return root, nil
}

// formatOutcome renders one per-stack result line.
func formatOutcome(o batch.Outcome) string {
	switch o.Status {
	case batch.Processed:
		line := ui.Success.Sprint(ui.SymbolSuccess) + " " + ui.Stack.Sprint(o.Stack) + " processed"
		if o.Reason != "" {
			line += " " + ui.Muted.Sprint(o.Reason)
		}
		if n := len(o.Warnings); n > 0 {
			line += " " + ui.Warning.Sprintf("with %d warning(s)", n)
		}
		return line
	case batch.Skipped:
		return ui.Info.Sprint(ui.SymbolSkipped) + " " + ui.Stack.Sprint(o.Stack) + " skipped " + ui.Muted.Sprint(o.Reason)
	default:
		return ui.Error.Sprint(ui.SymbolFailed) + " " + ui.Stack.Sprint(o.Stack) + " failed: " + failureCause(o)
	}
}

func failureCause(o batch.Outcome) string {
	if le, ok := o.LineError(); ok {
		return fmt.Sprintf("line %d (%s): %s", le.Line, ui.Code.Sprint(le.Key), ui.Cause(le.Err))
	}
	return ui.Cause(o.Err)
}

// formatSummary renders every outcome followed by the totals line.
func formatSummary(s *batch.Summary) string {
	var b strings.Builder
	for _, o := range s.Outcomes {
		b.WriteString(formatOutcome(o) + "\n")
	}
	b.WriteString(s.String())
	return b.String()
}
