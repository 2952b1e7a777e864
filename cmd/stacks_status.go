package cmd

import (
	"fmt"
	"strings"

	"github.com/PolarWolf314/envcrypt/internal/ui"
	"github.com/PolarWolf314/envcrypt/internal/workflows"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [stack...]",
	Short: "Shows which stacks are up to date, stale or unencrypted",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")

		root, err := projectRoot()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to find project root: %w", err)
		}

		result, err := workflows.Status(cmd.Context(), workflows.StatusOptions{Root: root, Stacks: args})
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Error.Sprint(ui.SymbolFailed)+" "+ui.Cause(err))
			return reportedError{err}
		}

		fmt.Fprint(cmd.OutOrStdout(), formatStatus(result))
		return nil
	},
}

func formatStatus(result *workflows.StatusResult) string {
	var b strings.Builder
	for _, s := range result.Stacks {
		b.WriteString(statusSymbol(s.Status) + " " + ui.Stack.Sprint(s.Stack) + " " + string(s.Status) + "\n")
	}

	sum := result.Summary
	fmt.Fprintf(&b, "current %d, stale %d, unencrypted %d, encrypted only %d", sum.Current, sum.Stale, sum.Unencrypted, sum.EncryptedOnly)
	if sum.Missing > 0 {
		fmt.Fprintf(&b, ", missing %d", sum.Missing)
	}
	b.WriteString("\n")

	if sum.Stale > 0 || sum.Unencrypted > 0 {
		b.WriteString(ui.Info.Sprint(ui.SymbolHint) + " Run " + ui.Code.Sprint("envcrypt stacks encrypt") + " to update them\n")
	}
	return b.String()
}

func statusSymbol(s workflows.StackStatus) string {
	switch s {
	case workflows.StatusCurrent:
		return ui.Success.Sprint(ui.SymbolSuccess)
	case workflows.StatusStale, workflows.StatusUnencrypted:
		return ui.Warning.Sprint("!")
	case workflows.StatusEncryptedOnly:
		return ui.Info.Sprint(ui.SymbolSkipped)
	default:
		return ui.Error.Sprint(ui.SymbolFailed)
	}
}
