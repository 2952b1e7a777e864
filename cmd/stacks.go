package cmd

import (
	logger "github.com/PolarWolf314/envcrypt/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose   bool
	debug     bool
	rootDir   string
	workers   int
	staleness string
	Logger    logger.Logger

	StacksCmd = &cobra.Command{
		Use:   "stacks",
		Short: "Encrypt and decrypt the .env files of every stack",
		Long: `Finds every stack below the project root and encrypts its .env values into
.env.encrypted, or decrypts them back. Comments, blank lines and keys are
kept as they are; only values change.

Examples:
  # Encrypt every stack that changed since its last encryption
  envcrypt stacks encrypt

  # Decrypt two stacks, even if their .env is newer
  envcrypt stacks decrypt api web --force

  # See which stacks need attention
  envcrypt stacks status`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
				Out:     cmd.OutOrStdout(),
				Err:     cmd.ErrOrStderr(),
			}
			Logger.Debugf("Initializing stacks command with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	StacksCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	StacksCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	StacksCmd.PersistentFlags().StringVar(&rootDir, "root", "", "project root (defaults to the nearest directory holding .envcrypt.toml)")
	StacksCmd.PersistentFlags().IntVar(&workers, "workers", 0, "number of stacks processed in parallel (overrides config)")
	StacksCmd.PersistentFlags().StringVar(&staleness, "staleness", "", "staleness check: mtime or content (overrides config)")

	StacksCmd.AddCommand(encryptCmd)
	StacksCmd.AddCommand(decryptCmd)
	StacksCmd.AddCommand(statusCmd)
	StacksCmd.AddCommand(initCmd)
}

// GetStacksCmd returns the StacksCmd for testing.
func GetStacksCmd() *cobra.Command {
	return StacksCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	rootDir = ""
	workers = 0
	staleness = ""
	resetRunCommandState()
	resetInitCommandState()
	resetCobraFlagState()
}

// resetCobraFlagState clears Changed on every flag so one test's flags do not
// leak into the next.
func resetCobraFlagState() {
	unchange := func(flag *pflag.Flag) { flag.Changed = false }
	StacksCmd.PersistentFlags().VisitAll(unchange)
	for _, c := range StacksCmd.Commands() {
		c.Flags().VisitAll(unchange)
	}
}

// SetVerbose sets the verbose flag for testing.
func SetVerbose(v bool) {
	verbose = v
}

// SetDebug sets the debug flag for testing.
func SetDebug(d bool) {
	debug = d
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
