package main

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/envcrypt/cmd"
	"github.com/PolarWolf314/envcrypt/internal/ui"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "envcrypt",
	Short: "envcrypt - selective encryption of .env values across many stacks.",
	Long: `envcrypt encrypts the values in your .env files so they can be committed,
and decrypts them again on the machines that hold the key. Comments, blank
lines and variable names stay readable in the encrypted file.

Usage:
  envcrypt <command> [flags]

Available Commands:
  stacks     Encrypt, decrypt and inspect the stacks of a project

Run 'envcrypt help <command>' for more details on a specific command.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(c *cobra.Command, args []string) {
		banner := figure.NewFigure("envcrypt", "small", true)
		fmt.Fprintln(c.OutOrStdout(), ui.Success.Sprint(banner.String()))
		fmt.Fprintln(c.OutOrStdout(), "Run "+ui.Code.Sprint("envcrypt --help")+" to see available commands.")
	},
}

func init() {
	rootCmd.AddCommand(cmd.StacksCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !cmd.IsReported(err) {
			fmt.Fprintln(os.Stderr, ui.Error.Sprint("Error: ")+ui.Cause(err))
		}
		os.Exit(1)
	}
}
