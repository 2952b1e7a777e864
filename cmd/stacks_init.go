package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/envcrypt/internal/ui"
	"github.com/PolarWolf314/envcrypt/internal/utils"
	"github.com/PolarWolf314/envcrypt/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	initForce    bool
	initKey      string
	initPrompt   bool
	initKeyStdin bool
)

func resetInitCommandState() {
	initForce = false
	initKey = ""
	initPrompt = false
	initKeyStdin = false
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Writes .envcrypt.toml and, optionally, the local key file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")

		root := rootDir
		if root == "" {
			wd, err := os.Getwd()
			if err != nil {
				return Logger.ErrorfAndReturn("failed to get working directory: %w", err)
			}
			root = wd
		}

		key, err := initKeyFromFlags()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read key: %w", err)
		}

		result, err := workflows.Init(cmd.Context(), workflows.InitOptions{Root: root, Key: key, Force: initForce})
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Error.Sprint(ui.SymbolFailed)+" "+ui.Cause(err)+"\n"+
				ui.Info.Sprint(ui.SymbolHint)+" Use "+ui.Flag.Sprint("--force")+" to overwrite")
			return reportedError{err}
		}

		var b strings.Builder
		b.WriteString(ui.Success.Sprint(ui.SymbolSuccess) + " Wrote " + ui.Path.Sprint(result.ConfigPath) + "\n")
		if result.KeyPath != "" {
			b.WriteString(ui.Success.Sprint(ui.SymbolSuccess) + " Wrote key file " + ui.Path.Sprint(result.KeyPath) + "\n")
		}
		if len(result.GitignoreUpdated) > 0 {
			b.WriteString(ui.Success.Sprint(ui.SymbolSuccess) + " Added to .gitignore: " + utils.FormatPaths(result.GitignoreUpdated))
		}
		b.WriteString(ui.Info.Sprint(ui.SymbolHint) + " Run " + ui.Code.Sprint("envcrypt stacks encrypt") + " to encrypt your stacks\n")
		fmt.Fprint(cmd.OutOrStdout(), b.String())
		return nil
	},
}

func initKeyFromFlags() ([]byte, error) {
	switch {
	case initKey != "":
		return []byte(initKey), nil
	case initPrompt:
		first, err := utils.ReadPassphrase("New passphrase: ")
		if err != nil {
			return nil, err
		}
		second, err := utils.ReadPassphrase("Repeat passphrase: ")
		if err != nil {
			return nil, err
		}
		if string(first) != string(second) {
			return nil, fmt.Errorf("passphrases do not match")
		}
		return first, nil
	case initKeyStdin:
		data, err := utils.ReadStdin()
		if err != nil {
			return nil, err
		}
		return []byte(strings.TrimRight(string(data), "\r\n")), nil
	}
	return nil, nil
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing configuration and key file")
	initCmd.Flags().StringVar(&initKey, "key", "", "passphrase to store in the key file")
	initCmd.Flags().BoolVar(&initPrompt, "prompt", false, "prompt for the passphrase to store in the key file")
	initCmd.Flags().BoolVar(&initKeyStdin, "key-stdin", false, "read the passphrase to store from stdin")
	initCmd.MarkFlagsMutuallyExclusive("key", "prompt", "key-stdin")
}
