// Package shared contains testing utilities shared between integration tests.
// This file provides common functions for setting up projects, running the
// CLI and reading back the files it produced.
package shared

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/envcrypt/cmd"
	"github.com/PolarWolf314/envcrypt/internal/configs"
	logger "github.com/PolarWolf314/envcrypt/internal/logging"
	"github.com/spf13/cobra"
)

// TestKey is the passphrase integration tests encrypt with.
const TestKey = "integration-passphrase"

// SetupProject creates a project root with a fast-iteration config and one
// .env file per stack. The key environment variable is cleared.
func SetupProject(t *testing.T, stacks map[string]string) string {
	t.Helper()
	t.Setenv("ENVCRYPT_KEY", "")

	root := t.TempDir()
	cfg := configs.Default()
	cfg.Cipher.Iterations = 1000
	if err := configs.Save(root, cfg); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	for stack, content := range stacks {
		WriteFile(t, filepath.Join(root, stack, ".env"), content)
	}
	return root
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	// #nosec G306 -- test fixture
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// ReadFile returns the content of path, failing the test if it is missing.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// RunCLI runs `envcrypt stacks <args...> --root root` and returns the
// combined output.
func RunCLI(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	c := CreateTestCLIWithArgs(args[0], append(args[1:], "--root", root), &out, &out, false, false)
	err := c.Execute()
	return out.String(), err
}

// CreateTestCLIWithArgs creates a complete CLI instance for testing with the
// specified subcommand, arguments and flags.
func CreateTestCLIWithArgs(subcommand string, args []string, stdout, stderr io.Writer, verboseFlag, debugFlag bool) *cobra.Command {
	cmd.ResetGlobalState()
	cmd.SetVerbose(verboseFlag)
	cmd.SetDebug(debugFlag)
	cmd.SetLogger(logger.Logger{Verbose: verboseFlag, Debug: debugFlag, Out: stdout, Err: stderr})

	rootCmd := &cobra.Command{
		Use:           "envcrypt",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	stacksCmd := cmd.GetStacksCmd()
	rootCmd.AddCommand(stacksCmd)

	if stdout != nil {
		rootCmd.SetOut(stdout)
		stacksCmd.SetOut(stdout)
		for _, subcmd := range stacksCmd.Commands() {
			subcmd.SetOut(stdout)
		}
	}
	if stderr != nil {
		rootCmd.SetErr(stderr)
		stacksCmd.SetErr(stderr)
		for _, subcmd := range stacksCmd.Commands() {
			subcmd.SetErr(stderr)
		}
	}

	rootCmd.SetArgs(append([]string{"stacks", subcommand}, args...))
	return rootCmd
}
