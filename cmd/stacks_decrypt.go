package cmd

import (
	"github.com/PolarWolf314/envcrypt/internal/transform"
	"github.com/PolarWolf314/envcrypt/internal/workflows"
	"github.com/spf13/cobra"
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt [stack...]",
	Short: "Decrypts each stack's .env.encrypted back into .env",
	Long: `Decrypts every stack's .env.encrypted into a plaintext .env, readable by
you only.

A wrong key fails the stack without writing anything. Other stacks are
still processed, and the command exits non-zero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStacks(cmd, args, transform.Decrypt, workflows.Decrypt)
	},
}

func init() {
	addRunFlags(decryptCmd)
}
