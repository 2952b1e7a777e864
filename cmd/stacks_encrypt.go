package cmd

import (
	"github.com/PolarWolf314/envcrypt/internal/transform"
	"github.com/PolarWolf314/envcrypt/internal/workflows"
	"github.com/spf13/cobra"
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt [stack...]",
	Short: "Encrypts each stack's .env into .env.encrypted",
	Long: `Encrypts the values of every stack's .env file into .env.encrypted.

Stacks whose .env.encrypted is already newer than .env are skipped unless
--force is given. With no arguments every stack below the project root is
processed; otherwise only the named stacks (paths relative to the root).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStacks(cmd, args, transform.Encrypt, workflows.Encrypt)
	},
}

func init() {
	addRunFlags(encryptCmd)
}
