package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
)

// NewRootCmd creates the root command for the secrets broker.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "secrets-vault-broker",
		Short: "secrets-vault-broker - a wasmCloud secrets backend for HashiCorp Vault",
		Long: `secrets-vault-broker bridges wasmCloud's secrets protocol to a
HashiCorp Vault instance: it listens on the wasmcloud.secrets subject
space, mints short-lived JWT assertions from the caller's capability
claims, exchanges them with Vault's JWT auth method, and returns the
requested secret sealed to the caller's ephemeral curve25519 key.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default: ./configs/secrets-vault-broker.yaml)")

	// Add subcommands
	rootCmd.AddCommand(NewServeCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
