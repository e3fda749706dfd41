package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/config"
	"github.com/wasmcloud-contrib/secrets-vault-broker/internal/secretstore"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the secrets broker",
		Long: `Start the secrets broker.

The broker will:
  - Subscribe to the configured wasmCloud secrets subject space
  - Mint short-lived assertions from caller capability claims
  - Exchange those assertions with Vault's JWT auth method
  - Publish its public signing key at the JWKS endpoint

Configuration precedence (highest to lowest):
  1. Command-line flags
  2. Environment variables (SVB_*)
  3. Configuration file`,
		RunE: runServe,
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := logrus.NewEntry(logrus.StandardLogger())

	// 1. Determine config file path
	configPath := configFile
	if configPath == "" {
		configPath = os.Getenv("SVB_CONFIG")
	}
	if configPath == "" {
		configPath = "./configs/secrets-vault-broker.yaml"
	}

	// 2. Load configuration (file + env vars + flags)
	loader, err := config.NewLoaderWithFlags(configPath, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg, err := loader.Get()
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	// 3. Create provider to build all components from config
	provider := config.NewProvider(cfg, log)

	// 4. Build the upstream secret store collaborator
	if cfg.Vault.Address == "" {
		return fmt.Errorf("vault.address is required")
	}
	store := secretstore.NewHTTPClient(cfg.Vault.Address)

	// 5. Build and start the broker
	b, nc, err := provider.Broker(store)
	if err != nil {
		return fmt.Errorf("failed to build broker: %w", err)
	}
	defer nc.Close()

	log.WithFields(logrus.Fields{
		"bus":       cfg.Bus.Address,
		"subject":   provider.SubjectMapper().SecretsSubject(),
		"jwks_addr": cfg.JWKS.BindAddress,
		"vault":     cfg.Vault.Address,
	}).Info("secrets-vault-broker starting")

	if err := b.Serve(ctx); err != nil {
		return fmt.Errorf("broker exited with error: %w", err)
	}

	log.Info("secrets-vault-broker shut down cleanly")
	return nil
}
