package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"showcase/internal/backend"
	"showcase/internal/cli"
	"showcase/internal/config"
)

// openFunc resolves the record backend for one command invocation.
type openFunc func(ctx context.Context) (*backend.BackendResult, error)

func openFromEnv(ctx context.Context) (*backend.BackendResult, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cli.SetupLogger(cfg)

	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(logger.Logger).CreateBackend(ctx, bc)
}

func newRootCmd(open openFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "showcasectl",
		Short:         "Inspect showcase records from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.LoadEnvFile()
		},
	}
	root.AddCommand(newRecordsCmd(open))
	return root
}

func main() {
	if err := newRootCmd(openFromEnv).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
