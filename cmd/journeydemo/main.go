package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/journeydemo/internal/buildinfo"
	"github.com/ericfisherdev/journeydemo/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

// newRootCmd builds the CLI. Running it without a subcommand serves the UI.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "journeydemo",
		Short:         "Local demo of Alloy journey applications",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd)
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the demo UI and API (default)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd)
			},
		},
		&cobra.Command{
			Use:   "clear-cache",
			Short: "Forget every cached journey schema validation",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, func(a *app) error {
					if err := a.gateway.ClearValidationCache(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "validation cache cleared")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear-storage",
			Short: "Remove the saved configuration and application history",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, func(a *app) error {
					if err := a.prefs.ClearAll(cmd.Context()); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "configuration and history cleared")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), buildinfo.Current())
			},
		},
	)
	return root
}
