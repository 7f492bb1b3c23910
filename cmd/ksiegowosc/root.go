package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/kevin07696/ksiegowosc-client/internal/adapters/ksiegowosc"
	pkgerrors "github.com/kevin07696/ksiegowosc-client/pkg/errors"
)

// rootOptions are the persistent flags shared by every command
type rootOptions struct {
	configFile  string
	output      string
	metricsAddr string
	logLevel    string
}

func newRootCmd(ctx context.Context, out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "ksiegowosc",
		Short:         "Client for the 360ksiegowosc accounting API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := newRenderer(opts.output)
			return err
		},
	}
	root.SetOut(out)
	root.SetContext(ctx)

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "optional config file (yaml, json or toml)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")
	root.PersistentFlags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while the command runs")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(invoicesCmd(opts))
	root.AddCommand(customersCmd(opts))
	root.AddCommand(taxesCmd(opts))
	root.AddCommand(banksCmd(opts))
	root.AddCommand(timestampCmd(opts))
	root.AddCommand(signCmd(opts))

	return root
}

// exitCode maps failures to process exit codes: 2 for local validation
// errors, 130 for cancellation, 1 otherwise
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case pkgerrors.IsCanceled(err):
		return 130
	case ksiegowosc.IsValidationError(err):
		return 2
	default:
		return 1
	}
}
