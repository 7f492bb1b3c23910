package main

import (
	"github.com/spf13/cobra"
)

func taxesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "taxes",
		Short: "List tax rates; invoice rows reference these ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				taxes, err := a.client.GetTaxes(cmd.Context())
				if err != nil {
					return err
				}
				return a.print(taxes)
			})
		},
	}
}

func banksCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List company bank accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				banks, err := a.client.GetBanks(cmd.Context())
				if err != nil {
					return err
				}
				return a.print(banks)
			})
		},
	}
}
