package main

import (
	"github.com/spf13/cobra"

	"github.com/kevin07696/ksiegowosc-client/internal/adapters/ksiegowosc"
)

func customersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "customers", Short: "List or create customers"}
	cmd.AddCommand(customersListCmd(opts))
	cmd.AddCommand(customersCreateCmd(opts))
	return cmd
}

func customersListCmd(opts *rootOptions) *cobra.Command {
	var query ksiegowosc.CustomerQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				customers, err := a.client.GetCustomers(cmd.Context(), &query)
				if err != nil {
					return err
				}
				return a.print(customers)
			})
		},
	}
	cmd.Flags().StringVar(&query.Id, "id", "", "customer id")
	cmd.Flags().StringVar(&query.Name, "name", "", "customer name")
	cmd.Flags().StringVar(&query.RegNo, "reg-no", "", "registration number")
	cmd.Flags().StringVar(&query.VatRegNo, "vat-reg-no", "", "VAT registration number")
	cmd.Flags().StringVar(&query.CountryCode, "country", "", "two-letter country code")
	return cmd
}

func customersCreateCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a customer from a JSON payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			var customer ksiegowosc.NewCustomer
			if err := readPayload(cmd, file, &customer); err != nil {
				return err
			}

			return withApp(cmd, opts, func(a *app) error {
				result, err := a.client.CreateCustomer(cmd.Context(), &customer)
				if err != nil {
					return err
				}
				return a.print(result)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "payload file, - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
