package main

import (
	"github.com/spf13/cobra"

	"github.com/kevin07696/ksiegowosc-client/internal/adapters/ksiegowosc"
)

func invoicesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "invoices", Short: "List or create sales invoices"}
	cmd.AddCommand(invoicesListCmd(opts))
	cmd.AddCommand(invoicesCreateCmd(opts))
	return cmd
}

func invoicesListCmd(opts *rootOptions) *cobra.Command {
	var (
		from   string
		to     string
		unpaid bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sales invoices for a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := &ksiegowosc.InvoiceQuery{PeriodStart: from, PeriodEnd: to}
			if cmd.Flags().Changed("unpaid") {
				query.UnPaid = &unpaid
			}

			return withApp(cmd, opts, func(a *app) error {
				invoices, err := a.client.GetInvoices(cmd.Context(), query)
				if err != nil {
					return err
				}
				return a.print(invoices)
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "period start, YYYYMMDD")
	cmd.Flags().StringVar(&to, "to", "", "period end, YYYYMMDD")
	cmd.Flags().BoolVar(&unpaid, "unpaid", false, "only unpaid invoices")
	return cmd
}

func invoicesCreateCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a sales invoice from a JSON payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload ksiegowosc.CreateInvoicePayload
			if err := readPayload(cmd, file, &payload); err != nil {
				return err
			}

			return withApp(cmd, opts, func(a *app) error {
				result, err := a.client.CreateInvoice(cmd.Context(), &payload)
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
