package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Simplici0/bidcost/internal/estimate"
	"github.com/Simplici0/bidcost/internal/format"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary <estimate-id>",
	Short: "Print the line item totals and roll-up of an estimate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		sheet, err := estimate.NewService(st).Summary(ctx, args[0])
		if err != nil {
			return err
		}

		if summaryJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(presentSheet(sheet))
		}
		return printSheet(cmd.OutOrStdout(), sheet)
	},
}

func printSheet(out io.Writer, sheet *estimate.Sheet) error {
	est := sheet.Estimate
	fmt.Fprintf(out, "Proposal %s v%d (%s)\n\n", est.ProposalNo, est.VersionNumber, est.Status)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tDESCRIPTION\tTOTAL")
	for _, row := range sheet.Rows {
		desc, _ := row.Fields["description"].(string)
		if desc == "" {
			desc, _ = row.Fields["classification"].(string)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", row.Category, desc, format.Currency(row.Total))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	s := sheet.Summary
	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, slice := range s.Slices {
		fmt.Fprintf(w, "%s\t%s\t\n", slice.Label, format.Currency(slice.Value))
	}
	fmt.Fprintf(w, "Subtotal\t%s\t\n", format.Currency(s.SubTotal))
	fmt.Fprintf(w, "Markup %s\t%s\t\n", format.Percent(s.MarkupPercent), format.Currency(s.MarkupAmount))
	fmt.Fprintf(w, "Grand total\t%s\t\n", format.Currency(s.GrandTotal))
	return w.Flush()
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "print the summary as JSON")
	rootCmd.AddCommand(summaryCmd)
}
