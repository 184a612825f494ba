// Command orderdash serves and inspects the order tracking dashboard built
// from a published order-form spreadsheet.
//
// Usage:
//
//	orderdash serve                     # HTTP API, scheduled refresh, optional Kafka feed
//	orderdash snapshot --output text    # run one refresh and print it
//	orderdash check orders.xlsx         # normalize a local export offline
//
// All runtime settings come from environment variables; see internal/config.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orderdash",
		Short: "Order tracking dashboard",
		Long: "Fetches the order-form spreadsheet, normalizes and filters the rows,\n" +
			"and presents status summaries, daily trends, forecasts and city locations.",
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSnapshotCmd())
	cmd.AddCommand(newCheckCmd())

	return cmd
}
