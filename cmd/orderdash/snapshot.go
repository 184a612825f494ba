package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/order-dashboard/internal/adapter/terminal"
	"github.com/couchcryptid/order-dashboard/internal/config"
	"github.com/couchcryptid/order-dashboard/internal/domain"
	"github.com/couchcryptid/order-dashboard/internal/geocode"
	"github.com/couchcryptid/order-dashboard/internal/observability"
	"github.com/couchcryptid/order-dashboard/internal/pipeline"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Run one refresh and print the dashboard",
		Long: "Fetches the sheet once, applies the given filters and prints the result.\n\n" +
			"Omitting --status or --city selects every value; passing an empty value\n" +
			"(--status \"\") selects none.\n\n" +
			"Examples:\n" +
			"  orderdash snapshot\n" +
			"  orderdash snapshot --status Delivered,Shipped --city Lahore\n" +
			"  orderdash snapshot --q ali --field \"Customer Name\" --output json",
		Args:         cobra.NoArgs,
		RunE:         runSnapshotCmd,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", outputText, "Output format: text or json")
	cmd.Flags().StringSlice("status", nil, "Order statuses to include (repeatable or comma-separated)")
	cmd.Flags().StringSlice("city", nil, "Cities to include (repeatable or comma-separated)")
	cmd.Flags().String("field", domain.ColumnCustomerName, "Column searched by --q")
	cmd.Flags().String("q", "", "Case-insensitive keyword to search for")

	return cmd
}

func runSnapshotCmd(cmd *cobra.Command, _ []string) error {
	output, _ := cmd.Flags().GetString("output")
	if output != outputText && output != outputJSON {
		return fmt.Errorf("invalid --output %q (valid: text, json)", output)
	}
	spec, err := specFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLoggerTo(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	p, err := newPipeline(cfg, geocode.NewCache(), logger, observability.NewMetrics())
	if err != nil {
		return err
	}

	return runSnapshot(cmd.Context(), p, spec, output, cmd.OutOrStdout())
}

// runSnapshot executes one pipeline pass and writes it to w. A failed pass is
// still reported on w before its error is returned.
func runSnapshot(ctx context.Context, runner pipeline.Runner, spec domain.FilterSpec, output string, w io.Writer) error {
	started := time.Now()
	data, runErr := runner.Run(ctx, spec)

	if output == outputJSON {
		if runErr != nil {
			return runErr
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}

	if runErr != nil {
		if err := terminal.RenderError(w, runErr, started); err != nil {
			return err
		}
		return runErr
	}
	return terminal.Render(w, data)
}

// specFromFlags maps the filter flags onto a selection. Unset selection flags
// stay nil so every value is included.
func specFromFlags(cmd *cobra.Command) (domain.FilterSpec, error) {
	var spec domain.FilterSpec
	flags := cmd.Flags()

	if flags.Changed("status") {
		statuses, err := flags.GetStringSlice("status")
		if err != nil {
			return spec, err
		}
		spec.Statuses = nonEmpty(statuses)
	}
	if flags.Changed("city") {
		cities, err := flags.GetStringSlice("city")
		if err != nil {
			return spec, err
		}
		spec.Cities = nonEmpty(cities)
	}

	spec.SearchField, _ = flags.GetString("field")
	spec.Keyword, _ = flags.GetString("q")
	return spec, nil
}

// nonEmpty drops blank entries and always returns a non-nil slice.
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
