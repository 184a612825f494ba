package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/order-dashboard/internal/adapter/sheet"
	"github.com/couchcryptid/order-dashboard/internal/domain"
)

var errCheckFailed = errors.New("check failed")

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD787"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8787"))
	noteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a local sheet export",
		Long: "Parses and normalizes a downloaded CSV or XLSX export without touching\n" +
			"the network, then reports which rows the dashboard would skip.\n\n" +
			"Exits non-zero when a required column is missing, or with --strict\n" +
			"when any row would be skipped.",
		Args:         cobra.ExactArgs(1),
		RunE:         runCheckCmd,
		SilenceUsage: true,
	}

	cmd.Flags().String("format", string(sheet.FormatAuto), "Export format: auto, csv or xlsx")
	cmd.Flags().Bool("strict", false, "Fail when any row would be skipped")

	return cmd
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	rawFormat, _ := cmd.Flags().GetString("format")
	strict, _ := cmd.Flags().GetBool("strict")

	format, err := sheet.ParseFormat(rawFormat)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	return runCheck(cmd.OutOrStdout(), data, format, strict)
}

// phase tracks pass/fail for one check.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func runCheck(w io.Writer, data []byte, format sheet.Format, strict bool) error {
	fmt.Fprintln(w, "=== Order Sheet Check ===")
	fmt.Fprintln(w)

	parse := &phase{name: "Parse export"}
	columns := &phase{name: "Required columns"}
	rows := &phase{name: "Row quality"}
	phases := []*phase{parse, columns, rows}

	var norm domain.NormalizeResult
	table, err := sheet.Parse(data, format, "")
	if err != nil {
		parse.errorf("%v", err)
	} else {
		parse.notef("%d columns, %d rows", len(table.Columns), len(table.Rows))

		norm, err = domain.Normalize(table)
		if err != nil {
			columns.errorf("%v", err)
		} else {
			checkOptionalColumns(columns, norm)
			checkRows(rows, norm, strict)
		}
	}

	allPassed := report(w, phases)

	if columns.passed() && parse.passed() {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Records: %d kept, %d skipped\n", len(norm.Records), norm.Dropped.Total())
		fmt.Fprintf(w, "Statuses: %s\n", joinOrNone(domain.StatusOptions(norm.Records)))
		fmt.Fprintf(w, "Cities: %s\n", joinOrNone(domain.CityOptions(norm.Records)))
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll checks passed.")
		return nil
	}
	fmt.Fprintln(w, "\nCheck FAILED.")
	return errCheckFailed
}

func checkOptionalColumns(p *phase, norm domain.NormalizeResult) {
	for _, c := range []string{domain.ColumnTimestamp, domain.ColumnCustomerName, domain.ColumnEmail} {
		if !norm.HasColumn(c) {
			p.notef("optional column %q absent", c)
		}
	}
	if !norm.HasTimestamp() {
		p.notef("daily trend and forecasts will be unavailable")
	}
}

func checkRows(p *phase, norm domain.NormalizeResult, strict bool) {
	d := norm.Dropped
	report := p.notef
	if strict {
		report = p.errorf
	}
	if d.MissingRequired > 0 {
		report("%d rows missing City or Order Status", d.MissingRequired)
	}
	if d.InvalidTimestamp > 0 {
		report("%d rows with an unparseable Timestamp", d.InvalidTimestamp)
	}
	if len(norm.Records) == 0 {
		p.notef("no usable rows")
	}
}

// report prints the phase table followed by the details of each phase. It
// returns whether every phase passed.
func report(w io.Writer, phases []*phase) bool {
	allPassed := true
	for _, p := range phases {
		status := passStyle.Render("PASS")
		if !p.passed() {
			status = failStyle.Render(fmt.Sprintf("FAIL (%d errors)", len(p.errors)))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-24s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() && len(p.notes) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
		for _, n := range p.notes {
			fmt.Fprintln(w, noteStyle.Render("  note: "+n))
		}
	}
	return allPassed
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
