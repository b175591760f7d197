package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/greenfleet/greenfleet/config"
	"github.com/greenfleet/greenfleet/core/ledger"
	"github.com/greenfleet/greenfleet/pkg/export"
)

var (
	exportFormat string
	exportOut    string
	exportLimits []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the flattened fleet plan as CSV or JSON",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or json")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file, stdout when empty")
	exportCmd.Flags().StringArrayVar(&exportLimits, "limits", nil, "emission limit per year in kg CO2, repeat once per year")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	var encode func(io.Writer, []ledger.FlatRecord) error
	switch exportFormat {
	case "csv":
		encode = export.WriteCSV
	case "json":
		encode = export.WriteJSON
	default:
		return fmt.Errorf("unsupported format %q", exportFormat)
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	run, err := runPlan(cmd.Context(), cfg, exportLimits, 0)
	if err != nil {
		return err
	}
	rows := run.Export()
	write := func(w io.Writer) error { return encode(w, rows) }

	if exportOut == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(exportOut)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
