// Package export encodes ledger export rows for download.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/greenfleet/greenfleet/core/ledger"
)

// Filename is the suggested name of the CSV download.
const Filename = "fleet_optimization_results.csv"

// CSVHeader lists the export columns in order.
var CSVHeader = []string{
	"Year", "Action", "Vehicle ID", "Vehicle Type", "Size", "Cost (MYR)", "Carbon Emissions (kg CO2)",
}

// WriteCSV writes the rows to w as UTF-8 comma separated values with a header row.
func WriteCSV(w io.Writer, rows []ledger.FlatRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Year),
			r.Action.Title(),
			r.VehicleID,
			r.VehicleType,
			r.Size.String(),
			r.Cost.String(),
			strconv.FormatFloat(r.Emissions, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the rows to w as a JSON array.
func WriteJSON(w io.Writer, rows []ledger.FlatRecord) error {
	if rows == nil {
		rows = []ledger.FlatRecord{}
	}
	return json.NewEncoder(w).Encode(rows)
}
