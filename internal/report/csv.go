package report

import (
	"encoding/csv"
	"io"
	"sort"

	"github.com/On-Jun9/MetaSpy/pkg/types"
)

const (
	fileColumn        = "File"
	geolocationColumn = "Geolocation"
)

// Flatten turns each record into one row: File, Geolocation when present,
// then the record's fields (a field named like a base column overrides it).
// The header is the sorted union of every row's keys.
func Flatten(report types.Report) ([]string, []map[string]string) {
	rows := make([]map[string]string, 0, len(report))
	columns := make(map[string]bool)

	for _, rec := range report {
		row := map[string]string{fileColumn: rec.File}
		if rec.Geolocation != "" {
			row[geolocationColumn] = rec.Geolocation
		}
		if rec.Metadata != nil {
			for pair := rec.Metadata.Oldest(); pair != nil; pair = pair.Next() {
				row[pair.Key] = formatValue(pair.Value)
			}
		}
		for key := range row {
			columns[key] = true
		}
		rows = append(rows, row)
	}

	header := make([]string, 0, len(columns))
	for key := range columns {
		header = append(header, key)
	}
	sort.Strings(header)
	return header, rows
}

// WriteCSV writes the flattened report. Missing cells are empty.
func WriteCSV(w io.Writer, report types.Report) error {
	header, rows := Flatten(report)
	if len(rows) == 0 {
		return ErrNoData
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, len(header))
		for i, column := range header {
			record[i] = row[column]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
