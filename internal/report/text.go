package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/On-Jun9/MetaSpy/pkg/types"
)

// WriteConsole prints the interactive report. A failed record shows only its error.
func WriteConsole(w io.Writer, report types.Report) error {
	bw := bufio.NewWriter(w)
	for _, rec := range report {
		fmt.Fprintf(bw, "\n--- Metadata for: %s ---\n", rec.File)
		if cause, failed := rec.Failure(); failed {
			fmt.Fprintf(bw, "Error: %s\n", cause)
			continue
		}
		if rec.Metadata != nil {
			for pair := rec.Metadata.Oldest(); pair != nil; pair = pair.Next() {
				fmt.Fprintf(bw, "  %s: %s\n", pair.Key, formatValue(pair.Value))
			}
		}
		if rec.Geolocation != "" {
			fmt.Fprintf(bw, "  📍 Geolocation Link: %s\n", rec.Geolocation)
		}
	}
	fmt.Fprintln(bw, "\n✅ Analysis complete.")
	return bw.Flush()
}

// WriteText writes the flat text report, one block per record.
func WriteText(w io.Writer, report types.Report) error {
	bw := bufio.NewWriter(w)
	for _, rec := range report {
		fmt.Fprintf(bw, "--- Metadata for: %s ---\n", rec.File)
		if rec.Metadata != nil {
			for pair := rec.Metadata.Oldest(); pair != nil; pair = pair.Next() {
				fmt.Fprintf(bw, "%s: %s\n", pair.Key, formatValue(pair.Value))
			}
		}
		if rec.Geolocation != "" {
			fmt.Fprintf(bw, "Geolocation: %s\n", rec.Geolocation)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}
