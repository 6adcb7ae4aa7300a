// Package report renders an aggregated Report as console text, a flat text
// file, JSON or CSV.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/On-Jun9/MetaSpy/pkg/types"
)

var (
	// ErrNoData is returned by the CSV renderer for an empty report. No file is written.
	ErrNoData = errors.New("no data to write")
	// ErrUnknownMode is returned for an output mode without a renderer.
	ErrUnknownMode = errors.New("unknown output mode")
)

const fileTimestampLayout = "20060102_150405"

// FileName returns metaspy_report_<YYYYMMDD_HHMMSS>.<ext> for a file mode.
func FileName(mode types.OutputMode, now time.Time) string {
	return fmt.Sprintf("metaspy_report_%s.%s", now.Format(fileTimestampLayout), mode)
}

// Render writes report to w in the given mode.
func Render(w io.Writer, mode types.OutputMode, report types.Report) error {
	switch mode {
	case types.OutputPrint:
		return WriteConsole(w, report)
	case types.OutputText:
		return WriteText(w, report)
	case types.OutputJSON:
		return WriteJSON(w, report)
	case types.OutputCSV:
		return WriteCSV(w, report)
	}
	return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// ContentType is the HTTP media type of a rendered report.
func ContentType(mode types.OutputMode) string {
	switch mode {
	case types.OutputJSON:
		return "application/json"
	case types.OutputCSV:
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// Save renders a file-based mode into dir and returns the written path.
// An empty CSV report returns ErrNoData before any file is created.
func Save(mode types.OutputMode, dir string, report types.Report, now time.Time) (string, error) {
	if !mode.IsFile() {
		return "", fmt.Errorf("%w: %q is not a file format", ErrUnknownMode, mode)
	}
	if mode == types.OutputCSV && len(report) == 0 {
		return "", ErrNoData
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, FileName(mode, now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}

	if err := Render(f, mode, report); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close report file: %w", err)
	}
	return path, nil
}

// formatValue renders a field value the way every text format shows it.
func formatValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
