// Package types defines core data structures used across MetaSpy modules.
package types

import (
	"math"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrorKey is the single key of a failed extraction's field mapping.
const ErrorKey = "Error"

// FileEntry represents one input path after the existence check.
type FileEntry struct {
	// Path is the path as given on the command line (or produced by directory expansion).
	Path string
	// Name is the base filename.
	Name string
	// Size is the file size in bytes.
	Size int64
	// ModTime is the file modification time.
	ModTime time.Time
	// Extension is the lowercase file extension without dot (e.g., "pdf", "jpg").
	Extension string
}

// Fields is an ordered mapping of metadata field names to values.
// Values are strings, numbers (int when whole, float64 otherwise) or nil.
// JSON encoding keeps insertion order.
type Fields = orderedmap.OrderedMap[string, any]

// NewFields returns an empty field mapping.
func NewFields() *Fields {
	return orderedmap.New[string, any]()
}

// ErrorFields returns the single-field mapping used for a failed extraction.
func ErrorFields(msg string) *Fields {
	f := NewFields()
	f.Set(ErrorKey, msg)
	return f
}

// maxExactInt bounds the whole numbers a float64 holds exactly.
const maxExactInt = 1 << 53

// NumberValue returns f as an int when it is a whole number, so a numeric
// field has the same Go type before and after a JSON round trip.
func NumberValue(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < maxExactInt {
		return int(f)
	}
	return f
}

// Record is the normalized per-file result (one MetadataRecord per analyzed file).
type Record struct {
	File        string  `json:"file"`
	Metadata    *Fields `json:"metadata"`
	Geolocation string  `json:"Geolocation,omitempty"`
}

// Failure reports whether the record describes a failed extraction and returns its cause.
func (r Record) Failure() (string, bool) {
	if r.Metadata == nil {
		return "", false
	}
	v, ok := r.Metadata.Get(ErrorKey)
	if !ok {
		return "", false
	}
	if s, isString := v.(string); isString {
		return s, true
	}
	return "", true
}

// Report is the ordered sequence of records of a run, in input order.
type Report []Record

// OutputMode selects the report renderer.
type OutputMode string

const (
	OutputPrint OutputMode = "print"
	OutputText  OutputMode = "txt"
	OutputCSV   OutputMode = "csv"
	OutputJSON  OutputMode = "json"
)

// ParseOutputMode accepts the CLI spellings of an output mode. "console" is an alias of "print".
func ParseOutputMode(s string) (OutputMode, bool) {
	switch s {
	case "", "print", "console", "console-print":
		return OutputPrint, true
	case "txt", "text":
		return OutputText, true
	case "csv":
		return OutputCSV, true
	case "json":
		return OutputJSON, true
	}
	return "", false
}

// IsFile reports whether the mode writes a report file.
func (m OutputMode) IsFile() bool {
	return m == OutputText || m == OutputCSV || m == OutputJSON
}

// RunSummary contains statistics for a completed run.
type RunSummary struct {
	RunID       string        `json:"run_id"`
	Inputs      int           `json:"inputs"`
	Analyzed    int           `json:"analyzed"`
	Failed      int           `json:"failed"`
	Missing     int           `json:"missing"`
	Unsupported int           `json:"unsupported"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Duration    time.Duration `json:"duration"`
}
