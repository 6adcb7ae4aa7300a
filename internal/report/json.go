package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/On-Jun9/MetaSpy/pkg/types"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// WriteJSON writes the report as an indented array of records. Field order is
// kept as extracted.
func WriteJSON(w io.Writer, report types.Report) error {
	if report == nil {
		report = types.Report{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}

type jsonRecord struct {
	File        string                                          `json:"file"`
	Metadata    *orderedmap.OrderedMap[string, json.RawMessage] `json:"metadata"`
	Geolocation string                                          `json:"Geolocation,omitempty"`
}

// ReadJSON decodes a report written by WriteJSON. Integer literals come back
// as int and other numbers as float64, matching what the extractors store.
func ReadJSON(r io.Reader) (types.Report, error) {
	var records []jsonRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}

	report := make(types.Report, 0, len(records))
	for _, rec := range records {
		out := types.Record{File: rec.File, Geolocation: rec.Geolocation}
		if rec.Metadata != nil {
			out.Metadata = types.NewFields()
			for pair := rec.Metadata.Oldest(); pair != nil; pair = pair.Next() {
				v, err := decodeValue(pair.Value)
				if err != nil {
					return nil, fmt.Errorf("%s: field %q: %w", rec.File, pair.Key, err)
				}
				out.Metadata.Set(pair.Key, v)
			}
		}
		report = append(report, out)
	}
	return report, nil
}

func decodeValue(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return numbers(v), nil
}

// numbers replaces json.Number values, including nested ones.
func numbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n)
		}
		f, _ := x.Float64()
		return types.NumberValue(f)
	case []any:
		for i := range x {
			x[i] = numbers(x[i])
		}
	case map[string]any:
		for k := range x {
			x[k] = numbers(x[k])
		}
	}
	return v
}
