// Package geo derives a map link from extracted GPS coordinates.
package geo

import (
	"fmt"
	"net/url"

	"github.com/On-Jun9/MetaSpy/pkg/types"
)

const (
	LatitudeKey  = "GPSLatitude"
	LongitudeKey = "GPSLongitude"
)

// Enricher builds map query links on top of a base search URL.
type Enricher struct {
	baseURL string
}

func New(baseURL string) *Enricher {
	return &Enricher{baseURL: baseURL}
}

// Enrich returns a map link when fields carry both coordinates. Values are
// embedded as-is with no range or hemisphere checks. Any failure yields no link.
func (e *Enricher) Enrich(fields *types.Fields) (string, bool) {
	if fields == nil {
		return "", false
	}
	lat, ok := fields.Get(LatitudeKey)
	if !ok || !scalar(lat) {
		return "", false
	}
	lon, ok := fields.Get(LongitudeKey)
	if !ok || !scalar(lon) {
		return "", false
	}

	u, err := url.Parse(e.baseURL)
	if err != nil {
		return "", false
	}
	query := fmt.Sprintf("query=%v,%v", lat, lon)
	if u.RawQuery == "" {
		u.RawQuery = query
	} else {
		u.RawQuery += "&" + query
	}
	return u.String(), true
}

func scalar(v any) bool {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}
