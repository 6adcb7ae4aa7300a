package metadata

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// TimestampLayout is the single textual form of every date field.
const TimestampLayout = "2006-01-02 15:04:05"

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006:01:02 15:04:05",
	"2006:01:02 15:04:05Z07:00",
	TimestampLayout,
	"Mon Jan _2 15:04:05 2006 MST",
	"Mon Jan _2 15:04:05 2006",
	"D:20060102150405Z07'00'",
	"D:20060102150405Z",
	"D:20060102150405",
	"2006-01-02",
}

// textValue trims and NFC-normalizes s. Empty text is nil so the key stays
// present with a null value.
func textValue(s string) any {
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
	if s == "" {
		return nil
	}
	return norm.NFC.String(s)
}

// dateValue normalizes a date string to TimestampLayout. Empty input is nil;
// text that matches no known layout is kept as-is.
func dateValue(s string) any {
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
	if s == "" {
		return nil
	}
	if t, ok := parseDate(s); ok {
		return t.Format(TimestampLayout)
	}
	return norm.NFC.String(s)
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// intValue returns s as an int when it is numeric, the trimmed text otherwise.
func intValue(s string) any {
	v := textValue(s)
	str, ok := v.(string)
	if !ok {
		return v
	}
	if n, err := strconv.Atoi(str); err == nil {
		return n
	}
	return str
}
