package metadata

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/On-Jun9/MetaSpy/pkg/types"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// maxUndefinedLen caps opaque (UNDEFINED) tag payloads copied into the report.
const maxUndefinedLen = 64

var exifDateTags = map[string]bool{
	"DateTime":          true,
	"DateTimeOriginal":  true,
	"DateTimeDigitized": true,
}

var skippedTags = map[string]bool{
	"MakerNote":                        true,
	"ExifIFDPointer":                   true,
	"GPSInfoIFDPointer":                true,
	"InteroperabilityIFDPointer":       true,
	"ThumbJPEGInterchangeFormat":       true,
	"ThumbJPEGInterchangeFormatLength": true,
}

var imageTypes = map[string]string{
	".jpg":  "JPEG",
	".jpeg": "JPEG",
	".png":  "PNG",
	".tiff": "TIFF",
	".gif":  "GIF",
	".bmp":  "BMP",
}

// EXIFExtractor covers the raster formats: header dimensions from the image
// decoder plus every EXIF tag goexif can read.
type EXIFExtractor struct{}

func NewEXIFExtractor() *EXIFExtractor {
	return &EXIFExtractor{}
}

func (e *EXIFExtractor) Kind() string { return "image" }

func (e *EXIFExtractor) Extract(ctx context.Context, path string) (*types.Fields, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, format, cfgErr := image.DecodeConfig(f)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	x, exifErr := exif.Decode(f)
	if cfgErr != nil && exifErr != nil {
		return nil, fmt.Errorf("unreadable image (%v) and no EXIF data (%v)", cfgErr, exifErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fields := types.NewFields()
	if cfgErr == nil {
		fields.Set("File Type", strings.ToUpper(format))
		fields.Set("ImageWidth", cfg.Width)
		fields.Set("ImageHeight", cfg.Height)
	} else {
		fields.Set("File Type", imageTypes[strings.ToLower(filepath.Ext(path))])
	}

	if exifErr == nil && x != nil {
		addEXIFTags(fields, x)
	}
	return fields, nil
}

type tagCollector map[string]*tiff.Tag

func (c tagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	c[string(name)] = tag
	return nil
}

func addEXIFTags(fields *types.Fields, x *exif.Exif) {
	tags := tagCollector{}
	if err := x.Walk(tags); err != nil {
		return
	}

	names := make([]string, 0, len(tags))
	for name := range tags {
		if !skippedTags[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		v, ok := tagValue(tags[name])
		if !ok {
			continue
		}
		if s, isString := v.(string); isString && exifDateTags[name] {
			v = dateValue(s)
		}
		fields.Set(name, v)
	}

	// Decimal degrees replace the raw degree/minute/second rationals.
	if lat, long, err := x.LatLong(); err == nil {
		fields.Set("GPSLatitude", types.NumberValue(lat))
		fields.Set("GPSLongitude", types.NumberValue(long))
	}
}

// tagValue converts a TIFF tag to a report value. ok is false for tags that
// should not be reported.
func tagValue(tag *tiff.Tag) (any, bool) {
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return nil, false
		}
		return textValue(s), true
	case tiff.IntVal:
		if tag.Count == 1 {
			n, err := tag.Int64(0)
			if err != nil {
				return nil, false
			}
			return int(n), true
		}
	case tiff.RatVal:
		if tag.Count == 1 {
			num, den, err := tag.Rat2(0)
			if err != nil {
				return nil, false
			}
			if den == 0 {
				return fmt.Sprintf("%d/%d", num, den), true
			}
			f, _ := new(big.Rat).SetFrac64(num, den).Float64()
			return types.NumberValue(f), true
		}
	case tiff.FloatVal:
		if tag.Count == 1 {
			f, err := tag.Float(0)
			if err != nil {
				return nil, false
			}
			return types.NumberValue(f), true
		}
	case tiff.UndefVal:
		if len(tag.Val) > maxUndefinedLen {
			return nil, false
		}
	}
	return textValue(tag.String()), true
}
