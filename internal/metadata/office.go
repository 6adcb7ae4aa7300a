package metadata

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"path"
	"strings"

	"github.com/On-Jun9/MetaSpy/pkg/types"
)

// OOXML package kinds.
const (
	KindDOCX = "DOCX"
	KindPPTX = "PPTX"
	KindXLSX = "XLSX"
)

const corePropertiesRel = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"

// mainParts is the directory every valid package of a kind carries.
var mainParts = map[string]string{
	KindDOCX: "word/",
	KindPPTX: "ppt/",
	KindXLSX: "xl/",
}

// OfficeExtractor reads OOXML core properties (docProps/core.xml).
type OfficeExtractor struct {
	kind string
}

func NewOfficeExtractor(kind string) *OfficeExtractor {
	return &OfficeExtractor{kind: kind}
}

func (e *OfficeExtractor) Kind() string { return e.kind }

type coreProperties struct {
	Title          string `xml:"title"`
	Subject        string `xml:"subject"`
	Creator        string `xml:"creator"`
	LastModifiedBy string `xml:"lastModifiedBy"`
	Revision       string `xml:"revision"`
	Created        string `xml:"created"`
	Modified       string `xml:"modified"`
}

type relationships struct {
	Items []struct {
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

func (e *OfficeExtractor) Extract(ctx context.Context, filePath string) (*types.Fields, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	hasMain := false
	for _, f := range zr.File {
		files[f.Name] = f
		if strings.HasPrefix(f.Name, mainParts[e.kind]) {
			hasMain = true
		}
	}
	if !hasMain {
		return nil, fmt.Errorf("not a %s package: no %s part", e.kind, mainParts[e.kind])
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var props coreProperties
	if f, ok := files[corePropertiesPart(files)]; ok {
		if err := decodeZipXML(f, &props); err != nil {
			return nil, fmt.Errorf("core properties: %w", err)
		}
	}

	fields := types.NewFields()
	fields.Set("File Type", e.kind)
	if e.kind == KindXLSX {
		fields.Set("Creator", textValue(props.Creator))
	} else {
		fields.Set("Author", textValue(props.Creator))
	}
	fields.Set("Last Modified By", textValue(props.LastModifiedBy))
	if e.kind != KindXLSX {
		fields.Set("Revision", intValue(props.Revision))
	}
	fields.Set("Created", dateValue(props.Created))
	fields.Set("Modified", dateValue(props.Modified))
	fields.Set("Title", textValue(props.Title))
	fields.Set("Subject", textValue(props.Subject))
	return fields, nil
}

// corePropertiesPart resolves the core properties part through the package
// relationships, falling back to the conventional location.
func corePropertiesPart(files map[string]*zip.File) string {
	const fallback = "docProps/core.xml"

	f, ok := files["_rels/.rels"]
	if !ok {
		return fallback
	}
	var rels relationships
	if err := decodeZipXML(f, &rels); err != nil {
		return fallback
	}
	for _, rel := range rels.Items {
		if rel.Type == corePropertiesRel {
			return strings.TrimPrefix(path.Clean("/"+rel.Target), "/")
		}
	}
	return fallback
}

func decodeZipXML(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}
