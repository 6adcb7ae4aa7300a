package metadata

import (
	"path/filepath"
	"sort"
	"strings"
)

// DefaultProviders returns the fixed extension table. Raster formats share one
// image provider.
func DefaultProviders() map[string]Provider {
	image := NewEXIFExtractor()
	return map[string]Provider{
		".pdf":  NewPDFExtractor(),
		".docx": NewOfficeExtractor(KindDOCX),
		".pptx": NewOfficeExtractor(KindPPTX),
		".xlsx": NewOfficeExtractor(KindXLSX),
		".jpg":  image,
		".jpeg": image,
		".png":  image,
		".tiff": image,
		".gif":  image,
		".bmp":  image,
	}
}

// Dispatch selects the provider for path by its case-insensitive extension.
// It returns nil for unsupported extensions; the file should be skipped.
func (e *Extractor) Dispatch(path string) Provider {
	return e.providers[strings.ToLower(filepath.Ext(path))]
}

// SupportedExtensions lists the routed extensions in sorted order.
func (e *Extractor) SupportedExtensions() []string {
	exts := make([]string, 0, len(e.providers))
	for ext := range e.providers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
