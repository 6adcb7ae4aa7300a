package metadata

import (
	"context"
	"io"
	"os"
	"runtime"

	"code.sajari.com/docconv"
	"github.com/On-Jun9/MetaSpy/pkg/types"
	"golang.org/x/sync/semaphore"
)

// PDFExtractor reads the document information dictionary through docconv,
// which shells out to poppler's pdfinfo/pdftotext. Dates are the wall time
// pdfinfo prints.
//
// docconv cannot cancel its child processes. A conversion abandoned on
// timeout holds its slot until the processes exit, so no more than the slot
// count of conversions ever run at once.
type PDFExtractor struct {
	convert func(r io.Reader) (string, map[string]string, error)
	slots   *semaphore.Weighted
}

func NewPDFExtractor() *PDFExtractor {
	return newPDFExtractor(docconv.ConvertPDF, runtime.GOMAXPROCS(0))
}

func newPDFExtractor(convert func(r io.Reader) (string, map[string]string, error), slots int) *PDFExtractor {
	return &PDFExtractor{convert: convert, slots: semaphore.NewWeighted(int64(slots))}
}

func (e *PDFExtractor) Kind() string { return "PDF" }

type pdfResult struct {
	meta map[string]string
	err  error
}

func (e *PDFExtractor) Extract(ctx context.Context, path string) (*types.Fields, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if err := e.slots.Acquire(ctx, 1); err != nil {
		f.Close()
		return nil, err
	}

	done := make(chan pdfResult, 1)
	go func() {
		defer e.slots.Release(1)
		defer f.Close()
		_, meta, err := e.convert(f)
		done <- pdfResult{meta: meta, err: err}
	}()

	var meta map[string]string
	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		meta = res.meta
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	fields := types.NewFields()
	fields.Set("File Type", "PDF")
	fields.Set("Title", textValue(meta["Title"]))
	fields.Set("Author", textValue(meta["Author"]))
	fields.Set("Creator", textValue(meta["Creator"]))
	fields.Set("Producer", textValue(meta["Producer"]))
	fields.Set("Creation Date", dateValue(meta["CreationDate"]))
	fields.Set("Modification Date", dateValue(meta["ModDate"]))
	return fields, nil
}
