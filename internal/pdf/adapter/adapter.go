// Package adapter decodes PDF bytes into the page primitives the protocol
// extractor works on: text lines, glyph boxes, annotations, painted
// rectangles and glyph-aligned tables.
package adapter

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"

	pdferrors "github.com/a3tai/sitecheck-reader/internal/pdf/errors"
	"github.com/a3tai/sitecheck-reader/internal/pdf/primitives"
)

// Adapter builds primitive documents from PDF bytes
type Adapter struct {
	logger zerolog.Logger
}

// New creates an adapter
func New(logger zerolog.Logger) *Adapter {
	return &Adapter{logger: logger}
}

// Result is a decoded document plus the non-fatal problems found on the way
type Result struct {
	Document primitives.Document
	Problems *pdferrors.ErrorCollection
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Load decodes data. The document is an input failure when it cannot be
// opened or has no pages. Pages whose annotations or shapes cannot be read
// are kept with what could be read and reported in Problems.
func (a *Adapter) Load(name string, data []byte) (*Result, error) {
	reader, err := openReader(data)
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeCorruptedData, err).WithFile(name)
	}

	pageCount := reader.NumPage()
	if pageCount == 0 {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeEmptyDocument, "document has no pages").WithFile(name)
	}

	problems := pdferrors.NewErrorCollection(name)

	ctx, err := api.ReadContext(bytes.NewReader(data), newConfiguration())
	if err == nil {
		err = ctx.EnsurePageCount()
	}
	if err != nil {
		problems.Add(pdferrors.WrapError(pdferrors.ErrorTypeInvalidContent, err).
			WithContext("annotations and shapes unavailable"))
		ctx = nil
	}

	doc := primitives.Document{Pages: make([]primitives.Page, 0, pageCount)}
	for i := 1; i <= pageCount; i++ {
		doc.Pages = append(doc.Pages, a.loadPage(reader, ctx, i, problems))
	}

	errCount, warnCount := problems.Count()
	a.logger.Debug().
		Str("file", name).
		Int("pages", pageCount).
		Int("errors", errCount).
		Int("warnings", warnCount).
		Msg("document decoded")

	return &Result{Document: doc, Problems: problems}, nil
}

func (a *Adapter) loadPage(reader *pdf.Reader, ctx *model.Context, pageNr int, problems *pdferrors.ErrorCollection) primitives.Page {
	page := reader.Page(pageNr)
	box := pageMediaBox(page)

	out := primitives.Page{
		Number: pageNr,
		Width:  box.width(),
		Height: box.height(),
	}

	chars, err := pageGlyphs(page, box)
	if err != nil {
		problems.Add(pdferrors.WrapError(pdferrors.ErrorTypeMalformedPage, err).WithPage(pageNr))
	}
	out.Chars = chars
	out.Lines = primitives.RowLines(chars)
	out.Tables = DetectTables(chars)

	if ctx == nil || pageNr > ctx.PageCount {
		return out
	}

	annots, err := pageAnnotations(ctx, pageNr)
	if err != nil {
		problems.Add(pdferrors.WrapError(pdferrors.ErrorTypeInvalidAnnotation, err).WithPage(pageNr))
	}
	out.Annotations = annots

	rects, err := pageRects(ctx, pageNr, box)
	if err != nil {
		problems.Add(pdferrors.WrapError(pdferrors.ErrorTypeInvalidContent, err).WithPage(pageNr))
	}
	out.Rects = rects

	return out
}

// openReader opens data with the glyph reader. It panics on some malformed
// cross reference tables, which is reported as an error.
func openReader(data []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader, err = nil, fmt.Errorf("failed to open PDF: %v", r)
		}
	}()

	reader, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return reader, nil
}
