package sitecheck

import (
	"github.com/rs/zerolog"

	pdferrors "github.com/a3tai/sitecheck-reader/internal/pdf/errors"
	"github.com/a3tai/sitecheck-reader/internal/pdf/primitives"
)

// Extractor turns page primitives into a Protocol
type Extractor struct {
	header *HeaderParser
	walker *Walker
	logger zerolog.Logger
}

// NewExtractor creates an extractor with the default option resolver
func NewExtractor(logger zerolog.Logger) *Extractor {
	return &Extractor{
		header: NewHeaderParser(DefaultResolver()),
		walker: NewWalker(),
		logger: logger,
	}
}

// Extract parses the header from the first page and walks every page in
// order. A document without pages is an input failure; everything else that
// does not match is left out of the result.
func (e *Extractor) Extract(doc primitives.Document) (*Protocol, error) {
	if doc.PageCount() == 0 {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeEmptyDocument, "document has no pages")
	}

	pages := make([]primitives.Page, len(doc.Pages))
	for i, p := range doc.Pages {
		if p.Number == 0 {
			p.Number = i + 1
		}
		pages[i] = p
	}

	protocol := &Protocol{}
	protocol.Header, protocol.SiteInfo = e.header.Parse(pages[0])
	protocol.Sections = e.walker.Walk(pages)

	e.logger.Debug().
		Int("pages", len(pages)).
		Int("sections", len(protocol.Sections)).
		Int("items", len(protocol.Items())).
		Str("document_id", protocol.Header.DocumentID).
		Msg("protocol extracted")

	return protocol, nil
}
