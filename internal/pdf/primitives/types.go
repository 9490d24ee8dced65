package primitives

import (
	"strings"
)

// Box is an axis-aligned rectangle in layout units with a top-left origin
type Box struct {
	Left   float64 `json:"x0"`
	Top    float64 `json:"top"`
	Right  float64 `json:"x1"`
	Bottom float64 `json:"bottom"`
}

// CenterY returns the vertical center of the box
func (b Box) CenterY() float64 {
	return (b.Top + b.Bottom) / 2
}

// Char is a single rendered glyph run with its bounding box
type Char struct {
	Text string `json:"text"`
	Box
}

// Rect is a vector rectangle primitive
type Rect struct {
	Box
	Fill bool `json:"fill"`
}

// Annotation is a page annotation. Value holds the resolved /V entry when
// present and Raw the serialized annotation dictionary.
type Annotation struct {
	Subtype string `json:"subtype,omitempty"`
	Name    string `json:"name,omitempty"`
	Value   string `json:"value,omitempty"`
	Raw     string `json:"raw,omitempty"`
}

// Table is a grid of cells. The first row is the header.
type Table struct {
	Rows [][]string `json:"rows"`
}

// Header returns the first row of the table, or nil for an empty table
func (t Table) Header() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// Body returns every row after the header
func (t Table) Body() [][]string {
	if len(t.Rows) < 2 {
		return nil
	}
	return t.Rows[1:]
}

// Page holds everything the structure engine needs from one PDF page
type Page struct {
	Number      int          `json:"page"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	Lines       []string     `json:"lines"`
	Chars       []Char       `json:"chars,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Rects       []Rect       `json:"rects,omitempty"`
	Tables      []Table      `json:"tables,omitempty"`
}

// Text returns the page lines joined by newlines
func (p Page) Text() string {
	return strings.Join(p.Lines, "\n")
}

// Document is the ordered page sequence of one PDF
type Document struct {
	Pages []Page `json:"pages"`
}

// PageCount returns the number of pages in the document
func (d Document) PageCount() int {
	return len(d.Pages)
}

// PlaceText lays out s as one glyph per rune starting at (left, top) with a
// fixed advance. It builds synthetic pages for fixtures and previews.
func PlaceText(s string, left, top, advance, height float64) []Char {
	chars := make([]Char, 0, len(s))
	x := left
	for _, r := range s {
		chars = append(chars, Char{
			Text: string(r),
			Box:  Box{Left: x, Top: top, Right: x + advance, Bottom: top + height},
		})
		x += advance
	}
	return chars
}
