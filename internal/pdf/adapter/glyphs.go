package adapter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/sitecheck-reader/internal/pdf/primitives"
)

// maxParentDepth bounds the page tree walk for inherited attributes
const maxParentDepth = 10

// mediaBox is a page's visible area in default user space
type mediaBox struct {
	llx, lly, urx, ury float64
}

func (m mediaBox) width() float64  { return m.urx - m.llx }
func (m mediaBox) height() float64 { return m.ury - m.lly }

// letterBox is used when neither the page nor its parents carry a MediaBox
var letterBox = mediaBox{0, 0, 612, 792}

// toLayout converts a user space point to top-left origin layout units
func (m mediaBox) toLayout(x, y float64) (float64, float64) {
	return x - m.llx, m.ury - y
}

// pageMediaBox reads the MediaBox of page, following Parent links for
// inherited values
func pageMediaBox(page pdf.Page) mediaBox {
	current := page.V
	for i := 0; i < maxParentDepth && !current.IsNull(); i++ {
		if box := current.Key("MediaBox"); !box.IsNull() {
			if mb, err := parseMediaBox(box); err == nil {
				return mb
			}
		}
		current = current.Key("Parent")
	}
	return letterBox
}

func parseMediaBox(v pdf.Value) (mb mediaBox, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed MediaBox: %v", r)
		}
	}()

	if v.Kind() != pdf.Array || v.Len() != 4 {
		return mediaBox{}, fmt.Errorf("MediaBox is not a 4-element array")
	}

	var coords [4]float64
	for i := range coords {
		val := v.Index(i)
		switch val.Kind() {
		case pdf.Integer:
			coords[i] = float64(val.Int64())
		case pdf.Real:
			coords[i] = val.Float64()
		default:
			f, perr := strconv.ParseFloat(strings.TrimSpace(val.Text()), 64)
			if perr != nil {
				return mediaBox{}, fmt.Errorf("invalid MediaBox coordinate %d: %w", i, perr)
			}
			coords[i] = f
		}
	}

	mb = mediaBox{
		llx: min(coords[0], coords[2]),
		lly: min(coords[1], coords[3]),
		urx: max(coords[0], coords[2]),
		ury: max(coords[1], coords[3]),
	}
	if mb.width() <= 0 || mb.height() <= 0 {
		return mediaBox{}, fmt.Errorf("empty MediaBox [%.2f %.2f %.2f %.2f]", coords[0], coords[1], coords[2], coords[3])
	}
	return mb, nil
}

// pageGlyphs returns the positioned glyphs of page in layout units. The
// glyph box spans from the baseline up by the font size.
func pageGlyphs(page pdf.Page, box mediaBox) (chars []primitives.Char, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("content decoding failed: %v", r)
		}
	}()

	texts := page.Content().Text
	chars = make([]primitives.Char, 0, len(texts))

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		left, bottom := box.toLayout(t.X, t.Y)
		size := t.FontSize
		if size <= 0 {
			size = 1
		}
		chars = append(chars, primitives.Char{
			Text: t.S,
			Box: primitives.Box{
				Left:   left,
				Top:    bottom - size,
				Right:  left + t.W,
				Bottom: bottom,
			},
		})
	}

	return chars, nil
}
