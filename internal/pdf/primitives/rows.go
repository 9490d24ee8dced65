package primitives

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

const (
	// RowTolerance is the maximum vertical center distance for two glyphs to share a row
	RowTolerance = 3.0

	// spaceGap is the horizontal gap after which a space is inserted between glyphs
	spaceGap = 2.0

	// WordGap is the horizontal gap that separates two words (pdfplumber x_tolerance)
	WordGap = 3.0
)

// Word is a run of glyphs without a horizontal gap
type Word struct {
	Text string `json:"text"`
	Box
}

// GroupRows clusters glyphs into rows in reading order. Rows are sorted top to
// bottom and the glyphs of each row left to right.
func GroupRows(chars []Char, tolerance float64) [][]Char {
	if len(chars) == 0 {
		return nil
	}

	sorted := make([]Char, len(chars))
	copy(sorted, chars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CenterY() < sorted[j].CenterY()
	})

	var rows [][]Char
	current := []Char{sorted[0]}
	anchor := sorted[0].CenterY()

	for _, ch := range sorted[1:] {
		if math.Abs(ch.CenterY()-anchor) <= tolerance {
			current = append(current, ch)
			continue
		}
		rows = append(rows, current)
		current = []Char{ch}
		anchor = ch.CenterY()
	}
	rows = append(rows, current)

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].Left < row[j].Left
		})
	}

	return rows
}

// rowText is the text of one row with a byte offset index back into its glyphs
type rowText struct {
	text   string
	starts []int
	chars  []Char
}

func buildRowText(row []Char) rowText {
	var b strings.Builder
	starts := make([]int, 0, len(row))

	for i, ch := range row {
		if i > 0 {
			prev := row[i-1]
			if ch.Left-prev.Right > spaceGap && !endsWithSpace(prev.Text) && !startsWithSpace(ch.Text) {
				b.WriteByte(' ')
			}
		}
		starts = append(starts, b.Len())
		b.WriteString(ch.Text)
	}

	return rowText{text: b.String(), starts: starts, chars: row}
}

// charAt returns the index of the glyph covering byte offset off
func (r rowText) charAt(off int) int {
	idx := sort.Search(len(r.starts), func(i int) bool {
		return r.starts[i] > off
	}) - 1
	if idx < 0 {
		return 0
	}
	return idx
}

// span returns the bounding box of glyphs first..last inclusive
func (r rowText) span(first, last int) Box {
	box := r.chars[first].Box
	for _, ch := range r.chars[first+1 : last+1] {
		box.Top = math.Min(box.Top, ch.Top)
		box.Bottom = math.Max(box.Bottom, ch.Bottom)
	}
	box.Right = r.chars[last].Right
	return box
}

// JoinRow renders one glyph row as text
func JoinRow(row []Char) string {
	return buildRowText(row).text
}

// RowLines renders glyph rows as plain text lines
func RowLines(chars []Char) []string {
	rows := GroupRows(chars, RowTolerance)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, buildRowText(row).text)
	}
	return lines
}

// Search locates the first occurrence of label in reading order and returns
// the bounding box of the glyphs it covers.
func (p Page) Search(label string) (Box, bool) {
	if label == "" {
		return Box{}, false
	}

	for _, row := range GroupRows(p.Chars, RowTolerance) {
		rt := buildRowText(row)
		off := strings.Index(rt.text, label)
		if off < 0 {
			continue
		}
		first := rt.charAt(off)
		last := rt.charAt(off + len(label) - 1)
		return rt.span(first, last), true
	}

	return Box{}, false
}

// Words splits the page glyphs into words. Blank glyphs are kept inside a
// word; only horizontal gaps wider than WordGap separate words.
func (p Page) Words() []Word {
	var words []Word

	for _, row := range GroupRows(p.Chars, RowTolerance) {
		start := 0
		for i := 1; i <= len(row); i++ {
			if i < len(row) && row[i].Left-row[i-1].Right <= WordGap {
				continue
			}
			rt := buildRowText(row[start:i])
			if text := strings.TrimSpace(rt.text); text != "" {
				words = append(words, Word{Text: rt.text, Box: rt.span(0, len(rt.chars)-1)})
			}
			start = i
		}
	}

	return words
}

func startsWithSpace(s string) bool {
	for _, r := range s {
		return unicode.IsSpace(r)
	}
	return false
}

func endsWithSpace(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)
	return unicode.IsSpace(r[len(r)-1])
}
