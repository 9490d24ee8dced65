package sitecheck

import (
	"github.com/a3tai/sitecheck-reader/internal/pdf/primitives"
)

// Layout of synthetic pages: one line every 20 units, glyphs 6 wide and 10 high
const (
	fixtureLeft    = 100.0
	fixtureTop     = 50.0
	fixtureLeading = 20.0
	fixtureAdvance = 6.0
	fixtureHeight  = 10.0
)

// layoutPage builds a page whose glyphs spell out lines at fixed positions
func layoutPage(number int, lines ...string) primitives.Page {
	page := primitives.Page{Number: number, Width: 595, Height: 842, Lines: lines}
	for i, line := range lines {
		page.Chars = append(page.Chars, primitives.PlaceText(line, fixtureLeft, lineTop(i), fixtureAdvance, fixtureHeight)...)
	}
	return page
}

func lineTop(i int) float64 {
	return fixtureTop + float64(i)*fixtureLeading
}

// boxLeftOf returns a small box offset units left of column col on line i
func boxLeftOf(i, col int, offset float64) primitives.Box {
	left := fixtureLeft + float64(col)*fixtureAdvance - offset
	return primitives.Box{Left: left, Top: lineTop(i), Right: left + 6, Bottom: lineTop(i) + fixtureHeight}
}

func filledRect(b primitives.Box) primitives.Rect {
	return primitives.Rect{Box: b, Fill: true}
}

func marker(glyph string, b primitives.Box) primitives.Char {
	return primitives.Char{Text: glyph, Box: b}
}
