package sitecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/a3tai/sitecheck-reader/internal/pdf/primitives"
)

func outcomePage() primitives.Page {
	return layoutPage(1,
		"Status *",
		"Wartung erfolgreich",
		"Kein Zugang",
		"Standort existiert nicht",
	)
}

func TestResolver_NothingMarked(t *testing.T) {
	_, ok := DefaultResolver().Resolve(outcomePage(), VisitOutcomes)
	assert.False(t, ok)
}

func TestResolver_AnnotationValue(t *testing.T) {
	page := outcomePage()
	page.Annotations = []primitives.Annotation{
		{Subtype: "Widget", Name: "status", Value: "Kein Zugang", Raw: "<</FT /Btn /V (Kein Zugang)>>"},
	}

	selected, ok := DefaultResolver().Resolve(page, VisitOutcomes)
	assert.True(t, ok)
	assert.Equal(t, "Kein Zugang", selected)
}

func TestResolver_AnnotationWithoutValueIgnored(t *testing.T) {
	page := outcomePage()
	page.Annotations = []primitives.Annotation{
		{Subtype: "Widget", Raw: "<</T (Kein Zugang)>>"},
	}

	_, ok := DefaultResolver().Resolve(page, VisitOutcomes)
	assert.False(t, ok)
}

func TestResolver_AnnotationWinsOverGlyphAndRectangle(t *testing.T) {
	page := outcomePage()
	page.Annotations = []primitives.Annotation{
		{Value: "Standort existiert nicht", Raw: "<</V (Standort existiert nicht)>>"},
	}
	page.Chars = append(page.Chars, marker("✓", boxLeftOf(1, 0, 12)))
	page.Rects = append(page.Rects, filledRect(boxLeftOf(2, 0, 12)))

	selected, ok := DefaultResolver().Resolve(page, VisitOutcomes)
	assert.True(t, ok)
	assert.Equal(t, "Standort existiert nicht", selected)
}

func TestResolver_GlyphWinsOverRectangle(t *testing.T) {
	page := outcomePage()
	page.Chars = append(page.Chars, marker("X", boxLeftOf(2, 0, 12)))
	page.Rects = append(page.Rects, filledRect(boxLeftOf(1, 0, 12)))

	selected, ok := DefaultResolver().Resolve(page, VisitOutcomes)
	assert.True(t, ok)
	assert.Equal(t, "Kein Zugang", selected)
}

func TestGlyphMarker_Window(t *testing.T) {
	tests := []struct {
		name   string
		glyph  string
		offset float64
		shift  float64
		want   bool
	}{
		{"check mark inside window", "✓", 12, 0, true},
		{"bullet inside window", "●", 20, 0, true},
		{"square near far edge", "■", 29, 0, true},
		{"at near edge", "X", 5, 0, false},
		{"at far edge", "X", 30, 0, false},
		{"beyond far edge", "X", 40, 0, false},
		{"slightly lower", "✔", 12, 4, true},
		{"other line", "✗", 12, 6, false},
		{"not a marker glyph", "o", 12, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := outcomePage()
			b := boxLeftOf(2, 0, tt.offset)
			b.Top += tt.shift
			b.Bottom += tt.shift
			page.Chars = append(page.Chars, marker(tt.glyph, b))

			assert.Equal(t, tt.want, GlyphMarker(page, "Kein Zugang"))
		})
	}
}

func TestFilledRectangle_Window(t *testing.T) {
	tests := []struct {
		name   string
		offset float64
		shift  float64
		fill   bool
		want   bool
	}{
		{"filled and aligned", 12, 0, true, true},
		{"filled within tolerance", 12, 8, true, true},
		{"filled outside tolerance", 12, 12, true, false},
		{"stroked only", 12, 0, false, false},
		{"too close", 4, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := outcomePage()
			b := boxLeftOf(1, 0, tt.offset)
			b.Top += tt.shift
			b.Bottom += tt.shift
			page.Rects = append(page.Rects, primitives.Rect{Box: b, Fill: tt.fill})

			assert.Equal(t, tt.want, FilledRectangle(page, "Wartung erfolgreich"))
		})
	}
}

func TestStrategies_LabelNotOnPage(t *testing.T) {
	page := outcomePage()
	page.Rects = append(page.Rects, filledRect(boxLeftOf(1, 0, 12)))

	assert.False(t, GlyphMarker(page, "Status 9"))
	assert.False(t, FilledRectangle(page, "Status 9"))
}

func TestResolver_VocabularyOrderWithinStrategy(t *testing.T) {
	page := outcomePage()
	page.Rects = append(page.Rects,
		filledRect(boxLeftOf(3, 0, 12)),
		filledRect(boxLeftOf(2, 0, 12)),
	)

	selected, ok := DefaultResolver().Resolve(page, VisitOutcomes)
	assert.True(t, ok)
	assert.Equal(t, "Kein Zugang", selected)
}
