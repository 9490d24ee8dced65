package sitecheck

import (
	"math"
	"strings"

	"github.com/a3tai/sitecheck-reader/internal/pdf/primitives"
)

// Marker window around an option label. A checkbox sits left of its label.
const (
	markerMinOffset       = 5.0
	markerMaxOffset       = 30.0
	glyphRowTolerance     = 5.0
	rectangleRowTolerance = 10.0
)

// markerGlyphs are the rendered characters that mark a selected checkbox
var markerGlyphs = map[string]bool{
	"✓": true,
	"✔": true,
	"X": true,
	"x": true,
	"✗": true,
	"■": true,
	"●": true,
}

// Strategy decides whether label is visibly selected on page
type Strategy func(page primitives.Page, label string) bool

// Resolver picks the selected option out of a set of mutually exclusive labels
// by trying strategies in priority order. The first strategy that selects any
// option decides; options are tried in vocabulary order within a strategy.
type Resolver struct {
	strategies []Strategy
}

// NewResolver creates a resolver with the given strategy chain
func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// DefaultResolver checks annotation values, then marker glyphs, then filled rectangles
func DefaultResolver() *Resolver {
	return NewResolver(AnnotationValue, GlyphMarker, FilledRectangle)
}

// Resolve returns the selected option. ok is false when no strategy selects
// any option; callers must leave the state unset in that case.
func (r *Resolver) Resolve(page primitives.Page, options []string) (selected string, ok bool) {
	for _, strategy := range r.strategies {
		for _, option := range options {
			if strategy(page, option) {
				return option, true
			}
		}
	}
	return "", false
}

// AnnotationValue selects label when an annotation carrying a value mentions it
func AnnotationValue(page primitives.Page, label string) bool {
	for _, annot := range page.Annotations {
		if annot.Value == "" {
			continue
		}
		if strings.Contains(annot.Raw, label) || strings.Contains(annot.Value, label) {
			return true
		}
	}
	return false
}

// GlyphMarker selects label when a marker glyph sits just left of it on the same line
func GlyphMarker(page primitives.Page, label string) bool {
	pos, found := page.Search(label)
	if !found {
		return false
	}
	for _, ch := range page.Chars {
		if !markerGlyphs[ch.Text] {
			continue
		}
		if inMarkerWindow(ch.Box, pos, glyphRowTolerance) {
			return true
		}
	}
	return false
}

// FilledRectangle selects label when a filled rectangle sits just left of it
func FilledRectangle(page primitives.Page, label string) bool {
	pos, found := page.Search(label)
	if !found {
		return false
	}
	for _, rect := range page.Rects {
		if !rect.Fill {
			continue
		}
		if inMarkerWindow(rect.Box, pos, rectangleRowTolerance) {
			return true
		}
	}
	return false
}

// inMarkerWindow reports whether candidate lies strictly between the marker
// offsets left of the label and vertically within tolerance of its center
func inMarkerWindow(candidate, label primitives.Box, tolerance float64) bool {
	if candidate.Left >= label.Left-markerMinOffset || candidate.Left <= label.Left-markerMaxOffset {
		return false
	}
	return math.Abs(candidate.CenterY()-label.CenterY()) < tolerance
}

// containsAny reports whether s contains any of subs
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
