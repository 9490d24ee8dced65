package sitecheck

import (
	"regexp"
	"strings"

	"github.com/a3tai/sitecheck-reader/internal/pdf/primitives"
)

// Line windows after a trigger line. These are tuned to the protocol layout
// and must stay literal.
const (
	popStatusWindow = 2
	keyTypeWindow   = 3
)

const (
	labelTerminator = "*"
	fieldKeyJoiner  = "_"

	popStatusTrigger = "PoP Status"
	keyTypeTrigger   = "ZAS Schlüssel"
	keyTypeKeyword   = "Schlüssel"
	keyTypeToken     = "2.4.2"

	keyTypeField       = "zas_schluessel"
	keyTypeOnSiteField = "zas_schluessel_vor_ort"
)

var (
	sectionPattern    = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)
	subsectionPattern = regexp.MustCompile(`^(\d+\.\d+)\s+(.+)$`)
	imagePattern      = regexp.MustCompile(`(?i)^\d+\.jpg$`)
)

// PoPStatusOptions is the vocabulary of the per-subsection PoP status
var PoPStatusOptions = []string{"Status 7", "Status 9"}

var (
	inlineStatusMarkers = []string{"✓", "X", "■"}
	keyTypeMarkers      = []string{"✓", "X", "■", "●"}
)

// scanState is the walker context threaded through the line fold
type scanState struct {
	sections   []*Section
	section    *Section
	subsection *Subsection
}

// Walker builds the section hierarchy from page lines in a single forward pass
type Walker struct {
	popResolver *Resolver
}

// NewWalker creates a walker. PoP status falls back to rectangle proximity
// when no inline marker is present.
func NewWalker() *Walker {
	return &Walker{popResolver: NewResolver(FilledRectangle)}
}

// Walk scans pages in order and returns the sections found. The returned
// slice is never nil.
func (w *Walker) Walk(pages []primitives.Page) []*Section {
	state := scanState{sections: []*Section{}}
	for _, page := range pages {
		state = w.scanPage(state, page)
	}
	return state.sections
}

func (w *Walker) scanPage(state scanState, page primitives.Page) scanState {
	lines := make([]string, len(page.Lines))
	for i, l := range page.Lines {
		lines[i] = strings.TrimSpace(l)
	}

	for i := range lines {
		state = w.step(state, page, lines, i)
	}

	if state.subsection != nil && len(page.Tables) > 0 {
		items := ExtractChecklistItems(page.Tables, state.subsection.Number, page.Number)
		state.subsection.Items = append(state.subsection.Items, items...)
	}

	return state
}

// step applies one line to the state. Header lines consume the line; the
// remaining rules all see it.
func (w *Walker) step(state scanState, page primitives.Page, lines []string, idx int) scanState {
	line := lines[idx]

	if m := sectionPattern.FindStringSubmatch(line); m != nil {
		sec := &Section{Number: m[1], Title: m[2], Page: page.Number, Subsections: []*Subsection{}}
		state.sections = append(state.sections, sec)
		state.section = sec
		state.subsection = nil
		return state
	}

	if m := subsectionPattern.FindStringSubmatch(line); m != nil && state.section != nil {
		sub := &Subsection{Number: m[1], Title: m[2], Page: page.Number}
		state.section.Subsections = append(state.section.Subsections, sub)
		state.subsection = sub
		return state
	}

	sub := state.subsection
	if sub == nil {
		return state
	}

	if imagePattern.MatchString(line) {
		sub.Images = append(sub.Images, line)
	}

	if strings.HasSuffix(line, labelTerminator) && idx+1 < len(lines) {
		value := lines[idx+1]
		if value != "" && !strings.HasSuffix(value, labelTerminator) {
			if key := fieldKey(line); key != "" {
				sub.Fields.Set(key, value)
			}
		}
	}

	if strings.Contains(line, popStatusTrigger) && sub.PoPStatus == "" {
		if status, ok := w.popStatus(page, lines, idx); ok {
			sub.PoPStatus = status
		}
	}

	if strings.Contains(line, keyTypeTrigger) {
		key := keyTypeOnSiteField
		if strings.Contains(line, keyTypeToken) {
			key = keyTypeField
		}
		if value, ok := keyType(lines, idx); ok {
			sub.Fields.Set(key, value)
		}
	}

	return state
}

// popStatus inspects the first status line in the window after the trigger.
// Inline markers decide directly; without any inline marker the page
// rectangles decide.
func (w *Walker) popStatus(page primitives.Page, lines []string, idx int) (string, bool) {
	for _, line := range window(lines, idx, popStatusWindow) {
		if !containsAny(line, PoPStatusOptions) {
			continue
		}
		if containsAny(line, inlineStatusMarkers) {
			for _, option := range PoPStatusOptions {
				before, _, found := strings.Cut(line, option)
				if found && containsAny(before, inlineStatusMarkers) {
					return option, true
				}
			}
			return "", false
		}
		return w.popResolver.Resolve(page, PoPStatusOptions)
	}
	return "", false
}

// keyType returns the marked key line in the window after the trigger with
// its markers removed
func keyType(lines []string, idx int) (string, bool) {
	for _, line := range window(lines, idx, keyTypeWindow) {
		if !strings.Contains(line, keyTypeKeyword) || !containsAny(line, keyTypeMarkers) {
			continue
		}
		value := line
		for _, m := range keyTypeMarkers {
			value = strings.ReplaceAll(value, m, "")
		}
		return strings.TrimSpace(value), true
	}
	return "", false
}

// fieldKey normalizes a label line into a field key
func fieldKey(label string) string {
	key := strings.TrimSpace(strings.ReplaceAll(label, labelTerminator, ""))
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, " ", fieldKeyJoiner)
	return strings.ReplaceAll(key, "-", fieldKeyJoiner)
}

// window returns up to n lines following idx
func window(lines []string, idx, n int) []string {
	start := idx + 1
	if start >= len(lines) {
		return nil
	}
	end := start + n
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start:end]
}
