package pdf

import (
	"slices"
	"strings"

	"github.com/a3tai/sitecheck-reader/internal/pdf/primitives"
)

// pageText returns the text of every page in order
func pageText(doc primitives.Document) []PageText {
	out := make([]PageText, 0, doc.PageCount())
	for i, page := range doc.Pages {
		out = append(out, PageText{Page: i + 1, Content: page.Text()})
	}
	return out
}

// joinedText concatenates the page texts with newlines
func joinedText(doc primitives.Document) string {
	texts := make([]string, 0, doc.PageCount())
	for _, page := range doc.Pages {
		texts = append(texts, page.Text())
	}
	return strings.Join(texts, "\n")
}

// tableData keys each body row by its header. A repeated header keeps the
// value of its last column.
func tableData(number int, table primitives.Table) TableData {
	headers := table.Header()
	if headers == nil {
		headers = []string{}
	}

	body := table.Body()
	data := make([]map[string]string, 0, len(body))
	for _, row := range body {
		record := make(map[string]string, len(headers))
		for i, h := range headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			record[h] = value
		}
		data = append(data, record)
	}

	return TableData{TableNumber: number, Headers: headers, Data: data}
}

// extractAll builds the per-page text, table and combined views
func extractAll(doc primitives.Document) *ExtractAllResult {
	result := &ExtractAllResult{
		Text:     pageText(doc),
		Tables:   []PageTables{},
		Combined: make([]PageElements, 0, doc.PageCount()),
	}

	for i, page := range doc.Pages {
		number := i + 1
		text := page.Text()

		var tables []TableData
		for j, table := range page.Tables {
			if len(table.Rows) == 0 {
				continue
			}
			tables = append(tables, tableData(j+1, table))
		}
		if len(tables) > 0 {
			result.Tables = append(result.Tables, PageTables{Page: number, Tables: tables})
		}

		elements := []Element{}
		if text != "" {
			elements = append(elements, Element{Type: "text", Content: text})
		}
		for _, t := range tables {
			elements = append(elements, Element{
				Type:        "table",
				TableNumber: t.TableNumber,
				Headers:     t.Headers,
				Data:        t.Data,
			})
		}
		result.Combined = append(result.Combined, PageElements{Page: number, Elements: elements})
	}

	return result
}

// locateWords finds every target on every page. A single word target
// matches any word containing it; a phrase matches a word equal to the
// whole phrase and every run of consecutive words equal to its words.
// Matching ignores case.
func locateWords(doc primitives.Document, targets []string) []WordLocation {
	found := []WordLocation{}

	for pageIndex, page := range doc.Pages {
		words := page.Words()
		texts := make([]string, len(words))
		lowered := make([]string, len(words))
		for i, w := range words {
			texts[i] = strings.TrimSpace(w.Text)
			lowered[i] = strings.ToLower(texts[i])
		}

		locate := func(text string, first, last primitives.Box) WordLocation {
			return WordLocation{
				Page:       pageIndex,
				Text:       text,
				X0:         first.Left,
				Y0:         first.Top,
				X1:         last.Right,
				Y1:         last.Bottom,
				PageWidth:  page.Width,
				PageHeight: page.Height,
			}
		}

		for _, target := range targets {
			targetWords := strings.Fields(strings.ToLower(target))

			switch len(targetWords) {
			case 0:
				continue
			case 1:
				for i, w := range lowered {
					if strings.Contains(w, targetWords[0]) {
						found = append(found, locate(words[i].Text, words[i].Box, words[i].Box))
					}
				}
			default:
				phrase := strings.Join(targetWords, " ")
				for i, w := range lowered {
					if w == phrase {
						found = append(found, locate(words[i].Text, words[i].Box, words[i].Box))
					}
				}
				n := len(targetWords)
				for i := 0; i+n <= len(lowered); i++ {
					if slices.Equal(lowered[i:i+n], targetWords) {
						text := strings.Join(texts[i:i+n], " ")
						found = append(found, locate(text, words[i].Box, words[i+n-1].Box))
					}
				}
			}
		}
	}

	return found
}

// redactionTargets returns, for every line containing field, the trimmed
// text after its first occurrence. Pages are one based.
func redactionTargets(doc primitives.Document, field string) []RedactionTarget {
	targets := []RedactionTarget{}

	for i, page := range doc.Pages {
		for _, line := range page.Lines {
			_, value, ok := strings.Cut(line, field)
			if !ok {
				continue
			}
			targets = append(targets, RedactionTarget{
				Page:          i + 1,
				Field:         field,
				ValueDetected: strings.TrimSpace(value),
			})
		}
	}

	return targets
}

// debugWords lists the raw word texts of every page
func debugWords(doc primitives.Document) []PageWords {
	out := make([]PageWords, 0, doc.PageCount())
	for i, page := range doc.Pages {
		words := []string{}
		for _, w := range page.Words() {
			words = append(words, w.Text)
		}
		out = append(out, PageWords{Page: i, Words: words})
	}
	return out
}
