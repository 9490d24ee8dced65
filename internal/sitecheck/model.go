package sitecheck

import (
	"bytes"
	"encoding/json"
)

// ItemStatus is the recorded outcome of one checklist item
type ItemStatus string

// Checklist item outcomes, spelled as they appear in the protocol forms
const (
	StatusOK           ItemStatus = "OK"
	StatusNotOK        ItemStatus = "Nicht OK"
	StatusNotNecessary ItemStatus = "Nicht notwendig"
	StatusNotChecked   ItemStatus = "Not checked"
)

// Fields is an insertion-ordered string map where the first write of a key wins
type Fields struct {
	keys   []string
	values map[string]string
}

// Set stores value under key unless the key is already present. It reports
// whether the value was stored.
func (f *Fields) Set(key, value string) bool {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, exists := f.values[key]; exists {
		return false
	}
	f.keys = append(f.keys, key)
	f.values[key] = value
	return true
}

// Get returns the value stored under key
func (f *Fields) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Has reports whether key is present
func (f *Fields) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Keys returns the keys in insertion order
func (f *Fields) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Len returns the number of stored keys
func (f *Fields) Len() int {
	return len(f.keys)
}

// MarshalJSON encodes the fields as an object in insertion order
func (f Fields) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	for _, k := range f.keys {
		if err := w.field(k, f.values[k]); err != nil {
			return nil, err
		}
	}
	return w.close(), nil
}

// DocumentHeader identifies the protocol
type DocumentHeader struct {
	DocumentID   string `json:"document_id,omitempty"`
	Title        string `json:"title,omitempty"`
	Organization string `json:"organization,omitempty"`
	Note         string `json:"note,omitempty"`
}

// SiteInfo holds the top-of-form site fields and the overall visit outcome
type SiteInfo struct {
	Fields Fields
	Status string
}

// MarshalJSON flattens the site fields and appends status when it was resolved
func (s SiteInfo) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	for _, k := range s.Fields.keys {
		if k == "status" {
			continue
		}
		if err := w.field(k, s.Fields.values[k]); err != nil {
			return nil, err
		}
	}
	if s.Status != "" {
		if err := w.field("status", s.Status); err != nil {
			return nil, err
		}
	}
	return w.close(), nil
}

// ChecklistItem is one numbered row of a checklist table
type ChecklistItem struct {
	Number      string     `json:"number"`
	Description string     `json:"description"`
	Status      ItemStatus `json:"status"`
	Page        int        `json:"page"`
}

// Subsection is a numbered block such as "2.4" inside a section
type Subsection struct {
	Number    string
	Title     string
	Page      int
	Fields    Fields
	Images    []string
	PoPStatus string
	Items     []ChecklistItem
}

// reservedSubsectionKeys cannot be shadowed by free-form fields
var reservedSubsectionKeys = map[string]bool{
	"number":     true,
	"title":      true,
	"page":       true,
	"items":      true,
	"images":     true,
	"pop_status": true,
}

// MarshalJSON flattens free-form fields next to the fixed subsection keys
func (s Subsection) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	if err := w.field("number", s.Number); err != nil {
		return nil, err
	}
	if err := w.field("title", s.Title); err != nil {
		return nil, err
	}
	if err := w.field("page", s.Page); err != nil {
		return nil, err
	}
	for _, k := range s.Fields.keys {
		if reservedSubsectionKeys[k] {
			continue
		}
		if err := w.field(k, s.Fields.values[k]); err != nil {
			return nil, err
		}
	}
	if len(s.Images) > 0 {
		if err := w.field("images", s.Images); err != nil {
			return nil, err
		}
	}
	if s.PoPStatus != "" {
		if err := w.field("pop_status", s.PoPStatus); err != nil {
			return nil, err
		}
	}
	items := s.Items
	if items == nil {
		items = []ChecklistItem{}
	}
	if err := w.field("items", items); err != nil {
		return nil, err
	}
	return w.close(), nil
}

// Section is a top-level numbered block such as "2."
type Section struct {
	Number      string        `json:"number"`
	Title       string        `json:"title"`
	Page        int           `json:"page"`
	Subsections []*Subsection `json:"subsections"`
}

// Protocol is the structured model of one site inspection protocol
type Protocol struct {
	Header   DocumentHeader `json:"document_header"`
	SiteInfo SiteInfo       `json:"site_info"`
	Sections []*Section     `json:"sections"`
}

// Items returns every checklist item of the protocol in document order
func (p *Protocol) Items() []ChecklistItem {
	var items []ChecklistItem
	for _, sec := range p.Sections {
		for _, sub := range sec.Subsections {
			items = append(items, sub.Items...)
		}
	}
	return items
}

// objectWriter emits a JSON object with keys in call order
type objectWriter struct {
	buf   bytes.Buffer
	count int
}

func newObjectWriter() *objectWriter {
	w := &objectWriter{}
	w.buf.WriteByte('{')
	return w
}

func (w *objectWriter) field(key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if w.count > 0 {
		w.buf.WriteByte(',')
	}
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(v)
	w.count++
	return nil
}

func (w *objectWriter) close() []byte {
	w.buf.WriteByte('}')
	return w.buf.Bytes()
}
