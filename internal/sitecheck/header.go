package sitecheck

import (
	"regexp"
	"strings"

	"github.com/a3tai/sitecheck-reader/internal/pdf/primitives"
)

const (
	// headerScanLines bounds the identity scan at the top of page 1
	headerScanLines = 10

	organizationMarker = "Deutsche Glasfaser"
)

var documentIDPattern = regexp.MustCompile(`^(\d{6})\s*-\s*(.+)$`)

// siteFieldPattern captures one site field from the first page text
type siteFieldPattern struct {
	key     string
	pattern *regexp.Regexp
}

// siteFieldPatterns are applied in order; each key is assigned at most once
var siteFieldPatterns = []siteFieldPattern{
	{"standort", regexp.MustCompile(`(?im)(\d{4,6})\s*\n\s*Standort\s*\*`)},
	{"record_id", regexp.MustCompile(`(?im)Record ID:\s*\*\s*\n\s*(\d+)`)},
	{"datum", regexp.MustCompile(`(?im)Datum:\s*\*\s*\n\s*(\d{2}\.\d{2}\.\d{4})`)},
	{"pop_bundesland", regexp.MustCompile(`(?im)POP \(Bundesland\):\s*\*\s*\n\s*([^\n]+)`)},
	{"pop_id", regexp.MustCompile(`(?im)POP ID:\s*\*\s*\n\s*([^\n]+)`)},
	{"pop_typ", regexp.MustCompile(`(?im)POP Typ:\s*\*\s*\n\s*([^\n]+)`)},
	{"usv_typ", regexp.MustCompile(`(?im)USV-Typ:\s*\*\s*\n\s*([^\n]+)`)},
}

// VisitOutcomes is the vocabulary of the overall maintenance visit status
var VisitOutcomes = []string{"Wartung erfolgreich", "Kein Zugang", "Standort existiert nicht"}

// HeaderParser reads document identity and site fields from the first page
type HeaderParser struct {
	resolver *Resolver
}

// NewHeaderParser creates a header parser that resolves the visit status with resolver
func NewHeaderParser(resolver *Resolver) *HeaderParser {
	return &HeaderParser{resolver: resolver}
}

// Parse fills header and site info from page
func (hp *HeaderParser) Parse(page primitives.Page) (DocumentHeader, SiteInfo) {
	header := ParseDocumentHeader(page.Lines)

	var site SiteInfo
	ParseSiteFields(page.Text(), &site.Fields)

	if status, ok := hp.resolver.Resolve(page, VisitOutcomes); ok {
		site.Status = status
	}

	return header, site
}

// ParseDocumentHeader scans the first lines for the document id line and the
// organization line. The first match of each wins.
func ParseDocumentHeader(lines []string) DocumentHeader {
	var header DocumentHeader

	if len(lines) > headerScanLines {
		lines = lines[:headerScanLines]
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if header.DocumentID == "" {
			if m := documentIDPattern.FindStringSubmatch(line); m != nil {
				header.DocumentID = m[1]
				header.Title = m[2]
			}
		}

		if header.Organization == "" && strings.Contains(line, organizationMarker) {
			parts := strings.Split(line, " - ")
			header.Organization = strings.TrimSpace(parts[0])
			if len(parts) > 1 {
				header.Note = strings.TrimSpace(parts[1])
			}
		}
	}

	return header
}

// ParseSiteFields applies the site field patterns to text, setting each field once
func ParseSiteFields(text string, fields *Fields) {
	for _, sp := range siteFieldPatterns {
		if fields.Has(sp.key) {
			continue
		}
		if m := sp.pattern.FindStringSubmatch(text); m != nil {
			fields.Set(sp.key, strings.TrimSpace(m[1]))
		}
	}
}
