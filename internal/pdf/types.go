package pdf

import "github.com/a3tai/sitecheck-reader/internal/pdf/adapter"

// Upload is a document received as bytes, named for logs and errors
type Upload struct {
	Name string
	Data []byte
}

// Request Types

// SitecheckExtractFileRequest represents a request to extract the protocol model of a file
type SitecheckExtractFileRequest struct {
	Path string `json:"path"`
}

// PDFExtractTextFileRequest represents a request to extract the plain text of a file
type PDFExtractTextFileRequest struct {
	Path string `json:"path"`
}

// PDFLocateWordsFileRequest represents a request to locate words in a file
type PDFLocateWordsFileRequest struct {
	Path  string   `json:"path"`
	Words []string `json:"words"`
}

// PDFRedactionTargetsFileRequest represents a request to find the values of a labelled field
type PDFRedactionTargetsFileRequest struct {
	Path      string `json:"path"`
	FieldName string `json:"field_name"`
}

// PDFValidateFileRequest represents a request to validate a PDF file
type PDFValidateFileRequest struct {
	Path string `json:"path"`
}

// Response Types

// TextResult is the plain text of all pages joined by newlines
type TextResult struct {
	Text string `json:"text"`
}

// PageText is the plain text of one page
type PageText struct {
	Page    int    `json:"page"`
	Content string `json:"content"`
}

// TableData is one detected table with its body rows keyed by header
type TableData struct {
	TableNumber int                 `json:"table_number"`
	Headers     []string            `json:"headers"`
	Data        []map[string]string `json:"data"`
}

// PageTables lists the tables found on one page
type PageTables struct {
	Page   int         `json:"page"`
	Tables []TableData `json:"tables"`
}

// Element is a text block or a table in the combined page view
type Element struct {
	Type        string              `json:"type"` // "text" or "table"
	Content     string              `json:"content,omitempty"`
	TableNumber int                 `json:"table_number,omitempty"`
	Headers     []string            `json:"headers,omitempty"`
	Data        []map[string]string `json:"data,omitempty"`
}

// PageElements is the combined view of one page
type PageElements struct {
	Page     int       `json:"page"`
	Elements []Element `json:"elements"`
}

// ExtractAllResult holds text, tables and the combined view of every page
type ExtractAllResult struct {
	Text     []PageText     `json:"text"`
	Tables   []PageTables   `json:"tables"`
	Combined []PageElements `json:"combined"`
}

// WordLocation is a matched word or phrase with its box. Page is zero based.
type WordLocation struct {
	Page       int     `json:"page"`
	Text       string  `json:"text"`
	X0         float64 `json:"x0"`
	Y0         float64 `json:"y0"`
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	PageWidth  float64 `json:"page_width"`
	PageHeight float64 `json:"page_height"`
}

// LocateWordsResult lists every location found for the requested words
type LocateWordsResult struct {
	Locations []WordLocation `json:"locations"`
}

// RedactionTarget is the value following a field label on one line
type RedactionTarget struct {
	Page          int    `json:"page"`
	Field         string `json:"field"`
	ValueDetected string `json:"value_detected"`
}

// RedactionResult lists the values detected for a field
type RedactionResult struct {
	Targets []RedactionTarget `json:"redaction_targets"`
}

// PageWords is the word list of one page. Page is zero based.
type PageWords struct {
	Page  int      `json:"page"`
	Words []string `json:"words"`
}

// ImagesResult lists the embedded images of a document
type ImagesResult struct {
	Images []adapter.Image `json:"images"`
}

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Path    string `json:"path"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}
