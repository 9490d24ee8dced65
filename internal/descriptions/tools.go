package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	SitecheckExtractFileDescription = `Extract the structured model of a site inspection protocol PDF.

**When to use:** Need the document header, site fields, sections, subsections and checklist item statuses of a protocol as JSON.

**Why it's useful:** Resolves checkbox states from form field values, inline glyph markers and filled rectangles, and reads the OK / Nicht OK / Nicht notwendig columns of checklist tables.

**Examples:**
• "Extract protocol-123456.pdf and list every item that is Not OK"
• "Which subsections of protocol.pdf have pictures attached?"
• "What is the PoP status recorded in protocol.pdf?"

**Common workflows:**
1. Review: pdf_validate_file → sitecheck_extract_file → summarize the Not OK items
2. Follow-up: sitecheck_extract_file → filter items by status → plan a revisit

**Best practices:** Paths are relative to the configured directory. Items the layout does not reveal are reported as "Not checked".`

	PDFExtractTextDescription = `Extract the plain text of every page of a PDF, pages joined by newlines.

**When to use:** Need the raw wording of a document for search or summarizing.

**Examples:**
• "Get the text of protocol.pdf"
• "Does protocol.pdf mention a ZAS key?"

**Best practices:** Use sitecheck_extract_file for protocol structure; this tool returns only text.`

	PDFLocateWordsDescription = `Locate words and phrases in a PDF and return their boxes.

**When to use:** Need coordinates of text, for example to black out personal data.

**Why it's useful:** A single word matches every word containing it, a phrase matches consecutive words. Matching ignores case. Boxes are in points from the top-left corner; page numbers are zero based.

**Examples:**
• "Locate 'Müller' in protocol.pdf"
• "Where does 'Ansprech Partner' appear?"

**Best practices:** Pass several words at once instead of calling the tool per word.`

	PDFRedactionTargetsDescription = `Find the values written after a field label on every line of a PDF.

**When to use:** Need to know what to redact for a labelled field such as a phone number.

**Examples:**
• "Which values follow 'Telefon' in protocol.pdf?"

**Common workflows:**
1. Redaction: pdf_redaction_targets → pdf_locate_words with the detected values → redact boxes

**Best practices:** The label is matched case sensitively; page numbers are one based.`

	PDFValidateFileDescription = `Verify PDF file integrity and readability before processing.

**When to use:** Before extracting from a file, especially in automated workflows.

**Why it's useful:** Checks the extension, size limit, PDF header and that the document opens with at least one page.

**Examples:**
• "Check protocol.pdf is valid before extraction"

**Best practices:** Run this first when handling files of unknown origin.`

	SitecheckServerInfoDescription = `Describe this server: configured directory, size limit, available tools and the PDFs it can read.

**When to use:** At the start of a session to discover which protocol files are available.

**Best practices:** Use the listed relative paths directly with the other tools.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"sitecheck_extract_file": SitecheckExtractFileDescription,
	"sitecheck_server_info":  SitecheckServerInfoDescription,
	"pdf_extract_text":       PDFExtractTextDescription,
	"pdf_locate_words":       PDFLocateWordsDescription,
	"pdf_redaction_targets":  PDFRedactionTargetsDescription,
	"pdf_validate_file":      PDFValidateFileDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
