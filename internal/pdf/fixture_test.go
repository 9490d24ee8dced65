package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// buildPDF assembles a single page A4 document showing lines in 10 point
// Courier, one per 20 points starting at y 700
func buildPDF(lines ...string) []byte {
	var content strings.Builder
	content.WriteString("BT /F1 10 Tf 100 700 Td")
	for i, line := range lines {
		if i > 0 {
			content.WriteString(" 0 -20 Td")
		}
		escaped := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(line)
		fmt.Fprintf(&content, " (%s) Tj", escaped)
	}
	content.WriteString(" ET")
	stream := content.String()

	widths := strings.TrimSpace(strings.Repeat("600 ", 95))
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [" + widths + "] >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func newTestService(dir string) *Service {
	service, err := NewService(1024*1024, dir, zerolog.Nop())
	if err != nil {
		panic(err)
	}
	return service
}
