package adapter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdferrors "github.com/a3tai/sitecheck-reader/internal/pdf/errors"
	"github.com/a3tai/sitecheck-reader/internal/pdf/primitives"
)

// buildPDF assembles a single page document with a monospaced font, the given
// content stream and one widget annotation carrying value
func buildPDF(content, value string) []byte {
	widths := strings.TrimSpace(strings.Repeat("600 ", 95))
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 595 842] >>",
		"<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R /Annots [6 0 R] >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [" + widths + "] >>",
		fmt.Sprintf("<< /Type /Annot /Subtype /Widget /FT /Tx /T (status) /V (%s) /Rect [50 700 60 710] /P 3 0 R >>", value),
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

func TestAdapter_Load(t *testing.T) {
	data := buildPDF("BT /F1 10 Tf 100 700 Td (Status 7) Tj ET 0 0 0 rg 88 700 8 8 re f 200 700 8 8 re S", "Kein Zugang")

	result, err := New(zerolog.Nop()).Load("fixture.pdf", data)
	require.NoError(t, err)
	require.Equal(t, 1, result.Document.PageCount())

	page := result.Document.Pages[0]
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 595.0, page.Width)
	assert.Equal(t, 842.0, page.Height)
	assert.Equal(t, []string{"Status 7"}, page.Lines)

	box, found := page.Search("Status 7")
	require.True(t, found)
	assert.InDelta(t, 100.0, box.Left, 0.01)
	assert.InDelta(t, 142.0, box.Bottom, 0.01)

	require.Len(t, page.Rects, 2)
	assert.True(t, page.Rects[0].Fill)
	assert.InDelta(t, 88.0, page.Rects[0].Left, 0.01)
	assert.InDelta(t, 134.0, page.Rects[0].Top, 0.01)
	assert.InDelta(t, 142.0, page.Rects[0].Bottom, 0.01)
	assert.False(t, page.Rects[1].Fill)

	require.Len(t, page.Annotations, 1)
	assert.Equal(t, "Widget", page.Annotations[0].Subtype)
	assert.Equal(t, "status", page.Annotations[0].Name)
	assert.Equal(t, "Kein Zugang", page.Annotations[0].Value)
	assert.Contains(t, page.Annotations[0].Raw, "Kein Zugang")
}

func TestAdapter_LoadGarbage(t *testing.T) {
	_, err := New(zerolog.Nop()).Load("garbage.pdf", []byte("this is not a pdf"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, pdferrors.ErrCorruptedData))
	assert.True(t, pdferrors.IsInputFailure(err))
}

func TestDetectTables(t *testing.T) {
	var chars []primitives.Char
	row := func(top float64, cells ...string) {
		lefts := []float64{50, 120, 300, 360, 430}
		for i, c := range cells {
			if c != "" {
				chars = append(chars, primitives.PlaceText(c, lefts[i], top, 5, 10)...)
			}
		}
	}

	row(10, "Protokoll")
	row(30, "Nr", "Beschreibung", "OK", "Nicht OK", "Nicht notwendig")
	row(50, "2.4.1", "Kabel", "X")
	row(70, "2.4.2", "Erdung", "", "", "X")
	row(90, "Bemerkung")
	row(110, "a", "b")

	tables := DetectTables(chars)

	require.Len(t, tables, 1)
	assert.Equal(t, [][]string{
		{"Nr", "Beschreibung", "OK", "Nicht OK", "Nicht notwendig"},
		{"2.4.1", "Kabel", "X", "", ""},
		{"2.4.2", "Erdung", "", "", "X"},
	}, tables[0].Rows)
}

func TestDetectTables_MergedRowKeepsTable(t *testing.T) {
	var chars []primitives.Char
	lefts := []float64{50, 120, 300, 360, 430}
	row := func(top float64, cells ...string) {
		for i, c := range cells {
			if c != "" {
				chars = append(chars, primitives.PlaceText(c, lefts[i], top, 5, 10)...)
			}
		}
	}

	row(30, "Nr", "Beschreibung", "OK", "Nicht OK", "Nicht notwendig")
	row(50, "2.4.1", "Kabel", "X")
	// Number and description closer than the cell gap, no mark.
	chars = append(chars, primitives.PlaceText("2.4.2 Erdung pruefen", 50, 70, 5, 10)...)
	row(90, "2.4.3", "Beschriftung", "", "X")
	row(110, "Bemerkung")

	tables := DetectTables(chars)

	require.Len(t, tables, 1)
	rows := tables[0].Rows
	require.Len(t, rows, 4)
	assert.Equal(t, "2.4.2 Erdung pruefen", strings.TrimSpace(rows[2][0]+" "+rows[2][1]))
	assert.Equal(t, []string{"2.4.3", "Beschriftung", "", "X", ""}, rows[3])
}

func TestColumnFor_NearestCenter(t *testing.T) {
	header := []cell{{text: "A", left: 0, right: 10}, {text: "B", left: 100, right: 110}}

	assert.Equal(t, 0, columnFor(header, cell{left: 5, right: 20}))
	assert.Equal(t, 1, columnFor(header, cell{left: 80, right: 90}))
	assert.Equal(t, 0, columnFor(header, cell{left: 20, right: 30}))
}
