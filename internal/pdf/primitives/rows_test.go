package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRows_ReadingOrder(t *testing.T) {
	chars := append(PlaceText("World", 10, 40, 5, 10), PlaceText("Hello", 10, 20, 5, 10)...)

	rows := GroupRows(chars, RowTolerance)
	require.Len(t, rows, 2)
	assert.Equal(t, "H", rows[0][0].Text)
	assert.Equal(t, "W", rows[1][0].Text)
}

func TestRowLines_InsertsSpacesOnGaps(t *testing.T) {
	chars := append(PlaceText("Status", 10, 20, 5, 10), PlaceText("7", 50, 20, 5, 10)...)

	lines := RowLines(chars)
	assert.Equal(t, []string{"Status 7"}, lines)
}

func TestPage_Search(t *testing.T) {
	page := Page{
		Chars: append(PlaceText("PoP Status", 10, 10, 5, 10), PlaceText("Status 7", 100, 30, 5, 10)...),
	}

	box, ok := page.Search("Status 7")
	require.True(t, ok)
	assert.Equal(t, 100.0, box.Left)
	assert.Equal(t, 140.0, box.Right)
	assert.Equal(t, 30.0, box.Top)
	assert.Equal(t, 40.0, box.Bottom)

	box, ok = page.Search("Status")
	require.True(t, ok)
	assert.Equal(t, 30.0, box.Left, "first occurrence in reading order")

	_, ok = page.Search("Status 9")
	assert.False(t, ok)

	_, ok = page.Search("")
	assert.False(t, ok)
}

func TestPage_Words(t *testing.T) {
	page := Page{
		Chars: append(PlaceText("Kein Zugang", 10, 10, 5, 10), PlaceText("OK", 200, 10, 5, 10)...),
	}

	words := page.Words()
	require.Len(t, words, 2)
	assert.Equal(t, "Kein Zugang", words[0].Text)
	assert.Equal(t, "OK", words[1].Text)
	assert.Equal(t, 200.0, words[1].Left)
}

func TestTable_HeaderAndBody(t *testing.T) {
	assert.Nil(t, Table{}.Header())
	assert.Nil(t, Table{Rows: [][]string{{"OK"}}}.Body())

	tbl := Table{Rows: [][]string{{"Item", "OK"}, {"2.4.1", "X"}}}
	assert.Equal(t, []string{"Item", "OK"}, tbl.Header())
	assert.Equal(t, [][]string{{"2.4.1", "X"}}, tbl.Body())
}
