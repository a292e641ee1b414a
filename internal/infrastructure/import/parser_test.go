package csvimport

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductParser(t *testing.T, content string) *CSVParser {
	t.Helper()
	parser, err := NewCSVParser(strings.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, parser.ParseHeader())
	return parser
}

func TestCSVParser_ParseHeader(t *testing.T) {
	t.Run("maps columns by name", func(t *testing.T) {
		parser := newProductParser(t, "sku,name,selling_price\nWIDGET-01,Widget,6.00\n")
		assert.Equal(t, []string{"sku", "name", "selling_price"}, parser.Headers())
	})

	t.Run("strips a UTF-8 BOM", func(t *testing.T) {
		parser := newProductParser(t, "\xEF\xBB\xBFsku,name\nWIDGET-01,Widget\n")
		assert.Empty(t, parser.ValidateHeaders([]string{"sku", "name"}))
	})

	t.Run("trims header whitespace", func(t *testing.T) {
		parser := newProductParser(t, " sku , name \nWIDGET-01,Widget\n")
		assert.Empty(t, parser.ValidateHeaders([]string{"sku", "name"}))
	})

	t.Run("empty file is rejected", func(t *testing.T) {
		_, err := NewCSVParser(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("non-UTF-8 content is rejected", func(t *testing.T) {
		_, err := NewCSVParser(strings.NewReader("sku\n\xff\xfe\xfd\n"))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("blank content has no header row", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("\n"))
		require.NoError(t, err)
		assert.ErrorIs(t, parser.ParseHeader(), ErrMissingHeader)
	})
}

func TestCSVParser_ValidateHeaders(t *testing.T) {
	parser := newProductParser(t, "sku,name\nWIDGET-01,Widget\n")

	assert.Empty(t, parser.ValidateHeaders([]string{"sku", "name"}))
	assert.Equal(t, []string{"selling_price"}, parser.ValidateHeaders([]string{"sku", "selling_price"}))
}

func TestCSVParser_ReadRow(t *testing.T) {
	t.Run("rows map onto header names", func(t *testing.T) {
		parser := newProductParser(t, "sku,name,selling_price\nWIDGET-01, Widget ,6.00\n")

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, 2, row.LineNumber)
		assert.Equal(t, "WIDGET-01", row.Get("sku"))
		assert.Equal(t, "Widget", row.Get("name"), "cell whitespace is trimmed")
		assert.Equal(t, "6.00", row.Get("selling_price"))

		_, err = parser.ReadRow()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("short rows read as blank in missing columns", func(t *testing.T) {
		parser := newProductParser(t, "sku,name,description\nWIDGET-01,Widget\n")

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "", row.Get("description"))
		assert.Equal(t, "fallback", row.GetOrDefault("description", "fallback"))
	})

	t.Run("line numbers count from the top of the file", func(t *testing.T) {
		parser := newProductParser(t, "sku\nA-1\nB-2\n")

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, 2, row.LineNumber)

		row, err = parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, 3, row.LineNumber)
		assert.Equal(t, 3, parser.CurrentRow())
	})

	t.Run("blank rows are detectable", func(t *testing.T) {
		parser := newProductParser(t, "sku,name\n,\nWIDGET-01,Widget\n")

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.True(t, row.IsEmpty())

		row, err = parser.ReadRow()
		require.NoError(t, err)
		assert.False(t, row.IsEmpty())
	})
}

func TestCSVParser_WithDelimiter(t *testing.T) {
	parser, err := NewCSVParser(strings.NewReader("sku;name\nWIDGET-01;Widget\n"), WithDelimiter(';'))
	require.NoError(t, err)
	require.NoError(t, parser.ParseHeader())

	row, err := parser.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, "WIDGET-01", row.Get("sku"))
	assert.Equal(t, "Widget", row.Get("name"))
}
