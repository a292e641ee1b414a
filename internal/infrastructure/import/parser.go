// Package csvimport reads and validates CSV files for bulk catalog
// onboarding. The parser maps rows onto the header by name so column
// order in the uploaded file does not matter.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// encodingCheckSize is how many leading bytes are checked for UTF-8
const encodingCheckSize = 4096

// CSVParser reads a headered CSV file row by row
type CSVParser struct {
	delimiter rune
	headers   []string
	headerIdx map[string]int
	line      int
	reader    *csv.Reader
}

// ParserOption configures a CSVParser
type ParserOption func(*CSVParser)

// WithDelimiter overrides the comma delimiter
func WithDelimiter(d rune) ParserOption {
	return func(p *CSVParser) {
		p.delimiter = d
	}
}

// NewCSVParser wraps a reader, strips a UTF-8 BOM if present, and
// rejects files that are empty or not valid UTF-8
func NewCSVParser(r io.Reader, opts ...ParserOption) (*CSVParser, error) {
	p := &CSVParser{
		delimiter: ',',
		headerIdx: make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}

	buf := bufio.NewReader(r)
	if lead, err := buf.Peek(3); err == nil && lead[0] == 0xEF && lead[1] == 0xBB && lead[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	lead, err := buf.Peek(encodingCheckSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(lead) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(lead) {
		return nil, ErrInvalidEncoding
	}

	p.reader = csv.NewReader(buf)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	// short rows are padded with empty strings in ReadRow
	p.reader.FieldsPerRecord = -1

	return p, nil
}

// ParseHeader consumes the first row as column names
func (p *CSVParser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		name := strings.TrimSpace(h)
		p.headers[i] = name
		p.headerIdx[name] = i
	}
	p.line = 1
	return nil
}

// ValidateHeaders reports required column names the file lacks
func (p *CSVParser) ValidateHeaders(required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := p.headerIdx[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Headers returns the parsed column names
func (p *CSVParser) Headers() []string {
	return p.headers
}

// Row is one data row keyed by column name. LineNumber counts from the
// top of the file, header included, so it matches what the uploader
// sees in a spreadsheet.
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the value of a column, empty when the column is absent
func (r *Row) Get(column string) string {
	return r.Data[column]
}

// GetOrDefault returns the column value, or the default when absent or blank
func (r *Row) GetOrDefault(column, def string) string {
	if v := r.Data[column]; v != "" {
		return v
	}
	return def
}

// IsEmpty reports whether every cell in the row is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow returns the next data row, or io.EOF past the last one.
// Rows shorter than the header read as blank in the missing columns.
func (p *CSVParser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.line++
	if err != nil {
		return nil, fmt.Errorf("error reading row %d: %w", p.line, err)
	}

	row := &Row{
		LineNumber: p.line,
		Data:       make(map[string]string, len(p.headers)),
	}
	for i, name := range p.headers {
		if i < len(record) {
			row.Data[name] = strings.TrimSpace(record[i])
		} else {
			row.Data[name] = ""
		}
	}
	return row, nil
}

// CurrentRow returns the line number of the last row read
func (p *CSVParser) CurrentRow() int {
	return p.line
}
