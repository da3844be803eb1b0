package zeek

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	fieldsMarker     = "#fields"
	pathMarker       = "#path"
	unsetFieldMarker = "#unset_field"

	// DefaultUnset is the token Zeek writes for a field with no value.
	DefaultUnset = "-"

	maxLineLength = 1024 * 1024
)

// ErrSchemaNotFound is returned when a log has no #fields header line.
var ErrSchemaNotFound = errors.New("could not find #fields header in the log file")

// Schema describes the columns of a Zeek TSV log.
type Schema struct {
	Fields []string // column names in positional order
	Path   string   // log type from #path, if declared before #fields
	Unset  string   // sentinel for missing values
}

// Index returns the position of the named column, or -1.
func (s *Schema) Index(name string) int {
	for i, field := range s.Fields {
		if field == name {
			return i
		}
	}
	return -1
}

// DetectSchema scans r until it finds the #fields header and returns the
// column names that follow the marker. It consumes r up to and including that
// line; callers rewind before reading rows.
func DetectSchema(r io.Reader) (*Schema, error) {
	schema := &Schema{Unset: DefaultUnset}

	scanner := newLineScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, fieldsMarker):
			schema.Fields = strings.Split(strings.TrimSpace(line), "\t")[1:]
			return schema, nil
		case strings.HasPrefix(line, pathMarker):
			if tokens := strings.Fields(line); len(tokens) > 1 {
				schema.Path = tokens[1]
			}
		case strings.HasPrefix(line, unsetFieldMarker):
			if tokens := strings.Fields(line); len(tokens) > 1 {
				schema.Unset = tokens[1]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, scanError(err, n+1)
	}
	return nil, ErrSchemaNotFound
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return scanner
}

// scanError reports an over-long line as bad input rather than an I/O failure.
func scanError(err error, line int) error {
	if errors.Is(err, bufio.ErrTooLong) {
		return fmt.Errorf("line %d: %w: longer than %d bytes", line, ErrMalformedRecord, maxLineLength)
	}
	return err
}
