package zeek

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names read from conn.log.
const (
	colTS        = "ts"
	colOrigHost  = "id.orig_h"
	colOrigPort  = "id.orig_p"
	colRespHost  = "id.resp_h"
	colRespPort  = "id.resp_p"
	colProto     = "proto"
	colService   = "service"
	colOrigBytes = "orig_bytes"
	colRespBytes = "resp_bytes"
)

// ErrMalformedRecord is returned for a data row without a usable ts or proto.
var ErrMalformedRecord = errors.New("malformed record")

// ConnectionRecord is one row of a Zeek conn.log. String fields are empty
// when the log held the unset sentinel.
type ConnectionRecord struct {
	TS        float64
	OrigHost  string
	OrigPort  string
	RespHost  string
	RespPort  string
	Proto     string
	Service   string
	OrigBytes int64
	RespBytes int64
}

// Time converts the epoch timestamp to UTC.
func (c *ConnectionRecord) Time() time.Time {
	sec, frac := math.Modf(c.TS)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC()
}

// Reader streams ConnectionRecords from the data rows of a Zeek log.
type Reader struct {
	scanner *bufio.Scanner
	schema  *Schema
	line    int
	rows    int

	ts, origHost, origPort, respHost, respPort int
	proto, service, origBytes, respBytes       int
}

// NewReader returns a Reader over r, which must be positioned at the start of
// the log. Header and comment lines are skipped.
func NewReader(r io.Reader, schema *Schema) *Reader {
	return &Reader{
		scanner:   newLineScanner(r),
		schema:    schema,
		ts:        schema.Index(colTS),
		origHost:  schema.Index(colOrigHost),
		origPort:  schema.Index(colOrigPort),
		respHost:  schema.Index(colRespHost),
		respPort:  schema.Index(colRespPort),
		proto:     schema.Index(colProto),
		service:   schema.Index(colService),
		origBytes: schema.Index(colOrigBytes),
		respBytes: schema.Index(colRespBytes),
	}
}

// Rows returns how many data rows have been read.
func (r *Reader) Rows() int {
	return r.rows
}

// Next returns the next record, or io.EOF once the log is exhausted.
func (r *Reader) Next() (*ConnectionRecord, error) {
	for r.scanner.Scan() {
		r.line++
		line := strings.TrimRight(r.scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		r.rows++
		return r.parseRow(strings.Split(line, "\t"))
	}
	if err := r.scanner.Err(); err != nil {
		return nil, scanError(err, r.line+1)
	}
	return nil, io.EOF
}

func (r *Reader) parseRow(cells []string) (*ConnectionRecord, error) {
	value := func(idx int) string {
		if idx < 0 || idx >= len(cells) || cells[idx] == r.schema.Unset {
			return ""
		}
		return cells[idx]
	}

	rec := &ConnectionRecord{
		OrigHost:  value(r.origHost),
		OrigPort:  value(r.origPort),
		RespHost:  value(r.respHost),
		RespPort:  value(r.respPort),
		Proto:     value(r.proto),
		Service:   value(r.service),
		OrigBytes: parseBytesOrZero(value(r.origBytes)),
		RespBytes: parseBytesOrZero(value(r.respBytes)),
	}

	ts := value(r.ts)
	if ts == "" {
		return nil, fmt.Errorf("line %d: %w: missing %s", r.line, ErrMalformedRecord, colTS)
	}
	parsed, err := strconv.ParseFloat(ts, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil, fmt.Errorf("line %d: %w: invalid %s %q", r.line, ErrMalformedRecord, colTS, ts)
	}
	rec.TS = parsed

	if rec.Proto == "" {
		return nil, fmt.Errorf("line %d: %w: missing %s", r.line, ErrMalformedRecord, colProto)
	}
	return rec, nil
}

// parseBytesOrZero reads a byte count, falling back to 0 for anything that is
// not a finite, non-negative number.
func parseBytesOrZero(s string) int64 {
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt64 {
		return 0
	}
	return int64(f)
}
