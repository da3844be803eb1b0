package zeek

import (
	"errors"
	"fmt"
	"io"

	"netvisor/internal/analysis"
	"netvisor/internal/models"

	log "github.com/sirupsen/logrus"
)

// ParseConnLog parses a Zeek conn.log into a ParseResult in a single pass
// over the data rows. The reader is scanned once for the header and then
// rewound.
func ParseConnLog(r io.ReadSeeker, logger log.FieldLogger) (*models.ParseResult, error) {
	schema, err := DetectSchema(r)
	if err != nil {
		return nil, err
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind log: %w", err)
	}

	stats := analysis.NewTrafficStats()
	result := models.NewParseResult()
	reader := NewReader(r, schema)

	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		stats.AddProtocol(rec.Proto)
		stats.AddBytes(rec.OrigHost, rec.OrigBytes)
		stats.AddBytes(rec.RespHost, rec.RespBytes)
		result.DetailedEvents = append(result.DetailedEvents, NormalizeRecord(rec))
	}

	result.ProtocolSummary = stats.ProtocolSummary()
	result.Devices = stats.Devices()

	if logger != nil {
		logger.WithFields(log.Fields{
			"path":    schema.Path,
			"rows":    reader.Rows(),
			"devices": len(result.Devices),
		}).Debug("Parsed Zeek log")
	}
	return result, nil
}
