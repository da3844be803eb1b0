package capture

import (
	"errors"
	"fmt"
	"io"
	"time"

	"netvisor/internal/analysis"
	"netvisor/internal/models"

	log "github.com/sirupsen/logrus"
)

// Options controls how a capture is summarized.
type Options struct {
	// Location renders event dates and times. Defaults to UTC.
	Location *time.Location
	Logger   log.FieldLogger
}

// ParseFile summarizes the capture at path in two passes: the first builds
// the protocol histogram and device totals, the second emits one event per
// packet. The capture is closed before returning. Errors wrapping
// ErrCaptureOpen mean no packet could be read at all.
func ParseFile(path string, opts Options) (*models.ParseResult, error) {
	logger := orDiscard(opts.Logger).WithField("capture", path)

	c, err := Open(path, logger)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	stats := analysis.NewTrafficStats()
	packets, err := scan(c, logger, func(pkt *Packet) {
		if sample, ok := pkt.Sample(); ok {
			stats.ProcessSample(sample)
		}
	})
	if packets == 0 && err != nil {
		return nil, fmt.Errorf("%w: first packet record: %v", ErrCaptureOpen, err)
	}

	if err := c.Reset(); err != nil {
		return nil, err
	}

	result := models.NewParseResult()
	result.ProtocolSummary = stats.ProtocolSummary()
	result.Devices = stats.Devices()
	result.DetailedEvents = make([]models.Event, 0, packets)
	scan(c, logger, func(pkt *Packet) {
		result.DetailedEvents = append(result.DetailedEvents, NormalizePacket(pkt, opts.Location))
	})

	logger.WithFields(log.Fields{
		"packets":    packets,
		"ip_packets": stats.Packets(),
		"devices":    len(result.Devices),
	}).Debug("Parsed capture")
	return result, nil
}

// scan feeds every packet to fn and returns how many were read. A read error
// other than EOF ends the pass and is returned; the packets before it are kept.
func scan(c *Capture, logger log.FieldLogger, fn func(*Packet)) (int, error) {
	n := 0
	for {
		pkt, err := c.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			logger.WithFields(log.Fields{
				"error":  err.Error(),
				"packet": n + 1,
			}).Warn("Stopped reading truncated capture")
			return n, err
		}
		n++
		fn(pkt)
	}
}
