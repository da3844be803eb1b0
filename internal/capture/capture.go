package capture

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	log "github.com/sirupsen/logrus"
)

// ErrCaptureOpen is returned when a capture file cannot be opened or its
// header cannot be decoded.
var ErrCaptureOpen = errors.New("could not open capture")

const pcapngMagic = 0x0A0D0D0A

// packetReader is implemented by both pcapgo.Reader and pcapgo.NgReader.
type packetReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

// Capture is a restartable cursor over the packets of a pcap or pcapng file.
// Packets are decoded one at a time so memory stays bounded for large files.
type Capture struct {
	path     string
	file     *os.File
	reader   packetReader
	linkType layers.LinkType
	ng       bool
	count    int
	logger   log.FieldLogger
}

// Open opens the capture at path and reads its file header.
func Open(path string, logger log.FieldLogger) (*Capture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureOpen, err)
	}

	c := &Capture{
		path:   path,
		file:   file,
		logger: orDiscard(logger),
	}

	var magic [4]byte
	if _, err := io.ReadFull(file, magic[:]); err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: failed to read file header: %v", ErrCaptureOpen, err)
	}
	c.ng = binary.LittleEndian.Uint32(magic[:]) == pcapngMagic

	if err := c.Reset(); err != nil {
		file.Close()
		return nil, err
	}
	return c, nil
}

// Reset rewinds the capture so that Next starts again from the first packet.
func (c *Capture) Reset() error {
	if c.file == nil {
		return fmt.Errorf("%w: capture is closed", ErrCaptureOpen)
	}
	if _, err := c.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: failed to rewind: %v", ErrCaptureOpen, err)
	}

	buffered := bufio.NewReader(c.file)
	if c.ng {
		r, err := pcapgo.NewNgReader(buffered, pcapgo.NgReaderOptions{WantMixedLinkType: true})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCaptureOpen, err)
		}
		c.reader = r
	} else {
		r, err := pcapgo.NewReader(buffered)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCaptureOpen, err)
		}
		c.reader = r
	}

	c.linkType = c.reader.LinkType()
	c.count = 0
	return nil
}

// Next decodes the next packet. It returns io.EOF after the last one.
func (c *Capture) Next() (*Packet, error) {
	if c.reader == nil {
		return nil, io.EOF
	}

	data, ci, err := c.reader.ReadPacketData()
	if err != nil {
		return nil, err
	}
	c.count++

	length := ci.Length
	if length == 0 {
		length = len(data)
	}

	pkt := &Packet{
		Number:    c.count,
		Length:    length,
		SniffTime: ci.Timestamp,
	}
	c.decode(pkt, data, c.linkTypeOf(ci))
	return pkt, nil
}

// linkTypeOf returns the link type of the interface a packet was captured
// on. Classic pcap files have a single link type.
func (c *Capture) linkTypeOf(ci gopacket.CaptureInfo) layers.LinkType {
	ng, ok := c.reader.(*pcapgo.NgReader)
	if !ok {
		return c.linkType
	}
	intf, err := ng.Interface(ci.InterfaceIndex)
	if err != nil {
		c.logger.WithFields(log.Fields{
			"packet":    c.count,
			"interface": ci.InterfaceIndex,
		}).Debug("Unknown pcapng interface, using first link type")
		return c.linkType
	}
	return intf.LinkType
}

// Close releases the underlying file. It is safe to call more than once.
func (c *Capture) Close() error {
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	c.reader = nil
	return err
}

// decode fills the optional layers of pkt. Each layer is extracted on its
// own; a failure leaves only that layer unset.
func (c *Capture) decode(pkt *Packet, data []byte, linkType layers.LinkType) {
	frame := gopacket.NewPacket(data, linkType, gopacket.DecodeOptions{Lazy: true, NoCopy: true})

	c.guard(pkt, "ip", func() {
		if l, ok := frame.Layer(layers.LayerTypeIPv4).(*layers.IPv4); ok {
			pkt.IP = &IPv4Layer{
				Src:   l.SrcIP.String(),
				Dst:   l.DstIP.String(),
				Proto: strconv.Itoa(int(l.Protocol)),
			}
		}
	})

	var payload []byte
	c.guard(pkt, "tcp", func() {
		if l, ok := frame.Layer(layers.LayerTypeTCP).(*layers.TCP); ok {
			pkt.TCP = &TCPLayer{
				SrcPort: strconv.Itoa(int(l.SrcPort)),
				DstPort: strconv.Itoa(int(l.DstPort)),
			}
			payload = l.Payload
		}
	})
	if pkt.TCP != nil {
		c.guard(pkt, "http", func() {
			pkt.HTTP = decodeHTTP(payload)
		})
		return
	}

	var srcPort, dstPort layers.UDPPort
	c.guard(pkt, "udp", func() {
		if l, ok := frame.Layer(layers.LayerTypeUDP).(*layers.UDP); ok {
			pkt.UDP = &UDPLayer{
				SrcPort: strconv.Itoa(int(l.SrcPort)),
				DstPort: strconv.Itoa(int(l.DstPort)),
			}
			srcPort, dstPort = l.SrcPort, l.DstPort
			payload = l.Payload
		}
	})
	if pkt.UDP != nil && (srcPort == dnsPort || dstPort == dnsPort) {
		c.guard(pkt, "dns", func() {
			pkt.DNS = decodeDNS(payload)
		})
	}
}

// guard runs fn, treating a panic inside a layer accessor as an absent layer.
func (c *Capture) guard(pkt *Packet, layer string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.WithFields(log.Fields{
				"packet": pkt.Number,
				"layer":  layer,
				"error":  r,
			}).Debug("Dropping undecodable layer")
		}
	}()
	fn()
}

func orDiscard(logger log.FieldLogger) log.FieldLogger {
	if logger != nil {
		return logger
	}
	discard := log.New()
	discard.Out = io.Discard
	return discard
}
