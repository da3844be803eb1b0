package capture

import (
	"time"

	"netvisor/internal/models"
)

// Packet is one decoded frame. A nil layer pointer means the frame did not
// carry that layer, or that the layer failed to decode.
type Packet struct {
	Number    int
	Length    int
	SniffTime time.Time

	IP   *IPv4Layer
	TCP  *TCPLayer
	UDP  *UDPLayer
	HTTP *HTTPLayer
	DNS  *DNSLayer
}

// IPv4Layer holds the network-layer fields. Proto is the decimal IANA
// protocol number, as captured.
type IPv4Layer struct {
	Src   string
	Dst   string
	Proto string
}

// TCPLayer holds TCP ports in decimal.
type TCPLayer struct {
	SrcPort string
	DstPort string
}

// UDPLayer holds UDP ports in decimal.
type UDPLayer struct {
	SrcPort string
	DstPort string
}

// HTTPLayer is present for HTTP/1.x requests and responses. Method and URI
// are only set for requests.
type HTTPLayer struct {
	RequestMethod string
	RequestURI    string
}

// DNSLayer carries the first question of a DNS message.
type DNSLayer struct {
	QueryName string
}

// Sample returns the packet's contribution to the traffic aggregates. Packets
// without an IP layer contribute nothing.
func (p *Packet) Sample() (models.TrafficSample, bool) {
	if p.IP == nil {
		return models.TrafficSample{}, false
	}
	return models.TrafficSample{
		Protocol: p.IP.Proto,
		SrcIP:    p.IP.Src,
		DstIP:    p.IP.Dst,
		Length:   int64(p.Length),
	}, true
}
