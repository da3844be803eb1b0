package capture

import (
	"time"

	"netvisor/internal/models"
)

// Transport labels written over the raw IP protocol number.
const (
	protoTCP = "TCP"
	protoUDP = "UDP"
)

// Application-layer service labels.
const (
	serviceHTTP = "HTTP"
	serviceDNS  = "DNS"
)

// NormalizePacket maps a decoded packet onto the unified event shape. The
// source side is the entry vector and the destination side the server.
func NormalizePacket(pkt *Packet, loc *time.Location) models.Event {
	event := models.NewEvent(pkt.SniffTime, loc)

	if pkt.IP != nil {
		event.EntryVectorIP = pkt.IP.Src
		event.ServerIP = pkt.IP.Dst
		event.Protocol = pkt.IP.Proto
	}

	switch {
	case pkt.TCP != nil:
		event.EntryVectorPort = pkt.TCP.SrcPort
		event.ServerPort = pkt.TCP.DstPort
		event.Protocol = protoTCP
		if pkt.HTTP != nil {
			event.Service = serviceHTTP
			event.AppLayerInfo = map[string]string{
				"method": models.OrNA(pkt.HTTP.RequestMethod),
				"uri":    models.OrNA(pkt.HTTP.RequestURI),
			}
		}
	case pkt.UDP != nil:
		event.EntryVectorPort = pkt.UDP.SrcPort
		event.ServerPort = pkt.UDP.DstPort
		event.Protocol = protoUDP
		if pkt.DNS != nil {
			event.Service = serviceDNS
			event.AppLayerInfo = map[string]string{
				"query": models.OrNA(pkt.DNS.QueryName),
			}
		}
	}
	return event
}
