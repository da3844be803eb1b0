package models

// TrafficSample is one packet's contribution to the traffic aggregates.
type TrafficSample struct {
	Protocol string
	SrcIP    string
	DstIP    string
	Length   int64
}
