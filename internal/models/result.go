package models

// ProtocolSummary maps a protocol label to the number of packets or records carrying it.
// Labels are taken verbatim from the source: IANA numbers for captures, names for Zeek.
type ProtocolSummary map[string]int

// Device holds the total traffic attributed to one IP address.
type Device struct {
	IP         string `json:"ip"`
	TotalBytes int64  `json:"total_bytes"`
}

// ParseResult is the output of both the Zeek and the capture pipelines.
type ParseResult struct {
	ProtocolSummary ProtocolSummary `json:"protocol_summary"`
	Devices         []Device        `json:"devices"`
	DetailedEvents  []Event         `json:"detailed_events"`
}

// NewParseResult returns an empty result whose collections serialize as {} and [].
func NewParseResult() *ParseResult {
	return &ParseResult{
		ProtocolSummary: ProtocolSummary{},
		Devices:         []Device{},
		DetailedEvents:  []Event{},
	}
}
