package models

import "time"

// NotAvailable is the placeholder for any event field the source format does not provide.
const NotAvailable = "N/A"

// Date and time layouts used for event timestamps.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Event is the normalized view of a single Zeek connection or captured packet.
type Event struct {
	Date            string            `json:"date"`
	Time            string            `json:"time"`
	ServerIP        string            `json:"server_ip"`
	ServerPort      string            `json:"server_port"`
	EntryVectorIP   string            `json:"entry_vector_ip"`
	EntryVectorPort string            `json:"entry_vector_port"`
	Protocol        string            `json:"protocol"`
	Service         string            `json:"service"`
	AppLayerInfo    map[string]string `json:"app_layer_info"`
}

// NewEvent returns an event stamped at ts (rendered in loc) with every other field
// set to NotAvailable.
func NewEvent(ts time.Time, loc *time.Location) Event {
	if loc == nil {
		loc = time.UTC
	}
	ts = ts.In(loc)
	return Event{
		Date:            ts.Format(DateLayout),
		Time:            ts.Format(TimeLayout),
		ServerIP:        NotAvailable,
		ServerPort:      NotAvailable,
		EntryVectorIP:   NotAvailable,
		EntryVectorPort: NotAvailable,
		Protocol:        NotAvailable,
		Service:         NotAvailable,
		AppLayerInfo:    map[string]string{},
	}
}

// OrNA returns v, or NotAvailable when v is empty.
func OrNA(v string) string {
	if v == "" {
		return NotAvailable
	}
	return v
}
