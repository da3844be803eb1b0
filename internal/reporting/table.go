package reporting

import (
	"io"
	"strconv"

	"netvisor/internal/models"

	"github.com/olekukonko/tablewriter"
)

// WriteTable writes the protocol summary, devices and events as text tables.
func WriteTable(w io.Writer, result *models.ParseResult) error {
	protocols := tablewriter.NewWriter(w)
	protocols.SetHeader([]string{"Protocol", "Count"})
	for _, p := range SortedProtocols(result.ProtocolSummary) {
		protocols.Append([]string{p.Label, strconv.Itoa(p.Count)})
	}
	protocols.Render()

	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	devices := tablewriter.NewWriter(w)
	devices.SetHeader([]string{"IP Address", "Total Bytes"})
	for _, d := range result.Devices {
		devices.Append([]string{d.IP, strconv.FormatInt(d.TotalBytes, 10)})
	}
	devices.Render()

	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	events := tablewriter.NewWriter(w)
	events.SetAutoWrapText(false)
	events.SetHeader([]string{"Date", "Time", "Entry Vector", "Server", "Protocol", "Service", "Details"})
	for _, e := range result.DetailedEvents {
		events.Append([]string{
			e.Date, e.Time,
			Endpoint(e.EntryVectorIP, e.EntryVectorPort),
			Endpoint(e.ServerIP, e.ServerPort),
			e.Protocol, e.Service, AppLayerSummary(e.AppLayerInfo),
		})
	}
	events.Render()
	return nil
}
