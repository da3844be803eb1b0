package reporting

import (
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
	"time"

	"netvisor/internal/analysis"
	"netvisor/internal/models"
)

// topTalkers is how many devices the HTML report lists.
const topTalkers = 10

// Output formats understood by Render.
const (
	FormatJSON  = "json"
	FormatTable = "table"
	FormatHTML  = "html"
)

// Render writes the parse result in the given format.
func Render(w io.Writer, result *models.ParseResult, format, source string) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, result)
	case FormatTable:
		return WriteTable(w, result)
	case FormatHTML:
		return WriteHTML(w, result, source, time.Now())
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteHTML writes a standalone HTML report of the parse result.
func WriteHTML(w io.Writer, result *models.ParseResult, source string, generated time.Time) error {
	stats := analysis.NewTrafficStats()
	for _, d := range result.Devices {
		stats.AddBytes(d.IP, d.TotalBytes)
	}
	talkers := stats.TopTalkers(topTalkers)

	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>NetVisor Report - %s</title>
    <style>
        body { font-family: sans-serif; margin: 20px; color: #333; }
        h1, h2 { color: #2c3e50; }
        table { width: 100%%; border-collapse: collapse; margin-bottom: 20px; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f2f2f2; }
        tr:nth-child(even) { background-color: #f9f9f9; }
        .summary { background: #eef; padding: 15px; border-radius: 5px; margin-bottom: 20px; }
        .na { color: #999; }
    </style>
</head>
<body>
    <h1>NetVisor Report</h1>
    <div class="summary">
        <p><strong>Source:</strong> %s</p>
        <p><strong>Generated:</strong> %s</p>
        <p><strong>Events:</strong> %d</p>
        <p><strong>Device Traffic (sum over endpoints):</strong> %s</p>
    </div>

    <h2>Protocol Summary</h2>
    <table>
        <thead>
            <tr>
                <th>Protocol</th>
                <th>Count</th>
            </tr>
        </thead>
        <tbody>
`, html.EscapeString(source), html.EscapeString(source), generated.Format(time.RFC1123),
		len(result.DetailedEvents), formatBytes(stats.TotalBytes())))

	protocols := SortedProtocols(result.ProtocolSummary)
	if len(protocols) == 0 {
		b.WriteString("            <tr><td colspan=\"2\">No protocols seen.</td></tr>\n")
	}
	for _, p := range protocols {
		b.WriteString(fmt.Sprintf("            <tr><td>%s</td><td>%d</td></tr>\n", html.EscapeString(p.Label), p.Count))
	}

	b.WriteString(fmt.Sprintf(`        </tbody>
    </table>

    <h2>Top %d Talkers</h2>
    <table>
        <thead>
            <tr>
                <th>IP Address</th>
                <th>Data Transferred (Bytes)</th>
            </tr>
        </thead>
        <tbody>
`, topTalkers))

	if len(talkers) == 0 {
		b.WriteString("            <tr><td colspan=\"2\">No devices seen.</td></tr>\n")
	}
	for _, d := range talkers {
		b.WriteString(fmt.Sprintf("            <tr><td>%s</td><td>%d</td></tr>\n", html.EscapeString(d.IP), d.TotalBytes))
	}

	b.WriteString(`        </tbody>
    </table>

    <h2>Events</h2>
    <table>
        <thead>
            <tr>
                <th>Date</th>
                <th>Time</th>
                <th>Entry Vector</th>
                <th>Server</th>
                <th>Protocol</th>
                <th>Service</th>
                <th>Details</th>
            </tr>
        </thead>
        <tbody>
`)

	if len(result.DetailedEvents) == 0 {
		b.WriteString("            <tr><td colspan=\"7\">No events.</td></tr>\n")
	}
	for _, e := range result.DetailedEvents {
		b.WriteString(fmt.Sprintf("            <tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			cell(e.Date), cell(e.Time),
			cell(Endpoint(e.EntryVectorIP, e.EntryVectorPort)), cell(Endpoint(e.ServerIP, e.ServerPort)),
			cell(e.Protocol), cell(e.Service), cell(AppLayerSummary(e.AppLayerInfo))))
	}

	b.WriteString(`        </tbody>
    </table>
</body>
</html>
`)

	_, err := io.WriteString(w, b.String())
	return err
}

func cell(v string) string {
	if v == models.NotAvailable || v == "" {
		return `<span class="na">` + models.NotAvailable + `</span>`
	}
	return html.EscapeString(v)
}

// ProtocolCount is one row of a protocol summary.
type ProtocolCount struct {
	Label string
	Count int
}

// SortedProtocols orders a summary by count, then label.
func SortedProtocols(summary models.ProtocolSummary) []ProtocolCount {
	out := make([]ProtocolCount, 0, len(summary))
	for label, count := range summary {
		out = append(out, ProtocolCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Endpoint joins an address and port for display.
func Endpoint(ip, port string) string {
	if ip == models.NotAvailable {
		return models.NotAvailable
	}
	if port == models.NotAvailable {
		return ip
	}
	return ip + ":" + port
}

// AppLayerSummary flattens app_layer_info as sorted key=value pairs.
func AppLayerSummary(info map[string]string) string {
	if len(info) == 0 {
		return ""
	}
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + info[k]
	}
	return strings.Join(parts, " ")
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
