package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const protocolLimit = 8

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF7DB")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Margin(0, 1)

	activeTabStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func (m ResultModel) View() string {
	title := titleStyle.Render(fmt.Sprintf("NetVisor - %s", m.source))

	summary := fmt.Sprintf("Events: %d\nDevices: %d\nProtocols: %d",
		len(m.result.DetailedEvents), len(m.result.Devices), len(m.protocols))
	summaryBox := infoStyle.Render(summary)

	// Protocols
	var protoStrs []string
	for i, p := range m.protocols {
		if i == protocolLimit {
			protoStrs = append(protoStrs, fmt.Sprintf("... %d more", len(m.protocols)-protocolLimit))
			break
		}
		protoStrs = append(protoStrs, fmt.Sprintf("%s: %d", p.Label, p.Count))
	}
	if len(protoStrs) == 0 {
		protoStrs = append(protoStrs, "No traffic.")
	}
	protoBox := infoStyle.Render("Protocols:\n" + strings.Join(protoStrs, "\n"))

	tabs := m.tabBar()
	var active string
	if m.active == devicesTab {
		active = m.devices.View()
	} else {
		active = m.events.View()
	}

	row1 := lipgloss.JoinHorizontal(lipgloss.Top, summaryBox, protoBox)
	body := lipgloss.JoinVertical(lipgloss.Left, title, row1, tabs, infoStyle.Render(active))

	return body + "\nPress tab to switch views, q to quit."
}

func (m ResultModel) tabBar() string {
	names := []string{"Devices", "Events"}
	out := make([]string, len(names))
	for i, name := range names {
		if tab(i) == m.active {
			out[i] = activeTabStyle.Render(name)
		} else {
			out[i] = inactiveTabStyle.Render(name)
		}
	}
	return " " + strings.Join(out, "  ")
}
