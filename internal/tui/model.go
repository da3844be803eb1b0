package tui

import (
	"strconv"

	"netvisor/internal/models"
	"netvisor/internal/reporting"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type tab int

const (
	devicesTab tab = iota
	eventsTab
)

const tableHeight = 12

// ResultModel browses a finished parse result.
type ResultModel struct {
	source    string
	result    *models.ParseResult
	protocols []reporting.ProtocolCount
	devices   table.Model
	events    table.Model
	active    tab
}

func NewResultModel(result *models.ParseResult, source string) ResultModel {
	devices := newTable([]table.Column{
		{Title: "IP Address", Width: 20},
		{Title: "Bytes", Width: 15},
	}, deviceRows(result.Devices))
	devices.Focus()

	events := newTable([]table.Column{
		{Title: "Date", Width: 10},
		{Title: "Time", Width: 8},
		{Title: "Entry Vector", Width: 22},
		{Title: "Server", Width: 22},
		{Title: "Proto", Width: 6},
		{Title: "Service", Width: 8},
		{Title: "Details", Width: 30},
	}, eventRows(result.DetailedEvents))

	return ResultModel{
		source:    source,
		result:    result,
		protocols: reporting.SortedProtocols(result.ProtocolSummary),
		devices:   devices,
		events:    events,
		active:    devicesTab,
	}
}

func newTable(columns []table.Column, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(tableHeight),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func deviceRows(devices []models.Device) []table.Row {
	rows := make([]table.Row, len(devices))
	for i, d := range devices {
		rows[i] = table.Row{d.IP, strconv.FormatInt(d.TotalBytes, 10)}
	}
	return rows
}

func eventRows(events []models.Event) []table.Row {
	rows := make([]table.Row, len(events))
	for i, e := range events {
		rows[i] = table.Row{
			e.Date, e.Time,
			reporting.Endpoint(e.EntryVectorIP, e.EntryVectorPort),
			reporting.Endpoint(e.ServerIP, e.ServerPort),
			e.Protocol, e.Service,
			reporting.AppLayerSummary(e.AppLayerInfo),
		}
	}
	return rows
}

func (m ResultModel) Init() tea.Cmd {
	return nil
}
