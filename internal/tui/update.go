package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// chrome is the number of lines used by everything except the active table.
const chrome = 12

func (m ResultModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m = m.switchTab()
			return m, nil
		}

	case tea.WindowSizeMsg:
		height := msg.Height - chrome
		if height < 3 {
			height = 3
		}
		m.devices.SetHeight(height)
		m.events.SetHeight(height)
		return m, nil
	}

	if m.active == devicesTab {
		m.devices, cmd = m.devices.Update(msg)
	} else {
		m.events, cmd = m.events.Update(msg)
	}
	return m, cmd
}

func (m ResultModel) switchTab() ResultModel {
	if m.active == devicesTab {
		m.active = eventsTab
		m.devices.Blur()
		m.events.Focus()
	} else {
		m.active = devicesTab
		m.events.Blur()
		m.devices.Focus()
	}
	return m
}
