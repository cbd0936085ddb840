package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/draco-go/internal/gen"
)

type modelState int

const (
	stateBrowse modelState = iota
	stateFilter
	stateDetail
)

type interactiveModel struct {
	filename string
	entries  []entry
	visible  []int
	filter   textinput.Model
	selected int
	state    modelState
}

func newInteractiveModel(cfg *gen.Config, filename string) *interactiveModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter"
	ti.Width = 40

	m := &interactiveModel{
		filename: filename,
		entries:  buildEntries(cfg),
		filter:   ti,
		state:    stateBrowse,
	}
	m.applyFilter()
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) applyFilter() {
	m.visible = m.visible[:0]
	for i, e := range m.entries {
		if e.matches(m.filter.Value()) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *interactiveModel) current() (entry, bool) {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return entry{}, false
	}
	return m.entries[m.visible[m.selected]], true
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateFilter {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter", "esc":
			m.filter.Blur()
			m.state = stateBrowse
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "/":
		if m.state == stateBrowse {
			m.state = stateFilter
			return m, m.filter.Focus()
		}

	case "up", "k":
		if m.state == stateBrowse && m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.state == stateBrowse && m.selected < len(m.visible)-1 {
			m.selected++
		}

	case "enter":
		switch m.state {
		case stateBrowse:
			if _, ok := m.current(); ok {
				m.state = stateDetail
			}
		case stateDetail:
			m.state = stateBrowse
		}

	case "esc":
		switch m.state {
		case stateDetail:
			m.state = stateBrowse
		case stateBrowse:
			m.filter.SetValue("")
			m.applyFilter()
		}
	}
	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Draco surface"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateBrowse, stateFilter:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		if len(m.visible) == 0 {
			b.WriteString(errorStyle.Render("no matches"))
			b.WriteString("\n")
		}
		section := ""
		for i, idx := range m.visible {
			e := m.entries[idx]
			if e.section != section {
				section = e.section
				b.WriteString(helpStyle.Render(section))
				b.WriteString("\n")
			}
			line := e.name + "  " + typeStyle.Render(e.summary)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + e.name))
				b.WriteString("  " + typeStyle.Render(e.summary))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.state == stateFilter {
			b.WriteString(helpStyle.Render("type to filter • enter/esc done"))
		} else {
			b.WriteString(helpStyle.Render("↑/↓ select • enter details • / filter • q quit"))
		}

	case stateDetail:
		e, _ := m.current()
		b.WriteString(fmt.Sprintf("%s %s\n\n", helpStyle.Render(e.section+":"), funcStyle.Render(e.name)))
		for _, line := range e.detail {
			b.WriteString(detailStyle.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter/esc back • q quit"))
	}

	return b.String()
}

func runInteractive(cfg *gen.Config, filename string) error {
	p := tea.NewProgram(newInteractiveModel(cfg, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
