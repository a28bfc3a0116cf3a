// Package tui provides a terminal user interface for playoeis
package tui

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/holmesrichards/playoeis/pkg/midiio"
	"github.com/holmesrichards/playoeis/pkg/oeis"
	"github.com/holmesrichards/playoeis/pkg/sequence"
)

var (
	deepBlue   = lipgloss.Color("#5F87FF")
	brightCyan = lipgloss.Color("#00FFFF")
	softGray   = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(brightCyan).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(softGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(brightCyan).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(deepBlue).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	restStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(brightCyan).
			Bold(true).
			Underline(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(deepBlue).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateEntry State = iota
	StateFetching
	StateInPort
	StateOutPort
	StatePlaying
	StateError
)

// Model represents the TUI model
type Model struct {
	state   State
	opts    sequence.Options
	input   textinput.Model
	spinner spinner.Model

	entry oeis.Entry
	terms []int
	steps []sequence.Step

	inPorts   []string
	outPorts  []string
	portIndex int
	inPort    string
	outPort   string

	cursor    int
	lastEvent string
	played    int
	err       error

	cancel  context.CancelFunc
	eventCh chan playEventMsg
	doneCh  chan error
}

// fetchDoneMsg signals sequence lookup completion
type fetchDoneMsg struct {
	entry oeis.Entry
	terms []int
	steps []sequence.Step
	err   error
}

// playEventMsg reports one handled input event during playback
type playEventMsg struct {
	cursor int
	event  string
	note   bool
}

// playDoneMsg signals the routing loop has stopped
type playDoneMsg struct {
	err error
}

// New creates a new TUI model with the given transform settings
func New(opts sequence.Options) Model {
	ti := textinput.New()
	ti.Placeholder = "A000045 or a search term"
	ti.Focus()
	ti.CharLimit = 80
	ti.Width = 48

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(brightCyan)

	return Model{
		state:   StateEntry,
		opts:    opts,
		input:   ti,
		spinner: s,
	}
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

var entryIDPattern = regexp.MustCompile(`^[Aa][0-9]{1,6}$`)

func (m Model) fetchSequence(query string) tea.Cmd {
	return func() tea.Msg {
		client := oeis.NewClient()

		var entry oeis.Entry
		var err error
		if entryIDPattern.MatchString(query) {
			entry, err = client.Lookup(query)
		} else {
			var results []oeis.Entry
			results, err = client.Search(query)
			if err == nil {
				entry = results[0]
			}
		}
		if err != nil {
			return fetchDoneMsg{err: err}
		}

		terms, err := client.FetchTerms(entry.Number)
		if err != nil {
			return fetchDoneMsg{err: err}
		}

		steps, err := sequence.Transform(terms, m.opts)
		if err != nil {
			return fetchDoneMsg{err: err}
		}

		return fetchDoneMsg{entry: entry, terms: terms, steps: steps}
	}
}

func (m *Model) startPlayback() tea.Cmd {
	in, err := midiio.FindIn(m.inPort)
	if err != nil {
		return reportError(err)
	}
	out, err := midiio.OpenOutput(m.outPort)
	if err != nil {
		return reportError(err)
	}

	player, err := sequence.NewPlayer(m.steps, m.opts, out)
	if err != nil {
		_ = out.Close()
		return reportError(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan playEventMsg, 64)
	m.doneCh = make(chan error, 1)

	router := midiio.NewRouter(in, out, player)
	router.OnEvent = func(ev midiio.Event) {
		select {
		case m.eventCh <- playEventMsg{
			cursor: player.Cursor(),
			event:  ev.String(),
			note:   ev.Kind == midiio.EventNoteOn,
		}:
		default:
		}
	}

	go func() {
		err := router.Run(ctx)
		_ = out.Close()
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		m.doneCh <- err
	}()

	return tea.Batch(m.waitForPlayEvent(), m.waitForPlayDone())
}

func (m Model) waitForPlayEvent() tea.Cmd {
	ch := m.eventCh
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ev
	}
}

func (m Model) waitForPlayDone() tea.Cmd {
	ch := m.doneCh
	return func() tea.Msg {
		return playDoneMsg{err: <-ch}
	}
}

func reportError(err error) tea.Cmd {
	return func() tea.Msg {
		return fetchDoneMsg{err: err}
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		switch m.state {
		case StateEntry:
			return m.updateEntry(msg)
		case StateInPort, StateOutPort:
			return m.updatePortPick(msg)
		case StatePlaying:
			return m.updatePlaying(msg)
		case StateError:
			if msg.String() == "enter" || msg.String() == "esc" {
				m.state = StateEntry
				m.err = nil
				m.input.Focus()
				return m, textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fetchDoneMsg:
		if msg.err != nil {
			m.state = StateError
			m.err = msg.err
			return m, nil
		}
		m.entry = msg.entry
		m.terms = msg.terms
		m.steps = msg.steps
		m.inPorts = midiio.InPortNames()
		m.outPorts = midiio.OutPortNames()
		if len(m.inPorts) == 0 || len(m.outPorts) == 0 {
			m.state = StateError
			m.err = fmt.Errorf("no MIDI ports available")
			return m, nil
		}
		m.state = StateInPort
		m.portIndex = 0
		return m, nil

	case playEventMsg:
		if msg.note {
			m.played++
		}
		m.cursor = msg.cursor
		m.lastEvent = msg.event
		return m, m.waitForPlayEvent()

	case playDoneMsg:
		m.state = StateEntry
		m.err = msg.err
		if msg.err != nil {
			m.state = StateError
		}
		m.cancel = nil
		m.input.Focus()
		return m, textinput.Blink
	}

	if m.state == StateEntry {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, nil
		}
		m.state = StateFetching
		return m, tea.Batch(m.spinner.Tick, m.fetchSequence(query))
	case "esc":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updatePortPick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ports := m.inPorts
	if m.state == StateOutPort {
		ports = m.outPorts
	}

	switch msg.String() {
	case "up", "k":
		if m.portIndex > 0 {
			m.portIndex--
		}
	case "down", "j":
		if m.portIndex < len(ports)-1 {
			m.portIndex++
		}
	case "enter":
		if m.state == StateInPort {
			m.inPort = ports[m.portIndex]
			m.state = StateOutPort
			m.portIndex = 0
			return m, nil
		}
		m.outPort = ports[m.portIndex]
		m.state = StatePlaying
		m.cursor = 0
		m.played = 0
		m.lastEvent = ""
		cmd := m.startPlayback()
		return m, cmd
	case "esc":
		m.state = StateEntry
		m.input.Focus()
		return m, textinput.Blink
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		if m.cancel != nil {
			m.cancel()
		}
		return m, nil // playDoneMsg moves us back
	}
	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(logo())
	s.WriteString("\n")

	switch m.state {
	case StateEntry:
		s.WriteString(m.viewEntry())
	case StateFetching:
		s.WriteString(m.viewFetching())
	case StateInPort, StateOutPort:
		s.WriteString(m.viewPortPick())
	case StatePlaying:
		s.WriteString(m.viewPlaying())
	case StateError:
		s.WriteString(m.viewError())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: select • esc: back • ctrl+c: quit"))

	return s.String()
}

func (m Model) viewEntry() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(" OEIS ENTRY "))
	s.WriteString("\n\n")
	s.WriteString("Entry ID or search term:\n\n")
	s.WriteString(m.input.View())
	s.WriteString("\n")
	s.WriteString(statusStyle.Render(fmt.Sprintf("pmod=%d poff=%d rest=%s loop=%v",
		m.opts.PMod, m.opts.POff, m.opts.Rest, m.opts.Loop)))
	return boxStyle.Render(s.String())
}

func (m Model) viewFetching() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(" FETCHING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Looking up sequence...", m.spinner.View()))
	return boxStyle.Render(s.String())
}

func (m Model) viewPortPick() string {
	var s strings.Builder

	which := "INPUT"
	ports := m.inPorts
	if m.state == StateOutPort {
		which = "OUTPUT"
		ports = m.outPorts
	}

	s.WriteString(titleStyle.Render(fmt.Sprintf(" SELECT %s PORT ", which)))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s: %s (%d terms)\n\n", m.entry.ID(), m.entry.Name, len(m.terms)))

	for i, p := range ports {
		if i == m.portIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", p)))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", p)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewPlaying() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" PLAYING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s: %s\n", m.entry.ID(), m.entry.Name))
	s.WriteString(fmt.Sprintf("%s → %s\n\n", m.inPort, m.outPort))

	s.WriteString(m.viewStepStrip())
	s.WriteString("\n\n")

	s.WriteString(fmt.Sprintf("step %d  •  %d notes played\n", m.cursor, m.played))
	if m.lastEvent != "" {
		s.WriteString(statusStyle.Render(m.lastEvent))
	}

	return boxStyle.Render(s.String())
}

// viewStepStrip renders a window of the sequence around the cursor
func (m Model) viewStepStrip() string {
	const window = 8
	start := m.cursor - window/2
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > len(m.steps) {
		end = len(m.steps)
		if start = end - window; start < 0 {
			start = 0
		}
	}

	var cells []string
	for i := start; i < end; i++ {
		step := m.steps[i]
		var cell string
		if step.Rest {
			cell = restStyle.Render("·")
		} else {
			cell = fmt.Sprintf("%d", step.Note)
		}
		if i == m.cursor {
			cell = cursorStyle.Render(cell)
		}
		cells = append(cells, cell)
	}
	return strings.Join(cells, "  ")
}

func (m Model) viewError() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(" ERROR "))
	s.WriteString("\n\n")
	s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", m.err)))
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))
	return boxStyle.Render(s.String())
}

func logo() string {
	l := `
   ___  __    ___  _  _  _____  ____  ____  ___
  / _ \/ /   / _ || || |/  _  |/ ___||_  _|/ __|
 / ___/ /__ / __ || __ || |_| ||  _|  _||_ |__ |
/_/  /____//_/ |_||_||_||_____||____||____||___/
`
	return lipgloss.NewStyle().Foreground(brightCyan).Render(l)
}

// Run starts the TUI application with the given transform settings
func Run(opts sequence.Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
