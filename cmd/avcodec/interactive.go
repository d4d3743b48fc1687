package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"

	"github.com/wippyai/avcodec/codec"
	"github.com/wippyai/avcodec/ndjson"
	"github.com/wippyai/avcodec/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type keyMap struct {
	Prev  key.Binding
	Next  key.Binding
	First key.Binding
	Last  key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Prev:  key.NewBinding(key.WithKeys("up", "k", "left", "h"), key.WithHelp("←", "previous")),
	Next:  key.NewBinding(key.WithKeys("down", "j", "right", "l", " "), key.WithHelp("→", "next")),
	First: key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
	Last:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
	Quit:  key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
}

func (k keyMap) help() string {
	var parts []string
	for _, b := range []key.Binding{k.Prev, k.Next, k.First, k.Last, k.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// previewLimit caps how many records preview loads.
const previewLimit = 500

type previewModel struct {
	err      error
	engine   *codec.Engine
	root     *schema.Struct
	filename string
	plain    []codec.Record
	tagged   []codec.Record
	opts     options
	selected int
	width    int
	loaded   bool
}

type loadedMsg struct {
	err    error
	plain  []codec.Record
	tagged []codec.Record
}

func newPreviewModel(engine *codec.Engine, root *schema.Struct, opts options) *previewModel {
	return &previewModel{
		engine:   engine,
		root:     root,
		filename: opts.in,
		opts:     opts,
	}
}

func (m *previewModel) Init() tea.Cmd {
	return m.load
}

// load reads the input and converts it so both forms are at hand.
func (m *previewModel) load() tea.Msg {
	r, err := ndjson.Open(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}
	defer r.Close()
	r.Unwrap = m.opts.export

	records, err := r.ReadBatch(previewLimit)
	if err == io.EOF {
		return loadedMsg{}
	}
	if err != nil {
		return loadedMsg{err: err}
	}

	if m.opts.plain {
		tagged, err := m.engine.Serialize(records, m.root)
		return loadedMsg{err: err, plain: records, tagged: tagged}
	}
	plain, err := m.engine.Deserialize(records, m.root)
	return loadedMsg{err: err, plain: plain, tagged: records}
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Prev):
			if m.selected > 0 {
				m.selected--
			}

		case key.Matches(msg, keys.Next):
			if m.selected < len(m.plain)-1 {
				m.selected++
			}

		case key.Matches(msg, keys.First):
			m.selected = 0

		case key.Matches(msg, keys.Last):
			if len(m.plain) > 0 {
				m.selected = len(m.plain) - 1
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case loadedMsg:
		m.loaded = true
		m.err = msg.err
		m.plain = msg.plain
		m.tagged = msg.tagged
	}

	return m, nil
}

func (m *previewModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.loaded {
		return "Loading records..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("avcodec preview"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	if len(m.plain) == 0 {
		b.WriteString("No records.\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Record %d of %d\n", m.selected+1, len(m.plain)))

	paneWidth := 0
	if m.width > 0 {
		paneWidth = m.width/2 - 4
	}
	left := m.pane("plain", m.plain[m.selected], paneWidth)
	right := m.pane("tagged", m.tagged[m.selected], paneWidth)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(keys.help()))

	return b.String()
}

func (m *previewModel) pane(title string, rec codec.Record, width int) string {
	style := paneStyle
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(headerStyle.Render(title) + "\n" + formatRecord(m.root, rec))
}

// formatRecord renders rec as indented JSON with keys in schema order.
func formatRecord(root *schema.Struct, rec codec.Record) string {
	var b strings.Builder
	b.WriteString("{\n")
	for i, f := range root.Fields {
		v, err := json.Marshal(rec[f.Name])
		if err != nil {
			v = []byte(fmt.Sprintf("%q", err.Error()))
		}
		b.WriteString(fmt.Sprintf("  %q: %s", f.Name, v))
		if i < len(root.Fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

func runInteractive(engine *codec.Engine, root *schema.Struct, opts options) error {
	p := tea.NewProgram(newPreviewModel(engine, root, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
