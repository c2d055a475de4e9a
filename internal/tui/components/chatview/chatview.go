// Package chatview shows one chat session and the message composer.
package chatview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/chaisa2/student-productivity-help-app/internal/logger"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle     = lipgloss.NewStyle().Bold(true)
)

type SendMsg struct {
	Text string
}

type NewChatMsg struct{}

type SwitchChatMsg struct {
	Delta int
}

type DeleteChatMsg struct {
	ID    string
	Title string
}

type KeyMap struct {
	Send   key.Binding
	New    key.Binding
	Next   key.Binding
	Prev   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		New:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new chat")),
		Next:   key.NewBinding(key.WithKeys("ctrl+down"), key.WithHelp("ctrl+↓", "next chat")),
		Prev:   key.NewBinding(key.WithKeys("ctrl+up"), key.WithHelp("ctrl+↑", "prev chat")),
		Delete: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete chat")),
	}
}

type Model struct {
	keys     KeyMap
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	session  models.ChatSession
	index    int
	count    int
	waiting  bool
	width    int
	rendered map[string]string
	renderer *glamour.TermRenderer
	style    string
}

// New builds the view. style is a glamour standard style name such as
// "dark", "light" or "notty".
func New(style string) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about study techniques, time management..."
	ti.Prompt = "> "
	ti.CharLimit = 2000
	ti.Focus()

	return Model{
		keys:     DefaultKeyMap(),
		viewport: viewport.New(0, 0),
		input:    ti,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		rendered: make(map[string]string),
		style:    style,
	}
}

func (m Model) Keys() KeyMap { return m.keys }

func (m Model) Waiting() bool { return m.waiting }

// SetWaiting shows or hides the reply spinner. It returns the spinner's
// tick command when waiting starts.
func (m *Model) SetWaiting(waiting bool) tea.Cmd {
	m.waiting = waiting
	m.render()
	if waiting {
		return m.spinner.Tick
	}
	return nil
}

// SetSession shows sess as session index+1 of count.
func (m *Model) SetSession(sess models.ChatSession, index, count int) {
	m.session = sess
	m.index = index
	m.count = count
	m.render()
	m.viewport.GotoBottom()
}

func (m *Model) SetSize(width, height int) {
	if width != m.width {
		m.width = width
		m.renderer = nil
		clear(m.rendered)
	}
	m.viewport.Width = width
	m.viewport.Height = max(height-3, 1)
	m.input.Width = max(width-4, 10)
	m.render()
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.render()
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Send):
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.waiting {
				return m, nil
			}
			m.input.Reset()
			return m, func() tea.Msg { return SendMsg{Text: text} }
		case key.Matches(msg, m.keys.New):
			return m, func() tea.Msg { return NewChatMsg{} }
		case key.Matches(msg, m.keys.Next):
			return m, func() tea.Msg { return SwitchChatMsg{Delta: 1} }
		case key.Matches(msg, m.keys.Prev):
			return m, func() tea.Msg { return SwitchChatMsg{Delta: -1} }
		case key.Matches(msg, m.keys.Delete):
			if m.session.ID != "" {
				id, title := m.session.ID, m.session.Title
				return m, func() tea.Msg { return DeleteChatMsg{ID: id, Title: title} }
			}
			return m, nil
		case msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	title := "New Chat"
	if m.session.ID != "" {
		title = m.session.Title
	}
	header := titleStyle.Render(title)
	if m.count > 0 {
		header += mutedStyle.Render(fmt.Sprintf("  (%d/%d)", m.index+1, m.count))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		m.input.View(),
	)
}

func (m *Model) render() {
	var b strings.Builder
	if len(m.session.Messages) == 0 {
		b.WriteString(mutedStyle.Render("Start a conversation with your study assistant."))
		b.WriteString("\n")
	}
	for _, msg := range m.session.Messages {
		if msg.Role == models.RoleUser {
			b.WriteString(userStyle.Render("You") + mutedStyle.Render(" "+msg.Timestamp.Format("15:04")) + "\n")
			b.WriteString(msg.Content + "\n\n")
			continue
		}
		b.WriteString(assistantStyle.Render("Assistant") + mutedStyle.Render(" "+msg.Timestamp.Format("15:04")) + "\n")
		b.WriteString(m.markdown(msg))
		b.WriteString("\n")
	}
	if m.waiting {
		b.WriteString(m.spinner.View() + mutedStyle.Render(" thinking...") + "\n")
	}
	m.viewport.SetContent(b.String())
}

// markdown renders an assistant reply once per width and caches it.
func (m *Model) markdown(msg models.Message) string {
	if out, ok := m.rendered[msg.ID]; ok {
		return out
	}
	if m.renderer == nil {
		wrap := m.width - 4
		if wrap < 20 {
			wrap = 80
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			logger.Warn("Failed to create markdown renderer", "error", err)
			return msg.Content + "\n"
		}
		m.renderer = r
	}
	out, err := m.renderer.Render(msg.Content)
	if err != nil {
		logger.Debug("Markdown render failed", "error", err)
		out = msg.Content + "\n"
	}
	m.rendered[msg.ID] = out
	return out
}
