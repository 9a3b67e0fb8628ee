package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maticef/huddle/go/internal/client"
	"github.com/maticef/huddle/go/internal/fights"
	"github.com/maticef/huddle/go/internal/geo"
	"github.com/maticef/huddle/go/internal/models"
)

const sidebarWidth = 30

type viewMsg struct {
	view client.View
}

type sessionExpiredMsg struct{}

type voteResultMsg struct {
	fightID string
	err     error
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	onlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	meStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#505050"))
)

type modelState struct {
	session *client.Session
	userID  string
	group   models.Group
	card    fights.Schedule

	view      client.View
	notices   []string
	viewport  viewport.Model
	textInput textinput.Model
	ready     bool
	expired   bool
}

func initialModel(session *client.Session, joined client.JoinResult, card fights.Schedule) modelState {
	ti := textinput.New()
	ti.Placeholder = "Message, or /bet <fight> <A|B>"
	ti.Focus()
	ti.CharLimit = 256

	return modelState{
		session:   session,
		userID:    joined.User.ID,
		group:     joined.Group,
		card:      card,
		textInput: ti,
	}
}

func (m modelState) Init() tea.Cmd {
	return textinput.Blink
}

func (m modelState) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			content := strings.TrimSpace(m.textInput.Value())
			if content == "" || m.expired {
				return m, nil
			}
			m.textInput.SetValue("")

			if strings.HasPrefix(content, "/bet") {
				return m, m.castVote(content)
			}
			m.session.SendChat(context.Background(), content)
			m.view = m.session.View()
			m.refreshTranscript()
			return m, nil
		}

	case tea.WindowSizeMsg:
		footerHeight := 3
		if !m.ready {
			m.viewport = viewport.New(msg.Width-sidebarWidth, msg.Height-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - sidebarWidth
			m.viewport.Height = msg.Height - footerHeight
		}
		m.textInput.Width = msg.Width - 4
		m.refreshTranscript()

	case viewMsg:
		m.view = msg.view
		m.group = msg.view.Group
		m.refreshTranscript()

	case voteResultMsg:
		if msg.err != nil {
			m.notices = append(m.notices, fmt.Sprintf("vote for %s failed: %v", msg.fightID, msg.err))
		} else {
			m.notices = append(m.notices, fmt.Sprintf("vote for %s recorded", msg.fightID))
		}
		m.refreshTranscript()

	case sessionExpiredMsg:
		m.expired = true
		m.notices = append(m.notices, "session expired: the group could not be recovered")
		m.refreshTranscript()
	}

	m.textInput, tiCmd = m.textInput.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

// castVote handles "/bet <fightID> <A|B>".
func (m modelState) castVote(content string) tea.Cmd {
	parts := strings.Fields(content)
	if len(parts) != 3 || (parts[2] != models.PredictionA && parts[2] != models.PredictionB) {
		return func() tea.Msg {
			return voteResultMsg{fightID: "?", err: fmt.Errorf("usage: /bet <fight> <A|B>")}
		}
	}
	fightID, prediction := parts[1], parts[2]
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return voteResultMsg{fightID: fightID, err: m.session.CastVote(ctx, fightID, prediction)}
	}
}

func (m *modelState) refreshTranscript() {
	if !m.ready {
		return
	}
	lines := make([]string, 0, len(m.view.Messages)+len(m.notices))
	for _, msg := range m.view.Messages {
		ts := time.UnixMilli(msg.Timestamp).Format("15:04")
		sender := msg.SenderName
		if msg.SenderID == m.userID {
			sender = meStyle.Render(sender)
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s", offlineStyle.Render(ts), sender, msg.Text))
	}
	for _, n := range m.notices {
		lines = append(lines, noticeStyle.Render("• "+n))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

func (m modelState) View() string {
	if !m.ready {
		return "\n  Connecting..."
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, m.viewport.View(), m.sidebar())
	return fmt.Sprintf("%s\n%s\n%s",
		main,
		borderStyle.Render(strings.Repeat("─", m.viewport.Width+sidebarWidth)),
		m.textInput.View(),
	)
}

func (m modelState) sidebar() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s [%s]", m.group.Name, m.group.ID)))
	b.WriteString("\n\n")

	me, haveMe := m.view.Me(m.userID)
	for _, member := range m.view.Members {
		dot := offlineStyle.Render("○")
		if member.IsOnline {
			dot = onlineStyle.Render("●")
		}
		name := member.Name
		if member.ID == m.userID {
			name = meStyle.Render(name + " (you)")
		}
		b.WriteString(fmt.Sprintf("%s %s%s\n", dot, name, m.distanceTo(me, haveMe, member)))
	}

	b.WriteString("\n" + headerStyle.Render("Fight card") + "\n")
	for _, f := range m.card {
		b.WriteString(fmt.Sprintf("%s %s vs %s\n", offlineStyle.Render(f.ID), f.FighterA, f.FighterB))
	}

	return lipgloss.NewStyle().Width(sidebarWidth).PaddingLeft(1).Render(b.String())
}

func (m modelState) distanceTo(me models.User, haveMe bool, member models.User) string {
	if !haveMe || member.ID == me.ID || me.LastLocation == nil || member.LastLocation == nil {
		return ""
	}
	d := geo.Distance(*me.LastLocation, *member.LastLocation)
	if d < 5 {
		return offlineStyle.Render(" < 5m")
	}
	return offlineStyle.Render(fmt.Sprintf(" %.0fm", d))
}
