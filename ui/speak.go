// Package ui provides the interactive speak session for voicestudio.
package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	"github.com/voicelab/voicestudio/internal/catalog"
	"github.com/voicelab/voicestudio/internal/session"
	"github.com/voicelab/voicestudio/internal/tts"
)

// Config holds everything the speak session needs.
type Config struct {
	Script    string
	Catalog   *catalog.Catalog
	OutputDir string
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#AD58B4"))
	scriptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).MarginLeft(2)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// sessionMsg wraps a controller notification for the tea runtime.
type sessionMsg struct{ msg session.Msg }

type model struct {
	ctrl    *session.Controller
	cfg     Config
	spinner spinner.Model
	voices  []catalog.Persona
	voiceIx int
	status  string
	width   int
}

// NewProgram builds the speak session program around ctrl.
func NewProgram(ctrl *session.Controller, cfg Config) *tea.Program {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#AD58B4"))

	m := model{
		ctrl:    ctrl,
		cfg:     cfg,
		spinner: sp,
		voices:  cfg.Catalog.All(),
		width:   80,
	}
	for i, p := range m.voices {
		if strings.EqualFold(p.Name, ctrl.Voice()) {
			m.voiceIx = i
			break
		}
	}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForSession())
}

// waitForSession relays the next controller notification into the
// program.
func (m model) waitForSession() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.ctrl.Msgs()
		if !ok {
			return nil
		}
		return sessionMsg{msg: msg}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sessionMsg:
		switch sm := msg.msg.(type) {
		case session.GenerateFailedMsg:
			log.Debug("session error", "err", sm.Err, "recoverable", sm.Recoverable)
		case session.PlaybackFinishedMsg:
			if !sm.Stopped {
				m.status = "Done."
			}
		}
		return m, m.waitForSession()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.ctrl.Close()
		return m, tea.Quit

	case "enter", " ":
		m.status = ""
		m.ctrl.Generate(context.Background(), m.cfg.Script)
		return m, nil

	case "d":
		if !m.ctrl.CanDownload() {
			m.status = "Nothing to download yet."
			return m, nil
		}
		path, err := m.ctrl.Download(m.cfg.OutputDir)
		if err != nil {
			m.status = errorStyle.Render(err.Error())
			return m, nil
		}
		m.status = fmt.Sprintf("Saved %s (%s)", path, fileSizeOf(path))
		return m, nil

	case "tab", "right":
		return m.cycleVoice(1), nil

	case "shift+tab", "left":
		return m.cycleVoice(-1), nil

	case "e":
		if m.ctrl.Engine() == tts.EngineCloud {
			m.ctrl.SetEngine(tts.EngineLocal)
		} else {
			m.ctrl.SetEngine(tts.EngineCloud)
		}
		return m, nil
	}
	return m, nil
}

// cycleVoice moves the persona selection by delta. Only meaningful for
// the cloud engine; the local engine keeps its platform voice.
func (m model) cycleVoice(delta int) model {
	if len(m.voices) == 0 || m.ctrl.Engine() != tts.EngineCloud {
		return m
	}
	m.voiceIx = (m.voiceIx + delta + len(m.voices)) % len(m.voices)
	m.ctrl.SetVoice(m.voices[m.voiceIx].Name)
	return m
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("VoiceStudio"))
	b.WriteString("\n\n")

	wrapped := wordwrap.String(m.cfg.Script, max(20, m.width-4))
	b.WriteString(scriptStyle.Render(wrapped))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("engine ") + valueStyle.Render(string(m.ctrl.Engine())))
	if m.ctrl.Engine() == tts.EngineCloud {
		b.WriteString(labelStyle.Render("  voice ") + valueStyle.Render(m.ctrl.Voice()))
	}
	words := tts.CountWords(m.cfg.Script)
	b.WriteString(labelStyle.Render("  words ") + valueStyle.Render(fmt.Sprintf("%s / %s",
		humanize.Comma(int64(words)), humanize.Comma(int64(tts.MaxScriptWords)))))
	b.WriteString("\n\n")

	switch m.ctrl.Phase() {
	case session.PhaseLoading:
		b.WriteString(m.spinner.View() + " Generating…")
	case session.PhasePlaying:
		b.WriteString(statusStyle.Render("▶ Playing"))
	case session.PhaseError:
		b.WriteString(errorStyle.Render("✗ " + m.ctrl.ErrMessage()))
	default:
		if m.status != "" {
			b.WriteString(statusStyle.Render(m.status))
		} else {
			b.WriteString(labelStyle.Render("Ready."))
		}
	}

	b.WriteString(helpStyle.Render("\nenter: speak/stop • tab: voice • e: engine • d: download • q: quit"))
	return b.String()
}

// fileSizeOf reports a file's size for the status line. A stat failure
// just blanks the size.
func fileSizeOf(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return humanize.Bytes(uint64(info.Size())) //nolint:gosec
}
