// Package tui renders the live watch view: current track, progress,
// volume, and device, with transport keys wired to the engine.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arialabs/aria/internal/core"
	"github.com/arialabs/aria/internal/tui/styles"
)

// Player is the slice of the engine the watch view needs.
type Player interface {
	Snapshot() core.Snapshot
	Pause() error
	Resume() error
	Next() error
	Prev() error
	Volume() int
	SetVolume(v int) error
}

// Run starts the watch view and blocks until the user quits.
func Run(player Player, refresh time.Duration) error {
	if refresh <= 0 {
		refresh = 250 * time.Millisecond
	}
	m := model{
		player:  player,
		refresh: refresh,
		prog:    progress.New(progress.WithDefaultGradient()),
		snap:    player.Snapshot(),
		width:   80,
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

type tickMsg time.Time

type model struct {
	player  Player
	refresh time.Duration
	prog    progress.Model
	snap    core.Snapshot
	width   int
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.prog.Width = msg.Width - 20
		if m.prog.Width < 10 {
			m.prog.Width = 10
		}
		return m, nil

	case tickMsg:
		m.snap = m.player.Snapshot()
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if m.snap.State == core.StatePlaying {
				m.player.Pause()
			} else if m.snap.State == core.StatePaused {
				m.player.Resume()
			}
		case "n":
			m.player.Next()
		case "p":
			m.player.Prev()
		case "+", "=":
			m.player.SetVolume(m.player.Volume() + 5)
		case "-", "_":
			m.player.SetVolume(m.player.Volume() - 5)
		}
		m.snap = m.player.Snapshot()
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	snap := m.snap

	var body string
	if !snap.HasTrack() {
		body = styles.Muted.Render("Nothing queued")
	} else {
		body = m.renderTrack(snap)
	}

	help := styles.Dim.Render("space pause · n/p track · +/- volume · q quit")

	panel := styles.Panel.Width(m.width - 4)
	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("aria"),
		"",
		body,
		"",
		help,
	))
}

func (m model) renderTrack(snap core.Snapshot) string {
	icon := styles.StatusIcon(snap.State == core.StatePlaying)
	if snap.State == core.StateError {
		icon = styles.Failed.Render("✖")
	}

	title := styles.Title.Render(snap.Track.DisplayName())
	artist := styles.Subtitle.Render(snap.Track.ArtistName())

	bar := m.prog.ViewAs(snap.ProgressPercent() / 100)
	times := fmt.Sprintf("%s / %s",
		core.FormatTime(snap.Elapsed), core.FormatTime(snap.Duration))

	device := snap.Device
	if device == "" {
		device = "default"
	}
	footer := styles.Muted.Render(fmt.Sprintf(
		"track %d/%d · 🔊 %d%% · 📱 %s",
		snap.TrackIndex+1, snap.QueueLen, snap.Volume, device))

	lines := []string{
		icon + " " + title,
		"  " + artist,
		"",
		bar,
		styles.Dim.Render(times),
		"",
		footer,
	}
	if snap.Err != "" {
		lines = append(lines, styles.Failed.Render("error: "+snap.Err))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
