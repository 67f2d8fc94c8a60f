// Package tui is the interactive terminal fretboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bep/debounce"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jsphweid/fretboard/constants"
	"github.com/jsphweid/fretboard/model"
	"github.com/jsphweid/fretboard/pitch"
	"github.com/jsphweid/fretboard/session"
	"github.com/jsphweid/fretboard/shape"
	"github.com/jsphweid/fretboard/transport"
	"github.com/jsphweid/fretboard/util"
)

const (
	// DebounceDelay collapses quick selector changes into one resolution.
	DebounceDelay = 150 * time.Millisecond
	frameInterval = 50 * time.Millisecond
	ledFlash      = 120 * time.Millisecond
	alertTimeout  = 3 * time.Second
	bpmStep       = 5
)

type updateMsg struct{}

type frameMsg time.Time

type clearAlertMsg struct{}

var qualities = []model.Quality{model.QualityNone, model.QualityMajor, model.QualityMinor}

type Model struct {
	ctx       context.Context
	sess      *session.Session
	debounced func(f func())
	snap      session.Snapshot
	cursor    model.Position
	alert     string
	quitting  bool
}

func New(ctx context.Context, sess *session.Session) Model {
	return Model{
		ctx:       ctx,
		sess:      sess,
		debounced: debounce.New(DebounceDelay),
		snap:      sess.Snapshot(),
		cursor:    model.Position{String: constants.NumStrings - 1, Fret: 0},
	}
}

func waitForUpdate(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		<-sess.Updates()
		return updateMsg{}
	}
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func clearAlert() tea.Cmd {
	return tea.Tick(alertTimeout, func(time.Time) tea.Msg {
		return clearAlertMsg{}
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.sess), frame())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case updateMsg:
		m.snap = m.sess.Snapshot()
		return m, waitForUpdate(m.sess)

	case frameMsg:
		m.snap = m.sess.Snapshot()
		return m, frame()

	case clearAlertMsg:
		m.alert = ""
	}
	return m, nil
}

// refresh resolves the selection once the selectors have been still for
// DebounceDelay.
func (m Model) refresh() {
	ctx, sess := m.ctx, m.sess
	m.debounced(func() {
		_ = sess.Refresh(ctx)
	})
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.sess.Close()
		return m, tea.Quit

	case "r":
		m.cycleRoot(1)
	case "R":
		m.cycleRoot(-1)

	case "s":
		next := qualities[(indexOf(qualities, m.snap.Quality)+1)%len(qualities)]
		if err := m.sess.SetQuality(next); err == nil {
			m.refresh()
		}

	case "h":
		catalog := shape.Catalog()
		ids := make([]string, len(catalog))
		for i, s := range catalog {
			ids[i] = s.ID
		}
		next := ids[(indexOf(ids, m.snap.ShapeID)+1)%len(ids)]
		if err := m.sess.SetShape(next); err == nil {
			m.refresh()
		}

	case "up", "k":
		m.cursor.String = util.Min(m.cursor.String+1, constants.NumStrings-1)
	case "down", "j":
		m.cursor.String = util.Max(m.cursor.String-1, 0)
	case "left":
		m.cursor.Fret = util.Max(m.cursor.Fret-1, 0)
	case "right", "l":
		m.cursor.Fret = util.Min(m.cursor.Fret+1, constants.MaxFret)

	case " ", "enter":
		if _, err := m.sess.ToggleCell(m.cursor); err != nil {
			slog.Warn("tui: play note", "err", err)
		}

	case "c":
		m.sess.Clear()

	case "m":
		if _, err := m.sess.ToggleMetronome(m.ctx); err != nil {
			m.alert = err.Error()
			cmd = clearAlert()
		}

	case "p":
		if _, err := m.sess.TogglePractice(m.ctx); err != nil {
			if !errors.Is(err, transport.ErrNothingHighlighted) {
				slog.Warn("tui: practice", "err", err)
			}
			m.alert = err.Error()
			cmd = clearAlert()
		}

	case "+", "=":
		m.changeBPM(bpmStep)
	case "-", "_":
		m.changeBPM(-bpmStep)

	case "x":
		m.sess.ToggleSound()
	}

	m.snap = m.sess.Snapshot()
	return m, cmd
}

func (m *Model) cycleRoot(step int) {
	roots := pitch.Roots()
	i := util.Mod(indexOf(roots, m.snap.Root)+step, len(roots))
	if err := m.sess.SetRoot(roots[i]); err == nil {
		m.refresh()
	}
}

func (m *Model) changeBPM(delta int) {
	bpm := util.Clamp(m.sess.BPM()+delta, constants.MinBPM, constants.MaxBPM)
	if err := m.sess.SetBPM(bpm); err != nil {
		slog.Warn("tui: set bpm", "err", err)
	}
}

// indexOf returns the index of v in s, or -1 when absent so that cycling
// starts from the first entry.
func indexOf[T comparable](s []T, v T) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("fretboard"))
	b.WriteString("  ")
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")
	b.WriteString(m.renderBoard())
	b.WriteString("\n")
	if m.alert != "" {
		b.WriteString(alertStyle.Render(m.alert))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("r/R root  s scale  h shape  arrows move  space play  c clear  m metronome  p practice  +/- bpm  x sound  q quit"))
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (m Model) renderStatus() string {
	quality := string(m.snap.Quality)
	if quality == "" {
		quality = "none"
	}
	status := fmt.Sprintf("root %s  scale %s  shape %s  %d bpm  sound %s  metronome %s  practice %s",
		m.snap.Root, quality, m.snap.ShapeID, m.snap.BPM,
		onOff(m.snap.Sound), onOff(m.snap.Metronome), onOff(m.snap.Practice))
	return statusStyle.Render(status) + "  " + m.renderLED(time.Now())
}

// renderLED draws one dot per beat. The current beat is lit for a short
// flash after it fires.
func (m Model) renderLED(now time.Time) string {
	lit := m.snap.Metronome && now.Sub(m.snap.BeatAt) < ledFlash
	dots := make([]string, constants.BeatsPerBar)
	for i := range dots {
		switch {
		case lit && i == m.snap.Beat.Index && m.snap.Beat.Accent:
			dots[i] = ledAccentStyle.Render("●")
		case lit && i == m.snap.Beat.Index:
			dots[i] = ledOnStyle.Render("●")
		default:
			dots[i] = ledOffStyle.Render("○")
		}
	}
	return strings.Join(dots, " ")
}

func (m Model) renderBoard() string {
	var lines []string

	header := []string{labelStyle.Render("")}
	for _, l := range m.snap.FretLabels {
		header = append(header, labelStyle.Render(l))
	}
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for _, row := range m.snap.Rows {
		cells := []string{labelStyle.Render(row.Label)}
		for _, c := range row.Cells {
			cells = append(cells, m.renderCell(c))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	inlays := []string{labelStyle.Render("")}
	for f := range m.snap.FretLabels {
		mark := ""
		for _, in := range m.snap.Inlays {
			if in.Fret == f {
				mark = "•"
				if in.Double {
					mark = "••"
				}
			}
		}
		inlays = append(inlays, labelStyle.Render(mark))
	}
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, inlays...))

	return strings.Join(lines, "\n")
}

func (m Model) renderCell(c session.CellView) string {
	style := cellStyle
	switch {
	case c.Root:
		style = rootCellStyle
	case c.Scale:
		style = scaleCellStyle
	case c.Open:
		style = openCellStyle
	}
	if c.On {
		style = style.Underline(true).Foreground(colorYellow)
	}
	if c.Active || c.Pulsing {
		style = style.Reverse(true)
	}
	if c.Position == m.cursor {
		style = style.Bold(true)
		return style.Render("[" + c.Label + "]")
	}

	label := c.Label
	if !c.Scale && !c.Root && !c.On && !c.Open {
		label = "·"
	}
	return style.Render(label)
}
