// Package tui renders the tile map and battle screen with Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hmori/quizquest/engine"
	"github.com/hmori/quizquest/persist"
	"github.com/hmori/quizquest/types"
)

// tickInterval paces the scheduler pump. Phase transitions run on their own
// delays; the pump just gives them a clock.
const tickInterval = 100 * time.Millisecond

// Model is the Bubble Tea model for the QuizQuest TUI.
type Model struct {
	engine  *engine.Engine
	gateway *persist.Gateway

	log []string // rolling narrative lines under the map

	width    int
	height   int
	ready    bool
	quitting bool
}

// tickMsg pumps the engine scheduler.
type tickMsg time.Time

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, gw *persist.Gateway) Model {
	return Model{engine: eng, gateway: gw}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, gw *persist.Gateway) error {
	p := tea.NewProgram(New(eng, gw), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the scheduler pump.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages (key presses, window resize, scheduler ticks).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case tickMsg:
		res := m.engine.Tick(time.Time(msg))
		m = m.appendResult(res)
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey maps a key press onto an engine command for the current mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "ctrl+s":
		return m.doSave(), nil

	case "ctrl+l":
		return m.doLoad(), nil
	}

	if m.engine.Store.InBattle() {
		return m.handleBattleKey(key), nil
	}
	return m.handleMapKey(key), nil
}

func (m Model) handleMapKey(key string) Model {
	now := time.Now()
	switch key {
	case "up", "w":
		return m.dispatch(types.Command{Type: types.CmdMove, Dir: types.DirUp}, now)
	case "down", "s":
		return m.dispatch(types.Command{Type: types.CmdMove, Dir: types.DirDown}, now)
	case "left", "a":
		return m.dispatch(types.Command{Type: types.CmdMove, Dir: types.DirLeft}, now)
	case "right", "d":
		return m.dispatch(types.Command{Type: types.CmdMove, Dir: types.DirRight}, now)
	case "enter", " ", "t":
		return m.dispatch(types.Command{Type: types.CmdInteract}, now)
	}
	return m
}

func (m Model) handleBattleKey(key string) Model {
	now := time.Now()
	b := m.engine.Store.Battle

	// Quiz choices take number keys.
	if b != nil && b.Quiz != nil && len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return m.dispatch(types.Command{Type: types.CmdAnswer, Choice: int(key[0] - '1')}, now)
	}

	switch key {
	case "a":
		return m.dispatch(types.Command{Type: types.CmdBattle, Action: types.ActionAttack}, now)
	case "l":
		return m.dispatch(types.Command{Type: types.CmdBattle, Action: types.ActionLearn}, now)
	case "r":
		return m.dispatch(types.Command{Type: types.CmdBattle, Action: types.ActionRetreat}, now)
	}
	return m
}

func (m Model) dispatch(cmd types.Command, now time.Time) Model {
	return m.appendResult(m.engine.Dispatch(cmd, now))
}

const logLimit = 6

func (m Model) appendResult(res types.Result) Model {
	for _, line := range res.Output {
		m.log = append(m.log, line)
	}
	if len(m.log) > logLimit {
		m.log = m.log[len(m.log)-logLimit:]
	}
	return m
}

func (m Model) doSave() Model {
	if m.engine.Store.InBattle() {
		return m.appendResult(types.Result{Output: []string{
			styleSystem.Render("[Finish the battle first — battles are not saved.]"),
		}})
	}
	if err := m.gateway.Save(context.Background(), m.engine.Store); err != nil {
		return m.appendResult(types.Result{Output: []string{
			styleSystem.Render(fmt.Sprintf("[Save failed: %v]", err)),
		}})
	}
	return m.appendResult(types.Result{Output: []string{
		styleSystem.Render("[Progress saved.]"),
	}})
}

func (m Model) doLoad() Model {
	if m.engine.Store.InBattle() {
		return m.appendResult(types.Result{Output: []string{
			styleSystem.Render("[Finish the battle first — saves cannot be loaded mid-battle.]"),
		}})
	}
	if m.gateway.Load(context.Background(), m.engine.Store) {
		return m.appendResult(types.Result{Output: []string{
			styleSystem.Render("[Progress loaded.]"),
		}})
	}
	return m.appendResult(types.Result{Output: []string{
		styleSystem.Render("[No saved progress; starting fresh.]"),
	}})
}

// View renders the current mode: map grid or battle card, then the log and
// the status bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	var body string
	if m.engine.Store.InBattle() {
		body = m.renderBattle()
	} else {
		body = m.renderMap()
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	for _, line := range m.log {
		b.WriteString(styleLogLine.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatusBar())
	return b.String()
}
