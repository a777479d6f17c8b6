package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hmori/quizquest/engine"
	"github.com/hmori/quizquest/engine/state"
	"github.com/hmori/quizquest/persist"
	"github.com/hmori/quizquest/types"
)

// testCatalog returns a minimal world for TUI testing.
func testCatalog() *state.Catalog {
	return &state.Catalog{
		World: types.WorldDef{
			Title:      "Test Quest",
			StartMapID: "town",
			StartX:     10, StartY: 10,
			Player: types.Character{
				Name: "Hero", Level: 1, HP: 100, MaxHP: 100, MP: 50, MaxMP: 50,
				Attack: 20, Defense: 8,
			},
		},
		Enemies: map[string]types.Enemy{
			"slime": {ID: "slime", Name: "Slime", HP: 30, MaxHP: 30, Attack: 5, Exp: 10},
		},
		Items: map[string]types.Item{},
		Maps: map[string]types.MapData{
			"town": {ID: "town", Name: "Town", Width: 20, Height: 20,
				Collisions: []types.Tile{{X: 11, Y: 10}},
				Entities: []types.MapEntity{
					{ID: "guide", Name: "Guide", X: 14, Y: 14, Kind: types.EntityNPC, ScenarioID: "intro"},
				}},
		},
		Questions: []types.Question{
			{Prompt: "2+2?", Answer: "4", Choices: []string{"3", "4"}},
		},
	}
}

func testModel(t *testing.T) Model {
	t.Helper()
	eng := engine.NewSeeded(testCatalog(), 1)
	eng.Timing = engine.ZeroTiming()
	m := New(eng, persist.NewGateway(persist.NewMemoryStore(), "test"))
	m.width = 80
	m.height = 24
	m.ready = true
	return m
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func TestUpdate_MoveKeys(t *testing.T) {
	m := testModel(t)

	m = update(t, m, key("s"))
	if m.engine.Store.Pos.Y != 11 {
		t.Fatalf("pos = %+v, want y=11", m.engine.Store.Pos)
	}
	m = update(t, m, key("w"))
	m = update(t, m, key("a"))
	if m.engine.Store.Pos.X != 9 || m.engine.Store.Pos.Y != 10 {
		t.Errorf("pos = %+v, want (9,10)", m.engine.Store.Pos)
	}
}

func TestUpdate_QuitKeys(t *testing.T) {
	m := testModel(t)
	next, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q produced no command")
	}
	if !next.(Model).quitting {
		t.Error("quitting not set")
	}
}

func TestUpdate_BattleKeys(t *testing.T) {
	m := testModel(t)
	m.engine.Store.StartBattle("slime")

	// Movement keys must not leak into battle.
	m = update(t, m, key("w"))
	if m.engine.Store.Pos.Y != 10 {
		t.Fatalf("moved during battle: %+v", m.engine.Store.Pos)
	}

	m = update(t, m, key("a"))
	b := m.engine.Store.Battle
	if b.Phase != types.PhasePlayerQuiz || b.Quiz == nil {
		t.Fatalf("attack key did not open the quiz: %+v", b)
	}

	// "2" answers with the correct choice; 40 damage finishes the slime.
	m = update(t, m, key("2"))
	if m.engine.Store.Battle.Phase != types.PhaseWin {
		t.Fatalf("phase = %v, want win", m.engine.Store.Battle.Phase)
	}

	m = update(t, m, tickMsg(time.Now()))
	if m.engine.Store.InBattle() {
		t.Error("battle not finalized by tick")
	}
}

func TestUpdate_TickPumpsScheduler(t *testing.T) {
	m := testModel(t)
	m.engine.Store.StartBattle("slime")
	m = update(t, m, key("l")) // learn schedules the enemy turn

	if !m.engine.Pending() {
		t.Fatal("learn scheduled nothing")
	}
	m = update(t, m, tickMsg(time.Now()))
	if m.engine.Store.Battle.Phase != types.PhaseDefenseQuiz {
		t.Errorf("phase = %v, want defense_quiz", m.engine.Store.Battle.Phase)
	}
}

func TestView_MapMode(t *testing.T) {
	m := testModel(t)
	out := m.View()

	if !strings.Contains(out, "Town") {
		t.Errorf("map name missing:\n%s", out)
	}
	if !strings.Contains(out, "@v") {
		t.Errorf("player glyph missing:\n%s", out)
	}
	if !strings.Contains(out, "HP 100/100") {
		t.Errorf("status bar missing:\n%s", out)
	}
}

func TestView_BattleMode(t *testing.T) {
	m := testModel(t)
	m.engine.Store.StartBattle("slime")

	out := m.View()
	if !strings.Contains(out, "Slime") {
		t.Errorf("enemy name missing:\n%s", out)
	}
	if !strings.Contains(out, "[a]ttack") {
		t.Errorf("command menu missing:\n%s", out)
	}

	m = update(t, m, key("a"))
	out = m.View()
	if !strings.Contains(out, "2+2?") {
		t.Errorf("quiz prompt missing:\n%s", out)
	}
	if !strings.Contains(out, "1)") || !strings.Contains(out, "2)") {
		t.Errorf("choices missing:\n%s", out)
	}
}

func TestView_NotReady(t *testing.T) {
	m := testModel(t)
	m.ready = false
	if m.View() != "Loading..." {
		t.Errorf("view = %q", m.View())
	}
}

func TestGauge(t *testing.T) {
	tests := []struct {
		cur, max int
		suffix   string
	}{
		{100, 100, " 100/100"},
		{0, 100, " 0/100"},
		{50, 100, " 50/100"},
		{-5, 100, " -5/100"}, // clamped to an empty bar, label untouched
	}
	for _, tc := range tests {
		got := gauge(playerBar, tc.cur, tc.max)
		if !strings.HasSuffix(got, tc.suffix) {
			t.Errorf("gauge(%d,%d) = %q, want suffix %q", tc.cur, tc.max, got, tc.suffix)
		}
	}
}

func TestDoSave_BlockedInBattle(t *testing.T) {
	m := testModel(t)
	m.engine.Store.StartBattle("slime")

	m = m.doSave()
	joined := strings.Join(m.log, "\n")
	if !strings.Contains(joined, "Finish the battle first") {
		t.Errorf("log = %q", joined)
	}
}

func TestDoLoad_BlockedInBattle(t *testing.T) {
	m := testModel(t)
	m = m.doSave()
	m.engine.Store.StartBattle("slime")

	m = m.doLoad()
	joined := strings.Join(m.log, "\n")
	if !strings.Contains(joined, "saves cannot be loaded mid-battle") {
		t.Errorf("log = %q", joined)
	}
	if !m.engine.Store.InBattle() {
		t.Error("battle state lost")
	}
}

func TestDoSaveLoad_RoundTrip(t *testing.T) {
	m := testModel(t)
	m = update(t, m, key("s"))
	m = m.doSave()

	m = update(t, m, key("s"))
	m = update(t, m, key("s"))
	m = m.doLoad()

	if m.engine.Store.Pos.Y != 11 {
		t.Errorf("pos = %+v, want restored y=11", m.engine.Store.Pos)
	}
	joined := strings.Join(m.log, "\n")
	if !strings.Contains(joined, "Progress loaded.") {
		t.Errorf("log = %q", joined)
	}
}
