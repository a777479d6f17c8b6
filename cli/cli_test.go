package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hmori/quizquest/engine"
	"github.com/hmori/quizquest/engine/state"
	"github.com/hmori/quizquest/persist"
	"github.com/hmori/quizquest/types"
)

// testCatalog returns a minimal world for CLI testing. The single question
// makes quiz answers predictable in scripts.
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
		Items: map[string]types.Item{
			"suit": {ID: "suit", Name: "Suit", Type: types.ItemArmor},
		},
		Maps: map[string]types.MapData{
			"town": {ID: "town", Name: "Town", Width: 20, Height: 20,
				Entities: []types.MapEntity{
					{ID: "guide", Name: "Guide", X: 10, Y: 11, Kind: types.EntityNPC, ScenarioID: "intro"},
				}},
		},
		Questions: []types.Question{
			{Prompt: "2+2?", Answer: "4", Choices: []string{"3", "4"}},
		},
	}
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	eng := engine.NewSeeded(testCatalog(), 1)
	eng.Timing = engine.ZeroTiming()
	var out bytes.Buffer
	c := New(eng, persist.NewGateway(persist.NewMemoryStore(), "test"))
	c.In = strings.NewReader(input)
	c.Out = &out
	return c, &out
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  types.Command
		ok    bool
	}{
		{"up", types.Command{Type: types.CmdMove, Dir: types.DirUp}, true},
		{"s", types.Command{Type: types.CmdMove, Dir: types.DirDown}, true},
		{"LEFT", types.Command{Type: types.CmdMove, Dir: types.DirLeft}, true},
		{"east", types.Command{Type: types.CmdMove, Dir: types.DirRight}, true},
		{"talk", types.Command{Type: types.CmdInteract}, true},
		{"attack", types.Command{Type: types.CmdBattle, Action: types.ActionAttack}, true},
		{"learn", types.Command{Type: types.CmdBattle, Action: types.ActionLearn}, true},
		{"run", types.Command{Type: types.CmdBattle, Action: types.ActionRetreat}, true},
		{"answer 2", types.Command{Type: types.CmdAnswer, Choice: 1}, true},
		{"3", types.Command{Type: types.CmdAnswer, Choice: 2}, true},
		{"equip armor suit", types.Command{Type: types.CmdEquip, Slot: types.SlotArmor, ItemID: "suit"}, true},
		{"unequip armor", types.Command{Type: types.CmdEquip, Slot: types.SlotArmor, ItemID: ""}, true},
		{"equip hat suit", types.Command{}, false},
		{"answer zero", types.Command{}, false},
		{"answer", types.Command{}, false},
		{"dance", types.Command{}, false},
		{"0", types.Command{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, ok, _ := Parse(tc.input)
			if ok != tc.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tc.input, got, tc.want)
			}
		})
	}
}

func TestRun_MoveAndQuit(t *testing.T) {
	c, out := newTestCLI(t, "right\nright\n/state\n/quit\n")
	c.Run()

	if c.Engine.Store.Pos.X != 12 {
		t.Errorf("pos = %+v, want x=12", c.Engine.Store.Pos)
	}
	if !strings.Contains(out.String(), "(12,10)") {
		t.Errorf("state dump missing position:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Goodbye.") {
		t.Errorf("missing quit message:\n%s", out.String())
	}
}

func TestRun_TalkToNPC(t *testing.T) {
	c, _ := newTestCLI(t, "down\ntalk\n/quit\n")
	c.Run()

	// The guide is solid: the move turns in place, talk faces it.
	if c.Engine.Store.Pos.Y != 10 {
		t.Errorf("walked into the guide: %+v", c.Engine.Store.Pos)
	}
}

func TestRun_ScriptedBattle(t *testing.T) {
	c, out := newTestCLI(t, "attack\n2\n1\nattack\n2\n/quit\n")
	c.Engine.Store.StartBattle("slime")
	c.Run()

	// attack quiz correct (choice 2 = "4"): 40 damage kills the 30 hp slime
	// outright, so the later lines in the script are harmless no-ops.
	if c.Engine.Store.InBattle() {
		t.Errorf("battle still running")
	}
	if got := c.Engine.Store.Player.Exp; got != 10 {
		t.Errorf("exp = %d, want 10", got)
	}
	if !strings.Contains(out.String(), "You defeated Slime!") {
		t.Errorf("missing victory line:\n%s", out.String())
	}
}

func TestRun_SaveAndLoad(t *testing.T) {
	c, out := newTestCLI(t, "right\n/save\nleft\nleft\n/load\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Progress saved.") {
		t.Fatalf("save did not run:\n%s", out.String())
	}
	if c.Engine.Store.Pos.X != 11 {
		t.Errorf("pos after load = %+v, want saved x=11", c.Engine.Store.Pos)
	}
}

func TestRun_SaveBlockedInBattle(t *testing.T) {
	c, out := newTestCLI(t, "/save\n/quit\n")
	c.Engine.Store.StartBattle("slime")
	c.Run()

	if !strings.Contains(out.String(), "Finish the battle first") {
		t.Errorf("save allowed mid-battle:\n%s", out.String())
	}
}

func TestRun_LoadBlockedInBattle(t *testing.T) {
	c, out := newTestCLI(t, "/save\n/load\n/quit\n")
	c.Engine.Store.StartBattle("slime")
	c.Run()

	if !strings.Contains(out.String(), "saves cannot be loaded mid-battle") {
		t.Errorf("load allowed mid-battle:\n%s", out.String())
	}
	if !c.Engine.Store.InBattle() {
		t.Error("battle state lost")
	}
}

func TestRun_CommentsAndBlanksSkipped(t *testing.T) {
	c, _ := newTestCLI(t, "# a script comment\n\nright\n/quit\n")
	c.Run()

	if c.Engine.Store.Pos.X != 11 {
		t.Errorf("pos = %+v, want x=11", c.Engine.Store.Pos)
	}
}

func TestRun_EncounterToggle(t *testing.T) {
	c, out := newTestCLI(t, "/encounters\n/quit\n")
	c.Run()

	if !c.Engine.NoEncounter {
		t.Error("toggle did not disable encounters")
	}
	if !strings.Contains(out.String(), "encounters disabled") {
		t.Errorf("missing toggle message:\n%s", out.String())
	}
}
