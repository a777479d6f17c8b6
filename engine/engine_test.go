package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/hmori/quizquest/engine/state"
	"github.com/hmori/quizquest/types"
)

// testCatalog builds a small two-map world: a safe town with a portal and
// solid entities, and an encounter-enabled overworld.
func testCatalog() *state.Catalog {
	return &state.Catalog{
		World: types.WorldDef{
			Title:      "Test World",
			StartMapID: "town_start",
			StartX:     10,
			StartY:     10,
			Player: types.Character{
				ID: "hero", Name: "Hero", Level: 1,
				HP: 100, MaxHP: 100, MP: 50, MaxMP: 50,
				Attack: 10, Defense: 10, NextExp: 100,
				Equipment: types.Equipment{Armor: "recruit_suit"},
			},
			StartInventory: []string{"recruit_suit", "energy_drink"},
			EncounterRate:  0.15,
		},
		Enemies: map[string]types.Enemy{
			"resume_slime": {
				ID: "resume_slime", Name: "Resume Slime",
				HP: 30, MaxHP: 30, Attack: 5, Defense: 2,
				Exp: 10, Gold: 50, DropItem: "energy_drink",
			},
			"interview_demon": {
				ID: "interview_demon", Name: "Interview Demon",
				HP: 80, MaxHP: 80, Attack: 15, Defense: 10,
				Exp: 50, Gold: 200,
			},
		},
		Items: map[string]types.Item{
			"recruit_suit": {ID: "recruit_suit", Name: "Recruit Suit", Type: types.ItemArmor,
				Stats: types.StatBlock{Defense: 5, HP: 10}},
			"energy_drink": {ID: "energy_drink", Name: "Energy Drink", Type: types.ItemConsumable,
				Stats: types.StatBlock{HP: 50}},
		},
		Maps: map[string]types.MapData{
			"town_start": {
				ID: "town_start", Name: "Starting Town", Width: 20, Height: 20,
				// The portal tile is also listed as a collision tile to pin
				// down portal priority.
				Collisions: []types.Tile{{X: 9, Y: 19}, {X: 5, Y: 10}},
				Portals: []types.Portal{
					{X: 9, Y: 19, TargetMapID: "world_ehime", TargetX: 22, TargetY: 17},
				},
				Entities: []types.MapEntity{
					{ID: "npc_guide", Name: "Guide", X: 10, Y: 15, Kind: types.EntityNPC,
						ScenarioID: "intro_guide"},
					{ID: "onsen", Name: "Hot Spring", X: 12, Y: 10, Kind: types.EntityCompany,
						Restore: true},
				},
			},
			"world_ehime": {
				ID: "world_ehime", Name: "Overworld", Width: 50, Height: 29,
				Encounters: true,
			},
		},
		Questions: []types.Question{
			{Prompt: "2+2?", Answer: "4", Choices: []string{"3", "4", "5"}},
			{Prompt: "Capital of Ehime?", Answer: "Matsuyama", Choices: []string{"Matsuyama", "Imabari"}},
		},
	}
}

// testEngine returns a zero-timing engine so scheduled steps run on the
// next Tick with the same instant.
func testEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	e := NewSeeded(testCatalog(), seed)
	e.Timing = ZeroTiming()
	return e
}

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestDispatch_IgnoresCommandsWhilePending(t *testing.T) {
	e := testEngine(t, 1)
	e.schedule(t0, time.Second, step{kind: stepEnemyTelegraph})

	e.Dispatch(types.Command{Type: types.CmdMove, Dir: types.DirUp}, t0)
	if e.Store.Pos.X != 10 || e.Store.Pos.Y != 10 {
		t.Errorf("move processed during pending transition: pos %+v", e.Store.Pos)
	}
}

func TestDispatch_BattleCommandsIgnoredOnMap(t *testing.T) {
	e := testEngine(t, 1)

	e.Dispatch(types.Command{Type: types.CmdBattle, Action: types.ActionAttack}, t0)
	e.Dispatch(types.Command{Type: types.CmdAnswer, Choice: 0}, t0)

	if e.Store.Mode != types.ModeMap {
		t.Errorf("mode changed by battle commands outside battle: %v", e.Store.Mode)
	}
}

func TestDispatch_MoveIgnoredInBattle(t *testing.T) {
	e := testEngine(t, 1)
	e.Store.StartBattle("resume_slime")

	e.Dispatch(types.Command{Type: types.CmdMove, Dir: types.DirUp}, t0)
	if e.Store.Pos.Y != 10 {
		t.Errorf("move processed during battle: pos %+v", e.Store.Pos)
	}
}

func TestDispatch_EquipOnMap(t *testing.T) {
	e := testEngine(t, 1)

	e.Dispatch(types.Command{Type: types.CmdEquip, Slot: types.SlotWeapon, ItemID: "energy_drink"}, t0)
	if e.Store.Player.Equipment.Weapon != "energy_drink" {
		t.Errorf("equip not applied: %+v", e.Store.Player.Equipment)
	}

	// Clearing a slot.
	e.Dispatch(types.Command{Type: types.CmdEquip, Slot: types.SlotArmor, ItemID: ""}, t0)
	if e.Store.Player.Equipment.Armor != "" {
		t.Errorf("armor slot not cleared: %+v", e.Store.Player.Equipment)
	}
}

func TestDeterminism_FixedSeedFixedAnswers(t *testing.T) {
	run := func() (*state.Store, []string) {
		e := testEngine(t, 99)
		e.Store.StartBattle("resume_slime")
		var output []string

		answer := func(correct bool) {
			b := e.Store.Battle
			if b == nil || b.Quiz == nil {
				t.Fatalf("expected a quiz to be drawn")
			}
			idx := -1
			for i, c := range b.Quiz.Choices {
				if (c == b.Quiz.Answer) == correct {
					idx = i
					break
				}
			}
			res := e.Dispatch(types.Command{Type: types.CmdAnswer, Choice: idx}, t0)
			output = append(output, res.Output...)
		}

		// Two full rounds: attack (correct), guard (wrong), attack (correct).
		e.Dispatch(types.Command{Type: types.CmdBattle, Action: types.ActionAttack}, t0)
		answer(true)
		e.Tick(t0) // telegraph + defense quiz
		answer(false)
		e.Tick(t0) // back to choice
		e.Dispatch(types.Command{Type: types.CmdBattle, Action: types.ActionAttack}, t0)
		answer(true)
		e.Tick(t0) // finalize

		return e.Store, output
	}

	s1, out1 := run()
	s2, out2 := run()

	if !reflect.DeepEqual(s1.Player, s2.Player) {
		t.Errorf("player state differs across identical runs:\n%+v\n%+v", s1.Player, s2.Player)
	}
	if len(s1.Inventory) != len(s2.Inventory) {
		t.Errorf("inventory differs across identical runs")
	}
	if len(out1) != len(out2) {
		t.Fatalf("output length differs: %d vs %d", len(out1), len(out2))
	}
	for i := range out1 {
		if out1[i] != out2[i] {
			t.Errorf("output line %d differs: %q vs %q", i, out1[i], out2[i])
		}
	}
}

func TestRestoreRNG_SamePosition(t *testing.T) {
	e := testEngine(t, 7)
	for i := 0; i < 10; i++ {
		e.RNG.Intn(6)
	}
	pos := e.RNG.Position()

	e.RestoreRNG(7, pos)
	if e.RNG.Position() != pos {
		t.Errorf("restored position %d, want %d", e.RNG.Position(), pos)
	}
}
