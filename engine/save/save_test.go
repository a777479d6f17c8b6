package save

import (
	"testing"

	"github.com/hmori/quizquest/engine/state"
	"github.com/hmori/quizquest/types"
)

func testStore() *state.Store {
	c := &state.Catalog{
		World: types.WorldDef{
			StartMapID: "town",
			StartX:     10, StartY: 10,
			Player: types.Character{
				Name: "Hero", Level: 1, HP: 100, MaxHP: 100, MP: 50, MaxMP: 50,
				Attack: 10, Defense: 8,
			},
			StartInventory: []string{"suit"},
		},
		Items: map[string]types.Item{
			"suit":  {ID: "suit", Name: "Suit", Type: types.ItemArmor},
			"drink": {ID: "drink", Name: "Drink", Type: types.ItemConsumable},
		},
		Maps: map[string]types.MapData{
			"town":  {ID: "town", Width: 20, Height: 20},
			"world": {ID: "world", Width: 50, Height: 29},
		},
	}
	return state.New(c)
}

func TestCaptureApply_RoundTrip(t *testing.T) {
	s := testStore()
	hp, exp, lvl := 64, 230, 3
	s.UpdateStats(state.StatPatch{HP: &hp, Exp: &exp, Level: &lvl})
	s.AddInventoryItem("drink")
	s.EquipItem(types.SlotArmor, "suit")
	s.SetFlag("met_guide", true)
	x, y := 22, 17
	s.SetCurrentMap("world", &x, &y)

	data, err := Marshal(Capture(s))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	sn, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	fresh := testStore()
	Apply(fresh, sn)

	if fresh.Player.HP != 64 || fresh.Player.Exp != 230 || fresh.Player.Level != 3 {
		t.Errorf("player = %+v", fresh.Player)
	}
	if fresh.CurrentMapID != "world" || fresh.Pos.X != 22 || fresh.Pos.Y != 17 {
		t.Errorf("position = %q %+v", fresh.CurrentMapID, fresh.Pos)
	}
	if len(fresh.Inventory) != 2 {
		t.Errorf("inventory = %d items, want 2", len(fresh.Inventory))
	}
	if fresh.Player.Equipment.Armor != "suit" {
		t.Errorf("equipment = %+v", fresh.Player.Equipment)
	}
	if !fresh.GetFlag("met_guide") {
		t.Error("flag lost in round trip")
	}
}

func TestApply_KeepsSessionDefaultsForUnsavedFields(t *testing.T) {
	s := testStore()
	sn := Capture(s)

	fresh := testStore()
	fresh.Player.Name = "Hero"
	Apply(fresh, sn)

	if fresh.Player.Name != "Hero" {
		t.Errorf("name = %q, want session default", fresh.Player.Name)
	}
	if fresh.Player.Attack != 10 || fresh.Player.Defense != 8 {
		t.Errorf("base stats changed: %+v", fresh.Player)
	}
}

func TestUnmarshal_NormalizesNilCollections(t *testing.T) {
	sn, err := Unmarshal([]byte(`{"level":1,"hp":50,"current_map_id":"town"}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if sn.Flags == nil {
		t.Error("nil flags map")
	}
	if sn.Inventory == nil {
		t.Error("nil inventory slice")
	}
}

func TestUnmarshal_RejectsGarbage(t *testing.T) {
	if _, err := Unmarshal([]byte(`{"level":"three"}`)); err == nil {
		t.Error("malformed snapshot accepted")
	}
}

func TestSnapshot_DoesNotCarryBattle(t *testing.T) {
	s := testStore()
	s.Mode = types.ModeBattle
	s.Battle = &types.BattleState{Phase: types.PhasePlayerQuiz, Turn: 3}

	sn := Capture(s)
	data, err := Marshal(sn)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	fresh := testStore()
	restored, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	Apply(fresh, restored)

	if fresh.Battle != nil || fresh.Mode != types.ModeMap {
		t.Errorf("battle state leaked through a save: mode %v battle %+v", fresh.Mode, fresh.Battle)
	}
}
