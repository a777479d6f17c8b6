package loader

import (
	"fmt"

	"github.com/hmori/quizquest/engine/state"
	"github.com/hmori/quizquest/types"
	lua "github.com/yuin/gopher-lua"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getIntDefault returns an int field or the default if the key is absent.
func getIntDefault(tbl *lua.LTable, key string, def int) int {
	if tbl.RawGetString(key) == lua.LNil {
		return def
	}
	return getInt(tbl, key)
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStrings returns an array-style table field as a string slice.
func getStrings(tbl *lua.LTable, key string) []string {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	var out []string
	arr.ForEach(func(_, v lua.LValue) {
		if s, ok := v.(lua.LString); ok {
			out = append(out, string(s))
		}
	})
	return out
}

// forEachTable iterates the array entries of a table field that are tables.
func forEachTable(tbl *lua.LTable, key string, fn func(*lua.LTable)) {
	arr := getTable(tbl, key)
	if arr == nil {
		return
	}
	arr.ForEach(func(_, v lua.LValue) {
		if t, ok := v.(*lua.LTable); ok {
			fn(t)
		}
	})
}

// compile turns collected Lua tables into the immutable catalog.
func compile(coll *collector) (*state.Catalog, error) {
	cat := &state.Catalog{
		Enemies: map[string]types.Enemy{},
		Items:   map[string]types.Item{},
		Maps:    map[string]types.MapData{},
	}

	if coll.world == nil {
		return nil, fmt.Errorf("no World block defined")
	}
	cat.World = compileWorld(coll.world)

	for _, raw := range coll.enemies {
		if _, dup := cat.Enemies[raw.id]; dup {
			return nil, fmt.Errorf("duplicate enemy id %q", raw.id)
		}
		cat.Enemies[raw.id] = compileEnemy(raw.id, raw.table)
	}

	for _, raw := range coll.items {
		if _, dup := cat.Items[raw.id]; dup {
			return nil, fmt.Errorf("duplicate item id %q", raw.id)
		}
		cat.Items[raw.id] = compileItem(raw.id, raw.table)
	}

	for _, raw := range coll.maps {
		if _, dup := cat.Maps[raw.id]; dup {
			return nil, fmt.Errorf("duplicate map id %q", raw.id)
		}
		cat.Maps[raw.id] = compileMap(raw.id, raw.table)
	}

	for _, tbl := range coll.questions {
		cat.Questions = append(cat.Questions, types.Question{
			Prompt:   getString(tbl, "prompt"),
			Answer:   getString(tbl, "answer"),
			Choices:  getStrings(tbl, "choices"),
			Category: getString(tbl, "category"),
		})
	}

	return cat, nil
}

func compileWorld(tbl *lua.LTable) types.WorldDef {
	w := types.WorldDef{
		Title:          getString(tbl, "title"),
		Version:        getString(tbl, "version"),
		StartMapID:     getString(tbl, "start_map"),
		StartX:         getInt(tbl, "start_x"),
		StartY:         getInt(tbl, "start_y"),
		EncounterRate:  getNumber(tbl, "encounter_rate"),
		StartInventory: getStrings(tbl, "inventory"),
	}
	if p := getTable(tbl, "player"); p != nil {
		w.Player = types.Character{
			ID:      "hero",
			Name:    getString(p, "name"),
			Level:   getIntDefault(p, "level", 1),
			HP:      getInt(p, "hp"),
			MaxHP:   getInt(p, "max_hp"),
			MP:      getInt(p, "mp"),
			MaxMP:   getInt(p, "max_mp"),
			Attack:  getInt(p, "attack"),
			Defense: getInt(p, "defense"),
			Exp:     getInt(p, "exp"),
			NextExp: getIntDefault(p, "next_exp", 100),
			Skills:  getStrings(p, "skills"),
		}
		if eq := getTable(p, "equipment"); eq != nil {
			w.Player.Equipment = types.Equipment{
				Weapon:    getString(eq, "weapon"),
				Armor:     getString(eq, "armor"),
				Accessory: getString(eq, "accessory"),
			}
		}
	}
	return w
}

func compileEnemy(id string, tbl *lua.LTable) types.Enemy {
	hp := getInt(tbl, "hp")
	return types.Enemy{
		ID:           id,
		Name:         getString(tbl, "name"),
		HP:           hp,
		MaxHP:        getIntDefault(tbl, "max_hp", hp),
		Attack:       getInt(tbl, "attack"),
		Defense:      getInt(tbl, "defense"),
		Exp:          getInt(tbl, "exp"),
		Gold:         getInt(tbl, "gold"),
		DropItem:     getString(tbl, "drop_item"),
		QuizCategory: getString(tbl, "quiz_category"),
	}
}

func compileItem(id string, tbl *lua.LTable) types.Item {
	item := types.Item{
		ID:          id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Type:        types.ItemType(getString(tbl, "type")),
		Price:       getInt(tbl, "price"),
	}
	if st := getTable(tbl, "stats"); st != nil {
		item.Stats = types.StatBlock{
			Attack:  getInt(st, "attack"),
			Defense: getInt(st, "defense"),
			HP:      getInt(st, "hp"),
			MP:      getInt(st, "mp"),
		}
	}
	return item
}

func compileMap(id string, tbl *lua.LTable) types.MapData {
	m := types.MapData{
		ID:         id,
		Name:       getString(tbl, "name"),
		Width:      getInt(tbl, "width"),
		Height:     getInt(tbl, "height"),
		Background: getString(tbl, "background"),
		Encounters: getBool(tbl, "encounters", false),
	}
	forEachTable(tbl, "collisions", func(t *lua.LTable) {
		m.Collisions = append(m.Collisions, types.Tile{
			X: getInt(t, "x"),
			Y: getInt(t, "y"),
		})
	})
	forEachTable(tbl, "portals", func(t *lua.LTable) {
		m.Portals = append(m.Portals, types.Portal{
			X:           getInt(t, "x"),
			Y:           getInt(t, "y"),
			TargetMapID: getString(t, "target_map"),
			TargetX:     getInt(t, "target_x"),
			TargetY:     getInt(t, "target_y"),
		})
	})
	forEachTable(tbl, "entities", func(t *lua.LTable) {
		m.Entities = append(m.Entities, types.MapEntity{
			ID:         getString(t, "id"),
			Name:       getString(t, "name"),
			X:          getInt(t, "x"),
			Y:          getInt(t, "y"),
			Kind:       types.EntityKind(getString(t, "kind")),
			Sprite:     getString(t, "sprite"),
			ScenarioID: getString(t, "scenario"),
			CompanyID:  getString(t, "company"),
			Restore:    getBool(t, "restore", false),
		})
	})
	return m
}
