// Package state holds the single mutable world-state store and the immutable
// content catalogs every other component reads from.
package state

import (
	"fmt"
	"sort"

	"github.com/hmori/quizquest/types"
)

// Catalog holds the immutable content definitions loaded from Lua.
type Catalog struct {
	World     types.WorldDef
	Enemies   map[string]types.Enemy
	Items     map[string]types.Item
	Maps      map[string]types.MapData
	Questions []types.Question
}

// EnemyIDs returns all enemy ids sorted, so random encounter picks are
// reproducible under a fixed seed.
func (c *Catalog) EnemyIDs() []string {
	ids := make([]string, 0, len(c.Enemies))
	for id := range c.Enemies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Store is the single source of truth for player progress. It is an
// explicitly constructed, injectable object: independent sessions (and tests)
// each build their own. All mutation goes through its methods; none of them
// validate gameplay legality; that is the caller's job (the map engine
// bounds-checks before MovePlayer, battle code clamps hp/mp, and so on).
type Store struct {
	catalog *Catalog

	Mode         types.Mode
	Player       types.Character
	Inventory    []types.Item
	CurrentMapID string
	Pos          types.Position
	Flags        map[string]bool
	Battle       *types.BattleState
}

// New creates a store at session-start defaults taken from the catalog.
func New(c *Catalog) *Store {
	s := &Store{catalog: c}
	s.Reset()
	return s
}

// Reset restores the store to session-start defaults. Used by load fallback
// and by tests that reuse a store.
func (s *Store) Reset() {
	w := s.catalog.World
	s.Mode = types.ModeMap
	s.Player = w.Player
	s.Player.Skills = append([]string(nil), w.Player.Skills...)
	s.Inventory = nil
	for _, id := range w.StartInventory {
		if item, ok := s.catalog.Items[id]; ok {
			s.Inventory = append(s.Inventory, item)
		}
	}
	s.CurrentMapID = w.StartMapID
	s.Pos = types.Position{X: w.StartX, Y: w.StartY, Facing: types.DirDown}
	s.Flags = map[string]bool{}
	s.Battle = nil
}

// Catalog exposes the immutable content definitions.
func (s *Store) Catalog() *Catalog {
	return s.catalog
}

// CurrentMap returns the active map definition.
func (s *Store) CurrentMap() (types.MapData, bool) {
	m, ok := s.catalog.Maps[s.CurrentMapID]
	return m, ok
}

// MovePlayer unconditionally overwrites position and facing. Bounds and
// collision are resolved by the map engine before this is called.
func (s *Store) MovePlayer(x, y int, facing types.Direction) {
	s.Pos = types.Position{X: x, Y: y, Facing: facing}
}

// StatPatch is a partial character update. Nil fields are left unchanged.
type StatPatch struct {
	HP      *int
	MaxHP   *int
	MP      *int
	MaxMP   *int
	Attack  *int
	Defense *int
	Exp     *int
	NextExp *int
	Level   *int
}

// UpdateStats merges a partial stat update into the player character.
// Callers are responsible for clamping (hp to [0,maxHp], mp to [0,maxMp]).
func (s *Store) UpdateStats(p StatPatch) {
	set := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.Player.HP, p.HP)
	set(&s.Player.MaxHP, p.MaxHP)
	set(&s.Player.MP, p.MP)
	set(&s.Player.MaxMP, p.MaxMP)
	set(&s.Player.Attack, p.Attack)
	set(&s.Player.Defense, p.Defense)
	set(&s.Player.Exp, p.Exp)
	set(&s.Player.NextExp, p.NextExp)
	set(&s.Player.Level, p.Level)
}

// AddInventoryItem appends a copy of the catalog item to the inventory.
// Unknown ids are a silent no-op.
func (s *Store) AddInventoryItem(itemID string) {
	item, ok := s.catalog.Items[itemID]
	if !ok {
		return
	}
	s.Inventory = append(s.Inventory, item)
}

// HasItem reports whether the inventory holds at least one copy of the item.
func (s *Store) HasItem(itemID string) bool {
	for _, it := range s.Inventory {
		if it.ID == itemID {
			return true
		}
	}
	return false
}

// EquipItem sets one equipment slot. An empty itemID clears the slot.
// Item type is not validated against the slot.
func (s *Store) EquipItem(slot types.EquipSlot, itemID string) {
	switch slot {
	case types.SlotWeapon:
		s.Player.Equipment.Weapon = itemID
	case types.SlotArmor:
		s.Player.Equipment.Armor = itemID
	case types.SlotAccessory:
		s.Player.Equipment.Accessory = itemID
	}
}

// EquipmentBonus sums the stat blocks of all equipped items. It is a display
// helper: battle math runs on base stats, matching the reference balance.
func (s *Store) EquipmentBonus() types.StatBlock {
	var b types.StatBlock
	for _, id := range []string{s.Player.Equipment.Weapon, s.Player.Equipment.Armor, s.Player.Equipment.Accessory} {
		if id == "" {
			continue
		}
		if item, ok := s.catalog.Items[id]; ok {
			b.Attack += item.Stats.Attack
			b.Defense += item.Stats.Defense
			b.HP += item.Stats.HP
			b.MP += item.Stats.MP
		}
	}
	return b
}

// SetCurrentMap switches the active map and optionally repositions the
// player. Nil coordinates leave the position unchanged; the caller must
// supply valid coordinates for the new map or risk an out-of-bounds
// position. An unknown map id is a content defect, not a gameplay case.
func (s *Store) SetCurrentMap(mapID string, startX, startY *int) error {
	if _, ok := s.catalog.Maps[mapID]; !ok {
		return fmt.Errorf("unknown map id %q", mapID)
	}
	s.CurrentMapID = mapID
	x, y := s.Pos.X, s.Pos.Y
	if startX != nil {
		x = *startX
	}
	if startY != nil {
		y = *startY
	}
	s.Pos = types.Position{X: x, Y: y, Facing: types.DirDown}
	return nil
}

// SetFlag records a scenario/quest progress marker.
func (s *Store) SetFlag(key string, value bool) {
	s.Flags[key] = value
}

// GetFlag returns the value of a flag. Unset flags return false.
func (s *Store) GetFlag(key string) bool {
	return s.Flags[key]
}

// StartBattle switches to battle mode and creates the transient battle
// state with a fresh mutable copy of the enemy template. Returns false
// (and changes nothing) if the enemy id is unknown.
func (s *Store) StartBattle(enemyID string) bool {
	enemy, ok := s.catalog.Enemies[enemyID]
	if !ok {
		return false
	}
	s.Mode = types.ModeBattle
	s.Battle = &types.BattleState{
		Enemy: enemy,
		Phase: types.PhasePlayerChoice,
		Turn:  1,
		Log:   []string{},
	}
	return true
}

// EndBattle returns to map mode and discards the battle state. The player's
// hp is left as the battle left it: no heal on exit, win or lose.
func (s *Store) EndBattle(won bool) {
	s.Mode = types.ModeMap
	s.Battle = nil
}

// InBattle reports whether a battle is active.
func (s *Store) InBattle() bool {
	return s.Mode == types.ModeBattle && s.Battle != nil
}
