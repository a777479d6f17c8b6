// Package types defines the shared data structures for the QuizQuest engine.
// This package contains only type definitions, no logic and no methods.
package types

// Direction is a cardinal facing/movement direction on the tile grid.
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// Mode is the top-level game mode. Scenario dialogue is presented outside
// the engine, so it never leaves map mode for it.
type Mode string

const (
	ModeMap    Mode = "map"
	ModeBattle Mode = "battle"
)

// EquipSlot names one of the three equipment slots.
type EquipSlot string

const (
	SlotWeapon    EquipSlot = "weapon"
	SlotArmor     EquipSlot = "armor"
	SlotAccessory EquipSlot = "accessory"
)

// ItemType classifies a catalog item.
type ItemType string

const (
	ItemWeapon     ItemType = "weapon"
	ItemArmor      ItemType = "armor"
	ItemAccessory  ItemType = "accessory"
	ItemConsumable ItemType = "consumable"
	ItemKeyItem    ItemType = "key-item"
)

// StatBlock is a bundle of stat deltas carried by equipment and consumables.
type StatBlock struct {
	Attack  int `json:"attack,omitempty"`
	Defense int `json:"defense,omitempty"`
	HP      int `json:"hp,omitempty"`
	MP      int `json:"mp,omitempty"`
}

// Item is an immutable catalog entry. Inventory holds copies.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        ItemType  `json:"type"`
	Stats       StatBlock `json:"stats,omitempty"`
	Price       int       `json:"price"`
}

// Equipment holds the three named slots. Empty string means the slot is empty.
type Equipment struct {
	Weapon    string `json:"weapon,omitempty"`
	Armor     string `json:"armor,omitempty"`
	Accessory string `json:"accessory,omitempty"`
}

// Character is the player avatar's runtime state.
type Character struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Level     int       `json:"level"`
	HP        int       `json:"hp"`
	MaxHP     int       `json:"max_hp"`
	MP        int       `json:"mp"`
	MaxMP     int       `json:"max_mp"`
	Attack    int       `json:"attack"`
	Defense   int       `json:"defense"`
	Exp       int       `json:"exp"`
	NextExp   int       `json:"next_exp"`
	Skills    []string  `json:"skills,omitempty"`
	Equipment Equipment `json:"equipment"`
}

// Enemy is an encounter template from the catalog. A battle mutates a copy.
type Enemy struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	HP           int    `json:"hp"`
	MaxHP        int    `json:"max_hp"`
	Attack       int    `json:"attack"`
	Defense      int    `json:"defense"`
	Exp          int    `json:"exp"`
	Gold         int    `json:"gold"`
	DropItem     string `json:"drop_item,omitempty"`
	QuizCategory string `json:"quiz_category,omitempty"`
}

// Question is one quiz entry: a prompt, the correct answer, and the full
// choice list (correct answer included).
type Question struct {
	Prompt   string   `json:"prompt"`
	Answer   string   `json:"answer"`
	Choices  []string `json:"choices"`
	Category string   `json:"category,omitempty"`
}

// Portal is a directed tile-to-tile teleport edge.
type Portal struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	TargetMapID string `json:"target_map_id"`
	TargetX     int    `json:"target_x"`
	TargetY     int    `json:"target_y"`
}

// EntityKind classifies a placed map entity.
type EntityKind string

const (
	EntityNPC     EntityKind = "npc"
	EntityCompany EntityKind = "company"
	EntityItem    EntityKind = "item"
	EntityEnemy   EntityKind = "enemy"
)

// MapEntity is an entity placed on a map tile. NPCs, companies and items are
// solid: walking into them is blocked; interacting with one while facing it
// triggers the scenario hand-off or, for restorative landmarks, a full heal.
type MapEntity struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Kind       EntityKind `json:"kind"`
	Sprite     string     `json:"sprite,omitempty"`
	ScenarioID string     `json:"scenario_id,omitempty"`
	CompanyID  string     `json:"company_id,omitempty"`
	Restore    bool       `json:"restore,omitempty"`
}

// Tile is a grid coordinate.
type Tile struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// MapData is a static map definition: grid bounds, collision tiles, portals
// and placed entities.
type MapData struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Background string      `json:"background,omitempty"`
	Collisions []Tile      `json:"collisions,omitempty"`
	Portals    []Portal    `json:"portals,omitempty"`
	Entities   []MapEntity `json:"entities,omitempty"`
	Encounters bool        `json:"encounters"`
}

// WorldDef holds world metadata and session-start defaults from the catalog.
type WorldDef struct {
	Title          string   `json:"title"`
	Version        string   `json:"version"`
	StartMapID     string   `json:"start_map_id"`
	StartX         int      `json:"start_x"`
	StartY         int      `json:"start_y"`
	Player         Character `json:"player"`
	StartInventory []string `json:"start_inventory,omitempty"`
	EncounterRate  float64  `json:"encounter_rate"`
}

// Position is the player's tile position and facing on the current map.
type Position struct {
	X      int       `json:"x"`
	Y      int       `json:"y"`
	Facing Direction `json:"facing"`
}

// BattlePhase is one named state of the battle state machine.
type BattlePhase string

const (
	PhasePlayerChoice   BattlePhase = "player_choice"
	PhasePlayerQuiz     BattlePhase = "player_quiz"
	PhasePlayerAction   BattlePhase = "player_action"
	PhaseEnemyTurnStart BattlePhase = "enemy_turn_start"
	PhaseDefenseQuiz    BattlePhase = "defense_quiz"
	PhaseEnemyAction    BattlePhase = "enemy_action"
	PhaseWin            BattlePhase = "win"
	PhaseLose           BattlePhase = "lose"
)

// QuizKind tells which turn a drawn question belongs to. Both kinds draw from
// the same undifferentiated pool; only the damage resolution differs.
type QuizKind string

const (
	QuizAttack  QuizKind = "attack"
	QuizDefense QuizKind = "defense"
)

// BattleState is the transient combat sub-state. It exists only while a
// battle runs and is never persisted.
type BattleState struct {
	Enemy    Enemy       `json:"enemy"` // mutable hp copy of the template
	Phase    BattlePhase `json:"phase"`
	Turn     int         `json:"turn"`
	Quiz     *Question   `json:"quiz,omitempty"`
	QuizKind QuizKind    `json:"quiz_kind,omitempty"`
	Log      []string    `json:"log"`
}

// BattleAction is a player command choice during the player_choice phase.
type BattleAction string

const (
	ActionAttack  BattleAction = "attack"
	ActionLearn   BattleAction = "learn"
	ActionRetreat BattleAction = "retreat"
)

// CommandType discriminates the Command union.
type CommandType string

const (
	CmdMove     CommandType = "move"
	CmdInteract CommandType = "interact"
	CmdBattle   CommandType = "battle_action"
	CmdAnswer   CommandType = "answer"
	CmdEquip    CommandType = "equip"
)

// Command is the single typed input into the engine's dispatch loop.
type Command struct {
	Type   CommandType  `json:"type"`
	Dir    Direction    `json:"dir,omitempty"`    // CmdMove
	Action BattleAction `json:"action,omitempty"` // CmdBattle
	Choice int          `json:"choice,omitempty"` // CmdAnswer: index into Quiz.Choices
	Slot   EquipSlot    `json:"slot,omitempty"`   // CmdEquip
	ItemID string       `json:"item_id,omitempty"`
}

// Event is emitted by the engine for observers (front ends, the WS stream).
type Event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// Result is the output of a single dispatched command or scheduler step.
type Result struct {
	Events []Event  `json:"events,omitempty"`
	Output []string `json:"output,omitempty"`
}
