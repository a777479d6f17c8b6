// Package save implements JSON serialization of world-state snapshots.
// The snapshot layout matches the rpg_progress persistence record.
package save

import (
	"encoding/json"
	"time"

	"github.com/hmori/quizquest/engine/state"
	"github.com/hmori/quizquest/types"
)

// Snapshot is the JSON-serializable save format: one record per player.
// Battle sub-state is deliberately absent: a battle in progress is lost on
// save/restore, only map and character progress persist.
type Snapshot struct {
	Level        int             `json:"level"`
	Exp          int             `json:"exp"`
	HP           int             `json:"hp"`
	MaxHP        int             `json:"max_hp"`
	MP           int             `json:"mp"`
	MaxMP        int             `json:"max_mp"`
	CurrentMapID string          `json:"current_map_id"`
	PositionX    int             `json:"position_x"`
	PositionY    int             `json:"position_y"`
	Inventory    []types.Item    `json:"inventory"`
	Equipment    types.Equipment `json:"equipment"`
	Flags        map[string]bool `json:"flags"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Capture builds a snapshot of the store's persistent fields.
func Capture(s *state.Store) *Snapshot {
	return &Snapshot{
		Level:        s.Player.Level,
		Exp:          s.Player.Exp,
		HP:           s.Player.HP,
		MaxHP:        s.Player.MaxHP,
		MP:           s.Player.MP,
		MaxMP:        s.Player.MaxMP,
		CurrentMapID: s.CurrentMapID,
		PositionX:    s.Pos.X,
		PositionY:    s.Pos.Y,
		Inventory:    append([]types.Item(nil), s.Inventory...),
		Equipment:    s.Player.Equipment,
		Flags:        copyFlags(s.Flags),
		UpdatedAt:    time.Now().UTC(),
	}
}

// Apply overlays a snapshot onto a store. Fields the record doesn't carry
// (name, attack, defense, skills) keep their session defaults. Facing is
// not persisted; the current facing is kept.
func Apply(s *state.Store, sn *Snapshot) {
	s.Player.Level = sn.Level
	s.Player.Exp = sn.Exp
	s.Player.HP = sn.HP
	s.Player.MaxHP = sn.MaxHP
	s.Player.MP = sn.MP
	s.Player.MaxMP = sn.MaxMP
	s.Player.Equipment = sn.Equipment
	s.Inventory = append([]types.Item(nil), sn.Inventory...)
	s.CurrentMapID = sn.CurrentMapID
	s.Pos.X = sn.PositionX
	s.Pos.Y = sn.PositionY
	s.Flags = copyFlags(sn.Flags)
}

// Marshal serializes a snapshot to JSON bytes.
func Marshal(sn *Snapshot) ([]byte, error) {
	return json.Marshal(sn)
}

// Unmarshal deserializes JSON bytes into a snapshot, normalizing nil
// collections so loaded saves never carry nil maps or slices.
func Unmarshal(data []byte) (*Snapshot, error) {
	var sn Snapshot
	if err := json.Unmarshal(data, &sn); err != nil {
		return nil, err
	}
	normalize(&sn)
	return &sn, nil
}

func normalize(sn *Snapshot) {
	if sn.Flags == nil {
		sn.Flags = map[string]bool{}
	}
	if sn.Inventory == nil {
		sn.Inventory = []types.Item{}
	}
}

func copyFlags(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
