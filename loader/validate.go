package loader

import (
	"fmt"
	"strings"

	"github.com/hmori/quizquest/engine/state"
	"github.com/hmori/quizquest/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

var validItemTypes = map[types.ItemType]bool{
	types.ItemWeapon:     true,
	types.ItemArmor:      true,
	types.ItemAccessory:  true,
	types.ItemConsumable: true,
	types.ItemKeyItem:    true,
}

var validEntityKinds = map[types.EntityKind]bool{
	types.EntityNPC:     true,
	types.EntityCompany: true,
	types.EntityItem:    true,
	types.EntityEnemy:   true,
}

// validate checks the compiled catalog for referential integrity. Portal
// targets landing out of bounds or on unknown maps are hard errors; the
// engine treats them as configuration defects, not runtime cases.
func validate(cat *state.Catalog) error {
	ve := &ValidationError{}

	validateWorld(cat, ve)
	validateMaps(cat, ve)
	validateEnemies(cat, ve)
	validateItems(cat, ve)
	validateQuestions(cat, ve)

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateWorld(cat *state.Catalog, ve *ValidationError) {
	w := cat.World
	if w.Title == "" {
		ve.Errors = append(ve.Errors, "World.title is required")
	}
	if w.StartMapID == "" {
		ve.Errors = append(ve.Errors, "World.start_map is required")
		return
	}
	m, ok := cat.Maps[w.StartMapID]
	if !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"start map %q not found in defined maps", w.StartMapID))
		return
	}
	if !inBounds(m, w.StartX, w.StartY) {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"start position (%d,%d) is outside map %q (%dx%d)",
			w.StartX, w.StartY, m.ID, m.Width, m.Height))
	}
	if w.Player.MaxHP <= 0 || w.Player.MaxMP < 0 {
		ve.Errors = append(ve.Errors, "World.player must define positive max_hp")
	}
	for _, id := range w.StartInventory {
		if _, ok := cat.Items[id]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"start inventory references undefined item %q", id))
		}
	}
	if w.EncounterRate < 0 || w.EncounterRate > 1 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"World.encounter_rate %v out of [0,1]", w.EncounterRate))
	}
}

func validateMaps(cat *state.Catalog, ve *ValidationError) {
	for id, m := range cat.Maps {
		if m.Width <= 0 || m.Height <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"map %q has non-positive dimensions %dx%d", id, m.Width, m.Height))
			continue
		}
		for _, p := range m.Portals {
			if !inBounds(m, p.X, p.Y) {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"map %q portal source (%d,%d) out of bounds", id, p.X, p.Y))
			}
			target, ok := cat.Maps[p.TargetMapID]
			if !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"map %q portal targets undefined map %q", id, p.TargetMapID))
				continue
			}
			if !inBounds(target, p.TargetX, p.TargetY) {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"map %q portal target (%d,%d) out of bounds for map %q",
					id, p.TargetX, p.TargetY, p.TargetMapID))
			}
		}
		for _, ent := range m.Entities {
			if !inBounds(m, ent.X, ent.Y) {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"map %q entity %q at (%d,%d) out of bounds", id, ent.ID, ent.X, ent.Y))
			}
			if ent.Kind != "" && !validEntityKinds[ent.Kind] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"map %q entity %q has unknown kind %q", id, ent.ID, ent.Kind))
			}
		}
	}
}

func validateEnemies(cat *state.Catalog, ve *ValidationError) {
	for id, en := range cat.Enemies {
		if en.MaxHP <= 0 || en.HP <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"enemy %q must have positive hp", id))
		}
		if en.HP > en.MaxHP {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"enemy %q hp %d exceeds max_hp %d", id, en.HP, en.MaxHP))
		}
		if en.DropItem != "" {
			if _, ok := cat.Items[en.DropItem]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"enemy %q drop item %q not defined", id, en.DropItem))
			}
		}
	}
}

func validateItems(cat *state.Catalog, ve *ValidationError) {
	for id, item := range cat.Items {
		if item.Name == "" {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("item %q has no name", id))
		}
		if !validItemTypes[item.Type] {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"item %q has unknown type %q", id, item.Type))
		}
	}
}

func validateQuestions(cat *state.Catalog, ve *ValidationError) {
	if len(cat.Questions) == 0 {
		ve.Errors = append(ve.Errors, "at least one Question is required")
	}
	for i, q := range cat.Questions {
		if q.Prompt == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("question %d has no prompt", i))
		}
		if len(q.Choices) < 2 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"question %d needs at least two choices", i))
			continue
		}
		found := false
		for _, c := range q.Choices {
			if c == q.Answer {
				found = true
				break
			}
		}
		if !found {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"question %d answer %q is not among its choices", i, q.Answer))
		}
	}
}

func inBounds(m types.MapData, x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}
