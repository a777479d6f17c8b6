package engine

import (
	"log"
	"time"

	"github.com/hmori/quizquest/types"
)

// defaultEncounterRate is used when the catalog's World block doesn't set one.
const defaultEncounterRate = 0.15

// stepOffset returns the tile delta for a direction.
func stepOffset(dir types.Direction) (dx, dy int) {
	switch dir {
	case types.DirUp:
		return 0, -1
	case types.DirDown:
		return 0, 1
	case types.DirLeft:
		return -1, 0
	case types.DirRight:
		return 1, 0
	}
	return 0, 0
}

// move resolves one directional input: blocked move, accepted move, map
// transition, or encounter trigger.
func (e *Engine) move(dir types.Direction, now time.Time, res *types.Result) {
	m, ok := e.Store.CurrentMap()
	if !ok {
		log.Printf("engine: current map id %q not in catalog", e.Store.CurrentMapID)
		return
	}

	dx, dy := stepOffset(dir)
	if dx == 0 && dy == 0 {
		return
	}
	x, y := e.Store.Pos.X, e.Store.Pos.Y
	nx, ny := x+dx, y+dy

	// Out of bounds: turn in place.
	if nx < 0 || nx >= m.Width || ny < 0 || ny >= m.Height {
		e.Store.MovePlayer(x, y, dir)
		return
	}

	// Portals take priority over collision: a portal tile is never blocked
	// even if also listed as a collision tile.
	for _, p := range m.Portals {
		if p.X == nx && p.Y == ny {
			tx, ty := p.TargetX, p.TargetY
			if err := e.Store.SetCurrentMap(p.TargetMapID, &tx, &ty); err != nil {
				log.Printf("engine: portal on %s points at %v", m.ID, err)
				return
			}
			target, _ := e.Store.CurrentMap()
			res.Output = append(res.Output, "Entered "+target.Name+".")
			res.Events = append(res.Events, types.Event{
				Type: "map_changed",
				Data: map[string]any{"map_id": p.TargetMapID, "x": tx, "y": ty},
			})
			return
		}
	}

	// Collision tiles block.
	for _, c := range m.Collisions {
		if c.X == nx && c.Y == ny {
			e.Store.MovePlayer(x, y, dir)
			return
		}
	}

	// Solid entities block; interaction is a separate command.
	if ent := entityAt(m, nx, ny); ent != nil && isSolid(ent.Kind) {
		e.Store.MovePlayer(x, y, dir)
		return
	}

	e.Store.MovePlayer(nx, ny, dir)

	// Encounter roll only after an accepted, non-portal move.
	if m.Encounters && !e.NoEncounter && e.RNG.Chance(e.encounterRate()) {
		ids := e.Catalog.EnemyIDs()
		if len(ids) == 0 {
			return
		}
		enemyID := ids[e.RNG.Intn(len(ids))]
		e.schedule(now, e.Timing.EncounterFlash, step{kind: stepEncounterStart, enemyID: enemyID})
		res.Output = append(res.Output, "Something is coming...")
		res.Events = append(res.Events, types.Event{Type: "encounter"})
	}
}

// interact resolves the tile directly ahead of the player against the entity
// list. Restorative landmarks heal on the spot; anything with a scenario or
// company reference is handed off to the (external) scenario presenter via
// an event.
func (e *Engine) interact(res *types.Result) {
	m, ok := e.Store.CurrentMap()
	if !ok {
		return
	}
	dx, dy := stepOffset(e.Store.Pos.Facing)
	ent := entityAt(m, e.Store.Pos.X+dx, e.Store.Pos.Y+dy)
	if ent == nil {
		return
	}

	if ent.Restore {
		hp, mp := e.Store.Player.MaxHP, e.Store.Player.MaxMP
		e.Store.UpdateStats(statePatchHPMP(hp, mp))
		res.Output = append(res.Output, ent.Name+" restored you completely!")
		res.Events = append(res.Events, types.Event{
			Type: "heal",
			Data: map[string]any{"entity_id": ent.ID},
		})
		return
	}

	if ent.ScenarioID == "" && ent.CompanyID == "" {
		return
	}
	res.Events = append(res.Events, types.Event{
		Type: "scenario",
		Data: map[string]any{
			"entity_id":   ent.ID,
			"scenario_id": ent.ScenarioID,
			"company_id":  ent.CompanyID,
		},
	})
}

func (e *Engine) encounterRate() float64 {
	if r := e.Catalog.World.EncounterRate; r > 0 {
		return r
	}
	return defaultEncounterRate
}

func entityAt(m types.MapData, x, y int) *types.MapEntity {
	for i := range m.Entities {
		if m.Entities[i].X == x && m.Entities[i].Y == y {
			return &m.Entities[i]
		}
	}
	return nil
}

// isSolid reports whether walking into the entity is blocked.
func isSolid(k types.EntityKind) bool {
	return k == types.EntityNPC || k == types.EntityCompany || k == types.EntityItem
}
