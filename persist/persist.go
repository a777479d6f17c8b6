// Package persist checkpoints and restores world-state snapshots against a
// remote store, keyed by player id. Backends: Postgres, SQLite, Redis, and
// an in-memory store for tests.
package persist

import (
	"context"
	"log"

	"github.com/hmori/quizquest/engine/save"
	"github.com/hmori/quizquest/engine/state"
)

// Store is one persistence backend. Load reports found=false when no record
// exists for the player; absence is not an error.
type Store interface {
	Load(ctx context.Context, playerID string) (*save.Snapshot, bool, error)
	Save(ctx context.Context, playerID string, sn *save.Snapshot) error
	Close() error
}

// Gateway applies the session failure policy on top of a backend:
// a load failure other than "no record" is logged and treated the same as
// no record (the session starts from defaults, never blocked); a save
// failure is returned so the front end can surface it as a notification;
// the in-memory state is unaffected and the player may retry.
type Gateway struct {
	backend  Store
	playerID string
}

// NewGateway wraps a backend for one player's session.
func NewGateway(backend Store, playerID string) *Gateway {
	return &Gateway{backend: backend, playerID: playerID}
}

// Load restores the most recent snapshot into the store. Returns true if a
// saved record was applied, false if the store was left at (or reset to)
// session-start defaults.
func (g *Gateway) Load(ctx context.Context, st *state.Store) bool {
	sn, found, err := g.backend.Load(ctx, g.playerID)
	if err != nil {
		log.Printf("persist: load failed for %q, starting fresh: %v", g.playerID, err)
		st.Reset()
		return false
	}
	if !found {
		return false
	}
	save.Apply(st, sn)
	return true
}

// Save checkpoints the store. The returned error, if any, is a user-facing
// condition, not a fatal one.
func (g *Gateway) Save(ctx context.Context, st *state.Store) error {
	return g.SaveSnapshot(ctx, save.Capture(st))
}

// SaveSnapshot writes an already-captured snapshot. Callers that guard the
// store with a lock can capture under it and write without it.
func (g *Gateway) SaveSnapshot(ctx context.Context, sn *save.Snapshot) error {
	return g.backend.Save(ctx, g.playerID, sn)
}

// Close releases the underlying backend.
func (g *Gateway) Close() error {
	return g.backend.Close()
}
