package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hmori/quizquest/engine/save"
	"github.com/hmori/quizquest/types"
)

const progressSchema = `
CREATE TABLE IF NOT EXISTS rpg_progress (
  player_id      TEXT PRIMARY KEY,
  level          INTEGER NOT NULL,
  exp            INTEGER NOT NULL,
  hp             INTEGER NOT NULL,
  max_hp         INTEGER NOT NULL,
  mp             INTEGER NOT NULL,
  max_mp         INTEGER NOT NULL,
  current_map_id TEXT NOT NULL,
  position_x     INTEGER NOT NULL,
  position_y     INTEGER NOT NULL,
  inventory      JSONB NOT NULL,
  equipment      JSONB NOT NULL,
  flags          JSONB NOT NULL,
  updated_at     TIMESTAMPTZ NOT NULL
)`

// PostgresStore persists one row per player in a rpg_progress table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects, ensures the schema, and returns the store.
func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, progressSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring rpg_progress schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) Load(ctx context.Context, playerID string) (*save.Snapshot, bool, error) {
	var (
		sn        save.Snapshot
		inventory []byte
		equipment []byte
		flags     []byte
	)
	err := p.pool.QueryRow(ctx, `
		SELECT level, exp, hp, max_hp, mp, max_mp,
		       current_map_id, position_x, position_y,
		       inventory, equipment, flags, updated_at
		FROM rpg_progress WHERE player_id = $1`, playerID).
		Scan(&sn.Level, &sn.Exp, &sn.HP, &sn.MaxHP, &sn.MP, &sn.MaxMP,
			&sn.CurrentMapID, &sn.PositionX, &sn.PositionY,
			&inventory, &equipment, &flags, &sn.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("loading progress for %q: %w", playerID, err)
	}

	if err := json.Unmarshal(inventory, &sn.Inventory); err != nil {
		return nil, false, fmt.Errorf("decoding inventory for %q: %w", playerID, err)
	}
	if err := json.Unmarshal(equipment, &sn.Equipment); err != nil {
		return nil, false, fmt.Errorf("decoding equipment for %q: %w", playerID, err)
	}
	if err := json.Unmarshal(flags, &sn.Flags); err != nil {
		return nil, false, fmt.Errorf("decoding flags for %q: %w", playerID, err)
	}
	if sn.Inventory == nil {
		sn.Inventory = []types.Item{}
	}
	if sn.Flags == nil {
		sn.Flags = map[string]bool{}
	}
	return &sn, true, nil
}

func (p *PostgresStore) Save(ctx context.Context, playerID string, sn *save.Snapshot) error {
	inventory, err := json.Marshal(sn.Inventory)
	if err != nil {
		return err
	}
	equipment, err := json.Marshal(sn.Equipment)
	if err != nil {
		return err
	}
	flags, err := json.Marshal(sn.Flags)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO rpg_progress (
			player_id, level, exp, hp, max_hp, mp, max_mp,
			current_map_id, position_x, position_y,
			inventory, equipment, flags, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (player_id) DO UPDATE SET
			level = EXCLUDED.level,
			exp = EXCLUDED.exp,
			hp = EXCLUDED.hp,
			max_hp = EXCLUDED.max_hp,
			mp = EXCLUDED.mp,
			max_mp = EXCLUDED.max_mp,
			current_map_id = EXCLUDED.current_map_id,
			position_x = EXCLUDED.position_x,
			position_y = EXCLUDED.position_y,
			inventory = EXCLUDED.inventory,
			equipment = EXCLUDED.equipment,
			flags = EXCLUDED.flags,
			updated_at = EXCLUDED.updated_at`,
		playerID, sn.Level, sn.Exp, sn.HP, sn.MaxHP, sn.MP, sn.MaxMP,
		sn.CurrentMapID, sn.PositionX, sn.PositionY,
		inventory, equipment, flags, sn.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving progress for %q: %w", playerID, err)
	}
	return nil
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
