package persist

import (
	"context"
	"fmt"
	"log"
)

// Options selects a backend. The first configured backend wins, in order:
// Postgres, Redis, SQLite. SQLitePath is the local fallback and should
// always be set.
type Options struct {
	PostgresURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SQLitePath    string
}

// Open connects the selected backend. A remote backend that fails to
// connect falls back to the local SQLite file rather than blocking the
// session.
func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.PostgresURL != "" {
		st, err := NewPostgresStore(ctx, opts.PostgresURL)
		if err == nil {
			return st, nil
		}
		log.Printf("persist: postgres unavailable, falling back to sqlite: %v", err)
	}
	if opts.RedisAddr != "" {
		st, err := NewRedisStore(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err == nil {
			return st, nil
		}
		log.Printf("persist: redis unavailable, falling back to sqlite: %v", err)
	}
	if opts.SQLitePath == "" {
		return nil, fmt.Errorf("no persistence backend configured")
	}
	return NewSQLiteStore(opts.SQLitePath)
}
