// quizquestd serves one QuizQuest session over HTTP and a websocket
// snapshot stream.
// Usage: quizquestd [--version] [--listen <addr>] [--seed <n>] [content_directory]
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/hmori/quizquest/config"
	"github.com/hmori/quizquest/engine"
	"github.com/hmori/quizquest/loader"
	"github.com/hmori/quizquest/persist"
	"github.com/hmori/quizquest/server"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var contentDir string
	var listen string
	var seed int64
	seeded := false

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("quizquestd %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--listen":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--listen requires an address\n")
				os.Exit(1)
			}
			i++
			listen = args[i]
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--seed requires an integer\n")
				os.Exit(1)
			}
			i++
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed requires an integer\n")
				os.Exit(1)
			}
			seed = n
			seeded = true
		default:
			if contentDir == "" {
				contentDir = args[i]
			}
		}
	}

	cfg := config.Load()
	if contentDir == "" {
		contentDir = cfg.ContentDir
	}
	if listen == "" {
		listen = cfg.Listen
	}

	catalog, err := loader.Load(contentDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading content: %v\n", err)
		os.Exit(1)
	}

	var eng *engine.Engine
	if seeded {
		eng = engine.NewSeeded(catalog, seed)
	} else {
		eng = engine.New(catalog)
	}

	ctx := context.Background()
	backend, err := persist.Open(ctx, persist.Options{
		PostgresURL:   cfg.PostgresURL,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		SQLitePath:    cfg.SQLitePath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening save storage: %v\n", err)
		os.Exit(1)
	}
	gw := persist.NewGateway(backend, cfg.PlayerID)
	defer gw.Close()

	gw.Load(ctx, eng.Store)

	srv := server.New(eng, gw)
	if err := srv.Run(listen); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
