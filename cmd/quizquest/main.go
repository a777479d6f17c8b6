// QuizQuest is a quiz-battle RPG engine: walk the tile maps, fight career
// demons by answering questions, save your progress.
// Usage: quizquest [--version] [--plain] [--script <file>] [--seed <n>] [--no-encounters] [content_directory]
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/hmori/quizquest/cli"
	"github.com/hmori/quizquest/config"
	"github.com/hmori/quizquest/engine"
	"github.com/hmori/quizquest/loader"
	"github.com/hmori/quizquest/persist"
	"github.com/hmori/quizquest/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	noEncounters := false
	var contentDir string
	var scriptFile string
	var seed int64
	seeded := false

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("quizquest %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--no-encounters":
			noEncounters = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
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

	// Load and compile Lua content.
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
	eng.NoEncounter = noEncounters

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

	// Script mode: open file, force plain zero-pacing CLI, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		eng.Timing = engine.ZeroTiming()
		c := cli.New(eng, gw)
		c.In = f
		c.EchoInput = true
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		eng.Timing = engine.ZeroTiming()
		cli.New(eng, gw).Run()
		return
	}

	if err := tui.Run(eng, gw); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
