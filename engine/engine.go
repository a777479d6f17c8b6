// Package engine wires the world-state store, map navigation, and the battle
// state machine behind a single Dispatch() entry point.
package engine

import (
	"log"
	"time"

	"github.com/hmori/quizquest/engine/state"
	"github.com/hmori/quizquest/types"
)

// Engine holds the content catalogs and the mutable session state.
// It is single-writer: commands and ticks must come from one goroutine
// (front ends serialize; the HTTP service holds a mutex).
type Engine struct {
	Catalog *state.Catalog
	Store   *state.Store
	RNG     *RNG
	Timing  Timing

	// NoEncounter suppresses random encounter rolls (debug override).
	NoEncounter bool

	pending *pendingStep
}

// New creates an engine with a time-derived seed and reference pacing.
func New(c *state.Catalog) *Engine {
	return NewSeeded(c, time.Now().UnixNano())
}

// NewSeeded creates an engine with a fixed seed. Given a fixed seed and a
// fixed command sequence, outcomes are reproducible.
func NewSeeded(c *state.Catalog, seed int64) *Engine {
	return &Engine{
		Catalog: c,
		Store:   state.New(c),
		RNG:     NewRNG(seed),
		Timing:  DefaultTiming(),
	}
}

// RestoreRNG re-creates the RNG from seed and advances to the saved position.
func (e *Engine) RestoreRNG(seed, position int64) {
	e.RNG = RestoreRNG(seed, position)
}

// Dispatch processes one player command and returns the result. Invalid or
// out-of-phase input is silently ignored: an empty result, never an error.
// While a transition is in flight (encounter flash, enemy wind-up) all
// gameplay commands are ignored; Tick will advance the pending step.
func (e *Engine) Dispatch(cmd types.Command, now time.Time) types.Result {
	var res types.Result

	if e.pending != nil {
		return res
	}

	switch cmd.Type {
	case types.CmdMove:
		if e.Store.Mode == types.ModeMap {
			e.move(cmd.Dir, now, &res)
		}

	case types.CmdInteract:
		if e.Store.Mode == types.ModeMap {
			e.interact(&res)
		}

	case types.CmdBattle:
		if e.Store.InBattle() {
			e.battleAction(cmd.Action, now, &res)
		}

	case types.CmdAnswer:
		if e.Store.InBattle() {
			e.answerQuiz(cmd.Choice, now, &res)
		}

	case types.CmdEquip:
		if e.Store.Mode == types.ModeMap {
			e.Store.EquipItem(cmd.Slot, cmd.ItemID)
		}
	}

	return res
}

// runStep executes one scheduled transition.
func (e *Engine) runStep(st step, now time.Time, res *types.Result) {
	switch st.kind {
	case stepEncounterStart:
		if !e.Store.StartBattle(st.enemyID) {
			log.Printf("engine: encounter rolled unknown enemy id %q", st.enemyID)
			return
		}
		b := e.Store.Battle
		e.say(res, "A wild "+b.Enemy.Name+" appeared!")
		res.Events = append(res.Events, types.Event{
			Type: "battle_start",
			Data: map[string]any{"enemy_id": b.Enemy.ID},
		})

	case stepEnemyTelegraph:
		e.enemyTelegraph(now, res)

	case stepDefenseQuiz:
		e.beginDefenseQuiz(res)

	case stepReturnToChoice:
		e.returnToChoice(res)

	case stepBattleEnd:
		e.Store.EndBattle(st.won)
		res.Events = append(res.Events, types.Event{
			Type: "battle_end",
			Data: map[string]any{"won": st.won},
		})
	}
}

// say appends a narrative line to the result and, during battle, to the
// rolling combat log.
func (e *Engine) say(res *types.Result, line string) {
	res.Output = append(res.Output, line)
	if b := e.Store.Battle; b != nil {
		b.Log = append(b.Log, line)
		if len(b.Log) > battleLogLimit {
			b.Log = b.Log[len(b.Log)-battleLogLimit:]
		}
	}
}

const battleLogLimit = 8
