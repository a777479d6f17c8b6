package engine

import (
	"time"

	"github.com/hmori/quizquest/types"
)

// Timing configures the pacing delays between phases. They exist purely for
// presentation rhythm: front ends pump Tick and the engine advances when a
// delay has elapsed. Tests (and the plain CLI) use ZeroTiming so every step
// becomes due immediately.
type Timing struct {
	EncounterFlash time.Duration // encounter effect before the battle starts
	AttackResolve  time.Duration // pause after the player's hit lands
	Telegraph      time.Duration // enemy wind-up before the defense quiz
	ReturnPause    time.Duration // pause before control returns to the player
	ResultPause    time.Duration // pause before a win/lose is finalized
}

// DefaultTiming mirrors the reference pacing.
func DefaultTiming() Timing {
	return Timing{
		EncounterFlash: 800 * time.Millisecond,
		AttackResolve:  1500 * time.Millisecond,
		Telegraph:      1500 * time.Millisecond,
		ReturnPause:    2000 * time.Millisecond,
		ResultPause:    1500 * time.Millisecond,
	}
}

// ZeroTiming makes every scheduled step due immediately.
func ZeroTiming() Timing {
	return Timing{}
}

// stepKind names an internal scheduled transition.
type stepKind int

const (
	stepEncounterStart stepKind = iota
	stepEnemyTelegraph
	stepDefenseQuiz
	stepReturnToChoice
	stepBattleEnd
)

// step is one pending transition with its payload.
type step struct {
	kind    stepKind
	enemyID string // stepEncounterStart
	won     bool   // stepBattleEnd
}

// pendingStep is the single one-shot timer. At most one step is ever pending
// for a session; while it is pending the engine accepts no movement input
// and only the input the current battle phase expects.
type pendingStep struct {
	due  time.Time
	step step
}

// schedule arms the one-shot timer. Scheduling while a step is pending
// replaces it; transitions never overlap by construction.
func (e *Engine) schedule(now time.Time, delay time.Duration, st step) {
	e.pending = &pendingStep{due: now.Add(delay), step: st}
}

// Pending reports whether a transition is in flight.
func (e *Engine) Pending() bool {
	return e.pending != nil
}

// Tick advances any due scheduled step. A step may arm a follow-up step; Tick
// keeps draining until nothing is due at the given instant, so zero-delay
// configurations cascade through a whole enemy turn in one call.
func (e *Engine) Tick(now time.Time) types.Result {
	var res types.Result
	for e.pending != nil && !now.Before(e.pending.due) {
		st := e.pending.step
		e.pending = nil
		e.runStep(st, now, &res)
	}
	return res
}
