package engine

import (
	"fmt"
	"time"

	"github.com/hmori/quizquest/engine/state"
	"github.com/hmori/quizquest/types"
)

// Damage balance. All divisions floor (integer division), matching the
// reference implementation's Math.floor convention.
const (
	correctAttackMultiplier = 2 // right answer: attack × 2
	wrongAttackDivisor      = 2 // wrong answer still lands attack / 2
	guardDivisor            = 5 // perfect guard: enemy attack / 5
	mitigationDivisor       = 4 // failed guard: attack − defense/4, min 1
	learnRecovery           = 20
	dropChance              = 0.5
	retreatPenalty          = 5 // stress cost of running; never lethal
)

// AttackDamage computes the player's hit for a quiz outcome.
func AttackDamage(attack int, correct bool) int {
	if correct {
		return attack * correctAttackMultiplier
	}
	return attack / wrongAttackDivisor
}

// GuardDamage computes the incoming hit for a defense-quiz outcome.
// A perfect guard divides the enemy's attack; a failed guard applies base
// mitigation only (defense/4, floored before subtracting) and never drops
// below 1.
func GuardDamage(enemyAttack, playerDefense int, perfectGuard bool) int {
	if perfectGuard {
		return enemyAttack / guardDivisor
	}
	dmg := enemyAttack - playerDefense/mitigationDivisor
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// battleAction handles a command chosen in the player_choice phase.
// Commands arriving in any other phase are ignored.
func (e *Engine) battleAction(action types.BattleAction, now time.Time, res *types.Result) {
	b := e.Store.Battle
	if b.Phase != types.PhasePlayerChoice {
		return
	}

	switch action {
	case types.ActionAttack:
		b.Phase = types.PhasePlayerQuiz
		e.drawQuestion(b, types.QuizAttack)
		e.say(res, "Attack chance! Answer correctly to land a clean hit!")

	case types.ActionLearn:
		mp := e.Store.Player.MP + learnRecovery
		if mp > e.Store.Player.MaxMP {
			mp = e.Store.Player.MaxMP
		}
		e.Store.UpdateStats(state.StatPatch{MP: &mp})
		b.Phase = types.PhasePlayerAction
		e.say(res, fmt.Sprintf("You reviewed your e-learning notes! Recovered %d MP.", learnRecovery))
		e.schedule(now, e.Timing.AttackResolve, step{kind: stepEnemyTelegraph})

	case types.ActionRetreat:
		hp := e.Store.Player.HP - retreatPenalty
		if hp < 1 {
			hp = 1
		}
		e.Store.UpdateStats(state.StatPatch{HP: &hp})
		e.say(res, "You slipped away from the fight, a little worse for wear.")
		e.Store.EndBattle(false)
		res.Events = append(res.Events, types.Event{
			Type: "battle_end",
			Data: map[string]any{"won": false, "retreat": true},
		})
	}
}

// answerQuiz handles a quiz answer. Only the two quiz phases accept one;
// an out-of-range choice index is ignored like any other invalid input.
func (e *Engine) answerQuiz(choice int, now time.Time, res *types.Result) {
	b := e.Store.Battle
	if b.Quiz == nil || choice < 0 || choice >= len(b.Quiz.Choices) {
		return
	}
	correct := b.Quiz.Choices[choice] == b.Quiz.Answer

	switch b.Phase {
	case types.PhasePlayerQuiz:
		b.Quiz = nil
		b.QuizKind = ""
		b.Phase = types.PhasePlayerAction

		dmg := AttackDamage(e.Store.Player.Attack, correct)
		b.Enemy.HP -= dmg
		if b.Enemy.HP < 0 {
			b.Enemy.HP = 0
		}
		if correct {
			e.say(res, fmt.Sprintf("Correct! You dealt %d damage!", dmg))
		} else {
			e.say(res, fmt.Sprintf("Wrong... a glancing blow for %d damage.", dmg))
		}

		// Terminal check immediately after the hp mutation.
		if b.Enemy.HP == 0 {
			e.winBattle(now, res)
			return
		}
		e.schedule(now, e.Timing.AttackResolve, step{kind: stepEnemyTelegraph})

	case types.PhaseDefenseQuiz:
		b.Quiz = nil
		b.QuizKind = ""
		b.Phase = types.PhaseEnemyAction

		dmg := GuardDamage(b.Enemy.Attack, e.Store.Player.Defense, correct)
		if correct {
			e.say(res, fmt.Sprintf("Correct! You read the attack — only %d damage!", dmg))
		} else {
			e.say(res, fmt.Sprintf("Wrong...! The attack lands hard for %d damage!", dmg))
		}

		hp := e.Store.Player.HP - dmg
		if hp < 0 {
			hp = 0
		}
		e.Store.UpdateStats(state.StatPatch{HP: &hp})

		// Terminal check immediately after the hp mutation.
		if hp == 0 {
			b.Phase = types.PhaseLose
			e.say(res, "Everything went dark...")
			res.Events = append(res.Events, types.Event{Type: "battle_lost"})
			e.schedule(now, e.Timing.ResultPause, step{kind: stepBattleEnd, won: false})
			return
		}
		e.schedule(now, e.Timing.ReturnPause, step{kind: stepReturnToChoice})
	}
}

// winBattle enters the terminal win phase and applies rewards: the enemy's
// exp always, its drop item half the time.
func (e *Engine) winBattle(now time.Time, res *types.Result) {
	b := e.Store.Battle
	b.Phase = types.PhaseWin
	e.say(res, "You defeated "+b.Enemy.Name+"!")

	exp := e.Store.Player.Exp + b.Enemy.Exp
	e.Store.UpdateStats(state.StatPatch{Exp: &exp})

	if b.Enemy.DropItem != "" && e.RNG.Chance(dropChance) {
		e.Store.AddInventoryItem(b.Enemy.DropItem)
		if item, ok := e.Catalog.Items[b.Enemy.DropItem]; ok {
			e.say(res, "Obtained "+item.Name+"!")
		}
	}

	res.Events = append(res.Events, types.Event{
		Type: "battle_won",
		Data: map[string]any{"exp": b.Enemy.Exp},
	})
	e.schedule(now, e.Timing.ResultPause, step{kind: stepBattleEnd, won: true})
}

// enemyTelegraph starts the enemy turn: a wind-up message, then the defense
// quiz after the telegraph delay.
func (e *Engine) enemyTelegraph(now time.Time, res *types.Result) {
	b := e.Store.Battle
	if b == nil {
		return
	}
	b.Phase = types.PhaseEnemyTurnStart
	e.say(res, b.Enemy.Name+" is winding up an attack!")
	e.schedule(now, e.Timing.Telegraph, step{kind: stepDefenseQuiz})
}

// beginDefenseQuiz opens the defense quiz window.
func (e *Engine) beginDefenseQuiz(res *types.Result) {
	b := e.Store.Battle
	if b == nil {
		return
	}
	b.Phase = types.PhaseDefenseQuiz
	e.drawQuestion(b, types.QuizDefense)
	e.say(res, "Defense chance! Answer correctly to protect yourself!")
}

// returnToChoice hands the turn back to the player.
func (e *Engine) returnToChoice(res *types.Result) {
	b := e.Store.Battle
	if b == nil {
		return
	}
	b.Phase = types.PhasePlayerChoice
	b.Turn++
	e.say(res, "Choose a command.")
}

// drawQuestion picks one question uniformly from the pool. Attack and
// defense draws share the same undifferentiated pool; the enemy's category
// tag is advisory metadata only.
func (e *Engine) drawQuestion(b *types.BattleState, kind types.QuizKind) {
	if len(e.Catalog.Questions) == 0 {
		return
	}
	q := e.Catalog.Questions[e.RNG.Intn(len(e.Catalog.Questions))]
	b.Quiz = &q
	b.QuizKind = kind
}

func statePatchHPMP(hp, mp int) state.StatPatch {
	return state.StatPatch{HP: &hp, MP: &mp}
}
