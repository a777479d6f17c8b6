package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/hmori/quizquest/types"
)

const barWidth = 24

var (
	enemyBar  = progress.New(progress.WithScaledGradient("#d75f5f", "#ff8787"), progress.WithWidth(barWidth), progress.WithoutPercentage())
	playerBar = progress.New(progress.WithScaledGradient("#5fd75f", "#87ff87"), progress.WithWidth(barWidth), progress.WithoutPercentage())
	mpBar     = progress.New(progress.WithScaledGradient("#5f87d7", "#87afff"), progress.WithWidth(barWidth), progress.WithoutPercentage())
)

// viewRadius is the half-size of the visible map window around the player.
const viewRadius = 8

// renderMap draws the tile window centered on the player. One tile is two
// terminal cells wide so the grid looks roughly square.
func (m Model) renderMap() string {
	md, ok := m.engine.Store.CurrentMap()
	if !ok {
		return styleSystem.Render("[no map]")
	}
	pos := m.engine.Store.Pos

	solid := map[[2]int]string{}
	for _, c := range md.Collisions {
		solid[[2]int{c.X, c.Y}] = styleWall.Render("##")
	}
	for _, p := range md.Portals {
		solid[[2]int{p.X, p.Y}] = stylePortal.Render("[]")
	}
	for _, ent := range md.Entities {
		glyph := styleNPC.Render("&&")
		if ent.Kind == types.EntityCompany {
			glyph = styleCompany.Render("[]")
		}
		solid[[2]int{ent.X, ent.Y}] = glyph
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s\n", md.Name))
	for y := pos.Y - viewRadius; y <= pos.Y+viewRadius; y++ {
		for x := pos.X - viewRadius; x <= pos.X+viewRadius; x++ {
			switch {
			case x == pos.X && y == pos.Y:
				b.WriteString(stylePlayer.Render(facingGlyph(pos.Facing)))
			case x < 0 || x >= md.Width || y < 0 || y >= md.Height:
				b.WriteString("  ")
			default:
				if g, ok := solid[[2]int{x, y}]; ok {
					b.WriteString(g)
				} else {
					b.WriteString(styleGround.Render(" ."))
				}
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func facingGlyph(d types.Direction) string {
	switch d {
	case types.DirUp:
		return "@^"
	case types.DirLeft:
		return "<@"
	case types.DirRight:
		return "@>"
	}
	return "@v"
}

// renderBattle draws the combat card: enemy, bars, the open quiz or the
// command menu, and the rolling battle log.
func (m Model) renderBattle() string {
	b := m.engine.Store.Battle
	if b == nil {
		return ""
	}
	p := m.engine.Store.Player

	var lines []string
	lines = append(lines,
		styleEnemyName.Render(b.Enemy.Name)+
			fmt.Sprintf("  (turn %d)", b.Turn))
	lines = append(lines, "HP "+gauge(enemyBar, b.Enemy.HP, b.Enemy.MaxHP))
	lines = append(lines, "")

	switch {
	case b.Quiz != nil:
		lines = append(lines, styleQuizPrompt.Render(b.Quiz.Prompt))
		for i, choice := range b.Quiz.Choices {
			lines = append(lines, styleChoice.Render(fmt.Sprintf("  %d) %s", i+1, choice)))
		}
	case b.Phase == types.PhasePlayerChoice:
		lines = append(lines, "[a]ttack   [l]earn   [r]etreat")
	default:
		lines = append(lines, "...")
	}

	if len(b.Log) > 0 {
		lines = append(lines, "")
		for _, l := range b.Log {
			lines = append(lines, styleLogLine.Render(l))
		}
	}

	card := styleBattleFrame.Render(strings.Join(lines, "\n"))
	you := p.Name +
		"\nHP " + gauge(playerBar, p.HP, p.MaxHP) +
		"\nMP " + gauge(mpBar, p.MP, p.MaxMP)
	return card + "\n" + you
}

// gauge renders a progress bar with a cur/max suffix.
func gauge(bar progress.Model, cur, max int) string {
	if max <= 0 {
		max = 1
	}
	ratio := float64(cur) / float64(max)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return bar.ViewAs(ratio) + fmt.Sprintf(" %d/%d", cur, max)
}

// renderStatusBar produces a full-width inverted status line.
func (m Model) renderStatusBar() string {
	s := m.engine.Store
	left := fmt.Sprintf(" %s (%d,%d)", s.CurrentMapID, s.Pos.X, s.Pos.Y)
	right := fmt.Sprintf("HP %d/%d  MP %d/%d  EXP %d  Inv %d ",
		s.Player.HP, s.Player.MaxHP, s.Player.MP, s.Player.MaxMP,
		s.Player.Exp, len(s.Inventory))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return styleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
