// Package cli provides terminal I/O, command parsing, and meta-command
// dispatch for the QuizQuest engine.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hmori/quizquest/engine"
	"github.com/hmori/quizquest/persist"
	"github.com/hmori/quizquest/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Gateway   *persist.Gateway
	In        io.Reader
	Out       io.Writer
	EchoInput bool // echo each input line after the prompt (for script playback)
}

// New creates a CLI wired to the given engine and persistence gateway.
func New(eng *engine.Engine, gw *persist.Gateway) *CLI {
	return &CLI{
		Engine:  eng,
		Gateway: gw,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run starts the game loop: prompt → input → dispatch → drain → output.
func (c *CLI) Run() {
	if title := c.Engine.Catalog.World.Title; title != "" {
		c.printLine(title)
		c.printLine("")
	}
	c.describe()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		cmd, ok, msg := Parse(input)
		if !ok {
			c.printSystem(msg)
			continue
		}

		now := time.Now()
		result := c.Engine.Dispatch(cmd, now)
		c.printResult(result)
		c.drain(now)
		c.prompt()
	}
}

// drain runs any pending transitions to completion. The CLI plays with zero
// pacing, so a whole enemy turn resolves before the next prompt.
func (c *CLI) drain(now time.Time) {
	for c.Engine.Pending() {
		result := c.Engine.Tick(now)
		c.printResult(result)
		now = now.Add(time.Second)
	}
}

// Parse turns one input line into an engine command. The boolean reports
// whether the line parsed; on failure the message explains what to type.
func Parse(input string) (types.Command, bool, string) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return types.Command{}, false, "Type something. /help lists commands."
	}
	verb := fields[0]

	switch verb {
	case "up", "w", "north":
		return types.Command{Type: types.CmdMove, Dir: types.DirUp}, true, ""
	case "down", "s", "south":
		return types.Command{Type: types.CmdMove, Dir: types.DirDown}, true, ""
	case "left", "a", "west":
		return types.Command{Type: types.CmdMove, Dir: types.DirLeft}, true, ""
	case "right", "d", "east":
		return types.Command{Type: types.CmdMove, Dir: types.DirRight}, true, ""

	case "talk", "check", "interact", "t":
		return types.Command{Type: types.CmdInteract}, true, ""

	case "attack", "fight":
		return types.Command{Type: types.CmdBattle, Action: types.ActionAttack}, true, ""
	case "learn", "study":
		return types.Command{Type: types.CmdBattle, Action: types.ActionLearn}, true, ""
	case "retreat", "run", "flee":
		return types.Command{Type: types.CmdBattle, Action: types.ActionRetreat}, true, ""

	case "answer":
		if len(fields) < 2 {
			return types.Command{}, false, "Answer which choice? e.g. answer 2"
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return types.Command{}, false, "Choices are numbered from 1."
		}
		return types.Command{Type: types.CmdAnswer, Choice: n - 1}, true, ""

	case "equip":
		if len(fields) < 3 {
			return types.Command{}, false, "Usage: equip <weapon|armor|accessory> <item id>"
		}
		slot, ok := parseSlot(fields[1])
		if !ok {
			return types.Command{}, false, "Slots: weapon, armor, accessory."
		}
		return types.Command{Type: types.CmdEquip, Slot: slot, ItemID: fields[2]}, true, ""

	case "unequip":
		if len(fields) < 2 {
			return types.Command{}, false, "Usage: unequip <weapon|armor|accessory>"
		}
		slot, ok := parseSlot(fields[1])
		if !ok {
			return types.Command{}, false, "Slots: weapon, armor, accessory."
		}
		return types.Command{Type: types.CmdEquip, Slot: slot, ItemID: ""}, true, ""
	}

	// A bare number answers the open quiz.
	if n, err := strconv.Atoi(verb); err == nil && n >= 1 {
		return types.Command{Type: types.CmdAnswer, Choice: n - 1}, true, ""
	}

	return types.Command{}, false, fmt.Sprintf("Unknown command: %s. Type /help for available commands.", verb)
}

func parseSlot(s string) (types.EquipSlot, bool) {
	switch s {
	case "weapon":
		return types.SlotWeapon, true
	case "armor":
		return types.SlotArmor, true
	case "accessory":
		return types.SlotAccessory, true
	}
	return "", false
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave()

	case "/load":
		c.cmdLoad()

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/seed":
		c.cmdSeed(arg)

	case "/encounters":
		c.Engine.NoEncounter = !c.Engine.NoEncounter
		if c.Engine.NoEncounter {
			c.printSystem("Random encounters disabled.")
		} else {
			c.printSystem("Random encounters enabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave() {
	if c.Engine.Store.InBattle() {
		c.printSystem("Finish the battle first — battles are not saved.")
		return
	}
	if err := c.Gateway.Save(context.Background(), c.Engine.Store); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem("Progress saved.")
}

func (c *CLI) cmdLoad() {
	if c.Engine.Store.InBattle() {
		c.printSystem("Finish the battle first — saves cannot be loaded mid-battle.")
		return
	}
	if !c.Gateway.Load(context.Background(), c.Engine.Store) {
		c.printSystem("No saved progress; starting fresh.")
	} else {
		c.printSystem("Progress loaded.")
	}
	c.describe()
}

func (c *CLI) cmdSeed(arg string) {
	if arg == "" {
		c.printSystem(fmt.Sprintf("Seed: %d, position: %d",
			c.Engine.RNG.Seed(), c.Engine.RNG.Position()))
		return
	}
	seed, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		c.printSystem("Seed must be an integer.")
		return
	}
	c.Engine.RestoreRNG(seed, 0)
	c.printSystem(fmt.Sprintf("Seed set to %d.", seed))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save          — Save progress",
		"  /load          — Load progress",
		"  /quit          — Exit game",
		"  /help          — Show this help",
		"  /state         — Debug: dump current state",
		"  /seed [n]      — Show or set the RNG seed",
		"  /encounters    — Toggle random encounters",
		"",
		"Moving around:",
		"  up/down/left/right (w/s/a/d)",
		"  talk (t)       — Talk to whoever you're facing",
		"  equip <slot> <item>, unequip <slot>",
		"",
		"In battle:",
		"  attack         — Take the attack quiz",
		"  learn          — Skip your attack, recover MP",
		"  retreat        — Run away (costs a little HP)",
		"  1..9           — Answer the open quiz",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.Engine.Store
	c.printSystem(fmt.Sprintf("Mode: %s", s.Mode))
	c.printSystem(fmt.Sprintf("Map: %s (%d,%d) facing %s",
		s.CurrentMapID, s.Pos.X, s.Pos.Y, s.Pos.Facing))
	c.printSystem(fmt.Sprintf("HP %d/%d  MP %d/%d  ATK %d  DEF %d  EXP %d",
		s.Player.HP, s.Player.MaxHP, s.Player.MP, s.Player.MaxMP,
		s.Player.Attack, s.Player.Defense, s.Player.Exp))
	var items []string
	for _, it := range s.Inventory {
		items = append(items, it.ID)
	}
	c.printSystem(fmt.Sprintf("Inventory: %v", items))
	if len(s.Flags) > 0 {
		c.printSystem(fmt.Sprintf("Flags: %v", s.Flags))
	}
	if b := s.Battle; b != nil {
		c.printSystem(fmt.Sprintf("Battle: %s (%d/%d hp), phase %s, turn %d",
			b.Enemy.Name, b.Enemy.HP, b.Enemy.MaxHP, b.Phase, b.Turn))
	}
}

// describe prints where the player is standing.
func (c *CLI) describe() {
	if m, ok := c.Engine.Store.CurrentMap(); ok {
		c.printLine(fmt.Sprintf("%s (%d,%d)", m.Name, c.Engine.Store.Pos.X, c.Engine.Store.Pos.Y))
	}
}

// prompt shows context-sensitive status: the quiz choices when one is open,
// the command menu at a battle choice point.
func (c *CLI) prompt() {
	b := c.Engine.Store.Battle
	if b == nil {
		return
	}
	switch {
	case b.Quiz != nil:
		c.printLine(b.Quiz.Prompt)
		for i, choice := range b.Quiz.Choices {
			c.printLine(fmt.Sprintf("  %d) %s", i+1, choice))
		}
	case b.Phase == types.PhasePlayerChoice:
		c.printLine(fmt.Sprintf("%s: %d/%d hp — attack, learn, or retreat?",
			b.Enemy.Name, b.Enemy.HP, b.Enemy.MaxHP))
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
