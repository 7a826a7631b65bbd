package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/alleycats/engine"
	"github.com/nathoo/alleycats/engine/parser"
	"github.com/nathoo/alleycats/engine/resolve"
	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/engine/view"
)

// ErrQuit is returned from a prompt when the player asks to leave.
var ErrQuit = errors.New("player quit")

// Question is one prompt put to a player.
type Question struct {
	Game   *state.Game
	Player *state.Player
	Text   string
	Reach  []state.Position // legal destinations, on movement prompts only
}

// Prompter is the terminal surface an Agent talks through.
type Prompter interface {
	// Ask shows the question and blocks until a non-empty answer arrives.
	Ask(ctx context.Context, q Question) (string, error)
	Print(lines ...string)
	System(text string)
	ShowBoard(g *state.Game, reach []state.Position)
}

// Agent answers every engine decision from typed text. One Agent can play
// all seats at a table.
type Agent struct {
	Trace bool

	term Prompter
	// Names typed along with "play" or "fight", used by the follow-up prompt.
	pendingCard   string
	pendingTarget string
}

// NewAgent creates an agent on top of a prompter.
func NewAgent(term Prompter) *Agent {
	return &Agent{term: term}
}

// ChooseToReroll implements engine.Agent.
func (a *Agent) ChooseToReroll(ctx context.Context, g *state.Game, p *state.Player, steps int) (bool, error) {
	return a.askYesNo(ctx, g, p, fmt.Sprintf("You may move %d. Use a re-roll (%d left)? [y/n]", steps, p.Rerolls))
}

// ChooseMovementDestination implements engine.Agent.
func (a *Agent) ChooseMovementDestination(ctx context.Context, g *state.Game, p *state.Player, steps int) (engine.Destination, error) {
	reach := engine.Reachable(g, p, steps)
	a.flush(g)
	a.term.ShowBoard(g, reach)
	q := Question{Game: g, Player: p, Text: fmt.Sprintf("Move up to %d (row,col or stay):", steps), Reach: reach}
	for {
		in, err := a.ask(ctx, q)
		if err != nil {
			return engine.Destination{}, err
		}
		intent := parser.Parse(in)
		switch intent.Verb {
		case "stay", "skip", "no":
			return engine.Destination{Stay: true}, nil
		case "move":
			row, col, err := parser.ParseCoord(intent.Object)
			if err != nil {
				a.term.System("Give the destination as row,col.")
				continue
			}
			to := state.Position{Row: row, Col: col}
			if to == p.Pos {
				return engine.Destination{Stay: true}, nil
			}
			if err := engine.CheckMove(g, p, to, steps); err != nil {
				a.term.System(fmt.Sprintf("Can't go to %d,%d: %v.", row, col, err))
				continue
			}
			return engine.Destination{Pos: to}, nil
		}
		a.term.System("Type a destination like 2,3, or stay.")
	}
}

// ChooseAction implements engine.Agent.
func (a *Agent) ChooseAction(ctx context.Context, g *state.Game, p *state.Player, canFight bool) (engine.Action, error) {
	a.pendingCard, a.pendingTarget = "", ""
	a.flush(g)
	a.term.Print(view.Status(p))
	a.printHand(p)

	prompt := "Action: play <card> [on <cat>], or skip:"
	if canFight {
		prompt = "Action: play <card> [on <cat>], fight <cat>, or skip:"
	}
	for {
		in, err := a.ask(ctx, Question{Game: g, Player: p, Text: prompt})
		if err != nil {
			return engine.ActionSkip, err
		}
		intent := parser.Parse(in)
		switch intent.Verb {
		case "play":
			if len(p.Hand) == 0 {
				a.term.System("You have no cards.")
				continue
			}
			a.pendingCard, a.pendingTarget = intent.Object, intent.Target
			return engine.ActionPlayCard, nil
		case "fight":
			if !canFight {
				a.term.System("There is nobody on your cell to fight.")
				continue
			}
			a.pendingTarget = intent.Object
			if a.pendingTarget == "" {
				a.pendingTarget = intent.Target
			}
			return engine.ActionFight, nil
		case "skip", "no":
			return engine.ActionSkip, nil
		}
		a.term.System("Type play, fight or skip.")
	}
}

// ChooseCardIndex implements engine.Agent.
func (a *Agent) ChooseCardIndex(ctx context.Context, g *state.Game, p *state.Player) (int, error) {
	query := a.pendingCard
	a.pendingCard = ""
	for {
		if query == "" {
			a.printHand(p)
			in, err := a.ask(ctx, Question{Game: g, Player: p, Text: "Which card? (number or name, skip to cancel)"})
			if err != nil {
				return -1, err
			}
			intent := parser.Parse(in)
			switch intent.Verb {
			case "skip", "no":
				return -1, nil
			case "play":
				query = intent.Object
			default:
				query = in
			}
			if query == "" {
				continue
			}
		}
		i, err := resolve.Card(p.Hand, query)
		if err == nil {
			return i, nil
		}
		a.term.System(err.Error())
		query = ""
	}
}

// ChooseTargetPlayer implements engine.Agent.
func (a *Agent) ChooseTargetPlayer(ctx context.Context, g *state.Game, p *state.Player, card *state.Card, candidates []*state.Player) (int, error) {
	return a.choosePlayer(ctx, g, p, fmt.Sprintf("Play %q on whom? (skip to cancel)", card.Title), candidates)
}

// ChooseFightOpponent implements engine.Agent.
func (a *Agent) ChooseFightOpponent(ctx context.Context, g *state.Game, p *state.Player, opponents []*state.Player) (int, error) {
	return a.choosePlayer(ctx, g, p, "Fight whom? (skip to back off)", opponents)
}

func (a *Agent) choosePlayer(ctx context.Context, g *state.Game, p *state.Player, prompt string, candidates []*state.Player) (int, error) {
	query := a.pendingTarget
	a.pendingTarget = ""
	for {
		if query == "" {
			a.term.Print(indent(view.Players(candidates))...)
			in, err := a.ask(ctx, Question{Game: g, Player: p, Text: prompt})
			if err != nil {
				return -1, err
			}
			intent := parser.Parse(in)
			if intent.Verb == "skip" || intent.Verb == "no" {
				return -1, nil
			}
			query = in
		}
		i, err := resolve.Player(candidates, query)
		if err == nil {
			return i, nil
		}
		a.term.System(err.Error())
		query = ""
	}
}

// ChooseLootType implements engine.Agent.
func (a *Agent) ChooseLootType(ctx context.Context, g *state.Game, winner, loser *state.Player) (engine.Loot, error) {
	prompt := fmt.Sprintf("You beat %s (food %d, cards %d). Take food or a card?", loser.ID, loser.Food, len(loser.Hand))
	for {
		in, err := a.ask(ctx, Question{Game: g, Player: winner, Text: prompt})
		if err != nil {
			return engine.LootFood, err
		}
		switch parser.Parse(in).Verb {
		case "food":
			return engine.LootFood, nil
		case "card":
			return engine.LootCard, nil
		}
		a.term.System("Type food or card.")
	}
}

// ChooseRevealAgenda implements engine.Agent.
func (a *Agent) ChooseRevealAgenda(ctx context.Context, g *state.Game, p *state.Player) (bool, error) {
	a.flush(g)
	a.term.Print(view.Agenda(p.Agenda))
	return a.askYesNo(ctx, g, p, "Reveal your agenda? [y/n]")
}

func (a *Agent) askYesNo(ctx context.Context, g *state.Game, p *state.Player, prompt string) (bool, error) {
	for {
		in, err := a.ask(ctx, Question{Game: g, Player: p, Text: prompt})
		if err != nil {
			return false, err
		}
		if parser.Parse(in).Verb == "reveal" {
			return true, nil
		}
		if yes, ok := parser.ParseYesNo(in); ok {
			return yes, nil
		}
		a.term.System("Answer yes or no.")
	}
}

// ask prints pending narration, then returns the next answer that is not a
// meta-command.
func (a *Agent) ask(ctx context.Context, q Question) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		a.flush(q.Game)
		input, err := a.term.Ask(ctx, q)
		if err != nil {
			return "", err
		}
		handled, err := a.handleMeta(q.Game, q.Player, input)
		if err != nil {
			return "", err
		}
		if !handled {
			return input, nil
		}
	}
}

// handleMeta runs informational commands. A leading '/' is accepted.
func (a *Agent) handleMeta(g *state.Game, p *state.Player, input string) (bool, error) {
	intent := parser.Parse(strings.TrimPrefix(input, "/"))
	switch intent.Verb {
	case "quit":
		return true, ErrQuit
	case "help":
		a.term.Print(helpLines...)
	case "hand":
		a.printHand(p)
	case "look":
		a.term.ShowBoard(g, nil)
	case "status":
		for _, q := range g.Players {
			a.term.Print("  " + view.Status(q))
		}
	case "agenda":
		a.term.Print(view.Agenda(p.Agenda))
	case "trace":
		a.Trace = !a.Trace
		if a.Trace {
			a.term.System("Trace output enabled.")
		} else {
			a.term.System("Trace output disabled.")
		}
	default:
		return false, nil
	}
	return true, nil
}

var helpLines = []string{
	"At any prompt:",
	"  hand (h)     Show your cards",
	"  look (l)     Show the board",
	"  status (st)  Show every cat",
	"  agenda       Show your secret agenda",
	"  trace        Toggle event trace output",
	"  quit (q)     Leave the game",
	"",
	"Answers:",
	"  2,3 / stay           Movement destination",
	"  play <card> on <cat> Play a card (number or name)",
	"  fight <cat>          Fight a cat on your cell",
	"  skip (s)             Do nothing",
	"  food / card          Loot after a won fight",
	"  y / n                Yes or no",
}

func (a *Agent) printHand(p *state.Player) {
	a.term.Print(indent(view.Hand(p))...)
}

// flush prints narration produced since the last prompt.
func (a *Agent) flush(g *state.Game) {
	if lines := g.TakeJournal(); len(lines) > 0 {
		a.term.Print(lines...)
	}
}

func indent(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "  " + l
	}
	return out
}

// Summary describes how a game ended.
func Summary(g *state.Game, winner *state.Player) []string {
	var out []string
	if winner != nil {
		owner, trust := winner.BestOwner()
		out = append(out, fmt.Sprintf("%s wins with %d trust from the %s!", winner.ID, trust, owner))
	} else {
		out = append(out, "Nobody won.")
	}
	for _, p := range g.Players {
		out = append(out, "  "+view.Status(p))
	}
	return out
}
