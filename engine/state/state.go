// Package state holds the mutable game context: board, players, decks and
// the per-turn bookkeeping every rule reads and writes.
package state

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nathoo/alleycats/engine/rng"
	"github.com/nathoo/alleycats/types"
)

// Settings holds the numeric rules of a game.
type Settings struct {
	WinTrust    int
	InitialFood int
	InitialHand int
	MaxTurns    int
}

// DefaultSettings returns the standard rules.
func DefaultSettings() Settings {
	return Settings{WinTrust: 10, InitialFood: 5, InitialHand: 3, MaxTurns: 100}
}

// PendingEvent is an event queued for dispatch after the current pass.
type PendingEvent struct {
	Player *Player
	Event  types.Event
}

// Game is the single game context passed to every rule.
type Game struct {
	Board    *Board
	Players  []*Player
	Deck     *Deck
	Agendas  *AgendaDeck
	RNG      *rng.RNG
	Log      *zap.Logger
	Settings Settings

	Current int
	Turn    int
	Over    bool
	Winner  *Player

	Journal []string
	Pending []PendingEvent
}

// NewGame assembles a game with no players.
func NewGame(board *Board, deck *Deck, agendas *AgendaDeck, r *rng.RNG, log *zap.Logger, settings Settings) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	if agendas == nil {
		agendas = &AgendaDeck{}
	}
	return &Game{
		Board:    board,
		Deck:     deck,
		Agendas:  agendas,
		RNG:      r,
		Log:      log,
		Settings: settings,
		Turn:     1,
	}
}

// ErrNoStartCell is returned when every open cell is already taken.
var ErrNoStartCell = errors.New("no free cell to place player")

// AddPlayer seats a new player on a random free cell and deals the opening
// hand and secret agenda.
func (g *Game) AddPlayer(id string) (*Player, error) {
	var free []Position
	for _, pos := range g.Board.OpenCells() {
		if len(g.PlayersAt(pos)) == 0 {
			free = append(free, pos)
		}
	}
	if len(free) == 0 {
		return nil, fmt.Errorf("adding %s: %w", id, ErrNoStartCell)
	}
	p := NewPlayer(id, g.Settings.InitialFood)
	p.Pos = free[g.RNG.Intn(len(free))]
	g.Players = append(g.Players, p)

	g.DrawCards(p, g.Settings.InitialHand)
	p.Agenda = g.Agendas.Deal()
	if p.Agenda == nil {
		g.Log.Warn("agenda deck empty, player starts without an agenda", zap.String("player", id))
	}
	return p, nil
}

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() *Player {
	if len(g.Players) == 0 {
		return nil
	}
	return g.Players[g.Current]
}

// Player finds a player by ID.
func (g *Game) Player(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Others returns every player except p.
func (g *Game) Others(p *Player) []*Player {
	var out []*Player
	for _, o := range g.Players {
		if o != p {
			out = append(out, o)
		}
	}
	return out
}

// PlayersAt returns the players standing on pos.
func (g *Game) PlayersAt(pos Position) []*Player {
	var out []*Player
	for _, p := range g.Players {
		if p.Pos == pos {
			out = append(out, p)
		}
	}
	return out
}

// CellOf returns the cell a player stands on.
func (g *Game) CellOf(p *Player) (*Cell, bool) {
	c, ok := g.Board.At(p.Pos)
	if !ok {
		g.Log.Warn("player off board", zap.String("player", p.ID),
			zap.Int("row", p.Pos.Row), zap.Int("col", p.Pos.Col))
	}
	return c, ok
}

// Narrate appends a player-facing line to the journal.
func (g *Game) Narrate(format string, args ...any) {
	g.Journal = append(g.Journal, fmt.Sprintf(format, args...))
}

// TakeJournal returns and clears the journal.
func (g *Game) TakeJournal() []string {
	out := g.Journal
	g.Journal = nil
	return out
}

// Emit queues an event for dispatch once the current dispatch pass ends.
func (g *Game) Emit(p *Player, ev types.Event) {
	g.Pending = append(g.Pending, PendingEvent{Player: p, Event: ev})
}

// TakePending returns and clears the queued events.
func (g *Game) TakePending() []PendingEvent {
	out := g.Pending
	g.Pending = nil
	return out
}

// DrawCards draws up to n cards into p's hand and returns how many were drawn.
func (g *Game) DrawCards(p *Player, n int) int {
	drawn := 0
	for i := 0; i < n; i++ {
		c := g.Deck.Draw()
		if c == nil {
			g.Log.Debug("deck exhausted", zap.String("player", p.ID), zap.Int("drawn", drawn))
			break
		}
		p.AddToHand(c)
		drawn++
	}
	return drawn
}

// Discard moves a card to the discard pile, first removing it from every
// player's hand, active lists and armed registry.
func (g *Game) Discard(c *Card) {
	for _, p := range g.Players {
		p.Forget(c)
	}
	g.Deck.Discard(c)
}

// Arm registers a card in p's armed registry, logging a rejected duplicate.
func (g *Game) Arm(p *Player, c *Card, ctx map[string]any) bool {
	if !p.Arm(c, ctx) {
		g.Log.Warn("card already armed", zap.String("player", p.ID),
			zap.String("card", c.Title), zap.String("card_id", c.ID))
		return false
	}
	g.Log.Debug("armed card", zap.String("player", p.ID), zap.String("card", c.Title))
	return true
}

// GainTrust raises p's trust with owner and checks for a win immediately.
func (g *Game) GainTrust(p *Player, owner string, n int) bool {
	if !p.GainTrust(owner, n) {
		return false
	}
	g.CheckWin(p)
	return true
}

// CheckWin ends the game when p has reached the winning trust with any owner.
func (g *Game) CheckWin(p *Player) bool {
	if g.Over {
		return g.Winner == p
	}
	for _, o := range Owners {
		if p.Trust[o] >= g.Settings.WinTrust {
			g.Over = true
			g.Winner = p
			g.Log.Info("game won", zap.String("player", p.ID),
				zap.String("owner", o), zap.Int("trust", p.Trust[o]))
			g.Narrate("%s has earned the trust of the %s and wins!", p.ID, o)
			return true
		}
	}
	return false
}
