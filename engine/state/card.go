package state

import (
	"github.com/google/uuid"
	"github.com/nathoo/alleycats/types"
)

// Effect is a built effect node. Effects are immutable once built and shared
// by every copy of the card definition they came from.
type Effect interface {
	Type() string
	Execute(g *Game, src *Card, p *Player, targets []*Player) types.Outcome
}

// Condition is a built predicate over game state. The event is nil outside
// of event-driven evaluation.
type Condition interface {
	Type() string
	IsMet(g *Game, p *Player, ev *types.Event) bool
}

// Discard conditions.
const (
	DiscardImmediate  = "immediate"
	DiscardPersistent = "persistent"
)

// Card type flags.
const (
	FlagTitle      = "Title"
	FlagPersistent = "Persistent"
)

// Attribute names granted by titles, persistent effects and temporary bonuses.
const (
	AttrMovementBonus   = "MovementBonus"
	AttrFightBonus      = "FightBonus"
	AttrWallPass        = "CanPassWalls"
	AttrBlocksTrustGain = "BlocksTrustGain"
	AttrFightTrustLoss  = "OnSuccessfulFightInflictTrustLoss"
)

// CardTemplate is the shared definition behind one or more physical cards.
type CardTemplate struct {
	Title            string
	Description      string
	DiscardCondition string
	Cost             map[string]int
	Timing           string
	TargetNeeded     bool
	TypeFlags        []string
	Attributes       map[string]any
	Effects          []Effect
}

// Card is one physical card. Two cards are the same card only if their IDs match.
type Card struct {
	ID string
	*CardTemplate
}

// NewCard creates a physical card with a fresh identity.
func NewCard(t *CardTemplate) *Card {
	return &Card{ID: uuid.NewString(), CardTemplate: t}
}

// HasFlag reports whether the card carries the given type flag.
func (c *Card) HasFlag(flag string) bool {
	for _, f := range c.TypeFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// Attribute returns the numeric value of a granted attribute. Boolean true
// counts as 1; missing or false attributes are 0.
func (c *Card) Attribute(name string) int {
	return AttrValue(c.Attributes[name])
}

// EffectTypes returns the descriptor types of the card's top-level effects.
func (c *Card) EffectTypes() []string {
	out := make([]string, 0, len(c.Effects))
	for _, e := range c.Effects {
		out = append(out, e.Type())
	}
	return out
}

// FoodCost returns the food the card costs to play.
func (c *Card) FoodCost() int {
	return c.Cost["food"]
}

// AgendaCard is a secret objective. Its conditions belong to this instance
// alone since accumulation conditions keep per-agenda progress.
type AgendaCard struct {
	ID              string
	Title           string
	Objective       string
	Reward          string
	Conditions      []Condition
	Rewards         []Effect
	Persistent      bool
	DiscardAfterUse bool
	DiscardToBox    bool
}

// NewAgendaCard assigns a fresh identity to an agenda.
func NewAgendaCard(a AgendaCard) *AgendaCard {
	a.ID = uuid.NewString()
	return &a
}

// AttrValue converts an attribute value loaded from content into an int.
func AttrValue(v any) int {
	switch n := v.(type) {
	case bool:
		if n {
			return 1
		}
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
