package state

import "github.com/nathoo/alleycats/engine/rng"

// Deck holds the shared action-card draw and discard piles. The top of each
// pile is the last element.
type Deck struct {
	DrawPile    []*Card
	DiscardPile []*Card
	rng         *rng.RNG
}

// NewDeck builds a deck from cards and shuffles it.
func NewDeck(cards []*Card, r *rng.RNG) *Deck {
	d := &Deck{DrawPile: cards, rng: r}
	d.Shuffle()
	return d
}

// Shuffle randomizes the draw pile.
func (d *Deck) Shuffle() {
	if d.rng == nil || len(d.DrawPile) < 2 {
		return
	}
	d.rng.Shuffle(len(d.DrawPile), func(i, j int) {
		d.DrawPile[i], d.DrawPile[j] = d.DrawPile[j], d.DrawPile[i]
	})
}

// Reshuffle moves the whole discard pile into the draw pile and shuffles it.
func (d *Deck) Reshuffle() {
	d.DrawPile = append(d.DrawPile, d.DiscardPile...)
	d.DiscardPile = nil
	d.Shuffle()
}

// Draw pops the top card. An empty draw pile is refilled from the discard
// pile first. Returns nil when both piles are empty.
func (d *Deck) Draw() *Card {
	if len(d.DrawPile) == 0 {
		if len(d.DiscardPile) == 0 {
			return nil
		}
		d.Reshuffle()
	}
	top := d.DrawPile[len(d.DrawPile)-1]
	d.DrawPile = d.DrawPile[:len(d.DrawPile)-1]
	return top
}

// Discard puts a card on the discard pile.
func (d *Deck) Discard(c *Card) {
	d.DiscardPile = append(d.DiscardPile, c)
}

// Size returns the number of cards held by both piles.
func (d *Deck) Size() int {
	return len(d.DrawPile) + len(d.DiscardPile)
}

// AgendaDeck holds undealt secret agendas and the box of agendas removed
// from play.
type AgendaDeck struct {
	Cards []*AgendaCard
	Box   []*AgendaCard
}

// NewAgendaDeck builds and shuffles an agenda deck.
func NewAgendaDeck(cards []*AgendaCard, r *rng.RNG) *AgendaDeck {
	if r != nil && len(cards) > 1 {
		r.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	}
	return &AgendaDeck{Cards: cards}
}

// Deal pops the top agenda, or nil when none remain.
func (a *AgendaDeck) Deal() *AgendaCard {
	if len(a.Cards) == 0 {
		return nil
	}
	top := a.Cards[len(a.Cards)-1]
	a.Cards = a.Cards[:len(a.Cards)-1]
	return top
}

// ToBox removes an agenda from play.
func (a *AgendaDeck) ToBox(card *AgendaCard) {
	a.Box = append(a.Box, card)
}
