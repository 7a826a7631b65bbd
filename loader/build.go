package loader

import (
	"go.uber.org/zap"

	"github.com/nathoo/alleycats/engine/effects"
	"github.com/nathoo/alleycats/engine/rng"
	"github.com/nathoo/alleycats/engine/rules"
	"github.com/nathoo/alleycats/engine/state"
)

// Build instantiates the decks. Each card definition is built once and
// shared by all its copies; agenda conditions are built per copy because
// accumulating conditions keep progress. Nodes that fail to resolve are
// dropped with a warning.
func Build(c *Content, r *rng.RNG, log *zap.Logger) (*state.Deck, *state.AgendaDeck) {
	if log == nil {
		log = zap.NewNop()
	}

	var cards []*state.Card
	for _, def := range c.Cards {
		effs, _ := effects.BuildAll(def.Effects, log.With(zap.String("card", def.Title)))
		tmpl := &state.CardTemplate{
			Title:            def.Title,
			Description:      def.Description,
			DiscardCondition: def.DiscardCondition,
			Cost:             def.Cost,
			Timing:           def.Timing,
			TargetNeeded:     def.TargetNeeded,
			TypeFlags:        def.TypeFlags,
			Attributes:       def.Attributes,
			Effects:          effs,
		}
		for i := 0; i < def.Count; i++ {
			cards = append(cards, state.NewCard(tmpl))
		}
	}

	var agendas []*state.AgendaCard
	for _, def := range c.Agendas {
		alog := log.With(zap.String("agenda", def.Title))
		rewards, _ := effects.BuildAll(def.Rewards, alog)
		for i := 0; i < def.Count; i++ {
			// Warn once per definition, not once per copy.
			clog := alog
			if i > 0 {
				clog = zap.NewNop()
			}
			conds, _ := rules.BuildAll(def.Conditions, clog)
			agendas = append(agendas, state.NewAgendaCard(state.AgendaCard{
				Title:           def.Title,
				Objective:       def.Objective,
				Reward:          def.Reward,
				Conditions:      conds,
				Rewards:         rewards,
				Persistent:      def.Persistent,
				DiscardAfterUse: def.DiscardAfterUse,
				DiscardToBox:    def.DiscardToBox,
			}))
		}
	}

	log.Info("decks built", zap.Int("cards", len(cards)), zap.Int("agendas", len(agendas)))
	return state.NewDeck(cards, r), state.NewAgendaDeck(agendas, r)
}
