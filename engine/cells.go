package engine

import (
	"go.uber.org/zap"

	"github.com/nathoo/alleycats/engine/effects"
	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/types"
)

// Cell benefits.
const (
	studentTrust  = 1
	cookFood      = 2
	librarianDraw = 1
	kioskDraw     = 1
	basementFood  = 2
)

// foodFromOwnerCell is the source trigger type for food-source agenda bonuses.
const foodFromOwnerCell = "GainedFoodFromOwnerCell"

// EnterCell applies the benefits of the cell p stands on. Owner cells pay
// out on every landing; other cells at most once per turn. When the cell
// paid out, revealed agenda bonuses apply and the visit events are emitted.
// A win ends the cell's processing at once.
func (e *Engine) EnterCell(p *state.Player) {
	g := e.Game
	cell, ok := g.CellOf(p)
	if !ok {
		return
	}

	foodFromOwner := 0
	processed := true
	switch {
	case cell.Kind == types.CellOwner:
		p.RecordOwnerVisit(cell.Owner)
		foodFromOwner = e.ownerBenefit(p, cell.Owner)
	case p.HasVisited(cell.Pos):
		processed = false
		g.Narrate("%s has already been here this turn.", p.ID)
	case cell.Kind == types.CellKiosk:
		if n := g.DrawCards(p, kioskDraw); n > 0 {
			g.Narrate("%s finds something at the kiosk and draws a card.", p.ID)
		}
	case cell.Kind == types.CellBasement:
		p.GainFood(basementFood)
		g.Narrate("%s forages in the basement: +%d food.", p.ID, basementFood)
	}
	p.MarkVisited(cell.Pos)
	if !processed || g.Over {
		return
	}

	e.agendaBonuses(p, cell, foodFromOwner)
	if g.Over {
		return
	}

	var owner any
	if cell.Kind == types.CellOwner {
		owner = cell.Owner
	}
	e.dispatch(p, types.Event{
		Type: types.EventVisitedDifferentOwnerCell,
		Data: map[string]any{"owner_name": owner},
	})
	if g.Over {
		return
	}
	e.dispatch(p, types.Event{
		Type: types.EventVisitedCellType,
		Data: map[string]any{"cell_symbol": cell.Symbol, "location": cell.Location()},
	})
}

// ownerBenefit pays out an owner cell and returns the food it granted.
func (e *Engine) ownerBenefit(p *state.Player, owner string) int {
	g := e.Game
	switch owner {
	case types.OwnerStudent:
		if g.GainTrust(p, owner, studentTrust) {
			g.Narrate("The Student scratches %s behind the ears: +%d trust.", p.ID, studentTrust)
		} else {
			g.Narrate("The Student ignores %s.", p.ID)
		}
	case types.OwnerCook:
		p.GainFood(cookFood)
		g.Narrate("The Cook feeds %s: +%d food.", p.ID, cookFood)
		return cookFood
	case types.OwnerLibrarian:
		if n := g.DrawCards(p, librarianDraw); n > 0 {
			g.Narrate("The Librarian shows %s a book: draws a card.", p.ID)
		}
	default:
		e.log.Warn("owner cell with unknown owner", zap.String("owner", owner))
	}
	return 0
}

// agendaBonuses applies passive rewards of p's revealed persistent agendas.
func (e *Engine) agendaBonuses(p *state.Player, cell *state.Cell, foodFromOwner int) {
	g := e.Game
	for _, a := range p.Revealed {
		for _, r := range a.Rewards {
			switch b := r.(type) {
			case effects.CellVisitBonus:
				if cell.Kind != types.CellOwner || b.Owner != cell.Owner {
					continue
				}
				eff, err := effects.Build(b.Bonus, g.Log)
				if err != nil {
					e.log.Warn("agenda visit bonus unresolved", zap.String("agenda", a.Title), zap.Error(err))
					continue
				}
				g.Narrate("%q pays out for visiting the %s.", a.Title, b.Owner)
				e.record(effects.ExecuteOne(g, nil, p, nil, eff))
			case effects.FoodSourceBonus:
				if b.Source != foodFromOwnerCell || b.Owner != cell.Owner || foodFromOwner <= 0 || b.Amount <= 0 {
					continue
				}
				p.GainFood(b.Amount)
				g.Narrate("%q adds %d extra food from the %s.", a.Title, b.Amount, b.Owner)
			}
		}
	}
}
