package state

// UsageRecord logs one card play for the rest of the game.
type UsageRecord struct {
	CardID      string
	Title       string
	Turn        int
	Context     map[string]any
	EffectTypes []string
	Success     bool
}

// ActionRecord logs one action taken during the current turn.
type ActionRecord struct {
	Action    string // "Moved", "PlayedCard", "Fight"
	Location  string // see Cell.Location
	Voluntary bool
}

// Action log names.
const (
	ActionMoved      = "Moved"
	ActionPlayedCard = "PlayedCard"
	ActionFight      = "Fight"
)

// ArmedRecord is a card waiting for its trigger, with the context captured
// when it was armed.
type ArmedRecord struct {
	Card    *Card
	Context map[string]any
}

// TemporaryBonus lasts until the start of the holder's next turn.
type TemporaryBonus struct {
	Attribute string
	Amount    int
	Source    string
}

// Player is one cat.
type Player struct {
	ID          string
	Pos         Position
	Food        int
	Trust       map[string]int
	Hand        []*Card
	Titles      []*Card
	Persistent  []*Card
	Agenda      *AgendaCard
	Revealed    []*AgendaCard
	Visited     map[Position]bool
	OwnerVisits map[string]int
	Usage       []UsageRecord
	Actions     []ActionRecord
	Armed       []ArmedRecord
	Bonuses     []TemporaryBonus
	Rerolls     int
}

// NewPlayer creates a player with the given food and zero trust with every owner.
func NewPlayer(id string, food int) *Player {
	p := &Player{
		ID:          id,
		Food:        food,
		Trust:       map[string]int{},
		Visited:     map[Position]bool{},
		OwnerVisits: map[string]int{},
	}
	for _, o := range Owners {
		p.Trust[o] = 0
	}
	return p
}

// GainFood adds food. Non-positive amounts are ignored.
func (p *Player) GainFood(n int) {
	if n > 0 {
		p.Food += n
	}
}

// LoseFood removes n food. It returns false and changes nothing when the
// player has less than n.
func (p *Player) LoseFood(n int) bool {
	if n < 0 || p.Food < n {
		return false
	}
	p.Food -= n
	return true
}

// CanGainTrust reports whether no active card blocks trust gain.
func (p *Player) CanGainTrust() bool {
	return p.Attribute(AttrBlocksTrustGain) == 0
}

// GainTrust raises trust with an owner. It returns false when blocked or
// when the amount is not positive.
func (p *Player) GainTrust(owner string, n int) bool {
	if n <= 0 || !p.CanGainTrust() {
		return false
	}
	p.Trust[owner] += n
	return true
}

// LoseTrust lowers trust with an owner, never below zero. It returns the
// amount actually lost.
func (p *Player) LoseTrust(owner string, n int) int {
	if n <= 0 {
		return 0
	}
	cur := p.Trust[owner]
	if n > cur {
		n = cur
	}
	p.Trust[owner] = cur - n
	return n
}

// BestOwner returns the owner the player has the most trust with. Ties go
// to the earlier owner in Owners.
func (p *Player) BestOwner() (string, int) {
	best, val := Owners[0], p.Trust[Owners[0]]
	for _, o := range Owners[1:] {
		if p.Trust[o] > val {
			best, val = o, p.Trust[o]
		}
	}
	return best, val
}

// AddToHand puts a card into the hand.
func (p *Player) AddToHand(c *Card) {
	p.Hand = append(p.Hand, c)
}

// RemoveFromHand takes a card out of the hand by identity.
func (p *Player) RemoveFromHand(c *Card) bool {
	var ok bool
	p.Hand, ok = removeCard(p.Hand, c)
	return ok
}

// AddTitle attaches a title. Attaching a card already held is a no-op
// returning false.
func (p *Player) AddTitle(c *Card) bool {
	if containsCard(p.Titles, c) {
		return false
	}
	p.Titles = append(p.Titles, c)
	return true
}

// HasTitle reports whether a title with this name is active.
func (p *Player) HasTitle(title string) bool {
	for _, c := range p.Titles {
		if c.Title == title {
			return true
		}
	}
	return false
}

// AddPersistent attaches a persistent effect card. Idempotent.
func (p *Player) AddPersistent(c *Card) bool {
	if containsCard(p.Persistent, c) {
		return false
	}
	p.Persistent = append(p.Persistent, c)
	return true
}

// Forget removes a card from the hand, active lists and armed registry.
func (p *Player) Forget(c *Card) {
	p.Hand, _ = removeCard(p.Hand, c)
	p.Titles, _ = removeCard(p.Titles, c)
	p.Persistent, _ = removeCard(p.Persistent, c)
	p.Disarm(c)
}

// StartTurn resets all per-turn bookkeeping.
func (p *Player) StartTurn() {
	p.Visited = map[Position]bool{}
	p.Actions = nil
	p.Bonuses = nil
}

// HasVisited reports whether the player already landed on pos this turn.
func (p *Player) HasVisited(pos Position) bool {
	return p.Visited[pos]
}

// MarkVisited records a landing on pos for this turn.
func (p *Player) MarkVisited(pos Position) {
	p.Visited[pos] = true
}

// RecordOwnerVisit bumps the per-game visit counter for an owner.
func (p *Player) RecordOwnerVisit(owner string) {
	p.OwnerVisits[owner]++
}

// RecordUsage appends to the per-game card usage log.
func (p *Player) RecordUsage(r UsageRecord) {
	p.Usage = append(p.Usage, r)
}

// RecordAction appends to this turn's action log.
func (p *Player) RecordAction(r ActionRecord) {
	p.Actions = append(p.Actions, r)
}

// Arm registers a card in the armed registry. A card already armed is
// rejected.
func (p *Player) Arm(c *Card, ctx map[string]any) bool {
	if p.IsArmed(c) {
		return false
	}
	p.Armed = append(p.Armed, ArmedRecord{Card: c, Context: ctx})
	return true
}

// IsArmed reports whether the card has an armed record.
func (p *Player) IsArmed(c *Card) bool {
	for _, r := range p.Armed {
		if r.Card.ID == c.ID {
			return true
		}
	}
	return false
}

// Disarm removes the card's armed record, if any.
func (p *Player) Disarm(c *Card) bool {
	for i, r := range p.Armed {
		if r.Card.ID == c.ID {
			p.Armed = append(p.Armed[:i:i], p.Armed[i+1:]...)
			return true
		}
	}
	return false
}

// AddBonus grants a bonus for the rest of the turn.
func (p *Player) AddBonus(b TemporaryBonus) {
	p.Bonuses = append(p.Bonuses, b)
}

// Attribute sums an attribute over active titles, persistent effects and
// temporary bonuses.
func (p *Player) Attribute(name string) int {
	total := 0
	for _, c := range p.Titles {
		total += c.Attribute(name)
	}
	for _, c := range p.Persistent {
		total += c.Attribute(name)
	}
	for _, b := range p.Bonuses {
		if b.Attribute == name {
			total += b.Amount
		}
	}
	return total
}

// MovementBonus is added to every movement roll.
func (p *Player) MovementBonus() int { return p.Attribute(AttrMovementBonus) }

// FightBonus is added to every fight roll.
func (p *Player) FightBonus() int { return p.Attribute(AttrFightBonus) }

// CanPassWalls reports whether walls are passable for this player.
func (p *Player) CanPassWalls() bool { return p.Attribute(AttrWallPass) > 0 }

// HasReroll reports whether a movement re-roll charge is available.
func (p *Player) HasReroll() bool { return p.Rerolls > 0 }

// ConsumeReroll spends one re-roll charge.
func (p *Player) ConsumeReroll() bool {
	if p.Rerolls <= 0 {
		return false
	}
	p.Rerolls--
	return true
}

func containsCard(cards []*Card, c *Card) bool {
	for _, x := range cards {
		if x.ID == c.ID {
			return true
		}
	}
	return false
}

func removeCard(cards []*Card, c *Card) ([]*Card, bool) {
	for i, x := range cards {
		if x.ID == c.ID {
			return append(cards[:i:i], cards[i+1:]...), true
		}
	}
	return cards, false
}
