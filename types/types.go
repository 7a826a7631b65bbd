// Package types defines the shared data structures for the Alley Cats engine.
// This package contains only type definitions and constants, no logic.
package types

// Intent is the parsed representation of a typed answer at a decision point.
type Intent struct {
	Verb   string
	Object string // optional
	Target string // optional
}

// Descriptor is a declarative effect or condition node: a type name plus
// type-specific parameters, as read from content files.
type Descriptor struct {
	Type   string
	Params map[string]any
}

// Event is a named game occurrence with a payload, checked against armed effects.
type Event struct {
	Type string
	Data map[string]any
}

// Event types.
const (
	EventVisitedDifferentOwnerCell = "VisitedDifferentOwnerCell"
	EventVisitedCellType           = "VisitedCellType"
	EventParticipatedInFight       = "ParticipatedInFight"
	EventEndOfTurn                 = "EndOfTurn"
	EventTitleGained               = "TitleGained"
)

// OutcomeStatus classifies the result of executing one effect.
type OutcomeStatus int

const (
	Applied OutcomeStatus = iota
	Skipped
	Failed
)

func (s OutcomeStatus) String() string {
	switch s {
	case Applied:
		return "applied"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Outcome is returned by every effect execution.
type Outcome struct {
	Status OutcomeStatus
	Effect string // descriptor type of the effect that produced it
	Reason string
}

// CellKind is the role of a board cell.
type CellKind int

const (
	CellPlain CellKind = iota
	CellWall
	CellKiosk
	CellBasement
	CellOwner
)

// Owner names.
const (
	OwnerStudent   = "Student"
	OwnerCook      = "Cook"
	OwnerLibrarian = "Librarian"
)

// Phase is a step of a single player's turn.
type Phase int

const (
	PhaseTurnStart Phase = iota
	PhaseMovement
	PhaseAction
	PhaseAgenda
	PhaseTurnEnd
)

// CardDef is a card definition as loaded from content. Count copies are
// created in the deck, all sharing one set of built effects.
type CardDef struct {
	Title            string
	Description      string
	DiscardCondition string
	Count            int
	Cost             map[string]int
	Timing           string
	TargetNeeded     bool
	TypeFlags        []string
	Attributes       map[string]any
	Effects          []Descriptor
}

// AgendaDef is a secret agenda definition as loaded from content.
type AgendaDef struct {
	Title           string
	Objective       string
	Reward          string
	Count           int
	Conditions      []Descriptor
	Rewards         []Descriptor
	Persistent      bool
	DiscardAfterUse bool
	DiscardToBox    bool
}

// TurnResult summarizes one completed (or interrupted) turn.
type TurnResult struct {
	Turn     int
	PlayerID string
	Roll     int
	Events   []Event
	Outcomes []Outcome
	Output   []string
	GameOver bool
	Winner   string // player ID; empty on a draw or turn-limit stop
}
