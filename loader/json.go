package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/alleycats/engine/rules"
	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/types"
)

// cardRecord is one entry of a cards JSON file.
type cardRecord struct {
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	DiscardCondition  string           `json:"discard_condition"`
	Count             *int             `json:"count"`
	Cost              map[string]int   `json:"cost"`
	Timing            string           `json:"timing"`
	TargetNeeded      bool             `json:"target_needed"`
	TypeFlags         []string         `json:"card_type_flags"`
	AttributesGranted map[string]any   `json:"attributes_granted"`
	Effects           []map[string]any `json:"effects"`
}

// agendaRecord is one entry of a secret agendas JSON file.
type agendaRecord struct {
	Title               string           `json:"title"`
	Objective           string           `json:"objective_text"`
	Reward              string           `json:"reward_text"`
	Count               *int             `json:"count"`
	ObjectiveConditions []map[string]any `json:"objective_conditions"`
	RewardEffects       []map[string]any `json:"reward_effects"`
	IsPersistent        bool             `json:"is_persistent"`
	DiscardAfterUse     bool             `json:"discard_after_use"`
	DiscardToBox        bool             `json:"discard_to_box_on_reveal"`
}

// LoadCardsJSON reads a cards file in the record format of the printed
// card list.
func LoadCardsJSON(path string) ([]types.CardDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cards %s: %w", path, err)
	}
	var records []cardRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding cards %s: %w", path, err)
	}

	out := make([]types.CardDef, 0, len(records))
	for _, r := range records {
		out = append(out, types.CardDef{
			Title:            r.Title,
			Description:      r.Description,
			DiscardCondition: normalizeDiscard(r.DiscardCondition),
			Count:            countOr(r.Count, 0),
			Cost:             r.Cost,
			Timing:           r.Timing,
			TargetNeeded:     r.TargetNeeded,
			TypeFlags:        r.TypeFlags,
			Attributes:       r.AttributesGranted,
			Effects:          descriptors(r.Effects),
		})
	}
	return out, nil
}

// LoadAgendasJSON reads a secret agendas file.
func LoadAgendasJSON(path string) ([]types.AgendaDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading agendas %s: %w", path, err)
	}
	var records []agendaRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding agendas %s: %w", path, err)
	}

	out := make([]types.AgendaDef, 0, len(records))
	for _, r := range records {
		out = append(out, types.AgendaDef{
			Title:           r.Title,
			Objective:       r.Objective,
			Reward:          r.Reward,
			Count:           countOr(r.Count, 1),
			Conditions:      descriptors(r.ObjectiveConditions),
			Rewards:         descriptors(r.RewardEffects),
			Persistent:      r.IsPersistent,
			DiscardAfterUse: r.DiscardAfterUse,
			DiscardToBox:    r.DiscardToBox,
		})
	}
	return out, nil
}

func countOr(n *int, def int) int {
	if n == nil {
		return def
	}
	return *n
}

func descriptors(raw []map[string]any) []types.Descriptor {
	out := make([]types.Descriptor, 0, len(raw))
	for _, m := range raw {
		if d, ok := rules.AsDescriptor(m); ok {
			out = append(out, d)
		}
	}
	return out
}

// normalizeDiscard maps the printed discard conditions to their canonical
// names. Anything else is kept as a custom condition.
func normalizeDiscard(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "сразу", state.DiscardImmediate:
		return state.DiscardImmediate
	case "постоянно", state.DiscardPersistent:
		return state.DiscardPersistent
	}
	return s
}
