package tui

// History remembers each player's recent answers so Up/Down recall only
// what the cat at the keyboard typed before.
type History struct {
	max     int
	entries map[string][]string
	player  string // whose entries the cursor walks
	cursor  int    // -1 = not navigating
}

// NewHistory creates a history keeping up to max answers per player.
func NewHistory(max int) *History {
	return &History{max: max, entries: map[string][]string{}, cursor: -1}
}

// Push records an answer. Consecutive duplicates are skipped and the
// oldest answer is dropped once a player has max of them.
func (h *History) Push(player, answer string) {
	e := h.entries[player]
	if len(e) > 0 && e[len(e)-1] == answer {
		return
	}
	e = append(e, answer)
	if len(e) > h.max {
		e = e[len(e)-h.max:]
	}
	h.entries[player] = e
}

// Prev returns the player's previous (older) answer. At the oldest answer
// it stays put. Returns ("", false) if the player has none.
func (h *History) Prev(player string) (string, bool) {
	e := h.entries[player]
	if len(e) == 0 {
		return "", false
	}
	if h.player != player || h.cursor == -1 {
		h.player = player
		h.cursor = len(e) - 1
	} else if h.cursor > 0 {
		h.cursor--
	}
	return e[h.cursor], true
}

// Next returns the player's next (newer) answer, or ("", false) once past
// the newest one.
func (h *History) Next(player string) (string, bool) {
	if h.player != player || h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries[player]) {
		h.cursor = -1
		return "", false
	}
	return h.entries[player][h.cursor], true
}

// ResetCursor stops navigating.
func (h *History) ResetCursor() {
	h.cursor = -1
}
