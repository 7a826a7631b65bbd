package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/alleycats/cli"
	"github.com/nathoo/alleycats/engine"
	"github.com/nathoo/alleycats/engine/rng"
	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/types"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"--- Turn 3: tom ---", kindTurn},
		{"tom attacks felix! Roll: [4]+0 = 4 vs [2]+0 = 2", kindFight},
		{"tom wins the fight.", kindFight},
		{"felix steals a card from tom.", kindFight},
		{`tom reveals "Regular Visitor": Stand on any owner's cell.`, kindAgenda},
		{`tom tries to reveal "Well Fed", but the objective is not met.`, kindError},
		{`tom cannot afford "Hiss" (1 food).`, kindError},
		{"tom wins with 10 trust from the Cook!", kindWin},
		{"Nobody won.", kindWin},
		{"[Trace output enabled.]", kindSystem},
		{"[trace] event EndOfTurn map[turn:1]", kindTrace},
		{"tom rolls 4 and may move 4.", kindNarration},
		{"", kindNarration},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"tom moves to (2,3): the Cook's back door.", 20,
			"tom moves to (2,3):\nthe Cook's back\ndoor."},
		{"", 80, ""},
		{"a b c d e", 3, "a b\nc d\ne"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestHistory_PerPlayer(t *testing.T) {
	h := NewHistory(5)
	h.Push("tom", "stay")
	h.Push("felix", "2,2")
	h.Push("tom", "play fish")

	prev, ok := h.Prev("tom")
	if !ok || prev != "play fish" {
		t.Errorf("expected 'play fish', got %q (ok=%v)", prev, ok)
	}
	prev, _ = h.Prev("tom")
	if prev != "stay" {
		t.Errorf("expected 'stay', got %q", prev)
	}
	// At oldest, stays there.
	prev, _ = h.Prev("tom")
	if prev != "stay" {
		t.Errorf("expected 'stay' at boundary, got %q", prev)
	}

	// Switching players restarts from that player's newest answer.
	prev, _ = h.Prev("felix")
	if prev != "2,2" {
		t.Errorf("expected felix's '2,2', got %q", prev)
	}
	if _, ok := h.Next("tom"); ok {
		t.Error("Next for a player not being navigated should report false")
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("tom", "stay")
	h.Push("tom", "skip")

	h.Prev("tom") // "skip"
	h.Prev("tom") // "stay"

	next, ok := h.Next("tom")
	if !ok || next != "skip" {
		t.Errorf("expected 'skip', got %q (ok=%v)", next, ok)
	}
	if _, ok := h.Next("tom"); ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_LimitsAndDuplicates(t *testing.T) {
	h := NewHistory(2)
	if _, ok := h.Prev("tom"); ok {
		t.Error("expected false on empty history")
	}
	h.Push("tom", "a")
	h.Push("tom", "a") // skipped
	h.Push("tom", "b")
	h.Push("tom", "c") // "a" evicted

	if got := h.entries["tom"]; len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("entries = %q, want [b c]", got)
	}
	h.Prev("tom")
	h.ResetCursor()
	if prev, _ := h.Prev("tom"); prev != "c" {
		t.Errorf("expected 'c' after reset, got %q", prev)
	}
}

func sized(t *testing.T) Model {
	t.Helper()
	m := New(nil, 10)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func journal(m Model) string {
	var lines []string
	for _, rl := range m.rawLines {
		lines = append(lines, rl.text)
	}
	return strings.Join(lines, "\n")
}

func TestModel_AnswerPrompt(t *testing.T) {
	m := sized(t)
	reply := make(chan string, 1)
	m, _ = update(t, m, promptMsg{
		player: "tom",
		text:   "Move up to 3 (row,col or stay):",
		snap:   snapshot{board: []string{"   0 1", " 0 T *"}, status: "tom at 0,0 | food 5", turn: 1},
		reply:  reply,
	})
	if !strings.Contains(m.View(), "Move up to 3") {
		t.Error("prompt text not shown")
	}
	if !strings.Contains(m.View(), "food 5") {
		t.Error("status not shown")
	}

	m.input.SetValue("  stay ")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	select {
	case got := <-reply:
		if got != "stay" {
			t.Errorf("reply = %q, want stay", got)
		}
	default:
		t.Fatal("no reply sent")
	}
	if m.prompt != nil {
		t.Error("prompt should be cleared after answering")
	}
	if !strings.Contains(journal(m), "[tom] > stay") {
		t.Errorf("answer not echoed:\n%s", journal(m))
	}
	if prev, ok := m.history.Prev("tom"); !ok || prev != "stay" {
		t.Errorf("history Prev = %q, %v", prev, ok)
	}
}

func TestModel_EnterWithoutPrompt(t *testing.T) {
	m := sized(t)
	m.input.SetValue("stay")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(journal(m), "Wait for your turn.") {
		t.Errorf("expected wait message:\n%s", journal(m))
	}
}

func TestModel_TurnOutput(t *testing.T) {
	m := sized(t)
	m, _ = update(t, m, turnMsg{
		result: types.TurnResult{
			Output: []string{"--- Turn 1: tom ---", "tom stays put."},
			Events: []types.Event{{Type: types.EventEndOfTurn}},
		},
		trace: true,
		snap:  snapshot{turn: 2},
	})
	j := journal(m)
	for _, want := range []string{"tom stays put.", "[trace] event EndOfTurn"} {
		if !strings.Contains(j, want) {
			t.Errorf("expected %q in journal:\n%s", want, j)
		}
	}
	if m.snap.turn != 2 {
		t.Errorf("snapshot turn = %d, want 2", m.snap.turn)
	}
}

func TestModel_Done(t *testing.T) {
	m := sized(t)
	m, cmd := update(t, m, doneMsg{summary: []string{"tom wins with 10 trust from the Cook!"}})
	if m.quitting || !m.over {
		t.Fatalf("quitting=%v over=%v, want a finished but open screen", m.quitting, m.over)
	}
	_ = cmd
	if !strings.Contains(journal(m), "Press Enter to exit.") {
		t.Errorf("missing exit hint:\n%s", journal(m))
	}

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.quitting || cmd == nil {
		t.Error("Enter after the game should quit")
	}
}

func TestModel_QuitCancelsEngine(t *testing.T) {
	cancelled := false
	m := New(func() { cancelled = true }, 10)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, cmd := update(t, m, doneMsg{err: fmt.Errorf("movement phase: %w", cli.ErrQuit)})
	if !m.quitting || cmd == nil || !cancelled {
		t.Errorf("quitting=%v cmd=%v cancelled=%v", m.quitting, cmd != nil, cancelled)
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestIgnoreQuit(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		err  error
		want error
	}{
		{nil, nil},
		{cli.ErrQuit, nil},
		{fmt.Errorf("action phase: %w", context.Canceled), nil},
		{boom, boom},
	}
	for _, tt := range tests {
		if got := ignoreQuit(tt.err); got != tt.want {
			t.Errorf("ignoreQuit(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestRenderBoard(t *testing.T) {
	m := sized(t)
	m.snap = snapshot{board: []string{"   0 1 2", " 0 T C #", " 1 K * ·"}}
	out := m.renderBoard()
	for _, sym := range []string{"T", "C", "#", "K", "*", "·", "kiosk"} {
		if !strings.Contains(out, sym) {
			t.Errorf("board missing %q:\n%s", sym, out)
		}
	}
}

// testGame seats tom and felix on a 2x3 yard with tom holding Fish Bones.
func testGame(t *testing.T) (*state.Game, *state.Player) {
	t.Helper()
	board := state.NewBoard([][]string{{"", "C", ""}, {"K", "", "L"}}, nil)
	r := rng.New(9)
	g := state.NewGame(board, state.NewDeck(nil, r), nil, r, nil, state.DefaultSettings())
	tom := state.NewPlayer("tom", 5)
	felix := state.NewPlayer("felix", 5)
	felix.Pos = state.Position{Row: 1, Col: 2}
	g.Players = []*state.Player{tom, felix}
	return g, tom
}

// scripted answers prompts from a queue and records everything else.
type scripted struct {
	answers []string
	prompts []string
	output  []string
}

func (s *scripted) send(msg tea.Msg) {
	switch msg := msg.(type) {
	case promptMsg:
		s.prompts = append(s.prompts, msg.player+": "+msg.text)
		answer := "quit"
		if len(s.answers) > 0 {
			answer, s.answers = s.answers[0], s.answers[1:]
		}
		msg.reply <- answer
	case outputMsg:
		s.output = append(s.output, msg.lines...)
	}
}

func TestAgent_DrivesEngine(t *testing.T) {
	g, tom := testGame(t)
	s := &scripted{answers: []string{"hand", "0,1", "skip"}}
	eng := engine.New(g, nil, NewAgent(s.send))

	res, err := eng.PlayTurn(context.Background())
	if err != nil {
		t.Fatalf("PlayTurn failed: %v", err)
	}
	if tom.Pos != (state.Position{Row: 0, Col: 1}) {
		t.Errorf("tom at %v, want 0,1 (the Cook)", tom.Pos)
	}
	if len(s.prompts) != 3 || !strings.HasPrefix(s.prompts[0], "tom: Move up to") {
		t.Errorf("prompts = %q", s.prompts)
	}
	if !strings.Contains(strings.Join(s.output, "\n"), "(no cards)") {
		t.Errorf("hand meta-command not answered: %q", s.output)
	}
	if !strings.Contains(strings.Join(res.Output, "\n"), "tom does nothing.") {
		t.Errorf("turn output = %q", res.Output)
	}
}

func TestAgent_AskCancelled(t *testing.T) {
	g, tom := testGame(t)
	var sent []tea.Msg
	a := NewAgent(func(msg tea.Msg) { sent = append(sent, msg) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Ask(ctx, cli.Question{Game: g, Player: tom, Text: "Reveal your agenda? [y/n]"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	p := sent[0].(promptMsg)
	if len(p.snap.board) != 3 || p.snap.turn != 1 || !strings.HasPrefix(p.snap.status, "tom at 0,0") {
		t.Errorf("snapshot = %+v", p.snap)
	}
}
