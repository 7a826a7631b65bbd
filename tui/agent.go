package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/alleycats/cli"
	"github.com/nathoo/alleycats/engine"
	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/engine/view"
	"github.com/nathoo/alleycats/types"
)

// Agent is a decision agent whose prompts are shown by the Bubble Tea
// program. It runs on the engine goroutine and blocks until the model
// sends back the player's answer.
type Agent struct {
	*cli.Agent
	send func(tea.Msg)
}

// NewAgent creates an agent that delivers messages with send, usually a
// tea.Program's Send.
func NewAgent(send func(tea.Msg)) *Agent {
	a := &Agent{send: send}
	a.Agent = cli.NewAgent(a)
	return a
}

// Ask implements cli.Prompter.
func (a *Agent) Ask(ctx context.Context, q cli.Question) (string, error) {
	reply := make(chan string, 1)
	a.send(promptMsg{
		player: q.Player.ID,
		text:   q.Text,
		snap:   takeSnapshot(q.Game, q.Player, q.Reach),
		reply:  reply,
	})
	select {
	case answer := <-reply:
		return answer, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Print implements cli.Prompter.
func (a *Agent) Print(lines ...string) {
	a.send(outputMsg{lines: lines})
}

// System implements cli.Prompter.
func (a *Agent) System(text string) {
	a.send(outputMsg{lines: []string{text}, isSystem: true})
}

// ShowBoard implements cli.Prompter.
func (a *Agent) ShowBoard(g *state.Game, reach []state.Position) {
	a.send(snapshotMsg(takeSnapshot(g, g.CurrentPlayer(), reach)))
}

// snapshot is the part of the game the model draws. It is taken on the
// engine goroutine so the model never reads live game state.
type snapshot struct {
	board  []string
	status string
	turn   int
}

func takeSnapshot(g *state.Game, p *state.Player, reach []state.Position) snapshot {
	s := snapshot{board: view.BoardRows(g, reach), turn: g.Turn}
	if p != nil {
		s.status = view.Status(p)
	}
	return s
}

// Run shows the game in a full-screen terminal UI until it ends or the
// player quits. It returns the winner, if any. trace starts with trace
// output on.
func Run(ctx context.Context, g *state.Game, trace bool) (*state.Player, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(cancel, g.Settings.WinTrust)
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	agent := NewAgent(prog.Send)
	agent.Trace = trace
	eng := engine.New(g, nil, agent)

	type outcome struct {
		winner *state.Player
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		winner, err := eng.Run(ctx, func(res types.TurnResult) {
			prog.Send(turnMsg{result: res, trace: agent.Trace, snap: takeSnapshot(g, g.CurrentPlayer(), nil)})
		})
		done <- outcome{winner, err}
		prog.Send(doneMsg{summary: cli.Summary(g, winner), err: err})
	}()

	_, err := prog.Run()
	cancel()
	res := <-done
	if err != nil {
		return res.winner, err
	}
	return res.winner, ignoreQuit(res.err)
}
