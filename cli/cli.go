// Package cli provides the plain terminal front end: a text-driven decision
// agent, output formatting and meta-command dispatch.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/alleycats/engine"
	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/engine/view"
	"github.com/nathoo/alleycats/types"
)

// CLI is a line-oriented Prompter over a reader and a writer.
type CLI struct {
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)

	agent   *Agent
	scanner *bufio.Scanner
}

// New creates a CLI on stdin and stdout.
func New() *CLI {
	return &CLI{In: os.Stdin, Out: os.Stdout}
}

// Agent returns the decision agent reading from this CLI.
func (c *CLI) Agent() *Agent {
	if c.agent == nil {
		c.agent = NewAgent(c)
		c.agent.Trace = c.Trace
	}
	return c.agent
}

// Run plays the game on eng to the end. Every seat without its own agent
// is answered from this CLI's input. Quitting or running out of input ends
// the game quietly.
func (c *CLI) Run(ctx context.Context, eng *engine.Engine) error {
	g := eng.Game
	c.printLine("Alley Cats. Win the full trust of one owner to rule the yard.")
	c.printLine(fmt.Sprintf("First to %d trust wins. Type help at any prompt.", g.Settings.WinTrust))
	c.printLine("")
	c.ShowBoard(g, nil)

	winner, err := eng.Run(ctx, c.printResult)
	switch {
	case errors.Is(err, ErrQuit), errors.Is(err, io.EOF):
		c.System("Goodbye.")
		return nil
	case err != nil:
		return err
	}

	c.printLine("")
	c.Print(Summary(g, winner)...)
	return nil
}

// Ask implements Prompter. Blank lines and '#' comments are skipped.
func (c *CLI) Ask(ctx context.Context, q Question) (string, error) {
	if c.scanner == nil {
		c.scanner = bufio.NewScanner(c.In)
	}
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		c.print(fmt.Sprintf("[%s] %s ", q.Player.ID, q.Text))
		if !c.scanner.Scan() {
			c.printLine("")
			if err := c.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		input := strings.TrimSpace(c.scanner.Text())
		// Skip comment lines (for script files).
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}
		return input, nil
	}
}

// Print implements Prompter.
func (c *CLI) Print(lines ...string) {
	for _, line := range lines {
		c.printLine(line)
	}
}

// System implements Prompter.
func (c *CLI) System(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

// ShowBoard implements Prompter.
func (c *CLI) ShowBoard(g *state.Game, reach []state.Position) {
	c.Print(view.BoardRows(g, reach)...)
	c.printLine(view.Legend())
}

func (c *CLI) printResult(result types.TurnResult) {
	c.Print(result.Output...)
	if c.Agent().Trace {
		c.Print(view.Trace(result)...)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}
