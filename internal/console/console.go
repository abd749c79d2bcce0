// ABOUTME: Line-oriented operator console built on readline
// ABOUTME: Used in place of the TUI when the terminal should stay scrollable
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/Resonate-Protocol/cuedeck/internal/transport"
	"github.com/Resonate-Protocol/cuedeck/pkg/audio/decode"
)

// Deck is the transport plus track loading, as seen by the console
type Deck interface {
	Apply(g transport.Gesture) error
	Snapshot() transport.Snapshot
	LoadFile(path string) error
}

// Console reads commands and applies them to a deck
type Console struct {
	deck Deck
	out  io.Writer
}

// New creates a console writing its replies to out
func New(deck Deck, out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{deck: deck, out: out}
}

// Run reads lines until quit, EOF, interrupt or ctx is cancelled
func (c *Console) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "cuedeck> ",
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdout:          c.out,
	})
	if err != nil {
		return fmt.Errorf("failed to start console: %w", err)
	}
	defer rl.Close()

	go func() {
		<-ctx.Done()
		rl.Close()
	}()

	fmt.Fprintln(c.out, "Type 'help' for commands.")

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		if quit := c.Execute(line); quit {
			return nil
		}
	}
}

// Execute runs one line and reports whether the console should exit
func (c *Console) Execute(line string) bool {
	cmd, err := Parse(line)
	if err != nil {
		fmt.Fprintln(c.out, err)
		return false
	}

	switch cmd.Action {
	case ActionQuit:
		return true
	case ActionHelp:
		fmt.Fprintln(c.out, usage)
		return false
	case ActionStatus:
		fmt.Fprintln(c.out, FormatStatus(c.deck.Snapshot()))
		return false
	case ActionLoad:
		if err := c.deck.LoadFile(cmd.Path); err != nil {
			fmt.Fprintf(c.out, "load failed: %v\n", err)
			return false
		}
		fmt.Fprintln(c.out, FormatStatus(c.deck.Snapshot()))
		return false
	}

	for _, g := range cmd.Gestures {
		if err := c.deck.Apply(g); err != nil {
			fmt.Fprintln(c.out, err)
			return false
		}
	}
	return false
}

// FormatStatus renders a snapshot on one line
func FormatStatus(s transport.Snapshot) string {
	if !s.Loaded {
		return "no track loaded"
	}
	remaining := max(s.Remaining, 0)
	line := fmt.Sprintf("%s  %-8s pos %.2fs  -%d:%02d  cue %.2fs  tempo %.3f  rate %.3f",
		s.AssetName, s.State, s.Position, remaining/60, remaining%60, s.CuePoint, s.Tempo, s.Rate)
	if s.Override != transport.OverrideNone {
		line += "  [" + s.Override.String() + "]"
	}
	return line
}

func completer() *readline.PrefixCompleter {
	options := func(words ...string) []readline.PrefixCompleterInterface {
		items := make([]readline.PrefixCompleterInterface, len(words))
		for i, w := range words {
			items[i] = readline.PcItem(w)
		}
		return items
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("load", readline.PcItemDynamic(listTracks)),
		readline.PcItem("play"),
		readline.PcItem("cue", options("down", "up")...),
		readline.PcItem("setcue"),
		readline.PcItem("seek", options("-", "+", "up")...),
		readline.PcItem("bend", options("-", "+", "up")...),
		readline.PcItem("pressure", options("-", "+")...),
		readline.PcItem("tempo"),
		readline.PcItem("nudge", options("-", "+", "up")...),
		readline.PcItem("scrub"),
		readline.PcItem("status"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// listTracks completes the path argument of load with directories and
// decodable files
func listTracks(line string) []string {
	prefix := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "load"))
	dir := filepath.Dir(prefix)
	if prefix == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		name := filepath.Join(dir, e.Name())
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if e.IsDir() {
			names = append(names, name+string(filepath.Separator))
		} else if decode.Supported(name) {
			names = append(names, name)
		}
	}
	return names
}
