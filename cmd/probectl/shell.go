package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// runShell reads commands until EOF, "exit" or ctx is done.
func runShell(ctx context.Context, c *client) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          c.family + "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(c.tokens),
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "Connected to %s (%s). Type \"help\" for commands.\n", c.ep.URL(), c.family)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			return nil
		}
		if !shellLine(ctx, c, strings.TrimSpace(line), rl.Stdout()) {
			return nil
		}
	}
}

// shellLine handles one shell input and reports whether to keep going.
func shellLine(ctx context.Context, c *client, input string, out io.Writer) bool {
	switch input {
	case "":
		return true
	case "exit", "quit":
		return false
	case "help", "?":
		fmt.Fprintf(out, "Commands (%s):\n", c.family)
		for _, tok := range c.tokens {
			fmt.Fprintf(out, "  %s\n", tok)
		}
		fmt.Fprintln(out, "  help, exit")
		return true
	}

	reply, err := c.Call(ctx, input)
	if err != nil {
		fmt.Fprintln(out, describe(err))
		return true
	}
	fmt.Fprintln(out, reply)
	return true
}

func completer(tokens []string) *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(tokens)+2)
	for _, tok := range tokens {
		items = append(items, readline.PcItem(tok))
	}
	items = append(items, readline.PcItem("help"), readline.PcItem("exit"))
	return readline.NewPrefixCompleter(items...)
}
