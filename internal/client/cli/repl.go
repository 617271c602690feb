package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

func (a *App) status() string {
	s := a.store.Snapshot()
	switch {
	case s.IsAuthenticated:
		return "(" + s.User.Username + ")"
	case s.IsLoading:
		return "(...)"
	default:
		return ""
	}
}

// REPL runs a read-eval-print loop over the shared command table until EOF,
// "exit" or "quit". Command errors are reported by exec and never end the
// loop.
func (a *App) REPL(ctx context.Context) error {
	a.out.Println("Welcome to KnowledgeKeeper CLI (type 'help' for commands)")

	// Restore a saved session so the prompt shows who is logged in.
	a.guard.Activate(ctx)
	a.report(nil)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.out.Printf("kk%s> ", a.status())

		line, err := a.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read command: %w", err)
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				a.out.Println()
				return nil
			}
			continue
		}

		switch cmd := parts[0]; cmd {
		case "help":
			a.help()
		case "exit", "quit":
			a.out.Println("Bye!")
			return nil
		default:
			_ = a.exec(ctx, cmd, parts[1:])
		}

		if err != nil {
			return nil
		}
	}
}
