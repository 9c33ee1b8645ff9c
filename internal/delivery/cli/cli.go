package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/smart-sa/smorti/internal/usecase"
)

// REPL is a terminal chat loop, mostly used for trying prompt and catalog
// changes without a bot token.
type REPL struct {
	uc  usecase.ChatUseCase
	in  io.Reader
	out io.Writer
}

func NewREPL(uc usecase.ChatUseCase, in io.Reader, out io.Writer) *REPL {
	return &REPL{uc: uc, in: in, out: out}
}

// Run reads lines until EOF or an exit command.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "💬 Chat started! Type 'exit' to end.")

	sc := bufio.NewScanner(r.in)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024)

	for {
		fmt.Fprint(r.out, "\nYou: ")
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if l := strings.ToLower(line); l == "exit" || l == "quit" {
			fmt.Fprintln(r.out, "👋 Goodbye!")
			return nil
		}

		reply := r.uc.HandleMessage(ctx, "cli", line)
		fmt.Fprintf(r.out, "\nSmorti: %s\n", reply)

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}
