package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Chat reads one user line at a time from in and writes the agent's replies
// to out until "exit", EOF or ctx is done.
func Chat(ctx context.Context, s *Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(query, "exit") {
			return nil
		}
		if query == "" {
			continue
		}
		reply, err := s.Send(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "\nAgent: something went wrong (%v). Please try again.\n\n", err)
			continue
		}
		fmt.Fprintf(out, "\nAgent: %s\n\n", reply)
	}
}
