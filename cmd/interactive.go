package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// controller is the part of the scheduler the operator drives.
type controller interface {
	Stop()
	RunNow() bool
}

// runInteractive reads operator commands from in until the scheduler is
// stopped, ctx is done or in is exhausted. 'q' stops the scheduler and 'n'
// requests an immediate pass.
func runInteractive(ctx context.Context, in io.Reader, out io.Writer, c controller) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(out, "'q' to quit; 'n' to check now\n")
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			switch cmd := strings.TrimSpace(line); cmd {
			case "q":
				c.Stop()
				return
			case "n":
				if !c.RunNow() {
					fmt.Fprintln(out, "a check is already pending")
				}
			default:
				fmt.Fprintf(out, "[%s]?\n", cmd)
			}
		}
	}
}
