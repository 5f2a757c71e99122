package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// REPL renders an interpreter on a plain text terminal.
type REPL struct {
	In    io.Reader
	Out   io.Writer
	Color bool
}

// Run prints the banner and then prompts for lines until the session exits,
// input ends or ctx is cancelled, including while waiting for a line.
func (r *REPL) Run(ctx context.Context, in *Interpreter) error {
	prompt := color.New(color.FgCyan, color.Bold)
	failure := color.New(color.FgRed)
	if !r.Color {
		prompt.DisableColor()
		failure.DisableColor()
	}

	for _, line := range in.Banner() {
		fmt.Fprintln(r.Out, line)
	}

	done := make(chan struct{})
	defer close(done)
	lines, readErr := r.readLines(done)

	for in.State() != Exited {
		if err := ctx.Err(); err != nil {
			return err
		}

		prompt.Fprint(r.Out, in.Prompt())

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.Out)
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.Out)
				return <-readErr
			}
			line = l
		}

		result := in.Execute(line)
		for _, out := range result.Lines {
			if result.Err != nil {
				failure.Fprintln(r.Out, out)
			} else {
				fmt.Fprintln(r.Out, out)
			}
		}
	}
	return nil
}

// readLines scans In on its own goroutine. The lines channel is closed at
// end of input, after the scan error has been sent on the error channel.
// A read still blocked when done closes is abandoned.
func (r *REPL) readLines(done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				readErr <- nil
				return
			}
		}
		readErr <- scanner.Err()
	}()

	return lines, readErr
}
