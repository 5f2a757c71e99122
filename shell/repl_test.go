package shell

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestREPLRun(t *testing.T) {
	input := strings.Join([]string{
		"mkdir docs",
		"cd docs",
		"",
		"bogus",
		"exit",
		"pwd",
	}, "\n") + "\n"

	var out bytes.Buffer
	r := &REPL{In: strings.NewReader(input), Out: &out}
	in := newInterpreter()

	if err := r.Run(context.Background(), in); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	want := "Welcome to the Virtual File System Simulator!\n" +
		"Type commands below. Commands: mkdir, cd, ls, pwd, create, write, read, exit\n" +
		"/root $ Directory 'docs' created.\n" +
		"/root $ /root/docs\n" +
		"/root/docs $ " +
		"/root/docs $ Invalid command or syntax.\n" +
		"/root/docs $ Exiting VFS Simulator. Reload page to start again.\n"
	if out.String() != want {
		t.Errorf("Unexpected transcript:\n%s\nwant:\n%s", out.String(), want)
	}
	if in.State() != Exited {
		t.Errorf("Expected Exited, got %v", in.State())
	}
}

func TestREPLEndOfInput(t *testing.T) {
	var out bytes.Buffer
	r := &REPL{In: strings.NewReader("mkdir a\n"), Out: &out}
	in := newInterpreter()

	if err := r.Run(context.Background(), in); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if in.State() != AwaitingInput {
		t.Errorf("EOF should leave the interpreter awaiting input, got %v", in.State())
	}
	if !strings.HasSuffix(out.String(), "/root $ \n") {
		t.Errorf("Expected a final prompt, got %q", out.String())
	}
}

func TestREPLCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	r := &REPL{In: strings.NewReader("mkdir a\n"), Out: &out}
	in := newInterpreter()

	if err := r.Run(ctx, in); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if in.Session().Root().Subdirectory("a") != nil {
		t.Error("cancelled REPL must not execute input")
	}
}

func TestREPLCancelledWhileWaiting(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	r := &REPL{In: pr, Out: &out}
	in := newInterpreter()

	errCh := make(chan error, 1)
	go func() {
		errCh <- r.Run(ctx, in)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel while blocked on input")
	}
	if !strings.HasSuffix(out.String(), "/root $ \n") {
		t.Errorf("Expected the pending prompt to be closed with a newline, got %q", out.String())
	}
}
