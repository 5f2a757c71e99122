package shell

import (
	"errors"
	"strings"
)

var (
	ErrUsage          = errors.New("usage")
	ErrUnknownCommand = errors.New("unknown command")
	ErrExited         = errors.New("session exited")
)

// ParsedCommand represents a parsed command with its arguments
type ParsedCommand struct {
	Command string
	Args    []string
}

// Tokens counts the command word and its arguments.
func (p *ParsedCommand) Tokens() int {
	if p.Command == "" {
		return 0
	}
	return 1 + len(p.Args)
}

// ParseCommand trims the line and splits it on single spaces. Consecutive
// spaces yield empty tokens; there is no quoting.
func ParseCommand(input string) *ParsedCommand {
	input = strings.TrimSpace(input)
	if input == "" {
		return &ParsedCommand{Command: "", Args: []string{}}
	}

	parts := strings.Split(input, " ")
	return &ParsedCommand{
		Command: parts[0],
		Args:    parts[1:],
	}
}

// CommandResult represents the result of executing a command
type CommandResult struct {
	Lines []string
	Err   error
	Exit  bool // true once the session has reached its terminal state
}

// Output joins the result lines the way a terminal prints them.
func (r *CommandResult) Output() string {
	return strings.Join(r.Lines, "\n")
}
