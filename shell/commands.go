package shell

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"vfs-simulator/fs"
	"vfs-simulator/logging"
)

// State is the interpreter's position in its input loop.
type State int

const (
	AwaitingInput State = iota
	Dispatching
	Exited
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting_input"
	case Dispatching:
		return "dispatching"
	case Exited:
		return "exited"
	default:
		return "unknown"
	}
}

const (
	invalidCommand = "Invalid command or syntax."
	farewell       = "Exiting VFS Simulator. Reload page to start again."
	promptSuffix   = " $ "
)

var banner = []string{
	"Welcome to the Virtual File System Simulator!",
	"Type commands below. Commands: mkdir, cd, ls, pwd, create, write, read, exit",
}

// Observer is notified once per dispatched command.
type Observer interface {
	ObserveCommand(verb, outcome string)
}

// Option configures an Interpreter.
type Option func(*Interpreter)

func WithLogger(log *zap.Logger) Option {
	return func(in *Interpreter) {
		in.log = log
	}
}

func WithObserver(obs Observer) Option {
	return func(in *Interpreter) {
		in.obs = obs
	}
}

// Interpreter turns single command lines into operations on one session.
// It is not safe for concurrent use.
type Interpreter struct {
	session *fs.Session
	state   State
	log     *zap.Logger
	obs     Observer
}

func New(session *fs.Session, opts ...Option) *Interpreter {
	in := &Interpreter{
		session: session,
		state:   AwaitingInput,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

func (in *Interpreter) Session() *fs.Session {
	return in.session
}

func (in *Interpreter) State() State {
	return in.state
}

// Prompt labels the next input line with the working directory.
func (in *Interpreter) Prompt() string {
	return in.session.WorkingDirectory() + promptSuffix
}

// Banner returns the welcome lines shown before the first prompt.
func (in *Interpreter) Banner() []string {
	return append([]string(nil), banner...)
}

// Execute runs one input line. Blank lines produce no output. After exit,
// every line is rejected with ErrExited.
func (in *Interpreter) Execute(line string) *CommandResult {
	if in.state == Exited {
		return &CommandResult{Err: ErrExited, Exit: true}
	}

	cmd := ParseCommand(line)
	if cmd.Command == "" {
		return &CommandResult{}
	}

	in.state = Dispatching
	result := in.dispatch(cmd)
	if result.Exit {
		in.state = Exited
	} else {
		in.state = AwaitingInput
	}

	outcome := Outcome(result.Err)
	in.log.Debug("command dispatched",
		logging.String("verb", cmd.Command),
		logging.Int("tokens", cmd.Tokens()),
		logging.String("outcome", outcome),
		logging.String("cwd", in.session.WorkingDirectory()),
	)
	if in.obs != nil {
		in.obs.ObserveCommand(metricVerb(cmd.Command), outcome)
	}
	return result
}

func (in *Interpreter) dispatch(cmd *ParsedCommand) *CommandResult {
	switch cmd.Command {
	case "mkdir":
		return in.cmdMkdir(cmd)
	case "cd":
		return in.cmdCd(cmd)
	case "ls":
		return in.cmdLs(cmd)
	case "pwd":
		return in.cmdPwd(cmd)
	case "create":
		return in.cmdCreate(cmd)
	case "write":
		return in.cmdWrite(cmd)
	case "read":
		return in.cmdRead(cmd)
	case "exit":
		return in.cmdExit(cmd)
	default:
		return &CommandResult{Lines: []string{invalidCommand}, Err: ErrUnknownCommand}
	}
}

// cmdMkdir implements mkdir <dirname>
func (in *Interpreter) cmdMkdir(cmd *ParsedCommand) *CommandResult {
	if cmd.Tokens() != 2 {
		return usage("mkdir <dirname>")
	}
	return fromResult(in.session.Current().Mkdir(cmd.Args[0]))
}

// cmdCd implements cd <dirname|..>; success prints the new working directory.
func (in *Interpreter) cmdCd(cmd *ParsedCommand) *CommandResult {
	if cmd.Tokens() != 2 {
		return usage("cd <dirname>")
	}
	res := in.session.ChangeDirectory(cmd.Args[0])
	if res.OK() {
		res.Message = in.session.WorkingDirectory()
	}
	return fromResult(res)
}

func (in *Interpreter) cmdLs(*ParsedCommand) *CommandResult {
	return fromResult(in.session.Current().Listing())
}

func (in *Interpreter) cmdPwd(*ParsedCommand) *CommandResult {
	return &CommandResult{Lines: []string{in.session.WorkingDirectory()}}
}

// cmdCreate implements create <filename>
func (in *Interpreter) cmdCreate(cmd *ParsedCommand) *CommandResult {
	if cmd.Tokens() != 2 {
		return usage("create <filename>")
	}
	return fromResult(in.session.Current().Create(cmd.Args[0]))
}

// cmdWrite implements write <filename> <content...>; the content is every
// token after the file name joined by single spaces.
func (in *Interpreter) cmdWrite(cmd *ParsedCommand) *CommandResult {
	if cmd.Tokens() < 3 {
		return usage("write <filename> <content>")
	}
	content := strings.Join(cmd.Args[1:], " ")
	return fromResult(in.session.Current().Write(cmd.Args[0], content))
}

// cmdRead implements read <filename>
func (in *Interpreter) cmdRead(cmd *ParsedCommand) *CommandResult {
	if cmd.Tokens() != 2 {
		return usage("read <filename>")
	}
	return fromResult(in.session.Current().Read(cmd.Args[0]))
}

func (in *Interpreter) cmdExit(*ParsedCommand) *CommandResult {
	return &CommandResult{Lines: []string{farewell}, Exit: true}
}

func usage(synopsis string) *CommandResult {
	return &CommandResult{Lines: []string{"Usage: " + synopsis}, Err: ErrUsage}
}

func fromResult(res fs.Result) *CommandResult {
	var lines []string
	if res.Message != "" {
		lines = strings.Split(res.Message, "\n")
	}
	return &CommandResult{Lines: lines, Err: res.Err}
}

// Outcome labels an error for logs and metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, fs.ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, fs.ErrAlreadyAtRoot):
		return "already_at_root"
	case errors.Is(err, fs.ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUsage):
		return "usage"
	case errors.Is(err, ErrUnknownCommand):
		return "unknown_command"
	case errors.Is(err, ErrExited):
		return "exited"
	default:
		return "error"
	}
}

// metricVerb keeps label cardinality bounded by folding unknown verbs.
func metricVerb(verb string) string {
	switch verb {
	case "mkdir", "cd", "ls", "pwd", "create", "write", "read", "exit":
		return verb
	default:
		return "other"
	}
}
