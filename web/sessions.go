package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"vfs-simulator/fs"
	"vfs-simulator/logging"
	"vfs-simulator/shell"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

// sessionIDBytes gives 128-bit session IDs.
const sessionIDBytes = 16

// Reply is what the browser terminal renders after each request.
type Reply struct {
	ID      string   `json:"id"`
	Lines   []string `json:"lines"`
	Prompt  string   `json:"prompt"`
	Exited  bool     `json:"exited"`
	Outcome string   `json:"outcome,omitempty"`
}

// terminal serializes commands for one interpreter.
type terminal struct {
	mu       sync.Mutex
	interp   *shell.Interpreter
	lastUsed time.Time
}

// SessionLifecycle is notified when sessions open and close.
type SessionLifecycle interface {
	SessionOpened()
	SessionClosed()
}

// SessionManager owns one independent tree per browser session. Sessions
// are addressed by random IDs and dropped on exit or after idleTTL without
// a command.
type SessionManager struct {
	sessions  map[string]*terminal
	rootName  string
	limit     int
	idleTTL   time.Duration
	now       func() time.Time
	log       *zap.Logger
	observer  shell.Observer
	lifecycle SessionLifecycle
	mu        sync.RWMutex
}

// NewSessionManager creates a manager whose sessions start at a root named
// rootName. At most limit sessions may be open at once.
func NewSessionManager(rootName string, limit int, idleTTL time.Duration, log *zap.Logger) *SessionManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionManager{
		sessions: make(map[string]*terminal),
		rootName: rootName,
		limit:    limit,
		idleTTL:  idleTTL,
		now:      time.Now,
		log:      log,
	}
}

// Observe attaches command and lifecycle observers. Either may be nil.
func (sm *SessionManager) Observe(obs shell.Observer, lifecycle SessionLifecycle) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.observer = obs
	sm.lifecycle = lifecycle
}

// newSessionID returns a random hex string.
func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("crypto/rand failure: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Create opens a new session and returns its banner and first prompt.
func (sm *SessionManager) Create() (Reply, error) {
	id, err := newSessionID()
	if err != nil {
		return Reply{}, err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= sm.limit {
		return Reply{}, ErrTooManySessions
	}

	opts := []shell.Option{shell.WithLogger(sm.log.With(logging.String("session", id)))}
	if sm.observer != nil {
		opts = append(opts, shell.WithObserver(sm.observer))
	}
	interp := shell.New(fs.NewSession(sm.rootName), opts...)
	sm.sessions[id] = &terminal{interp: interp, lastUsed: sm.now()}
	if sm.lifecycle != nil {
		sm.lifecycle.SessionOpened()
	}
	sm.log.Info("session created", logging.String("session", id), logging.Int("open", len(sm.sessions)))

	return Reply{
		ID:     id,
		Lines:  interp.Banner(),
		Prompt: interp.Prompt(),
	}, nil
}

func (sm *SessionManager) get(id string) *terminal {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// Execute runs one line in the given session. The session is dropped as
// soon as it exits.
func (sm *SessionManager) Execute(id string, line string) (Reply, error) {
	t := sm.get(id)
	if t == nil {
		return Reply{}, ErrSessionNotFound
	}

	t.mu.Lock()
	res := t.interp.Execute(line)
	t.lastUsed = sm.now()
	prompt := t.interp.Prompt()
	t.mu.Unlock()

	// A concurrent request may have run exit first.
	if errors.Is(res.Err, shell.ErrExited) {
		return Reply{ID: id, Lines: []string{}, Exited: true, Outcome: shell.Outcome(res.Err)}, res.Err
	}

	lines := res.Lines
	if lines == nil {
		lines = []string{}
	}
	reply := Reply{
		ID:      id,
		Lines:   lines,
		Exited:  res.Exit,
		Outcome: shell.Outcome(res.Err),
	}
	if res.Exit {
		sm.remove(id, "exited")
	} else {
		reply.Prompt = prompt
	}
	return reply, nil
}

// Close discards a session and its tree.
func (sm *SessionManager) Close(id string) error {
	if !sm.remove(id, "closed") {
		return ErrSessionNotFound
	}
	return nil
}

func (sm *SessionManager) remove(id, reason string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, ok := sm.sessions[id]; !ok {
		return false
	}
	sm.drop(id, reason)
	return true
}

// drop must be called with sm.mu held.
func (sm *SessionManager) drop(id, reason string) {
	delete(sm.sessions, id)
	if sm.lifecycle != nil {
		sm.lifecycle.SessionClosed()
	}
	sm.log.Info("session removed",
		logging.String("session", id),
		logging.String("reason", reason),
		logging.Int("open", len(sm.sessions)),
	)
}

// Sweep drops every session idle for at least idleTTL as of now and
// returns how many were dropped.
func (sm *SessionManager) Sweep(now time.Time) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	swept := 0
	for id, t := range sm.sessions {
		t.mu.Lock()
		idle := now.Sub(t.lastUsed)
		t.mu.Unlock()
		if idle >= sm.idleTTL {
			sm.drop(id, "idle")
			swept++
		}
	}
	return swept
}

// StartSweeper sweeps idle sessions every interval until ctx is done.
func (sm *SessionManager) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := sm.Sweep(sm.now()); n > 0 {
					sm.log.Debug("idle sessions swept", logging.Int("count", n))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// List returns the open session IDs in ascending order.
func (sm *SessionManager) List() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
