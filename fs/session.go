package fs

import (
	"strings"
)

// ParentDir is the only relative name cd understands besides child names.
const ParentDir = ".."

// Session tracks a position inside one tree. The path always names the
// chain from the root to the current directory.
type Session struct {
	root    *Directory
	current *Directory
	path    []string
}

// NewSession creates a fresh tree and positions the session at its root.
func NewSession(rootName string) *Session {
	root := NewDirectory(rootName)
	return &Session{
		root:    root,
		current: root,
		path:    []string{rootName},
	}
}

func (s *Session) Root() *Directory {
	return s.root
}

func (s *Session) Current() *Directory {
	return s.current
}

// Path returns a copy of the names from the root to the current directory.
func (s *Session) Path() []string {
	return append([]string(nil), s.path...)
}

// ChangeDirectory moves into a child directory, or up one level for "..".
// A successful move carries an empty message.
func (s *Session) ChangeDirectory(name string) Result {
	if name == ParentDir {
		if len(s.path) == 1 {
			return fail(ErrAlreadyAtRoot, "Already at root.")
		}
		s.path = s.path[:len(s.path)-1]
		s.current = s.walk(s.path[1:])
		return Result{}
	}

	child := s.current.Subdirectory(name)
	if child == nil {
		return fail(ErrNoSuchDirectory, "No such directory: %s", name)
	}
	s.current = child
	s.path = append(s.path, name)
	return Result{}
}

// walk follows names from the root. Every name is known to exist because
// the path only ever grows by successful descents.
func (s *Session) walk(names []string) *Directory {
	dir := s.root
	for _, name := range names {
		dir = dir.subdirs[name]
	}
	return dir
}

// WorkingDirectory renders the path as "/root/a/b".
func (s *Session) WorkingDirectory() string {
	return "/" + strings.Join(s.path, "/")
}
