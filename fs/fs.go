package fs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyAtRoot = errors.New("already at root")

	// ErrNoSuchDirectory is returned by cd; it also matches ErrNotFound.
	ErrNoSuchDirectory = fmt.Errorf("no such directory: %w", ErrNotFound)
)

// noneMarker replaces an empty name list in a listing.
const noneMarker = "(none)"

// Result is the outcome of a tree or navigation operation. Err is nil on
// success; Message is always displayable and may be empty on success.
type Result struct {
	Message string
	Err     error
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

func ok(format string, args ...any) Result {
	return Result{Message: fmt.Sprintf(format, args...)}
}

func fail(err error, format string, args ...any) Result {
	return Result{Message: fmt.Sprintf(format, args...), Err: err}
}

type File struct {
	Name    string
	Content string
}

// Directory owns its subdirectories and files. The name slices keep
// insertion order for listings.
type Directory struct {
	Name string

	subdirs   map[string]*Directory
	files     map[string]*File
	dirOrder  []string
	fileOrder []string
}

func NewDirectory(name string) *Directory {
	return &Directory{
		Name:    name,
		subdirs: make(map[string]*Directory),
		files:   make(map[string]*File),
	}
}

// Subdirectory returns the named child directory, or nil.
func (d *Directory) Subdirectory(name string) *Directory {
	return d.subdirs[name]
}

// File returns the named file, or nil.
func (d *Directory) File(name string) *File {
	return d.files[name]
}

func (d *Directory) SubdirectoryNames() []string {
	return append([]string(nil), d.dirOrder...)
}

func (d *Directory) FileNames() []string {
	return append([]string(nil), d.fileOrder...)
}

// Mkdir creates an empty subdirectory.
func (d *Directory) Mkdir(name string) Result {
	if _, exists := d.subdirs[name]; exists {
		return fail(ErrAlreadyExists, "Directory '%s' already exists.", name)
	}
	d.subdirs[name] = NewDirectory(name)
	d.dirOrder = append(d.dirOrder, name)
	return ok("Directory '%s' created.", name)
}

// Create creates an empty file.
func (d *Directory) Create(name string) Result {
	if _, exists := d.files[name]; exists {
		return fail(ErrAlreadyExists, "File '%s' already exists.", name)
	}
	d.files[name] = &File{Name: name}
	d.fileOrder = append(d.fileOrder, name)
	return ok("File '%s' created.", name)
}

// Write replaces the content of an existing file.
func (d *Directory) Write(name, content string) Result {
	file, exists := d.files[name]
	if !exists {
		return fail(ErrNotFound, "File '%s' not found.", name)
	}
	file.Content = content
	return ok("Written to file '%s'.", name)
}

func (d *Directory) Read(name string) Result {
	file, exists := d.files[name]
	if !exists {
		return fail(ErrNotFound, "File '%s' not found.", name)
	}
	return ok("Content of '%s': %s", name, file.Content)
}

// Listing reports subdirectories and files on two lines, each falling back
// to "(none)" independently.
func (d *Directory) Listing() Result {
	return ok("Directories: %s\nFiles: %s", joinOrNone(d.dirOrder), joinOrNone(d.fileOrder))
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return noneMarker
	}
	return strings.Join(names, " ")
}
