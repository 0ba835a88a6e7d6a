// Package fsnode models filesystem locations as lazily evaluated nodes.
//
// A Node is plain data: a parent (another node or a root label) and a name, tagged with
// the role it plays (generic directory, semester, course or file). Nothing touches the
// filesystem until a listing or read is requested, and listings are memoized per node
// until ClearCache is called.
package fsnode

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

var ErrFileParent = errors.New("a file cannot contain other paths")
var ErrFileNotFound = errors.New("file not found")

type Kind int

const (
	Directory Kind = iota
	Semester
	Course
	File
)

func (k Kind) String() string {
	switch k {
	case Directory:
		return "Directory"
	case Semester:
		return "Semester"
	case Course:
		return "Course"
	case File:
		return "File"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsDirectory reports whether nodes of this kind may contain children.
func (k Kind) IsDirectory() bool {
	return k != File
}

// Filesystem is the shared context of all nodes created from it.
type Filesystem struct {
	fs  afero.Fs
	log zerolog.Logger
}

func NewFilesystem(fs afero.Fs, log zerolog.Logger) *Filesystem {
	return &Filesystem{fs: fs, log: log}
}

// Fs exposes the underlying filesystem for callers that write files next to nodes.
func (f *Filesystem) Fs() afero.Fs {
	return f.fs
}

type Node struct {
	fs     *Filesystem
	parent *Node  //nil if anchored directly at a root label
	root   string //only meaningful if parent is nil
	name   string
	kind   Kind
	cache  map[string]interface{}
}

// Anchor creates a node whose parent is a plain root label such as "/" or "/home/user".
func (f *Filesystem) Anchor(root string, name string, kind Kind) *Node {
	return &Node{fs: f, root: root, name: name, kind: kind, cache: make(map[string]interface{})}
}

// Open creates a node for an arbitrary path by splitting off its last element.
func (f *Filesystem) Open(path string, kind Kind) *Node {
	parent, name := SplitParent(path)
	return f.Anchor(parent, name, kind)
}

// Child creates a node below n. Files cannot have children.
func (n *Node) Child(name string, kind Kind) (*Node, error) {
	if !n.kind.IsDirectory() {
		return nil, fmt.Errorf("cannot create %s below %s: %w", name, n.FullPath(), ErrFileParent)
	}
	return &Node{fs: n.fs, parent: n, name: name, kind: kind, cache: make(map[string]interface{})}, nil
}

// As reinterprets the same location under another role. The returned node starts with an empty cache.
func (n *Node) As(kind Kind) *Node {
	return &Node{fs: n.fs, parent: n.parent, root: n.root, name: n.name, kind: kind, cache: make(map[string]interface{})}
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) Kind() Kind {
	return n.kind
}

// Parent returns the parent node or nil if n is anchored at a root label.
func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Filesystem() *Filesystem {
	return n.fs
}

// FullPath joins the names of all ancestors down to the root label. The result is cleaned.
func (n *Node) FullPath() string {
	if n.parent == nil {
		return filepath.Join(n.root, n.name)
	}
	return filepath.Join(n.parent.FullPath(), n.name)
}

// Key identifies the location independent of node identity and role, usable as map key.
func (n *Node) Key() string {
	return n.FullPath()
}

// Equal compares by normalized full path.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.Key() == other.Key()
}

func (n *Node) String() string {
	return fmt.Sprintf("%s: %s", n.kind, n.name)
}

func (n *Node) Exists() bool {
	_, err := n.fs.fs.Stat(n.FullPath())
	return err == nil
}

func (n *Node) IsDir() bool {
	info, err := n.fs.fs.Stat(n.FullPath())
	return err == nil && info.IsDir()
}

func (n *Node) IsFile() bool {
	info, err := n.fs.fs.Stat(n.FullPath())
	return err == nil && info.Mode().IsRegular()
}

// Read returns the textual content of the node.
func (n *Node) Read() (string, error) {
	content, err := afero.ReadFile(n.fs.fs, n.FullPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", n.FullPath(), ErrFileNotFound)
		}
		return "", err
	}
	return string(content), nil
}

// SplitParent separates the last element of a path from the rest.
// A trailing separator is ignored, i.e. "a/b/" yields ("a", "b").
func SplitParent(path string) (parent string, name string) {
	if path == "" {
		return "", ""
	}
	trimmed := strings.TrimRight(path, string(filepath.Separator))
	if trimmed == "" { //only separators, i.e. the filesystem root
		return string(filepath.Separator), ""
	}
	name = filepath.Base(trimmed)
	parent = filepath.Dir(trimmed)
	if parent == "." && !strings.HasPrefix(trimmed, ".") {
		parent = ""
	}
	return parent, name
}
