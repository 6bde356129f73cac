package file_tree

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
)

var (
	ErrNotDirectory = errors.New("not a directory")
	ErrPathExists   = errors.New("path already exists")
	ErrInvalidPath  = errors.New("invalid path")
)

// FileTree is an in-memory directory subtree. A node is either a file with
// content or a directory with uniquely named children; there are no parent
// pointers, so a tree is always acyclic and owned by whoever holds the root.
type FileTree struct {
	content  []byte
	children map[string]*FileTree
}

func NewFile(content []byte) *FileTree {
	c := make([]byte, len(content))
	copy(c, content)
	return &FileTree{content: c}
}

func NewFileString(content string) *FileTree {
	return &FileTree{content: []byte(content)}
}

// NewDir builds a directory over children. The map is taken over by the tree.
func NewDir(children map[string]*FileTree) *FileTree {
	if children == nil {
		children = make(map[string]*FileTree)
	}
	return &FileTree{children: children}
}

func (ft *FileTree) IsDir() bool {
	return ft.children != nil
}

func (ft *FileTree) IsFile() bool {
	return ft.children == nil
}

// Content is the file content, nil for directories.
func (ft *FileTree) Content() []byte {
	return ft.content
}

// Children is the directory listing, nil for files.
func (ft *FileTree) Children() map[string]*FileTree {
	return ft.children
}

// Names returns the child names in sorted order.
func (ft *FileTree) Names() []string {
	names := make([]string, 0, len(ft.children))
	for name := range ft.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (ft *FileTree) Child(name string) *FileTree {
	if ft.children == nil {
		return nil
	}
	return ft.children[name]
}

func splitPath(p string) []string {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Get walks a slash-separated path. It returns nil when any segment is
// missing; "" or "." is the tree itself.
func (ft *FileTree) Get(p string) *FileTree {
	node := ft
	for _, segment := range splitPath(p) {
		node = node.Child(segment)
		if node == nil {
			return nil
		}
	}
	return node
}

// FileContent returns the content of the file at p.
func (ft *FileTree) FileContent(p string) ([]byte, bool) {
	node := ft.Get(p)
	if node == nil || node.IsDir() {
		return nil, false
	}
	return node.Content(), true
}

// Insert places node at p, creating intermediate directories. It fails if
// something already occupies p or a file sits where a directory is needed.
func (ft *FileTree) Insert(p string, node *FileTree) error {
	segments := splitPath(p)
	if len(segments) == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	if !ft.IsDir() {
		return fmt.Errorf("%w: root", ErrNotDirectory)
	}

	current := ft
	for i, segment := range segments[:len(segments)-1] {
		next := current.children[segment]
		if next == nil {
			next = NewDir(nil)
			current.children[segment] = next
		}
		if !next.IsDir() {
			return fmt.Errorf("%w: %s", ErrNotDirectory, strings.Join(segments[:i+1], "/"))
		}
		current = next
	}

	last := segments[len(segments)-1]
	if _, exists := current.children[last]; exists {
		return fmt.Errorf("%w: %s", ErrPathExists, p)
	}
	current.children[last] = node
	return nil
}

// Set is Insert that replaces whatever sits at p.
func (ft *FileTree) Set(p string, node *FileTree) error {
	segments := splitPath(p)
	if len(segments) == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	parent := path.Join(segments[:len(segments)-1]...)
	dir := ft.Get(parent)
	if dir != nil && dir.IsDir() {
		dir.children[segments[len(segments)-1]] = node
		return nil
	}
	return ft.Insert(p, node)
}

// Clone deep-copies the tree.
func (ft *FileTree) Clone() *FileTree {
	if ft.IsFile() {
		return NewFile(ft.content)
	}
	children := make(map[string]*FileTree, len(ft.children))
	for name, child := range ft.children {
		children[name] = child.Clone()
	}
	return NewDir(children)
}

// Paths lists the slash-separated paths of every file, sorted.
func (ft *FileTree) Paths() []string {
	var paths []string
	ft.collectPaths("", &paths)
	sort.Strings(paths)
	return paths
}

func (ft *FileTree) collectPaths(prefix string, paths *[]string) {
	if ft.IsFile() {
		if prefix != "" {
			*paths = append(*paths, prefix)
		}
		return
	}
	for name, child := range ft.children {
		child.collectPaths(path.Join(prefix, name), paths)
	}
}

// Flatten maps every file path to its content.
func (ft *FileTree) Flatten() map[string]string {
	out := make(map[string]string)
	for _, p := range ft.Paths() {
		content, _ := ft.FileContent(p)
		out[p] = string(content)
	}
	return out
}
