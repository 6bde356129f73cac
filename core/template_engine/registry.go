package template_engine

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/c12i/scaffolding/core/file_tree"
)

// TemplateFS holds the built-in template sets, one directory per set.
//
//go:embed templates
var TemplateFS embed.FS

const builtinRoot = "templates"

var ErrTemplateNotFound = errors.New("template not found")

// Registry maps template set names to their trees. It is built once and
// never mutated; Get hands out copies.
type Registry struct {
	templates map[string]*file_tree.FileTree
}

func NewRegistry(templates map[string]*file_tree.FileTree) *Registry {
	owned := make(map[string]*file_tree.FileTree, len(templates))
	for name, tree := range templates {
		owned[name] = tree.Clone()
	}
	return &Registry{templates: owned}
}

// BuiltinRegistry loads every set embedded under templates/.
func BuiltinRegistry() (*Registry, error) {
	return registryFromFS(TemplateFS, builtinRoot)
}

func registryFromFS(fsys fs.FS, root string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("failed to read template sets: %w", err)
	}

	templates := make(map[string]*file_tree.FileTree)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		tree, err := file_tree.LoadFS(fsys, root+"/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to load template set %s: %w", entry.Name(), err)
		}
		templates[entry.Name()] = tree
	}
	return &Registry{templates: templates}, nil
}

// Get returns a copy of the named template tree.
func (r *Registry) Get(name string) (*file_tree.FileTree, error) {
	tree, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrTemplateNotFound, name, r.Names())
	}
	return tree.Clone(), nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
