package file_tree

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/c12i/scaffolding/core/logger"
)

// DefaultExclude lists directory names never loaded into a tree.
var DefaultExclude = []string{
	".git", "node_modules", "vendor", "target", ".cargo",
	"dist", "build", "__pycache__", ".DS_Store",
}

// Load reads the directory at root into memory, skipping any entry whose
// name is in exclude.
func Load(fsys afero.Fs, root string, exclude []string) (*FileTree, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	skip := make(map[string]bool, len(exclude))
	for _, ex := range exclude {
		skip[ex] = true
	}

	tree := NewDir(nil)
	err = afero.Walk(fsys, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if skip[info.Name()] {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			return tree.Insert(relPath, NewDir(nil))
		}
		content, err := afero.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		return tree.Insert(relPath, &FileTree{content: content})
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Loaded %d files from %s", len(tree.Paths()), root)
	return tree, nil
}

// LoadFS reads a read-only fs.FS subtree, such as an embedded template set.
func LoadFS(fsys fs.FS, root string) (*FileTree, error) {
	tree := NewDir(nil)
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		relPath := strings.TrimPrefix(p, root+"/")
		if d.IsDir() {
			return tree.Insert(relPath, NewDir(nil))
		}
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		return tree.Insert(relPath, &FileTree{content: content})
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// Write persists the files at paths (all files when paths is nil) under root.
func Write(fsys afero.Fs, root string, tree *FileTree, paths []string) error {
	if paths == nil {
		paths = tree.Paths()
	}
	for _, p := range paths {
		content, ok := tree.FileContent(p)
		if !ok {
			return fmt.Errorf("no file at %s", p)
		}
		outputPath := filepath.Join(root, filepath.FromSlash(p))
		if err := fsys.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := afero.WriteFile(fsys, outputPath, content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputPath, err)
		}
		logger.Debug("Wrote %s", path.Clean(p))
	}
	return nil
}
