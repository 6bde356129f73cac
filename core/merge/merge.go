// Package merge folds a freshly rendered file tree into an existing
// application tree without destroying content the application owns.
package merge

import (
	"bytes"
	"errors"
	"fmt"
	"path"

	"github.com/c12i/scaffolding/core/file_tree"
	"github.com/c12i/scaffolding/core/logger"
	"github.com/c12i/scaffolding/core/shared"
)

var (
	ErrFileConflict    = errors.New("file already exists with different content")
	ErrTypeMismatch    = errors.New("file and directory at the same path")
	ErrNothingRendered = errors.New("no rendered tree to merge")
)

// Report lists what a merge did, by slash-separated path.
type Report struct {
	Inserted  []string
	Spliced   []string
	Unchanged []string
}

// Changed lists every path whose content differs from the application tree
// the merge started from.
func (r *Report) Changed() []string {
	out := make([]string, 0, len(r.Inserted)+len(r.Spliced))
	out = append(out, r.Inserted...)
	return append(out, r.Spliced...)
}

// Merge folds rendered into app and returns the merged tree. app is not
// modified; the caller should nevertheless treat it as consumed and use only
// the returned tree. On error nothing is returned, so a failed merge can never
// be partially persisted.
func Merge(app, rendered *file_tree.FileTree, policies PolicySet) (*file_tree.FileTree, *Report, error) {
	if app == nil {
		app = file_tree.NewDir(nil)
	}
	if rendered == nil {
		return nil, nil, shared.TemplateError("/", ErrNothingRendered)
	}
	if !app.IsDir() || !rendered.IsDir() {
		return nil, nil, shared.ConflictError("/", ErrTypeMismatch)
	}

	merged := app.Clone()
	report := &Report{}
	if err := mergeDir(merged, rendered, "", policies, report); err != nil {
		return nil, nil, err
	}

	logger.Debug("Merge: %d inserted, %d spliced, %d unchanged",
		len(report.Inserted), len(report.Spliced), len(report.Unchanged))
	return merged, report, nil
}

func mergeDir(dst, src *file_tree.FileTree, prefix string, policies PolicySet, report *Report) error {
	for _, name := range src.Names() {
		incoming := src.Child(name)
		p := path.Join(prefix, name)
		existing := dst.Child(name)

		switch {
		case existing == nil:
			dst.Children()[name] = incoming.Clone()
			report.Inserted = append(report.Inserted, insertedPaths(incoming, p)...)

		case existing.IsDir() && incoming.IsDir():
			if err := mergeDir(existing, incoming, p, policies, report); err != nil {
				return err
			}

		case existing.IsFile() && incoming.IsFile():
			content, err := mergeFile(p, existing.Content(), incoming.Content(), policies.PolicyFor(p))
			if err != nil {
				return err
			}
			if content == nil {
				report.Unchanged = append(report.Unchanged, p)
				continue
			}
			dst.Children()[name] = file_tree.NewFile(content)
			report.Spliced = append(report.Spliced, p)

		default:
			return shared.ConflictError(p, ErrTypeMismatch)
		}
	}
	return nil
}

// mergeFile returns the new content for p, or nil when the existing file
// already has it.
func mergeFile(p string, existing, incoming []byte, policy Policy) ([]byte, error) {
	if bytes.Equal(existing, incoming) {
		return nil, nil
	}

	var merged string
	var err error
	switch policy {
	case PolicySplice:
		merged, err = Splice(string(existing), string(incoming))
	case PolicyAppend:
		merged, err = Append(string(existing), string(incoming))
	case PolicyFail:
		return nil, shared.ConflictError(p, ErrFileConflict)
	default:
		return nil, shared.ConflictError(p, fmt.Errorf("unknown merge policy %v", policy))
	}
	if err != nil {
		return nil, shared.ConflictError(p, err)
	}

	if merged == string(existing) {
		return nil, nil
	}
	return []byte(merged), nil
}

func insertedPaths(node *file_tree.FileTree, p string) []string {
	if node.IsFile() {
		return []string{p}
	}
	var out []string
	for _, child := range node.Paths() {
		out = append(out, path.Join(p, child))
	}
	return out
}
