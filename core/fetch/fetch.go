// Package fetch downloads template sets published in GitHub repositories.
package fetch

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"

	"github.com/c12i/scaffolding/core/file_tree"
	"github.com/c12i/scaffolding/core/logger"
	"github.com/c12i/scaffolding/core/shared"
)

// TemplatesDir is the directory of a template repository holding one
// subdirectory per template set.
const TemplatesDir = "templates"

const defaultBaseURL = "https://codeload.github.com"

var (
	ErrInvalidLocator   = errors.New("invalid template locator")
	ErrNoTemplates      = errors.New("no templates found")
	ErrTemplateRequired = errors.New("repository has several templates, a template name is required")
	ErrUnknownTemplate  = errors.New("template not found in repository")
)

var repoPart = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Locator identifies a repository and an optional ref.
type Locator struct {
	Owner string
	Repo  string
	Ref   string
}

func (l Locator) String() string {
	s := l.Owner + "/" + l.Repo
	if l.Ref != "" {
		s += "#" + l.Ref
	}
	return s
}

// IsRemote reports whether s looks like a remote locator rather than a local
// path or built-in template name.
func IsRemote(s string) bool {
	if IsExplicitRemote(s) {
		return true
	}
	if strings.HasPrefix(s, ".") || strings.HasPrefix(s, "/") {
		return false
	}
	_, err := ParseLocator(s)
	return err == nil
}

// IsExplicitRemote reports whether s carries a scheme, so it cannot be read
// as a relative path.
func IsExplicitRemote(s string) bool {
	return strings.HasPrefix(s, "github:") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

// ParseLocator accepts github:owner/repo, owner/repo and
// https://github.com/owner/repo, each with an optional #ref.
func ParseLocator(s string) (Locator, error) {
	src := strings.TrimSpace(s)
	var ref string
	if i := strings.Index(src, "#"); i >= 0 {
		src, ref = src[:i], src[i+1:]
		if ref == "" {
			return Locator{}, fmt.Errorf("%w: %q has an empty ref", ErrInvalidLocator, s)
		}
	}

	switch {
	case strings.HasPrefix(src, "github:"):
		src = strings.TrimPrefix(src, "github:")
	case strings.HasPrefix(src, "https://github.com/"):
		src = strings.TrimPrefix(src, "https://github.com/")
		src = strings.TrimSuffix(strings.TrimSuffix(src, "/"), ".git")
	case strings.Contains(src, "://"):
		return Locator{}, fmt.Errorf("%w: %q is not a GitHub repository", ErrInvalidLocator, s)
	}

	parts := strings.Split(src, "/")
	if len(parts) != 2 || !repoPart.MatchString(parts[0]) || !repoPart.MatchString(parts[1]) {
		return Locator{}, fmt.Errorf("%w: %q, expected owner/repo", ErrInvalidLocator, s)
	}
	return Locator{Owner: parts[0], Repo: parts[1], Ref: ref}, nil
}

type Fetcher struct {
	Client  *http.Client
	BaseURL string
}

func NewFetcher() *Fetcher {
	return &Fetcher{Client: http.DefaultClient, BaseURL: defaultBaseURL}
}

func (f *Fetcher) archiveURL(l Locator) string {
	ref := l.Ref
	if ref == "" {
		ref = "HEAD"
	}
	return fmt.Sprintf("%s/%s/%s/tar.gz/%s", strings.TrimSuffix(f.BaseURL, "/"), l.Owner, l.Repo, ref)
}

// Download fetches the repository at l and returns its contents with the
// archive's top-level directory stripped.
func (f *Fetcher) Download(ctx context.Context, l Locator) (*file_tree.FileTree, error) {
	url := f.archiveURL(l)
	logger.Debug("Downloading %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, shared.CollaboratorError(l.String(), fmt.Errorf("failed to build request: %w", err))
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, shared.CollaboratorError(l.String(), fmt.Errorf("failed to download archive: %w", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, shared.CollaboratorError(l.String(), fmt.Errorf("failed to download archive: %s", resp.Status))
	}

	fsys := afero.NewMemMapFs()
	if err := extract(resp.Body, fsys); err != nil {
		return nil, shared.CollaboratorError(l.String(), err)
	}
	tree, err := file_tree.Load(fsys, "/", nil)
	if err != nil {
		return nil, shared.CollaboratorError(l.String(), err)
	}
	return tree, nil
}

// Template downloads the repository behind locator and selects one template
// set under TemplatesDir. An empty name is accepted when the repository
// holds exactly one set. It returns the chosen name and its tree.
func (f *Fetcher) Template(ctx context.Context, locator, name string) (string, *file_tree.FileTree, error) {
	l, err := ParseLocator(locator)
	if err != nil {
		return "", nil, shared.ValidationError(err)
	}
	repo, err := f.Download(ctx, l)
	if err != nil {
		return "", nil, err
	}
	chosen, err := ChooseTemplate(repo, name)
	if err != nil {
		return "", nil, shared.CollaboratorError(l.String(), err)
	}
	logger.Info("Using template %s from %s", chosen, l)
	return chosen, repo.Get(TemplatesDir + "/" + chosen), nil
}

// ChooseTemplate picks a template set from the TemplatesDir of repo.
func ChooseTemplate(repo *file_tree.FileTree, name string) (string, error) {
	dir := repo.Get(TemplatesDir)
	if dir == nil || !dir.IsDir() {
		return "", ErrNoTemplates
	}
	var names []string
	for _, n := range dir.Names() {
		if dir.Child(n).IsDir() {
			names = append(names, n)
		}
	}

	switch {
	case len(names) == 0:
		return "", ErrNoTemplates
	case name != "":
		for _, n := range names {
			if n == name {
				return n, nil
			}
		}
		return "", fmt.Errorf("%w: %q (available: %v)", ErrUnknownTemplate, name, names)
	case len(names) == 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("%w (available: %v)", ErrTemplateRequired, names)
	}
}

func extract(r io.Reader, fsys afero.Fs) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}

		name := stripTopLevel(hdr.Name)
		if name == "" {
			continue
		}
		clean := path.Clean("/" + name)
		if clean != "/"+strings.TrimSuffix(name, "/") {
			return fmt.Errorf("archive entry %q escapes the archive root", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := fsys.MkdirAll(clean, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := fsys.MkdirAll(path.Dir(clean), 0o755); err != nil {
				return err
			}
			content, err := io.ReadAll(tr)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", name, err)
			}
			if err := afero.WriteFile(fsys, clean, content, 0o644); err != nil {
				return err
			}
		default:
			logger.Debug("Skipping archive entry %s", hdr.Name)
		}
	}
}

// stripTopLevel drops the repo-ref/ directory GitHub wraps archives in.
func stripTopLevel(name string) string {
	i := strings.Index(name, "/")
	if i < 0 {
		return ""
	}
	return name[i+1:]
}
