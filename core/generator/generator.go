package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/c12i/scaffolding/core/ast"
	"github.com/c12i/scaffolding/core/config"
	"github.com/c12i/scaffolding/core/fetch"
	"github.com/c12i/scaffolding/core/file_tree"
	"github.com/c12i/scaffolding/core/logger"
	"github.com/c12i/scaffolding/core/merge"
	"github.com/c12i/scaffolding/core/models"
	"github.com/c12i/scaffolding/core/shared"
	"github.com/c12i/scaffolding/core/template_engine"
)

var (
	ErrNoDnaManifest = errors.New("dna manifest not found")
	ErrZomeNotFound  = errors.New("zome not found")
	ErrZomeRequired  = errors.New("dna has several coordinator zomes, a zome name is required")
)

// DnaManifestPath is where a role's manifest lives inside the project.
func DnaManifestPath(role string) string {
	return path.Join("dnas", role, "workdir", "dna.yaml")
}

// Generator runs scaffolds against the project rooted at wd.
type Generator struct {
	fs       afero.Fs
	wd       string
	cfg      *config.Config
	engine   *template_engine.TemplateEngine
	registry *template_engine.Registry
	Fetcher  *fetch.Fetcher
	// DryRun computes the result without writing anything.
	DryRun bool
}

func NewGenerator(fsys afero.Fs, wd string, cfg *config.Config, registry *template_engine.Registry) *Generator {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Generator{
		fs:       fsys,
		wd:       wd,
		cfg:      cfg,
		engine:   template_engine.NewTemplateEngine(),
		registry: registry,
		Fetcher:  fetch.NewFetcher(),
	}
}

// Result is what a scaffold produced and, unless it was a dry run, wrote.
type Result struct {
	Template   string
	Scaffolded *template_engine.ScaffoldedTemplate
	Written    []string
}

type EntryTypeRequest struct {
	DnaRole string
	// Zome is the coordinator zome; it may be empty when the DNA has one.
	Zome                         string
	Name                         string
	Fields                       []models.FieldDefinition
	ReferenceEntryHash           bool
	Crud                         models.Crud
	LinkFromOriginalToEachUpdate bool
}

type LinkTypeRequest struct {
	DnaRole       string
	Zome          string
	From          string
	To            string
	Bidirectional bool
	Delete        bool
}

func (g *Generator) ScaffoldEntryType(ctx context.Context, req EntryTypeRequest) (*Result, error) {
	entry, err := models.NewEntryDefinition(models.NewSession(), req.Name, req.Fields, req.ReferenceEntryHash)
	if err != nil {
		return nil, err
	}
	app, err := g.loadApp()
	if err != nil {
		return nil, err
	}
	coordinator, integrity, err := g.zomes(app, req.DnaRole, req.Zome)
	if err != nil {
		return nil, err
	}
	name, tmpl, err := g.ResolveTemplate(ctx)
	if err != nil {
		return nil, err
	}
	policies, err := g.cfg.Policies()
	if err != nil {
		return nil, shared.ValidationError(err)
	}

	data := template_engine.ScaffoldEntryTypeData{
		AppName:                      g.appName(app),
		DnaRoleName:                  req.DnaRole,
		CoordinatorZomeManifest:      coordinator,
		IntegrityZomeManifest:        integrity,
		EntryType:                    entry,
		Crud:                         req.Crud,
		LinkFromOriginalToEachUpdate: req.LinkFromOriginalToEachUpdate,
	}
	scaffolded, err := g.engine.ScaffoldEntryType(app, tmpl, data, policies)
	if err != nil {
		return nil, err
	}
	return g.persist(name, scaffolded)
}

func (g *Generator) ScaffoldLinkType(ctx context.Context, req LinkTypeRequest) (*Result, error) {
	app, err := g.loadApp()
	if err != nil {
		return nil, err
	}
	coordinator, _, err := g.zomes(app, req.DnaRole, req.Zome)
	if err != nil {
		return nil, err
	}
	link, err := models.NewLinkTypeData(req.DnaRole, coordinator.Name, req.From, req.To, req.Bidirectional, req.Delete)
	if err != nil {
		return nil, err
	}
	name, tmpl, err := g.ResolveTemplate(ctx)
	if err != nil {
		return nil, err
	}
	policies, err := g.cfg.Policies()
	if err != nil {
		return nil, shared.ValidationError(err)
	}

	data := template_engine.ScaffoldLinkTypeData{AppName: g.appName(app), LinkType: link}
	scaffolded, err := g.engine.ScaffoldLinkType(app, tmpl, data, policies)
	if err != nil {
		return nil, err
	}
	return g.persist(name, scaffolded)
}

// ResolveTemplate finds the configured template: a built-in set first, then
// a local directory, then a remote repository. A local directory that shares
// a built-in name is reached with an explicit path such as ./go.
func (g *Generator) ResolveTemplate(ctx context.Context) (string, *file_tree.FileTree, error) {
	ref := g.cfg.Template

	if g.registry != nil && g.registry.Has(ref) {
		tree, err := g.registry.Get(ref)
		return ref, tree, err
	}

	local := ref
	if !filepath.IsAbs(local) {
		local = filepath.Join(g.wd, local)
	}
	if isDir, _ := afero.IsDir(g.fs, local); isDir {
		// template sets keep every file, whatever the project excludes
		tree, err := file_tree.Load(g.fs, local, nil)
		if err != nil {
			return "", nil, shared.CollaboratorError(local, err)
		}
		if tree.Get(fetch.TemplatesDir) != nil {
			chosen, err := fetch.ChooseTemplate(tree, g.cfg.TemplateName)
			if err != nil {
				return "", nil, shared.CollaboratorError(local, err)
			}
			return chosen, tree.Get(fetch.TemplatesDir + "/" + chosen), nil
		}
		return filepath.Base(local), tree, nil
	}

	if fetch.IsRemote(ref) {
		name, tree, err := g.Fetcher.Template(ctx, ref, g.cfg.TemplateName)
		if err != nil && !fetch.IsExplicitRemote(ref) {
			return "", nil, shared.CollaboratorError(ref,
				fmt.Errorf("no local directory %s, and fetching it as a GitHub repository failed: %w", local, err))
		}
		return name, tree, err
	}

	var available []string
	if g.registry != nil {
		available = g.registry.Names()
	}
	return "", nil, shared.ValidationError(fmt.Errorf("%w: %q is not a directory, built-in template %v or remote locator",
		template_engine.ErrTemplateNotFound, ref, available))
}

func (g *Generator) loadApp() (*file_tree.FileTree, error) {
	app, err := file_tree.Load(g.fs, g.wd, g.cfg.Exclude)
	if err != nil {
		return nil, shared.CollaboratorError(g.wd, fmt.Errorf("failed to load project: %w", err))
	}
	return app, nil
}

// zomes picks the coordinator zome named zome, or the only one, and the
// integrity zome it depends on.
func (g *Generator) zomes(app *file_tree.FileTree, role, zome string) (models.ZomeManifest, models.ZomeManifest, error) {
	manifestPath := DnaManifestPath(role)
	content, ok := app.FileContent(manifestPath)
	if !ok {
		return models.ZomeManifest{}, models.ZomeManifest{}, shared.ValidationError(fmt.Errorf("%w: %s", ErrNoDnaManifest, manifestPath))
	}
	manifest, err := models.ParseDnaManifest(content)
	if err != nil {
		return models.ZomeManifest{}, models.ZomeManifest{}, shared.ValidationError(err)
	}

	var coordinator models.ZomeManifest
	switch {
	case zome != "":
		z, ok := manifest.CoordinatorZome(zome)
		if !ok {
			return models.ZomeManifest{}, models.ZomeManifest{}, shared.ValidationError(fmt.Errorf("%w: coordinator %q in %s", ErrZomeNotFound, zome, role))
		}
		coordinator = z
	case len(manifest.Coordinator.Zomes) == 1:
		coordinator = manifest.Coordinator.Zomes[0]
	case len(manifest.Coordinator.Zomes) == 0:
		return models.ZomeManifest{}, models.ZomeManifest{}, shared.ValidationError(fmt.Errorf("%w: %s has no coordinator zomes", ErrZomeNotFound, role))
	default:
		return models.ZomeManifest{}, models.ZomeManifest{}, shared.ValidationError(ErrZomeRequired)
	}

	integrity, ok := manifest.IntegrityZomeFor(coordinator)
	if !ok {
		return models.ZomeManifest{}, models.ZomeManifest{}, shared.ValidationError(fmt.Errorf("%w: %s has no integrity zomes", ErrZomeNotFound, role))
	}
	logger.Debug("Using coordinator zome %s and integrity zome %s", coordinator.Name, integrity.Name)
	return coordinator, integrity, nil
}

// appName is the project's Go module path, or the directory name when it
// has no go.mod.
func (g *Generator) appName(app *file_tree.FileTree) string {
	content, ok := app.FileContent("go.mod")
	if !ok {
		logger.Debug("Could not read go.mod, using directory name as app name")
		return filepath.Base(g.wd)
	}
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module"))
		}
	}
	logger.Debug("No module declaration found in go.mod, using directory name")
	return filepath.Base(g.wd)
}

func (g *Generator) persist(templateName string, scaffolded *template_engine.ScaffoldedTemplate) (*Result, error) {
	result := &Result{Template: templateName, Scaffolded: scaffolded}
	changed := scaffolded.Report.Changed()
	if len(changed) == 0 {
		logger.Info("Nothing to write, project already up to date")
		return result, nil
	}
	if err := g.checkInserted(scaffolded); err != nil {
		return nil, err
	}
	if err := ast.CheckTree(scaffolded.FileTree, changed); err != nil {
		return nil, err
	}
	if g.DryRun {
		for _, p := range changed {
			logger.Info("Would write %s", p)
		}
		return result, nil
	}
	if err := file_tree.Write(g.fs, g.wd, scaffolded.FileTree, changed); err != nil {
		return nil, shared.CollaboratorError(g.wd, err)
	}
	result.Written = changed
	return result, nil
}


// checkInserted refuses to overwrite files the merge never saw, such as
// files under excluded directories, unless they already hold the rendered
// content.
func (g *Generator) checkInserted(scaffolded *template_engine.ScaffoldedTemplate) error {
	for _, p := range scaffolded.Report.Inserted {
		target := filepath.Join(g.wd, filepath.FromSlash(p))
		info, err := g.fs.Stat(target)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return shared.CollaboratorError(p, err)
		}
		if info.IsDir() {
			return shared.ConflictError(p, merge.ErrTypeMismatch)
		}
		existing, err := afero.ReadFile(g.fs, target)
		if err != nil {
			return shared.CollaboratorError(p, err)
		}
		rendered, _ := scaffolded.FileTree.FileContent(p)
		if !bytes.Equal(existing, rendered) {
			return shared.ConflictError(p, merge.ErrFileConflict)
		}
	}
	return nil
}
