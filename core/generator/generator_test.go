package generator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c12i/scaffolding/core/config"
	"github.com/c12i/scaffolding/core/fetch"
	"github.com/c12i/scaffolding/core/merge"
	"github.com/c12i/scaffolding/core/models"
	"github.com/c12i/scaffolding/core/shared"
	"github.com/c12i/scaffolding/core/template_engine"
)

const dnaYaml = `
manifest_version: "1"
name: forum
integrity:
  zomes:
    - name: posts_integrity
coordinator:
  zomes:
    - name: posts
      dependencies:
        - name: posts_integrity
`

func newProject(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/app/go.mod", []byte("module example.com/forum\n\ngo 1.25\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/app/dnas/forum/workdir/dna.yaml", []byte(dnaYaml), 0o644))
	return fsys
}

func newTestGenerator(t *testing.T, fsys afero.Fs, cfg *config.Config) *Generator {
	t.Helper()
	registry, err := template_engine.BuiltinRegistry()
	require.NoError(t, err)
	return NewGenerator(fsys, "/app", cfg, registry)
}

func postRequest(t *testing.T) EntryTypeRequest {
	t.Helper()
	title, err := models.ParseFieldDefinition("title:String")
	require.NoError(t, err)
	likes, err := models.ParseFieldDefinition("likes:u32")
	require.NoError(t, err)
	return EntryTypeRequest{
		DnaRole: "forum",
		Name:    "post",
		Fields:  []models.FieldDefinition{title, likes},
		Crud:    models.Crud{Update: true, Delete: true},
	}
}

func readFile(t *testing.T, fsys afero.Fs, p string) string {
	t.Helper()
	content, err := afero.ReadFile(fsys, p)
	require.NoError(t, err)
	return string(content)
}

func TestScaffoldEntryTypeWritesFiles(t *testing.T) {
	fsys := newProject(t)
	g := newTestGenerator(t, fsys, nil)

	res, err := g.ScaffoldEntryType(context.Background(), postRequest(t))
	require.NoError(t, err)
	assert.Equal(t, "go", res.Template)
	assert.ElementsMatch(t, []string{
		"dnas/forum/zomes/coordinator/posts/post.go",
		"dnas/forum/zomes/integrity/posts_integrity/entry_types.go",
		"dnas/forum/zomes/integrity/posts_integrity/post.go",
	}, res.Written)

	integrity := readFile(t, fsys, "/app/dnas/forum/zomes/integrity/posts_integrity/post.go")
	assert.Contains(t, integrity, "type Post struct")
	coordinator := readFile(t, fsys, "/app/dnas/forum/zomes/coordinator/posts/post.go")
	assert.Contains(t, coordinator, `"example.com/forum/dnas/forum/zomes/integrity/posts_integrity"`)
	assert.NotEmpty(t, res.Scaffolded.NextInstructions)
}

func TestScaffoldEntryTypeTwiceWritesNothing(t *testing.T) {
	fsys := newProject(t)
	g := newTestGenerator(t, fsys, nil)

	_, err := g.ScaffoldEntryType(context.Background(), postRequest(t))
	require.NoError(t, err)
	res, err := g.ScaffoldEntryType(context.Background(), postRequest(t))
	require.NoError(t, err)
	assert.Empty(t, res.Written)
	assert.Empty(t, res.Scaffolded.Report.Changed())
}

func TestScaffoldEntryTypeConflictWritesNothing(t *testing.T) {
	fsys := newProject(t)
	handWritten := "package posts_integrity\n\n// mine\n"
	require.NoError(t, afero.WriteFile(fsys, "/app/dnas/forum/zomes/integrity/posts_integrity/post.go", []byte(handWritten), 0o644))
	g := newTestGenerator(t, fsys, nil)

	_, err := g.ScaffoldEntryType(context.Background(), postRequest(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, merge.ErrFileConflict))

	assert.Equal(t, handWritten, readFile(t, fsys, "/app/dnas/forum/zomes/integrity/posts_integrity/post.go"))
	exists, _ := afero.Exists(fsys, "/app/dnas/forum/zomes/coordinator/posts/post.go")
	assert.False(t, exists)
}

func TestScaffoldEntryTypeDryRun(t *testing.T) {
	fsys := newProject(t)
	g := newTestGenerator(t, fsys, nil)
	g.DryRun = true

	res, err := g.ScaffoldEntryType(context.Background(), postRequest(t))
	require.NoError(t, err)
	assert.Empty(t, res.Written)
	assert.Len(t, res.Scaffolded.Report.Inserted, 3)
	exists, _ := afero.Exists(fsys, "/app/dnas/forum/zomes/integrity/posts_integrity/post.go")
	assert.False(t, exists)
}

func TestScaffoldEntryTypeValidation(t *testing.T) {
	g := newTestGenerator(t, newProject(t), nil)

	req := postRequest(t)
	req.Name = "BlogPost"
	_, err := g.ScaffoldEntryType(context.Background(), req)
	assert.True(t, shared.IsKind(err, shared.KindValidation))

	req = postRequest(t)
	req.DnaRole = "missing"
	_, err = g.ScaffoldEntryType(context.Background(), req)
	assert.True(t, errors.Is(err, ErrNoDnaManifest))

	req = postRequest(t)
	req.Zome = "comments"
	_, err = g.ScaffoldEntryType(context.Background(), req)
	assert.True(t, errors.Is(err, ErrZomeNotFound))
}

func TestScaffoldLinkType(t *testing.T) {
	fsys := newProject(t)
	g := newTestGenerator(t, fsys, nil)

	_, err := g.ScaffoldLinkType(context.Background(), LinkTypeRequest{DnaRole: "forum", From: "post", To: "comment", Bidirectional: true})
	require.NoError(t, err)
	_, err = g.ScaffoldLinkType(context.Background(), LinkTypeRequest{DnaRole: "forum", From: "agent:author", To: "post"})
	require.NoError(t, err)

	registry := readFile(t, fsys, "/app/dnas/forum/zomes/coordinator/posts/link_types.go")
	assert.Contains(t, registry, "\t\"PostToComments\",\n\t\"CommentToPosts\",\n\t\"AuthorToPosts\",\n")
	assert.Contains(t, readFile(t, fsys, "/app/dnas/forum/zomes/coordinator/posts/author_to_posts.go"),
		"func AddAuthorToPosts(host Host, author AgentPubKey, postHash ActionHash) error")
}

func TestResolveLocalTemplate(t *testing.T) {
	fsys := newProject(t)
	require.NoError(t, afero.WriteFile(fsys, "/app/.templates/mine/entry-type/{{.EntryType.SnakeCaseName}}.txt.tmpl",
		[]byte("{{.EntryType.PascalCaseName}} in {{.AppName}}\n"), 0o644))
	cfg := config.Default()
	cfg.Template = ".templates/mine"
	g := newTestGenerator(t, fsys, cfg)

	res, err := g.ScaffoldEntryType(context.Background(), postRequest(t))
	require.NoError(t, err)
	assert.Equal(t, "mine", res.Template)
	assert.Equal(t, []string{"post.txt"}, res.Written)
	assert.Equal(t, "Post in example.com/forum\n", readFile(t, fsys, "/app/post.txt"))
}

func TestResolveLocalRepository(t *testing.T) {
	fsys := newProject(t)
	require.NoError(t, afero.WriteFile(fsys, "/repo/templates/a/x.tmpl", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/repo/templates/b/x.tmpl", []byte("b"), 0o644))
	cfg := config.Default()
	cfg.Template = "/repo"
	cfg.TemplateName = "b"
	g := newTestGenerator(t, fsys, cfg)

	name, tree, err := g.ResolveTemplate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b", name)
	assert.Equal(t, map[string]string{"x.tmpl": "b"}, tree.Flatten())
}

func TestResolveUnknownTemplate(t *testing.T) {
	cfg := config.Default()
	cfg.Template = "nope"
	g := newTestGenerator(t, newProject(t), cfg)

	_, _, err := g.ResolveTemplate(context.Background())
	assert.True(t, errors.Is(err, template_engine.ErrTemplateNotFound))
}

func TestAppNameFallsBackToDirectory(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/work/forum/dnas/forum/workdir/dna.yaml", []byte(dnaYaml), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/work/forum/.templates/t/entry-type/name.tmpl", []byte("{{.AppName}}"), 0o644))
	cfg := config.Default()
	cfg.Template = ".templates/t"
	registry, err := template_engine.BuiltinRegistry()
	require.NoError(t, err)
	g := NewGenerator(fsys, "/work/forum", cfg, registry)

	_, err = g.ScaffoldEntryType(context.Background(), postRequest(t))
	require.NoError(t, err)
	assert.Equal(t, "forum", readFile(t, fsys, "/work/forum/name"))
}

func TestScaffoldRefusesToOverwriteExcludedFiles(t *testing.T) {
	fsys := newProject(t)
	require.NoError(t, afero.WriteFile(fsys, "/app/build/notes.txt", []byte("MY HAND WRITTEN NOTES"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/app/.templates/t/entry-type/build/notes.txt", []byte("generated"), 0o644))
	cfg := config.Default()
	cfg.Template = ".templates/t"

	for _, dryRun := range []bool{false, true} {
		g := newTestGenerator(t, fsys, cfg)
		g.DryRun = dryRun
		_, err := g.ScaffoldEntryType(context.Background(), postRequest(t))
		require.Error(t, err)
		assert.True(t, errors.Is(err, merge.ErrFileConflict))
		assert.True(t, shared.IsKind(err, shared.KindConflict))
		assert.Equal(t, "MY HAND WRITTEN NOTES", readFile(t, fsys, "/app/build/notes.txt"))
	}

	require.NoError(t, afero.WriteFile(fsys, "/app/build/notes.txt", []byte("generated"), 0o644))
	res, err := newTestGenerator(t, fsys, cfg).ScaffoldEntryType(context.Background(), postRequest(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"build/notes.txt"}, res.Written)
}

func TestResolveBuiltinBeforeLocalDirectory(t *testing.T) {
	fsys := newProject(t)
	require.NoError(t, afero.WriteFile(fsys, "/app/go/entry-type/x.txt", []byte("local"), 0o644))

	name, tree, err := newTestGenerator(t, fsys, nil).ResolveTemplate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "go", name)
	assert.NotNil(t, tree.Get("entry-type.instructions.tmpl"))

	cfg := config.Default()
	cfg.Template = "./go"
	name, tree, err = newTestGenerator(t, fsys, cfg).ResolveTemplate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "go", name)
	assert.Equal(t, map[string]string{"entry-type/x.txt": "local"}, tree.Flatten())
}

func TestResolveLocalTemplateKeepsExcludedNames(t *testing.T) {
	fsys := newProject(t)
	require.NoError(t, afero.WriteFile(fsys, "/app/.templates/mine/entry-type/build/a.txt", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/app/.templates/mine/entry-type/vendor/b.txt", []byte("b"), 0o644))
	cfg := config.Default()
	cfg.Template = ".templates/mine"

	_, tree, err := newTestGenerator(t, fsys, cfg).ResolveTemplate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"entry-type/build/a.txt", "entry-type/vendor/b.txt"}, tree.Paths())
}

func TestResolveMissingRelativePath(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	cfg := config.Default()
	cfg.Template = "mytemplates/foo"
	g := newTestGenerator(t, newProject(t), cfg)
	g.Fetcher = &fetch.Fetcher{Client: srv.Client(), BaseURL: srv.URL}

	_, _, err := g.ResolveTemplate(context.Background())
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindCollaborator))
	assert.Contains(t, err.Error(), "no local directory /app/mytemplates/foo")
}
