package cmd

import (
	"archive/tar"
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c12i/scaffolding/core/fetch"
)

const forumDna = `
manifest_version: "1"
name: forum
integrity:
  zomes:
    - name: posts_integrity
coordinator:
  zomes:
    - name: posts
`

func resetFlag(f *pflag.Flag) {
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		_ = sv.Replace(nil)
	} else {
		_ = f.Value.Set(f.DefValue)
	}
	f.Changed = false
}

// resetFlags restores every flag to its default so commands can run more
// than once per process.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(resetFlag)
	c.PersistentFlags().VisitAll(resetFlag)
	for _, child := range c.Commands() {
		resetFlags(child)
	}
}

func run(t *testing.T, fsys afero.Fs, args ...string) (string, error) {
	t.Helper()
	appFs = fsys
	t.Cleanup(func() { appFs = afero.NewOsFs() })
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func newProjectFs(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/proj/go.mod", []byte("module example.com/forum\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/proj/dnas/forum/workdir/dna.yaml", []byte(forumDna), 0o644))
	return fsys
}

func TestVersion(t *testing.T) {
	out, err := run(t, afero.NewMemMapFs(), "version")
	require.NoError(t, err)
	assert.Equal(t, "scaffolding dev\n", out)
}

func TestTemplateList(t *testing.T) {
	out, err := run(t, afero.NewMemMapFs(), "template", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "go\n")
}

func TestInitConfig(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/proj", 0o755))

	out, err := run(t, fsys, "init-config", "--app-dir", "/proj")
	require.NoError(t, err)
	assert.Contains(t, out, "/proj/scaffold.yaml")
	content, err := afero.ReadFile(fsys, "/proj/scaffold.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(content), "template: go")

	_, err = run(t, fsys, "init-config", "--app-dir", "/proj")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = run(t, fsys, "init-config", "--app-dir", "/proj", "--force")
	assert.NoError(t, err)
}

func TestEntryTypeCommand(t *testing.T) {
	fsys := newProjectFs(t)

	out, err := run(t, fsys, "entry-type", "post", "--dna", "forum", "--app-dir", "/proj",
		"--field", "title:String", "--field", "likes:u32")
	require.NoError(t, err)
	assert.Contains(t, out, "Scaffolded entry type post")
	assert.Contains(t, out, "dnas/forum/zomes/integrity/posts_integrity/post.go")

	content, err := afero.ReadFile(fsys, "/proj/dnas/forum/zomes/integrity/posts_integrity/post.go")
	require.NoError(t, err)
	assert.Contains(t, string(content), "Likes uint32")
}

func TestEntryTypeCommandDryRun(t *testing.T) {
	fsys := newProjectFs(t)

	out, err := run(t, fsys, "entry-type", "post", "--dna", "forum", "--app-dir", "/proj",
		"--field", "title:String", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "(dry run)")

	exists, _ := afero.Exists(fsys, "/proj/dnas/forum/zomes/integrity/posts_integrity/post.go")
	assert.False(t, exists)
}

func TestEntryTypeCommandRejectsBadField(t *testing.T) {
	_, err := run(t, newProjectFs(t), "entry-type", "post", "--dna", "forum", "--app-dir", "/proj",
		"--field", "Title:String")
	assert.Error(t, err)
}

func TestEntryTypeCommandRequiresDna(t *testing.T) {
	_, err := run(t, newProjectFs(t), "entry-type", "post", "--app-dir", "/proj")
	assert.Error(t, err)
}

func TestLinkTypeCommand(t *testing.T) {
	fsys := newProjectFs(t)

	out, err := run(t, fsys, "link-type", "post", "comment", "--dna", "forum", "--app-dir", "/proj", "--bidirectional")
	require.NoError(t, err)
	assert.Contains(t, out, "Scaffolded link type")

	registry, err := afero.ReadFile(fsys, "/proj/dnas/forum/zomes/coordinator/posts/link_types.go")
	require.NoError(t, err)
	assert.Contains(t, string(registry), `"CommentToPosts",`)
}

func templateArchive(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	content := "{{.EntryType.PascalCaseName}}\n"
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "templates-main/templates/mine/entry-type/{{.EntryType.SnakeCaseName}}.txt.tmpl",
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len(content)),
	}))
	_, err := tw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestTemplateGetThenScaffold(t *testing.T) {
	body := templateArchive(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	prev := templateFetcher
	templateFetcher = &fetch.Fetcher{Client: srv.Client(), BaseURL: srv.URL}
	t.Cleanup(func() { templateFetcher = prev })

	fsys := newProjectFs(t)
	out, err := run(t, fsys, "template", "get", "github:holo/templates", "--app-dir", "/proj")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved template mine to /proj/.templates/mine")

	_, err = run(t, fsys, "template", "get", "github:holo/templates", "--app-dir", "/proj")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fsys, "/proj/scaffold.yaml", []byte("template: .templates/mine\n"), 0o644))
	_, err = run(t, fsys, "entry-type", "post", "--dna", "forum", "--app-dir", "/proj")
	require.NoError(t, err)
	content, err := afero.ReadFile(fsys, "/proj/post.txt")
	require.NoError(t, err)
	assert.Equal(t, "Post\n", string(content))
}
