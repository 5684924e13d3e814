package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"

	"github.com/saucelabs/zipdeploy/internal/deployignore"
)

// readArchive returns the regular files of the archive at name, keyed by entry name.
func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()

	r, err := zip.OpenReader(name)
	require.NoError(t, err)
	defer r.Close()

	files := map[string]string{}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		files[f.Name] = string(b)
	}

	return files
}

func TestWriter_Add(t *testing.T) {
	dir := fs.NewDir(t, "tests",
		fs.WithDir("screenshots", fs.WithFile("screenshot1.png", "foo", fs.WithMode(0755))),
		fs.WithFile("some.foo.js", "foo", fs.WithMode(0755)),
		fs.WithFile("some.other.bar.js", "bar", fs.WithMode(0755)))
	defer dir.Remove()

	tests := []struct {
		name      string
		matcher   deployignore.Matcher
		wantCount int
		wantFiles []string
	}{
		{
			name:      "zip it up",
			matcher:   deployignore.NewMatcher([]deployignore.Pattern{}),
			wantCount: 3,
			wantFiles: []string{"screenshots/screenshot1.png", "some.foo.js", "some.other.bar.js"},
		},
		{
			name: "zip some.other.bar.js and skip some.foo.js file and screenshots folder",
			matcher: deployignore.NewMatcher([]deployignore.Pattern{
				deployignore.NewPattern("some.foo.js"),
				deployignore.NewPattern("screenshots/"),
			}),
			wantCount: 1,
			wantFiles: []string{"some.other.bar.js"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			z := New(&buf, tt.matcher)

			total := 0
			entries, err := os.ReadDir(dir.Path())
			require.NoError(t, err)
			for _, e := range entries {
				n, err := z.Add(dir.Join(e.Name()), "")
				require.NoError(t, err)
				total += n
			}
			require.NoError(t, z.Close())
			assert.Equal(t, tt.wantCount, total)

			r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
			require.NoError(t, err)

			var got []string
			for _, f := range r.File {
				if !f.FileInfo().IsDir() {
					got = append(got, f.Name)
				}
			}
			assert.Equal(t, tt.wantFiles, got)
		})
	}
}

func TestArchiveDir_RoundTrip(t *testing.T) {
	want := map[string]string{
		"index.html":        "<html><script src=\"app.js\"></script></html>",
		"app.js":            "console.log('hello')",
		"assets/style.css":  "body { margin: 0 }",
		"assets/img/a.svg":  "<svg/>",
		"api/data/one.json": `{"one": 1}`,
	}

	src := fs.NewDir(t, "site",
		fs.WithFile("index.html", want["index.html"]),
		fs.WithFile("app.js", want["app.js"]),
		fs.WithDir("assets",
			fs.WithFile("style.css", want["assets/style.css"]),
			fs.WithDir("img", fs.WithFile("a.svg", want["assets/img/a.svg"]))),
		fs.WithDir("api", fs.WithDir("data", fs.WithFile("one.json", want["api/data/one.json"]))),
		fs.WithDir("empty"),
	)
	defer src.Remove()

	out := fs.NewDir(t, "out")
	defer out.Remove()
	target := out.Join("site.zip")

	summary, err := ArchiveDir(src.Path(), target, deployignore.NewMatcher(nil))
	require.NoError(t, err)
	assert.Equal(t, target, summary.Path)
	assert.Equal(t, len(want), summary.Files)

	finfo, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, finfo.Size(), summary.Size)

	if diff := cmp.Diff(want, readArchive(t, target)); diff != "" {
		t.Errorf("archive content mismatch (-want +got):\n%s", diff)
	}

	r, err := zip.OpenReader(target)
	require.NoError(t, err)
	defer r.Close()
	var hasEmptyDir bool
	for _, f := range r.File {
		if f.Name == "empty/" {
			hasEmptyDir = true
		}
	}
	assert.True(t, hasEmptyDir, "empty directories must survive extraction")
}

func TestArchiveDir_SkipsItself(t *testing.T) {
	src := fs.NewDir(t, "site",
		fs.WithFile("index.html", "hello"),
		fs.WithFile("site.zip", "stale archive from a previous run"),
	)
	defer src.Remove()

	target := src.Join("site.zip")
	summary, err := ArchiveDir(src.Path(), target, deployignore.NewMatcher(nil))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Files)
	assert.Equal(t, map[string]string{"index.html": "hello"}, readArchive(t, target))
}

func TestArchiveDir_Ignore(t *testing.T) {
	src := fs.NewDir(t, "site",
		fs.WithFile(".env", "ZIPDEPLOY_PASSWORD=secret"),
		fs.WithFile(deployignore.Filename, "node_modules/\n"),
		fs.WithFile("app.js", "console.log('hello')"),
		fs.WithDir("node_modules", fs.WithDir("left-pad", fs.WithFile("index.js", "module.exports = 1"))),
		fs.WithDir(".git", fs.WithFile("HEAD", "ref: refs/heads/main")),
	)
	defer src.Remove()

	m, err := deployignore.NewMatcherFromFile(src.Join(deployignore.Filename))
	require.NoError(t, err)

	out := fs.NewDir(t, "out")
	defer out.Remove()

	summary, err := ArchiveDir(src.Path(), out.Join("site.zip"), m)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, map[string]string{
		deployignore.Filename: "node_modules/\n",
		"app.js":              "console.log('hello')",
	}, readArchive(t, summary.Path))
}

func TestArchiveDir_CreatesParentDir(t *testing.T) {
	src := fs.NewDir(t, "site", fs.WithFile("index.html", "hello"))
	defer src.Remove()
	out := fs.NewDir(t, "out")
	defer out.Remove()

	target := filepath.Join(out.Path(), "nested", "deeper", "site.zip")
	_, err := ArchiveDir(src.Path(), target, nil)
	require.NoError(t, err)
	assert.FileExists(t, target)
}

func TestArchiveDir_Errors(t *testing.T) {
	out := fs.NewDir(t, "out", fs.WithFile("not-a-dir", "x"))
	defer out.Remove()

	t.Run("missing source", func(t *testing.T) {
		_, err := ArchiveDir(out.Join("missing"), out.Join("a.zip"), nil)
		assert.Error(t, err)
		assert.NoFileExists(t, out.Join("a.zip"))
	})

	t.Run("source is a file", func(t *testing.T) {
		_, err := ArchiveDir(out.Join("not-a-dir"), out.Join("b.zip"), nil)
		assert.Error(t, err)
		assert.NoFileExists(t, out.Join("b.zip"))
	})
}

func TestArchiveDir_Symlinks(t *testing.T) {
	dir := fs.NewDir(t, "archive",
		fs.WithDir("site",
			fs.WithFile("index.html", "<h1>hello</h1>"),
			fs.WithDir("lib", fs.WithFile("app.js", "console.log('hello')")),
		),
		fs.WithFile("shared.css", "body {}"),
	)
	defer dir.Remove()

	src := dir.Join("site")
	// A cycle back to the parent, as left behind by npm link or pnpm.
	require.NoError(t, os.Symlink("..", filepath.Join(src, "loop")))
	require.NoError(t, os.Symlink(dir.Join("site", "lib"), filepath.Join(src, "lib-alias")))
	require.NoError(t, os.Symlink(dir.Join("shared.css"), filepath.Join(src, "shared.css")))
	require.NoError(t, os.Symlink(dir.Join("missing"), filepath.Join(src, "broken")))

	target := dir.Join("out", "site.zip")
	summary, err := ArchiveDir(src, target, nil)
	require.NoError(t, err)

	want := map[string]string{
		"index.html": "<h1>hello</h1>",
		"lib/app.js": "console.log('hello')",
		"shared.css": "body {}",
	}
	if diff := cmp.Diff(want, readArchive(t, target)); diff != "" {
		t.Errorf("archive content mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, summary.Files)
}

func TestArchiveDir_SkipsLinkToItself(t *testing.T) {
	dir := fs.NewDir(t, "archive", fs.WithDir("site", fs.WithFile("index.html", "<h1>hello</h1>")))
	defer dir.Remove()

	src := dir.Join("site")
	target := dir.Join("site.zip")
	require.NoError(t, os.WriteFile(target, []byte("stale"), 0644))
	require.NoError(t, os.Symlink(target, filepath.Join(src, "site.zip")))

	summary, err := ArchiveDir(src, target, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Files)
	assert.Equal(t, map[string]string{"index.html": "<h1>hello</h1>"}, readArchive(t, target))
}
