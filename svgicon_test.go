package svgicon_test

import (
	"context"
	_ "embed"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/WinPooh32/svgicon"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

const (
	sourceDir = "/work/icons"
	targetDir = "/work/out"
)

var (
	//go:embed testdata/scenario.txtar
	testScenario []byte
	//go:embed testdata/mixed.txtar
	testMixed []byte
	//go:embed testdata/nested.txtar
	testNested []byte
)

// mustFixture loads the archive into a memory file system under /work and
// returns the expected target tree stored under want/.
func mustFixture(t *testing.T, archive []byte) (afero.Fs, map[string]string) {
	t.Helper()

	fsys := afero.NewMemMapFs()
	want := map[string]string{}

	for _, f := range txtar.Parse(archive).Files {
		if rel, ok := strings.CutPrefix(f.Name, "want/"); ok {
			want[rel] = string(f.Data)
			continue
		}

		require.NoError(t, afero.WriteFile(fsys, filepath.Join("/work", f.Name), f.Data, 0o644))
	}

	return fsys, want
}

func readTree(t *testing.T, fsys afero.Fs, root string) map[string]string {
	t.Helper()

	tree := map[string]string{}

	err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		tree[filepath.ToSlash(rel)] = string(data)

		return nil
	})
	require.NoError(t, err)

	return tree
}

func mustConverter(t *testing.T, fsys afero.Fs, opts svgicon.Options) *svgicon.Converter {
	t.Helper()

	c, err := svgicon.NewConverter(fsys, log.New(io.Discard), opts)
	require.NoError(t, err)

	return c
}

func TestConverter_Run(t *testing.T) {
	t.Parallel()

	for _, jobs := range []int{1, 2, 8} {
		t.Run("jobs="+strconv.Itoa(jobs), func(t *testing.T) {
			t.Parallel()

			fsys, want := mustFixture(t, testScenario)
			c := mustConverter(t, fsys, svgicon.Options{Jobs: jobs})

			report, err := c.Run(context.Background(), sourceDir, targetDir)
			require.NoError(t, err)
			require.NoError(t, report.Err())

			assert.Equal(t, want, readTree(t, fsys, targetDir))
			assert.Equal(t, 2, report.Icons)
			assert.Equal(t, 2, report.Indexes)
			assert.Zero(t, report.IVGs)
			assert.NotEmpty(t, report.Size())
		})
	}
}

func TestConverter_Run_Idempotent(t *testing.T) {
	t.Parallel()

	fsys, want := mustFixture(t, testScenario)
	c := mustConverter(t, fsys, svgicon.Options{})

	_, err := c.Run(context.Background(), sourceDir, targetDir)
	require.NoError(t, err)

	first := readTree(t, fsys, targetDir)

	require.NoError(t, afero.WriteFile(fsys, filepath.Join(targetDir, "stale.js"), []byte("stale"), 0o644))

	_, err = c.Run(context.Background(), sourceDir, targetDir)
	require.NoError(t, err)

	assert.Equal(t, first, readTree(t, fsys, targetDir))
	assert.Equal(t, want, first)
}

func TestConverter_Run_Mixed(t *testing.T) {
	t.Parallel()

	fsys, _ := mustFixture(t, testMixed)
	c := mustConverter(t, fsys, svgicon.Options{Jobs: 3})

	report, err := c.Run(context.Background(), sourceDir, targetDir)
	require.NoError(t, err)

	require.Len(t, report.Failed, 1)

	var fe *svgicon.FileError
	require.ErrorAs(t, report.Failed[0], &fe)
	assert.Equal(t, svgicon.OpNormalize, fe.Op)
	assert.Equal(t, filepath.Join(sourceDir, "brand", "broken.svg"), fe.Path)
	assert.ErrorContains(t, report.Err(), "1 file(s) failed")

	assert.Equal(t, 5, report.Icons)
	assert.Equal(t, 5, report.Indexes)

	tree := readTree(t, fsys, targetDir)

	assert.Equal(t, "require('./home')\nrequire('./star')\n", tree["index.js"])
	assert.Equal(t, "require('./menu')\nrequire('./sub/arrow')\n", tree["nav/index.js"])
	assert.Equal(t, "require('./back')\n", tree["navigation/index.js"])
	assert.Contains(t, tree["star.js"], "'star': {")
	assert.Contains(t, tree["nav/sub/arrow.js"], "'nav/sub/arrow': {")

	for _, name := range []string{"brand/index.js", "docs/index.js"} {
		require.Contains(t, tree, name)
		assert.Empty(t, tree[name], name)
	}

	assert.NotContains(t, tree, "brand/broken.js")
	assert.Len(t, tree, 10)
}

func TestConverter_Run_Nested(t *testing.T) {
	t.Parallel()

	fsys, want := mustFixture(t, testNested)
	c := mustConverter(t, fsys, svgicon.Options{})

	report, err := c.Run(context.Background(), sourceDir, targetDir)
	require.NoError(t, err)
	require.NoError(t, report.Err())

	assert.Equal(t, want, readTree(t, fsys, targetDir))
	assert.Equal(t, 3, report.Indexes)
}

func TestConverter_Run_IndexName(t *testing.T) {
	t.Parallel()

	fsys, _ := mustFixture(t, testScenario)

	for _, name := range []string{"index.svg", "nav/index.svg", "nav/sub/index.svg"} {
		svg := []byte(`<svg viewBox="0 0 8 8"><path d="M0 0h8v8H0z"/></svg>`)
		require.NoError(t, afero.WriteFile(fsys, filepath.Join(sourceDir, name), svg, 0o644))
	}

	c := mustConverter(t, fsys, svgicon.Options{})

	report, err := c.Run(context.Background(), sourceDir, targetDir)
	require.NoError(t, err)

	require.Len(t, report.Failed, 2)

	for _, err := range report.Failed {
		assert.ErrorIs(t, err, svgicon.ErrIndexName)
	}

	tree := readTree(t, fsys, targetDir)

	assert.Equal(t, "require('./home')\n", tree["index.js"])
	assert.Equal(t, "require('./menu')\nrequire('./sub/index')\n", tree["nav/index.js"])
	assert.Contains(t, tree["nav/sub/index.js"], "'nav/sub/index': {")
}

func TestConverter_Run_Exclude(t *testing.T) {
	t.Parallel()

	fsys, _ := mustFixture(t, testMixed)
	c := mustConverter(t, fsys, svgicon.Options{Exclude: []string{"nav/**", "*.min.svg"}})

	report, err := c.Run(context.Background(), sourceDir, targetDir)
	require.NoError(t, err)
	assert.Len(t, report.Failed, 1)

	tree := readTree(t, fsys, targetDir)

	assert.ElementsMatch(t,
		[]string{
			"home.js", "index.js",
			"brand/index.js", "docs/index.js", "nav/index.js",
			"navigation/back.js", "navigation/index.js",
		},
		keys(tree),
	)
	assert.Equal(t, "require('./home')\n", tree["index.js"])
	assert.Empty(t, tree["nav/index.js"])
}

func TestConverter_Run_IVG(t *testing.T) {
	t.Parallel()

	fsys, _ := mustFixture(t, testMixed)
	c := mustConverter(t, fsys, svgicon.Options{IVG: true})

	report, err := c.Run(context.Background(), sourceDir, targetDir)
	require.NoError(t, err)

	assert.Equal(t, 5, report.IVGs)

	tree := readTree(t, fsys, targetDir)

	for _, name := range []string{"home.ivg", "star.ivg", "nav/menu.ivg", "nav/sub/arrow.ivg", "navigation/back.ivg"} {
		require.Contains(t, tree, name)
		assert.True(t, strings.HasPrefix(tree[name], "\x89IVG"), name)
	}
}

func TestConverter_Run_Template(t *testing.T) {
	t.Parallel()

	fsys, _ := mustFixture(t, testScenario)
	c := mustConverter(t, fsys, svgicon.Options{
		Template:   "export const ${componentName} = { name: '${name}', viewBox: ${viewBox} }\n",
		Extension:  ".ts",
		IndexStyle: svgicon.IndexImport,
	})

	_, err := c.Run(context.Background(), sourceDir, targetDir)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"home.ts":      "export const Home = { name: 'home', viewBox: '0 0 24 24' }\n",
		"index.ts":     "import './home'\n",
		"nav/menu.ts":  "export const NavMenu = { name: 'nav/menu', viewBox:  }\n",
		"nav/index.ts": "import './menu'\n",
	}, readTree(t, fsys, targetDir))
}

func TestConverter_Run_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		target string
		is     error
	}{
		{"same directory", sourceDir, sourceDir, svgicon.ErrOverlap},
		{"target contains source", sourceDir, "/work", svgicon.ErrOverlap},
		{"target contains source unclean", sourceDir + "/", "/work/./", svgicon.ErrOverlap},
		{"missing source", "/work/nope", targetDir, fs.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fsys, _ := mustFixture(t, testScenario)
			c := mustConverter(t, fsys, svgicon.Options{})

			_, err := c.Run(context.Background(), tt.source, tt.target)
			require.ErrorIs(t, err, tt.is)

			exists, err := afero.Exists(fsys, filepath.Join(sourceDir, "home.svg"))
			require.NoError(t, err)
			assert.True(t, exists)
		})
	}
}

func TestConverter_Run_Canceled(t *testing.T) {
	t.Parallel()

	fsys, _ := mustFixture(t, testMixed)
	c := mustConverter(t, fsys, svgicon.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Run(ctx, sourceDir, targetDir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConverter_Plan(t *testing.T) {
	t.Parallel()

	fsys, _ := mustFixture(t, testMixed)
	c := mustConverter(t, fsys, svgicon.Options{})

	g, err := c.Plan(sourceDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "brand", "docs", "nav", "navigation"}, g.Keys())
	assert.Equal(t, []string{"nav/menu.svg", "nav/sub/arrow.svg"}, rels(g.Files("nav")))
	assert.Equal(t, []string{"home.svg", "star.min.svg"}, rels(g.Root))
	assert.Len(t, g.All, 6)
}

func TestNewConverter_Errors(t *testing.T) {
	t.Parallel()

	logger := log.New(io.Discard)
	fsys := afero.NewMemMapFs()

	_, err := svgicon.NewConverter(nil, logger, svgicon.Options{})
	assert.Error(t, err)

	_, err = svgicon.NewConverter(fsys, nil, svgicon.Options{})
	assert.Error(t, err)

	_, err = svgicon.NewConverter(fsys, logger, svgicon.Options{IndexStyle: "amd"})
	assert.ErrorContains(t, err, "unknown index style")

	_, err = svgicon.NewConverter(fsys, logger, svgicon.Options{Exclude: []string{"["}})
	assert.ErrorContains(t, err, "compile exclude pattern")
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}

func rels(files []svgicon.SourceFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Rel)
	}

	return out
}
