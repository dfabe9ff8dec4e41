// Package svgicon converts a directory tree of SVG icons into icon modules and
// per-directory index files for front-end builds.
package svgicon

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/WinPooh32/svgicon/internal/xslices"
	"github.com/WinPooh32/svgicon/ivg"
	"github.com/WinPooh32/svgicon/normalize"
	"github.com/WinPooh32/svgicon/opt"
	"github.com/WinPooh32/svgicon/optimize"
	"github.com/WinPooh32/svgicon/tpl"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/gobwas/glob"
	"github.com/iancoleman/strcase"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

const sourcePattern = "**/*.svg"

// DefaultExtension is the extension of generated files.
const DefaultExtension = "js"

// Options configure a [Converter].
type Options struct {
	// Template is the icon module template text. Empty means [tpl.Default].
	Template string
	// Extension of generated icon modules and index files, without the dot.
	Extension string
	// Jobs is the number of conversion workers, 0 means the number of CPUs.
	Jobs       int
	IndexStyle IndexStyle
	// Exclude holds glob patterns matched against slash-separated source
	// paths relative to the source root.
	Exclude []string
	// Optimize is the optimizer configuration. A nil plugin list selects
	// [optimize.DefaultConfig] with [optimize.DefaultIDPrefix].
	Optimize optimize.Config
	// IVG enables writing an IconVG file next to every icon module.
	IVG bool
}

// Converter turns SVG source trees into icon modules and index files.
type Converter struct {
	fs      afero.Fs
	logger  *log.Logger
	opts    Options
	norm    *normalize.Normalizer
	exclude []glob.Glob
}

// NewConverter returns a new initialized [Converter] working on fsys.
func NewConverter(fsys afero.Fs, logger *log.Logger, opts Options) (*Converter, error) {
	if fsys == nil {
		return nil, errors.New("file system is nil")
	}

	if logger == nil {
		return nil, errors.New("logger is nil")
	}

	if opts.Template == "" {
		opts.Template = tpl.Default()
	}

	opts.Extension = strings.TrimPrefix(opts.Extension, ".")
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}

	if opts.Jobs <= 0 {
		opts.Jobs = runtime.NumCPU()
	}

	if opts.IndexStyle == "" {
		opts.IndexStyle = IndexRequire
	}

	if err := opts.IndexStyle.Set(string(opts.IndexStyle)); err != nil {
		return nil, err
	}

	if opts.Optimize.Plugins == nil {
		cfg := optimize.DefaultConfig(optimize.DefaultIDPrefix)
		cfg.Minify = opts.Optimize.Minify
		opts.Optimize = cfg
	}

	exclude := make([]glob.Glob, 0, len(opts.Exclude))

	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile exclude pattern %q: %w", pattern, err)
		}

		exclude = append(exclude, g)
	}

	return &Converter{
		fs:      fsys,
		logger:  logger,
		opts:    opts,
		norm:    normalize.New(opts.Optimize),
		exclude: exclude,
	}, nil
}

// Run regenerates target from the SVG files under source. Per-file failures
// are logged and collected in the report; the returned error is reserved for
// failures that stop the whole run.
func (c *Converter) Run(ctx context.Context, source, target string) (Report, error) {
	source, target = filepath.Clean(source), filepath.Clean(target)

	if contains(target, source) {
		return Report{}, fmt.Errorf("%w: source %q, target %q", ErrOverlap, source, target)
	}

	if err := c.fs.RemoveAll(target); err != nil {
		return Report{}, fmt.Errorf("clear target: %w", err)
	}

	g, err := c.Plan(source)
	if err != nil {
		return Report{}, err
	}

	var (
		report Report
		fatal  error
	)

	for res := range c.Stream(ctx, g, target) {
		a, err := res.Get()
		if err != nil {
			var fe *FileError
			if !errors.As(err, &fe) {
				fatal = err
				continue
			}

			report.Failed = append(report.Failed, err)
			c.logger.Error(string(fe.Op)+" failed", "path", fe.Path, "err", fe.Err)

			continue
		}

		report.add(a)

		switch a.Kind {
		case KindIcon:
			c.logger.Info("generated icon", "name", a.Name)
		case KindIndex:
			c.logger.Info("generated index", "path", a.Name)
		case KindIVG:
			c.logger.Debug("generated iconvg", "name", a.Name)
		}
	}

	if fatal != nil {
		return report, fmt.Errorf("convert: %w", fatal)
	}

	return report, nil
}

// Plan discovers the SVG files under source and groups them by first-level
// directory.
func (c *Converter) Plan(source string) (Grouping, error) {
	dirs, err := c.listDirs(source)
	if err != nil {
		return Grouping{}, fmt.Errorf("list groups: %w", err)
	}

	files, err := c.discover(source)
	if err != nil {
		return Grouping{}, fmt.Errorf("discover sources: %w", err)
	}

	g := GroupFiles(files, dirs)

	c.logger.Debug("discovered sources", "files", len(files), "groups", len(g.Keys()))

	return g, nil
}

func (c *Converter) listDirs(source string) ([]string, error) {
	infos, err := afero.ReadDir(c.fs, source)
	if err != nil {
		return nil, err
	}

	var dirs []string

	for _, info := range infos {
		if info.IsDir() {
			dirs = append(dirs, info.Name())
		}
	}

	return dirs, nil
}

func (c *Converter) discover(source string) ([]SourceFile, error) {
	fsys := afero.NewIOFS(afero.NewBasePathFs(c.fs, source))

	matches, err := doublestar.Glob(fsys, sourcePattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", sourcePattern, err)
	}

	slices.Sort(matches)

	files := make([]SourceFile, 0, len(matches))

	for _, rel := range matches {
		if c.excluded(rel) {
			c.logger.Debug("excluded", "path", rel)
			continue
		}

		files = append(files, SourceFile{
			Path: filepath.Join(source, filepath.FromSlash(rel)),
			Rel:  rel,
		})
	}

	return files, nil
}

func (c *Converter) excluded(rel string) bool {
	for _, g := range c.exclude {
		if g.Match(rel) {
			return true
		}
	}

	return false
}

// Stream converts the planned files on a pool of workers and returns the
// stream of written artifacts and per-file errors. The index of a group is
// written as soon as every file of the group has been attempted; groups
// without files get an empty index. The channel is closed when all work is
// done and must be drained.
func (c *Converter) Stream(ctx context.Context, g Grouping, target string) <-chan opt.Result[Artifact] {
	resC := make(chan opt.Result[Artifact], c.opts.Jobs)

	pending := make(map[string]*atomic.Int64, len(g.Names)+1)
	written := new(sync.Map)
	dirs := make(map[string]bool, len(g.Names))

	var empty []string

	for _, name := range g.Names {
		dirs[name] = true
	}

	for _, key := range g.Keys() {
		n := new(atomic.Int64)
		n.Store(int64(len(g.Files(key))))
		pending[key] = n

		if n.Load() == 0 {
			empty = append(empty, key)
		}
	}

	newWorker := func(files []SourceFile) *convertWorker {
		return &convertWorker{
			c:       c,
			g:       g,
			dirs:    dirs,
			target:  target,
			files:   files,
			pending: pending,
			written: written,
			resC:    resC,
		}
	}

	go func() {
		defer close(resC)

		if len(g.All) == 0 {
			return
		}

		eg, ctx := errgroup.WithContext(ctx)

		for part := range xslices.Split(g.All, c.opts.Jobs) {
			eg.Go(func() error {
				return newWorker(part).run(ctx)
			})
		}

		if len(empty) > 0 {
			eg.Go(func() error {
				wrkr := newWorker(nil)

				for _, key := range empty {
					if err := ctx.Err(); err != nil {
						return fmt.Errorf("context is done: %w", err)
					}

					if err := wrkr.send(ctx, wrkr.index(key)); err != nil {
						return err
					}
				}

				return nil
			})
		}

		if err := eg.Wait(); err != nil {
			resC <- opt.Err[Artifact](err)
		}
	}()

	return resC
}

type convertWorker struct {
	c       *Converter
	g       Grouping
	dirs    map[string]bool
	target  string
	files   []SourceFile
	pending map[string]*atomic.Int64
	written *sync.Map
	resC    chan<- opt.Result[Artifact]
}

func (w *convertWorker) run(ctx context.Context) error {
	for _, f := range w.files {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context is done: %w", err)
		}

		key := f.GroupKey(w.dirs)

		arts, err := w.c.convertFile(f, key, w.target)

		for _, a := range arts {
			if a.Kind == KindIcon {
				w.written.Store(f.Rel, struct{}{})
			}

			if err := w.send(ctx, opt.Ok(a)); err != nil {
				return err
			}
		}

		if err != nil {
			if err := w.send(ctx, opt.Err[Artifact](err)); err != nil {
				return err
			}
		}

		if w.pending[key].Add(-1) > 0 {
			continue
		}

		if err := w.send(ctx, w.index(key)); err != nil {
			return err
		}
	}

	return nil
}

// index writes the index of a finished group. Only modules that were
// written are referenced.
func (w *convertWorker) index(key string) opt.Result[Artifact] {
	files := slices.DeleteFunc(slices.Clone(w.g.Files(key)), func(f SourceFile) bool {
		_, ok := w.written.Load(f.Rel)
		return !ok
	})

	a, err := w.c.writeIndex(w.target, key, files)
	if err != nil {
		return opt.Err[Artifact](err)
	}

	return opt.Ok(a)
}

func (w *convertWorker) send(ctx context.Context, res opt.Result[Artifact]) error {
	select {
	case w.resC <- res:
	case <-ctx.Done():
		return fmt.Errorf("context is done: %w", ctx.Err())
	}

	return nil
}

// convertFile writes the icon module of f and, when enabled, its IconVG
// rendition. Artifacts written before a failure are returned with the error.
// An icon whose module would replace the index of its group is refused.
func (c *Converter) convertFile(f SourceFile, key, target string) ([]Artifact, error) {
	name := f.OutputPath(target, c.opts.Extension)
	if name == indexPath(target, key, c.opts.Extension) {
		return nil, &FileError{Op: OpWrite, Path: f.Path, Err: ErrIndexName}
	}

	raw, err := afero.ReadFile(c.fs, f.Path)
	if err != nil {
		return nil, &FileError{Op: OpRead, Path: f.Path, Err: err}
	}

	icon, err := c.norm.Normalize(string(raw))
	if err != nil {
		return nil, &FileError{Op: OpNormalize, Path: f.Path, Err: err}
	}

	content := []byte(tpl.Compile(c.opts.Template, c.context(f, icon)))

	if err := c.writeFile(name, content); err != nil {
		return nil, &FileError{Op: OpWrite, Path: name, Err: err}
	}

	arts := []Artifact{{
		Kind: KindIcon,
		Name: f.ModuleName(),
		Path: name,
		Size: int64(len(content)),
	}}

	if !c.opts.IVG {
		return arts, nil
	}

	data, err := ivg.Encode(icon)
	if err != nil {
		return arts, &FileError{Op: OpEncode, Path: f.Path, Err: err}
	}

	name = f.OutputPath(target, ivg.Ext)

	if err := c.writeFile(name, data); err != nil {
		return arts, &FileError{Op: OpWrite, Path: name, Err: err}
	}

	return append(arts, Artifact{
		Kind: KindIVG,
		Name: f.ModuleName(),
		Path: name,
		Size: int64(len(data)),
	}), nil
}

func (c *Converter) context(f SourceFile, icon normalize.Icon) tpl.Context {
	name := f.ModuleName()

	return tpl.Context{
		tpl.KeyName:          name,
		tpl.KeyComponentName: strcase.ToCamel(strings.ReplaceAll(name, "/", "_")),
		tpl.KeyWidth:         icon.Width,
		tpl.KeyHeight:        icon.Height,
		tpl.KeyViewBox:       icon.QuotedViewBox(),
		tpl.KeyData:          icon.Markup,
	}
}

// contains reports whether path is dir or lies below it.
func contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (c *Converter) writeFile(name string, data []byte) (err error) {
	if err := c.fs.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("mkdir all: %w", err)
	}

	file, err := c.fs.Create(name)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	defer func() {
		err = errors.Join(err, file.Close())
	}()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}
