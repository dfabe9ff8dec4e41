// Package optimize rewrites SVG documents through a fixed chain of plugins:
// stripping presentation data, cleaning ids and turning basic shapes into
// paths. The chain is an explicit Config value; an Optimizer holds no state
// between calls and is safe for concurrent use.
package optimize

import (
	"fmt"

	"github.com/tdewolff/minify/v2"
	minsvg "github.com/tdewolff/minify/v2/svg"
)

const mediaType = "image/svg+xml"

// DefaultIDPrefix is the prefix given to ids kept by [CleanupIDs].
const DefaultIDPrefix = "svgicon-"

// Plugin transforms a parsed document in place.
type Plugin interface {
	Name() string
	Apply(doc *Document) error
}

// Config is the plugin chain applied by an [Optimizer].
type Config struct {
	Plugins []Plugin
	// Minify compacts the serialized document.
	Minify bool
}

// DefaultConfig returns the chain used for icon sources. Presentation
// attributes and any pre-existing pid attributes are removed.
func DefaultConfig(idPrefix string) Config {
	return Config{
		Plugins: []Plugin{
			RemoveProlog{},
			RemoveElements{
				Names:    []string{"title", "desc", "style", "metadata"},
				Comments: true,
			},
			CleanupWhitespace{},
			RemoveUselessDefs{},
			CleanupIDs{Remove: true, Prefix: idPrefix},
			ConvertShapeToPath{ConvertArcs: true},
			RemoveAttrs{Patterns: []string{
				"(path|rect|circle|polygon|line|polyline|g|ellipse):(fill|stroke)",
				"*:pid",
			}},
		},
	}
}

// Info describes the optimized root element.
type Info struct {
	// Width and Height are the raw root attribute values, empty when absent.
	Width  string
	Height string
}

// Result is the output of [Optimizer.Optimize].
type Result struct {
	Data string
	Info Info
	// Doc is the document after the plugin chain, before minification.
	Doc *Document
}

// Optimizer applies a Config to SVG documents.
type Optimizer struct {
	cfg Config
	min *minify.M
}

// New returns an Optimizer for cfg.
func New(cfg Config) *Optimizer {
	o := &Optimizer{cfg: cfg}

	if cfg.Minify {
		o.min = minify.New()
		o.min.AddFunc(mediaType, minsvg.Minify)
	}

	return o
}

// Optimize parses src, runs the plugin chain and serializes the result.
func (o *Optimizer) Optimize(src string) (Result, error) {
	doc, err := Parse(src)
	if err != nil {
		return Result{}, fmt.Errorf("parse: %w", err)
	}

	for _, p := range o.cfg.Plugins {
		if err := p.Apply(doc); err != nil {
			return Result{}, fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
	}

	data := doc.String()

	if o.min != nil {
		if data, err = o.min.String(mediaType, data); err != nil {
			return Result{}, fmt.Errorf("minify: %w", err)
		}
	}

	width, _ := doc.Root.Attr("width")
	height, _ := doc.Root.Attr("height")

	return Result{
		Data: data,
		Info: Info{Width: width, Height: height},
		Doc:  doc,
	}, nil
}
