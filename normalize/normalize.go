// Package normalize turns raw SVG source into icon data: the inner markup of
// the optimized document, its view box and its intrinsic size.
package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/WinPooh32/svgicon/optimize"
)

// DefaultSize is used for a width or height that is missing or not a number.
const DefaultSize = 16

// ShapeIDAttr is the attribute carrying a shape's position within its icon.
const ShapeIDAttr = "pid"

var (
	svgOpenTag  = regexp.MustCompile(`(?i)<(?:[\w-]+:)?svg(?:\s[^>]*)?>`)
	svgCloseTag = regexp.MustCompile(`(?i)</(?:[\w-]+:)?svg\s*>\s*$`)
	viewBoxAttr = regexp.MustCompile(`^\s*([-+\d.eE]+\s+[-+\d.eE]+\s+[-+\d.eE]+\s+[-+\d.eE]+)\s*$`)
	shapeTag    = regexp.MustCompile(`(?i)<(?:[\w-]+:)?(path|rect|circle|polygon|line|polyline|ellipse)[\s/>]`)
	leadingNum  = regexp.MustCompile(`^\s*[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)
)

// Icon is a normalized SVG.
type Icon struct {
	// Markup is the document body without the outer <svg> element.
	Markup string
	// ViewBox holds the four view box numbers, empty when the source has none.
	ViewBox string
	Width   float64
	Height  float64
	// Paths lists the d attribute of every path element in document order.
	Paths []string
}

// QuotedViewBox returns the view box as a single-quoted literal, or the empty
// string when the icon has none.
func (i Icon) QuotedViewBox() string {
	if i.ViewBox == "" {
		return ""
	}

	return "'" + i.ViewBox + "'"
}

// Normalizer normalizes SVG sources with a fixed optimizer configuration.
type Normalizer struct {
	opt *optimize.Optimizer
}

// New returns a Normalizer that optimizes with cfg.
func New(cfg optimize.Config) *Normalizer {
	return &Normalizer{opt: optimize.New(cfg)}
}

// Normalize optimizes raw and extracts the icon data from the result.
func (n *Normalizer) Normalize(raw string) (Icon, error) {
	res, err := n.opt.Optimize(raw)
	if err != nil {
		return Icon{}, fmt.Errorf("optimize: %w", err)
	}

	icon := Icon{
		Markup: InjectShapeIDs(stripOuter(res.Data)),
		Width:  parseSize(res.Info.Width),
		Height: parseSize(res.Info.Height),
	}

	if vb, ok := res.Doc.Root.Attr("viewBox"); ok {
		if m := viewBoxAttr.FindStringSubmatch(vb); m != nil {
			icon.ViewBox = m[1]
		}
	}

	optimize.Walk(res.Doc.Root, func(e *optimize.Element) {
		if e.LocalName() != "path" {
			return
		}

		if d, ok := e.Attr("d"); ok {
			icon.Paths = append(icon.Paths, d)
		}
	})

	return icon, nil
}

// InjectShapeIDs numbers every shape start tag in markup from zero in
// document order.
func InjectShapeIDs(markup string) string {
	id := 0

	return shapeTag.ReplaceAllStringFunc(markup, func(m string) string {
		tag, next := m[:len(m)-1], m[len(m)-1:]

		if strings.TrimSpace(next) == "" {
			next = " "
		}

		s := tag + " " + ShapeIDAttr + `="` + strconv.Itoa(id) + `"` + next
		id++

		return s
	})
}

// stripOuter removes the opening tag of the root element and its matching
// closing tag.
func stripOuter(data string) string {
	loc := svgOpenTag.FindStringIndex(data)
	if loc == nil {
		return data
	}

	if strings.HasSuffix(data[loc[0]:loc[1]], "/>") {
		return data[:loc[0]] + data[loc[1]:]
	}

	data = data[:loc[0]] + data[loc[1]:]

	return svgCloseTag.ReplaceAllString(data, "")
}

// parseSize reads the leading number of s. Zero, missing and unparsable
// values yield DefaultSize.
func parseSize(s string) float64 {
	m := leadingNum.FindString(s)
	if m == "" {
		return DefaultSize
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil || f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultSize
	}

	return f
}
