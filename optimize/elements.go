package optimize

import (
	"regexp"
	"slices"
	"strings"
)

// RemoveProlog drops the XML declaration, processing instructions and the
// doctype.
type RemoveProlog struct{}

func (RemoveProlog) Name() string { return "removeProlog" }

func (RemoveProlog) Apply(doc *Document) error {
	keep := func(n Node) bool {
		switch n.(type) {
		case *ProcInst, *Doctype:
			return false
		}

		return true
	}

	doc.Prolog = slices.DeleteFunc(doc.Prolog, not(keep))
	doc.Epilog = slices.DeleteFunc(doc.Epilog, not(keep))
	filter(doc.Root, keep)

	return nil
}

// RemoveElements drops elements by local name together with their subtrees,
// and optionally every comment.
type RemoveElements struct {
	Names    []string
	Comments bool
}

func (RemoveElements) Name() string { return "removeElements" }

func (r RemoveElements) Apply(doc *Document) error {
	keep := func(n Node) bool {
		switch n := n.(type) {
		case *Comment:
			return !r.Comments
		case *Element:
			return !slices.Contains(r.Names, localName(n.Name))
		}

		return true
	}

	doc.Prolog = slices.DeleteFunc(doc.Prolog, not(keep))
	doc.Epilog = slices.DeleteFunc(doc.Epilog, not(keep))
	filter(doc.Root, keep)

	return nil
}

var (
	lineBreaks = regexp.MustCompile(`\s*[\r\n]+\s*`)
	spaceRuns  = regexp.MustCompile(`[ \t]{2,}`)
)

// CleanupWhitespace removes whitespace-only text between elements and
// folds line breaks inside attribute values and text into single spaces, so
// the serialized document fits on one line.
type CleanupWhitespace struct{}

func (CleanupWhitespace) Name() string { return "cleanupWhitespace" }

func (CleanupWhitespace) Apply(doc *Document) error {
	filter(doc.Root, func(n Node) bool {
		t, ok := n.(*Text)
		if !ok {
			return true
		}

		if strings.TrimSpace(t.Data) == "" {
			return false
		}

		t.Data = lineBreaks.ReplaceAllString(t.Data, " ")

		return true
	})

	Walk(doc.Root, func(e *Element) {
		for i := range e.Attrs {
			v := lineBreaks.ReplaceAllString(e.Attrs[i].Value, " ")
			v = spaceRuns.ReplaceAllString(v, " ")
			e.Attrs[i].Value = strings.TrimSpace(v)
		}
	})

	return nil
}

// nonRendering elements are only meaningful when referenced by id.
var nonRendering = []string{
	"clipPath", "filter", "linearGradient", "marker", "mask",
	"pattern", "radialGradient", "solidColor", "symbol",
}

// RemoveUselessDefs drops <defs> content that cannot be referenced, empty
// <defs>, and non-rendering elements without an id.
type RemoveUselessDefs struct{}

func (RemoveUselessDefs) Name() string { return "removeUselessDefs" }

func (RemoveUselessDefs) Apply(doc *Document) error {
	filter(doc.Root, func(n Node) bool {
		el, ok := n.(*Element)
		if !ok {
			return true
		}

		name := localName(el.Name)

		if name == "defs" {
			el.Children = usefulDefs(el.Children)
			return len(el.Children) > 0
		}

		if slices.Contains(nonRendering, name) {
			_, hasID := el.Attr("id")
			return hasID
		}

		return true
	})

	return nil
}

// usefulDefs keeps elements with an id and <style> elements, hoisting them
// out of id-less wrappers.
func usefulDefs(nodes []Node) []Node {
	var useful []Node

	for _, n := range nodes {
		el, ok := n.(*Element)
		if !ok {
			continue
		}

		if _, hasID := el.Attr("id"); hasID || localName(el.Name) == "style" {
			useful = append(useful, el)
			continue
		}

		useful = append(useful, usefulDefs(el.Children)...)
	}

	return useful
}

func not(keep func(Node) bool) func(Node) bool {
	return func(n Node) bool { return !keep(n) }
}
