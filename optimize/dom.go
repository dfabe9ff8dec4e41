package optimize

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// ErrNotSVG is returned when a document has no <svg> root element.
var ErrNotSVG = errors.New("not an svg document")

// Node is a node of the SVG tree.
type Node interface {
	write(b *strings.Builder)
}

// Attr is a single element attribute. Value is kept as written in the source,
// without the surrounding quotes.
type Attr struct {
	Name  string
	Value string
}

// Element is an SVG element.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []Node
}

// Text is character data, kept verbatim.
type Text struct{ Data string }

// Comment holds a complete <!-- --> comment.
type Comment struct{ Data string }

// CDATA holds a complete <![CDATA[ ]]> section.
type CDATA struct{ Data string }

// ProcInst holds a complete <? ?> processing instruction.
type ProcInst struct{ Data string }

// Doctype holds a complete <!DOCTYPE> declaration.
type Doctype struct{ Data string }

// Document is a parsed SVG file.
type Document struct {
	// Prolog holds nodes that precede the root element.
	Prolog []Node
	Root   *Element
	// Epilog holds nodes that follow the root element.
	Epilog []Node
}

// Parse builds a Document from SVG text.
func Parse(src string) (*Document, error) {
	var (
		doc   Document
		stack []*Element
		open  *Element
		pi    *strings.Builder
	)

	appendNode := func(n Node) error {
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)

			return nil
		}

		el, ok := n.(*Element)

		switch {
		case !ok && doc.Root == nil:
			doc.Prolog = append(doc.Prolog, n)
		case !ok:
			doc.Epilog = append(doc.Epilog, n)
		case doc.Root != nil:
			return fmt.Errorf("unexpected second root element <%s>", el.Name)
		default:
			doc.Root = el
		}

		return nil
	}

	l := xml.NewLexer(parse.NewInputString(src))

	for {
		tt, data := l.Next()

		switch tt {
		case xml.ErrorToken:
			if err := l.Err(); err != io.EOF {
				return nil, fmt.Errorf("lex: %w", err)
			}

			if len(stack) > 0 {
				return nil, fmt.Errorf("unclosed element <%s>", stack[len(stack)-1].Name)
			}

			if doc.Root == nil || localName(doc.Root.Name) != "svg" {
				return nil, ErrNotSVG
			}

			return &doc, nil

		case xml.StartTagToken:
			open = &Element{Name: tagName(l.Text())}

		case xml.StartTagPIToken:
			pi = &strings.Builder{}
			pi.Write(data)

		case xml.AttributeToken:
			switch {
			case pi != nil:
				pi.Write(data)
			case open != nil:
				open.Attrs = append(open.Attrs, Attr{
					Name:  attrName(l.Text()),
					Value: unquote(l.AttrVal()),
				})
			}

		case xml.StartTagCloseToken, xml.StartTagCloseVoidToken:
			if open == nil {
				continue
			}

			if err := appendNode(open); err != nil {
				return nil, err
			}

			if tt == xml.StartTagCloseToken {
				stack = append(stack, open)
			}

			open = nil

		case xml.StartTagClosePIToken:
			if pi == nil {
				continue
			}

			pi.Write(data)

			if err := appendNode(&ProcInst{Data: pi.String()}); err != nil {
				return nil, err
			}

			pi = nil

		case xml.EndTagToken:
			name := tagName(l.Text())

			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected closing tag </%s>", name)
			}

			if top := stack[len(stack)-1]; top.Name != name {
				return nil, fmt.Errorf("closing tag </%s> does not match <%s>", name, top.Name)
			}

			stack = stack[:len(stack)-1]

		case xml.TextToken:
			if len(stack) == 0 {
				// Character data outside the root element carries no content.
				continue
			}

			_ = appendNode(&Text{Data: string(data)})

		case xml.CommentToken:
			if err := appendNode(&Comment{Data: string(data)}); err != nil {
				return nil, err
			}

		case xml.CDATAToken:
			if err := appendNode(&CDATA{Data: string(data)}); err != nil {
				return nil, err
			}

		case xml.DOCTYPEToken:
			if err := appendNode(&Doctype{Data: string(data)}); err != nil {
				return nil, err
			}
		}
	}
}

// String serializes the document.
func (d *Document) String() string {
	var b strings.Builder

	for _, n := range d.Prolog {
		n.write(&b)
	}

	if d.Root != nil {
		d.Root.write(&b)
	}

	for _, n := range d.Epilog {
		n.write(&b)
	}

	return b.String()
}

// LocalName returns the element name without its namespace prefix.
func (e *Element) LocalName() string {
	return localName(e.Name)
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}

	return "", false
}

// SetAttr replaces the value of the named attribute or appends a new one.
func (e *Element) SetAttr(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}

	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes every attribute for which drop reports true.
func (e *Element) RemoveAttr(drop func(Attr) bool) {
	kept := e.Attrs[:0]

	for _, a := range e.Attrs {
		if !drop(a) {
			kept = append(kept, a)
		}
	}

	e.Attrs = kept
}

func (e *Element) write(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(e.Name)

	for _, a := range e.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(strings.ReplaceAll(a.Value, `"`, "&quot;"))
		b.WriteByte('"')
	}

	if len(e.Children) == 0 {
		b.WriteString("/>")
		return
	}

	b.WriteByte('>')

	for _, c := range e.Children {
		c.write(b)
	}

	b.WriteString("</")
	b.WriteString(e.Name)
	b.WriteByte('>')
}

func (t *Text) write(b *strings.Builder)     { b.WriteString(t.Data) }
func (c *Comment) write(b *strings.Builder)  { b.WriteString(c.Data) }
func (c *CDATA) write(b *strings.Builder)    { b.WriteString(c.Data) }
func (p *ProcInst) write(b *strings.Builder) { b.WriteString(p.Data) }
func (d *Doctype) write(b *strings.Builder)  { b.WriteString(d.Data) }

// Walk calls fn for e and every descendant element in document order.
func Walk(e *Element, fn func(*Element)) {
	fn(e)

	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			Walk(el, fn)
		}
	}
}

// filter removes, at every depth below e, the child nodes for which keep
// reports false. Removed subtrees are not visited.
func filter(e *Element, keep func(n Node) bool) {
	kept := e.Children[:0]

	for _, c := range e.Children {
		if !keep(c) {
			continue
		}

		if el, ok := c.(*Element); ok {
			filter(el, keep)
		}

		kept = append(kept, c)
	}

	e.Children = kept
}

// localName strips a namespace prefix.
func localName(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}

	return name
}

func tagName(b []byte) string {
	return string(bytes.Trim(b, "</> \t\r\n"))
}

func attrName(b []byte) string {
	return string(bytes.Trim(b, "= \t\r\n"))
}

func unquote(b []byte) string {
	if n := len(b); n >= 2 && (b[0] == '"' || b[0] == '\'') && b[n-1] == b[0] {
		b = b[1 : n-1]
	}

	return string(b)
}
