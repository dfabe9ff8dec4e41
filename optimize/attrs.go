package optimize

import (
	"fmt"
	"regexp"
	"strings"
)

// RemoveAttrs drops attributes matching "element:attribute" patterns. Both
// sides are regular expressions matched against the whole name; "*" matches
// any name. A pattern without ':' applies to every element.
type RemoveAttrs struct {
	Patterns []string
}

func (RemoveAttrs) Name() string { return "removeAttrs" }

func (r RemoveAttrs) Apply(doc *Document) error {
	type rule struct{ elem, attr *regexp.Regexp }

	rules := make([]rule, 0, len(r.Patterns))

	for _, p := range r.Patterns {
		elem, attr, ok := strings.Cut(p, ":")
		if !ok {
			elem, attr = "*", p
		}

		re1, err := compileName(elem)
		if err != nil {
			return fmt.Errorf("pattern %q: %w", p, err)
		}

		re2, err := compileName(attr)
		if err != nil {
			return fmt.Errorf("pattern %q: %w", p, err)
		}

		rules = append(rules, rule{re1, re2})
	}

	Walk(doc.Root, func(e *Element) {
		for _, rl := range rules {
			if !rl.elem.MatchString(e.Name) {
				continue
			}

			e.RemoveAttr(func(a Attr) bool { return rl.attr.MatchString(a.Name) })
		}
	})

	return nil
}

func compileName(expr string) (*regexp.Regexp, error) {
	if expr == "*" {
		expr = ".*"
	}

	return regexp.Compile("^(?:" + expr + ")$")
}
