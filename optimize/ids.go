package optimize

import (
	"regexp"
	"strings"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var urlRef = regexp.MustCompile(`url\(\s*["']?#([^)"'\s]+)["']?\s*\)`)

// CleanupIDs renames referenced ids to short prefixed ones and, with Remove,
// drops ids nothing refers to. Documents with <style> or <script> are left
// untouched because their references cannot be tracked.
type CleanupIDs struct {
	Remove bool
	Prefix string
}

func (CleanupIDs) Name() string { return "cleanupIDs" }

func (c CleanupIDs) Apply(doc *Document) error {
	var (
		declared   []string
		seen       = map[string]bool{}
		referenced = map[string]bool{}
		opaque     bool
	)

	Walk(doc.Root, func(e *Element) {
		switch localName(e.Name) {
		case "style", "script":
			opaque = true
		}

		for _, a := range e.Attrs {
			if a.Name == "id" {
				if !seen[a.Value] {
					seen[a.Value] = true
					declared = append(declared, a.Value)
				}

				continue
			}

			for _, id := range references(a) {
				referenced[id] = true
			}
		}
	})

	if opaque {
		return nil
	}

	renamed := make(map[string]string, len(referenced))

	for _, id := range declared {
		if referenced[id] {
			renamed[id] = c.Prefix + shortID(len(renamed))
		}
	}

	Walk(doc.Root, func(e *Element) {
		e.RemoveAttr(func(a Attr) bool {
			_, keep := renamed[a.Value]
			return a.Name == "id" && !keep && c.Remove
		})

		for i, a := range e.Attrs {
			if a.Name == "id" {
				if to, ok := renamed[a.Value]; ok {
					e.Attrs[i].Value = to
				}

				continue
			}

			e.Attrs[i].Value = rewriteReferences(a, renamed)
		}
	})

	return nil
}

func isHref(name string) bool {
	return name == "href" || localName(name) == "href"
}

func references(a Attr) []string {
	if isHref(a.Name) {
		if id, ok := strings.CutPrefix(a.Value, "#"); ok {
			return []string{id}
		}

		return nil
	}

	var ids []string

	for _, m := range urlRef.FindAllStringSubmatch(a.Value, -1) {
		ids = append(ids, m[1])
	}

	return ids
}

func rewriteReferences(a Attr, renamed map[string]string) string {
	if isHref(a.Name) {
		if id, ok := strings.CutPrefix(a.Value, "#"); ok {
			if to, ok := renamed[id]; ok {
				return "#" + to
			}
		}

		return a.Value
	}

	return urlRef.ReplaceAllStringFunc(a.Value, func(m string) string {
		id := urlRef.FindStringSubmatch(m)[1]
		if to, ok := renamed[id]; ok {
			return "url(#" + to + ")"
		}

		return m
	})
}

// shortID maps 0, 1, ... to a, b, ..., Z, aa, ab, ...
func shortID(n int) string {
	var b []byte

	for n >= 0 {
		b = append(b, idAlphabet[n%len(idAlphabet)])
		n = n/len(idAlphabet) - 1
	}

	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}

	return string(b)
}
