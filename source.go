package svgicon

import (
	"path"
	"path/filepath"
	"strings"
)

// SourceFile is an SVG file found under the source root.
type SourceFile struct {
	// Path is the file path on the file system.
	Path string
	// Rel is the slash-separated path relative to the source root.
	Rel string
}

// Name returns the base name up to its first dot.
func (f SourceFile) Name() string {
	base := path.Base(f.Rel)

	name, _, _ := strings.Cut(base, ".")
	if name == "" {
		name = strings.TrimSuffix(base, path.Ext(base))
	}

	return name
}

// Dir returns the directory of the file relative to the source root with a
// trailing slash, or the empty string for files directly under the root.
func (f SourceFile) Dir() string {
	dir := path.Dir(f.Rel)
	if dir == "." {
		return ""
	}

	return dir + "/"
}

// ModuleName returns the icon name used by templates and index files,
// e.g. "nav/menu".
func (f SourceFile) ModuleName() string {
	return f.Dir() + f.Name()
}

// GroupKey returns the first-level directory holding the file when it is
// one of dirs, or the empty string for the root group.
func (f SourceFile) GroupKey(dirs map[string]bool) string {
	first, _, nested := strings.Cut(f.Rel, "/")
	if !nested || !dirs[first] {
		return ""
	}

	return first
}

// OutputPath formats the path of a generated file mirroring the source
// layout under target.
func (f SourceFile) OutputPath(target, ext string) string {
	return filepath.Join(target, filepath.FromSlash(f.Dir()), f.Name()+"."+ext)
}
