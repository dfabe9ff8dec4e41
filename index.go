package svgicon

import (
	"fmt"
	"path/filepath"
	"strings"
)

// IndexStyle selects the statement used to reference modules in index files.
type IndexStyle string

const (
	// IndexRequire emits CommonJS require calls.
	IndexRequire IndexStyle = "require"
	// IndexImport emits ES module side-effect imports.
	IndexImport IndexStyle = "import"
)

// Set implements pflag.Value.
func (s *IndexStyle) Set(v string) error {
	switch IndexStyle(v) {
	case IndexRequire, IndexImport:
		*s = IndexStyle(v)
		return nil
	default:
		return fmt.Errorf("unknown index style %q, want %q or %q", v, IndexRequire, IndexImport)
	}
}

func (s *IndexStyle) String() string { return string(*s) }

// Type implements pflag.Value.
func (s *IndexStyle) Type() string { return "style" }

func (s IndexStyle) statement(ref string) string {
	if s == IndexImport {
		return "import './" + ref + "'\n"
	}

	return "require('./" + ref + "')\n"
}

// IndexContent builds the index file of a group: one statement per file in
// order, each referencing the module relative to the group directory and
// without an extension.
func IndexContent(style IndexStyle, key string, files []SourceFile) string {
	var b strings.Builder

	for _, f := range files {
		ref := f.ModuleName()
		if key != RootGroup {
			ref = strings.TrimPrefix(ref, key+"/")
		}

		b.WriteString(style.statement(ref))
	}

	return b.String()
}

// indexPath returns the index file path of a group under target.
func indexPath(target, key, ext string) string {
	return filepath.Join(target, key, "index."+ext)
}

func (c *Converter) writeIndex(target, key string, files []SourceFile) (Artifact, error) {
	name := indexPath(target, key, c.opts.Extension)
	data := []byte(IndexContent(c.opts.IndexStyle, key, files))

	if err := c.writeFile(name, data); err != nil {
		return Artifact{}, &FileError{Op: OpIndex, Path: name, Err: err}
	}

	rel, err := filepath.Rel(target, name)
	if err != nil {
		rel = name
	}

	return Artifact{
		Kind: KindIndex,
		Name: filepath.ToSlash(rel),
		Path: name,
		Size: int64(len(data)),
	}, nil
}
