package svgicon

import (
	"github.com/dustin/go-humanize"
)

// Kind is the kind of a generated file.
type Kind int

const (
	KindIcon Kind = iota
	KindIndex
	KindIVG
)

func (k Kind) String() string {
	switch k {
	case KindIcon:
		return "icon"
	case KindIndex:
		return "index"
	case KindIVG:
		return "ivg"
	default:
		return "unknown"
	}
}

// Artifact is a file written by the [Converter].
type Artifact struct {
	Kind Kind
	// Name is the icon module name, or the index path relative to the
	// target root.
	Name string
	// Path is the written file path.
	Path string
	Size int64
}

// Report summarizes a run.
type Report struct {
	Icons   int
	Indexes int
	IVGs    int
	// Bytes is the total size of all written files.
	Bytes  int64
	Failed []error
}

func (r *Report) add(a Artifact) {
	switch a.Kind {
	case KindIcon:
		r.Icons++
	case KindIndex:
		r.Indexes++
	case KindIVG:
		r.IVGs++
	}

	r.Bytes += a.Size
}

// Size returns the total written size in human readable form.
func (r Report) Size() string {
	return humanize.Bytes(uint64(r.Bytes))
}

// Err returns all per-file failures as one error, or nil.
func (r Report) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}

	return fileErrs(r.Failed)
}
