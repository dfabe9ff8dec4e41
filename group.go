package svgicon

// RootGroup is the group key of files that are not inside a first-level
// directory of the source root.
const RootGroup = ""

// Grouping partitions the discovered files by first-level directory.
type Grouping struct {
	// All holds every file in discovery order.
	All []SourceFile
	// Root holds files outside any first-level directory.
	Root []SourceFile
	// Groups maps every first-level directory name to its files, including
	// files nested deeper below it.
	Groups map[string][]SourceFile
	// Names lists the first-level directories in listing order.
	Names []string
}

// Files returns the files of the group with the given key.
func (g Grouping) Files(key string) []SourceFile {
	if key == RootGroup {
		return g.Root
	}

	return g.Groups[key]
}

// Keys returns the root group key followed by every first-level directory,
// including directories without files.
func (g Grouping) Keys() []string {
	return append([]string{RootGroup}, g.Names...)
}

// GroupFiles assigns every file to exactly one group: the first-level
// directory named by the first segment of its relative path, or the root
// group. Order within a group follows files.
func GroupFiles(files []SourceFile, dirs []string) Grouping {
	set := make(map[string]bool, len(dirs))
	g := Grouping{
		All:    files,
		Groups: make(map[string][]SourceFile, len(dirs)),
		Names:  dirs,
	}

	for _, d := range dirs {
		set[d] = true
		g.Groups[d] = nil
	}

	for _, f := range files {
		key := f.GroupKey(set)
		if key == RootGroup {
			g.Root = append(g.Root, f)
			continue
		}

		g.Groups[key] = append(g.Groups[key], f)
	}

	return g
}
