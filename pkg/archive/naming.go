package archive

import (
	"fmt"
	"path"
	"strings"
)

const (
	jsonExt       = ".json"
	svgExt        = ".svg"
	archiveSuffix = "-frames.zip"
)

// EntryName derives the archive entry name for frame ordinal n (1-based) of
// the file called filename. A trailing ".json" becomes ".svg", then
// "-frame-N" is inserted before the final extension, or appended when the
// name has none.
func EntryName(filename string, n int) string {
	name := filename
	if strings.HasSuffix(name, jsonExt) {
		name = strings.TrimSuffix(name, jsonExt) + svgExt
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s-frame-%d%s", stem, n, ext)
}

// FrameFileName is the file name used when a single frame is written on its
// own. It is the same as the archive entry name.
func FrameFileName(filename string, n int) string {
	return EntryName(filename, n)
}

// Name derives the archive file name from the first registered file.
// A trailing ".json" is replaced by "-frames.zip"; otherwise the suffix is
// appended to the whole name.
func Name(first string) string {
	return strings.TrimSuffix(first, jsonExt) + archiveSuffix
}

// Namer hands out unique base names for the files of one archive.
// A file keeps its name unless that name, or any entry name it would
// produce, is already taken; then "-2", "-3", ... is inserted before the
// extension. Different names can map to the same entries (x.json and x.svg
// both give x-frame-1.svg), so entries are reserved too.
type Namer struct {
	names   map[string]bool
	entries map[string]bool
}

// NewNamer returns an empty Namer.
func NewNamer() *Namer {
	return &Namer{names: make(map[string]bool), entries: make(map[string]bool)}
}

// Unique returns the name to use for filename, which contributes frames
// entries, and reserves it together with its entry names.
func (n *Namer) Unique(filename string, frames int) string {
	candidate := filename
	for k := 2; !n.free(candidate, frames); k++ {
		candidate = withSuffix(filename, k)
	}
	n.names[candidate] = true
	for i := 1; i <= frames; i++ {
		n.entries[EntryName(candidate, i)] = true
	}
	return candidate
}

func (n *Namer) free(name string, frames int) bool {
	if n.names[name] {
		return false
	}
	for i := 1; i <= frames; i++ {
		if n.entries[EntryName(name, i)] {
			return false
		}
	}
	return true
}

// withSuffix inserts "-k" before a trailing ".json" or the final extension,
// or appends it when there is none.
func withSuffix(filename string, k int) string {
	ext := path.Ext(filename)
	if strings.HasSuffix(filename, jsonExt) {
		ext = jsonExt
	}
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(filename, ext), k, ext)
}
