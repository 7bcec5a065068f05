package source

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// FileFlags records how a file's content was obtained.
type FileFlags uint8

const (
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File is one immutable version of a source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Flags   FileFlags

	starts []uint32 // offset of the first byte of every line
}

func newFile(id FileID, path string, content []byte, flags FileFlags) File {
	starts := []uint32{0}
	for i, c := range content {
		if c != '\n' {
			continue
		}
		next, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			panic(fmt.Errorf("%s: line offset overflow: %w", path, err))
		}
		starts = append(starts, next)
	}
	return File{ID: id, Path: path, Content: content, Flags: flags, starts: starts}
}

// Lines is the number of lines, counting a trailing empty one.
func (f *File) Lines() int { return len(f.starts) }

// Position converts a byte offset into a line and column.
func (f *File) Position(off uint32) LineCol {
	i := sort.Search(len(f.starts), func(i int) bool { return f.starts[i] > off }) - 1
	line, err := safecast.Conv[uint32](i + 1)
	if err != nil {
		panic(fmt.Errorf("%s: line number overflow: %w", f.Path, err))
	}
	return LineCol{Line: line, Col: off - f.starts[i] + 1}
}

// LineSpan returns the span of line (1-based) without its newline.
func (f *File) LineSpan(line uint32) (Span, bool) {
	if line == 0 || int(line) > len(f.starts) {
		return Span{}, false
	}
	start := f.starts[line-1]
	var end uint32
	if int(line) < len(f.starts) {
		end = f.starts[line] - 1
	} else {
		n, err := safecast.Conv[uint32](len(f.Content))
		if err != nil {
			panic(fmt.Errorf("%s: content length overflow: %w", f.Path, err))
		}
		end = n
	}
	return Span{File: f.ID, Start: start, End: end}, true
}
