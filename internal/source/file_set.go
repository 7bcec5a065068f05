package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// FileSet owns the files spans point into. It is not safe for concurrent
// mutation; load every file before handing the set to parallel readers.
type FileSet struct {
	files  []File
	latest map[string]FileID
}

func NewFileSet() *FileSet {
	return &FileSet{latest: make(map[string]FileID)}
}

func cleanPath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// Add stores content under path. Adding a path twice creates a second
// version; GetLatest returns the newest.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file table overflow: %w", err))
	}
	id := FileID(n)
	path = cleanPath(path)
	fs.files = append(fs.files, newFile(id, path, content, flags))
	fs.latest[path] = id
	return id
}

// AddVirtual adds an in-memory file.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Load reads path, strips a UTF-8 BOM and turns CRLF into LF before adding it.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- plan paths come from the command line
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, bom); ok {
		content = rest
		flags |= FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

func (fs *FileSet) Has(id FileID) bool { return int(id) < len(fs.files) }

func (fs *FileSet) Get(id FileID) *File { return &fs.files[id] }

func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.latest[cleanPath(path)]
	return id, ok
}

// Resolve converts both ends of a span into line and column positions.
func (fs *FileSet) Resolve(sp Span) (start, end LineCol) {
	f := fs.Get(sp.File)
	return f.Position(sp.Start), f.Position(sp.End)
}

// LineSpan returns the span of a 1-based line of file id.
func (fs *FileSet) LineSpan(id FileID, line uint32) (Span, bool) {
	if !fs.Has(id) {
		return Span{}, false
	}
	return fs.Get(id).LineSpan(line)
}
