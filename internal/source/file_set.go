package source

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"fortio.org/safecast"
)

// FileSet owns the units of one run. IDs are dense and follow the order files
// were added. A batch adds every unit before its workers start and only reads
// the set afterwards, so it carries no lock.
//
// Content is kept exactly as read: the transformer reproduces every byte it
// does not rewrite, so no BOM stripping or CRLF normalization happens here.
type FileSet struct {
	files []File
	base  string
}

// NewFileSet returns an empty set whose relative paths start at the working
// directory.
func NewFileSet() *FileSet {
	return &FileSet{}
}

// NewFileSetWithBase returns an empty set whose relative paths start at base,
// the root of a batch.
func NewFileSetWithBase(base string) *FileSet {
	return &FileSet{base: base}
}

// BaseDir is the directory relative display paths start at.
func (s *FileSet) BaseDir() string {
	if s.base != "" {
		return s.base
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// Add stores a file named by its disk path. Adding the same path twice yields
// two units.
func (s *FileSet) Add(path string, content []byte) FileID {
	return s.add(path, content, 0)
}

// AddVirtual stores a unit that has no disk path: stdin, a test buffer, or the
// placeholder of a unit that failed to load.
func (s *FileSet) AddVirtual(name string, content []byte) FileID {
	return s.add(name, content, FileVirtual)
}

// Load reads path and adds it.
func (s *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if err := checkSize(content); err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return s.Add(path, content), nil
}

// LoadReader reads r to the end and adds it as a virtual unit named name.
func (s *FileSet) LoadReader(name string, r io.Reader) (FileID, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if err := checkSize(content); err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return s.AddVirtual(name, content), nil
}

// Get returns the unit with the given ID, or nil when the ID is unknown.
func (s *FileSet) Get(id FileID) *File {
	if int(id) >= len(s.files) {
		return nil
	}
	return &s.files[id]
}

// Len returns the number of units in the set.
func (s *FileSet) Len() int {
	return len(s.files)
}

// Resolve converts a span into 1-based line and column positions.
func (s *FileSet) Resolve(span Span) (start, end LineCol) {
	f := s.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

func (s *FileSet) add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(s.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	s.files = append(s.files, File{
		ID:      id,
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags | detectFlags(content),
	})
	return id
}

// checkSize rejects content whose offsets do not fit a Span.
func checkSize(content []byte) error {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		return fmt.Errorf("input too large: %w", err)
	}
	return nil
}

// Slice returns the bytes covered by span.
func (f *File) Slice(span Span) []byte {
	return f.Content[span.Start:span.End]
}

// Line returns the 1-based line n without its terminator, dropping the \r of
// a CRLF as well. Lines past the end are empty.
func (f *File) Line(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	start := 0
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	end := len(f.Content)
	if int(n) <= len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	if start > end {
		return ""
	}
	line := f.Content[start:end]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return string(line)
}

// IsVirtual reports whether f has no disk path.
func (f *File) IsVirtual() bool {
	return f.Flags&FileVirtual != 0
}
