package source

import (
	"bytes"
	"path/filepath"
	"strings"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// detectFlags inspects raw content without modifying it.
func detectFlags(content []byte) FileFlags {
	var flags FileFlags
	if bytes.HasPrefix(content, bom) {
		flags |= FileHasBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		flags |= FileHasCRLF
	}
	return flags
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// бинпоиск: наибольший lineIdx[i] < off
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := hi
	if line < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	startOff := lineIdx[line] + 1
	return LineCol{Line: uint32(line + 2), Col: off - startOff + 1}
}

// AbsolutePath returns the absolute form of path.
func AbsolutePath(path string) (string, error) {
	return filepath.Abs(path)
}

// RelativePath returns path relative to base.
func RelativePath(path, base string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(absPath), nil
	}
	return rel, nil
}

// BaseName returns the last element of path.
func BaseName(path string) string {
	return filepath.Base(path)
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
