package diagfmt

import (
	"path/filepath"

	"strsym/internal/source"
)

// autoPathLimit is the length above which auto mode shortens an absolute path
// to its base name.
const autoPathLimit = 40

// formatPath renders the path of f for display. Virtual units keep their name
// in every mode.
func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	if f.IsVirtual() {
		return f.Path
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := source.AbsolutePath(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if rel, err := source.RelativePath(f.Path, fs.BaseDir()); err == nil {
			return filepath.ToSlash(rel)
		}
	case PathModeBasename:
		return source.BaseName(f.Path)
	case PathModeAuto:
		if len(f.Path) >= autoPathLimit && filepath.IsAbs(f.Path) {
			return source.BaseName(f.Path)
		}
	}
	return f.Path
}
