package persist

import (
	"path/filepath"
	"strings"
)

// Extension is the canonical `.shy` file extension.
const Extension = ".shy"

// NormalizeExtension rewrites path so it ends in a lowercase ".shy",
// regardless of the case the caller used (".SHY", ".Shy", ...). If path
// has no extension, ".shy" is appended.
func NormalizeExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return path + Extension
	}
	if strings.EqualFold(ext, Extension) {
		return path[:len(path)-len(ext)] + Extension
	}
	return path
}
