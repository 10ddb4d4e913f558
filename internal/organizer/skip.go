package organizer

import (
	"path/filepath"
	"strings"
)

// SkipMatcher decides which scanned files are left untouched: files
// inside skip-listed or protected folders, hidden entries, files with
// protected extensions, and anything already under the organized or
// backup roots.
type SkipMatcher struct {
	sourceRoot    string
	skipFolders   map[string]bool
	protectedDirs map[string]bool
	protectedExts map[string]bool
	includeHidden bool
	excludeRoots  []string
}

// NewSkipMatcher builds a matcher scoped to sourceRoot. excludeRoots
// are absolute paths (typically the organized root and the backup
// root) whose subtrees are never organized.
func NewSkipMatcher(sourceRoot string, skipFolders, protectedDirs, protectedExts []string, includeHidden bool, excludeRoots ...string) *SkipMatcher {
	m := &SkipMatcher{
		sourceRoot:    sourceRoot,
		skipFolders:   make(map[string]bool, len(skipFolders)),
		protectedDirs: make(map[string]bool, len(protectedDirs)),
		protectedExts: make(map[string]bool, len(protectedExts)),
		includeHidden: includeHidden,
	}
	for _, f := range skipFolders {
		m.skipFolders[f] = true
	}
	for _, d := range protectedDirs {
		m.protectedDirs[d] = true
	}
	for _, e := range protectedExts {
		m.protectedExts[strings.ToLower(e)] = true
	}
	for _, r := range excludeRoots {
		if r != "" {
			m.excludeRoots = append(m.excludeRoots, r)
		}
	}
	return m
}

// ShouldSkip reports whether the file at path is excluded from
// organization.
func (m *SkipMatcher) ShouldSkip(record *FileRecord) bool {
	if m.protectedExts[record.Ext] {
		return true
	}

	for _, root := range m.excludeRoots {
		if record.Path == root || strings.HasPrefix(record.Path, root+string(filepath.Separator)) {
			return true
		}
	}

	for _, seg := range strings.Split(record.Path, string(filepath.Separator)) {
		if m.skipFolders[seg] || m.protectedDirs[seg] {
			return true
		}
	}

	// The hidden check only looks below the source root. A root that
	// itself lives under a dotted directory (~/.local/share/docs) is
	// the user's choice of location, not a hidden entry.
	if !m.includeHidden {
		for _, seg := range m.hiddenScope(record.Path) {
			if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
				return true
			}
		}
	}

	return false
}

// hiddenScope returns the path components the hidden check applies to:
// the root-relative segments when the path is under the source root,
// otherwise just the base name.
func (m *SkipMatcher) hiddenScope(path string) []string {
	if m.sourceRoot != "" {
		prefix := m.sourceRoot + string(filepath.Separator)
		if strings.HasPrefix(path, prefix) {
			return strings.Split(path[len(prefix):], string(filepath.Separator))
		}
	}
	return []string{filepath.Base(path)}
}
