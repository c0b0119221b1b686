package repo

import (
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileName is the per-repository ignore file, gitignore syntax.
const IgnoreFileName = ".gitletignore"

// ignoreMatcher decides whether a repo-relative path is excluded from
// scanning and bulk staging.
type ignoreMatcher struct {
	ign *gitignore.GitIgnore
}

// The metadata directories are always excluded, whatever the user writes
// in the ignore file.
var defaultIgnoreRules = []string{
	MetaDirName,
	".git",
}

// newIgnoreMatcher compiles the repository's ignore rules. A missing
// ignore file leaves only the default rules active.
func newIgnoreMatcher(rootDir string) (*ignoreMatcher, error) {
	ignorePath := filepath.Join(rootDir, IgnoreFileName)

	if _, err := os.Stat(ignorePath); err == nil {
		ign, err := gitignore.CompileIgnoreFileAndLines(ignorePath, defaultIgnoreRules...)
		if err != nil {
			return nil, err
		}
		return &ignoreMatcher{ign: ign}, nil
	}

	return &ignoreMatcher{ign: gitignore.CompileIgnoreLines(defaultIgnoreRules...)}, nil
}

// Match reports whether the forward-slash, repo-relative path is ignored.
func (m *ignoreMatcher) Match(path string) bool {
	if m == nil || m.ign == nil {
		return false
	}
	return m.ign.MatchesPath(path)
}
