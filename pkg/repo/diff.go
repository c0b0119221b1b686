package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"gitlet/pkg/object"
)

// FileDiff is a unified diff for one path between the HEAD tree and the
// working directory.
type FileDiff struct {
	Path    string
	Unified string
}

// Diff compares working-tree content against the HEAD tree and returns
// unified diffs, sorted by path. With no arguments every changed tracked
// path is diffed; otherwise only the named paths are. New and deleted
// files diff against empty content.
func (r *Repo) Diff(paths ...string) ([]FileDiff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	head, err := r.headTreeState()
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}

	var candidates []string
	if len(paths) > 0 {
		for _, p := range paths {
			relPath, err := r.repoRelPath(p)
			if err != nil {
				return nil, fmt.Errorf("diff: resolve path %q: %w", p, err)
			}
			candidates = append(candidates, relPath)
		}
	} else {
		matcher, err := newIgnoreMatcher(r.RootDir)
		if err != nil {
			return nil, fmt.Errorf("diff: compile ignore rules: %w", err)
		}
		onDisk, err := r.walkFiles("", matcher)
		if err != nil {
			return nil, fmt.Errorf("diff: %w", err)
		}
		seen := make(map[string]bool)
		for _, p := range onDisk {
			if _, tracked := head[p]; tracked {
				candidates = append(candidates, p)
				seen[p] = true
			}
		}
		for p := range head {
			if !seen[p] {
				candidates = append(candidates, p) // deleted from disk
			}
		}
	}
	sort.Strings(candidates)

	var diffs []FileDiff
	for _, p := range candidates {
		var oldContent []byte
		if hs, tracked := head[p]; tracked {
			blob, err := r.Store.ReadBlob(hs.BlobHash)
			if err != nil {
				return nil, fmt.Errorf("diff: read blob for %q: %w", p, err)
			}
			oldContent = blob.Data
		}

		newContent, err := os.ReadFile(filepath.Join(r.RootDir, filepath.FromSlash(p)))
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("diff: read %q: %w", p, err)
		}

		if object.HashBytes(oldContent) == object.HashBytes(newContent) {
			continue
		}

		unified, err := unifiedDiff(p, oldContent, newContent)
		if err != nil {
			return nil, fmt.Errorf("diff %q: %w", p, err)
		}
		if strings.TrimSpace(unified) == "" {
			continue
		}
		diffs = append(diffs, FileDiff{Path: p, Unified: unified})
	}

	return diffs, nil
}

func unifiedDiff(path string, oldContent, newContent []byte) (string, error) {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(oldContent)),
		B:        difflib.SplitLines(string(newContent)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(d)
}
