package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gitlet/pkg/object"
)

// StagedKind classifies a staged change relative to the HEAD tree.
type StagedKind int

const (
	StagedNew      StagedKind = iota // path absent from HEAD
	StagedModified                   // path in HEAD with different content
	StagedDeleted                    // tracked path staged for removal
)

// StagedEntry is one pending change in the index.
type StagedEntry struct {
	Path string
	Kind StagedKind
}

// Status is a consistent snapshot of the repository state. The four path
// sets are disjoint and each is sorted lexicographically.
type Status struct {
	Branch     string // current branch name, "" when HEAD is detached
	Detached   bool
	HasCommits bool

	Staged    []StagedEntry // pending changes in the index
	Modified  []string      // tracked, content differs on disk, not staged
	Deleted   []string      // tracked, missing from disk, not staged
	Untracked []string      // on disk, unknown to index and HEAD tree
}

// Clean reports whether there is nothing to commit and nothing unknown.
func (s *Status) Clean() bool {
	return len(s.Staged) == 0 && len(s.Modified) == 0 &&
		len(s.Deleted) == 0 && len(s.Untracked) == 0
}

// ComputeStatus scans the working tree against the index and the HEAD
// tree.
//
//  1. Read the staging area and flatten the HEAD tree.
//  2. Walk the working directory, skipping .gitlet/ and ignored paths.
//  3. Classify every staged entry against HEAD (new/modified/deleted).
//  4. Classify every tracked, unstaged path against the disk content
//     (modified/deleted).
//  5. Everything on disk unknown to both sides is untracked.
func (r *Repo) ComputeStatus() (*Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.computeStatusLocked()
}

func (r *Repo) computeStatusLocked() (*Status, error) {
	stg, err := r.ReadStaging()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	matcher, err := newIgnoreMatcher(r.RootDir)
	if err != nil {
		return nil, fmt.Errorf("status: compile ignore rules: %w", err)
	}

	workFiles, err := r.walkFiles("", matcher)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	onDisk := make(map[string]bool, len(workFiles))
	for _, p := range workFiles {
		onDisk[p] = true
	}

	head, err := r.headTreeState()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	removed := stg.removedSet()

	st := &Status{}

	branch, err := r.currentBranchLocked()
	if err == nil && branch != "" {
		st.Branch = branch
	} else {
		st.Detached = true
	}
	if _, err := r.ResolveRef("HEAD"); err == nil {
		st.HasCommits = true
	}

	// Staged entries vs HEAD.
	for p, se := range stg.Entries {
		hs, tracked := head[p]
		switch {
		case !tracked:
			st.Staged = append(st.Staged, StagedEntry{Path: p, Kind: StagedNew})
		case hs.BlobHash != se.BlobHash || hs.Mode != se.Mode:
			st.Staged = append(st.Staged, StagedEntry{Path: p, Kind: StagedModified})
		}
		// Staged content identical to HEAD is not a pending change.
	}
	for p := range removed {
		if _, tracked := head[p]; tracked {
			st.Staged = append(st.Staged, StagedEntry{Path: p, Kind: StagedDeleted})
		}
	}

	// Tracked, unstaged paths vs disk.
	for p, hs := range head {
		if _, staged := stg.Entries[p]; staged {
			continue
		}
		if removed[p] {
			continue
		}
		if !onDisk[p] {
			st.Deleted = append(st.Deleted, p)
			continue
		}
		content, err := os.ReadFile(filepath.Join(r.RootDir, filepath.FromSlash(p)))
		if err != nil {
			return nil, fmt.Errorf("status: read %q: %w", p, err)
		}
		if object.HashObject(object.TypeBlob, content) != hs.BlobHash {
			st.Modified = append(st.Modified, p)
		}
	}

	// Untracked: on disk, unknown to index and HEAD.
	for _, p := range workFiles {
		if _, staged := stg.Entries[p]; staged {
			continue
		}
		if _, tracked := head[p]; tracked {
			continue
		}
		st.Untracked = append(st.Untracked, p)
	}

	sort.Slice(st.Staged, func(i, j int) bool { return st.Staged[i].Path < st.Staged[j].Path })
	sort.Strings(st.Modified)
	sort.Strings(st.Deleted)
	sort.Strings(st.Untracked)

	return st, nil
}
