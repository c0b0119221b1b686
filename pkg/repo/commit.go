package repo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gitlet/pkg/object"
)

// Commit creates a new commit from the current staging area.
//
//  1. Read staging; fail with ErrNothingToCommit if it is empty.
//  2. Build the root tree (staging overlaid on the parent tree).
//  3. Resolve HEAD for the parent commit hash (absent on the first commit).
//  4. Write the commit object referencing tree and parent.
//  5. Advance the current branch ref with a compare-and-swap against the
//     old head (or update HEAD directly when detached).
//  6. Clear the staging area.
//
// Objects are durably stored before the ref moves, so a failure at any
// step before (5) leaves refs and staging untouched.
func (r *Repo) Commit(message, author string) (object.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commitLocked(message, author)
}

func (r *Repo) commitLocked(message, author string) (object.Hash, error) {
	stg, err := r.ReadStaging()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if stg.IsEmpty() {
		return "", fmt.Errorf("commit: %w", ErrNothingToCommit)
	}

	treeHash, err := r.BuildTree(stg)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	var parents []object.Hash
	parentHash, err := r.ResolveRef("HEAD")
	switch {
	case err == nil && parentHash != "":
		parents = append(parents, parentHash)
	case err != nil && !errors.Is(err, ErrUnknownRef):
		return "", fmt.Errorf("commit: resolve parent: %w", err)
	}
	// ErrUnknownRef means an unborn branch: first commit, no parent.

	commitObj := &object.CommitObj{
		TreeHash:  treeHash,
		Parents:   parents,
		Author:    author,
		Timestamp: time.Now().Unix(),
		Message:   message,
	}

	commitHash, err := r.Store.WriteCommit(commitObj)
	if err != nil {
		return "", fmt.Errorf("commit: write commit: %w", err)
	}

	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("commit: read HEAD: %w", err)
	}

	// head is either a ref path ("refs/heads/main") or a detached hash.
	if strings.HasPrefix(head, "refs/") {
		if err := r.UpdateRefCAS(head, commitHash, parentHash); err != nil {
			return "", fmt.Errorf("commit: update ref %q: %w", head, err)
		}
	} else {
		if err := r.UpdateRefCAS("HEAD", commitHash, object.Hash(strings.TrimSpace(head))); err != nil {
			return "", fmt.Errorf("commit: update detached HEAD: %w", err)
		}
	}

	if err := r.WriteStaging(&Staging{Entries: make(map[string]*StagingEntry)}); err != nil {
		return "", fmt.Errorf("commit: clear staging: %w", err)
	}

	return commitHash, nil
}

// LogEntry pairs a commit with its hash for history display.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.CommitObj
}

// Log walks the commit history starting from the given hash, following
// first-parent links, returning up to limit commits newest first. A limit
// of zero or less means no limit. A missing commit along the walk is
// corruption and surfaces as object.ErrNotFound.
func (r *Repo) Log(start object.Hash, limit int) ([]LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []LogEntry
	current := start

	for limit <= 0 || len(entries) < limit {
		c, err := r.Store.ReadCommit(current)
		if err != nil {
			return nil, fmt.Errorf("log: read commit %s: %w", current, err)
		}
		entries = append(entries, LogEntry{Hash: current, Commit: c})

		if len(c.Parents) == 0 {
			break
		}
		current = c.Parents[0]
	}

	return entries, nil
}
