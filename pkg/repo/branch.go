package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gitlet/pkg/object"
)

// CreateBranch creates a new branch pointing at the current HEAD commit.
// On a repository with no commits yet the branch is created unborn and
// starts pointing once it receives its first commit. Fails with
// ErrBranchExists if the name is already taken.
func (r *Repo) CreateBranch(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createBranchLocked(name)
}

func (r *Repo) createBranchLocked(name string) error {
	if err := validateRefName(name); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}

	refName := "refs/heads/" + name
	if r.refExists(refName) {
		return fmt.Errorf("create branch %q: %w", name, ErrBranchExists)
	}

	// Unborn HEAD copies over as an unborn branch (empty target).
	target, err := r.ResolveRef("HEAD")
	if err != nil {
		target = ""
	}

	if err := r.UpdateRefCAS(refName, target, ""); err != nil {
		if errors.Is(err, ErrRefCASMismatch) {
			return fmt.Errorf("create branch %q: %w", name, ErrBranchExists)
		}
		return fmt.Errorf("create branch %q: %w", name, err)
	}
	return nil
}

// DeleteBranch removes the branch ref file. Fails with ErrUnknownRef for a
// missing branch, and refuses to delete the currently checked-out branch.
func (r *Repo) DeleteBranch(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.currentBranchLocked()
	if err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	if current == name {
		return fmt.Errorf("delete branch: cannot delete current branch %q", name)
	}

	refPath := filepath.Join(r.MetaDir, "refs", "heads", name)
	if err := os.Remove(refPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("delete branch %q: %w", name, ErrUnknownRef)
		}
		return fmt.Errorf("delete branch %q: %w", name, err)
	}
	return nil
}

// RenameBranch renames a branch ref. The currently checked-out branch
// cannot be renamed; the new name must be free.
func (r *Repo) RenameBranch(oldName, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := validateRefName(newName); err != nil {
		return fmt.Errorf("rename branch: %w", err)
	}

	current, err := r.currentBranchLocked()
	if err != nil {
		return fmt.Errorf("rename branch: %w", err)
	}
	if current == oldName {
		return fmt.Errorf("rename branch: cannot rename current branch %q", oldName)
	}
	if r.refExists("refs/heads/" + newName) {
		return fmt.Errorf("rename branch %q: %w", newName, ErrBranchExists)
	}

	oldPath := filepath.Join(r.MetaDir, "refs", "heads", oldName)
	target, err := readRefHash(oldPath)
	if err != nil {
		return fmt.Errorf("rename branch %q: %w", oldName, err)
	}
	if !r.refExists("refs/heads/" + oldName) {
		return fmt.Errorf("rename branch %q: %w", oldName, ErrUnknownRef)
	}

	if err := r.UpdateRefCAS("refs/heads/"+newName, target, ""); err != nil {
		return fmt.Errorf("rename branch %q: %w", newName, err)
	}
	if err := os.Remove(oldPath); err != nil {
		return fmt.Errorf("rename branch: remove %q: %w", oldName, err)
	}
	return nil
}

// ListBranches returns the branch names sorted alphabetically, walking
// nested refs (e.g. "feature/login") recursively. The current branch is
// included even while it is unborn (no ref file yet).
func (r *Repo) ListBranches() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	refs, err := r.ListRefs("heads")
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}

	seen := make(map[string]bool, len(refs))
	for name := range refs {
		seen[strings.TrimPrefix(name, "heads/")] = true
	}

	if current, err := r.currentBranchLocked(); err == nil && current != "" {
		seen[current] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CurrentBranch reads HEAD and returns the branch name if HEAD is a
// symbolic ref (e.g. "ref: refs/heads/main" → "main"). If HEAD is detached
// it returns "".
func (r *Repo) CurrentBranch() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentBranchLocked()
}

func (r *Repo) currentBranchLocked() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("current branch: %w", err)
	}

	const prefix = "refs/heads/"
	if strings.HasPrefix(head, prefix) {
		return strings.TrimPrefix(head, prefix), nil
	}
	return "", nil
}

func validateRefName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(name, " \t\n~^:?*[\\") || strings.Contains(name, "..") {
		return fmt.Errorf("invalid name %q", name)
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") || strings.HasSuffix(name, ".lock") {
		return fmt.Errorf("invalid name %q", name)
	}
	return nil
}

// BranchTarget returns the commit a branch points at, or ErrUnknownRef
// for a missing or unborn branch.
func (r *Repo) BranchTarget(name string) (object.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResolveRef("refs/heads/" + name)
}
