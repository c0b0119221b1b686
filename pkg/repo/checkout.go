package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gitlet/pkg/object"
)

// Checkout switches the working directory to the state of the target.
// The target can be a branch name or a raw commit hash (detached HEAD).
//
// A non-empty staging area blocks the switch with ErrUncommittedChanges:
// checking out would silently discard staged work. An unknown branch name
// that is not a stored commit hash yields ErrUnknownRef.
//
// Algorithm:
//  1. Refuse if anything is staged.
//  2. Resolve target: branch name first, then raw hash.
//  3. Remove the files tracked by the current HEAD tree.
//  4. Materialize the target commit's tree into the working directory.
//  5. Update HEAD (symbolic ref for a branch, raw hash when detached).
func (r *Repo) Checkout(target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stg, err := r.ReadStaging()
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if !stg.IsEmpty() {
		return fmt.Errorf("checkout %q: %w", target, ErrUncommittedChanges)
	}

	isBranch := r.refExists("refs/heads/" + target)
	var targetHash object.Hash
	if isBranch {
		// May still be empty: switching to an unborn branch is allowed.
		targetHash, err = readRefHash(filepath.Join(r.MetaDir, "refs", "heads", filepath.FromSlash(target)))
		if err != nil {
			return fmt.Errorf("checkout: read branch %q: %w", target, err)
		}
	} else {
		targetHash = object.Hash(target)
		if !r.Store.Has(targetHash) {
			return fmt.Errorf("checkout %q: %w", target, ErrUnknownRef)
		}
	}

	// Collect the target tree before touching the working directory.
	var targetFiles []TreeFileEntry
	if targetHash != "" {
		commit, err := r.Store.ReadCommit(targetHash)
		if err != nil {
			return fmt.Errorf("checkout: read commit %s: %w", targetHash, err)
		}
		targetFiles, err = r.FlattenTree(commit.TreeHash)
		if err != nil {
			return fmt.Errorf("checkout: flatten target tree: %w", err)
		}
	}

	// Remove files tracked by the current HEAD tree.
	currentFiles, err := r.headTreeState()
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	for path := range currentFiles {
		absPath := filepath.Join(r.RootDir, filepath.FromSlash(path))
		if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("checkout: remove %q: %w", path, err)
		}
		r.removeEmptyParents(filepath.Dir(absPath))
	}

	// Write all files from the target tree.
	for _, f := range targetFiles {
		absPath := filepath.Join(r.RootDir, filepath.FromSlash(f.Path))

		dir := filepath.Dir(absPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("checkout: mkdir %q: %w", dir, err)
		}

		blob, err := r.Store.ReadBlob(f.BlobHash)
		if err != nil {
			return fmt.Errorf("checkout: read blob for %q: %w", f.Path, err)
		}

		if err := os.WriteFile(absPath, blob.Data, filePermFromMode(f.Mode)); err != nil {
			return fmt.Errorf("checkout: write %q: %w", f.Path, err)
		}
	}

	// Update HEAD.
	headPath := filepath.Join(r.MetaDir, "HEAD")
	var headContent string
	if isBranch {
		headContent = "ref: refs/heads/" + target + "\n"
	} else {
		headContent = string(targetHash) + "\n"
	}
	if err := os.WriteFile(headPath, []byte(headContent), 0o644); err != nil {
		return fmt.Errorf("checkout: update HEAD: %w", err)
	}

	return nil
}

func filePermFromMode(mode string) os.FileMode {
	if mode == object.TreeModeExecutable {
		return 0o755
	}
	return 0o644
}

// removeEmptyParents removes empty directories up to (but not including)
// the repository root.
func (r *Repo) removeEmptyParents(dir string) {
	for {
		if dir == r.RootDir || !strings.HasPrefix(dir, r.RootDir) {
			return
		}

		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}

		os.Remove(dir)
		dir = filepath.Dir(dir)
	}
}
