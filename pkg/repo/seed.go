package repo

import (
	"fmt"

	"gitlet/pkg/object"
)

// Seed stages every non-ignored file under the repository root and
// records them as a single commit. It is the bulk-import primitive behind
// clone: the caller materializes a working tree by whatever external
// means, then Seed turns it into history.
//
// Fails with ErrNothingToCommit when the working tree holds no stageable
// files.
func (r *Repo) Seed(message, author string) (object.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matcher, err := newIgnoreMatcher(r.RootDir)
	if err != nil {
		return "", fmt.Errorf("seed: compile ignore rules: %w", err)
	}

	files, err := r.walkFiles("", matcher)
	if err != nil {
		return "", fmt.Errorf("seed: %w", err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("seed: %w", ErrNothingToCommit)
	}

	stg, err := r.ReadStaging()
	if err != nil {
		return "", fmt.Errorf("seed: %w", err)
	}
	for _, relPath := range files {
		if err := r.stageFile(stg, relPath); err != nil {
			return "", fmt.Errorf("seed: %w", err)
		}
	}
	if err := r.WriteStaging(stg); err != nil {
		return "", fmt.Errorf("seed: %w", err)
	}

	return r.commitLocked(message, author)
}
