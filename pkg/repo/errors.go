package repo

import "errors"

// Error kinds returned by core operations. The command surface matches
// these with errors.Is and owns all user-facing formatting; none of them
// is fatal to the process. Missing objects during an otherwise valid
// traversal surface as object.ErrNotFound, which indicates corruption
// rather than a usage error.
var (
	// ErrNotARepository means no metadata directory was found walking
	// upward from the starting path. Recoverable via Init.
	ErrNotARepository = errors.New("not a gitlet repository")

	// ErrNothingToCommit means the staging area is empty.
	ErrNothingToCommit = errors.New("nothing to commit")

	// ErrBranchExists means a branch with the requested name is present.
	ErrBranchExists = errors.New("branch already exists")

	// ErrUnknownRef means a named ref could not be resolved.
	ErrUnknownRef = errors.New("unknown ref")

	// ErrUncommittedChanges means the staging area is non-empty and the
	// operation refuses to discard it.
	ErrUncommittedChanges = errors.New("uncommitted changes in staging area")

	// ErrPathNotFound means an add target does not exist on disk.
	ErrPathNotFound = errors.New("path not found")

	// ErrRefCASMismatch means a compare-and-swap ref update observed an
	// unexpected old value.
	ErrRefCASMismatch = errors.New("ref compare-and-swap mismatch")
)
