package repo

import (
	"sync"

	"gitlet/pkg/object"
)

// MetaDirName is the repository metadata directory created by Init.
const MetaDirName = ".gitlet"

// Repo represents an opened gitlet repository.
//
// All exported operations that mutate or snapshot repository state are
// serialized behind mu, so a Repo may be shared by concurrent callers
// within one process. Cross-process ref updates are protected separately
// by per-ref lockfiles.
type Repo struct {
	RootDir string        // working directory root
	MetaDir string        // .gitlet/ directory
	Store   *object.Store // content-addressed object store

	mu sync.Mutex
}
