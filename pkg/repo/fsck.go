package repo

import (
	"fmt"
	"sort"
	"strings"

	"gitlet/pkg/object"
)

// FsckReport summarizes an integrity check of the object graph reachable
// from all refs and HEAD.
type FsckReport struct {
	Roots     int
	Reachable int
	Missing   []object.MissingReference
}

// OK reports whether the check found no broken references.
func (rep *FsckReport) OK() bool {
	return len(rep.Missing) == 0
}

// Fsck walks the object graph from every ref (branches and tags) plus a
// detached HEAD and reports references to absent objects. A missing
// object here means store corruption, not a usage error: refs are only
// ever advanced to hashes that were durably written first.
func (r *Repo) Fsck() (*FsckReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	refs, err := r.ListRefs("")
	if err != nil {
		return nil, fmt.Errorf("fsck: %w", err)
	}

	var roots []object.Hash
	for _, h := range refs {
		if h != "" {
			roots = append(roots, h)
		}
	}

	head, err := r.Head()
	if err != nil {
		return nil, fmt.Errorf("fsck: %w", err)
	}
	if !strings.HasPrefix(head, "refs/") && strings.TrimSpace(head) != "" {
		roots = append(roots, object.Hash(head))
	}

	missing, err := r.Store.MissingReferences(roots)
	if err != nil {
		return nil, fmt.Errorf("fsck: %w", err)
	}
	sort.Slice(missing, func(i, j int) bool {
		if missing[i].To != missing[j].To {
			return missing[i].To < missing[j].To
		}
		return missing[i].From < missing[j].From
	})

	reachable, err := r.Store.ReachableSet(roots)
	if err != nil {
		return nil, fmt.Errorf("fsck: %w", err)
	}

	return &FsckReport{
		Roots:     len(roots),
		Reachable: len(reachable),
		Missing:   missing,
	}, nil
}
