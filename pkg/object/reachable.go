package object

import (
	"fmt"
	"strings"
)

// ReachableSet returns all object hashes reachable from roots by following
// object references. Missing roots are ignored; use MissingReferences to
// detect broken edges.
func (s *Store) ReachableSet(roots []Hash) (map[Hash]struct{}, error) {
	roots = uniqueNormalizedHashes(roots)
	out := make(map[Hash]struct{}, len(roots))
	if len(roots) == 0 {
		return out, nil
	}

	stack := make([]Hash, 0, len(roots))
	stack = append(stack, roots...)
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if h == "" {
			continue
		}
		if _, ok := out[h]; ok {
			continue
		}
		if !s.Has(h) {
			continue
		}
		out[h] = struct{}{}

		objType, data, err := s.Read(h)
		if err != nil {
			return nil, fmt.Errorf("reachable set read %s: %w", h, err)
		}
		refs, err := referencedHashes(objType, data)
		if err != nil {
			return nil, fmt.Errorf("reachable set parse %s (%s): %w", h, objType, err)
		}
		stack = append(stack, refs...)
	}

	return out, nil
}

// MissingReference describes an edge pointing at an absent object.
type MissingReference struct {
	From Hash // referencing object, empty for a root
	To   Hash // absent object
}

// MissingReferences walks the graph from roots and reports every reference
// whose target object is not in the store.
func (s *Store) MissingReferences(roots []Hash) ([]MissingReference, error) {
	var missing []MissingReference
	seen := make(map[Hash]struct{})

	type edge struct{ from, to Hash }
	stack := make([]edge, 0, len(roots))
	for _, r := range uniqueNormalizedHashes(roots) {
		stack = append(stack, edge{to: r})
	}

	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.to == "" {
			continue
		}
		if _, ok := seen[e.to]; ok {
			continue
		}
		seen[e.to] = struct{}{}

		if !s.Has(e.to) {
			missing = append(missing, MissingReference{From: e.from, To: e.to})
			continue
		}

		objType, data, err := s.Read(e.to)
		if err != nil {
			return nil, fmt.Errorf("missing refs read %s: %w", e.to, err)
		}
		refs, err := referencedHashes(objType, data)
		if err != nil {
			return nil, fmt.Errorf("missing refs parse %s (%s): %w", e.to, objType, err)
		}
		for _, ref := range refs {
			stack = append(stack, edge{from: e.to, to: ref})
		}
	}

	return missing, nil
}

func referencedHashes(objType ObjectType, data []byte) ([]Hash, error) {
	switch objType {
	case TypeBlob:
		return nil, nil
	case TypeTag:
		tag, err := UnmarshalTag(data)
		if err != nil {
			return nil, err
		}
		return []Hash{tag.TargetHash}, nil
	case TypeCommit:
		commit, err := UnmarshalCommit(data)
		if err != nil {
			return nil, err
		}
		refs := make([]Hash, 0, 1+len(commit.Parents))
		refs = append(refs, commit.TreeHash)
		refs = append(refs, commit.Parents...)
		return refs, nil
	case TypeTree:
		tree, err := UnmarshalTree(data)
		if err != nil {
			return nil, err
		}
		refs := make([]Hash, 0, len(tree.Entries))
		for _, e := range tree.Entries {
			if e.IsDir {
				refs = append(refs, e.SubtreeHash)
			} else {
				refs = append(refs, e.BlobHash)
			}
		}
		return refs, nil
	default:
		return nil, fmt.Errorf("unknown object type %q", objType)
	}
}

func uniqueNormalizedHashes(hashes []Hash) []Hash {
	seen := make(map[Hash]struct{}, len(hashes))
	out := make([]Hash, 0, len(hashes))
	for _, h := range hashes {
		n := Hash(strings.TrimSpace(string(h)))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
