package object

import "testing"

// buildChain stores blob -> tree -> commit and returns the commit hash.
func buildChain(t *testing.T, s *Store, content string, parents ...Hash) (commit, tree, blob Hash) {
	t.Helper()

	blob, err := s.WriteBlob(&Blob{Data: []byte(content)})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	tree, err = s.WriteTree(&TreeObj{Entries: []TreeEntry{
		{Name: "file.txt", Mode: TreeModeFile, BlobHash: blob},
	}})
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	commit, err = s.WriteCommit(&CommitObj{
		TreeHash:  tree,
		Parents:   parents,
		Author:    "t",
		Timestamp: 1,
		Message:   content,
	})
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}
	return commit, tree, blob
}

func TestReachableSetWalksCommitGraph(t *testing.T) {
	s := tempStore(t)

	c1, t1, b1 := buildChain(t, s, "one")
	c2, t2, b2 := buildChain(t, s, "two", c1)

	set, err := s.ReachableSet([]Hash{c2})
	if err != nil {
		t.Fatalf("ReachableSet: %v", err)
	}

	for _, h := range []Hash{c1, c2, t1, t2, b1, b2} {
		if _, ok := set[h]; !ok {
			t.Errorf("hash %s not reachable", h)
		}
	}
	if len(set) != 6 {
		t.Errorf("reachable count: got %d, want 6", len(set))
	}
}

func TestReachableSetUnreachableExcluded(t *testing.T) {
	s := tempStore(t)

	c1, _, _ := buildChain(t, s, "kept")
	orphan, err := s.WriteBlob(&Blob{Data: []byte("orphan")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}

	set, err := s.ReachableSet([]Hash{c1})
	if err != nil {
		t.Fatalf("ReachableSet: %v", err)
	}
	if _, ok := set[orphan]; ok {
		t.Error("orphan blob should not be reachable")
	}
}

func TestReachableSetEmptyRoots(t *testing.T) {
	s := tempStore(t)
	set, err := s.ReachableSet(nil)
	if err != nil {
		t.Fatalf("ReachableSet: %v", err)
	}
	if len(set) != 0 {
		t.Errorf("expected empty set, got %d entries", len(set))
	}
}

func TestMissingReferencesDetectsBrokenEdge(t *testing.T) {
	s := tempStore(t)

	// Commit referencing a tree that was never stored.
	ghost := Hash("1111111111111111111111111111111111111111111111111111111111111111")
	c, err := s.WriteCommit(&CommitObj{
		TreeHash:  ghost,
		Author:    "t",
		Timestamp: 1,
		Message:   "broken",
	})
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}

	missing, err := s.MissingReferences([]Hash{c})
	if err != nil {
		t.Fatalf("MissingReferences: %v", err)
	}
	if len(missing) != 1 {
		t.Fatalf("missing count: got %d, want 1", len(missing))
	}
	if missing[0].From != c || missing[0].To != ghost {
		t.Errorf("missing edge: got %+v", missing[0])
	}
}

func TestMissingReferencesCleanGraph(t *testing.T) {
	s := tempStore(t)
	c, _, _ := buildChain(t, s, "fine")

	missing, err := s.MissingReferences([]Hash{c})
	if err != nil {
		t.Fatalf("MissingReferences: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("expected no missing references, got %v", missing)
	}
}

func TestMissingReferencesAbsentRoot(t *testing.T) {
	s := tempStore(t)
	ghost := Hash("2222222222222222222222222222222222222222222222222222222222222222")

	missing, err := s.MissingReferences([]Hash{ghost})
	if err != nil {
		t.Fatalf("MissingReferences: %v", err)
	}
	if len(missing) != 1 {
		t.Fatalf("missing count: got %d, want 1", len(missing))
	}
	if missing[0].From != "" || missing[0].To != ghost {
		t.Errorf("missing root edge: got %+v", missing[0])
	}
}
