package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gitlet/pkg/object"
)

func TestStatus_FreshRepo(t *testing.T) {
	r := initRepo(t)

	st, err := r.ComputeStatus()
	if err != nil {
		t.Fatalf("ComputeStatus: %v", err)
	}
	if st.Branch != "main" {
		t.Errorf("Branch: got %q, want main", st.Branch)
	}
	if st.HasCommits {
		t.Error("fresh repo should have no commits")
	}
	if !st.Clean() {
		t.Errorf("fresh repo should be clean: %+v", st)
	}
}

func TestStatus_UntrackedFile(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "new.txt", "new")

	st, err := r.ComputeStatus()
	if err != nil {
		t.Fatalf("ComputeStatus: %v", err)
	}
	if len(st.Untracked) != 1 || st.Untracked[0] != "new.txt" {
		t.Errorf("Untracked: got %v", st.Untracked)
	}
}

func TestStatus_StagedNew(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "new.txt", "new")
	mustAdd(t, r, "new.txt")

	st, _ := r.ComputeStatus()
	if len(st.Staged) != 1 || st.Staged[0].Path != "new.txt" || st.Staged[0].Kind != StagedNew {
		t.Errorf("Staged: got %+v", st.Staged)
	}
	if len(st.Untracked) != 0 {
		t.Errorf("staged file still listed as untracked: %v", st.Untracked)
	}
}

func TestStatus_StagedModified(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "f.txt", "v1")
	mustAdd(t, r, "f.txt")
	mustCommit(t, r, "base")

	writeFile(t, r, "f.txt", "v2")
	mustAdd(t, r, "f.txt")

	st, _ := r.ComputeStatus()
	if len(st.Staged) != 1 || st.Staged[0].Kind != StagedModified {
		t.Errorf("Staged: got %+v", st.Staged)
	}
}

func TestStatus_StagedDeleted(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "f.txt", "v1")
	mustAdd(t, r, "f.txt")
	mustCommit(t, r, "base")

	if err := r.Remove([]string{"f.txt"}, false); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	st, _ := r.ComputeStatus()
	if len(st.Staged) != 1 || st.Staged[0].Kind != StagedDeleted {
		t.Errorf("Staged: got %+v", st.Staged)
	}
}

func TestStatus_ModifiedUnstaged(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "f.txt", "v1")
	mustAdd(t, r, "f.txt")
	mustCommit(t, r, "base")

	writeFile(t, r, "f.txt", "v2")

	st, _ := r.ComputeStatus()
	if len(st.Modified) != 1 || st.Modified[0] != "f.txt" {
		t.Errorf("Modified: got %v", st.Modified)
	}
	if len(st.Staged) != 0 {
		t.Errorf("nothing staged, got %+v", st.Staged)
	}
}

func TestStatus_DeletedUnstaged(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "f.txt", "v1")
	mustAdd(t, r, "f.txt")
	mustCommit(t, r, "base")

	if err := os.Remove(filepath.Join(r.RootDir, "f.txt")); err != nil {
		t.Fatalf("remove f.txt: %v", err)
	}

	st, _ := r.ComputeStatus()
	if len(st.Deleted) != 1 || st.Deleted[0] != "f.txt" {
		t.Errorf("Deleted: got %v", st.Deleted)
	}
}

func TestStatus_CleanAfterCommit(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "f.txt", "v1")
	mustAdd(t, r, "f.txt")
	mustCommit(t, r, "base")

	st, _ := r.ComputeStatus()
	if !st.Clean() {
		t.Errorf("expected clean status, got %+v", st)
	}
	if !st.HasCommits {
		t.Error("HasCommits should be true after a commit")
	}
}

func TestStatus_IgnoredFilesExcluded(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, IgnoreFileName, "*.log\n")
	writeFile(t, r, "debug.log", "noise")

	st, _ := r.ComputeStatus()
	for _, p := range st.Untracked {
		if p == "debug.log" {
			t.Error("ignored file listed as untracked")
		}
	}
}

func TestStatus_SetsAreSorted(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "zz.txt", "z")
	writeFile(t, r, "aa.txt", "a")
	writeFile(t, r, "mm.txt", "m")

	st, _ := r.ComputeStatus()
	if len(st.Untracked) != 3 {
		t.Fatalf("Untracked count: got %d", len(st.Untracked))
	}
	if st.Untracked[0] != "aa.txt" || st.Untracked[2] != "zz.txt" {
		t.Errorf("Untracked not sorted: %v", st.Untracked)
	}
}

func TestStatus_UnreadableHeadTree(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "keep.txt", "keep")
	mustAdd(t, r, "keep.txt")
	h := mustCommit(t, r, "base")

	c, err := r.Store.ReadCommit(h)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	removeObjectFile(t, r, c.TreeHash)

	// Tracked files must not be reported as untracked on a corrupt tree.
	_, err = r.ComputeStatus()
	if err == nil {
		t.Fatal("status over an unreadable HEAD tree should fail")
	}
	if !errors.Is(err, object.ErrNotFound) {
		t.Errorf("expected object.ErrNotFound, got %v", err)
	}
}
