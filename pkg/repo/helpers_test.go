package repo

import (
	"os"
	"path/filepath"
	"testing"

	"gitlet/pkg/object"
)

func initRepo(t *testing.T) *Repo {
	t.Helper()
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return r
}

func writeFile(t *testing.T, r *Repo, relPath, content string) {
	t.Helper()
	abs := filepath.Join(r.RootDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", relPath, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", relPath, err)
	}
}

func mustAdd(t *testing.T, r *Repo, paths ...string) {
	t.Helper()
	if err := r.Add(paths); err != nil {
		t.Fatalf("Add %v: %v", paths, err)
	}
}

func mustCommit(t *testing.T, r *Repo, message string) object.Hash {
	t.Helper()
	h, err := r.Commit(message, "Test User <test@example.com>")
	if err != nil {
		t.Fatalf("Commit %q: %v", message, err)
	}
	return h
}

// removeObjectFile deletes an object's backing file, simulating on-disk
// corruption.
func removeObjectFile(t *testing.T, r *Repo, h object.Hash) {
	t.Helper()
	p := filepath.Join(r.MetaDir, "objects", string(h[:2]), string(h[2:]))
	if err := os.Remove(p); err != nil {
		t.Fatalf("remove object %s: %v", h, err)
	}
}

// helper: keys of a map.
func keys(m map[string]*StagingEntry) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	return ks
}
