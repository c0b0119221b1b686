package repo

import (
	"errors"
	"testing"

	"gitlet/pkg/object"
)

func TestCreateTag_Lightweight(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "f.txt", "f")
	mustAdd(t, r, "f.txt")
	h := mustCommit(t, r, "base")

	if err := r.CreateTag("v1", h, false); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	got, err := r.ResolveTag("v1")
	if err != nil {
		t.Fatalf("ResolveTag: %v", err)
	}
	if got != h {
		t.Errorf("tag target: got %s, want %s", got, h)
	}
}

func TestCreateTag_DuplicateWithoutForce(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "f.txt", "f")
	mustAdd(t, r, "f.txt")
	h := mustCommit(t, r, "base")

	if err := r.CreateTag("v1", h, false); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := r.CreateTag("v1", h, false); err == nil {
		t.Fatal("duplicate tag without force should fail")
	}
	if err := r.CreateTag("v1", h, true); err != nil {
		t.Errorf("forced tag overwrite should succeed: %v", err)
	}
}

func TestCreateAnnotatedTag_DereferencesToCommit(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "f.txt", "f")
	mustAdd(t, r, "f.txt")
	h := mustCommit(t, r, "base")

	tagHash, err := r.CreateAnnotatedTag("v2", h, "T <t@example.com>", "second release", false)
	if err != nil {
		t.Fatalf("CreateAnnotatedTag: %v", err)
	}

	tag, err := r.Store.ReadTag(tagHash)
	if err != nil {
		t.Fatalf("ReadTag: %v", err)
	}
	if tag.TargetHash != h {
		t.Errorf("tag object target: got %s, want %s", tag.TargetHash, h)
	}
	if tag.Message != "second release" {
		t.Errorf("tag message: got %q", tag.Message)
	}

	// ResolveTag follows the tag object to the commit.
	got, err := r.ResolveTag("v2")
	if err != nil {
		t.Fatalf("ResolveTag: %v", err)
	}
	if got != h {
		t.Errorf("resolved tag: got %s, want %s", got, h)
	}
}

func TestCreateAnnotatedTag_MissingTarget(t *testing.T) {
	r := initRepo(t)
	ghost := object.Hash("4444444444444444444444444444444444444444444444444444444444444444")
	_, err := r.CreateAnnotatedTag("v1", ghost, "T", "msg", false)
	if err == nil {
		t.Fatal("tagging a missing object should fail")
	}
	if !errors.Is(err, object.ErrNotFound) {
		t.Errorf("expected object.ErrNotFound, got %v", err)
	}
}

func TestDeleteTag(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "f.txt", "f")
	mustAdd(t, r, "f.txt")
	h := mustCommit(t, r, "base")

	if err := r.CreateTag("gone", h, false); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := r.DeleteTag("gone"); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}
	if err := r.DeleteTag("gone"); !errors.Is(err, ErrUnknownRef) {
		t.Errorf("deleting a missing tag: expected ErrUnknownRef, got %v", err)
	}
}

func TestListTags_Sorted(t *testing.T) {
	r := initRepo(t)
	writeFile(t, r, "f.txt", "f")
	mustAdd(t, r, "f.txt")
	h := mustCommit(t, r, "base")

	for _, name := range []string{"v2", "v1", "alpha"} {
		if err := r.CreateTag(name, h, false); err != nil {
			t.Fatalf("CreateTag %s: %v", name, err)
		}
	}

	tags, err := r.ListTags()
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	want := []string{"alpha", "v1", "v2"}
	if len(tags) != len(want) {
		t.Fatalf("tags: got %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d]: got %q, want %q", i, tags[i], want[i])
		}
	}
}
