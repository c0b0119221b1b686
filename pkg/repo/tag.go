package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gitlet/pkg/object"
)

// CreateTag creates a lightweight tag ref under refs/tags/. Without force,
// an existing tag of the same name is refused.
func (r *Repo) CreateTag(name string, target object.Hash, force bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.TrimSpace(name)
	if err := validateRefName(name); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	if strings.TrimSpace(string(target)) == "" {
		return fmt.Errorf("create tag: target hash is required")
	}

	refName := "refs/tags/" + name
	if !force && r.refExists(refName) {
		return fmt.Errorf("create tag: tag %q already exists", name)
	}
	if err := r.UpdateRef(refName, target); err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// CreateAnnotatedTag stores a tag object carrying tagger and message and
// points refs/tags/<name> at it.
func (r *Repo) CreateAnnotatedTag(name string, target object.Hash, tagger, message string, force bool) (object.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.TrimSpace(name)
	if err := validateRefName(name); err != nil {
		return "", fmt.Errorf("create annotated tag: %w", err)
	}
	if strings.TrimSpace(string(target)) == "" {
		return "", fmt.Errorf("create annotated tag: target hash is required")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("create annotated tag: message is required")
	}
	tagger = strings.TrimSpace(tagger)
	if tagger == "" {
		tagger = "unknown"
	}

	if !r.Store.Has(target) {
		return "", fmt.Errorf("create annotated tag: target %s: %w", target, object.ErrNotFound)
	}

	refName := "refs/tags/" + name
	if !force && r.refExists(refName) {
		return "", fmt.Errorf("create annotated tag: tag %q already exists", name)
	}

	tagHash, err := r.Store.WriteTag(&object.TagObj{
		TargetHash: target,
		Tagger:     tagger,
		Timestamp:  time.Now().Unix(),
		Message:    message,
	})
	if err != nil {
		return "", fmt.Errorf("create annotated tag: %w", err)
	}

	if err := r.UpdateRef(refName, tagHash); err != nil {
		return "", fmt.Errorf("create annotated tag: %w", err)
	}
	return tagHash, nil
}

// DeleteTag removes a tag ref. The tag object itself, if any, stays in
// the store.
func (r *Repo) DeleteTag(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	refPath := filepath.Join(r.MetaDir, "refs", "tags", name)
	if err := os.Remove(refPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("delete tag %q: %w", name, ErrUnknownRef)
		}
		return fmt.Errorf("delete tag %q: %w", name, err)
	}
	return nil
}

// ListTags returns tag names sorted alphabetically.
func (r *Repo) ListTags() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	refs, err := r.ListRefs("tags")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, strings.TrimPrefix(name, "tags/"))
	}
	sort.Strings(names)
	return names, nil
}

// ResolveTag resolves a tag name to the commit it ultimately points at,
// dereferencing an annotated tag object when present.
func (r *Repo) ResolveTag(name string) (object.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, err := r.ResolveRef("refs/tags/" + name)
	if err != nil {
		return "", err
	}

	objType, data, err := r.Store.Read(h)
	if err != nil {
		return "", fmt.Errorf("resolve tag %q: %w", name, err)
	}
	if objType != object.TypeTag {
		return h, nil
	}
	tag, err := object.UnmarshalTag(data)
	if err != nil {
		return "", fmt.Errorf("resolve tag %q: %w", name, err)
	}
	return tag.TargetHash, nil
}
