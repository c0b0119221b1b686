package repo

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"gitlet/pkg/object"
)

// TreeFileEntry represents a single file in a flattened tree.
type TreeFileEntry struct {
	Path     string
	BlobHash object.Hash
	Mode     string
}

// treeLeaf is the per-path state carried through tree construction.
type treeLeaf struct {
	BlobHash object.Hash
	Mode     string
}

// BuildTree produces the root tree for the next commit by overlaying the
// staging area onto the flattened tree of the current HEAD commit: staged
// removals drop paths, staged entries insert or replace them, and every
// untouched path keeps its previous blob. Tree objects are written to the
// store bottom-up; the root hash is returned.
//
// With no HEAD commit (unborn branch) the base is empty and the staging
// area alone determines the tree.
func (r *Repo) BuildTree(s *Staging) (object.Hash, error) {
	merged, err := r.headTreeState()
	if err != nil {
		return "", fmt.Errorf("build tree: %w", err)
	}

	for _, p := range s.Removed {
		delete(merged, p)
	}
	for p, entry := range s.Entries {
		mode := entry.Mode
		if strings.TrimSpace(mode) == "" {
			mode = object.TreeModeFile
		}
		merged[p] = treeLeaf{BlobHash: entry.BlobHash, Mode: mode}
	}

	return r.buildTreeDir(merged, "")
}

// buildTreeDir builds a TreeObj for the given directory prefix and writes
// it to the store. It returns the tree's hash.
func (r *Repo) buildTreeDir(leaves map[string]treeLeaf, prefix string) (object.Hash, error) {
	files := make(map[string]treeLeaf) // name -> leaf
	subdirs := make(map[string]struct{})

	for p, leaf := range leaves {
		var rel string
		if prefix == "" {
			rel = p
		} else {
			if !strings.HasPrefix(p, prefix+"/") {
				continue
			}
			rel = p[len(prefix)+1:]
		}

		slash := strings.IndexByte(rel, '/')
		if slash < 0 {
			files[rel] = leaf
		} else {
			subdirs[rel[:slash]] = struct{}{}
		}
	}

	names := make([]string, 0, len(files)+len(subdirs))
	for name := range files {
		names = append(names, name)
	}
	for name := range subdirs {
		// A name cannot be both a file and a directory.
		if _, isFile := files[name]; !isFile {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var entries []object.TreeEntry
	for _, name := range names {
		if leaf, isFile := files[name]; isFile {
			entries = append(entries, object.TreeEntry{
				Name:     name,
				IsDir:    false,
				Mode:     leaf.Mode,
				BlobHash: leaf.BlobHash,
			})
		} else {
			childPrefix := name
			if prefix != "" {
				childPrefix = prefix + "/" + name
			}
			subHash, err := r.buildTreeDir(leaves, childPrefix)
			if err != nil {
				return "", fmt.Errorf("build tree %q: %w", childPrefix, err)
			}
			entries = append(entries, object.TreeEntry{
				Name:        name,
				IsDir:       true,
				SubtreeHash: subHash,
			})
		}
	}

	treeObj := &object.TreeObj{Entries: entries}
	h, err := r.Store.WriteTree(treeObj)
	if err != nil {
		return "", fmt.Errorf("write tree (prefix=%q): %w", prefix, err)
	}
	return h, nil
}

// FlattenTree walks a tree object recursively, returning all file entries
// with their full paths (using forward slashes), sorted by path.
func (r *Repo) FlattenTree(h object.Hash) ([]TreeFileEntry, error) {
	entries, err := r.flattenTreeRec(h, "")
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

func (r *Repo) flattenTreeRec(h object.Hash, prefix string) ([]TreeFileEntry, error) {
	treeObj, err := r.Store.ReadTree(h)
	if err != nil {
		return nil, fmt.Errorf("flatten tree: read %s: %w", h, err)
	}

	var result []TreeFileEntry
	for _, entry := range treeObj.Entries {
		fullPath := entry.Name
		if prefix != "" {
			fullPath = path.Join(prefix, entry.Name)
		}

		if entry.IsDir {
			sub, err := r.flattenTreeRec(entry.SubtreeHash, fullPath)
			if err != nil {
				return nil, err
			}
			result = append(result, sub...)
		} else {
			result = append(result, TreeFileEntry{
				Path:     fullPath,
				BlobHash: entry.BlobHash,
				Mode:     entry.Mode,
			})
		}
	}
	return result, nil
}

// headTreeState flattens the current HEAD commit's tree into a map of
// path → leaf. A repository with no commits (unborn HEAD) yields an empty
// map. Any other failure reading the commit or its trees is returned:
// treating a corrupt history as an empty base would let the next commit
// silently drop every previously committed path.
func (r *Repo) headTreeState() (map[string]treeLeaf, error) {
	result := make(map[string]treeLeaf)

	headHash, err := r.ResolveRef("HEAD")
	if err != nil {
		if errors.Is(err, ErrUnknownRef) {
			// Unborn branch: HEAD is empty.
			return result, nil
		}
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	commit, err := r.Store.ReadCommit(headHash)
	if err != nil {
		return nil, fmt.Errorf("read HEAD commit %s: %w", headHash, err)
	}

	files, err := r.FlattenTree(commit.TreeHash)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		result[f.Path] = treeLeaf{BlobHash: f.BlobHash, Mode: f.Mode}
	}
	return result, nil
}
