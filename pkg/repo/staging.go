package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"gitlet/pkg/object"
)

// The index file is canonical CBOR: map keys are sorted so that equal
// staging states always encode to equal bytes.
var (
	stagingEncMode, _ = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		Time:        cbor.TimeUnix,
		TimeTag:     cbor.EncTagNone,
		IndefLength: cbor.IndefLengthForbidden,
	}.EncMode()

	stagingDecMode, _ = cbor.DecOptions{
		IndefLength:     cbor.IndefLengthForbidden,
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
		MaxMapPairs:     1 << 20,
		MaxNestedLevels: 16,
	}.DecMode()
)

// StagingEntry records the staged state of a single file.
type StagingEntry struct {
	Path     string      `cbor:"p"`
	BlobHash object.Hash `cbor:"h"`
	Mode     string      `cbor:"m,omitempty"`
	ModTime  int64       `cbor:"mt"`
	Size     int64       `cbor:"sz"`
}

// Staging holds the pending changes slated for the next commit. Unlike
// Git's index it does not mirror the whole tree: it is empty after every
// successful commit. Entries are additions or content updates; Removed
// lists tracked paths staged for deletion.
type Staging struct {
	Entries map[string]*StagingEntry `cbor:"entries"`
	Removed []string                 `cbor:"removed,omitempty"`
}

// IsEmpty reports whether nothing is staged.
func (s *Staging) IsEmpty() bool {
	return len(s.Entries) == 0 && len(s.Removed) == 0
}

func (s *Staging) removedSet() map[string]bool {
	out := make(map[string]bool, len(s.Removed))
	for _, p := range s.Removed {
		out[p] = true
	}
	return out
}

// indexPath returns the filesystem path to the staging index file.
func (r *Repo) indexPath() string {
	return filepath.Join(r.MetaDir, "index")
}

// ReadStaging loads the staging area from .gitlet/index. If the file does
// not exist, an empty Staging is returned (no error).
func (r *Repo) ReadStaging() (*Staging, error) {
	data, err := os.ReadFile(r.indexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Staging{Entries: make(map[string]*StagingEntry)}, nil
		}
		return nil, fmt.Errorf("read staging: %w", err)
	}

	var stg Staging
	if err := stagingDecMode.Unmarshal(data, &stg); err != nil {
		return nil, fmt.Errorf("read staging: unmarshal: %w", err)
	}
	if stg.Entries == nil {
		stg.Entries = make(map[string]*StagingEntry)
	}
	return &stg, nil
}

// WriteStaging atomically writes the staging area to .gitlet/index.
func (r *Repo) WriteStaging(s *Staging) error {
	sort.Strings(s.Removed)

	data, err := stagingEncMode.Marshal(s)
	if err != nil {
		return fmt.Errorf("write staging: marshal: %w", err)
	}

	tmp, err := os.CreateTemp(r.MetaDir, ".index-tmp-*")
	if err != nil {
		return fmt.Errorf("write staging: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write staging: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write staging: close: %w", err)
	}

	if err := os.Rename(tmpName, r.indexPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write staging: rename: %w", err)
	}
	return nil
}

// Add stages the given paths. "." stages every untracked or changed file
// under the repository root. Directories are staged recursively. For each
// file the content is written as a blob to the object store and a staging
// entry records the resulting hash; re-adding identical content leaves the
// index state unchanged.
func (r *Repo) Add(paths []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addLocked(paths)
}

func (r *Repo) addLocked(paths []string) error {
	stg, err := r.ReadStaging()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	matcher, err := newIgnoreMatcher(r.RootDir)
	if err != nil {
		return fmt.Errorf("add: compile ignore rules: %w", err)
	}

	var files []string
	for _, p := range paths {
		if p == "." {
			all, err := r.changedFiles(stg, matcher)
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}
			files = append(files, all...)
			continue
		}

		relPath, err := r.repoRelPath(p)
		if err != nil {
			return fmt.Errorf("add: resolve path %q: %w", p, err)
		}

		info, err := os.Stat(filepath.Join(r.RootDir, filepath.FromSlash(relPath)))
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("add %q: %w", p, ErrPathNotFound)
			}
			return fmt.Errorf("add: stat %q: %w", relPath, err)
		}

		if info.IsDir() {
			sub, err := r.walkFiles(relPath, matcher)
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}
			files = append(files, sub...)
		} else {
			files = append(files, relPath)
		}
	}

	for _, relPath := range files {
		if err := r.stageFile(stg, relPath); err != nil {
			return fmt.Errorf("add: %w", err)
		}
	}

	if err := r.WriteStaging(stg); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return nil
}

// stageFile writes the file's blob and records the staging entry. A path
// previously staged for removal is revived.
func (r *Repo) stageFile(stg *Staging, relPath string) error {
	// Tree objects are line-oriented; a newline in a name would corrupt
	// every tree containing it.
	if strings.ContainsRune(relPath, '\n') {
		return fmt.Errorf("stage %q: file name contains a newline", relPath)
	}

	absPath := filepath.Join(r.RootDir, filepath.FromSlash(relPath))
	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("stage %q: %w", relPath, ErrPathNotFound)
		}
		return fmt.Errorf("stage: read %q: %w", relPath, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("stage: stat %q: %w", relPath, err)
	}

	blobHash, err := r.Store.WriteBlob(&object.Blob{Data: content})
	if err != nil {
		return fmt.Errorf("stage: write blob %q: %w", relPath, err)
	}

	mode := object.TreeModeFile
	if info.Mode()&0o111 != 0 {
		mode = object.TreeModeExecutable
	}

	stg.Entries[relPath] = &StagingEntry{
		Path:     relPath,
		BlobHash: blobHash,
		Mode:     mode,
		ModTime:  info.ModTime().Unix(),
		Size:     info.Size(),
	}

	for i, p := range stg.Removed {
		if p == relPath {
			stg.Removed = append(stg.Removed[:i], stg.Removed[i+1:]...)
			break
		}
	}
	return nil
}

// Remove stages the deletion of tracked paths and drops staged entries.
// With keepWorktree the on-disk file is left in place. A path neither
// tracked nor staged yields ErrPathNotFound.
func (r *Repo) Remove(paths []string, keepWorktree bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stg, err := r.ReadStaging()
	if err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	head, err := r.headTreeState()
	if err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	removed := stg.removedSet()

	for _, p := range paths {
		relPath, err := r.repoRelPath(p)
		if err != nil {
			return fmt.Errorf("rm: resolve path %q: %w", p, err)
		}

		// A directory path removes every staged or tracked file under it.
		targets := []string{relPath}
		prefix := relPath + "/"
		for path := range stg.Entries {
			if len(path) > len(prefix) && path[:len(prefix)] == prefix {
				targets = append(targets, path)
			}
		}
		for path := range head {
			if len(path) > len(prefix) && path[:len(prefix)] == prefix {
				targets = append(targets, path)
			}
		}

		matched := false
		for _, target := range targets {
			_, staged := stg.Entries[target]
			_, tracked := head[target]
			if !staged && !tracked {
				continue
			}
			matched = true

			delete(stg.Entries, target)
			if tracked && !removed[target] {
				stg.Removed = append(stg.Removed, target)
				removed[target] = true
			}

			if !keepWorktree {
				absPath := filepath.Join(r.RootDir, filepath.FromSlash(target))
				if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("rm %q: %w", target, err)
				}
				r.removeEmptyParents(filepath.Dir(absPath))
			}
		}
		if !matched {
			return fmt.Errorf("rm %q: %w", p, ErrPathNotFound)
		}
	}

	if err := r.WriteStaging(stg); err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	return nil
}

// Unstage drops a path from the staging area (both pending adds and
// pending removals). Unstaging a path that is not staged is a no-op.
func (r *Repo) Unstage(paths []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stg, err := r.ReadStaging()
	if err != nil {
		return fmt.Errorf("unstage: %w", err)
	}

	for _, p := range paths {
		relPath, err := r.repoRelPath(p)
		if err != nil {
			return fmt.Errorf("unstage: resolve path %q: %w", p, err)
		}
		delete(stg.Entries, relPath)
		for i, rp := range stg.Removed {
			if rp == relPath {
				stg.Removed = append(stg.Removed[:i], stg.Removed[i+1:]...)
				break
			}
		}
	}

	if err := r.WriteStaging(stg); err != nil {
		return fmt.Errorf("unstage: %w", err)
	}
	return nil
}

// changedFiles returns every working-tree file that is untracked, differs
// from the HEAD tree, or differs from its staged blob. Used by Add(".").
func (r *Repo) changedFiles(stg *Staging, matcher *ignoreMatcher) ([]string, error) {
	head, err := r.headTreeState()
	if err != nil {
		return nil, err
	}

	all, err := r.walkFiles("", matcher)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, relPath := range all {
		content, err := os.ReadFile(filepath.Join(r.RootDir, filepath.FromSlash(relPath)))
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", relPath, err)
		}
		diskHash := object.HashObject(object.TypeBlob, content)

		if se, staged := stg.Entries[relPath]; staged {
			if se.BlobHash != diskHash {
				out = append(out, relPath)
			}
			continue
		}
		if hs, tracked := head[relPath]; tracked {
			if hs.BlobHash != diskHash {
				out = append(out, relPath)
			}
			continue
		}
		out = append(out, relPath)
	}
	sort.Strings(out)
	return out, nil
}

// walkFiles lists regular files under the given repo-relative prefix
// ("" for the whole tree), skipping ignored paths. Paths use forward
// slashes and are sorted.
func (r *Repo) walkFiles(prefix string, matcher *ignoreMatcher) ([]string, error) {
	start := r.RootDir
	if prefix != "" {
		start = filepath.Join(r.RootDir, filepath.FromSlash(prefix))
	}

	var files []string
	err := filepath.WalkDir(start, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(r.RootDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if matcher.Match(rel) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if !d.IsDir() {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", prefix, err)
	}
	sort.Strings(files)
	return files, nil
}

// repoRelPath converts a path (absolute, or relative to CWD) into a path
// relative to the repository root. If the path is already relative and does
// not resolve inside the repo root, it is assumed to be repo-relative.
func (r *Repo) repoRelPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(r.RootDir, p)
		if err != nil {
			return "", fmt.Errorf("cannot make %q relative to %q: %w", p, r.RootDir, err)
		}
		return filepath.ToSlash(rel), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}

	abs := filepath.Join(cwd, p)
	rel, err := filepath.Rel(r.RootDir, abs)
	if err != nil {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}

	// A leading ".." means p is outside the repo; treat the original as
	// already repo-relative.
	if len(rel) >= 2 && rel[:2] == ".." {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}

	return filepath.ToSlash(rel), nil
}
