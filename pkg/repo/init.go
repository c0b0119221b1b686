package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gitlet/pkg/object"
)

const (
	refLockRetryDelay = 5 * time.Millisecond
	refLockWaitLimit  = 2 * time.Second
)

// Init creates a new gitlet repository at path. It creates the .gitlet/
// directory structure: HEAD, objects/, refs/heads/, refs/tags/ and the
// reflog root. Returns an error if a .gitlet/ directory already exists.
func Init(path string) (*Repo, error) {
	metaDir := filepath.Join(path, MetaDirName)

	if _, err := os.Stat(metaDir); err == nil {
		return nil, fmt.Errorf("init: repository already exists at %s", metaDir)
	}

	dirs := []string{
		filepath.Join(metaDir, "objects"),
		filepath.Join(metaDir, "refs", "heads"),
		filepath.Join(metaDir, "refs", "tags"),
		filepath.Join(metaDir, "logs", "refs", "heads"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	headPath := filepath.Join(metaDir, "HEAD")
	if err := os.WriteFile(headPath, []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	return &Repo{
		RootDir: path,
		MetaDir: metaDir,
		Store:   object.NewStore(metaDir),
	}, nil
}

// Open searches upward from path for a .gitlet/ directory and opens the
// repository. Returns ErrNotARepository if none is found.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		metaDir := filepath.Join(cur, MetaDirName)
		info, err := os.Stat(metaDir)
		if err == nil && info.IsDir() {
			return &Repo{
				RootDir: cur,
				MetaDir: metaDir,
				Store:   object.NewStore(metaDir),
			}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open %s: %w", abs, ErrNotARepository)
		}
		cur = parent
	}
}

// Head reads .gitlet/HEAD. If the content starts with "ref: ", it returns
// the ref path (e.g. "refs/heads/main"). Otherwise it returns the raw
// content as a detached hash string.
func (r *Repo) Head() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.MetaDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("head: %w", err)
	}
	content := strings.TrimRight(string(data), "\n")

	if strings.HasPrefix(content, "ref: ") {
		return strings.TrimPrefix(content, "ref: "), nil
	}
	return content, nil
}

// ResolveRef resolves a ref name to an object hash.
//
// Resolution order:
//  1. If name is "HEAD", read HEAD. If HEAD is symbolic, resolve the target
//     ref. A detached HEAD resolves to its raw hash.
//  2. If name starts with "refs/", read .gitlet/<name>.
//  3. Otherwise, try "refs/heads/<name>".
//
// An absent or empty ref file (an unborn branch) yields ErrUnknownRef.
func (r *Repo) ResolveRef(name string) (object.Hash, error) {
	if name == "HEAD" {
		head, err := r.Head()
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(head, "refs/") {
			return r.ResolveRef(head)
		}
		if strings.TrimSpace(head) == "" {
			return "", fmt.Errorf("resolve HEAD: %w", ErrUnknownRef)
		}
		return object.Hash(head), nil
	}

	var refPath string
	if strings.HasPrefix(name, "refs/") {
		refPath = filepath.Join(r.MetaDir, filepath.FromSlash(name))
	} else {
		refPath = filepath.Join(r.MetaDir, "refs", "heads", name)
	}

	data, err := os.ReadFile(refPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("resolve ref %q: %w", name, ErrUnknownRef)
		}
		return "", fmt.Errorf("resolve ref %q: %w", name, err)
	}
	h := object.Hash(strings.TrimSpace(string(data)))
	if h == "" {
		// Ref file exists but the branch is unborn.
		return "", fmt.Errorf("resolve ref %q: %w", name, ErrUnknownRef)
	}
	return h, nil
}

// refExists reports whether the named ref has a file under .gitlet/,
// regardless of whether it already points at a commit.
func (r *Repo) refExists(name string) bool {
	if !strings.HasPrefix(name, "refs/") {
		name = "refs/heads/" + name
	}
	_, err := os.Stat(filepath.Join(r.MetaDir, filepath.FromSlash(name)))
	return err == nil
}

// UpdateRef writes a hash to the named ref file under .gitlet/. Parent
// directories are created as needed.
func (r *Repo) UpdateRef(name string, h object.Hash) error {
	return r.UpdateRefCAS(name, h)
}

// UpdateRefCAS writes a hash to the named ref file under .gitlet/ using
// lockfile + rename atomic semantics. If expectedOld is provided, the
// update only succeeds when the current ref hash matches it; an absent or
// empty ref file reads as the empty hash.
//
// The corresponding reflog entry is appended after the rename; reflog
// failures do not roll the ref update back.
func (r *Repo) UpdateRefCAS(name string, h object.Hash, expectedOld ...object.Hash) error {
	if len(expectedOld) > 1 {
		return fmt.Errorf("update ref %q: expected at most one old hash", name)
	}
	hasExpectedOld := len(expectedOld) == 1
	wantOldHash := object.Hash("")
	if hasExpectedOld {
		wantOldHash = expectedOld[0]
	}

	refPath := filepath.Join(r.MetaDir, filepath.FromSlash(name))

	dir := filepath.Dir(refPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("update ref %q: mkdir: %w", name, err)
	}

	lockPath := refPath + ".lock"
	lockFile, err := acquireRefLock(lockPath)
	if err != nil {
		return fmt.Errorf("update ref %q: lock: %w", name, err)
	}
	cleanupLock := true
	defer func() {
		if lockFile != nil {
			_ = lockFile.Close()
		}
		if cleanupLock {
			_ = os.Remove(lockPath)
		}
	}()

	oldHash, err := readRefHash(refPath)
	if err != nil {
		return fmt.Errorf("update ref %q: read old hash: %w", name, err)
	}
	if hasExpectedOld && oldHash != wantOldHash {
		return fmt.Errorf(
			"update ref %q: %w (expected %s, found %s)",
			name,
			ErrRefCASMismatch,
			wantOldHash,
			oldHash,
		)
	}

	if _, err := lockFile.WriteString(string(h) + "\n"); err != nil {
		return fmt.Errorf("update ref %q: write: %w", name, err)
	}
	if err := lockFile.Sync(); err != nil {
		return fmt.Errorf("update ref %q: sync: %w", name, err)
	}
	if err := lockFile.Close(); err != nil {
		lockFile = nil
		return fmt.Errorf("update ref %q: close: %w", name, err)
	}
	lockFile = nil

	if err := os.Rename(lockPath, refPath); err != nil {
		os.Remove(lockPath)
		return fmt.Errorf("update ref %q: rename: %w", name, err)
	}
	cleanupLock = false

	if err := r.appendReflog(name, oldHash, h, "update"); err != nil {
		return fmt.Errorf("update ref %q: reflog: %w", name, err)
	}

	return nil
}

func acquireRefLock(lockPath string) (*os.File, error) {
	deadline := time.Now().Add(refLockWaitLimit)
	for {
		f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if os.IsExist(err) {
			if time.Now().After(deadline) {
				return nil, fmt.Errorf("timeout waiting for lock %q", lockPath)
			}
			time.Sleep(refLockRetryDelay)
			continue
		}
		return nil, err
	}
}

func readRefHash(refPath string) (object.Hash, error) {
	data, err := os.ReadFile(refPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return object.Hash(strings.TrimSpace(string(data))), nil
}
