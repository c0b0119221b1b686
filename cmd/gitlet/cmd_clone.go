package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gitlet/pkg/config"
	"gitlet/pkg/repo"
)

func newCloneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clone <source-dir> [dest-dir]",
		Short: "Copy a directory tree and record it as an initial commit",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve source: %w", err)
			}

			dest := filepath.Base(src)
			if len(args) == 2 {
				dest = args[1]
			}
			dest, err = filepath.Abs(dest)
			if err != nil {
				return fmt.Errorf("resolve destination: %w", err)
			}

			if info, err := os.Stat(src); err != nil || !info.IsDir() {
				return fmt.Errorf("source %q is not a directory", args[0])
			}
			if _, err := os.Stat(dest); err == nil {
				return fmt.Errorf("destination %q already exists", dest)
			}

			if err := copyTree(src, dest); err != nil {
				return fmt.Errorf("copy source tree: %w", err)
			}

			r, err := repo.Init(dest)
			if err != nil {
				return err
			}

			global, err := config.Load()
			if err != nil {
				return err
			}

			h, err := r.Seed(fmt.Sprintf("clone of %s", src), global.Author())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "cloned %s into %s at %s\n", src, dest, shortHash(string(h)))
			return nil
		},
	}
}

// copyTree copies a directory recursively, skipping repository metadata
// directories in the source.
func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if rel != "." && (name == repo.MetaDirName || name == ".git") {
				return filepath.SkipDir
			}
			return os.MkdirAll(filepath.Join(dest, rel), 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, filepath.Join(dest, rel), info.Mode().Perm())
	})
}

func copyFile(src, dest string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
