package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gitlet/pkg/config"
	"gitlet/pkg/repo"
)

func newCommitCmd() *cobra.Command {
	var message string
	var author string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record staged changes to the repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return fmt.Errorf("commit message is required (-m)")
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			if author == "" {
				author, err = resolveAuthor(r)
				if err != nil {
					return err
				}
			}

			h, err := r.Commit(message, author)
			if err != nil {
				return err
			}

			// Determine current branch name for output.
			branch := "HEAD"
			head, err := r.Head()
			if err == nil && strings.HasPrefix(head, "refs/heads/") {
				branch = strings.TrimPrefix(head, "refs/heads/")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n", branch, shortHash(string(h)), message)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringVar(&author, "author", "", "override author (default: configured identity)")

	return cmd
}

// resolveAuthor builds the author string from repo-local config when set,
// falling back to the user-level config (which has built-in defaults).
func resolveAuthor(r *repo.Repo) (string, error) {
	cfg, err := r.ReadConfig()
	if err != nil {
		return "", err
	}
	name := cfg.Get("user.name")
	email := cfg.Get("user.email")

	global, err := config.Load()
	if err != nil {
		return "", err
	}
	if name == "" {
		name = global.Get("user.name")
	}
	if email == "" {
		email = global.Get("user.email")
	}

	return fmt.Sprintf("%s <%s>", name, email), nil
}
