package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlet/pkg/repo"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show working tree status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			st, err := r.ComputeStatus()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			switch {
			case st.Detached:
				fmt.Fprintln(out, "HEAD detached")
			case !st.HasCommits:
				fmt.Fprintf(out, "on %s (no commits yet)\n", st.Branch)
			default:
				fmt.Fprintf(out, "on %s\n", st.Branch)
			}

			if len(st.Staged) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "staged:")
				for _, e := range st.Staged {
					marker := "+"
					switch e.Kind {
					case repo.StagedModified:
						marker = "~"
					case repo.StagedDeleted:
						marker = "-"
					}
					fmt.Fprintf(out, "  %s %s\n", marker, e.Path)
				}
			}

			if len(st.Modified) > 0 || len(st.Deleted) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "unstaged:")
				for _, p := range st.Modified {
					fmt.Fprintf(out, "  ~ %s\n", p)
				}
				for _, p := range st.Deleted {
					fmt.Fprintf(out, "  - %s\n", p)
				}
			}

			if len(st.Untracked) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "untracked:")
				for _, p := range st.Untracked {
					fmt.Fprintf(out, "  %s\n", p)
				}
			}

			if st.Clean() {
				fmt.Fprintln(out, "nothing to commit, working tree clean")
			}

			return nil
		},
	}
}
