package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlet/pkg/repo"
)

func newBranchCmd() *cobra.Command {
	var deleteBranch string
	var renameFrom string

	cmd := &cobra.Command{
		Use:   "branch [name]",
		Short: "List, create, delete, or rename branches",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			// Delete mode.
			if deleteBranch != "" {
				if err := r.DeleteBranch(deleteBranch); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted branch '%s'\n", deleteBranch)
				return nil
			}

			// Rename mode.
			if renameFrom != "" {
				if len(args) != 1 {
					return fmt.Errorf("branch rename requires a new name")
				}
				if err := r.RenameBranch(renameFrom, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "renamed branch '%s' to '%s'\n", renameFrom, args[0])
				return nil
			}

			// Create mode.
			if len(args) == 1 {
				return r.CreateBranch(args[0])
			}

			// List mode.
			branches, err := r.ListBranches()
			if err != nil {
				return err
			}

			current, _ := r.CurrentBranch()

			out := cmd.OutOrStdout()
			for _, b := range branches {
				if b == current {
					fmt.Fprintf(out, "* %s\n", b)
				} else {
					fmt.Fprintf(out, "  %s\n", b)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&deleteBranch, "delete", "d", "", "delete the named branch")
	cmd.Flags().StringVarP(&renameFrom, "move", "m", "", "rename the named branch to the given name")

	return cmd
}
