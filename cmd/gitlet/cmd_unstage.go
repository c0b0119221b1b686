package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlet/pkg/repo"
)

func newUnstageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unstage <paths...>",
		Short: "Remove paths from the staging area, leaving the working tree alone",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			if err := r.Unstage(args); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range args {
				fmt.Fprintf(out, "unstaged '%s'\n", p)
			}
			return nil
		},
	}
}
