package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlet/pkg/repo"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff [paths...]",
		Short: "Show changes between the working tree and HEAD",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			diffs, err := r.Diff(args...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range diffs {
				fmt.Fprint(out, d.Unified)
			}
			return nil
		},
	}
}
