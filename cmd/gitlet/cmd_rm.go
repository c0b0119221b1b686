package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlet/pkg/repo"
)

func newRmCmd() *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "rm <paths...>",
		Short: "Stage file removals and delete from the working tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			if err := r.Remove(args, cached); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range args {
				fmt.Fprintf(out, "rm '%s'\n", p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "unstage and stop tracking, but keep the file on disk")

	return cmd
}
