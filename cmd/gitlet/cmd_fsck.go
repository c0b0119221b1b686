package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlet/pkg/repo"
)

func newFsckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fsck",
		Short: "Verify the integrity of the object store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			report, err := r.Fsck()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "checked %d objects from %d roots\n", report.Reachable, report.Roots)

			if report.OK() {
				return nil
			}
			for _, m := range report.Missing {
				if m.From == "" {
					fmt.Fprintf(out, "missing object %s (referenced by a ref)\n", m.To)
				} else {
					fmt.Fprintf(out, "missing object %s (referenced by %s)\n", m.To, m.From)
				}
			}
			return fmt.Errorf("object store is corrupt: %d missing objects", len(report.Missing))
		},
	}
}
