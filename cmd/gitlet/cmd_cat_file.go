package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlet/pkg/object"
	"gitlet/pkg/repo"
)

func newCatFileCmd() *cobra.Command {
	var showType bool

	cmd := &cobra.Command{
		Use:   "cat-file <hash>",
		Short: "Show the content or type of a stored object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			h := object.Hash(args[0])
			objType, data, err := r.Store.Read(h)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showType {
				fmt.Fprintln(out, objType)
				return nil
			}
			fmt.Fprintf(out, "%s", data)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "show the object type instead of its content")

	return cmd
}
