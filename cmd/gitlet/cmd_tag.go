package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlet/pkg/repo"
)

func newTagCmd() *cobra.Command {
	var annotate bool
	var message string
	var deleteTag string
	var force bool

	cmd := &cobra.Command{
		Use:   "tag [name]",
		Short: "List, create, or delete tags",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			if deleteTag != "" {
				if err := r.DeleteTag(deleteTag); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted tag '%s'\n", deleteTag)
				return nil
			}

			// List mode.
			if len(args) == 0 {
				tags, err := r.ListTags()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, t := range tags {
					fmt.Fprintln(out, t)
				}
				return nil
			}

			// Create mode: tag the current HEAD commit.
			name := args[0]
			target, err := r.ResolveRef("HEAD")
			if err != nil {
				return fmt.Errorf("cannot resolve HEAD: %w", err)
			}

			if annotate {
				author, err := resolveAuthor(r)
				if err != nil {
					return err
				}
				if _, err := r.CreateAnnotatedTag(name, target, author, message, force); err != nil {
					return err
				}
			} else {
				if err := r.CreateTag(name, target, force); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&annotate, "annotate", "a", false, "create an annotated tag object")
	cmd.Flags().StringVarP(&message, "message", "m", "", "annotation message")
	cmd.Flags().StringVarP(&deleteTag, "delete", "d", "", "delete the named tag")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing tag")

	return cmd
}
