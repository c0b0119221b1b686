package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"gitlet/pkg/config"
	"gitlet/pkg/repo"
)

func newConfigCmd() *cobra.Command {
	var global bool
	var list bool

	cmd := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Get and set repository or user options",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if list {
				if global {
					g, err := config.Load()
					if err != nil {
						return err
					}
					settings := g.AllSettings()
					keys := make([]string, 0, len(settings))
					for k := range settings {
						keys = append(keys, k)
					}
					sort.Strings(keys)
					for _, k := range keys {
						fmt.Fprintf(out, "%s=%s\n", k, settings[k])
					}
					return nil
				}

				r, err := repo.Open(".")
				if err != nil {
					return err
				}
				cfg, err := r.ReadConfig()
				if err != nil {
					return err
				}
				sections := make([]string, 0, len(cfg.Sections))
				for s := range cfg.Sections {
					sections = append(sections, s)
				}
				sort.Strings(sections)
				for _, s := range sections {
					keys := make([]string, 0, len(cfg.Sections[s]))
					for k := range cfg.Sections[s] {
						keys = append(keys, k)
					}
					sort.Strings(keys)
					for _, k := range keys {
						fmt.Fprintf(out, "%s.%s=%s\n", s, k, cfg.Sections[s][k])
					}
				}
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("a key is required (or --list)")
			}
			key := args[0]

			// Get mode.
			if len(args) == 1 {
				if global {
					g, err := config.Load()
					if err != nil {
						return err
					}
					fmt.Fprintln(out, g.Get(key))
					return nil
				}
				r, err := repo.Open(".")
				if err != nil {
					return err
				}
				value, err := r.GetConfig(key)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, value)
				return nil
			}

			// Set mode.
			value := args[1]
			if global {
				g, err := config.Load()
				if err != nil {
					return err
				}
				g.Set(key, value)
				return g.Save()
			}
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			return r.SetConfig(key, value)
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "use the user-level config file")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list all options")

	return cmd
}
