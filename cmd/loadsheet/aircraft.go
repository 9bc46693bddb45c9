package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"Loadsheet/internal/aircraft"
)

func newAircraftCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aircraft",
		Short: "Inspect aircraft profiles",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List known aircraft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := opts.catalog.Names(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}

	var resolved, asJSON bool
	show := &cobra.Command{
		Use:   "show NAME",
		Short: "Print an aircraft spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				spec aircraft.Spec
				err  error
			)
			if resolved {
				spec, err = aircraft.Flatten(cmd.Context(), opts.catalog, args[0])
			} else {
				spec, err = opts.catalog.Spec(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			if resolved {
				if _, err := spec.Build(); err != nil {
					return calcFailed(err)
				}
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(spec)
			}
			data, err := aircraft.EncodeYAML(spec)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	show.Flags().BoolVar(&resolved, "resolved", false, "merge the spec over its base chain")
	show.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of YAML")

	cmd.AddCommand(list, show)
	return cmd
}
