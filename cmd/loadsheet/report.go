package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"Loadsheet/internal/calc/report"
)

func newReportCmd(opts *options) *cobra.Command {
	var (
		aircraftName string
		out          string
		meta         report.Meta
	)
	cmd := &cobra.Command{
		Use:   "report FILE",
		Short: "Solve one loading task and write its PDF loadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, res, err := opts.solve(cmd, args[0], aircraftName)
			if err != nil {
				return err
			}
			if out == "" {
				out = "loadsheet-" + p.Name + ".pdf"
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := report.Loadsheet(f, p, res, meta); err != nil {
				f.Close()
				return fmt.Errorf("render %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&aircraftName, "aircraft", "", "aircraft name, overrides the file")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default loadsheet-<aircraft>.pdf)")
	cmd.Flags().StringVar(&meta.Flight, "flight", "", "flight number")
	cmd.Flags().StringVar(&meta.PreparedBy, "prepared-by", "", "name printed on the loadsheet")
	cmd.Flags().StringVar(&meta.Notes, "notes", "", "free text printed under the chart")
	return cmd
}
