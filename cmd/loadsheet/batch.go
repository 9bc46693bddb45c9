package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"Loadsheet/internal/calc/batch"
	"Loadsheet/internal/calc/importer"
)

func newBatchCmd(opts *options) *cobra.Command {
	var (
		aircraftName string
		out          string
		workers      int
	)
	cmd := &cobra.Command{
		Use:   "batch FILE.xlsx",
		Short: "Solve every task row of a workbook",
		Long: `Solve every task row of the first sheet of FILE.xlsx and write one
result row per task to --output. See "loadsheet template" for the columns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()
			parsed, err := importer.Read(in, aircraftName)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			for _, e := range parsed.Errors {
				fmt.Fprintln(cmd.ErrOrStderr(), "skipped", e.Error())
			}
			if len(parsed.Items) == 0 {
				return fmt.Errorf("%s: no valid task rows", args[0])
			}

			r := &batch.Runner{Profiles: opts.profiles, Workers: workers, Log: opts.log.Logger}
			outcomes, err := r.Calculate(cmd.Context(), parsed.Items)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := importer.Write(f, parsed, outcomes); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			failed := 0
			for _, o := range outcomes {
				if !o.OK() {
					failed++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d tasks, %d failed, %d rows skipped: %s\n",
				len(outcomes), failed, len(parsed.Errors), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&aircraftName, "aircraft", "", "aircraft for rows without one")
	cmd.Flags().StringVarP(&out, "output", "o", "results.xlsx", "result workbook")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "tasks solved in parallel")
	return cmd
}

func newTemplateCmd(opts *options) *cobra.Command {
	var aircraftName string
	cmd := &cobra.Command{
		Use:   "template FILE.xlsx",
		Short: "Write an empty task workbook for an aircraft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.profiles.Profile(cmd.Context(), aircraftName)
			if err != nil {
				return calcFailed(err)
			}
			zones := make([]string, len(p.Zones))
			for i, z := range p.Zones {
				zones[i] = z.Name
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := importer.Template(f, zones); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVar(&aircraftName, "aircraft", "CRJ200", "aircraft whose cabin zones become columns")
	return cmd
}
