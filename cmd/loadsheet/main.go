// Command loadsheet runs weight and balance calculations from the command
// line.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"Loadsheet/internal/aircraft"
	"Loadsheet/internal/calc/wb"
	"Loadsheet/internal/logging"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	profilesDir string
	logLevel    string

	log      *logging.Logger
	catalog  aircraft.Catalog
	profiles *aircraft.Cache
}

// exitError carries the exit code of a failed calculation.
type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// exitCode maps solver error kinds to process exit codes.
func exitCode(err error) int {
	switch wb.Classify(err) {
	case wb.KindInput:
		return 2
	case wb.KindConstraint:
		return 3
	case wb.KindDomain:
		return 4
	}
	return 1
}

func calcFailed(err error) error {
	return &exitError{err: fmt.Errorf("%s: %w", wb.Classify(err), err), code: exitCode(err)}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "loadsheet",
		Short: "Weight and balance calculations",
		Long: `Compute weights, CG positions in %MAC and stabilizer trim for a loading
task, render PDF loadsheets and solve XLSX batches.

Aircraft are looked up among the built-in types and the YAML or JSON
specs in --profiles.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.log != nil {
				return opts.log.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.profilesDir, "profiles", os.Getenv("PROFILES_DIR"),
		"directory of aircraft spec files")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")

	root.AddCommand(
		newCalcCmd(opts),
		newReportCmd(opts),
		newBatchCmd(opts),
		newTemplateCmd(opts),
		newAircraftCmd(opts),
	)
	return root
}

func (o *options) setup() error {
	lg, err := logging.New("loadsheet", o.logLevel, "")
	if err != nil {
		return err
	}
	o.log = lg

	files := aircraft.NewStatic()
	if o.profilesDir != "" {
		specs, err := aircraft.LoadDir(o.profilesDir)
		if err != nil {
			return fmt.Errorf("load profiles: %w", err)
		}
		for _, s := range specs {
			files.Put(s)
		}
	}
	o.catalog = aircraft.Chain{files, aircraft.Builtin()}
	o.profiles = aircraft.NewCache(o.catalog, 16, time.Hour)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}
