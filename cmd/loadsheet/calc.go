package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"Loadsheet/internal/aircraft"
	"Loadsheet/internal/calc/wb"
)

// readRequest loads a calculation request from a JSON or YAML file, "-"
// reads JSON from stdin.
func readRequest(path string, stdin io.Reader) (wb.Request, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return wb.Request{}, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		// Task fields carry json tags only, so YAML goes through a generic value.
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return wb.Request{}, fmt.Errorf("%s: %w", path, err)
		}
		if data, err = json.Marshal(v); err != nil {
			return wb.Request{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	var req wb.Request
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return wb.Request{}, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}

// solve reads the request at path and runs it. The aircraft flag, when set,
// replaces the one in the file.
func (o *options) solve(cmd *cobra.Command, path, aircraftName string) (*aircraft.Profile, wb.Result, error) {
	req, err := readRequest(path, cmd.InOrStdin())
	if err != nil {
		return nil, wb.Result{}, err
	}
	if aircraftName != "" {
		req.Aircraft = aircraftName
	}
	if req.Aircraft == "" {
		return nil, wb.Result{}, errors.New("no aircraft given, set it in the file or with --aircraft")
	}
	p, err := o.profiles.Profile(cmd.Context(), req.Aircraft)
	if err != nil {
		return nil, wb.Result{}, calcFailed(err)
	}
	weights := wb.DefaultWeights()
	if req.Weights != nil {
		weights = *req.Weights
	}
	res, err := wb.NewSolver(p, weights, wb.WithLogger(o.log.Logger)).Solve(req.Task)
	if err != nil {
		return p, wb.Result{}, calcFailed(err)
	}
	return p, res, nil
}

func newCalcCmd(opts *options) *cobra.Command {
	var (
		aircraftName string
		asJSON       bool
	)
	cmd := &cobra.Command{
		Use:   "calc FILE",
		Short: "Solve one loading task",
		Long: `Solve the loading task in FILE (JSON or YAML, "-" for JSON on stdin):

  aircraft: CRJ200
  task:
    takeoff_fuel: 3786
    trip_fuel: 1273
    adults: 41
    children: 2
    cabin_baggage: 91
    seating: [12, 12, 9, 10]
    cargo: 181
    allow_ballast: true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, res, err := opts.solve(cmd, args[0], aircraftName)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&aircraftName, "aircraft", "", "aircraft name, overrides the file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func printResult(w io.Writer, res wb.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Aircraft\t%s\t\n", res.Aircraft)
	fmt.Fprintf(tw, "Traffic load\t%.0f kg\t\n", res.TrafficLoad)
	fmt.Fprintf(tw, "Underload\t%.0f kg\t\n", res.Underload)
	if res.Ballast > 0 {
		fmt.Fprintf(tw, "Ballast\t%.0f kg\t\n", res.Ballast)
	}
	fmt.Fprintf(tw, "\tWeight\tIndex\t%%MAC\t\n")
	fmt.Fprintf(tw, "ZFW\t%.0f\t%.2f\t%.2f\t\n", res.ZFW, res.LIZFW, res.MACZFW)
	fmt.Fprintf(tw, "TOW\t%.0f\t%.2f\t%.2f\t\n", res.TOW, res.LITOW, res.MACTOW)
	fmt.Fprintf(tw, "LDW\t%.0f\t%.2f\t%.2f\t\n", res.LDW, res.LILAW, res.MACLDW)
	fmt.Fprintf(tw, "Stab trim\t%.2f (EICAS %.1f)\t\n", res.Stab, res.StabEICAS)
	return tw.Flush()
}
