// Package batch solves independent loading tasks concurrently.
package batch

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"Loadsheet/internal/aircraft"
	"Loadsheet/internal/calc/wb"
)

var ErrNoItems = errors.New("no items")

type Item struct {
	Aircraft string              `json:"aircraft"`
	Weights  *wb.StandardWeights `json:"weights,omitempty"`
	Task     wb.Task             `json:"task"`
}

// Outcome is the result of one item, in input order. Exactly one of Result
// and Error is set.
type Outcome struct {
	Index  int        `json:"index"`
	Item   Item       `json:"item"`
	Result *wb.Result `json:"result,omitempty"`
	Error  string     `json:"error,omitempty"`
	Kind   wb.Kind    `json:"kind,omitempty"`
}

func (o Outcome) OK() bool { return o.Result != nil }

type Runner struct {
	Profiles aircraft.Resolver
	Workers  int
	Weights  wb.StandardWeights
	Log      *slog.Logger
}

// Calculate solves every item. Failing items are reported in their Outcome,
// the returned error is only set when ctx ends before all items ran.
func (r *Runner) Calculate(ctx context.Context, items []Item) ([]Outcome, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}
	log := r.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	out := make([]Outcome, len(items))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, it := range items {
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = r.solve(gctx, log, i, it)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Runner) solve(ctx context.Context, log *slog.Logger, i int, it Item) Outcome {
	o := Outcome{Index: i, Item: it}
	fail := func(err error) Outcome {
		o.Error, o.Kind = err.Error(), wb.Classify(err)
		log.Debug("batch item failed", "index", i, "aircraft", it.Aircraft, "kind", o.Kind, "err", err)
		return o
	}

	p, err := r.Profiles.Profile(ctx, it.Aircraft)
	if err != nil {
		return fail(err)
	}
	w := r.Weights
	if w == (wb.StandardWeights{}) {
		w = wb.DefaultWeights()
	}
	if it.Weights != nil {
		w = *it.Weights
	}
	res, err := wb.NewSolver(p, w, wb.WithLogger(log)).Solve(it.Task)
	if err != nil {
		return fail(err)
	}
	o.Result = &res
	return o
}
