package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/codahale/bcrypt/pkg/bcrypt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type benchCmd struct {
	Min      int   `help:"The lowest cost to measure." default:"4"`
	Max      int   `help:"The highest cost to measure." default:"12"`
	Parallel int   `help:"The number of computations to run at each cost." default:"1"`
	Limit    int64 `help:"The number of computations to run at once. Defaults to the configured max_concurrent."`
}

type benchResult struct {
	cost    int
	elapsed time.Duration
	ratio   float64
}

func (cmd *benchCmd) Run(e *env) error {
	limit := cmd.Limit
	if limit == 0 {
		limit = e.config.MaxConcurrent
	}

	results, err := cmd.run(context.Background(), bcrypt.NewHasher(limit), e.log)
	if err != nil {
		return err
	}

	return printResults(os.Stdout, results)
}

func (cmd *benchCmd) run(ctx context.Context, h *bcrypt.Hasher, log *logrus.Logger) ([]benchResult, error) {
	if cmd.Min > cmd.Max {
		return nil, errors.Errorf("min cost %d is greater than max cost %d", cmd.Min, cmd.Max)
	}

	if cmd.Parallel < 1 {
		return nil, errors.Errorf("parallel must be positive, got %d", cmd.Parallel)
	}

	results := make([]benchResult, 0, cmd.Max-cmd.Min+1)

	for cost := cmd.Min; cost <= cmd.Max; cost++ {
		reqs := make([]bcrypt.Request, cmd.Parallel)
		for i := range reqs {
			salt, err := bcrypt.NewSalt()
			if err != nil {
				return nil, err
			}

			reqs[i] = bcrypt.Request{Cost: cost, Salt: salt, Password: []byte("benchmark password")}
		}

		start := time.Now()
		if _, err := h.HashAll(ctx, reqs); err != nil {
			return nil, errors.Wrapf(err, "cost %d", cost)
		}

		r := benchResult{cost: cost, elapsed: time.Since(start)}
		if len(results) > 0 {
			r.ratio = float64(r.elapsed) / float64(results[len(results)-1].elapsed)
		}

		log.WithFields(logrus.Fields{
			"cost":     cost,
			"elapsed":  r.elapsed,
			"parallel": cmd.Parallel,
		}).Debug("measured cost")

		results = append(results, r)
	}

	return results, nil
}

func printResults(w io.Writer, results []benchResult) error {
	if _, err := fmt.Fprintf(w, "%-4s %14s %6s\n", "cost", "elapsed", "ratio"); err != nil {
		return err
	}

	for _, r := range results {
		ratio := "-"
		if r.ratio != 0 {
			ratio = fmt.Sprintf("%.2f", r.ratio)
		}

		if _, err := fmt.Fprintf(w, "%-4d %14s %6s\n", r.cost, r.elapsed.Round(time.Microsecond), ratio); err != nil {
			return err
		}
	}

	return nil
}
