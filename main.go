package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gosat-project/gosat/internal/dimacs"
	"github.com/gosat-project/gosat/internal/sat"
)

// Exit codes per spec.md §6. exitError is distinct from exitUnknown: the
// former means the solver never ran (bad input, bad instance), the latter
// means it ran and gave up.
const (
	exitSAT     = 10
	exitUNSAT   = 20
	exitUnknown = 0
	exitError   = 1
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		timeSeconds   float64
		noPhaseSaving bool
		verbose       bool
	)

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	exitCode := exitUnknown

	cmd := &cobra.Command{
		Use:           "gosat <instance.cnf|instance.cnf.gz>",
		Short:         "A CDCL SAT solver",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(logrus.InfoLevel)
			}

			opts := sat.DefaultOptions
			opts.PhaseSaving = !noPhaseSaving
			opts.Logger = log

			ctx := context.Background()
			if timeSeconds > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(timeSeconds*float64(time.Second)))
				defer cancel()
			}

			status, model, err := solve(ctx, args[0], opts, log)
			if err != nil {
				return err
			}

			exitCode = exitCodeFor(status)
			return report(cmd, status, model)
		},
	}

	cmd.Flags().Float64VarP(&timeSeconds, "time", "t", 0, "wall-clock budget in seconds (0 disables)")
	cmd.Flags().BoolVar(&noPhaseSaving, "no-phase-saving", false, "disable phase saving")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log periodic search progress")

	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitError
	}
	return exitCode
}

func exitCodeFor(status sat.Status) int {
	switch status {
	case sat.StatusSAT:
		return exitSAT
	case sat.StatusUNSAT:
		return exitUNSAT
	default:
		return exitUnknown
	}
}

func solve(ctx context.Context, path string, opts sat.Options, log *logrus.Logger) (sat.Status, []bool, error) {
	inst, err := dimacs.ParseDIMACS(path)
	if err != nil {
		return sat.StatusUnknown, nil, fmt.Errorf("could not parse instance: %w", err)
	}

	s := sat.NewSolver(opts)
	if err := dimacs.Instantiate(s, inst); err != nil {
		return sat.StatusUnknown, nil, fmt.Errorf("could not install instance: %w", err)
	}

	log.WithFields(logrus.Fields{
		"variables": inst.Variables,
		"clauses":   len(inst.Clauses),
	}).Info("instance loaded")

	start := time.Now()
	status := s.Solve(ctx)
	log.WithFields(logrus.Fields{
		"elapsed":   time.Since(start),
		"conflicts": s.TotalConflicts,
		"restarts":  s.TotalRestarts,
		"status":    status.String(),
	}).Info("search finished")

	var model []bool
	if status == sat.StatusSAT && len(s.Models) > 0 {
		model = s.Models[len(s.Models)-1]
	}
	return status, model, nil
}

func report(cmd *cobra.Command, status sat.Status, model []bool) error {
	out := cmd.OutOrStdout()
	switch status {
	case sat.StatusSAT:
		fmt.Fprintln(out, "s SATISFIABLE")
		fmt.Fprint(out, "v")
		for i, b := range model {
			if b {
				fmt.Fprintf(out, " %d", i+1)
			} else {
				fmt.Fprintf(out, " -%d", i+1)
			}
		}
		fmt.Fprintln(out, " 0")
	case sat.StatusUNSAT:
		fmt.Fprintln(out, "s UNSATISFIABLE")
	default:
		fmt.Fprintln(out, "s UNKNOWN")
	}
	return nil
}
