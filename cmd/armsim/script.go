package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/armsim/internal/automation"
	"github.com/san-kum/armsim/internal/sim"
)

func runScript(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, "")
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	engine := sim.NewEngine(e.state.Joints, e.state.PayloadKg, e.params, e.logger)
	results, runErr := automation.RunScenario(cmd.Context(), sc, engine, e.logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tTICKS\tPAYLOAD\tPEAK MPa\tMIN SF\tTRACKING°\tPATH m\tSAVED")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.3f\t%.2f\t%.3f\t%.3f\t%s\n",
			r.Name, r.Ticks, r.Final.PayloadKg,
			r.Metrics["peak_stress_mpa"], r.Metrics["min_safety"],
			r.Metrics["tracking_error_deg"], r.Metrics["path_length_m"], r.Saved)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}
