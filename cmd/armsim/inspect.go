package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/dynamo"
	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/store"
	"github.com/san-kum/armsim/internal/stress"
)

// sweepCap bounds plotted safety factors; an unloaded pivot is unbounded.
const sweepCap = 20.0

func printPose(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, "")
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFRAME\tX (mm)\tY (mm)\tZ (mm)\tX AXIS")
	for _, f := range e.state.Frames {
		mm := store.FormatMillimeters(f.Position)
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t(%.3f, %.3f, %.3f)\n",
			f.ID, f.Label, mm.X, mm.Y, mm.Z, f.XAxis.X, f.XAxis.Y, f.XAxis.Z)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nreach: %s\n", store.FormatReach(kinematics.Reach(e.state.Frames)))
	return nil
}

func printStress(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, "")
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PIVOT\tTORQUE (N·m)\tSTRESS (MPa)\tSAFETY\tSTATUS")
	for _, r := range e.state.Stress {
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%s\t%s\n", r.Location, r.TorqueStatic, r.StressMPa, r.SafetyFactor, r.Status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	capacity := stress.MaxPayload(e.state.Frames, e.params.Links, e.params.Material, target)
	fmt.Printf("\npayload %.2f kg, capacity at SF %.1f: %.2f kg\n", e.state.PayloadKg, target, capacity)
	return nil
}

// sweepPayload evaluates the static estimate at evenly spaced payloads.
// Poses do not change during the sweep so samples are independent.
func sweepPayload(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, "")
	if err != nil {
		return err
	}
	if steps < 2 || maxPayload <= 0 {
		return fmt.Errorf("sweep needs --steps >= 2 and --max > 0")
	}

	series := [3][]float64{}
	for k := range series {
		series[k] = make([]float64, steps)
	}
	frames, links, mat := e.state.Frames, e.params.Links, e.params.Material

	dynamo.ParallelFor(steps, 16, func(start, end int) {
		for i := start; i < end; i++ {
			kg := maxPayload * float64(i) / float64(steps-1)
			for k, r := range stress.Estimate(frames, links, mat, kg) {
				series[k][i] = math.Min(float64(r.SafetyFactor), sweepCap)
			}
		}
	})

	fmt.Println(asciigraph.PlotMany(series[:],
		asciigraph.Height(14),
		asciigraph.Width(70),
		asciigraph.LowerBound(0),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Yellow, asciigraph.Cyan),
		asciigraph.SeriesLegends(stress.Locations[0], stress.Locations[1], stress.Locations[2]),
		asciigraph.Caption(fmt.Sprintf("safety factor vs payload, 0 to %.1f kg", maxPayload))))

	fmt.Println()
	for _, sf := range []float64{stress.FailSafety, stress.WarnSafety} {
		fmt.Printf("capacity at SF %.1f: %.2f kg\n", sf, stress.MaxPayload(frames, links, mat, sf))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSH PITCH\tEL PITCH\tWR PITCH\tGRIPPER")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.0f\t%.0f\n", name, p[2], p[5], p[8], p[10])
	}
	return w.Flush()
}
