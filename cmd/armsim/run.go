package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/armsim/internal/metrics"
	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/store"
)

// pitchJoints are the sample indices of the shoulder, elbow and wrist
// pitch joints.
var pitchJoints = [3]int{1, 4, 7}

func runHeadless(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, "")
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	s := sim.New(e.params)
	for _, m := range metrics.Standard() {
		s.AddMetric(m)
	}

	if step := e.params.Step.ClampDt(dt); step != dt {
		e.logger.Warnw("tick clamped", "dt", dt, "max_dt", e.params.Step.MaxDt)
	}

	start := time.Now()
	result, err := s.Run(cmd.Context(), e.state, sim.Config{Dt: dt, Duration: duration, Every: every})
	if err != nil {
		return err
	}
	e.logger.Debugw("run finished", "ticks", result.Ticks, "elapsed", time.Since(start))

	out := cmd.OutOrStdout()
	if csvOut {
		return store.WriteSamples(out, result)
	}

	fmt.Fprintf(out, "completed %d ticks (%.2fs at dt=%.4f) in %v\n", result.Ticks, result.Elapsed, e.params.Step.ClampDt(dt), time.Since(start))
	if len(result.Samples) > 1 {
		plotSamples(out, result.Samples)
	}

	fmt.Fprintln(out, "\nmetrics:")
	printMetrics(out, result.Metrics)
	return nil
}

func plotSamples(w io.Writer, samples []sim.Sample) {
	stressSeries := make([]float64, len(samples))
	safetySeries := make([]float64, len(samples))
	pitch := [3][]float64{}
	for i, smp := range samples {
		stressSeries[i] = smp.PeakMPa
		safetySeries[i] = finiteOr(smp.MinSafety, 0)
		for k, idx := range pitchJoints {
			pitch[k] = append(pitch[k], smp.State.Joints[idx].Angle)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, asciigraph.PlotMany(pitch[:],
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Yellow, asciigraph.Cyan),
		asciigraph.SeriesLegends("shoulder", "elbow", "wrist"),
		asciigraph.Caption("pitch angles (deg)")))
	fmt.Fprintln(w)
	fmt.Fprintln(w, asciigraph.Plot(stressSeries,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption("peak bending stress (MPa)")))
	fmt.Fprintln(w)
	fmt.Fprintln(w, asciigraph.Plot(safetySeries,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.LowerBound(0),
		asciigraph.Caption("minimum safety factor (0 = unbounded)")))
}

func printMetrics(out io.Writer, m map[string]float64) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(m) {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, m[name])
	}
	w.Flush()
}

func finiteOr(v, fallback float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return fallback
	}
	return v
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
