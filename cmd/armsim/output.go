package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/armsim/internal/analysis"
	"github.com/san-kum/armsim/internal/export"
	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/store"
	"github.com/san-kum/armsim/internal/viz"
)

// settleDt is the fixed tick used when a command simulates before output.
const settleDt = 1.0 / 60

func exportState(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, "")
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	state := e.state
	if settle > 0 {
		res, err := sim.New(e.params).Run(cmd.Context(), state, sim.Config{Dt: settleDt, Duration: settle, Every: 1 << 30})
		if err != nil {
			return err
		}
		state = res.Final
	}

	snap := store.BuildExport(state, time.Now())
	path, err := store.WriteExport(outDir, snap)
	if err != nil {
		return err
	}
	e.logger.Infow("exported state", "path", path, "id", snap.ID)
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func renderImage(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, "")
	if err != nil {
		return err
	}

	cam := e.state.Camera
	if cmd.Flags().Changed("azimuth") {
		cam = cam.Orbit(azimuth-cam.Azimuth, 0)
	}
	if cmd.Flags().Changed("elevation") {
		cam = cam.Orbit(0, elevation-cam.Elevation)
	}
	if cmd.Flags().Changed("scale") {
		cam = cam.Zoom(scale / cam.Scale)
	}
	state := e.state
	state.Camera = cam

	if err := export.WriteFile(args[0], viz.BuildScene(state, sceneOptions(e.cfg))); err != nil {
		return err
	}
	fmt.Println(args[0])
	return nil
}

func analyzeState(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, "")
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	req := analysis.SnapshotRequest(e.state)
	if scenario != "" {
		req = analysis.ScenarioRequest(scenario)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	advice := analysis.Advise(cmd.Context(), newAnalyzer(e), req, e.logger)
	fmt.Println(advice.Text)
	if advice.Fallback {
		fmt.Fprintf(os.Stderr, "(fallback: %v)\n", advice.Err)
	}
	return nil
}
