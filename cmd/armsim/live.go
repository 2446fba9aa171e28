package main

import (
	"github.com/spf13/cobra"

	"github.com/san-kum/armsim/internal/analysis"
	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/viz"
)

// runLive opens the viewport. Logs go to --log so they stay off the
// alternate screen.
func runLive(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, logFile)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	engine := sim.NewEngine(e.state.Joints, e.state.PayloadKg, e.params, e.logger)
	engine.SetCamera(e.state.Camera)
	engine.SetAnimate(e.state.Animate)

	e.logger.Infow("viewport opened", "preset", e.cfg.Pose.Preset)
	return viz.RunLive(cmd.Context(), engine, viz.AppOptions{
		Scene:     sceneOptions(e.cfg),
		Analyzer:  newAnalyzer(e),
		ExportDir: outDir,
		Presets:   config.Presets,
		Logger:    e.logger,
	})
}

func sceneOptions(cfg *config.Config) viz.Options {
	return viz.Options{
		Width:        cfg.Render.Width,
		Height:       cfg.Render.Height,
		ShowAxes:     cfg.Render.ShowAxes,
		StressColors: cfg.Render.StressColors,
		Silhouette:   cfg.Render.Silhouette,
		Labels:       true,
	}
}

// newAnalyzer returns nil without a credential so Advise falls back
// without a network round trip.
func newAnalyzer(e *env) analysis.Analyzer {
	key := e.cfg.APIKey()
	if key == "" {
		e.logger.Debugw("no analysis credential", "env", e.cfg.Analysis.APIKeyEnv)
		return nil
	}
	return analysis.NewClient(analysis.ClientOptions{
		Endpoint: e.cfg.Analysis.Endpoint,
		Model:    e.cfg.Analysis.Model,
		APIKey:   key,
		Timeout:  e.cfg.Analysis.Timeout,
		Rate:     e.cfg.Analysis.Rate,
		Logger:   e.logger.Named("analysis"),
	})
}
