package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/edaniels/golog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/config"
	"github.com/san-kum/armsim/internal/sim"
)

var (
	configFile string
	envFile    string
	verbose    bool
	preset     string
	payload    float64
	animate    bool
	logFile    string
	dt         float64
	duration   float64
	settle     float64
	every      int
	csvOut     bool
	outDir     string
	azimuth    float64
	elevation  float64
	scale      float64
	target     float64
	steps      int
	maxPayload float64
	scenario   string
)

// main runs the armsim command tree and exits with status 1 when a command
// fails.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// newRootCmd registers the armsim commands. With no subcommand it opens the
// interactive viewport.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "armsim",
		Short:         "9-DOF robotic arm kinematics and stress lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLive,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with credentials")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	addStateFlags(rootCmd)
	rootCmd.Flags().StringVar(&logFile, "log", "armsim.log", "log file while the viewport is open")
	rootCmd.Flags().StringVar(&outDir, "out", ".", "export directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "open the interactive viewport",
		RunE:  runLive,
	}
	addStateFlags(liveCmd)
	liveCmd.Flags().StringVar(&logFile, "log", "armsim.log", "log file while the viewport is open")
	liveCmd.Flags().StringVar(&outDir, "out", ".", "export directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the servo headless and plot stress history",
		RunE:  runHeadless,
	}
	addStateFlags(runCmd)
	runCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "fixed tick (s)")
	runCmd.Flags().Float64Var(&duration, "time", 5, "duration (s)")
	runCmd.Flags().IntVar(&every, "every", 1, "record every n-th tick")
	runCmd.Flags().BoolVar(&csvOut, "csv", false, "print samples as CSV instead of plots")

	poseCmd := &cobra.Command{
		Use:   "pose",
		Short: "print the coordinate frames for a pose",
		RunE:  printPose,
	}
	addStateFlags(poseCmd)

	stressCmd := &cobra.Command{
		Use:   "stress",
		Short: "print static torque, stress and safety factors",
		RunE:  printStress,
	}
	addStateFlags(stressCmd)
	stressCmd.Flags().Float64Var(&target, "target", 2, "safety factor for the payload capacity")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep payload and plot the safety factor per pivot",
		RunE:  sweepPayload,
	}
	addStateFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&maxPayload, "max", 20, "largest payload (kg)")
	sweepCmd.Flags().IntVar(&steps, "steps", 200, "sweep samples")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "write a JSON state snapshot",
		RunE:  exportState,
	}
	addStateFlags(exportCmd)
	exportCmd.Flags().Float64Var(&settle, "settle", 0, "seconds to simulate before exporting")
	exportCmd.Flags().StringVar(&outDir, "out", ".", "output directory")

	renderCmd := &cobra.Command{
		Use:   "render [file.svg|file.png|file.webp]",
		Short: "render the arm to an image",
		Args:  cobra.ExactArgs(1),
		RunE:  renderImage,
	}
	addStateFlags(renderCmd)
	renderCmd.Flags().Float64Var(&azimuth, "azimuth", 0, "camera azimuth (deg), 0 keeps the config")
	renderCmd.Flags().Float64Var(&elevation, "elevation", 0, "camera elevation (deg), 0 keeps the config")
	renderCmd.Flags().Float64Var(&scale, "scale", 0, "camera scale (px/m), 0 keeps the config")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "ask the analysis service about the current state",
		RunE:  analyzeState,
	}
	addStateFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&scenario, "scenario", "", "free-text scenario instead of the state")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list pose presets",
		RunE:  listPresets,
	}

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "run a scripted sequence of poses and payloads",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	addStateFlags(scriptCmd)

	rootCmd.AddCommand(liveCmd, runCmd, poseCmd, stressCmd, sweepCmd, exportCmd, renderCmd, analyzeCmd, presetsCmd, scriptCmd)
	return rootCmd
}

func addStateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "pose preset, see the presets command")
	cmd.Flags().Float64Var(&payload, "payload", 0, "payload mass (kg)")
	cmd.Flags().BoolVar(&animate, "animate", false, "start in animate mode")
}

// env is everything a command needs: config, parameters and a starting
// state built from flags over the config file.
type env struct {
	cfg    *config.Config
	params sim.Params
	state  sim.SimulationState
	logger golog.Logger
}

func newLogger(path string) (golog.Logger, error) {
	zcfg := golog.NewDevelopmentLoggerConfig()
	if !verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	if path != "" {
		zcfg.OutputPaths = []string{path}
		zcfg.ErrorOutputPaths = []string{path}
	}
	zl, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return zl.Sugar().Named("armsim"), nil
}

func setup(cmd *cobra.Command, logPath string) (*env, error) {
	logger, err := newLogger(logPath)
	if err != nil {
		return nil, err
	}
	if err := config.LoadEnv(envFile); err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	if configFile != "" {
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if cmd.Flags().Changed("preset") {
		cfg.Pose.Preset = preset
		cfg.Pose.Joints = nil
	}
	if cmd.Flags().Changed("payload") {
		cfg.PayloadKg = payload
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	joints := arm.DefaultJoints()
	params, err := cfg.Params(joints)
	if err != nil {
		return nil, err
	}
	pose, err := cfg.StartPose()
	if err != nil {
		return nil, err
	}

	state := sim.NewState(arm.ApplyPose(joints, pose), cfg.PayloadKg, params)
	state.Camera = cfg.Camera
	if cmd.Flags().Changed("animate") {
		state.Animate = animate
	}

	logger.Debugw("configured", "preset", cfg.Pose.Preset, "payload_kg", cfg.PayloadKg, "integrator", cfg.Physics.Integrator)
	return &env{cfg: cfg, params: params, state: state, logger: logger}, nil
}
