package viz

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/edaniels/golog"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/armsim/internal/analysis"
	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/store"
)

const (
	canvasWidth     = 80
	canvasHeight    = 28
	historyCapacity = 300
	targetStep      = 5.0
	payloadStep     = 0.5
	orbitStep       = 5.0
	panStep         = 20.0
	zoomStep        = 1.1
	dragDegrees     = 2.0
	tickInterval    = time.Second / 60
)

type TickMsg time.Time

type analysisMsg struct {
	seq    int
	advice analysis.Advice
}

type AppOptions struct {
	Scene     Options
	Analyzer  analysis.Analyzer
	ExportDir string
	Presets   map[string]arm.Pose
	Theme     string
	Logger    golog.Logger
}

// Model is the interactive viewport. The engine owns the simulation; the
// model only sends it commands and renders snapshots.
type Model struct {
	engine *sim.Engine
	opts   AppOptions
	ctx    context.Context
	logger golog.Logger

	canvas   *Canvas
	last     time.Time
	snap     sim.SimulationState
	selected int
	theme    Theme
	showHelp bool
	status   string

	dragging     bool
	dragX, dragY int

	safetyHistory []float64
	stressHistory []float64
	presetNames   []string

	analysisSeq    int
	analysisCancel context.CancelFunc
	pending        bool
	advice         *analysis.Advice
}

func NewModel(ctx context.Context, engine *sim.Engine, opts AppOptions) Model {
	if opts.Logger == nil {
		opts.Logger = golog.Global()
	}
	if opts.Scene.Width <= 0 || opts.Scene.Height <= 0 {
		opts.Scene = DefaultOptions()
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	names := make([]string, 0, len(opts.Presets))
	for name := range opts.Presets {
		names = append(names, name)
	}
	sort.Strings(names)

	return Model{
		engine:        engine,
		opts:          opts,
		ctx:           ctx,
		logger:        opts.Logger,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		snap:          engine.Snapshot(),
		theme:         GetTheme(opts.Theme),
		safetyHistory: make([]float64, 0, historyCapacity),
		stressHistory: make([]float64, 0, historyCapacity),
		presetNames:   names,
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case TickMsg:
		now := time.Time(msg)
		dt := 0.0
		if !m.last.IsZero() {
			dt = now.Sub(m.last).Seconds()
		}
		m.last = now
		m.snap = m.engine.Tick(dt)
		m.record()
		return m, tick()

	case analysisMsg:
		if msg.seq != m.analysisSeq {
			return m, nil
		}
		m.pending = false
		m.analysisCancel = nil
		m.advice = &msg.advice
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	joints := m.snap.Joints
	id := 0
	if m.selected < len(joints) {
		id = joints[m.selected].ID
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.cancelAnalysis()
		return m, tea.Quit
	case " ":
		on := m.engine.ToggleAnimate()
		m.status = map[bool]string{true: "animate on", false: "animate paused"}[on]
	case "r", "R":
		m.engine.Reset()
		m.safetyHistory = m.safetyHistory[:0]
		m.stressHistory = m.stressHistory[:0]
		m.status = "reset"
	case "tab":
		m.selected = (m.selected + 1) % max(1, len(joints))
	case "shift+tab":
		m.selected = (m.selected - 1 + len(joints)) % max(1, len(joints))
	case "up", "k":
		m.command(m.engine.NudgeTarget(id, targetStep))
	case "down", "j":
		m.command(m.engine.NudgeTarget(id, -targetStep))
	case "left", "h":
		m.engine.Orbit(-orbitStep, 0)
	case "right", "l":
		m.engine.Orbit(orbitStep, 0)
	case "w":
		m.engine.Orbit(0, orbitStep)
	case "s":
		m.engine.Orbit(0, -orbitStep)
	case "+", "=":
		m.engine.Zoom(zoomStep)
	case "-", "_":
		m.engine.Zoom(1 / zoomStep)
	case "W":
		m.engine.Pan(0, -panStep)
	case "S":
		m.engine.Pan(0, panStep)
	case "A":
		m.engine.Pan(-panStep, 0)
	case "D":
		m.engine.Pan(panStep, 0)
	case "p":
		m.command(m.engine.SetPayload(m.snap.PayloadKg + payloadStep))
	case "P":
		m.command(m.engine.SetPayload(max(0, m.snap.PayloadKg-payloadStep)))
	case "c":
		m.opts.Scene.StressColors = !m.opts.Scene.StressColors
	case "x":
		m.opts.Scene.ShowAxes = !m.opts.Scene.ShowAxes
	case "t":
		m.theme = NextTheme(m.theme)
		m.status = "theme " + m.theme.Name
	case "e":
		m.export()
	case "a":
		return m, m.startAnalysis()
	case "?":
		m.showHelp = !m.showHelp
	default:
		if n := presetIndex(msg.String()); n >= 0 && n < len(m.presetNames) {
			name := m.presetNames[n]
			m.command(m.engine.ApplyPose(m.opts.Presets[name]))
			m.status = "pose " + name
		}
	}
	m.snap = m.engine.Snapshot()
	return m, nil
}

// Dragging orbits, shift-dragging pans, the wheel zooms. One terminal cell
// of drag is worth dragDegrees of orbit.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.engine.Zoom(zoomStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.engine.Zoom(1 / zoomStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dragging, m.dragX, m.dragY = true, msg.X, msg.Y
	case msg.Action == tea.MouseActionRelease:
		m.dragging = false
	case msg.Action == tea.MouseActionMotion && m.dragging:
		dx, dy := float64(msg.X-m.dragX), float64(msg.Y-m.dragY)
		m.dragX, m.dragY = msg.X, msg.Y
		if msg.Shift {
			m.engine.Pan(dx*panStep/2, dy*panStep/2)
		} else {
			m.engine.Orbit(dx*dragDegrees, -dy*dragDegrees)
		}
	}
	m.snap.Camera = m.engine.Snapshot().Camera
}

func (m *Model) command(err error) {
	if err != nil {
		m.status = err.Error()
		m.logger.Debugw("command rejected", "error", err)
	}
}

func (m *Model) record() {
	w := m.snap.Worst()
	sf := float64(w.SafetyFactor)
	if w.SafetyFactor.Infinite() {
		sf = 0
	}
	m.safetyHistory = appendCapped(m.safetyHistory, sf)
	m.stressHistory = appendCapped(m.stressHistory, w.StressMPa)
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m *Model) export() {
	e := store.BuildExport(m.engine.Snapshot(), time.Now())
	path, err := store.WriteExport(m.opts.ExportDir, e)
	if err != nil {
		m.status = "export failed: " + err.Error()
		m.logger.Errorw("export failed", "error", err)
		return
	}
	m.status = "exported " + path
	m.logger.Infow("exported state", "path", path, "id", e.ID)
}

// startAnalysis supersedes any in-flight request.
func (m *Model) startAnalysis() tea.Cmd {
	m.cancelAnalysis()
	m.analysisSeq++
	m.pending = true
	m.advice = nil

	ctx, cancel := context.WithCancel(m.ctx)
	m.analysisCancel = cancel
	seq, a, logger := m.analysisSeq, m.opts.Analyzer, m.logger
	req := analysis.SnapshotRequest(m.engine.Snapshot())

	return func() tea.Msg {
		defer cancel()
		return analysisMsg{seq: seq, advice: analysis.Advise(ctx, a, req, logger)}
	}
}

func (m *Model) cancelAnalysis() {
	if m.analysisCancel != nil {
		m.analysisCancel()
		m.analysisCancel = nil
	}
	m.pending = false
}

func (m Model) View() string {
	m.canvas.Clear()
	m.canvas.DrawScene(BuildScene(m.snap, m.opts.Scene))
	viewport := Panel(m.theme).Render(m.canvas.Render())

	side := lipgloss.JoinVertical(lipgloss.Left,
		m.viewStatus(),
		m.viewJoints(),
		m.viewStress(),
		m.viewAnalysis(),
	)
	main := lipgloss.JoinHorizontal(lipgloss.Top, viewport, side)

	if m.showHelp {
		return main + "\n" + helpText + "\n  themes: " + strings.Join(ThemeNames(), ", ")
	}
	return main + "\n" + KeyHint.Render("space animate · tab/↑↓ joint · ←→ws orbit · +/- zoom · p/P payload · 1-9 poses · e export · a analyze · ? help · q quit")
}

func (m Model) viewStatus() string {
	var b strings.Builder
	b.WriteString(GradientText("ARMSIM", m.theme.Title, m.theme.Accent) + "  ")
	if m.snap.Animate {
		b.WriteString(StatusRunning.Render("ANIMATE"))
	} else {
		b.WriteString(StatusPaused.Render("MANUAL"))
	}
	b.WriteString("\n")

	ee := kinematics.EndEffector(m.snap.Frames)
	mm := store.FormatMillimeters(ee)
	b.WriteString(MetricLabel.Render("End-eff") + MetricValue.Render(fmt.Sprintf("%s, %s, %s mm", mm.X, mm.Y, mm.Z)) + "\n")
	b.WriteString(MetricLabel.Render("Reach") + MetricValue.Render(store.FormatReach(kinematics.Reach(m.snap.Frames))) + "\n")
	b.WriteString(MetricLabel.Render("Trail") + MetricValue.Render(fmt.Sprintf("%.3f m", m.snap.Trajectory.Length())) + "\n")
	b.WriteString(MetricLabel.Render("Payload") + MetricValue.Render(fmt.Sprintf("%.2f kg", m.snap.PayloadKg)) + "\n")
	b.WriteString(MetricLabel.Render("Sim time") + MetricValue.Render(fmt.Sprintf("%.2fs", m.snap.SimTime)))
	if m.status != "" {
		b.WriteString("\n" + Subtle.Render(m.status))
	}
	return Panel(m.theme).Width(52).Render(b.String())
}

func (m Model) viewJoints() string {
	var b strings.Builder
	for i, j := range m.snap.Joints {
		line := fmt.Sprintf("%-15s %s %7.1f", j.Name, Slider(j.Angle, j.TargetAngle, j.Min, j.Max, 16), j.Angle)
		if i == m.selected {
			b.WriteString(Selected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		if i < len(m.snap.Joints)-1 {
			b.WriteString("\n")
		}
	}
	return Panel(m.theme).Width(52).Render(b.String())
}

func (m Model) viewStress() string {
	var b strings.Builder
	for _, r := range m.snap.Stress {
		b.WriteString(fmt.Sprintf("%-9s %7.2f N·m %7.2f MPa  SF ", r.Location, r.TorqueStatic, r.StressMPa))
		b.WriteString(StatusStyle(r.Status).Render(fmt.Sprintf("%-6s", r.SafetyFactor)) + "\n")
	}
	if len(m.stressHistory) > 1 {
		b.WriteString(asciigraph.Plot(m.stressHistory,
			asciigraph.Height(4),
			asciigraph.Width(40),
			asciigraph.Precision(1),
			asciigraph.Caption("peak stress (MPa)")))
	}
	if len(m.safetyHistory) > 0 {
		b.WriteString("\n" + MetricLabel.Render("Min SF") + SparklineChart(m.safetyHistory, 32))
	}
	return Panel(m.theme).Width(52).Render(b.String())
}

func (m Model) viewAnalysis() string {
	switch {
	case m.pending:
		return Panel(m.theme).Width(52).Render(Subtle.Render("analyzing..."))
	case m.advice == nil:
		return ""
	}
	title := "AI analysis"
	if m.advice.Fallback {
		title = "AI analysis (fallback)"
	}
	body := lipgloss.NewStyle().Width(48).Render(m.advice.Text)
	return Panel(m.theme).Width(52).Render(MetricValue.Render(title) + "\n" + body)
}

const helpText = `
  Space      toggle animate mode       r/R      reset pose
  Tab/S-Tab  select joint              ↑/↓ k/j  move target ±5
  ←/→ h/l    orbit azimuth             w/s      orbit elevation
  +/-        zoom (or mouse wheel)     W/A/S/D  pan
  p/P        payload ±0.5 kg           1-9      apply pose preset
  c          toggle stress colors      x        toggle joint axes
  t          cycle theme               e        export JSON snapshot
  a          request AI analysis       q        quit`

func presetIndex(key string) int {
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return int(key[0] - '1')
	}
	return -1
}

// RunLive runs the viewport until the user quits or ctx is done. Quitting
// cancels any analysis still in flight.
func RunLive(ctx context.Context, engine *sim.Engine, opts AppOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(ctx, engine, opts), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
