package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/kinematics"
	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/spatial"
	"github.com/san-kum/armsim/internal/stress"
)

// FilePrefix starts every export file name.
const FilePrefix = "arm-state-"

// Export is the JSON snapshot offered for download.
type Export struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	Joints     []arm.Joint `json:"joints"`
	Metrics    Metrics     `json:"metrics"`
	Trajectory []Point     `json:"trajectory"`
	PayloadKg  float64     `json:"payloadKg"`
	Animate    bool        `json:"animate"`
	SimTime    float64     `json:"simTime"`
}

type Metrics struct {
	EndEffector  Millimeters        `json:"endEffector"`
	Reach        string             `json:"reach"`
	Stress       [3]stress.Result   `json:"stressResults"`
	JointTorques map[string]float64 `json:"jointTorques"`
}

// Millimeters holds a position as two-decimal strings.
type Millimeters struct {
	X string `json:"x"`
	Y string `json:"y"`
	Z string `json:"z"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BuildExport captures a snapshot at now.
func BuildExport(s sim.SimulationState, now time.Time) Export {
	ee := kinematics.EndEffector(s.Frames)

	torques := make(map[string]float64, len(s.Stress))
	for _, r := range s.Stress {
		torques[r.Location] = r.TorqueStatic
	}

	traj := make([]Point, len(s.Trajectory))
	for i, p := range s.Trajectory {
		traj[i] = toPoint(p)
	}

	return Export{
		ID:        uuid.NewString(),
		Timestamp: now.UTC(),
		Joints:    append([]arm.Joint(nil), s.Joints...),
		Metrics: Metrics{
			EndEffector:  FormatMillimeters(ee),
			Reach:        FormatReach(kinematics.Reach(s.Frames)),
			Stress:       s.Stress,
			JointTorques: torques,
		},
		Trajectory: traj,
		PayloadKg:  s.PayloadKg,
		Animate:    s.Animate,
		SimTime:    s.SimTime,
	}
}

func FormatMillimeters(v spatial.Vec) Millimeters {
	return Millimeters{
		X: fmt.Sprintf("%.2f", v.X*1000),
		Y: fmt.Sprintf("%.2f", v.Y*1000),
		Z: fmt.Sprintf("%.2f", v.Z*1000),
	}
}

// FormatReach renders meters with three decimals and an "m" suffix.
func FormatReach(m float64) string {
	return fmt.Sprintf("%.3fm", m)
}

// FileName is the download name for an export taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("%s%d.json", FilePrefix, t.UnixMilli())
}

// Encode writes pretty-printed JSON.
func Encode(w io.Writer, e Export) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(e)
}

// WriteExport writes e into dir and returns the file path.
func WriteExport(dir string, e Export) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(e.Timestamp))

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := Encode(file, e); err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	return path, nil
}

func ParseExport(r io.Reader) (*Export, error) {
	var e Export
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	return &e, nil
}

func ReadExport(path string) (*Export, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseExport(file)
}

func toPoint(v spatial.Vec) Point { return Point{X: v.X, Y: v.Y, Z: v.Z} }
