package store

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/spatial"
	"github.com/san-kum/armsim/internal/stress"
)

func snapshot(t *testing.T) sim.SimulationState {
	t.Helper()
	joints := arm.DefaultJoints()
	p := sim.DefaultParams(joints)
	s := sim.NewState(joints, 1.25, p)
	s.Joints[1].TargetAngle = 20
	for i := 0; i < 5; i++ {
		s = sim.Advance(s, 1.0/60, p)
	}
	return s
}

func TestBuildExportFormats(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e := BuildExport(snapshot(t), now)

	if e.ID == "" {
		t.Error("missing id")
	}
	if !strings.HasSuffix(e.Metrics.Reach, "m") || len(strings.Split(strings.TrimSuffix(e.Metrics.Reach, "m"), ".")[1]) != 3 {
		t.Errorf("reach = %q", e.Metrics.Reach)
	}
	if got := FormatMillimeters(spatial.Vec{X: 0.77, Y: -0.0012345, Z: 0}); got != (Millimeters{"770.00", "-1.23", "0.00"}) {
		t.Errorf("mm = %+v", got)
	}
	if len(e.Metrics.JointTorques) != 3 || e.Metrics.JointTorques["Shoulder"] <= 0 {
		t.Errorf("torques = %v", e.Metrics.JointTorques)
	}
	if len(e.Trajectory) != 5 || len(e.Joints) != 10 {
		t.Errorf("trajectory %d, joints %d", len(e.Trajectory), len(e.Joints))
	}
	if FileName(now) != "arm-state-1772366400000.json" {
		t.Errorf("file name = %s", FileName(now))
	}
}

func TestExportRoundTrip(t *testing.T) {
	e := BuildExport(snapshot(t), time.Now())

	path, err := WriteExport(filepath.Join(t.TempDir(), "out"), e)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), FilePrefix) {
		t.Errorf("path = %s", path)
	}

	got, err := ReadExport(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !got.Timestamp.Equal(e.Timestamp) {
		t.Errorf("timestamp %v != %v", got.Timestamp, e.Timestamp)
	}
	got.Timestamp = e.Timestamp
	if !reflect.DeepEqual(*got, e) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *got, e)
	}
}

func TestExportInfiniteSafety(t *testing.T) {
	e := BuildExport(snapshot(t), time.Now())
	e.Metrics.Stress[0].SafetyFactor = stress.Unbounded

	var buf bytes.Buffer
	if err := Encode(&buf, e); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(buf.String(), `"safetyFactor": "inf"`) {
		t.Errorf("expected inf sentinel in:\n%s", buf.String())
	}

	got, err := ParseExport(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Metrics.Stress[0].SafetyFactor.Infinite() {
		t.Errorf("sentinel lost: %v", got.Metrics.Stress[0].SafetyFactor)
	}
}

func TestParseExportRejectsGarbage(t *testing.T) {
	if _, err := ParseExport(strings.NewReader("{not json")); err == nil {
		t.Error("expected error")
	}
	var raw map[string]any
	b, _ := json.Marshal(BuildExport(snapshot(t), time.Now()))
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"timestamp", "joints", "metrics", "trajectory"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}
}
