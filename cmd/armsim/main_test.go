package main

import (
	"bytes"
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/armsim/internal/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env", filepath.Join(t.TempDir(), "none.env")))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunDefaults(t *testing.T) {
	out, err := execute(t, "run")
	if err != nil {
		t.Fatalf("run with defaults: %v", err)
	}
	if duration != 5 || settle != 0 {
		t.Errorf("flag defaults: time=%v settle=%v", duration, settle)
	}
	if !strings.Contains(out, "completed 300 ticks (5.00s") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}

func TestRunCSV(t *testing.T) {
	out, err := execute(t, "run", "--csv", "--time", "0.5", "--payload", "1")
	if err != nil {
		t.Fatalf("run --csv: %v", err)
	}
	rows, err := store.ReadSamples(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ReadSamples: %v", err)
	}
	if len(rows) != 31 {
		t.Fatalf("rows = %d, want 31", len(rows))
	}
	if last := rows[len(rows)-1].Time; math.Abs(last-0.5) > 1e-6 {
		t.Errorf("last sample at %v", last)
	}
	for _, r := range rows {
		if r.PeakMPa <= 0 {
			t.Fatalf("row at %v has no stress with a payload", r.Time)
		}
	}
}

func TestRunReportsClampedTick(t *testing.T) {
	out, err := execute(t, "run", "--dt", "0.5", "--time", "1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "completed 10 ticks (1.00s at dt=0.1000)") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}

func TestExportSettle(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "export", "--settle", "0.25", "--out", dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	path := strings.TrimSpace(out)
	if filepath.Dir(path) != dir || !strings.HasPrefix(filepath.Base(path), "arm-state-") {
		t.Fatalf("export path = %q", path)
	}
	if _, err := store.ReadExport(path); err != nil {
		t.Errorf("ReadExport: %v", err)
	}

	// Registering export must not disturb run's duration.
	if _, err := execute(t, "run", "--time", "0.1"); err != nil {
		t.Errorf("run after export: %v", err)
	}
}
