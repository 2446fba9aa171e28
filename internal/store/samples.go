package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/armsim/internal/sim"
)

// Row is one line of a sample report.
type Row struct {
	Time      float64
	Angles    []float64
	MinSafety float64
	PeakMPa   float64
}

// WriteSamples writes headless run samples as CSV: time, one column per
// joint angle, then min_safety and peak_mpa. Unbounded safety factors are
// written as +Inf.
func WriteSamples(w io.Writer, result *sim.Result) error {
	cw := csv.NewWriter(w)
	if len(result.Samples) > 0 {
		header := []string{"time"}
		for _, j := range result.Samples[0].State.Joints {
			header = append(header, fmt.Sprintf("j%d", j.ID))
		}
		header = append(header, "min_safety", "peak_mpa")
		if err := cw.Write(header); err != nil {
			return err
		}
	}

	for _, s := range result.Samples {
		row := []string{formatFloat(s.Time)}
		for _, j := range s.State.Joints {
			row = append(row, formatFloat(j.Angle))
		}
		row = append(row, formatFloat(s.MinSafety), formatFloat(s.PeakMPa))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// ReadSamples parses a report written by WriteSamples. Unparseable rows
// are skipped.
func ReadSamples(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Row{}, nil
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 3 {
			continue
		}
		vals := make([]float64, len(rec))
		ok := true
		for i, f := range rec {
			if vals[i], err = strconv.ParseFloat(f, 64); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		n := len(vals)
		rows = append(rows, Row{
			Time:      vals[0],
			Angles:    vals[1 : n-2],
			MinSafety: vals[n-2],
			PeakMPa:   vals[n-1],
		})
	}
	return rows, nil
}
