package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/edaniels/golog"

	"github.com/san-kum/armsim/internal/sim"
	"github.com/san-kum/armsim/internal/stress"
)

var (
	ErrNoCredentials = errors.New("analysis: no API key configured")
	ErrEmptyRequest  = errors.New("analysis: request has neither scenario nor snapshot")
	ErrEmptyResponse = errors.New("analysis: service returned no text")
)

// Fallback is shown whenever commentary cannot be produced.
const Fallback = "AI analysis unavailable (offline or no API key). " +
	"Check the stress panel: keep every safety factor above 1.5 and reduce payload or reach if any pivot is amber or red."

type Analyzer interface {
	Analyze(ctx context.Context, req Request) (string, error)
}

// Request carries either a free-text failure scenario or a load snapshot.
type Request struct {
	Scenario string    `json:"scenario,omitempty"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

type Snapshot struct {
	StressResults [3]stress.Result `json:"stressResults"`
	LoadMass      float64          `json:"loadMass"`
	IsDynamic     bool             `json:"isDynamic"`
}

func ScenarioRequest(text string) Request {
	return Request{Scenario: strings.TrimSpace(text)}
}

// SnapshotRequest describes the current load state. The arm counts as
// dynamic while animating.
func SnapshotRequest(s sim.SimulationState) Request {
	return Request{Snapshot: &Snapshot{
		StressResults: s.Stress,
		LoadMass:      s.PayloadKg,
		IsDynamic:     s.Animate,
	}}
}

func (r Request) Validate() error {
	if r.Scenario == "" && r.Snapshot == nil {
		return ErrEmptyRequest
	}
	return nil
}

// Prompt renders the request as instructions for the model.
func Prompt(r Request) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("You are a structural engineer reviewing a 9-DOF aluminium robot arm ")
	b.WriteString("(hollow 6061-T6 tubes, yield 276 MPa). ")
	if r.Snapshot != nil {
		data, err := json.Marshal(r.Snapshot)
		if err != nil {
			return "", fmt.Errorf("encode snapshot: %w", err)
		}
		b.WriteString("Assess the failure risk for this static load estimate and suggest mitigations in under 120 words.\n")
		b.Write(data)
	}
	if r.Scenario != "" {
		if r.Snapshot != nil {
			b.WriteString("\n")
		}
		b.WriteString("Analyze this failure scenario and give the likely root cause and a fix in under 120 words:\n")
		b.WriteString(r.Scenario)
	}
	return b.String(), nil
}

// Advice is the outcome of Advise.
type Advice struct {
	Text     string
	Fallback bool
	Err      error
}

// Advise runs the analyzer and converts every failure into Fallback.
func Advise(ctx context.Context, a Analyzer, req Request, logger golog.Logger) Advice {
	if logger == nil {
		logger = golog.Global()
	}
	if a == nil {
		logger.Debugw("analysis skipped", "error", ErrNoCredentials)
		return Advice{Text: Fallback, Fallback: true, Err: ErrNoCredentials}
	}

	text, err := a.Analyze(ctx, req)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		logger.Warnw("analysis failed, using fallback", "error", err)
		return Advice{Text: Fallback, Fallback: true, Err: err}
	}
	return Advice{Text: strings.TrimSpace(text)}
}
