package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/edaniels/golog"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/sim"
)

func testState() sim.SimulationState {
	joints := arm.DefaultJoints()
	return sim.NewState(joints, 2, sim.DefaultParams(joints))
}

func TestClientAnalyze(t *testing.T) {
	var gotPath, gotKey, gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		var req generateRequest
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &req); err == nil && len(req.Contents) > 0 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Shoulder is fine. "},{"text":"Watch the wrist."}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{Endpoint: srv.URL + "/", Model: "test-model", APIKey: "k", Logger: golog.NewTestLogger(t)})
	text, err := c.Analyze(context.Background(), SnapshotRequest(testState()))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if text != "Shoulder is fine. Watch the wrist." {
		t.Errorf("text = %q", text)
	}
	if gotPath != "/models/test-model:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "k" {
		t.Errorf("api key header = %q", gotKey)
	}
	if !strings.Contains(gotPrompt, `"loadMass":2`) || !strings.Contains(gotPrompt, `"stressResults"`) {
		t.Errorf("prompt missing snapshot: %s", gotPrompt)
	}
}

func TestClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models/denied:generateContent":
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		case "/models/empty:generateContent":
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	tests := []struct {
		name  string
		model string
		key   string
		check func(error) bool
	}{
		{"no key", "denied", "", func(err error) bool { return errors.Is(err, ErrNoCredentials) }},
		{"status", "denied", "k", func(err error) bool {
			var se *StatusError
			return errors.As(err, &se) && se.Code == http.StatusTooManyRequests
		}},
		{"empty", "empty", "k", func(err error) bool { return errors.Is(err, ErrEmptyResponse) }},
		{"garbage", "garbage", "k", func(err error) bool { return err != nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(ClientOptions{Endpoint: srv.URL, Model: tt.model, APIKey: tt.key, Logger: golog.NewTestLogger(t)})
			_, err := c.Analyze(context.Background(), ScenarioRequest("elbow snapped"))
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestClientHonorsCancel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(ClientOptions{Endpoint: srv.URL, Model: "m", APIKey: "k", Logger: golog.NewTestLogger(t)})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.Analyze(ctx, ScenarioRequest("x")); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

type stubAnalyzer struct {
	text string
	err  error
}

func (s stubAnalyzer) Analyze(ctx context.Context, req Request) (string, error) {
	return s.text, s.err
}

func TestAdvise(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name     string
		a        Analyzer
		want     string
		fallback bool
	}{
		{"success", stubAnalyzer{text: "  looks safe \n"}, "looks safe", false},
		{"error", stubAnalyzer{err: boom}, Fallback, true},
		{"blank", stubAnalyzer{text: "   "}, Fallback, true},
		{"nil analyzer", nil, Fallback, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := golog.NewObservedTestLogger(t)
			adv := Advise(context.Background(), tt.a, ScenarioRequest("x"), logger)
			if adv.Text != tt.want || adv.Fallback != tt.fallback {
				t.Errorf("Advise = %+v", adv)
			}
			if tt.name == "error" && logs.FilterMessage("analysis failed, using fallback").Len() != 1 {
				t.Error("expected the failure to be logged")
			}
		})
	}
}

func TestPrompt(t *testing.T) {
	if _, err := Prompt(Request{}); !errors.Is(err, ErrEmptyRequest) {
		t.Errorf("empty request err = %v", err)
	}
	p, err := Prompt(ScenarioRequest("  wrist tube buckled  "))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(p, "wrist tube buckled") {
		t.Errorf("prompt = %q", p)
	}
}
