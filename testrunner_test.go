package glowtree

import (
	"strings"
	"testing"
)

func TestLoadScript(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{"valid", `{"steps":[{"action":"tap","x":1,"y":2},{"action":"wait","frames":3},{"action":"count","count":10},{"action":"hold","frames":20},{"action":"screenshot","label":"a"}]}`, ""},
		{"malformed", `{"steps":[`, "parse script"},
		{"empty", `{"steps":[]}`, "no steps"},
		{"unknown action", `{"steps":[{"action":"tap"},{"action":"jump"}]}`, `step 1: unknown action "jump"`},
	}
	for _, tt := range tests {
		r, err := LoadScript([]byte(tt.json))
		if tt.wantErr == "" {
			if err != nil || r == nil {
				t.Errorf("%s: LoadScript = %v, %v", tt.name, r, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%s: error = %v, want it to contain %q", tt.name, err, tt.wantErr)
		}
	}
}

func TestScriptRunsToCompletion(t *testing.T) {
	s, v := newTestScene(t, 200)
	r, err := LoadScript([]byte(`{"steps":[
		{"action":"tap","x":400,"y":300},
		{"action":"wait","frames":3},
		{"action":"count","count":100},
		{"action":"screenshot","label":"after-count"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(r)

	frames := 0
	for !r.Done() && frames < 20 {
		s.Update(1.0 / 60)
		frames++
	}
	if !r.Done() {
		t.Fatal("script did not finish within 20 frames")
	}
	if s.Mode() != ModeExplode {
		t.Errorf("mode = %v, want explode", s.Mode())
	}
	if s.Params().ParticleCount != 100 || v.rebuilt[len(v.rebuilt)-1] != 100 {
		t.Errorf("count step not applied: rebuilt = %v", v.rebuilt)
	}
	if len(v.screenshots) != 1 || v.screenshots[0] != "after-count" {
		t.Errorf("screenshots = %v", v.screenshots)
	}

	// A finished runner is inert.
	s.Update(1.0 / 60)
	if len(v.screenshots) != 1 {
		t.Error("finished script ran again")
	}
}

func TestScriptScreenshotWithoutCapableView(t *testing.T) {
	s, err := NewScene(DefaultParams(), nil, seeded(5, 5))
	if err != nil {
		t.Fatal(err)
	}
	r, err := LoadScript([]byte(`{"steps":[{"action":"screenshot","label":"x"},{"action":"count","count":-3}]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(r)
	runFrames(s, 3)
	if !r.Done() {
		t.Error("script stalled")
	}
	if s.Params().ParticleCount != DefaultParams().ParticleCount {
		t.Error("invalid count step applied")
	}
}
