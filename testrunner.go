package journey

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action  string   `json:"action"`
	Label   string   `json:"label,omitempty"`
	Offset  *float64 `json:"offset,omitempty"`
	By      float64  `json:"by,omitempty"`
	Section string   `json:"section,omitempty"`
	Width   float64  `json:"width,omitempty"`
	Height  float64  `json:"height,omitempty"`
	Frames  int      `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// scriptTarget is what a TestRunner drives. *Host implements it.
type scriptTarget interface {
	Screenshot(label string)
	InjectScroll(offset float64)
	InjectScrollBy(delta float64)
	InjectSection(id string)
	InjectResize(w, h float64)
	pendingInjections() int
}

// TestRunner sequences injected scrolls, resizes and screenshots across
// frames for automated visual testing. Attach to a Host via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Host via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "screenshot", "wait":
		case "scroll":
			if st.Offset == nil && st.Section == "" && st.By == 0 {
				return nil, fmt.Errorf("parse test script: step %d: scroll needs offset, by or section", i)
			}
		case "resize":
			if st.Width <= 0 || st.Height <= 0 {
				return nil, fmt.Errorf("parse test script: step %d: resize needs positive width and height", i)
			}
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame. Called from Host.Update.
func (r *TestRunner) step(t scriptTarget) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if t.pendingInjections() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		t.Screenshot(st.Label)
	case "scroll":
		switch {
		case st.Section != "":
			t.InjectSection(st.Section)
		case st.Offset != nil:
			t.InjectScroll(*st.Offset)
		default:
			t.InjectScrollBy(st.By)
		}
	case "resize":
		t.InjectResize(st.Width, st.Height)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && t.pendingInjections() == 0 {
		r.done = true
	}
}
