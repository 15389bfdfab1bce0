package lens

import (
	"encoding/json"
	"fmt"
)

// scenarioStep represents a single action in a scenario script.
type scenarioStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// scenarioScript is the top-level JSON structure for a scenario script.
type scenarioScript struct {
	Steps []scenarioStep `json:"steps"`
}

var scenarioActions = map[string]bool{
	"press": true, "move": true, "release": true, "click": true, "drag": true,
	"resize": true, "collapse": true, "expand": true, "wait": true,
}

// ScenarioRunner sequences injected pointer events, viewport resizes, and
// collapse requests across frames to script panel behavior. Call Step once
// per frame before [Panel.Update].
type ScenarioRunner struct {
	steps     []scenarioStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScenario parses a JSON scenario script.
//
//	{"steps": [
//	  {"action": "resize", "width": 1280, "height": 800},
//	  {"action": "drag", "fromX": 900, "fromY": 600, "toX": 100, "toY": 100, "frames": 10},
//	  {"action": "wait", "frames": 30}
//	]}
func LoadScenario(jsonData []byte) (*ScenarioRunner, error) {
	var script scenarioScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse scenario: no steps")
	}
	for i, st := range script.Steps {
		if !scenarioActions[st.Action] {
			return nil, fmt.Errorf("parse scenario: step %d: unknown action %q", i, st.Action)
		}
		if st.Action == "resize" && (st.Width <= 0 || st.Height <= 0) {
			return nil, fmt.Errorf("parse scenario: step %d: resize needs a positive width and height", i)
		}
	}
	return &ScenarioRunner{steps: script.Steps}, nil
}

// Done reports whether all steps have been executed and their input drained.
func (r *ScenarioRunner) Done() bool {
	return r.done
}

// Step advances the runner by one frame.
func (r *ScenarioRunner) Step(p *Panel) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if p.PendingInput() > 0 {
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
	case "press":
		p.InjectPress(st.X, st.Y)
	case "move":
		p.InjectMove(st.X, st.Y)
	case "release":
		p.InjectRelease(st.X, st.Y)
	case "click":
		p.InjectClick(st.X, st.Y)
	case "drag":
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		p.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, frames)
	case "resize":
		p.Resize(Size{st.Width, st.Height})
	case "collapse":
		p.RequestCollapse()
	case "expand":
		p.RequestExpand()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && p.PendingInput() == 0 {
		r.done = true
	}
}

// Run steps the runner and panel until the script completes or maxFrames
// frames have elapsed, advancing the panel by dt per frame. It reports the
// number of frames run.
func (r *ScenarioRunner) Run(p *Panel, dt float32, maxFrames int) int {
	frames := 0
	for !r.done && frames < maxFrames {
		r.Step(p)
		p.Update(dt)
		frames++
	}
	return frames
}
