package lens

import "testing"

func TestLoadScenario(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "resize", "width": 1000, "height": 700},
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "drag", "fromX": 1, "fromY": 2, "toX": 3, "toY": 4, "frames": 6}
		]
	}`)

	runner, err := LoadScenario(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "resize" || runner.steps[0].Width != 1000 {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].Action != "click" || runner.steps[1].X != 100 || runner.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[3].ToY != 4 || runner.steps[3].Frames != 6 {
		t.Error("step 3 mismatch")
	}
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `not json`},
		{"empty", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "screenshot"}]}`},
		{"resize without size", `{"steps": [{"action": "resize", "width": 100}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScenario([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunnerStep_Wait(t *testing.T) {
	p, _ := newTestPanel(t, NewMemoryStore())
	runner, err := LoadScenario([]byte(`{"steps": [{"action": "wait", "frames": 3}]}`))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if runner.Done() {
			t.Fatalf("done too early at frame %d", i)
		}
		runner.Step(p)
	}
	runner.Step(p)
	if !runner.Done() {
		t.Error("runner should be done after the wait")
	}
}

func TestRunnerCollapseAndExpand(t *testing.T) {
	p, changes := newTestPanel(t, NewMemoryStore())
	runner, err := LoadScenario([]byte(`{"steps": [
		{"action": "collapse"},
		{"action": "wait", "frames": 2},
		{"action": "expand"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	runner.Run(p, 1.0/60, 100)
	if !runner.Done() {
		t.Fatal("runner should finish")
	}
	if len(*changes) != 2 || (*changes)[0].Reason != ReasonRequestCollapse || (*changes)[1].Reason != ReasonRequestExpand {
		t.Errorf("changes = %+v", *changes)
	}
}

// Panel at (100,100) 550x400 dragged 400 left and 300 up in 1280x800,
// driven end to end through injected input.
func TestRunnerDragCollapseScenario(t *testing.T) {
	store := NewMemoryStore()
	// Seed a persisted top-left panel at (100,100) using a 100px safe area.
	cfg := DefaultPanelConfig()
	cfg.SafeArea = 100
	seed := NewPanel(cfg, testViewport, store)
	seed.PointerDown(Vec2{700, 500})
	seed.PointerUp(Vec2{100, 150})
	if g := seed.Geometry(); g.Corner != CornerTopLeft || g.Position != (Vec2{100, 100}) {
		t.Fatalf("seed geometry = %+v", g)
	}

	p := NewPanel(cfg, testViewport, store)
	var changes []GeometryChange
	p.OnGeometryChange(func(c GeometryChange) { changes = append(changes, c) })

	runner, err := LoadScenario([]byte(`{"steps": [
		{"action": "drag", "fromX": 500, "fromY": 400, "toX": 100, "toY": 100, "frames": 10},
		{"action": "wait", "frames": 30}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	frames := runner.Run(p, 1.0/60, 1000)
	if !runner.Done() || frames >= 1000 {
		t.Fatalf("runner did not finish: %d frames", frames)
	}

	g := p.Geometry()
	if !g.Collapsed || g.Corner != CornerTopLeft || g.Orientation != OrientationHorizontal {
		t.Errorf("geometry = %+v", g)
	}
	if len(changes) != 1 || changes[0].Reason != ReasonDragCollapse {
		t.Errorf("changes = %+v", changes)
	}
	if p.Transform() != g.Position {
		t.Errorf("transform %v should have settled at %v", p.Transform(), g.Position)
	}
}
