package lens

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

// ---- Debug mode tests ------------------------------------------------------

func TestDebugMode_DisposedNodePanics(t *testing.T) {
	SetDebugMode(true)
	defer SetDebugMode(false)

	parent := NewHostNode("parent", "P")
	child := NewHostNode("child", "C")
	child.Dispose()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild with disposed node, got none")
		}
		msg := fmt.Sprint(r)
		if !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %s", msg)
		}
	}()

	parent.AddChild(child)
}

func TestReleaseMode_DisposedNodeNoPanic(t *testing.T) {
	SetDebugMode(false)
	parent := NewHostNode("parent", "P")
	child := NewHostNode("child", "C")
	child.Dispose()
	parent.AddChild(child) // tolerated outside debug mode
}

func captureDefaultLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(old) })
	return &buf
}

func TestDebugMode_TreeDepthWarning(t *testing.T) {
	buf := captureDefaultLog(t)
	SetDebugMode(true)
	defer SetDebugMode(false)

	current := NewHostNode("root", "Root")
	for i := 0; i < debugMaxTreeDepth+5; i++ {
		child := NewHostNode(fmt.Sprintf("depth_%d", i), "Item")
		current.AddChild(child)
		current = child
	}

	if !strings.Contains(buf.String(), "tree depth exceeds threshold") {
		t.Errorf("expected tree depth warning, got: %q", buf.String())
	}
}

func TestDefaultLoggerFollowsDebugMode(t *testing.T) {
	buf := captureDefaultLog(t)

	SetDebugMode(false)
	NewSession().Focus(NewHostNode("quiet", "Quiet"))
	if buf.Len() != 0 {
		t.Errorf("release mode should not log, got %q", buf.String())
	}

	SetDebugMode(true)
	defer SetDebugMode(false)
	NewSession().Focus(NewHostNode("loud", "Loud"))
	out := buf.String()
	if !strings.Contains(out, "component=lens") || !strings.Contains(out, "inspection update") {
		t.Errorf("debug mode should log through slog.Default, got %q", out)
	}
}
