package lens

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// globalDebug mirrors the most recent SetDebugMode call so that HostNode tree
// operations (which have no owner to ask) can check it cheaply.
var globalDebug bool

// SetDebugMode enables or disables debug mode. When enabled, use of disposed
// host nodes panics, deep trees are reported, and components created without
// an explicit logger emit debug records to the default slog handler.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// discardLogger drops every record. Components fall back to it when debug
// mode is off and no logger was supplied.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// defaultLogger returns the logger used by components built without WithLogger.
func defaultLogger() *slog.Logger {
	if globalDebug {
		return slog.Default().With("component", "lens")
	}
	return discardLogger
}

// debugEnabled reports whether l would emit a debug record.
func debugEnabled(l *slog.Logger) bool {
	return l.Enabled(context.Background(), slog.LevelDebug)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *HostNode, op string) {
	if n.disposed {
		panic(fmt.Sprintf("lens debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugMaxTreeDepth is the depth past which ancestry walks are reported.
// Context resolution is O(depth) per inspected update.
const debugMaxTreeDepth = 64

func debugCheckTreeDepth(n *HostNode) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		defaultLogger().Warn("tree depth exceeds threshold",
			"node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}
