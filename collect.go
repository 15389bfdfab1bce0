package lens

import (
	"fmt"
	"slices"
	"strings"
)

// Field is one named value in a collected section.
type Field struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Change describes a field whose value differs from the previous version.
// Removed is set when the field existed previously and is now gone.
type Change struct {
	Name      string `json:"name"`
	Value     any    `json:"value"`
	PrevValue any    `json:"prevValue"`
	Removed   bool   `json:"removed,omitempty"`
}

// Collection is the raw output of a snapshot collector: the node's current
// values, the same read on its previous version, and the differences.
type Collection struct {
	Current []Field
	Prev    []Field
	Changes []Change
}

// Collector reads one category of values from a node.
type Collector func(node RenderNode) Collection

// CollectProps reads the node's properties bag, sorted by name.
func CollectProps(node RenderNode) Collection {
	cur := propFields(node.Props())
	prevNode := node.PreviousVersion()
	if prevNode == nil {
		return Collection{Current: cur}
	}
	prev := propFields(prevNode.Props())
	return Collection{Current: cur, Prev: prev, Changes: diffFields(cur, prev)}
}

func propFields(props map[string]any) []Field {
	out := make([]Field, 0, len(props))
	for name, v := range props {
		out = append(out, Field{Name: name, Value: Represent(v)})
	}
	sortFields(out)
	return out
}

// CollectState reads the node's state slots. Positional slots are keyed by
// their index and named slots by their name, so keys stay stable across
// renders of the same instance. Slot order is preserved.
func CollectState(node RenderNode) Collection {
	cur := stateFields(node.StateSlots())
	prevNode := node.PreviousVersion()
	if prevNode == nil {
		return Collection{Current: cur}
	}
	prev := stateFields(prevNode.StateSlots())
	return Collection{Current: cur, Prev: prev, Changes: diffFields(cur, prev)}
}

func stateFields(slots []StateSlot) []Field {
	out := make([]Field, 0, len(slots))
	for _, s := range slots {
		out = append(out, Field{Name: s.Key(), Value: Represent(s.Value)})
	}
	return out
}

// ContextCollector returns a collector reading inherited context values
// through r. The current node is resolved through the cache. The previous
// side is the map collected for the same node last time, so a re-render of a
// cached node walks nothing; a node seen for the first time has no previous
// side.
func ContextCollector(r *ContextResolver) Collector {
	return func(node RenderNode) Collection {
		resolved := r.AllContexts(node)
		last, ok := r.remembered(node)
		r.remember(node, resolved)
		cur := contextFields(resolved)
		if !ok || node.PreviousVersion() == nil {
			return Collection{Current: cur}
		}
		prev := contextFields(last)
		return Collection{Current: cur, Prev: prev, Changes: diffFields(cur, prev)}
	}
}

func contextFields(ctx map[any]ResolvedContext) []Field {
	type entry struct {
		name, tie string
		value     any
	}
	entries := make([]entry, 0, len(ctx))
	for src, c := range ctx {
		entries = append(entries, entry{name: contextName(src, c), tie: fmt.Sprintf("%T:%v", src, src), value: c.Value})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if c := strings.Compare(a.name, b.name); c != 0 {
			return c
		}
		return strings.Compare(a.tie, b.tie)
	})
	out := make([]Field, len(entries))
	dup := 1
	for i, e := range entries {
		name := e.name
		if i > 0 && e.name == entries[i-1].name {
			dup++
			name = fmt.Sprintf("%s#%d", e.name, dup)
		} else {
			dup = 1
		}
		out[i] = Field{Name: name, Value: e.value}
	}
	return out
}

func contextName(src any, c ResolvedContext) string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	if s, ok := src.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", src)
}

func sortFields(fs []Field) {
	slices.SortStableFunc(fs, func(a, b Field) int { return strings.Compare(a.Name, b.Name) })
}

// diffFields lists fields that differ between cur and prev, in cur order,
// followed by fields present only in prev.
func diffFields(cur, prev []Field) []Change {
	prevByName := make(map[string]any, len(prev))
	for _, f := range prev {
		prevByName[f.Name] = f.Value
	}
	var changes []Change
	seen := make(map[string]bool, len(cur))
	for _, f := range cur {
		seen[f.Name] = true
		pv, ok := prevByName[f.Name]
		if !ok || !Equal(f.Value, pv) {
			changes = append(changes, Change{Name: f.Name, Value: f.Value, PrevValue: pv})
		}
	}
	for _, f := range prev {
		if !seen[f.Name] {
			changes = append(changes, Change{Name: f.Name, PrevValue: f.Value, Removed: true})
		}
	}
	return changes
}
