package lens

import (
	"fmt"
	"maps"
	"strconv"
)

// RenderNode is a read-only handle to one component instance in a live UI
// tree. The host runtime owns its lifecycle; the inspection engine only
// observes it. Implementations must be comparable (pointer types in practice)
// because nodes are used as cache keys.
type RenderNode interface {
	// Kind identifies the underlying component type. Two nodes with the same
	// kind are treated as the same component across renders.
	Kind() string
	// Parent returns the enclosing node, or nil at the root.
	Parent() RenderNode
	// Props returns the node's properties bag.
	Props() map[string]any
	// StateSlots returns the node's local state, in declaration order.
	StateSlots() []StateSlot
	// Contexts returns the context values this node provides to descendants.
	Contexts() []ContextValue
	// PreviousVersion returns the node as it was at the previous commit, or
	// nil on first observation.
	PreviousVersion() RenderNode
}

// Identifier is implemented by nodes with a stable identity string.
type Identifier interface {
	Identity() string
}

// Detacher is implemented by nodes that can report being unmounted.
type Detacher interface {
	Detached() bool
}

// StateSlot is one unit of a component's local state. Positional slots leave
// Name empty and are keyed by Index; named slots are keyed by Name.
type StateSlot struct {
	Index int
	Name  string
	Value any
}

// Key returns the tracker key for the slot.
func (s StateSlot) Key() string {
	if s.Name != "" {
		return s.Name
	}
	return strconv.Itoa(s.Index)
}

// ContextValue is a value supplied by a node to its descendants. Source must
// be comparable; it identifies the context independently of its value.
type ContextValue struct {
	Source      any
	DisplayName string
	Value       any
}

// NodeIdentity returns the identity reported in inspection updates.
func NodeIdentity(n RenderNode) string {
	if n == nil {
		return ""
	}
	if id, ok := n.(Identifier); ok {
		return id.Identity()
	}
	return fmt.Sprintf("%s@%p", n.Kind(), n)
}

// isDetached reports whether n says it has been unmounted.
func isDetached(n RenderNode) bool {
	d, ok := n.(Detacher)
	return ok && d.Detached()
}

// --- ID counter ---

// nodeIDCounter is a plain counter; the host tree is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- HostNode ---

// HostNode is a mutable reference tree that implements [RenderNode]. The
// example programs and tests use it as a stand-in for a real UI runtime:
// callers mutate props, state, and provided contexts, then call
// [HostNode.Commit] to freeze the current values as the previous version.
type HostNode struct {
	ID   uint32
	Name string

	kind     string
	parent   *HostNode
	children []*HostNode

	props    map[string]any
	state    []StateSlot
	contexts []ContextValue

	prev     *hostSnapshot
	disposed bool
}

// hostSnapshot is a frozen copy of a HostNode at commit time. Its Parent is
// the live parent so ancestry walks from an old version still work.
type hostSnapshot struct {
	node     *HostNode
	props    map[string]any
	state    []StateSlot
	contexts []ContextValue
}

// NewHostNode creates a detached node of the given kind.
func NewHostNode(name, kind string) *HostNode {
	return &HostNode{
		ID:    nextNodeID(),
		Name:  name,
		kind:  kind,
		props: make(map[string]any),
	}
}

// Kind implements RenderNode.
func (n *HostNode) Kind() string { return n.kind }

// Parent implements RenderNode. A root node returns a nil interface.
func (n *HostNode) Parent() RenderNode {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Props implements RenderNode.
func (n *HostNode) Props() map[string]any { return n.props }

// StateSlots implements RenderNode.
func (n *HostNode) StateSlots() []StateSlot { return n.state }

// Contexts implements RenderNode.
func (n *HostNode) Contexts() []ContextValue { return n.contexts }

// PreviousVersion implements RenderNode.
func (n *HostNode) PreviousVersion() RenderNode {
	if n.prev == nil {
		return nil
	}
	return n.prev
}

// Identity implements Identifier.
func (n *HostNode) Identity() string {
	return fmt.Sprintf("%s#%d", n.kind, n.ID)
}

// Detached implements Detacher. A node is detached once disposed.
func (n *HostNode) Detached() bool { return n.disposed }

// SetProp sets a single property.
func (n *HostNode) SetProp(name string, value any) {
	n.props[name] = value
}

// DeleteProp removes a property.
func (n *HostNode) DeleteProp(name string) {
	delete(n.props, name)
}

// SetProps replaces the whole properties bag.
func (n *HostNode) SetProps(props map[string]any) {
	n.props = maps.Clone(props)
	if n.props == nil {
		n.props = make(map[string]any)
	}
}

// UseState appends a positional state slot and returns its index.
func (n *HostNode) UseState(value any) int {
	idx := len(n.state)
	n.state = append(n.state, StateSlot{Index: idx, Value: value})
	return idx
}

// SetNamedState sets a named state field, appending it on first use.
func (n *HostNode) SetNamedState(name string, value any) {
	for i := range n.state {
		if n.state[i].Name == name {
			n.state[i].Value = value
			return
		}
	}
	n.state = append(n.state, StateSlot{Index: len(n.state), Name: name, Value: value})
}

// SetState overwrites the positional slot at index.
func (n *HostNode) SetState(index int, value any) {
	if index < 0 || index >= len(n.state) {
		panic("lens: state slot index out of range")
	}
	n.state[index].Value = value
}

// Provide sets the value this node supplies for a context source.
func (n *HostNode) Provide(source any, displayName string, value any) {
	for i := range n.contexts {
		if n.contexts[i].Source == source {
			n.contexts[i].DisplayName = displayName
			n.contexts[i].Value = value
			return
		}
	}
	n.contexts = append(n.contexts, ContextValue{Source: source, DisplayName: displayName, Value: value})
}

// Commit freezes the node's current values as its previous version.
func (n *HostNode) Commit() {
	n.prev = &hostSnapshot{
		node:     n,
		props:    maps.Clone(n.props),
		state:    append([]StateSlot(nil), n.state...),
		contexts: append([]ContextValue(nil), n.contexts...),
	}
}

// --- Tree operations ---

// AddChild appends child to this node's children. If child already has a
// parent, it is removed from that parent first. Panics if child is nil or
// if child is an ancestor of this node.
func (n *HostNode) AddChild(child *HostNode) {
	if child == nil {
		panic("lens: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("lens: adding child would create a cycle")
	}
	if child.parent != nil {
		child.parent.removeChildByPtr(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	if globalDebug {
		debugCheckTreeDepth(child)
	}
}

// RemoveChild detaches child from this node. Panics if child's parent is not n.
func (n *HostNode) RemoveChild(child *HostNode) {
	if child.parent != n {
		panic("lens: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.parent = nil
}

// RemoveFromParent detaches this node from its parent. No-op if there is no parent.
func (n *HostNode) RemoveFromParent() {
	if n.parent == nil {
		return
	}
	n.parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated.
func (n *HostNode) Children() []*HostNode {
	return n.children
}

// Dispose removes the node from its parent and marks the subtree disposed.
func (n *HostNode) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.disposeRecursive()
}

func (n *HostNode) disposeRecursive() {
	n.disposed = true
	for _, c := range n.children {
		c.parent = nil
		c.disposeRecursive()
	}
	n.children = nil
}

// IsDisposed reports whether the node has been disposed.
func (n *HostNode) IsDisposed() bool {
	return n.disposed
}

func (n *HostNode) removeChildByPtr(child *HostNode) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// isAncestor reports whether candidate is an ancestor of (or the same as) node.
func isAncestor(candidate, node *HostNode) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// --- hostSnapshot RenderNode implementation ---

func (s *hostSnapshot) Kind() string { return s.node.kind }
func (s *hostSnapshot) Parent() RenderNode { return s.node.Parent() }
func (s *hostSnapshot) Props() map[string]any { return s.props }
func (s *hostSnapshot) StateSlots() []StateSlot { return s.state }
func (s *hostSnapshot) Contexts() []ContextValue { return s.contexts }
func (s *hostSnapshot) PreviousVersion() RenderNode { return nil }
func (s *hostSnapshot) Identity() string { return s.node.Identity() }
