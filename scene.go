package lens

// HostTree is a reference [Host]: it owns a [HostNode] tree, tracks the
// focused node, and fans committed updates out to subscribers. The example
// programs and tests use it in place of a real UI runtime.
type HostTree struct {
	root    *HostNode
	focused *HostNode

	nextHandlerID uint32
	onUpdated     handlerList[RenderNode]
}

// NewHostTree creates a tree with a pre-created root node.
func NewHostTree() *HostTree {
	t := &HostTree{root: NewHostNode("root", "Root")}
	t.onUpdated.nextID = &t.nextHandlerID
	return t
}

// Root returns the tree's root node.
func (t *HostTree) Root() *HostNode {
	return t.root
}

// FocusedNode implements Host. It returns nil when nothing is focused or the
// focused node has been disposed.
func (t *HostTree) FocusedNode() RenderNode {
	if t.focused == nil || t.focused.IsDisposed() {
		return nil
	}
	return t.focused
}

// OnNodeUpdated implements Host.
func (t *HostTree) OnNodeUpdated(fn func(RenderNode)) func() {
	return register(&t.onUpdated, fn).Remove
}

// SetFocus selects n for inspection and notifies subscribers. A nil node
// clears focus.
func (t *HostTree) SetFocus(n *HostNode) {
	t.focused = n
	if n == nil {
		t.onUpdated.fire(nil)
		return
	}
	t.onUpdated.fire(n)
}

// Render runs one commit for n: the current values become the previous
// version, mutate applies the new render, and subscribers are notified.
func (t *HostTree) Render(n *HostNode, mutate func(*HostNode)) {
	n.Commit()
	if mutate != nil {
		mutate(n)
	}
	t.onUpdated.fire(n)
}

// Unmount disposes n and notifies subscribers.
func (t *HostTree) Unmount(n *HostNode) {
	n.Dispose()
	t.onUpdated.fire(n)
}

// Walk visits every node depth-first, parents before children. Returning
// false from fn skips the node's subtree.
func (t *HostTree) Walk(fn func(*HostNode) bool) {
	walkHost(t.root, fn)
}

func walkHost(n *HostNode, fn func(*HostNode) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		walkHost(c, fn)
	}
}
