package lens

import "testing"

func TestNewHostTree(t *testing.T) {
	tree := NewHostTree()
	if tree.Root() == nil {
		t.Fatal("root should not be nil")
	}
	if tree.Root().Name != "root" {
		t.Errorf("root.Name = %q, want %q", tree.Root().Name, "root")
	}
	if tree.FocusedNode() != nil {
		t.Error("new tree should have no focus")
	}
}

func TestHostTreeFocusAndRender(t *testing.T) {
	tree := NewHostTree()
	n := NewHostNode("n", "N")
	tree.Root().AddChild(n)

	var seen []RenderNode
	unsubscribe := tree.OnNodeUpdated(func(r RenderNode) { seen = append(seen, r) })

	tree.SetFocus(n)
	if tree.FocusedNode() != RenderNode(n) {
		t.Error("FocusedNode should return n")
	}
	tree.Render(n, func(h *HostNode) { h.SetProp("x", 1) })
	if n.PreviousVersion() == nil || n.Props()["x"] != 1 {
		t.Error("Render should commit then mutate")
	}
	tree.SetFocus(nil)
	if len(seen) != 3 || seen[2] != nil {
		t.Errorf("notifications = %v", seen)
	}

	unsubscribe()
	tree.Render(n, nil)
	if len(seen) != 3 {
		t.Error("unsubscribed handler should not fire")
	}
}

func TestHostTreeUnmountClearsFocus(t *testing.T) {
	tree := NewHostTree()
	n := NewHostNode("n", "N")
	tree.Root().AddChild(n)
	tree.SetFocus(n)
	tree.Unmount(n)
	if tree.FocusedNode() != nil {
		t.Error("disposed focus should read as nil")
	}
}

func TestHostTreeWalk(t *testing.T) {
	tree := NewHostTree()
	a := NewHostNode("a", "A")
	b := NewHostNode("b", "B")
	c := NewHostNode("c", "C")
	tree.Root().AddChild(a)
	a.AddChild(b)
	tree.Root().AddChild(c)

	var names []string
	tree.Walk(func(n *HostNode) bool {
		names = append(names, n.Name)
		return n != a
	})
	if len(names) != 3 || names[0] != "root" || names[1] != "a" || names[2] != "c" {
		t.Errorf("walk order = %v", names)
	}
}

func TestHandlerListRemoveDuringFire(t *testing.T) {
	var next uint32
	l := handlerList[int]{nextID: &next}
	var calls []string
	var h CallbackHandle
	h = register(&l, func(int) { calls = append(calls, "a"); h.Remove() })
	register(&l, func(int) { calls = append(calls, "b") })

	l.fire(1)
	l.fire(2)
	if len(calls) != 3 || calls[0] != "a" || calls[1] != "b" || calls[2] != "b" {
		t.Errorf("calls = %v", calls)
	}
	if l.len() != 1 {
		t.Errorf("len = %d, want 1", l.len())
	}
	CallbackHandle{}.Remove() // zero handle is a no-op
}
