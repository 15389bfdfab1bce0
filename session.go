package lens

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// SessionState is the focus state of an [Session].
type SessionState uint8

const (
	SessionIdle    SessionState = iota // no node focused; updates are ignored
	SessionFocused                     // a node is focused and being tracked
)

func (s SessionState) String() string {
	if s == SessionFocused {
		return "focused"
	}
	return "idle"
}

// Reasons reported with a [StateChange].
const (
	ReasonFocus    = "focus"
	ReasonCleared  = "cleared"
	ReasonDetached = "detached"
)

// StateChange reports a session focus transition.
type StateChange struct {
	State  SessionState
	Reason string
	Node   string
}

// SectionSnapshot is one category (props, state or context) of an update.
type SectionSnapshot struct {
	Current      []Field        `json:"current"`
	ChangedKeys  []string       `json:"changedKeys"`
	ChangeCounts map[string]int `json:"changeCounts"`
}

// Changed reports whether key changed in this update.
func (s SectionSnapshot) Changed(key string) bool {
	for _, k := range s.ChangedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// InspectionUpdate is delivered to consumers once per inspected render.
type InspectionUpdate struct {
	Timestamp    time.Time       `json:"timestamp"`
	SessionID    string          `json:"sessionId"`
	NodeIdentity string          `json:"nodeIdentity"`
	Kind         string          `json:"kind"`
	Initial      bool            `json:"initial"`
	Props        SectionSnapshot `json:"props"`
	State        SectionSnapshot `json:"state"`
	Context      SectionSnapshot `json:"context"`
}

// HasChanges reports whether any section has a changed key.
func (u InspectionUpdate) HasChanges() bool {
	return len(u.Props.ChangedKeys)+len(u.State.ChangedKeys)+len(u.Context.ChangedKeys) > 0
}

// Host is the slice of the UI runtime a session listens to.
type Host interface {
	// FocusedNode returns the node currently selected for inspection.
	FocusedNode() RenderNode
	// OnNodeUpdated registers fn for every committed node update and returns
	// a function that unsubscribes it.
	OnNodeUpdated(fn func(RenderNode)) (unsubscribe func())
}

// EventSink receives everything the engine emits. It is the bridge to an
// external event system such as an ECS world.
type EventSink interface {
	EmitInspection(update InspectionUpdate)
	EmitGeometry(change GeometryChange)
}

// SessionOption configures a [Session].
type SessionOption func(*Session)

// WithLogger sets the session's logger.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithClock sets the time source used for update and tracker timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithContextRefresh makes the session evict the focused node's cached
// context map before every update, paying an ancestry walk per render so
// that ancestor context changes are seen while focus stays put.
func WithContextRefresh() SessionOption {
	return func(s *Session) { s.refreshContexts = true }
}

// WithSink forwards updates to sink in addition to registered callbacks.
func WithSink(sink EventSink) SessionOption {
	return func(s *Session) { s.sink = sink }
}

// Session inspects one focused render node at a time. It owns the change
// trackers and the context cache, decides whether an update belongs to a new
// component or a re-render of the current one, and emits [InspectionUpdate]
// values. A Session is not safe for concurrent use; drive it from the host
// runtime's update thread.
type Session struct {
	id         string
	state      SessionState
	focused    RenderNode
	lastKind   string
	hasKind    bool
	trackers   [numTrackers]*ChangeTracker
	collectors [numTrackers]Collector
	resolver   *ContextResolver

	refreshContexts bool
	sink            EventSink
	logger          *slog.Logger
	now             func() time.Time
	unsubscribe     func()

	nextHandlerID uint32
	onUpdate      handlerList[InspectionUpdate]
	onState       handlerList[StateChange]
}

// NewSession creates an idle session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		id:       uuid.NewString(),
		resolver: NewContextResolver(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	s.logger = s.logger.With("session", s.id)
	s.onUpdate.nextID = &s.nextHandlerID
	s.onState.nextID = &s.nextHandlerID

	s.trackers[TrackerProps] = NewChangeTracker(true, s.now)
	s.trackers[TrackerState] = NewChangeTracker(false, s.now)
	s.trackers[TrackerContext] = NewChangeTracker(true, s.now)
	s.collectors[TrackerProps] = CollectProps
	s.collectors[TrackerState] = CollectState
	s.collectors[TrackerContext] = ContextCollector(s.resolver)
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// State returns the current focus state.
func (s *Session) State() SessionState { return s.state }

// Focused returns the focused node, or nil when idle.
func (s *Session) Focused() RenderNode { return s.focused }

// Tracker returns the tracker for one category.
func (s *Session) Tracker(id TrackerID) *ChangeTracker { return s.trackers[id] }

// Resolver returns the session's context resolver.
func (s *Session) Resolver() *ContextResolver { return s.resolver }

// OnUpdate registers a callback for emitted inspection updates.
func (s *Session) OnUpdate(fn func(InspectionUpdate)) CallbackHandle {
	return register(&s.onUpdate, fn)
}

// OnStateChange registers a callback for focus transitions.
func (s *Session) OnStateChange(fn func(StateChange)) CallbackHandle {
	return register(&s.onState, fn)
}

// ResetTracking clears every tracker, the last-seen kind, and the context
// cache.
func (s *Session) ResetTracking() {
	for _, t := range s.trackers {
		t.Reset()
	}
	s.lastKind = ""
	s.hasKind = false
	s.resolver.Clear()
}

// Focus selects node for inspection. A node whose kind differs from the
// previous focus starts fresh tracking and always emits; a node of the same
// kind is inspected as a re-render. A nil node clears focus.
func (s *Session) Focus(node RenderNode) {
	if node == nil {
		s.ClearFocus()
		return
	}
	if isDetached(node) {
		s.detach(node)
		return
	}
	wasIdle := s.state == SessionIdle
	s.focused = node
	s.state = SessionFocused
	if wasIdle {
		s.onState.fire(StateChange{State: SessionFocused, Reason: ReasonFocus, Node: NodeIdentity(node)})
	}
	s.inspect(node)
}

// Update handles a committed update to node. Updates while idle, and updates
// to nodes other than the focused one, are ignored. It reports whether an
// InspectionUpdate was emitted.
func (s *Session) Update(node RenderNode) bool {
	if s.state == SessionIdle || node == nil {
		return false
	}
	if NodeIdentity(node) != NodeIdentity(s.focused) {
		return false
	}
	if isDetached(node) {
		s.detach(node)
		return false
	}
	s.focused = node
	return s.inspect(node)
}

// ClearFocus returns the session to idle and resets tracking.
func (s *Session) ClearFocus() {
	if s.state == SessionIdle {
		return
	}
	id := NodeIdentity(s.focused)
	s.toIdle()
	s.logger.Debug("focus cleared", "node", id)
	s.onState.fire(StateChange{State: SessionIdle, Reason: ReasonCleared, Node: id})
}

// NodeDetached tells the session node has been unmounted. If it is the
// focused node the session returns to idle.
func (s *Session) NodeDetached(node RenderNode) {
	if s.state == SessionIdle || node == nil {
		return
	}
	if NodeIdentity(node) != NodeIdentity(s.focused) {
		return
	}
	s.detach(node)
}

func (s *Session) detach(node RenderNode) {
	id := NodeIdentity(node)
	wasFocused := s.state == SessionFocused
	s.toIdle()
	s.logger.Debug("focused node detached", "node", id)
	if wasFocused {
		s.onState.fire(StateChange{State: SessionIdle, Reason: ReasonDetached, Node: id})
	}
}

func (s *Session) toIdle() {
	s.state = SessionIdle
	s.focused = nil
	s.ResetTracking()
}

// Attach subscribes the session to host. Every host update re-reads the
// focused node: a new focus is inspected as a focus change, a missing focus
// clears the session, and updates to the focused node are inspected as
// re-renders. Attach replaces any previous subscription.
func (s *Session) Attach(host Host) {
	s.Detach()
	s.unsubscribe = host.OnNodeUpdated(func(node RenderNode) {
		if node != nil && isDetached(node) {
			s.NodeDetached(node)
			// Unmounting an ancestor detaches the focused node too.
			if s.focused != nil && isDetached(s.focused) {
				s.detach(s.focused)
			}
			return
		}
		focused := host.FocusedNode()
		switch {
		case focused == nil:
			s.ClearFocus()
		case s.focused == nil || NodeIdentity(focused) != NodeIdentity(s.focused):
			s.Focus(focused)
		case NodeIdentity(node) == NodeIdentity(focused):
			s.Update(node)
		}
	})
	if focused := host.FocusedNode(); focused != nil {
		s.Focus(focused)
	}
}

// Detach removes the host subscription installed by Attach.
func (s *Session) Detach() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// inspect runs the collectors for node and emits when appropriate.
func (s *Session) inspect(node RenderNode) bool {
	kind := node.Kind()
	initial := !s.hasKind || kind != s.lastKind
	if initial {
		s.ResetTracking()
		s.lastKind = kind
		s.hasKind = true
		s.logger.Debug("inspecting new component", "node", NodeIdentity(node), "kind", kind)
	} else if s.refreshContexts {
		s.resolver.Evict(node)
	}

	var sections [numTrackers]SectionSnapshot
	for id := TrackerID(0); id < numTrackers; id++ {
		col := s.collect(id, node)
		sections[id] = s.accumulate(id, col, initial)
	}

	update := InspectionUpdate{
		Timestamp:    s.now(),
		SessionID:    s.id,
		NodeIdentity: NodeIdentity(node),
		Kind:         kind,
		Initial:      initial,
		Props:        sections[TrackerProps],
		State:        sections[TrackerState],
		Context:      sections[TrackerContext],
	}
	if !initial && !update.HasChanges() {
		return false
	}
	s.emit(update)
	return true
}

// collect runs one collector, containing any panic it raises.
func (s *Session) collect(id TrackerID, node RenderNode) (col Collection) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("collector failed", "tracker", id.String(), "node", NodeIdentity(node), "err", r)
			col = Collection{}
		}
	}()
	return s.collectors[id](node)
}

// accumulate feeds a collection into its tracker. On the initial pass every
// key is seeded without counting a change.
func (s *Session) accumulate(id TrackerID, col Collection, initial bool) SectionSnapshot {
	t := s.trackers[id]
	snap := SectionSnapshot{Current: col.Current}

	changed := make(map[string]Change, len(col.Changes))
	for _, c := range col.Changes {
		changed[c.Name] = c
	}
	for _, f := range col.Current {
		c, hasChanged := changed[f.Name]
		if initial {
			t.Track(f.Name, f.Value, nil, false)
			continue
		}
		if res := t.Track(f.Name, f.Value, c.PrevValue, hasChanged); res.HasChanged {
			snap.ChangedKeys = append(snap.ChangedKeys, f.Name)
		}
	}
	if !initial {
		for _, c := range col.Changes {
			if !c.Removed {
				continue
			}
			if res := t.Track(c.Name, nil, c.PrevValue, true); res.HasChanged {
				snap.ChangedKeys = append(snap.ChangedKeys, c.Name)
			}
		}
	}

	snap.ChangeCounts = make(map[string]int)
	for k, n := range t.Counts() {
		if n > 0 {
			snap.ChangeCounts[k] = n
		}
	}
	return snap
}

func (s *Session) emit(update InspectionUpdate) {
	if debugEnabled(s.logger) {
		s.logger.Debug("inspection update",
			"node", update.NodeIdentity,
			"initial", update.Initial,
			"props", len(update.Props.ChangedKeys),
			"state", len(update.State.ChangedKeys),
			"context", len(update.Context.ChangedKeys))
	}
	s.onUpdate.fire(update)
	if s.sink != nil {
		s.sink.EmitInspection(update)
	}
}
