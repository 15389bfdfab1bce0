package lens

// ResolvedContext is one inherited context value as seen from a node.
type ResolvedContext struct {
	Value       any
	DisplayName string
}

// ContextResolver builds the map of context values a node inherits from its
// ancestors. Results are memoized per node and only dropped by [ContextResolver.Evict]
// or [ContextResolver.Clear]: a change to an ancestor's provided value is not
// seen for a node that is already cached. Sessions clear the cache whenever
// tracking resets, which bounds staleness to one focus change.
//
// The resolver also remembers the map last collected for one node, which
// serves as that node's previous side on its next render.
type ContextResolver struct {
	cache map[RenderNode]map[any]ResolvedContext
	walks int

	lastID  string
	lastMap map[any]ResolvedContext
	hasLast bool
}

// NewContextResolver creates a resolver with an empty cache.
func NewContextResolver() *ContextResolver {
	return &ContextResolver{cache: make(map[RenderNode]map[any]ResolvedContext)}
}

// AllContexts returns the context values node inherits, keyed by context
// source. The walk starts at the node's parent, since a node's own provided
// values are for its descendants. The nearest provider wins: a farther
// ancestor providing a source already seen is ignored. The returned map is
// shared with the cache and must not be mutated.
func (r *ContextResolver) AllContexts(node RenderNode) map[any]ResolvedContext {
	if node == nil {
		return nil
	}
	cacheable := isComparable(node)
	if cacheable {
		if cached, ok := r.cache[node]; ok {
			return cached
		}
	}
	out := r.walk(node)
	if cacheable {
		r.cache[node] = out
	}
	return out
}

// Peek returns the cached map for node if present, or walks its ancestry
// without storing the result.
func (r *ContextResolver) Peek(node RenderNode) map[any]ResolvedContext {
	if node == nil {
		return nil
	}
	if isComparable(node) {
		if cached, ok := r.cache[node]; ok {
			return cached
		}
	}
	return r.walk(node)
}

func (r *ContextResolver) walk(node RenderNode) map[any]ResolvedContext {
	r.walks++
	out := make(map[any]ResolvedContext)
	for n := node.Parent(); n != nil; n = n.Parent() {
		for _, c := range n.Contexts() {
			if !isComparable(c.Source) {
				continue
			}
			if _, seen := out[c.Source]; seen {
				continue
			}
			out[c.Source] = ResolvedContext{Value: Represent(c.Value), DisplayName: c.DisplayName}
		}
	}
	return out
}

// Evict drops the cached map for node.
func (r *ContextResolver) Evict(node RenderNode) {
	if node == nil || !isComparable(node) {
		return
	}
	delete(r.cache, node)
}

// Clear drops every cached map and the remembered map.
func (r *ContextResolver) Clear() {
	clear(r.cache)
	r.forget()
}

// remember records m as the map last collected for node. Evict keeps it, so
// a refreshed walk is compared against what was seen before.
func (r *ContextResolver) remember(node RenderNode, m map[any]ResolvedContext) {
	r.lastID, r.lastMap, r.hasLast = NodeIdentity(node), m, true
}

// remembered returns the map last collected for node, if any.
func (r *ContextResolver) remembered(node RenderNode) (map[any]ResolvedContext, bool) {
	if !r.hasLast || r.lastID != NodeIdentity(node) {
		return nil, false
	}
	return r.lastMap, true
}

func (r *ContextResolver) forget() {
	r.lastID, r.lastMap, r.hasLast = "", nil, false
}

// Cached reports whether node has a cached map.
func (r *ContextResolver) Cached(node RenderNode) bool {
	if node == nil || !isComparable(node) {
		return false
	}
	_, ok := r.cache[node]
	return ok
}

// Walks returns how many ancestry walks the resolver has performed.
func (r *ContextResolver) Walks() int {
	return r.walks
}

// isComparable reports whether v can be used as a map key without panicking.
func isComparable(v any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_ = map[any]struct{}{v: {}}
	return true
}
