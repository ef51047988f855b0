package model

import "sync"

// GraphState is the merge engine's owned, mutable representation of a
// merged session. It is safe for concurrent use: merges and reads both take
// the mutex, so readers only ever observe fully-merged snapshots.
type GraphState struct {
	mu sync.Mutex

	Nodes            map[string]*Node
	Edges            []*Edge
	edgeKeys         map[string]bool
	SecurityFindings map[string][]Finding
	Exports          map[string]ExportSummary
	Entrypoints      map[string]bool
}

// NewGraphState returns an empty merge session.
func NewGraphState() *GraphState {
	return &GraphState{
		Nodes:            make(map[string]*Node),
		edgeKeys:         make(map[string]bool),
		SecurityFindings: make(map[string][]Finding),
		Exports:          make(map[string]ExportSummary),
		Entrypoints:      make(map[string]bool),
	}
}

// Reset clears the session back to empty, for explicit client requests.
func (g *GraphState) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Nodes = make(map[string]*Node)
	g.Edges = nil
	g.edgeKeys = make(map[string]bool)
	g.SecurityFindings = make(map[string][]Finding)
	g.Exports = make(map[string]ExportSummary)
	g.Entrypoints = make(map[string]bool)
}

// HasEdgeKey reports (and does not mutate) whether a (source,target,kind)
// key has already been merged.
func (g *GraphState) HasEdgeKey(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.edgeKeys[key]
}

// HasEdgeKeyLocked is the same check as HasEdgeKey but for use while the
// caller already holds the lock (e.g. across a whole-artifact Merge).
func (g *GraphState) HasEdgeKeyLocked(key string) bool {
	return g.edgeKeys[key]
}

// Lock/Unlock expose the mutex to the merge engine, which needs to hold it
// across a whole-artifact merge rather than per-field.
func (g *GraphState) Lock()   { g.mu.Lock() }
func (g *GraphState) Unlock() { g.mu.Unlock() }

// MarkEdgeKey records a (source,target,kind) key as present. Caller must
// hold the lock.
func (g *GraphState) MarkEdgeKey(key string) {
	g.edgeKeys[key] = true
}

// Snapshot returns a read-only copy of the node and edge sets for emission.
// Readers must not mutate the returned slices/maps.
func (g *GraphState) Snapshot() (nodes map[string]*Node, edges []*Edge) {
	g.mu.Lock()
	defer g.mu.Unlock()
	nodes = make(map[string]*Node, len(g.Nodes))
	for k, v := range g.Nodes {
		cp := *v
		nodes[k] = &cp
	}
	edges = make([]*Edge, len(g.Edges))
	copy(edges, g.Edges)
	return nodes, edges
}
