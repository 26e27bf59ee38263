// Package graph provides the collision-event transition graph used to test
// candidate obstructions without replaying the guard's walk cell by cell.
//
// Each node stands for "the guard, moving in Hit, ran into the obstruction at
// (X, Y)". Its successor is the next collision the guard runs into after
// turning right and walking on. The root node stands for the start pose.
package graph

import (
	"errors"
	"fmt"

	"github.com/erikhoward/patrol/core"
)

// Graph errors.
var (
	ErrTrialPending     = errors.New("trial obstruction already placed")
	ErrNoTrial          = errors.New("no trial obstruction placed")
	ErrCellObstructed   = errors.New("cell already obstructed")
	ErrStartCell        = errors.New("cell is the guard's start")
	ErrNodeNotFound     = errors.New("node not found")
	ErrInvalidSuccessor = errors.New("successor is not a valid node")
	ErrLookupMismatch   = errors.New("lookup does not match node")
)

// NodeID addresses a node in the graph's arena.
type NodeID int32

const (
	// NoNode is the successor of a node whose walk leaves the grid.
	NoNode NodeID = -1
	// Root is the start-pose node.
	Root NodeID = 0
)

// Node is a collision event. The root node has Hit == core.NoDirection and
// holds the start cell in X, Y.
type Node struct {
	X     int
	Y     int
	Hit   core.Direction
	Next  NodeID
	Valid bool

	gen uint32
}

// NodeState is the mutable part of a node, as captured by Snapshot.
type NodeState struct {
	Next  NodeID
	Valid bool
}

// Graph is the transition graph for one grid. It holds at most one trial
// obstruction at a time and is not safe for concurrent use; Clone it per
// worker.
type Graph struct {
	grid   *core.Grid
	nodes  []Node
	lookup []NodeID // (cell index * 4 + direction) -> node
	base   int      // node count without a trial
	gen    uint32
	trial  *trial
}

// Build constructs the graph for the grid's original obstructions.
func Build(g *core.Grid) *Graph {
	obstructions := g.Obstructions()

	gr := &Graph{
		grid:   g,
		nodes:  make([]Node, 1, 1+(len(obstructions)+1)*core.NumDirections),
		lookup: make([]NodeID, g.Size()*core.NumDirections),
	}
	for i := range gr.lookup {
		gr.lookup[i] = NoNode
	}

	start := g.StartPose()
	gr.nodes[Root] = Node{X: start.X, Y: start.Y, Hit: core.NoDirection, Next: NoNode, Valid: true}

	for _, o := range obstructions {
		for _, d := range core.Directions {
			gr.lookup[gr.key(o[0], o[1], d)] = NodeID(len(gr.nodes))
			gr.nodes = append(gr.nodes, Node{X: o[0], Y: o[1], Hit: d, Next: NoNode})
		}
	}

	gr.nodes[Root].Next = gr.scan(start.X, start.Y, start.Dir)
	for i := 1; i < len(gr.nodes); i++ {
		n := &gr.nodes[i]
		px, py, ok := gr.approach(n.X, n.Y, n.Hit)
		if !ok {
			// Nothing can stand in front of this face of the obstruction.
			continue
		}
		n.Valid = true
		n.Next = gr.scan(px, py, n.Hit.Turn())
	}

	gr.base = len(gr.nodes)
	return gr
}

// Grid returns the grid the graph was built from.
func (g *Graph) Grid() *core.Grid { return g.grid }

// Len returns the number of nodes, including the root and any trial nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id NodeID) (Node, error) {
	if id < 0 || int(id) >= len(g.nodes) {
		return Node{}, fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	return g.nodes[id], nil
}

// Lookup returns the node for "moving d, hit (x, y)".
func (g *Graph) Lookup(x, y int, d core.Direction) (NodeID, bool) {
	if !g.grid.InBounds(x, y) || !d.Valid() {
		return NoNode, false
	}
	id := g.lookup[g.key(x, y, d)]
	return id, id != NoNode
}

func (g *Graph) key(x, y int, d core.Direction) int {
	return g.grid.Index(x, y)*core.NumDirections + int(d)
}

// blocked reports whether (x, y) is obstructed, counting a trial
// obstruction.
func (g *Graph) blocked(x, y int) bool {
	if g.trial != nil && g.trial.x == x && g.trial.y == y {
		return true
	}
	return g.grid.IsObstructed(x, y)
}

// approach returns the cell a guard moving in d occupies just before
// running into (x, y). ok is false when that cell is off the grid or
// itself blocked.
func (g *Graph) approach(x, y int, d core.Direction) (px, py int, ok bool) {
	dx, dy := d.Delta()
	px, py = x-dx, y-dy
	if !g.grid.InBounds(px, py) || g.blocked(px, py) {
		return px, py, false
	}
	return px, py, true
}

// scan walks from (x, y) in d and returns the node of the first obstruction
// hit, or NoNode if the walk leaves the grid.
func (g *Graph) scan(x, y int, d core.Direction) NodeID {
	dx, dy := d.Delta()
	for {
		nx, ny := x+dx, y+dy
		if !g.grid.InBounds(nx, ny) {
			return NoNode
		}
		if g.blocked(nx, ny) {
			return g.lookup[g.key(nx, ny, d)]
		}
		x, y = nx, ny
	}
}

// Reachable returns the nodes the guard runs into, in order, starting at
// from. The walk stops when it leaves the grid or returns to a node already
// listed.
func (g *Graph) Reachable(from NodeID) []NodeID {
	seen := make(map[NodeID]bool)
	var out []NodeID
	for id := from; id != NoNode && !seen[id]; id = g.nodes[id].Next {
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Validate checks the structural invariants: every successor is a valid
// node, invalid nodes have no successor, and the lookup agrees with the
// nodes.
func (g *Graph) Validate() error {
	if len(g.nodes) == 0 || !g.nodes[Root].Valid {
		return fmt.Errorf("%w: root", ErrNodeNotFound)
	}
	for i, n := range g.nodes {
		if i != int(Root) {
			if id, _ := g.Lookup(n.X, n.Y, n.Hit); id != NodeID(i) {
				return fmt.Errorf("%w: node %d at (%d,%d,%s)", ErrLookupMismatch, i, n.X, n.Y, n.Hit)
			}
		}
		if !n.Valid {
			if n.Next != NoNode {
				return fmt.Errorf("%w: invalid node %d has successor %d", ErrInvalidSuccessor, i, n.Next)
			}
			continue
		}
		if n.Next == NoNode {
			continue
		}
		if n.Next <= Root || int(n.Next) >= len(g.nodes) || !g.nodes[n.Next].Valid {
			return fmt.Errorf("%w: %d -> %d", ErrInvalidSuccessor, i, n.Next)
		}
	}
	return nil
}

// Snapshot returns the successor and validity of every node.
func (g *Graph) Snapshot() []NodeState {
	out := make([]NodeState, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = NodeState{Next: n.Next, Valid: n.Valid}
	}
	return out
}

// Clone returns an independent copy of g sharing only the read-only grid.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		grid:   g.grid,
		nodes:  make([]Node, len(g.nodes), cap(g.nodes)),
		lookup: make([]NodeID, len(g.lookup)),
		base:   g.base,
		gen:    g.gen,
	}
	copy(c.nodes, g.nodes)
	copy(c.lookup, g.lookup)
	if g.trial != nil {
		t := *g.trial
		t.saved = append([]redirect(nil), g.trial.saved...)
		c.trial = &t
	}
	return c
}
