package graph

import (
	"fmt"

	"github.com/erikhoward/patrol/core"
)

// trial records one pending obstruction so it can be rolled back.
type trial struct {
	x, y  int
	saved []redirect
}

// redirect is a successor overwritten by a trial.
type redirect struct {
	id   NodeID
	next NodeID
}

// AddObstruction places a trial obstruction at (x, y).
//
// For every heading d in which some walk segment of the graph crosses
// (x, y), a node "moving d, hit (x, y)" is added and every segment that
// crossed the cell is cut short at it. This covers every heading the
// original patrol crossed the cell in, and also headings only a diverted
// walk could use. The graph is restored with RemoveObstruction.
func (g *Graph) AddObstruction(x, y int) error {
	if g.trial != nil {
		return fmt.Errorf("%w: (%d,%d)", ErrTrialPending, g.trial.x, g.trial.y)
	}
	if g.grid.IsObstructed(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrCellObstructed, x, y)
	}
	if g.grid.IsStart(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrStartCell, x, y)
	}

	g.trial = &trial{x: x, y: y}
	start := g.grid.StartPose()

	var added []NodeID
	for _, d := range core.Directions {
		id := NoNode
		dx, dy := d.Delta()

		// Walk back from the new obstruction against d. Every open cell on
		// the way is a place where a segment heading d may begin: either the
		// start pose, or the cell in front of an obstruction that turns the
		// guard into d.
		for cx, cy := x-dx, y-dy; g.grid.InBounds(cx, cy) && !g.grid.IsObstructed(cx, cy); cx, cy = cx-dx, cy-dy {
			if start.X == cx && start.Y == cy && start.Dir == d {
				id = g.ensureTrialNode(id, x, y, d, &added)
				g.redirect(Root, id)
			}

			turn := d.TurnBack()
			tdx, tdy := turn.Delta()
			tx, ty := cx+tdx, cy+tdy
			if g.grid.InBounds(tx, ty) && g.grid.IsObstructed(tx, ty) {
				id = g.ensureTrialNode(id, x, y, d, &added)
				g.redirect(g.lookup[g.key(tx, ty, turn)], id)
			}
		}
	}

	// Successors last: all trial nodes exist by now.
	for _, id := range added {
		n := &g.nodes[id]
		px, py, _ := g.approach(n.X, n.Y, n.Hit)
		n.Next = g.scan(px, py, n.Hit.Turn())
	}
	return nil
}

// ensureTrialNode returns id, creating the trial node for heading d first
// if id is still NoNode.
func (g *Graph) ensureTrialNode(id NodeID, x, y int, d core.Direction, added *[]NodeID) NodeID {
	if id != NoNode {
		return id
	}
	id = NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{X: x, Y: y, Hit: d, Next: NoNode, Valid: true})
	g.lookup[g.key(x, y, d)] = id
	*added = append(*added, id)
	return id
}

func (g *Graph) redirect(from, to NodeID) {
	g.trial.saved = append(g.trial.saved, redirect{id: from, next: g.nodes[from].Next})
	g.nodes[from].Next = to
}

// RemoveObstruction rolls back the pending trial, leaving every node as it
// was before AddObstruction.
func (g *Graph) RemoveObstruction() error {
	t := g.trial
	if t == nil {
		return ErrNoTrial
	}
	for i := len(t.saved) - 1; i >= 0; i-- {
		g.nodes[t.saved[i].id].Next = t.saved[i].next
	}
	for _, n := range g.nodes[g.base:] {
		g.lookup[g.key(n.X, n.Y, n.Hit)] = NoNode
	}
	g.nodes = g.nodes[:g.base]
	g.trial = nil
	return nil
}

// Trial returns the pending trial cell, if any.
func (g *Graph) Trial() (x, y int, ok bool) {
	if g.trial == nil {
		return 0, 0, false
	}
	return g.trial.x, g.trial.y, true
}

// TryObstruction reports whether an obstruction at (x, y) traps the guard.
// The graph is unchanged afterwards.
func (g *Graph) TryObstruction(x, y int) (bool, error) {
	looped, _, err := g.try(x, y)
	return looped, err
}

func (g *Graph) try(x, y int) (looped bool, hops int, err error) {
	if err := g.AddObstruction(x, y); err != nil {
		return false, 0, err
	}
	defer func() {
		if rerr := g.RemoveObstruction(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	looped, hops = g.walk(Root)
	return looped, hops, nil
}
