// Package guard simulates the guard's patrol step by step and provides the
// brute-force trial engine built on it.
package guard

import (
	"fmt"

	"github.com/erikhoward/patrol/core"
)

// State is the outcome of a single simulation step.
type State uint8

const (
	Walking State = iota
	Rotated
	Exited
	Cycled
)

// Terminal reports whether no further steps are possible.
func (s State) Terminal() bool {
	return s == Exited || s == Cycled
}

func (s State) String() string {
	switch s {
	case Walking:
		return "walking"
	case Rotated:
		return "rotated"
	case Exited:
		return "exited"
	case Cycled:
		return "cycled"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Simulator walks a guard over a grid, recording visits in a VisitMask.
// A Simulator is not safe for concurrent use.
type Simulator struct {
	grid  *core.Grid
	mask  *VisitMask
	pose  core.Pose
	state State

	moves     int
	rotations int
	// spins counts rotations since the last move; four in a row means the
	// guard is boxed in.
	spins int
}

// NewSimulator returns a simulator positioned at the grid's start pose.
func NewSimulator(g *core.Grid) *Simulator {
	s := &Simulator{
		grid: g,
		mask: NewVisitMask(g.Width(), g.Height()),
	}
	s.Reset(g.StartPose())
	return s
}

// Reset clears the visit mask and places the guard at p. The start cell is
// recorded as entered with p's heading.
func (s *Simulator) Reset(p core.Pose) {
	s.mask.Reset()
	s.pose = p
	s.state = Walking
	s.moves, s.rotations, s.spins = 0, 0, 0
	s.mask.mark(s.grid.Index(p.X, p.Y), p.Dir)
}

// Step advances the guard by one transition and returns the new state.
// Stepping a terminal simulator returns the terminal state unchanged.
func (s *Simulator) Step() State {
	if s.state.Terminal() {
		return s.state
	}

	nx, ny := s.pose.Next()
	if !s.grid.InBounds(nx, ny) {
		s.state = Exited
		return s.state
	}

	if s.grid.IsObstructed(nx, ny) {
		s.pose.Dir = s.pose.Dir.Turn()
		s.rotations++
		s.spins++
		if s.spins == core.NumDirections {
			s.state = Cycled
		} else {
			s.state = Rotated
		}
		return s.state
	}

	s.pose.X, s.pose.Y = nx, ny
	s.moves++
	s.spins = 0
	if s.mask.mark(s.grid.Index(nx, ny), s.pose.Dir) {
		s.state = Cycled
	} else {
		s.state = Walking
	}
	return s.state
}

// Run steps until the guard exits or cycles and returns that state.
func (s *Simulator) Run() State {
	for !s.Step().Terminal() {
	}
	return s.state
}

// CountVisitedCells returns the number of distinct cells entered.
func (s *Simulator) CountVisitedCells() int {
	return s.mask.Count()
}

// Visited reports whether the guard entered (x, y).
func (s *Simulator) Visited(x, y int) bool {
	return s.mask.Visited(x, y)
}

// Mask returns the simulator's visit mask. Callers must not modify it.
func (s *Simulator) Mask() *VisitMask { return s.mask }

// Pose returns the guard's current pose.
func (s *Simulator) Pose() core.Pose { return s.pose }

// State returns the state produced by the last step.
func (s *Simulator) State() State { return s.state }

// Moves returns the number of cells entered since the last reset.
func (s *Simulator) Moves() int { return s.moves }

// Rotations returns the number of turns since the last reset.
func (s *Simulator) Rotations() int { return s.rotations }

// Patrol walks the unmodified grid and returns the finished simulator.
// Its mask describes the original patrol path.
func Patrol(g *core.Grid) *Simulator {
	s := NewSimulator(g)
	s.Run()
	return s
}
