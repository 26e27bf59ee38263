package core

import "fmt"

// Direction is one of the four headings a guard can travel in.
// The values are ordered clockwise so that d+1 (mod 4) is a right turn,
// and each value doubles as a bit index in a visit mask.
type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left

	// NumDirections is the number of real headings.
	NumDirections = 4

	// NoDirection marks "no heading", e.g. the hit direction of a root node.
	NoDirection Direction = 0xff
)

// Directions lists every heading in clockwise order starting at Up.
var Directions = [NumDirections]Direction{Up, Right, Down, Left}

var (
	dirDX = [NumDirections]int{0, 1, 0, -1}
	dirDY = [NumDirections]int{-1, 0, 1, 0}
)

// Turn returns the heading after a 90 degree clockwise rotation.
func (d Direction) Turn() Direction {
	return (d + 1) % NumDirections
}

// TurnBack returns the heading after a 90 degree counter-clockwise rotation.
func (d Direction) TurnBack() Direction {
	return (d + NumDirections - 1) % NumDirections
}

// Reverse returns the opposite heading.
func (d Direction) Reverse() Direction {
	return (d + 2) % NumDirections
}

// Delta returns the unit step for d. +y points down the grid.
func (d Direction) Delta() (dx, dy int) {
	return dirDX[d], dirDY[d]
}

// Mask returns the visit-mask bit for d.
func (d Direction) Mask() uint8 {
	return 1 << d
}

// Valid reports whether d is one of the four real headings.
func (d Direction) Valid() bool {
	return d < NumDirections
}

// Glyph returns the character used to draw a guard facing d.
func (d Direction) Glyph() byte {
	switch d {
	case Up:
		return '^'
	case Right:
		return '>'
	case Down:
		return 'v'
	case Left:
		return '<'
	default:
		return '?'
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	case NoDirection:
		return "none"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Pose is a guard's position and heading.
type Pose struct {
	X   int
	Y   int
	Dir Direction
}

// Next returns the cell one step ahead of p.
func (p Pose) Next() (x, y int) {
	dx, dy := p.Dir.Delta()
	return p.X + dx, p.Y + dy
}

func (p Pose) String() string {
	return fmt.Sprintf("(%d,%d,%s)", p.X, p.Y, p.Dir)
}
