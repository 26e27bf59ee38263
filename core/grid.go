// Package core provides the grid model shared by the patrol simulators.
package core

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Grid markers.
const (
	MarkObstruction = '#'
	MarkStart       = '^'
	MarkOpen        = '.'
)

// Grid holds the obstruction layout and the guard's start pose.
// Cells are stored row-major (index y*width+x).
// A Grid is not safe for concurrent use while a WithObstruction call is
// in flight; use Clone to give each worker its own copy.
type Grid struct {
	width   int
	height  int
	blocked []bool
	start   Pose
}

// NewGrid builds a grid of the given size with obstructions at the listed
// cell coordinates and the guard at start.
func NewGrid(width, height int, obstructions [][2]int, start Pose) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, malformed(0, ErrEmptyInput)
	}
	g := &Grid{
		width:   width,
		height:  height,
		blocked: make([]bool, width*height),
		start:   start,
	}
	if !g.InBounds(start.X, start.Y) || !start.Dir.Valid() {
		return nil, malformed(0, ErrNoStart)
	}
	for _, o := range obstructions {
		if !g.InBounds(o[0], o[1]) {
			return nil, fmt.Errorf("obstruction (%d,%d) outside %dx%d grid", o[0], o[1], width, height)
		}
		if o[0] == start.X && o[1] == start.Y {
			return nil, fmt.Errorf("obstruction (%d,%d) on start cell", o[0], o[1])
		}
		g.blocked[g.Index(o[0], o[1])] = true
	}
	return g, nil
}

// ParseGrid reads a grid, one row per line. '#' is an obstruction, '^' the
// guard's start facing up, anything else open floor.
func ParseGrid(r io.Reader) (*Grid, error) {
	var rows []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		rows = append(rows, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read grid: %w", err)
	}

	// Trailing blank lines are not rows.
	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, malformed(0, ErrEmptyInput)
	}

	g := &Grid{
		width:  len(rows[0]),
		height: len(rows),
	}
	g.blocked = make([]bool, g.width*g.height)

	found := false
	for y, row := range rows {
		if len(row) != g.width {
			return nil, malformed(y+1, fmt.Errorf("%w: got %d, want %d", ErrRaggedRows, len(row), g.width))
		}
		for x := 0; x < len(row); x++ {
			switch row[x] {
			case MarkObstruction:
				g.blocked[y*g.width+x] = true
			case MarkStart:
				if found {
					return nil, malformed(y+1, ErrMultipleStarts)
				}
				found = true
				g.start = Pose{X: x, Y: y, Dir: Up}
			}
		}
	}
	if !found {
		return nil, malformed(0, ErrNoStart)
	}
	return g, nil
}

// ParseGridString is ParseGrid over a string.
func ParseGridString(s string) (*Grid, error) {
	return ParseGrid(strings.NewReader(s))
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Size returns the number of cells.
func (g *Grid) Size() int { return g.width * g.height }

// StartPose returns the guard's initial pose.
func (g *Grid) StartPose() Pose { return g.start }

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Index returns the row-major index of (x, y). It panics off the grid.
func (g *Grid) Index(x, y int) int {
	if !g.InBounds(x, y) {
		outOfBounds(x, y, g.width, g.height)
	}
	return y*g.width + x
}

// Coords is the inverse of Index.
func (g *Grid) Coords(i int) (x, y int) {
	return i % g.width, i / g.width
}

// IsObstructed reports whether (x, y) holds an obstruction. It panics off
// the grid.
func (g *Grid) IsObstructed(x, y int) bool {
	return g.blocked[g.Index(x, y)]
}

// IsStart reports whether (x, y) is the guard's start cell.
func (g *Grid) IsStart(x, y int) bool {
	return x == g.start.X && y == g.start.Y
}

// Obstructions returns the coordinates of every obstruction in row-major
// order.
func (g *Grid) Obstructions() [][2]int {
	out := make([][2]int, 0, g.ObstructionCount())
	for i, b := range g.blocked {
		if b {
			x, y := g.Coords(i)
			out = append(out, [2]int{x, y})
		}
	}
	return out
}

// ObstructionCount returns the number of obstructions.
func (g *Grid) ObstructionCount() int {
	n := 0
	for _, b := range g.blocked {
		if b {
			n++
		}
	}
	return n
}

// WithObstruction places a temporary obstruction at (x, y), runs fn and
// removes it again, also when fn panics. The cell must be open.
func (g *Grid) WithObstruction(x, y int, fn func()) {
	i := g.Index(x, y)
	if g.blocked[i] {
		panic(fmt.Sprintf("core: cell (%d,%d) already obstructed", x, y))
	}
	g.blocked[i] = true
	defer func() { g.blocked[i] = false }()
	fn()
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	c := *g
	c.blocked = make([]bool, len(g.blocked))
	copy(c.blocked, g.blocked)
	return &c
}

// String renders the grid in its input format.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.width + 1) * g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			switch {
			case g.blocked[y*g.width+x]:
				sb.WriteByte(MarkObstruction)
			case g.IsStart(x, y):
				sb.WriteByte(g.start.Dir.Glyph())
			default:
				sb.WriteByte(MarkOpen)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
