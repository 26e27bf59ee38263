package guard

import "github.com/erikhoward/patrol/core"

// VisitMask records, per cell, the headings the guard entered it with.
// Bit d of a cell is set once the guard has entered that cell moving in d.
type VisitMask struct {
	width int
	bits  []uint8
}

// NewVisitMask returns an empty mask for a width x height grid.
func NewVisitMask(width, height int) *VisitMask {
	return &VisitMask{width: width, bits: make([]uint8, width*height)}
}

// Has reports whether the guard entered (x, y) moving in d.
func (m *VisitMask) Has(x, y int, d core.Direction) bool {
	return m.bits[y*m.width+x]&d.Mask() != 0
}

// Cell returns the raw 4-bit mask of (x, y).
func (m *VisitMask) Cell(x, y int) uint8 {
	return m.bits[y*m.width+x]
}

// Visited reports whether the guard entered (x, y) at all.
func (m *VisitMask) Visited(x, y int) bool {
	return m.bits[y*m.width+x] != 0
}

// mark sets bit d at cell i and reports whether it was already set.
func (m *VisitMask) mark(i int, d core.Direction) (seen bool) {
	bit := d.Mask()
	if m.bits[i]&bit != 0 {
		return true
	}
	m.bits[i] |= bit
	return false
}

// Count returns the number of cells with any bit set.
func (m *VisitMask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b != 0 {
			n++
		}
	}
	return n
}

// Reset clears every bit.
func (m *VisitMask) Reset() {
	clear(m.bits)
}

// Clone returns an independent copy of m.
func (m *VisitMask) Clone() *VisitMask {
	c := &VisitMask{width: m.width, bits: make([]uint8, len(m.bits))}
	copy(c.bits, m.bits)
	return c
}

// Equal reports whether both masks record the same visits.
func (m *VisitMask) Equal(o *VisitMask) bool {
	if m.width != o.width || len(m.bits) != len(o.bits) {
		return false
	}
	for i := range m.bits {
		if m.bits[i] != o.bits[i] {
			return false
		}
	}
	return true
}
