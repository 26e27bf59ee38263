package guard

import (
	"strings"

	"github.com/erikhoward/patrol/core"
)

// Render draws the grid with the guard's trail: '|' for vertical travel,
// '-' for horizontal, '+' for both, 'O' for loop-inducing cells and the
// guard itself as ^ > v <. Pass a nil pose to omit the guard.
func Render(g *core.Grid, mask *VisitMask, pose *core.Pose, loops [][2]int) string {
	trap := make(map[[2]int]bool, len(loops))
	for _, c := range loops {
		trap[c] = true
	}

	const (
		vertical   = 1<<core.Up | 1<<core.Down
		horizontal = 1<<core.Left | 1<<core.Right
	)

	var sb strings.Builder
	sb.Grow((g.Width() + 1) * g.Height())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			bits := mask.Cell(x, y)
			switch {
			case pose != nil && pose.X == x && pose.Y == y:
				sb.WriteByte(pose.Dir.Glyph())
			case g.IsObstructed(x, y):
				sb.WriteByte(core.MarkObstruction)
			case trap[[2]int{x, y}]:
				sb.WriteByte('O')
			case bits&vertical != 0 && bits&horizontal != 0:
				sb.WriteByte('+')
			case bits&vertical != 0:
				sb.WriteByte('|')
			case bits&horizontal != 0:
				sb.WriteByte('-')
			default:
				sb.WriteByte(core.MarkOpen)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
