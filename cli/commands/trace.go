package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erikhoward/patrol/graph"
	"github.com/erikhoward/patrol/guard"
)

var traceLoops bool

var traceCmd = &cobra.Command{
	Use:   "trace <grid-file>",
	Short: "Draw the guard's patrol",
	Long: `Draw the grid with the guard's trail: '|' vertical, '-' horizontal,
'+' both. With --loops, cells where an obstruction traps the guard are
marked 'O'.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().BoolVar(&traceLoops, "loops", false, "Mark loop-inducing cells with 'O'")
}

func runTrace(cmd *cobra.Command, args []string) error {
	g, err := loadGrid(args[0])
	if err != nil {
		return err
	}

	patrol := guard.Patrol(g)

	var loops [][2]int
	if traceLoops {
		res, err := graph.Build(g).Sweep(commandContext(cmd), guard.Candidates(g, patrol.Mask()))
		if err != nil {
			return fmt.Errorf("failed to sweep obstructions: %w", err)
		}
		loops = res.LoopCells
	}

	start := g.StartPose()
	fmt.Fprint(commandOutput(cmd), guard.Render(g, patrol.Mask(), &start, loops))
	return nil
}
