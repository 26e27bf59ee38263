package graph

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/erikhoward/patrol/core"
)

// ExitID names the pseudo-node that stands for leaving the grid.
const ExitID = "exit"

// GraphSpec is a serializable view of a transition graph.
type GraphSpec struct {
	Name   string     `yaml:"name" json:"name"`
	Width  int        `yaml:"width" json:"width"`
	Height int        `yaml:"height" json:"height"`
	Entry  string     `yaml:"entry" json:"entry"`
	Nodes  []NodeSpec `yaml:"nodes" json:"nodes"`
	Edges  []EdgeSpec `yaml:"edges" json:"edges"`
}

// NodeSpec is one collision event in the specification.
type NodeSpec struct {
	ID       string `yaml:"id" json:"id"`
	X        int    `yaml:"x" json:"x"`
	Y        int    `yaml:"y" json:"y"`
	Hit      string `yaml:"hit,omitempty" json:"hit,omitempty"`
	OnPatrol bool   `yaml:"on_patrol" json:"on_patrol"`
}

// EdgeSpec links a collision event to the next one.
type EdgeSpec struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// NodeName returns the stable export id of a node.
func NodeName(n Node) string {
	if n.Hit == core.NoDirection {
		return "root"
	}
	return fmt.Sprintf("n%d_%d_%s", n.X, n.Y, n.Hit)
}

// Spec exports the graph. With all set every valid node is included,
// otherwise only the nodes on the guard's patrol from the root.
func (g *Graph) Spec(name string, all bool) *GraphSpec {
	patrol := make(map[NodeID]bool)
	for _, id := range g.Reachable(Root) {
		patrol[id] = true
	}

	spec := &GraphSpec{
		Name:   name,
		Width:  g.grid.Width(),
		Height: g.grid.Height(),
		Entry:  NodeName(g.nodes[Root]),
	}

	exits := false
	for i, n := range g.nodes {
		id := NodeID(i)
		if !n.Valid || (!all && !patrol[id]) {
			continue
		}
		ns := NodeSpec{ID: NodeName(n), X: n.X, Y: n.Y, OnPatrol: patrol[id]}
		if n.Hit != core.NoDirection {
			ns.Hit = n.Hit.String()
		}
		spec.Nodes = append(spec.Nodes, ns)

		to := ExitID
		if n.Next != NoNode {
			to = NodeName(g.nodes[n.Next])
		} else {
			exits = true
		}
		spec.Edges = append(spec.Edges, EdgeSpec{From: ns.ID, To: to})
	}
	if exits {
		spec.Nodes = append(spec.Nodes, NodeSpec{ID: ExitID, X: -1, Y: -1})
	}
	return spec
}

// Validate checks that the GraphSpec is consistent.
func (s *GraphSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("graph spec missing name")
	}
	if s.Entry == "" {
		return fmt.Errorf("graph spec missing entry")
	}
	if len(s.Nodes) == 0 {
		return fmt.Errorf("graph spec has no nodes")
	}

	nodeIDs := make(map[string]bool)
	for _, node := range s.Nodes {
		if node.ID == "" {
			return fmt.Errorf("node missing id")
		}
		if nodeIDs[node.ID] {
			return fmt.Errorf("duplicate node %q", node.ID)
		}
		nodeIDs[node.ID] = true
	}

	if !nodeIDs[s.Entry] {
		return fmt.Errorf("entry node %q not found in nodes", s.Entry)
	}

	for _, edge := range s.Edges {
		if !nodeIDs[edge.From] {
			return fmt.Errorf("edge references unknown node %q", edge.From)
		}
		if !nodeIDs[edge.To] {
			return fmt.Errorf("edge references unknown node %q", edge.To)
		}
	}

	return nil
}

// ToMermaid exports the graph to Mermaid diagram syntax. Patrol nodes are
// drawn as rounded boxes, the exit as a circle.
func (s *GraphSpec) ToMermaid() string {
	var sb strings.Builder

	sb.WriteString("graph TD\n")

	for _, node := range s.Nodes {
		switch {
		case node.ID == ExitID:
			fmt.Fprintf(&sb, "    %s((exit))\n", node.ID)
		case node.Hit == "":
			fmt.Fprintf(&sb, "    %s[\"start (%d,%d)\"]\n", node.ID, node.X, node.Y)
		case node.OnPatrol:
			fmt.Fprintf(&sb, "    %s(\"(%d,%d) %s\")\n", node.ID, node.X, node.Y, node.Hit)
		default:
			fmt.Fprintf(&sb, "    %s[\"(%d,%d) %s\"]\n", node.ID, node.X, node.Y, node.Hit)
		}
	}

	for _, edge := range s.Edges {
		fmt.Fprintf(&sb, "    %s --> %s\n", edge.From, edge.To)
	}

	return sb.String()
}

// ToJSON exports the graph to JSON format.
func (s *GraphSpec) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// ToYAML exports the graph to YAML format.
func (s *GraphSpec) ToYAML() ([]byte, error) {
	return yaml.Marshal(s)
}
