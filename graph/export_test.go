package graph

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSpecPatrolOnly(t *testing.T) {
	spec := Build(mustParse(t, sampleGrid)).Spec("sample", false)
	require.NoError(t, spec.Validate())

	assert.Equal(t, "sample", spec.Name)
	assert.Equal(t, "root", spec.Entry)
	assert.Equal(t, 10, spec.Width)
	// root, ten collisions and the exit
	assert.Len(t, spec.Nodes, 12)
	assert.Len(t, spec.Edges, 11)
	assert.Equal(t, EdgeSpec{From: "root", To: "n4_0_up"}, spec.Edges[0])
	assert.Equal(t, ExitID, spec.Nodes[len(spec.Nodes)-1].ID)

	for _, n := range spec.Nodes[:len(spec.Nodes)-1] {
		assert.True(t, n.OnPatrol, n.ID)
	}
}

func TestSpecAll(t *testing.T) {
	spec := Build(mustParse(t, sampleGrid)).Spec("sample", true)
	require.NoError(t, spec.Validate())

	// 29 valid nodes plus the exit
	assert.Len(t, spec.Nodes, 30)
	assert.Len(t, spec.Edges, 29)

	offPatrol := 0
	for _, n := range spec.Nodes {
		if n.ID != ExitID && !n.OnPatrol {
			offPatrol++
		}
	}
	assert.Equal(t, 29-11, offPatrol)
}

func TestSpecLoopHasNoExit(t *testing.T) {
	spec := Build(mustParse(t, ".#...\n....#\n.^...\n#....\n...#.")).Spec("loop", false)
	require.NoError(t, spec.Validate())

	for _, n := range spec.Nodes {
		assert.NotEqual(t, ExitID, n.ID)
	}
	assert.Len(t, spec.Edges, 5)
	assert.Contains(t, spec.Edges, EdgeSpec{From: "n0_3_left", To: "n1_0_up"})
}

func TestToMermaid(t *testing.T) {
	mermaid := Build(mustParse(t, sampleGrid)).Spec("sample", false).ToMermaid()

	assert.True(t, strings.HasPrefix(mermaid, "graph TD\n"))
	assert.Contains(t, mermaid, `root["start (4,6)"]`)
	assert.Contains(t, mermaid, `n4_0_up("(4,0) up")`)
	assert.Contains(t, mermaid, "exit((exit))")
	assert.Contains(t, mermaid, "root --> n4_0_up")
	assert.Contains(t, mermaid, "n4_0_up --> n9_1_right")
}

func TestToMermaidOffPatrolNodes(t *testing.T) {
	mermaid := Build(mustParse(t, sampleGrid)).Spec("sample", true).ToMermaid()
	assert.Contains(t, mermaid, `n4_0_left["(4,0) left"]`)
}

func TestToJSONAndYAML(t *testing.T) {
	spec := Build(mustParse(t, trapGrid)).Spec("trap", false)

	data, err := spec.ToJSON()
	require.NoError(t, err)
	var fromJSON GraphSpec
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, *spec, fromJSON)
	assert.Contains(t, string(data), `"entry": "root"`)

	data, err = spec.ToYAML()
	require.NoError(t, err)
	var fromYAML GraphSpec
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, *spec, fromYAML)
	assert.Contains(t, string(data), "on_patrol: true")
}

func TestGraphSpecValidate(t *testing.T) {
	valid := func() *GraphSpec {
		return &GraphSpec{
			Name:  "g",
			Entry: "root",
			Nodes: []NodeSpec{{ID: "root"}, {ID: ExitID}},
			Edges: []EdgeSpec{{From: "root", To: ExitID}},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*GraphSpec)
		want   string
	}{
		{"missing name", func(s *GraphSpec) { s.Name = "" }, "missing name"},
		{"missing entry", func(s *GraphSpec) { s.Entry = "" }, "missing entry"},
		{"no nodes", func(s *GraphSpec) { s.Nodes = nil }, "no nodes"},
		{"empty id", func(s *GraphSpec) { s.Nodes[1].ID = "" }, "missing id"},
		{"duplicate", func(s *GraphSpec) { s.Nodes[1].ID = "root" }, "duplicate node"},
		{"unknown entry", func(s *GraphSpec) { s.Entry = "n0_0_up" }, "entry node"},
		{"unknown edge", func(s *GraphSpec) { s.Edges[0].To = "n0_0_up" }, "unknown node"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
