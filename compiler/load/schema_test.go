package load

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	for _, path := range []string{"testdata/graph.yml", "testdata/graph.json"} {
		t.Run(path, func(t *testing.T) {
			s, err := Load(path)
			require.NoError(t, err)
			require.Len(t, s.Nodes, 2)
			require.Len(t, s.Edges, 1)

			assert.Equal(t, "Person", s.Nodes[0].Name)
			assert.Equal(t, "Company", s.Nodes[1].Name)
			require.NotEmpty(t, s.Nodes[0].Fields)
			assert.Equal(t, "name", s.Nodes[0].Fields[0].Name)

			e := s.Edges[0]
			assert.Equal(t, "EmploysAt", e.Name)
			require.Len(t, e.Fields, 1)
			assert.Equal(t, &Field{Name: "since", Type: "int"}, e.Fields[0])
			require.Len(t, e.Connections, 1)
			assert.Equal(t, &Connection{Name: "Employment", From: "Person", To: "Company"}, e.Connections[0])
		})
	}
}

func TestLoadComment(t *testing.T) {
	s, err := Load("testdata/graph.yml")
	require.NoError(t, err)
	assert.Equal(t, "An employer.", s.Nodes[1].Comment)
	assert.Equal(t, "i32", s.Nodes[1].Fields[1].Type)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("testdata/missing.yml")
	require.Error(t, err)

	_, err = Load("testdata/unknown_key.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conections")

	_, err = Parse(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")

	_, err = Parse([]byte("nodes: {name: Person}"))
	assert.Error(t, err, "nodes must be a list")
}

func TestMarshal(t *testing.T) {
	s, err := Load("testdata/graph.yml")
	require.NoError(t, err)
	out, err := s.Marshal()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "nodes:\n"))

	again, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, s, again)
}
