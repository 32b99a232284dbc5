package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/icegraph/compiler/load"
)

func testSchema() *load.Schema {
	return &load.Schema{
		Nodes: []*load.Node{
			{Name: "Person", Fields: []*load.Field{{Name: "name", Type: "string"}}},
			{Name: "Company", Comment: "An employer.", Fields: []*load.Field{{Name: "name", Type: "String"}}},
		},
		Edges: []*load.Edge{
			{
				Name:        "EmploysAt",
				Fields:      []*load.Field{{Name: "since", Type: "int"}},
				Connections: []*load.Connection{{Name: "Employment", From: "Person", To: "Company"}},
			},
			{
				Name:        "Knows",
				Connections: []*load.Connection{{Name: "Acquaintance", From: "Person", To: "Person"}},
			},
			{
				Name:   "Owns",
				Fields: []*load.Field{{Name: "share", Type: "f64"}},
				Connections: []*load.Connection{
					{Name: "Holding", From: "Person", To: "Company"},
					{Name: "Subsidiary", From: "Company", To: "Company"},
				},
			},
		},
	}
}

func kindNames(ts []*Type) []string {
	ns := make([]string, len(ts))
	for i, t := range ts {
		ns[i] = t.Name
	}
	return ns
}

func TestNewGraph(t *testing.T) {
	g, err := NewGraph(&Config{Package: "graph"}, testSchema())
	require.NoError(t, err)
	assert.Equal(t, []string{"Person", "Company"}, kindNames(g.Nodes))
	assert.Equal(t, []string{"EmploysAt", "Knows", "Owns"}, kindNames(g.Edges))
	assert.Equal(t, []string{"Person", "Company", "EmploysAt", "Knows", "Owns"}, kindNames(g.Types()))

	person, ok := g.Kind("Person")
	require.True(t, ok)
	assert.Equal(t, []string{"Knows"}, kindNames(person.Inbound))
	assert.Equal(t, []string{"EmploysAt", "Knows", "Owns"}, kindNames(person.Outbound))

	company, _ := g.Kind("Company")
	assert.Equal(t, []string{"EmploysAt", "Owns"}, kindNames(company.Inbound))
	assert.Equal(t, []string{"Owns"}, kindNames(company.Outbound))
	assert.Equal(t, "An employer.", company.Comment)
	require.Len(t, company.Fields, 1)
	assert.Equal(t, "string", company.Fields[0].Type.Name, "aliases resolve to canonical names")

	owns, _ := g.Kind("Owns")
	require.Len(t, owns.Connections, 2)
	assert.Equal(t, "OwnsSubsidiary", owns.Connections[1].StructName())
	assert.Same(t, company, owns.Connections[1].From)
	require.Len(t, owns.Sides, 3)
	assert.Equal(t, &RefSide{Node: person, Inbound: false}, owns.Sides[0])
	assert.Equal(t, &RefSide{Node: company, Inbound: true}, owns.Sides[1])
	assert.Equal(t, &RefSide{Node: company, Inbound: false}, owns.Sides[2])

	_, ok = g.Kind("Missing")
	assert.False(t, ok)
}

func TestTypeNames(t *testing.T) {
	g, err := NewGraph(nil, testSchema())
	require.NoError(t, err)
	e, _ := g.Kind("EmploysAt")
	assert.Equal(t, "employsAt", e.Label())
	assert.Equal(t, "ea", e.Receiver())
	assert.Equal(t, "employsat.go", e.FileName())
	assert.Equal(t, "EmploysAtKind", e.KindConst())
	assert.Equal(t, "EmploysAtID", e.IDName())
	assert.Equal(t, "NewEmploysAtID", e.IDConstructor())
	assert.Equal(t, "ParseEmploysAtID", e.IDParser())
	assert.Equal(t, "EmploysAtConnection", e.ConnectionName())
	assert.Equal(t, "employsAtWire", e.WireName())

	p, _ := g.Kind("Person")
	assert.Equal(t, "PersonInboundRef", p.RefName(true))
	assert.Equal(t, "PersonOutboundRef", p.RefName(false))
	assert.Equal(t, "personInboundRef", p.marker(true))
	assert.Equal(t, "name", p.Fields[0].Param())
}

func TestNewGraphErrors(t *testing.T) {
	node := func(name string, fields ...*load.Field) *load.Node { return &load.Node{Name: name, Fields: fields} }
	field := func(name, typ string) *load.Field { return &load.Field{Name: name, Type: typ} }
	conn := func(name, from, to string) *load.Connection { return &load.Connection{Name: name, From: from, To: to} }

	tests := []struct {
		name   string
		schema *load.Schema
		target error
		match  string
	}{
		{
			name:   "empty kind name",
			schema: &load.Schema{Nodes: []*load.Node{node("")}},
			target: ErrInvalidSchema,
			match:  "cannot be empty",
		},
		{
			name:   "invalid identifier",
			schema: &load.Schema{Nodes: []*load.Node{node("Big Co")}},
			target: ErrInvalidSchema,
			match:  "not a valid Go identifier",
		},
		{
			name:   "unexported kind",
			schema: &load.Schema{Nodes: []*load.Node{node("person")}},
			target: ErrInvalidSchema,
			match:  "upper case",
		},
		{
			name:   "reserved default family",
			schema: &load.Schema{Nodes: []*load.Node{node("Default")}},
			target: ErrInvalidSchema,
			match:  "default family",
		},
		{
			name: "duplicate kind across nodes and edges",
			schema: &load.Schema{
				Nodes: []*load.Node{node("Person")},
				Edges: []*load.Edge{{Name: "Person", Connections: []*load.Connection{conn("Self", "Person", "Person")}}},
			},
			target: ErrInvalidSchema,
			match:  "kind redeclared",
		},
		{
			name:   "duplicate kind differing in case",
			schema: &load.Schema{Nodes: []*load.Node{node("Person"), node("PERSON")}},
			target: ErrInvalidSchema,
			match:  "kind redeclared",
		},
		{
			name:   "empty field name",
			schema: &load.Schema{Nodes: []*load.Node{node("Person", field("", "string"))}},
			target: ErrInvalidSchema,
			match:  "field name cannot be empty",
		},
		{
			name:   "duplicate field",
			schema: &load.Schema{Nodes: []*load.Node{node("Person", field("name", "string"), field("name", "int"))}},
			target: ErrInvalidSchema,
			match:  "field redeclared",
		},
		{
			name:   "fields with the same Go name",
			schema: &load.Schema{Nodes: []*load.Node{node("Person", field("user_id", "string"), field("userID", "string"))}},
			target: ErrInvalidSchema,
			match:  "field redeclared",
		},
		{
			name:   "unknown field type",
			schema: &load.Schema{Nodes: []*load.Node{node("Person", field("age", "decimal"))}},
			target: ErrInvalidSchema,
			match:  `unknown field type "decimal"`,
		},
		{
			name:   "reserved field name",
			schema: &load.Schema{Nodes: []*load.Node{node("Person", field("in_edge_ids", "strings"))}},
			target: ErrInvalidSchema,
			match:  "reserved",
		},
		{
			name:   "field shadowing a method",
			schema: &load.Schema{Nodes: []*load.Node{node("Person", field("family", "string"))}},
			target: ErrInvalidSchema,
			match:  "generated method Family",
		},
		{
			name:   "field name without identifier",
			schema: &load.Schema{Nodes: []*load.Node{node("Person", field("9lives", "int"))}},
			target: ErrInvalidSchema,
			match:  "valid Go identifier",
		},
		{
			name: "undeclared node kind",
			schema: &load.Schema{
				Nodes: []*load.Node{node("Person")},
				Edges: []*load.Edge{{Name: "EmploysAt", Connections: []*load.Connection{conn("Employment", "Person", "Company")}}},
			},
			target: ErrInvalidEdge,
			match:  `undeclared node kind "Company"`,
		},
		{
			name: "connection to an edge kind",
			schema: &load.Schema{
				Nodes: []*load.Node{node("Person")},
				Edges: []*load.Edge{
					{Name: "Knows", Connections: []*load.Connection{conn("Acquaintance", "Person", "Person")}},
					{Name: "Likes", Connections: []*load.Connection{conn("Fan", "Person", "Knows")}},
				},
			},
			target: ErrInvalidEdge,
			match:  `"Knows" is an edge kind`,
		},
		{
			name: "edge without connections",
			schema: &load.Schema{
				Nodes: []*load.Node{node("Person")},
				Edges: []*load.Edge{{Name: "Knows"}},
			},
			target: ErrInvalidEdge,
			match:  "no connections",
		},
		{
			name: "duplicate connection",
			schema: &load.Schema{
				Nodes: []*load.Node{node("Person")},
				Edges: []*load.Edge{{Name: "Knows", Connections: []*load.Connection{
					conn("Acquaintance", "Person", "Person"),
					conn("Acquaintance", "Person", "Person"),
				}}},
			},
			target: ErrInvalidEdge,
			match:  "connection redeclared",
		},
		{
			name: "unexported connection name",
			schema: &load.Schema{
				Nodes: []*load.Node{node("Person")},
				Edges: []*load.Edge{{Name: "Knows", Connections: []*load.Connection{conn("friend", "Person", "Person")}}},
			},
			target: ErrInvalidEdge,
			match:  "exported Go identifier",
		},
		{
			name:   "kind colliding with the registry",
			schema: &load.Schema{Nodes: []*load.Node{node("Registry")}},
			target: ErrInvalidSchema,
			match:  "generated identifier Registry is already declared",
		},
		{
			name: "kind colliding with a generated identifier",
			schema: &load.Schema{
				Nodes: []*load.Node{node("Person"), node("PersonID")},
			},
			target: ErrInvalidSchema,
			match:  "already declared by kind Person",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGraph(&Config{}, tt.schema)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			assert.Contains(t, err.Error(), tt.match)
		})
	}

	_, err := NewGraph(&Config{}, nil)
	assert.True(t, IsSchemaError(err))
}

func TestValidKindName(t *testing.T) {
	assert.NoError(t, ValidKindName("Person"))
	assert.NoError(t, ValidKindName("HTTPServer"))
	assert.Error(t, ValidKindName("default"))
	assert.Error(t, ValidKindName("a:b"))
}
