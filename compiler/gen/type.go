package gen

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/syssam/icegraph/compiler/load"
	"github.com/syssam/icegraph/dialect"
)

// The following types and their exported methods are used by the generator to emit
// the typed vocabulary of a schema.
type (
	// Graph holds the resolved kinds of a schema.
	Graph struct {
		*Config
		// Nodes holds the node kinds in declaration order.
		Nodes []*Type
		// Edges holds the edge kinds in declaration order.
		Edges []*Type
		kinds map[string]*Type
	}

	// Type represents one node kind or edge kind.
	Type struct {
		// Name holds the kind name. It doubles as the family name and identifier namespace.
		Name    string
		Comment string
		// IsEdge reports whether this is an edge kind.
		IsEdge bool
		// Fields holds the declared fields in declaration order.
		Fields []*Field
		// Connections holds the connection rules of an edge kind.
		Connections []*Connection
		// Inbound holds, for a node kind, the edge kinds permitted in its inbound refs.
		Inbound []*Type
		// Outbound holds, for a node kind, the edge kinds permitted in its outbound refs.
		Outbound []*Type
		// Sides holds, for an edge kind, every node side its identifier may be stored on.
		Sides []*RefSide
	}

	// Field holds the information of a kind field.
	Field struct {
		// Name is the schema name, also used as the persisted key.
		Name string
		// StructName is the exported Go name of the field.
		StructName string
		Type       *FieldType
		Comment    string
	}

	// Connection is a resolved connection rule of an edge kind.
	Connection struct {
		Name string
		Edge *Type
		From *Type
		To   *Type
	}

	// RefSide names one side of a node kind.
	RefSide struct {
		Node    *Type
		Inbound bool
	}
)

// Field names that collide with the persisted layout.
var reservedFields = names("id", "in_edge_ids", "out_edge_ids", "connection")

// Go names that collide with generated methods.
var reservedStructNames = names(
	"ID", "Identifier", "Family", "Link", "Connection",
	"Inbound", "Outbound", "AddInbound", "AddOutbound", "RemoveInbound", "RemoveOutbound",
	"InboundRefs", "OutboundRefs", "AddInboundRef", "AddOutboundRef", "RemoveInboundRef", "RemoveOutboundRef",
	"MarshalJSON", "UnmarshalJSON", "EncodeMsgpack", "DecodeMsgpack", "String",
)

// Identifiers declared once per generated package.
var graphIdents = []string{"Kinds", "NodeKinds", "EdgeKinds", "Registry"}

// NewGraph resolves and validates the schema.
func NewGraph(c *Config, s *load.Schema) (*Graph, error) {
	if c == nil {
		c = &Config{}
	}
	if s == nil {
		return nil, NewSchemaError("", "", "missing schema", nil)
	}
	g := &Graph{Config: c, kinds: make(map[string]*Type)}
	folded := make(map[string]string)
	addKind := func(name, comment string, fields []*load.Field, edge bool) (*Type, error) {
		if err := ValidKindName(name); err != nil {
			return nil, NewSchemaError(name, "", "invalid kind name", err)
		}
		lower := strings.ToLower(name)
		if prev, ok := folded[lower]; ok {
			return nil, NewSchemaError(name, "", fmt.Sprintf("kind redeclared (conflicts with %q)", prev), nil)
		}
		folded[lower] = name
		t := &Type{Name: name, Comment: comment, IsEdge: edge}
		if err := t.addFields(fields); err != nil {
			return nil, err
		}
		g.kinds[name] = t
		return t, nil
	}
	for _, n := range s.Nodes {
		if n == nil {
			continue
		}
		t, err := addKind(n.Name, n.Comment, n.Fields, false)
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, t)
	}
	for _, e := range s.Edges {
		if e == nil {
			continue
		}
		t, err := addKind(e.Name, e.Comment, e.Fields, true)
		if err != nil {
			return nil, err
		}
		g.Edges = append(g.Edges, t)
		if err := g.addConnections(t, e.Connections); err != nil {
			return nil, err
		}
	}
	if err := g.checkIdents(); err != nil {
		return nil, err
	}
	return g, nil
}

// ValidKindName reports whether name can be used as a kind name.
func ValidKindName(name string) error {
	switch {
	case name == "":
		return errors.New("kind name cannot be empty")
	case strings.EqualFold(name, dialect.DefaultFamily):
		return fmt.Errorf("kind name %q is reserved for the default family", name)
	case !token.IsIdentifier(name):
		return fmt.Errorf("kind name %q is not a valid Go identifier", name)
	case !token.IsExported(name):
		return fmt.Errorf("kind name %q must start with an upper case letter", name)
	}
	return nil
}

func (t *Type) addFields(fields []*load.Field) error {
	seen := make(map[string]string)
	for _, f := range fields {
		if f == nil {
			continue
		}
		if f.Name == "" {
			return NewSchemaError(t.Name, "", "field name cannot be empty", nil)
		}
		if _, ok := reservedFields[f.Name]; ok {
			return NewSchemaError(t.Name, f.Name, "field name is reserved", nil)
		}
		sf := pascal(f.Name)
		if !token.IsIdentifier(sf) || !token.IsExported(sf) {
			return NewSchemaError(t.Name, f.Name, fmt.Sprintf("field name does not produce a valid Go identifier (%q)", sf), nil)
		}
		if _, ok := reservedStructNames[sf]; ok {
			return NewSchemaError(t.Name, f.Name, fmt.Sprintf("field conflicts with generated method %s", sf), nil)
		}
		if prev, ok := seen[sf]; ok {
			return NewSchemaError(t.Name, f.Name, fmt.Sprintf("field redeclared (conflicts with %q)", prev), nil)
		}
		seen[sf] = f.Name
		ft, ok := LookupFieldType(f.Type)
		if !ok {
			return NewSchemaError(t.Name, f.Name, fmt.Sprintf("unknown field type %q", f.Type), nil)
		}
		t.Fields = append(t.Fields, &Field{Name: f.Name, StructName: sf, Type: ft, Comment: f.Comment})
	}
	return nil
}

func (g *Graph) addConnections(e *Type, conns []*load.Connection) error {
	if len(conns) == 0 {
		return NewEdgeError(e.Name, "", "", "", "edge kind declares no connections")
	}
	seen := make(map[string]struct{})
	for _, c := range conns {
		if c == nil {
			continue
		}
		if !token.IsIdentifier(c.Name) || !token.IsExported(c.Name) {
			return NewEdgeError(e.Name, c.Name, c.From, c.To, "connection name must be an exported Go identifier")
		}
		if _, ok := seen[c.Name]; ok {
			return NewEdgeError(e.Name, c.Name, c.From, c.To, "connection redeclared")
		}
		seen[c.Name] = struct{}{}
		from, err := g.endpoint(e, c, c.From)
		if err != nil {
			return err
		}
		to, err := g.endpoint(e, c, c.To)
		if err != nil {
			return err
		}
		e.Connections = append(e.Connections, &Connection{Name: c.Name, Edge: e, From: from, To: to})
		from.Outbound = appendType(from.Outbound, e)
		to.Inbound = appendType(to.Inbound, e)
		e.addSide(from, false)
		e.addSide(to, true)
	}
	return nil
}

func (g *Graph) endpoint(e *Type, c *load.Connection, name string) (*Type, error) {
	t, ok := g.kinds[name]
	switch {
	case !ok:
		return nil, NewEdgeError(e.Name, c.Name, c.From, c.To, fmt.Sprintf("undeclared node kind %q", name))
	case t.IsEdge:
		return nil, NewEdgeError(e.Name, c.Name, c.From, c.To, fmt.Sprintf("%q is an edge kind", name))
	}
	return t, nil
}

func appendType(ts []*Type, t *Type) []*Type {
	for _, x := range ts {
		if x == t {
			return ts
		}
	}
	return append(ts, t)
}

func (t *Type) addSide(n *Type, inbound bool) {
	for _, s := range t.Sides {
		if s.Node == n && s.Inbound == inbound {
			return
		}
	}
	t.Sides = append(t.Sides, &RefSide{Node: n, Inbound: inbound})
}

// checkIdents fails when two kinds would generate the same package-level identifier.
func (g *Graph) checkIdents() error {
	owner := make(map[string]string)
	for _, id := range graphIdents {
		owner[id] = ""
	}
	for _, t := range g.Types() {
		for _, id := range t.Idents() {
			if prev, ok := owner[id]; ok {
				msg := fmt.Sprintf("generated identifier %s is already declared", id)
				if prev != "" {
					msg = fmt.Sprintf("generated identifier %s is already declared by kind %s", id, prev)
				}
				return NewSchemaError(t.Name, "", msg, nil)
			}
			owner[id] = t.Name
		}
	}
	return nil
}

// Types returns all kinds, nodes first.
func (g *Graph) Types() []*Type {
	return append(append(make([]*Type, 0, len(g.Nodes)+len(g.Edges)), g.Nodes...), g.Edges...)
}

// Kind returns the kind with the given name.
func (g *Graph) Kind(name string) (*Type, bool) {
	t, ok := g.kinds[name]
	return t, ok
}

// Idents returns the package-level identifiers generated for the kind.
func (t *Type) Idents() []string {
	ids := []string{
		t.Name, t.KindConst(), t.IDName(), t.IDConstructor(), t.IDParser(), t.Constructor(), t.WireName(),
	}
	if t.IsEdge {
		ids = append(ids, t.ConnectionName(), t.ConnectionParser())
		for _, c := range t.Connections {
			ids = append(ids, c.StructName())
		}
		return ids
	}
	return append(ids, t.InboundRefName(), t.OutboundRefName(), t.refParser(true), t.refParser(false), t.marker(true), t.marker(false))
}

// Label returns the unexported form of the kind name.
func (t *Type) Label() string { return camel(t.Name) }

// Receiver returns the receiver name of the kind's methods.
func (t *Type) Receiver() string { return receiver(t.Name) }

// FileName returns the name of the generated file.
func (t *Type) FileName() string { return strings.ToLower(t.Name) + ".go" }

// KindConst returns the name of the kind constant.
func (t *Type) KindConst() string { return t.Name + "Kind" }

// IDName returns the name of the identifier type.
func (t *Type) IDName() string { return t.Name + "ID" }

// IDConstructor returns the name of the identifier constructor.
func (t *Type) IDConstructor() string { return "New" + t.Name + "ID" }

// IDParser returns the name of the identifier parser.
func (t *Type) IDParser() string { return "Parse" + t.Name + "ID" }

// Constructor returns the name of the record constructor.
func (t *Type) Constructor() string { return "New" + t.Name }

// WireName returns the name of the persisted form of the record.
func (t *Type) WireName() string { return t.Label() + "Wire" }

// InboundRefName returns the name of the inbound ref sum type of a node kind.
func (t *Type) InboundRefName() string { return t.Name + "InboundRef" }

// OutboundRefName returns the name of the outbound ref sum type of a node kind.
func (t *Type) OutboundRefName() string { return t.Name + "OutboundRef" }

// RefName returns the ref sum type of the given side.
func (t *Type) RefName(inbound bool) string {
	if inbound {
		return t.InboundRefName()
	}
	return t.OutboundRefName()
}

// Refs returns the edge kinds permitted on the given side.
func (t *Type) Refs(inbound bool) []*Type {
	if inbound {
		return t.Inbound
	}
	return t.Outbound
}

// marker returns the name of the unexported method sealing a ref sum type.
func (t *Type) marker(inbound bool) string {
	if inbound {
		return t.Label() + "InboundRef"
	}
	return t.Label() + "OutboundRef"
}

func (t *Type) refParser(inbound bool) string { return "parse" + t.RefName(inbound) }

// ConnectionName returns the name of the connection sum type of an edge kind.
func (t *Type) ConnectionName() string { return t.Name + "Connection" }

// ConnectionParser returns the name of the function decoding a persisted connection.
func (t *Type) ConnectionParser() string { return "parse" + t.ConnectionName() }

func (t *Type) connectionMarker() string { return t.Label() + "Connection" }

// StructName returns the name of the variant struct.
func (c *Connection) StructName() string { return c.Edge.Name + c.Name }

// Param returns the constructor parameter name of the field.
func (f *Field) Param() string { return param(f.StructName) }
