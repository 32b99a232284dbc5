package icegraph

// Identified is implemented by every value that exposes an identifier.
type Identified interface {
	Identifier() ID
}

// Record is a storable node or edge. Family names the partition the record lives in and
// is always equal to Identifier().Kind().
type Record interface {
	Identified
	Family() string
}

// Node is a record that carries inbound and outbound edge reference sets.
//
// The typed ref sets of a generated node only admit the edge kinds the schema allows on
// each side. AddInboundRef and AddOutboundRef enforce the same restriction for untyped
// callers and fail with a *RefError otherwise.
type Node interface {
	Record
	InboundRefs() []ID
	OutboundRefs() []ID
	AddInboundRef(ID) error
	AddOutboundRef(ID) error
	// RemoveInboundRef removes every occurrence of the ref. Removing an absent ref is a no-op.
	RemoveInboundRef(ID)
	// RemoveOutboundRef removes every occurrence of the ref. Removing an absent ref is a no-op.
	RemoveOutboundRef(ID)
}

// Connection is one variant of an edge kind's closed connection set.
type Connection interface {
	// Variant returns the rule name, e.g. "Employment".
	Variant() string
	// Endpoints returns the source and target node identifiers.
	Endpoints() (source, target ID)
}

// Edge is a record that connects two nodes.
type Edge interface {
	Record
	Connection() Connection
}

// Side is the side of a node a reference sits on.
type Side uint8

const (
	Inbound Side = iota
	Outbound
)

func (s Side) String() string {
	if s == Outbound {
		return "outbound"
	}
	return "inbound"
}

// ConnectionWire is the persisted form of a connection.
type ConnectionWire struct {
	Variant string `json:"variant" msgpack:"variant"`
	Source  string `json:"source" msgpack:"source"`
	Target  string `json:"target" msgpack:"target"`
}

// WireConnection renders c in its persisted form.
func WireConnection(c Connection) ConnectionWire {
	if c == nil {
		return ConnectionWire{}
	}
	src, dst := c.Endpoints()
	return ConnectionWire{Variant: c.Variant(), Source: IDString(src), Target: IDString(dst)}
}

// IDString renders id, or "" for a nil identifier.
func IDString(id ID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

// RemoveRef returns refs without any element equal to ref. The result is nil when no
// element is left, so a set emptied by removal compares equal to one never populated.
func RemoveRef[R comparable](refs []R, ref R) []R {
	var out []R
	for _, r := range refs {
		if r != ref {
			out = append(out, r)
		}
	}
	return out
}

// RefIDs converts a typed ref set to plain identifiers.
func RefIDs[R ID](refs []R) []ID {
	if len(refs) == 0 {
		return nil
	}
	ids := make([]ID, len(refs))
	for i, r := range refs {
		ids[i] = r
	}
	return ids
}

// RefStrings renders a typed ref set as identifier strings.
func RefStrings[R ID](refs []R) []string {
	if len(refs) == 0 {
		return nil
	}
	ss := make([]string, len(refs))
	for i, r := range refs {
		ss[i] = r.String()
	}
	return ss
}

// ContainsRef reports whether refs holds an identifier equal to id.
func ContainsRef(refs []ID, id ID) bool {
	if id == nil {
		return false
	}
	s := id.String()
	for _, r := range refs {
		if r != nil && r.String() == s {
			return true
		}
	}
	return false
}

// ParseRefs parses identifier strings with parse, stopping at the first failure.
func ParseRefs[R any](ss []string, parse func(string) (R, error)) ([]R, error) {
	if len(ss) == 0 {
		return nil, nil
	}
	refs := make([]R, 0, len(ss))
	for _, s := range ss {
		r, err := parse(s)
		if err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, nil
}
