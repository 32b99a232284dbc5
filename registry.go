package icegraph

import (
	"fmt"
	"slices"
)

// KindType tells nodes from edges.
type KindType uint8

const (
	NodeType KindType = iota + 1
	EdgeType
)

func (t KindType) String() string {
	switch t {
	case NodeType:
		return "node"
	case EdgeType:
		return "edge"
	default:
		return "unknown"
	}
}

// KindDescriptor describes one generated kind at runtime.
type KindDescriptor struct {
	Name string
	Type KindType
	// New returns an empty record of the kind, ready to be decoded into.
	New func() Record
}

// NodeKind returns the descriptor of a node kind.
func NodeKind[N Node](name string, newFn func() N) KindDescriptor {
	return KindDescriptor{Name: name, Type: NodeType, New: func() Record { return newFn() }}
}

// EdgeKind returns the descriptor of an edge kind.
func EdgeKind[E Edge](name string, newFn func() E) KindDescriptor {
	return KindDescriptor{Name: name, Type: EdgeType, New: func() Record { return newFn() }}
}

// Registry maps kind names to descriptors. Generated packages export one; the engine
// uses it to create families eagerly and to materialize records from a family name.
// A Registry is immutable after construction and safe for concurrent use.
type Registry struct {
	order []string
	kinds map[string]KindDescriptor
}

// NewRegistry builds a registry. It fails on an empty or duplicate kind name.
func NewRegistry(kinds ...KindDescriptor) (*Registry, error) {
	r := &Registry{kinds: make(map[string]KindDescriptor, len(kinds))}
	for _, k := range kinds {
		if k.Name == "" {
			return nil, fmt.Errorf("icegraph: registry: empty kind name")
		}
		if _, ok := r.kinds[k.Name]; ok {
			return nil, fmt.Errorf("icegraph: registry: duplicate kind %q", k.Name)
		}
		if k.New == nil {
			return nil, fmt.Errorf("icegraph: registry: kind %q has no constructor", k.Name)
		}
		r.kinds[k.Name] = k
		r.order = append(r.order, k.Name)
	}
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on error. It is meant for package-level
// variables in generated code.
func MustNewRegistry(kinds ...KindDescriptor) *Registry {
	r, err := NewRegistry(kinds...)
	if err != nil {
		panic(err)
	}
	return r
}

// Kinds returns all kind names in registration order.
func (r *Registry) Kinds() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.order)
}

// Lookup returns the descriptor of a kind.
func (r *Registry) Lookup(kind string) (KindDescriptor, bool) {
	if r == nil {
		return KindDescriptor{}, false
	}
	k, ok := r.kinds[kind]
	return k, ok
}

// NewRecord returns an empty record of the kind, or false if the kind is unknown.
func (r *Registry) NewRecord(kind string) (Record, bool) {
	k, ok := r.Lookup(kind)
	if !ok {
		return nil, false
	}
	return k.New(), true
}

// NewNode returns an empty node of the kind, or false if the kind is not a known node kind.
func (r *Registry) NewNode(kind string) (Node, bool) {
	k, ok := r.Lookup(kind)
	if !ok || k.Type != NodeType {
		return nil, false
	}
	n, ok := k.New().(Node)
	return n, ok
}

// NewEdge returns an empty edge of the kind, or false if the kind is not a known edge kind.
func (r *Registry) NewEdge(kind string) (Edge, bool) {
	k, ok := r.Lookup(kind)
	if !ok || k.Type != EdgeType {
		return nil, false
	}
	e, ok := k.New().(Edge)
	return e, ok
}

// EdgeKinds returns the edge kind names in registration order.
func (r *Registry) EdgeKinds() []string {
	if r == nil {
		return nil
	}
	var out []string
	for _, name := range r.order {
		if r.kinds[name].Type == EdgeType {
			out = append(out, name)
		}
	}
	return out
}
