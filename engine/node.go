package engine

import (
	"context"

	"github.com/syssam/icegraph"
	"github.com/syssam/icegraph/dialect"
)

// AddNode stores a node under its identifier.
func (e *Engine) AddNode(ctx context.Context, node icegraph.Node) error {
	return e.write(ctx, "add_node", node)
}

// UpdateNode overwrites the stored node with the same identifier.
func (e *Engine) UpdateNode(ctx context.Context, node icegraph.Node) error {
	return e.write(ctx, "update_node", node)
}

func (e *Engine) write(ctx context.Context, op string, rec icegraph.Record) error {
	if _, _, err := recordKey(op, rec); err != nil {
		return err
	}
	return e.update(ctx, op, func(tx dialect.Tx) error {
		_, err := e.put(tx, op, rec)
		return err
	})
}

// GetNode reads the node stored under id into into. The kind of id must be the
// family of into.
func (e *Engine) GetNode(ctx context.Context, id string, into icegraph.Node) error {
	return e.get(ctx, "get_node", id, into)
}

func (e *Engine) get(ctx context.Context, op, id string, into icegraph.Record) error {
	if into == nil {
		_, err := parseKey(op, id, "")
		if err == nil {
			err = icegraph.NewError(icegraph.DecodeFailed, op, "", id, errNilTarget)
		}
		return err
	}
	family, err := parseKey(op, id, into.Family())
	if err != nil {
		return err
	}
	return e.view(ctx, op, func(tx dialect.Tx) error {
		return e.load(tx, op, family, id, into)
	})
}

// Get reads the record stored under id as a new T.
//
//	p, err := engine.Get[testgraph.Person](ctx, eng, "Person:ada")
func Get[T any, P interface {
	*T
	icegraph.Record
}](ctx context.Context, e *Engine, id string) (P, error) {
	rec := P(new(T))
	if err := e.get(ctx, "get", id, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// RemoveNode deletes the node stored under id. Removing an absent node is not an error.
//
// Without WithCascade the edges referencing the node are left in place and keep its
// identifier as an endpoint. With it, every edge found in the node's ref sets is deleted
// and retracted from its other endpoint, in the same transaction.
func (e *Engine) RemoveNode(ctx context.Context, id string) error {
	const op = "remove_node"
	family, err := parseKey(op, id, "")
	if err != nil {
		return err
	}
	return e.update(ctx, op, func(tx dialect.Tx) error {
		if e.cascade {
			if err := e.retractNode(tx, op, family, id); err != nil {
				return err
			}
		}
		if err := tx.Delete(family, []byte(id)); err != nil {
			return storeError(op, family, id, err)
		}
		return nil
	})
}

// retractNode deletes the edges referencing the node and removes them from the ref set
// of their other endpoint.
func (e *Engine) retractNode(tx dialect.Tx, op, family, id string) error {
	node, ok := e.registry.NewNode(family)
	if !ok {
		return nil
	}
	if err := e.load(tx, op, family, id, node); err != nil {
		if icegraph.IsNotFound(err) {
			return nil
		}
		return err
	}
	seen := make(map[string]bool)
	for _, ref := range append(node.InboundRefs(), node.OutboundRefs()...) {
		key := ref.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		if err := e.removeEdge(tx, op, ref.Kind(), key, id); err != nil {
			return err
		}
	}
	return nil
}
