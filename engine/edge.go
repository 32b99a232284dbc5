package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/icegraph"
	"github.com/syssam/icegraph/dialect"
)

// AddEdge stores edge and links it into the ref sets of its endpoints, all in one
// transaction: the edge is written first, then source with the edge appended to its
// outbound refs, then target with the edge appended to its inbound refs. Nothing is
// written if any step fails.
//
// source and target must be the endpoints of the edge's connection. Each endpoint is
// re-read inside the transaction and the ref is appended to the stored copy, so refs
// added since the caller read its node are kept. The caller's source and target are
// updated to the committed state, so field changes made to a stored endpoint and not
// yet saved with UpdateNode are discarded. An endpoint that is not stored yet is
// written as the caller holds it.
func (e *Engine) AddEdge(ctx context.Context, edge icegraph.Edge, source, target icegraph.Node) error {
	const op = "add_edge"
	family, key, err := recordKey(op, edge)
	if err != nil {
		return err
	}
	if err := checkEndpoints(op, family, key, edge.Connection(), source, target); err != nil {
		return err
	}
	var committed map[string][]byte
	err = e.update(ctx, op, func(tx dialect.Tx) error {
		committed = make(map[string][]byte, 2)
		if _, err := e.put(tx, op, edge); err != nil {
			return err
		}
		id := edge.Identifier()
		data, err := e.link(tx, op, source, func(n icegraph.Node) error { return n.AddOutboundRef(id) })
		if err != nil {
			return err
		}
		committed[source.Identifier().String()] = data
		data, err = e.link(tx, op, target, func(n icegraph.Node) error { return n.AddInboundRef(id) })
		if err != nil {
			return err
		}
		committed[target.Identifier().String()] = data
		return nil
	})
	if err != nil {
		return err
	}
	for _, n := range []icegraph.Node{source, target} {
		k := n.Identifier().String()
		if err := e.decode(op, n.Family(), k, committed[k], n); err != nil {
			return err
		}
	}
	return nil
}

func checkEndpoints(op, family, key string, conn icegraph.Connection, source, target icegraph.Node) error {
	if conn == nil {
		return icegraph.NewError(icegraph.InvalidEndpoint, op, family, key, errors.New("edge has no connection"))
	}
	if source == nil || target == nil {
		return icegraph.NewError(icegraph.InvalidEndpoint, op, family, key, errors.New("nil endpoint"))
	}
	src, dst := conn.Endpoints()
	for _, end := range []struct {
		side string
		want icegraph.ID
		got  icegraph.Node
	}{
		{"source", src, source},
		{"target", dst, target},
	} {
		if _, _, err := recordKey(op, end.got); err != nil {
			return err
		}
		if want, got := icegraph.IDString(end.want), end.got.Identifier().String(); want != got {
			return icegraph.NewError(icegraph.InvalidEndpoint, op, family, key,
				fmt.Errorf("%s is %s, connection %s expects %s", end.side, got, conn.Variant(), want))
		}
	}
	return nil
}

// link applies add to the stored copy of node, or to a copy of node itself when it is
// not stored yet, and writes the result back.
func (e *Engine) link(tx dialect.Tx, op string, node icegraph.Node, add func(icegraph.Node) error) ([]byte, error) {
	family, key, err := recordKey(op, node)
	if err != nil {
		return nil, err
	}
	data, err := tx.Get(family, []byte(key))
	switch {
	case errors.Is(err, dialect.ErrKeyNotFound):
		if data, err = e.encode(op, node, key); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, storeError(op, family, key, err)
	}
	rec, ok := e.newRecord(family, node)
	fresh, isNode := rec.(icegraph.Node)
	if !ok || !isNode {
		return nil, icegraph.NewError(icegraph.DecodeFailed, op, family, key, fmt.Errorf("cannot materialize a %s node", family))
	}
	if err := e.decode(op, family, key, data, fresh); err != nil {
		return nil, err
	}
	if err := add(fresh); err != nil {
		return nil, icegraph.NewError(icegraph.InvalidEndpoint, op, family, key, err)
	}
	return e.put(tx, op, fresh)
}

// GetEdge reads the edge stored under id into into. The kind of id must be the
// family of into.
func (e *Engine) GetEdge(ctx context.Context, id string, into icegraph.Edge) error {
	return e.get(ctx, "get_edge", id, into)
}

// RemoveEdge deletes the edge stored under id. Removing an absent edge is not an error.
//
// Without WithCascade the endpoints keep the edge in their ref sets. With it, the edge
// is retracted from both endpoints in the same transaction.
func (e *Engine) RemoveEdge(ctx context.Context, id string) error {
	const op = "remove_edge"
	family, err := parseKey(op, id, "")
	if err != nil {
		return err
	}
	return e.update(ctx, op, func(tx dialect.Tx) error {
		if e.cascade {
			return e.removeEdge(tx, op, family, id, "")
		}
		if err := tx.Delete(family, []byte(id)); err != nil {
			return storeError(op, family, id, err)
		}
		return nil
	})
}

// removeEdge deletes an edge and retracts it from its endpoints, except from the node
// stored under skip.
func (e *Engine) removeEdge(tx dialect.Tx, op, family, key, skip string) error {
	edge, ok := e.registry.NewEdge(family)
	if ok {
		err := e.load(tx, op, family, key, edge)
		switch {
		case icegraph.IsNotFound(err):
			return nil
		case err != nil:
			return err
		}
		if conn := edge.Connection(); conn != nil {
			src, dst := conn.Endpoints()
			if err := e.retract(tx, op, src, skip, edge.Identifier(), icegraph.Outbound); err != nil {
				return err
			}
			if err := e.retract(tx, op, dst, skip, edge.Identifier(), icegraph.Inbound); err != nil {
				return err
			}
		}
	}
	if err := tx.Delete(family, []byte(key)); err != nil {
		return storeError(op, family, key, err)
	}
	return nil
}

// retract removes ref from one side of the node stored under id.
func (e *Engine) retract(tx dialect.Tx, op string, id icegraph.ID, skip string, ref icegraph.ID, side icegraph.Side) error {
	if id == nil || id.String() == skip {
		return nil
	}
	node, ok := e.registry.NewNode(id.Kind())
	if !ok {
		return nil
	}
	key := id.String()
	err := e.load(tx, op, id.Kind(), key, node)
	switch {
	case icegraph.IsNotFound(err), icegraph.IsPartitionNotFound(err):
		return nil
	case err != nil:
		return err
	}
	if side == icegraph.Outbound {
		node.RemoveOutboundRef(ref)
	} else {
		node.RemoveInboundRef(ref)
	}
	_, err = e.put(tx, op, node)
	return err
}
