// Package engine persists the records of a generated graph in a family-partitioned,
// transactional key-value store.
//
// Every kind is stored in the family of the same name, keyed by the record identifier
// ("Person:ada") with the codec-encoded record as value. The engine opens the store
// through one of the dialect drivers and creates the families of the registered kinds:
//
//	eng, err := engine.Open("./data", engine.WithRegistry(graph.Registry))
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	ada := graph.NewPerson(eng.Generator(), "", "Ada")
//	acme := graph.NewCompany(eng.Generator(), "", "Acme")
//	if err := eng.AddNode(ctx, ada); err != nil {
//	    return err
//	}
//	if err := eng.AddNode(ctx, acme); err != nil {
//	    return err
//	}
//	link := graph.EmploysAtEmployment{Source: ada.ID(), Target: acme.ID()}
//	if err := eng.AddEdge(ctx, graph.NewEmploysAt(eng.Generator(), "", link, 1843), ada, acme); err != nil {
//	    return err
//	}
//
// # Errors
//
// Every operation fails with an *icegraph.Error whose Kind tells what went wrong.
// Transactions aborted by a concurrent writer (badger only) report StoreIoFailed and
// match icegraph.ErrConflict; the engine does not retry them.
//
// # Removal
//
// By default RemoveNode and RemoveEdge only delete the record itself, leaving stale
// identifiers in the ref sets and connections of other records. WithCascade extends both
// to keep references consistent.
package engine
