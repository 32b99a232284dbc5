// Package gen compiles a graph schema into the typed Go vocabulary used by the engine.
//
// # Pipeline
//
//	schema.yml
//	     ↓  compiler/load
//	load.Schema
//	     ↓  NewGraph (resolution and validation)
//	Graph
//	     ↓  JenniferGenerator
//	generated package (one file per kind, plus kinds.go)
//
// # Key Types
//
//   - Graph: the resolved node kinds and edge kinds
//   - Type: one kind, with its fields, connection rules and ref tables
//   - Field: a typed attribute of a kind
//   - Connection: one rule of an edge kind, linking a From node kind to a To node kind
//   - Config: generation settings
//
// For every node kind N the generator emits the NKind constant, the NID identifier type,
// the NInboundRef and NOutboundRef sealed interfaces, and the N record. An edge kind E
// gets EKind, EID, the EConnection sealed interface with one struct per rule, and the E
// record. The ref tables are derived from the connection rules: the From kind of a rule
// may hold E in its outbound refs and the To kind in its inbound refs. Only EID
// implements the marker methods of those interfaces, so a ref set cannot hold an edge
// identifier the schema does not allow.
//
// # Error Handling
//
//   - SchemaError: invalid kind or field declarations
//   - EdgeError: invalid connection rules
//   - ConfigError: invalid generation settings
//   - GenerationError: rendering or writing failures
//
// Example:
//
//	graph, err := gen.NewGraph(cfg, schema)
//	if err != nil {
//	    if gen.IsEdgeError(err) {
//	        // A connection names an undeclared node kind.
//	    }
//	    return err
//	}
//
// # Configuration
//
//	cfg, err := gen.NewConfig(
//	    gen.WithTarget("./graph"),
//	    gen.WithPackage("graph"),
//	    gen.WithWorkers(4),
//	)
//
// Generation is deterministic: the same schema yields byte-identical files.
package gen
