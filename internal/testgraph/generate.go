// Package testgraph holds the vocabulary generated from schema.yml. It is used by the
// engine tests and as a worked example of the generated code.
package testgraph

//go:generate go run github.com/syssam/icegraph/cmd/icegraph generate --schema schema.yml --target . --package testgraph
