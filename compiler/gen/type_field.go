package gen

import (
	"sort"
	"strings"

	"github.com/dave/jennifer/jen"
)

// FieldType describes a supported field type.
type FieldType struct {
	// Name is the canonical schema name, e.g. "int64".
	Name string
	// Ident is the Go type as written in generated code, e.g. "[]byte".
	Ident string
	// PkgPath is the import path of the Go type, if any.
	PkgPath string
	code    func() *jen.Statement
}

// Code returns the Jennifer code of the Go type.
func (t *FieldType) Code() *jen.Statement { return t.code() }

// String returns the Go type.
func (t *FieldType) String() string { return t.Ident }

func builtin(name string) *FieldType {
	return &FieldType{Name: name, Ident: name, code: func() *jen.Statement { return jen.Id(name) }}
}

var fieldTypes = func() map[string]*FieldType {
	m := make(map[string]*FieldType)
	for _, name := range []string{
		"string", "bool",
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64",
		"float32", "float64",
	} {
		m[name] = builtin(name)
	}
	m["bytes"] = &FieldType{Name: "bytes", Ident: "[]byte", code: func() *jen.Statement { return jen.Index().Byte() }}
	m["strings"] = &FieldType{Name: "strings", Ident: "[]string", code: func() *jen.Statement { return jen.Index().String() }}
	m["time"] = &FieldType{Name: "time", Ident: "time.Time", PkgPath: "time", code: func() *jen.Statement { return jen.Qual("time", "Time") }}
	return m
}()

// typeAliases maps alternative spellings to canonical names.
var typeAliases = map[string]string{
	"String":   "string",
	"i8":       "int8",
	"i16":      "int16",
	"i32":      "int32",
	"i64":      "int64",
	"isize":    "int",
	"u8":       "uint8",
	"u16":      "uint16",
	"u32":      "uint32",
	"u64":      "uint64",
	"usize":    "uint",
	"f32":      "float32",
	"f64":      "float64",
	"[]byte":   "bytes",
	"[]string": "strings",
	"Time":     "time",
}

// LookupFieldType resolves a schema type name.
func LookupFieldType(name string) (*FieldType, bool) {
	name = strings.TrimSpace(name)
	if alias, ok := typeAliases[name]; ok {
		name = alias
	}
	t, ok := fieldTypes[name]
	return t, ok
}

// FieldTypeNames returns the canonical type names, sorted.
func FieldTypeNames() []string {
	ns := make([]string, 0, len(fieldTypes))
	for n := range fieldTypes {
		ns = append(ns, n)
	}
	sort.Strings(ns)
	return ns
}
