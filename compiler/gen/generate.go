package gen

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
)

const (
	icegraphPkg = "github.com/syssam/icegraph"
	msgpackPkg  = "github.com/vmihailenco/msgpack/v5"
)

// KindsFile is the name of the graph-level generated file.
const KindsFile = "kinds.go"

// JenniferGenerator renders the typed vocabulary of a Graph with Jennifer.
// Each kind is rendered into its own file, in parallel.
type JenniferGenerator struct {
	graph   *Graph
	workers int
	outDir  string
	pkg     string
	header  string
}

// NewJenniferGenerator creates a new generator writing to outDir.
func NewJenniferGenerator(g *Graph, outDir string) *JenniferGenerator {
	cfg := g.Config
	if cfg == nil {
		cfg = &Config{}
	}
	pkg := cfg.Package
	if pkg == "" {
		pkg = filepath.Base(outDir)
	}
	return &JenniferGenerator{
		graph:   g,
		workers: cfg.WorkerCount(),
		outDir:  outDir,
		pkg:     pkg,
		header:  cfg.HeaderComment(),
	}
}

// WithWorkers sets the number of parallel workers.
func (g *JenniferGenerator) WithWorkers(n int) *JenniferGenerator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithPackage sets the output package name.
func (g *JenniferGenerator) WithPackage(pkg string) *JenniferGenerator {
	if pkg != "" {
		g.pkg = pkg
	}
	return g
}

// Graph returns the graph being generated.
func (g *JenniferGenerator) Graph() *Graph { return g.graph }

// Pkg returns the generated package name.
func (g *JenniferGenerator) Pkg() string { return g.pkg }

// Files renders every file without writing it, keyed by file name.
func (g *JenniferGenerator) Files() map[string]*jen.File {
	files := make(map[string]*jen.File, len(g.graph.Nodes)+len(g.graph.Edges)+1)
	for _, t := range g.graph.Nodes {
		files[t.FileName()] = g.NodeFile(t)
	}
	for _, t := range g.graph.Edges {
		files[t.FileName()] = g.EdgeFile(t)
	}
	files[KindsFile] = g.KindsFile()
	return files
}

// Generate writes every file of the graph to the output directory.
func (g *JenniferGenerator) Generate(ctx context.Context) error {
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return NewGenerationError("write", g.outDir, "create output directory", err)
	}
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)
	for _, t := range g.graph.Nodes {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return g.writeFile(g.NodeFile(t), t.FileName(), "node")
		})
	}
	for _, t := range g.graph.Edges {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return g.writeFile(g.EdgeFile(t), t.FileName(), "edge")
		})
	}
	errg.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return g.writeFile(g.KindsFile(), KindsFile, "kinds")
	})
	return errg.Wait()
}

// Generate validates the graph configuration and writes the generated package.
func Generate(ctx context.Context, g *Graph) error {
	if g.Config == nil {
		return NewConfigError("Target", nil, "missing target directory in config")
	}
	if err := g.Config.Validate(); err != nil {
		return err
	}
	return NewJenniferGenerator(g, g.Config.Target).WithPackage(g.Config.PackageName()).Generate(ctx)
}

// newFile creates a new Jennifer file with the header comment.
func (g *JenniferGenerator) newFile() *jen.File {
	f := jen.NewFile(g.pkg)
	f.HeaderComment(strings.TrimPrefix(g.header, "// "))
	f.ImportName(icegraphPkg, "icegraph")
	f.ImportName(msgpackPkg, "msgpack")
	return f
}

// KindsFile renders the kind enumeration and the runtime registry.
func (g *JenniferGenerator) KindsFile() *jen.File {
	f := g.newFile()
	list := func(ts []*Type) jen.Code {
		vs := make([]jen.Code, len(ts))
		for i, t := range ts {
			vs[i] = jen.Id(t.KindConst())
		}
		return jen.Return(jen.Index().String().Values(vs...))
	}
	f.Comment("Kinds returns every kind name, node kinds first, in declaration order.")
	f.Func().Id("Kinds").Params().Index().String().Block(list(g.graph.Types()))
	f.Line()
	f.Comment("NodeKinds returns the node kind names in declaration order.")
	f.Func().Id("NodeKinds").Params().Index().String().Block(list(g.graph.Nodes))
	f.Line()
	f.Comment("EdgeKinds returns the edge kind names in declaration order.")
	f.Func().Id("EdgeKinds").Params().Index().String().Block(list(g.graph.Edges))
	f.Line()
	descs := make([]jen.Code, 0, len(g.graph.Nodes)+len(g.graph.Edges))
	for _, t := range g.graph.Types() {
		ctor := "NodeKind"
		if t.IsEdge {
			ctor = "EdgeKind"
		}
		descs = append(descs, jen.Line().Qual(icegraphPkg, ctor).Call(
			jen.Id(t.KindConst()),
			jen.Func().Params().Op("*").Id(t.Name).Block(jen.Return(jen.Op("&").Id(t.Name).Values())),
		))
	}
	descs = append(descs, jen.Line())
	f.Comment("Registry maps each kind to a constructor of an empty record.")
	f.Var().Id("Registry").Op("=").Qual(icegraphPkg, "MustNewRegistry").Call(descs...)
	return f
}

// idDecl renders the kind constant and the identifier type shared by node and edge kinds.
func (g *JenniferGenerator) idDecl(f *jen.File, t *Type) {
	id := t.IDName()
	f.Commentf("%s is the kind and family name of %s records.", t.KindConst(), t.Name)
	f.Const().Id(t.KindConst()).Op("=").Lit(t.Name)
	f.Line()
	f.Commentf("%s identifies a %s record.", id, t.Name)
	f.Type().Id(id).Struct(jen.Id("token").String())
	f.Line()
	f.Commentf("%s returns the identifier %q. An empty token draws a new one from gen.", t.IDConstructor(), t.Name+":<token>")
	f.Func().Id(t.IDConstructor()).Params(
		jen.Id("gen").Qual(icegraphPkg, "Generator"),
		jen.Id("token").String(),
	).Id(id).Block(
		jen.If(jen.Id("token").Op("==").Lit("")).Block(
			jen.Id("token").Op("=").Qual(icegraphPkg, "NewToken").Call(jen.Id("gen")),
		),
		jen.Return(jen.Id(id).Values(jen.Id("token").Op(":").Id("token"))),
	)
	f.Line()
	f.Commentf("%s parses a %q identifier.", t.IDParser(), t.Name+":<token>")
	f.Func().Id(t.IDParser()).Params(jen.Id("s").String()).Params(jen.Id(id), jen.Error()).Block(
		jen.List(jen.Id("token"), jen.Err()).Op(":=").Qual(icegraphPkg, "ParseKindToken").Call(jen.Id("s"), jen.Id(t.KindConst())),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Id(id).Values(), jen.Err())),
		jen.Return(jen.Id(id).Values(jen.Id("token").Op(":").Id("token")), jen.Nil()),
	)
	f.Line()
	f.Commentf("Kind returns %s.", t.KindConst())
	f.Func().Params(jen.Id(id)).Id("Kind").Params().String().Block(jen.Return(jen.Id(t.KindConst())))
	f.Line()
	f.Comment("Token returns the part after the separator.")
	f.Func().Params(jen.Id("id").Id(id)).Id("Token").Params().String().Block(jen.Return(jen.Id("id").Dot("token")))
	f.Line()
	f.Commentf("String returns %q.", t.Name+":<token>")
	f.Func().Params(jen.Id("id").Id(id)).Id("String").Params().String().Block(
		jen.Return(jen.Qual(icegraphPkg, "FormatID").Call(jen.Id(t.KindConst()), jen.Id("id").Dot("token"))),
	)
	f.Line()
	f.Comment("IsZero reports whether id is the zero identifier.")
	f.Func().Params(jen.Id("id").Id(id)).Id("IsZero").Params().Bool().Block(jen.Return(jen.Id("id").Dot("token").Op("==").Lit("")))
}

// fieldDecls renders the exported record fields.
func fieldDecls(t *Type) []jen.Code {
	var fs []jen.Code
	for _, fd := range t.Fields {
		if fd.Comment != "" {
			fs = append(fs, jen.Comment(fd.Comment))
		}
		fs = append(fs, jen.Id(fd.StructName).Add(fd.Type.Code()))
	}
	return fs
}

func wireField(name, key string, typ jen.Code) jen.Code {
	return jen.Id(name).Add(typ).Tag(map[string]string{"json": key, "msgpack": key})
}

// wireFields renders the persisted form of the record fields.
func wireFields(t *Type) []jen.Code {
	fs := make([]jen.Code, 0, len(t.Fields))
	for _, fd := range t.Fields {
		fs = append(fs, wireField(fd.StructName, fd.Name, fd.Type.Code()))
	}
	return fs
}

// codecDecl renders the JSON and msgpack hooks, which go through the wire struct.
func (g *JenniferGenerator) codecDecl(f *jen.File, t *Type) {
	r, wire := t.Receiver(), t.WireName()
	self := func() *jen.Statement { return jen.Id(r).Op("*").Id(t.Name) }
	decode := func(call jen.Code) []jen.Code {
		return []jen.Code{
			jen.Var().Id("w").Id(wire),
			jen.If(jen.Err().Op(":=").Add(call), jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
			jen.Return(jen.Id(r).Dot("fromWire").Call(jen.Id("w"))),
		}
	}
	f.Comment("MarshalJSON implements json.Marshaler.")
	f.Func().Params(self()).Id("MarshalJSON").Params().Params(jen.Index().Byte(), jen.Error()).Block(
		jen.Return(jen.Qual("encoding/json", "Marshal").Call(jen.Id(r).Dot("wire").Call())),
	)
	f.Line()
	f.Comment("UnmarshalJSON implements json.Unmarshaler.")
	f.Func().Params(self()).Id("UnmarshalJSON").Params(jen.Id("data").Index().Byte()).Error().Block(
		decode(jen.Qual("encoding/json", "Unmarshal").Call(jen.Id("data"), jen.Op("&").Id("w")))...,
	)
	f.Line()
	f.Comment("EncodeMsgpack implements msgpack.CustomEncoder.")
	f.Func().Params(self()).Id("EncodeMsgpack").Params(jen.Id("enc").Op("*").Qual(msgpackPkg, "Encoder")).Error().Block(
		jen.Return(jen.Id("enc").Dot("Encode").Call(jen.Id(r).Dot("wire").Call())),
	)
	f.Line()
	f.Comment("DecodeMsgpack implements msgpack.CustomDecoder.")
	f.Func().Params(self()).Id("DecodeMsgpack").Params(jen.Id("dec").Op("*").Qual(msgpackPkg, "Decoder")).Error().Block(
		decode(jen.Id("dec").Dot("Decode").Call(jen.Op("&").Id("w")))...,
	)
}

// NodeFile renders the file of a node kind.
func (g *JenniferGenerator) NodeFile(t *Type) *jen.File {
	f := g.newFile()
	g.idDecl(f, t)
	f.Line()
	for _, in := range []bool{true, false} {
		side := "outbound"
		if in {
			side = "inbound"
		}
		f.Commentf("%s is an edge identifier permitted in the %s refs of a %s.", t.RefName(in), side, t.Name)
		if refs := t.Refs(in); len(refs) > 0 {
			f.Comment("Implemented by " + idList(refs) + ".")
		} else {
			f.Comment("No edge kind connects to this side.")
		}
		f.Type().Id(t.RefName(in)).Interface(
			jen.Qual(icegraphPkg, "ID"),
			jen.Id(t.marker(in)).Params(),
		)
		f.Line()
	}
	r := t.Receiver()
	self := func() *jen.Statement { return jen.Id(r).Op("*").Id(t.Name) }

	if t.Comment != "" {
		f.Comment(t.Comment)
	} else {
		f.Commentf("%s is a node record.", t.Name)
	}
	f.Type().Id(t.Name).Struct(append([]jen.Code{
		jen.Id("id").Id(t.IDName()),
		jen.Id("inbound").Index().Id(t.InboundRefName()),
		jen.Id("outbound").Index().Id(t.OutboundRefName()),
	}, fieldDecls(t)...)...)
	f.Line()
	g.constructor(f, t, nil)
	f.Line()
	f.Comment("ID returns the identifier of the record.")
	f.Func().Params(self()).Id("ID").Params().Id(t.IDName()).Block(jen.Return(jen.Id(r).Dot("id")))
	f.Line()
	f.Comment("Identifier implements icegraph.Identified.")
	f.Func().Params(self()).Id("Identifier").Params().Qual(icegraphPkg, "ID").Block(jen.Return(jen.Id(r).Dot("id")))
	f.Line()
	f.Commentf("Family returns %s.", t.KindConst())
	f.Func().Params(jen.Op("*").Id(t.Name)).Id("Family").Params().String().Block(jen.Return(jen.Id(t.KindConst())))
	for _, in := range []bool{true, false} {
		f.Line()
		g.refMethods(f, t, in)
	}
	f.Line()
	f.Func().Params(self()).Id("wire").Params().Id(t.WireName()).Block(
		jen.Return(jen.Id(t.WireName()).Values(append([]jen.Code{
			jen.Line().Id("ID").Op(":").Id(r).Dot("id").Dot("String").Call(),
			jen.Line().Id("Inbound").Op(":").Qual(icegraphPkg, "RefStrings").Call(jen.Id(r).Dot("inbound")),
			jen.Line().Id("Outbound").Op(":").Qual(icegraphPkg, "RefStrings").Call(jen.Id(r).Dot("outbound")),
		}, wireValues(t, r)...)...)),
	)
	f.Line()
	f.Func().Params(self()).Id("fromWire").Params(jen.Id("w").Id(t.WireName())).Error().Block(
		jen.List(jen.Id("id"), jen.Err()).Op(":=").Id(t.IDParser()).Call(jen.Id("w").Dot("ID")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.List(jen.Id("inbound"), jen.Err()).Op(":=").Qual(icegraphPkg, "ParseRefs").Call(jen.Id("w").Dot("Inbound"), jen.Id(t.refParser(true))),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.List(jen.Id("outbound"), jen.Err()).Op(":=").Qual(icegraphPkg, "ParseRefs").Call(jen.Id("w").Dot("Outbound"), jen.Id(t.refParser(false))),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.Op("*").Id(r).Op("=").Id(t.Name).Values(append([]jen.Code{
			jen.Line().Id("id").Op(":").Id("id"),
			jen.Line().Id("inbound").Op(":").Id("inbound"),
			jen.Line().Id("outbound").Op(":").Id("outbound"),
		}, fromWireValues(t)...)...),
		jen.Return(jen.Nil()),
	)
	f.Line()
	g.codecDecl(f, t)
	f.Line()
	f.Type().Id(t.WireName()).Struct(append([]jen.Code{
		wireField("ID", "id", jen.String()),
		wireField("Inbound", "in_edge_ids", jen.Index().String()),
		wireField("Outbound", "out_edge_ids", jen.Index().String()),
	}, wireFields(t)...)...)
	for _, in := range []bool{true, false} {
		f.Line()
		g.refParser(f, t, in)
	}
	f.Line()
	f.Var().Id("_").Qual(icegraphPkg, "Node").Op("=").Parens(jen.Op("*").Id(t.Name)).Call(jen.Nil())
	return f
}

func wireValues(t *Type, r string) []jen.Code {
	vs := make([]jen.Code, 0, len(t.Fields)+1)
	for _, fd := range t.Fields {
		vs = append(vs, jen.Line().Id(fd.StructName).Op(":").Id(r).Dot(fd.StructName))
	}
	return append(vs, jen.Line())
}

func fromWireValues(t *Type) []jen.Code {
	vs := make([]jen.Code, 0, len(t.Fields)+1)
	for _, fd := range t.Fields {
		vs = append(vs, jen.Line().Id(fd.StructName).Op(":").Id("w").Dot(fd.StructName))
	}
	return append(vs, jen.Line())
}

func idList(ts []*Type) string {
	var s string
	for i, t := range ts {
		switch {
		case i == 0:
		case i == len(ts)-1:
			s += " and "
		default:
			s += ", "
		}
		s += t.IDName()
	}
	return s
}

// constructor renders New<Kind>. Edge constructors take the connection after the token.
func (g *JenniferGenerator) constructor(f *jen.File, t *Type, link jen.Code) {
	params := []jen.Code{jen.Id("gen").Qual(icegraphPkg, "Generator"), jen.Id("token").String()}
	values := []jen.Code{jen.Line().Id("id").Op(":").Id(t.IDConstructor()).Call(jen.Id("gen"), jen.Id("token"))}
	if link != nil {
		params = append(params, jen.Id("link").Add(link))
		values = append(values, jen.Line().Id("link").Op(":").Id("link"))
	}
	for _, fd := range t.Fields {
		params = append(params, jen.Id(fd.Param()).Add(fd.Type.Code()))
		values = append(values, jen.Line().Id(fd.StructName).Op(":").Id(fd.Param()))
	}
	values = append(values, jen.Line())
	f.Commentf("%s returns a new %s. An empty token draws a new one from gen.", t.Constructor(), t.Name)
	f.Func().Id(t.Constructor()).Params(params...).Op("*").Id(t.Name).Block(
		jen.Return(jen.Op("&").Id(t.Name).Values(values...)),
	)
}

// refMethods renders the typed and untyped accessors of one ref set.
func (g *JenniferGenerator) refMethods(f *jen.File, t *Type, in bool) {
	r, typ := t.Receiver(), t.RefName(in)
	self := func() *jen.Statement { return jen.Id(r).Op("*").Id(t.Name) }
	side, field, sideConst := "Outbound", "outbound", "Outbound"
	if in {
		side, field, sideConst = "Inbound", "inbound", "Inbound"
	}
	f.Commentf("%s returns a copy of the %s refs.", side, field)
	f.Func().Params(self()).Id(side).Params().Index().Id(typ).Block(
		jen.Return(jen.Qual("slices", "Clone").Call(jen.Id(r).Dot(field))),
	)
	f.Line()
	f.Commentf("Add%s appends ref to the %s refs.", side, field)
	f.Func().Params(self()).Id("Add"+side).Params(jen.Id("ref").Id(typ)).Block(
		jen.Id(r).Dot(field).Op("=").Append(jen.Id(r).Dot(field), jen.Id("ref")),
	)
	f.Line()
	f.Commentf("Remove%s removes every occurrence of ref from the %s refs.", side, field)
	f.Func().Params(self()).Id("Remove"+side).Params(jen.Id("ref").Id(typ)).Block(
		jen.Id(r).Dot(field).Op("=").Qual(icegraphPkg, "RemoveRef").Call(jen.Id(r).Dot(field), jen.Id("ref")),
	)
	f.Line()
	f.Commentf("%sRefs implements icegraph.Node.", side)
	f.Func().Params(self()).Id(side+"Refs").Params().Index().Qual(icegraphPkg, "ID").Block(
		jen.Return(jen.Qual(icegraphPkg, "RefIDs").Call(jen.Id(r).Dot(field))),
	)
	f.Line()
	f.Commentf("Add%sRef implements icegraph.Node. It fails unless ref is a %s.", side, typ)
	f.Func().Params(self()).Id("Add"+side+"Ref").Params(jen.Id("ref").Qual(icegraphPkg, "ID")).Error().Block(
		jen.List(jen.Id("v"), jen.Id("ok")).Op(":=").Id("ref").Assert(jen.Id(typ)),
		jen.If(jen.Op("!").Id("ok")).Block(
			jen.Return(jen.Qual(icegraphPkg, "NewRefError").Call(
				jen.Id(t.KindConst()), jen.Qual(icegraphPkg, sideConst), jen.Qual(icegraphPkg, "IDString").Call(jen.Id("ref")),
			)),
		),
		jen.Id(r).Dot("Add"+side).Call(jen.Id("v")),
		jen.Return(jen.Nil()),
	)
	f.Line()
	f.Commentf("Remove%sRef implements icegraph.Node.", side)
	f.Func().Params(self()).Id("Remove"+side+"Ref").Params(jen.Id("ref").Qual(icegraphPkg, "ID")).Block(
		jen.If(jen.List(jen.Id("v"), jen.Id("ok")).Op(":=").Id("ref").Assert(jen.Id(typ)), jen.Id("ok")).Block(
			jen.Id(r).Dot("Remove"+side).Call(jen.Id("v")),
		),
	)
}

// refParser renders the function decoding one persisted ref.
func (g *JenniferGenerator) refParser(f *jen.File, t *Type, in bool) {
	typ, sideConst := t.RefName(in), "Outbound"
	if in {
		sideConst = "Inbound"
	}
	refErr := jen.Return(jen.Nil(), jen.Qual(icegraphPkg, "NewRefError").Call(jen.Id(t.KindConst()), jen.Qual(icegraphPkg, sideConst), jen.Id("s")))
	refs := t.Refs(in)
	if len(refs) == 0 {
		f.Func().Id(t.refParser(in)).Params(jen.Id("s").String()).Params(jen.Id(typ), jen.Error()).Block(
			jen.If(jen.List(jen.Id("_"), jen.Id("_"), jen.Err()).Op(":=").Qual(icegraphPkg, "SplitID").Call(jen.Id("s")), jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), jen.Err()),
			),
			refErr,
		)
		return
	}
	cases := make([]jen.Code, 0, len(refs))
	for _, e := range refs {
		cases = append(cases, jen.Case(jen.Id(e.KindConst())).Block(
			jen.List(jen.Id("id"), jen.Err()).Op(":=").Id(e.IDParser()).Call(jen.Id("s")),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.Return(jen.Id("id"), jen.Nil()),
		))
	}
	f.Func().Id(t.refParser(in)).Params(jen.Id("s").String()).Params(jen.Id(typ), jen.Error()).Block(
		jen.List(jen.Id("kind"), jen.Id("_"), jen.Err()).Op(":=").Qual(icegraphPkg, "SplitID").Call(jen.Id("s")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Switch(jen.Id("kind")).Block(cases...),
		refErr,
	)
}

// EdgeFile renders the file of an edge kind.
func (g *JenniferGenerator) EdgeFile(t *Type) *jen.File {
	f := g.newFile()
	g.idDecl(f, t)
	for _, s := range t.Sides {
		f.Line()
		f.Func().Params(jen.Id(t.IDName())).Id(s.Node.marker(s.Inbound)).Params().Block()
	}
	f.Line()
	conn := t.ConnectionName()
	f.Commentf("%s is the closed set of connections a %s edge may carry.", conn, t.Name)
	f.Type().Id(conn).Interface(
		jen.Qual(icegraphPkg, "Connection"),
		jen.Id(t.connectionMarker()).Params(),
	)
	for _, c := range t.Connections {
		f.Line()
		f.Commentf("%s connects a %s to a %s.", c.StructName(), c.From.Name, c.To.Name)
		f.Type().Id(c.StructName()).Struct(
			jen.Id("Source").Id(c.From.IDName()),
			jen.Id("Target").Id(c.To.IDName()),
		)
		f.Line()
		f.Commentf("Variant returns %q.", c.Name)
		f.Func().Params(jen.Id(c.StructName())).Id("Variant").Params().String().Block(jen.Return(jen.Lit(c.Name)))
		f.Line()
		f.Comment("Endpoints returns the source and target identifiers.")
		f.Func().Params(jen.Id("c").Id(c.StructName())).Id("Endpoints").Params().Params(
			jen.Id("source"), jen.Id("target").Qual(icegraphPkg, "ID"),
		).Block(jen.Return(jen.Id("c").Dot("Source"), jen.Id("c").Dot("Target")))
		f.Line()
		f.Func().Params(jen.Id(c.StructName())).Id(t.connectionMarker()).Params().Block()
	}
	f.Line()
	r := t.Receiver()
	self := func() *jen.Statement { return jen.Id(r).Op("*").Id(t.Name) }
	if t.Comment != "" {
		f.Comment(t.Comment)
	} else {
		f.Commentf("%s is an edge record.", t.Name)
	}
	f.Type().Id(t.Name).Struct(append([]jen.Code{
		jen.Id("id").Id(t.IDName()),
		jen.Id("link").Id(conn),
	}, fieldDecls(t)...)...)
	f.Line()
	g.constructor(f, t, jen.Id(conn))
	f.Line()
	f.Comment("ID returns the identifier of the record.")
	f.Func().Params(self()).Id("ID").Params().Id(t.IDName()).Block(jen.Return(jen.Id(r).Dot("id")))
	f.Line()
	f.Comment("Link returns the typed connection.")
	f.Func().Params(self()).Id("Link").Params().Id(conn).Block(jen.Return(jen.Id(r).Dot("link")))
	f.Line()
	f.Comment("Identifier implements icegraph.Identified.")
	f.Func().Params(self()).Id("Identifier").Params().Qual(icegraphPkg, "ID").Block(jen.Return(jen.Id(r).Dot("id")))
	f.Line()
	f.Commentf("Family returns %s.", t.KindConst())
	f.Func().Params(jen.Op("*").Id(t.Name)).Id("Family").Params().String().Block(jen.Return(jen.Id(t.KindConst())))
	f.Line()
	f.Comment("Connection implements icegraph.Edge.")
	f.Func().Params(self()).Id("Connection").Params().Qual(icegraphPkg, "Connection").Block(
		jen.If(jen.Id(r).Dot("link").Op("==").Nil()).Block(jen.Return(jen.Nil())),
		jen.Return(jen.Id(r).Dot("link")),
	)
	f.Line()
	f.Func().Params(self()).Id("wire").Params().Id(t.WireName()).Block(
		jen.Return(jen.Id(t.WireName()).Values(append([]jen.Code{
			jen.Line().Id("ID").Op(":").Id(r).Dot("id").Dot("String").Call(),
			jen.Line().Id("Connection").Op(":").Qual(icegraphPkg, "WireConnection").Call(jen.Id(r).Dot("Connection").Call()),
		}, wireValues(t, r)...)...)),
	)
	f.Line()
	f.Func().Params(self()).Id("fromWire").Params(jen.Id("w").Id(t.WireName())).Error().Block(
		jen.List(jen.Id("id"), jen.Err()).Op(":=").Id(t.IDParser()).Call(jen.Id("w").Dot("ID")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.List(jen.Id("link"), jen.Err()).Op(":=").Id(t.ConnectionParser()).Call(jen.Id("w").Dot("Connection")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.Op("*").Id(r).Op("=").Id(t.Name).Values(append([]jen.Code{
			jen.Line().Id("id").Op(":").Id("id"),
			jen.Line().Id("link").Op(":").Id("link"),
		}, fromWireValues(t)...)...),
		jen.Return(jen.Nil()),
	)
	f.Line()
	g.codecDecl(f, t)
	f.Line()
	f.Type().Id(t.WireName()).Struct(append([]jen.Code{
		wireField("ID", "id", jen.String()),
		wireField("Connection", "connection", jen.Qual(icegraphPkg, "ConnectionWire")),
	}, wireFields(t)...)...)
	f.Line()
	cases := make([]jen.Code, 0, len(t.Connections))
	for _, c := range t.Connections {
		cases = append(cases, jen.Case(jen.Lit(c.Name)).Block(
			jen.List(jen.Id("source"), jen.Err()).Op(":=").Id(c.From.IDParser()).Call(jen.Id("w").Dot("Source")),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.List(jen.Id("target"), jen.Err()).Op(":=").Id(c.To.IDParser()).Call(jen.Id("w").Dot("Target")),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.Return(jen.Id(c.StructName()).Values(
				jen.Id("Source").Op(":").Id("source"),
				jen.Id("Target").Op(":").Id("target"),
			), jen.Nil()),
		))
	}
	f.Func().Id(t.ConnectionParser()).Params(jen.Id("w").Qual(icegraphPkg, "ConnectionWire")).Params(jen.Id(conn), jen.Error()).Block(
		jen.Switch(jen.Id("w").Dot("Variant")).Block(cases...),
		jen.Return(jen.Nil(), jen.Qual(icegraphPkg, "NewConnectionError").Call(jen.Id(t.KindConst()), jen.Id("w").Dot("Variant"))),
	)
	f.Line()
	f.Var().Id("_").Qual(icegraphPkg, "Edge").Op("=").Parens(jen.Op("*").Id(t.Name)).Call(jen.Nil())
	return f
}
