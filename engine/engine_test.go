package engine_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/icegraph"
	"github.com/syssam/icegraph/dialect"
	"github.com/syssam/icegraph/engine"
	"github.com/syssam/icegraph/internal/testgraph"
)

var dialects = []string{dialect.Badger, dialect.Bolt, dialect.SQLite}

func openEngine(t *testing.T, name string, opts ...engine.Option) *engine.Engine {
	t.Helper()
	base := []engine.Option{
		engine.WithDialect(name),
		engine.WithRegistry(testgraph.Registry),
		engine.WithGenerator(icegraph.NewSequenceGenerator("t")),
		engine.WithLogger(slog.New(slog.DiscardHandler)),
	}
	eng, err := engine.Open(filepath.Join(t.TempDir(), "store"), append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	return eng
}

// eachDialect runs fn against a fresh engine of every dialect.
func eachDialect(t *testing.T, fn func(t *testing.T, eng *engine.Engine), opts ...engine.Option) {
	for _, name := range dialects {
		t.Run(name, func(t *testing.T) {
			fn(t, openEngine(t, name, opts...))
		})
	}
}

// employment stores Ada, Acme and an EmploysAt edge between them.
func employment(t *testing.T, eng *engine.Engine) (*testgraph.Person, *testgraph.Company, *testgraph.EmploysAt) {
	t.Helper()
	ctx := context.Background()
	gen := eng.Generator()
	ada := testgraph.NewPerson(gen, "", "Ada")
	acme := testgraph.NewCompany(gen, "", "Acme")
	require.NoError(t, eng.AddNode(ctx, ada))
	require.NoError(t, eng.AddNode(ctx, acme))
	e := testgraph.NewEmploysAt(gen, "", testgraph.EmploysAtEmployment{Source: ada.ID(), Target: acme.ID()}, 1843)
	require.NoError(t, eng.AddEdge(ctx, e, ada, acme))
	return ada, acme, e
}

func TestOpen(t *testing.T) {
	eachDialect(t, func(t *testing.T, eng *engine.Engine) {
		families, err := eng.Families(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"Company", "EmploysAt", "Knows", "Owns", "Person", dialect.DefaultFamily}, families)
		assert.Equal(t, "msgpack", eng.Codec().Name())
		assert.Same(t, testgraph.Registry, eng.Registry())
	})
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	for _, name := range dialects {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "store")
			opts := []engine.Option{engine.WithDialect(name), engine.WithKinds("Person"), engine.WithLogger(slog.New(slog.DiscardHandler))}
			eng, err := engine.Open(path, opts...)
			require.NoError(t, err)
			ada := testgraph.NewPerson(nil, "ada", "Ada")
			require.NoError(t, eng.AddNode(ctx, ada))
			require.NoError(t, eng.Close())

			eng, err = engine.Open(path, engine.WithDialect(name), engine.WithLogger(slog.New(slog.DiscardHandler)))
			require.NoError(t, err)
			defer eng.Close()
			families, err := eng.Families(ctx)
			require.NoError(t, err)
			assert.Contains(t, families, "Person")
			got, err := engine.Get[testgraph.Person](ctx, eng, "Person:ada")
			require.NoError(t, err)
			assert.Equal(t, ada, got)
		})
	}
}

func TestOpenInMemory(t *testing.T) {
	eng, err := engine.Open("", engine.WithInMemory(), engine.WithKinds("Person"), engine.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	defer eng.Close()
	assert.Equal(t, dialect.Badger, eng.Dialect())

	_, err = engine.Open("", engine.WithInMemory(), engine.WithDialect(dialect.Bolt))
	assert.Error(t, err)
}

func TestOpenOptionErrors(t *testing.T) {
	for name, opt := range map[string]engine.Option{
		"dialect":   engine.WithDialect("rocksdb"),
		"driver":    engine.WithDriver(nil),
		"generator": engine.WithGenerator(nil),
		"codec":     engine.WithCodec(nil),
		"head":      engine.WithHeadSize(0),
		"kinds":     engine.WithKinds(""),
		"cascade":   engine.WithCascade(),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := engine.Open(t.TempDir(), opt)
			assert.Error(t, err)
		})
	}
}

func TestOpenDriver(t *testing.T) {
	for _, name := range dialects {
		drv, err := engine.OpenDriver(name, filepath.Join(t.TempDir(), "store"))
		require.NoError(t, err, name)
		assert.Equal(t, name, drv.Dialect())
		require.NoError(t, drv.Close())
	}
	_, err := engine.OpenDriver("rocksdb", t.TempDir())
	assert.EqualError(t, err, `engine: unsupported dialect "rocksdb"`)
}

func TestNodeCRUD(t *testing.T) {
	ctx := context.Background()
	eachDialect(t, func(t *testing.T, eng *engine.Engine) {
		ada := testgraph.NewPerson(eng.Generator(), "", "Ada")
		require.NoError(t, eng.AddNode(ctx, ada))

		var got testgraph.Person
		require.NoError(t, eng.GetNode(ctx, ada.ID().String(), &got))
		assert.Equal(t, ada, &got)

		ada.Name = "Ada Lovelace"
		require.NoError(t, eng.UpdateNode(ctx, ada))
		updated, err := engine.Get[testgraph.Person](ctx, eng, ada.ID().String())
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", updated.Name)

		require.NoError(t, eng.RemoveNode(ctx, ada.ID().String()))
		err = eng.GetNode(ctx, ada.ID().String(), &got)
		assert.Equal(t, icegraph.KeyNotFound, icegraph.KindOf(err))
		assert.True(t, icegraph.IsNotFound(err))

		require.NoError(t, eng.RemoveNode(ctx, ada.ID().String()), "removing an absent node is a no-op")
	})
}

func TestAddEdge(t *testing.T) {
	ctx := context.Background()
	eachDialect(t, func(t *testing.T, eng *engine.Engine) {
		ada, acme, e := employment(t, eng)

		person, err := engine.Get[testgraph.Person](ctx, eng, ada.ID().String())
		require.NoError(t, err)
		assert.Equal(t, []testgraph.PersonOutboundRef{e.ID()}, person.Outbound())
		assert.Empty(t, person.Inbound())

		company, err := engine.Get[testgraph.Company](ctx, eng, acme.ID().String())
		require.NoError(t, err)
		assert.Equal(t, []testgraph.CompanyInboundRef{e.ID()}, company.Inbound())
		assert.Empty(t, company.Outbound())

		var edge testgraph.EmploysAt
		require.NoError(t, eng.GetEdge(ctx, e.ID().String(), &edge))
		assert.Equal(t, testgraph.EmploysAtEmployment{Source: ada.ID(), Target: acme.ID()}, edge.Link())
		assert.Equal(t, 1843, edge.Since)
		src, dst := edge.Connection().Endpoints()
		assert.Equal(t, ada.ID().String(), src.String())
		assert.Equal(t, acme.ID().String(), dst.String())

		assert.Equal(t, person, ada, "the caller's source carries the new ref")
		assert.Equal(t, company, acme, "the caller's target carries the new ref")

		n, err := eng.CountRecords(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})
}

func TestAddEdgeStaleEndpoint(t *testing.T) {
	ctx := context.Background()
	eachDialect(t, func(t *testing.T, eng *engine.Engine) {
		gen := eng.Generator()
		ada := testgraph.NewPerson(gen, "", "Ada")
		bob := testgraph.NewPerson(gen, "", "Bob")
		acme := testgraph.NewCompany(gen, "", "Acme")
		for _, n := range []icegraph.Node{ada, bob, acme} {
			require.NoError(t, eng.AddNode(ctx, n))
		}
		stale, err := engine.Get[testgraph.Person](ctx, eng, ada.ID().String())
		require.NoError(t, err)

		e := testgraph.NewEmploysAt(gen, "", testgraph.EmploysAtEmployment{Source: ada.ID(), Target: acme.ID()}, 1)
		require.NoError(t, eng.AddEdge(ctx, e, ada, acme))
		k := testgraph.NewKnows(gen, "", testgraph.KnowsAcquaintance{Source: ada.ID(), Target: bob.ID()}, 1)
		require.NoError(t, eng.AddEdge(ctx, k, stale, bob))

		got, err := engine.Get[testgraph.Person](ctx, eng, ada.ID().String())
		require.NoError(t, err)
		assert.Equal(t, []testgraph.PersonOutboundRef{e.ID(), k.ID()}, got.Outbound())
		assert.Equal(t, got, stale)
	})
}

func TestAddEdgeDiscardsUnsavedFields(t *testing.T) {
	ctx := context.Background()
	eachDialect(t, func(t *testing.T, eng *engine.Engine) {
		gen := eng.Generator()
		ada := testgraph.NewPerson(gen, "", "Ada")
		acme := testgraph.NewCompany(gen, "", "Acme")
		require.NoError(t, eng.AddNode(ctx, ada))
		require.NoError(t, eng.AddNode(ctx, acme))

		ada.Name = "Ada Lovelace"
		e := testgraph.NewEmploysAt(gen, "", testgraph.EmploysAtEmployment{Source: ada.ID(), Target: acme.ID()}, 1)
		require.NoError(t, eng.AddEdge(ctx, e, ada, acme))
		assert.Equal(t, "Ada", ada.Name)
		assert.Equal(t, []testgraph.PersonOutboundRef{e.ID()}, ada.Outbound())

		ada.Name = "Ada Lovelace"
		require.NoError(t, eng.UpdateNode(ctx, ada))
		got, err := engine.Get[testgraph.Person](ctx, eng, ada.ID().String())
		require.NoError(t, err)
		assert.Equal(t, ada, got)
	})
}

func TestAddEdgeSelfLoop(t *testing.T) {
	ctx := context.Background()
	eachDialect(t, func(t *testing.T, eng *engine.Engine) {
		ada := testgraph.NewPerson(eng.Generator(), "", "Ada")
		require.NoError(t, eng.AddNode(ctx, ada))
		k := testgraph.NewKnows(eng.Generator(), "", testgraph.KnowsAcquaintance{Source: ada.ID(), Target: ada.ID()}, 1)
		require.NoError(t, eng.AddEdge(ctx, k, ada, ada))

		got, err := engine.Get[testgraph.Person](ctx, eng, ada.ID().String())
		require.NoError(t, err)
		assert.Equal(t, []testgraph.PersonInboundRef{k.ID()}, got.Inbound())
		assert.Equal(t, []testgraph.PersonOutboundRef{k.ID()}, got.Outbound())
	})
}

func TestAddEdgeUnstoredEndpoints(t *testing.T) {
	ctx := context.Background()
	eachDialect(t, func(t *testing.T, eng *engine.Engine) {
		ada := testgraph.NewPerson(nil, "ada", "Ada")
		acme := testgraph.NewCompany(nil, "acme", "Acme")
		e := testgraph.NewEmploysAt(nil, "e1", testgraph.EmploysAtEmployment{Source: ada.ID(), Target: acme.ID()}, 1)
		require.NoError(t, eng.AddEdge(ctx, e, ada, acme))

		got, err := engine.Get[testgraph.Company](ctx, eng, "Company:acme")
		require.NoError(t, err)
		assert.Equal(t, "Acme", got.Name)
		assert.Equal(t, []testgraph.CompanyInboundRef{e.ID()}, got.Inbound())
	})
}

func TestScenario(t *testing.T) {
	ctx := context.Background()
	eachDialect(t, func(t *testing.T, eng *engine.Engine) {
		ada, acme, e := employment(t, eng)
		assert.Contains(t, ada.Outbound(), testgraph.PersonOutboundRef(e.ID()))
		assert.Contains(t, acme.Inbound(), testgraph.CompanyInboundRef(e.ID()))

		n, err := eng.CountRecords(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		n, err = eng.Count(ctx, testgraph.PersonKind)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		require.NoError(t, eng.DestroyEverything(ctx))
		n, err = eng.CountRecords(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		families, err := eng.Families(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{dialect.DefaultFamily}, families)

		err = eng.AddNode(ctx, ada)
		assert.Equal(t, icegraph.PartitionNotFound, icegraph.KindOf(err))
		require.NoError(t, eng.EnsureFamily(ctx, testgraph.PersonKind))
		require.NoError(t, eng.AddNode(ctx, ada))
	})
}

func TestErrors(t *testing.T) {
	ctx := context.Background()
	eachDialect(t, func(t *testing.T, eng *engine.Engine) {
		var p testgraph.Person
		for _, id := range []string{"Person", "Person:", ":ada", "Company:acme"} {
			err := eng.GetNode(ctx, id, &p)
			assert.Equal(t, icegraph.IdentifierParseFailed, icegraph.KindOf(err), id)
		}
		assert.ErrorIs(t, eng.RemoveNode(ctx, "nope"), icegraph.ErrIdentifierParseFailed)
		assert.ErrorIs(t, eng.RemoveEdge(ctx, "EmploysAt"), icegraph.ErrIdentifierParseFailed)
		assert.ErrorIs(t, eng.AddNode(ctx, &testgraph.Person{}), icegraph.ErrIdentifierParseFailed)

		err := eng.GetNode(ctx, "Person:missing", &p)
		var ie *icegraph.Error
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, icegraph.KeyNotFound, ie.Kind)
		assert.Equal(t, "get_node", ie.Op)
		assert.Equal(t, "Person", ie.Family)
		assert.Equal(t, "Person:missing", ie.Key)

		_, err = eng.Count(ctx, "Missing")
		assert.True(t, icegraph.IsPartitionNotFound(err))
		assert.Equal(t, icegraph.FamilyCreationFailed, icegraph.KindOf(eng.EnsureFamily(ctx, "")))
	})
}

func TestInvalidEndpoint(t *testing.T) {
	ctx := context.Background()
	eachDialect(t, func(t *testing.T, eng *engine.Engine) {
		gen := eng.Generator()
		ada := testgraph.NewPerson(gen, "", "Ada")
		bob := testgraph.NewPerson(gen, "", "Bob")
		acme := testgraph.NewCompany(gen, "", "Acme")
		e := testgraph.NewEmploysAt(gen, "", testgraph.EmploysAtEmployment{Source: ada.ID(), Target: acme.ID()}, 1)

		err := eng.AddEdge(ctx, e, bob, acme)
		assert.Equal(t, icegraph.InvalidEndpoint, icegraph.KindOf(err))
		assert.ErrorIs(t, eng.AddEdge(ctx, e, ada, nil), icegraph.ErrInvalidEndpoint)
		noLink := testgraph.NewEmploysAt(gen, "", nil, 1)
		assert.ErrorIs(t, eng.AddEdge(ctx, noLink, ada, acme), icegraph.ErrInvalidEndpoint)

		n, err := eng.CountRecords(ctx)
		require.NoError(t, err)
		assert.Zero(t, n, "nothing is written")
		assert.Empty(t, bob.Outbound())
	})
}

func TestAddEdgeMissingFamily(t *testing.T) {
	ctx := context.Background()
	eachDialect(t, func(t *testing.T, eng *engine.Engine) {
		ada := testgraph.NewPerson(nil, "ada", "Ada")
		acme := testgraph.NewCompany(nil, "acme", "Acme")
		require.NoError(t, eng.AddNode(ctx, ada))
		require.NoError(t, eng.AddNode(ctx, acme))

		e := testgraph.NewEmploysAt(nil, "e1", testgraph.EmploysAtEmployment{Source: ada.ID(), Target: acme.ID()}, 1)
		err := eng.AddEdge(ctx, e, ada, acme)
		assert.Equal(t, icegraph.PartitionNotFound, icegraph.KindOf(err))
		assert.Empty(t, ada.Outbound())

		got, err := engine.Get[testgraph.Person](ctx, eng, "Person:ada")
		require.NoError(t, err)
		assert.Empty(t, got.Outbound())
	}, engine.WithRegistry(nil), engine.WithKinds(testgraph.PersonKind, testgraph.CompanyKind))
}

func TestCodecs(t *testing.T) {
	ctx := context.Background()
	for _, codec := range []icegraph.Codec{icegraph.MsgpackCodec{}, icegraph.JSONCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			eng := openEngine(t, dialect.Badger, engine.WithCodec(codec))
			ada, acme, e := employment(t, eng)
			for _, want := range []icegraph.Record{ada, acme, e} {
				got, ok := testgraph.Registry.NewRecord(want.Family())
				require.True(t, ok)
				var err error
				switch r := got.(type) {
				case icegraph.Node:
					err = eng.GetNode(ctx, want.Identifier().String(), r)
				case icegraph.Edge:
					err = eng.GetEdge(ctx, want.Identifier().String(), r)
				}
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestDecodeFailed(t *testing.T) {
	ctx := context.Background()
	for _, name := range dialects {
		t.Run(name, func(t *testing.T) {
			drv, err := engine.OpenDriver(name, filepath.Join(t.TempDir(), "store"))
			require.NoError(t, err)
			eng, err := engine.Open("", engine.WithDriver(drv), engine.WithKinds("Person"), engine.WithLogger(slog.New(slog.DiscardHandler)))
			require.NoError(t, err)
			defer eng.Close()
			require.NoError(t, dialect.Update(ctx, drv, func(tx dialect.Tx) error {
				return tx.Put("Person", []byte("Person:bad"), []byte{0xc1})
			}))
			var p testgraph.Person
			err = eng.GetNode(ctx, "Person:bad", &p)
			assert.Equal(t, icegraph.DecodeFailed, icegraph.KindOf(err))
		})
	}
}
