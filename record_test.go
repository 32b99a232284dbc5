package icegraph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/icegraph"
)

type widgetID string

func (widgetID) Kind() string      { return "Widget" }
func (id widgetID) Token() string  { return string(id) }
func (id widgetID) String() string { return "Widget:" + string(id) }

type link struct{ src, dst icegraph.ID }

func (link) Variant() string                           { return "Link" }
func (l link) Endpoints() (source, target icegraph.ID) { return l.src, l.dst }

func TestRemoveRef(t *testing.T) {
	t.Parallel()

	refs := []widgetID{"a", "b", "a", "c"}
	out := icegraph.RemoveRef(refs, "a")
	assert.Equal(t, []widgetID{"b", "c"}, out)
	assert.Equal(t, []widgetID{"a", "b", "a", "c"}, refs, "input is left untouched")
	assert.Equal(t, refs, icegraph.RemoveRef(refs, "z"))
	assert.Nil(t, icegraph.RemoveRef([]widgetID{"a", "a"}, "a"))
	assert.Nil(t, icegraph.RemoveRef[widgetID](nil, "a"))
}

func TestRefConversions(t *testing.T) {
	t.Parallel()

	refs := []widgetID{"a", "b"}
	assert.Equal(t, []icegraph.ID{widgetID("a"), widgetID("b")}, icegraph.RefIDs(refs))
	assert.Equal(t, []string{"Widget:a", "Widget:b"}, icegraph.RefStrings(refs))
	assert.Nil(t, icegraph.RefIDs[widgetID](nil))
	assert.Nil(t, icegraph.RefStrings[widgetID](nil))

	ids := icegraph.RefIDs(refs)
	assert.True(t, icegraph.ContainsRef(ids, widgetID("b")))
	assert.False(t, icegraph.ContainsRef(ids, widgetID("c")))
	assert.False(t, icegraph.ContainsRef(ids, nil))
}

func TestParseRefs(t *testing.T) {
	t.Parallel()

	parse := func(s string) (widgetID, error) {
		token, err := icegraph.ParseKindToken(s, "Widget")
		return widgetID(token), err
	}
	refs, err := icegraph.ParseRefs([]string{"Widget:a", "Widget:b"}, parse)
	require.NoError(t, err)
	assert.Equal(t, []widgetID{"a", "b"}, refs)

	refs, err = icegraph.ParseRefs(nil, parse)
	require.NoError(t, err)
	assert.Nil(t, refs)

	_, err = icegraph.ParseRefs([]string{"Widget:a", "Gadget:b"}, parse)
	assert.True(t, errors.Is(err, icegraph.ErrIdentifierParseFailed))
}

func TestWireConnection(t *testing.T) {
	t.Parallel()

	assert.Equal(t, icegraph.ConnectionWire{}, icegraph.WireConnection(nil))
	w := icegraph.WireConnection(link{src: widgetID("a"), dst: widgetID("b")})
	assert.Equal(t, icegraph.ConnectionWire{Variant: "Link", Source: "Widget:a", Target: "Widget:b"}, w)
	assert.Equal(t, "", icegraph.IDString(nil))
}
