package icegraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/icegraph"
	"github.com/syssam/icegraph/internal/testgraph"
)

func TestCodecByName(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]string{"": "msgpack", "msgpack": "msgpack", "json": "json"} {
		c, ok := icegraph.CodecByName(name)
		require.True(t, ok, name)
		assert.Equal(t, want, c.Name())
	}
	_, ok := icegraph.CodecByName("gob")
	assert.False(t, ok)
	assert.Equal(t, "msgpack", icegraph.DefaultCodec.Name())
}

func TestCodecDecodeError(t *testing.T) {
	t.Parallel()

	for _, c := range []icegraph.Codec{icegraph.MsgpackCodec{}, icegraph.JSONCodec{}} {
		var p testgraph.Person
		assert.Error(t, c.Unmarshal([]byte{0xc1, 0x00}, &p), c.Name())
	}
}

func TestMsgpackSmallerThanJSON(t *testing.T) {
	t.Parallel()

	p := testgraph.NewPerson(nil, "ada", "Ada Lovelace")
	p.AddOutbound(testgraph.NewKnowsID(nil, ""))
	mp, err := icegraph.MsgpackCodec{}.Marshal(p)
	require.NoError(t, err)
	js, err := icegraph.JSONCodec{}.Marshal(p)
	require.NoError(t, err)
	assert.Less(t, len(mp), len(js))
}
