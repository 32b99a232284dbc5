package icegraph

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec turns records into the bytes stored under their key and back.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// MsgpackCodec encodes records with MessagePack. It is the default codec.
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return "msgpack" }

func (MsgpackCodec) Marshal(v any) ([]byte, error) { return msgpack.Marshal(v) }

func (MsgpackCodec) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

// JSONCodec encodes records as JSON. It is slower and larger than MsgpackCodec but the
// stored values stay human readable.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// DefaultCodec is the codec used when none is configured.
var DefaultCodec Codec = MsgpackCodec{}

// CodecByName returns the codec registered under name ("msgpack" or "json").
func CodecByName(name string) (Codec, bool) {
	switch name {
	case "", "msgpack":
		return MsgpackCodec{}, true
	case "json":
		return JSONCodec{}, true
	default:
		return nil, false
	}
}
