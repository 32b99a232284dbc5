// Code generated by icegraph. DO NOT EDIT.

package testgraph

import (
	"encoding/json"

	"github.com/syssam/icegraph"
	"github.com/vmihailenco/msgpack/v5"
)

// KnowsKind is the kind and family name of Knows records.
const KnowsKind = "Knows"

// KnowsID identifies a Knows record.
type KnowsID struct {
	token string
}

// NewKnowsID returns the identifier "Knows:<token>". An empty token draws a new one from gen.
func NewKnowsID(gen icegraph.Generator, token string) KnowsID {
	if token == "" {
		token = icegraph.NewToken(gen)
	}
	return KnowsID{token: token}
}

// ParseKnowsID parses a "Knows:<token>" identifier.
func ParseKnowsID(s string) (KnowsID, error) {
	token, err := icegraph.ParseKindToken(s, KnowsKind)
	if err != nil {
		return KnowsID{}, err
	}
	return KnowsID{token: token}, nil
}

// Kind returns KnowsKind.
func (KnowsID) Kind() string {
	return KnowsKind
}

// Token returns the part after the separator.
func (id KnowsID) Token() string {
	return id.token
}

// String returns "Knows:<token>".
func (id KnowsID) String() string {
	return icegraph.FormatID(KnowsKind, id.token)
}

// IsZero reports whether id is the zero identifier.
func (id KnowsID) IsZero() bool {
	return id.token == ""
}

func (KnowsID) personOutboundRef() {}

func (KnowsID) personInboundRef() {}

// KnowsConnection is the closed set of connections a Knows edge may carry.
type KnowsConnection interface {
	icegraph.Connection
	knowsConnection()
}

// KnowsAcquaintance connects a Person to a Person.
type KnowsAcquaintance struct {
	Source PersonID
	Target PersonID
}

// Variant returns "Acquaintance".
func (KnowsAcquaintance) Variant() string {
	return "Acquaintance"
}

// Endpoints returns the source and target identifiers.
func (c KnowsAcquaintance) Endpoints() (source, target icegraph.ID) {
	return c.Source, c.Target
}

func (KnowsAcquaintance) knowsConnection() {}

// Knows is an edge record.
type Knows struct {
	id     KnowsID
	link   KnowsConnection
	Weight float64
}

// NewKnows returns a new Knows. An empty token draws a new one from gen.
func NewKnows(gen icegraph.Generator, token string, link KnowsConnection, weight float64) *Knows {
	return &Knows{
		id:     NewKnowsID(gen, token),
		link:   link,
		Weight: weight,
	}
}

// ID returns the identifier of the record.
func (k *Knows) ID() KnowsID {
	return k.id
}

// Link returns the typed connection.
func (k *Knows) Link() KnowsConnection {
	return k.link
}

// Identifier implements icegraph.Identified.
func (k *Knows) Identifier() icegraph.ID {
	return k.id
}

// Family returns KnowsKind.
func (*Knows) Family() string {
	return KnowsKind
}

// Connection implements icegraph.Edge.
func (k *Knows) Connection() icegraph.Connection {
	if k.link == nil {
		return nil
	}
	return k.link
}

func (k *Knows) wire() knowsWire {
	return knowsWire{
		ID:         k.id.String(),
		Connection: icegraph.WireConnection(k.Connection()),
		Weight:     k.Weight,
	}
}

func (k *Knows) fromWire(w knowsWire) error {
	id, err := ParseKnowsID(w.ID)
	if err != nil {
		return err
	}
	link, err := parseKnowsConnection(w.Connection)
	if err != nil {
		return err
	}
	*k = Knows{
		id:     id,
		link:   link,
		Weight: w.Weight,
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (k *Knows) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.wire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *Knows) UnmarshalJSON(data []byte) error {
	var w knowsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return k.fromWire(w)
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (k *Knows) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(k.wire())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (k *Knows) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w knowsWire
	if err := dec.Decode(&w); err != nil {
		return err
	}
	return k.fromWire(w)
}

type knowsWire struct {
	ID         string                  `json:"id" msgpack:"id"`
	Connection icegraph.ConnectionWire `json:"connection" msgpack:"connection"`
	Weight     float64                 `json:"weight" msgpack:"weight"`
}

func parseKnowsConnection(w icegraph.ConnectionWire) (KnowsConnection, error) {
	switch w.Variant {
	case "Acquaintance":
		source, err := ParsePersonID(w.Source)
		if err != nil {
			return nil, err
		}
		target, err := ParsePersonID(w.Target)
		if err != nil {
			return nil, err
		}
		return KnowsAcquaintance{Source: source, Target: target}, nil
	}
	return nil, icegraph.NewConnectionError(KnowsKind, w.Variant)
}

var _ icegraph.Edge = (*Knows)(nil)
