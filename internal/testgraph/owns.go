// Code generated by icegraph. DO NOT EDIT.

package testgraph

import (
	"encoding/json"

	"github.com/syssam/icegraph"
	"github.com/vmihailenco/msgpack/v5"
)

// OwnsKind is the kind and family name of Owns records.
const OwnsKind = "Owns"

// OwnsID identifies a Owns record.
type OwnsID struct {
	token string
}

// NewOwnsID returns the identifier "Owns:<token>". An empty token draws a new one from gen.
func NewOwnsID(gen icegraph.Generator, token string) OwnsID {
	if token == "" {
		token = icegraph.NewToken(gen)
	}
	return OwnsID{token: token}
}

// ParseOwnsID parses a "Owns:<token>" identifier.
func ParseOwnsID(s string) (OwnsID, error) {
	token, err := icegraph.ParseKindToken(s, OwnsKind)
	if err != nil {
		return OwnsID{}, err
	}
	return OwnsID{token: token}, nil
}

// Kind returns OwnsKind.
func (OwnsID) Kind() string {
	return OwnsKind
}

// Token returns the part after the separator.
func (id OwnsID) Token() string {
	return id.token
}

// String returns "Owns:<token>".
func (id OwnsID) String() string {
	return icegraph.FormatID(OwnsKind, id.token)
}

// IsZero reports whether id is the zero identifier.
func (id OwnsID) IsZero() bool {
	return id.token == ""
}

func (OwnsID) personOutboundRef() {}

func (OwnsID) companyInboundRef() {}

func (OwnsID) companyOutboundRef() {}

// OwnsConnection is the closed set of connections a Owns edge may carry.
type OwnsConnection interface {
	icegraph.Connection
	ownsConnection()
}

// OwnsHolding connects a Person to a Company.
type OwnsHolding struct {
	Source PersonID
	Target CompanyID
}

// Variant returns "Holding".
func (OwnsHolding) Variant() string {
	return "Holding"
}

// Endpoints returns the source and target identifiers.
func (c OwnsHolding) Endpoints() (source, target icegraph.ID) {
	return c.Source, c.Target
}

func (OwnsHolding) ownsConnection() {}

// OwnsSubsidiary connects a Company to a Company.
type OwnsSubsidiary struct {
	Source CompanyID
	Target CompanyID
}

// Variant returns "Subsidiary".
func (OwnsSubsidiary) Variant() string {
	return "Subsidiary"
}

// Endpoints returns the source and target identifiers.
func (c OwnsSubsidiary) Endpoints() (source, target icegraph.ID) {
	return c.Source, c.Target
}

func (OwnsSubsidiary) ownsConnection() {}

// Owns is an edge record.
type Owns struct {
	id    OwnsID
	link  OwnsConnection
	Share float64
}

// NewOwns returns a new Owns. An empty token draws a new one from gen.
func NewOwns(gen icegraph.Generator, token string, link OwnsConnection, share float64) *Owns {
	return &Owns{
		id:    NewOwnsID(gen, token),
		link:  link,
		Share: share,
	}
}

// ID returns the identifier of the record.
func (o *Owns) ID() OwnsID {
	return o.id
}

// Link returns the typed connection.
func (o *Owns) Link() OwnsConnection {
	return o.link
}

// Identifier implements icegraph.Identified.
func (o *Owns) Identifier() icegraph.ID {
	return o.id
}

// Family returns OwnsKind.
func (*Owns) Family() string {
	return OwnsKind
}

// Connection implements icegraph.Edge.
func (o *Owns) Connection() icegraph.Connection {
	if o.link == nil {
		return nil
	}
	return o.link
}

func (o *Owns) wire() ownsWire {
	return ownsWire{
		ID:         o.id.String(),
		Connection: icegraph.WireConnection(o.Connection()),
		Share:      o.Share,
	}
}

func (o *Owns) fromWire(w ownsWire) error {
	id, err := ParseOwnsID(w.ID)
	if err != nil {
		return err
	}
	link, err := parseOwnsConnection(w.Connection)
	if err != nil {
		return err
	}
	*o = Owns{
		id:    id,
		link:  link,
		Share: w.Share,
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o *Owns) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.wire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Owns) UnmarshalJSON(data []byte) error {
	var w ownsWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return o.fromWire(w)
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (o *Owns) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(o.wire())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (o *Owns) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w ownsWire
	if err := dec.Decode(&w); err != nil {
		return err
	}
	return o.fromWire(w)
}

type ownsWire struct {
	ID         string                  `json:"id" msgpack:"id"`
	Connection icegraph.ConnectionWire `json:"connection" msgpack:"connection"`
	Share      float64                 `json:"share" msgpack:"share"`
}

func parseOwnsConnection(w icegraph.ConnectionWire) (OwnsConnection, error) {
	switch w.Variant {
	case "Holding":
		source, err := ParsePersonID(w.Source)
		if err != nil {
			return nil, err
		}
		target, err := ParseCompanyID(w.Target)
		if err != nil {
			return nil, err
		}
		return OwnsHolding{Source: source, Target: target}, nil
	case "Subsidiary":
		source, err := ParseCompanyID(w.Source)
		if err != nil {
			return nil, err
		}
		target, err := ParseCompanyID(w.Target)
		if err != nil {
			return nil, err
		}
		return OwnsSubsidiary{Source: source, Target: target}, nil
	}
	return nil, icegraph.NewConnectionError(OwnsKind, w.Variant)
}

var _ icegraph.Edge = (*Owns)(nil)
