// Code generated by icegraph. DO NOT EDIT.

package testgraph

import (
	"encoding/json"
	"slices"

	"github.com/syssam/icegraph"
	"github.com/vmihailenco/msgpack/v5"
)

// CompanyKind is the kind and family name of Company records.
const CompanyKind = "Company"

// CompanyID identifies a Company record.
type CompanyID struct {
	token string
}

// NewCompanyID returns the identifier "Company:<token>". An empty token draws a new one from gen.
func NewCompanyID(gen icegraph.Generator, token string) CompanyID {
	if token == "" {
		token = icegraph.NewToken(gen)
	}
	return CompanyID{token: token}
}

// ParseCompanyID parses a "Company:<token>" identifier.
func ParseCompanyID(s string) (CompanyID, error) {
	token, err := icegraph.ParseKindToken(s, CompanyKind)
	if err != nil {
		return CompanyID{}, err
	}
	return CompanyID{token: token}, nil
}

// Kind returns CompanyKind.
func (CompanyID) Kind() string {
	return CompanyKind
}

// Token returns the part after the separator.
func (id CompanyID) Token() string {
	return id.token
}

// String returns "Company:<token>".
func (id CompanyID) String() string {
	return icegraph.FormatID(CompanyKind, id.token)
}

// IsZero reports whether id is the zero identifier.
func (id CompanyID) IsZero() bool {
	return id.token == ""
}

// CompanyInboundRef is an edge identifier permitted in the inbound refs of a Company.
// Implemented by EmploysAtID and OwnsID.
type CompanyInboundRef interface {
	icegraph.ID
	companyInboundRef()
}

// CompanyOutboundRef is an edge identifier permitted in the outbound refs of a Company.
// Implemented by OwnsID.
type CompanyOutboundRef interface {
	icegraph.ID
	companyOutboundRef()
}

// Company is an employer.
type Company struct {
	id       CompanyID
	inbound  []CompanyInboundRef
	outbound []CompanyOutboundRef
	Name     string
}

// NewCompany returns a new Company. An empty token draws a new one from gen.
func NewCompany(gen icegraph.Generator, token string, name string) *Company {
	return &Company{
		id:   NewCompanyID(gen, token),
		Name: name,
	}
}

// ID returns the identifier of the record.
func (c *Company) ID() CompanyID {
	return c.id
}

// Identifier implements icegraph.Identified.
func (c *Company) Identifier() icegraph.ID {
	return c.id
}

// Family returns CompanyKind.
func (*Company) Family() string {
	return CompanyKind
}

// Inbound returns a copy of the inbound refs.
func (c *Company) Inbound() []CompanyInboundRef {
	return slices.Clone(c.inbound)
}

// AddInbound appends ref to the inbound refs.
func (c *Company) AddInbound(ref CompanyInboundRef) {
	c.inbound = append(c.inbound, ref)
}

// RemoveInbound removes every occurrence of ref from the inbound refs.
func (c *Company) RemoveInbound(ref CompanyInboundRef) {
	c.inbound = icegraph.RemoveRef(c.inbound, ref)
}

// InboundRefs implements icegraph.Node.
func (c *Company) InboundRefs() []icegraph.ID {
	return icegraph.RefIDs(c.inbound)
}

// AddInboundRef implements icegraph.Node. It fails unless ref is a CompanyInboundRef.
func (c *Company) AddInboundRef(ref icegraph.ID) error {
	v, ok := ref.(CompanyInboundRef)
	if !ok {
		return icegraph.NewRefError(CompanyKind, icegraph.Inbound, icegraph.IDString(ref))
	}
	c.AddInbound(v)
	return nil
}

// RemoveInboundRef implements icegraph.Node.
func (c *Company) RemoveInboundRef(ref icegraph.ID) {
	if v, ok := ref.(CompanyInboundRef); ok {
		c.RemoveInbound(v)
	}
}

// Outbound returns a copy of the outbound refs.
func (c *Company) Outbound() []CompanyOutboundRef {
	return slices.Clone(c.outbound)
}

// AddOutbound appends ref to the outbound refs.
func (c *Company) AddOutbound(ref CompanyOutboundRef) {
	c.outbound = append(c.outbound, ref)
}

// RemoveOutbound removes every occurrence of ref from the outbound refs.
func (c *Company) RemoveOutbound(ref CompanyOutboundRef) {
	c.outbound = icegraph.RemoveRef(c.outbound, ref)
}

// OutboundRefs implements icegraph.Node.
func (c *Company) OutboundRefs() []icegraph.ID {
	return icegraph.RefIDs(c.outbound)
}

// AddOutboundRef implements icegraph.Node. It fails unless ref is a CompanyOutboundRef.
func (c *Company) AddOutboundRef(ref icegraph.ID) error {
	v, ok := ref.(CompanyOutboundRef)
	if !ok {
		return icegraph.NewRefError(CompanyKind, icegraph.Outbound, icegraph.IDString(ref))
	}
	c.AddOutbound(v)
	return nil
}

// RemoveOutboundRef implements icegraph.Node.
func (c *Company) RemoveOutboundRef(ref icegraph.ID) {
	if v, ok := ref.(CompanyOutboundRef); ok {
		c.RemoveOutbound(v)
	}
}

func (c *Company) wire() companyWire {
	return companyWire{
		ID:       c.id.String(),
		Inbound:  icegraph.RefStrings(c.inbound),
		Outbound: icegraph.RefStrings(c.outbound),
		Name:     c.Name,
	}
}

func (c *Company) fromWire(w companyWire) error {
	id, err := ParseCompanyID(w.ID)
	if err != nil {
		return err
	}
	inbound, err := icegraph.ParseRefs(w.Inbound, parseCompanyInboundRef)
	if err != nil {
		return err
	}
	outbound, err := icegraph.ParseRefs(w.Outbound, parseCompanyOutboundRef)
	if err != nil {
		return err
	}
	*c = Company{
		id:       id,
		inbound:  inbound,
		outbound: outbound,
		Name:     w.Name,
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c *Company) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.wire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Company) UnmarshalJSON(data []byte) error {
	var w companyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return c.fromWire(w)
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (c *Company) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(c.wire())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (c *Company) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w companyWire
	if err := dec.Decode(&w); err != nil {
		return err
	}
	return c.fromWire(w)
}

type companyWire struct {
	ID       string   `json:"id" msgpack:"id"`
	Inbound  []string `json:"in_edge_ids" msgpack:"in_edge_ids"`
	Outbound []string `json:"out_edge_ids" msgpack:"out_edge_ids"`
	Name     string   `json:"name" msgpack:"name"`
}

func parseCompanyInboundRef(s string) (CompanyInboundRef, error) {
	kind, _, err := icegraph.SplitID(s)
	if err != nil {
		return nil, err
	}
	switch kind {
	case EmploysAtKind:
		id, err := ParseEmploysAtID(s)
		if err != nil {
			return nil, err
		}
		return id, nil
	case OwnsKind:
		id, err := ParseOwnsID(s)
		if err != nil {
			return nil, err
		}
		return id, nil
	}
	return nil, icegraph.NewRefError(CompanyKind, icegraph.Inbound, s)
}

func parseCompanyOutboundRef(s string) (CompanyOutboundRef, error) {
	kind, _, err := icegraph.SplitID(s)
	if err != nil {
		return nil, err
	}
	switch kind {
	case OwnsKind:
		id, err := ParseOwnsID(s)
		if err != nil {
			return nil, err
		}
		return id, nil
	}
	return nil, icegraph.NewRefError(CompanyKind, icegraph.Outbound, s)
}

var _ icegraph.Node = (*Company)(nil)
