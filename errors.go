package icegraph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failure reported by the engine.
type ErrorKind uint8

// Error kinds. Every engine operation fails with exactly one of these.
const (
	KindUnknown ErrorKind = iota
	// PartitionNotFound: a required family does not exist.
	PartitionNotFound
	// KeyNotFound: no record is stored under the requested identifier.
	KeyNotFound
	// EncodeFailed: the codec could not encode a record.
	EncodeFailed
	// DecodeFailed: the codec could not decode stored bytes.
	DecodeFailed
	// IdentifierParseFailed: an identifier is not of the form "Kind:token".
	IdentifierParseFailed
	// StoreIoFailed: the underlying store reported an error (I/O, corruption, conflict).
	StoreIoFailed
	// FamilyCreationFailed: a family could not be created.
	FamilyCreationFailed
	// FamilyEnumerationFailed: the families of the store could not be listed.
	FamilyEnumerationFailed
	// InvalidEndpoint: an edge was linked to nodes that are not its connection endpoints,
	// or a node was handed a ref its kind does not permit.
	InvalidEndpoint
)

// Sentinel errors, one per kind. An *Error matches the sentinel of its kind with errors.Is.
var (
	ErrPartitionNotFound       = errors.New("icegraph: partition not found")
	ErrKeyNotFound             = errors.New("icegraph: key not found")
	ErrEncodeFailed            = errors.New("icegraph: encode failed")
	ErrDecodeFailed            = errors.New("icegraph: decode failed")
	ErrIdentifierParseFailed   = errors.New("icegraph: identifier parse failed")
	ErrStoreIoFailed           = errors.New("icegraph: store i/o failed")
	ErrFamilyCreationFailed    = errors.New("icegraph: family creation failed")
	ErrFamilyEnumerationFailed = errors.New("icegraph: family enumeration failed")
	ErrInvalidEndpoint         = errors.New("icegraph: invalid endpoint")

	// ErrConflict is returned (wrapped in a StoreIoFailed error) when the store aborted a
	// transaction because a concurrently committed transaction touched the same keys.
	// Retrying is left to the caller.
	ErrConflict = errors.New("icegraph: transaction conflict")
)

var kindNames = [...]string{
	KindUnknown:             "Unknown",
	PartitionNotFound:       "PartitionNotFound",
	KeyNotFound:             "KeyNotFound",
	EncodeFailed:            "EncodeFailed",
	DecodeFailed:            "DecodeFailed",
	IdentifierParseFailed:   "IdentifierParseFailed",
	StoreIoFailed:           "StoreIoFailed",
	FamilyCreationFailed:    "FamilyCreationFailed",
	FamilyEnumerationFailed: "FamilyEnumerationFailed",
	InvalidEndpoint:         "InvalidEndpoint",
}

// String returns the name of the kind.
func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Sentinel returns the sentinel error of the kind, or nil for KindUnknown.
func (k ErrorKind) Sentinel() error {
	switch k {
	case PartitionNotFound:
		return ErrPartitionNotFound
	case KeyNotFound:
		return ErrKeyNotFound
	case EncodeFailed:
		return ErrEncodeFailed
	case DecodeFailed:
		return ErrDecodeFailed
	case IdentifierParseFailed:
		return ErrIdentifierParseFailed
	case StoreIoFailed:
		return ErrStoreIoFailed
	case FamilyCreationFailed:
		return ErrFamilyCreationFailed
	case FamilyEnumerationFailed:
		return ErrFamilyEnumerationFailed
	case InvalidEndpoint:
		return ErrInvalidEndpoint
	default:
		return nil
	}
}

// Error is the error returned by engine operations.
type Error struct {
	Kind   ErrorKind
	Op     string // Operation (e.g. "add_node", "get_edge")
	Family string // Family involved, if known
	Key    string // Identifier involved, if known
	Err    error  // Underlying error
}

// Error returns the error string.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("icegraph: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Family != "" {
		b.WriteString(" family=")
		b.WriteString(e.Family)
	}
	if e.Key != "" {
		b.WriteString(" key=")
		b.WriteString(e.Key)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of the error kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.Sentinel()
	return s != nil && target == s
}

// NewError returns a new Error.
func NewError(kind ErrorKind, op, family, key string, err error) *Error {
	return &Error{Kind: kind, Op: op, Family: family, Key: key, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a KeyNotFound error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// IsPartitionNotFound reports whether err is a PartitionNotFound error.
func IsPartitionNotFound(err error) bool {
	return errors.Is(err, ErrPartitionNotFound)
}

// IsConflict reports whether err was caused by a transaction conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// RefError is returned when a node is handed an edge identifier its kind does not
// permit on the given side.
type RefError struct {
	Node string // Node kind
	Side Side
	Ref  string // Offending identifier
}

// Error returns the error string.
func (e *RefError) Error() string {
	return fmt.Sprintf("icegraph: %s ref %q is not permitted on %s", e.Side, e.Ref, e.Node)
}

// Is reports whether target is ErrInvalidEndpoint.
func (e *RefError) Is(target error) bool {
	return target == ErrInvalidEndpoint
}

// NewRefError returns a new RefError.
func NewRefError(node string, side Side, ref string) *RefError {
	return &RefError{Node: node, Side: side, Ref: ref}
}

// ConnectionError is returned when a stored connection names a variant the edge kind
// does not declare.
type ConnectionError struct {
	Edge    string
	Variant string
}

// Error returns the error string.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("icegraph: %s has no connection variant %q", e.Edge, e.Variant)
}

// NewConnectionError returns a new ConnectionError.
func NewConnectionError(edge, variant string) *ConnectionError {
	return &ConnectionError{Edge: edge, Variant: variant}
}
