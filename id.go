package icegraph

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Separator splits the kind from the token in an identifier.
const Separator = ":"

// ID is an identifier of the form "<Kind>:<token>". The kind doubles as the name of the
// family the identified record is stored in.
type ID interface {
	// Kind returns the kind (and family) name.
	Kind() string
	// Token returns the part after the separator.
	Token() string
	// String renders the canonical "<Kind>:<token>" form.
	String() string
}

// FormatID renders kind and token as an identifier string.
func FormatID(kind, token string) string {
	return kind + Separator + token
}

// SplitID splits an identifier on its first separator. It fails with
// IdentifierParseFailed when the separator is missing or the kind is empty.
func SplitID(s string) (kind, token string, err error) {
	kind, token, ok := strings.Cut(s, Separator)
	if !ok {
		return "", "", NewError(IdentifierParseFailed, "parse_id", "", s, fmt.Errorf("missing %q separator", Separator))
	}
	if kind == "" {
		return "", "", NewError(IdentifierParseFailed, "parse_id", "", s, fmt.Errorf("empty kind"))
	}
	return kind, token, nil
}

// ParseKindToken parses s and checks that its kind is want. It returns the token.
func ParseKindToken(s, want string) (string, error) {
	kind, token, err := SplitID(s)
	if err != nil {
		return "", err
	}
	if kind != want {
		return "", NewError(IdentifierParseFailed, "parse_id", "", s, fmt.Errorf("kind %q, want %q", kind, want))
	}
	if token == "" {
		return "", NewError(IdentifierParseFailed, "parse_id", "", s, fmt.Errorf("empty token"))
	}
	return token, nil
}

// A Generator produces identifier tokens. Tokens must be non-empty, unique across calls,
// and must not contain the separator.
type Generator interface {
	NewToken() string
}

// GeneratorFunc adapts a function to a Generator.
type GeneratorFunc func() string

// NewToken calls f.
func (f GeneratorFunc) NewToken() string { return f() }

// UUIDGenerator draws time-ordered UUIDv7 tokens, so tokens drawn later sort after tokens
// drawn earlier (to millisecond precision).
type UUIDGenerator struct{}

// NewToken returns a new UUIDv7 string.
func (UUIDGenerator) NewToken() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// DefaultGenerator is used by generated constructors when they are given a nil Generator.
var DefaultGenerator Generator = UUIDGenerator{}

// NewToken draws a token from gen, or from DefaultGenerator if gen is nil.
func NewToken(gen Generator) string {
	if gen == nil {
		gen = DefaultGenerator
	}
	return gen.NewToken()
}

// SequenceGenerator produces deterministic tokens "<prefix><n>" with n zero-padded to
// 12 digits, so tokens sort in creation order. It is safe for concurrent use.
type SequenceGenerator struct {
	Prefix string
	n      atomic.Uint64
}

// NewSequenceGenerator returns a SequenceGenerator with the given prefix.
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{Prefix: prefix}
}

// NewToken returns the next token of the sequence.
func (g *SequenceGenerator) NewToken() string {
	n := g.n.Add(1)
	s := strconv.FormatUint(n, 10)
	if pad := 12 - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return g.Prefix + s
}
