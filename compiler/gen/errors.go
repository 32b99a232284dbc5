package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates an invalid kind or field declaration.
	ErrInvalidSchema = errors.New("icegraph: invalid schema")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("icegraph: missing configuration")
	// ErrInvalidEdge indicates an invalid edge kind or connection rule.
	ErrInvalidEdge = errors.New("icegraph: invalid edge definition")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("icegraph: code generation failed")
)

// message renders "icegraph: <what> <parts...>: <msg>: <cause>".
type message struct {
	strings.Builder
}

func newMessage(what string) *message {
	m := &message{}
	m.WriteString("icegraph: ")
	m.WriteString(what)
	return m
}

func (m *message) part(label, value string) *message {
	if value != "" {
		m.WriteString(" ")
		m.WriteString(label)
		m.WriteString(" ")
		m.WriteString(value)
	}
	return m
}

func (m *message) tail(msg string, cause error) string {
	if msg != "" {
		m.WriteString(": ")
		m.WriteString(msg)
	}
	if cause != nil {
		m.WriteString(": ")
		m.WriteString(cause.Error())
	}
	return m.String()
}

// SchemaError reports an invalid kind or field declaration.
type SchemaError struct {
	Type    string // Kind name
	Field   string // Field name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return newMessage("schema error").
		part("on kind", e.Type).
		part("field", e.Field).
		tail(e.Message, e.Cause)
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(typeName, fieldName, message string, cause error) *SchemaError {
	return &SchemaError{
		Type:    typeName,
		Field:   fieldName,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("icegraph: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("icegraph: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// EdgeError reports an invalid edge kind or one of its connection rules.
type EdgeError struct {
	Edge       string
	Connection string // Connection rule name (if applicable)
	From       string
	To         string
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *EdgeError) Error() string {
	m := newMessage("edge error").
		part("on edge", e.Edge).
		part("connection", e.Connection)
	if e.From != "" || e.To != "" {
		fmt.Fprintf(m, " (%s -> %s)", e.From, e.To)
	}
	return m.tail(e.Message, e.Cause)
}

// Unwrap returns the underlying error.
func (e *EdgeError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for EdgeError.
func (e *EdgeError) Is(target error) bool {
	return target == ErrInvalidEdge
}

// NewEdgeError creates a new EdgeError.
func NewEdgeError(edgeName, connection, from, to, message string) *EdgeError {
	return &EdgeError{
		Edge:       edgeName,
		Connection: connection,
		From:       from,
		To:         to,
		Message:    message,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "node", "edge", "kinds", "format" or "write"
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	m := newMessage("generation error").part("in phase", e.Phase)
	if e.File != "" {
		fmt.Fprintf(m, " (file: %s)", e.File)
	}
	return m.tail(e.Message, e.Cause)
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsEdgeError reports whether the error is an EdgeError.
func IsEdgeError(err error) bool {
	var edgeErr *EdgeError
	return errors.As(err, &edgeErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
