package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("not an identifier")
		err := NewSchemaError("Person", "first name", "invalid field", cause)

		assert.Equal(t, "icegraph: schema error on kind Person field first name: invalid field: not an identifier", err.Error())
	})

	t.Run("Error message with kind only", func(t *testing.T) {
		err := NewSchemaError("Person", "", "kind redeclared", nil)
		assert.Equal(t, "icegraph: schema error on kind Person: kind redeclared", err.Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewSchemaError("Person", "", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("Is matches ErrInvalidSchema", func(t *testing.T) {
		err := NewSchemaError("Person", "", "", nil)
		assert.True(t, errors.Is(err, ErrInvalidSchema))
		assert.False(t, errors.Is(err, ErrInvalidEdge))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Workers", 0, "must be at least 1")
		assert.Equal(t, `icegraph: config error for "Workers" (value: 0): must be at least 1`, err.Error())
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Target", nil, "cannot be empty")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("IsConfigError helper", func(t *testing.T) {
		err := NewConfigError("Target", nil, "missing")
		assert.True(t, IsConfigError(err))
		assert.True(t, errors.Is(err, ErrMissingConfig))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestEdgeError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := NewEdgeError("EmploysAt", "Employment", "Person", "Firm", `undeclared node kind "Firm"`)

		assert.Equal(t, `icegraph: edge error on edge EmploysAt connection Employment (Person -> Firm): undeclared node kind "Firm"`, err.Error())
	})

	t.Run("Error message with edge only", func(t *testing.T) {
		err := NewEdgeError("EmploysAt", "", "", "", "edge kind declares no connections")
		assert.Equal(t, "icegraph: edge error on edge EmploysAt: edge kind declares no connections", err.Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := &EdgeError{Edge: "EmploysAt", Cause: cause}
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("IsEdgeError helper", func(t *testing.T) {
		err := NewEdgeError("EmploysAt", "", "", "", "")
		assert.True(t, IsEdgeError(err))
		assert.True(t, errors.Is(err, ErrInvalidEdge))
		assert.False(t, IsEdgeError(NewSchemaError("Person", "", "", nil)))
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("disk full")
		err := NewGenerationError("write", "person.go", "", cause)
		assert.Equal(t, "icegraph: generation error in phase write (file: person.go): disk full", err.Error())
	})

	t.Run("Is matches ErrGenerationFailed", func(t *testing.T) {
		err := NewGenerationError("format", "", "", nil)
		assert.True(t, errors.Is(err, ErrGenerationFailed))
		assert.True(t, IsGenerationError(err))
	})
}

func TestSentinelErrors(t *testing.T) {
	assert.Equal(t, "icegraph: invalid schema", ErrInvalidSchema.Error())
	assert.Equal(t, "icegraph: missing configuration", ErrMissingConfig.Error())
	assert.Equal(t, "icegraph: invalid edge definition", ErrInvalidEdge.Error())
	assert.Equal(t, "icegraph: code generation failed", ErrGenerationFailed.Error())
}

func TestErrorsAs(t *testing.T) {
	err := error(NewEdgeError("EmploysAt", "Employment", "Person", "Firm", "invalid"))
	var edgeErr *EdgeError
	require.True(t, errors.As(err, &edgeErr))
	assert.Equal(t, "Person", edgeErr.From)
	assert.Equal(t, "Firm", edgeErr.To)
	assert.Equal(t, "Employment", edgeErr.Connection)

	err = NewSchemaError("Person", "age", "invalid", nil)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "Person", schemaErr.Type)
	assert.Equal(t, "age", schemaErr.Field)
}
