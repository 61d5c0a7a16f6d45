package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectToMap(t *testing.T) {
	zero := 0
	s := Object(map[string]*Schema{
		"max": Integer("maximum allowed", &zero, nil),
	})

	m, err := s.ToMap()
	require.NoError(t, err)
	assert.Equal(t, "object", m["type"])

	props, ok := m["properties"].(map[string]any)
	require.True(t, ok)
	maxProp, ok := props["max"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "integer", maxProp["type"])
	assert.Equal(t, float64(0), maxProp["minimum"])
}

func TestAdditionalPropertiesFalse(t *testing.T) {
	s := &Schema{Type: "object", AdditionalPropertiesFalse: true}
	m, err := s.ToMap()
	require.NoError(t, err)
	assert.Equal(t, false, m["additionalProperties"])
}

func TestValidateAcceptsMatchingValue(t *testing.T) {
	one := 1
	s := Object(map[string]*Schema{
		"tab-width": Integer("spaces per tab", &one, nil),
	})

	err := s.Validate(map[string]any{"tab-width": 4})
	assert.NoError(t, err)
}

func TestValidateRejectsOutOfRangeValue(t *testing.T) {
	zero := 0
	s := Object(map[string]*Schema{
		"max": Integer("maximum allowed", &zero, nil),
	})

	err := s.Validate(map[string]any{"max": -5})
	assert.Error(t, err)
}

func TestStringEnum(t *testing.T) {
	s := String("indent style", "tab", "space")
	m, err := s.ToMap()
	require.NoError(t, err)
	enum, ok := m["enum"].([]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"tab", "space"}, enum)
}
