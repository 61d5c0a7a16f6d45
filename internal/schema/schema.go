// Package schema is the Draft-07 data model backing every rule's
// JSONSchema() hook (spec.md §4.4) and the root config schema
// (internal/schema/export.go). Rather than embedding pre-built
// .schema.json files the way tally's internal/schemas package does,
// rules build a *Schema value directly in Go; this package only touches
// JSON when exporting for external tooling or validating a rule's
// resolved configuration against its own declared shape.
//
// Schema deliberately covers the subset spec.md §4.4 names: object,
// array, string (+ format), enum, integer/number, boolean, $ref, and
// allOf/anyOf/oneOf. Validation is delegated to
// google/jsonschema-go/jsonschema, the same package tally's
// internal/schemas/runtime validator wraps.
package schema

import (
	"encoding/json"
	"fmt"

	gjsonschema "github.com/google/jsonschema-go/jsonschema"
)

// Draft is the JSON-Schema draft every Schema this package produces
// declares itself against.
const Draft = "http://json-schema.org/draft-07/schema#"

// Schema is a data-model subset of JSON-Schema Draft 7, matching
// spec.md §4.4's "object, array, string+formats, enum, int/number,
// boolean, $ref, and allOf/anyOf/oneOf".
type Schema struct {
	Schema      string             `json:"$schema,omitempty"`
	ID          string             `json:"$id,omitempty"`
	Ref         string             `json:"$ref,omitempty"`
	Type        string             `json:"type,omitempty"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Default     any                `json:"default,omitempty"`
	Enum        []any              `json:"enum,omitempty"`
	Const       any                `json:"const,omitempty"`
	Format      string             `json:"format,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	// AdditionalProperties is left unset (nil) to mean "allowed"; set to
	// a Schema{} (empty, marshals to {}) to mean "any extra key is
	// fine", or wrap a concrete Schema to constrain extra keys. A value
	// of false is expressed via AdditionalPropertiesFalse.
	AdditionalProperties      *Schema `json:"additionalProperties,omitempty"`
	AdditionalPropertiesFalse bool    `json:"-"`
	Items                     *Schema `json:"items,omitempty"`
	MinItems                  *int    `json:"minItems,omitempty"`
	MaxItems                  *int    `json:"maxItems,omitempty"`
	Minimum                   *float64 `json:"minimum,omitempty"`
	Maximum                   *float64 `json:"maximum,omitempty"`
	MinLength                 *int    `json:"minLength,omitempty"`
	MaxLength                 *int    `json:"maxLength,omitempty"`
	Pattern                   string  `json:"pattern,omitempty"`
	AllOf                     []*Schema `json:"allOf,omitempty"`
	AnyOf                     []*Schema `json:"anyOf,omitempty"`
	OneOf                     []*Schema `json:"oneOf,omitempty"`
	Definitions               map[string]*Schema `json:"definitions,omitempty"`
}

// MarshalJSON special-cases AdditionalPropertiesFalse, since encoding it
// as *Schema can't represent the JSON literal `false`.
func (s Schema) MarshalJSON() ([]byte, error) {
	type alias Schema
	if s.AdditionalPropertiesFalse {
		raw, err := json.Marshal(alias(s))
		if err != nil {
			return nil, err
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		m["additionalProperties"] = false
		return json.Marshal(m)
	}
	return json.Marshal(alias(s))
}

// Object returns a Schema of type "object" with the given properties.
func Object(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: "object", Properties: properties, Required: required}
}

// String returns a Schema of type "string", optionally constrained to an
// enum of allowed values. It sets no Format; assign the field directly for
// that.
func String(description string, enum ...string) *Schema {
	s := &Schema{Type: "string", Description: description}
	if len(enum) > 0 {
		s.Enum = make([]any, len(enum))
		for i, v := range enum {
			s.Enum[i] = v
		}
	}
	return s
}

// Integer returns a Schema of type "integer" bounded by [min, max]; either
// bound may be nil to leave it open.
func Integer(description string, min, max *int) *Schema {
	s := &Schema{Type: "integer", Description: description}
	if min != nil {
		f := float64(*min)
		s.Minimum = &f
	}
	if max != nil {
		f := float64(*max)
		s.Maximum = &f
	}
	return s
}

// Boolean returns a Schema of type "boolean" with the given default.
func Boolean(description string, def bool) *Schema {
	return &Schema{Type: "boolean", Description: description, Default: def}
}

// Array returns a Schema of type "array" whose elements must match items.
func Array(description string, items *Schema) *Schema {
	return &Schema{Type: "array", Description: description, Items: items}
}

// RefTo returns a Schema that is a bare "$ref" pointer, e.g.
// RefTo("#/definitions/max-file-lines").
func RefTo(pointer string) *Schema {
	return &Schema{Ref: pointer}
}

// ToMap renders s as a plain map[string]any, the shape
// Rule.JSONSchema() callers (the CLI's `rules --schema` subcommand,
// internal/schema/export.go) consume for further composition or
// encoding.
func (s *Schema) ToMap() (map[string]any, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshal schema as map: %w", err)
	}
	return m, nil
}

// Validate checks value against s using google/jsonschema-go's resolver
// and validator, the same library tally's internal/schemas/runtime
// wraps. It is used to validate a rule's resolved configuration against
// the shape the rule itself declares, independent of ConfigurableRule's
// own ad hoc ValidateConfig checks.
func (s *Schema) Validate(value any) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	var parsed gjsonschema.Schema
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}

	resolved, err := parsed.Resolve(nil)
	if err != nil {
		return fmt.Errorf("resolve schema: %w", err)
	}

	jsonValue, err := toJSONValue(value)
	if err != nil {
		return fmt.Errorf("convert value to JSON: %w", err)
	}

	if err := resolved.Validate(jsonValue); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// toJSONValue round-trips value through JSON so map[string]any (koanf's
// native shape) and Go structs both end up as the plain JSON values
// jsonschema-go's Validate expects.
func toJSONValue(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
