// Package configutil provides the map[string]any-to-typed-struct decode
// shared by every configurable rule, so a rule's Check function works with
// its own Config type instead of repeating the koanf unmarshal dance.
package configutil

import (
	"reflect"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// Resolve merges user-supplied options over defaults and unmarshals the
// result into a T. If opts is empty, defaults is returned unchanged.
//
// For slice/map fields, only nil values are replaced with defaults: an
// explicitly empty slice in opts clears a default rather than falling back
// to it.
func Resolve[T any](opts map[string]any, defaults T) T {
	if len(opts) == 0 {
		return defaults
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(opts, "."), nil); err != nil {
		return defaults
	}

	var result T
	if err := k.Unmarshal("", &result); err != nil {
		return defaults
	}

	return mergeDefaults(result, defaults)
}

// mergeDefaults fills zero-valued fields of result with the corresponding
// field from defaults, so a partially-specified options map still produces
// a fully-populated Config.
func mergeDefaults[T any](result, defaults T) T {
	resultVal := reflect.ValueOf(&result).Elem()
	defaultsVal := reflect.ValueOf(defaults)

	if resultVal.Kind() != reflect.Struct {
		return result
	}

	for i := range resultVal.NumField() {
		field := resultVal.Field(i)
		if !field.CanSet() {
			continue
		}
		if isZero(field) {
			field.Set(defaultsVal.Field(i))
		}
	}

	return result
}

func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.String:
		return v.String() == ""
	case reflect.Slice, reflect.Map:
		return v.IsNil()
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
