// Package ruleconfig canonicalizes the shorthand forms a rule's TOML/env
// configuration may take (a bare scalar) into the {option: value} object
// form the rule's own Config type expects.
package ruleconfig

import (
	"math"
	"strconv"
	"strings"
)

type shorthandKind int

const (
	shorthandInteger shorthandKind = iota
	shorthandString
)

type shorthandSpec struct {
	optionKey string
	kind      shorthandKind
}

// shorthandByRule maps a rule code to the single option its bare-scalar
// shorthand expands into, e.g. `rules.max-file-lines = 400` becomes
// `rules.max-file-lines = {max = 400}`.
var shorthandByRule = map[string]shorthandSpec{
	"max-file-lines": {optionKey: "max", kind: shorthandInteger},
	"indent-style":   {optionKey: "style", kind: shorthandString},
}

// CanonicalizeRuleOptions converts a rule's configured value into canonical
// object form, if ruleCode has a registered shorthand and value is a bare
// scalar of the expected kind. Values already in object form, or that don't
// match the expected shorthand kind, pass through unchanged.
func CanonicalizeRuleOptions(ruleCode string, value any) any {
	spec, ok := shorthandByRule[ruleCode]
	if !ok {
		return value
	}

	if _, isMap := value.(map[string]any); isMap {
		return value
	}

	switch spec.kind {
	case shorthandInteger:
		if !isIntegerLike(value) {
			return value
		}
	case shorthandString:
		if _, ok := value.(string); !ok {
			return value
		}
	}

	return map[string]any{spec.optionKey: value}
}

// CanonicalizeRulesMap normalizes shorthand values in a rules.<rule-code>
// map in-place.
func CanonicalizeRulesMap(rules map[string]any) {
	for ruleCode, value := range rules {
		rules[ruleCode] = CanonicalizeRuleOptions(ruleCode, value)
	}
}

func isIntegerLike(value any) bool {
	switch typed := value.(type) {
	case int, int8, int16, int32, int64:
		return true
	case uint:
		return uint64(typed) <= math.MaxInt64
	case uint64:
		return typed <= math.MaxInt64
	case uint8, uint16, uint32:
		return true
	case float32:
		return typed == float32(int64(typed)) && !math.IsInf(float64(typed), 0)
	case float64:
		return typed == math.Trunc(typed) && !math.IsInf(typed, 0) && !math.IsNaN(typed) &&
			typed >= math.MinInt64 && typed <= math.MaxInt64
	case string:
		_, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		return err == nil
	default:
		return false
	}
}
