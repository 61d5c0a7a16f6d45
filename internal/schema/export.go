package schema

import "github.com/tinovyatkin/ziglint/internal/rules"

// Provider is implemented by rules that can describe their own
// configuration shape (spec.md §4.4's `jsonSchema(ctx)` hook). Rules that
// don't implement it (most rules have no configuration at all) get no
// "definitions" entry; ExportRoot still lists them under "rules" with an
// open-ended object schema.
type Provider interface {
	rules.Rule
	JSONSchema() (*Schema, error)
}

// ExportRoot builds the root configuration schema for reg: one property
// per registered rule under "rules", each a bare $ref into "definitions"
// pointing at that rule's own JSONSchema() output, exactly as spec.md
// §4.4/§6 describes ("Schemas reference one another via
// #/definitions/<name>"). Rules with no Provider implementation get an
// open-ended object placeholder instead of a $ref, so every rule code is
// still a valid (if unconstrained) config key.
func ExportRoot(reg *rules.Registry) (*Schema, error) {
	ruleProps := make(map[string]*Schema)
	definitions := make(map[string]*Schema)

	for _, rule := range reg.All() {
		code := rule.Metadata().Code

		provider, ok := rule.(Provider)
		if !ok {
			ruleProps[code] = withSeverityAndFix(&Schema{Type: "object"})
			continue
		}

		ruleSchema, err := provider.JSONSchema()
		if err != nil {
			return nil, err
		}
		definitions[code] = ruleSchema
		ruleProps[code] = withSeverityAndFix(RefTo("#/definitions/" + code))
	}

	return &Schema{
		Schema:      Draft,
		ID:          "https://ziglint.dev/schema/config.json",
		Title:       "ziglint configuration",
		Type:        "object",
		Definitions: definitions,
		Properties: map[string]*Schema{
			"rules": Object(ruleProps),
			"output": Object(map[string]*Schema{
				"format":      String("output format", "text", "json", "sarif", "markdown"),
				"path":        String("output destination: stdout, stderr, or a file path"),
				"show-source": Boolean("include source snippets in text output", true),
				"fail-level":  String("minimum severity that causes a non-zero exit code", "error", "warning", "info", "style", "off"),
			}),
			"inline-directives": Object(map[string]*Schema{
				"enabled":        Boolean("process lint-disable directives", true),
				"warn-unused":    Boolean("report directives that suppressed nothing", false),
				"validate-rules": Boolean("report directives naming unknown rule codes", false),
				"require-reason": Boolean("require a ; reason= annotation on every directive", false),
			}),
			"ignore": Array("glob patterns excluded from linting (front-end boundary, spec.md §6)", String("")),
		},
	}, nil
}

// withSeverityAndFix wraps a rule's own option schema with the two keys
// every rule entry reserves regardless of its specific configuration
// (config.go's SeverityFor/FixModeFor): "severity" and "fix". allOf keeps
// the rule's own constraints intact while adding these two siblings.
func withSeverityAndFix(ruleSchema *Schema) *Schema {
	return &Schema{
		AllOf: []*Schema{
			ruleSchema,
			Object(map[string]*Schema{
				"severity": String("override this rule's default severity", "error", "warning", "info", "style", "off"),
				"fix":      String("override this rule's fix application mode", "never", "explicit", "always", "unsafe-only"),
			}),
		},
	}
}
