// Package validation applies a caller's raw option set against an attribute
// option schema, producing a normalized attribute descriptor. Validation is a
// pure function of its inputs and runs at resource-definition time, never per
// request.
package validation

import (
	"reflect"
	"sort"

	"github.com/artpar/attrkit/core/attribute"
	"github.com/artpar/attrkit/core/schema"
)

// Validate checks every supplied option against s, fills schema defaults for
// omitted options, and builds the descriptor. Default generators are carried
// by reference, never invoked here.
func Validate(s schema.Schema, opts map[string]any) (attribute.Attribute, error) {
	// Unknown options fail loud, in deterministic order.
	names := make([]string, 0, len(opts))
	for name := range opts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !s.Has(name) {
			return attribute.Attribute{}, &schema.UnknownOptionError{Option: name}
		}
	}

	// Type-check everything supplied before reporting omissions, so a badly
	// typed option is diagnosed even when required options are also missing.
	resolved := make(map[string]any, s.Len())
	for _, spec := range s.Options() {
		raw, ok := opts[spec.Name]
		if !ok {
			continue
		}
		norm, err := checkType(spec.Name, spec.Type, raw)
		if err != nil {
			return attribute.Attribute{}, err
		}
		resolved[spec.Name] = norm
	}

	for _, spec := range s.Options() {
		if _, ok := resolved[spec.Name]; ok {
			continue
		}
		if spec.HasDefault {
			resolved[spec.Name] = spec.Default
			continue
		}
		if spec.Required {
			return attribute.Attribute{}, &schema.MissingRequiredOptionError{Option: spec.Name}
		}
	}

	attr := buildAttribute(resolved)

	// Guard against base-schema misuse: the dedicated key variants remove
	// allow_nil structurally, so this only fires when a non-key schema is
	// used to declare a primary key.
	if attr.PrimaryKey && s.Has(schema.OptAllowNil) {
		if set, ok := opts[schema.OptAllowNil]; ok {
			if b, isBool := set.(bool); isBool && b {
				return attribute.Attribute{}, &schema.InvalidAttributeError{
					Reason: "primary key must not allow nil",
				}
			}
		}
	}

	return attr, nil
}

// checkType verifies raw against the declared option type, returning the
// normalized value. Checking recurses through unions and keyword lists.
func checkType(option string, t schema.OptionType, raw any) (any, error) {
	fail := func() (any, error) {
		return nil, &schema.InvalidOptionTypeError{Option: option, Expected: t, Got: raw}
	}

	switch t.Tag {
	case schema.TagSymbol, schema.TagTypeRef:
		s, ok := raw.(string)
		if !ok || s == "" {
			return fail()
		}
		return s, nil

	case schema.TagBool:
		b, ok := raw.(bool)
		if !ok {
			return fail()
		}
		return b, nil

	case schema.TagString:
		s, ok := raw.(string)
		if !ok {
			return fail()
		}
		return s, nil

	case schema.TagKeywordList:
		return checkKeywordList(raw, fail)

	case schema.TagEnum:
		s, ok := raw.(string)
		if !ok {
			return fail()
		}
		for _, allowed := range t.Values {
			if s == allowed {
				return s, nil
			}
		}
		return fail()

	case schema.TagUnion:
		for _, member := range t.OneOf {
			if norm, err := checkType(option, member, raw); err == nil {
				return norm, nil
			}
		}
		return fail()

	case schema.TagDefault:
		return checkDefault(raw, fail)

	default:
		return fail()
	}
}

func checkKeywordList(raw any, fail func() (any, error)) (any, error) {
	switch v := raw.(type) {
	case attribute.Constraints:
		return v, nil
	case []attribute.Constraint:
		return attribute.Constraints(v), nil
	case map[string]any:
		// Maps carry no order; normalize to sorted keys so validation stays
		// deterministic and idempotent.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		cs := make(attribute.Constraints, 0, len(v))
		for _, k := range keys {
			cs = append(cs, attribute.Constraint{Key: k, Value: v[k]})
		}
		return cs, nil
	default:
		return fail()
	}
}

// checkDefault normalizes the literal-or-generator union into the tagged
// attribute.Default. Plain functions of any other signature are rejected
// rather than treated as literals.
func checkDefault(raw any, fail func() (any, error)) (any, error) {
	switch v := raw.(type) {
	case attribute.Default:
		return v, nil
	case attribute.Generator:
		return attribute.FromGenerator(v), nil
	case func() (any, error):
		return attribute.FromGenerator(v), nil
	case attribute.UpdateGenerator:
		return attribute.FromUpdateGenerator(v), nil
	case func(attribute.Record) (any, error):
		return attribute.FromUpdateGenerator(v), nil
	default:
		if raw != nil && reflect.TypeOf(raw).Kind() == reflect.Func {
			return fail()
		}
		return attribute.Literal(raw), nil
	}
}

func buildAttribute(resolved map[string]any) attribute.Attribute {
	var attr attribute.Attribute

	attr.Name, _ = resolved[schema.OptName].(string)
	attr.Type, _ = resolved[schema.OptType].(string)
	attr.Constraints, _ = resolved[schema.OptConstraints].(attribute.Constraints)
	attr.AllowNil = boolOpt(resolved, schema.OptAllowNil)
	attr.PrimaryKey = boolOpt(resolved, schema.OptPrimaryKey)
	attr.Private = boolOpt(resolved, schema.OptPrivate)
	attr.Writable = boolOpt(resolved, schema.OptWritable)
	attr.Generated = boolOpt(resolved, schema.OptGenerated)
	attr.AlwaysSelect = boolOpt(resolved, schema.OptAlwaysSelect)
	attr.Sensitive = boolOpt(resolved, schema.OptSensitive)
	attr.Filterable = filterableOpt(resolved)
	attr.Default = defaultOpt(resolved, schema.OptDefault)
	attr.UpdateDefault = defaultOpt(resolved, schema.OptUpdateDefault)
	attr.MatchOtherDefaults = boolOpt(resolved, schema.OptMatchOtherDefaults)
	attr.Source, _ = resolved[schema.OptSource].(string)
	attr.Description, _ = resolved[schema.OptDescription].(string)

	return attr
}

func boolOpt(resolved map[string]any, name string) bool {
	b, _ := resolved[name].(bool)
	return b
}

func defaultOpt(resolved map[string]any, name string) attribute.Default {
	d, _ := resolved[name].(attribute.Default)
	return d
}

func filterableOpt(resolved map[string]any) attribute.Filterable {
	switch v := resolved[schema.OptFilterable].(type) {
	case bool:
		if v {
			return attribute.FilterableAlways
		}
		return attribute.FilterableNever
	case string:
		if v == schema.FilterableSimpleEquality {
			return attribute.FilterableSimpleEquality
		}
	}
	return attribute.FilterableAlways
}
