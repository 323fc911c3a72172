// Package resource compiles declarative resource definitions into validated
// attribute descriptors. A definition names a resource and its attributes;
// each attribute picks a schema kind (base, timestamps, primary keys) and
// supplies raw options validated against that kind's schema. Compilation runs
// at load time; any failure aborts the whole resource with no partial result.
package resource

import (
	"fmt"

	"github.com/artpar/attrkit/core/attribute"
	"github.com/artpar/attrkit/core/schema"
	"github.com/artpar/attrkit/core/validation"
)

// Definition is one declarative resource definition.
type Definition struct {
	// Resource is the resource name.
	Resource string `yaml:"resource"`

	// Attributes are declared in order; order is preserved in the compiled
	// resource.
	Attributes []AttributeDef `yaml:"attributes"`
}

// AttributeDef declares one attribute.
type AttributeDef struct {
	// Name of the attribute, unique within the resource.
	Name string `yaml:"name"`

	// Kind selects the option schema; empty means base.
	Kind schema.Kind `yaml:"kind,omitempty"`

	// Options are validated against the kind's schema.
	Options map[string]any `yaml:"options,omitempty"`
}

// Resource is a compiled resource: its name plus validated attributes in
// declaration order. Immutable after compilation.
type Resource struct {
	Name       string
	Attributes []attribute.Attribute
}

// Attribute returns the named attribute, if declared.
func (r Resource) Attribute(name string) (attribute.Attribute, bool) {
	for _, a := range r.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return attribute.Attribute{}, false
}

// PrimaryKey returns the attributes forming the resource identity.
func (r Resource) PrimaryKey() []attribute.Attribute {
	var pk []attribute.Attribute
	for _, a := range r.Attributes {
		if a.PrimaryKey {
			pk = append(pk, a)
		}
	}
	return pk
}

// Compile validates every attribute of def against its kind's schema.
// Attribute names must be unique; a dedicated key variant must be used for
// key presets so allow_nil is structurally absent.
func Compile(reg *schema.Registry, def Definition) (Resource, error) {
	if def.Resource == "" {
		return Resource{}, fmt.Errorf("resource definition missing name")
	}

	res := Resource{
		Name:       def.Resource,
		Attributes: make([]attribute.Attribute, 0, len(def.Attributes)),
	}

	seen := make(map[string]bool, len(def.Attributes))
	for _, ad := range def.Attributes {
		if ad.Name == "" {
			return Resource{}, fmt.Errorf("resource %q: attribute missing name", def.Resource)
		}
		if seen[ad.Name] {
			return Resource{}, fmt.Errorf("resource %q: duplicate attribute %q", def.Resource, ad.Name)
		}
		seen[ad.Name] = true

		kind := ad.Kind
		if kind == "" {
			kind = schema.KindBase
		}
		s, ok := reg.Get(kind)
		if !ok {
			return Resource{}, fmt.Errorf("resource %q attribute %q: unknown schema kind %q",
				def.Resource, ad.Name, kind)
		}

		opts := make(map[string]any, len(ad.Options)+1)
		for k, v := range ad.Options {
			opts[k] = v
		}
		opts[schema.OptName] = ad.Name

		attr, err := validation.Validate(s, opts)
		if err != nil {
			return Resource{}, fmt.Errorf("resource %q attribute %q: %w", def.Resource, ad.Name, err)
		}
		res.Attributes = append(res.Attributes, attr)
	}

	return res, nil
}

// CompileAll compiles defs in order, failing on the first error or on a
// duplicate resource name.
func CompileAll(reg *schema.Registry, defs []Definition) ([]Resource, error) {
	out := make([]Resource, 0, len(defs))
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if seen[def.Resource] {
			return nil, fmt.Errorf("duplicate resource %q", def.Resource)
		}
		seen[def.Resource] = true
		res, err := Compile(reg, def)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}
