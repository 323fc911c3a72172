package resource

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// file is the YAML shape of a definitions file.
type file struct {
	Resources []Definition `yaml:"resources"`
}

// Parse decodes a definitions document holding one or more resources under a
// top-level "resources" list.
func Parse(data []byte) ([]Definition, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse definitions: %w", err)
	}
	if len(f.Resources) == 0 {
		return nil, fmt.Errorf("parse definitions: no resources declared")
	}
	return f.Resources, nil
}

// Load reads and parses a definitions file.
func Load(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	return Parse(data)
}

// Summary is the serializable view of a compiled resource. Generator
// references are reduced to presence flags; values are never embedded.
type Summary struct {
	Name       string             `json:"name" yaml:"name"`
	Attributes []AttributeSummary `json:"attributes" yaml:"attributes"`
}

// AttributeSummary is the serializable view of one compiled attribute.
type AttributeSummary struct {
	Name               string `json:"name" yaml:"name"`
	Type               string `json:"type" yaml:"type"`
	AllowNil           bool   `json:"allow_nil" yaml:"allow_nil"`
	PrimaryKey         bool   `json:"primary_key" yaml:"primary_key"`
	Private            bool   `json:"private" yaml:"private"`
	Writable           bool   `json:"writable" yaml:"writable"`
	Generated          bool   `json:"generated" yaml:"generated"`
	AlwaysSelect       bool   `json:"always_select" yaml:"always_select"`
	Sensitive          bool   `json:"sensitive" yaml:"sensitive"`
	Filterable         string `json:"filterable" yaml:"filterable"`
	HasDefault         bool   `json:"has_default" yaml:"has_default"`
	HasUpdateDefault   bool   `json:"has_update_default" yaml:"has_update_default"`
	MatchOtherDefaults bool   `json:"match_other_defaults" yaml:"match_other_defaults"`
	Source             string `json:"source,omitempty" yaml:"source,omitempty"`
	Description        string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Summary returns the serializable view of r.
func (r Resource) Summary() Summary {
	s := Summary{Name: r.Name, Attributes: make([]AttributeSummary, 0, len(r.Attributes))}
	for _, a := range r.Attributes {
		s.Attributes = append(s.Attributes, AttributeSummary{
			Name:               a.Name,
			Type:               a.Type,
			AllowNil:           a.AllowNil,
			PrimaryKey:         a.PrimaryKey,
			Private:            a.Private,
			Writable:           a.Writable,
			Generated:          a.Generated,
			AlwaysSelect:       a.AlwaysSelect,
			Sensitive:          a.Sensitive,
			Filterable:         string(a.Filterable),
			HasDefault:         a.HasDefault(),
			HasUpdateDefault:   a.HasUpdateDefault(),
			MatchOtherDefaults: a.MatchOtherDefaults,
			Source:             a.Source,
			Description:        a.Description,
		})
	}
	return s
}
