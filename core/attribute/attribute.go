// Package attribute defines the validated attribute descriptor and the
// default-value model (literal values and lazy generators).
package attribute

// Record is one record's field values, keyed by attribute name.
type Record map[string]any

// Constraint is one opaque key/value pair interpreted by the attribute's type.
type Constraint struct {
	Key   string
	Value any
}

// Constraints is an ordered list of constraints.
type Constraints []Constraint

// Get returns the value for key, if present.
func (cs Constraints) Get(key string) (any, bool) {
	for _, c := range cs {
		if c.Key == key {
			return c.Value, true
		}
	}
	return nil, false
}

// Filterable describes how an attribute may participate in filters.
type Filterable string

const (
	// FilterableAlways allows any filter expression.
	FilterableAlways Filterable = "always"

	// FilterableNever excludes the attribute from filtering.
	FilterableNever Filterable = "never"

	// FilterableSimpleEquality restricts filtering to equality checks.
	FilterableSimpleEquality Filterable = "simple_equality"
)

// Attribute is the validated, normalized descriptor for one persisted field.
// It is immutable after validation; copies are safe to share.
type Attribute struct {
	// Name uniquely identifies the attribute within its resource.
	Name string

	// Type references the external type system (e.g. "uuid", "utc_datetime").
	Type string

	// Constraints are interpreted by Type, not by this engine.
	Constraints Constraints

	// AllowNil permits nil values on write.
	AllowNil bool

	// PrimaryKey marks the attribute as part of the resource identity.
	// A primary key never allows nil.
	PrimaryKey bool

	// Private hides the attribute from public interfaces.
	Private bool

	// Writable permits the attribute to be set by callers.
	Writable bool

	// Generated marks values produced by the underlying store (e.g. serial ids).
	Generated bool

	// AlwaysSelect forces the attribute into every read.
	AlwaysSelect bool

	// Sensitive excludes the value from logs and introspection output.
	Sensitive bool

	// Filterable describes filter participation.
	Filterable Filterable

	// Default is applied on create when the caller supplies no value.
	Default Default

	// UpdateDefault is applied on every update. Its generator may receive
	// the record's prior state.
	UpdateDefault Default

	// MatchOtherDefaults requests that this attribute observe the same
	// resolved value as any other attribute configured with the identical
	// default generator within one write operation. It has no effect unless
	// Default is a zero-argument generator.
	MatchOtherDefaults bool

	// Source is the storage-level field name when it differs from Name.
	Source string

	// Description documents the attribute.
	Description string
}

// HasDefault reports whether a create default is configured.
func (a Attribute) HasDefault() bool { return !a.Default.IsZero() }

// HasUpdateDefault reports whether an update default is configured.
func (a Attribute) HasUpdateDefault() bool { return !a.UpdateDefault.IsZero() }

// SharesDefault reports whether the create default participates in
// shared-generator resolution.
func (a Attribute) SharesDefault() bool {
	return a.MatchOtherDefaults && a.Default.IsGenerator()
}

// SharesUpdateDefault reports whether the update default participates in
// shared-generator resolution.
func (a Attribute) SharesUpdateDefault() bool {
	return a.MatchOtherDefaults && a.UpdateDefault.IsGenerator()
}
