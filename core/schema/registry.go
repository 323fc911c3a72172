package schema

import "github.com/artpar/attrkit/core/attribute"

// Recognized option names.
const (
	OptName               = "name"
	OptType               = "type"
	OptConstraints        = "constraints"
	OptAllowNil           = "allow_nil"
	OptPrimaryKey         = "primary_key"
	OptPrivate            = "private"
	OptWritable           = "writable"
	OptGenerated          = "generated"
	OptAlwaysSelect       = "always_select"
	OptSensitive          = "sensitive"
	OptFilterable         = "filterable"
	OptDefault            = "default"
	OptUpdateDefault      = "update_default"
	OptMatchOtherDefaults = "match_other_defaults"
	OptSource             = "source"
	OptDescription        = "description"
)

// FilterableSimpleEquality is the enum symbol restricting filters to
// equality checks.
const FilterableSimpleEquality = "simple_equality"

// Kind names a derived attribute schema.
type Kind string

const (
	KindBase              Kind = "base"
	KindCreateTimestamp   Kind = "create_timestamp"
	KindUpdateTimestamp   Kind = "update_timestamp"
	KindUUIDPrimaryKey    Kind = "uuid_primary_key"
	KindIntegerPrimaryKey Kind = "integer_primary_key"
)

// Kinds returns all registered kinds in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindBase,
		KindCreateTimestamp,
		KindUpdateTimestamp,
		KindUUIDPrimaryKey,
		KindIntegerPrimaryKey,
	}
}

// Base returns the base attribute option schema.
func Base() Schema {
	return MustNew(
		OptionSpec{
			Name: OptName,
			Type: Symbol(),
			Doc: "The attribute's name, unique within its resource. Uniqueness " +
				"is enforced by the resource compiler, which injects this option.",
		},
		OptionSpec{
			Name:     OptType,
			Type:     TypeRef(),
			Required: true,
			Doc:      "The attribute's type in the external type system.",
		},
		OptionSpec{
			Name: OptConstraints,
			Type: KeywordList(),
			Doc:  "Type-specific constraints, interpreted by the type.",
		}.WithDefault(attribute.Constraints{}),
		OptionSpec{
			Name: OptAllowNil,
			Type: Bool(),
			Doc:  "Whether nil is accepted on write.",
		}.WithDefault(false),
		OptionSpec{
			Name: OptPrimaryKey,
			Type: Bool(),
			Doc:  "Whether the attribute is part of the resource identity.",
		}.WithDefault(false),
		OptionSpec{
			Name: OptPrivate,
			Type: Bool(),
			Doc:  "Whether the attribute is hidden from public interfaces.",
		}.WithDefault(false),
		OptionSpec{
			Name: OptWritable,
			Type: Bool(),
			Doc:  "Whether callers may set the attribute.",
		}.WithDefault(true),
		OptionSpec{
			Name: OptGenerated,
			Type: Bool(),
			Doc:  "Whether the underlying store produces the value.",
		}.WithDefault(false),
		OptionSpec{
			Name: OptAlwaysSelect,
			Type: Bool(),
			Doc:  "Whether the attribute is included in every read.",
		}.WithDefault(false),
		OptionSpec{
			Name: OptSensitive,
			Type: Bool(),
			Doc:  "Whether the value is excluded from logs and introspection.",
		}.WithDefault(false),
		OptionSpec{
			Name: OptFilterable,
			Type: Union(Bool(), Enum(FilterableSimpleEquality)),
			Doc:  "Whether and how the attribute participates in filters.",
		}.WithDefault(true),
		OptionSpec{
			Name: OptDefault,
			Type: DefaultValue(),
			Doc:  "Value or generator applied on create when no value is supplied.",
		},
		OptionSpec{
			Name: OptUpdateDefault,
			Type: DefaultValue(),
			Doc:  "Value or generator applied on every update.",
		},
		OptionSpec{
			Name: OptMatchOtherDefaults,
			Type: Bool(),
			Doc: "Whether the resolved default must equal that of other " +
				"attributes sharing the same generator within one write.",
		}.WithDefault(false),
		OptionSpec{
			Name: OptSource,
			Type: Symbol(),
			Doc:  "Storage-level field name, when it differs from the name.",
		},
		OptionSpec{
			Name: OptDescription,
			Type: String(),
			Doc:  "Attribute documentation.",
		},
	)
}

// Registry holds the base schema and its derived variants, computed once and
// immutable thereafter — safe for unrestricted concurrent reads.
type Registry struct {
	schemas map[Kind]Schema
}

// NewRegistry derives every variant from the base schema. now and newID back
// the timestamp and primary-key presets; both must be constructed once and
// reused so attributes derived here share generator references. A derivation
// error aborts wiring.
func NewRegistry(now, newID attribute.Generator) (*Registry, error) {
	base := Base()

	nowDefault := attribute.FromGenerator(now)
	idDefault := attribute.FromGenerator(newID)

	timestamp := []Override{
		{Option: OptType, Default: "utc_datetime_usec"},
		{Option: OptWritable, Default: false},
		{Option: OptPrivate, Default: true},
		{Option: OptAllowNil, Default: false},
		{Option: OptDefault, Default: nowDefault},
		{Option: OptMatchOtherDefaults, Default: true},
	}

	createTS, err := Derive(base, timestamp, nil)
	if err != nil {
		return nil, err
	}

	withUpdate := make([]Override, len(timestamp), len(timestamp)+1)
	copy(withUpdate, timestamp)
	withUpdate = append(withUpdate, Override{Option: OptUpdateDefault, Default: nowDefault})

	updateTS, err := Derive(base, withUpdate, nil)
	if err != nil {
		return nil, err
	}

	uuidPK, err := Derive(base, []Override{
		{Option: OptType, Default: "uuid"},
		{Option: OptWritable, Default: false},
		{Option: OptPrimaryKey, Default: true},
		{Option: OptDefault, Default: idDefault},
	}, []string{OptAllowNil})
	if err != nil {
		return nil, err
	}

	integerPK, err := Derive(base, []Override{
		{Option: OptType, Default: "integer"},
		{Option: OptWritable, Default: false},
		{Option: OptPrimaryKey, Default: true},
		{Option: OptGenerated, Default: true},
	}, []string{OptAllowNil})
	if err != nil {
		return nil, err
	}

	return &Registry{schemas: map[Kind]Schema{
		KindBase:              base,
		KindCreateTimestamp:   createTS,
		KindUpdateTimestamp:   updateTS,
		KindUUIDPrimaryKey:    uuidPK,
		KindIntegerPrimaryKey: integerPK,
	}}, nil
}

// MustRegistry is NewRegistry, panicking on derivation failure.
func MustRegistry(now, newID attribute.Generator) *Registry {
	r, err := NewRegistry(now, newID)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the schema for kind.
func (r *Registry) Get(kind Kind) (Schema, bool) {
	s, ok := r.schemas[kind]
	return s, ok
}
