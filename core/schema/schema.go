package schema

// TypeTag identifies the shape of values an option accepts.
type TypeTag string

const (
	// TagSymbol accepts a bare name (rendered as a Go string).
	TagSymbol TypeTag = "symbol"

	// TagBool accepts a boolean.
	TagBool TypeTag = "bool"

	// TagString accepts free-form text.
	TagString TypeTag = "string"

	// TagKeywordList accepts an ordered key/value list.
	TagKeywordList TypeTag = "keyword_list"

	// TagTypeRef accepts a reference into the external type system.
	TagTypeRef TypeTag = "type_ref"

	// TagUnion accepts any of its member types.
	TagUnion TypeTag = "union"

	// TagEnum accepts one of a fixed set of symbols.
	TagEnum TypeTag = "enum"

	// TagDefault accepts a literal value or a generator reference.
	TagDefault TypeTag = "default"
)

// OptionType is the (possibly nested) type constraint for one option.
type OptionType struct {
	Tag TypeTag

	// OneOf lists member types when Tag is TagUnion.
	OneOf []OptionType

	// Values lists allowed symbols when Tag is TagEnum.
	Values []string
}

// Symbol returns the bare-name type.
func Symbol() OptionType { return OptionType{Tag: TagSymbol} }

// Bool returns the boolean type.
func Bool() OptionType { return OptionType{Tag: TagBool} }

// String returns the text type.
func String() OptionType { return OptionType{Tag: TagString} }

// KeywordList returns the ordered key/value list type.
func KeywordList() OptionType { return OptionType{Tag: TagKeywordList} }

// TypeRef returns the external type reference type.
func TypeRef() OptionType { return OptionType{Tag: TagTypeRef} }

// Union returns a type accepting any of the given members.
func Union(members ...OptionType) OptionType {
	return OptionType{Tag: TagUnion, OneOf: members}
}

// Enum returns a type accepting one of the given symbols.
func Enum(values ...string) OptionType {
	return OptionType{Tag: TagEnum, Values: values}
}

// DefaultValue returns the literal-or-generator type.
func DefaultValue() OptionType { return OptionType{Tag: TagDefault} }

// OptionSpec describes one recognized option.
type OptionSpec struct {
	// Name is the option's symbolic key, unique within its schema.
	Name string

	// Type constrains accepted values.
	Type OptionType

	// Default is copied into the validated descriptor when the caller omits
	// the option. Meaningful only when HasDefault is true; an explicit nil
	// default is distinct from "no default".
	Default    any
	HasDefault bool

	// Required fails validation when the option is omitted and no default
	// exists.
	Required bool

	// Doc documents the option.
	Doc string
}

// WithDefault returns a copy of the spec carrying the given default.
func (o OptionSpec) WithDefault(v any) OptionSpec {
	o.Default = v
	o.HasDefault = true
	return o
}

// Schema is an ordered, immutable set of option specifications.
type Schema struct {
	opts  []OptionSpec
	index map[string]int
}

// New builds a schema from specs. Option names must be unique.
func New(opts ...OptionSpec) (Schema, error) {
	index := make(map[string]int, len(opts))
	for i, o := range opts {
		if o.Name == "" {
			return Schema{}, &InvalidAttributeError{Reason: "option with empty name"}
		}
		if _, dup := index[o.Name]; dup {
			return Schema{}, &InvalidAttributeError{Reason: "duplicate option " + o.Name}
		}
		index[o.Name] = i
	}
	held := make([]OptionSpec, len(opts))
	copy(held, opts)
	return Schema{opts: held, index: index}, nil
}

// MustNew is New, panicking on error. For wiring-time construction only.
func MustNew(opts ...OptionSpec) Schema {
	s, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of options.
func (s Schema) Len() int { return len(s.opts) }

// Options returns the option specs in declaration order.
func (s Schema) Options() []OptionSpec {
	out := make([]OptionSpec, len(s.opts))
	copy(out, s.opts)
	return out
}

// Lookup returns the spec for name, if declared.
func (s Schema) Lookup(name string) (OptionSpec, bool) {
	i, ok := s.index[name]
	if !ok {
		return OptionSpec{}, false
	}
	return s.opts[i], true
}

// Has reports whether name is declared.
func (s Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}
