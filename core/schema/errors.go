package schema

import "fmt"

// UnknownOptionError reports a reference to an option the schema does not
// declare. During variant derivation this is a wiring-time failure; during
// attribute validation it is fatal to that resource's definition.
type UnknownOptionError struct {
	Option string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown option %q", e.Option)
}

// InvalidOptionTypeError reports a supplied value that does not satisfy the
// option's declared type.
type InvalidOptionTypeError struct {
	Option   string
	Expected OptionType
	Got      any
}

func (e *InvalidOptionTypeError) Error() string {
	return fmt.Sprintf("option %q: expected %s, got %T", e.Option, describeType(e.Expected), e.Got)
}

// MissingRequiredOptionError reports an omitted option with no default.
type MissingRequiredOptionError struct {
	Option string
}

func (e *MissingRequiredOptionError) Error() string {
	return fmt.Sprintf("missing required option %q", e.Option)
}

// InvalidAttributeError reports a cross-option invariant violation.
type InvalidAttributeError struct {
	Reason string
}

func (e *InvalidAttributeError) Error() string {
	return "invalid attribute: " + e.Reason
}

func describeType(t OptionType) string {
	switch t.Tag {
	case TagUnion:
		s := "one of ("
		for i, m := range t.OneOf {
			if i > 0 {
				s += " | "
			}
			s += describeType(m)
		}
		return s + ")"
	case TagEnum:
		s := "enum ["
		for i, v := range t.Values {
			if i > 0 {
				s += ", "
			}
			s += v
		}
		return s + "]"
	default:
		return string(t.Tag)
	}
}
