package schema

// Override replaces the default value of one option, leaving its type,
// required flag, and documentation untouched.
type Override struct {
	Option  string
	Default any
}

// Derive produces a variant schema from base: all overrides are applied
// first, then all removals. Overriding an option the base does not declare
// fails with UnknownOptionError. Removing an option deletes it from the
// variant's surface entirely; removing an option that was just overridden is
// legal and discards the override. The base is never mutated.
func Derive(base Schema, overrides []Override, removals []string) (Schema, error) {
	opts := base.Options()

	for _, ov := range overrides {
		i, ok := base.index[ov.Option]
		if !ok {
			return Schema{}, &UnknownOptionError{Option: ov.Option}
		}
		opts[i] = opts[i].WithDefault(ov.Default)
	}

	if len(removals) > 0 {
		drop := make(map[string]bool, len(removals))
		for _, name := range removals {
			if !base.Has(name) {
				return Schema{}, &UnknownOptionError{Option: name}
			}
			drop[name] = true
		}
		kept := opts[:0]
		for _, o := range opts {
			if !drop[o.Name] {
				kept = append(kept, o)
			}
		}
		opts = kept
	}

	return New(opts...)
}
