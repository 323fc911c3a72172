package resolve

import (
	"fmt"

	"github.com/artpar/attrkit/core/attribute"
)

// ResolutionError reports a default generator failure during a live write.
// It aborts that record's value computation; it never falls back to nil or a
// stale cached value.
type ResolutionError struct {
	Attribute string
	Err       error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve default for %q: %v", e.Attribute, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Create resolves the create defaults for attrs within scope. Attributes
// without a configured default are skipped. Literals are used verbatim;
// independent generators are invoked once per attribute; attributes that
// requested matching and share a generator reference resolve through the
// scope's cache.
func Create(scope *Scope, attrs []attribute.Attribute) (attribute.Record, error) {
	values := make(attribute.Record, len(attrs))
	for _, a := range attrs {
		if !a.HasDefault() {
			continue
		}
		v, err := resolveOne(scope, a, a.Default, nil)
		if err != nil {
			return nil, err
		}
		values[a.Name] = v
	}
	return values, nil
}

// Update resolves the update defaults for attrs within scope. Update
// defaults apply on every update regardless of what else changed; one-argument
// generators receive prior, the record's pre-update state.
func Update(scope *Scope, attrs []attribute.Attribute, prior attribute.Record) (attribute.Record, error) {
	values := make(attribute.Record, len(attrs))
	for _, a := range attrs {
		if !a.HasUpdateDefault() {
			continue
		}
		v, err := resolveOne(scope, a, a.UpdateDefault, prior)
		if err != nil {
			return nil, err
		}
		values[a.Name] = v
	}
	return values, nil
}

func resolveOne(scope *Scope, a attribute.Attribute, d attribute.Default, prior attribute.Record) (any, error) {
	if a.MatchOtherDefaults {
		if tok, ok := d.Token(); ok {
			v, err := scope.shared(tok, d)
			if err != nil {
				return nil, &ResolutionError{Attribute: a.Name, Err: err}
			}
			return v, nil
		}
	}
	v, err := d.Invoke(prior)
	if err != nil {
		return nil, &ResolutionError{Attribute: a.Name, Err: err}
	}
	return v, nil
}

// Shared reports whether a's resolution for the given phase goes through the
// scope cache. Useful for instrumentation.
func Shared(a attribute.Attribute, update bool) bool {
	if update {
		return a.SharesUpdateDefault()
	}
	return a.SharesDefault()
}
