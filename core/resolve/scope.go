// Package resolve computes effective default values for a set of attributes
// within one logical write operation, honoring the shared-generator
// invariant: attributes that requested matching and carry the identical
// generator reference observe one resolved value per scope.
package resolve

import (
	"sync"

	"github.com/artpar/attrkit/core/attribute"
)

// Scope is the token-to-value cache for one resolution scope. The caller
// decides what one scope covers: one scope per record gives each record its
// own shared instants; one scope across a whole batch makes every record
// observe the same instants. A Scope is safe for concurrent use so the
// batch-wide choice works with parallel record workers; it must be discarded
// when the operation ends and never reused across operations.
type Scope struct {
	mu     sync.Mutex
	values map[attribute.Token]any
}

// NewScope creates an empty resolution scope.
func NewScope() *Scope {
	return &Scope{values: make(map[attribute.Token]any)}
}

// shared returns the value for tok, invoking d at most once per scope. A
// generator error is returned without caching, leaving the scope usable for
// other tokens and for later retries of this one.
func (s *Scope) shared(tok attribute.Token, d attribute.Default) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.values[tok]; ok {
		return v, nil
	}
	v, err := d.Invoke(nil)
	if err != nil {
		return nil, err
	}
	s.values[tok] = v
	return v, nil
}
