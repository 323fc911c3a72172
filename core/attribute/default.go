package attribute

import (
	"fmt"
	"reflect"
)

// Generator produces a default value at write time. Generators may be impure
// (clock reads, fresh random ids) and must be fast and non-blocking.
type Generator func() (any, error)

// UpdateGenerator produces an update-default value from the record's
// pre-update state.
type UpdateGenerator func(prior Record) (any, error)

// Token identifies a generator reference for shared-default grouping. Two
// defaults carry the same token when they were configured with the same
// function reference; construct a generator once and reuse the reference
// wherever sharing is wanted.
type Token uintptr

type defaultKind int

const (
	defaultNone defaultKind = iota
	defaultLiteral
	defaultGenerator
	defaultUpdateGenerator
)

// Default is a tagged union: absent, a literal value, a zero-argument
// generator, or a one-argument generator receiving the prior record.
// The zero value means "no default configured".
type Default struct {
	kind    defaultKind
	literal any
	gen     Generator
	upd     UpdateGenerator
	token   Token
}

// Literal configures a verbatim default value.
func Literal(v any) Default {
	return Default{kind: defaultLiteral, literal: v}
}

// FromGenerator configures a lazily-invoked zero-argument generator.
func FromGenerator(g Generator) Default {
	if g == nil {
		return Default{}
	}
	return Default{
		kind:  defaultGenerator,
		gen:   g,
		token: Token(reflect.ValueOf(g).Pointer()),
	}
}

// FromUpdateGenerator configures a generator receiving the prior record.
// Update generators never participate in shared-default grouping.
func FromUpdateGenerator(g UpdateGenerator) Default {
	if g == nil {
		return Default{}
	}
	return Default{kind: defaultUpdateGenerator, upd: g}
}

// IsZero reports whether no default is configured.
func (d Default) IsZero() bool { return d.kind == defaultNone }

// IsLiteral reports whether the default is a verbatim value.
func (d Default) IsLiteral() bool { return d.kind == defaultLiteral }

// IsGenerator reports whether the default is a zero-argument generator.
func (d Default) IsGenerator() bool { return d.kind == defaultGenerator }

// IsUpdateGenerator reports whether the default takes the prior record.
func (d Default) IsUpdateGenerator() bool { return d.kind == defaultUpdateGenerator }

// Literal returns the configured literal value.
func (d Default) Literal() (any, bool) {
	if d.kind != defaultLiteral {
		return nil, false
	}
	return d.literal, true
}

// Token returns the sharing token for a zero-argument generator default.
func (d Default) Token() (Token, bool) {
	if d.kind != defaultGenerator {
		return 0, false
	}
	return d.token, true
}

// Invoke computes the default value. prior is consulted only by update
// generators and may be nil otherwise.
func (d Default) Invoke(prior Record) (any, error) {
	switch d.kind {
	case defaultLiteral:
		return d.literal, nil
	case defaultGenerator:
		return d.gen()
	case defaultUpdateGenerator:
		return d.upd(prior)
	default:
		return nil, fmt.Errorf("no default configured")
	}
}
