// Package compiler is the in-memory filter domain: filters compile to
// Accessor closures evaluated directly against Go values (maps, slices,
// structs, or any mix of them) with no further tree walking.
package compiler

import (
	"strings"

	"github.com/lytics/odataql/value"
	"github.com/lytics/odataql/vm"
)

var (
	_ vm.Domain[Accessor] = (*Domain)(nil)
	_ vm.ConverterProvider = (*Domain)(nil)
)

// Domain compiles filters into Accessors. It holds no mutable state and
// is safe for concurrent use.
type Domain struct {
	converters []value.Converter
	globLike   bool
}

// NewDomain returns a domain whose literal chain is prepend followed by
// the extended converters (signed numbers, anchored dates and times).
func NewDomain(prepend ...value.Converter) *Domain {
	cs := make([]value.Converter, 0, len(prepend)+6)
	cs = append(cs, prepend...)
	cs = append(cs, value.ExtendedConverters()...)
	return &Domain{converters: cs}
}

// WithGlobLike returns a copy of d whose like operator treats % and * in
// the pattern as wildcards over the whole string. Patterns without them
// stay substring tests.
func (d *Domain) WithGlobLike() *Domain {
	c := *d
	c.globLike = true
	return &c
}

func (d *Domain) Converters() []value.Converter { return d.converters }

// ResolveColumn never fails; a path that leads nowhere reads as nil.
func (d *Domain) ResolveColumn(path string) (Accessor, error) {
	path = strings.TrimSpace(path)
	return func(row any) value.Value { return GetPath(row, path) }, nil
}

func (d *Domain) Literal(v value.Value) Accessor { return Const(v) }

func (d *Domain) Collection(items []Accessor) (Accessor, error) {
	return LiftN(func(vals []value.Value) value.Value {
		return value.NewSliceValues(vals)
	})(items...), nil
}
