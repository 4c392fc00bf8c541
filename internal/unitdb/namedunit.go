// Package unitdb is the static unit/prefix database (spec.md §2, §4.5):
// roughly GNU-units-derived definitions parsed from a small DSL on first
// use, plus SI/binary prefix tables and the longest-prefix-match resolver.
package unitdb

import "github.com/printfn/fend/internal/units"

// NamedUnit is a resolved unit or prefixed unit: a display name pair plus
// the Quantity it is worth (spec.md §4.5 "a Number Value with scale and
// unit exponents set").
type NamedUnit struct {
	Singular string
	Plural   string
	Value    units.Quantity
}
