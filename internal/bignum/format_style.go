package bignum

// FormatStyle is the subset of output-format hints that apply to a plain
// rational number (spec.md §4.4). The non-numeric hints (roman, words,
// string, date, codepoint, explicit base) live one level up, on the Value's
// format spec, since they are not properties of a rational magnitude alone.
type FormatStyle int

const (
	// Auto: exact terminating float if short, else 10 sf approx float.
	Auto FormatStyle = iota
	Exact
	Float
	Fraction
	MixedFraction
	DecimalPlaces
	SigFigs
)

// Format bundles a style with the N parameter DecimalPlaces/SigFigs use.
type Format struct {
	Style FormatStyle
	N     int
}

func AutoFormat() Format { return Format{Style: Auto} }
