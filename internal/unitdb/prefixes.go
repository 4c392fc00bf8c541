package unitdb

import "github.com/printfn/fend/internal/bignum"

// prefix is an SI or binary multiplier applicable to unit names whose
// AllowLongPrefix/AllowShortPrefix flag permits it (spec.md §4.5 step 3).
type prefix struct {
	Long    string
	Short   string
	PowerOf bignum.BigRat // 10^n or 1024^n, pre-multiplied
	Long2   bool          // true for binary (kibi/Ki) prefixes
}

func pow10(n int64) bignum.BigRat {
	ten := bignum.IntFromInt64(10)
	out, _ := ten.PowInt(n)
	return out
}

func pow1024(n int64) bignum.BigRat {
	v := bignum.IntFromInt64(1024)
	out, _ := v.PowInt(n)
	return out
}

// siPrefixes covers yocto..yotta; each entry applies only to names whose
// AllowShortPrefix (for the symbol) or AllowLongPrefix (for the word) is set.
var siPrefixes = []prefix{
	{Long: "yotta", Short: "Y", PowerOf: pow10(24)},
	{Long: "zetta", Short: "Z", PowerOf: pow10(21)},
	{Long: "exa", Short: "E", PowerOf: pow10(18)},
	{Long: "peta", Short: "P", PowerOf: pow10(15)},
	{Long: "tera", Short: "T", PowerOf: pow10(12)},
	{Long: "giga", Short: "G", PowerOf: pow10(9)},
	{Long: "mega", Short: "M", PowerOf: pow10(6)},
	{Long: "kilo", Short: "k", PowerOf: pow10(3)},
	{Long: "hecto", Short: "h", PowerOf: pow10(2)},
	{Long: "deca", Short: "da", PowerOf: pow10(1)},
	{Long: "deci", Short: "d", PowerOf: pow10(-1)},
	{Long: "centi", Short: "c", PowerOf: pow10(-2)},
	{Long: "milli", Short: "m", PowerOf: pow10(-3)},
	{Long: "micro", Short: "u", PowerOf: pow10(-6)},
	{Long: "nano", Short: "n", PowerOf: pow10(-9)},
	{Long: "pico", Short: "p", PowerOf: pow10(-12)},
	{Long: "femto", Short: "f", PowerOf: pow10(-15)},
	{Long: "atto", Short: "a", PowerOf: pow10(-18)},
	{Long: "zepto", Short: "z", PowerOf: pow10(-21)},
	{Long: "yocto", Short: "y", PowerOf: pow10(-24)},
}

// binaryPrefixes covers kibi..yobi, applicable to `byte`/`B`/`bit`.
var binaryPrefixes = []prefix{
	{Long: "yobi", Short: "Yi", PowerOf: pow1024(8), Long2: true},
	{Long: "zebi", Short: "Zi", PowerOf: pow1024(7), Long2: true},
	{Long: "exbi", Short: "Ei", PowerOf: pow1024(6), Long2: true},
	{Long: "pebi", Short: "Pi", PowerOf: pow1024(5), Long2: true},
	{Long: "tebi", Short: "Ti", PowerOf: pow1024(4), Long2: true},
	{Long: "gibi", Short: "Gi", PowerOf: pow1024(3), Long2: true},
	{Long: "mebi", Short: "Mi", PowerOf: pow1024(2), Long2: true},
	{Long: "kibi", Short: "Ki", PowerOf: pow1024(1), Long2: true},
}
