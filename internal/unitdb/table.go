package unitdb

// def is one row of the GNU-units-derived mini-DSL (spec.md §4.5): a
// singular name, an optional plural alias, and a definition body. A body of
// exactly "!" declares a new base unit; anything else is an expression
// evaluated (lazily, memoised, cycle-checked) against already-resolved
// units, following original_source/core/src/units.rs's expr_unit.
type def struct {
	Singular       string
	Plural         string
	Body           string
	AllowLongPrefix  bool
	AllowShortPrefix bool
}

// baseDefs are the fixed canonical physical dimensions (spec.md §3).
var baseDefs = []def{
	{Singular: "s", Plural: "seconds", Body: "!", AllowShortPrefix: true},
	{Singular: "second", Plural: "seconds", Body: "s"},
	{Singular: "m", Plural: "meters", Body: "!", AllowLongPrefix: true, AllowShortPrefix: true},
	{Singular: "meter", Plural: "meters", Body: "m", AllowLongPrefix: true},
	{Singular: "metre", Plural: "metres", Body: "m", AllowLongPrefix: true},
	{Singular: "g", Plural: "grams", Body: "!", AllowShortPrefix: true},
	{Singular: "gram", Plural: "grams", Body: "g", AllowLongPrefix: true},
	{Singular: "gramme", Plural: "grammes", Body: "g", AllowLongPrefix: true},
	{Singular: "A", Plural: "amperes", Body: "!", AllowShortPrefix: true},
	{Singular: "ampere", Plural: "amperes", Body: "A", AllowLongPrefix: true},
	{Singular: "K", Plural: "kelvin", Body: "!", AllowShortPrefix: true},
	{Singular: "kelvin", Plural: "kelvin", Body: "K", AllowLongPrefix: true},
	{Singular: "mol", Plural: "moles", Body: "!"},
	{Singular: "mole", Plural: "moles", Body: "mol"},
	{Singular: "cd", Plural: "candela", Body: "!"},
	{Singular: "candela", Plural: "candela", Body: "cd"},
	{Singular: "radian", Plural: "radians", Body: "!"},
	{Singular: "rad", Plural: "radians", Body: "radian"},
	{Singular: "bit", Plural: "bits", Body: "!", AllowShortPrefix: true},
	{Singular: "USD", Plural: "USD", Body: "!"},
}

// derivedDefs are the non-base units resolved through the self-hosted
// expression evaluator, the way original_source/core/src/units/builtin_units.rs
// lists them ("singular"/"plural" "definition").
var derivedDefs = []def{
	// mass
	{Singular: "kg", Plural: "kg", Body: "1000 g"},
	{Singular: "kilogram", Plural: "kilograms", Body: "kg"},
	{Singular: "tonne", Plural: "tonnes", Body: "1000 kg"},
	{Singular: "lb", Plural: "lbs", Body: "0.45359237 kg"},
	{Singular: "pound", Plural: "pounds", Body: "lb"},
	{Singular: "oz", Plural: "oz", Body: "lb / 16"},
	{Singular: "ounce", Plural: "ounces", Body: "oz"},
	{Singular: "stone", Plural: "stone", Body: "14 lb"},

	// length
	{Singular: "inch", Plural: "inches", Body: "2.54 cm"},
	{Singular: "in", Plural: "in", Body: "inch"},
	{Singular: "\"", Plural: "\"", Body: "inch"},
	{Singular: "foot", Plural: "feet", Body: "12 inches"},
	{Singular: "ft", Plural: "ft", Body: "foot"},
	{Singular: "'", Plural: "'", Body: "foot"},
	{Singular: "yard", Plural: "yards", Body: "3 feet"},
	{Singular: "yd", Plural: "yd", Body: "yard"},
	{Singular: "mile", Plural: "miles", Body: "1760 yards"},
	{Singular: "mi", Plural: "mi", Body: "mile"},
	{Singular: "nauticalmile", Plural: "nauticalmiles", Body: "1852 m"},
	{Singular: "angstrom", Plural: "angstroms", Body: "1e-10 m"},
	{Singular: "au", Plural: "au", Body: "149597870700 m"},
	{Singular: "lightyear", Plural: "lightyears", Body: "9460730472580800 m"},
	{Singular: "ly", Plural: "ly", Body: "lightyear"},
	{Singular: "parsec", Plural: "parsecs", Body: "3.0856775814913673e16 m"},

	// time
	{Singular: "minute", Plural: "minutes", Body: "60 s"},
	{Singular: "min", Plural: "mins", Body: "minute"},
	{Singular: "hour", Plural: "hours", Body: "60 minutes"},
	{Singular: "hr", Plural: "hrs", Body: "hour"},
	{Singular: "day", Plural: "days", Body: "24 hours"},
	{Singular: "week", Plural: "weeks", Body: "7 days"},
	{Singular: "fortnight", Plural: "fortnights", Body: "2 weeks"},
	{Singular: "year", Plural: "years", Body: "365.25 days"},
	{Singular: "yr", Plural: "yrs", Body: "year"},
	{Singular: "month", Plural: "months", Body: "year / 12"},
	{Singular: "decade", Plural: "decades", Body: "10 years"},
	{Singular: "century", Plural: "centuries", Body: "100 years"},
	{Singular: "millennium", Plural: "millennia", Body: "1000 years"},
	{Singular: "Hz", Plural: "Hz", Body: "1 / s", AllowShortPrefix: true},
	{Singular: "hertz", Plural: "hertz", Body: "Hz"},

	// angle
	{Singular: "degree", Plural: "degrees", Body: "pi/180 radians"},
	{Singular: "deg", Plural: "degs", Body: "degree"},
	{Singular: "°", Plural: "°", Body: "degree"},
	{Singular: "arcmin", Plural: "arcmins", Body: "degree / 60"},
	{Singular: "arcsec", Plural: "arcsecs", Body: "arcmin / 60"},
	{Singular: "gradian", Plural: "gradians", Body: "pi/200 radians"},
	{Singular: "turn", Plural: "turns", Body: "2 pi radians"},

	// information
	{Singular: "byte", Plural: "bytes", Body: "8 bits", AllowShortPrefix: true},
	{Singular: "B", Plural: "B", Body: "byte", AllowShortPrefix: true},

	// dimensionless / ratios
	{Singular: "percent", Plural: "percent", Body: "0.01"},
	{Singular: "%", Plural: "%", Body: "percent"},
	{Singular: "permille", Plural: "permille", Body: "0.001"},
	{Singular: "‰", Plural: "‰", Body: "permille"},
	{Singular: "ppm", Plural: "ppm", Body: "1e-6"},

	// derived SI (mechanics/electromagnetism)
	{Singular: "newton", Plural: "newtons", Body: "kg m / s^2"},
	{Singular: "N", Plural: "N", Body: "newton", AllowShortPrefix: true},
	{Singular: "joule", Plural: "joules", Body: "N m"},
	{Singular: "J", Plural: "J", Body: "joule", AllowShortPrefix: true},
	{Singular: "watt", Plural: "watts", Body: "J / s"},
	{Singular: "W", Plural: "W", Body: "watt", AllowShortPrefix: true},
	{Singular: "pascal", Plural: "pascals", Body: "N / m^2"},
	{Singular: "Pa", Plural: "Pa", Body: "pascal", AllowShortPrefix: true},
	{Singular: "bar", Plural: "bars", Body: "100000 Pa"},
	{Singular: "atm", Plural: "atm", Body: "101325 Pa"},
	{Singular: "psi", Plural: "psi", Body: "6894.757293168361 Pa"},
	{Singular: "coulomb", Plural: "coulombs", Body: "A s"},
	{Singular: "C", Plural: "C", Body: "coulomb", AllowShortPrefix: true},
	{Singular: "volt", Plural: "volts", Body: "J / C"},
	{Singular: "V", Plural: "V", Body: "volt", AllowShortPrefix: true},
	{Singular: "ohm", Plural: "ohms", Body: "V / A"},
	{Singular: "farad", Plural: "farads", Body: "C / V"},
	{Singular: "F", Plural: "F", Body: "farad", AllowShortPrefix: true},
	{Singular: "henry", Plural: "henries", Body: "V s / A"},
	{Singular: "H", Plural: "H", Body: "henry", AllowShortPrefix: true},
	{Singular: "weber", Plural: "webers", Body: "V s"},
	{Singular: "Wb", Plural: "Wb", Body: "weber", AllowShortPrefix: true},
	{Singular: "tesla", Plural: "tesla", Body: "Wb / m^2"},
	{Singular: "T", Plural: "T", Body: "tesla", AllowShortPrefix: true},
	{Singular: "siemens", Plural: "siemens", Body: "A / V"},
	{Singular: "lumen", Plural: "lumens", Body: "cd"},
	{Singular: "lux", Plural: "lux", Body: "lumen / m^2"},
	{Singular: "katal", Plural: "katals", Body: "mol / s"},
	{Singular: "calorie", Plural: "calories", Body: "4.184 J"},
	{Singular: "cal", Plural: "cal", Body: "calorie"},
	{Singular: "btu", Plural: "btu", Body: "1055.05585262 J"},
	{Singular: "kWh", Plural: "kWh", Body: "3600000 J"},
	{Singular: "horsepower", Plural: "horsepower", Body: "745.69987158227022 W"},
	{Singular: "hp", Plural: "hp", Body: "horsepower"},

	// volume/area
	{Singular: "L", Plural: "L", Body: "dm^3", AllowShortPrefix: true},
	{Singular: "liter", Plural: "liters", Body: "L", AllowLongPrefix: true},
	{Singular: "litre", Plural: "litres", Body: "L", AllowLongPrefix: true},
	{Singular: "gallon", Plural: "gallons", Body: "3.785411784 L"},
	{Singular: "gal", Plural: "gal", Body: "gallon"},
	{Singular: "quart", Plural: "quarts", Body: "gallon / 4"},
	{Singular: "pint", Plural: "pints", Body: "quart / 2"},
	{Singular: "cup", Plural: "cups", Body: "pint / 2"},
	{Singular: "floz", Plural: "floz", Body: "cup / 8"},
	{Singular: "acre", Plural: "acres", Body: "4046.8564224 m^2"},
	{Singular: "hectare", Plural: "hectares", Body: "10000 m^2"},
	{Singular: "ha", Plural: "ha", Body: "hectare"},

	// speed
	{Singular: "mph", Plural: "mph", Body: "mile / hour"},
	{Singular: "knot", Plural: "knots", Body: "nauticalmile / hour"},
	{Singular: "kn", Plural: "kn", Body: "knot"},
	{Singular: "c", Plural: "c", Body: "299792458 m/s"},
}
