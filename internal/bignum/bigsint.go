package bignum

// BigSInt is a signed arbitrary-precision integer: a sign paired with a
// BigUInt magnitude. Zero is always canonically represented with Positive
// sign, per spec.
type BigSInt struct {
	negative bool
	mag      BigUInt
}

// SIntFromInt64 builds a BigSInt from a machine integer.
func SIntFromInt64(n int64) BigSInt {
	if n == 0 {
		return BigSInt{}
	}
	if n < 0 {
		return BigSInt{negative: true, mag: FromUint64(uint64(-n))}
	}
	return BigSInt{mag: FromUint64(uint64(n))}
}

func SIntFromUInt(neg bool, mag BigUInt) BigSInt {
	if mag.IsZero() {
		return BigSInt{}
	}
	return BigSInt{negative: neg, mag: mag}
}

func (s BigSInt) IsZero() bool    { return s.mag.IsZero() }
func (s BigSInt) IsNegative() bool { return s.negative && !s.mag.IsZero() }
func (s BigSInt) Magnitude() BigUInt { return s.mag }

func (s BigSInt) Neg() BigSInt {
	if s.IsZero() {
		return s
	}
	return BigSInt{negative: !s.negative, mag: s.mag}
}

func (s BigSInt) Abs() BigSInt { return BigSInt{mag: s.mag} }

func (s BigSInt) Cmp(o BigSInt) int {
	if s.IsNegative() != o.IsNegative() {
		if s.IsNegative() {
			return -1
		}
		return 1
	}
	c := s.mag.Cmp(o.mag)
	if s.IsNegative() {
		return -c
	}
	return c
}

func (s BigSInt) Add(o BigSInt) BigSInt {
	if s.IsNegative() == o.IsNegative() {
		return BigSInt{negative: s.IsNegative(), mag: s.mag.Add(o.mag)}
	}
	if s.mag.Cmp(o.mag) >= 0 {
		return SIntFromUInt(s.IsNegative(), s.mag.Sub(o.mag))
	}
	return SIntFromUInt(o.IsNegative(), o.mag.Sub(s.mag))
}

func (s BigSInt) Sub(o BigSInt) BigSInt { return s.Add(o.Neg()) }

func (s BigSInt) Mul(o BigSInt) BigSInt {
	return SIntFromUInt(s.IsNegative() != o.IsNegative(), s.mag.Mul(o.mag))
}

// DivMod performs truncating division (quotient rounds toward zero).
func (s BigSInt) DivMod(o BigSInt) (BigSInt, BigSInt, error) {
	q, r, err := s.mag.DivMod(o.mag)
	if err != nil {
		return BigSInt{}, BigSInt{}, err
	}
	return SIntFromUInt(s.IsNegative() != o.IsNegative(), q), SIntFromUInt(s.IsNegative(), r), nil
}

func (s BigSInt) AsInt64() (int64, bool) {
	u, ok := s.mag.AsUint64()
	if !ok || u > 1<<63 {
		return 0, false
	}
	if s.IsNegative() {
		return -int64(u), true
	}
	if u == 1<<63 {
		return 0, false
	}
	return int64(u), true
}

func (s BigSInt) AsFloat64() float64 {
	f := s.mag.AsFloat64()
	if s.IsNegative() {
		return -f
	}
	return f
}

func (s BigSInt) String(base int) (string, error) {
	mag, err := s.mag.String(base)
	if err != nil {
		return "", err
	}
	if s.IsNegative() {
		return "-" + mag, nil
	}
	return mag, nil
}
