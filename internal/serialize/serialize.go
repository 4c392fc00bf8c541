// Package serialize implements the binary codec for the "variables blob"
// spec.md §6 describes: the caller hands Evaluate a byte slice encoding the
// previous call's bound variables, and gets back an updated blob alongside
// the result. The format is a flat tag+payload scheme, chosen so it never
// depends on limb width or native int size (every arbitrary-precision value
// round-trips through its decimal/hex digit string, not its in-memory
// representation), keeping the blob stable across 32- and 64-bit builds.
package serialize

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/cplx"
	"github.com/printfn/fend/internal/dice"
	"github.com/printfn/fend/internal/fdate"
	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
	"github.com/printfn/fend/internal/real"
	"github.com/printfn/fend/internal/units"
	"github.com/printfn/fend/internal/value"
)

// Tag identifies the shape of an encoded Value.
type Tag byte

const (
	TagUnit      Tag = 0x00
	TagRational  Tag = 0x01
	TagComplex   Tag = 0x02
	TagWithUnits Tag = 0x03
	TagString    Tag = 0x04
	TagDate      Tag = 0x05
	TagDist      Tag = 0x06
	TagLambda    Tag = 0x07
)

// formatVersion guards against decoding a blob written by an incompatible
// future revision of this package.
const formatVersion = 1

// Encode serialises a variable scope's user bindings into a self-contained
// blob. Bindings are written in sorted-key order for a deterministic,
// diffable encoding.
func Encode(vars map[string]value.Value) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(formatVersion)
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	sort.Strings(names)
	writeUvarint(&buf, uint64(len(names)))
	for _, name := range names {
		writeString(&buf, name)
		if err := writeValue(&buf, vars[name]); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Decode parses a blob produced by Encode back into a variable scope.
func Decode(data []byte) (map[string]value.Value, error) {
	r := bytes.NewReader(data)
	version, err := r.ReadByte()
	if err != nil {
		if len(data) == 0 {
			return map[string]value.Value{}, nil
		}
		return nil, ferr.New(kind.ParseError, "truncated variables blob")
	}
	if version != formatVersion {
		return nil, ferr.New(kind.ParseError, "unsupported variables blob version %d", version)
	}
	count, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	out := make(map[string]value.Value, count)
	for i := uint64(0); i < count; i++ {
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		v, err := readValue(r)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

func writeValue(buf *bytes.Buffer, v value.Value) error {
	switch t := v.(type) {
	case value.Unit:
		buf.WriteByte(byte(TagUnit))
		return writeQuantity(buf, t.Q)
	case value.Number:
		if !t.Quantity.Unit.IsDimensionless() || t.Quantity.IsAffine() || t.Quantity.Scale.Cmp(bignum.IntFromInt64(1)) != 0 {
			buf.WriteByte(byte(TagWithUnits))
			return writeQuantity(buf, t.Quantity)
		}
		if t.Quantity.Magnitude.IsReal() {
			buf.WriteByte(byte(TagRational))
			return writeRealApprox(buf, t.Quantity.Magnitude.Re)
		}
		buf.WriteByte(byte(TagComplex))
		return writeComplex(buf, t.Quantity.Magnitude)
	case value.String:
		buf.WriteByte(byte(TagString))
		writeString(buf, t.S)
		return nil
	case value.Date:
		buf.WriteByte(byte(TagDate))
		writeInt64(buf, int64(t.D.Year))
		buf.WriteByte(t.D.Month)
		buf.WriteByte(t.D.Day)
		return nil
	case value.Dist:
		buf.WriteByte(byte(TagDist))
		return writeDist(buf, t.D)
	case value.Lambda:
		return ferr.New(kind.InvalidFormat, "lambdas cannot be persisted across invocations")
	}
	return ferr.New(kind.InternalInvariantViolation, "unserializable value %T", v)
}

func readValue(r *bytes.Reader) (value.Value, error) {
	tagByte, err := r.ReadByte()
	if err != nil {
		return nil, ferr.New(kind.ParseError, "truncated variables blob")
	}
	switch Tag(tagByte) {
	case TagUnit:
		q, err := readQuantity(r)
		if err != nil {
			return nil, err
		}
		return value.Unit{Q: q}, nil
	case TagRational:
		a, err := readRealApprox(r)
		if err != nil {
			return nil, err
		}
		return value.Number{Quantity: units.FromComplex(cplx.FromReal(a))}, nil
	case TagComplex:
		c, err := readComplex(r)
		if err != nil {
			return nil, err
		}
		return value.Number{Quantity: units.FromComplex(c)}, nil
	case TagWithUnits:
		q, err := readQuantity(r)
		if err != nil {
			return nil, err
		}
		return value.Number{Quantity: q}, nil
	case TagString:
		s, err := readString(r)
		if err != nil {
			return nil, err
		}
		return value.String{S: s}, nil
	case TagDate:
		year, err := readInt64(r)
		if err != nil {
			return nil, err
		}
		month, err := r.ReadByte()
		if err != nil {
			return nil, ferr.New(kind.ParseError, "truncated variables blob")
		}
		day, err := r.ReadByte()
		if err != nil {
			return nil, ferr.New(kind.ParseError, "truncated variables blob")
		}
		d, err := fdate.New(int32(year), month, day)
		if err != nil {
			return nil, err
		}
		return value.Date{D: d}, nil
	case TagDist:
		d, err := readDist(r)
		if err != nil {
			return nil, err
		}
		return value.Dist{D: d}, nil
	case TagLambda:
		return nil, ferr.New(kind.InvalidFormat, "a persisted lambda cannot be restored")
	}
	return nil, ferr.New(kind.ParseError, "unknown variables blob tag %d", tagByte)
}

func writeQuantity(buf *bytes.Buffer, q units.Quantity) error {
	if err := writeComplex(buf, q.Magnitude); err != nil {
		return err
	}
	if err := writeExponents(buf, q.Unit); err != nil {
		return err
	}
	if err := writeBigRat(buf, q.Scale); err != nil {
		return err
	}
	if q.Offset == nil {
		buf.WriteByte(0)
	} else {
		buf.WriteByte(1)
		if err := writeBigRat(buf, *q.Offset); err != nil {
			return err
		}
	}
	writeUvarint(buf, uint64(q.BaseHint))
	writeUvarint(buf, uint64(q.FmtHint.Style))
	writeUvarint(buf, uint64(q.FmtHint.N))
	if err := writeNames(buf, q.Names); err != nil {
		return err
	}
	if q.NamesBase {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	return nil
}

func writeNames(buf *bytes.Buffer, names map[units.BaseUnit]units.NamePart) error {
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	writeUvarint(buf, uint64(len(keys)))
	for _, k := range keys {
		p := names[units.BaseUnit(k)]
		writeString(buf, k)
		writeString(buf, p.Singular)
		writeString(buf, p.Plural)
		if err := writeBigRat(buf, p.Exp); err != nil {
			return err
		}
		if err := writeComplex(buf, p.Factor); err != nil {
			return err
		}
	}
	return nil
}

func readNames(r *bytes.Reader) (map[units.BaseUnit]units.NamePart, error) {
	count, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	out := make(map[units.BaseUnit]units.NamePart, count)
	for i := uint64(0); i < count; i++ {
		k, err := readString(r)
		if err != nil {
			return nil, err
		}
		singular, err := readString(r)
		if err != nil {
			return nil, err
		}
		plural, err := readString(r)
		if err != nil {
			return nil, err
		}
		exp, err := readBigRat(r)
		if err != nil {
			return nil, err
		}
		factor, err := readComplex(r)
		if err != nil {
			return nil, err
		}
		out[units.BaseUnit(k)] = units.NamePart{Singular: singular, Plural: plural, Exp: exp, Factor: factor}
	}
	return out, nil
}

func readQuantity(r *bytes.Reader) (units.Quantity, error) {
	mag, err := readComplex(r)
	if err != nil {
		return units.Quantity{}, err
	}
	exp, err := readExponents(r)
	if err != nil {
		return units.Quantity{}, err
	}
	scale, err := readBigRat(r)
	if err != nil {
		return units.Quantity{}, err
	}
	hasOffset, err := r.ReadByte()
	if err != nil {
		return units.Quantity{}, ferr.New(kind.ParseError, "truncated variables blob")
	}
	var offset *bignum.BigRat
	if hasOffset == 1 {
		o, err := readBigRat(r)
		if err != nil {
			return units.Quantity{}, err
		}
		offset = &o
	}
	baseHint, err := readUvarint(r)
	if err != nil {
		return units.Quantity{}, err
	}
	style, err := readUvarint(r)
	if err != nil {
		return units.Quantity{}, err
	}
	n, err := readUvarint(r)
	if err != nil {
		return units.Quantity{}, err
	}
	names, err := readNames(r)
	if err != nil {
		return units.Quantity{}, err
	}
	namesBase, err := r.ReadByte()
	if err != nil {
		return units.Quantity{}, ferr.New(kind.ParseError, "truncated variables blob")
	}
	return units.Quantity{
		Magnitude: mag,
		Unit:      exp,
		Scale:     scale,
		Offset:    offset,
		BaseHint:  int(baseHint),
		FmtHint:   bignum.Format{Style: bignum.FormatStyle(style), N: int(n)},
		Names:     names,
		NamesBase: namesBase == 1,
	}, nil
}

func writeExponents(buf *bytes.Buffer, e units.Exponents) error {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	writeUvarint(buf, uint64(len(keys)))
	for _, k := range keys {
		writeString(buf, k)
		if err := writeBigRat(buf, e[units.BaseUnit(k)]); err != nil {
			return err
		}
	}
	return nil
}

func readExponents(r *bytes.Reader) (units.Exponents, error) {
	count, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	out := make(units.Exponents, count)
	for i := uint64(0); i < count; i++ {
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		v, err := readBigRat(r)
		if err != nil {
			return nil, err
		}
		out[units.BaseUnit(name)] = v
	}
	return out, nil
}

func writeComplex(buf *bytes.Buffer, c cplx.Complex) error {
	if err := writeRealApprox(buf, c.Re); err != nil {
		return err
	}
	return writeRealApprox(buf, c.Im)
}

func readComplex(r *bytes.Reader) (cplx.Complex, error) {
	re, err := readRealApprox(r)
	if err != nil {
		return cplx.Complex{}, err
	}
	im, err := readRealApprox(r)
	if err != nil {
		return cplx.Complex{}, err
	}
	return cplx.Complex{Re: re, Im: im}, nil
}

func writeRealApprox(buf *bytes.Buffer, a real.RealApprox) error {
	if err := writeBigRat(buf, a.Value); err != nil {
		return err
	}
	writeUvarint(buf, uint64(a.Precision))
	return nil
}

func readRealApprox(r *bytes.Reader) (real.RealApprox, error) {
	v, err := readBigRat(r)
	if err != nil {
		return real.RealApprox{}, err
	}
	p, err := readUvarint(r)
	if err != nil {
		return real.RealApprox{}, err
	}
	return real.RealApprox{Value: v, Precision: int(p)}, nil
}

func writeBigRat(buf *bytes.Buffer, v bignum.BigRat) error {
	if err := writeBigSInt(buf, v.Num); err != nil {
		return err
	}
	if err := writeBigUInt(buf, v.Den); err != nil {
		return err
	}
	if v.Exact {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	writeUvarint(buf, uint64(v.Base))
	writeUvarint(buf, uint64(v.Fmt.Style))
	writeUvarint(buf, uint64(v.Fmt.N))
	return nil
}

func readBigRat(r *bytes.Reader) (bignum.BigRat, error) {
	num, err := readBigSInt(r)
	if err != nil {
		return bignum.BigRat{}, err
	}
	den, err := readBigUInt(r)
	if err != nil {
		return bignum.BigRat{}, err
	}
	exactByte, err := r.ReadByte()
	if err != nil {
		return bignum.BigRat{}, ferr.New(kind.ParseError, "truncated variables blob")
	}
	base, err := readUvarint(r)
	if err != nil {
		return bignum.BigRat{}, err
	}
	style, err := readUvarint(r)
	if err != nil {
		return bignum.BigRat{}, err
	}
	n, err := readUvarint(r)
	if err != nil {
		return bignum.BigRat{}, err
	}
	return bignum.BigRat{
		Num:   num,
		Den:   den,
		Exact: exactByte == 1,
		Base:  int(base),
		Fmt:   bignum.Format{Style: bignum.FormatStyle(style), N: int(n)},
	}, nil
}

func writeBigSInt(buf *bytes.Buffer, v bignum.BigSInt) error {
	if v.IsNegative() {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	return writeBigUInt(buf, v.Magnitude())
}

func readBigSInt(r *bytes.Reader) (bignum.BigSInt, error) {
	neg, err := r.ReadByte()
	if err != nil {
		return bignum.BigSInt{}, ferr.New(kind.ParseError, "truncated variables blob")
	}
	mag, err := readBigUInt(r)
	if err != nil {
		return bignum.BigSInt{}, err
	}
	return bignum.SIntFromUInt(neg == 1, mag), nil
}

// writeBigUInt stores the magnitude as a base-16 digit string rather than
// raw limbs, so the blob never depends on the producing platform's native
// word size.
func writeBigUInt(buf *bytes.Buffer, v bignum.BigUInt) error {
	s, err := v.String(16)
	if err != nil {
		return err
	}
	writeString(buf, s)
	return nil
}

func readBigUInt(r *bytes.Reader) (bignum.BigUInt, error) {
	s, err := readString(r)
	if err != nil {
		return bignum.BigUInt{}, err
	}
	return bignum.Parse(s, 16)
}

func writeDist(buf *bytes.Buffer, d dice.Dist) error {
	outcomes := d.Outcomes()
	writeUvarint(buf, uint64(len(outcomes)))
	for _, o := range outcomes {
		writeInt64(buf, o.Value)
		if err := writeBigRat(buf, o.Probability); err != nil {
			return err
		}
	}
	return nil
}

func readDist(r *bytes.Reader) (dice.Dist, error) {
	count, err := readUvarint(r)
	if err != nil {
		return dice.Dist{}, err
	}
	outcomes := make([]dice.Outcome, 0, count)
	for i := uint64(0); i < count; i++ {
		v, err := readInt64(r)
		if err != nil {
			return dice.Dist{}, err
		}
		p, err := readBigRat(r)
		if err != nil {
			return dice.Dist{}, err
		}
		outcomes = append(outcomes, dice.Outcome{Value: v, Probability: p})
	}
	return dice.FromOutcomes(outcomes), nil
}

func writeUvarint(buf *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	buf.Write(tmp[:n])
}

func readUvarint(r *bytes.Reader) (uint64, error) {
	v, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, ferr.New(kind.ParseError, "truncated variables blob")
	}
	return v, nil
}

func writeInt64(buf *bytes.Buffer, v int64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutVarint(tmp[:], v)
	buf.Write(tmp[:n])
}

func readInt64(r *bytes.Reader) (int64, error) {
	v, err := binary.ReadVarint(r)
	if err != nil {
		return 0, ferr.New(kind.ParseError, "truncated variables blob")
	}
	return v, nil
}

func writeString(buf *bytes.Buffer, s string) {
	writeUvarint(buf, uint64(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUvarint(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil && n > 0 {
		return "", ferr.New(kind.ParseError, "truncated variables blob")
	}
	return string(b), nil
}
