// Package cplx implements Complex, a pair of RealApprox real/imaginary
// components (spec.md §3). A value is "real" iff its imaginary part is
// exactly zero.
package cplx

import (
	"math"

	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
	"github.com/printfn/fend/internal/real"
)

type Complex struct {
	Re real.RealApprox
	Im real.RealApprox
}

func FromRat(r bignum.BigRat) Complex {
	return Complex{Re: real.FromRat(r), Im: real.FromRat(bignum.IntFromInt64(0))}
}

func FromReal(r real.RealApprox) Complex {
	return Complex{Re: r, Im: real.FromRat(bignum.IntFromInt64(0))}
}

func (c Complex) IsReal() bool { return c.Im.Value.IsZero() }

func (c Complex) IsExact() bool { return c.Re.IsExact() && c.Im.IsExact() }

func (c Complex) Add(o Complex) (Complex, error) {
	re, err := c.Re.Value.Add(o.Re.Value)
	if err != nil {
		return Complex{}, err
	}
	im, err := c.Im.Value.Add(o.Im.Value)
	if err != nil {
		return Complex{}, err
	}
	return Complex{Re: real.RealApprox{Value: re, Precision: maxPrecision(c, o)}, Im: real.RealApprox{Value: im, Precision: maxPrecision(c, o)}}, nil
}

func (c Complex) Neg() Complex {
	return Complex{Re: real.RealApprox{Value: c.Re.Value.Neg(), Precision: c.Re.Precision}, Im: real.RealApprox{Value: c.Im.Value.Neg(), Precision: c.Im.Precision}}
}

func (c Complex) Sub(o Complex) (Complex, error) { return c.Add(o.Neg()) }

func (c Complex) Mul(o Complex) (Complex, error) {
	// (a+bi)(c+di) = (ac - bd) + (ad + bc)i
	ac, err := c.Re.Value.Mul(o.Re.Value)
	if err != nil {
		return Complex{}, err
	}
	bd, err := c.Im.Value.Mul(o.Im.Value)
	if err != nil {
		return Complex{}, err
	}
	ad, err := c.Re.Value.Mul(o.Im.Value)
	if err != nil {
		return Complex{}, err
	}
	bc, err := c.Im.Value.Mul(o.Re.Value)
	if err != nil {
		return Complex{}, err
	}
	reOut, err := ac.Sub(bd)
	if err != nil {
		return Complex{}, err
	}
	imOut, err := ad.Add(bc)
	if err != nil {
		return Complex{}, err
	}
	p := maxPrecision(c, o)
	return Complex{Re: real.RealApprox{Value: reOut, Precision: p}, Im: real.RealApprox{Value: imOut, Precision: p}}, nil
}

func (c Complex) Div(o Complex) (Complex, error) {
	if o.Re.Value.IsZero() && o.Im.Value.IsZero() {
		return Complex{}, ferr.New(kind.DivisionByZero, "division by zero")
	}
	// (a+bi)/(c+di) = (a+bi)(c-di) / (c^2+d^2)
	conj := Complex{Re: o.Re, Im: real.RealApprox{Value: o.Im.Value.Neg(), Precision: o.Im.Precision}}
	num, err := c.Mul(conj)
	if err != nil {
		return Complex{}, err
	}
	cc, err := o.Re.Value.Mul(o.Re.Value)
	if err != nil {
		return Complex{}, err
	}
	dd, err := o.Im.Value.Mul(o.Im.Value)
	if err != nil {
		return Complex{}, err
	}
	denom, err := cc.Add(dd)
	if err != nil {
		return Complex{}, err
	}
	reOut, err := num.Re.Value.Div(denom)
	if err != nil {
		return Complex{}, err
	}
	imOut, err := num.Im.Value.Div(denom)
	if err != nil {
		return Complex{}, err
	}
	p := maxPrecision(c, o)
	return Complex{Re: real.RealApprox{Value: reOut, Precision: p}, Im: real.RealApprox{Value: imOut, Precision: p}}, nil
}

func (c Complex) Conjugate() Complex {
	return Complex{Re: c.Re, Im: real.RealApprox{Value: c.Im.Value.Neg(), Precision: c.Im.Precision}}
}

// Abs returns the modulus |c| = sqrt(re^2 + im^2).
func (c Complex) Abs() (real.RealApprox, error) {
	re2, err := c.Re.Value.Mul(c.Re.Value)
	if err != nil {
		return real.RealApprox{}, err
	}
	im2, err := c.Im.Value.Mul(c.Im.Value)
	if err != nil {
		return real.RealApprox{}, err
	}
	sum, err := re2.Add(im2)
	if err != nil {
		return real.RealApprox{}, err
	}
	return real.Sqrt(real.RealApprox{Value: sum, Precision: maxPrecisionSolo(c)})
}

// Arg returns the principal argument atan2(im, re), in (-pi, pi].
func (c Complex) Arg() real.RealApprox {
	v := math.Atan2(c.Im.Value.AsFloat64(), c.Re.Value.AsFloat64())
	r, _ := bignum.FromInt64Frac(int64(v*1e15), 1e15)
	r.Exact = false
	return real.RealApprox{Value: r, Precision: real.DefaultPrecisionBits}
}

func maxPrecision(a, b Complex) int {
	p := a.Re.Precision
	if b.Re.Precision > p {
		p = b.Re.Precision
	}
	if p <= 0 {
		p = real.DefaultPrecisionBits
	}
	return p
}

func maxPrecisionSolo(a Complex) int {
	p := a.Re.Precision
	if a.Im.Precision > p {
		p = a.Im.Precision
	}
	if p <= 0 {
		p = real.DefaultPrecisionBits
	}
	return p
}
