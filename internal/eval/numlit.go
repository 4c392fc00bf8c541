package eval

import (
	"strings"

	"github.com/printfn/fend/internal/bignum"
	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
	"github.com/printfn/fend/internal/token"
)

// parseNumLiteral turns a NUM token (with the lexer's base/point/recurring/
// exponent metadata) into an exact BigRat (spec.md §4.1).
func parseNumLiteral(tok token.Token) (bignum.BigRat, error) {
	lexeme := stripDigitSeparators(tok.Lexeme)
	base := tok.Base
	if base == 0 {
		base = 10
	}

	// strip any explicit-base prefix (0x/0o/0b) or "B#" form already
	// reflected in tok.Base; find where the digit body actually starts.
	body := lexeme
	switch {
	case base == 16 && hasPrefixFold(body, "0x"):
		body = body[2:]
	case base == 8 && hasPrefixFold(body, "0o"):
		body = body[2:]
	case base == 2 && hasPrefixFold(body, "0b"):
		body = body[2:]
	default:
		if idx := strings.IndexByte(body, '#'); idx >= 0 {
			body = body[idx+1:]
		}
	}

	if !tok.ExplicitPoint {
		n, err := bignum.Parse(body, base)
		if err != nil {
			return bignum.BigRat{}, err
		}
		r := bignum.Int(bignum.SIntFromUInt(false, n))
		r.Base = base
		return applyExponent(r, tok, lexeme)
	}

	dot := strings.IndexByte(body, '.')
	if dot < 0 {
		return bignum.BigRat{}, ferr.New(kind.ParseError, "invalid decimal literal %q", tok.Lexeme)
	}
	intPart := body[:dot]
	rest := body[dot+1:]

	recurring := ""
	if open := strings.IndexByte(rest, '('); open >= 0 {
		close := strings.IndexByte(rest, ')')
		if close < 0 {
			return bignum.BigRat{}, ferr.New(kind.ParseError, "unterminated recurring-digit group in %q", tok.Lexeme)
		}
		recurring = rest[open+1 : close]
		rest = rest[:open] + recurring
	}

	r, err := bignum.ParseDecimal(intPart, rest, recurring, base)
	if err != nil {
		return bignum.BigRat{}, err
	}
	return applyExponent(r, tok, lexeme)
}

func applyExponent(r bignum.BigRat, tok token.Token, _ string) (bignum.BigRat, error) {
	if tok.ExponentStart < 0 {
		return r, nil
	}
	expPart := stripDigitSeparators(tok.Lexeme[tok.ExponentStart:])
	expPart = strings.TrimPrefix(expPart, "e")
	expPart = strings.TrimPrefix(expPart, "E")
	neg := strings.HasPrefix(expPart, "-")
	expPart = strings.TrimPrefix(expPart, "+")
	expPart = strings.TrimPrefix(expPart, "-")
	digits, err := bignum.Parse(expPart, 10)
	if err != nil {
		return bignum.BigRat{}, err
	}
	n, _ := digits.AsUint64()
	exp := int64(n)
	if neg {
		exp = -exp
	}
	ten := bignum.IntFromInt64(10)
	factor, err := ten.PowInt(exp)
	if err != nil {
		return bignum.BigRat{}, err
	}
	out, err := r.Mul(factor)
	if err != nil {
		return bignum.BigRat{}, err
	}
	out.Base = r.Base
	return out, nil
}

func stripDigitSeparators(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r == ',' || r == '_' {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return strings.EqualFold(s[:len(prefix)], prefix)
}
