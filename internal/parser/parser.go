// Package parser implements the Pratt-style expression parser of spec.md
// §4.2, turning a token.Token stream into an ast.Expr.
package parser

import (
	"github.com/printfn/fend/internal/ast"
	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
	"github.com/printfn/fend/internal/token"
)

// Parser walks a flat token slice with one token of lookahead.
type Parser struct {
	toks []token.Token
	pos  int
}

// Parse builds the AST for a full token stream (spec.md §4.2's precedence
// table, level 0 "sequence" down to level 14 "atom").
func Parse(toks []token.Token) (ast.Expr, error) {
	p := &Parser{toks: toks}
	e, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != token.EOF {
		return nil, ferr.New(kind.ParseError, "unexpected trailing token %q", p.cur().Lexeme)
	}
	return e, nil
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}
func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) isKeyword(kw token.Type) bool {
	t := p.cur()
	return t.Type == token.IDENT && token.Type(t.Lexeme) == kw
}

func (p *Parser) expect(typ token.Type) (token.Token, error) {
	if p.cur().Type != typ {
		return token.Token{}, ferr.New(kind.ParseError, "expected %q, got %q", typ, p.cur().Lexeme)
	}
	return p.advance(), nil
}

// --- level 0: sequence ---

func (p *Parser) parseSequence() (ast.Expr, error) {
	var items []ast.Expr
	first, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	items = append(items, first)
	for p.cur().Type == token.SEMI {
		p.advance()
		if p.cur().Type == token.EOF {
			break // trailing separator
		}
		next, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		items = append(items, next)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return &ast.Sequence{Items: items}, nil
}

// --- level 1: assignment ---

func (p *Parser) parseAssignment() (ast.Expr, error) {
	// name = expr requires lookahead: IDENT '=' (not '==', which this
	// grammar doesn't have, so a single '=' always means assignment here).
	if p.cur().Type == token.IDENT && !token.IsKeyword(p.cur().Lexeme) && p.peekAt(1).Type == token.ASSIGN {
		name := p.advance().Lexeme
		p.advance() // '='
		val, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Name: name, X: val}, nil
	}
	return p.parseLambda()
}

// --- level 2: lambda introduction ---

func (p *Parser) parseLambda() (ast.Expr, error) {
	if p.cur().Type == token.BACKSLASH || p.cur().Type == token.LAMBDA {
		p.advance()
		param, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if p.cur().Type == token.DOT || p.cur().Type == token.COLON {
			p.advance()
		}
		body, err := p.parseLambda()
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Param: param.Lexeme, Body: body}, nil
	}

	// `ident => body` arrow form: only triggers when the next-next token is
	// the fat arrow, so plain identifiers fall through untouched.
	if p.cur().Type == token.IDENT && !token.IsKeyword(p.cur().Lexeme) && p.peekAt(1).Type == token.FAT_ARROW {
		param := p.advance().Lexeme
		p.advance() // '=>'
		body, err := p.parseLambda()
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Param: param, Body: body}, nil
	}

	return p.parseConversion()
}

// --- level 3: to / as / in ---

func (p *Parser) parseConversion() (ast.Expr, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	for p.isKeyword(token.IDENT_TO) || p.isKeyword(token.IDENT_AS) || p.isKeyword(token.IDENT_IN) {
		kindTok := p.advance().Lexeme
		target, err := p.parseConversionTarget()
		if err != nil {
			return nil, err
		}
		left = &ast.ConvertTo{X: left, Target: target, Kind: token.Type(kindTok)}
	}
	return left, nil
}

// parseConversionTarget recognises the non-unit conversion targets (format
// and base names) before falling back to a general unit expression.
func (p *Parser) parseConversionTarget() (ast.Expr, error) {
	if p.cur().Type == token.IDENT {
		switch p.cur().Lexeme {
		case "auto", "exact", "float", "fraction", "mixed_fraction", "roman",
			"words", "string", "date", "codepoint", "character", "text",
			"binary", "decimal", "hex", "octal":
			name := p.advance().Lexeme
			return &ast.FormatSpec{Name: name}, nil
		case "dp", "sf":
			// bare "dp"/"sf" with no count: the FormatSpec carries no N, and
			// evaluating it reports the missing count as an error.
			name := p.advance().Lexeme
			return &ast.FormatSpec{Name: name}, nil
		case "base":
			p.advance()
			n, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			return &ast.FormatSpec{Name: "base", N: n}, nil
		}
	}
	// "N dp" / "N sf": a number immediately followed by the dp/sf keyword.
	if p.cur().Type == token.NUM && p.peekAt(1).Type == token.IDENT &&
		(p.peekAt(1).Lexeme == "dp" || p.peekAt(1).Lexeme == "sf") {
		n := &ast.Num{Tok: p.advance()}
		name := p.advance().Lexeme
		return &ast.FormatSpec{Name: name, N: n}, nil
	}
	return p.parseOr()
}

// --- level 4: | or ---

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.PIPE || p.isKeyword(token.IDENT_OR) {
		tok := p.advance()
		right, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		k := ast.BitOr
		if tok.Type == token.IDENT {
			k = ast.Or
		}
		left = &ast.BinOp{Kind: k, L: left, R: right, Tok: tok}
	}
	return left, nil
}

// --- level 5: xor ---

func (p *Parser) parseXor() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isKeyword(token.IDENT_XOR) {
		tok := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Kind: ast.BitXor, L: left, R: right, Tok: tok}
	}
	return left, nil
}

// --- level 6: & and ---

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.AMPERSAND || p.isKeyword(token.IDENT_AND) {
		tok := p.advance()
		right, err := p.parseShift()
		if err != nil {
			return nil, err
		}
		k := ast.BitAnd
		if tok.Type == token.IDENT {
			k = ast.And
		}
		left = &ast.BinOp{Kind: k, L: left, R: right, Tok: tok}
	}
	return left, nil
}

// --- level 7: << >> ---

func (p *Parser) parseShift() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.LSHIFT || p.cur().Type == token.RSHIFT {
		tok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		k := ast.Shl
		if tok.Type == token.RSHIFT {
			k = ast.Shr
		}
		left = &ast.BinOp{Kind: k, L: left, R: right, Tok: tok}
	}
	return left, nil
}

// --- level 8/9: + - , with mixed-fraction adjacency folded in ---

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	left, err = p.maybeMixedFraction(left)
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.PLUS || p.cur().Type == token.MINUS {
		tok := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		right, err = p.maybeMixedFraction(right)
		if err != nil {
			return nil, err
		}
		k := ast.Add
		if tok.Type == token.MINUS {
			k = ast.Sub
		}
		left = &ast.BinOp{Kind: k, L: left, R: right, Tok: tok}
	}
	return left, nil
}

// maybeMixedFraction implements spec.md §4.2 level 9: an integer literal
// immediately followed (no operator) by a "N/D" fraction is their sum, e.g.
// `2 3/4` = 2 + 3/4.
func (p *Parser) maybeMixedFraction(left ast.Expr) (ast.Expr, error) {
	n, ok := left.(*ast.Num)
	if !ok || n.Tok.ExplicitPoint {
		return left, nil
	}
	if p.cur().Type == token.NUM && p.peekAt(1).Type == token.SLASH && p.peekAt(2).Type == token.NUM {
		numTok := p.advance()
		p.advance() // '/'
		denTok := p.advance()
		frac := &ast.BinOp{Kind: ast.Div, L: &ast.Num{Tok: numTok}, R: &ast.Num{Tok: denTok}}
		return &ast.BinOp{Kind: ast.Add, L: left, R: frac}, nil
	}
	return left, nil
}

// --- level 10: * / per mod % and juxtaposition application ---

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.cur().Type == token.ASTERISK:
			tok := p.advance()
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = &ast.BinOp{Kind: ast.Mul, L: left, R: right, Tok: tok}
		case p.cur().Type == token.SLASH:
			tok := p.advance()
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = &ast.BinOp{Kind: ast.Div, L: left, R: right, Tok: tok}
		case p.cur().Type == token.PERCENT:
			tok := p.advance()
			if !p.startsAtomForJuxtaposition() {
				// postfix "%": attaches the percent unit, not modulo
				// (spec.md §4.3 "Percent").
				left = &ast.UnaryOp{Kind: ast.PercentSuffix, X: left, Tok: tok}
				if p.isKeyword(token.IDENT_OF) {
					// `5% of 100`: `of` after a postfix % multiplies, as in parseOf.
					ofTok := p.advance()
					right, err := p.parsePower()
					if err != nil {
						return nil, err
					}
					left = &ast.BinOp{Kind: ast.Of, L: left, R: right, Tok: ofTok}
				}
				continue
			}
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = &ast.BinOp{Kind: ast.Mod, L: left, R: right, Tok: tok}
		case p.isKeyword(token.IDENT_PER):
			tok := p.advance()
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = &ast.BinOp{Kind: ast.Per, L: left, R: right, Tok: tok}
		case p.isKeyword(token.IDENT_MOD):
			tok := p.advance()
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = &ast.BinOp{Kind: ast.Mod, L: left, R: right, Tok: tok}
		case p.isKeyword(token.IDENT_PERMUTE) || p.isKeyword(token.IDENT_NPR):
			tok := p.advance()
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = &ast.BinOp{Kind: ast.Permute, L: left, R: right, Tok: tok}
		case p.isKeyword(token.IDENT_CHOOSE) || p.isKeyword(token.IDENT_NCR):
			tok := p.advance()
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = &ast.BinOp{Kind: ast.Choose, L: left, R: right, Tok: tok}
		case p.startsAtomForJuxtaposition():
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = &ast.BinOp{Kind: ast.ApplyOp, L: left, R: right}
			left, err = p.maybeFeetInches(left)
			if err != nil {
				return nil, err
			}
		default:
			return left, nil
		}
	}
}

// maybeFeetInches implements the `5'10"` adjacency spec.md §4.2's quote
// heuristic names: a feet-juxtaposition (`N'`) immediately followed by a bare
// `N"` is their sum (5 feet + 10 inches), not a further juxtaposition-multiply
// (which would read as `(5' * 10) * "`).
func (p *Parser) maybeFeetInches(left ast.Expr) (ast.Expr, error) {
	app, ok := left.(*ast.BinOp)
	if !ok || app.Kind != ast.ApplyOp {
		return left, nil
	}
	unitIdent, ok := app.R.(*ast.Ident)
	if !ok || unitIdent.Name != "'" {
		return left, nil
	}
	if p.cur().Type != token.NUM || p.peekAt(1).Type != token.IDENT || p.peekAt(1).Lexeme != "\"" {
		return left, nil
	}
	numTok := p.advance()
	quoteTok := p.advance()
	inches := &ast.BinOp{Kind: ast.ApplyOp, L: &ast.Num{Tok: numTok}, R: &ast.Ident{Name: quoteTok.Lexeme, Tok: quoteTok}}
	return &ast.BinOp{Kind: ast.Add, L: left, R: inches}, nil
}

// startsAtomForJuxtaposition reports whether the current token can begin a
// new atom with no explicit operator — the juxtaposition case ("5 kg", "f
// x", "2d6"), stopping at keyword identifiers and closers so the outer
// levels get a chance to consume them.
func (p *Parser) startsAtomForJuxtaposition() bool {
	t := p.cur()
	switch t.Type {
	case token.NUM, token.STRING, token.DATE, token.DICE, token.LPAREN,
		token.BACKSLASH, token.LAMBDA, token.ATTRIBUTE:
		return true
	case token.IDENT:
		return !token.IsKeyword(t.Lexeme)
	default:
		return false
	}
}

// --- level 11: ^ ** (right associative) ---

func (p *Parser) parsePower() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.cur().Type == token.CARET || p.cur().Type == token.POWER {
		tok := p.advance()
		right, err := p.parsePower() // right-assoc
		if err != nil {
			return nil, err
		}
		return &ast.BinOp{Kind: ast.Pow, L: left, R: right, Tok: tok}, nil
	}
	return left, nil
}

// --- level 12: unary -, +, postfix ! (factorial), prefix "not" ---

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.cur().Type == token.ATTRIBUTE {
		tok := p.advance()
		x, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.Attribute{Name: tok.Lexeme, X: x}, nil
	}
	if p.cur().Type == token.MINUS {
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Kind: ast.Neg, X: x}, nil
	}
	if p.cur().Type == token.PLUS {
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Kind: ast.Pos, X: x}, nil
	}
	x, err := p.parseOf()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.BANG {
		tok := p.advance()
		x = &ast.UnaryOp{Kind: ast.Factorial, X: x, Tok: tok}
	}
	return x, nil
}

// --- level 13: of (right-assoc) ---

func (p *Parser) parseOf() (ast.Expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.isKeyword(token.IDENT_OF) {
		tok := p.advance()
		right, err := p.parseOf()
		if err != nil {
			return nil, err
		}
		return &ast.BinOp{Kind: ast.Of, L: left, R: right, Tok: tok}, nil
	}
	return left, nil
}

// --- level 14: atoms ---

func (p *Parser) parseAtom() (ast.Expr, error) {
	t := p.cur()
	switch t.Type {
	case token.NUM:
		p.advance()
		if p.cur().Type == token.DICE {
			diceTok := p.advance()
			sides, err := parseDiceSides(diceTok.Lexeme)
			if err != nil {
				return nil, err
			}
			return &ast.DiceLit{N: &ast.Num{Tok: t}, Sides: sides}, nil
		}
		return &ast.Num{Tok: t}, nil
	case token.STRING:
		p.advance()
		return &ast.StringLit{Value: t.Lexeme}, nil
	case token.DATE:
		p.advance()
		y, m, d, err := parseDateLexeme(t.Lexeme)
		if err != nil {
			return nil, err
		}
		return &ast.DateLit{Year: y, Month: m, Day: d}, nil
	case token.DICE:
		p.advance()
		sides, err := parseDiceSides(t.Lexeme)
		if err != nil {
			return nil, err
		}
		return &ast.DiceLit{N: &ast.Num{Tok: token.New(token.NUM, "1", t.Line, t.Column)}, Sides: sides}, nil
	case token.IDENT:
		if t.Lexeme == "roll" {
			p.advance()
			arg, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &ast.Apply{Fn: &ast.Ident{Name: "roll", Tok: t}, Arg: arg}, nil
		}
		p.advance()
		ident := &ast.Ident{Name: t.Lexeme, Tok: t}
		// "NdS" dice notation arrives as NUM followed by a DICE token and is
		// handled in the NUM case; a whitespace-separated "2 d 6" is not
		// recognised as dice, and "d" stays a plain identifier here.
		return ident, nil
	case token.LPAREN:
		p.advance()
		x, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.ParensGroup{X: x}, nil
	case token.BACKSLASH, token.LAMBDA:
		return p.parseLambda()
	}
	return nil, ferr.New(kind.ParseError, "unexpected token %q", t.Lexeme)
}

func parseDiceSides(lexeme string) (ast.Expr, error) {
	// lexeme is "d" + digits
	digits := lexeme[1:]
	if digits == "" {
		return nil, ferr.New(kind.ParseError, "expected die size after 'd'")
	}
	return &ast.Num{Tok: token.New(token.NUM, digits, 0, 0)}, nil
}

func parseDateLexeme(lexeme string) (int32, uint8, uint8, error) {
	var y int32
	var m, d uint8
	n := 0
	var cur int32
	var parts []int32
	for _, r := range lexeme {
		if r == '-' {
			parts = append(parts, cur)
			cur = 0
			continue
		}
		cur = cur*10 + int32(r-'0')
		n++
	}
	parts = append(parts, cur)
	if len(parts) != 3 {
		return 0, 0, 0, ferr.New(kind.InvalidDate, "invalid date literal @%s", lexeme)
	}
	y, m, d = parts[0], uint8(parts[1]), uint8(parts[2])
	return y, m, d, nil
}
