package expr

import (
	"errors"
	"fmt"
	"strconv"
)

// Grammar, lowest precedence first:
//
//	or      := and ( "||" and )*
//	and     := unary ( "&&" unary )*
//	unary   := "!" unary | primary
//	primary := "(" or ")" | ident [ op literal ]
type parser struct {
	tokens []token
	pos    int
	idents []string
	seen   map[string]struct{}
}

func parse(tokens []token) (node, []string, error) {
	p := &parser{tokens: tokens, seen: map[string]struct{}{}}
	root, err := p.or()
	if err != nil {
		return nil, nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, nil, fmt.Errorf("visibility/expr: unexpected %q at %d", tok.text, tok.pos)
	}
	return root, p.idents, nil
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) accept(kind tokenKind) bool {
	if tok, ok := p.peek(); ok && tok.kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.accept(tokenOr) {
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = orNode{left, right}
	}
	return left, nil
}

func (p *parser) and() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.accept(tokenAnd) {
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = andNode{left, right}
	}
	return left, nil
}

func (p *parser) unary() (node, error) {
	if p.accept(tokenNot) {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notNode{inner}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	if p.accept(tokenLParen) {
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if !p.accept(tokenRParen) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}

	tok, ok := p.peek()
	if !ok {
		return nil, errors.New("visibility/expr: unexpected end of expression")
	}
	if tok.kind != tokenIdent {
		return nil, fmt.Errorf("visibility/expr: expected identifier at %d, got %q", tok.pos, tok.text)
	}
	p.pos++
	p.record(tok.text)

	op, ok := p.peek()
	if !ok || !isComparison(op.kind) {
		return truthyNode{ident: tok.text}, nil
	}
	p.pos++

	lit, err := p.literal()
	if err != nil {
		return nil, err
	}
	if lit.kind != literalNumber && isOrdering(op.kind) {
		return nil, fmt.Errorf("visibility/expr: operator %q requires a number at %d", op.text, op.pos)
	}
	return compareNode{ident: tok.text, op: op.kind, lit: lit}, nil
}

func (p *parser) literal() (literal, error) {
	tok, ok := p.peek()
	if !ok {
		return literal{}, errors.New("visibility/expr: missing literal")
	}
	p.pos++
	switch tok.kind {
	case tokenString:
		return literal{kind: literalString, text: tok.text}, nil
	case tokenNumber:
		n, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return literal{}, fmt.Errorf("visibility/expr: invalid number %q", tok.text)
		}
		return literal{kind: literalNumber, num: n, text: tok.text}, nil
	case tokenBool:
		return literal{kind: literalBool, truth: tok.text == "true", text: tok.text}, nil
	case tokenNull:
		return literal{kind: literalNull, text: "null"}, nil
	case tokenIdent:
		// bare words compare as strings
		return literal{kind: literalString, text: tok.text}, nil
	default:
		return literal{}, fmt.Errorf("visibility/expr: expected literal at %d, got %q", tok.pos, tok.text)
	}
}

func (p *parser) record(ident string) {
	if _, ok := p.seen[ident]; ok {
		return
	}
	p.seen[ident] = struct{}{}
	p.idents = append(p.idents, ident)
}

func isComparison(kind tokenKind) bool {
	switch kind {
	case tokenEq, tokenNeq, tokenLt, tokenLte, tokenGt, tokenGte:
		return true
	}
	return false
}

func isOrdering(kind tokenKind) bool {
	switch kind {
	case tokenLt, tokenLte, tokenGt, tokenGte:
		return true
	}
	return false
}
