package expr

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenLt
	tokenLte
	tokenGt
	tokenGte
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDelimiter(ch byte) bool {
	switch ch {
	case '(', ')', '[', ']', '!', '=', '&', '|', '<', '>', '"', '\'':
		return true
	}
	return isSpace(ch)
}

// lex splits an expression into tokens. Operators are matched greedily so
// `!=` never lexes as `!` followed by `=`.
func lex(input string) ([]token, error) {
	var out []token
	for i := 0; i < len(input); {
		ch := input[i]
		if isSpace(ch) {
			i++
			continue
		}

		peek := byte(0)
		if i+1 < len(input) {
			peek = input[i+1]
		}

		switch {
		case ch == '(':
			out = append(out, token{kind: tokenLParen, text: "(", pos: i})
			i++
		case ch == ')':
			out = append(out, token{kind: tokenRParen, text: ")", pos: i})
			i++
		case ch == '!' && peek == '=':
			out = append(out, token{kind: tokenNeq, text: "!=", pos: i})
			i += 2
		case ch == '!':
			out = append(out, token{kind: tokenNot, text: "!", pos: i})
			i++
		case ch == '=' && peek == '=':
			out = append(out, token{kind: tokenEq, text: "==", pos: i})
			i += 2
		case ch == '=':
			return nil, fmt.Errorf("visibility/expr: unexpected '=' at %d; use '=='", i)
		case ch == '<' && peek == '=':
			out = append(out, token{kind: tokenLte, text: "<=", pos: i})
			i += 2
		case ch == '<':
			out = append(out, token{kind: tokenLt, text: "<", pos: i})
			i++
		case ch == '>' && peek == '=':
			out = append(out, token{kind: tokenGte, text: ">=", pos: i})
			i += 2
		case ch == '>':
			out = append(out, token{kind: tokenGt, text: ">", pos: i})
			i++
		case ch == '&' && peek == '&':
			out = append(out, token{kind: tokenAnd, text: "&&", pos: i})
			i += 2
		case ch == '&':
			return nil, fmt.Errorf("visibility/expr: unexpected '&' at %d; use '&&'", i)
		case ch == '|' && peek == '|':
			out = append(out, token{kind: tokenOr, text: "||", pos: i})
			i += 2
		case ch == '|':
			return nil, fmt.Errorf("visibility/expr: unexpected '|' at %d; use '||'", i)
		case ch == '[' || ch == ']':
			return nil, fmt.Errorf("visibility/expr: unexpected '%c' at %d; index lists with dots, as in items.0", ch, i)
		case ch == '"' || ch == '\'':
			text, next, err := lexString(input, i)
			if err != nil {
				return nil, err
			}
			out = append(out, token{kind: tokenString, text: text, pos: i})
			i = next
		default:
			start := i
			for i < len(input) && !isDelimiter(input[i]) {
				i++
			}
			out = append(out, classifyWord(input[start:i], start))
		}
	}
	return out, nil
}

func lexString(input string, start int) (string, int, error) {
	quote := input[start]
	escaped := false
	for i := start + 1; i < len(input); i++ {
		c := input[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c != quote {
			continue
		}
		body := input[start+1 : i]
		if quote == '\'' {
			body = strings.ReplaceAll(body, `\'`, `'`)
			body = strings.ReplaceAll(body, `"`, `\"`)
		}
		value, err := strconv.Unquote(`"` + body + `"`)
		if err != nil {
			return "", 0, fmt.Errorf("visibility/expr: invalid string literal at %d: %w", start, err)
		}
		return value, i + 1, nil
	}
	return "", 0, fmt.Errorf("visibility/expr: unterminated string literal at %d", start)
}

func classifyWord(word string, pos int) token {
	switch strings.ToLower(word) {
	case "true", "false":
		return token{kind: tokenBool, text: strings.ToLower(word), pos: pos}
	case "null", "nil":
		return token{kind: tokenNull, text: "null", pos: pos}
	case "and":
		return token{kind: tokenAnd, text: "&&", pos: pos}
	case "or":
		return token{kind: tokenOr, text: "||", pos: pos}
	case "not":
		return token{kind: tokenNot, text: "!", pos: pos}
	}
	if c := word[0]; (c >= '0' && c <= '9') || c == '-' || c == '+' {
		if _, err := strconv.ParseFloat(word, 64); err == nil {
			return token{kind: tokenNumber, text: word, pos: pos}
		}
	}
	return token{kind: tokenIdent, text: word, pos: pos}
}
