package lex

import (
	"errors"
	"unicode/utf8"
)

var (
	ErrUnterminatedString = errors.New("unterminated string")
	ErrUnexpectedChar     = errors.New("unexpected character")
)

// Lexer scans one filter. Whitespace separates tokens and is otherwise
// ignored.
type Lexer struct {
	input string
	pos   int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokens lexes the whole input. The final token is always EOF unless
// an error token stops the scan, in which case it is returned with the
// error.
func Tokens(input string) ([]Token, error) {
	l := NewLexer(input)
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		switch tok.T {
		case TokenEOF:
			return toks, nil
		case TokenError:
			return toks, tok.Err
		}
	}
}

// Next returns the next token.
func (l *Lexer) Next() Token {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{T: TokenEOF, Pos: l.pos}
	}
	start := l.pos
	ch := l.input[l.pos]
	switch {
	case ch == '(':
		l.pos++
		return Token{T: TokenLeftParenthesis, V: "(", Pos: start}
	case ch == ')':
		l.pos++
		return Token{T: TokenRightParenthesis, V: ")", Pos: start}
	case ch == '[':
		l.pos++
		return Token{T: TokenLeftBracket, V: "[", Pos: start}
	case ch == ']':
		l.pos++
		return Token{T: TokenRightBracket, V: "]", Pos: start}
	case ch == ',':
		l.pos++
		return Token{T: TokenComma, V: ",", Pos: start}
	case ch == '\'' || ch == '"':
		return l.lexString(ch)
	case isDigit(ch):
		return l.lexNumber(start)
	case (ch == '-' || ch == '+') && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1]):
		l.pos++
		return l.lexNumber(start)
	case isIdentStart(ch):
		return l.lexIdentity()
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	return Token{T: TokenError, V: string(r), Pos: start, Err: ErrUnexpectedChar}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

// lexNumber consumes a run of digits, dots, colons and dashes, so dates
// and times lex as a single token. A leading sign was already consumed.
func (l *Lexer) lexNumber(start int) Token {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if isDigit(ch) || ch == '.' || ch == ':' || ch == '-' {
			l.pos++
			continue
		}
		break
	}
	return Token{T: TokenNumber, V: l.input[start:l.pos], Pos: start}
}

func (l *Lexer) lexIdentity() Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	return Token{T: TokenIdentity, V: l.input[start:l.pos], Pos: start}
}

// lexString keeps the quotes and escapes verbatim in the token value.
func (l *Lexer) lexString(quote byte) Token {
	start := l.pos
	l.pos++
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case quote:
			l.pos++
			return Token{T: TokenString, V: l.input[start:l.pos], Pos: start}
		}
		l.pos++
	}
	l.pos = len(l.input)
	return Token{T: TokenError, V: l.input[start:], Pos: start, Err: ErrUnterminatedString}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '.'
}
