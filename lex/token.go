// Package lex turns filter text into tokens and owns the closed sets of
// operator and function names the grammar recognizes.
package lex

import (
	"fmt"
)

// TokenType identifies the type of lexical tokens.
type TokenType uint8

const (
	TokenNil          TokenType = iota // not used
	TokenEOF                           // end of input
	TokenError                         // error occurred; value is the offending text
	TokenIdentity                      // identifier: field path, keyword, operator or function name
	TokenNumber                        // numeric-looking run: 12, -3.5, 2023-01-15, 10:30
	TokenString                        // quoted text, quotes retained
	TokenLeftParenthesis               // (
	TokenRightParenthesis              // )
	TokenLeftBracket                   // [
	TokenRightBracket                  // ]
	TokenComma                         // ,
)

var tokenNames = map[TokenType]string{
	TokenNil:              "nil",
	TokenEOF:              "EOF",
	TokenError:            "error",
	TokenIdentity:         "identity",
	TokenNumber:           "number",
	TokenString:           "string",
	TokenLeftParenthesis:  "(",
	TokenRightParenthesis: ")",
	TokenLeftBracket:      "[",
	TokenRightBracket:     "]",
	TokenComma:            ",",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "unknown"
}

// Token is a single lexed item. Pos is the byte offset of its first
// character in the filter text.
type Token struct {
	T   TokenType
	V   string
	Pos int
	Err error
}

func (t Token) String() string {
	switch t.T {
	case TokenEOF:
		return "EOF"
	case TokenError:
		return fmt.Sprintf("error %q: %v", t.V, t.Err)
	}
	return fmt.Sprintf("%s %q", t.T, t.V)
}
