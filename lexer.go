package sheetcalc

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenType represents different types of tokens in a formula body
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNumber
	TokenCell
	TokenIdentifier
	TokenOp
	TokenLeftParen
	TokenRightParen
	TokenComma
	TokenColon
)

// character classification constants. slightly easier to read.
const (
	charNull    = 0
	charTab     = '\t'
	charNewline = '\n'
	charReturn  = '\r'
	charSpace   = ' '
	charLParen  = '('
	charRParen  = ')'
	charComma   = ','
	charColon   = ':'
	charPlus    = '+'
	charMinus   = '-'
	charStar    = '*'
	charSlash   = '/'
	charPeriod  = '.'
	charLess    = '<'
	charEqual   = '='
	charGreater = '>'
	charExclaim = '!'
)

// Token represents a lexical token with position information
type Token struct {
	Type  TokenType
	Value string
	Pos   int // rune position in the formula body
}

// Lexer tokenizes a formula body (the text after the leading '=')
type Lexer struct {
	runes []rune
	pos   int
}

// NewLexer creates a lexer over the given formula body
func NewLexer(body string) *Lexer {
	return &Lexer{runes: []rune(body)}
}

// Tokenize scans the whole body into a token slice terminated by an EOF
// token. Fails with a syntax error on malformed numbers or any character
// outside the formula alphabet.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// nextToken returns the next token from the input
func (l *Lexer) nextToken() (Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.runes) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	startPos := l.pos
	ch := l.current()

	// two-character operators before their one-character prefixes
	switch ch {
	case charGreater, charLess:
		l.pos++
		if l.current() == charEqual {
			l.pos++
			return Token{Type: TokenOp, Value: string(ch) + "=", Pos: startPos}, nil
		}
		return Token{Type: TokenOp, Value: string(ch), Pos: startPos}, nil
	case charExclaim:
		l.pos++
		if l.current() == charEqual {
			l.pos++
			return Token{Type: TokenOp, Value: "!=", Pos: startPos}, nil
		}
		return Token{}, NewSheetError(ErrorCodeSyntax, "unexpected character: '!'")
	}

	switch ch {
	case charLParen:
		l.pos++
		return Token{Type: TokenLeftParen, Value: "(", Pos: startPos}, nil
	case charRParen:
		l.pos++
		return Token{Type: TokenRightParen, Value: ")", Pos: startPos}, nil
	case charComma:
		l.pos++
		return Token{Type: TokenComma, Value: ",", Pos: startPos}, nil
	case charColon:
		l.pos++
		return Token{Type: TokenColon, Value: ":", Pos: startPos}, nil
	case charPlus, charMinus, charStar, charSlash, charEqual:
		l.pos++
		return Token{Type: TokenOp, Value: string(ch), Pos: startPos}, nil
	}

	if isDigit(ch) || ch == charPeriod {
		return l.scanNumber()
	}

	if isAlpha(ch) {
		return l.scanIdentifierOrCell(), nil
	}

	return Token{}, NewSheetError(ErrorCodeSyntax, fmt.Sprintf("unexpected character: %q", ch))
}

// scanNumber scans a numeric literal: optional leading digits, an optional
// single '.', and at least one digit after it. "1.", "." and friends are
// syntax errors rather than partial matches.
func (l *Lexer) scanNumber() (Token, error) {
	startPos := l.pos

	for l.pos < len(l.runes) && isDigit(l.current()) {
		l.pos++
	}

	if l.current() == charPeriod {
		l.pos++
		if !isDigit(l.current()) {
			return Token{}, NewSheetError(ErrorCodeSyntax,
				fmt.Sprintf("malformed number: %s", l.substring(startPos, l.pos)))
		}
		for l.pos < len(l.runes) && isDigit(l.current()) {
			l.pos++
		}
	}

	value := l.substring(startPos, l.pos)
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return Token{}, NewSheetError(ErrorCodeSyntax, fmt.Sprintf("malformed number: %s", value))
	}
	return Token{Type: TokenNumber, Value: value, Pos: startPos}, nil
}

// scanIdentifierOrCell scans a run of letters. A run immediately followed by
// a run of digits is a cell reference; letters alone are a bare identifier
// (function name candidate). Both are normalized to uppercase.
func (l *Lexer) scanIdentifierOrCell() Token {
	startPos := l.pos

	for l.pos < len(l.runes) && isAlpha(l.current()) {
		l.pos++
	}

	if isDigit(l.current()) {
		for l.pos < len(l.runes) && isDigit(l.current()) {
			l.pos++
		}
		return Token{Type: TokenCell, Value: strings.ToUpper(l.substring(startPos, l.pos)), Pos: startPos}
	}

	return Token{Type: TokenIdentifier, Value: strings.ToUpper(l.substring(startPos, l.pos)), Pos: startPos}
}

// helper methods for character navigation and classification

func (l *Lexer) substring(start, end int) string {
	return string(l.runes[start:end])
}

func (l *Lexer) current() rune {
	if l.pos >= len(l.runes) {
		return charNull
	}
	return l.runes[l.pos]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.runes) {
		ch := l.current()
		if ch == charSpace || ch == charTab || ch == charNewline || ch == charReturn {
			l.pos++
		} else {
			break
		}
	}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
