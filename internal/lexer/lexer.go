// Package lexer tokenizes business-logic dialect source code, standing in for the lexical
// front-end of the external grammar that a real tree-sitter-like parser would supply.
package lexer

import (
	"bufio"
	"fmt"
	"io"
	"unicode"

	"github.com/teleivo/apexfmt/token"
)

// Lexer scans source bytes into a stream of [token.Token]. It tracks enough lookahead (the
// current and next rune) to disambiguate multi-rune operators like "==" and "+=".
type Lexer struct {
	r         *bufio.Reader
	cur       rune
	next      rune
	curRow    int
	curColumn int
	eof       bool
	err       error
}

// New creates a Lexer reading from r.
func New(r io.Reader) *Lexer {
	l := &Lexer{r: bufio.NewReader(r), curRow: 1}
	l.readRune()
	l.readRune()
	l.curColumn = 1
	return l
}

// Error describes a lexical error together with the position it occurred at.
type Error struct {
	Row, Column int
	Reason      string
}

func (e Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Row, e.Column, e.Reason)
}

func (l *Lexer) pos() token.Position {
	return token.Position{Line: l.curRow, Column: l.curColumn}
}

// readRune shifts the lookahead pair forward by one rune, tracking line/column as it goes. Once
// the underlying reader is exhausted it keeps shifting zero runes in rather than stopping dead,
// so cur eventually reaches 0 and hasMore reports false instead of looping on the final rune
// forever.
func (l *Lexer) readRune() {
	if l.cur == '\n' {
		l.curRow++
		l.curColumn = 1
	} else if l.cur != 0 || l.curColumn != 0 {
		l.curColumn++
	}
	var r rune
	if !l.eof {
		var err error
		r, _, err = l.r.ReadRune()
		if err != nil {
			l.eof = true
			r = 0
		}
	}
	l.cur = l.next
	l.next = r
}

func (l *Lexer) hasMore() bool {
	return l.cur != 0 || !l.eof
}

// Next returns the next token. It returns a token.EOF token once the input is exhausted, and a
// token.ERROR token (with its Error field set) on malformed input, after which the lexer should
// not be called again.
func (l *Lexer) Next() token.Token {
	l.skipWhitespace()
	if !l.hasMore() {
		return token.Token{Kind: token.EOF, Start: l.pos(), End: l.pos()}
	}

	switch {
	case l.cur == '/' && (l.next == '/' || l.next == '*'):
		return l.lexComment()
	case isIdentStart(l.cur):
		return l.lexIdentifier()
	case unicode.IsDigit(l.cur):
		return l.lexNumber()
	case l.cur == '\'':
		return l.lexString()
	default:
		return l.lexOperator()
	}
}

func (l *Lexer) skipWhitespace() {
	for l.cur == ' ' || l.cur == '\t' || l.cur == '\r' || l.cur == '\n' {
		l.readRune()
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func (l *Lexer) lexIdentifier() token.Token {
	start := l.pos()
	var sb []rune
	for l.hasMore() && isIdentPart(l.cur) {
		sb = append(sb, l.cur)
		l.readRune()
	}
	lit := string(sb)
	end := l.pos()
	end.Column--
	return token.Token{Kind: token.Lookup(lit), Literal: lit, Start: start, End: end}
}

func (l *Lexer) lexNumber() token.Token {
	start := l.pos()
	var sb []rune
	isDouble := false
	for l.hasMore() && (unicode.IsDigit(l.cur) || l.cur == '.') {
		if l.cur == '.' {
			if isDouble || !unicode.IsDigit(l.next) {
				break
			}
			isDouble = true
		}
		sb = append(sb, l.cur)
		l.readRune()
	}
	end := l.pos()
	end.Column--
	kind := token.Int
	if isDouble {
		kind = token.Double
	}
	return token.Token{Kind: kind, Literal: string(sb), Start: start, End: end}
}

// lexString scans a single-quoted string literal, the dialect's only string form. Escaped
// quotes (\') do not terminate the literal.
func (l *Lexer) lexString() token.Token {
	start := l.pos()
	sb := []rune{l.cur}
	l.readRune()
	closed := false
	for l.hasMore() {
		sb = append(sb, l.cur)
		if l.cur == '\'' && (len(sb) < 3 || sb[len(sb)-2] != '\\') {
			closed = true
			l.readRune()
			break
		}
		l.readRune()
	}
	end := l.pos()
	end.Column--
	if !closed {
		return token.Token{Kind: token.ERROR, Start: start, End: end, Error: "unterminated string literal"}
	}
	return token.Token{Kind: token.Str, Literal: string(sb), Start: start, End: end}
}

func (l *Lexer) lexComment() token.Token {
	start := l.pos()
	var sb []rune
	multiline := l.next == '*'
	sb = append(sb, l.cur, l.next)
	l.readRune()
	l.readRune()

	closed := !multiline
	for l.hasMore() {
		if multiline {
			if l.cur == '*' && l.next == '/' {
				sb = append(sb, l.cur, l.next)
				l.readRune()
				l.readRune()
				closed = true
				break
			}
		} else if l.cur == '\n' {
			break
		}
		sb = append(sb, l.cur)
		l.readRune()
	}
	end := l.pos()
	end.Column--
	if multiline && !closed {
		return token.Token{Kind: token.ERROR, Start: start, End: end, Error: "unterminated block comment"}
	}
	return token.Token{Kind: token.Comment, Literal: string(sb), Start: start, End: end}
}

type op struct {
	two  rune
	kind token.Kind
}

var twoCharOps = map[rune][]op{
	'=': {{'=', token.Eq}},
	'!': {{'=', token.NotEq}},
	'<': {{'=', token.LtEq}},
	'>': {{'=', token.GtEq}},
	'+': {{'+', token.Inc}, {'=', token.PlusEq}},
	'-': {{'-', token.Dec}, {'=', token.MinusEq}},
	'*': {{'=', token.StarEq}},
	'/': {{'=', token.SlashEq}},
	'&': {{'&', token.And}},
	'|': {{'|', token.Or}},
}

var singleCharOps = map[rune]token.Kind{
	'{': token.LeftBrace, '}': token.RightBrace,
	'(': token.LeftParen, ')': token.RightParen,
	'[': token.LeftBracket, ']': token.RightBracket,
	';': token.Semicolon, ':': token.Colon, ',': token.Comma, '.': token.Dot, '@': token.At,
	'=': token.Assign, '<': token.Lt, '>': token.Gt,
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash, '%': token.Percent,
	'!': token.Not, '?': token.Question,
}

func (l *Lexer) lexOperator() token.Token {
	start := l.pos()
	r := l.cur

	if alts, ok := twoCharOps[r]; ok {
		for _, a := range alts {
			if l.next == a.two {
				l.readRune()
				l.readRune()
				end := l.pos()
				end.Column--
				return token.Token{Kind: a.kind, Literal: a.kind.String(), Start: start, End: end}
			}
		}
	}

	if kind, ok := singleCharOps[r]; ok {
		l.readRune()
		return token.Token{Kind: kind, Literal: kind.String(), Start: start, End: start}
	}

	literal := string(r)
	l.readRune()
	return token.Token{Kind: token.ERROR, Literal: literal, Start: start, End: start,
		Error: fmt.Sprintf("unexpected character %q", literal)}
}
