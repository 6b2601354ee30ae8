// Package token defines the lexical tokens of the business-logic dialect together with
// operations like printing and keyword lookup.
package token

import "fmt"

// Kind represents the type of a lexical token. Kinds are powers of 2 so callers can combine
// them with bitwise OR into sets for membership tests, the way [Kind.In] does.
type Kind uint64

const (
	ERROR Kind = 1 << iota
	EOF

	ID     // identifier
	Int    // integer literal
	Double // decimal literal
	Str    // string literal
	Bool   // true | false
	Null   // null

	Comment // line or block comment, always an "extra" token

	LeftBrace    // {
	RightBrace   // }
	LeftParen    // (
	RightParen   // )
	LeftBracket  // [
	RightBracket // ]
	Semicolon    // ;
	Colon        // :
	Comma        // ,
	Dot          // .
	At           // @

	Assign  // =
	PlusEq  // +=
	MinusEq // -=
	StarEq  // *=
	SlashEq // /=
	Eq      // ==
	NotEq   // !=
	Lt      // <
	Gt      // >
	LtEq    // <=
	GtEq    // >=
	Plus    // +
	Minus   // -
	Star    // *
	Slash   // /
	Percent // %
	And     // &&
	Or      // ||
	Not     // !
	Question
	Inc // ++
	Dec // --

	// Keywords
	Class
	Interface
	Trigger
	Enum
	Extends
	Implements
	On
	Public
	Private
	Protected
	Global
	Static
	Final
	Override
	Virtual
	Abstract
	Transient
	Void // not returned by Lookup: "void" lexes as ID so it parses as a return type name
	New
	Return
	If
	Else
	While
	For
	Do
	Switch
	When
	Try
	Catch
	Finally
	Throw
	Break
	Continue
	Instanceof

	// Query sub-language keywords
	Select
	From
	Where
	Group
	By
	Having
	Order
	Asc
	Desc
	Limit
	Offset
	With
	Returning
	Find
	In
	Update
)

var keywords = map[string]Kind{
	"class":      Class,
	"interface":  Interface,
	"trigger":    Trigger,
	"enum":       Enum,
	"extends":    Extends,
	"implements": Implements,
	"on":         On,
	"public":     Public,
	"private":    Private,
	"protected":  Protected,
	"global":     Global,
	"static":     Static,
	"final":      Final,
	"override":   Override,
	"virtual":    Virtual,
	"abstract":   Abstract,
	"transient":  Transient,
	"new":        New,
	"return":     Return,
	"if":         If,
	"else":       Else,
	"while":      While,
	"for":        For,
	"do":         Do,
	"switch":     Switch,
	"when":       When,
	"try":        Try,
	"catch":      Catch,
	"finally":    Finally,
	"throw":      Throw,
	"break":      Break,
	"continue":   Continue,
	"instanceof": Instanceof,
	"true":       Bool,
	"false":      Bool,
	"null":       Null,
	"select":     Select,
	"from":       From,
	"where":      Where,
	"group":      Group,
	"by":         By,
	"having":     Having,
	"order":      Order,
	"asc":        Asc,
	"desc":       Desc,
	"limit":      Limit,
	"offset":     Offset,
	"with":       With,
	"returning":  Returning,
	"find":       Find,
	"in":         In,
	"update":     Update,
}

// Lookup returns the keyword Kind for a case-insensitive identifier literal, and ID otherwise.
// The dialect's keywords, like Apex's, are not case sensitive.
func Lookup(literal string) Kind {
	if k, ok := keywords[lower(literal)]; ok {
		return k
	}
	return ID
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// In reports whether k is a member of set, a bitwise OR of Kind values.
func (k Kind) In(set Kind) bool {
	return k&set != 0
}

var kindStrings = map[Kind]string{
	ERROR: "ERROR", EOF: "EOF",
	ID: "ID", Int: "INT", Double: "DOUBLE", Str: "STRING", Bool: "BOOL", Null: "null",
	Comment:      "COMMENT",
	LeftBrace:    "{",
	RightBrace:   "}",
	LeftParen:    "(",
	RightParen:   ")",
	LeftBracket:  "[",
	RightBracket: "]",
	Semicolon:    ";",
	Colon:        ":",
	Comma:        ",",
	Dot:          ".",
	At:           "@",
	Assign:       "=", PlusEq: "+=", MinusEq: "-=", StarEq: "*=", SlashEq: "/=",
	Eq: "==", NotEq: "!=", Lt: "<", Gt: ">", LtEq: "<=", GtEq: ">=",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	And: "&&", Or: "||", Not: "!", Question: "?", Inc: "++", Dec: "--",
	Class: "class", Interface: "interface", Trigger: "trigger", Enum: "enum",
	Extends: "extends", Implements: "implements", On: "on",
	Public: "public", Private: "private", Protected: "protected", Global: "global",
	Static: "static", Final: "final", Override: "override", Virtual: "virtual",
	Abstract: "abstract", Transient: "transient", Void: "void", New: "new",
	Return: "return", If: "if", Else: "else", While: "while", For: "for", Do: "do",
	Switch: "switch", When: "when", Try: "try", Catch: "catch", Finally: "finally",
	Throw: "throw", Break: "break", Continue: "continue", Instanceof: "instanceof",
	Select: "SELECT", From: "FROM", Where: "WHERE", Group: "GROUP", By: "BY",
	Having: "HAVING", Order: "ORDER", Asc: "ASC", Desc: "DESC", Limit: "LIMIT",
	Offset: "OFFSET", With: "WITH", Returning: "RETURNING", Find: "FIND", In: "IN",
	Update: "UPDATE",
}

// String returns the string representation of the token kind.
func (k Kind) String() string {
	if s, ok := kindStrings[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Token is a single lexical token with its source span.
type Token struct {
	Kind    Kind
	Literal string // source text of the token (operators carry their canonical spelling); empty for EOF and unterminated literals
	Start   Position
	End     Position
	Error   string // set when Kind is ERROR, describing what went wrong
}

// IsExtra reports whether the token is insignificant to the grammar (comments) and should be
// skipped by named-child iteration while still being collectible for comment attachment.
func (t Token) IsExtra() bool {
	return t.Kind == Comment
}

func (t Token) String() string {
	if t.Literal != "" {
		return t.Literal
	}
	return t.Kind.String()
}
