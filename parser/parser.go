// Package parser implements a recursive-descent parser for a representative subset of the
// target dialect, standing in for the external grammar that a real tree-sitter-like library
// would supply. It produces a [cst.Tree] with named children, field-name access and an "extra"
// flag for comments, matching the contract the CST accessor and enrichment are built against.
//
// The parser covers class, interface, trigger and enum declarations; fields, methods and
// constructors; the common statement forms (if/while/for/do-while/try/switch/return/throw/
// break/continue/local variable declaration/expression statement); expressions including
// binary, unary, ternary, assignment, method call chains and `new`; annotations; and a
// representative SOQL/SOSL query sub-language. It is not a complete grammar for the dialect.
package parser

import (
	"fmt"
	"io"

	"github.com/teleivo/apexfmt/cst"
	"github.com/teleivo/apexfmt/internal/lexer"
	"github.com/teleivo/apexfmt/token"
)

// Error represents a parse error in the source.
type Error struct {
	Pos token.Position
	Msg string
}

func (e Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// Parser parses source code into a concrete syntax tree.
//
// The parser decides on the current token plus one token of lookahead (peek). Comments
// encountered anywhere in the input are collected and attached to the root tree as extra
// children so enrichment can find every one of them regardless of where in the grammar they
// occurred.
type Parser struct {
	lex      *lexer.Lexer
	cur      token.Token
	peek     token.Token
	comments []token.Token
	errors   []Error
}

// New creates a parser reading from r.
func New(r io.Reader) *Parser {
	p := &Parser{lex: lexer.New(r)}
	p.advance()
	p.advance()
	return p
}

// Errors returns every error collected while parsing.
func (p *Parser) Errors() []Error {
	return p.errors
}

func (p *Parser) advance() {
	p.cur = p.peek
	for {
		tok := p.lex.Next()
		if tok.Kind == token.Comment {
			p.comments = append(p.comments, tok)
			continue
		}
		p.peek = tok
		return
	}
}

func (p *Parser) curIs(set token.Kind) bool  { return p.cur.Kind.In(set) }
func (p *Parser) peekIs(set token.Kind) bool { return p.peek.Kind.In(set) }

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, Error{Pos: p.cur.Start, Msg: fmt.Sprintf(format, args...)})
}

// consume appends the current token to tree under field and advances, unconditionally.
func (p *Parser) consume(tree *cst.Tree, field string) token.Token {
	tok := p.cur
	tree.AppendToken(field, tok)
	p.advance()
	return tok
}

// expect consumes the current token if it matches want, reporting an error otherwise. ok is
// false when the token did not match; the caller should treat the corresponding tree as
// incomplete.
func (p *Parser) expect(tree *cst.Tree, field string, want token.Kind) (token.Token, bool) {
	if !p.curIs(want) {
		p.errorf("expected %s, got %s", want, p.cur.Kind)
		return token.Token{}, false
	}
	return p.consume(tree, field), true
}

// Parse parses the source and returns the concrete syntax tree. Parse always returns a tree,
// even when errors were encountered; callers should refuse to format a file whose errors list is
// non-empty, per the driver's error-refusal policy.
func (p *Parser) Parse() *cst.Tree {
	file := &cst.Tree{Kind: cst.KindFile}
	for !p.curIs(token.EOF) {
		decl := p.parseTypeDecl()
		if decl != nil {
			file.AppendTree("", decl)
		} else {
			// unrecoverable at this token, skip it to make forward progress
			p.errorf("expected a type declaration, got %s", p.cur.Kind)
			p.advance()
		}
	}
	for _, c := range p.comments {
		file.AppendToken("", c)
	}
	return file
}

var modifierKinds = token.Public | token.Private | token.Protected | token.Global |
	token.Static | token.Final | token.Override | token.Virtual | token.Abstract | token.Transient

// parseModifiers parses a (possibly empty) run of modifier keywords and annotations, in any
// interleaving, the way declarations in the dialect commonly write them.
func (p *Parser) parseModifiers() *cst.Tree {
	mods := &cst.Tree{Kind: cst.KindModifiers}
	for p.curIs(modifierKinds | token.At) {
		if p.curIs(token.At) {
			mods.AppendTree("", p.parseAnnotation())
		} else {
			p.consume(mods, "modifier")
		}
	}
	return mods
}

func (p *Parser) parseAnnotation() *cst.Tree {
	ann := &cst.Tree{Kind: cst.KindAnnotation}
	p.expect(ann, "at", token.At)
	p.expect(ann, "name", token.ID)
	if p.curIs(token.LeftParen) {
		ann.AppendTree("args", p.parseAnnotationArgs())
	}
	return ann
}

func (p *Parser) parseAnnotationArgs() *cst.Tree {
	args := &cst.Tree{Kind: cst.KindAnnotationArgs}
	p.expect(args, "", token.LeftParen)
	for !p.curIs(token.RightParen|token.EOF) {
		args.AppendTree("arg", p.parseAnnotationArg())
		if p.curIs(token.Comma) {
			p.consume(args, "")
		} else {
			break
		}
	}
	p.expect(args, "", token.RightParen)
	return args
}

func (p *Parser) parseAnnotationArg() *cst.Tree {
	arg := &cst.Tree{Kind: cst.KindAnnotationArg}
	if p.curIs(token.ID) && p.peekIs(token.Assign) {
		p.expect(arg, "name", token.ID)
		p.expect(arg, "", token.Assign)
	}
	arg.AppendTree("value", p.parseExpr())
	return arg
}

// parseTypeDecl parses a top-level or nested class, interface, trigger or enum declaration,
// including any leading modifiers and annotations. Returns nil if the current token cannot
// start one.
func (p *Parser) parseTypeDecl() *cst.Tree {
	if !p.curIs(modifierKinds|token.At|token.Class|token.Interface|token.Trigger|token.Enum) {
		return nil
	}
	mods := p.parseModifiers()

	switch {
	case p.curIs(token.Class):
		return p.parseClassDecl(mods)
	case p.curIs(token.Interface):
		return p.parseInterfaceDecl(mods)
	case p.curIs(token.Trigger):
		return p.parseTriggerDecl(mods)
	case p.curIs(token.Enum):
		return p.parseEnumDecl(mods)
	default:
		p.errorf("expected class, interface, trigger or enum, got %s", p.cur.Kind)
		return nil
	}
}

func (p *Parser) parseClassDecl(mods *cst.Tree) *cst.Tree {
	decl := &cst.Tree{Kind: cst.KindClassDecl}
	decl.AppendTree("modifiers", mods)
	p.expect(decl, "", token.Class)
	p.expect(decl, "name", token.ID)

	if p.curIs(token.Extends) {
		super := &cst.Tree{Kind: cst.KindSuperclass}
		p.consume(super, "")
		super.AppendTree("type", p.parseType())
		decl.AppendTree("superclass", super)
	}
	if p.curIs(token.Implements) {
		decl.AppendTree("interfaces", p.parseInterfaces())
	}

	decl.AppendTree("body", p.parseClassBody())
	return decl
}

func (p *Parser) parseInterfaceDecl(mods *cst.Tree) *cst.Tree {
	decl := &cst.Tree{Kind: cst.KindInterfaceDecl}
	decl.AppendTree("modifiers", mods)
	p.expect(decl, "", token.Interface)
	p.expect(decl, "name", token.ID)
	if p.curIs(token.Extends) {
		decl.AppendTree("interfaces", p.parseInterfaces())
	}
	decl.AppendTree("body", p.parseClassBody())
	return decl
}

func (p *Parser) parseInterfaces() *cst.Tree {
	ifaces := &cst.Tree{Kind: cst.KindInterfaces}
	p.consume(ifaces, "") // extends | implements
	ifaces.AppendTree("type", p.parseType())
	for p.curIs(token.Comma) {
		p.consume(ifaces, "")
		ifaces.AppendTree("type", p.parseType())
	}
	return ifaces
}

func (p *Parser) parseTriggerDecl(mods *cst.Tree) *cst.Tree {
	decl := &cst.Tree{Kind: cst.KindTriggerDecl}
	decl.AppendTree("modifiers", mods)
	p.expect(decl, "", token.Trigger)
	p.expect(decl, "name", token.ID)
	p.expect(decl, "", token.On)
	p.expect(decl, "object", token.ID)
	p.expect(decl, "", token.LeftParen)
	// Each event is two words, a timing and an operation ("before insert"); "update" lexes as a
	// keyword, so it is accepted alongside identifiers.
	eventWord := token.ID | token.Update
	if !p.curIs(token.RightParen) {
		p.expect(decl, "event", eventWord)
		p.expect(decl, "event", eventWord)
		for p.curIs(token.Comma) {
			p.consume(decl, "")
			p.expect(decl, "event", eventWord)
			p.expect(decl, "event", eventWord)
		}
	}
	p.expect(decl, "", token.RightParen)
	decl.AppendTree("body", p.parseBlock())
	return decl
}

func (p *Parser) parseEnumDecl(mods *cst.Tree) *cst.Tree {
	decl := &cst.Tree{Kind: cst.KindEnumDecl}
	decl.AppendTree("modifiers", mods)
	p.expect(decl, "", token.Enum)
	p.expect(decl, "name", token.ID)
	p.expect(decl, "", token.LeftBrace)
	consts := &cst.Tree{Kind: cst.KindEnumConstants}
	if !p.curIs(token.RightBrace) {
		p.expect(consts, "const", token.ID)
		for p.curIs(token.Comma) {
			p.consume(consts, "")
			p.expect(consts, "const", token.ID)
		}
	}
	decl.AppendTree("constants", consts)
	p.expect(decl, "", token.RightBrace)
	return decl
}

// parseClassBody parses the body of a class or interface, dispatching each member to a field,
// method, constructor or nested type declaration.
func (p *Parser) parseClassBody() *cst.Tree {
	body := &cst.Tree{Kind: cst.KindBlock}
	p.expect(body, "", token.LeftBrace)
	for !p.curIs(token.RightBrace | token.EOF) {
		start := p.cur
		body.AppendTree("member", p.parseMember())
		if p.cur == start {
			// parseMember reported an error without consuming anything; skip the token so the
			// loop makes forward progress.
			p.advance()
		}
	}
	p.expect(body, "", token.RightBrace)
	return body
}

// parseMember parses one class/interface member: a nested type declaration, a constructor, a
// method or a field.
func (p *Parser) parseMember() *cst.Tree {
	if p.curIs(token.Class | token.Interface | token.Enum) {
		return p.parseTypeDecl()
	}

	mods := p.parseModifiers()
	if p.curIs(token.Class | token.Interface | token.Enum) {
		switch {
		case p.curIs(token.Class):
			return p.parseClassDecl(mods)
		case p.curIs(token.Interface):
			return p.parseInterfaceDecl(mods)
		default:
			return p.parseEnumDecl(mods)
		}
	}

	// constructor: Identifier '('
	if p.curIs(token.ID) && p.peekIs(token.LeftParen) {
		return p.parseConstructorDecl(mods)
	}

	returnType := p.parseType()
	name, ok := p.expectToken(token.ID)
	if !ok {
		name = token.Token{Kind: token.ERROR}
	}
	if p.curIs(token.LeftParen) {
		return p.parseMethodDecl(mods, returnType, name)
	}
	return p.parseFieldDecl(mods, returnType, name)
}

// expectToken consumes and returns the current token if it matches want, without appending it to
// any tree; the caller is responsible for placing it once the enclosing tree exists.
func (p *Parser) expectToken(want token.Kind) (token.Token, bool) {
	if !p.curIs(want) {
		p.errorf("expected %s, got %s", want, p.cur.Kind)
		return token.Token{}, false
	}
	tok := p.cur
	p.advance()
	return tok, true
}

func (p *Parser) parseConstructorDecl(mods *cst.Tree) *cst.Tree {
	decl := &cst.Tree{Kind: cst.KindConstructorDecl}
	decl.AppendTree("modifiers", mods)
	p.expect(decl, "name", token.ID)
	decl.AppendTree("parameters", p.parseParameterList())
	if p.curIs(token.ID) { // throws clause, spelled as a contextual keyword "throws"
		decl.AppendTree("throws", p.parseThrowsClause())
	}
	decl.AppendTree("body", p.parseBlock())
	return decl
}

func (p *Parser) parseMethodDecl(mods, returnType *cst.Tree, name token.Token) *cst.Tree {
	decl := &cst.Tree{Kind: cst.KindMethodDecl}
	decl.AppendTree("modifiers", mods)
	decl.AppendTree("type", returnType)
	decl.AppendToken("name", name)
	decl.AppendTree("parameters", p.parseParameterList())
	if p.curIs(token.ID) {
		decl.AppendTree("throws", p.parseThrowsClause())
	}
	if p.curIs(token.LeftBrace) {
		decl.AppendTree("body", p.parseBlock())
	} else {
		p.expect(decl, "", token.Semicolon)
	}
	return decl
}

func (p *Parser) parseFieldDecl(mods, typ *cst.Tree, name token.Token) *cst.Tree {
	decl := &cst.Tree{Kind: cst.KindFieldDecl}
	decl.AppendTree("modifiers", mods)
	decl.AppendTree("type", typ)

	first := &cst.Tree{Kind: cst.KindDeclarator}
	first.AppendToken("name", name)
	if p.curIs(token.Assign) {
		p.consume(first, "")
		first.AppendTree("value", p.parseExpr())
	}
	decl.AppendTree("declarator", first)

	for p.curIs(token.Comma) {
		p.consume(decl, "")
		decl.AppendTree("declarator", p.parseDeclarator())
	}
	p.expect(decl, "", token.Semicolon)
	return decl
}

func (p *Parser) parseDeclarator() *cst.Tree {
	d := &cst.Tree{Kind: cst.KindDeclarator}
	p.expect(d, "name", token.ID)
	if p.curIs(token.Assign) {
		p.consume(d, "")
		d.AppendTree("value", p.parseExpr())
	}
	return d
}

func (p *Parser) parseThrowsClause() *cst.Tree {
	clause := &cst.Tree{Kind: cst.KindThrowsClause}
	p.expect(clause, "", token.ID) // "throws"
	p.expect(clause, "type", token.ID)
	for p.curIs(token.Comma) {
		p.consume(clause, "")
		p.expect(clause, "type", token.ID)
	}
	return clause
}

// parseType parses a (possibly generic, possibly array) type reference: Name, Name<Name>, or
// Name[].
func (p *Parser) parseType() *cst.Tree {
	typ := &cst.Tree{Kind: cst.KindType}
	p.expect(typ, "name", token.ID)
	if p.curIs(token.Lt) {
		p.consume(typ, "")
		typ.AppendTree("arg", p.parseType())
		for p.curIs(token.Comma) {
			p.consume(typ, "")
			typ.AppendTree("arg", p.parseType())
		}
		p.expect(typ, "", token.Gt)
	}
	// Only "[]" is an array dimension; a '[' followed by anything else (the size in
	// "new Integer[3]") is left to the caller.
	for p.curIs(token.LeftBracket) && p.peekIs(token.RightBracket) {
		p.consume(typ, "")
		p.consume(typ, "")
	}
	return typ
}

func (p *Parser) parseParameterList() *cst.Tree {
	params := &cst.Tree{Kind: cst.KindParameterList}
	p.expect(params, "", token.LeftParen)
	for !p.curIs(token.RightParen | token.EOF) {
		params.AppendTree("param", p.parseParameter())
		if p.curIs(token.Comma) {
			p.consume(params, "")
		} else {
			break
		}
	}
	p.expect(params, "", token.RightParen)
	return params
}

func (p *Parser) parseParameter() *cst.Tree {
	param := &cst.Tree{Kind: cst.KindParameter}
	if p.curIs(token.Final) {
		p.consume(param, "modifier")
	}
	param.AppendTree("type", p.parseType())
	p.expect(param, "name", token.ID)
	return param
}

func (p *Parser) parseBlock() *cst.Tree {
	block := &cst.Tree{Kind: cst.KindBlock}
	p.expect(block, "", token.LeftBrace)
	for !p.curIs(token.RightBrace | token.EOF) {
		block.AppendTree("stmt", p.parseStatement())
	}
	p.expect(block, "", token.RightBrace)
	return block
}

func (p *Parser) parseStatement() *cst.Tree {
	switch {
	case p.curIs(token.LeftBrace):
		return p.parseBlock()
	case p.curIs(token.If):
		return p.parseIfStmt()
	case p.curIs(token.While):
		return p.parseWhileStmt()
	case p.curIs(token.For):
		return p.parseForStmt()
	case p.curIs(token.Do):
		return p.parseDoWhileStmt()
	case p.curIs(token.Try):
		return p.parseTryStmt()
	case p.curIs(token.Switch):
		return p.parseSwitchStmt()
	case p.curIs(token.Return):
		return p.parseReturnStmt()
	case p.curIs(token.Throw):
		return p.parseThrowStmt()
	case p.curIs(token.Break):
		return p.parseBreakStmt()
	case p.curIs(token.Continue):
		return p.parseContinueStmt()
	case p.looksLikeLocalVarDecl():
		return p.parseLocalVarDecl()
	default:
		return p.parseExprStmt()
	}
}

// looksLikeLocalVarDecl reports whether the upcoming tokens form "Type Identifier" (or a final
// modifier before one), the shape of a local variable declaration, as opposed to a bare
// expression statement.
func (p *Parser) looksLikeLocalVarDecl() bool {
	if p.curIs(token.Final) {
		return true
	}
	return p.curIs(token.ID) && p.peekIs(token.ID)
}

func (p *Parser) parseLocalVarDecl() *cst.Tree {
	decl := &cst.Tree{Kind: cst.KindLocalVarDecl}
	if p.curIs(token.Final) {
		p.consume(decl, "modifier")
	}
	decl.AppendTree("type", p.parseType())
	decl.AppendTree("declarator", p.parseDeclarator())
	for p.curIs(token.Comma) {
		p.consume(decl, "")
		decl.AppendTree("declarator", p.parseDeclarator())
	}
	p.expect(decl, "", token.Semicolon)
	return decl
}

func (p *Parser) parseIfStmt() *cst.Tree {
	stmt := &cst.Tree{Kind: cst.KindIfStmt}
	p.expect(stmt, "", token.If)
	p.expect(stmt, "", token.LeftParen)
	stmt.AppendTree("condition", p.parseExpr())
	p.expect(stmt, "", token.RightParen)
	stmt.AppendTree("then", p.parseStatement())
	if p.curIs(token.Else) {
		elseClause := &cst.Tree{Kind: cst.KindElseClause}
		p.consume(elseClause, "")
		elseClause.AppendTree("body", p.parseStatement())
		stmt.AppendTree("else", elseClause)
	}
	return stmt
}

func (p *Parser) parseWhileStmt() *cst.Tree {
	stmt := &cst.Tree{Kind: cst.KindWhileStmt}
	p.expect(stmt, "", token.While)
	p.expect(stmt, "", token.LeftParen)
	stmt.AppendTree("condition", p.parseExpr())
	p.expect(stmt, "", token.RightParen)
	stmt.AppendTree("body", p.parseStatement())
	return stmt
}

func (p *Parser) parseDoWhileStmt() *cst.Tree {
	stmt := &cst.Tree{Kind: cst.KindDoWhileStmt}
	p.expect(stmt, "", token.Do)
	stmt.AppendTree("body", p.parseStatement())
	p.expect(stmt, "", token.While)
	p.expect(stmt, "", token.LeftParen)
	stmt.AppendTree("condition", p.parseExpr())
	p.expect(stmt, "", token.RightParen)
	p.expect(stmt, "", token.Semicolon)
	return stmt
}

// parseForStmt parses the classic three-clause for loop: for (init; condition; update) body.
func (p *Parser) parseForStmt() *cst.Tree {
	stmt := &cst.Tree{Kind: cst.KindForStmt}
	p.expect(stmt, "", token.For)
	p.expect(stmt, "", token.LeftParen)
	if !p.curIs(token.Semicolon) {
		if p.looksLikeLocalVarDecl() {
			stmt.AppendTree("init", p.parseLocalVarDeclNoSemi())
		} else {
			stmt.AppendTree("init", p.parseExpr())
		}
	}
	p.expect(stmt, "", token.Semicolon)
	if !p.curIs(token.Semicolon) {
		stmt.AppendTree("condition", p.parseExpr())
	}
	p.expect(stmt, "", token.Semicolon)
	if !p.curIs(token.RightParen) {
		stmt.AppendTree("update", p.parseExpr())
		for p.curIs(token.Comma) {
			p.consume(stmt, "")
			stmt.AppendTree("update", p.parseExpr())
		}
	}
	p.expect(stmt, "", token.RightParen)
	stmt.AppendTree("body", p.parseStatement())
	return stmt
}

func (p *Parser) parseLocalVarDeclNoSemi() *cst.Tree {
	decl := &cst.Tree{Kind: cst.KindLocalVarDecl}
	if p.curIs(token.Final) {
		p.consume(decl, "modifier")
	}
	decl.AppendTree("type", p.parseType())
	decl.AppendTree("declarator", p.parseDeclarator())
	for p.curIs(token.Comma) {
		p.consume(decl, "")
		decl.AppendTree("declarator", p.parseDeclarator())
	}
	return decl
}

func (p *Parser) parseTryStmt() *cst.Tree {
	stmt := &cst.Tree{Kind: cst.KindTryStmt}
	p.expect(stmt, "", token.Try)
	stmt.AppendTree("body", p.parseBlock())
	for p.curIs(token.Catch) {
		stmt.AppendTree("catch", p.parseCatchClause())
	}
	if p.curIs(token.Finally) {
		finallyClause := &cst.Tree{Kind: cst.KindFinallyClause}
		p.consume(finallyClause, "")
		finallyClause.AppendTree("body", p.parseBlock())
		stmt.AppendTree("finally", finallyClause)
	}
	return stmt
}

func (p *Parser) parseCatchClause() *cst.Tree {
	clause := &cst.Tree{Kind: cst.KindCatchClause}
	p.expect(clause, "", token.Catch)
	p.expect(clause, "", token.LeftParen)
	clause.AppendTree("type", p.parseType())
	p.expect(clause, "name", token.ID)
	p.expect(clause, "", token.RightParen)
	clause.AppendTree("body", p.parseBlock())
	return clause
}

func (p *Parser) parseSwitchStmt() *cst.Tree {
	stmt := &cst.Tree{Kind: cst.KindSwitchStmt}
	p.expect(stmt, "", token.Switch)
	p.expect(stmt, "", token.On)
	stmt.AppendTree("subject", p.parseExpr())
	p.expect(stmt, "", token.LeftBrace)
	for p.curIs(token.When) {
		stmt.AppendTree("when", p.parseWhenClause())
	}
	p.expect(stmt, "", token.RightBrace)
	return stmt
}

func (p *Parser) parseWhenClause() *cst.Tree {
	clause := &cst.Tree{Kind: cst.KindWhenClause}
	p.expect(clause, "", token.When)
	if p.curIs(token.Else) {
		p.consume(clause, "")
	} else {
		clause.AppendTree("value", p.parseExpr())
		for p.curIs(token.Comma) {
			p.consume(clause, "")
			clause.AppendTree("value", p.parseExpr())
		}
	}
	clause.AppendTree("body", p.parseBlock())
	return clause
}

func (p *Parser) parseReturnStmt() *cst.Tree {
	stmt := &cst.Tree{Kind: cst.KindReturnStmt}
	p.expect(stmt, "", token.Return)
	if !p.curIs(token.Semicolon) {
		stmt.AppendTree("value", p.parseExpr())
	}
	p.expect(stmt, "", token.Semicolon)
	return stmt
}

func (p *Parser) parseThrowStmt() *cst.Tree {
	stmt := &cst.Tree{Kind: cst.KindThrowStmt}
	p.expect(stmt, "", token.Throw)
	stmt.AppendTree("value", p.parseExpr())
	p.expect(stmt, "", token.Semicolon)
	return stmt
}

func (p *Parser) parseBreakStmt() *cst.Tree {
	stmt := &cst.Tree{Kind: cst.KindBreakStmt}
	p.expect(stmt, "", token.Break)
	p.expect(stmt, "", token.Semicolon)
	return stmt
}

func (p *Parser) parseContinueStmt() *cst.Tree {
	stmt := &cst.Tree{Kind: cst.KindContinueStmt}
	p.expect(stmt, "", token.Continue)
	p.expect(stmt, "", token.Semicolon)
	return stmt
}

func (p *Parser) parseExprStmt() *cst.Tree {
	stmt := &cst.Tree{Kind: cst.KindExprStmt}
	stmt.AppendTree("expr", p.parseExpr())
	p.expect(stmt, "", token.Semicolon)
	return stmt
}

// --- Expressions ---
//
// Precedence, loosest to tightest: assignment, ternary, logical-or, logical-and, equality,
// relational (including instanceof), additive, multiplicative, unary, postfix, primary.

func (p *Parser) parseExpr() *cst.Tree {
	return p.parseAssignment()
}

var assignOps = token.Assign | token.PlusEq | token.MinusEq | token.StarEq | token.SlashEq

func (p *Parser) parseAssignment() *cst.Tree {
	left := p.parseTernary()
	if p.curIs(assignOps) {
		expr := &cst.Tree{Kind: cst.KindAssignExpr}
		expr.AppendTree("left", left)
		p.expect(expr, "op", assignOps)
		expr.AppendTree("right", p.parseAssignment())
		return expr
	}
	return left
}

func (p *Parser) parseTernary() *cst.Tree {
	cond := p.parseBinary(0)
	if p.curIs(token.Question) {
		expr := &cst.Tree{Kind: cst.KindTernaryExpr}
		expr.AppendTree("condition", cond)
		p.expect(expr, "", token.Question)
		expr.AppendTree("then", p.parseAssignment())
		p.expect(expr, "", token.Colon)
		expr.AppendTree("else", p.parseAssignment())
		return expr
	}
	return cond
}

var precedence = []token.Kind{
	token.Or,
	token.And,
	token.Eq | token.NotEq,
	token.Lt | token.Gt | token.LtEq | token.GtEq | token.Instanceof,
	token.Plus | token.Minus,
	token.Star | token.Slash | token.Percent,
}

// parseBinary implements precedence climbing over the operator levels in precedence, left
// associating operators of the same precedence.
func (p *Parser) parseBinary(level int) *cst.Tree {
	if level >= len(precedence) {
		return p.parseUnary()
	}
	left := p.parseBinary(level + 1)
	for p.curIs(precedence[level]) {
		expr := &cst.Tree{Kind: cst.KindBinaryExpr}
		expr.AppendTree("left", left)
		p.expect(expr, "op", precedence[level])
		expr.AppendTree("right", p.parseBinary(level+1))
		left = expr
	}
	return left
}

var unaryOps = token.Not | token.Minus | token.Plus | token.Inc | token.Dec

func (p *Parser) parseUnary() *cst.Tree {
	if p.curIs(unaryOps) {
		expr := &cst.Tree{Kind: cst.KindUnaryExpr}
		p.expect(expr, "op", unaryOps)
		expr.AppendTree("operand", p.parseUnary())
		return expr
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by any chain of '.' member accesses, call
// argument lists and '[' index expressions.
func (p *Parser) parsePostfix() *cst.Tree {
	expr := p.parsePrimary()
	for {
		switch {
		case p.curIs(token.Dot):
			access := &cst.Tree{Kind: cst.KindFieldAccessExpr}
			access.AppendTree("target", expr)
			p.consume(access, "")
			p.expect(access, "name", token.ID)
			expr = access
		case p.curIs(token.LeftParen):
			call := &cst.Tree{Kind: cst.KindCallExpr}
			call.AppendTree("callee", expr)
			call.AppendTree("arguments", p.parseArgumentList())
			expr = call
		case p.curIs(token.LeftBracket):
			access := &cst.Tree{Kind: cst.KindArrayAccessExpr}
			access.AppendTree("target", expr)
			p.consume(access, "")
			access.AppendTree("index", p.parseExpr())
			p.expect(access, "", token.RightBracket)
			expr = access
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgumentList() *cst.Tree {
	args := &cst.Tree{Kind: cst.KindArgumentList}
	p.expect(args, "", token.LeftParen)
	for !p.curIs(token.RightParen | token.EOF) {
		args.AppendTree("arg", p.parseExpr())
		if p.curIs(token.Comma) {
			p.consume(args, "")
		} else {
			break
		}
	}
	p.expect(args, "", token.RightParen)
	return args
}

var literalKinds = token.Int | token.Double | token.Str | token.Bool | token.Null

func (p *Parser) parsePrimary() *cst.Tree {
	switch {
	case p.curIs(literalKinds):
		lit := &cst.Tree{Kind: cst.KindLiteral}
		p.consume(lit, "")
		return lit
	case p.curIs(token.New):
		return p.parseNewExpr()
	case p.curIs(token.LeftParen):
		p.advance() // '('
		expr := p.parseExpr()
		p.expectRightParen()
		return expr
	case p.curIs(token.LeftBracket):
		return p.parseQueryExpr()
	case p.curIs(token.ID):
		ident := &cst.Tree{Kind: cst.KindID}
		p.consume(ident, "")
		return ident
	default:
		p.errorf("expected expression, got %s", p.cur.Kind)
		errTree := &cst.Tree{Kind: cst.KindErrorTree}
		p.advance()
		return errTree
	}
}

func (p *Parser) expectRightParen() {
	if p.curIs(token.RightParen) {
		p.advance()
		return
	}
	p.errorf("expected %s, got %s", token.RightParen, p.cur.Kind)
}

func (p *Parser) parseNewExpr() *cst.Tree {
	expr := &cst.Tree{Kind: cst.KindNewExpr}
	p.expect(expr, "", token.New)
	expr.AppendTree("type", p.parseType())
	if p.curIs(token.LeftBracket) {
		p.consume(expr, "")
		if !p.curIs(token.RightBracket) {
			expr.AppendTree("size", p.parseExpr())
		}
		p.expect(expr, "", token.RightBracket)
		return expr
	}
	expr.AppendTree("arguments", p.parseArgumentList())
	return expr
}

// parseQueryExpr parses a bracketed SOQL or SOSL query, e.g. "[SELECT Id FROM Account WHERE
// Name = 'x']" or "[FIND 'text' IN ALL FIELDS RETURNING Account]". Only the clauses common to
// everyday queries are covered.
func (p *Parser) parseQueryExpr() *cst.Tree {
	query := &cst.Tree{Kind: cst.KindQueryExpr}
	p.expect(query, "", token.LeftBracket)

	if p.curIs(token.Find) {
		query.AppendTree("find", p.parseFindExpr())
	} else {
		p.expect(query, "", token.Select)
		query.AppendTree("select", p.parseFieldList())
		p.expect(query, "", token.From)
		from := &cst.Tree{Kind: cst.KindFromClause}
		p.expect(from, "object", token.ID)
		query.AppendTree("from", from)

		if p.curIs(token.Where) {
			where := &cst.Tree{Kind: cst.KindWhereClause}
			p.consume(where, "")
			where.AppendTree("condition", p.parseExpr())
			query.AppendTree("where", where)
		}
		if p.curIs(token.With) {
			with := &cst.Tree{Kind: cst.KindWithClause}
			p.consume(with, "")
			p.expect(with, "value", token.ID)
			query.AppendTree("with", with)
		}
		if p.curIs(token.Group) {
			groupBy := &cst.Tree{Kind: cst.KindGroupByClause}
			p.consume(groupBy, "")
			p.expect(groupBy, "", token.By)
			groupBy.AppendTree("field", p.parseExpr())
			for p.curIs(token.Comma) {
				p.consume(groupBy, "")
				groupBy.AppendTree("field", p.parseExpr())
			}
			query.AppendTree("groupBy", groupBy)
			if p.curIs(token.Having) {
				having := &cst.Tree{Kind: cst.KindHavingClause}
				p.consume(having, "")
				having.AppendTree("condition", p.parseExpr())
				query.AppendTree("having", having)
			}
		}
		if p.curIs(token.Order) {
			orderBy := &cst.Tree{Kind: cst.KindOrderByClause}
			p.consume(orderBy, "")
			p.expect(orderBy, "", token.By)
			orderBy.AppendTree("field", p.parseExpr())
			for p.curIs(token.Comma) {
				p.consume(orderBy, "")
				orderBy.AppendTree("field", p.parseExpr())
			}
			if p.curIs(token.Asc | token.Desc) {
				p.consume(orderBy, "direction")
			}
			query.AppendTree("orderBy", orderBy)
		}
		if p.curIs(token.Limit) {
			limit := &cst.Tree{Kind: cst.KindLimitClause}
			p.consume(limit, "")
			limit.AppendTree("value", p.parseExpr())
			query.AppendTree("limit", limit)
		}
		if p.curIs(token.Offset) {
			offset := &cst.Tree{Kind: cst.KindOffsetClause}
			p.consume(offset, "")
			offset.AppendTree("value", p.parseExpr())
			query.AppendTree("offset", offset)
		}
		if p.curIs(token.Update) {
			update := &cst.Tree{Kind: cst.KindUpdateClause}
			p.consume(update, "")
			p.expect(update, "option", token.ID)
			for p.curIs(token.Comma) {
				p.consume(update, "")
				p.expect(update, "option", token.ID)
			}
			query.AppendTree("update", update)
		}
	}

	p.expect(query, "", token.RightBracket)
	return query
}

func (p *Parser) parseFieldList() *cst.Tree {
	fields := &cst.Tree{Kind: cst.KindFieldList}
	fields.AppendTree("field", p.parseExpr())
	for p.curIs(token.Comma) {
		p.consume(fields, "")
		fields.AppendTree("field", p.parseExpr())
	}
	return fields
}

func (p *Parser) parseFindExpr() *cst.Tree {
	find := &cst.Tree{Kind: cst.KindFindExpr}
	p.expect(find, "", token.Find)
	p.expect(find, "term", token.Str)
	if p.curIs(token.In) {
		in := &cst.Tree{Kind: cst.KindInClause}
		p.consume(in, "")
		for p.curIs(token.ID) {
			p.consume(in, "scope")
		}
		find.AppendTree("in", in)
	}
	if p.curIs(token.Returning) {
		ret := &cst.Tree{Kind: cst.KindReturningClause}
		p.consume(ret, "")
		p.expect(ret, "object", token.ID)
		for p.curIs(token.Comma) {
			p.consume(ret, "")
			p.expect(ret, "object", token.ID)
		}
		find.AppendTree("returning", ret)
	}
	return find
}
