// Package ast is the enriched, owned domain tree for the target dialect. It mirrors the concrete
// syntax tree produced by the parser but carries no back-pointers and every node owns its
// children directly; format metadata needed by the doc-build dispatch (comments, blank-line
// intent) lives alongside each node in its [FormatInfo].
package ast

import "github.com/teleivo/apexfmt/token"

// FormatInfo carries layout metadata for a domain node that has nothing to do with its
// semantics: comments attached to it and whether a blank line followed it in the source.
type FormatInfo struct {
	PreComments          []Comment
	PostComments         []Comment
	HasTrailingBlankLine bool
}

// CommentKind distinguishes a line comment from a block comment.
type CommentKind int

const (
	Line CommentKind = iota
	Block
)

// Comment is a single comment collected from the CST during enrichment.
type Comment struct {
	Kind    CommentKind
	Content string
	Start   token.Position
	End     token.Position
}

// Node is implemented by every domain tree node.
type Node interface {
	Start() token.Position
	End() token.Position
}

// Decl nodes are top-level or nested type declarations.
type Decl interface {
	Node
	declNode()
}

// Member nodes appear inside a class, interface or trigger body: fields, methods, constructors
// and nested type declarations.
type Member interface {
	Node
	memberNode()
}

// Stmt nodes appear inside a block.
type Stmt interface {
	Node
	stmtNode()
}

// Expr nodes are expressions.
type Expr interface {
	Node
	exprNode()
}

// span is embedded by every concrete node to implement Start/End without repeating the two
// fields and their accessors everywhere.
type span struct {
	start, end token.Position
}

func (s span) Start() token.Position { return s.start }
func (s span) End() token.Position   { return s.end }

// SetSpan sets the node's source span. Enrichment calls this once per node, right after
// constructing it from its CST counterpart.
func (s *span) SetSpan(start, end token.Position) {
	s.start = start
	s.end = end
}

// File is the root of a parsed source file: a sequence of top-level type declarations.
type File struct {
	span
	Decls []Decl
}

// Annotation is `@Name` or `@Name(arg, ...)`.
type Annotation struct {
	span
	Name string
	Args []AnnotationArg
}

// AnnotationArg is one argument of an annotation, optionally named (`key=value`).
type AnnotationArg struct {
	span
	Name  string // empty for a positional argument
	Value Expr
}

// Modifiers is the annotations and modifier keywords preceding a declaration or member. Each
// slice keeps source order; how keywords and annotations were interleaved is not recorded.
type Modifiers struct {
	Keywords    []string
	Annotations []Annotation
}

// Type is a (possibly generic, possibly array) type reference.
type Type struct {
	span
	Name      string
	Args      []*Type
	ArrayDims int
}

// ClassDecl is a class declaration.
type ClassDecl struct {
	span
	FormatInfo
	Modifiers  Modifiers
	Name       string
	Superclass *Type
	Interfaces []*Type
	Members    []Member
}

func (d *ClassDecl) declNode()   {}
func (d *ClassDecl) memberNode() {}

// InterfaceDecl is an interface declaration.
type InterfaceDecl struct {
	span
	FormatInfo
	Modifiers  Modifiers
	Name       string
	Interfaces []*Type
	Members    []Member
}

func (d *InterfaceDecl) declNode()   {}
func (d *InterfaceDecl) memberNode() {}

// TriggerDecl is a trigger declaration: `trigger Name on Object (events) { ... }`. Events holds
// the event words in source order, two per event (e.g. "before", "insert").
type TriggerDecl struct {
	span
	FormatInfo
	Modifiers Modifiers
	Name      string
	Object    string
	Events    []string
	Body      *Block
}

func (d *TriggerDecl) declNode()   {}
func (d *TriggerDecl) memberNode() {}

// EnumDecl is an enum declaration.
type EnumDecl struct {
	span
	FormatInfo
	Modifiers Modifiers
	Name      string
	Constants []string
}

func (d *EnumDecl) declNode()   {}
func (d *EnumDecl) memberNode() {}

// Declarator is one `name` or `name = value` in a field or local variable declaration.
type Declarator struct {
	span
	Name  string
	Value Expr
}

// FieldDecl is a field declaration, possibly declaring more than one name of the same type.
type FieldDecl struct {
	span
	FormatInfo
	Modifiers   Modifiers
	Type        *Type
	Declarators []Declarator
}

func (d *FieldDecl) memberNode() {}

// Parameter is one formal parameter of a method or constructor.
type Parameter struct {
	span
	Final bool
	Type  *Type
	Name  string
}

// MethodDecl is a method declaration. Body is nil for an abstract or interface method.
type MethodDecl struct {
	span
	FormatInfo
	Modifiers  Modifiers
	Type       *Type
	Name       string
	Parameters []*Parameter
	Throws     []string
	Body       *Block
}

func (d *MethodDecl) memberNode() {}

// ConstructorDecl is a constructor declaration.
type ConstructorDecl struct {
	span
	FormatInfo
	Modifiers  Modifiers
	Name       string
	Parameters []*Parameter
	Throws     []string
	Body       *Block
}

func (d *ConstructorDecl) memberNode() {}

// Block is a brace-delimited statement list. It is itself a [Stmt] so it can appear as the body
// of an if/while/for without a separate wrapper type, and enrichment synthesizes one around a
// single statement when the source omitted braces.
type Block struct {
	span
	FormatInfo
	Stmts   []Stmt
	Synthetic bool // true when the source wrote a single statement without braces
}

func (s *Block) stmtNode() {}

// LocalVarDecl declares one or more local variables of the same type.
type LocalVarDecl struct {
	span
	FormatInfo
	Final       bool
	Type        *Type
	Declarators []Declarator
}

func (s *LocalVarDecl) stmtNode() {}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	span
	FormatInfo
	Expr Expr
}

func (s *ExprStmt) stmtNode() {}

// IfStmt is an if statement with an optional else branch.
type IfStmt struct {
	span
	FormatInfo
	Condition Expr
	Then      Stmt
	Else      Stmt
}

func (s *IfStmt) stmtNode() {}

// WhileStmt is a while loop.
type WhileStmt struct {
	span
	FormatInfo
	Condition Expr
	Body      Stmt
}

func (s *WhileStmt) stmtNode() {}

// DoWhileStmt is a do-while loop.
type DoWhileStmt struct {
	span
	FormatInfo
	Body      Stmt
	Condition Expr
}

func (s *DoWhileStmt) stmtNode() {}

// ForStmt is the classic three-clause for loop. Init is either a [*LocalVarDecl] or an [Expr],
// and may be nil.
type ForStmt struct {
	span
	FormatInfo
	Init      Node
	Condition Expr
	Update    []Expr
	Body      Stmt
}

func (s *ForStmt) stmtNode() {}

// CatchClause is one `catch (Type name) { ... }` clause of a try statement.
type CatchClause struct {
	span
	Type *Type
	Name string
	Body *Block
}

// TryStmt is a try statement with zero or more catch clauses and an optional finally block.
type TryStmt struct {
	span
	FormatInfo
	Body    *Block
	Catches []*CatchClause
	Finally *Block
}

func (s *TryStmt) stmtNode() {}

// WhenClause is one `when value, value2 { ... }` or `when else { ... }` arm of a switch
// statement. Else is true for the latter, in which case Values is empty.
type WhenClause struct {
	span
	Values []Expr
	Else   bool
	Body   *Block
}

// SwitchStmt is a `switch on expr { when ... }` statement.
type SwitchStmt struct {
	span
	FormatInfo
	Subject Expr
	Whens   []*WhenClause
}

func (s *SwitchStmt) stmtNode() {}

// ReturnStmt is a return statement with an optional value.
type ReturnStmt struct {
	span
	FormatInfo
	Value Expr
}

func (s *ReturnStmt) stmtNode() {}

// ThrowStmt throws an exception value.
type ThrowStmt struct {
	span
	FormatInfo
	Value Expr
}

func (s *ThrowStmt) stmtNode() {}

// BreakStmt is a break statement.
type BreakStmt struct {
	span
	FormatInfo
}

func (s *BreakStmt) stmtNode() {}

// ContinueStmt is a continue statement.
type ContinueStmt struct {
	span
	FormatInfo
}

func (s *ContinueStmt) stmtNode() {}

// BinaryExpr is a binary operator expression. Op is the operator's literal spelling (e.g. "+",
// "&&", "instanceof").
type BinaryExpr struct {
	span
	Op          string
	Left, Right Expr
}

func (e *BinaryExpr) exprNode() {}

// UnaryExpr is a prefix unary operator expression.
type UnaryExpr struct {
	span
	Op      string
	Operand Expr
}

func (e *UnaryExpr) exprNode() {}

// AssignExpr is an assignment expression: `=`, `+=`, `-=`, `*=` or `/=`.
type AssignExpr struct {
	span
	Op          string
	Left, Right Expr
}

func (e *AssignExpr) exprNode() {}

// TernaryExpr is a conditional `cond ? then : else` expression.
type TernaryExpr struct {
	span
	Condition, Then, Else Expr
}

func (e *TernaryExpr) exprNode() {}

// CallExpr is a method invocation, possibly the tail of a call chain.
type CallExpr struct {
	span
	Callee    Expr
	Arguments []Expr
}

func (e *CallExpr) exprNode() {}

// FieldAccessExpr is `target.name`, a single link in a dotted member-access or call chain.
type FieldAccessExpr struct {
	span
	Target Expr
	Name   string
}

func (e *FieldAccessExpr) exprNode() {}

// ArrayAccessExpr is `target[index]`.
type ArrayAccessExpr struct {
	span
	Target Expr
	Index  Expr
}

func (e *ArrayAccessExpr) exprNode() {}

// NewExpr is either `new Type(args)` or `new Type[size]`.
type NewExpr struct {
	span
	Type      *Type
	Arguments []Expr // nil when IsArray
	IsArray   bool
	ArraySize Expr // nil when the array size was omitted, e.g. `new Integer[]{1,2}` (unsupported) or not IsArray
}

func (e *NewExpr) exprNode() {}

// Literal is an integer, decimal, string, boolean or null literal, carried verbatim as it was
// spelled in the source.
type Literal struct {
	span
	Kind  token.Kind
	Value string
}

func (e *Literal) exprNode() {}

// Ident is a bare identifier reference.
type Ident struct {
	span
	Name string
}

func (e *Ident) exprNode() {}

// FindExpr is a SOSL `FIND 'term' IN scope RETURNING Object` expression.
type FindExpr struct {
	span
	Term      string
	In        []string
	Returning []string
}

func (e *FindExpr) exprNode() {}

// QueryExpr is a bracketed SOQL query, or a SOSL query via Find. Exactly one of the SOQL fields
// (Select/From) or Find is populated.
type QueryExpr struct {
	span
	Select         []Expr
	From           string
	Where          Expr
	With           string // e.g. "SecurityEnforced", empty when the clause was omitted
	GroupBy        []Expr
	Having         Expr
	OrderBy        []Expr
	OrderDirection string // "ASC", "DESC" or empty
	Limit          Expr
	Offset         Expr
	Update         []string // e.g. ["TRACKING", "VIEWSTAT"], nil when the clause was omitted
	Find           *FindExpr
}

func (e *QueryExpr) exprNode() {}

// FormatInfoOf returns the [FormatInfo] embedded in n, or nil if n's concrete type carries none
// (expressions, types, parameters and the clause types that are always rendered inline with
// their parent statement).
func FormatInfoOf(n Node) *FormatInfo {
	switch v := n.(type) {
	case *ClassDecl:
		return &v.FormatInfo
	case *InterfaceDecl:
		return &v.FormatInfo
	case *TriggerDecl:
		return &v.FormatInfo
	case *EnumDecl:
		return &v.FormatInfo
	case *FieldDecl:
		return &v.FormatInfo
	case *MethodDecl:
		return &v.FormatInfo
	case *ConstructorDecl:
		return &v.FormatInfo
	case *Block:
		return &v.FormatInfo
	case *LocalVarDecl:
		return &v.FormatInfo
	case *ExprStmt:
		return &v.FormatInfo
	case *IfStmt:
		return &v.FormatInfo
	case *WhileStmt:
		return &v.FormatInfo
	case *DoWhileStmt:
		return &v.FormatInfo
	case *ForStmt:
		return &v.FormatInfo
	case *TryStmt:
		return &v.FormatInfo
	case *SwitchStmt:
		return &v.FormatInfo
	case *ReturnStmt:
		return &v.FormatInfo
	case *ThrowStmt:
		return &v.FormatInfo
	case *BreakStmt:
		return &v.FormatInfo
	case *ContinueStmt:
		return &v.FormatInfo
	default:
		return nil
	}
}
