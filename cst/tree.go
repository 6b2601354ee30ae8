// Package cst defines the concrete syntax tree produced by parsing, standing in for the output
// of an external grammar for the target dialect. It carries named children, field-name access,
// kind strings, line/column position spans and an "extra" flag for comments, matching the contract that
// enrichment and the CST accessor are built against.
package cst

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/teleivo/apexfmt/internal/assert"
	"github.com/teleivo/apexfmt/token"
)

// Format specifies the output representation for rendering a [Tree].
type Format int

const (
	// Default renders the tree as indented text.
	Default Format = iota
	// Scheme renders the tree as S-expressions with position annotations.
	Scheme
)

var formats = map[string]Format{
	"default": Default,
	"scheme":  Scheme,
}

var validFormats = [...]string{"default", "scheme"}

// NewFormat converts a string to a [Format]. Valid values are "default" and "scheme".
func NewFormat(format string) (Format, error) {
	if f, ok := formats[format]; ok {
		return f, nil
	}
	return Default, fmt.Errorf("invalid format string: %q, valid ones are: %q", format, validFormats)
}

// Kind represents the type of a syntax tree node (non-terminal).
type Kind int

const (
	KindErrorTree Kind = iota

	KindFile

	// Declarations
	KindClassDecl
	KindInterfaceDecl
	KindTriggerDecl
	KindEnumDecl
	KindModifiers
	KindAnnotation
	KindAnnotationArgs
	KindAnnotationArg
	KindTypeParams
	KindSuperclass
	KindInterfaces
	KindEnumConstants
	KindFieldDecl
	KindMethodDecl
	KindConstructorDecl
	KindParameterList
	KindParameter
	KindThrowsClause
	KindBlock
	KindType

	// Statements
	KindLocalVarDecl
	KindDeclarator
	KindExprStmt
	KindIfStmt
	KindElseClause
	KindWhileStmt
	KindForStmt
	KindDoWhileStmt
	KindTryStmt
	KindCatchClause
	KindFinallyClause
	KindSwitchStmt
	KindWhenClause
	KindReturnStmt
	KindThrowStmt
	KindBreakStmt
	KindContinueStmt

	// Expressions
	KindBinaryExpr
	KindUnaryExpr
	KindAssignExpr
	KindTernaryExpr
	KindCallExpr
	KindFieldAccessExpr
	KindNewExpr
	KindArrayAccessExpr
	KindArgumentList
	KindLiteral

	// Query sub-language (SOQL / SOSL)
	KindQueryExpr
	KindSelectClause
	KindFieldList
	KindFromClause
	KindWhereClause
	KindGroupByClause
	KindHavingClause
	KindOrderByClause
	KindLimitClause
	KindOffsetClause
	KindWithClause
	KindReturningClause
	KindFindExpr
	KindInClause
	KindUpdateClause

	KindID
)

var kindStrings = map[Kind]string{
	KindErrorTree:       "ErrorTree",
	KindFile:            "File",
	KindClassDecl:       "ClassDecl",
	KindInterfaceDecl:   "InterfaceDecl",
	KindTriggerDecl:     "TriggerDecl",
	KindEnumDecl:        "EnumDecl",
	KindModifiers:       "Modifiers",
	KindAnnotation:      "Annotation",
	KindAnnotationArgs:  "AnnotationArgs",
	KindAnnotationArg:   "AnnotationArg",
	KindTypeParams:      "TypeParams",
	KindSuperclass:      "Superclass",
	KindInterfaces:      "Interfaces",
	KindEnumConstants:   "EnumConstants",
	KindFieldDecl:       "FieldDecl",
	KindMethodDecl:      "MethodDecl",
	KindConstructorDecl: "ConstructorDecl",
	KindParameterList:   "ParameterList",
	KindParameter:       "Parameter",
	KindThrowsClause:    "ThrowsClause",
	KindBlock:           "Block",
	KindType:            "Type",
	KindLocalVarDecl:    "LocalVarDecl",
	KindDeclarator:      "Declarator",
	KindExprStmt:        "ExprStmt",
	KindIfStmt:          "IfStmt",
	KindElseClause:      "ElseClause",
	KindWhileStmt:       "WhileStmt",
	KindForStmt:         "ForStmt",
	KindDoWhileStmt:     "DoWhileStmt",
	KindTryStmt:         "TryStmt",
	KindCatchClause:     "CatchClause",
	KindFinallyClause:   "FinallyClause",
	KindSwitchStmt:      "SwitchStmt",
	KindWhenClause:      "WhenClause",
	KindReturnStmt:      "ReturnStmt",
	KindThrowStmt:       "ThrowStmt",
	KindBreakStmt:       "BreakStmt",
	KindContinueStmt:    "ContinueStmt",
	KindBinaryExpr:      "BinaryExpr",
	KindUnaryExpr:       "UnaryExpr",
	KindAssignExpr:      "AssignExpr",
	KindTernaryExpr:     "TernaryExpr",
	KindCallExpr:        "CallExpr",
	KindFieldAccessExpr: "FieldAccessExpr",
	KindNewExpr:         "NewExpr",
	KindArrayAccessExpr: "ArrayAccessExpr",
	KindArgumentList:    "ArgumentList",
	KindLiteral:         "Literal",
	KindQueryExpr:       "QueryExpr",
	KindSelectClause:    "SelectClause",
	KindFieldList:       "FieldList",
	KindFromClause:      "FromClause",
	KindWhereClause:     "WhereClause",
	KindGroupByClause:   "GroupByClause",
	KindHavingClause:    "HavingClause",
	KindOrderByClause:   "OrderByClause",
	KindLimitClause:     "LimitClause",
	KindOffsetClause:    "OffsetClause",
	KindWithClause:      "WithClause",
	KindReturningClause: "ReturningClause",
	KindFindExpr:        "FindExpr",
	KindInClause:        "InClause",
	KindUpdateClause:    "UpdateClause",
	KindID:              "ID",
}

// String returns the name of the tree kind.
func (k Kind) String() string {
	if s, ok := kindStrings[k]; ok {
		return s
	}
	panic(fmt.Errorf("Kind Stringer missing case for %d", k))
}

// Tree represents a node in the concrete syntax tree.
//
// Kind identifies the syntactic construct. Children contains the node's children in source
// order, which may be either [TreeChild] (subtrees) or [TokenChild] (tokens), including "extra"
// tokens like comments. Fields, parallel to Children, carries the grammar's field name for each
// child, or the empty string when the child is positional only. Start and End mark the source
// positions.
type Tree struct {
	Kind       Kind
	Children   []Child
	Fields     []string // parallel to Children; "" when the child has no field name
	Start, End token.Position
}

// AppendToken appends a token as a child of tree under the given field name (empty for
// positional children), extending the tree's span.
func (tree *Tree) AppendToken(field string, child token.Token) {
	if len(tree.Children) == 0 {
		tree.Start = child.Start
	}
	tree.End = child.End
	tree.Children = append(tree.Children, TokenChild{child})
	tree.Fields = append(tree.Fields, field)
}

// AppendTree appends a subtree as a child of tree under the given field name, extending the
// tree's span.
func (tree *Tree) AppendTree(field string, child *Tree) {
	if len(tree.Children) == 0 {
		tree.Start = child.Start
	}
	tree.End = child.End
	tree.Children = append(tree.Children, TreeChild{child})
	tree.Fields = append(tree.Fields, field)
}

// String returns the tree formatted using the [Default] format.
func (tree *Tree) String() string {
	if tree == nil {
		return ""
	}

	var sb strings.Builder
	_ = tree.Render(&sb, Default)
	return sb.String()
}

// Render writes the tree to w in the specified format. See [Format] for available formats.
func (tree *Tree) Render(w io.Writer, format Format) error {
	if tree == nil {
		return nil
	}
	bw := bufio.NewWriter(w)

	var err error
	switch format {
	case Default:
		err = renderDefault(bw, tree, 0)
	case Scheme:
		err = renderScheme(bw, tree, 0)
	default:
		panic(fmt.Errorf("rendering tree in format %q is not implemented", format))
	}
	if err != nil {
		return err
	}
	err = bw.WriteByte('\n')
	if err != nil {
		return err
	}

	return bw.Flush()
}

func renderDefault(bw *bufio.Writer, tree *Tree, indent int) error {
	if tree == nil {
		return nil
	}

	if err := writeIndent(bw, indent); err != nil {
		return err
	}
	if _, err := bw.WriteString(tree.Kind.String()); err != nil {
		return err
	}

	for i, child := range tree.Children {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		switch c := child.(type) {
		case TokenChild:
			if err := writeIndent(bw, indent+1); err != nil {
				return err
			}
			if field := tree.Fields[i]; field != "" {
				fmt.Fprintf(bw, "%s: ", field)
			}
			fmt.Fprintf(bw, "'%s'", c.String())
		case TreeChild:
			if err := renderDefault(bw, c.Tree, indent+1); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeIndent(bw *bufio.Writer, columns int) error {
	for range columns {
		if err := bw.WriteByte('\t'); err != nil {
			return err
		}
	}
	return nil
}

func renderScheme(bw *bufio.Writer, tree *Tree, indent int) error {
	if tree == nil {
		return nil
	}

	if err := writeIndent(bw, indent); err != nil {
		return err
	}
	if err := bw.WriteByte('('); err != nil {
		return err
	}
	if _, err := bw.WriteString(tree.Kind.String()); err != nil {
		return err
	}
	if err := renderPosition(bw, tree.Start, tree.End); err != nil {
		return err
	}

	for _, child := range tree.Children {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		switch c := child.(type) {
		case TokenChild:
			if err := writeIndent(bw, indent+1); err != nil {
				return err
			}
			fmt.Fprintf(bw, "('%s'", c.String())
			if err := renderPosition(bw, c.Start, c.End); err != nil {
				return err
			}
			if err := bw.WriteByte(')'); err != nil {
				return err
			}
		case TreeChild:
			if err := renderScheme(bw, c.Tree, indent+1); err != nil {
				return err
			}
		}
	}
	return bw.WriteByte(')')
}

func renderPosition(bw *bufio.Writer, start, end token.Position) error {
	assert.That(start.IsValid() == end.IsValid(),
		"tree position invariant violated: both Start and End must be valid or both invalid, got Start=%v End=%v", start, end)

	if !start.IsValid() && !end.IsValid() {
		return nil
	}

	if _, err := bw.WriteString(" (@ "); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "%d %d %d %d", start.Line, start.Column, end.Line, end.Column); err != nil {
		return err
	}
	return bw.WriteByte(')')
}

// Child is a marker interface for tree node children. Implementations are [TreeChild] and
// [TokenChild].
type Child interface {
	child()
}

// TreeChild wraps a [Tree] as a child of another tree node.
type TreeChild struct {
	*Tree
}

func (TreeChild) child() {}

// TokenChild wraps a [token.Token] as a child of a tree node.
type TokenChild struct {
	token.Token
}

func (TokenChild) child() {}
