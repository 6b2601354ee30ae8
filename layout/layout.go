// Package layout implements the doc-build dispatch: the mapping from the enriched domain tree
// to the [doc.Doc] algebra the printer consumes. Every domain node kind has exactly one handler;
// an unhandled kind reaching dispatch is a programmer error, not a user-visible failure.
package layout

import (
	"github.com/teleivo/apexfmt/ast"
	"github.com/teleivo/apexfmt/doc"
	"github.com/teleivo/apexfmt/internal/assert"
)

// Layout builds doc IR for one file through b. It carries no state of its own beyond the
// builder; a Layout is created fresh per format and discarded after the doc is printed.
type Layout struct {
	b *doc.Builder
}

// New returns a Layout that allocates through b.
func New(b *doc.Builder) *Layout {
	return &Layout{b: b}
}

// File builds the root doc for f: its declarations separated per blank-line intent.
func (l *Layout) File(f *ast.File) *doc.Doc {
	members := make([]doc.Member, len(f.Decls))
	for i, d := range f.Decls {
		info := ast.FormatInfoOf(d)
		members[i] = doc.Member{
			Doc:                  l.withComments(info, l.decl(d)),
			HasTrailingBlankLine: info.HasTrailingBlankLine,
		}
	}
	return l.b.SepWithTrailingNewlines(members)
}

func (l *Layout) decl(d ast.Decl) *doc.Doc {
	switch v := d.(type) {
	case *ast.ClassDecl:
		return l.classDecl(v)
	case *ast.InterfaceDecl:
		return l.interfaceDecl(v)
	case *ast.TriggerDecl:
		return l.triggerDecl(v)
	case *ast.EnumDecl:
		return l.enumDecl(v)
	default:
		assert.That(false, "layout: unhandled decl %T", d)
		return nil
	}
}

func (l *Layout) member(m ast.Member) *doc.Doc {
	switch v := m.(type) {
	case *ast.ClassDecl:
		return l.classDecl(v)
	case *ast.InterfaceDecl:
		return l.interfaceDecl(v)
	case *ast.TriggerDecl:
		return l.triggerDecl(v)
	case *ast.EnumDecl:
		return l.enumDecl(v)
	case *ast.FieldDecl:
		return l.fieldDecl(v)
	case *ast.MethodDecl:
		return l.methodDecl(v)
	case *ast.ConstructorDecl:
		return l.constructorDecl(v)
	default:
		assert.That(false, "layout: unhandled member %T", m)
		return nil
	}
}

// withComments prepends info's pre-comments, each on its own line, and appends its
// post-comments: the first trails the host on the same line separated by one space, any
// further ones (a rare dangling-comment sweep) each start a new line.
func (l *Layout) withComments(info *ast.FormatInfo, body *doc.Doc) *doc.Doc {
	if info == nil || (len(info.PreComments) == 0 && len(info.PostComments) == 0) {
		return body
	}
	b := l.b
	var parts []*doc.Doc
	for _, c := range info.PreComments {
		parts = append(parts, b.Text(c.Content), b.Newline())
	}
	parts = append(parts, body)
	for i, c := range info.PostComments {
		if i == 0 {
			parts = append(parts, b.TextPrefixSpace(c.Content))
		} else {
			parts = append(parts, b.Newline(), b.Text(c.Content))
		}
	}
	return b.Concat(parts...)
}

// body lays out a brace-delimited member list, including the space before the opening brace
// that the declaration header leaves out; an empty list renders as " {}".
func (l *Layout) body(members []ast.Member) *doc.Doc {
	b := l.b
	if len(members) == 0 {
		return b.Text(" {}")
	}
	docMembers := make([]doc.Member, len(members))
	for i, m := range members {
		info := ast.FormatInfoOf(m)
		docMembers[i] = doc.Member{
			Doc:                  l.withComments(info, l.member(m)),
			HasTrailingBlankLine: info.HasTrailingBlankLine,
		}
	}
	inner := b.SepWithTrailingNewlines(docMembers)
	return b.Concat(
		b.Text(" {"),
		b.IndentScope(b.Concat(b.Newline(), inner)),
		b.Newline(),
		b.Text("}"),
	)
}
