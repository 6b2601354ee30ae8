package layout

import (
	"github.com/teleivo/apexfmt/ast"
	"github.com/teleivo/apexfmt/doc"
	"github.com/teleivo/apexfmt/internal/assert"
)

func (l *Layout) stmt(s ast.Stmt) *doc.Doc {
	switch v := s.(type) {
	case *ast.Block:
		return l.blockDoc(v)
	case *ast.LocalVarDecl:
		return l.localVarDecl(v)
	case *ast.ExprStmt:
		return l.b.Concat(l.expr(v.Expr), l.b.Text(";"))
	case *ast.IfStmt:
		return l.ifStmt(v)
	case *ast.WhileStmt:
		return l.whileStmt(v)
	case *ast.DoWhileStmt:
		return l.doWhileStmt(v)
	case *ast.ForStmt:
		return l.forStmt(v)
	case *ast.TryStmt:
		return l.tryStmt(v)
	case *ast.SwitchStmt:
		return l.switchStmt(v)
	case *ast.ReturnStmt:
		if v.Value == nil {
			return l.b.Text("return;")
		}
		return l.b.Concat(l.b.Text("return "), l.expr(v.Value), l.b.Text(";"))
	case *ast.ThrowStmt:
		return l.b.Concat(l.b.Text("throw "), l.expr(v.Value), l.b.Text(";"))
	case *ast.BreakStmt:
		return l.b.Text("break;")
	case *ast.ContinueStmt:
		return l.b.Text("continue;")
	default:
		assert.That(false, "layout: unhandled stmt %T", s)
		return nil
	}
}

// blockDoc lays out a brace-delimited statement list. A block that the enricher synthesized
// around a brace-less single statement is rendered the same way: the source's choice to omit
// braces is not preserved.
func (l *Layout) blockDoc(blk *ast.Block) *doc.Doc {
	b := l.b
	if len(blk.Stmts) == 0 {
		return b.Text("{}")
	}
	stmtMembers := make([]doc.Member, len(blk.Stmts))
	for i, s := range blk.Stmts {
		info := ast.FormatInfoOf(s)
		stmtMembers[i] = doc.Member{
			Doc:                  l.withComments(info, l.stmt(s)),
			HasTrailingBlankLine: info.HasTrailingBlankLine,
		}
	}
	inner := b.SepWithTrailingNewlines(stmtMembers)
	return b.Concat(
		b.Text("{"),
		b.IndentScope(b.Concat(b.Newline(), inner)),
		b.Newline(),
		b.Text("}"),
	)
}

func (l *Layout) localVarDeclParts(d *ast.LocalVarDecl) *doc.Doc {
	b := l.b
	declDocs := make([]*doc.Doc, len(d.Declarators))
	for i, decl := range d.Declarators {
		declDocs[i] = l.declaratorDoc(decl)
	}
	var parts []*doc.Doc
	if d.Final {
		parts = append(parts, b.Text("final "))
	}
	parts = append(parts, typeDoc(b, d.Type), b.Text(" "), b.GroupList(declDocs, ","))
	return b.Concat(parts...)
}

func (l *Layout) localVarDecl(d *ast.LocalVarDecl) *doc.Doc {
	return l.b.Concat(l.localVarDeclParts(d), l.b.Text(";"))
}

func (l *Layout) parenExpr(e ast.Expr) *doc.Doc {
	return l.b.SurroundedChoice([]*doc.Doc{l.expr(e)}, ", ", ",", "(", ")")
}

func (l *Layout) ifStmt(s *ast.IfStmt) *doc.Doc {
	b := l.b
	parts := []*doc.Doc{
		b.Text("if "), l.parenExpr(s.Condition), b.Text(" "), l.stmt(s.Then),
	}
	if s.Else != nil {
		parts = append(parts, b.Text(" else "))
		// "else if" parses as a synthetic block wrapping one IfStmt; unwrap it so the chain
		// reads as "else if (...) { ... }" instead of "else { if (...) { ... } }".
		if elseBlk, ok := s.Else.(*ast.Block); ok && elseBlk.Synthetic && len(elseBlk.Stmts) == 1 {
			if nestedIf, ok := elseBlk.Stmts[0].(*ast.IfStmt); ok {
				parts = append(parts, l.ifStmt(nestedIf))
				return b.Concat(parts...)
			}
		}
		parts = append(parts, l.stmt(s.Else))
	}
	return b.Concat(parts...)
}

func (l *Layout) whileStmt(s *ast.WhileStmt) *doc.Doc {
	b := l.b
	return b.Concat(b.Text("while "), l.parenExpr(s.Condition), b.Text(" "), l.stmt(s.Body))
}

func (l *Layout) doWhileStmt(s *ast.DoWhileStmt) *doc.Doc {
	b := l.b
	return b.Concat(b.Text("do "), l.stmt(s.Body), b.Text(" while "), l.parenExpr(s.Condition), b.Text(";"))
}

func (l *Layout) forStmt(s *ast.ForStmt) *doc.Doc {
	b := l.b
	var initDoc *doc.Doc
	switch v := s.Init.(type) {
	case *ast.LocalVarDecl:
		initDoc = l.localVarDeclParts(v)
	case ast.Expr:
		initDoc = l.expr(v)
	default:
		initDoc = b.Nil()
	}
	var condDoc *doc.Doc
	if s.Condition != nil {
		condDoc = l.expr(s.Condition)
	} else {
		condDoc = b.Nil()
	}
	header := b.Concat(
		b.Text("for ("), initDoc, b.Text("; "), condDoc, b.Text("; "),
		b.IntersperseSingleLine(l.exprDocs(s.Update), ", "),
		b.Text(")"),
	)
	return b.Concat(header, b.Text(" "), l.stmt(s.Body))
}

func (l *Layout) tryStmt(s *ast.TryStmt) *doc.Doc {
	b := l.b
	parts := []*doc.Doc{b.Text("try "), l.blockDoc(s.Body)}
	for _, c := range s.Catches {
		parts = append(parts, b.Text(" "), l.catchClauseDoc(c))
	}
	if s.Finally != nil {
		parts = append(parts, b.Text(" finally "), l.blockDoc(s.Finally))
	}
	return b.Concat(parts...)
}

func (l *Layout) catchClauseDoc(c *ast.CatchClause) *doc.Doc {
	b := l.b
	return b.Concat(b.Text("catch ("), typeDoc(b, c.Type), b.Text(" "), b.Text(c.Name), b.Text(") "), l.blockDoc(c.Body))
}

func (l *Layout) switchStmt(s *ast.SwitchStmt) *doc.Doc {
	b := l.b
	header := b.Concat(b.Text("switch on "), l.expr(s.Subject), b.Text(" {"))
	whenMembers := make([]doc.Member, len(s.Whens))
	for i, w := range s.Whens {
		whenMembers[i] = doc.Member{Doc: l.whenClauseDoc(w)}
	}
	inner := b.SepWithTrailingNewlines(whenMembers)
	return b.Concat(header, b.IndentScope(b.Concat(b.Newline(), inner)), b.Newline(), b.Text("}"))
}

func (l *Layout) whenClauseDoc(w *ast.WhenClause) *doc.Doc {
	b := l.b
	if w.Else {
		return b.Concat(b.Text("when else "), l.blockDoc(w.Body))
	}
	return b.Concat(b.Text("when "), b.IntersperseSingleLine(l.exprDocs(w.Values), ", "), b.Text(" "), l.blockDoc(w.Body))
}
