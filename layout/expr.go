package layout

import (
	"strings"

	"github.com/teleivo/apexfmt/ast"
	"github.com/teleivo/apexfmt/doc"
	"github.com/teleivo/apexfmt/internal/assert"
)

// binaryPrecedence mirrors the parser's own precedence climbing, needed here only to decide
// which runs of operators flatten into one group and which operands need parentheses.
var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, ">": 4, "<=": 4, ">=": 4, "instanceof": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

func precedenceOf(op string) int {
	if p, ok := binaryPrecedence[op]; ok {
		return p
	}
	return 100
}

func (l *Layout) expr(e ast.Expr) *doc.Doc {
	switch v := e.(type) {
	case *ast.Literal:
		return l.b.Text(v.Value)
	case *ast.Ident:
		return l.b.Text(v.Name)
	case *ast.BinaryExpr:
		return l.binaryExpr(v)
	case *ast.UnaryExpr:
		return l.b.Concat(l.b.Text(v.Op), l.expr(v.Operand))
	case *ast.AssignExpr:
		return l.b.Concat(l.expr(v.Left), l.b.TextAroundSpaces(v.Op), l.expr(v.Right))
	case *ast.TernaryExpr:
		return l.ternaryExpr(v)
	case *ast.CallExpr:
		return l.chainExpr(v)
	case *ast.FieldAccessExpr:
		return l.chainExpr(v)
	case *ast.ArrayAccessExpr:
		return l.b.Concat(l.expr(v.Target), l.b.Text("["), l.expr(v.Index), l.b.Text("]"))
	case *ast.NewExpr:
		return l.newExpr(v)
	case *ast.QueryExpr:
		return l.queryExpr(v)
	case *ast.FindExpr:
		return l.findExprDoc(v)
	default:
		assert.That(false, "layout: unhandled expr %T", e)
		return nil
	}
}

func (l *Layout) exprDocs(exprs []ast.Expr) []*doc.Doc {
	docs := make([]*doc.Doc, len(exprs))
	for i, e := range exprs {
		docs[i] = l.expr(e)
	}
	return docs
}

// binaryExpr flattens a left-associative run of operators sharing e's precedence into one
// group, the operator starting each continuation line when the group breaks.
func (l *Layout) binaryExpr(e *ast.BinaryExpr) *doc.Doc {
	b := l.b
	prec := precedenceOf(e.Op)
	var operands []*doc.Doc
	var ops []string
	l.flattenBinary(e, prec, &operands, &ops)

	parts := []*doc.Doc{operands[0]}
	for i, op := range ops {
		parts = append(parts, b.Softline(), b.Text(op+" "), operands[i+1])
	}
	return b.IndentScope(b.Group(b.Concat(parts...)))
}

func (l *Layout) flattenBinary(e ast.Expr, prec int, operands *[]*doc.Doc, ops *[]string) {
	if be, ok := e.(*ast.BinaryExpr); ok && precedenceOf(be.Op) == prec {
		l.flattenBinary(be.Left, prec, operands, ops)
		*ops = append(*ops, be.Op)
		*operands = append(*operands, l.binaryOperand(be.Right, prec))
		return
	}
	*operands = append(*operands, l.binaryOperand(e, prec))
}

// binaryOperand parenthesizes e when it is a binary expression that binds looser than prec or
// exactly as tightly (only a right-hand operand can, since flattenBinary absorbs such a left
// operand into the chain), and when it is a ternary or an assignment. The parser keeps no
// parentheses from the source, so these are the operands that would read differently without.
func (l *Layout) binaryOperand(e ast.Expr, prec int) *doc.Doc {
	switch v := e.(type) {
	case *ast.BinaryExpr:
		if precedenceOf(v.Op) > prec {
			return l.expr(e)
		}
	case *ast.TernaryExpr, *ast.AssignExpr:
	default:
		return l.expr(e)
	}
	return l.b.Concat(l.b.Text("("), l.expr(e), l.b.Text(")"))
}

func (l *Layout) ternaryExpr(e *ast.TernaryExpr) *doc.Doc {
	b := l.b
	return b.IndentScope(b.Group(b.Concat(
		l.expr(e.Condition), b.Softline(), b.Text("? "), l.expr(e.Then),
		b.Softline(), b.Text(": "), l.expr(e.Else),
	)))
}

// chainLink is one ".name" or ".name(args)" hop of a call/field-access chain.
type chainLink struct {
	name   string
	args   []ast.Expr
	isCall bool
}

// chainLinks unwraps a run of CallExpr/FieldAccessExpr nodes into its receiver plus the
// ordered list of hops, so the whole chain can be laid out as one group that breaks before
// every ".".
func (l *Layout) chainLinks(e ast.Expr) (ast.Expr, []chainLink) {
	switch v := e.(type) {
	case *ast.CallExpr:
		if fa, ok := v.Callee.(*ast.FieldAccessExpr); ok {
			recv, links := l.chainLinks(fa.Target)
			return recv, append(links, chainLink{name: fa.Name, args: v.Arguments, isCall: true})
		}
		return e, nil
	case *ast.FieldAccessExpr:
		recv, links := l.chainLinks(v.Target)
		return recv, append(links, chainLink{name: v.Name})
	default:
		return e, nil
	}
}

func (l *Layout) chainExpr(e ast.Expr) *doc.Doc {
	b := l.b
	recv, links := l.chainLinks(e)
	if len(links) == 0 {
		if call, ok := e.(*ast.CallExpr); ok {
			return b.Concat(l.expr(call.Callee), b.SurroundedChoice(l.exprDocs(call.Arguments), ", ", ",", "(", ")"))
		}
		return l.expr(e)
	}
	parts := []*doc.Doc{l.expr(recv)}
	for _, link := range links {
		linkParts := []*doc.Doc{b.Maybeline(), b.Text("."), b.Text(link.name)}
		if link.isCall {
			linkParts = append(linkParts, b.SurroundedChoice(l.exprDocs(link.args), ", ", ",", "(", ")"))
		}
		parts = append(parts, b.Concat(linkParts...))
	}
	return b.IndentScope(b.Group(b.Concat(parts...)))
}

func (l *Layout) newExpr(e *ast.NewExpr) *doc.Doc {
	b := l.b
	if e.IsArray {
		if e.ArraySize != nil {
			return b.Concat(b.Text("new "), typeDoc(b, e.Type), b.Text("["), l.expr(e.ArraySize), b.Text("]"))
		}
		return b.Concat(b.Text("new "), typeDoc(b, e.Type), b.Text("[]"))
	}
	return b.Concat(b.Text("new "), typeDoc(b, e.Type), b.SurroundedChoice(l.exprDocs(e.Arguments), ", ", ",", "(", ")"))
}

// queryExpr lays out a bracketed SOQL query as a group: each clause on its own line when the
// query does not fit flat on one.
func (l *Layout) queryExpr(q *ast.QueryExpr) *doc.Doc {
	b := l.b
	if q.Find != nil {
		return l.findExprDoc(q.Find)
	}

	var clauses []*doc.Doc
	clauses = append(clauses, b.Concat(b.Text("SELECT "), b.GroupList(l.exprDocs(q.Select), ",")))
	clauses = append(clauses, b.Concat(b.Text("FROM "), b.Text(q.From)))
	if q.Where != nil {
		clauses = append(clauses, b.Concat(b.Text("WHERE "), l.expr(q.Where)))
	}
	if q.With != "" {
		clauses = append(clauses, b.Text("WITH "+q.With))
	}
	if len(q.GroupBy) > 0 {
		clauses = append(clauses, b.Concat(b.Text("GROUP BY "), b.GroupList(l.exprDocs(q.GroupBy), ",")))
	}
	if q.Having != nil {
		clauses = append(clauses, b.Concat(b.Text("HAVING "), l.expr(q.Having)))
	}
	if len(q.OrderBy) > 0 {
		orderDoc := b.Concat(b.Text("ORDER BY "), b.GroupList(l.exprDocs(q.OrderBy), ","))
		if q.OrderDirection != "" {
			orderDoc = b.Concat(orderDoc, b.Text(" "+q.OrderDirection))
		}
		clauses = append(clauses, orderDoc)
	}
	if q.Limit != nil {
		clauses = append(clauses, b.Concat(b.Text("LIMIT "), l.expr(q.Limit)))
	}
	if q.Offset != nil {
		clauses = append(clauses, b.Concat(b.Text("OFFSET "), l.expr(q.Offset)))
	}
	if len(q.Update) > 0 {
		updateDocs := make([]*doc.Doc, len(q.Update))
		for i, u := range q.Update {
			updateDocs[i] = b.Text(u)
		}
		clauses = append(clauses, b.Concat(b.Text("UPDATE "), b.GroupList(updateDocs, ",")))
	}

	inner := b.IntersperseSoftline(clauses, "")
	return b.Group(b.Concat(
		b.Text("["),
		b.IndentScope(b.Concat(b.Maybeline(), inner)),
		b.Maybeline(),
		b.Text("]"),
	))
}

func (l *Layout) findExprDoc(f *ast.FindExpr) *doc.Doc {
	b := l.b
	parts := []*doc.Doc{b.Text("FIND "), b.Text(f.Term)}
	if len(f.In) > 0 {
		parts = append(parts, b.Text(" IN "), b.Text(strings.Join(f.In, " ")))
	}
	if len(f.Returning) > 0 {
		parts = append(parts, b.Text(" RETURNING "), b.Text(strings.Join(f.Returning, ", ")))
	}
	return b.Concat(b.Text("["), b.Concat(parts...), b.Text("]"))
}
