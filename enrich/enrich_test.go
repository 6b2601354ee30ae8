package enrich_test

import (
	"strings"
	"testing"

	"github.com/teleivo/apexfmt/ast"
	"github.com/teleivo/apexfmt/enrich"
	"github.com/teleivo/apexfmt/parser"
	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"
)

func mustEnrich(t *testing.T, src string) *ast.File {
	t.Helper()
	p := parser.New(strings.NewReader(src))
	tree := p.Parse()
	require.Truef(t, len(p.Errors()) == 0, "Parse(%q): want no errors, got %v", src, p.Errors())
	return enrich.Enrich(tree)
}

func firstDecl(t *testing.T, file *ast.File) ast.Decl {
	t.Helper()
	require.Truef(t, len(file.Decls) > 0, "Enrich: want at least one declaration, got none")
	return file.Decls[0]
}

func TestEnrichClassDecl(t *testing.T) {
	file := mustEnrich(t, "public class Foo extends Bar implements Baz { Integer x; }")
	decl, ok := firstDecl(t, file).(*ast.ClassDecl)
	require.Truef(t, ok, "want *ast.ClassDecl, got %T", firstDecl(t, file))

	assert.Equals(t, decl.Name, "Foo")
	assert.Equals(t, decl.Modifiers.Keywords, []string{"public"})
	assert.NotNil(t, decl.Superclass)
	assert.Equals(t, decl.Superclass.Name, "Bar")
	require.Truef(t, len(decl.Interfaces) == 1, "want 1 interface, got %d", len(decl.Interfaces))
	assert.Equals(t, decl.Interfaces[0].Name, "Baz")
	assert.Equals(t, len(decl.Members), 1)
}

func TestEnrichInterfaceDecl(t *testing.T) {
	file := mustEnrich(t, "interface Foo extends Bar {}")
	decl, ok := firstDecl(t, file).(*ast.InterfaceDecl)
	require.Truef(t, ok, "want *ast.InterfaceDecl, got %T", firstDecl(t, file))

	assert.Equals(t, decl.Name, "Foo")
	require.Truef(t, len(decl.Interfaces) == 1, "want 1 interface, got %d", len(decl.Interfaces))
	assert.Equals(t, decl.Interfaces[0].Name, "Bar")
}

func TestEnrichTriggerDecl(t *testing.T) {
	file := mustEnrich(t, "trigger AccountTrigger on Account(before insert, after update) { Integer x = 1; }")
	decl, ok := firstDecl(t, file).(*ast.TriggerDecl)
	require.Truef(t, ok, "want *ast.TriggerDecl, got %T", firstDecl(t, file))

	assert.Equals(t, decl.Name, "AccountTrigger")
	assert.Equals(t, decl.Object, "Account")
	assert.Equals(t, decl.Events, []string{"before", "insert", "after", "update"})
	assert.Equals(t, len(decl.Body.Stmts), 1)
}

func TestEnrichEnumDecl(t *testing.T) {
	file := mustEnrich(t, "enum Season { WINTER, SPRING, SUMMER, FALL }")
	decl, ok := firstDecl(t, file).(*ast.EnumDecl)
	require.Truef(t, ok, "want *ast.EnumDecl, got %T", firstDecl(t, file))

	assert.Equals(t, decl.Constants, []string{"WINTER", "SPRING", "SUMMER", "FALL"})
}

func TestEnrichFieldDeclMultipleDeclarators(t *testing.T) {
	file := mustEnrich(t, "class Foo { private Integer x = 1, y; }")
	decl := firstDecl(t, file).(*ast.ClassDecl)
	require.Truef(t, len(decl.Members) == 1, "want 1 member, got %d", len(decl.Members))

	field, ok := decl.Members[0].(*ast.FieldDecl)
	require.Truef(t, ok, "want *ast.FieldDecl, got %T", decl.Members[0])

	assert.Equals(t, field.Type.Name, "Integer")
	require.Truef(t, len(field.Declarators) == 2, "want 2 declarators, got %d", len(field.Declarators))
	assert.Equals(t, field.Declarators[0].Name, "x")
	assert.NotNil(t, field.Declarators[0].Value)
	lit, ok := field.Declarators[0].Value.(*ast.Literal)
	require.Truef(t, ok, "want *ast.Literal, got %T", field.Declarators[0].Value)
	assert.Equals(t, lit.Value, "1")
	assert.Equals(t, field.Declarators[1].Name, "y")
	assert.Equals(t, field.Declarators[1].Value, nil)
}

func TestEnrichMethodDeclWithThrowsAndParameters(t *testing.T) {
	file := mustEnrich(t, "class Foo { public void save(final Account a) throws MyException, OtherException { return; } }")
	decl := firstDecl(t, file).(*ast.ClassDecl)
	method, ok := decl.Members[0].(*ast.MethodDecl)
	require.Truef(t, ok, "want *ast.MethodDecl, got %T", decl.Members[0])

	assert.Equals(t, method.Name, "save")
	assert.Equals(t, method.Type.Name, "void")
	require.Truef(t, len(method.Parameters) == 1, "want 1 parameter, got %d", len(method.Parameters))
	assert.Equals(t, method.Parameters[0].Name, "a")
	assert.Equals(t, method.Parameters[0].Final, true)
	assert.Equals(t, method.Throws, []string{"MyException", "OtherException"})
	assert.NotNil(t, method.Body)
	assert.Equals(t, len(method.Body.Stmts), 1)
}

func TestEnrichMethodDeclWithoutBody(t *testing.T) {
	file := mustEnrich(t, "interface Foo { void save(Account a); }")
	decl := firstDecl(t, file).(*ast.InterfaceDecl)
	method := decl.Members[0].(*ast.MethodDecl)

	assert.Equals(t, method.Body, nil)
}

func TestEnrichConstructorDecl(t *testing.T) {
	file := mustEnrich(t, "class Foo { public Foo(Integer x) { this.x = x; } }")
	decl := firstDecl(t, file).(*ast.ClassDecl)
	ctor, ok := decl.Members[0].(*ast.ConstructorDecl)
	require.Truef(t, ok, "want *ast.ConstructorDecl, got %T", decl.Members[0])

	assert.Equals(t, ctor.Name, "Foo")
	assert.Equals(t, len(ctor.Parameters), 1)
}

func firstStmt(t *testing.T, src string) ast.Stmt {
	t.Helper()
	file := mustEnrich(t, "class Foo { void m() "+src+" }")
	decl := firstDecl(t, file).(*ast.ClassDecl)
	method := decl.Members[0].(*ast.MethodDecl)
	require.Truef(t, len(method.Body.Stmts) == 1, "want 1 statement, got %d", len(method.Body.Stmts))
	return method.Body.Stmts[0]
}

func TestEnrichIfElseIf(t *testing.T) {
	stmt := firstStmt(t, "{ if (a) { f(); } else if (b) { g(); } else { h(); } }")
	s, ok := stmt.(*ast.IfStmt)
	require.Truef(t, ok, "want *ast.IfStmt, got %T", stmt)

	then, ok := s.Then.(*ast.Block)
	require.Truef(t, ok, "want *ast.Block, got %T", s.Then)
	assert.Equals(t, then.Synthetic, false)
	require.NotNil(t, s.Else)
	els, ok := s.Else.(*ast.Block)
	require.Truef(t, ok, "want *ast.Block, got %T", s.Else)
	require.Truef(t, len(els.Stmts) == 1, "want 1 nested statement, got %d", len(els.Stmts))
	_, ok = els.Stmts[0].(*ast.IfStmt)
	assert.Equals(t, ok, true)
	assert.Equals(t, els.Synthetic, true)
}

func TestEnrichIfWithoutBracesSynthesizesBlock(t *testing.T) {
	stmt := firstStmt(t, "{ if (a) f(); }")
	s := stmt.(*ast.IfStmt)
	then, ok := s.Then.(*ast.Block)
	require.Truef(t, ok, "want *ast.Block, got %T", s.Then)
	assert.Equals(t, then.Synthetic, true)
	assert.Equals(t, len(then.Stmts), 1)
}

func TestEnrichWhileAndDoWhile(t *testing.T) {
	stmt := firstStmt(t, "{ while (x) { y(); } }")
	w, ok := stmt.(*ast.WhileStmt)
	require.Truef(t, ok, "want *ast.WhileStmt, got %T", stmt)
	assert.NotNil(t, w.Condition)

	stmt = firstStmt(t, "{ do { y(); } while (x); }")
	_, ok = stmt.(*ast.DoWhileStmt)
	assert.Equals(t, ok, true)
}

func TestEnrichForStmtAllClauses(t *testing.T) {
	stmt := firstStmt(t, "{ for (Integer i = 0; i < 10; i++) { y(); } }")
	f, ok := stmt.(*ast.ForStmt)
	require.Truef(t, ok, "want *ast.ForStmt, got %T", stmt)

	_, isLocalVar := f.Init.(*ast.LocalVarDecl)
	assert.Equals(t, isLocalVar, true)
	assert.NotNil(t, f.Condition)
	assert.Equals(t, len(f.Update), 1)
}

func TestEnrichTryStmtMultipleCatchesAndFinally(t *testing.T) {
	stmt := firstStmt(t, "{ try { f(); } catch (A a) { g(); } catch (B b) { h(); } finally { done(); } }")
	s, ok := stmt.(*ast.TryStmt)
	require.Truef(t, ok, "want *ast.TryStmt, got %T", stmt)

	require.Truef(t, len(s.Catches) == 2, "want 2 catch clauses, got %d", len(s.Catches))
	assert.Equals(t, s.Catches[0].Type.Name, "A")
	assert.Equals(t, s.Catches[0].Name, "a")
	assert.Equals(t, s.Catches[1].Name, "b")
	assert.NotNil(t, s.Finally)
}

func TestEnrichSwitchStmtWithElseClause(t *testing.T) {
	stmt := firstStmt(t, "{ switch on x { when 1, 2 { a(); } when else { b(); } } }")
	s, ok := stmt.(*ast.SwitchStmt)
	require.Truef(t, ok, "want *ast.SwitchStmt, got %T", stmt)

	require.Truef(t, len(s.Whens) == 2, "want 2 when clauses, got %d", len(s.Whens))
	assert.Equals(t, len(s.Whens[0].Values), 2)
	assert.Equals(t, s.Whens[0].Else, false)
	assert.Equals(t, len(s.Whens[1].Values), 0)
	assert.Equals(t, s.Whens[1].Else, true)
}

func TestEnrichReturnThrowBreakContinue(t *testing.T) {
	stmt := firstStmt(t, "{ return 1; }")
	ret, ok := stmt.(*ast.ReturnStmt)
	require.Truef(t, ok, "want *ast.ReturnStmt, got %T", stmt)
	assert.NotNil(t, ret.Value)

	stmt = firstStmt(t, "{ throw e; }")
	_, ok = stmt.(*ast.ThrowStmt)
	assert.Equals(t, ok, true)

	stmt = firstStmt(t, "{ break; }")
	_, ok = stmt.(*ast.BreakStmt)
	assert.Equals(t, ok, true)

	stmt = firstStmt(t, "{ continue; }")
	_, ok = stmt.(*ast.ContinueStmt)
	assert.Equals(t, ok, true)
}

func firstExprStmtExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	stmt := firstStmt(t, "{ x = "+src+"; }")
	exprStmt, ok := stmt.(*ast.ExprStmt)
	require.Truef(t, ok, "want *ast.ExprStmt, got %T", stmt)
	assign, ok := exprStmt.Expr.(*ast.AssignExpr)
	require.Truef(t, ok, "want *ast.AssignExpr, got %T", exprStmt.Expr)
	return assign.Right
}

func TestEnrichBinaryPrecedence(t *testing.T) {
	expr := firstExprStmtExpr(t, "a + b * c")
	top, ok := expr.(*ast.BinaryExpr)
	require.Truef(t, ok, "want *ast.BinaryExpr, got %T", expr)
	assert.Equals(t, top.Op, "+")

	right, ok := top.Right.(*ast.BinaryExpr)
	require.Truef(t, ok, "want *ast.BinaryExpr, got %T", top.Right)
	assert.Equals(t, right.Op, "*")
}

func TestEnrichTernary(t *testing.T) {
	expr := firstExprStmtExpr(t, "cond ? a : b")
	ternary, ok := expr.(*ast.TernaryExpr)
	require.Truef(t, ok, "want *ast.TernaryExpr, got %T", expr)

	cond, ok := ternary.Condition.(*ast.Ident)
	require.Truef(t, ok, "want *ast.Ident, got %T", ternary.Condition)
	assert.Equals(t, cond.Name, "cond")
}

func TestEnrichUnary(t *testing.T) {
	expr := firstExprStmtExpr(t, "!cond")
	unary, ok := expr.(*ast.UnaryExpr)
	require.Truef(t, ok, "want *ast.UnaryExpr, got %T", expr)
	assert.Equals(t, unary.Op, "!")
}

func TestEnrichCallChain(t *testing.T) {
	expr := firstExprStmtExpr(t, "a.b().c")
	access, ok := expr.(*ast.FieldAccessExpr)
	require.Truef(t, ok, "want *ast.FieldAccessExpr, got %T", expr)
	assert.Equals(t, access.Name, "c")

	call, ok := access.Target.(*ast.CallExpr)
	require.Truef(t, ok, "want *ast.CallExpr, got %T", access.Target)
	callee, ok := call.Callee.(*ast.FieldAccessExpr)
	require.Truef(t, ok, "want *ast.FieldAccessExpr, got %T", call.Callee)
	assert.Equals(t, callee.Name, "b")
}

func TestEnrichArrayAccess(t *testing.T) {
	expr := firstExprStmtExpr(t, "items[0]")
	access, ok := expr.(*ast.ArrayAccessExpr)
	require.Truef(t, ok, "want *ast.ArrayAccessExpr, got %T", expr)

	index, ok := access.Index.(*ast.Literal)
	require.Truef(t, ok, "want *ast.Literal, got %T", access.Index)
	assert.Equals(t, index.Value, "0")
}

func TestEnrichNewExprConstructorAndArray(t *testing.T) {
	expr := firstExprStmtExpr(t, "new Account(name)")
	n, ok := expr.(*ast.NewExpr)
	require.Truef(t, ok, "want *ast.NewExpr, got %T", expr)
	assert.Equals(t, n.IsArray, false)
	assert.Equals(t, len(n.Arguments), 1)

	expr = firstExprStmtExpr(t, "new Integer[3]")
	n, ok = expr.(*ast.NewExpr)
	require.Truef(t, ok, "want *ast.NewExpr, got %T", expr)
	assert.Equals(t, n.IsArray, true)
	assert.NotNil(t, n.ArraySize)

	expr = firstExprStmtExpr(t, "new Integer[]")
	n, ok = expr.(*ast.NewExpr)
	require.Truef(t, ok, "want *ast.NewExpr, got %T", expr)
	assert.Equals(t, n.IsArray, true)
	assert.Equals(t, n.ArraySize, nil)
}

func TestEnrichAnnotation(t *testing.T) {
	file := mustEnrich(t, `@IsTest(SeeAllData=true) class FooTest {}`)
	decl := firstDecl(t, file).(*ast.ClassDecl)

	require.Truef(t, len(decl.Modifiers.Annotations) == 1, "want 1 annotation, got %d", len(decl.Modifiers.Annotations))
	ann := decl.Modifiers.Annotations[0]
	assert.Equals(t, ann.Name, "IsTest")
	require.Truef(t, len(ann.Args) == 1, "want 1 annotation arg, got %d", len(ann.Args))
	assert.Equals(t, ann.Args[0].Name, "SeeAllData")
}

// TestEnrichQueryExprWithAndUpdateClauses exercises buildQueryExpr's With/Update population,
// the fields whose absence from this suite previously let the dead cst.KindWithClause/
// cst.KindUpdateClause enum values go unnoticed.
func TestEnrichQueryExprWithAndUpdateClauses(t *testing.T) {
	expr := firstExprStmtExpr(t, `[SELECT Id FROM Account WHERE Name = 'x' WITH SecurityEnforced UPDATE TRACKING, VIEWSTAT]`)
	query, ok := expr.(*ast.QueryExpr)
	require.Truef(t, ok, "want *ast.QueryExpr, got %T", expr)

	assert.Equals(t, query.From, "Account")
	assert.NotNil(t, query.Where)
	assert.Equals(t, query.With, "SecurityEnforced")
	assert.Equals(t, query.Update, []string{"TRACKING", "VIEWSTAT"})
}

func TestEnrichQueryExprGroupByHavingOrderByLimitOffset(t *testing.T) {
	expr := firstExprStmtExpr(t, `[SELECT Id, Name FROM Contact WHERE Age > 18 GROUP BY Age HAVING COUNT(Id) > 1 ORDER BY Age DESC LIMIT 10 OFFSET 5]`)
	query, ok := expr.(*ast.QueryExpr)
	require.Truef(t, ok, "want *ast.QueryExpr, got %T", expr)

	assert.Equals(t, len(query.Select), 2)
	assert.Equals(t, len(query.GroupBy), 1)
	assert.NotNil(t, query.Having)
	assert.Equals(t, len(query.OrderBy), 1)
	assert.Equals(t, query.OrderDirection, "DESC")
	assert.NotNil(t, query.Limit)
	assert.NotNil(t, query.Offset)
}

func TestEnrichFindExpr(t *testing.T) {
	expr := firstExprStmtExpr(t, `[FIND 'Acme' IN ALL FIELDS RETURNING Account, Contact]`)
	query, ok := expr.(*ast.QueryExpr)
	require.Truef(t, ok, "want *ast.QueryExpr, got %T", expr)

	require.NotNil(t, query.Find)
	assert.Equals(t, query.Find.Term, "'Acme'")
}

func TestEnrichAttachesLeadingComment(t *testing.T) {
	file := mustEnrich(t, "class Foo {\n  // explains x\n  Integer x;\n}")
	decl := firstDecl(t, file).(*ast.ClassDecl)
	field := decl.Members[0].(*ast.FieldDecl)

	info := ast.FormatInfoOf(field)
	require.Truef(t, len(info.PreComments) == 1, "want 1 pre-comment, got %d", len(info.PreComments))
	assert.Equals(t, info.PreComments[0].Content, "// explains x")
	assert.Equals(t, info.PreComments[0].Kind, ast.Line)
}

func TestEnrichAttachesTrailingSameLineComment(t *testing.T) {
	file := mustEnrich(t, "class Foo {\n  Integer x; // trailing\n  Integer y;\n}")
	decl := firstDecl(t, file).(*ast.ClassDecl)
	field := decl.Members[0].(*ast.FieldDecl)

	info := ast.FormatInfoOf(field)
	require.Truef(t, len(info.PostComments) == 1, "want 1 post-comment, got %d", len(info.PostComments))
	assert.Equals(t, info.PostComments[0].Content, "// trailing")
}

func TestEnrichHasTrailingBlankLine(t *testing.T) {
	file := mustEnrich(t, "class Foo {\n  Integer x;\n\n  Integer y;\n}")
	decl := firstDecl(t, file).(*ast.ClassDecl)
	require.Truef(t, len(decl.Members) == 2, "want 2 members, got %d", len(decl.Members))

	info := ast.FormatInfoOf(decl.Members[0])
	assert.Equals(t, info.HasTrailingBlankLine, true)
}
