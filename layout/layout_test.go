package layout

import (
	"bytes"
	"testing"

	"github.com/teleivo/apexfmt/ast"
	"github.com/teleivo/apexfmt/config"
	"github.com/teleivo/apexfmt/doc"
	"github.com/teleivo/apexfmt/enrich"
	"github.com/teleivo/apexfmt/parser"
	"github.com/teleivo/assertive/assert"
)

func parseFile(t *testing.T, src string) *ast.File {
	t.Helper()
	p := parser.New(bytes.NewReader([]byte(src)))
	tree := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return enrich.Enrich(tree)
}

func render(t *testing.T, maxWidth int, d *doc.Doc) string {
	t.Helper()
	return doc.Print(d, maxWidth)
}

func requireOK(t *testing.T, ok bool) {
	t.Helper()
	if !ok {
		t.Fatalf("unexpected node type")
	}
}

func firstClass(t *testing.T, f *ast.File) *ast.ClassDecl {
	t.Helper()
	c, ok := f.Decls[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("first decl is %T, not *ast.ClassDecl", f.Decls[0])
	}
	return c
}

func firstMethod(t *testing.T, c *ast.ClassDecl) *ast.MethodDecl {
	t.Helper()
	m, ok := c.Members[0].(*ast.MethodDecl)
	if !ok {
		t.Fatalf("first member is %T, not *ast.MethodDecl", c.Members[0])
	}
	return m
}

func newLayout(indentSize, maxWidth int) (*Layout, *doc.Builder) {
	cfg, _ := config.New(indentSize, maxWidth)
	b := doc.New(cfg)
	return New(b), b
}

func TestClassDeclHeaders(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"PlainClass": {
			in:   "class Foo {}",
			want: "class Foo {}",
		},
		"PublicClassWithAnnotation": {
			in:   "@IsTest\npublic class Foo {}",
			want: "@IsTest\npublic class Foo {}",
		},
		"ClassWithSuperclassAndInterfaces": {
			in:   "class Foo extends Bar implements Baz, Qux {}",
			want: "class Foo extends Bar implements Baz, Qux {}",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			f := parseFile(t, test.in)
			l, _ := newLayout(2, 80)
			got := render(t, 80, l.classDecl(firstClass(t, f)))
			assert.Equals(t, got, test.want)
		})
	}
}

func TestInterfaceDeclUsesExtendsNotImplements(t *testing.T) {
	f := parseFile(t, "interface Foo extends Bar, Baz {}")
	l, _ := newLayout(2, 80)
	decl, ok := f.Decls[0].(*ast.InterfaceDecl)
	requireOK(t, ok)
	got := render(t, 80, l.interfaceDecl(decl))
	assert.Equals(t, got, "interface Foo extends Bar, Baz {}")
}

func TestTriggerDecl(t *testing.T) {
	f := parseFile(t, "trigger FooTrigger on Account (before insert, after update) {}")
	l, _ := newLayout(2, 80)
	decl, ok := f.Decls[0].(*ast.TriggerDecl)
	requireOK(t, ok)
	got := render(t, 80, l.triggerDecl(decl))
	assert.Equals(t, got, "trigger FooTrigger on Account (before insert, after update) {}")
}

func TestEnumDecl(t *testing.T) {
	f := parseFile(t, "enum Season { WINTER, SPRING, SUMMER, FALL }")
	l, _ := newLayout(2, 80)
	decl, ok := f.Decls[0].(*ast.EnumDecl)
	requireOK(t, ok)
	got := render(t, 80, l.enumDecl(decl))
	assert.Equals(t, got, "enum Season { WINTER, SPRING, SUMMER, FALL }")
}

func TestMethodDeclParameterListBreaksWhenOverflowing(t *testing.T) {
	f := parseFile(t, "class A { public void someMethod(String firstParameter, String secondParameter, String thirdParameter) {} }")
	l, _ := newLayout(2, 40)
	m := firstMethod(t, firstClass(t, f))
	got := render(t, 40, l.methodDecl(m))
	want := "public void someMethod(\n" +
		"  String firstParameter,\n" +
		"  String secondParameter,\n" +
		"  String thirdParameter\n" +
		") {}"
	assert.Equals(t, got, want)
}

func TestMethodDeclParameterListFitsOnOneLine(t *testing.T) {
	f := parseFile(t, "class A { void m(String a, String b) {} }")
	l, _ := newLayout(2, 80)
	m := firstMethod(t, firstClass(t, f))
	got := render(t, 80, l.methodDecl(m))
	assert.Equals(t, got, "void m(String a, String b) {}")
}

func TestIfElseIfElseChainUnwrapsSyntheticBlock(t *testing.T) {
	in := "class A { void m() { if (a) { x(); } else if (b) { y(); } else { z(); } } }"
	f := parseFile(t, in)
	l, _ := newLayout(2, 80)
	m := firstMethod(t, firstClass(t, f))
	ifStmt, ok := m.Body.Stmts[0].(*ast.IfStmt)
	requireOK(t, ok)
	got := render(t, 80, l.ifStmt(ifStmt))
	want := "if (a) {\n  x();\n} else if (b) {\n  y();\n} else {\n  z();\n}"
	assert.Equals(t, got, want)
}

func TestTryCatchFinally(t *testing.T) {
	in := "class A { void m() { try { risky(); } catch (Exception e) { handle(); } finally { cleanup(); } } }"
	f := parseFile(t, in)
	l, _ := newLayout(2, 80)
	m := firstMethod(t, firstClass(t, f))
	tryStmt, ok := m.Body.Stmts[0].(*ast.TryStmt)
	requireOK(t, ok)
	got := render(t, 80, l.tryStmt(tryStmt))
	want := "try {\n  risky();\n} catch (Exception e) {\n  handle();\n} finally {\n  cleanup();\n}"
	assert.Equals(t, got, want)
}

func TestSwitchOnWhenClauses(t *testing.T) {
	in := "class A { void m() { switch on x { when 1, 2 { a(); } when else { b(); } } } }"
	f := parseFile(t, in)
	l, _ := newLayout(2, 80)
	m := firstMethod(t, firstClass(t, f))
	sw, ok := m.Body.Stmts[0].(*ast.SwitchStmt)
	requireOK(t, ok)
	got := render(t, 80, l.switchStmt(sw))
	want := "switch on x {\n  when 1, 2 {\n    a();\n  }\n  when else {\n    b();\n  }\n}"
	assert.Equals(t, got, want)
}

func TestTernaryBreaksBeforeQuestionAndColonWhenOverflowing(t *testing.T) {
	in := "class A { void m() { x = conditionIsQuiteLong ? firstAlternativeValue : secondAlternativeValue; } }"
	f := parseFile(t, in)
	l, _ := newLayout(2, 30)
	m := firstMethod(t, firstClass(t, f))
	exprStmt, ok := m.Body.Stmts[0].(*ast.ExprStmt)
	requireOK(t, ok)
	assign, ok := exprStmt.Expr.(*ast.AssignExpr)
	requireOK(t, ok)
	ternary, ok := assign.Right.(*ast.TernaryExpr)
	requireOK(t, ok)
	got := render(t, 30, l.ternaryExpr(ternary))
	want := "conditionIsQuiteLong\n  ? firstAlternativeValue\n  : secondAlternativeValue"
	assert.Equals(t, got, want)
}

func TestBinaryExprFlattensSamePrecedenceChain(t *testing.T) {
	in := "class A { void m() { x = a + b - c; } }"
	f := parseFile(t, in)
	l, _ := newLayout(2, 80)
	m := firstMethod(t, firstClass(t, f))
	exprStmt, ok := m.Body.Stmts[0].(*ast.ExprStmt)
	requireOK(t, ok)
	assign, ok := exprStmt.Expr.(*ast.AssignExpr)
	requireOK(t, ok)
	got := render(t, 80, l.expr(assign.Right))
	assert.Equals(t, got, "a + b - c")
}

func TestBinaryExprOmitsParensAroundTighterBindingRightOperand(t *testing.T) {
	in := "class A { void m() { x = a || (b && c); } }"
	f := parseFile(t, in)
	l, _ := newLayout(2, 80)
	m := firstMethod(t, firstClass(t, f))
	exprStmt, ok := m.Body.Stmts[0].(*ast.ExprStmt)
	requireOK(t, ok)
	assign, ok := exprStmt.Expr.(*ast.AssignExpr)
	requireOK(t, ok)
	bin, ok := assign.Right.(*ast.BinaryExpr)
	requireOK(t, ok)
	got := render(t, 80, l.binaryExpr(bin))
	assert.Equals(t, got, "a || b && c")
}

func TestCallChainBreaksBeforeEachDotWhenOverflowing(t *testing.T) {
	in := "class A { void m() { obj.first().second().third().fourth(); } }"
	f := parseFile(t, in)
	m := firstMethod(t, firstClass(t, f))

	l, _ := newLayout(2, 15)
	exprStmt, ok := m.Body.Stmts[0].(*ast.ExprStmt)
	requireOK(t, ok)
	got := render(t, 15, l.expr(exprStmt.Expr))
	want := "obj\n  .first()\n  .second()\n  .third()\n  .fourth()"
	assert.Equals(t, got, want)
}

func TestQueryExprBreaksOneClausePerLineWhenOverflowing(t *testing.T) {
	in := "class A { void m() { q = [SELECT Id, Name FROM Account WHERE IsActive = true ORDER BY Name LIMIT 10]; } }"
	f := parseFile(t, in)
	l, _ := newLayout(2, 25)
	m := firstMethod(t, firstClass(t, f))
	exprStmt, ok := m.Body.Stmts[0].(*ast.ExprStmt)
	requireOK(t, ok)
	assign, ok := exprStmt.Expr.(*ast.AssignExpr)
	requireOK(t, ok)
	query, ok := assign.Right.(*ast.QueryExpr)
	requireOK(t, ok)
	got := render(t, 25, l.queryExpr(query))
	want := "[\n  SELECT Id, Name\n  FROM Account\n  WHERE IsActive = true\n  ORDER BY Name\n  LIMIT 10\n]"
	assert.Equals(t, got, want)
}

func TestFindExprLayout(t *testing.T) {
	in := "class A { void m() { q = [FIND 'test' IN ALL FIELDS RETURNING Account, Contact]; } }"
	f := parseFile(t, in)
	l, _ := newLayout(2, 80)
	m := firstMethod(t, firstClass(t, f))
	exprStmt, ok := m.Body.Stmts[0].(*ast.ExprStmt)
	requireOK(t, ok)
	assign, ok := exprStmt.Expr.(*ast.AssignExpr)
	requireOK(t, ok)
	got := render(t, 80, l.expr(assign.Right))
	assert.Equals(t, got, "[FIND 'test' IN ALL FIELDS RETURNING Account, Contact]")
}
