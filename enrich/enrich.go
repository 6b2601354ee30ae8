// Package enrich performs the single CST-to-domain traversal that produces the owned, annotated
// tree the doc-build dispatch consumes. It shape-checks every CST node against its expected
// kind, collects every comment in the source into one cursor ordered by position, and attaches
// each comment to its nearest structural sibling: a comment that starts before a node's start
// position attaches as one of that node's pre comments, and a line comment starting on the line
// where the previous node ends attaches as that node's post comment.
//
// Enrichment does not consult width or configuration; it is a pure CST-to-domain mapping.
package enrich

import (
	"strings"

	"github.com/teleivo/apexfmt/ast"
	"github.com/teleivo/apexfmt/cst"
	"github.com/teleivo/apexfmt/internal/assert"
	"github.com/teleivo/apexfmt/token"
)

// cursor walks the comments collected from the CST, in source order, handing them out to
// whichever node's span they fall before.
type cursor struct {
	comments []token.Token
	idx      int
}

func (c *cursor) before(pos token.Position) []ast.Comment {
	var out []ast.Comment
	for c.idx < len(c.comments) && c.comments[c.idx].Start.Before(pos) {
		out = append(out, toComment(c.comments[c.idx]))
		c.idx++
	}
	return out
}

// trailingSameLine claims consecutive line comments starting on the given line, the end line of
// the node they trail.
func (c *cursor) trailingSameLine(line int) []ast.Comment {
	var out []ast.Comment
	for c.idx < len(c.comments) && c.comments[c.idx].Start.Line == line && commentKind(c.comments[c.idx]) == ast.Line {
		out = append(out, toComment(c.comments[c.idx]))
		c.idx++
	}
	return out
}

func commentKind(t token.Token) ast.CommentKind {
	if strings.HasPrefix(t.Literal, "//") {
		return ast.Line
	}
	return ast.Block
}

func toComment(t token.Token) ast.Comment {
	kind := commentKind(t)
	content := t.Literal
	if kind == ast.Line {
		content = strings.TrimRight(content, " \t")
	}
	return ast.Comment{Kind: kind, Content: content, Start: t.Start, End: t.End}
}

// attachGroup assigns pre/post comments and the trailing-blank-line flag to every item of a
// sibling group (e.g. a class's members, a block's statements), then attaches any comments
// still unclaimed before end (a dangling comment just before a closing brace) to the last
// item's post comments, or to fallback if the group is empty.
func attachGroup[T any](cur *cursor, items []T, end token.Position, nodeOf func(T) ast.Node, infoOf func(T) *ast.FormatInfo, fallback *ast.FormatInfo) {
	for _, it := range items {
		info := infoOf(it)
		info.PreComments = cur.before(nodeOf(it).Start())
		info.PostComments = cur.trailingSameLine(nodeOf(it).End().Line)
	}
	for i := 0; i < len(items)-1; i++ {
		info := infoOf(items[i])
		nextStart := nodeOf(items[i+1]).Start()
		if nextInfo := infoOf(items[i+1]); len(nextInfo.PreComments) > 0 {
			nextStart = nextInfo.PreComments[0].Start
		}
		info.HasTrailingBlankLine = nextStart.Line-nodeOf(items[i]).End().Line >= 2
	}
	if len(items) > 0 {
		last := infoOf(items[len(items)-1])
		last.PostComments = append(last.PostComments, cur.before(end)...)
	} else if fallback != nil {
		fallback.PreComments = append(fallback.PreComments, cur.before(end)...)
	}
}

// Enrich builds the domain tree from a parsed file. file must be of [cst.KindFile] and free of
// [cst.KindErrorTree] nodes; the driver is responsible for refusing files with parse errors
// before calling Enrich.
func Enrich(file *cst.Tree) *ast.File {
	assert.That(file.Kind == cst.KindFile, "enrich: expected File, got %s", file.Kind)

	cur := &cursor{comments: cst.ExtraTokens(file)}

	var decls []ast.Decl
	for _, child := range file.Children {
		tc, ok := child.(cst.TreeChild)
		if !ok {
			continue
		}
		decls = append(decls, buildDecl(tc.Tree, cur))
	}

	f := &ast.File{Decls: decls}
	f.SetSpan(file.Start, file.End)
	attachGroup(cur, decls, file.End,
		func(d ast.Decl) ast.Node { return d },
		ast.FormatInfoOf,
		nil,
	)
	return f
}

func buildDecl(tree *cst.Tree, cur *cursor) ast.Decl {
	switch tree.Kind {
	case cst.KindClassDecl:
		return buildClassDecl(tree, cur)
	case cst.KindInterfaceDecl:
		return buildInterfaceDecl(tree, cur)
	case cst.KindTriggerDecl:
		return buildTriggerDecl(tree, cur)
	case cst.KindEnumDecl:
		return buildEnumDecl(tree, cur)
	default:
		assert.That(false, "enrich: unexpected declaration kind %s", tree.Kind)
		return nil
	}
}

func buildModifiers(tree *cst.Tree) ast.Modifiers {
	var mods ast.Modifiers
	for _, child := range cst.NamedChildren(tree) {
		switch c := child.(type) {
		case cst.TokenChild:
			mods.Keywords = append(mods.Keywords, c.Token.Literal)
		case cst.TreeChild:
			mods.Annotations = append(mods.Annotations, buildAnnotation(c.Tree))
		}
	}
	return mods
}

func buildAnnotation(tree *cst.Tree) ast.Annotation {
	assert.That(tree.Kind == cst.KindAnnotation, "enrich: expected Annotation, got %s", tree.Kind)
	ann := ast.Annotation{Name: cst.ChildToken(tree, "name", token.ID).Literal}
	ann.SetSpan(tree.Start, tree.End)
	if args, ok := cst.ChildTreeOpt(tree, "args", cst.KindAnnotationArgs); ok {
		for _, a := range cst.ChildrenOfKind(args, cst.KindAnnotationArg) {
			ann.Args = append(ann.Args, buildAnnotationArg(a))
		}
	}
	return ann
}

func buildAnnotationArg(tree *cst.Tree) ast.AnnotationArg {
	arg := ast.AnnotationArg{}
	arg.SetSpan(tree.Start, tree.End)
	if name, ok := cst.ChildTokenOpt(tree, "name", token.ID); ok {
		arg.Name = name.Literal
	}
	arg.Value = buildExpr(cst.ChildTree(tree, "value", exprKindOf(tree, "value")))
	return arg
}

func buildType(tree *cst.Tree) *ast.Type {
	assert.That(tree.Kind == cst.KindType, "enrich: expected Type, got %s", tree.Kind)
	t := &ast.Type{Name: cst.ChildToken(tree, "name", token.ID).Literal}
	t.SetSpan(tree.Start, tree.End)
	for _, arg := range cst.ChildTreesByField(tree, "arg") {
		t.Args = append(t.Args, buildType(arg))
	}
	for _, child := range tree.Children {
		if tc, ok := child.(cst.TokenChild); ok && tc.Kind == token.LeftBracket {
			t.ArrayDims++
		}
	}
	return t
}

func buildSuperclass(tree *cst.Tree) *ast.Type {
	return buildType(cst.ChildTree(tree, "type", cst.KindType))
}

func buildInterfaceList(tree *cst.Tree) []*ast.Type {
	var out []*ast.Type
	for _, t := range cst.ChildrenOfKind(tree, cst.KindType) {
		out = append(out, buildType(t))
	}
	return out
}

func buildClassDecl(tree *cst.Tree, cur *cursor) *ast.ClassDecl {
	d := &ast.ClassDecl{
		Modifiers: buildModifiers(cst.ChildTree(tree, "modifiers", cst.KindModifiers)),
		Name:      cst.ChildToken(tree, "name", token.ID).Literal,
	}
	d.SetSpan(tree.Start, tree.End)
	if sup, ok := cst.ChildTreeOpt(tree, "superclass", cst.KindSuperclass); ok {
		d.Superclass = buildSuperclass(sup)
	}
	if ifaces, ok := cst.ChildTreeOpt(tree, "interfaces", cst.KindInterfaces); ok {
		d.Interfaces = buildInterfaceList(ifaces)
	}
	body := cst.ChildTree(tree, "body", cst.KindBlock)
	d.Members = buildMembers(body, cur)
	return d
}

func buildInterfaceDecl(tree *cst.Tree, cur *cursor) *ast.InterfaceDecl {
	d := &ast.InterfaceDecl{
		Modifiers: buildModifiers(cst.ChildTree(tree, "modifiers", cst.KindModifiers)),
		Name:      cst.ChildToken(tree, "name", token.ID).Literal,
	}
	d.SetSpan(tree.Start, tree.End)
	if ifaces, ok := cst.ChildTreeOpt(tree, "interfaces", cst.KindInterfaces); ok {
		d.Interfaces = buildInterfaceList(ifaces)
	}
	body := cst.ChildTree(tree, "body", cst.KindBlock)
	d.Members = buildMembers(body, cur)
	return d
}

func buildTriggerDecl(tree *cst.Tree, cur *cursor) *ast.TriggerDecl {
	d := &ast.TriggerDecl{
		Modifiers: buildModifiers(cst.ChildTree(tree, "modifiers", cst.KindModifiers)),
		Name:      cst.ChildToken(tree, "name", token.ID).Literal,
		Object:    cst.ChildToken(tree, "object", token.ID).Literal,
	}
	d.SetSpan(tree.Start, tree.End)
	for _, e := range eventTokens(tree) {
		d.Events = append(d.Events, e.Literal)
	}
	body := cst.ChildTree(tree, "body", cst.KindBlock)
	d.Body = buildBlockFrom(body, cur)
	return d
}

func eventTokens(tree *cst.Tree) []token.Token {
	var out []token.Token
	for i, child := range tree.Children {
		if tc, ok := child.(cst.TokenChild); ok && tree.Fields[i] == "event" {
			out = append(out, tc.Token)
		}
	}
	return out
}

func buildEnumDecl(tree *cst.Tree, _ *cursor) *ast.EnumDecl {
	d := &ast.EnumDecl{
		Modifiers: buildModifiers(cst.ChildTree(tree, "modifiers", cst.KindModifiers)),
		Name:      cst.ChildToken(tree, "name", token.ID).Literal,
	}
	d.SetSpan(tree.Start, tree.End)
	consts := cst.ChildTree(tree, "constants", cst.KindEnumConstants)
	for i, child := range consts.Children {
		if tc, ok := child.(cst.TokenChild); ok && consts.Fields[i] == "const" {
			d.Constants = append(d.Constants, tc.Token.Literal)
		}
	}
	return d
}

func buildMembers(body *cst.Tree, cur *cursor) []ast.Member {
	trees := cst.ChildTreesByField(body, "member")
	members := make([]ast.Member, 0, len(trees))
	for _, t := range trees {
		members = append(members, buildMember(t, cur))
	}
	attachGroup(cur, members, body.End,
		func(m ast.Member) ast.Node { return m },
		ast.FormatInfoOf,
		nil,
	)
	return members
}

func buildMember(tree *cst.Tree, cur *cursor) ast.Member {
	switch tree.Kind {
	case cst.KindClassDecl, cst.KindInterfaceDecl, cst.KindEnumDecl:
		return buildDecl(tree, cur).(ast.Member)
	case cst.KindFieldDecl:
		return buildFieldDecl(tree)
	case cst.KindMethodDecl:
		return buildMethodDecl(tree, cur)
	case cst.KindConstructorDecl:
		return buildConstructorDecl(tree, cur)
	default:
		assert.That(false, "enrich: unexpected member kind %s", tree.Kind)
		return nil
	}
}

func buildDeclarator(tree *cst.Tree) ast.Declarator {
	assert.That(tree.Kind == cst.KindDeclarator, "enrich: expected Declarator, got %s", tree.Kind)
	d := ast.Declarator{Name: cst.ChildToken(tree, "name", token.ID).Literal}
	d.SetSpan(tree.Start, tree.End)
	if v, ok := cst.ChildTreeOpt(tree, "value", exprKindOf(tree, "value")); ok {
		d.Value = buildExpr(v)
	}
	return d
}

// exprKindOf returns the kind of the single child tree under field, used where the field may
// hold any expression kind.
func exprKindOf(tree *cst.Tree, field string) cst.Kind {
	for i, child := range tree.Children {
		if tc, ok := child.(cst.TreeChild); ok && tree.Fields[i] == field {
			return tc.Kind
		}
	}
	return cst.KindErrorTree
}

func buildFieldDecl(tree *cst.Tree) *ast.FieldDecl {
	d := &ast.FieldDecl{
		Modifiers: buildModifiers(cst.ChildTree(tree, "modifiers", cst.KindModifiers)),
		Type:      buildType(cst.ChildTree(tree, "type", cst.KindType)),
	}
	d.SetSpan(tree.Start, tree.End)
	for _, decl := range cst.ChildrenOfKind(tree, cst.KindDeclarator) {
		d.Declarators = append(d.Declarators, buildDeclarator(decl))
	}
	return d
}

func buildParameterList(tree *cst.Tree) []*ast.Parameter {
	var out []*ast.Parameter
	for _, p := range cst.ChildrenOfKind(tree, cst.KindParameter) {
		out = append(out, buildParameter(p))
	}
	return out
}

func buildParameter(tree *cst.Tree) *ast.Parameter {
	p := &ast.Parameter{
		Type: buildType(cst.ChildTree(tree, "type", cst.KindType)),
		Name: cst.ChildToken(tree, "name", token.ID).Literal,
	}
	p.SetSpan(tree.Start, tree.End)
	if _, ok := cst.ChildTokenOpt(tree, "modifier", token.Final); ok {
		p.Final = true
	}
	return p
}

func buildThrows(tree *cst.Tree) []string {
	var out []string
	for i, child := range tree.Children {
		if tc, ok := child.(cst.TokenChild); ok && tree.Fields[i] == "type" {
			out = append(out, tc.Token.Literal)
		}
	}
	return out
}

func buildMethodDecl(tree *cst.Tree, cur *cursor) *ast.MethodDecl {
	d := &ast.MethodDecl{
		Modifiers:  buildModifiers(cst.ChildTree(tree, "modifiers", cst.KindModifiers)),
		Type:       buildType(cst.ChildTree(tree, "type", cst.KindType)),
		Name:       cst.ChildToken(tree, "name", token.ID).Literal,
		Parameters: buildParameterList(cst.ChildTree(tree, "parameters", cst.KindParameterList)),
	}
	d.SetSpan(tree.Start, tree.End)
	if throws, ok := cst.ChildTreeOpt(tree, "throws", cst.KindThrowsClause); ok {
		d.Throws = buildThrows(throws)
	}
	if body, ok := cst.ChildTreeOpt(tree, "body", cst.KindBlock); ok {
		d.Body = buildBlockFrom(body, cur)
	}
	return d
}

func buildConstructorDecl(tree *cst.Tree, cur *cursor) *ast.ConstructorDecl {
	d := &ast.ConstructorDecl{
		Modifiers:  buildModifiers(cst.ChildTree(tree, "modifiers", cst.KindModifiers)),
		Name:       cst.ChildToken(tree, "name", token.ID).Literal,
		Parameters: buildParameterList(cst.ChildTree(tree, "parameters", cst.KindParameterList)),
	}
	d.SetSpan(tree.Start, tree.End)
	if throws, ok := cst.ChildTreeOpt(tree, "throws", cst.KindThrowsClause); ok {
		d.Throws = buildThrows(throws)
	}
	d.Body = buildBlockFrom(cst.ChildTree(tree, "body", cst.KindBlock), cur)
	return d
}

// buildBlockFrom builds a block that is a declaration's body (method, constructor, trigger):
// never synthetic, since the grammar requires explicit braces there.
func buildBlockFrom(tree *cst.Tree, cur *cursor) *ast.Block {
	b := &ast.Block{Stmts: buildStmts(tree, cur)}
	b.SetSpan(tree.Start, tree.End)
	return b
}

func buildStmts(block *cst.Tree, cur *cursor) []ast.Stmt {
	trees := cst.ChildTreesByField(block, "stmt")
	stmts := make([]ast.Stmt, 0, len(trees))
	for _, t := range trees {
		stmts = append(stmts, buildStmt(t, cur))
	}
	attachGroup(cur, stmts, block.End,
		func(s ast.Stmt) ast.Node { return s },
		ast.FormatInfoOf,
		nil,
	)
	return stmts
}

func buildStmt(tree *cst.Tree, cur *cursor) ast.Stmt {
	switch tree.Kind {
	case cst.KindBlock:
		return buildBlockFrom(tree, cur)
	case cst.KindLocalVarDecl:
		return buildLocalVarDecl(tree)
	case cst.KindExprStmt:
		s := &ast.ExprStmt{Expr: buildExpr(cst.ChildTree(tree, "expr", exprKindOf(tree, "expr")))}
		s.SetSpan(tree.Start, tree.End)
		return s
	case cst.KindIfStmt:
		return buildIfStmt(tree, cur)
	case cst.KindWhileStmt:
		s := &ast.WhileStmt{Condition: buildExpr(cst.ChildTree(tree, "condition", exprKindOf(tree, "condition")))}
		s.SetSpan(tree.Start, tree.End)
		s.Body = buildBodyStmt(tree, cur)
		return s
	case cst.KindDoWhileStmt:
		s := &ast.DoWhileStmt{}
		s.SetSpan(tree.Start, tree.End)
		s.Body = buildBodyStmt(tree, cur)
		s.Condition = buildExpr(cst.ChildTree(tree, "condition", exprKindOf(tree, "condition")))
		return s
	case cst.KindForStmt:
		return buildForStmt(tree, cur)
	case cst.KindTryStmt:
		return buildTryStmt(tree, cur)
	case cst.KindSwitchStmt:
		return buildSwitchStmt(tree, cur)
	case cst.KindReturnStmt:
		s := &ast.ReturnStmt{}
		s.SetSpan(tree.Start, tree.End)
		if v, ok := cst.ChildTreeOpt(tree, "value", exprKindOf(tree, "value")); ok {
			s.Value = buildExpr(v)
		}
		return s
	case cst.KindThrowStmt:
		s := &ast.ThrowStmt{Value: buildExpr(cst.ChildTree(tree, "value", exprKindOf(tree, "value")))}
		s.SetSpan(tree.Start, tree.End)
		return s
	case cst.KindBreakStmt:
		s := &ast.BreakStmt{}
		s.SetSpan(tree.Start, tree.End)
		return s
	case cst.KindContinueStmt:
		s := &ast.ContinueStmt{}
		s.SetSpan(tree.Start, tree.End)
		return s
	default:
		assert.That(false, "enrich: unexpected statement kind %s", tree.Kind)
		return nil
	}
}

// buildBodyStmt builds the "body" field of a statement as a [*ast.Block], synthesizing one
// around a bare statement when the source omitted braces.
func buildBodyStmt(tree *cst.Tree, cur *cursor) ast.Stmt {
	bodyTree := cst.ChildTree(tree, "body", exprKindOf(tree, "body"))
	return asBlock(bodyTree, cur)
}

func asBlock(tree *cst.Tree, cur *cursor) *ast.Block {
	if tree.Kind == cst.KindBlock {
		return buildBlockFrom(tree, cur)
	}
	stmt := buildStmt(tree, cur)
	b := &ast.Block{Stmts: []ast.Stmt{stmt}, Synthetic: true}
	b.SetSpan(tree.Start, tree.End)
	return b
}

func buildLocalVarDecl(tree *cst.Tree) *ast.LocalVarDecl {
	d := &ast.LocalVarDecl{Type: buildType(cst.ChildTree(tree, "type", cst.KindType))}
	d.SetSpan(tree.Start, tree.End)
	if _, ok := cst.ChildTokenOpt(tree, "modifier", token.Final); ok {
		d.Final = true
	}
	for _, decl := range cst.ChildrenOfKind(tree, cst.KindDeclarator) {
		d.Declarators = append(d.Declarators, buildDeclarator(decl))
	}
	return d
}

func buildIfStmt(tree *cst.Tree, cur *cursor) *ast.IfStmt {
	s := &ast.IfStmt{Condition: buildExpr(cst.ChildTree(tree, "condition", exprKindOf(tree, "condition")))}
	s.SetSpan(tree.Start, tree.End)
	s.Then = asBlock(cst.ChildTree(tree, "then", exprKindOf(tree, "then")), cur)
	if elseClause, ok := cst.ChildTreeOpt(tree, "else", cst.KindElseClause); ok {
		s.Else = asBlock(cst.ChildTree(elseClause, "body", exprKindOf(elseClause, "body")), cur)
	}
	return s
}

func buildForStmt(tree *cst.Tree, cur *cursor) *ast.ForStmt {
	s := &ast.ForStmt{}
	s.SetSpan(tree.Start, tree.End)
	if init, ok := cst.ChildTreeOpt(tree, "init", exprKindOf(tree, "init")); ok {
		if init.Kind == cst.KindLocalVarDecl {
			s.Init = buildLocalVarDecl(init)
		} else {
			s.Init = buildExpr(init)
		}
	}
	if cond, ok := cst.ChildTreeOpt(tree, "condition", exprKindOf(tree, "condition")); ok {
		s.Condition = buildExpr(cond)
	}
	for _, u := range cst.ChildTreesByField(tree, "update") {
		s.Update = append(s.Update, buildExpr(u))
	}
	s.Body = buildBodyStmt(tree, cur)
	return s
}

func buildTryStmt(tree *cst.Tree, cur *cursor) *ast.TryStmt {
	s := &ast.TryStmt{Body: buildBlockFrom(cst.ChildTree(tree, "body", cst.KindBlock), cur)}
	s.SetSpan(tree.Start, tree.End)
	for _, c := range cst.ChildrenOfKind(tree, cst.KindCatchClause) {
		s.Catches = append(s.Catches, buildCatchClause(c, cur))
	}
	if fin, ok := cst.ChildTreeOpt(tree, "finally", cst.KindFinallyClause); ok {
		s.Finally = buildBlockFrom(cst.ChildTree(fin, "body", cst.KindBlock), cur)
	}
	return s
}

func buildCatchClause(tree *cst.Tree, cur *cursor) *ast.CatchClause {
	c := &ast.CatchClause{
		Type: buildType(cst.ChildTree(tree, "type", cst.KindType)),
		Name: cst.ChildToken(tree, "name", token.ID).Literal,
		Body: buildBlockFrom(cst.ChildTree(tree, "body", cst.KindBlock), cur),
	}
	c.SetSpan(tree.Start, tree.End)
	return c
}

func buildSwitchStmt(tree *cst.Tree, cur *cursor) *ast.SwitchStmt {
	s := &ast.SwitchStmt{Subject: buildExpr(cst.ChildTree(tree, "subject", exprKindOf(tree, "subject")))}
	s.SetSpan(tree.Start, tree.End)
	for _, w := range cst.ChildrenOfKind(tree, cst.KindWhenClause) {
		s.Whens = append(s.Whens, buildWhenClause(w, cur))
	}
	return s
}

func buildWhenClause(tree *cst.Tree, cur *cursor) *ast.WhenClause {
	w := &ast.WhenClause{Body: buildBlockFrom(cst.ChildTree(tree, "body", cst.KindBlock), cur)}
	for _, v := range cst.ChildTreesByField(tree, "value") {
		w.Values = append(w.Values, buildExpr(v))
	}
	w.Else = len(w.Values) == 0
	w.SetSpan(tree.Start, tree.End)
	return w
}

// --- Expressions ---

func buildExpr(tree *cst.Tree) ast.Expr {
	switch tree.Kind {
	case cst.KindLiteral:
		tok := soleToken(tree)
		e := &ast.Literal{Kind: tok.Kind, Value: tok.Literal}
		e.SetSpan(tree.Start, tree.End)
		return e
	case cst.KindID:
		tok := soleToken(tree)
		e := &ast.Ident{Name: tok.Literal}
		e.SetSpan(tree.Start, tree.End)
		return e
	case cst.KindBinaryExpr:
		e := &ast.BinaryExpr{
			Op:    opToken(tree).Literal,
			Left:  buildExpr(cst.ChildTree(tree, "left", exprKindOf(tree, "left"))),
			Right: buildExpr(cst.ChildTree(tree, "right", exprKindOf(tree, "right"))),
		}
		e.SetSpan(tree.Start, tree.End)
		return e
	case cst.KindUnaryExpr:
		e := &ast.UnaryExpr{
			Op:      opToken(tree).Literal,
			Operand: buildExpr(cst.ChildTree(tree, "operand", exprKindOf(tree, "operand"))),
		}
		e.SetSpan(tree.Start, tree.End)
		return e
	case cst.KindAssignExpr:
		e := &ast.AssignExpr{
			Op:    opToken(tree).Literal,
			Left:  buildExpr(cst.ChildTree(tree, "left", exprKindOf(tree, "left"))),
			Right: buildExpr(cst.ChildTree(tree, "right", exprKindOf(tree, "right"))),
		}
		e.SetSpan(tree.Start, tree.End)
		return e
	case cst.KindTernaryExpr:
		e := &ast.TernaryExpr{
			Condition: buildExpr(cst.ChildTree(tree, "condition", exprKindOf(tree, "condition"))),
			Then:      buildExpr(cst.ChildTree(tree, "then", exprKindOf(tree, "then"))),
			Else:      buildExpr(cst.ChildTree(tree, "else", exprKindOf(tree, "else"))),
		}
		e.SetSpan(tree.Start, tree.End)
		return e
	case cst.KindCallExpr:
		e := &ast.CallExpr{Callee: buildExpr(cst.ChildTree(tree, "callee", exprKindOf(tree, "callee")))}
		e.SetSpan(tree.Start, tree.End)
		args := cst.ChildTree(tree, "arguments", cst.KindArgumentList)
		for _, a := range cst.ChildTreesByField(args, "arg") {
			e.Arguments = append(e.Arguments, buildExpr(a))
		}
		return e
	case cst.KindFieldAccessExpr:
		e := &ast.FieldAccessExpr{
			Target: buildExpr(cst.ChildTree(tree, "target", exprKindOf(tree, "target"))),
			Name:   cst.ChildToken(tree, "name", token.ID).Literal,
		}
		e.SetSpan(tree.Start, tree.End)
		return e
	case cst.KindArrayAccessExpr:
		e := &ast.ArrayAccessExpr{
			Target: buildExpr(cst.ChildTree(tree, "target", exprKindOf(tree, "target"))),
			Index:  buildExpr(cst.ChildTree(tree, "index", exprKindOf(tree, "index"))),
		}
		e.SetSpan(tree.Start, tree.End)
		return e
	case cst.KindNewExpr:
		return buildNewExpr(tree)
	case cst.KindQueryExpr:
		return buildQueryExpr(tree)
	case cst.KindErrorTree:
		e := &ast.Ident{Name: "<error>"}
		e.SetSpan(tree.Start, tree.End)
		return e
	default:
		assert.That(false, "enrich: unexpected expression kind %s", tree.Kind)
		return nil
	}
}

// soleToken returns the single non-extra token child of tree.
func soleToken(tree *cst.Tree) token.Token {
	for _, child := range tree.Children {
		if tc, ok := child.(cst.TokenChild); ok && !tc.Token.IsExtra() {
			return tc.Token
		}
	}
	assert.That(false, "enrich: expected a token child in %s", tree.Kind)
	return token.Token{}
}

func opToken(tree *cst.Tree) token.Token {
	for i, child := range tree.Children {
		if tc, ok := child.(cst.TokenChild); ok && tree.Fields[i] == "op" {
			return tc.Token
		}
	}
	assert.That(false, "enrich: missing op field in %s", tree.Kind)
	return token.Token{}
}

func buildNewExpr(tree *cst.Tree) *ast.NewExpr {
	e := &ast.NewExpr{Type: buildType(cst.ChildTree(tree, "type", cst.KindType))}
	e.SetSpan(tree.Start, tree.End)
	if args, ok := cst.ChildTreeOpt(tree, "arguments", cst.KindArgumentList); ok {
		for _, a := range cst.ChildTreesByField(args, "arg") {
			e.Arguments = append(e.Arguments, buildExpr(a))
		}
		return e
	}
	e.IsArray = true
	if size, ok := cst.ChildTreeOpt(tree, "size", exprKindOf(tree, "size")); ok {
		e.ArraySize = buildExpr(size)
	}
	return e
}

func buildQueryExpr(tree *cst.Tree) *ast.QueryExpr {
	q := &ast.QueryExpr{}
	q.SetSpan(tree.Start, tree.End)

	if find, ok := cst.ChildTreeOpt(tree, "find", cst.KindFindExpr); ok {
		q.Find = buildFindExpr(find)
		return q
	}

	sel := cst.ChildTree(tree, "select", cst.KindFieldList)
	for _, f := range cst.ChildTreesByField(sel, "field") {
		q.Select = append(q.Select, buildExpr(f))
	}
	from := cst.ChildTree(tree, "from", cst.KindFromClause)
	q.From = cst.ChildToken(from, "object", token.ID).Literal

	if where, ok := cst.ChildTreeOpt(tree, "where", cst.KindWhereClause); ok {
		q.Where = buildExpr(cst.ChildTree(where, "condition", exprKindOf(where, "condition")))
	}
	if with, ok := cst.ChildTreeOpt(tree, "with", cst.KindWithClause); ok {
		q.With = cst.ChildToken(with, "value", token.ID).Literal
	}
	if groupBy, ok := cst.ChildTreeOpt(tree, "groupBy", cst.KindGroupByClause); ok {
		for _, f := range cst.ChildTreesByField(groupBy, "field") {
			q.GroupBy = append(q.GroupBy, buildExpr(f))
		}
	}
	if having, ok := cst.ChildTreeOpt(tree, "having", cst.KindHavingClause); ok {
		q.Having = buildExpr(cst.ChildTree(having, "condition", exprKindOf(having, "condition")))
	}
	if orderBy, ok := cst.ChildTreeOpt(tree, "orderBy", cst.KindOrderByClause); ok {
		for _, f := range cst.ChildTreesByField(orderBy, "field") {
			q.OrderBy = append(q.OrderBy, buildExpr(f))
		}
		if dir, ok := cst.ChildTokenOpt(orderBy, "direction", token.Asc|token.Desc); ok {
			q.OrderDirection = strings.ToUpper(dir.Literal)
		}
	}
	if limit, ok := cst.ChildTreeOpt(tree, "limit", cst.KindLimitClause); ok {
		q.Limit = buildExpr(cst.ChildTree(limit, "value", exprKindOf(limit, "value")))
	}
	if offset, ok := cst.ChildTreeOpt(tree, "offset", cst.KindOffsetClause); ok {
		q.Offset = buildExpr(cst.ChildTree(offset, "value", exprKindOf(offset, "value")))
	}
	if update, ok := cst.ChildTreeOpt(tree, "update", cst.KindUpdateClause); ok {
		for i, child := range update.Children {
			if tc, ok := child.(cst.TokenChild); ok && update.Fields[i] == "option" {
				q.Update = append(q.Update, strings.ToUpper(tc.Token.Literal))
			}
		}
	}
	return q
}

func buildFindExpr(tree *cst.Tree) *ast.FindExpr {
	f := &ast.FindExpr{Term: cst.ChildToken(tree, "term", token.Str).Literal}
	f.SetSpan(tree.Start, tree.End)
	if in, ok := cst.ChildTreeOpt(tree, "in", cst.KindInClause); ok {
		for i, child := range in.Children {
			if tc, ok := child.(cst.TokenChild); ok && in.Fields[i] == "scope" {
				f.In = append(f.In, tc.Token.Literal)
			}
		}
	}
	if ret, ok := cst.ChildTreeOpt(tree, "returning", cst.KindReturningClause); ok {
		for i, child := range ret.Children {
			if tc, ok := child.(cst.TokenChild); ok && ret.Fields[i] == "object" {
				f.Returning = append(f.Returning, tc.Token.Literal)
			}
		}
	}
	return f
}
