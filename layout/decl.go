package layout

import (
	"strings"

	"github.com/teleivo/apexfmt/ast"
	"github.com/teleivo/apexfmt/doc"
)

// modifiersDoc renders annotations, each on its own line, followed by space-joined keyword
// modifiers and a trailing space to separate them from whatever header follows.
func (l *Layout) modifiersDoc(m ast.Modifiers) *doc.Doc {
	b := l.b
	var parts []*doc.Doc
	for _, a := range m.Annotations {
		parts = append(parts, l.annotationDoc(a), b.Newline())
	}
	if len(m.Keywords) > 0 {
		parts = append(parts, b.Text(strings.Join(m.Keywords, " ")), b.Text(" "))
	}
	return b.Concat(parts...)
}

func (l *Layout) annotationDoc(a ast.Annotation) *doc.Doc {
	b := l.b
	if len(a.Args) == 0 {
		return b.Text("@" + a.Name)
	}
	argDocs := make([]*doc.Doc, len(a.Args))
	for i, arg := range a.Args {
		argDocs[i] = l.annotationArgDoc(arg)
	}
	return b.Concat(b.Text("@"+a.Name), b.SurroundedChoice(argDocs, ", ", ",", "(", ")"))
}

func (l *Layout) annotationArgDoc(a ast.AnnotationArg) *doc.Doc {
	v := l.expr(a.Value)
	if a.Name == "" {
		return v
	}
	return l.b.Concat(l.b.Text(a.Name+"="), v)
}

func typeDoc(b *doc.Builder, t *ast.Type) *doc.Doc {
	if t == nil {
		return b.Nil()
	}
	parts := []*doc.Doc{b.Text(t.Name)}
	if len(t.Args) > 0 {
		argDocs := make([]*doc.Doc, len(t.Args))
		for i, a := range t.Args {
			argDocs[i] = typeDoc(b, a)
		}
		parts = append(parts, b.Text("<"), b.IntersperseSingleLine(argDocs, ", "), b.Text(">"))
	}
	for i := 0; i < t.ArrayDims; i++ {
		parts = append(parts, b.Text("[]"))
	}
	return b.Concat(parts...)
}

// relativeClausePart renders " <kw> <types>" (e.g. " extends Foo, Bar"), or nothing when types
// is empty. A softline before the keyword lets the declaration header break there first.
func (l *Layout) relativeClausePart(kw string, types []*ast.Type) *doc.Doc {
	b := l.b
	if len(types) == 0 {
		return b.Nil()
	}
	docs := make([]*doc.Doc, len(types))
	for i, t := range types {
		docs[i] = typeDoc(b, t)
	}
	return b.Concat(b.Softline(), b.Text(kw+" "), b.GroupList(docs, ","))
}

func (l *Layout) classDecl(d *ast.ClassDecl) *doc.Doc {
	b := l.b
	var superPart *doc.Doc
	if d.Superclass != nil {
		superPart = b.Concat(b.Softline(), b.Text("extends "), typeDoc(b, d.Superclass))
	} else {
		superPart = b.Nil()
	}
	header := b.Group(b.Concat(
		b.Text("class "), b.Text(d.Name),
		superPart,
		l.relativeClausePart("implements", d.Interfaces),
	))
	return b.Concat(l.modifiersDoc(d.Modifiers), header, l.body(d.Members))
}

func (l *Layout) interfaceDecl(d *ast.InterfaceDecl) *doc.Doc {
	b := l.b
	header := b.Group(b.Concat(
		b.Text("interface "), b.Text(d.Name),
		l.relativeClausePart("extends", d.Interfaces),
	))
	return b.Concat(l.modifiersDoc(d.Modifiers), header, l.body(d.Members))
}

func (l *Layout) triggerDecl(d *ast.TriggerDecl) *doc.Doc {
	b := l.b
	// Events holds two words per event (timing, then operation); each pair is one list element.
	var eventDocs []*doc.Doc
	for i := 0; i < len(d.Events); i += 2 {
		event := d.Events[i]
		if i+1 < len(d.Events) {
			event += " " + d.Events[i+1]
		}
		eventDocs = append(eventDocs, b.Text(event))
	}
	header := b.Group(b.Concat(
		b.Text("trigger "), b.Text(d.Name), b.Text(" on "), b.Text(d.Object), b.Text(" "),
		b.SurroundedChoice(eventDocs, ", ", ",", "(", ")"),
	))
	return b.Concat(l.modifiersDoc(d.Modifiers), header, b.Text(" "), l.blockDoc(d.Body))
}

func (l *Layout) enumDecl(d *ast.EnumDecl) *doc.Doc {
	b := l.b
	header := b.Concat(b.Text("enum "), b.Text(d.Name))
	constDocs := make([]*doc.Doc, len(d.Constants))
	for i, c := range d.Constants {
		constDocs[i] = b.Text(c)
	}
	body := b.Text("{}")
	if len(constDocs) > 0 {
		// Flat, the constants sit one space inside the braces; broken, each takes its own line.
		body = b.Choice(
			b.Concat(b.Text("{ "), b.IntersperseSingleLine(constDocs, ", "), b.Text(" }")),
			b.Concat(b.Text("{"), b.IndentScope(b.Concat(b.Newline(), b.IntersperseSoftline(constDocs, ","))), b.Newline(), b.Text("}")),
		)
	}
	return b.Concat(l.modifiersDoc(d.Modifiers), header, b.Text(" "), body)
}

func (l *Layout) declaratorDoc(d ast.Declarator) *doc.Doc {
	if d.Value == nil {
		return l.b.Text(d.Name)
	}
	return l.b.Concat(l.b.Text(d.Name), l.b.TextAroundSpaces("="), l.expr(d.Value))
}

func (l *Layout) fieldDecl(d *ast.FieldDecl) *doc.Doc {
	b := l.b
	declDocs := make([]*doc.Doc, len(d.Declarators))
	for i, decl := range d.Declarators {
		declDocs[i] = l.declaratorDoc(decl)
	}
	return b.Concat(l.modifiersDoc(d.Modifiers), typeDoc(b, d.Type), b.Text(" "), b.GroupList(declDocs, ","), b.Text(";"))
}

func (l *Layout) parameterDoc(p *ast.Parameter) *doc.Doc {
	b := l.b
	if p.Final {
		return b.Concat(b.Text("final "), typeDoc(b, p.Type), b.Text(" "), b.Text(p.Name))
	}
	return b.Concat(typeDoc(b, p.Type), b.Text(" "), b.Text(p.Name))
}

func (l *Layout) parameterListDoc(params []*ast.Parameter) *doc.Doc {
	docs := make([]*doc.Doc, len(params))
	for i, p := range params {
		docs[i] = l.parameterDoc(p)
	}
	return l.b.SurroundedChoice(docs, ", ", ",", "(", ")")
}

func (l *Layout) throwsPart(throws []string) *doc.Doc {
	b := l.b
	if len(throws) == 0 {
		return b.Nil()
	}
	docs := make([]*doc.Doc, len(throws))
	for i, t := range throws {
		docs[i] = b.Text(t)
	}
	return b.Concat(b.Text(" throws "), b.GroupList(docs, ","))
}

func (l *Layout) methodDecl(d *ast.MethodDecl) *doc.Doc {
	b := l.b
	header := b.Concat(
		l.modifiersDoc(d.Modifiers), typeDoc(b, d.Type), b.Text(" "), b.Text(d.Name),
		l.parameterListDoc(d.Parameters), l.throwsPart(d.Throws),
	)
	if d.Body == nil {
		return b.Concat(header, b.Text(";"))
	}
	return b.Concat(header, b.Text(" "), l.blockDoc(d.Body))
}

func (l *Layout) constructorDecl(d *ast.ConstructorDecl) *doc.Doc {
	b := l.b
	header := b.Concat(
		l.modifiersDoc(d.Modifiers), b.Text(d.Name), l.parameterListDoc(d.Parameters), l.throwsPart(d.Throws),
	)
	return b.Concat(header, b.Text(" "), l.blockDoc(d.Body))
}
