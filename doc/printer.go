package doc

import "strings"

// chunk is the printer's unit of work: a doc reference together with the context it should be
// interpreted under.
type chunk struct {
	doc    *Doc
	indent int
	flat   bool
	marked bool
}

func (c chunk) with(d *Doc) chunk {
	c.doc = d
	return c
}

func (c chunk) asFlat(d *Doc) chunk {
	c.doc = d
	c.flat = true
	return c
}

func (c chunk) indentMark(k int, d *Doc) chunk {
	if !c.marked {
		c.indent += k
	}
	c.doc = d
	c.marked = true
	return c
}

func (c chunk) indentNoMark(k int, d *Doc) chunk {
	if !c.marked {
		c.indent += k
	}
	c.doc = d
	return c
}

func (c chunk) dedent(k int, d *Doc) chunk {
	if c.marked {
		c.indent = saturatingSub(c.indent, k)
	}
	c.doc = d
	c.marked = false
	return c
}

func saturatingSub(a, b int) int {
	if a < b {
		return 0
	}
	return a - b
}

// Print renders root to a string at the given maximum line width, per the Wadler/Lindig
// algorithm: a stack of chunks processed depth-first, with Choice resolved by a bounded
// look-ahead fits check over the chunk plus the remaining stack.
func Print(root *Doc, maxWidth int) string {
	p := printer{maxWidth: maxWidth}
	return p.print(root)
}

type printer struct {
	maxWidth int
	col      int
}

func (p *printer) print(root *Doc) string {
	var out strings.Builder
	stack := []chunk{{doc: root}}

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch c.doc.Kind {
		case KindText:
			out.WriteString(c.doc.Text)
			p.col += c.doc.Width
		case KindNewline:
			out.WriteByte('\n')
			out.WriteString(strings.Repeat(" ", c.indent))
			p.col = c.indent
		case KindNewlineNoIndent:
			out.WriteByte('\n')
			p.col = 0
		case KindSoftline:
			if c.flat {
				out.WriteByte(' ')
				p.col++
			} else {
				out.WriteByte('\n')
				out.WriteString(strings.Repeat(" ", c.indent))
				p.col = c.indent
			}
		case KindMaybeline:
			if !c.flat {
				out.WriteByte('\n')
				out.WriteString(strings.Repeat(" ", c.indent))
				p.col = c.indent
			}
		case KindFlat:
			stack = append(stack, c.asFlat(c.doc.Child))
		case KindIndentMark:
			stack = append(stack, c.indentMark(c.doc.Indent, c.doc.Child))
		case KindIndentNoMark:
			stack = append(stack, c.indentNoMark(c.doc.Indent, c.doc.Child))
		case KindDedent:
			stack = append(stack, c.dedent(c.doc.Indent, c.doc.Child))
		case KindConcat:
			for i := len(c.doc.Children) - 1; i >= 0; i-- {
				stack = append(stack, c.with(c.doc.Children[i]))
			}
		case KindChoice:
			a := c.with(c.doc.A)
			if c.flat || p.fits(a, stack) {
				stack = append(stack, a)
			} else {
				stack = append(stack, c.with(c.doc.B))
			}
		}
	}

	return out.String()
}

// fits decides whether candidate, followed by the remaining work stack, can be printed within
// maxWidth-col columns without mutating printer state. It returns true as soon as it reaches a
// point where a line break is guaranteed (a hard newline, or a non-flat softline/maybeline),
// since reaching a break means the current line is already settled within budget.
func (p *printer) fits(candidate chunk, rest []chunk) bool {
	remaining := p.maxWidth - p.col
	stack := []chunk{candidate}

	pop := func() (chunk, bool) {
		if n := len(stack); n > 0 {
			c := stack[n-1]
			stack = stack[:n-1]
			return c, true
		}
		if n := len(rest); n > 0 {
			c := rest[n-1]
			rest = rest[:n-1]
			return c, true
		}
		return chunk{}, false
	}

	for {
		c, ok := pop()
		if !ok {
			return true
		}

		switch c.doc.Kind {
		case KindNewline, KindNewlineNoIndent:
			return true
		case KindSoftline:
			if c.flat {
				remaining--
				if remaining < 0 {
					return false
				}
			} else {
				return true
			}
		case KindMaybeline:
			if !c.flat {
				return true
			}
		case KindText:
			remaining -= c.doc.Width
			if remaining < 0 {
				return false
			}
		case KindFlat:
			stack = append(stack, c.asFlat(c.doc.Child))
		case KindIndentMark, KindIndentNoMark:
			stack = append(stack, c.indentMark(c.doc.Indent, c.doc.Child))
		case KindDedent:
			stack = append(stack, c.dedent(c.doc.Indent, c.doc.Child))
		case KindConcat:
			for i := len(c.doc.Children) - 1; i >= 0; i-- {
				stack = append(stack, c.with(c.doc.Children[i]))
			}
		case KindChoice:
			if c.flat {
				stack = append(stack, c.with(c.doc.A))
			} else {
				// b's first line is no wider than a's by the Choice invariant, so the worst case
				// was already evaluated by the outer choice that is calling fits.
				stack = append(stack, c.with(c.doc.B))
			}
		}
	}
}
