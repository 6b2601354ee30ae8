package doc

import (
	"github.com/mattn/go-runewidth"
	"github.com/teleivo/apexfmt/config"
)

// Builder owns the arena that every [Doc] node constructed through it is allocated in, plus the
// indent size used by [Builder.AddIndentLevel]. A Builder is scoped to one format: build the doc
// tree for a file, print it, then discard the builder.
type Builder struct {
	cfg   config.Config
	arena []*Doc
}

// New returns a Builder configured with cfg.
func New(cfg config.Config) *Builder {
	return &Builder{cfg: cfg}
}

func (b *Builder) alloc(d *Doc) *Doc {
	b.arena = append(b.arena, d)
	return d
}

// Nil is the empty document.
func (b *Builder) Nil() *Doc {
	return b.Text("")
}

// Text wraps a literal string. s must not contain a newline; its display width is measured in
// columns via go-runewidth so wide runes in comments and string literals are accounted for.
func (b *Builder) Text(s string) *Doc {
	return b.alloc(&Doc{Kind: KindText, Text: s, Width: runewidth.StringWidth(s)})
}

// TextPrefixSpace is Text(" "+s).
func (b *Builder) TextPrefixSpace(s string) *Doc {
	return b.Text(" " + s)
}

// TextSuffixSpace is Text(s+" ").
func (b *Builder) TextSuffixSpace(s string) *Doc {
	return b.Text(s + " ")
}

// TextAroundSpaces is Text(" "+s+" ").
func (b *Builder) TextAroundSpaces(s string) *Doc {
	return b.Text(" " + s + " ")
}

// Newline forces a line break followed by the current indent.
func (b *Builder) Newline() *Doc {
	return b.alloc(&Doc{Kind: KindNewline})
}

// NewlineNoIndent forces a line break with zero leading indent, used to emit a blank line.
func (b *Builder) NewlineNoIndent() *Doc {
	return b.alloc(&Doc{Kind: KindNewlineNoIndent})
}

// Softline is a single space in flat mode, a Newline otherwise.
func (b *Builder) Softline() *Doc {
	return b.alloc(&Doc{Kind: KindSoftline})
}

// Maybeline is empty in flat mode, a Newline otherwise.
func (b *Builder) Maybeline() *Doc {
	return b.alloc(&Doc{Kind: KindMaybeline})
}

// Flat forces flat mode over d.
func (b *Builder) Flat(d *Doc) *Doc {
	return b.alloc(&Doc{Kind: KindFlat, Child: d})
}

// AddIndentLevel is IndentMark(indent_size, d): one indent step that absorbs nested indent
// requests once the context is already marked.
func (b *Builder) AddIndentLevel(d *Doc) *Doc {
	return b.alloc(&Doc{Kind: KindIndentMark, Indent: b.cfg.IndentSize, Child: d})
}

// IndentNoMark adjusts indent the same way as AddIndentLevel but never sets the mark, so an
// enclosing marked context is unaffected by it.
func (b *Builder) IndentNoMark(d *Doc) *Doc {
	return b.alloc(&Doc{Kind: KindIndentNoMark, Indent: b.cfg.IndentSize, Child: d})
}

// Dedent reverses one AddIndentLevel: if the context is marked, it subtracts k (saturating at 0)
// and clears the mark.
func (b *Builder) Dedent(k int, d *Doc) *Doc {
	return b.alloc(&Doc{Kind: KindDedent, Indent: k, Child: d})
}

// IndentScope is AddIndentLevel preceded by a zero-width Dedent that clears any mark inherited
// from an enclosing scope. A block nested in a block, or a list nested in an already-broken
// list, must still add its own level rather than being absorbed by an ancestor's
// AddIndentLevel, so every layout construct that introduces a new nesting depth goes through
// this instead of AddIndentLevel directly.
func (b *Builder) IndentScope(d *Doc) *Doc {
	return b.Dedent(0, b.AddIndentLevel(d))
}

// Concat sequences docs one after another.
func (b *Builder) Concat(docs ...*Doc) *Doc {
	return b.alloc(&Doc{Kind: KindConcat, Children: docs})
}

// Choice picks a if the mode is flat or a fits, else b. The caller must ensure b's first line is
// no wider than a's first line; the printer's fits check relies on that invariant and never
// re-verifies b.
func (b *Builder) Choice(a, bb *Doc) *Doc {
	return b.alloc(&Doc{Kind: KindChoice, A: a, B: bb})
}

// Group is the common Choice: try d flat, fall back to d's own breaks.
func (b *Builder) Group(d *Doc) *Doc {
	return b.Choice(b.Flat(d), d)
}

// IntersperseSoftline joins elems with sep followed by a softline. An empty elems yields Nil.
func (b *Builder) IntersperseSoftline(elems []*Doc, sep string) *Doc {
	if len(elems) == 0 {
		return b.Nil()
	}
	parts := make([]*Doc, 0, len(elems)*2-1)
	for i, elem := range elems {
		if i > 0 {
			parts = append(parts, b.Text(sep), b.Softline())
		}
		parts = append(parts, elem)
	}
	return b.Concat(parts...)
}

// IntersperseSingleLine joins elems with sep, flattening every element. Used inside the
// single-line branch of a surrounded list.
func (b *Builder) IntersperseSingleLine(elems []*Doc, sep string) *Doc {
	if len(elems) == 0 {
		return b.Nil()
	}
	parts := make([]*Doc, 0, len(elems)*2-1)
	for i, elem := range elems {
		if i > 0 {
			parts = append(parts, b.Text(sep))
		}
		parts = append(parts, b.Flat(elem))
	}
	return b.Concat(parts...)
}

// GroupList is an indented Group over IntersperseSoftline: the common shape for a comma-joined
// list that itself introduces one indent level when it breaks.
func (b *Builder) GroupList(elems []*Doc, sep string) *Doc {
	return b.IndentScope(b.Group(b.IntersperseSoftline(elems, sep)))
}

// SurroundedChoice is the parenthesized-list idiom used throughout the dispatch layer:
// parameter lists, argument lists, annotation arguments. single is open + flat-joined + close;
// multi is open, a newline, an indented softline-joined list, a newline, then close. An empty
// elems collapses to open+close in both branches.
func (b *Builder) SurroundedChoice(elems []*Doc, singleSep, multiSep, open, close string) *Doc {
	single := b.surroundedSingleLine(elems, singleSep, open, close)
	multi := b.surroundedMultiLine(elems, multiSep, open, close)
	return b.Choice(single, multi)
}

func (b *Builder) surroundedSingleLine(elems []*Doc, sep, open, close string) *Doc {
	if len(elems) == 0 {
		return b.Text(open + close)
	}
	return b.Concat(b.Text(open), b.IntersperseSingleLine(elems, sep), b.Text(close))
}

func (b *Builder) surroundedMultiLine(elems []*Doc, sep, open, close string) *Doc {
	if len(elems) == 0 {
		return b.Text(open + close)
	}
	return b.Concat(
		b.Text(open),
		b.IndentScope(b.Concat(b.Newline(), b.IntersperseSoftline(elems, sep))),
		b.Newline(),
		b.Text(close),
	)
}

// Member pairs a built doc with whether a blank line followed it in the source, the input
// [Builder.SepWithTrailingNewlines] needs to reproduce blank-line intent without itself knowing
// anything about domain nodes.
type Member struct {
	Doc                  *Doc
	HasTrailingBlankLine bool
}

// SepWithTrailingNewlines emits members separated by Newline, inserting an extra
// NewlineNoIndent between member i and i+1 whenever members[i].HasTrailingBlankLine is true, and
// never after the last member.
func (b *Builder) SepWithTrailingNewlines(members []Member) *Doc {
	var parts []*Doc
	for i, m := range members {
		parts = append(parts, m.Doc)
		if i < len(members)-1 {
			if m.HasTrailingBlankLine {
				parts = append(parts, b.NewlineNoIndent())
			}
			parts = append(parts, b.Newline())
		}
	}
	return b.Concat(parts...)
}
