// Package doc implements the Wadler/Lindig-style document algebra the layout engine is built on:
// an immutable, arena-backed IR describing layout possibilities, and the stack-based printer
// that resolves it to a final string at a given width.
//
// A [Doc] value is never mutated after construction. Composite variants hold pointers into the
// same [Builder]'s arena; those pointers must not outlive the builder.
package doc

// Kind identifies a Doc variant.
type Kind int

const (
	KindText Kind = iota
	KindNewline
	KindNewlineNoIndent
	KindSoftline
	KindMaybeline
	KindFlat
	KindIndentMark
	KindIndentNoMark
	KindDedent
	KindConcat
	KindChoice
)

// Doc is one node of the layout algebra. Only the fields relevant to Kind are meaningful:
//
//   - KindText: Text, Width.
//   - KindFlat, KindIndentMark, KindIndentNoMark, KindDedent: Child, and for the indent/dedent
//     kinds, Indent.
//   - KindConcat: Children.
//   - KindChoice: A (tried first; must fit or be flat) and B (the fallback whose first line must
//     be no wider than A's first line).
//
// Doc carries no exported constructor; build one through a [Builder] so every node is arena
// owned and every width is computed consistently.
type Doc struct {
	Kind     Kind
	Text     string
	Width    int
	Indent   int
	Child    *Doc
	Children []*Doc
	A, B     *Doc
}
