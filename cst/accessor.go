package cst

import (
	"github.com/teleivo/apexfmt/internal/assert"
	"github.com/teleivo/apexfmt/token"
)

// ChildTree returns the first non-extra child tree with the given field name and kind. It
// panics if no such child exists; mandatory-child lookups are asserted because a miss can only
// be a parser/enrichment bug, never user-visible input.
func ChildTree(tree *Tree, field string, kind Kind) *Tree {
	t, ok := ChildTreeOpt(tree, field, kind)
	assert.That(ok, "missing mandatory child tree field=%q kind=%s in %s", field, kind, tree.Kind)
	return t
}

// ChildTreeOpt returns the first non-extra child tree with the given field name and kind, or
// false if absent. An empty field matches any positional child of the given kind.
func ChildTreeOpt(tree *Tree, field string, kind Kind) (*Tree, bool) {
	for i, child := range tree.Children {
		tc, ok := child.(TreeChild)
		if !ok || tc.Kind != kind {
			continue
		}
		if field == "" || tree.Fields[i] == field {
			return tc.Tree, true
		}
	}
	return nil, false
}

// ChildTreesByField returns every child tree under the given field name, regardless of kind, in
// source order. Used where a field collects a heterogeneous list, like class members.
func ChildTreesByField(tree *Tree, field string) []*Tree {
	var out []*Tree
	for i, child := range tree.Children {
		if tc, ok := child.(TreeChild); ok && tree.Fields[i] == field {
			out = append(out, tc.Tree)
		}
	}
	return out
}

// ChildrenOfKind returns every non-extra child tree of the given kind, in source order.
func ChildrenOfKind(tree *Tree, kind Kind) []*Tree {
	var out []*Tree
	for _, child := range tree.Children {
		if tc, ok := child.(TreeChild); ok && tc.Kind == kind {
			out = append(out, tc.Tree)
		}
	}
	return out
}

// ChildToken returns the first child token with the given field name and kind set membership.
// It panics if no such child exists.
func ChildToken(tree *Tree, field string, want token.Kind) token.Token {
	tok, ok := ChildTokenOpt(tree, field, want)
	assert.That(ok, "missing mandatory child token field=%q want=%s in %s", field, want, tree.Kind)
	return tok
}

// ChildTokenOpt returns the first child token with the given field name and kind set membership,
// or false if absent. Extra tokens (comments) are never returned. An empty field matches any
// positional token whose kind is in want.
func ChildTokenOpt(tree *Tree, field string, want token.Kind) (token.Token, bool) {
	for i, child := range tree.Children {
		tc, ok := child.(TokenChild)
		if !ok || tc.Token.IsExtra() || !tc.Kind.In(want) {
			continue
		}
		if field == "" || tree.Fields[i] == field {
			return tc.Token, true
		}
	}
	return token.Token{}, false
}

// NamedChildren returns the tree's children in source order, skipping extra tokens (comments).
func NamedChildren(tree *Tree) []Child {
	out := make([]Child, 0, len(tree.Children))
	for _, child := range tree.Children {
		if tc, ok := child.(TokenChild); ok && tc.Token.IsExtra() {
			continue
		}
		out = append(out, child)
	}
	return out
}

// ExtraTokens returns every extra token (comment) under tree, recursively, in source order.
func ExtraTokens(tree *Tree) []token.Token {
	var out []token.Token
	var walk func(*Tree)
	walk = func(t *Tree) {
		for _, child := range t.Children {
			switch c := child.(type) {
			case TokenChild:
				if c.Token.IsExtra() {
					out = append(out, c.Token)
				}
			case TreeChild:
				walk(c.Tree)
			}
		}
	}
	walk(tree)
	return out
}

