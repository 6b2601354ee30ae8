package format_test

import (
	"testing"

	"github.com/teleivo/apexfmt/config"
	"github.com/teleivo/apexfmt/format"
	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"
)

func TestSourceSeedScenarios(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"EmptyClassWithModifier": {
			in:   "public class Foo {}",
			want: "public class Foo {}\n",
		},
		"ClassWithOneFieldThatFits": {
			in:   "public class A{Integer x=1;}",
			want: "public class A {\n  Integer x = 1;\n}\n",
		},
		"LineCommentOnTrailingPosition": {
			in:   "public class A { void m() { Integer x = 1; // note\n } }",
			want: "public class A {\n  void m() {\n    Integer x = 1; // note\n  }\n}\n",
		},
	}

	cfg, err := config.New(2, 80)
	require.NoError(t, err)

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := format.Source([]byte(test.in), cfg)
			assert.NoError(t, err)
			assert.NoDiff(t, got, test.want)
		})
	}
}

func TestSourceOverflowingParameterListBreaksOnePerLine(t *testing.T) {
	cfg, err := config.New(2, 80)
	require.NoError(t, err)

	in := "public class A { public void someMethod(String firstParameter, String secondParameter, String thirdParameter) {} }"
	want := "public class A {\n" +
		"  public void someMethod(\n" +
		"    String firstParameter,\n" +
		"    String secondParameter,\n" +
		"    String thirdParameter\n" +
		"  ) {}\n" +
		"}\n"

	got, err := format.Source([]byte(in), cfg)
	assert.NoError(t, err)
	assert.NoDiff(t, got, want)
}

func TestSourceBlankLinePreservationBetweenMembers(t *testing.T) {
	cfg, err := config.New(2, 80)
	require.NoError(t, err)

	tests := map[string]struct {
		in   string
		want string
	}{
		"OneBlankLine": {
			in:   "class A {\n  Integer x = 1;\n\n  Integer y = 2;\n}",
			want: "class A {\n  Integer x = 1;\n\n  Integer y = 2;\n}\n",
		},
		"TwoBlankLinesCollapseToOne": {
			in:   "class A {\n  Integer x = 1;\n\n\n  Integer y = 2;\n}",
			want: "class A {\n  Integer x = 1;\n\n  Integer y = 2;\n}\n",
		},
		"NoBlankLine": {
			in:   "class A {\n  Integer x = 1;\n  Integer y = 2;\n}",
			want: "class A {\n  Integer x = 1;\n  Integer y = 2;\n}\n",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := format.Source([]byte(test.in), cfg)
			assert.NoError(t, err)
			assert.NoDiff(t, got, test.want)
		})
	}
}

func TestSourceChainedCallBreaking(t *testing.T) {
	cfg, err := config.New(2, 80)
	require.NoError(t, err)

	in := "class A { void m() { obj.a().b().c().d(); } }"
	got, err := format.Source([]byte(in), cfg)
	assert.NoError(t, err)
	assert.NoDiff(t, got, "class A {\n  void m() {\n    obj.a().b().c().d();\n  }\n}\n")

	narrow, err := config.New(2, 20)
	require.NoError(t, err)
	gotNarrow, err := format.Source([]byte(in), narrow)
	assert.NoError(t, err)
	assert.NoDiff(t, gotNarrow,
		"class A {\n  void m() {\n    obj\n      .a()\n      .b()\n      .c()\n      .d();\n  }\n}\n")
}

func TestSourceRejectsParseErrors(t *testing.T) {
	cfg, err := config.New(2, 80)
	require.NoError(t, err)

	_, err = format.Source([]byte("public class {"), cfg)
	require.NotNil(t, err)
}

func TestSourceIsIdempotent(t *testing.T) {
	cfg, err := config.New(2, 80)
	require.NoError(t, err)

	in := "public class A {\n  Integer x = 1;\n\n  public Integer getX() {\n    return x;\n  }\n}\n"
	once, err := format.Source([]byte(in), cfg)
	assert.NoError(t, err)
	twice, err := format.Source([]byte(once), cfg)
	assert.NoError(t, err)
	assert.NoDiff(t, twice, once)
}
