package transpile

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/mvp-joe/pybridge/internal/pyast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Annotation Shape Resolver:
// - scalar names map through the token mapper; unknown names pass through
// - dotted names resolve by their last part
// - list[T] and List[T] render T[]
// - dict[K, V] renders an index signature; any other arity is ErrMalformedMapping
// - Optional[T] and T | None render "T | undefined"; A | B renders both sides
// - return annotations of the same shape render the same token
// - missing annotation resolves to any and records a diagnostic
// - everything else fails with ErrUnsupportedAnnotation carrying owner, param and node

func TestResolveAnnotation_Shapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		annotation string
		want       string
	}{
		{"str", "string"},
		{"int", "number"},
		{"bool", "boolean"},
		{"Song", "Song"},
		{"datetime.datetime", "string"},
		{"typing.Any", "Any"},
		{"list[str]", "string[]"},
		{"List[int]", "number[]"},
		{"list[list[str]]", "string[][]"},
		{"dict[str, str]", "{[key:string]: string}"},
		{"Dict[str, list[int]]", "{[key:string]: number[]}"},
		{"Optional[str]", "string | undefined"},
		{"typing.Optional[Song]", "Song | undefined"},
		{"str | None", "string | undefined"},
		{"int | str", "number | string"},
		{"int | str | None", "number | string | undefined"},
		{"list[int | str]", "number | string[]"},
	}

	for _, tt := range tests {
		t.Run(tt.annotation, func(t *testing.T) {
			t.Parallel()
			fn := mustCompile(t, "def f(name: "+tt.annotation+"):\n    pass\n")
			require.Len(t, fn.Compiled, 1)
			assert.Equal(t, "name:"+tt.want, fn.Compiled[0])
		})
	}
}

func TestResolveAnnotation_DocumentedScenarios(t *testing.T) {
	t.Parallel()

	t.Run("single string parameter", func(t *testing.T) {
		t.Parallel()
		fn := mustCompile(t, "def f(name: str):\n    pass\n")
		assert.Equal(t, []string{"name:string"}, fn.Compiled)
	})

	t.Run("list of strings", func(t *testing.T) {
		t.Parallel()
		fn := mustCompile(t, "def f(names: list[str]):\n    pass\n")
		assert.Equal(t, []string{"names:string[]"}, fn.Compiled)
	})

	t.Run("mapping parameter and return", func(t *testing.T) {
		t.Parallel()
		fn := mustCompile(t, "def f(names: dict[str, str]) -> dict[str, str]:\n    pass\n")
		assert.Equal(t, []string{"names:{[key:string]: string}"}, fn.Compiled)
		ret, ok := fn.ReturnType.Get()
		require.True(t, ok)
		assert.Equal(t, "{[key:string]: string}", ret)
	})

	t.Run("unions", func(t *testing.T) {
		t.Parallel()
		fn := mustCompile(t, "def f(a: str | None, b: int | str):\n    pass\n")
		assert.Equal(t, []string{"a:string | undefined", "b:number | string"}, fn.Compiled)
	})
}

func TestResolveAnnotation_MissingAnnotationIsDiagnostic(t *testing.T) {
	t.Parallel()

	fn, diags, err := compileSingle(t, "def f(x, y: int):\n    pass\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"x:any", "y:number"}, fn.Compiled)

	items := diags.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "f", items[0].Owner)
	assert.Equal(t, "x", items[0].Param)
	assert.Equal(t, 1, items[0].Pos.Line)
	assert.Contains(t, items[0].Message, "missing type annotation")
}

func TestResolveAnnotation_NilDiagnosticsIsSafe(t *testing.T) {
	t.Parallel()

	token, err := ResolveAnnotation(nil, Scope{Owner: "f", Param: "x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, TokenAny, token)
}

func TestResolveAnnotation_MalformedMapping(t *testing.T) {
	t.Parallel()

	for _, ann := range []string{"dict[str]", "dict[str, int, bool]", "Dict[str]"} {
		_, _, err := compileSingle(t, "def f(m: "+ann+"):\n    pass\n")
		require.Error(t, err, ann)
		assert.True(t, errors.Is(err, ErrMalformedMapping), ann)
		assert.False(t, errors.Is(err, ErrUnsupportedAnnotation), ann)
	}
}

func TestResolveAnnotation_Unsupported(t *testing.T) {
	t.Parallel()

	tests := []string{
		"tuple[int, str]",
		"Callable[[int], str]",
		`"Song"`,
		"Literal['a']",
	}

	for _, ann := range tests {
		t.Run(ann, func(t *testing.T) {
			t.Parallel()
			_, _, err := compileSingle(t, "def play(song: "+ann+"):\n    pass\n")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupportedAnnotation))

			var shape *ShapeError
			require.True(t, errors.As(err, &shape))
			assert.Equal(t, "play", shape.Owner)
			assert.Equal(t, "song", shape.Param)
			assert.NotNil(t, shape.Node)
			assert.Contains(t, err.Error(), "play")
		})
	}
}

func TestResolveAnnotation_UnsupportedReturn(t *testing.T) {
	t.Parallel()

	_, _, err := compileSingle(t, "def f() -> tuple[int, int]:\n    pass\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedAnnotation))
	assert.Contains(t, err.Error(), "return annotation")

	var shape *ShapeError
	require.True(t, errors.As(err, &shape))
	assert.Equal(t, "f", shape.Owner)
	assert.Empty(t, shape.Param)
}

func TestShapeError_Message(t *testing.T) {
	t.Parallel()

	err := &ShapeError{
		Kind:  ErrUnsupportedDefault,
		Owner: "play",
		Param: "speed",
		Node:  &pyast.Unknown{Kind: "call"},
	}
	assert.Equal(t, "unsupported default value shape in play (speed) at 0:0: call", err.Error())
	assert.ErrorIs(t, err, ErrUnsupportedDefault)
}
