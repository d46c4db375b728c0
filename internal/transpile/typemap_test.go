package transpile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapTypeToken(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"str":      "string",
		"int":      "number",
		"float":    "number",
		"bool":     "boolean",
		"datetime": "string",
		"date":     "string",
		"None":     "undefined",
		"Song":     "Song",
		"bytes":    "bytes",
		"":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, MapTypeToken(in), in)
	}
}

func TestOptional(t *testing.T) {
	t.Parallel()

	some := Some("x")
	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, "x", v)
	assert.True(t, some.IsSome())
	assert.Equal(t, "x", some.OrElse("y"))

	none := None[string]()
	_, ok = none.Get()
	assert.False(t, ok)
	assert.False(t, none.IsSome())
	assert.Equal(t, "y", none.OrElse("y"))

	// Some of the zero value is still present
	assert.True(t, Some("").IsSome())
}
