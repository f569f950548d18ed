package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupTypeIsCaseInsensitive(t *testing.T) {
	for _, kw := range []string{"int", "INT", "Int", "iNt"} {
		got, ok := LookupType(kw)
		assert.True(t, ok, kw)
		assert.Equal(t, Int, got)
	}

	_, ok := LookupType("Point")
	assert.False(t, ok)
	assert.True(t, IsBuiltinType("Void"))
}

func TestNumericTypes(t *testing.T) {
	assert.True(t, IsNumericType(Int))
	assert.True(t, IsNumericType(Float))
	assert.False(t, IsNumericType(Bool))
	assert.False(t, IsNumericType(String))
}

func TestPrintBuiltin(t *testing.T) {
	fn, ok := LookupFunction("print")
	assert.True(t, ok)
	assert.Equal(t, Void, fn.Return)
	assert.True(t, IsPrintable(String))
	assert.False(t, IsPrintable(Void))

	_, ok = LookupFunction("println")
	assert.False(t, ok)
}
