package teachlang_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teachlang"
	"teachlang/internal/parser"
)

func analyze(t *testing.T, src string) (*teachlang.SymbolTable, error) {
	t.Helper()
	root, err := parser.Parse(src)
	require.NoError(t, err)
	lib := teachlang.NewDefaultLibrary(teachlang.NewSink(func(string) {}))
	return teachlang.Analyze(root, lib)
}

func TestAnalyzeSimpleVarDefAndAssign(t *testing.T) {
	_, err := analyze(t, `program
  x : number = 1
  x = x + 1
end program
`)
	assert.NoError(t, err)
}

func TestAnalyzeTypeMismatchOnAssign(t *testing.T) {
	_, err := analyze(t, `program
  x : number = 1
  x = "hello"
end program
`)
	require.Error(t, err)
}

func TestAnalyzeUnknownSymbol(t *testing.T) {
	_, err := analyze(t, `program
  y = x + 1
end program
`)
	require.Error(t, err)
}

func TestAnalyzeStructureFieldAccess(t *testing.T) {
	_, err := analyze(t, `definitions
structure point
  x : number, y : number
end structure
end definitions
program
  p : point
  p.x = 1
  p.y = p.x + 1
end program
`)
	assert.NoError(t, err)
}

func TestAnalyzeStructureUnknownField(t *testing.T) {
	_, err := analyze(t, `definitions
structure point
  x : number, y : number
end structure
end definitions
program
  p : point
  p.z = 1
end program
`)
	require.Error(t, err)
}

func TestAnalyzeArrayIndexMustBeNumber(t *testing.T) {
	_, err := analyze(t, `program
  xs : array[1 to 3] of number
  t : text = "x"
  xs[t] = 1
end program
`)
	require.Error(t, err)
}

func TestAnalyzeFunctionReturnTypeChecked(t *testing.T) {
	_, err := analyze(t, `definitions
function double(n : number) returns number
  return n * 2
end function
end definitions
program
  y : number = double(5)
end program
`)
	assert.NoError(t, err)
}

func TestAnalyzeFunctionReturnTypeMismatch(t *testing.T) {
	_, err := analyze(t, `definitions
function greeting() returns text
  return 1
end function
end definitions
program
end program
`)
	require.Error(t, err)
}

func TestAnalyzeChangeableParamAcceptsVariableArg(t *testing.T) {
	_, err := analyze(t, `definitions
function increment(changeable n : number) returns nothing
  n = n + 1
end function
end definitions
program
  x : number = 1
  increment(x)
end program
`)
	assert.NoError(t, err)
}

func TestAnalyzeLinkAssignRequiresLinkTarget(t *testing.T) {
	_, err := analyze(t, `program
  x : number = 1
  y : number = 2
  link x to y
end program
`)
	require.Error(t, err)
}

func TestAnalyzeLinkAssignToDeclaredLink(t *testing.T) {
	_, err := analyze(t, `program
  x : number = 1
  r : link to number
  link r to x
  r = 9
end program
`)
	assert.NoError(t, err)
}

func TestAnalyzeIsLinkedOnLinkVariable(t *testing.T) {
	_, err := analyze(t, `program
  r : link to number
  flag : number = r is linked
end program
`)
	assert.NoError(t, err)
}

func TestAnalyzeRepeatForAllRequiresArray(t *testing.T) {
	_, err := analyze(t, `program
  x : number = 1
  repeat for all e in x
  end repeat
end program
`)
	require.Error(t, err)
}

func TestAnalyzePrintAcceptsVariadicArgs(t *testing.T) {
	_, err := analyze(t, `program
  print("a", 1, "b")
  display()
end program
`)
	assert.NoError(t, err)
}

func TestAnalyzeArrayLiteralRequiresHomogeneousElements(t *testing.T) {
	_, err := analyze(t, `program
  xs : array[1 to 3] of number
  xs = [1, "two", 3]
end program
`)
	require.Error(t, err)
}
