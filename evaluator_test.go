package teachlang_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teachlang"
	"teachlang/internal/parser"
)

// run lexes, parses, analyzes, and evaluates src, returning everything
// written to print/display concatenated with newlines.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	root, err := parser.Parse(src)
	require.NoError(t, err)

	var out strings.Builder
	lib := teachlang.NewDefaultLibrary(teachlang.NewSink(func(line string) {
		out.WriteString(line)
		out.WriteString("\n")
	}))
	symtab, err := teachlang.Analyze(root, lib)
	require.NoError(t, err)

	ev := teachlang.NewEvaluator(symtab, lib, 256)
	if err := ev.Run(root); err != nil {
		return out.String(), err
	}
	return out.String(), nil
}

func TestEvalArithmeticAndDisplay(t *testing.T) {
	out, err := run(t, `program
  x : number = 2
  y : number = 3
  display(x + y * 2)
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "8\n", out)
}

func TestEvalIfElseChain(t *testing.T) {
	out, err := run(t, `program
  x : number = 2
  if x == 1 then
    display("one")
  else if x == 2 then
    display("two")
  else
    display("other")
  end if
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "two\n", out)
}

func TestEvalWhileLoop(t *testing.T) {
	out, err := run(t, `program
  i : number = 0
  total : number = 0
  while i < 5
    total = total + i
    i = i + 1
  end while
  display(total)
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)
}

func TestEvalRepeatNTimes(t *testing.T) {
	out, err := run(t, `program
  count : number = 0
  repeat 4 times
    count = count + 1
  end repeat
  display(count)
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)
}

func TestEvalBreakExitsRepeatForever(t *testing.T) {
	out, err := run(t, `program
  i : number = 0
  total : number = 0
  repeat forever
    i = i + 1
    if i > 10 then
      quit
    end if
    if i == 7 then
      break
    end if
    total = total + i
  end repeat
  display(total)
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "21\n", out)
}

func TestEvalRepeatForAllOverArray(t *testing.T) {
	out, err := run(t, `program
  xs : array[1 to 3] of number
  xs[1] = 10
  xs[2] = 20
  xs[3] = 30
  total : number = 0
  repeat for all e in xs
    total = total + e
  end repeat
  display(total)
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "60\n", out)
}

func TestEvalFunctionCallAndReturn(t *testing.T) {
	out, err := run(t, `definitions
function square(n : number) returns number
  return n * n
end function
end definitions
program
  display(square(6))
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "36\n", out)
}

func TestEvalChangeableParamMutatesCallerVariable(t *testing.T) {
	out, err := run(t, `definitions
function increment(changeable n : number) returns nothing
  n = n + 1
end function
end definitions
program
  x : number = 5
  increment(x)
  increment(x)
  display(x)
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestEvalLinkRebindAndWriteThrough(t *testing.T) {
	out, err := run(t, `program
  x : number = 1
  y : number = 2
  r : link to number
  link r to x
  r = 99
  display(x)
  link r to y
  r = 42
  display(y)
  display(x)
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "99\n42\n99\n", out)
}

func TestEvalUnlinkAndIsLinked(t *testing.T) {
	out, err := run(t, `program
  x : number = 1
  r : link to number
  display(r is linked)
  link r to x
  display(r is linked)
  unlink r
  display(r is linked)
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n0\n", out)
}

func TestEvalStructureFieldReadWrite(t *testing.T) {
	out, err := run(t, `definitions
structure point
  x : number, y : number
end structure
end definitions
program
  p : point
  p.x = 3
  p.y = 4
  display(p.x + p.y)
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestEvalArrayLiteralAndIndex(t *testing.T) {
	out, err := run(t, `program
  xs : array[1 to 3] of number
  xs = [10, 20, 30]
  display(xs[2])
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "20\n", out)
}

func TestEvalQuitStopsExecution(t *testing.T) {
	out, err := run(t, `program
  display("before")
  quit
  display("after")
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "before\n", out)
}

func TestEvalPrintConcatenatesVariadicArgs(t *testing.T) {
	out, err := run(t, `program
  print("a = ", 1, ", b = ", 2)
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "a = 1, b = 2\n", out)
}

func TestEvalAndShortCircuitsRightOperand(t *testing.T) {
	out, err := run(t, `definitions
function sideEffect(n : number) returns number
  print("called")
  return n
end function
end definitions
program
  x : number = 0
  if x == 1 and sideEffect(x) == 1 then
    display("then")
  end if
  display("done")
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "done\n", out)
}

func TestEvalOrShortCircuitsRightOperand(t *testing.T) {
	out, err := run(t, `definitions
function sideEffect(n : number) returns number
  print("called")
  return n
end function
end definitions
program
  x : number = 1
  if x == 1 or sideEffect(x) == 1 then
    display("then")
  end if
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "then\n", out)
}

func TestEvalIndexOutOfBoundsErrors(t *testing.T) {
	_, err := run(t, `program
  a : array[1 to 3] of number = [1, 2, 3]
  i : number = 5
  display(a[i])
end program
`)
	require.Error(t, err)
	ie, ok := teachlang.AsInterpError(err)
	require.True(t, ok)
	assert.Equal(t, teachlang.IndexOutOfBounds, ie.Kind)
}

func TestEvalRepeatForAllDoesNotCorruptSourceArray(t *testing.T) {
	out, err := run(t, `program
  a : array[1 to 3] of number = [10, 20, 30]
  repeat for all v in a
    v = v + 1
  end repeat
  print(a[1])
  print(a[2])
  print(a[3])
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "10\n20\n30\n", out)
}

func TestEvalStructureWithArrayFieldAllocatesOnFirstAssignment(t *testing.T) {
	out, err := run(t, `definitions
structure box
  tag : text, items : array[1 to 3] of number
end structure
end definitions
program
  b : box
  b.tag = "ids"
  b.items = [1, 2, 3]
  display(b.items[2])
  b.items[1] = 99
  display(b.items[1])
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "2\n99\n", out)
}

func TestEvalNestedStructureFieldIsIndependentlyOwned(t *testing.T) {
	out, err := run(t, `definitions
structure point
  x : number, y : number
end structure
structure wrapper
  p : point
end structure
end definitions
program
  w1 : wrapper
  w1.p = point{1, 2}
  w2 : wrapper
  w2.p = point{3, 4}
  w1.p.x = 100
  display(w1.p.x)
  display(w2.p.x)
end program
`)
	require.NoError(t, err)
	assert.Equal(t, "100\n3\n", out)
}

func TestEvalRecursionDepthGuard(t *testing.T) {
	_, err := run(t, `definitions
function loop(n : number) returns number
  return loop(n + 1)
end function
end definitions
program
  display(loop(0))
end program
`)
	require.Error(t, err)
}
