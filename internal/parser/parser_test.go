package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teachlang"
)

func TestParseMinimalProgram(t *testing.T) {
	root, err := Parse(`program
  x = 1
end program
`)
	require.NoError(t, err)
	assert.Equal(t, teachlang.KindCode, root.Kind())
	kids := root.Children()
	assert.Nil(t, kids[0]) // no definitions block
	block := kids[1]
	assert.Equal(t, teachlang.KindBlock, block.Kind())
	require.Len(t, block.Children(), 1)
	assert.Equal(t, teachlang.KindAssign, block.Children()[0].Kind())
}

func TestParseVarDefWithMultipleNames(t *testing.T) {
	root, err := Parse(`program
  a, b : number = 1
end program
`)
	require.NoError(t, err)
	stmt := root.Children()[1].Children()[0]
	require.Equal(t, teachlang.KindVarDef, stmt.Kind())
	idsNode := stmt.Children()[0]
	require.Equal(t, teachlang.KindIds, idsNode.Kind())
	assert.Len(t, idsNode.Children(), 2)
}

func TestParseDefinitionsWithStructAndFunction(t *testing.T) {
	src := `definitions
structure point
  x : number, y : number
end structure

total : number = 0

function add(a : number, changeable acc : number) returns number
  acc = acc + a
  return acc
end function
end definitions
program
  total = add(1, total)
end program
`
	root, err := Parse(src)
	require.NoError(t, err)
	defs := root.Children()[0]
	require.Equal(t, teachlang.KindDefinitions, defs.Kind())

	structDefs := defs.Children()[0]
	require.Len(t, structDefs.Children(), 1)
	sd := structDefs.Children()[0]
	assert.Equal(t, teachlang.KindStructDef, sd.Kind())
	args := sd.Children()[1]
	assert.Len(t, args.Children(), 2)

	globals := defs.Children()[1]
	require.Len(t, globals.Children(), 1)

	funDefs := defs.Children()[2]
	require.Len(t, funDefs.Children(), 1)
	fn := funDefs.Children()[0]
	assert.Equal(t, teachlang.KindFunDef, fn.Kind())
	params := fn.Children()[1]
	require.Len(t, params.Children(), 2)
	secondParamType := params.Children()[1].Children()[1]
	assert.Equal(t, teachlang.KindPointer, secondParamType.Kind())
}

func TestParseArrayType(t *testing.T) {
	root, err := Parse(`program
  xs : array[1 to 10] of number
end program
`)
	require.NoError(t, err)
	stmt := root.Children()[1].Children()[0]
	typeNode := stmt.Children()[1]
	require.Equal(t, teachlang.KindArrayDef, typeNode.Kind())
	bounds := typeNode.Children()[0]
	require.Len(t, bounds.Children(), 1)
}

func TestParseIfElseIfChain(t *testing.T) {
	root, err := Parse(`program
  if x == 1 then
    y = 1
  else if x == 2 then
    y = 2
  else
    y = 3
  end if
end program
`)
	require.NoError(t, err)
	stmt := root.Children()[1].Children()[0]
	require.Equal(t, teachlang.KindIf, stmt.Kind())
	elseBranch := stmt.Children()[2]
	require.Equal(t, teachlang.KindIf, elseBranch.Kind())
}

func TestParseWhileAndRepeatForms(t *testing.T) {
	root, err := Parse(`program
  while x < 10
    x = x + 1
  end while
  repeat 5 times
    x = x + 1
  end repeat
  repeat forever
    break
  end repeat
  repeat for all e in xs
    y = e
  end repeat
end program
`)
	require.NoError(t, err)
	stmts := root.Children()[1].Children()
	require.Len(t, stmts, 4)
	assert.Equal(t, teachlang.KindWhile, stmts[0].Kind())
	assert.Equal(t, teachlang.KindRepeat, stmts[1].Kind())
	assert.Equal(t, teachlang.KindRepeatForever, stmts[2].Kind())
	assert.Equal(t, teachlang.KindRepeatFor, stmts[3].Kind())
}

func TestParseLinkAndUnlinkAndIsLinked(t *testing.T) {
	root, err := Parse(`program
  link r to x
  unlink r
  y = r is linked
end program
`)
	require.NoError(t, err)
	stmts := root.Children()[1].Children()
	require.Len(t, stmts, 3)
	assign := stmts[0]
	require.Equal(t, teachlang.KindAssign, assign.Kind())
	assert.Equal(t, teachlang.KindLinkLit, assign.Children()[1].Kind())
	assert.Equal(t, teachlang.KindUnlink, stmts[1].Kind())

	yAssign := stmts[2]
	assert.Equal(t, teachlang.KindIsLinked, yAssign.Children()[1].Kind())
}

func TestParseExpressionPrecedence(t *testing.T) {
	root, err := Parse(`program
  y = 1 + 2 * 3 ^ 2
end program
`)
	require.NoError(t, err)
	rhs := root.Children()[1].Children()[0].Children()[1]
	require.Equal(t, teachlang.KindBinOp, rhs.Kind())
	add := rhs.(*teachlang.BinOpNode)
	assert.Equal(t, teachlang.OpAdd, add.Op)
	right := add.Right().(*teachlang.BinOpNode)
	assert.Equal(t, teachlang.OpMul, right.Op)
}

func TestParseCallArrayAndStructLiterals(t *testing.T) {
	root, err := Parse(`program
  xs = [1, 2, 3]
  p = point{1, 2}
  display(xs[1])
end program
`)
	require.NoError(t, err)
	stmts := root.Children()[1].Children()
	require.Len(t, stmts, 3)
	assert.Equal(t, teachlang.KindArrayLit, stmts[0].Children()[1].Kind())
	assert.Equal(t, teachlang.KindStructLit, stmts[1].Children()[1].Kind())
	assert.Equal(t, teachlang.KindCall, stmts[2].Kind())
}

func TestParseErrorOnMismatchedToken(t *testing.T) {
	_, err := Parse(`program
  x =
end program
`)
	assert.Error(t, err)
}

func TestParseErrorOnMissingEndProgram(t *testing.T) {
	_, err := Parse(`program
  x = 1
`)
	assert.Error(t, err)
}
