package teachlang_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teachlang"
)

func TestSymbolTablePrimitiveTypesSeeded(t *testing.T) {
	st := teachlang.NewSymbolTable(nil)
	assert.True(t, st.HasType("number"))
	assert.True(t, st.HasType("text"))
	assert.True(t, st.HasType("nothing"))
	assert.False(t, st.HasType("point"))
}

func TestSymbolTableAddAndFindSymbol(t *testing.T) {
	st := teachlang.NewSymbolTable(nil)
	require.NoError(t, st.AddSymbol("x", teachlang.Scalar("number"), teachlang.Position{}))
	got, err := st.FindSymbol("x", teachlang.Position{})
	require.NoError(t, err)
	assert.Equal(t, teachlang.Scalar("number"), got)
}

func TestSymbolTableDuplicateSymbolErrors(t *testing.T) {
	st := teachlang.NewSymbolTable(nil)
	require.NoError(t, st.AddSymbol("x", teachlang.Scalar("number"), teachlang.Position{}))
	err := st.AddSymbol("x", teachlang.Scalar("number"), teachlang.Position{})
	require.Error(t, err)
	ie, ok := teachlang.AsInterpError(err)
	require.True(t, ok)
	assert.Equal(t, teachlang.DuplicateDeclaration, ie.Kind)
}

func TestSymbolTableUnknownSymbolErrors(t *testing.T) {
	st := teachlang.NewSymbolTable(nil)
	_, err := st.FindSymbol("ghost", teachlang.Position{})
	require.Error(t, err)
	ie, ok := teachlang.AsInterpError(err)
	require.True(t, ok)
	assert.Equal(t, teachlang.UnknownSymbol, ie.Kind)
}

func TestSymbolTableScopeShadowingAndPop(t *testing.T) {
	st := teachlang.NewSymbolTable(nil)
	require.NoError(t, st.AddSymbol("x", teachlang.Scalar("number"), teachlang.Position{}))

	st.PushScope()
	require.NoError(t, st.AddSymbol("x", teachlang.Scalar("text"), teachlang.Position{}))
	inner, err := st.FindSymbol("x", teachlang.Position{})
	require.NoError(t, err)
	assert.Equal(t, teachlang.Scalar("text"), inner)
	st.PopScope()

	outer, err := st.FindSymbol("x", teachlang.Position{})
	require.NoError(t, err)
	assert.Equal(t, teachlang.Scalar("number"), outer)
}

func TestSymbolTablePopAtGlobalScopePanics(t *testing.T) {
	st := teachlang.NewSymbolTable(nil)
	assert.Panics(t, func() { st.PopScope() })
}

func TestSymbolTableAddSymbolRejectsUnknownType(t *testing.T) {
	st := teachlang.NewSymbolTable(nil)
	err := st.AddSymbol("p", teachlang.Scalar("point"), teachlang.Position{})
	require.Error(t, err)
	ie, ok := teachlang.AsInterpError(err)
	require.True(t, ok)
	assert.Equal(t, teachlang.UnknownType, ie.Kind)
}

func TestSymbolTableStructFieldsAndOrdinals(t *testing.T) {
	st := teachlang.NewSymbolTable(nil)
	require.NoError(t, st.AddType("point", teachlang.Position{}))
	fields := st.AddStruct("point")
	fields.Put("x", teachlang.Scalar("number"))
	fields.Put("y", teachlang.Scalar("number"))

	ft, err := st.StructFieldType("point", "y", teachlang.Position{})
	require.NoError(t, err)
	assert.Equal(t, teachlang.Scalar("number"), ft)

	ord, ok := st.StructFieldOrdinal("point", "y")
	require.True(t, ok)
	assert.Equal(t, 1, ord)

	assert.Equal(t, 2, st.StructFieldCount("point"))

	_, err = st.StructFieldType("point", "z", teachlang.Position{})
	require.Error(t, err)
	ie, ok := teachlang.AsInterpError(err)
	require.True(t, ok)
	assert.Equal(t, teachlang.UnknownStructureKey, ie.Kind)
}

func TestSymbolTableFunctionRegistrationAndDuplicate(t *testing.T) {
	st := teachlang.NewSymbolTable(nil)
	sig := teachlang.FunctionObject{Params: []teachlang.SymbolType{teachlang.Scalar("number")}, ReturnType: "number"}
	require.NoError(t, st.AddFunction("double", sig, teachlang.Position{}))

	got, ok := st.FindFunction("double")
	require.True(t, ok)
	assert.Equal(t, sig, got)

	err := st.AddFunction("double", sig, teachlang.Position{})
	require.Error(t, err)
	ie, ok := teachlang.AsInterpError(err)
	require.True(t, ok)
	assert.Equal(t, teachlang.DuplicateDeclaration, ie.Kind)
}

func TestSymbolTableSeedsExternalFunctions(t *testing.T) {
	lib := teachlang.NewDefaultLibrary(teachlang.NewSink(func(string) {}))
	st := teachlang.NewSymbolTable(lib)
	_, ok := st.FindFunction("print")
	assert.True(t, ok)
	_, ok = st.FindFunction("display")
	assert.True(t, ok)
}
