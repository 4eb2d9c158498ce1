package teachlang

import (
	"fmt"
	"strconv"
	"strings"
)

// Library is the external collaborator contract from §6: the core
// never hardcodes builtins, it asks a Library for their signatures
// and routes unresolved Calls to it.
type Library interface {
	// ExternalFunctions seeds the symbol table's function registry.
	ExternalFunctions() map[string]FunctionObject
	// HandleCall executes name(args) and returns its result. Called
	// only when name is not a user-defined function.
	HandleCall(name string, args []LiteralValue) (LiteralValue, error)
}

// Sink receives the text written by print/display. The CLI binds
// this to stdout; tests can bind it to a strings.Builder.
type Sink interface {
	WriteLine(s string)
}

type writerSink struct{ w func(string) }

func (s writerSink) WriteLine(line string) { s.w(line) }

// NewSink adapts any func(string) into a Sink.
func NewSink(w func(string)) Sink { return writerSink{w: w} }

// DefaultLibrary is the standard external-function seed: print,
// display, lower_bound, upper_bound, plus the text_of/number_of
// coercion helpers (§6 [ADDED]).
type DefaultLibrary struct {
	Out Sink
}

func NewDefaultLibrary(out Sink) *DefaultLibrary {
	return &DefaultLibrary{Out: out}
}

func wildcard() SymbolType {
	return SymbolType{BasicType: WildcardType, ArrayDimensions: WildcardRank}
}

func (l *DefaultLibrary) ExternalFunctions() map[string]FunctionObject {
	return map[string]FunctionObject{
		"print":   {Params: []SymbolType{wildcard()}, ReturnType: "nothing", Variadic: true},
		"display": {Params: []SymbolType{wildcard()}, ReturnType: "nothing", Variadic: true},
		"lower_bound": {
			Params:     []SymbolType{{BasicType: WildcardType, ArrayDimensions: WildcardRank}},
			ReturnType: "number",
		},
		"upper_bound": {
			Params:     []SymbolType{{BasicType: WildcardType, ArrayDimensions: WildcardRank}},
			ReturnType: "number",
		},
		"text_of":   {Params: []SymbolType{wildcard()}, ReturnType: "text"},
		"number_of": {Params: []SymbolType{Scalar("text")}, ReturnType: "number"},
	}
}

func (l *DefaultLibrary) HandleCall(name string, args []LiteralValue) (LiteralValue, error) {
	switch name {
	case "print", "display":
		var parts []string
		for _, a := range args {
			parts = append(parts, a.DisplayString())
		}
		l.Out.WriteLine(strings.Join(parts, ""))
		return NullLiteral(), nil

	case "lower_bound":
		return NumberLiteral(float64(args[0].LowerBound())), nil

	case "upper_bound":
		return NumberLiteral(float64(args[0].UpperBound())), nil

	case "text_of":
		return TextLiteral(args[0].DisplayString()), nil

	case "number_of":
		n, err := strconv.ParseFloat(strings.TrimSpace(args[0].Text), 64)
		if err != nil {
			return LiteralValue{}, fmt.Errorf("number_of: %q is not a number", args[0].Text)
		}
		return NumberLiteral(n), nil

	default:
		return NullLiteral(), nil
	}
}
