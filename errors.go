package teachlang

import "fmt"

// ErrorKind enumerates the error taxonomy from the specification's
// error handling design: every failure the core can produce belongs
// to exactly one of these kinds.
type ErrorKind int

const (
	LexicalError ErrorKind = iota
	ParseError
	DuplicateDeclaration
	UnknownType
	UnknownSymbol
	UnknownStructureKey
	TypeMismatch
	ArityMismatch
	NonNumericBound
	NonNumericIndex
	IndexOutOfBounds
	DivisionByZero
	UnlinkNotLinked
	UnexpectedReturn
	InvalidMemoryAccess
	UnknownExternalFunction
	RecursionLimitExceeded
)

var errorKindNames = map[ErrorKind]string{
	LexicalError:            "LexicalError",
	ParseError:              "ParseError",
	DuplicateDeclaration:    "DuplicateDeclaration",
	UnknownType:             "UnknownType",
	UnknownSymbol:           "UnknownSymbol",
	UnknownStructureKey:     "UnknownStructureKey",
	TypeMismatch:            "TypeMismatch",
	ArityMismatch:           "ArityMismatch",
	NonNumericBound:         "NonNumericBound",
	NonNumericIndex:         "NonNumericIndex",
	IndexOutOfBounds:        "IndexOutOfBounds",
	DivisionByZero:          "DivisionByZero",
	UnlinkNotLinked:         "UnlinkNotLinked",
	UnexpectedReturn:        "UnexpectedReturn",
	InvalidMemoryAccess:     "InvalidMemoryAccess",
	UnknownExternalFunction: "UnknownExternalFunction",
	RecursionLimitExceeded:  "RecursionLimitExceeded",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "UnknownErrorKind"
}

// InterpError is the single error type surfaced by every entry point
// in the core (lexer, parser, analyzer, evaluator). It always carries
// the source position of the offending token so the CLI can print a
// one-line diagnostic.
type InterpError struct {
	Kind    ErrorKind
	Message string
	Pos     Position
}

func NewError(kind ErrorKind, pos Position, format string, args ...any) *InterpError {
	return &InterpError{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func (e *InterpError) Error() string {
	return fmt.Sprintf("Error on line %d:%d - %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// AsInterpError unwraps err into an *InterpError, if it is one.
func AsInterpError(err error) (*InterpError, bool) {
	ie, ok := err.(*InterpError)
	return ie, ok
}
