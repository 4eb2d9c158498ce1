package teachlang

import "fmt"

// NodeKind enumerates every production in the parse tree, fixed per
// the data model: each kind has a fixed, documented arity for its
// Children() slice.
type NodeKind int

const (
	KindCode NodeKind = iota
	KindDefinitions
	KindStructDefs
	KindStructDef
	KindStructArgs
	KindStructArg
	KindGlobalDefs
	KindFunDefs
	KindFunDef
	KindParams
	KindParam
	KindBlock
	KindVarDef
	KindVarDefs
	KindAssign
	KindIf
	KindWhile
	KindRepeat
	KindRepeatFor
	KindRepeatForever
	KindUnlink
	KindQuit
	KindBreak
	KindContinue
	KindReturn
	KindBinOp
	KindBinComp
	KindIsLinked
	KindIsNotLinked
	KindBitNot
	KindNeg
	KindAbs
	KindType
	KindPointer
	KindArrayDef
	KindBounds
	KindBound
	KindId
	KindIds
	KindLit
	KindArrayLit
	KindStructLit
	KindLinkLit
	KindCall
	KindArgs
	KindGetIndex
	KindGetStruct
	KindIndex
	KindInvalid
)

var nodeKindNames = map[NodeKind]string{
	KindCode: "Code", KindDefinitions: "Definitions", KindStructDefs: "StructDefs",
	KindStructDef: "StructDef", KindStructArgs: "StructArgs", KindStructArg: "StructArg",
	KindGlobalDefs: "GlobalDefs", KindFunDefs: "FunDefs", KindFunDef: "FunDef",
	KindParams: "Params", KindParam: "Param", KindBlock: "Block",
	KindVarDef: "VarDef", KindVarDefs: "VarDefs", KindAssign: "Assign",
	KindIf: "If", KindWhile: "While", KindRepeat: "Repeat",
	KindRepeatFor: "RepeatFor", KindRepeatForever: "RepeatForever",
	KindUnlink: "Unlink", KindQuit: "Quit", KindBreak: "Break",
	KindContinue: "Continue", KindReturn: "Return", KindBinOp: "BinOp",
	KindBinComp: "BinComp", KindIsLinked: "IsLinked", KindIsNotLinked: "IsNotLinked",
	KindBitNot: "BitNot", KindNeg: "Neg", KindAbs: "Abs", KindType: "Type",
	KindPointer: "Pointer", KindArrayDef: "ArrayDef", KindBounds: "Bounds",
	KindBound: "Bound", KindId: "Id", KindIds: "Ids", KindLit: "Lit",
	KindArrayLit: "ArrayLit", KindStructLit: "StructLit", KindLinkLit: "LinkLit",
	KindCall: "Call", KindArgs: "Args", KindGetIndex: "GetIndex",
	KindGetStruct: "GetStruct", KindIndex: "Index", KindInvalid: "Invalid",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Invalid"
}

// Node is the common interface implemented by every parse-tree
// struct. Every concrete kind fixes the length and meaning of
// Children() at construction time; absent optional children are
// represented as a nil entry in the slice rather than a shorter slice,
// so position-based access (Children()[i]) is always safe to use for
// a node's documented arity.
type Node interface {
	Kind() NodeKind
	Tok() Token
	Children() []Node
	Accept(Visitor) error
	Pretty() string
}

// baseNode factors out the fields every concrete node carries.
type baseNode struct {
	kind NodeKind
	tok  Token
	kids []Node
}

func (n *baseNode) Kind() NodeKind   { return n.kind }
func (n *baseNode) Tok() Token       { return n.tok }
func (n *baseNode) Children() []Node { return n.kids }

// genNode is the concrete Node used for every kind whose behavior is
// purely structural (no extra fields, no bespoke Accept dispatch
// beyond the generic visitor call). Kinds that the evaluator/analyzer
// inspect by dedicated field (Lit, Id, Type, BinOp, BinComp) get their
// own small struct below so callers don't have to re-parse the token
// lexeme at every visit.
type genNode struct{ baseNode }

func NewNode(kind NodeKind, tok Token, children ...Node) Node {
	return &genNode{baseNode{kind: kind, tok: tok, kids: children}}
}

func (n *genNode) Accept(v Visitor) error { return v.VisitGeneric(n) }

// IdNode carries an identifier's name redundantly as a field (besides
// the token lexeme) to save every caller a type switch on Tok().Lexeme.
type IdNode struct {
	baseNode
	Name string
}

func NewIdNode(name string, tok Token) *IdNode {
	return &IdNode{baseNode: baseNode{kind: KindId, tok: tok}, Name: name}
}
func (n *IdNode) Accept(v Visitor) error { return v.VisitId(n) }

// LitKind distinguishes the literal tag carried by a Lit node.
type LitKind int

const (
	LitNumber LitKind = iota
	LitText
)

// LitNode is a scalar literal: a number or a text constant.
type LitNode struct {
	baseNode
	LitKind LitKind
	Number  float64
	Text    string
}

func NewNumberLit(v float64, tok Token) *LitNode {
	return &LitNode{baseNode: baseNode{kind: KindLit, tok: tok}, LitKind: LitNumber, Number: v}
}
func NewTextLit(v string, tok Token) *LitNode {
	return &LitNode{baseNode: baseNode{kind: KindLit, tok: tok}, LitKind: LitText, Text: v}
}
func (n *LitNode) Accept(v Visitor) error { return v.VisitLit(n) }

// TypeNode names a basic type (a Type leaf per §4.1).
type TypeNode struct {
	baseNode
	Name string
}

func NewTypeNode(name string, tok Token) *TypeNode {
	return &TypeNode{baseNode: baseNode{kind: KindType, tok: tok}, Name: name}
}
func (n *TypeNode) Accept(v Visitor) error { return v.VisitType(n) }

// BinOpKind enumerates arithmetic/bitwise/text-concat operators.
type BinOpKind int

const (
	OpAdd BinOpKind = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
)

// BinOpNode is a binary arithmetic/bitwise/concatenation expression.
// Children() = [left, right].
type BinOpNode struct {
	baseNode
	Op BinOpKind
}

func NewBinOp(op BinOpKind, left, right Node, tok Token) *BinOpNode {
	return &BinOpNode{baseNode: baseNode{kind: KindBinOp, tok: tok, kids: []Node{left, right}}, Op: op}
}
func (n *BinOpNode) Accept(v Visitor) error { return v.VisitBinOp(n) }
func (n *BinOpNode) Left() Node             { return n.kids[0] }
func (n *BinOpNode) Right() Node            { return n.kids[1] }

// CompareKind enumerates the relational/boolean-connective operators.
type CompareKind int

const (
	CmpEq CompareKind = iota
	CmpNeq
	CmpLt
	CmpLte
	CmpGt
	CmpGte
	CmpAnd
	CmpOr
)

// BinCompNode is a relational or boolean-connective expression.
// Children() = [left, right].
type BinCompNode struct {
	baseNode
	Op CompareKind
}

func NewBinComp(op CompareKind, left, right Node, tok Token) *BinCompNode {
	return &BinCompNode{baseNode: baseNode{kind: KindBinComp, tok: tok, kids: []Node{left, right}}, Op: op}
}
func (n *BinCompNode) Accept(v Visitor) error { return v.VisitBinComp(n) }
func (n *BinCompNode) Left() Node             { return n.kids[0] }
func (n *BinCompNode) Right() Node            { return n.kids[1] }

// Pretty renders any node as an indented ASCII tree, modeled on the
// teacher's box-drawing tree printer.
func Pretty(n Node) string {
	var p prettyPrinter
	p.visit(n, "", true)
	return p.out.String()
}

func (n *genNode) Pretty() string     { return Pretty(n) }
func (n *IdNode) Pretty() string      { return Pretty(n) }
func (n *LitNode) Pretty() string     { return Pretty(n) }
func (n *TypeNode) Pretty() string    { return Pretty(n) }
func (n *BinOpNode) Pretty() string   { return Pretty(n) }
func (n *BinCompNode) Pretty() string { return Pretty(n) }

func nodeLabel(n Node) string {
	switch t := n.(type) {
	case *IdNode:
		return fmt.Sprintf("Id[%s]", t.Name)
	case *LitNode:
		if t.LitKind == LitText {
			return fmt.Sprintf("Lit[%q]", t.Text)
		}
		return fmt.Sprintf("Lit[%g]", t.Number)
	case *TypeNode:
		return fmt.Sprintf("Type[%s]", t.Name)
	case *BinOpNode:
		return fmt.Sprintf("BinOp[%s]", binOpSymbol[t.Op])
	case *BinCompNode:
		return fmt.Sprintf("BinComp[%s]", compareSymbol[t.Op])
	default:
		return n.Kind().String()
	}
}

var binOpSymbol = map[BinOpKind]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpPow: "^", OpMod: "mod",
	OpBitAnd: "band", OpBitOr: "bor", OpBitXor: "bxor", OpShl: "shl", OpShr: "shr",
}

var compareSymbol = map[CompareKind]string{
	CmpEq: "=", CmpNeq: "!=", CmpLt: "<", CmpLte: "<=", CmpGt: ">", CmpGte: ">=",
	CmpAnd: "and", CmpOr: "or",
}
