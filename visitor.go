package teachlang

// Visitor is the double-dispatch target of every Node's Accept, mirroring the teacher's
// AstNodeVisitor dispatch. The analyzer and the evaluator do not
// implement it; they dispatch on Node.Kind() with a switch.
//
// Most kinds carry no bespoke payload, so VisitGeneric handles them;
// a handful of kinds (Id, Lit, Type, BinOp, BinComp) have dedicated
// struct types and therefore dedicated Visit methods.
type Visitor interface {
	VisitGeneric(n Node) error
	VisitId(n *IdNode) error
	VisitLit(n *LitNode) error
	VisitType(n *TypeNode) error
	VisitBinOp(n *BinOpNode) error
	VisitBinComp(n *BinCompNode) error
}

// Walk calls fn for n and then recursively for every non-nil child,
// pre-order. It stops and returns the first non-nil error.
func Walk(n Node, fn func(Node) error) error {
	if n == nil {
		return nil
	}
	if err := fn(n); err != nil {
		return err
	}
	for _, c := range n.Children() {
		if c == nil {
			continue
		}
		if err := Walk(c, fn); err != nil {
			return err
		}
	}
	return nil
}
