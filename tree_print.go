package teachlang

import "strings"

// prettyPrinter renders a Node tree using the same box-drawing
// connectors as the teacher's tree_printer.go: "├── " for a non-last
// child, "└── " for the last, with "│   "/"    " continuing the
// indentation underneath.
type prettyPrinter struct {
	out strings.Builder
}

func (p *prettyPrinter) visit(n Node, prefix string, isRoot bool) {
	if n == nil {
		p.out.WriteString(prefix + "(absent)\n")
		return
	}
	if isRoot {
		p.out.WriteString(nodeLabel(n) + "\n")
	}
	children := n.Children()
	for i, c := range children {
		last := i == len(children)-1
		connector := "├── "
		cont := "│   "
		if last {
			connector = "└── "
			cont = "    "
		}
		label := "(absent)"
		if c != nil {
			label = nodeLabel(c)
		}
		p.out.WriteString(prefix + connector + label + "\n")
		if c != nil {
			p.visit(c, prefix+cont, false)
		}
	}
}
