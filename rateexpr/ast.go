package rateexpr

// nodeKind discriminates the small AST this package compiles rate
// expressions into.
type nodeKind int

const (
	nodeNumber nodeKind = iota
	nodeIdent
	nodeNeg
	nodeBinary
	nodeCall
)

type node struct {
	kind   nodeKind
	number float64
	ident  string
	op     byte // '+', '-', '*', '/', '^'
	args   []*node
}

var builtinArity = map[string]int{
	"min": 2,
	"max": 2,
	"abs": 1,
	"exp": 1,
	"log": 1,
	"pow": 2,
}
