// Package expr holds the parsed form of a filter: a small tree of nodes
// produced by ParseFilter and consumed by every target domain.
package expr

import (
	"strings"

	"github.com/lytics/odataql/lex"
	"github.com/lytics/odataql/value"
)

// NodeType names the kind of a Node.
type NodeType uint8

const (
	LiteralNodeType NodeType = iota + 1
	IdentityNodeType
	FuncNodeType
	BinaryNodeType
	BooleanNodeType
	ArrayNodeType
)

var nodeTypeNames = map[NodeType]string{
	LiteralNodeType:  "Literal",
	IdentityNodeType: "Identity",
	FuncNodeType:     "Func",
	BinaryNodeType:   "Binary",
	BooleanNodeType:  "Boolean",
	ArrayNodeType:    "Array",
}

func (t NodeType) String() string { return nodeTypeNames[t] }

type (
	// Node is an element of a parsed filter. String renders the node as
	// filter text that parses back to an equal tree.
	Node interface {
		NodeType() NodeType
		String() string
		Equal(Node) bool
	}

	// LiteralNode is a number, date, time or quoted string. Text is the
	// raw token; Value its classification under the default chain.
	LiteralNode struct {
		Text  string
		Value value.Value
	}

	// IdentityNode is a bare word: a dotted field path, or one of the
	// keywords true, false and null which classify as literals.
	IdentityNode struct {
		Text string
	}

	// FuncNode is a function call; Func is FuncUnknown for names outside
	// the built-in set, which fails at interpretation.
	FuncNode struct {
		Name string
		Func lex.Function
		Args []Node
	}

	// BinaryNode is a single condition: left operator right.
	BinaryNode struct {
		Operator lex.Operator
		Args     [2]Node
	}

	// BooleanNode is a flattened run of two or more conditions joined by
	// the same AND or OR.
	BooleanNode struct {
		Operator lex.Operator
		Args     []Node
	}

	// ArrayNode is a bracketed collection.
	ArrayNode struct {
		Args []Node
	}
)

func NewIdentityNode(text string) *IdentityNode { return &IdentityNode{Text: text} }

func NewBinaryNode(op lex.Operator, lhs, rhs Node) *BinaryNode {
	return &BinaryNode{Operator: op, Args: [2]Node{lhs, rhs}}
}

func (m *LiteralNode) NodeType() NodeType { return LiteralNodeType }
func (m *LiteralNode) String() string     { return m.Text }
func (m *LiteralNode) Equal(n Node) bool {
	o, ok := n.(*LiteralNode)
	return ok && m.Text == o.Text
}

func (m *IdentityNode) NodeType() NodeType { return IdentityNodeType }
func (m *IdentityNode) String() string     { return m.Text }
func (m *IdentityNode) Equal(n Node) bool {
	o, ok := n.(*IdentityNode)
	return ok && m.Text == o.Text
}

func (m *FuncNode) NodeType() NodeType { return FuncNodeType }
func (m *FuncNode) String() string {
	return m.Name + "(" + joinNodes(m.Args, ", ") + ")"
}
func (m *FuncNode) Equal(n Node) bool {
	o, ok := n.(*FuncNode)
	return ok && m.Name == o.Name && m.Func == o.Func && equalNodes(m.Args, o.Args)
}

func (m *BinaryNode) NodeType() NodeType { return BinaryNodeType }
func (m *BinaryNode) String() string {
	return m.Args[0].String() + " " + m.Operator.String() + " " + m.Args[1].String()
}
func (m *BinaryNode) Equal(n Node) bool {
	o, ok := n.(*BinaryNode)
	return ok && m.Operator == o.Operator && equalNodes(m.Args[:], o.Args[:])
}

func (m *BooleanNode) NodeType() NodeType { return BooleanNodeType }
func (m *BooleanNode) String() string {
	return joinNodes(m.Args, " "+m.Operator.String()+" ")
}
func (m *BooleanNode) Equal(n Node) bool {
	o, ok := n.(*BooleanNode)
	return ok && m.Operator == o.Operator && equalNodes(m.Args, o.Args)
}

func (m *ArrayNode) NodeType() NodeType { return ArrayNodeType }
func (m *ArrayNode) String() string     { return "[" + joinNodes(m.Args, ", ") + "]" }
func (m *ArrayNode) Equal(n Node) bool {
	o, ok := n.(*ArrayNode)
	return ok && equalNodes(m.Args, o.Args)
}

func joinNodes(nodes []Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}

func equalNodes(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
