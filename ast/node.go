/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package ast

import (
	"fmt"

	"devt.de/krotik/bonsai/value"
)

/*
Node is a node of a decoded program. Every node type corresponds to one
discriminator of the wire format and owns its children exclusively.
*/
type Node interface {

	/*
	   Kind returns the discriminator of this node.
	*/
	Kind() string

	/*
	   Children returns all child nodes in wire order.
	*/
	Children() []Node
}

/*
SlotRef identifies a slot in a frame. Frame indices count from the outermost
open frame (index 0).
*/
type SlotRef struct {
	Frame int
	Slot  int
}

/*
String returns a string representation of this slot reference.
*/
func (sr SlotRef) String() string {
	return fmt.Sprintf("(%d, %d)", sr.Frame, sr.Slot)
}

/*
Label is the return target of a lambda.
*/
type Label struct {
	Depth int // Lambda nesting depth of the label owner
}

/*
String returns a string representation of this label.
*/
func (l *Label) String() string {
	return fmt.Sprintf("label@%d", l.Depth)
}

/*
Constant is a literal value.
*/
type Constant struct {
	Value value.Value
}

/*
Empty produces the default value (null).
*/
type Empty struct {
}

/*
Parameter is a reference to a slot or - if unresolved - to a named free
variable which needs to be supplied by the host.
*/
type Parameter struct {
	Name     string  // Name of an unresolved parameter
	Resolved bool    // Flag if this parameter references a slot
	Ref      SlotRef // Referenced slot of a resolved parameter
}

/*
Lambda creates a callable. The body runs in a new frame which holds the
arguments.
*/
type Lambda struct {
	Params []string // Declared parameter names (documentation only)
	Body   Node     // Function body
	Label  *Label   // Return target for the body
}

/*
Block evaluates its body in a new frame and yields the value of the last
body element.
*/
type Block struct {
	Locals int    // Number of slots in the new frame
	Body   []Node // Body elements
}

/*
Assign stores a value into a slot.
*/
type Assign struct {
	Target *Parameter
	Value  Node
}

/*
BinaryOp is an operator with two operands which is bound at runtime.
*/
type BinaryOp struct {
	Op    string
	Left  Node
	Right Node
}

/*
UnaryOp is an operator with one operand which is bound at runtime.
*/
type UnaryOp struct {
	Op      string
	Operand Node
}

/*
Conditional evaluates one of two branches depending on a boolean test.
*/
type Conditional struct {
	Test    Node
	IfTrue  Node
	IfFalse Node
}

/*
MemberAccess looks up a named member of a value at runtime.
*/
type MemberAccess struct {
	Name   string
	Target Node
}

/*
ArrayIndex looks up an element of a sequence or a record at runtime.
*/
type ArrayIndex struct {
	Target Node
	Index  Node
}

/*
ArrayLength returns the length of a sequence, record or string.
*/
type ArrayLength struct {
	Target Node
}

/*
NewArrayInit creates a new sequence.
*/
type NewArrayInit struct {
	Elements []Node
}

/*
Invocation calls a callable with positional arguments.
*/
type Invocation struct {
	Callee Node
	Args   []Node
}

/*
Return leaves the lambda which owns the target label.
*/
type Return struct {
	Target *Label
	Value  Node
}

// Kind and children of all node types
// ===================================

func (n *Constant) Kind() string         { return NodeConstant }
func (n *Constant) Children() []Node     { return nil }
func (n *Empty) Kind() string            { return NodeEmpty }
func (n *Empty) Children() []Node        { return nil }
func (n *Parameter) Kind() string        { return NodeParameter }
func (n *Parameter) Children() []Node    { return nil }
func (n *Lambda) Kind() string           { return NodeLambda }
func (n *Lambda) Children() []Node       { return []Node{n.Body} }
func (n *Block) Kind() string            { return NodeBlock }
func (n *Block) Children() []Node        { return n.Body }
func (n *Assign) Kind() string           { return NodeAssign }
func (n *Assign) Children() []Node       { return []Node{n.Target, n.Value} }
func (n *BinaryOp) Kind() string         { return n.Op }
func (n *BinaryOp) Children() []Node     { return []Node{n.Left, n.Right} }
func (n *UnaryOp) Kind() string          { return n.Op }
func (n *UnaryOp) Children() []Node      { return []Node{n.Operand} }
func (n *Conditional) Kind() string      { return NodeConditional }
func (n *Conditional) Children() []Node  { return []Node{n.Test, n.IfTrue, n.IfFalse} }
func (n *MemberAccess) Kind() string     { return NodeMemberAccess }
func (n *MemberAccess) Children() []Node { return []Node{n.Target} }
func (n *ArrayIndex) Kind() string       { return NodeArrayIndex }
func (n *ArrayIndex) Children() []Node   { return []Node{n.Target, n.Index} }
func (n *ArrayLength) Kind() string      { return NodeArrayLength }
func (n *ArrayLength) Children() []Node  { return []Node{n.Target} }
func (n *NewArrayInit) Kind() string     { return NodeNewArrayInit }
func (n *NewArrayInit) Children() []Node { return n.Elements }
func (n *Return) Kind() string           { return NodeReturn }
func (n *Return) Children() []Node       { return []Node{n.Value} }

func (n *Invocation) Kind() string { return NodeInvocation }
func (n *Invocation) Children() []Node {
	return append([]Node{n.Callee}, n.Args...)
}

/*
Walk traverses the tree starting with a given root and calls a given visitor
function on each node (depth-first, children in wire order).
*/
func Walk(root Node, visitor func(Node)) {

	visitor(root)

	for _, child := range root.Children() {
		Walk(child, visitor)
	}
}
