/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package decoder converts trees in Bonsai notation into decoded programs.

The input is a generic tree as produced by a JSON parser ([]interface{},
map[string]interface{}, strings, numbers, booleans and nil). Decode()
dispatches on the discriminator of each node, validates its operands and
resolves frame/slot references against the scope of the nodes which enclose
it. Operators, member access and invocations are decoded into late-bound
nodes which are resolved by the binder package at runtime.
*/
package decoder

import (
	"encoding/json"
	"fmt"
	"math"

	"devt.de/krotik/bonsai/ast"
	"devt.de/krotik/bonsai/value"
)

/*
decodeFunc decodes a single wire node with a known discriminator.
*/
type decodeFunc func(d *Decoder, node []interface{}, path []int, sc Scope) (ast.Node, error)

/*
Decode functions for all supported discriminators
*/
var decoderMap map[string]decodeFunc

func init() {
	decoderMap = map[string]decodeFunc{
		ast.NodeConstant:     decodeConstant,
		ast.NodeEmpty:        decodeEmpty,
		ast.NodeDefault:      decodeEmpty,
		ast.NodeParameter:    decodeParameter,
		ast.NodeBlock:        decodeBlock,
		ast.NodeLambda:       decodeLambda,
		ast.NodeReturn:       decodeReturn,
		ast.NodeConditional:  decodeConditional,
		ast.NodeNewArrayInit: decodeNewArrayInit,

		// Late-bound operations

		ast.NodeAssign:       decodeAssign,
		ast.NodeMemberAccess: decodeMemberAccess,
		ast.NodeInvocation:   decodeInvocation,
		ast.NodeArrayIndex:   decodeArrayIndex,
		ast.NodeArrayLength:  decodeArrayLength,

		ast.NodeAdd:                decodeOperator,
		ast.NodeSubtract:           decodeOperator,
		ast.NodeMultiply:           decodeOperator,
		ast.NodeDivide:             decodeOperator,
		ast.NodeModulo:             decodeOperator,
		ast.NodeEqual:              decodeOperator,
		ast.NodeNotEqual:           decodeOperator,
		ast.NodeLessThan:           decodeOperator,
		ast.NodeLessThanOrEqual:    decodeOperator,
		ast.NodeGreaterThan:        decodeOperator,
		ast.NodeGreaterThanOrEqual: decodeOperator,
		ast.NodeAndAlso:            decodeOperator,
		ast.NodeOrElse:             decodeOperator,
		ast.NodeCoalesce:           decodeOperator,
		ast.NodeNot:                decodeOperator,
	}
}

/*
Decoder decodes trees in Bonsai notation. A Decoder holds no state between
calls and can be used concurrently.
*/
type Decoder struct {
	Source string // Name to identify the input
}

/*
NewDecoder creates a new Decoder object.
*/
func NewDecoder(source string) *Decoder {
	return &Decoder{source}
}

/*
Decode decodes a given wire tree.
*/
func (d *Decoder) Decode(node interface{}) (ast.Node, error) {
	return d.decode(node, nil, NewScope())
}

/*
DecodeInScope decodes a given wire tree which is embedded in the given scope.
*/
func (d *Decoder) DecodeInScope(node interface{}, sc Scope) (ast.Node, error) {
	return d.decode(node, nil, sc)
}

/*
decode decodes a single node by dispatching on its discriminator.
*/
func (d *Decoder) decode(node interface{}, path []int, sc Scope) (ast.Node, error) {

	wn, ok := node.([]interface{})
	if !ok {
		return nil, d.newDecodeError(ErrMalformedNode,
			fmt.Sprintf("Node must be an array not %T", node), path)
	}

	if len(wn) == 0 {
		return nil, d.newDecodeError(ErrMalformedNode, "Node without discriminator", path)
	}

	discriminator, ok := wn[0].(string)
	if !ok {
		return nil, d.newDecodeError(ErrMalformedNode,
			fmt.Sprintf("Discriminator must be a string not %T", wn[0]), path)
	}

	df, ok := decoderMap[discriminator]
	if !ok {
		return nil, d.newDecodeError(ErrUnsupportedNodeKind, discriminator, path)
	}

	return df(d, wn, path, sc)
}

/*
decodeOperand decodes the operand at a given index of a node.
*/
func (d *Decoder) decodeOperand(node []interface{}, i int, path []int, sc Scope) (ast.Node, error) {
	return d.decode(node[i], childPath(path, i), sc)
}

/*
decodeOperands decodes all operands of a node starting from a given index.
*/
func (d *Decoder) decodeOperands(node []interface{}, start int, path []int, sc Scope) ([]ast.Node, error) {
	ret := make([]ast.Node, 0, len(node)-start)

	for i := start; i < len(node); i++ {
		n, err := d.decodeOperand(node, i, path, sc)
		if err != nil {
			return nil, err
		}
		ret = append(ret, n)
	}

	return ret, nil
}

/*
checkArity checks the number of elements of a node (including the
discriminator).
*/
func (d *Decoder) checkArity(node []interface{}, expected int, path []int) error {
	if len(node) != expected {
		return d.newDecodeError(ErrMalformedNode,
			fmt.Sprintf("%v node requires %v operands but has %v",
				node[0], expected-1, len(node)-1), path)
	}
	return nil
}

/*
checkMinArity checks the minimum number of elements of a node (including the
discriminator).
*/
func (d *Decoder) checkMinArity(node []interface{}, min int, path []int) error {
	if len(node) < min {
		return d.newDecodeError(ErrMalformedNode,
			fmt.Sprintf("%v node requires at least %v operands but has %v",
				node[0], min-1, len(node)-1), path)
	}
	return nil
}

/*
childPath returns the path of an operand.
*/
func childPath(path []int, i int) []int {
	return append(path[:len(path):len(path)], i)
}

/*
wireIndex converts a frame or slot index operand into an int.
*/
func wireIndex(v interface{}) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t == math.Trunc(t) && math.Abs(t) <= math.MaxInt32 {
			return int(t), true
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), true
		}
	}
	return 0, false
}

// Constants
// =========

func decodeConstant(d *Decoder, node []interface{}, path []int, sc Scope) (ast.Node, error) {

	if err := d.checkArity(node, 2, path); err != nil {
		return nil, err
	}

	v, err := value.FromLiteral(node[1])
	if err != nil {
		return nil, d.newDecodeError(ErrUnsupportedLiteral, err.Error(), childPath(path, 1))
	}

	return &ast.Constant{Value: v}, nil
}

func decodeEmpty(d *Decoder, node []interface{}, path []int, sc Scope) (ast.Node, error) {

	if err := d.checkArity(node, 1, path); err != nil {
		return nil, err
	}

	return &ast.Empty{}, nil
}

func decodeNewArrayInit(d *Decoder, node []interface{}, path []int, sc Scope) (ast.Node, error) {

	elements, err := d.decodeOperands(node, 1, path, sc)
	if err != nil {
		return nil, err
	}

	return &ast.NewArrayInit{Elements: elements}, nil
}

// Parameters and scopes
// =====================

/*
decodeParameter decodes a named parameter ["$", name] or a frame/slot
reference ["$", frame, slot].
*/
func decodeParameter(d *Decoder, node []interface{}, path []int, sc Scope) (ast.Node, error) {

	if len(node) == 2 {
		name, ok := node[1].(string)
		if !ok {
			return nil, d.newDecodeError(ErrMalformedNode,
				fmt.Sprintf("Parameter name must be a string not %T", node[1]), path)
		}

		return &ast.Parameter{Name: name}, nil
	}

	if err := d.checkArity(node, 3, path); err != nil {
		return nil, err
	}

	frame, ok1 := wireIndex(node[1])
	slot, ok2 := wireIndex(node[2])

	if !ok1 || !ok2 {
		return nil, d.newDecodeError(ErrMalformedNode,
			fmt.Sprintf("Frame and slot index must be integral numbers: %v, %v",
				node[1], node[2]), path)
	}

	ref, err := sc.Resolve(frame, slot)
	if err != nil {
		return nil, d.newDecodeError(ErrOutOfScopeReference, err.Error(), path)
	}

	return &ast.Parameter{Resolved: true, Ref: ref}, nil
}

/*
decodeBlock decodes ["{...}", locals, body]. Only the number of elements in
the locals array is used, it determines the size of the new frame.
*/
func decodeBlock(d *Decoder, node []interface{}, path []int, sc Scope) (ast.Node, error) {

	if err := d.checkArity(node, 3, path); err != nil {
		return nil, err
	}

	locals, ok := node[1].([]interface{})
	if !ok {
		return nil, d.newDecodeError(ErrMalformedNode,
			fmt.Sprintf("Block locals must be an array not %T", node[1]), path)
	}

	body, ok := node[2].([]interface{})
	if !ok {
		return nil, d.newDecodeError(ErrMalformedNode,
			fmt.Sprintf("Block body must be an array not %T", node[2]), path)
	}

	inner := sc.PushFrame(len(locals))
	bodyPath := childPath(path, 2)

	res := &ast.Block{Locals: len(locals), Body: make([]ast.Node, len(body))}

	for i := range body {
		n, err := d.decodeOperand(body, i, bodyPath, inner)
		if err != nil {
			return nil, err
		}
		res.Body[i] = n
	}

	return res, nil
}

/*
decodeLambda decodes ["=>", body, params]. The body is decoded in a new frame
with one slot per parameter and with a new return label.
*/
func decodeLambda(d *Decoder, node []interface{}, path []int, sc Scope) (ast.Node, error) {

	if err := d.checkArity(node, 3, path); err != nil {
		return nil, err
	}

	params, ok := node[2].([]interface{})
	if !ok {
		return nil, d.newDecodeError(ErrMalformedNode,
			fmt.Sprintf("Lambda parameters must be an array not %T", node[2]), path)
	}

	names := make([]string, len(params))
	for i, p := range params {
		if pn, ok := p.([]interface{}); ok && len(pn) == 2 && pn[0] == ast.NodeParameter {
			names[i], _ = pn[1].(string)
		}
	}

	inner, label := sc.PushFrame(len(params)).PushLabel()

	body, err := d.decodeOperand(node, 1, path, inner)
	if err != nil {
		return nil, err
	}

	return &ast.Lambda{Params: names, Body: body, Label: label}, nil
}

/*
decodeReturn decodes ["return", value]. The return targets the innermost
enclosing lambda.
*/
func decodeReturn(d *Decoder, node []interface{}, path []int, sc Scope) (ast.Node, error) {

	if err := d.checkArity(node, 2, path); err != nil {
		return nil, err
	}

	val, err := d.decodeOperand(node, 1, path, sc)
	if err != nil {
		return nil, err
	}

	label := sc.CurrentLabel()
	if label == nil {
		return nil, d.newDecodeError(ErrReturnOutsideFunction, "", path)
	}

	return &ast.Return{Target: label, Value: val}, nil
}

func decodeConditional(d *Decoder, node []interface{}, path []int, sc Scope) (ast.Node, error) {

	if err := d.checkArity(node, 4, path); err != nil {
		return nil, err
	}

	operands, err := d.decodeOperands(node, 1, path, sc)
	if err != nil {
		return nil, err
	}

	return &ast.Conditional{Test: operands[0], IfTrue: operands[1], IfFalse: operands[2]}, nil
}
