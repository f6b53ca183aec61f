/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package decoder

import (
	"fmt"

	"devt.de/krotik/bonsai/ast"
	"devt.de/krotik/bonsai/binder"
)

// Late-bound operations
// =====================
//
// The nodes produced here carry no behavior which depends on operand types.
// Their concrete behavior is selected by the binder when they are evaluated.

/*
decodeOperator decodes an operator node. Nodes with one operand are unary
operators, nodes with two operands are binary operators.
*/
func decodeOperator(d *Decoder, node []interface{}, path []int, sc Scope) (ast.Node, error) {
	op := node[0].(string)

	switch {

	case len(node) == 2 && binder.IsUnaryOperator(op):

		operand, err := d.decodeOperand(node, 1, path, sc)
		if err != nil {
			return nil, err
		}

		return &ast.UnaryOp{Op: op, Operand: operand}, nil

	case len(node) == 3 && binder.IsBinaryOperator(op):

		operands, err := d.decodeOperands(node, 1, path, sc)
		if err != nil {
			return nil, err
		}

		return &ast.BinaryOp{Op: op, Left: operands[0], Right: operands[1]}, nil
	}

	return nil, d.newDecodeError(ErrMalformedNode,
		fmt.Sprintf("Operator %v cannot be applied to %v operands", op, len(node)-1), path)
}

/*
decodeAssign decodes ["=", target, value]. The target must be a frame/slot
reference.
*/
func decodeAssign(d *Decoder, node []interface{}, path []int, sc Scope) (ast.Node, error) {

	if err := d.checkArity(node, 3, path); err != nil {
		return nil, err
	}

	target, err := d.decodeOperand(node, 1, path, sc)
	if err != nil {
		return nil, err
	}

	param, ok := target.(*ast.Parameter)
	if !ok {
		return nil, d.newDecodeError(ErrInvalidAssignmentTarget,
			fmt.Sprintf("Cannot assign to %v node", target.Kind()), childPath(path, 1))
	} else if !param.Resolved {
		return nil, d.newDecodeError(ErrInvalidAssignmentTarget,
			fmt.Sprintf("Cannot assign to free variable %v", param.Name), childPath(path, 1))
	}

	val, err := d.decodeOperand(node, 2, path, sc)
	if err != nil {
		return nil, err
	}

	return &ast.Assign{Target: param, Value: val}, nil
}

/*
decodeMemberAccess decodes [".", name, target].
*/
func decodeMemberAccess(d *Decoder, node []interface{}, path []int, sc Scope) (ast.Node, error) {

	if err := d.checkArity(node, 3, path); err != nil {
		return nil, err
	}

	name, ok := node[1].(string)
	if !ok {
		return nil, d.newDecodeError(ErrMalformedNode,
			fmt.Sprintf("Member name must be a string not %T", node[1]), path)
	}

	target, err := d.decodeOperand(node, 2, path, sc)
	if err != nil {
		return nil, err
	}

	return &ast.MemberAccess{Name: name, Target: target}, nil
}

/*
decodeInvocation decodes ["()", callee, arg0, arg1, ...]. The result of an
invocation is always produced, it is up to the enclosing node to use it.
*/
func decodeInvocation(d *Decoder, node []interface{}, path []int, sc Scope) (ast.Node, error) {

	if err := d.checkMinArity(node, 2, path); err != nil {
		return nil, err
	}

	operands, err := d.decodeOperands(node, 1, path, sc)
	if err != nil {
		return nil, err
	}

	return &ast.Invocation{Callee: operands[0], Args: operands[1:]}, nil
}

func decodeArrayIndex(d *Decoder, node []interface{}, path []int, sc Scope) (ast.Node, error) {

	if err := d.checkArity(node, 3, path); err != nil {
		return nil, err
	}

	operands, err := d.decodeOperands(node, 1, path, sc)
	if err != nil {
		return nil, err
	}

	return &ast.ArrayIndex{Target: operands[0], Index: operands[1]}, nil
}

func decodeArrayLength(d *Decoder, node []interface{}, path []int, sc Scope) (ast.Node, error) {

	if err := d.checkArity(node, 2, path); err != nil {
		return nil, err
	}

	target, err := d.decodeOperand(node, 1, path, sc)
	if err != nil {
		return nil, err
	}

	return &ast.ArrayLength{Target: target}, nil
}
