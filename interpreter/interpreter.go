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
Package interpreter contains the evaluator for decoded Bonsai programs.

Evaluation walks the decoded tree and maintains a stack of runtime frames
which mirrors the frames opened during decoding. Lambdas evaluate to closures
which share (not copy) the frames which were open when they were created.

A return does not use panics or any other unwinding mechanism of the host
language. Every evaluation step produces a completion record which is either
normal or returning; blocks and operators stop at the first returning
completion and hand it upwards until the lambda which owns the return label
converts it into the call result.
*/
package interpreter

import (
	"fmt"

	"devt.de/krotik/bonsai/ast"
	"devt.de/krotik/bonsai/binder"
	"devt.de/krotik/bonsai/value"
	"devt.de/krotik/ecal/util"
)

/*
DefaultMaxCallDepth is the default maximum number of nested lambda calls
*/
const DefaultMaxCallDepth = 1000

/*
Interpreter evaluates decoded programs.
*/
type Interpreter struct {
	Source       string      // Name to identify the input
	Logger       util.Logger // Logger for debug output
	MaxCallDepth int         // Maximum number of nested lambda calls
}

/*
NewInterpreter creates a new Interpreter object. If no logger is given
then all log output is discarded.
*/
func NewInterpreter(source string, logger util.Logger) *Interpreter {
	if logger == nil {
		logger = util.NewNullLogger()
	}
	return &Interpreter{source, logger, DefaultMaxCallDepth}
}

/*
Evaluate evaluates a given tree. The bindings must contain a value for every
free variable of the tree (see ast.FreeVariables).
*/
func (ip *Interpreter) Evaluate(root ast.Node, bindings map[string]value.Value) (value.Value, error) {

	if bindings == nil {
		bindings = map[string]value.Value{}
	}

	ev := &evaluation{ip, bindings, 0}

	ip.Logger.LogDebug(fmt.Sprintf("Evaluating %v with %v binding(s)", ip.Source, len(bindings)))

	res, err := ev.eval(root, nil)

	if err != nil {
		ip.Logger.LogDebug(err)
		return value.Null(), err
	}

	// A return outside of a lambda is rejected by the decoder

	if res.returning {
		return value.Null(), ip.newRuntimeError(ErrInvalidReference,
			fmt.Sprintf("Return to %v outside of its lambda", res.target), root)
	}

	return res.val, nil
}

// Runtime data structures
// =======================

/*
frame holds the slot values of a block or of a lambda call.
*/
type frame struct {
	slots []value.Value
}

/*
frameStack is the stack of open frames (outermost first). Copies of a
frameStack share their frames.
*/
type frameStack []*frame

/*
push returns a new stack with an additional frame. The receiver is not
modified.
*/
func (fs frameStack) push(f *frame) frameStack {
	return append(fs[:len(fs):len(fs)], f)
}

/*
slot returns a pointer to a referenced slot.
*/
func (fs frameStack) slot(ref ast.SlotRef) (*value.Value, bool) {
	if ref.Frame < 0 || ref.Frame >= len(fs) {
		return nil, false
	}

	f := fs[ref.Frame]

	if ref.Slot < 0 || ref.Slot >= len(f.slots) {
		return nil, false
	}

	return &f.slots[ref.Slot], true
}

/*
completion is the result of an evaluation step.
*/
type completion struct {
	val       value.Value // Produced value
	returning bool        // Flag if a return is in progress
	target    *ast.Label  // Return target
}

/*
normal returns a normal completion.
*/
func normal(v value.Value) completion {
	return completion{val: v}
}

/*
evaluation is the state of a single Evaluate call.
*/
type evaluation struct {
	ip       *Interpreter
	bindings map[string]value.Value
	depth    int
}

/*
evalAll evaluates a list of nodes from left to right. Stops at the first
returning completion which is returned as second result.
*/
func (ev *evaluation) evalAll(nodes []ast.Node, env frameStack) ([]value.Value, *completion, error) {
	vals := make([]value.Value, len(nodes))

	for i, n := range nodes {
		res, err := ev.eval(n, env)

		if err != nil {
			return nil, nil, err
		} else if res.returning {
			return nil, &res, nil
		}

		vals[i] = res.val
	}

	return vals, nil, nil
}

/*
eval evaluates a single node.
*/
func (ev *evaluation) eval(node ast.Node, env frameStack) (completion, error) {

	switch n := node.(type) {

	case *ast.Constant:
		return normal(n.Value), nil

	case *ast.Empty:
		return normal(value.Null()), nil

	case *ast.Parameter:
		return ev.evalParameter(n, env)

	case *ast.Block:
		return ev.evalBlock(n, env)

	case *ast.Lambda:
		return normal(value.Func(&closure{ev, n, env})), nil

	case *ast.Return:
		res, err := ev.eval(n.Value, env)
		if err != nil || res.returning {
			return res, err
		}
		return completion{res.val, true, n.Target}, nil

	case *ast.Assign:
		return ev.evalAssign(n, env)

	case *ast.BinaryOp:
		return ev.evalBinary(n, env)

	case *ast.Conditional:
		return ev.evalConditional(n, env)

	case *ast.Invocation:
		return ev.evalInvocation(n, env)
	}

	return ev.evalOperation(node, env)
}

/*
evalParameter reads a slot or the binding of a free variable.
*/
func (ev *evaluation) evalParameter(n *ast.Parameter, env frameStack) (completion, error) {

	if !n.Resolved {
		v, ok := ev.bindings[n.Name]
		if !ok {
			return completion{}, ev.ip.newRuntimeError(ErrUnboundName, n.Name, n)
		}
		return normal(v), nil
	}

	slot, ok := env.slot(n.Ref)
	if !ok {
		return completion{}, ev.ip.newRuntimeError(ErrInvalidReference, n.Ref.String(), n)
	}

	return normal(*slot), nil
}

/*
evalBlock evaluates the body of a block in a new frame.
*/
func (ev *evaluation) evalBlock(n *ast.Block, env frameStack) (completion, error) {
	inner := env.push(&frame{make([]value.Value, n.Locals)})
	res := normal(value.Null())

	for _, c := range n.Body {
		var err error

		if res, err = ev.eval(c, inner); err != nil || res.returning {
			return res, err
		}
	}

	return res, nil
}

/*
evalAssign stores a value in a slot. The assignment yields the stored value.
*/
func (ev *evaluation) evalAssign(n *ast.Assign, env frameStack) (completion, error) {

	res, err := ev.eval(n.Value, env)
	if err != nil || res.returning {
		return res, err
	}

	slot, ok := env.slot(n.Target.Ref)
	if !ok {
		return completion{}, ev.ip.newRuntimeError(ErrInvalidReference, n.Target.Ref.String(), n)
	}

	*slot = res.val

	return res, nil
}

/*
evalBinary evaluates a binary operator. The right operand of short circuit
operators is only evaluated if the left operand does not determine the
result.
*/
func (ev *evaluation) evalBinary(n *ast.BinaryOp, env frameStack) (completion, error) {

	left, err := ev.eval(n.Left, env)
	if err != nil || left.returning {
		return left, err
	}

	if ast.IsShortCircuit(n.Op) {
		res, done, err := binder.ShortCircuit(n.Op, left.val)
		if err != nil {
			return completion{}, ev.ip.wrapError(err, n)
		} else if done {
			return normal(res), nil
		}
	}

	right, err := ev.eval(n.Right, env)
	if err != nil || right.returning {
		return right, err
	}

	res, err := binder.Binary(n.Op, left.val, right.val)
	if err != nil {
		return completion{}, ev.ip.wrapError(err, n)
	}

	return normal(res), nil
}

func (ev *evaluation) evalConditional(n *ast.Conditional, env frameStack) (completion, error) {

	test, err := ev.eval(n.Test, env)
	if err != nil || test.returning {
		return test, err
	}

	b, err := binder.Truth(ast.NodeConditional, test.val)
	if err != nil {
		return completion{}, ev.ip.wrapError(err, n)
	}

	if b {
		return ev.eval(n.IfTrue, env)
	}

	return ev.eval(n.IfFalse, env)
}

/*
evalInvocation evaluates the callee and then all arguments from left to
right before the callee is invoked.
*/
func (ev *evaluation) evalInvocation(n *ast.Invocation, env frameStack) (completion, error) {

	callee, err := ev.eval(n.Callee, env)
	if err != nil || callee.returning {
		return callee, err
	}

	args, ret, err := ev.evalAll(n.Args, env)
	if err != nil {
		return completion{}, err
	} else if ret != nil {
		return *ret, nil
	}

	res, err := binder.Invoke(callee.val, args)
	if err != nil {
		return completion{}, ev.ip.wrapError(err, n)
	}

	return normal(res), nil
}

/*
evalOperation evaluates all remaining late-bound operations. The children of
these nodes are evaluated from left to right before the operation is bound.
*/
func (ev *evaluation) evalOperation(node ast.Node, env frameStack) (completion, error) {
	var res value.Value

	vals, ret, err := ev.evalAll(node.Children(), env)
	if err != nil {
		return completion{}, err
	} else if ret != nil {
		return *ret, nil
	}

	switch n := node.(type) {
	case *ast.UnaryOp:
		res, err = binder.Unary(n.Op, vals[0])
	case *ast.MemberAccess:
		res, err = binder.GetMember(vals[0], n.Name)
	case *ast.ArrayIndex:
		res, err = binder.Index(vals[0], vals[1])
	case *ast.ArrayLength:
		res, err = binder.Length(vals[0])
	case *ast.NewArrayInit:
		res = value.List(vals)
	default:
		err = fmt.Errorf("Unknown node type %T", node)
	}

	if err != nil {
		return completion{}, ev.ip.wrapError(err, node)
	}

	return normal(res), nil
}
