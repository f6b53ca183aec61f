/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package interpreter

import (
	"fmt"
	"strings"

	"devt.de/krotik/bonsai/ast"
	"devt.de/krotik/bonsai/value"
	"devt.de/krotik/common/errorutil"
)

/*
closure is the callable which is produced by evaluating a lambda. It holds
the frames which were open when the lambda was evaluated. Assignments to
these frames are visible to the closure and vice versa.
*/
type closure struct {
	ev   *evaluation
	node *ast.Lambda
	env  frameStack
}

/*
Name returns a descriptive name of the closure.
*/
func (c *closure) Name() string {
	return fmt.Sprintf("lambda(%v)", strings.Join(c.node.Params, ", "))
}

/*
Arity returns the number of declared parameters.
*/
func (c *closure) Arity() int {
	return len(c.node.Params)
}

/*
Call runs the lambda body in a new frame which holds the arguments. A body
which completes without a return yields null.
*/
func (c *closure) Call(args []value.Value) (value.Value, error) {
	ev := c.ev

	if len(args) != c.Arity() {
		return value.Null(), ev.ip.newRuntimeError(ErrArityMismatch,
			fmt.Sprintf("%v expects %v arguments but got %v", c.Name(), c.Arity(), len(args)), c.node)
	}

	if ev.depth >= ev.ip.MaxCallDepth {
		return value.Null(), ev.ip.newRuntimeError(ErrCallDepthExceeded,
			fmt.Sprint(ev.ip.MaxCallDepth), c.node)
	}

	ev.depth++
	defer func() {
		ev.depth--
	}()

	slots := make([]value.Value, len(args))
	copy(slots, args)

	res, err := ev.eval(c.node.Body, c.env.push(&frame{slots}))

	if err != nil {
		return value.Null(), err
	}

	if res.returning {
		errorutil.AssertTrue(res.target == c.node.Label,
			fmt.Sprintf("Unexpected return target %v in lambda with %v", res.target, c.node.Label))

		return res.val, nil
	}

	return value.Null(), nil
}
