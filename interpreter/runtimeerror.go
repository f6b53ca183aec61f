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
	"errors"
	"fmt"

	"devt.de/krotik/bonsai/ast"
	"devt.de/krotik/bonsai/binder"
)

/*
newRuntimeError creates a new RuntimeError object.
*/
func (ip *Interpreter) newRuntimeError(t error, d string, node ast.Node) error {
	return &RuntimeError{ip.Source, t, d, node}
}

/*
wrapError converts an error which occurred while evaluating a given node into
a RuntimeError. Errors which already are RuntimeErrors are returned as they
are.
*/
func (ip *Interpreter) wrapError(err error, node ast.Node) error {
	var re *RuntimeError
	var be *binder.Error

	if errors.As(err, &re) {
		return re
	} else if errors.As(err, &be) {
		return ip.newRuntimeError(be.Type, be.Detail, node)
	}

	return ip.newRuntimeError(ErrCallFailed, err.Error(), node)
}

/*
RuntimeError is a runtime related error
*/
type RuntimeError struct {
	Source string   // Name of the source which was given to the interpreter
	Type   error    // Error type (to be used for equal checks)
	Detail string   // Details of this error
	Node   ast.Node // AST Node where the error occurred
}

/*
Error returns a human-readable string representation of this error.
*/
func (re *RuntimeError) Error() string {
	ret := fmt.Sprintf("Bonsai error in %s: %v", re.Source, re.Type)

	if re.Detail != "" {
		ret = fmt.Sprintf("%s (%v)", ret, re.Detail)
	}

	if re.Node != nil {
		ret = fmt.Sprintf("%s (Node:%v)", ret, re.Node.Kind())
	}

	return ret
}

/*
Unwrap returns the error type.
*/
func (re *RuntimeError) Unwrap() error {
	return re.Type
}

/*
Runtime related error types
*/
var (
	ErrUnboundName       = errors.New("Unbound name")
	ErrInvalidReference  = errors.New("Invalid frame reference")
	ErrCallDepthExceeded = errors.New("Maximum call depth exceeded")
	ErrCallFailed        = errors.New("Call failed")

	// Errors of late-bound operations

	ErrUnsupportedOperandTypes = binder.ErrUnsupportedOperandTypes
	ErrMissingMember           = binder.ErrMissingMember
	ErrNotCallable             = binder.ErrNotCallable
	ErrArityMismatch           = binder.ErrArityMismatch
	ErrIndexOutOfRange         = binder.ErrIndexOutOfRange
	ErrDivisionByZero          = binder.ErrDivisionByZero
)
