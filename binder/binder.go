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
Package binder contains the late-bound operations of Bonsai programs.

Operators, member access, indexing and invocation carry no statically
resolved behavior. The functions in this package select the concrete
behavior from the runtime kinds of the operand values (duck typing). The
dispatch is a match over value kinds which keeps a fixed fallback order, e.g.
for + numbers are added before strings are concatenated.
*/
package binder

import (
	"errors"
	"fmt"

	"devt.de/krotik/bonsai/value"
	"devt.de/krotik/common/stringutil"
)

/*
Error is a binding related error
*/
type Error struct {
	Type   error  // Error type (to be used for equal checks)
	Detail string // Details of this error
}

/*
Error returns a human-readable string representation of this error.
*/
func (be *Error) Error() string {
	if be.Detail != "" {
		return fmt.Sprintf("%v (%v)", be.Type, be.Detail)
	}
	return be.Type.Error()
}

/*
Unwrap returns the error type.
*/
func (be *Error) Unwrap() error {
	return be.Type
}

/*
Binding related error types
*/
var (
	ErrUnsupportedOperandTypes = errors.New("Unsupported operand types")
	ErrMissingMember           = errors.New("Missing member")
	ErrNotCallable             = errors.New("Value is not callable")
	ErrArityMismatch           = errors.New("Argument count mismatch")
	ErrIndexOutOfRange         = errors.New("Index out of range")
	ErrDivisionByZero          = errors.New("Division by zero")
)

/*
unsupported creates an error for an operator which cannot be applied to the
given operands.
*/
func unsupported(op string, operands ...value.Value) error {
	kinds := make([]interface{}, len(operands))
	for i, o := range operands {
		kinds[i] = o.Kind
	}

	detail := fmt.Sprintf("Cannot apply %v to %v", op, kinds[0])
	if len(kinds) > 1 {
		detail = fmt.Sprintf("Cannot apply %v to %v and %v", op, kinds[0], kinds[1])
	}

	return &Error{ErrUnsupportedOperandTypes, detail}
}

// Member access and indexing
// ==========================

/*
GetMember looks up a named member of a value. Only records have members.
*/
func GetMember(target value.Value, name string) (value.Value, error) {

	if target.Kind != value.KindRecord {
		return value.Null(), &Error{ErrUnsupportedOperandTypes,
			fmt.Sprintf("Cannot access member %v of %v", name, target.Kind)}
	}

	res, ok := target.R[name]
	if !ok {
		return value.Null(), &Error{ErrMissingMember, name}
	}

	return res, nil
}

/*
Index looks up an element of a sequence or string by an integral index or a
member of a record by a string key.
*/
func Index(target value.Value, index value.Value) (value.Value, error) {

	switch target.Kind {

	case value.KindList, value.KindString:

		if index.Kind == value.KindInt {
			l := len(target.L)
			var runes []rune

			if target.Kind == value.KindString {
				runes = []rune(target.S)
				l = len(runes)
			}

			if index.I < 0 || index.I >= int64(l) {
				return value.Null(), &Error{ErrIndexOutOfRange,
					fmt.Sprintf("%v not in [0, %v)", index.I, l)}
			}

			if runes != nil {
				return value.String(string(runes[index.I])), nil
			}

			return target.L[index.I], nil
		}

	case value.KindRecord:

		if index.Kind == value.KindString {
			return GetMember(target, index.S)
		}
	}

	return value.Null(), unsupported("[]", target, index)
}

/*
Length returns the number of elements of a sequence, record or string.
*/
func Length(target value.Value) (value.Value, error) {

	switch target.Kind {
	case value.KindList:
		return value.Int(int64(len(target.L))), nil
	case value.KindRecord:
		return value.Int(int64(len(target.R))), nil
	case value.KindString:
		return value.Int(int64(len([]rune(target.S)))), nil
	}

	return value.Null(), unsupported("#", target)
}

// Invocation
// ==========

/*
Invoke calls a callable value with positional arguments.
*/
func Invoke(callee value.Value, args []value.Value) (value.Value, error) {

	if callee.Kind != value.KindCallable {
		return value.Null(), &Error{ErrNotCallable,
			fmt.Sprintf("Cannot call value of kind %v", callee.Kind)}
	}

	fn := callee.Fn

	if arity := fn.Arity(); arity >= 0 && arity != len(args) {
		return value.Null(), &Error{ErrArityMismatch,
			fmt.Sprintf("%v expects %v argument%v but got %v", fn.Name(),
				arity, stringutil.Plural(arity), len(args))}
	}

	return fn.Call(args)
}
