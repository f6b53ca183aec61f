/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package binder

import (
	"math"

	"devt.de/krotik/bonsai/ast"
	"devt.de/krotik/bonsai/value"
)

/*
BinaryFunc is the implementation of a binary operator.
*/
type BinaryFunc func(a, b value.Value) (value.Value, error)

/*
UnaryFunc is the implementation of a unary operator.
*/
type UnaryFunc func(a value.Value) (value.Value, error)

/*
Binary operator table
*/
var binaryOperators = map[string]BinaryFunc{
	ast.NodeAdd:      add,
	ast.NodeSubtract: arithmetic(ast.NodeSubtract, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }),
	ast.NodeMultiply: arithmetic(ast.NodeMultiply, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }),
	ast.NodeDivide:   divide,
	ast.NodeModulo:   modulo,

	ast.NodeEqual:    func(a, b value.Value) (value.Value, error) { return value.Bool(value.Equal(a, b)), nil },
	ast.NodeNotEqual: func(a, b value.Value) (value.Value, error) { return value.Bool(!value.Equal(a, b)), nil },

	ast.NodeLessThan:           comparison(ast.NodeLessThan, func(c int) bool { return c < 0 }),
	ast.NodeLessThanOrEqual:    comparison(ast.NodeLessThanOrEqual, func(c int) bool { return c <= 0 }),
	ast.NodeGreaterThan:        comparison(ast.NodeGreaterThan, func(c int) bool { return c > 0 }),
	ast.NodeGreaterThanOrEqual: comparison(ast.NodeGreaterThanOrEqual, func(c int) bool { return c >= 0 }),

	ast.NodeAndAlso: logical(ast.NodeAndAlso, func(a, b bool) bool { return a && b }),
	ast.NodeOrElse:  logical(ast.NodeOrElse, func(a, b bool) bool { return a || b }),
	ast.NodeCoalesce: func(a, b value.Value) (value.Value, error) {
		if a.IsNull() {
			return b, nil
		}
		return a, nil
	},
}

/*
Unary operator table
*/
var unaryOperators = map[string]UnaryFunc{
	ast.NodeNot: func(a value.Value) (value.Value, error) {
		if a.Kind != value.KindBool {
			return value.Null(), unsupported(ast.NodeNot, a)
		}
		return value.Bool(!a.B), nil
	},
	ast.NodeNegate: func(a value.Value) (value.Value, error) {
		switch a.Kind {
		case value.KindInt:
			return value.Int(-a.I), nil
		case value.KindFloat:
			return value.Float(-a.F), nil
		}
		return value.Null(), unsupported(ast.NodeNegate, a)
	},
	ast.NodeUnaryPlus: func(a value.Value) (value.Value, error) {
		if !a.IsNumber() {
			return value.Null(), unsupported(ast.NodeUnaryPlus, a)
		}
		return a, nil
	},
}

/*
IsBinaryOperator returns true if the given discriminator is a known binary
operator.
*/
func IsBinaryOperator(op string) bool {
	_, ok := binaryOperators[op]
	return ok
}

/*
IsUnaryOperator returns true if the given discriminator is a known unary
operator.
*/
func IsUnaryOperator(op string) bool {
	_, ok := unaryOperators[op]
	return ok
}

/*
Binary applies a binary operator to two values.
*/
func Binary(op string, a, b value.Value) (value.Value, error) {
	if f, ok := binaryOperators[op]; ok {
		return f(a, b)
	}
	return value.Null(), unsupported(op, a, b)
}

/*
Unary applies a unary operator to a value.
*/
func Unary(op string, a value.Value) (value.Value, error) {
	if f, ok := unaryOperators[op]; ok {
		return f(a)
	}
	return value.Null(), unsupported(op, a)
}

/*
ShortCircuit checks if the result of a short circuit operator is already
determined by its left operand. Returns the result and true in this case.
*/
func ShortCircuit(op string, a value.Value) (value.Value, bool, error) {

	switch op {
	case ast.NodeAndAlso, ast.NodeOrElse:
		if a.Kind != value.KindBool {
			return value.Null(), false, unsupported(op, a)
		}
		if op == ast.NodeAndAlso && !a.B || op == ast.NodeOrElse && a.B {
			return a, true, nil
		}
	case ast.NodeCoalesce:
		if !a.IsNull() {
			return a, true, nil
		}
	}

	return value.Null(), false, nil
}

/*
Truth returns the boolean payload of a value which is used as a condition.
*/
func Truth(op string, a value.Value) (bool, error) {
	if a.Kind != value.KindBool {
		return false, unsupported(op, a)
	}
	return a.B, nil
}

// Operator implementations
// ========================

/*
add adds two numbers or concatenates the string conversions of two values
if at least one of them is a string.
*/
func add(a, b value.Value) (value.Value, error) {

	if a.IsNumber() && b.IsNumber() {
		if a.Kind == value.KindInt && b.Kind == value.KindInt {
			return value.Int(a.I + b.I), nil
		}
		return value.Float(a.Number() + b.Number()), nil
	}

	if a.Kind == value.KindString || b.Kind == value.KindString {
		return value.String(a.String() + b.String()), nil
	}

	return value.Null(), unsupported(ast.NodeAdd, a, b)
}

/*
arithmetic creates an arithmetic operator which prefers integral arithmetic.
*/
func arithmetic(op string, ifunc func(a, b int64) int64, ffunc func(a, b float64) float64) BinaryFunc {
	return func(a, b value.Value) (value.Value, error) {

		if a.IsNumber() && b.IsNumber() {
			if a.Kind == value.KindInt && b.Kind == value.KindInt {
				return value.Int(ifunc(a.I, b.I)), nil
			}
			return value.Float(ffunc(a.Number(), b.Number())), nil
		}

		return value.Null(), unsupported(op, a, b)
	}
}

func divide(a, b value.Value) (value.Value, error) {

	if a.Kind == value.KindInt && b.Kind == value.KindInt {
		if b.I == 0 {
			return value.Null(), &Error{ErrDivisionByZero, ""}
		}
		return value.Int(a.I / b.I), nil
	}

	return arithmetic(ast.NodeDivide, nil, func(a, b float64) float64 { return a / b })(a, b)
}

func modulo(a, b value.Value) (value.Value, error) {

	if a.Kind == value.KindInt && b.Kind == value.KindInt {
		if b.I == 0 {
			return value.Null(), &Error{ErrDivisionByZero, ""}
		}
		return value.Int(a.I % b.I), nil
	}

	return arithmetic(ast.NodeModulo, nil, math.Mod)(a, b)
}

/*
comparison creates an ordering operator for numbers and strings.
*/
func comparison(op string, test func(int) bool) BinaryFunc {
	return func(a, b value.Value) (value.Value, error) {
		var c int

		if a.IsNumber() && b.IsNumber() {

			if a.Kind == value.KindInt && b.Kind == value.KindInt {
				c = compareInts(a.I, b.I)
			} else {
				af, bf := a.Number(), b.Number()
				if math.IsNaN(af) || math.IsNaN(bf) {
					return value.Bool(false), nil
				}
				c = compareFloats(af, bf)
			}

		} else if a.Kind == value.KindString && b.Kind == value.KindString {

			c = compareStrings(a.S, b.S)

		} else {

			return value.Null(), unsupported(op, a, b)
		}

		return value.Bool(test(c)), nil
	}
}

func compareInts(a, b int64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

func compareFloats(a, b float64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

func compareStrings(a, b string) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

/*
logical creates a boolean operator.
*/
func logical(op string, f func(a, b bool) bool) BinaryFunc {
	return func(a, b value.Value) (value.Value, error) {
		if a.Kind != value.KindBool || b.Kind != value.KindBool {
			return value.Null(), unsupported(op, a, b)
		}
		return value.Bool(f(a.B, b.B)), nil
	}
}
