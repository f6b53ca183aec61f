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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"devt.de/krotik/bonsai/ast"
	"devt.de/krotik/bonsai/decoder"
	"devt.de/krotik/bonsai/value"
	"devt.de/krotik/common/errorutil"
)

/*
decode decodes a program given as JSON text.
*/
func decode(text string) ast.Node {
	var tree interface{}

	dec := json.NewDecoder(bytes.NewBufferString(text))
	dec.UseNumber()
	errorutil.AssertOk(dec.Decode(&tree))

	n, err := decoder.NewDecoder("test").Decode(tree)
	errorutil.AssertOk(err)

	return n
}

/*
evalText decodes and evaluates a program given as JSON text.
*/
func evalText(text string, bindings map[string]value.Value) (value.Value, error) {
	return NewInterpreter("test", nil).Evaluate(decode(text), bindings)
}

/*
recorder returns a host function which records all its arguments.
*/
func recorder(name string, history *[]value.Value) value.Value {
	return value.Func(value.NewHostFunc(name, -1, func(args []value.Value) (value.Value, error) {
		*history = append(*history, args...)
		if len(args) > 0 {
			return args[0], nil
		}
		return value.Null(), nil
	}))
}

func TestSimpleEvaluation(t *testing.T) {

	testEval := func(text string, expected string) bool {
		res, err := evalText(text, nil)
		if err != nil || res.Repr() != expected {
			t.Error("Unexpected result for", text, ":", res.Repr(), err)
			return false
		}
		return true
	}

	if !testEval(`[":", "a"]`, `"a"`) ||
		!testEval(`["empty"]`, "null") ||
		!testEval(`["default"]`, "null") ||
		!testEval(`["+", [":", 1], ["*", [":", 2], [":", 3]]]`, "7") ||
		!testEval(`["-", [":", 1.5]]`, "-1.5") ||
		!testEval(`["new[]", [":", 1], ["+", [":", "a"], [":", 1]]]`, `[1, "a1"]`) ||
		!testEval(`["#", [":", [1, 2, 3]]]`, "3") ||
		!testEval(`[".", "a", [":", {"a": 5}]]`, "5") ||
		!testEval(`["[]", [":", [1, "x"]], [":", 1]]`, `"x"`) ||
		!testEval(`["?:", ["<", [":", 1], [":", 2]], [":", "yes"], [":", "no"]]`, `"yes"`) ||
		!testEval(`["?:", ["!", [":", true]], [":", "yes"], [":", "no"]]`, `"no"`) {
		return
	}

	// Blocks yield the value of their last element

	if !testEval(`["{...}", [[]], [["=", ["$", 0, 0], [":", 2]], ["*", ["$", 0, 0], ["$", 0, 0]]]]`, "4") ||
		!testEval(`["{...}", [], []]`, "null") ||
		!testEval(`["{...}", [[]], [["$", 0, 0]]]`, "null") ||
		!testEval(`["{...}", [[]], [["=", ["$", 0, 0], [":", 2]]]]`, "2") {
		return
	}
}

func TestFreeVariableBindings(t *testing.T) {
	var history []value.Value

	n := decode(`["()", ["$", "console.log"], ["$", "answer"]]`)

	res, err := NewInterpreter("test", nil).Evaluate(n, map[string]value.Value{
		"console.log": recorder("console.log", &history),
		"answer":      value.Int(42),
	})

	if err != nil || res.I != 42 || fmt.Sprint(history) != "[42]" {
		t.Error("Unexpected result:", res, history, err)
		return
	}

	_, err = NewInterpreter("test", nil).Evaluate(n, nil)

	if !errors.Is(err, ErrUnboundName) ||
		err.Error() != "Bonsai error in test: Unbound name (console.log) (Node:$)" {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestEvaluationOrder(t *testing.T) {
	var history []value.Value

	bindings := map[string]value.Value{"log": recorder("log", &history)}

	res, err := evalText(`["new[]",
  ["()", ["$", "log"], [":", 1]],
  ["+", ["()", ["$", "log"], [":", 2]], ["()", ["$", "log"], [":", 3]]],
  ["()", ["$", "log"], [":", 4], [":", 5]]
]`, bindings)

	if err != nil || res.String() != "[1, 5, 4]" || fmt.Sprint(history) != "[1 2 3 4 5]" {
		t.Error("Unexpected result:", res, history, err)
		return
	}
}

func TestClosures(t *testing.T) {

	// A closure shares the frames which are open when it is created

	res, err := evalText(`["{...}", [[], []], [
  ["=", ["$", 0, 0], [":", 0]],
  ["=", ["$", 0, 1], ["=>", ["=", ["$", 0, 0], ["+", ["$", 0, 0], [":", 1]]], []]],
  ["()", ["$", 0, 1]],
  ["()", ["$", 0, 1]],
  ["$", 0, 0]
]]`, nil)

	if err != nil || res.I != 2 {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Curried addition

	res, err = evalText(`["()",
  ["()",
    ["=>", ["return", ["=>", ["return", ["+", ["$", 0, 0], ["$", 1, 0]]], [["$", "y"]]]], [["$", "x"]]],
    [":", 2]
  ],
  [":", 3]
]`, nil)

	if err != nil || res.I != 5 {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Every call gets its own frame

	res, err = evalText(`["{...}", [[], [], []], [
  ["=", ["$", 0, 0], ["=>", ["return", ["=>", ["return", ["$", 1, 0]], []]], [["$", "v"]]]],
  ["=", ["$", 0, 1], ["()", ["$", 0, 0], [":", "a"]]],
  ["=", ["$", 0, 2], ["()", ["$", 0, 0], [":", "b"]]],
  ["new[]", ["()", ["$", 0, 1]], ["()", ["$", 0, 2]]]
]]`, nil)

	if err != nil || res.String() != `["a", "b"]` {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Closures are values

	res, err = evalText(`["=>", ["empty"], [["$", "a"], ["$", "b"]]]`, nil)

	if err != nil || res.Kind != value.KindCallable || res.String() != "<callable lambda(a, b)>" ||
		res.Fn.Arity() != 2 {
		t.Error("Unexpected result:", res, err)
		return
	}
}

func TestReturn(t *testing.T) {
	var history []value.Value

	bindings := map[string]value.Value{"log": recorder("log", &history)}

	testReturn := func(text string, expected string) bool {
		history = nil
		res, err := evalText(text, bindings)
		if err != nil || res.Repr() != expected || len(history) != 0 {
			t.Error("Unexpected result for", text, ":", res.Repr(), history, err)
			return false
		}
		return true
	}

	// A lambda without return yields null

	if !testReturn(`["()", ["=>", [":", 1], []]]`, "null") {
		return
	}

	// Statements after a return are not evaluated

	if !testReturn(`["()", ["=>", ["{...}", [], [
  ["return", [":", 1]],
  ["()", ["$", "log"], [":", "unreachable"]]
]], []]]`, "1") {
		return
	}

	// Returns inside expressions leave the lambda

	if !testReturn(`["()", ["=>", ["+", [":", 1], ["return", [":", 2]]], []]]`, "2") ||
		!testReturn(`["()", ["=>", ["()", ["$", "log"], ["return", [":", 3]]], []]]`, "3") ||
		!testReturn(`["()", ["=>", ["new[]", ["return", [":", 4]], ["()", ["$", "log"], [":", 0]]], []]]`, "4") ||
		!testReturn(`["()", ["=>", ["?:", ["return", [":", 5]], ["()", ["$", "log"], [":", 0]], [":", 0]], []]]`, "5") ||
		!testReturn(`["()", ["=>", ["{...}", [[]], [["=", ["$", 1, 0], ["return", [":", 6]]], ["()", ["$", "log"], [":", 0]]]], []]]`, "6") ||
		!testReturn(`["()", ["=>", ["return", ["return", [":", 7]]], []]]`, "7") {
		return
	}

	// A return only leaves its own lambda

	if !testReturn(`["()", ["=>", ["{...}", [], [
  ["()", ["=>", ["return", [":", 1]], []]],
  [":", 2]
]], []]]`, "null") ||
		!testReturn(`["()", ["=>", ["return", ["{...}", [], [
  ["()", ["=>", ["return", [":", 1]], []]],
  [":", 2]
]]], []]]`, "2") {
		return
	}

	// Early return inside a loop-like recursion

	res, err := evalText(`["{...}", [[]], [
  ["=", ["$", 0, 0], ["=>", ["{...}", [], [
    ["?:", [">=", ["$", 1, 0], [":", 3]], ["return", ["$", 1, 0]], ["empty"]],
    ["return", ["()", ["$", 0, 0], ["+", ["$", 1, 0], [":", 1]]]]
  ]], [["$", "n"]]]],
  ["()", ["$", 0, 0], [":", 0]]
]]`, nil)

	if err != nil || res.I != 3 {
		t.Error("Unexpected result:", res, err)
		return
	}
}

func TestShortCircuit(t *testing.T) {
	var history []value.Value

	bindings := map[string]value.Value{"log": recorder("log", &history)}

	testShortCircuit := func(text string, expected string, calls int) bool {
		history = nil
		res, err := evalText(text, bindings)
		if err != nil || res.Repr() != expected || len(history) != calls {
			t.Error("Unexpected result for", text, ":", res.Repr(), history, err)
			return false
		}
		return true
	}

	if !testShortCircuit(`["&&", [":", false], ["()", ["$", "log"], [":", true]]]`, "false", 0) ||
		!testShortCircuit(`["&&", [":", true], ["()", ["$", "log"], [":", true]]]`, "true", 1) ||
		!testShortCircuit(`["||", [":", true], ["()", ["$", "log"], [":", false]]]`, "true", 0) ||
		!testShortCircuit(`["||", [":", false], ["()", ["$", "log"], [":", false]]]`, "false", 1) ||
		!testShortCircuit(`["??", [":", 0], ["()", ["$", "log"], [":", 1]]]`, "0", 0) ||
		!testShortCircuit(`["??", ["empty"], ["()", ["$", "log"], [":", 1]]]`, "1", 1) {
		return
	}

	if _, err := evalText(`["&&", [":", 1], [":", true]]`, nil); !errors.Is(err, ErrUnsupportedOperandTypes) ||
		err.Error() != "Bonsai error in test: Unsupported operand types (Cannot apply && to int) (Node:&&)" {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestRuntimeErrors(t *testing.T) {

	testError := func(text string, bindings map[string]value.Value, expectedType error, expected string) bool {
		_, err := evalText(text, bindings)
		if !errors.Is(err, expectedType) || err.Error() != expected {
			t.Error("Unexpected result for", text, ":", err)
			return false
		}
		return true
	}

	boom := value.Func(value.NewHostFunc("boom", 0, func(args []value.Value) (value.Value, error) {
		return value.Null(), fmt.Errorf("kaputt")
	}))

	if !testError(`["()", [":", 1]]`, nil, ErrNotCallable,
		"Bonsai error in test: Value is not callable (Cannot call value of kind int) (Node:())") ||
		!testError(`["()", ["=>", ["empty"], [["$", "a"]]]]`, nil, ErrArityMismatch,
			"Bonsai error in test: Argument count mismatch (lambda(a) expects 1 argument but got 0) (Node:())") ||
		!testError(`["/", [":", 1], [":", 0]]`, nil, ErrDivisionByZero,
			"Bonsai error in test: Division by zero (Node:/)") ||
		!testError(`[".", "b", [":", {"a": 1}]]`, nil, ErrMissingMember,
			"Bonsai error in test: Missing member (b) (Node:.)") ||
		!testError(`["[]", [":", [1]], [":", 1]]`, nil, ErrIndexOutOfRange,
			"Bonsai error in test: Index out of range (1 not in [0, 1)) (Node:[])") ||
		!testError(`["?:", [":", 1], [":", 1], [":", 2]]`, nil, ErrUnsupportedOperandTypes,
			"Bonsai error in test: Unsupported operand types (Cannot apply ?: to int) (Node:?:)") ||
		!testError(`["!", [":", 1]]`, nil, ErrUnsupportedOperandTypes,
			"Bonsai error in test: Unsupported operand types (Cannot apply ! to int) (Node:!)") ||
		!testError(`["()", ["$", "boom"]]`, map[string]value.Value{"boom": boom}, ErrCallFailed,
			"Bonsai error in test: Call failed (kaputt) (Node:())") {
		return
	}

	// Errors inside lambdas keep their origin

	if !testError(`["()", ["=>", ["-", [":", "a"]], []]]`, nil, ErrUnsupportedOperandTypes,
		"Bonsai error in test: Unsupported operand types (Cannot apply - to string) (Node:-)") {
		return
	}

	// Errors inside blocks stop the block

	var history []value.Value

	if !testError(`["{...}", [], [["()", [":", 1]], ["()", ["$", "log"], [":", 1]]]]`,
		map[string]value.Value{"log": recorder("log", &history)}, ErrNotCallable,
		"Bonsai error in test: Value is not callable (Cannot call value of kind int) (Node:())") {
		return
	}

	if len(history) != 0 {
		t.Error("Unexpected result:", history)
		return
	}
}

func TestCallDepth(t *testing.T) {
	n := decode(`["{...}", [[]], [
  ["=", ["$", 0, 0], ["=>", ["()", ["$", 0, 0]], []]],
  ["()", ["$", 0, 0]]
]]`)

	ip := NewInterpreter("test", nil)
	ip.MaxCallDepth = 5

	_, err := ip.Evaluate(n, nil)

	if !errors.Is(err, ErrCallDepthExceeded) ||
		err.Error() != "Bonsai error in test: Maximum call depth exceeded (5) (Node:=>)" {
		t.Error("Unexpected result:", err)
		return
	}

	// Depth is reset after an error

	res, err := ip.Evaluate(decode(`["()", ["=>", ["return", [":", 1]], []]]`), nil)
	if err != nil || res.I != 1 {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Bounded recursion below the limit works

	ip.MaxCallDepth = 11

	res, err = ip.Evaluate(decode(`["{...}", [[]], [
  ["=", ["$", 0, 0], ["=>", ["return",
    ["?:", ["==", ["$", 1, 0], [":", 0]],
      [":", 0],
      ["+", ["$", 1, 0], ["()", ["$", 0, 0], ["-", ["$", 1, 0], [":", 1]]]]
    ]], [["$", "n"]]]],
  ["()", ["$", 0, 0], [":", 10]]
]]`), nil)

	if err != nil || res.I != 55 {
		t.Error("Unexpected result:", res, err)
		return
	}
}

func TestInvalidTrees(t *testing.T) {
	ip := NewInterpreter("test", nil)

	// Trees which are not produced by the decoder

	_, err := ip.Evaluate(&ast.Return{Target: &ast.Label{}, Value: &ast.Constant{Value: value.Int(1)}}, nil)

	if !errors.Is(err, ErrInvalidReference) ||
		err.Error() != "Bonsai error in test: Invalid frame reference (Return to label@0 outside of its lambda) (Node:return)" {
		t.Error("Unexpected result:", err)
		return
	}

	_, err = ip.Evaluate(&ast.Parameter{Resolved: true, Ref: ast.SlotRef{Frame: 0, Slot: 0}}, nil)

	if !errors.Is(err, ErrInvalidReference) ||
		err.Error() != "Bonsai error in test: Invalid frame reference ((0, 0)) (Node:$)" {
		t.Error("Unexpected result:", err)
		return
	}

	_, err = ip.Evaluate(&ast.Block{Locals: 1, Body: []ast.Node{
		&ast.Assign{
			Target: &ast.Parameter{Resolved: true, Ref: ast.SlotRef{Frame: 0, Slot: 3}},
			Value:  &ast.Empty{},
		},
	}}, nil)

	if !errors.Is(err, ErrInvalidReference) ||
		err.Error() != "Bonsai error in test: Invalid frame reference ((0, 3)) (Node:=)" {
		t.Error("Unexpected result:", err)
		return
	}
}
