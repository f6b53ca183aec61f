/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package bonsai

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"devt.de/krotik/bonsai/config"
	"devt.de/krotik/bonsai/decoder"
	"devt.de/krotik/bonsai/ecal"
	"devt.de/krotik/bonsai/host"
	"devt.de/krotik/bonsai/interpreter"
	"devt.de/krotik/bonsai/value"
	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/ecal/util"
)

const workedExample = `
["()", ["$","console.log"],
  ["()",
    ["=>",
      ["{...}", [[]], [
        ["=", ["$",1,0], ["+", [".", "foo", [":", {"foo": 42}]], ["$",0,0]]],
        ["$",1,0],
        ["return", [":", 99]]
      ]],
      [["$","x"]]
    ],
    [":", 1]
  ]
]`

func runTest(text string) (value.Value, error) {
	return Run("test", text, host.NewEnvironment(nil))
}

func TestScenarios(t *testing.T) {

	// Constant

	if res, err := runTest(`[":", 42]`); err != nil || res.Kind != value.KindInt || res.I != 42 {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Binary add

	if res, err := runTest(`["+", [":", 2], [":", 3]]`); err != nil || res.Kind != value.KindInt || res.I != 5 {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Block with one local

	if res, err := runTest(`["{...}", [[]], [["=", ["$",0,0], [":",7]], ["$",0,0]]]`); err != nil || res.I != 7 {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Non-local return inside a lambda

	if res, err := runTest(`["()", ["=>",
  ["{...}", [[]], [["=",["$",1,0], ["+", [":",42], ["$",0,0]]], ["$",1,0], ["return", [":",99]]]],
  [["$","x"]]], [":", 1]]`); err != nil || res.I != 99 {
		t.Error("Unexpected result:", res, err)
		return
	}
}

func TestWorkedExample(t *testing.T) {
	logger := util.NewMemoryLogger(10)
	env := host.NewEnvironment(logger)

	p, err := CompileJSON("example", workedExample)
	if err != nil {
		t.Error(err)
		return
	}

	if res := fmt.Sprint(p.FreeVariables); res != "[console.log]" {
		t.Error("Unexpected result:", res)
		return
	}

	res, err := p.Evaluate(env)
	if err != nil || !res.IsNull() {
		t.Error("Unexpected result:", res, err)
		return
	}

	if res := env.Console.History(); len(res) != 1 || !value.Equal(res[0], value.Int(99)) {
		t.Error("Unexpected result:", res)
		return
	}

	if res := logger.String(); !strings.Contains(res, "99") {
		t.Error("Unexpected result:", res)
		return
	}

	// Programs can be evaluated many times

	if _, err = p.Evaluate(env); err != nil || len(env.Console.History()) != 2 {
		t.Error("Unexpected result:", env.Console.History(), err)
		return
	}

	// A program prints back into its wire form

	p2, err := CompileJSON("example2", p.String())
	if err != nil {
		t.Error(err)
		return
	}

	if p2.String() != p.String() {
		t.Error("Unexpected result:", p2.String(), p.String())
		return
	}

	// Missing symbols are reported before evaluation

	p.FreeVariables = append(p.FreeVariables, "foo", "bar")

	if _, err = p.Evaluate(env); err == nil ||
		err.Error() != "Unknown symbol: foo; Unknown symbol: bar" {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestConstantRoundTrip(t *testing.T) {
	literals := []string{`null`, `true`, `false`, `0`, `-17`, `3.25`, `"abc"`, `""`,
		`[1, "a", [null]]`, `{"a": {"b": [1.5]}}`, `12345678901234567`}

	for _, l := range literals {
		tree, err := ParseJSON(l)
		errorutil.AssertOk(err)

		expected, err := value.FromLiteral(tree)
		errorutil.AssertOk(err)

		res, err := runTest(`[":", ` + l + `]`)
		if err != nil || !value.Equal(res, expected) || res.Kind != expected.Kind {
			t.Error("Unexpected result for", l, ":", res, err)
			return
		}
	}

	if res, _ := runTest(`[":", 12345678901234567]`); res.Kind != value.KindInt || res.I != 12345678901234567 {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestDecodeProperties(t *testing.T) {

	outOfScope := []string{
		`["$", 0, 0]`,
		`["{...}", [[]], [["$", 0, 1]]]`,
		`["{...}", [[]], [["$", 1, 0]]]`,
		`["=>", ["$", 1, 0], [["$", "a"]]]`,
		`["=>", ["$", -1, 0], []]`,
	}

	for _, p := range outOfScope {
		if _, err := CompileJSON("test", p); !errors.Is(err, decoder.ErrOutOfScopeReference) {
			t.Error("Unexpected result for", p, ":", err)
			return
		}
	}

	returnOutside := []string{
		`["return", [":", 1]]`,
		`["{...}", [], [["return", [":", 1]]]]`,
		`["+", [":", 1], ["return", [":", 1]]]`,
	}

	for _, p := range returnOutside {
		if _, err := CompileJSON("test", p); !errors.Is(err, decoder.ErrReturnOutsideFunction) {
			t.Error("Unexpected result for", p, ":", err)
			return
		}
	}

	if _, err := CompileJSON("test", `["=", ["$", "x"], [":", 1]]`); !errors.Is(err, decoder.ErrInvalidAssignmentTarget) {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestIdempotence(t *testing.T) {
	tree, err := ParseJSON(workedExample)
	errorutil.AssertOk(err)

	p1, err := Compile("first", tree)
	errorutil.AssertOk(err)

	p2, err := Compile("second", tree)
	errorutil.AssertOk(err)

	env1 := host.NewEnvironment(nil)
	env2 := host.NewEnvironment(nil)

	_, err1 := p1.Evaluate(env1)
	_, err2 := p2.Evaluate(env2)

	if err1 != nil || err2 != nil ||
		fmt.Sprint(env1.Console.History()) != fmt.Sprint(env2.Console.History()) {
		t.Error("Unexpected result:", env1.Console.History(), env2.Console.History(), err1, err2)
		return
	}
}

func TestParseErrors(t *testing.T) {

	if _, err := runTest(`[":", 1`); err == nil || !strings.HasPrefix(err.Error(), "Could not parse JSON") {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := runTest(`[":", 1] [":", 2]`); err == nil ||
		err.Error() != "Could not parse JSON: unexpected data after the program" {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := runTest(`["foo"]`); err == nil ||
		err.Error() != "Decode error in test: Unsupported node kind (foo)" {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestCallDepthConfig(t *testing.T) {
	config.LoadDefaultConfig()
	config.Config[config.MaxCallDepth] = 10
	defer config.LoadDefaultConfig()

	// A lambda which calls itself through its own slot

	_, err := runTest(`["{...}", [[]], [
  ["=", ["$", 0, 0], ["=>", ["()", ["$", 0, 0]], []]],
  ["()", ["$", 0, 0]]
]]`)

	if !errors.Is(err, interpreter.ErrCallDepthExceeded) {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestEnvironment(t *testing.T) {
	config.LoadDefaultConfig()
	defer config.LoadDefaultConfig()

	env, err := NewEnvironment(nil)
	if err != nil {
		t.Error(err)
		return
	}

	if res := fmt.Sprint(env.Names()); res != "[console.log ecal.eval]" {
		t.Error("Unexpected result:", res)
		return
	}

	res, err := Run("test", `["()", ["$", "ecal.eval"], [":", "6 * 7"]]`, env)
	if err != nil || !value.Equal(res, value.Int(42)) {
		t.Error("Unexpected result:", res, err)
		return
	}

	// ECAL scripts can call back into the host environment

	res, err = Run("test", `["()", ["$", "ecal.eval"], [":", "bonsai.call(\"console.log\", \"from ecal\")"]]`, env)
	if err != nil || len(env.Console.History()) != 1 || env.Console.History()[0].S != "from ecal" {
		t.Error("Unexpected result:", res, err, env.Console.History())
		return
	}

	if _, err := Run("test", `["()", ["$", "ecal.eval"], [":", 1]]`, env); err == nil ||
		!strings.Contains(err.Error(), ecal.EvalFuncName+" requires a script string") {
		t.Error("Unexpected result:", err)
		return
	}

	config.Config[config.EnableScriptEngine] = false

	env, err = NewEnvironment(nil)
	if err != nil || fmt.Sprint(env.Names()) != "[console.log]" {
		t.Error("Unexpected result:", env.Names(), err)
		return
	}

	config.Config[config.EnableScriptEngine] = true
	config.Config[config.ScriptLogLevel] = "foo"

	if _, err = NewEnvironment(nil); err == nil {
		t.Error("Invalid log level should cause an error")
		return
	}

	if _, err = NewLogger("debug"); err != nil {
		t.Error(err)
		return
	}
}
