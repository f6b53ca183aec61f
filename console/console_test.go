/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package console

import (
	"bytes"
	"strings"
	"testing"

	"devt.de/krotik/bonsai/config"
	"devt.de/krotik/bonsai/host"
	"devt.de/krotik/bonsai/value"
)

func TestDescriptions(t *testing.T) {
	var out bytes.Buffer

	c := NewConsole(&out, host.NewEnvironment(nil),
		func(args []string, e *bytes.Buffer) error {
			return nil
		})

	for _, cmd := range c.Commands() {
		if ok, err := c.Run("help " + cmd.Name()); !ok || err != nil {
			t.Error(ok, err)
			return
		}
	}

	if res := out.String(); res != `
Exports the data which is currently in the export buffer. The export buffer is filled with the previous command output in a machine readable form.
Lists the free variables of a program. All free variables must be defined in the host environment before the program can run.
Display descriptions for all available commands.
Shows all values which were written to console.log. Use 'log clear' to clear the history.
Decodes a program and prints it in normalized form. Decoding checks all references and return statements of the program.
Lists all symbols of the host environment. Programs can refer to these symbols by name.
Displays version information.
`[1:] {
		t.Error("Unexpected result:", res)
		return
	}

	out.Reset()

	if ok, err := c.Run("help foo"); ok || err == nil || err.Error() != "Unknown command: foo" {
		t.Error(ok, err)
		return
	}

	if ok, err := c.Run("foo"); ok || err == nil || err.Error() != "Unknown command" {
		t.Error(ok, err)
		return
	}
}

func TestBasicCommands(t *testing.T) {
	var out bytes.Buffer
	var exported string

	env := host.NewEnvironment(nil)
	env.Define("answer", value.Int(42))

	c := NewConsole(&out, env,
		func(args []string, e *bytes.Buffer) error {
			exported = e.String()
			return nil
		})

	if ok, err := c.Run("ver"); !ok || err != nil || out.String() != "Bonsai 1.0.0\n" {
		t.Error("Unexpected result:", ok, err, out.String())
		return
	}

	out.Reset()

	if ok, err := c.Run("vars"); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); !strings.Contains(res, "answer") ||
		!strings.Contains(res, "<callable console.log>") {
		t.Error("Unexpected result:", res)
		return
	}

	out.Reset()

	// Run a program

	if ok, err := c.Run(`["()", ["$", "console.log"], ["+", ["$", "answer"], [":", 1]]]`); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); res != "null\n" {
		t.Error("Unexpected result:", res)
		return
	}

	out.Reset()

	if ok, err := c.Run(`["new[]", [":", "a;b"], [":", 1]]`); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); res != "[\"a;b\", 1]\n" {
		t.Error("Unexpected result:", res)
		return
	}

	if ok, err := c.Run("export"); !ok || err != nil || exported != `["a;b",1]` {
		t.Error("Unexpected result:", ok, err, exported)
		return
	}

	out.Reset()

	if ok, err := c.Run(`["$", "foo"]`); !ok || err == nil ||
		err.Error() != "Unknown symbol: foo" {
		t.Error("Unexpected result:", ok, err)
		return
	}

	// Check the log

	if ok, err := c.Run("log"); !ok || err != nil || out.String() != "43\n1 value\n" {
		t.Error("Unexpected result:", ok, err, out.String())
		return
	}

	out.Reset()

	if ok, err := c.Run("log clear; log foo"); ok || err == nil || err.Error() != "Unknown argument: foo" {
		t.Error("Unexpected result:", ok, err)
		return
	}

	if res := env.Console.History(); len(res) != 0 {
		t.Error("Unexpected result:", res)
		return
	}

	out.Reset()

	// Inspect programs

	if ok, err := c.Run(`free ["()", ["$", "console.log"], ["$", "x"]]`); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); res != "console.log (defined: true)\nx (defined: false)\n" {
		t.Error("Unexpected result:", res)
		return
	}

	out.Reset()

	if ok, err := c.Run(`print ["{...}",[[]],[["=",["$",0,0],[":",7]]]]`); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); res != `["{...}",[[]],[["=",["$",0,0],[":",7]]]]`+"\n" {
		t.Error("Unexpected result:", res)
		return
	}

	out.Reset()

	if ok, err := c.Run(`print [":", "a;b"]`); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); res != `[":","a;b"]`+"\n" {
		t.Error("Unexpected result:", res)
		return
	}

	out.Reset()

	if ok, err := c.Run(`free ["()", ["$", "f"], [":", ";"]]`); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := out.String(); res != "f (defined: false)\n" {
		t.Error("Unexpected result:", res)
		return
	}

	out.Reset()

	// Lines without programs can still hold several commands

	if ok, err := c.Run("ver; ver"); !ok || err != nil {
		t.Error(ok, err)
		return
	}

	if res := strings.Count(out.String(), config.ProductVersion); res != 2 {
		t.Error("Unexpected result:", out.String())
		return
	}

	if ok, err := c.Run("print"); ok || err == nil || err.Error() != "Please specify a program" {
		t.Error("Unexpected result:", ok, err)
		return
	}

	if ok, err := c.Run(`print ["return", [":", 1]]`); ok || err == nil ||
		!strings.Contains(err.Error(), "Return outside of function") {
		t.Error("Unexpected result:", ok, err)
		return
	}
}
