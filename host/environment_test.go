/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package host

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"devt.de/krotik/bonsai/value"
	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/ecal/util"
)

func TestEnvironment(t *testing.T) {
	env := NewEnvironment(nil)

	if res := fmt.Sprint(env.Names()); res != "[console.log]" {
		t.Error("Unexpected result:", res)
		return
	}

	env.Define("answer", value.Int(42))
	env.DefineFunc("inc", 1, func(args []value.Value) (value.Value, error) {
		return value.Int(args[0].I + 1), nil
	})

	if res := fmt.Sprint(env.Names()); res != "[answer console.log inc]" {
		t.Error("Unexpected result:", res)
		return
	}

	if v, ok := env.Lookup("answer"); !ok || v.I != 42 {
		t.Error("Unexpected result:", v, ok)
		return
	}

	if v, ok := env.Lookup("foo"); ok || !v.IsNull() {
		t.Error("Unexpected result:", v, ok)
		return
	}

	v, _ := env.Lookup("inc")
	if res, err := v.Fn.Call([]value.Value{value.Int(1)}); err != nil || res.I != 2 || v.Fn.Name() != "inc" {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Redefining a name replaces its value

	env.Define("answer", value.String("42"))

	if v, _ := env.Lookup("answer"); v.Kind != value.KindString {
		t.Error("Unexpected result:", v)
		return
	}
}

func TestBind(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("a", value.Int(1))

	bindings, err := env.Bind([]string{"console.log", "a"})
	if err != nil || len(bindings) != 2 || bindings["a"].I != 1 ||
		bindings["console.log"].Fn != env.Console {
		t.Error("Unexpected result:", bindings, err)
		return
	}

	if bindings, err := env.Bind(nil); err != nil || len(bindings) != 0 {
		t.Error("Unexpected result:", bindings, err)
		return
	}

	// All unknown names are reported

	_, err = env.Bind([]string{"foo", "a", "bar"})

	var cerr *errorutil.CompositeError
	if !errors.As(err, &cerr) || len(cerr.Errors) != 2 ||
		err.Error() != "Unknown symbol: foo; Unknown symbol: bar" {
		t.Error("Unexpected result:", err)
		return
	}

	if herr := (&Error{ErrUnknownSymbol, "x"}); !errors.Is(herr, ErrUnknownSymbol) {
		t.Error("Host errors should unwrap to their type")
		return
	}
}

func TestConsole(t *testing.T) {
	logger := util.NewMemoryLogger(10)
	c := NewConsole(logger)

	if c.Name() != ConsoleLog || c.Arity() != 1 {
		t.Error("Unexpected result:", c.Name(), c.Arity())
		return
	}

	for _, v := range []value.Value{
		value.String("hello"),
		value.Int(99),
		value.List([]value.Value{value.Null(), value.String("x")}),
	} {
		if res, err := c.Call([]value.Value{v}); err != nil || !res.IsNull() {
			t.Error("Unexpected result:", res, err)
			return
		}
	}

	if res := fmt.Sprint(c.History()); res != `[hello 99 [null, "x"]]` {
		t.Error("Unexpected result:", res)
		return
	}

	if res := logger.String(); !strings.Contains(res, "hello") || !strings.Contains(res, `[null, "x"]`) {
		t.Error("Unexpected result:", res)
		return
	}

	// History is a copy

	h := c.History()
	h[0] = value.Null()

	if res := c.History()[0]; res.S != "hello" {
		t.Error("Unexpected result:", res)
		return
	}

	if _, err := c.Call(nil); err == nil || err.Error() != "console.log requires exactly 1 argument" {
		t.Error("Unexpected result:", err)
		return
	}

	c.Reset()

	if res := c.History(); len(res) != 0 {
		t.Error("Unexpected result:", res)
		return
	}

	// Consoles without logger only record

	c = NewConsole(nil)
	c.Call([]value.Value{value.Bool(true)})

	if res := fmt.Sprint(c.History()); res != "[true]" {
		t.Error("Unexpected result:", res)
		return
	}
}
