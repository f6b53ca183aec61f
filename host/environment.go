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
Package host contains the symbol table which a host supplies to Bonsai
programs.

A decoded program names its free variables (e.g. console.log). Before the
program can be evaluated every free variable must be bound to a value of the
host environment.
*/
package host

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"devt.de/krotik/bonsai/value"
	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/ecal/util"
)

/*
Host related error types
*/
var (
	ErrUnknownSymbol = errors.New("Unknown symbol")
)

/*
Error is a host environment related error
*/
type Error struct {
	Type   error  // Error type (to be used for equal checks)
	Detail string // Details of this error
}

/*
Error returns a human-readable string representation of this error.
*/
func (he *Error) Error() string {
	return fmt.Sprintf("%v: %v", he.Type, he.Detail)
}

/*
Unwrap returns the error type.
*/
func (he *Error) Unwrap() error {
	return he.Type
}

/*
Environment is a symbol table mapping names to values.
*/
type Environment struct {
	Console *Console // Console sink which is bound to console.log

	symbols map[string]value.Value
	lock    *sync.RWMutex
}

/*
NewEnvironment creates a new Environment object which contains the default
symbols (console.log). The console writes to the given logger.
*/
func NewEnvironment(logger util.Logger) *Environment {
	env := &Environment{NewConsole(logger), make(map[string]value.Value), &sync.RWMutex{}}

	env.Define(ConsoleLog, value.Func(env.Console))

	return env
}

/*
Define binds a name to a value.
*/
func (e *Environment) Define(name string, v value.Value) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.symbols[name] = v
}

/*
DefineFunc binds a name to a Go function.
*/
func (e *Environment) DefineFunc(name string, arity int, fn func(args []value.Value) (value.Value, error)) {
	e.Define(name, value.Func(value.NewHostFunc(name, arity, fn)))
}

/*
Lookup looks up the value of a name.
*/
func (e *Environment) Lookup(name string) (value.Value, bool) {
	e.lock.RLock()
	defer e.lock.RUnlock()

	v, ok := e.symbols[name]

	return v, ok
}

/*
Names returns all defined names in alphabetical order.
*/
func (e *Environment) Names() []string {
	e.lock.RLock()
	defer e.lock.RUnlock()

	ret := make([]string, 0, len(e.symbols))
	for k := range e.symbols {
		ret = append(ret, k)
	}
	sort.Strings(ret)

	return ret
}

/*
Bind returns the values for a list of free variable names. All names which
are not defined are reported in a single error.
*/
func (e *Environment) Bind(names []string) (map[string]value.Value, error) {
	ret := make(map[string]value.Value, len(names))
	cerr := errorutil.NewCompositeError()

	for _, name := range names {
		if v, ok := e.Lookup(name); ok {
			ret[name] = v
		} else {
			cerr.Add(&Error{ErrUnknownSymbol, name})
		}
	}

	if cerr.HasErrors() {
		return nil, cerr
	}

	return ret, nil
}
