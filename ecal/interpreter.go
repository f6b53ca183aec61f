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
Package ecal contains the foreign script execution capability of Bonsai.

Scripts are written in ECAL (Event Condition Action Language). A script
engine evaluates a script and converts its result into a Bonsai value. The
engine can be bound into a host environment so that Bonsai programs can run
scripts and ECAL scripts can call host functions.
*/
package ecal

import (
	"fmt"
	"io/ioutil"
	"strings"
	"sync"

	"devt.de/krotik/bonsai/host"
	"devt.de/krotik/bonsai/value"
	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/ecal/interpreter"
	"devt.de/krotik/ecal/parser"
	"devt.de/krotik/ecal/scope"
	"devt.de/krotik/ecal/util"
)

/*
EvalFuncName is the name under which the script engine is bound into a host
environment
*/
const EvalFuncName = "ecal.eval"

/*
ScriptEngine models an ECAL script engine instance.
*/
type ScriptEngine struct {
	Name            string                            // Name to identify scripts of this engine
	Logger          util.Logger                       // Logger for script output
	RuntimeProvider *interpreter.ECALRuntimeProvider // ECAL runtime provider

	env     *host.Environment // Host environment of the engine
	envLock *sync.RWMutex     // Lock for the host environment
}

/*
NewScriptEngine returns a new ECAL script engine. Script output (e.g. log
calls) is written to the given logger.
*/
func NewScriptEngine(name string, logger util.Logger) *ScriptEngine {
	if logger == nil {
		logger = util.NewMemoryLogger(100)
	}

	return &ScriptEngine{
		Name:            name,
		Logger:          logger,
		RuntimeProvider: interpreter.NewECALRuntimeProvider(name, nil, logger),
		envLock:         &sync.RWMutex{},
	}
}

/*
Run runs a given script. The given variables are available to the script
in its global scope. Returns the value of the last statement of the script.
*/
func (se *ScriptEngine) Run(code string, vars map[string]value.Value) (value.Value, error) {
	var res interface{}

	node, err := parser.ParseWithRuntime(se.Name, code, se.RuntimeProvider)

	if err == nil {
		err = node.Runtime.Validate()
	}

	if err == nil {
		vs := scope.NewScope(scope.GlobalScope)

		for k, v := range vars {
			if err == nil {
				err = vs.SetValue(k, ToECAL(v))
			}
		}

		if err == nil {
			se.envLock.RLock()
			tid := startThread(se.env)
			se.envLock.RUnlock()

			res, err = node.Runtime.Eval(vs, make(map[string]interface{}), tid)

			endThread(tid)
		}
	}

	if err != nil {

		// Include a traceback if possible

		if ss, ok := err.(util.TraceableRuntimeError); ok {
			err = fmt.Errorf("%v\n  %v", err.Error(), strings.Join(ss.GetTraceString(), "\n  "))
		}

		return value.Null(), err
	}

	return FromECAL(res)
}

/*
RunFile runs a given script file.
*/
func (se *ScriptEngine) RunFile(filename string, vars map[string]value.Value) (value.Value, error) {

	if ok, _ := fileutil.PathExists(filename); !ok {
		return value.Null(), fmt.Errorf("Script file %v does not exist", filename)
	}

	code, err := ioutil.ReadFile(filename)
	if err != nil {
		return value.Null(), err
	}

	return se.Run(string(code), vars)
}

/*
EvalFunc returns a callable which runs a script given as its only argument.
*/
func (se *ScriptEngine) EvalFunc() value.Callable {
	return value.NewHostFunc(EvalFuncName, 1, func(args []value.Value) (value.Value, error) {
		if args[0].Kind != value.KindString {
			return value.Null(), fmt.Errorf("%v requires a script string not %v",
				EvalFuncName, args[0].Kind)
		}
		return se.Run(args[0].S, nil)
	})
}

// Value conversion
// ================

/*
FromECAL converts an ECAL object into a Bonsai value. Functions cannot be
converted.
*/
func FromECAL(v interface{}) (value.Value, error) {
	if c, ok := v.(*bonsaiFunc); ok {
		return value.Func(c.fn), nil
	}

	res, err := value.FromLiteral(scope.ConvertECALToJSONObject(v))
	if err != nil {
		err = fmt.Errorf("Could not convert ECAL result: %v", err)
	}

	return res, err
}

/*
ToECAL converts a Bonsai value into an ECAL object. Numbers become float64
values and callables become ECAL functions.
*/
func ToECAL(v value.Value) interface{} {

	switch v.Kind {
	case value.KindInt:
		return float64(v.I)
	case value.KindList:
		ret := make([]interface{}, len(v.L))
		for i, e := range v.L {
			ret[i] = ToECAL(e)
		}
		return ret
	case value.KindRecord:
		ret := make(map[interface{}]interface{}, len(v.R))
		for k, e := range v.R {
			ret[k] = ToECAL(e)
		}
		return ret
	case value.KindCallable:
		return &bonsaiFunc{v.Fn}
	}

	return v.Native()
}

/*
bonsaiFunc wraps a Bonsai callable as ECAL function.
*/
type bonsaiFunc struct {
	fn value.Callable
}

/*
Run executes the ECAL function.
*/
func (f *bonsaiFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	return callBonsai(f.fn, args)
}

/*
DocString returns a descriptive string.
*/
func (f *bonsaiFunc) DocString() (string, error) {
	return fmt.Sprintf("Bonsai callable %v", f.fn.Name()), nil
}

/*
callBonsai calls a Bonsai callable with ECAL arguments.
*/
func callBonsai(fn value.Callable, args []interface{}) (interface{}, error) {
	vals := make([]value.Value, len(args))

	for i, a := range args {
		v, err := FromECAL(a)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	if arity := fn.Arity(); arity >= 0 && arity != len(vals) {
		return nil, fmt.Errorf("%v requires %v parameter(s)", fn.Name(), arity)
	}

	res, err := fn.Call(vals)
	if err != nil {
		return nil, err
	}

	return ToECAL(res), nil
}
