/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package ecal

import (
	"fmt"
	"sync"

	"devt.de/krotik/bonsai/host"
	"devt.de/krotik/bonsai/value"
	"devt.de/krotik/ecal/parser"
	"devt.de/krotik/ecal/stdlib"
)

/*
threadEnvs maps the thread ids of running scripts to their host environment.
Thread ids are unique across all script engines.
*/
var threadEnvs = make(map[uint64]*host.Environment)
var threadCount uint64
var threadLock = &sync.RWMutex{}

/*
startThread allocates a new thread id for a script run with a given host
environment.
*/
func startThread(env *host.Environment) uint64 {
	threadLock.Lock()
	defer threadLock.Unlock()

	threadCount++

	if env != nil {
		threadEnvs[threadCount] = env
	}

	return threadCount
}

/*
endThread releases a thread id.
*/
func endThread(tid uint64) {
	threadLock.Lock()
	defer threadLock.Unlock()

	delete(threadEnvs, tid)
}

/*
hostEnv returns the host environment of the script run with a given thread id.
*/
func hostEnv(tid uint64) (*host.Environment, error) {
	threadLock.RLock()
	defer threadLock.RUnlock()

	if env, ok := threadEnvs[tid]; ok {
		return env, nil
	}

	return nil, fmt.Errorf("Script engine is not registered with a host environment")
}

/*
CallFunc calls a symbol of the host environment of a script from ECAL.
*/
type CallFunc struct {
}

/*
Run executes the ECAL function.
*/
func (f *CallFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {

	if len(args) < 1 {
		return nil, fmt.Errorf("Function requires at least 1 parameter: symbol name")
	}

	env, err := hostEnv(tid)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprint(args[0])

	v, ok := env.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("Unknown symbol: %v", name)
	}

	if v.Fn == nil {
		return nil, fmt.Errorf("Symbol %v is not callable", name)
	}

	return callBonsai(v.Fn, args[1:])
}

/*
DocString returns a descriptive string.
*/
func (f *CallFunc) DocString() (string, error) {
	return "Call a function of the Bonsai host environment.", nil
}

/*
LookupFunc reads a symbol of the host environment of a script from ECAL.
*/
type LookupFunc struct {
}

/*
Run executes the ECAL function.
*/
func (f *LookupFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {

	if len(args) != 1 {
		return nil, fmt.Errorf("Function requires 1 parameter: symbol name")
	}

	env, err := hostEnv(tid)
	if err != nil {
		return nil, err
	}

	v, ok := env.Lookup(fmt.Sprint(args[0]))
	if !ok {
		return nil, nil
	}

	return ToECAL(v), nil
}

/*
DocString returns a descriptive string.
*/
func (f *LookupFunc) DocString() (string, error) {
	return "Lookup a symbol of the Bonsai host environment.", nil
}

var stdlibOnce = &sync.Once{}

/*
AddBonsaiStdlibFunctions adds Bonsai related ECAL stdlib functions. The
functions operate on the host environment of the script engine which runs
the calling script.
*/
func AddBonsaiStdlibFunctions() {
	stdlibOnce.Do(func() {
		stdlib.AddStdlibPkg("bonsai", "Bonsai host environment functions")

		stdlib.AddStdlibFunc("bonsai", "call", &CallFunc{})
		stdlib.AddStdlibFunc("bonsai", "lookup", &LookupFunc{})
	})
}

/*
Register binds the script engine into a host environment. Scripts of this
engine see the symbols of the environment through the bonsai package.
*/
func (se *ScriptEngine) Register(env *host.Environment) {
	AddBonsaiStdlibFunctions()

	se.envLock.Lock()
	se.env = env
	se.envLock.Unlock()

	env.Define(EvalFuncName, value.Func(se.EvalFunc()))
}
