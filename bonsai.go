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
Package bonsai runs programs given in Bonsai notation.

Bonsai notation is a JSON encoding of an expression tree. Every node is an
array whose first element is a discriminator string. A program runs through
the following pipeline:

	JSON text -> wire tree -> decode -> free variable scan -> bind -> evaluate

The decoder resolves lexical references into frame / slot pairs and wires
every return to its enclosing lambda. Names which remain unresolved are free
variables and must be supplied by a host environment.
*/
package bonsai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"devt.de/krotik/bonsai/ast"
	"devt.de/krotik/bonsai/config"
	"devt.de/krotik/bonsai/decoder"
	"devt.de/krotik/bonsai/ecal"
	"devt.de/krotik/bonsai/host"
	"devt.de/krotik/bonsai/interpreter"
	"devt.de/krotik/bonsai/value"
	"devt.de/krotik/ecal/util"
)

/*
Program is a decoded Bonsai program.
*/
type Program struct {
	Source        string      // Name to identify the program
	Root          ast.Node    // Decoded tree
	FreeVariables []string    // Names which must be bound before evaluation
	Logger        util.Logger // Logger for evaluation debug output
}

/*
ParseJSON parses JSON text into a wire tree. Numbers are kept as
json.Number values so that integral literals stay integral.
*/
func ParseJSON(text string) (interface{}, error) {
	var tree interface{}

	dec := json.NewDecoder(bytes.NewBufferString(text))
	dec.UseNumber()

	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("Could not parse JSON: %v", err)
	}

	// Make sure there is nothing after the tree

	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("Could not parse JSON: unexpected data after the program")
	}

	return tree, nil
}

/*
Compile decodes a wire tree into a Program.
*/
func Compile(source string, tree interface{}) (*Program, error) {

	root, err := decoder.NewDecoder(source).Decode(tree)
	if err != nil {
		return nil, err
	}

	return &Program{
		Source:        source,
		Root:          root,
		FreeVariables: ast.FreeVariables(root),
	}, nil
}

/*
CompileJSON parses JSON text and decodes it into a Program.
*/
func CompileJSON(source string, text string) (*Program, error) {
	tree, err := ParseJSON(text)
	if err != nil {
		return nil, err
	}

	return Compile(source, tree)
}

/*
Evaluate binds the free variables of the program against a host environment
and evaluates the program.
*/
func (p *Program) Evaluate(env *host.Environment) (value.Value, error) {

	bindings, err := env.Bind(p.FreeVariables)
	if err != nil {
		return value.Null(), err
	}

	config.EnsureConfig()

	ip := interpreter.NewInterpreter(p.Source, p.Logger)
	ip.MaxCallDepth = int(config.Int(config.MaxCallDepth))

	return ip.Evaluate(p.Root, bindings)
}

/*
String returns the program in Bonsai notation.
*/
func (p *Program) String() string {
	res, err := ast.PrettyPrint(p.Root)
	if err != nil {
		return fmt.Sprintf("<invalid program: %v>", err)
	}
	return res
}

/*
Run parses, decodes and evaluates a program given as JSON text.
*/
func Run(source string, text string, env *host.Environment) (value.Value, error) {

	p, err := CompileJSON(source, text)
	if err != nil {
		return value.Null(), err
	}

	return p.Evaluate(env)
}

/*
NewLogger creates a new logger which writes to stdout and filters messages
below the given log level (debug, info or error).
*/
func NewLogger(level string) (util.Logger, error) {
	logger, err := util.NewLogLevelLogger(util.NewStdOutLogger(), level)
	if err != nil {
		return nil, err
	}
	return logger, nil
}

/*
NewEnvironment creates a host environment according to the current
configuration. The console writes to the given logger. If the script engine
is enabled then ECAL scripts can be run through the ecal.eval symbol.
*/
func NewEnvironment(logger util.Logger) (*host.Environment, error) {

	config.EnsureConfig()

	env := host.NewEnvironment(logger)

	if config.Bool(config.EnableScriptEngine) {

		scriptLogger, err := NewLogger(config.Str(config.ScriptLogLevel))
		if err != nil {
			return nil, err
		}

		ecal.NewScriptEngine("bonsai", scriptLogger).Register(env)
	}

	return env, nil
}
