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
Package value contains the dynamically typed value domain which flows through
the evaluation of a Bonsai program.

A Value is a small tagged variant. Scalars (null, bool, int, float, string)
are stored inline, sequences and records are shared by reference and
callables are represented by the Callable interface.
*/
package value

import "fmt"

/*
Kind is the runtime kind of a value
*/
type Kind int

/*
All known value kinds
*/
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindRecord
	KindCallable
)

var kindNames = map[Kind]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindString:   "string",
	KindList:     "list",
	KindRecord:   "record",
	KindCallable: "callable",
}

/*
String returns the name of the kind.
*/
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

/*
Callable is a value which can be invoked with positional arguments.
*/
type Callable interface {

	/*
	   Name returns a descriptive name of the callable.
	*/
	Name() string

	/*
	   Arity returns the number of expected arguments or -1 if the
	   callable accepts any number of arguments.
	*/
	Arity() int

	/*
	   Call invokes the callable.
	*/
	Call(args []Value) (Value, error)
}

/*
Value is a runtime value.
*/
type Value struct {
	Kind Kind             // Kind of this value
	B    bool             // Boolean payload
	I    int64            // Integral payload
	F    float64          // Floating point payload
	S    string           // String payload
	L    []Value          // Sequence payload
	R    map[string]Value // Record payload
	Fn   Callable         // Callable payload
}

/*
Null returns the null value. It is also the default value of the language.
*/
func Null() Value { return Value{Kind: KindNull} }

/*
Bool returns a boolean value.
*/
func Bool(b bool) Value { return Value{Kind: KindBool, B: b} }

/*
Int returns an integral number value.
*/
func Int(i int64) Value { return Value{Kind: KindInt, I: i} }

/*
Float returns a floating point number value.
*/
func Float(f float64) Value { return Value{Kind: KindFloat, F: f} }

/*
String returns a string value.
*/
func String(s string) Value { return Value{Kind: KindString, S: s} }

/*
List returns a sequence value.
*/
func List(l []Value) Value {
	if l == nil {
		l = []Value{}
	}
	return Value{Kind: KindList, L: l}
}

/*
Record returns a record value.
*/
func Record(r map[string]Value) Value {
	if r == nil {
		r = map[string]Value{}
	}
	return Value{Kind: KindRecord, R: r}
}

/*
Func returns a callable value.
*/
func Func(c Callable) Value { return Value{Kind: KindCallable, Fn: c} }

/*
IsNull returns true if this is the null value.
*/
func (v Value) IsNull() bool { return v.Kind == KindNull }

/*
IsNumber returns true if this is an integral or floating point number.
*/
func (v Value) IsNumber() bool { return v.Kind == KindInt || v.Kind == KindFloat }

/*
Number returns the value of a number as float64.
*/
func (v Value) Number() float64 {
	if v.Kind == KindInt {
		return float64(v.I)
	}
	return v.F
}

/*
Native converts this value into plain Go data (nil, bool, int64, float64,
string, []interface{}, map[string]interface{}). Callables are represented by
their display string.
*/
func (v Value) Native() interface{} {
	switch v.Kind {
	case KindBool:
		return v.B
	case KindInt:
		return v.I
	case KindFloat:
		return v.F
	case KindString:
		return v.S
	case KindList:
		ret := make([]interface{}, len(v.L))
		for i, e := range v.L {
			ret[i] = e.Native()
		}
		return ret
	case KindRecord:
		ret := make(map[string]interface{}, len(v.R))
		for k, e := range v.R {
			ret[k] = e.Native()
		}
		return ret
	case KindCallable:
		return v.String()
	}

	return nil
}

/*
Equal checks if two values are equal. Numbers compare numerically across
kinds, sequences and records compare structurally and callables compare by
identity.
*/
func Equal(a, b Value) bool {

	if a.IsNumber() && b.IsNumber() {
		if a.Kind == KindInt && b.Kind == KindInt {
			return a.I == b.I
		}
		return a.Number() == b.Number()
	}

	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.B == b.B
	case KindString:
		return a.S == b.S
	case KindList:
		if len(a.L) != len(b.L) {
			return false
		}
		for i := range a.L {
			if !Equal(a.L[i], b.L[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		if len(a.R) != len(b.R) {
			return false
		}
		for k, av := range a.R {
			bv, ok := b.R[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindCallable:
		return a.Fn == b.Fn
	}

	return false
}

// Host functions
// ==============

/*
HostFunc is a callable implemented in Go.
*/
type HostFunc struct {
	name  string
	arity int
	fn    func(args []Value) (Value, error)
}

/*
NewHostFunc creates a new callable from a Go function. Use an arity of -1
for functions which accept any number of arguments.
*/
func NewHostFunc(name string, arity int, fn func(args []Value) (Value, error)) *HostFunc {
	return &HostFunc{name, arity, fn}
}

/*
Name returns the name of the function.
*/
func (hf *HostFunc) Name() string {
	return hf.name
}

/*
Arity returns the number of expected arguments.
*/
func (hf *HostFunc) Arity() int {
	return hf.arity
}

/*
Call invokes the function.
*/
func (hf *HostFunc) Call(args []Value) (Value, error) {
	return hf.fn(args)
}
