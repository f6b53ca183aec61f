/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package value

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

/*
LiteralError is returned if a literal token cannot be converted into a value.
*/
type LiteralError struct {
	Token interface{} // Offending token
}

/*
Error returns a human-readable string representation of this error.
*/
func (le *LiteralError) Error() string {
	return fmt.Sprintf("Cannot convert token of type %T", le.Token)
}

/*
FromLiteral converts a literal token of a generic JSON tree into a value.
Primitives pass through, arrays become sequences and objects become records.
Integral numbers become int values.
*/
func FromLiteral(token interface{}) (Value, error) {

	switch t := token.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case int:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case float32:
		return FromFloat(float64(t)), nil
	case float64:
		return FromFloat(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i), nil
		}
		if f, err := t.Float64(); err == nil {
			return Float(f), nil
		}
	case []interface{}:
		l := make([]Value, len(t))
		for i, e := range t {
			v, err := FromLiteral(e)
			if err != nil {
				return Null(), err
			}
			l[i] = v
		}
		return List(l), nil
	case map[string]interface{}:
		r := make(map[string]Value, len(t))
		for k, e := range t {
			v, err := FromLiteral(e)
			if err != nil {
				return Null(), err
			}
			r[k] = v
		}
		return Record(r), nil
	case map[interface{}]interface{}:

		// Records produced by script engines may use interface keys

		r := make(map[string]Value, len(t))
		for k, e := range t {
			ks, ok := k.(string)
			if !ok {
				return Null(), &LiteralError{k}
			}
			v, err := FromLiteral(e)
			if err != nil {
				return Null(), err
			}
			r[ks] = v
		}
		return Record(r), nil
	}

	return Null(), &LiteralError{token}
}

/*
FromFloat returns an int value if the given float has no fractional part and
fits into an int64, otherwise a float value.
*/
func FromFloat(f float64) Value {
	if f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
		return Int(int64(f))
	}
	return Float(f)
}

// String conversion
// =================

/*
String returns the string conversion of this value as used by string
concatenation. Null converts into an empty string.
*/
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindInt:
		return strconv.FormatInt(v.I, 10)
	case KindFloat:
		return strconv.FormatFloat(v.F, 'g', -1, 64)
	case KindString:
		return v.S
	case KindList:
		var buf strings.Builder

		buf.WriteString("[")
		for i, e := range v.L {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(e.Repr())
		}
		buf.WriteString("]")

		return buf.String()
	case KindRecord:
		var buf strings.Builder

		keys := make([]string, 0, len(v.R))
		for k := range v.R {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteString("{")
		for i, k := range keys {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(strconv.Quote(k))
			buf.WriteString(": ")
			buf.WriteString(v.R[k].Repr())
		}
		buf.WriteString("}")

		return buf.String()
	case KindCallable:
		return fmt.Sprintf("<callable %v>", v.Fn.Name())
	}

	return ""
}

/*
Repr returns a representation of this value which is used when the value is
nested inside a sequence or record. Strings are quoted and null is spelled
out.
*/
func (v Value) Repr() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindString:
		return strconv.Quote(v.S)
	}
	return v.String()
}
