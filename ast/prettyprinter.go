/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"devt.de/krotik/common/errorutil"
)

/*
ToWire converts a tree back into a generic wire tree. Decoding the result
produces an equivalent tree.
*/
func ToWire(node Node) []interface{} {

	wireAll := func(nodes []Node) []interface{} {
		ret := make([]interface{}, len(nodes))
		for i, n := range nodes {
			ret[i] = ToWire(n)
		}
		return ret
	}

	switch n := node.(type) {

	case *Constant:
		return []interface{}{NodeConstant, n.Value.Native()}

	case *Empty:
		return []interface{}{NodeEmpty}

	case *Parameter:
		if n.Resolved {
			return []interface{}{NodeParameter, n.Ref.Frame, n.Ref.Slot}
		}
		return []interface{}{NodeParameter, n.Name}

	case *Lambda:
		params := make([]interface{}, len(n.Params))
		for i, p := range n.Params {
			params[i] = []interface{}{NodeParameter, p}
		}
		return []interface{}{NodeLambda, ToWire(n.Body), params}

	case *Block:
		locals := make([]interface{}, n.Locals)
		for i := range locals {
			locals[i] = []interface{}{}
		}
		return []interface{}{NodeBlock, locals, wireAll(n.Body)}

	case *Assign:
		return []interface{}{NodeAssign, ToWire(n.Target), ToWire(n.Value)}

	case *BinaryOp:
		return []interface{}{n.Op, ToWire(n.Left), ToWire(n.Right)}

	case *UnaryOp:
		return []interface{}{n.Op, ToWire(n.Operand)}

	case *MemberAccess:
		return []interface{}{NodeMemberAccess, n.Name, ToWire(n.Target)}

	case *Return:
		return []interface{}{NodeReturn, ToWire(n.Value)}
	}

	// All remaining nodes list their children as operands

	return append([]interface{}{node.Kind()}, wireAll(node.Children())...)
}

/*
PrettyPrint renders a tree in Bonsai notation (JSON text).
*/
func PrettyPrint(node Node) (string, error) {
	var ret string
	var buf bytes.Buffer

	errorutil.AssertTrue(node != nil, "Cannot print nil node")

	// Discriminators like => must not be escaped

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	err := enc.Encode(ToWire(node))

	if err == nil {
		ret = strings.TrimSuffix(buf.String(), "\n")
	} else {
		err = fmt.Errorf("Could not print %v node: %v", node.Kind(), err)
	}

	return ret, err
}
