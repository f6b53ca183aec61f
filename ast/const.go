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
Package ast contains the in-memory representation of a decoded Bonsai program.

Bonsai

Bonsai notation is a compact tree shaped wire format for expression trees. A
node is an ordered sequence whose first element is a string discriminator
followed by discriminator specific operands:

	["()", ["$", "console.log"], [":", "hello"]]

Every discriminator of the wire protocol has a constant in this file. The
table must not be changed without a version change of the wire format.

FreeVariables() scans a decoded tree for named references which are not bound
by any frame. PrettyPrint() renders a tree back into Bonsai notation.
*/
package ast

/*
Discriminators of the wire format
*/
const (
	NodeConstant     = ":"
	NodeDefault      = "default"
	NodeEmpty        = "empty"
	NodeParameter    = "$"
	NodeLambda       = "=>"
	NodeBlock        = "{...}"
	NodeAssign       = "="
	NodeMemberAccess = "."
	NodeInvocation   = "()"
	NodeReturn       = "return"
	NodeConditional  = "?:"
	NodeArrayIndex   = "[]"
	NodeArrayLength  = "#"
	NodeNewArrayInit = "new[]"

	// Operators which are resolved at runtime

	NodeAdd                = "+"
	NodeSubtract           = "-"
	NodeMultiply           = "*"
	NodeDivide             = "/"
	NodeModulo             = "%"
	NodeEqual              = "=="
	NodeNotEqual           = "!="
	NodeLessThan           = "<"
	NodeLessThanOrEqual    = "<="
	NodeGreaterThan        = ">"
	NodeGreaterThanOrEqual = ">="
	NodeAndAlso            = "&&"
	NodeOrElse             = "||"
	NodeCoalesce           = "??"
	NodeNot                = "!"

	// Aliases of operator discriminators which have a unary form

	NodeUnaryPlus = NodeAdd
	NodeNegate    = NodeSubtract
)

/*
IsShortCircuit returns true if the right operand of the given binary operator
is only evaluated depending on the value of the left operand.
*/
func IsShortCircuit(op string) bool {
	return op == NodeAndAlso || op == NodeOrElse || op == NodeCoalesce
}
