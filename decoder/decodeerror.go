/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package decoder

import (
	"errors"
	"fmt"
	"strings"
)

/*
newDecodeError creates a new Error object.
*/
func (d *Decoder) newDecodeError(t error, detail string, path []int) error {
	return &Error{d.Source, t, detail, path}
}

/*
Error models a decoder related error
*/
type Error struct {
	Source string // Name of the source which was given to the decoder
	Type   error  // Error type (to be used for equal checks)
	Detail string // Details of this error
	Path   []int  // Operand indices leading from the root to the offending node
}

/*
Error returns a human-readable string representation of this error.
*/
func (de *Error) Error() string {
	var ret string

	if de.Detail != "" {
		ret = fmt.Sprintf("Decode error in %s: %v (%v)", de.Source, de.Type, de.Detail)
	} else {
		ret = fmt.Sprintf("Decode error in %s: %v", de.Source, de.Type)
	}

	if len(de.Path) > 0 {
		ret = fmt.Sprintf("%s (Path:%s)", ret, PathString(de.Path))
	}

	return ret
}

/*
Unwrap returns the error type.
*/
func (de *Error) Unwrap() error {
	return de.Type
}

/*
PathString returns a string representation of a node path.
*/
func PathString(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = fmt.Sprint(p)
	}
	return "/" + strings.Join(parts, "/")
}

/*
Decoder related error types
*/
var (
	ErrUnsupportedNodeKind     = errors.New("Unsupported node kind")
	ErrMalformedNode           = errors.New("Malformed node")
	ErrUnsupportedLiteral      = errors.New("Unsupported literal")
	ErrInvalidAssignmentTarget = errors.New("Invalid assignment target")
	ErrOutOfScopeReference     = errors.New("Out of scope reference")
	ErrReturnOutsideFunction   = errors.New("Return outside of function")
)
