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
	"fmt"

	"devt.de/krotik/bonsai/ast"
	"devt.de/krotik/common/errorutil"
)

/*
Scope is the decode context: the stack of open frames (outermost first) and
the stack of return labels of the lambdas which are currently decoded.

A Scope is a value. Push and pop operations return a new Scope and never
modify the receiver, so a caller's scope is unchanged once a nested decode
returns, no matter if it succeeded or failed.
*/
type Scope struct {
	frames []int        // Number of slots of each open frame
	labels []*ast.Label // Return labels of enclosing lambdas
}

/*
NewScope returns an empty scope.
*/
func NewScope() Scope {
	return Scope{}
}

/*
PushFrame opens a new frame with a given number of slots.
*/
func (s Scope) PushFrame(size int) Scope {
	errorutil.AssertTrue(size >= 0, "Frame size must not be negative")
	return Scope{append(s.frames[:len(s.frames):len(s.frames)], size), s.labels}
}

/*
PopFrame closes the innermost frame.
*/
func (s Scope) PopFrame() Scope {
	errorutil.AssertTrue(len(s.frames) > 0, "No frame to pop")
	return Scope{s.frames[:len(s.frames)-1], s.labels}
}

/*
Depth returns the number of open frames.
*/
func (s Scope) Depth() int {
	return len(s.frames)
}

/*
Resolve validates a frame and slot index against the open frames.
*/
func (s Scope) Resolve(frame int, slot int) (ast.SlotRef, error) {

	if frame < 0 || frame >= len(s.frames) {
		return ast.SlotRef{}, &ScopeError{frame, slot,
			fmt.Sprintf("Frame index %v out of range (%v open frames)",
				frame, len(s.frames))}
	}

	if size := s.frames[frame]; slot < 0 || slot >= size {
		return ast.SlotRef{}, &ScopeError{frame, slot,
			fmt.Sprintf("Slot index %v out of range (frame %v has %v slots)",
				slot, frame, size)}
	}

	return ast.SlotRef{Frame: frame, Slot: slot}, nil
}

/*
PushLabel creates a new return label.
*/
func (s Scope) PushLabel() (Scope, *ast.Label) {
	l := &ast.Label{Depth: len(s.labels)}
	return Scope{s.frames, append(s.labels[:len(s.labels):len(s.labels)], l)}, l
}

/*
PopLabel removes the innermost return label.
*/
func (s Scope) PopLabel() Scope {
	errorutil.AssertTrue(len(s.labels) > 0, "No label to pop")
	return Scope{s.frames, s.labels[:len(s.labels)-1]}
}

/*
CurrentLabel returns the innermost return label or nil if no lambda is
currently decoded.
*/
func (s Scope) CurrentLabel() *ast.Label {
	if len(s.labels) == 0 {
		return nil
	}
	return s.labels[len(s.labels)-1]
}

/*
LabelDepth returns the number of return labels.
*/
func (s Scope) LabelDepth() int {
	return len(s.labels)
}

/*
ScopeError is returned if a reference cannot be resolved.
*/
type ScopeError struct {
	Frame  int    // Requested frame index
	Slot   int    // Requested slot index
	Detail string // Details of this error
}

/*
Error returns a human-readable string representation of this error.
*/
func (se *ScopeError) Error() string {
	return se.Detail
}

/*
Unwrap returns the error type.
*/
func (se *ScopeError) Unwrap() error {
	return ErrOutOfScopeReference
}
