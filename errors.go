// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gosbas

import (
	"fmt"
	"time"
)

// ParseError reports a manifest line whose date token could not be read.
type ParseError struct {
	Source string // File name (or "" for a bare reader)
	Line   int    // 1-based line number
	Value  string // Offending token or line
	Err    error  // Underlying cause
}

func (e *ParseError) Error() string {
	src := e.Source
	if src == "" {
		src = "input"
	}
	if e.Err != nil {
		return fmt.Sprintf("parse error at %s:%d (%q): %s", src, e.Line, e.Value, e.Err.Error())
	}
	return fmt.Sprintf("parse error at %s:%d (%q)", src, e.Line, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InputError reports input from which the linear system cannot be built,
// e.g. an igram whose late date is not among the acquisitions.
type InputError struct {
	Row  int       // Igram row in the matrix, -1 if not row specific
	Date time.Time // Date involved, zero if none
	Msg  string
}

func (e *InputError) Error() string {
	switch {
	case e.Row >= 0 && !e.Date.IsZero():
		return fmt.Sprintf("invalid input at igram %d (%s): %s", e.Row, e.Date.Format("2006-01-02"), e.Msg)
	case e.Row >= 0:
		return fmt.Sprintf("invalid input at igram %d: %s", e.Row, e.Msg)
	default:
		return fmt.Sprintf("invalid input: %s", e.Msg)
	}
}

// ContractError reports inconsistent arguments passed by the caller.
type ContractError struct {
	Msg string
}

func (e *ContractError) Error() string {
	return "contract violation: " + e.Msg
}

// RefOutOfBoundsError reports a reference pixel outside the image extent.
type RefOutOfBoundsError struct {
	Row, Col   int // Requested reference pixel
	Rows, Cols int // Spatial shape of the stack
}

func (e *RefOutOfBoundsError) Error() string {
	return fmt.Sprintf("reference pixel (%d, %d) is out of bounds for stack of shape (%d, %d)", e.Row, e.Col, e.Rows, e.Cols)
}

func newInputError(format string, a ...any) *InputError {
	return &InputError{Row: -1, Msg: fmt.Sprintf(format, a...)}
}
