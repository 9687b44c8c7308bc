/*
Copyright © 2018 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package costpath

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when required inputs are missing or
	// inconsistent, for example when the destination and backlink grids
	// differ in size. No work is done when it is returned.
	ErrInvalidInput = errors.New("costpath: invalid input")

	// ErrCorruptPointer indicates that a trace reached a backlink value
	// that is positive but is not one of the eight pointer codes.
	ErrCorruptPointer = errors.New("costpath: corrupt backlink pointer")

	// ErrOutOfBounds indicates that a trace stepped off the grid.
	ErrOutOfBounds = errors.New("costpath: pathway leaves the grid")

	// ErrLoopDetected indicates that a trace did not reach a source
	// within rows*columns steps.
	ErrLoopDetected = errors.New("costpath: pathway does not terminate")
)

// TraceError is the failure of the trace started at one destination
// cell. It wraps one of ErrCorruptPointer, ErrOutOfBounds, or
// ErrLoopDetected.
type TraceError struct {
	Row, Col     int     // destination cell
	AtRow, AtCol int     // cell where the trace failed
	Value        float64 // backlink value at AtRow, AtCol
	Steps        int     // length of the pathway when the trace failed
	Err          error
}

func (e *TraceError) Error() string {
	return fmt.Sprintf("%v: destination (%d, %d) failed at (%d, %d) with backlink %g after %d steps",
		e.Err, e.Row, e.Col, e.AtRow, e.AtCol, e.Value, e.Steps)
}

func (e *TraceError) Unwrap() error { return e.Err }

// IOError records a failure to read or write a raster or to transfer
// it to or from blob storage.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("costpath: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
