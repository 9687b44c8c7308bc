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
	"fmt"
	"math"
)

// Direction is a backlink pointer code. Each of the eight valid codes
// points at one of the eight neighbors of a grid cell.
type Direction uint8

// Backlink pointer codes, in the order of the offset tables below.
const (
	NorthEast Direction = 1
	East      Direction = 2
	SouthEast Direction = 4
	South     Direction = 8
	SouthWest Direction = 16
	West      Direction = 32
	NorthWest Direction = 64
	North     Direction = 128
)

// Column and row offsets of the eight neighbors. Rows increase
// southward.
var (
	dx = [8]int{1, 1, 1, 0, -1, -1, -1, 0}
	dy = [8]int{-1, 0, 1, 1, 1, 0, -1, -1}
)

var directionNames = [8]string{"NE", "E", "SE", "S", "SW", "W", "NW", "N"}

// slot returns the index of d in the offset tables, or -1 if d is not
// a valid code.
func (d Direction) slot() int {
	switch d {
	case NorthEast:
		return 0
	case East:
		return 1
	case SouthEast:
		return 2
	case South:
		return 3
	case SouthWest:
		return 4
	case West:
		return 5
	case NorthWest:
		return 6
	case North:
		return 7
	}
	return -1
}

// Valid reports whether d is one of the eight pointer codes.
func (d Direction) Valid() bool { return d.slot() >= 0 }

// Offset returns the row and column offsets of the neighbor that d
// points to. It panics if d is not valid; use ParseDirection to
// validate raw grid values.
func (d Direction) Offset() (drow, dcol int) {
	s := d.slot()
	if s < 0 {
		panic(fmt.Errorf("costpath: invalid direction code %d", uint8(d)))
	}
	return dy[s], dx[s]
}

func (d Direction) String() string {
	if s := d.slot(); s >= 0 {
		return directionNames[s]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// ParseDirection converts a backlink grid value into a Direction.
// ok is false unless v is exactly one of the eight pointer codes.
func ParseDirection(v float64) (d Direction, ok bool) {
	if math.IsNaN(v) || v < 1 || v > 128 || v != math.Trunc(v) {
		return 0, false
	}
	d = Direction(v)
	return d, d.Valid()
}
