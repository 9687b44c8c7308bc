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
	"math"
	"testing"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		v          float64
		d          Direction
		drow, dcol int
		name       string
	}{
		{v: 1, d: NorthEast, drow: -1, dcol: 1, name: "NE"},
		{v: 2, d: East, drow: 0, dcol: 1, name: "E"},
		{v: 4, d: SouthEast, drow: 1, dcol: 1, name: "SE"},
		{v: 8, d: South, drow: 1, dcol: 0, name: "S"},
		{v: 16, d: SouthWest, drow: 1, dcol: -1, name: "SW"},
		{v: 32, d: West, drow: 0, dcol: -1, name: "W"},
		{v: 64, d: NorthWest, drow: -1, dcol: -1, name: "NW"},
		{v: 128, d: North, drow: -1, dcol: 0, name: "N"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d, ok := ParseDirection(test.v)
			if !ok {
				t.Fatalf("%g should be a valid code", test.v)
			}
			if d != test.d {
				t.Errorf("direction: %v != %v", d, test.d)
			}
			drow, dcol := d.Offset()
			if drow != test.drow || dcol != test.dcol {
				t.Errorf("offset: (%d, %d) != (%d, %d)", drow, dcol, test.drow, test.dcol)
			}
			if d.String() != test.name {
				t.Errorf("name: %s != %s", d.String(), test.name)
			}
		})
	}
}

func TestParseDirectionInvalid(t *testing.T) {
	for _, v := range []float64{0, -1, 3, 5, 127, 129, 256, 1000, 2.5, 0.999, math.NaN(), math.Inf(1)} {
		if d, ok := ParseDirection(v); ok {
			t.Errorf("%g should not be valid, got %v", v, d)
		}
	}
}

func TestDirectionOffsetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an invalid direction")
		}
	}()
	Direction(3).Offset()
}

func TestDirectionString(t *testing.T) {
	if s := Direction(3).String(); s != "Direction(3)" {
		t.Errorf("got %s", s)
	}
}
