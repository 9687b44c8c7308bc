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

func TestRasterSetZero(t *testing.T) {
	r := NewRaster(2, 3, -1)
	r.Set(0, 1, 2)
	if v := r.Get(1, 2); v != 0 {
		t.Errorf("Set(0): got %g", v)
	}
	if v := r.Get(0, 0); v != -1 {
		t.Errorf("other cells should stay NoData, got %g", v)
	}
	r.Set(math.NaN(), 0, 1)
	if v := r.Get(0, 1); !math.IsNaN(v) {
		t.Errorf("Set(NaN): got %g", v)
	}
	r.Increment(2, 1, 2)
	if v := r.Get(1, 2); v != 2 {
		t.Errorf("Increment: got %g", v)
	}
}

func TestRasterSetOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an index outside of the raster")
		}
	}()
	NewRaster(2, 2, -1).Set(1, 2, 0)
}
