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

package hash

import (
	"math"
	"testing"

	"github.com/spatialmodel/costpath"
)

func TestGrid(t *testing.T) {
	a := costpath.NewRaster(2, 3, -1)
	b := costpath.NewRaster(2, 3, -1)
	if Grid(a) != Grid(b) {
		t.Error("identical grids should have the same key")
	}
	if len(Grid(a)) != 32 {
		t.Errorf("key length: %d", len(Grid(a)))
	}

	b.Set(1, 1, 2)
	if Grid(a) == Grid(b) {
		t.Error("different values should have different keys")
	}

	if Grid(a) == Grid(costpath.NewRaster(3, 2, -1)) {
		t.Error("different shapes should have different keys")
	}
	if Grid(a) == Grid(costpath.NewRaster(2, 3, -9999)) {
		t.Error("different NoData values should have different keys")
	}

	n1 := costpath.NewRaster(1, 1, math.NaN())
	n2 := costpath.NewRaster(1, 1, math.NaN())
	if Grid(n1) != Grid(n2) {
		t.Error("NaN grids should have the same key")
	}
}
