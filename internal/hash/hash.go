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

// Package hash computes content digests of rasters.
package hash

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/spatialmodel/costpath"
)

// Grid returns a hash key for the dimensions, NoData value, and cell
// values of g. Grids with bit-identical contents have the same key.
func Grid(g costpath.Grid) string {
	h := fnv.New128a()
	var b [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(b[:], v)
		h.Write(b[:])
	}
	rows, cols := g.Rows(), g.Columns()
	put(uint64(rows))
	put(uint64(cols))
	put(math.Float64bits(g.NoData()))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			put(math.Float64bits(g.Get(i, j)))
		}
	}
	bKey := h.Sum([]byte{})
	return fmt.Sprintf("%x", bKey[0:h.Size()])
}
