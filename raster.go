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

	"github.com/ctessum/sparse"
)

// Grid is a read-only two-dimensional raster.
type Grid interface {
	Rows() int
	Columns() int

	// NoData is the sentinel value marking cells without data.
	NoData() float64

	// Get returns the value at the given row and column. Row 0 is the
	// northern edge of the grid.
	Get(row, col int) float64
}

// Extent holds the placement of a raster. It is carried from inputs to
// outputs but is never interpreted.
type Extent struct {
	XLL, YLL float64 // lower-left corner
	CellSize float64
}

// Raster is an in-memory Grid that can be modified.
type Raster struct {
	data   *sparse.DenseArray
	nodata float64

	Extent Extent

	// Metadata holds free-form provenance entries that are saved
	// along with the raster where the file format allows.
	Metadata []string
}

// NewRaster returns a raster with the given dimensions where every cell
// is set to nodata.
func NewRaster(rows, cols int, nodata float64) *Raster {
	r := &Raster{
		data:   sparse.ZerosDense(rows, cols),
		nodata: nodata,
	}
	r.Fill(nodata)
	return r
}

// NewRasterFrom returns a raster with the dimensions, NoData value, and
// extent of template, with every cell set to fill.
func NewRasterFrom(template Grid, fill float64) *Raster {
	r := &Raster{
		data:   sparse.ZerosDense(template.Rows(), template.Columns()),
		nodata: template.NoData(),
	}
	if t, ok := template.(*Raster); ok {
		r.Extent = t.Extent
	}
	r.Fill(fill)
	return r
}

// Rows returns the number of rows in r.
func (r *Raster) Rows() int { return r.data.Shape[0] }

// Columns returns the number of columns in r.
func (r *Raster) Columns() int { return r.data.Shape[1] }

// NoData returns the NoData sentinel of r.
func (r *Raster) NoData() float64 { return r.nodata }

// SetNoData changes the NoData sentinel without changing any cell values.
func (r *Raster) SetNoData(v float64) { r.nodata = v }

// Get returns the value at row, col.
func (r *Raster) Get(row, col int) float64 { return r.data.Get(row, col) }

// Set sets the value at row, col. Unlike sparse.DenseArray.Set, zero
// values are written.
func (r *Raster) Set(v float64, row, col int) {
	r.data.Elements[r.data.Index1d(row, col)] = v
}

// Increment adds v to the value at row, col.
func (r *Raster) Increment(v float64, row, col int) { r.data.AddVal(v, row, col) }

// Fill sets every cell to v.
func (r *Raster) Fill(v float64) {
	for i := range r.data.Elements {
		r.data.Elements[i] = v
	}
}

// Elements returns the row-major cell values. The returned slice is
// shared with r.
func (r *Raster) Elements() []float64 { return r.data.Elements }

// AddMetadata appends a provenance entry.
func (r *Raster) AddMetadata(entry string) { r.Metadata = append(r.Metadata, entry) }

// IsNoData reports whether v is the NoData value of r.
func (r *Raster) IsNoData(v float64) bool { return isNoData(v, r.nodata) }

// isNoData reports whether v equals nodata. NaN sentinels match NaN values.
func isNoData(v, nodata float64) bool {
	return v == nodata || (math.IsNaN(nodata) && math.IsNaN(v))
}

// sameShape reports whether a and b have the same dimensions.
func sameShape(a, b Grid) bool {
	return a.Rows() == b.Rows() && a.Columns() == b.Columns()
}
