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
	"strings"

	"github.com/ctessum/cdf"
)

// DefaultVariable is the name of the data variable in netCDF rasters
// written by this package.
const DefaultVariable = "data"

// defaultNoData is used for netCDF variables without a fill value.
const defaultNoData = -32768.

// ReadNetCDF reads a raster from the netCDF variable with the given name.
// If variable is empty, the first two-dimensional variable in the file is
// read. The first dimension of the variable is the row dimension.
func ReadNetCDF(rw cdf.ReaderWriterAt, variable string) (*Raster, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("costpath.ReadNetCDF: %v", err)
	}
	if variable == "" {
		for _, v := range f.Header.Variables() {
			if len(f.Header.Lengths(v)) == 2 {
				variable = v
				break
			}
		}
		if variable == "" {
			return nil, fmt.Errorf("costpath.ReadNetCDF: the file has no two-dimensional variables")
		}
	}
	dims := f.Header.Lengths(variable)
	if len(dims) != 2 {
		return nil, fmt.Errorf("costpath.ReadNetCDF: variable '%s' has %d dimensions but should have 2",
			variable, len(dims))
	}

	nodata := defaultNoData
	if v, ok := firstValue(f.Header.GetAttribute(variable, "_FillValue")); ok {
		nodata = v
	} else if v, ok := firstValue(f.Header.GetAttribute(variable, "nodata")); ok {
		nodata = v
	}
	o := NewRaster(dims[0], dims[1], nodata)

	r := f.Reader(variable, nil, nil)
	buf := r.Zero(dims[0] * dims[1])
	n, err := r.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("costpath.ReadNetCDF: reading variable '%s': %v", variable, err)
	}
	if n != len(o.Elements()) {
		return nil, fmt.Errorf("costpath.ReadNetCDF: dims are %d but read %d values", len(o.Elements()), n)
	}
	if err = copyValues(o.Elements(), buf); err != nil {
		return nil, fmt.Errorf("costpath.ReadNetCDF: variable '%s': %v", variable, err)
	}

	if v, ok := firstValue(f.Header.GetAttribute("", "x0")); ok {
		o.Extent.XLL = v
	}
	if v, ok := firstValue(f.Header.GetAttribute("", "y0")); ok {
		o.Extent.YLL = v
	}
	if v, ok := firstValue(f.Header.GetAttribute("", "dx")); ok {
		o.Extent.CellSize = v
	}
	if h, ok := f.Header.GetAttribute("", "history").(string); ok && h != "" {
		o.Metadata = strings.Split(h, "\n")
	}
	return o, nil
}

// WriteNetCDF writes r to w as a single-precision variable with the given
// name, or DefaultVariable if name is empty.
func (r *Raster) WriteNetCDF(w cdf.ReaderWriterAt, name string) error {
	if name == "" {
		name = DefaultVariable
	}
	if r.Rows() == 0 || r.Columns() == 0 {
		return fmt.Errorf("costpath: cannot write an empty raster to netCDF")
	}
	h := cdf.NewHeader([]string{"y", "x"}, []int{r.Rows(), r.Columns()})
	h.AddAttribute("", "comment", "cost pathway raster")
	h.AddAttribute("", "x0", []float64{r.Extent.XLL})
	h.AddAttribute("", "y0", []float64{r.Extent.YLL})
	h.AddAttribute("", "dx", []float64{r.Extent.CellSize})
	if len(r.Metadata) > 0 {
		h.AddAttribute("", "history", strings.Join(r.Metadata, "\n"))
	}
	h.AddVariable(name, []string{"y", "x"}, []float32{0})
	h.AddAttribute(name, "_FillValue", []float32{float32(r.nodata)})
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return err
	}
	data32 := make([]float32, len(r.Elements()))
	for i, e := range r.Elements() {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	if _, err = f.Writer(name, start, end).Write(data32); err != nil {
		return fmt.Errorf("costpath: writing variable %s to netcdf file: %v", name, err)
	}
	return nil
}

// firstValue returns the first element of a numeric netCDF attribute.
func firstValue(attr interface{}) (float64, bool) {
	switch a := attr.(type) {
	case []uint8:
		if len(a) > 0 {
			return float64(a[0]), true
		}
	case []int16:
		if len(a) > 0 {
			return float64(a[0]), true
		}
	case []int32:
		if len(a) > 0 {
			return float64(a[0]), true
		}
	case []float32:
		if len(a) > 0 {
			return float64(a[0]), true
		}
	case []float64:
		if len(a) > 0 {
			return a[0], true
		}
	}
	return 0, false
}

// copyValues converts the values read from a netCDF variable to float64.
func copyValues(dst []float64, src interface{}) error {
	switch s := src.(type) {
	case []uint8:
		for i, v := range s {
			dst[i] = float64(v)
		}
	case []int16:
		for i, v := range s {
			dst[i] = float64(v)
		}
	case []int32:
		for i, v := range s {
			dst[i] = float64(v)
		}
	case []float32:
		for i, v := range s {
			dst[i] = float64(v)
		}
	case []float64:
		copy(dst, s)
	default:
		return fmt.Errorf("unsupported data type %T", src)
	}
	return nil
}
