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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// asciiNoData is the NoData value of Esri ASCII grids that do not
// specify one.
const asciiNoData = -9999.

// ReadASCIIGrid reads a raster in Esri ASCII grid format.
func ReadASCIIGrid(r io.Reader) (*Raster, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	var (
		rows, cols         int
		xll, yll, cellSize float64
		xCenter, yCenter   bool
		first              string
	)
	nodata := asciiNoData
	for sc.Scan() {
		key := sc.Text()
		if _, err := strconv.ParseFloat(key, 64); err == nil {
			first = key // end of the header
			break
		}
		if !sc.Scan() {
			return nil, fmt.Errorf("costpath.ReadASCIIGrid: missing value for header '%s'", key)
		}
		val := sc.Text()
		var err error
		switch strings.ToLower(key) {
		case "ncols":
			cols, err = strconv.Atoi(val)
		case "nrows":
			rows, err = strconv.Atoi(val)
		case "xllcorner":
			xll, err = strconv.ParseFloat(val, 64)
		case "xllcenter":
			xll, err = strconv.ParseFloat(val, 64)
			xCenter = true
		case "yllcorner":
			yll, err = strconv.ParseFloat(val, 64)
		case "yllcenter":
			yll, err = strconv.ParseFloat(val, 64)
			yCenter = true
		case "cellsize":
			cellSize, err = strconv.ParseFloat(val, 64)
		case "nodata_value":
			nodata, err = strconv.ParseFloat(val, 64)
		default:
			return nil, fmt.Errorf("costpath.ReadASCIIGrid: unknown header '%s'", key)
		}
		if err != nil {
			return nil, fmt.Errorf("costpath.ReadASCIIGrid: header '%s': %v", key, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("costpath.ReadASCIIGrid: %v", err)
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("costpath.ReadASCIIGrid: invalid grid size %dx%d", rows, cols)
	}

	o := NewRaster(rows, cols, nodata)
	o.Extent = Extent{XLL: xll, YLL: yll, CellSize: cellSize}
	if xCenter {
		o.Extent.XLL -= cellSize / 2
	}
	if yCenter {
		o.Extent.YLL -= cellSize / 2
	}

	e := o.Elements()
	tok := first
	for i := range e {
		if i > 0 {
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return nil, fmt.Errorf("costpath.ReadASCIIGrid: %v", err)
				}
				return nil, fmt.Errorf("costpath.ReadASCIIGrid: expected %d values but found %d", len(e), i)
			}
			tok = sc.Text()
		} else if tok == "" {
			return nil, fmt.Errorf("costpath.ReadASCIIGrid: expected %d values but found 0", len(e))
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("costpath.ReadASCIIGrid: value %d: %v", i, err)
		}
		e[i] = v
	}
	return o, nil
}

// WriteASCIIGrid writes r in Esri ASCII grid format. Metadata is not
// written.
func (r *Raster) WriteASCIIGrid(w io.Writer) error {
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "ncols %d\n", r.Columns())
	fmt.Fprintf(b, "nrows %d\n", r.Rows())
	fmt.Fprintf(b, "xllcorner %s\n", formatValue(r.Extent.XLL))
	fmt.Fprintf(b, "yllcorner %s\n", formatValue(r.Extent.YLL))
	fmt.Fprintf(b, "cellsize %s\n", formatValue(r.Extent.CellSize))
	fmt.Fprintf(b, "NODATA_value %s\n", formatValue(r.nodata))
	e := r.Elements()
	cols := r.Columns()
	for row := 0; row < r.Rows(); row++ {
		for col, v := range e[row*cols : (row+1)*cols] {
			if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(formatValue(v))
		}
		b.WriteByte('\n')
	}
	return b.Flush()
}

func formatValue(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
