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
	"os"
	"path/filepath"
	"strings"
)

// Format is a raster file format.
type Format int

// Supported raster file formats.
const (
	UnknownFormat Format = iota
	NetCDF               // netCDF classic format
	ASCIIGrid            // Esri ASCII grid
)

// FormatOf returns the raster format implied by the extension of path.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nc", ".ncf", ".cdf":
		return NetCDF
	case ".asc", ".txt":
		return ASCIIGrid
	}
	return UnknownFormat
}

// ReadRasterFile reads the raster in the file at path. The format is
// chosen by file extension. variable is the name of the netCDF variable to
// read; if it is empty the first two-dimensional variable is used. It is
// ignored for other formats.
func ReadRasterFile(path, variable string) (*Raster, error) {
	format := FormatOf(path)
	if format == UnknownFormat {
		return nil, fmt.Errorf("%w: unsupported raster file type '%s'", ErrInvalidInput, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "opening", Path: path, Err: err}
	}
	defer f.Close()

	var r *Raster
	switch format {
	case NetCDF:
		r, err = ReadNetCDF(f, variable)
	case ASCIIGrid:
		r, err = ReadASCIIGrid(f)
	}
	if err != nil {
		return nil, &IOError{Op: "reading", Path: path, Err: err}
	}
	return r, nil
}

// WriteFile writes r to the file at path, in the format implied by the
// file extension. variable names the netCDF data variable; if it is
// empty, DefaultVariable is used.
func (r *Raster) WriteFile(path, variable string) error {
	format := FormatOf(path)
	if format == UnknownFormat {
		return fmt.Errorf("%w: unsupported raster file type '%s'", ErrInvalidInput, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "creating", Path: path, Err: err}
	}
	switch format {
	case NetCDF:
		err = r.WriteNetCDF(f, variable)
	case ASCIIGrid:
		err = r.WriteASCIIGrid(f)
	}
	if err != nil {
		f.Close()
		return &IOError{Op: "writing", Path: path, Err: err}
	}
	if err = f.Close(); err != nil {
		return &IOError{Op: "closing", Path: path, Err: err}
	}
	return nil
}
