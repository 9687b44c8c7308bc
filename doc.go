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

// Package costpath maps least-cost pathways through a cost-distance
// surface.
//
// The inputs are a destination raster, where every cell with a positive
// value is a destination, and a backlink raster as produced by a
// cost-distance analysis, where every cell holds the direction to the next
// cell on the least-cost path toward a source:
//
//	64  128   1
//	32   *    2
//	16   8    4
//
// A backlink that is NoData or not positive marks a source. Tracer follows
// the backlinks from each destination to its source and counts the number
// of pathways passing through each cell.
package costpath

// Version gives the version number.
const Version = "1.0.0"
