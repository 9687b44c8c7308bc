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
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Tracer maps least-cost pathways from destination cells back to their
// sources by following a backlink grid, and counts how many pathways
// pass through each cell.
type Tracer struct {
	// ZeroBackground specifies that cells not visited by any pathway
	// should be set to 0 rather than to NoData.
	ZeroBackground bool

	// Workers is the number of concurrent trace workers. Values less than
	// 2 trace sequentially, in scan order.
	Workers int

	// Progress, if not nil, is called with the percentage of completed
	// rows each time that percentage changes.
	Progress func(percent int)

	// Log receives a warning for each failed trace. If nil, the
	// standard logrus logger is used.
	Log logrus.FieldLogger
}

// Result is the outcome of a call to Trace.
type Result struct {
	// Accumulation holds, for each cell, the number of pathways that
	// pass through it. It has the dimensions and extent of the
	// destination grid and the NoData value of the backlink grid.
	Accumulation *Raster

	// Destinations is the number of traces that were started.
	Destinations int

	// Failures holds the traces that could not be completed, in scan
	// order of their destination cells. Failed traces do not contribute
	// to Accumulation.
	Failures []*TraceError

	// Elapsed is the time spent tracing, excluding I/O.
	Elapsed time.Duration
}

// Trace traces the pathway from every destination cell (a cell whose
// destination value is greater than zero and whose backlink is not
// NoData) to its source, which is the first cell on the pathway whose
// backlink is NoData or not positive.
//
// The grids are scanned in row-major order. When the scan reaches a cell
// whose backlink is NoData, that cell is set to NoData in the output even
// if pathways traced earlier in the scan passed through it; pathways traced
// later in the scan count normally. This scan-order rule holds regardless
// of t.Workers.
//
// A trace that reaches an invalid pointer code, steps off the grid, or does
// not end within rows*columns steps is reported in Result.Failures and the
// remaining destinations are still traced. Trace only returns an error if
// the inputs are invalid or ctx is canceled.
func (t *Tracer) Trace(ctx context.Context, destination, backlink Grid) (*Result, error) {
	if destination == nil || backlink == nil {
		return nil, fmt.Errorf("%w: destination and backlink grids are required", ErrInvalidInput)
	}
	if !sameShape(destination, backlink) {
		return nil, fmt.Errorf("%w: the input files must have the same number of rows and columns "+
			"(destination is %dx%d, backlink is %dx%d)", ErrInvalidInput,
			destination.Rows(), destination.Columns(), backlink.Rows(), backlink.Columns())
	}
	start := time.Now()

	nodata := backlink.NoData()
	background := nodata
	if t.ZeroBackground {
		background = 0
	}
	out := NewRasterFrom(destination, background)
	out.SetNoData(nodata)

	s := &scan{
		dst:      destination,
		ptr:      backlink,
		out:      out,
		rows:     destination.Rows(),
		cols:     destination.Columns(),
		nodata:   nodata,
		progress: &progress{f: t.Progress, old: -1},
	}
	res := &Result{Accumulation: out}
	var err error
	if t.Workers > 1 {
		err = s.parallel(ctx, t.Workers, res)
	} else {
		err = s.sequential(ctx, res)
	}
	if err != nil {
		return nil, err
	}
	res.Elapsed = time.Since(start)

	log := t.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	for _, f := range res.Failures {
		log.WithFields(logrus.Fields{
			"row":    f.Row,
			"col":    f.Col,
			"at_row": f.AtRow,
			"at_col": f.AtCol,
			"steps":  f.Steps,
		}).Warn(f.Err)
	}
	return res, nil
}

// scan holds the state of a single call to Trace.
type scan struct {
	dst, ptr   Grid
	out        *Raster
	rows, cols int
	nodata     float64
	progress   *progress
}

// isDestination reports whether a trace starts at the given cell, given
// its backlink value.
func (s *scan) isDestination(row, col int, backlink float64) bool {
	return s.dst.Get(row, col) > 0 && !isNoData(backlink, s.nodata)
}

// sequential traces each destination as the scan reaches it. Visits are
// counted separately from the output so that a count can never be
// mistaken for the NoData or background value.
func (s *scan) sequential(ctx context.Context, res *Result) error {
	w := newWalker(s.ptr)
	n := s.rows * s.cols
	counts := make([]int, n)
	excluded := make([]bool, n)
	for row := 0; row < s.rows; row++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for col := 0; col < s.cols; col++ {
			v := s.ptr.Get(row, col)
			if s.isDestination(row, col, v) {
				res.Destinations++
				path, terr := w.walk(row, col)
				if terr != nil {
					res.Failures = append(res.Failures, terr)
					continue
				}
				for _, i := range path {
					counts[i]++
				}
			} else if isNoData(v, s.nodata) {
				// Pathways traced later in the scan count again from 1.
				i := row*s.cols + col
				counts[i] = 0
				excluded[i] = true
			}
		}
		s.progress.report(row, s.rows-1)
	}
	s.apply(counts, excluded)
	return nil
}

// apply writes the visit counts to the output. Unvisited excluded cells
// are NoData and other unvisited cells keep the background value.
func (s *scan) apply(counts []int, excluded []bool) {
	e := s.out.Elements()
	for j, c := range counts {
		switch {
		case c > 0:
			e[j] = float64(c)
		case excluded[j]:
			e[j] = s.nodata
		}
	}
}

// parallel first scans the grid to find the destinations and the cells
// outside of the cost-distance domain, then traces the destinations row by
// row on separate workers. Each worker counts visits in its own array and
// the arrays are summed at the end. A visit to an excluded cell only counts
// if the trace started after the scan passed that cell, which gives the
// same result as the sequential scan.
func (s *scan) parallel(ctx context.Context, workers int, res *Result) error {
	n := s.rows * s.cols
	excluded := make([]bool, n)
	destCols := make([][]int, s.rows)
	for row := 0; row < s.rows; row++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for col := 0; col < s.cols; col++ {
			v := s.ptr.Get(row, col)
			if s.isDestination(row, col, v) {
				destCols[row] = append(destCols[row], col)
				res.Destinations++
			} else if isNoData(v, s.nodata) {
				excluded[row*s.cols+col] = true
			}
		}
	}

	if workers > s.rows {
		workers = s.rows
	}
	counts := make([][]int, workers)
	failures := make([][]*TraceError, workers)
	rowChan := make(chan int)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(rowChan)
		for row := 0; row < s.rows; row++ {
			select {
			case rowChan <- row:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for i := 0; i < workers; i++ {
		i := i
		g.Go(func() error {
			w := newWalker(s.ptr)
			c := make([]int, n)
			counts[i] = c
			for row := range rowChan {
				if err := gctx.Err(); err != nil {
					return err
				}
				for _, col := range destCols[row] {
					path, terr := w.walk(row, col)
					if terr != nil {
						failures[i] = append(failures[i], terr)
						continue
					}
					origin := row*s.cols + col
					for _, j := range path {
						if excluded[j] && j > origin {
							continue
						}
						c[j]++
					}
				}
				s.progress.step(s.rows)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	total := make([]int, n)
	for _, c := range counts {
		for j, v := range c {
			total[j] += v
		}
	}
	s.apply(total, excluded)

	for _, f := range failures {
		res.Failures = append(res.Failures, f...)
	}
	sort.Slice(res.Failures, func(a, b int) bool {
		fa, fb := res.Failures[a], res.Failures[b]
		if fa.Row != fb.Row {
			return fa.Row < fb.Row
		}
		return fa.Col < fb.Col
	})
	return nil
}

// walker follows backlink pointers. A walker is not safe for concurrent
// use; each worker has its own.
type walker struct {
	ptr        Grid
	rows, cols int
	nodata     float64
	limit      int
	path       []int
}

func newWalker(ptr Grid) *walker {
	rows, cols := ptr.Rows(), ptr.Columns()
	return &walker{
		ptr:    ptr,
		rows:   rows,
		cols:   cols,
		nodata: ptr.NoData(),
		limit:  rows * cols,
	}
}

// walk follows the pointers from row, col until it reaches a source and
// returns the row-major indices of the visited cells, starting with the
// destination itself. The returned slice is reused by the next call.
func (w *walker) walk(row, col int) ([]int, *TraceError) {
	w.path = w.path[:0]
	y, x := row, col
	fail := func(err error, v float64) *TraceError {
		return &TraceError{Row: row, Col: col, AtRow: y, AtCol: x, Value: v, Steps: len(w.path), Err: err}
	}
	for {
		v := w.ptr.Get(y, x)
		if len(w.path) >= w.limit {
			return nil, fail(ErrLoopDetected, v)
		}
		w.path = append(w.path, y*w.cols+x)
		if isNoData(v, w.nodata) || v <= 0 {
			return w.path, nil
		}
		d, ok := ParseDirection(v)
		if !ok {
			return nil, fail(ErrCorruptPointer, v)
		}
		dr, dc := d.Offset()
		if y+dr < 0 || y+dr >= w.rows || x+dc < 0 || x+dc >= w.cols {
			return nil, fail(ErrOutOfBounds, v)
		}
		y, x = y+dr, x+dc
	}
}

// progress reports row-granularity completion percentages.
type progress struct {
	f    func(percent int)
	mu   sync.Mutex
	done int
	old  int
}

// report reports that row of lastRow rows is complete.
func (p *progress) report(row, lastRow int) {
	if p.f == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.emit(row, lastRow)
}

// step records the completion of one more out of total rows.
func (p *progress) step(total int) {
	if p.f == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	p.emit(p.done, total)
}

// emit must be called with p.mu held.
func (p *progress) emit(done, total int) {
	percent := 100
	if total > 0 {
		percent = 100 * done / total
	}
	if percent > p.old {
		p.old = percent
		p.f(percent)
	}
}
