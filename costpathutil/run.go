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

package costpathutil

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"time"

	"github.com/gonum/floats"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/costpath"
	"github.com/spatialmodel/costpath/cloud"
	"github.com/spatialmodel/costpath/internal/hash"
	"github.com/spf13/cobra"
)

// Run maps the least-cost pathways from the cells in the destination
// raster by following the backlink raster, and writes the resulting
// accumulation raster to output.
//
// logFile is the path where log messages are written in addition to
// the output of cobraCommand. destination, backlink, output, and logFile
// may be local paths or blob storage locations, and the inputs may also
// be http(s) URLs. variable is the netCDF variable to read from the
// inputs. If zeroBackground is true, cells that no pathway passes through
// are set to 0 instead of NoData. workers is the number of concurrent
// trace workers and retries is the maximum number of retries for failed
// transfers. If verbose is true, progress and debug messages are logged.
func Run(ctx context.Context, cobraCommand *cobra.Command, logFile, destination, backlink, output, variable string,
	zeroBackground bool, workers int, retries uint64, verbose bool) error {

	startTime := time.Now()

	dir, err := ioutil.TempDir("", "costpath")
	if err != nil {
		return fmt.Errorf("costpath: creating temporary directory: %v", err)
	}
	defer os.RemoveAll(dir)

	var upload uploader
	logPath := upload.maybeUpload(dir, logFile)
	outputPath := upload.maybeUpload(dir, output)
	if upload.err != nil {
		return fmt.Errorf("costpath: preparing upload: %v", upload.err)
	}

	logfile, err := os.Create(logPath)
	if err != nil {
		return &costpath.IOError{Op: "creating log file", Path: logFile, Err: err}
	}
	log := newLogger(io.MultiWriter(cobraCommand.OutOrStdout(), logfile), verbose)

	transfer := &cloud.Transfer{Retries: retries, Log: log}

	err = run(ctx, log, transfer, dir, destination, backlink, outputPath, variable, zeroBackground, workers)
	if err != nil {
		log.Error(err)
		logfile.Close()
		// The log of a failed run is still uploaded, even after
		// cancellation.
		if uerr := upload.uploadFile(context.WithoutCancel(ctx), transfer, logFile); uerr != nil {
			return fmt.Errorf("%w (%v)", err, uerr)
		}
		return err
	}
	log.Infof("costpath completed successfully in %v.", time.Since(startTime))
	if err = logfile.Close(); err != nil {
		return &costpath.IOError{Op: "closing log file", Path: logFile, Err: err}
	}
	return upload.uploadOutput(ctx, transfer)
}

func run(ctx context.Context, log *logrus.Logger, transfer *cloud.Transfer, dir, destination, backlink, output, variable string,
	zeroBackground bool, workers int) error {

	log.Infof("Reading destination raster %s", destination)
	dst, err := readRaster(ctx, transfer, dir, destination, variable)
	if err != nil {
		return err
	}
	log.Infof("Reading backlink raster %s", backlink)
	ptr, err := readRaster(ctx, transfer, dir, backlink, variable)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"rows":    dst.Rows(),
		"columns": dst.Columns(),
		"nodata":  ptr.NoData(),
	}).Debug("read input rasters")

	tracer := &costpath.Tracer{
		ZeroBackground: zeroBackground,
		Workers:        workers,
		Log:            log,
		Progress: func(percent int) {
			log.Debugf("Progress: %d%%", percent)
		},
	}
	res, err := tracer.Trace(ctx, dst, ptr)
	if err != nil {
		return err
	}
	logSummary(log, res)

	out := res.Accumulation
	out.AddMetadata("Created by costpath's CostPathway tool")
	out.AddMetadata(fmt.Sprintf("Destination raster file: %s", destination))
	out.AddMetadata(fmt.Sprintf("Backlink raster: %s", backlink))
	out.AddMetadata(fmt.Sprintf("Elapsed Time (excluding I/O): %v", res.Elapsed))
	out.AddMetadata(fmt.Sprintf("Accumulation digest: %s", hash.Grid(out)))

	log.Infof("Saving output to %s", output)
	return out.WriteFile(output, "")
}

// readRaster downloads the raster at path if necessary and reads it.
func readRaster(ctx context.Context, transfer *cloud.Transfer, dir, path, variable string) (*costpath.Raster, error) {
	local, err := maybeDownload(ctx, dir, path, transfer)
	if err != nil {
		return nil, err
	}
	return costpath.ReadRasterFile(local, variable)
}

// logSummary logs the number of traces and the range of the pathway
// counts in res.
func logSummary(log logrus.FieldLogger, res *costpath.Result) {
	var counts []float64
	a := res.Accumulation
	for _, v := range a.Elements() {
		if !a.IsNoData(v) && v > 0 {
			counts = append(counts, v)
		}
	}
	fields := logrus.Fields{
		"destinations":  res.Destinations,
		"failed":        len(res.Failures),
		"visited_cells": len(counts),
		"elapsed":       res.Elapsed,
	}
	if len(counts) > 0 {
		fields["max_count"] = floats.Max(counts)
		fields["total_visits"] = floats.Sum(counts)
	}
	log.WithFields(fields).Info("traced pathways")
}

// newLogger returns a logger that writes to w.
func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.Out = w
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	}
	if verbose {
		log.Level = logrus.DebugLevel
	}
	return log
}
