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
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spatialmodel/costpath"
	"github.com/spatialmodel/costpath/cloud"
)

// checkPaths makes sure that the input and output files are specified
// and have supported formats, and expands any environment variables.
func checkPaths(destination, backlink, output string) (string, string, string, error) {
	paths := []*string{&destination, &backlink, &output}
	for i, name := range []string{"destination", "backlink", "output"} {
		p := os.ExpandEnv(*paths[i])
		if p == "" {
			return "", "", "", fmt.Errorf("%w: you need to specify the %s file (for example: --%s=%s.nc)",
				costpath.ErrInvalidInput, name, name, name)
		}
		if costpath.FormatOf(stripQuery(p)) == costpath.UnknownFormat {
			return "", "", "", fmt.Errorf("%w: the %s file '%s' does not have a supported extension "+
				"(.nc, .ncf, .cdf, .asc, or .txt)", costpath.ErrInvalidInput, name, p)
		}
		*paths[i] = p
	}
	if err := checkOutputFile(output); err != nil {
		return "", "", "", err
	}
	return destination, backlink, output, nil
}

// stripQuery removes any query string from a URL so that the file
// extension can be found.
func stripQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 && strings.Contains(path, "://") {
		return path[:i]
	}
	return path
}

// checkOutputFile makes sure that the output location exists.
func checkOutputFile(f string) error {
	if cloud.IsBlob(f) {
		url, err := url.Parse(f)
		if err != nil {
			return err
		}
		_, err = cloud.OpenBucket(context.TODO(), url.Scheme+"://"+url.Host)
		if err != nil {
			return fmt.Errorf("costpath: error when checking output location: %v", err)
		}
		return nil
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return &costpath.IOError{Op: "checking output directory", Path: outdir, Err: err}
	}
	return nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return logFile
}
