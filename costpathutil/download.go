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
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spatialmodel/costpath"
	"github.com/spatialmodel/costpath/cloud"
)

// maybeDownload checks if the input is an existing file locally.
// If not, it checks if the file is a URL or a blob.
// If it is, it downloads the file into a new directory inside dir and
// returns the path to the downloaded file.
func maybeDownload(ctx context.Context, dir, p string, t *cloud.Transfer) (string, error) {
	// Check if local file exists. If it does, return the given path.
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		return p, nil
	}

	isHTTP := strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
	if !isHTTP && !cloud.IsBlob(p) {
		return p, nil
	}

	// Each download gets its own directory so that files with the
	// same name do not collide.
	d, err := ioutil.TempDir(dir, "input")
	if err != nil {
		return p, fmt.Errorf("costpath: failed creating temporary download directory: %v", err)
	}
	local := filepath.Join(d, path.Base(stripQuery(p)))

	if isHTTP {
		err = downloadHTTP(ctx, p, local, t)
	} else {
		err = t.Download(ctx, p, local)
	}
	if err != nil {
		return p, &costpath.IOError{Op: "downloading", Path: p, Err: err}
	}
	return local, nil
}

// downloadHTTP downloads a file from the specified URL to the local path.
func downloadHTTP(ctx context.Context, url, local string, t *cloud.Transfer) error {
	w, err := os.Create(local)
	if err != nil {
		return err
	}
	defer w.Close()
	return t.Retry(ctx, "downloading "+url, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned status %s", resp.Status)
		}
		if _, err = w.Seek(0, io.SeekStart); err != nil {
			return err
		}
		if err = w.Truncate(0); err != nil {
			return err
		}
		_, err = io.Copy(w, resp.Body)
		return err
	})
}
