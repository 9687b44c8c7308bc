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
	"io/ioutil"
	"path"
	"path/filepath"

	"github.com/spatialmodel/costpath"
	"github.com/spatialmodel/costpath/cloud"
)

type uploader struct {
	// files is a set of file path pairs. The first of each pair
	// is a local file path and the second is a blob storage
	// path where it should be uploaded to.
	files [][2]string
	err   error
	dir   string
}

// uploadOutput uploads the files registered with maybeUpload.
func (u *uploader) uploadOutput(ctx context.Context, t *cloud.Transfer) error {
	if u.err != nil {
		return u.err
	}
	for _, files := range u.files {
		if err := upload(ctx, t, files); err != nil {
			return err
		}
	}
	return nil
}

// uploadFile uploads only the file registered with maybeUpload for the
// blob path remote. It does nothing if remote was not registered.
func (u *uploader) uploadFile(ctx context.Context, t *cloud.Transfer, remote string) error {
	for _, files := range u.files {
		if files[1] == remote {
			return upload(ctx, t, files)
		}
	}
	return nil
}

func upload(ctx context.Context, t *cloud.Transfer, files [2]string) error {
	if err := t.Upload(ctx, files[0], files[1]); err != nil {
		return &costpath.IOError{Op: "uploading", Path: files[1], Err: err}
	}
	return nil
}

// maybeUpload checks whether the given output file path refers to
// a blob storage location. If it does, then a temporary file location
// inside dir is returned. The file will then be uploaded to blob storage
// when the uploadOutput method is run.
func (u *uploader) maybeUpload(dir, p string) string {
	if u.err != nil {
		return ""
	}
	if !cloud.IsBlob(p) {
		return p
	}
	if u.dir == "" {
		u.dir, u.err = ioutil.TempDir(dir, "output")
		if u.err != nil {
			return ""
		}
	}
	local := filepath.Join(u.dir, path.Base(p))
	u.files = append(u.files, [2]string{local, p})
	return local
}
