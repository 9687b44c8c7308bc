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
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/spatialmodel/costpath"
	"github.com/spatialmodel/costpath/cloud"
)

// testBucket creates a directory in the working directory to hold a
// file:// bucket, because file bucket names are relative paths.
func testBucket(t *testing.T) string {
	dir, err := ioutil.TempDir(".", "testbucket")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return "file://" + filepath.Base(dir)
}

func TestMaybeDownloadLocal(t *testing.T) {
	ctx := context.Background()
	for _, p := range []string{"/dev/null", "/blah/test.asc"} {
		k, err := maybeDownload(ctx, t.TempDir(), p, &cloud.Transfer{})
		if err != nil {
			t.Fatal(err)
		}
		if k != p {
			t.Errorf("expected %s, got %s", p, k)
		}
	}
}

func TestMaybeDownloadHTTP(t *testing.T) {
	ctx := context.Background()
	srcDir := t.TempDir()
	if err := ioutil.WriteFile(filepath.Join(srcDir, "grid.asc"), []byte("ncols 1\nnrows 1\n7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.FileServer(http.Dir(srcDir)))
	defer srv.Close()

	k, err := maybeDownload(ctx, t.TempDir(), srv.URL+"/grid.asc", &cloud.Transfer{})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(k) != "grid.asc" {
		t.Errorf("expected tempDir/grid.asc, got %s", k)
	}
	r, err := costpath.ReadRasterFile(k, "")
	if err != nil {
		t.Fatal(err)
	}
	if r.Get(0, 0) != 7 {
		t.Errorf("got %g", r.Get(0, 0))
	}

	_, err = maybeDownload(ctx, t.TempDir(), srv.URL+"/missing.asc", &cloud.Transfer{})
	var ioErr *costpath.IOError
	if !errors.As(err, &ioErr) || ioErr.Op != "downloading" {
		t.Errorf("expected a download error, got %v", err)
	}
}

func TestMaybeDownloadHTTPRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ncols 1\nnrows 1\n3\n"))
	}))
	defer srv.Close()

	k, err := maybeDownload(context.Background(), t.TempDir(), srv.URL+"/grid.asc", &cloud.Transfer{Retries: 2, Log: discardLog()})
	if err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("expected 2 requests, got %d", n)
	}
	b, err := ioutil.ReadFile(k)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "ncols 1\nnrows 1\n3\n" {
		t.Errorf("downloaded %q", b)
	}
}

func TestMaybeDownloadBlob(t *testing.T) {
	ctx := context.Background()
	bucket := testBucket(t)
	src := filepath.Join(t.TempDir(), "grid.asc")
	if err := ioutil.WriteFile(src, []byte("ncols 1\nnrows 1\n2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	tr := &cloud.Transfer{}
	if err := tr.Upload(ctx, src, bucket+"/grid.asc"); err != nil {
		t.Fatal(err)
	}
	k, err := maybeDownload(ctx, t.TempDir(), bucket+"/grid.asc", tr)
	if err != nil {
		t.Fatal(err)
	}
	if k == bucket+"/grid.asc" || filepath.Base(k) != "grid.asc" {
		t.Errorf("expected tempDir/grid.asc, got %s", k)
	}
}

func TestUploader(t *testing.T) {
	ctx := context.Background()
	bucket := testBucket(t)
	dir := t.TempDir()
	var u uploader
	if p := u.maybeUpload(dir, "/tmp/out.asc"); p != "/tmp/out.asc" {
		t.Errorf("local paths should not change, got %s", p)
	}
	p := u.maybeUpload(dir, bucket+"/out.asc")
	if filepath.Base(p) != "out.asc" || len(u.files) != 1 {
		t.Fatalf("got %s, %v", p, u.files)
	}
	if err := ioutil.WriteFile(p, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	tr := &cloud.Transfer{}
	if err := u.uploadOutput(ctx, tr); err != nil {
		t.Fatal(err)
	}
	back := filepath.Join(dir, "back.asc")
	if err := tr.Download(ctx, bucket+"/out.asc", back); err != nil {
		t.Fatal(err)
	}
}

func TestCheckLogFile(t *testing.T) {
	if l := checkLogFile("", "/tmp/out.nc"); l != "/tmp/out.log" {
		t.Errorf("got %s", l)
	}
	if l := checkLogFile("my.log", "/tmp/out.nc"); l != "my.log" {
		t.Errorf("got %s", l)
	}
}
