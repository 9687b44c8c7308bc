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

package cloud

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
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

func TestIsBlob(t *testing.T) {
	for path, want := range map[string]bool{
		"gs://bucket/key":   true,
		"s3://bucket/key":   true,
		"file://bucket/key": true,
		"/tmp/file.nc":      false,
		"http://host/a.nc":  false,
	} {
		if got := IsBlob(path); got != want {
			t.Errorf("%s: %v != %v", path, got, want)
		}
	}
}

func TestSplitPath(t *testing.T) {
	bucket, key, err := SplitPath("s3://mybucket/dir/out.nc")
	if err != nil {
		t.Fatal(err)
	}
	if bucket != "s3://mybucket" || key != "dir/out.nc" {
		t.Errorf("got %s, %s", bucket, key)
	}
	for _, path := range []string{"s3://mybucket", "s3:///key", "mybucket/key"} {
		if _, _, err := SplitPath(path); err == nil {
			t.Errorf("%s: expected an error", path)
		}
	}
}

func TestOpenBucketInvalidProvider(t *testing.T) {
	if _, err := OpenBucket(context.Background(), "ftp://bucket"); err == nil {
		t.Error("expected an error")
	}
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	bucket := testBucket(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "src.asc")
	const contents = "ncols 1\nnrows 1\n1\n"
	if err := ioutil.WriteFile(src, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	tr := &Transfer{}
	if err := tr.Upload(ctx, src, bucket+"/grid.asc"); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "dst.asc")
	if err := tr.Download(ctx, bucket+"/grid.asc", dst); err != nil {
		t.Fatal(err)
	}
	b, err := ioutil.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != contents {
		t.Errorf("got %q, want %q", b, contents)
	}

	if err := tr.Download(ctx, bucket+"/missing.asc", filepath.Join(dir, "missing.asc")); err == nil {
		t.Error("expected an error for a missing blob")
	}
	if err := tr.Upload(ctx, filepath.Join(dir, "missing.asc"), bucket+"/x.asc"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
