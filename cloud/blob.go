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
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/google/go-cloud/blob"
	"github.com/sirupsen/logrus"
)

// Transfer copies files between the local filesystem and blob storage,
// retrying failed transfers with exponential backoff.
type Transfer struct {
	// Retries is the maximum number of times a failed transfer is
	// retried.
	Retries uint64

	// Log receives a warning before each retry. If nil, the standard
	// logrus logger is used.
	Log logrus.FieldLogger
}

// Download copies the blob at blobPath ('provider://bucket/key') to
// the local file localPath.
func (t *Transfer) Download(ctx context.Context, blobPath, localPath string) error {
	bucketName, key, err := SplitPath(blobPath)
	if err != nil {
		return err
	}
	bucket, err := OpenBucket(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("cloud: opening bucket to download '%s': %v", blobPath, err)
	}
	w, err := os.Create(localPath)
	if err != nil {
		return err
	}
	err = t.Retry(ctx, "downloading "+blobPath, func() error {
		if _, err := w.Seek(0, io.SeekStart); err != nil {
			return err
		}
		if err := w.Truncate(0); err != nil {
			return err
		}
		return readBlob(ctx, bucket, key, w)
	})
	if err != nil {
		w.Close()
		os.Remove(localPath)
		return err
	}
	return w.Close()
}

// Upload copies the local file localPath to the blob at blobPath
// ('provider://bucket/key').
func (t *Transfer) Upload(ctx context.Context, localPath, blobPath string) error {
	bucketName, key, err := SplitPath(blobPath)
	if err != nil {
		return err
	}
	bucket, err := OpenBucket(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("cloud: opening bucket to upload '%s': %v", blobPath, err)
	}
	r, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer r.Close()
	return t.Retry(ctx, "uploading "+blobPath, func() error {
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return err
		}
		return writeBlob(ctx, bucket, key, r)
	})
}

// Retry runs op until it succeeds, ctx is done, or t.Retries retries
// have failed. what describes the operation in log messages.
func (t *Transfer) Retry(ctx context.Context, what string, op backoff.Operation) error {
	log := t.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), t.Retries), ctx)
	return backoff.RetryNotify(op, b, func(err error, d time.Duration) {
		log.WithField("retry_in", d).Warnf("%s: %v", what, err)
	})
}

// readBlob copies the given blob from the given bucket to w.
func readBlob(ctx context.Context, bucket *blob.Bucket, key string, w io.Writer) error {
	r, err := bucket.NewReader(ctx, key)
	if err != nil {
		return fmt.Errorf("cloud: reading blob key %s: %v", key, err)
	}
	defer r.Close()
	if _, err = io.Copy(w, r); err != nil {
		return fmt.Errorf("cloud: reading blob key %s: %v", key, err)
	}
	return nil
}

// writeBlob copies the contents of r to the given bucket.
func writeBlob(ctx context.Context, bucket *blob.Bucket, key string, r io.Reader) error {
	w, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{})
	if err != nil {
		return fmt.Errorf("cloud: creating writer for blob %s: %v", key, err)
	}
	if _, err = io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("cloud: copying blob %s: %v", key, err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("cloud: writing blob %s: %v", key, err)
	}
	return nil
}
