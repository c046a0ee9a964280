package lookup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"gocloud.dev/blob"
)

// BlobLookerUpper reads every .csv table stored in a blob.Bucket instance.
type BlobLookerUpper struct {
	LookerUpper
	bucket *blob.Bucket
}

// NewBlobLookerUpper returns a BlobLookerUpper for the bucket identified by uri.
func NewBlobLookerUpper(ctx context.Context, uri string) (LookerUpper, error) {

	bucket, err := blob.OpenBucket(ctx, uri)

	if err != nil {
		return nil, fmt.Errorf("Failed to open bucket '%s', %w", uri, err)
	}

	return NewBlobLookerUpperWithBucket(ctx, bucket)
}

// NewBlobLookerUpperWithBucket returns a BlobLookerUpper for an already-opened bucket.
func NewBlobLookerUpperWithBucket(ctx context.Context, bucket *blob.Bucket) (LookerUpper, error) {

	l := &BlobLookerUpper{
		bucket: bucket,
	}

	return l, nil
}

func (l *BlobLookerUpper) Append(ctx context.Context, lu *sync.Map, append_funcs ...AppendLookupFunc) error {

	bucket_iter := l.bucket.List(nil)

	for {
		obj, err := bucket_iter.Next(ctx)

		if err == io.EOF {
			break
		}

		if err != nil {
			return fmt.Errorf("Failed to iterate bucket, %w", err)
		}

		if filepath.Ext(obj.Key) != ".csv" {
			continue
		}

		fh, err := l.bucket.NewReader(ctx, obj.Key, nil)

		if err != nil {
			return fmt.Errorf("Failed to create reader for '%s', %w", obj.Key, err)
		}

		body, err := io.ReadAll(fh)

		fh.Close()

		if err != nil {
			return fmt.Errorf("Failed to read '%s', %w", obj.Key, err)
		}

		for _, f := range append_funcs {

			br := bytes.NewReader(body)

			err := f(ctx, lu, io.NopCloser(br))

			if err != nil {
				return err
			}
		}
	}

	return nil
}
