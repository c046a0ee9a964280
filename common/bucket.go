package common

/*

You might be thinking: I know, I'll make a common pool of buckets that all the
codes can use! It's okay, I thought that too. The problem is that if you call
the bucket's Close() method in your code (and you should call it _somewhere_)
then it will stop working (as expected) for all the other code that currently
has an instance of it. It's just not worth the logistics to bother with a pool
of buckets so create them as one-offs, as needed.

*/

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"

	"gocloud.dev/blob"
)

// OpenBucket opens the gocloud.dev/blob bucket identified by uri. For
// file:// URIs the underlying directory is checked first so that a missing
// root surfaces as an error wrapping fs.ErrNotExist, before any work starts.
func OpenBucket(ctx context.Context, uri string) (*blob.Bucket, error) {

	u, err := url.Parse(uri)

	if err != nil {
		return nil, fmt.Errorf("Failed to parse bucket URI '%s', %w", uri, err)
	}

	if u.Scheme == "file" {

		root := u.Path

		info, err := os.Stat(root)

		if err != nil {
			return nil, fmt.Errorf("Failed to stat bucket root '%s', %w", root, err)
		}

		if !info.IsDir() {
			return nil, fmt.Errorf("Bucket root '%s' is not a directory, %w", root, fs.ErrNotExist)
		}
	}

	bucket, err := blob.OpenBucket(ctx, uri)

	if err != nil {
		return nil, fmt.Errorf("Failed to open bucket '%s', %w", uri, err)
	}

	return bucket, nil
}
