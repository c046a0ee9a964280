// Package lookup loads prior-classification tables mapping original image
// filenames to class labels. Tables are two-column CSV files with no header
// row; they may live on the local filesystem or in a blob bucket.
package lookup

import (
	"context"
	"io"
	"sync"
)

// AppendLookupFunc parses the body of a lookup source and appends its
// entries to lu.
type AppendLookupFunc func(context.Context, *sync.Map, io.ReadCloser) error

// LookerUpper locates one or more lookup sources and applies
// AppendLookupFunc instances to each of them.
type LookerUpper interface {
	Open(context.Context, string) error
	Append(context.Context, *sync.Map, ...AppendLookupFunc) error
}

// NewLookupMap builds a single lookup map from zero or more looker_uppers,
// appending concurrently.
func NewLookupMap(ctx context.Context, looker_uppers []LookerUpper, append_funcs []AppendLookupFunc) (*sync.Map, error) {

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lu := new(sync.Map)

	done_ch := make(chan bool, len(looker_uppers))
	err_ch := make(chan error)

	remaining := len(looker_uppers)

	for _, l := range looker_uppers {

		go func(l LookerUpper) {

			err := l.Append(ctx, lu, append_funcs...)

			if err != nil {
				err_ch <- err
			}

			done_ch <- true

		}(l)
	}

	for remaining > 0 {
		select {
		case <-done_ch:
			remaining -= 1
		case err := <-err_ch:
			return nil, err
		}
	}

	return lu, nil
}
