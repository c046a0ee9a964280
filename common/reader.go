package common

import (
	"context"
	"fmt"
	"sync"

	"github.com/whosonfirst/go-reader/v2"
)

var readers = make(map[string]reader.Reader)
var readers_mu = new(sync.RWMutex)

// NewReader returns a whosonfirst/go-reader.Reader instance for uri. Readers
// are cached per URI: prior-class tables are read through the same reader
// repeatedly during a run and constructing one per read is wasted work.
func NewReader(ctx context.Context, uri string) (reader.Reader, error) {

	readers_mu.RLock()
	r, ok := readers[uri]
	readers_mu.RUnlock()

	if ok {
		return r, nil
	}

	readers_mu.Lock()
	defer readers_mu.Unlock()

	r, ok = readers[uri]

	if ok {
		return r, nil
	}

	r, err := reader.NewReader(ctx, uri)

	if err != nil {
		return nil, fmt.Errorf("Failed to create reader for '%s', %w", uri, err)
	}

	readers[uri] = r
	return r, nil
}
