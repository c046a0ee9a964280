package common

import (
	"context"
	"fmt"
	"sync"

	"github.com/whosonfirst/go-writer/v3"
)

var writers = make(map[string]writer.Writer)
var writers_mu = new(sync.RWMutex)

// NewWriter returns a whosonfirst/go-writer.Writer instance for uri. Writers
// are cached per URI since every report format of a run publishes through
// the same writer.
func NewWriter(ctx context.Context, uri string) (writer.Writer, error) {

	writers_mu.RLock()
	wr, ok := writers[uri]
	writers_mu.RUnlock()

	if ok {
		return wr, nil
	}

	writers_mu.Lock()
	defer writers_mu.Unlock()

	wr, ok = writers[uri]

	if ok {
		return wr, nil
	}

	wr, err := writer.NewWriter(ctx, uri)

	if err != nil {
		return nil, fmt.Errorf("Failed to create writer for '%s', %w", uri, err)
	}

	writers[uri] = wr
	return wr, nil
}
