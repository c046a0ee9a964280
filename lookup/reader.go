package lookup

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/sfomuseum/go-image-rename/common"
)

// ReaderLookerUpper reads a single lookup table from the local filesystem
// through a whosonfirst/go-reader Reader.
type ReaderLookerUpper struct {
	LookerUpper
	path string
}

// NewReaderLookerUpper returns a ReaderLookerUpper for the table at path.
func NewReaderLookerUpper(ctx context.Context, path string) (LookerUpper, error) {

	l := &ReaderLookerUpper{}

	err := l.Open(ctx, path)

	if err != nil {
		return nil, err
	}

	return l, nil
}

func (l *ReaderLookerUpper) Open(ctx context.Context, path string) error {

	abs_path, err := filepath.Abs(path)

	if err != nil {
		return fmt.Errorf("Failed to derive absolute path for '%s', %w", path, err)
	}

	l.path = abs_path
	return nil
}

func (l *ReaderLookerUpper) Append(ctx context.Context, lu *sync.Map, append_funcs ...AppendLookupFunc) error {

	root := filepath.Dir(l.path)
	fname := filepath.Base(l.path)

	reader_uri := fmt.Sprintf("fs://%s", root)

	r, err := common.NewReader(ctx, reader_uri)

	if err != nil {
		return err
	}

	for _, f := range append_funcs {

		fh, err := r.Read(ctx, fname)

		if err != nil {
			return fmt.Errorf("Failed to read '%s', %w", l.path, err)
		}

		err = f(ctx, lu, fh)

		fh.Close()

		if err != nil {
			return err
		}
	}

	return nil
}
