package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sfomuseum/go-image-rename/common"
	"github.com/whosonfirst/go-ioutil"
)

// Publish writes an encoded report body to path using the
// whosonfirst/go-writer Writer identified by writer_uri.
func Publish(ctx context.Context, writer_uri string, path string, body []byte) error {

	wr, err := common.NewWriter(ctx, writer_uri)

	if err != nil {
		return err
	}

	br := bytes.NewReader(body)
	rsc, err := ioutil.NewReadSeekCloser(br)

	if err != nil {
		return fmt.Errorf("Failed to create ReadSeekCloser for '%s', %w", path, err)
	}

	_, err = wr.Write(ctx, path, rsc)

	if err != nil {
		return fmt.Errorf("Failed to write report to '%s', %w", path, err)
	}

	return nil
}
