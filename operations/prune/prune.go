// Package prune deletes original image files once they have been renamed and
// copied elsewhere. Failures are reported per item and never abort the batch.
package prune

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gocloud.dev/blob"
)

// PruneOriginals deletes paths from bucket concurrently. Per-item failures
// are logged and counted; the returned error is non-nil only when every
// deletion was attempted and one or more of them failed.
func PruneOriginals(ctx context.Context, logger zerolog.Logger, bucket *blob.Bucket, paths []string) error {

	remaining := len(paths)

	done_ch := make(chan bool)
	pruned_ch := make(chan string)
	err_ch := make(chan error)

	for _, path := range paths {

		go func(path string) {

			defer func() {
				done_ch <- true
			}()

			select {
			case <-ctx.Done():
				return
			default:
				// pass
			}

			exists, err := bucket.Exists(ctx, path)

			if err != nil {
				err_ch <- fmt.Errorf("Failed to determine if '%s' exists, %w", path, err)
				return
			}

			if !exists {
				return
			}

			err = bucket.Delete(ctx, path)

			if err != nil {
				err_ch <- fmt.Errorf("Failed to delete '%s', %w", path, err)
				return
			}

			pruned_ch <- path
		}(path)
	}

	failed := 0

	for remaining > 0 {

		select {
		case <-done_ch:
			remaining -= 1
		case path := <-pruned_ch:
			logger.Debug().Str("path", path).Msg("Pruned original")
		case err := <-err_ch:
			failed += 1
			logger.Error().Err(err).Msg("Failed to prune original")
		}
	}

	if failed > 0 {
		return fmt.Errorf("Failed to prune %d of %d originals", failed, len(paths))
	}

	return nil
}
