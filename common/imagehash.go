package common

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/corona10/goimagehash"
	"github.com/rs/zerolog"
	"gocloud.dev/blob"
)

// ImageHashRsp is a struct representing the results of an image hashing operation.
type ImageHashRsp struct {
	// String label describing the image hashing procedure used.
	Approach string
	// The hexidecimal hash of an image.
	Hash string
}

// ImageHashes generates a list of ImageHashRsp instances for a file stored in
// a blob.Bucket instance using the corona10/goimagehash package. Perceptual
// hashes are useful for spotting duplicate frames in a flight series.
func ImageHashes(ctx context.Context, logger zerolog.Logger, bucket *blob.Bucket, im_path string) ([]*ImageHashRsp, error) {

	r, err := bucket.NewReader(ctx, im_path, nil)

	if err != nil {
		return nil, fmt.Errorf("Failed to create reader for %s, %w", im_path, err)
	}

	defer r.Close()

	im, _, err := image.Decode(r)

	if err != nil {
		return nil, fmt.Errorf("Failed to decode image from %s, %w", im_path, err)
	}

	return ImageHashesWithImage(ctx, logger, im)
}

// ImageHashesWithImage generates a list of ImageHashRsp instances for an
// already-decoded image.
func ImageHashesWithImage(ctx context.Context, logger zerolog.Logger, im image.Image) ([]*ImageHashRsp, error) {

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	approaches := []string{
		"avg",
		"diff",
	}

	done_ch := make(chan bool)
	err_ch := make(chan error)
	rsp_ch := make(chan *ImageHashRsp)

	for _, a := range approaches {

		go func(ctx context.Context, im image.Image, a string) {

			defer func() {
				done_ch <- true
			}()

			rsp, err := imageHash(ctx, im, a)

			if err != nil {
				err_ch <- err
				return
			}

			if rsp == nil {
				return
			}

			rsp_ch <- rsp

		}(ctx, im, a)
	}

	remaining := len(approaches)
	hashes := make([]*ImageHashRsp, 0)

	for remaining > 0 {

		select {

		case <-done_ch:
			remaining -= 1
		case err := <-err_ch:
			logger.Error().Err(err).Msg("Image hash channel received error")
		case rsp := <-rsp_ch:
			hashes = append(hashes, rsp)
		}
	}

	return hashes, nil
}

func imageHash(ctx context.Context, im image.Image, approach string) (*ImageHashRsp, error) {

	select {
	case <-ctx.Done():
		return nil, nil
	default:
		// pass
	}

	var h *goimagehash.ImageHash
	var err error

	switch approach {
	case "avg":
		h, err = goimagehash.AverageHash(im)
	case "diff":
		h, err = goimagehash.DifferenceHash(im)
	default:
		err = errors.New("Unknown approach")
	}

	if err != nil {
		return nil, fmt.Errorf("Failed to process image hash approach '%s', %w", approach, err)
	}

	rsp := &ImageHashRsp{
		Approach: approach,
		Hash:     h.ToString(),
	}

	return rsp, nil
}
