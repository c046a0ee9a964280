// Package enumerate walks a gocloud.dev/blob bucket and produces an ordered
// list of image files for downstream renaming. Ordering is lexicographic by
// full key so that sequential numbering is reproducible across runs.
package enumerate

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"sort"
	"strings"

	"gocloud.dev/blob"
)

// SourceImage is a single image file produced by enumeration. Index is the
// position of the file in the final (sorted) listing and is assigned once,
// at enumeration time.
type SourceImage struct {
	Path  string
	Index int
}

// ListOptions configures a single enumeration pass.
type ListOptions struct {
	// Case-insensitive filename extensions to match, with or without a
	// leading dot. When empty, any file with an image mimetype matches.
	Extensions []string
	// Descend in to subdirectories below the root.
	Recursive bool
}

// ListImages walks bucket and returns the matching image files sorted
// lexicographically by key, with indices assigned in that order.
func ListImages(ctx context.Context, bucket *blob.Bucket, opts *ListOptions) ([]*SourceImage, error) {

	paths := make([]string, 0)

	path_ch := make(chan string)
	done_ch := make(chan bool, 1)
	err_ch := make(chan error)

	go func() {

		err := CrawlImages(ctx, bucket, opts, path_ch)

		if err != nil {
			err_ch <- err
		}

		done_ch <- true
	}()

	crawling := true

	for crawling {
		select {
		case <-done_ch:
			crawling = false
		case err := <-err_ch:
			return nil, err
		case path := <-path_ch:
			paths = append(paths, path)
		}
	}

	sort.Strings(paths)

	sources := make([]*SourceImage, len(paths))

	for i, path := range paths {

		sources[i] = &SourceImage{
			Path:  path,
			Index: i,
		}
	}

	return sources, nil
}

// CrawlImages iterates through the items stored in a blob.Bucket instance and
// dispatches the key of every item matching opts to path_ch.
func CrawlImages(ctx context.Context, bucket *blob.Bucket, opts *ListOptions, path_ch chan string) error {

	matcher, err := NewExtensionMatcher(opts.Extensions)

	if err != nil {
		return err
	}

	var list func(context.Context, *blob.Bucket, string) error

	list = func(ctx context.Context, b *blob.Bucket, prefix string) error {

		iter := b.List(&blob.ListOptions{
			Delimiter: "/",
			Prefix:    prefix,
		})

		for {

			// A truncated listing must not pass for a complete batch:
			// downstream numbering assumes it saw every file.

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				// pass
			}

			obj, err := iter.Next(ctx)

			if err == io.EOF {
				break
			}

			if err != nil {
				return fmt.Errorf("Failed to iterate bucket at '%s', %w", prefix, err)
			}

			if obj.IsDir {

				if !opts.Recursive {
					continue
				}

				err := list(ctx, b, obj.Key)

				if err != nil {
					return err
				}

				continue
			}

			if !matcher(obj.Key) {
				continue
			}

			path_ch <- obj.Key
		}

		return nil
	}

	return list(ctx, bucket, "")
}

// NewExtensionMatcher compiles extensions in to a predicate over bucket keys.
// Matching is case-insensitive. An empty extension list matches any key whose
// extension carries an image mimetype.
func NewExtensionMatcher(extensions []string) (func(string) bool, error) {

	if len(extensions) == 0 {

		return func(key string) bool {

			t := mime.TypeByExtension(filepath.Ext(key))
			return strings.HasPrefix(t, "image/")
		}, nil
	}

	lookup := make(map[string]bool)

	for _, ext := range extensions {

		ext = strings.ToLower(strings.TrimPrefix(ext, "."))

		if ext == "" {
			return nil, fmt.Errorf("Invalid empty extension")
		}

		lookup["."+ext] = true
	}

	return func(key string) bool {

		ext := strings.ToLower(filepath.Ext(key))
		return lookup[ext]
	}, nil
}
