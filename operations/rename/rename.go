// Package rename generates deterministic destination names for enumerated
// image files and materializes them (copy or move, optionally with the new
// name burned in to the pixels) at a destination bucket.
package rename

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/aaronland/go-image-tools/util"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/rs/zerolog"
	"github.com/sfomuseum/go-image-rename/common"
	"github.com/sfomuseum/go-image-rename/lookup"
	"github.com/sfomuseum/go-image-rename/metadata"
	"github.com/sfomuseum/go-image-rename/operations/enumerate"
	"github.com/sfomuseum/go-image-rename/operations/prune"
	"gocloud.dev/blob"
)

const (
	// StatusRenamed marks a record whose file was materialized successfully.
	StatusRenamed = "renamed"
	// StatusFailed marks a record whose file could not be materialized. The
	// failure never aborts the batch.
	StatusFailed = "failed"
)

// RenameOptions is a struct containing configuration details for renaming
// a batch of images.
type RenameOptions struct {
	// Base name for destination filenames.
	BaseName string
	// Derive names from a zero-padded counter rather than capture metadata.
	Sequential bool
	// Burn the destination name in to the image pixels. Incompatible with Parallel.
	OverlayName bool
	// Remove original files after the whole batch has been materialized.
	DeleteOriginal bool
	// Materialize the batch with a worker pool sized to the CPU count.
	Parallel bool
	// Compute perceptual hashes for each source image.
	HashImages bool
	// Optional S3 ACL applied when the target bucket is an S3 bucket.
	S3ACL string
	// Optional prior-classification lookup map keyed by original filename.
	PriorClass *sync.Map
}

// RenameRecord pairs an original path with its generated destination path
// and everything learned about the file along the way. One record exists per
// source file, in enumeration order, regardless of per-file failures.
type RenameRecord struct {
	Index       int
	OldPath     string
	NewPath     string
	Class       string
	Metadata    *metadata.ImageMetadata
	Fingerprint string
	ImageHashes []*common.ImageHashRsp
	Status      string
	Error       string
}

// Renamer renames batches of images from a source bucket in to a target bucket.
type Renamer struct {
	Source  *blob.Bucket
	Target  *blob.Bucket
	Options *RenameOptions
	logger  zerolog.Logger
}

// NewRenamer returns a Renamer copying files from source to target according
// to opts. The logger is injected once and reused for every file.
func NewRenamer(logger zerolog.Logger, source *blob.Bucket, target *blob.Bucket, opts *RenameOptions) (*Renamer, error) {

	if opts.Parallel && opts.OverlayName {
		return nil, fmt.Errorf("Overlay rendering is incompatible with the parallel fast path")
	}

	r := &Renamer{
		Source:  source,
		Target:  target,
		Options: opts,
		logger:  logger,
	}

	return r, nil
}

// Rename materializes every file in sources and returns one RenameRecord per
// file, in enumeration order. Per-file failures are recorded on the
// corresponding record and never abort the batch.
func (r *Renamer) Rename(ctx context.Context, sources []*enumerate.SourceImage) ([]*RenameRecord, error) {

	records := make([]*RenameRecord, len(sources))

	gen := NewNameGenerator(r.Options.BaseName, r.Options.Sequential, len(sources))

	// Name generation is deliberately sequential so that uniqueness within
	// the run can be tracked by one generator instance.

	for i, src := range sources {

		m, err := metadata.Extract(ctx, r.logger, r.Source, src.Path)

		if err != nil {
			r.logger.Warn().Str("path", src.Path).Err(err).Msg("Failed to read capture metadata")
			m = &metadata.ImageMetadata{}
		}

		new_name := gen.NameFor(src, m)
		class := lookup.ClassFor(r.Options.PriorClass, filepath.Base(src.Path))

		records[i] = &RenameRecord{
			Index:    src.Index,
			OldPath:  src.Path,
			NewPath:  new_name,
			Class:    class,
			Metadata: m,
		}
	}

	if r.Options.Parallel {

		workers := runtime.NumCPU()

		if workers > len(records) {
			workers = len(records)
		}

		job_ch := make(chan *RenameRecord)
		wg := new(sync.WaitGroup)

		for i := 0; i < workers; i++ {

			wg.Add(1)

			go func() {

				defer wg.Done()

				for rec := range job_ch {
					r.materialize(ctx, rec)
				}
			}()
		}

		for _, rec := range records {
			job_ch <- rec
		}

		close(job_ch)
		wg.Wait()

	} else {

		for _, rec := range records {
			r.materialize(ctx, rec)
		}
	}

	if r.Options.DeleteOriginal {

		to_prune := make([]string, 0)

		for _, rec := range records {

			if rec.Status == StatusRenamed {
				to_prune = append(to_prune, rec.OldPath)
			}
		}

		err := prune.PruneOriginals(ctx, r.logger, r.Source, to_prune)

		if err != nil {
			return records, fmt.Errorf("Failed to prune originals, %w", err)
		}
	}

	return records, nil
}

// materialize copies (and optionally overlays) a single record. It mutates
// only its own record so no locking is required across workers.
func (r *Renamer) materialize(ctx context.Context, rec *RenameRecord) {

	select {
	case <-ctx.Done():
		rec.Status = StatusFailed
		rec.Error = ctx.Err().Error()
		return
	default:
		// pass
	}

	fp, err := common.FingerprintFile(ctx, r.Source, rec.OldPath)

	if err != nil {
		r.logger.Warn().Str("path", rec.OldPath).Err(err).Msg("Failed to fingerprint file")
	} else {
		rec.Fingerprint = fp
	}

	if r.Options.HashImages {

		hashes, err := common.ImageHashes(ctx, r.logger, r.Source, rec.OldPath)

		if err != nil {
			r.logger.Warn().Str("path", rec.OldPath).Err(err).Msg("Failed to hash image")
		} else {
			rec.ImageHashes = hashes
		}
	}

	if r.Options.OverlayName {
		err = r.materializeOverlay(ctx, rec)
	} else {
		err = r.materializeCopy(ctx, rec)
	}

	if err != nil {
		r.logger.Error().Str("path", rec.OldPath).Err(err).Msg("Failed to materialize file")
		rec.Status = StatusFailed
		rec.Error = err.Error()
		return
	}

	rec.Status = StatusRenamed
}

// materializeCopy streams the source file to its destination key unchanged.
func (r *Renamer) materializeCopy(ctx context.Context, rec *RenameRecord) error {

	source_fh, err := r.Source.NewReader(ctx, rec.OldPath, nil)

	if err != nil {
		return fmt.Errorf("Failed to create reader for '%s', %w", rec.OldPath, err)
	}

	defer source_fh.Close()

	target_wr, err := r.Target.NewWriter(ctx, rec.NewPath, r.writerOptions())

	if err != nil {
		return fmt.Errorf("Failed to create writer for '%s', %w", rec.NewPath, err)
	}

	_, err = io.Copy(target_wr, source_fh)

	if err != nil {
		target_wr.Close()
		r.Target.Delete(ctx, rec.NewPath)
		return fmt.Errorf("Failed to copy '%s' to '%s', %w", rec.OldPath, rec.NewPath, err)
	}

	err = target_wr.Close()

	if err != nil {
		return fmt.Errorf("Failed to close writer for '%s', %w", rec.NewPath, err)
	}

	return nil
}

// materializeOverlay decodes the source image, burns the destination name in
// to the pixels and re-encodes it at the destination key in the source format.
func (r *Renamer) materializeOverlay(ctx context.Context, rec *RenameRecord) error {

	source_fh, err := r.Source.NewReader(ctx, rec.OldPath, nil)

	if err != nil {
		return fmt.Errorf("Failed to create reader for '%s', %w", rec.OldPath, err)
	}

	defer source_fh.Close()

	im, format, err := util.DecodeImageFromReader(source_fh)

	if err != nil {
		return fmt.Errorf("Failed to decode image from '%s', %w", rec.OldPath, err)
	}

	ext := filepath.Ext(rec.NewPath)
	label := filepath.Base(rec.NewPath)
	label = label[:len(label)-len(ext)]

	im, err = OverlayText(im, label)

	if err != nil {
		return fmt.Errorf("Failed to overlay name on '%s', %w", rec.OldPath, err)
	}

	target_wr, err := r.Target.NewWriter(ctx, rec.NewPath, r.writerOptions())

	if err != nil {
		return fmt.Errorf("Failed to create writer for '%s', %w", rec.NewPath, err)
	}

	err = util.EncodeImage(im, format, target_wr)

	if err != nil {
		target_wr.Close()
		r.Target.Delete(ctx, rec.NewPath)
		return fmt.Errorf("Failed to encode image to '%s', %w", rec.NewPath, err)
	}

	err = target_wr.Close()

	if err != nil {
		return fmt.Errorf("Failed to close writer for '%s', %w", rec.NewPath, err)
	}

	return nil
}

// writerOptions applies the configured S3 ACL when the target is an S3
// bucket. Other bucket drivers ignore it.
func (r *Renamer) writerOptions() *blob.WriterOptions {

	if r.Options.S3ACL == "" {
		return nil
	}

	before := func(asFunc func(interface{}) bool) error {

		s3_req := &s3manager.UploadInput{}
		ok := asFunc(&s3_req)

		if ok {
			s3_req.ACL = aws.String(r.Options.S3ACL)
		}

		return nil
	}

	return &blob.WriterOptions{
		BeforeWrite: before,
	}
}

// OpenDestination opens (and for file:// URIs, creates) the destination
// bucket identified by uri. A pre-existing destination directory is reported
// as a warning since files within it may be overwritten.
func OpenDestination(ctx context.Context, logger zerolog.Logger, uri string) (*blob.Bucket, error) {

	u, err := url.Parse(uri)

	if err != nil {
		return nil, fmt.Errorf("Failed to parse destination URI '%s', %w", uri, err)
	}

	if u.Scheme == "file" {

		root := u.Path

		_, err := os.Stat(root)

		if err == nil {
			logger.Warn().Str("path", root).Msg("Destination folder already exists. Existing files may be overwritten")
		} else {

			err := os.MkdirAll(root, 0755)

			if err != nil {
				return nil, fmt.Errorf("Failed to create destination folder '%s', %w", root, err)
			}
		}
	}

	bucket, err := blob.OpenBucket(ctx, uri)

	if err != nil {
		return nil, fmt.Errorf("Failed to open destination bucket '%s', %w", uri, err)
	}

	return bucket, nil
}
