package main

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/sfomuseum/go-image-rename/common"
	"github.com/sfomuseum/go-image-rename/config"
	"github.com/sfomuseum/go-image-rename/exitcode"
	"github.com/sfomuseum/go-image-rename/logging"
	"github.com/sfomuseum/go-image-rename/lookup"
	"github.com/sfomuseum/go-image-rename/operations/enumerate"
	"github.com/sfomuseum/go-image-rename/operations/rename"
	"github.com/sfomuseum/go-image-rename/report"
)

var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Rename a batch of images at a destination bucket",
	Long:  "Copies (or moves) every matching image to the destination bucket under a deterministic new name and exports a per-file rename table. Per-file failures are recorded in the table and never abort the batch.",
	RunE:  runRename,
}

func init() {
	f := renameCmd.Flags()
	f.StringVar(&cfg.TargetURI, "target", "", "URI of the destination bucket. Required, from this flag or the config file")
	f.StringVar(&cfg.BaseName, "base-name", "", "Base name for renamed images. Defaults to "+config.DefaultBaseName)
	f.BoolVar(&cfg.Sequential, "sequential", false, "Number files with a zero-padded counter instead of capture metadata")
	f.BoolVar(&cfg.DeleteOriginal, "delete-original", false, "Remove original images after the batch completes")
	f.BoolVar(&cfg.OverlayName, "overlay-name", false, "Burn the new name in to the image pixels")
	f.BoolVar(&cfg.Parallel, "parallel", false, "Materialize the batch with a worker pool sized to the CPU count")
	f.BoolVar(&cfg.HashImages, "hash-images", false, "Compute perceptual hashes for each source image")
	f.StringVar(&cfg.PriorClassPath, "prior-class", "", "Path to a two-column (filename, class) CSV file with no header row")
	f.StringVar(&cfg.S3ACL, "s3-acl", "", "Optional ACL applied when the target bucket is an S3 bucket")
	f.StringSliceVar(&cfg.ReportFormats, "report-format", nil, "Report formats to export: csv, parquet, geojson. May be repeated. Defaults to csv")
	f.StringVar(&cfg.ReportWriterURI, "report-writer", "", "URI of the writer where reports are published. Defaults to the target bucket directory")
	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {

	ctx := context.Background()

	if cfg_path != "" {

		if err := cfg.LoadFromFile(cfg_path); err != nil {
			logger := logging.Setup(cfg.LogFormat)
			logger.Error().Err(err).Msg("Failed to load config file")
			os.Exit(exitcode.UsageError)
		}
	}

	// The logger is created only once the config file has been merged so
	// that a log_format value in the file takes effect.

	logger := logging.Setup(cfg.LogFormat)

	if err := cfg.ValidateRename(); err != nil {
		logger.Error().Err(err).Msg("Invalid configuration")
		os.Exit(exitcode.UsageError)
	}

	source, err := common.OpenBucket(ctx, cfg.SourceURI)

	if err != nil {
		logger.Error().Err(err).Msg("Failed to open source bucket")
		os.Exit(exitcode.EnumerateError)
	}

	defer source.Close()

	target, err := rename.OpenDestination(ctx, logger, cfg.TargetURI)

	if err != nil {
		logger.Error().Err(err).Msg("Failed to open destination bucket")
		os.Exit(exitcode.RenameError)
	}

	defer target.Close()

	var prior_class *sync.Map

	if cfg.PriorClassPath != "" {

		lu, err := lookup.NewReaderLookerUpper(ctx, cfg.PriorClassPath)

		if err != nil {
			logger.Error().Err(err).Msg("Failed to open prior class table")
			os.Exit(exitcode.UsageError)
		}

		looker_uppers := []lookup.LookerUpper{lu}

		append_funcs := []lookup.AppendLookupFunc{
			lookup.ClassAppendLookupFunc,
		}

		prior_class, err = lookup.NewLookupMap(ctx, looker_uppers, append_funcs)

		if err != nil {
			logger.Error().Err(err).Msg("Failed to load prior class table")
			os.Exit(exitcode.UsageError)
		}
	}

	list_opts := &enumerate.ListOptions{
		Extensions: cfg.Extensions,
		Recursive:  cfg.Recursive,
	}

	sources, err := enumerate.ListImages(ctx, source, list_opts)

	if err != nil {
		logger.Error().Err(err).Msg("Failed to enumerate source images")
		os.Exit(exitcode.EnumerateError)
	}

	logger.Info().Int("count", len(sources)).Msg("Enumerated source images")

	rename_opts := &rename.RenameOptions{
		BaseName:       cfg.BaseName,
		Sequential:     cfg.Sequential,
		OverlayName:    cfg.OverlayName,
		DeleteOriginal: cfg.DeleteOriginal,
		Parallel:       cfg.Parallel,
		HashImages:     cfg.HashImages,
		S3ACL:          cfg.S3ACL,
		PriorClass:     prior_class,
	}

	renamer, err := rename.NewRenamer(logger, source, target, rename_opts)

	if err != nil {
		logger.Error().Err(err).Msg("Failed to create renamer")
		os.Exit(exitcode.UsageError)
	}

	records, err := renamer.Rename(ctx, sources)

	if err != nil {
		logger.Error().Err(err).Msg("Failed to rename images")
		os.Exit(exitcode.RenameError)
	}

	failed := 0

	for _, rec := range records {

		if rec.Status == rename.StatusFailed {
			failed += 1
		}
	}

	rows := report.FromRecords(records)

	token, err := report.RunToken()

	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate run token")
		os.Exit(exitcode.ReportError)
	}

	writer_uri := cfg.ReportWriterURI

	if writer_uri == "" {

		writer_uri, err = defaultReportWriterURI(cfg.TargetURI)

		if err != nil {
			logger.Error().Err(err).Msg("Failed to derive report writer URI")
			os.Exit(exitcode.ReportError)
		}
	}

	for _, format := range cfg.ReportFormats {

		var buf bytes.Buffer
		var enc_err error

		switch format {
		case "csv":
			enc_err = report.WriteCSV(&buf, rows)
		case "parquet":
			enc_err = report.WriteParquet(&buf, rows)
		case "geojson":
			enc_err = report.WriteGeoJSON(&buf, rows)
		}

		if enc_err != nil {
			logger.Error().Err(enc_err).Str("format", format).Msg("Failed to encode report")
			os.Exit(exitcode.ReportError)
		}

		name := report.DefaultName(token, format)

		err := report.Publish(ctx, writer_uri, name, buf.Bytes())

		if err != nil {
			logger.Error().Err(err).Str("format", format).Msg("Failed to publish report")
			os.Exit(exitcode.ReportError)
		}

		logger.Info().Str("report", name).Msg("Published report")
	}

	logger.Info().Int("renamed", len(records)-failed).Int("failed", failed).Msg("Completed renaming run")

	if failed > 0 {
		os.Exit(exitcode.PartialSuccess)
	}

	return nil
}

// defaultReportWriterURI derives a whosonfirst/go-writer URI that publishes
// reports next to the renamed files when no report writer is configured.
func defaultReportWriterURI(target_uri string) (string, error) {

	u, err := url.Parse(target_uri)

	if err != nil {
		return "", err
	}

	if u.Scheme == "file" {
		return "fs://" + u.Path, nil
	}

	return target_uri, nil
}
