package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sfomuseum/go-image-rename/common"
	"github.com/sfomuseum/go-image-rename/exitcode"
	"github.com/sfomuseum/go-image-rename/logging"
	"github.com/sfomuseum/go-image-rename/operations/enumerate"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the image files a renaming run would process",
	Long:  "Enumerates matching image files in the source bucket and prints one JSON record per file, in the stable order a renaming run would use.",
	RunE:  runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {

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

	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("Invalid configuration")
		os.Exit(exitcode.UsageError)
	}

	bucket, err := common.OpenBucket(ctx, cfg.SourceURI)

	if err != nil {
		logger.Error().Err(err).Msg("Failed to open source bucket")
		os.Exit(exitcode.EnumerateError)
	}

	defer bucket.Close()

	list_opts := &enumerate.ListOptions{
		Extensions: cfg.Extensions,
		Recursive:  cfg.Recursive,
	}

	sources, err := enumerate.ListImages(ctx, bucket, list_opts)

	if err != nil {
		logger.Error().Err(err).Msg("Failed to enumerate source images")
		os.Exit(exitcode.EnumerateError)
	}

	for _, src := range sources {

		enc, err := json.Marshal(src)

		if err != nil {
			logger.Error().Err(err).Str("path", src.Path).Msg("Failed to marshal source image")
			os.Exit(exitcode.EnumerateError)
		}

		fmt.Println(string(enc))
	}

	return nil
}
