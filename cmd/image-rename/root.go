package main

import (
	"github.com/spf13/cobra"

	"github.com/sfomuseum/go-image-rename/config"
)

var cfg config.Config

var cfg_path string

var rootCmd = &cobra.Command{
	Use:   "image-rename",
	Short: "Batch-rename geotagged images for photogrammetry workflows",
	Long:  "Enumerates image files from a bucket, reads EXIF capture metadata, renames the files deterministically at a destination bucket and exports a per-file rename table.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.SourceURI, "source", "", "URI of the bucket containing source images, for example file:///path/to/images")
	pf.StringSliceVar(&cfg.Extensions, "extension", nil, "Filename extensions to match (case-insensitive). May be repeated. Empty matches any image type")
	pf.BoolVar(&cfg.Recursive, "recursive", false, "Descend in to subdirectories below the source root")
	pf.StringVar(&cfg.LogFormat, "log-format", "", "Log format: text or json. Defaults to text")
	pf.StringVar(&cfg_path, "config", "", "Optional YAML config file. Flags take precedence over file values")
}
