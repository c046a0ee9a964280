package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultBaseName is the base name assigned to renamed images when none is configured.
const DefaultBaseName = "IMG"

var validReportFormats = []string{"csv", "parquet", "geojson"}

// Config holds all runtime configuration for a single renaming run. Every
// recognized option is enumerated here; there are no implicit settings.
type Config struct {
	// URI of the gocloud.dev/blob bucket containing source images, for example file:///path/to/images
	SourceURI string `yaml:"source"`
	// URI of the gocloud.dev/blob bucket where renamed images are written.
	TargetURI string `yaml:"target"`
	// Case-insensitive filename extensions to match, with or without a leading dot. Empty means any image type.
	Extensions []string `yaml:"extensions"`
	// Descend in to subdirectories below the source root.
	Recursive bool `yaml:"recursive"`
	// Base name for renamed images.
	BaseName string `yaml:"base_name"`
	// Assign names from a zero-padded counter rather than capture metadata.
	Sequential bool `yaml:"sequential"`
	// Remove the original image after a successful copy.
	DeleteOriginal bool `yaml:"delete_original"`
	// Burn the destination base name in to the image pixels.
	OverlayName bool `yaml:"overlay_name"`
	// Materialize the batch with a worker pool sized to the number of CPU cores.
	Parallel bool `yaml:"parallel"`
	// Compute perceptual (average, difference) hashes for each source image.
	HashImages bool `yaml:"hash_images"`
	// Path to an optional two-column (filename, class) CSV file with no header row.
	PriorClassPath string `yaml:"prior_class"`
	// Optional S3 ACL to apply when the target bucket is an S3 bucket.
	S3ACL string `yaml:"s3_acl"`
	// Report formats to export. Valid values are "csv", "parquet" and "geojson".
	ReportFormats []string `yaml:"report_formats"`
	// URI of the whosonfirst/go-writer writer where reports are published.
	ReportWriterURI string `yaml:"report_writer"`
	// Log format: "text" or "json"
	LogFormat string `yaml:"log_format"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Values already set on c take precedence over the file.
func (c *Config) LoadFromFile(path string) error {

	data, err := os.ReadFile(path)

	if err != nil {
		return fmt.Errorf("Failed to read config file, %w", err)
	}

	var fc Config

	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("Failed to parse config file, %w", err)
	}

	if c.SourceURI == "" {
		c.SourceURI = fc.SourceURI
	}

	if c.TargetURI == "" {
		c.TargetURI = fc.TargetURI
	}

	if len(c.Extensions) == 0 {
		c.Extensions = fc.Extensions
	}

	if c.BaseName == "" {
		c.BaseName = fc.BaseName
	}

	if c.PriorClassPath == "" {
		c.PriorClassPath = fc.PriorClassPath
	}

	if c.S3ACL == "" {
		c.S3ACL = fc.S3ACL
	}

	if len(c.ReportFormats) == 0 {
		c.ReportFormats = fc.ReportFormats
	}

	if c.ReportWriterURI == "" {
		c.ReportWriterURI = fc.ReportWriterURI
	}

	if c.LogFormat == "" {
		c.LogFormat = fc.LogFormat
	}

	c.Recursive = c.Recursive || fc.Recursive
	c.Sequential = c.Sequential || fc.Sequential
	c.DeleteOriginal = c.DeleteOriginal || fc.DeleteOriginal
	c.OverlayName = c.OverlayName || fc.OverlayName
	c.Parallel = c.Parallel || fc.Parallel
	c.HashImages = c.HashImages || fc.HashImages

	return nil
}

// Validate checks required fields and option combinations and returns an
// error if the config is invalid. Defaults are filled in where sensible.
func (c *Config) Validate() error {

	if c.SourceURI == "" {
		return fmt.Errorf("--source is required")
	}

	if c.BaseName == "" {
		c.BaseName = DefaultBaseName
	}

	if c.LogFormat == "" {
		c.LogFormat = "text"
	}

	// The simple copy path used by parallel runs cannot render overlays,
	// which require a full decode/encode cycle. Requesting both is a
	// configuration conflict rather than a silent behaviour change.

	if c.Parallel && c.OverlayName {
		return fmt.Errorf("--parallel and --overlay-name are mutually exclusive")
	}

	if c.PriorClassPath != "" {

		if _, err := os.Stat(c.PriorClassPath); err != nil {
			return fmt.Errorf("Failed to stat prior class file, %w", err)
		}
	}

	if len(c.ReportFormats) == 0 {
		c.ReportFormats = []string{"csv"}
	}

	for _, f := range c.ReportFormats {

		if !isValidReportFormat(f) {
			return fmt.Errorf("Invalid report format '%s', expected one of %s", f, strings.Join(validReportFormats, ", "))
		}
	}

	return nil
}

// ValidateRename checks the additional fields a renaming run requires on top
// of Validate. It runs after any config file has been merged so the target
// may come from either a flag or the file.
func (c *Config) ValidateRename() error {

	if c.TargetURI == "" {
		return fmt.Errorf("--target is required")
	}

	return c.Validate()
}

func isValidReportFormat(f string) bool {

	for _, v := range validReportFormats {

		if f == v {
			return true
		}
	}

	return false
}
