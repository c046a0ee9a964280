// Package metadata reads embedded EXIF capture metadata (timestamp, GPS
// position, camera details) from image files stored in gocloud.dev/blob
// buckets. Missing or malformed metadata is never fatal: callers receive a
// record with empty fields and a warning is written to the supplied logger.
package metadata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"gocloud.dev/blob"
)

// exifTimeLayout is the datetime layout used by EXIF DateTimeOriginal tags.
const exifTimeLayout = "2006:01:02 15:04:05"

// ImageMetadata holds the capture metadata extracted from a single image.
// Any field may be absent; pointer fields are nil when the corresponding
// EXIF tags are missing or malformed.
type ImageMetadata struct {
	// The capture timestamp, from the DateTimeOriginal tag.
	Taken *time.Time
	// Latitude, in decimal degrees (WGS84).
	Latitude *float64
	// Longitude, in decimal degrees (WGS84).
	Longitude *float64
	// Ellipsoidal height, in metres, from the GPSAltitude tag.
	EllipsoidalHeight *float64
	// The camera model, with spaces replaced by underscores.
	CameraModel string
	// The nominal focal length, in millimetres.
	FocalLength *float64
}

// HasTimestamp reports whether a capture timestamp was present.
func (m *ImageMetadata) HasTimestamp() bool {
	return m.Taken != nil
}

// HasGPS reports whether a GPS position was present.
func (m *ImageMetadata) HasGPS() bool {
	return m.Latitude != nil && m.Longitude != nil
}

// Date returns the capture date formatted as YYYY:MM:DD, or "" when absent.
func (m *ImageMetadata) Date() string {

	if m.Taken == nil {
		return ""
	}

	return m.Taken.Format("2006:01:02")
}

// Time returns the capture time formatted as HH:MM:SS, or "" when absent.
func (m *ImageMetadata) Time() string {

	if m.Taken == nil {
		return ""
	}

	return m.Taken.Format("15:04:05")
}

// Extract reads EXIF metadata for the file at path in bucket. Absent or
// malformed tags degrade to empty fields and a logged warning; the only
// errors returned are failures to read the file itself, and even a file
// with no parseable EXIF block yields an empty record rather than an error.
func Extract(ctx context.Context, logger zerolog.Logger, bucket *blob.Bucket, path string) (*ImageMetadata, error) {

	fh, err := bucket.NewReader(ctx, path, nil)

	if err != nil {
		return nil, fmt.Errorf("Failed to create reader for '%s', %w", path, err)
	}

	defer fh.Close()

	m := &ImageMetadata{}

	exif.RegisterParsers(mknote.All...)

	x, err := exif.Decode(fh)

	if err != nil {
		logger.Warn().Str("path", path).Err(err).Msg("No parseable EXIF data")
		return m, nil
	}

	tag, err := x.Get(exif.DateTimeOriginal)

	if err == nil {

		str_dt, err := tag.StringVal()

		if err == nil {

			// remember these datetime formats are Go's internal cray-cray
			// for working with time...

			t, err := time.Parse(exifTimeLayout, str_dt)

			if err == nil {
				m.Taken = &t
			} else {
				logger.Warn().Str("path", path).Err(err).Msg("Failed to parse DateTimeOriginal")
			}
		}

	} else {
		logger.Warn().Str("path", path).Msg("Missing DateTimeOriginal tag")
	}

	lat, lon, err := x.LatLong()

	if err == nil {
		m.Latitude = &lat
		m.Longitude = &lon
	} else {
		logger.Warn().Str("path", path).Err(err).Msg("Missing or malformed GPS tags")
	}

	alt_tag, err := x.Get(exif.GPSAltitude)

	if err == nil {

		rat, err := alt_tag.Rat(0)

		if err == nil {
			ellh, _ := rat.Float64()
			m.EllipsoidalHeight = &ellh
		}
	}

	model_tag, err := x.Get(exif.Model)

	if err == nil {

		model, err := model_tag.StringVal()

		if err == nil {
			m.CameraModel = strings.ReplaceAll(model, " ", "_")
		}
	}

	focal_tag, err := x.Get(exif.FocalLength)

	if err == nil {

		rat, err := focal_tag.Rat(0)

		if err == nil {
			focal, _ := rat.Float64()
			m.FocalLength = &focal
		}
	}

	return m, nil
}
