// Package report exports the per-file rename table produced by a renaming
// run. Tables can be written as CSV, Parquet or GeoJSON and published
// through a whosonfirst/go-writer Writer.
package report

import (
	"fmt"

	"github.com/aaronland/go-string/random"
	"github.com/sfomuseum/go-image-rename/operations/rename"
)

// Row is a single line of the rename table. Pointer fields are empty in the
// export when the corresponding metadata was absent.
type Row struct {
	OldPath       string   `json:"old_path" parquet:"old_path"`
	NewPath       string   `json:"new_path" parquet:"new_path"`
	Class         string   `json:"class" parquet:"class"`
	Date          string   `json:"date" parquet:"date"`
	Time          string   `json:"time" parquet:"time"`
	Camera        string   `json:"camera" parquet:"camera"`
	Focal         *float64 `json:"focal" parquet:"focal,optional"`
	GPSLat        *float64 `json:"gps_lat" parquet:"gps_lat,optional"`
	GPSLon        *float64 `json:"gps_lon" parquet:"gps_lon,optional"`
	GPSEllh       *float64 `json:"gps_ellh" parquet:"gps_ellh,optional"`
	Fingerprint   string   `json:"fingerprint" parquet:"fingerprint"`
	ImageHashAvg  string   `json:"imagehash_avg" parquet:"imagehash_avg"`
	ImageHashDiff string   `json:"imagehash_diff" parquet:"imagehash_diff"`
	Status        string   `json:"status" parquet:"status"`
	Error         string   `json:"error" parquet:"error"`
}

// FromRecords flattens rename records in to table rows, preserving order.
func FromRecords(records []*rename.RenameRecord) []Row {

	rows := make([]Row, len(records))

	for i, rec := range records {

		row := Row{
			OldPath:     rec.OldPath,
			NewPath:     rec.NewPath,
			Class:       rec.Class,
			Fingerprint: rec.Fingerprint,
			Status:      rec.Status,
			Error:       rec.Error,
		}

		if rec.Metadata != nil {
			row.Date = rec.Metadata.Date()
			row.Time = rec.Metadata.Time()
			row.Camera = rec.Metadata.CameraModel
			row.Focal = rec.Metadata.FocalLength
			row.GPSLat = rec.Metadata.Latitude
			row.GPSLon = rec.Metadata.Longitude
			row.GPSEllh = rec.Metadata.EllipsoidalHeight
		}

		for _, h := range rec.ImageHashes {

			switch h.Approach {
			case "avg":
				row.ImageHashAvg = h.Hash
			case "diff":
				row.ImageHashDiff = h.Hash
			default:
				// pass
			}
		}

		rows[i] = row
	}

	return rows
}

// RunToken generates a random alphanumeric token identifying one renaming
// run, used in default report filenames.
func RunToken() (string, error) {

	rand_opts := random.DefaultOptions()
	rand_opts.AlphaNumeric = true

	token, err := random.String(rand_opts)

	if err != nil {
		return "", fmt.Errorf("Failed to generate run token, %w", err)
	}

	return token, nil
}

// DefaultName derives the default report filename for a run token and format.
func DefaultName(token string, format string) string {
	return fmt.Sprintf("rename_%s.%s", token, format)
}
