package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{
	"old_path",
	"new_path",
	"class",
	"date",
	"time",
	"camera",
	"focal",
	"gps_lat",
	"gps_lon",
	"gps_ellh",
	"fingerprint",
	"imagehash_avg",
	"imagehash_diff",
	"status",
	"error",
}

// WriteCSV writes rows to w as CSV with a header row. Absent numeric fields
// are written as empty cells.
func WriteCSV(w io.Writer, rows []Row) error {

	csv_wr := csv.NewWriter(w)

	err := csv_wr.Write(csvHeader)

	if err != nil {
		return fmt.Errorf("Failed to write CSV header, %w", err)
	}

	for _, row := range rows {

		record := []string{
			row.OldPath,
			row.NewPath,
			row.Class,
			row.Date,
			row.Time,
			row.Camera,
			formatFloat(row.Focal),
			formatFloat(row.GPSLat),
			formatFloat(row.GPSLon),
			formatFloat(row.GPSEllh),
			row.Fingerprint,
			row.ImageHashAvg,
			row.ImageHashDiff,
			row.Status,
			row.Error,
		}

		err := csv_wr.Write(record)

		if err != nil {
			return fmt.Errorf("Failed to write CSV row for '%s', %w", row.OldPath, err)
		}
	}

	csv_wr.Flush()
	return csv_wr.Error()
}

// ReadCSV reads a table previously written by WriteCSV. Re-reading an
// exported table reproduces the same original-to-new path mapping.
func ReadCSV(r io.Reader) ([]Row, error) {

	csv_r := csv.NewReader(r)
	csv_r.FieldsPerRecord = len(csvHeader)

	header, err := csv_r.Read()

	if err != nil {
		return nil, fmt.Errorf("Failed to read CSV header, %w", err)
	}

	for i, name := range csvHeader {

		if header[i] != name {
			return nil, fmt.Errorf("Unexpected CSV column '%s', expected '%s'", header[i], name)
		}
	}

	rows := make([]Row, 0)

	for {

		record, err := csv_r.Read()

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("Failed to read CSV row, %w", err)
		}

		row := Row{
			OldPath:       record[0],
			NewPath:       record[1],
			Class:         record[2],
			Date:          record[3],
			Time:          record[4],
			Camera:        record[5],
			Focal:         parseFloat(record[6]),
			GPSLat:        parseFloat(record[7]),
			GPSLon:        parseFloat(record[8]),
			GPSEllh:       parseFloat(record[9]),
			Fingerprint:   record[10],
			ImageHashAvg:  record[11],
			ImageHashDiff: record[12],
			Status:        record[13],
			Error:         record[14],
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func formatFloat(v *float64) string {

	if v == nil {
		return ""
	}

	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseFloat(s string) *float64 {

	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)

	if err != nil {
		return nil
	}

	return &v
}
