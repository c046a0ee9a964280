package report

import (
	"bytes"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/sfomuseum/go-image-rename/metadata"
	"github.com/sfomuseum/go-image-rename/operations/rename"
)

func testRows() []Row {

	lat := 45.464
	lon := 9.19
	ellh := 182.5
	focal := 8.8

	return []Row{
		{
			OldPath:     "DJI_0001.JPG",
			NewPath:     "IMG_000.JPG",
			Class:       "2",
			Date:        "2023:05:12",
			Time:        "09:30:15",
			Camera:      "FC6310R",
			Focal:       &focal,
			GPSLat:      &lat,
			GPSLon:      &lon,
			GPSEllh:     &ellh,
			Fingerprint: "abc123",
			Status:      rename.StatusRenamed,
		},
		{
			OldPath: "DJI_0002.JPG",
			NewPath: "IMG_001.JPG",
			Status:  rename.StatusRenamed,
		},
	}
}

func TestCSVRoundTrip(t *testing.T) {

	rows := testRows()

	var buf bytes.Buffer

	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	got, err := ReadCSV(&buf)

	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	if len(got) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(got))
	}

	for i, row := range rows {

		if got[i].OldPath != row.OldPath || got[i].NewPath != row.NewPath {
			t.Errorf("mapping differs at %d: %s -> %s, got %s -> %s", i, row.OldPath, row.NewPath, got[i].OldPath, got[i].NewPath)
		}

		if got[i].Class != row.Class {
			t.Errorf("class differs at %d", i)
		}
	}

	if got[0].GPSLat == nil || *got[0].GPSLat != 45.464 {
		t.Error("expected GPS latitude to survive the round trip")
	}

	if got[1].GPSLat != nil {
		t.Error("expected absent GPS latitude to stay empty")
	}
}

func TestParquetRoundTrip(t *testing.T) {

	rows := testRows()

	var buf bytes.Buffer

	if err := WriteParquet(&buf, rows); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}

	got, err := ReadParquet(bytes.NewReader(buf.Bytes()), int64(buf.Len()))

	if err != nil {
		t.Fatalf("ReadParquet: %v", err)
	}

	if len(got) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(got))
	}

	if got[0].OldPath != "DJI_0001.JPG" || got[0].NewPath != "IMG_000.JPG" {
		t.Errorf("unexpected first row: %+v", got[0])
	}

	if got[1].GPSEllh != nil {
		t.Error("expected absent height to stay null")
	}
}

func TestGeoJSON(t *testing.T) {

	rows := testRows()

	var buf bytes.Buffer

	if err := WriteGeoJSON(&buf, rows); err != nil {
		t.Fatalf("WriteGeoJSON: %v", err)
	}

	body := buf.Bytes()

	count := gjson.GetBytes(body, "features.#").Int()

	if count != 2 {
		t.Fatalf("expected 2 features, got %d", count)
	}

	geom_type := gjson.GetBytes(body, "features.0.geometry.type").String()

	if geom_type != "Point" {
		t.Errorf("expected Point geometry, got '%s'", geom_type)
	}

	coords := gjson.GetBytes(body, "features.0.geometry.coordinates").Array()

	if len(coords) != 3 || coords[0].Float() != 9.19 || coords[1].Float() != 45.464 {
		t.Errorf("unexpected coordinates %v", coords)
	}

	if gjson.GetBytes(body, "features.1.geometry").Type != gjson.Null {
		t.Error("expected null geometry for row without GPS")
	}

	mapping, err := MappingFromGeoJSON(body)

	if err != nil {
		t.Fatalf("MappingFromGeoJSON: %v", err)
	}

	if mapping["DJI_0001.JPG"] != "IMG_000.JPG" || mapping["DJI_0002.JPG"] != "IMG_001.JPG" {
		t.Errorf("unexpected mapping %v", mapping)
	}
}

func TestFromRecords(t *testing.T) {

	lat := 45.0
	lon := 9.0

	m := &metadata.ImageMetadata{
		Latitude:  &lat,
		Longitude: &lon,
	}

	records := []*rename.RenameRecord{
		{
			Index:    0,
			OldPath:  "DJI_0001.JPG",
			NewPath:  "IMG_000.JPG",
			Metadata: m,
			Status:   rename.StatusRenamed,
		},
		{
			Index:   1,
			OldPath: "DJI_0002.JPG",
			NewPath: "IMG_001.JPG",
			Status:  rename.StatusFailed,
			Error:   "short read",
		},
	}

	rows := FromRecords(records)

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0].GPSLat == nil || *rows[0].GPSLat != 45.0 {
		t.Error("expected GPS latitude on first row")
	}

	if rows[0].Date != "" {
		t.Errorf("expected empty date without a timestamp, got '%s'", rows[0].Date)
	}

	if rows[1].Status != rename.StatusFailed || rows[1].Error != "short read" {
		t.Errorf("unexpected second row %+v", rows[1])
	}
}

func TestDefaultName(t *testing.T) {

	if DefaultName("x1y2", "csv") != "rename_x1y2.csv" {
		t.Error("unexpected default name")
	}
}
