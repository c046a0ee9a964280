package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// WriteGeoJSON writes rows to w as a GeoJSON FeatureCollection with one
// Point feature per row. Rows without a GPS position get a null geometry so
// that every file still appears in the collection.
func WriteGeoJSON(w io.Writer, rows []Row) error {

	collection := []byte(`{"type":"FeatureCollection","features":[]}`)

	for i, row := range rows {

		feature, err := featureForRow(row)

		if err != nil {
			return fmt.Errorf("Failed to build feature for '%s', %w", row.OldPath, err)
		}

		collection, err = sjson.SetRawBytes(collection, fmt.Sprintf("features.%d", i), feature)

		if err != nil {
			return fmt.Errorf("Failed to append feature for '%s', %w", row.OldPath, err)
		}
	}

	_, err := w.Write(collection)

	if err != nil {
		return fmt.Errorf("Failed to write feature collection, %w", err)
	}

	return nil
}

// MappingFromGeoJSON extracts the original-to-new path mapping from a
// feature collection previously written by WriteGeoJSON.
func MappingFromGeoJSON(body []byte) (map[string]string, error) {

	type_rsp := gjson.GetBytes(body, "type")

	if type_rsp.String() != "FeatureCollection" {
		return nil, fmt.Errorf("Not a FeatureCollection")
	}

	mapping := make(map[string]string)

	features_rsp := gjson.GetBytes(body, "features")

	for _, f := range features_rsp.Array() {

		old_rsp := f.Get("properties.old_path")
		new_rsp := f.Get("properties.new_path")

		if !old_rsp.Exists() || !new_rsp.Exists() {
			return nil, fmt.Errorf("Feature is missing path properties")
		}

		mapping[old_rsp.String()] = new_rsp.String()
	}

	return mapping, nil
}

func featureForRow(row Row) ([]byte, error) {

	feature := []byte(`{"type":"Feature","geometry":null}`)

	if row.GPSLat != nil && row.GPSLon != nil {

		coords := []float64{*row.GPSLon, *row.GPSLat}

		if row.GPSEllh != nil {
			coords = append(coords, *row.GPSEllh)
		}

		var err error

		feature, err = sjson.SetBytes(feature, "geometry.type", "Point")

		if err != nil {
			return nil, err
		}

		feature, err = sjson.SetBytes(feature, "geometry.coordinates", coords)

		if err != nil {
			return nil, err
		}
	}

	props, err := json.Marshal(row)

	if err != nil {
		return nil, fmt.Errorf("Failed to marshal row properties, %w", err)
	}

	feature, err = sjson.SetRawBytes(feature, "properties", props)

	if err != nil {
		return nil, fmt.Errorf("Failed to assign row properties, %w", err)
	}

	return feature, nil
}
