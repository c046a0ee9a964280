package rename

import (
	"fmt"
	"testing"
	"time"

	"github.com/sfomuseum/go-image-rename/metadata"
	"github.com/sfomuseum/go-image-rename/operations/enumerate"
)

func TestSequentialNames(t *testing.T) {

	count := 33

	gen := NewNameGenerator("IMG", true, count)

	seen := make(map[string]bool)

	for i := 0; i < count; i++ {

		src := &enumerate.SourceImage{
			Path:  fmt.Sprintf("DJI_%04d.JPG", i),
			Index: i,
		}

		name := gen.NameFor(src, &metadata.ImageMetadata{})

		want := fmt.Sprintf("IMG_%03d.JPG", i)

		if name != want {
			t.Errorf("expected %s, got %s", want, name)
		}

		if seen[name] {
			t.Errorf("duplicate name %s", name)
		}

		seen[name] = true
	}
}

func TestSequentialNameWidthGrows(t *testing.T) {

	gen := NewNameGenerator("IMG", true, 20000)

	src := &enumerate.SourceImage{
		Path:  "a.jpg",
		Index: 7,
	}

	name := gen.NameFor(src, nil)

	if name != "IMG_00007.jpg" {
		t.Errorf("expected IMG_00007.jpg, got %s", name)
	}
}

func TestMetadataNames(t *testing.T) {

	gen := NewNameGenerator("IMG", false, 10)

	taken := time.Date(2023, 5, 12, 9, 30, 15, 0, time.UTC)

	m := &metadata.ImageMetadata{
		Taken:       &taken,
		CameraModel: "FC6310R",
	}

	src := &enumerate.SourceImage{
		Path:  "flight1/DJI_0001.JPG",
		Index: 0,
	}

	name := gen.NameFor(src, m)

	if name != "IMG_20230512_093015_FC6310R.JPG" {
		t.Errorf("unexpected name %s", name)
	}
}

func TestMetadataNameCollision(t *testing.T) {

	gen := NewNameGenerator("IMG", false, 10)

	taken := time.Date(2023, 5, 12, 9, 30, 15, 0, time.UTC)

	m := &metadata.ImageMetadata{
		Taken: &taken,
	}

	first := gen.NameFor(&enumerate.SourceImage{Path: "a/DJI_0001.JPG", Index: 0}, m)
	second := gen.NameFor(&enumerate.SourceImage{Path: "b/DJI_0001.JPG", Index: 1}, m)

	if first == second {
		t.Fatalf("expected distinct names, got %s twice", first)
	}

	if first != "IMG_20230512_093015.JPG" {
		t.Errorf("unexpected first name %s", first)
	}
}

func TestMetadataNameFallsBackWithoutTimestamp(t *testing.T) {

	gen := NewNameGenerator("IMG", false, 10)

	src := &enumerate.SourceImage{
		Path:  "DJI_0001.JPG",
		Index: 4,
	}

	name := gen.NameFor(src, &metadata.ImageMetadata{})

	if name != "IMG_004.JPG" {
		t.Errorf("expected sequential fallback, got %s", name)
	}
}
