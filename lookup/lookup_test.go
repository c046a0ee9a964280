package lookup

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestClassAppendLookupFunc(t *testing.T) {

	ctx := context.Background()

	body := "DJI_0001.JPG,2\nDJI_0002.JPG,5\n"

	lu := new(sync.Map)

	err := ClassAppendLookupFunc(ctx, lu, io.NopCloser(strings.NewReader(body)))

	if err != nil {
		t.Fatalf("ClassAppendLookupFunc: %v", err)
	}

	if ClassFor(lu, "DJI_0001.JPG") != "2" {
		t.Errorf("unexpected class for DJI_0001.JPG")
	}

	if ClassFor(lu, "DJI_0002.JPG") != "5" {
		t.Errorf("unexpected class for DJI_0002.JPG")
	}
}

func TestClassAppendLookupFuncConflict(t *testing.T) {

	ctx := context.Background()

	body := "DJI_0001.JPG,2\nDJI_0001.JPG,3\n"

	lu := new(sync.Map)

	err := ClassAppendLookupFunc(ctx, lu, io.NopCloser(strings.NewReader(body)))

	if err == nil {
		t.Fatal("expected error for conflicting entries")
	}
}

func TestClassForMiss(t *testing.T) {

	lu := new(sync.Map)
	lu.Store("DJI_0001.JPG", "2")

	// A name missing from the table is expected: the class stays empty.

	if ClassFor(lu, "not-a-source-file.JPG") != "" {
		t.Error("expected empty class for unknown name")
	}

	if ClassFor(nil, "DJI_0001.JPG") != "" {
		t.Error("expected empty class for nil lookup map")
	}
}

func TestNewLookupMapWithReaderLookerUpper(t *testing.T) {

	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "prior_classes.csv")

	err := os.WriteFile(path, []byte("DJI_0001.JPG,2\n"), 0644)

	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	l, err := NewReaderLookerUpper(ctx, path)

	if err != nil {
		t.Fatalf("NewReaderLookerUpper: %v", err)
	}

	lu, err := NewLookupMap(ctx, []LookerUpper{l}, []AppendLookupFunc{ClassAppendLookupFunc})

	if err != nil {
		t.Fatalf("NewLookupMap: %v", err)
	}

	if ClassFor(lu, "DJI_0001.JPG") != "2" {
		t.Error("unexpected class for DJI_0001.JPG")
	}
}
