package common

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestNewReaderIsCached(t *testing.T) {

	ctx := context.Background()

	dir := t.TempDir()

	err := os.WriteFile(filepath.Join(dir, "prior_classes.csv"), []byte("DJI_0001.JPG,2\n"), 0644)

	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	uri := "fs://" + dir

	first, err := NewReader(ctx, uri)

	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	second, err := NewReader(ctx, uri)

	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	if first != second {
		t.Error("expected repeat lookups to return the cached reader")
	}

	fh, err := first.Read(ctx, "prior_classes.csv")

	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	defer fh.Close()

	body, err := io.ReadAll(fh)

	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	if string(body) != "DJI_0001.JPG,2\n" {
		t.Errorf("unexpected body '%s'", string(body))
	}
}
