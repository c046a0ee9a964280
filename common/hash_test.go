package common

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
)

func TestHashString(t *testing.T) {

	a := HashString("DJI_0001.JPG")
	b := HashString("DJI_0001.JPG")

	if a != b {
		t.Errorf("expected stable hashes, got %s and %s", a, b)
	}

	if a == HashString("DJI_0002.JPG") {
		t.Error("expected distinct hashes for distinct inputs")
	}

	if len(a) != 40 {
		t.Errorf("expected 40 hex characters, got %d", len(a))
	}
}

func TestShortHash(t *testing.T) {

	h := ShortHash("DJI_0001.JPG", 8)

	if len(h) != 8 {
		t.Errorf("expected 8 characters, got %d", len(h))
	}

	if h != HashString("DJI_0001.JPG")[:8] {
		t.Error("expected prefix of full hash")
	}

	if len(ShortHash("x", 100)) != 40 {
		t.Error("expected overlong requests to clamp to the full hash")
	}
}

func TestFingerprintFile(t *testing.T) {

	ctx := context.Background()

	dir := t.TempDir()

	err := os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("not really a jpeg"), 0644)

	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	bucket, err := blob.OpenBucket(ctx, "file://"+dir)

	if err != nil {
		t.Fatalf("OpenBucket: %v", err)
	}

	defer bucket.Close()

	fp, err := FingerprintFile(ctx, bucket, "a.jpg")

	if err != nil {
		t.Fatalf("FingerprintFile: %v", err)
	}

	if fp != HashString("not really a jpeg") {
		t.Errorf("unexpected fingerprint %s", fp)
	}

	_, err = FingerprintFile(ctx, bucket, "missing.jpg")

	if err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestOpenBucketMissingRoot(t *testing.T) {

	ctx := context.Background()

	_, err := OpenBucket(ctx, "file:///nowhere/at/all")

	if err == nil {
		t.Fatal("expected error for missing root")
	}

	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected error to wrap fs.ErrNotExist, got %v", err)
	}
}
