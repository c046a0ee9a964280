package prune

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
)

func TestPruneOriginals(t *testing.T) {

	ctx := context.Background()

	dir := t.TempDir()

	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {

		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	bucket, err := blob.OpenBucket(ctx, "file://"+dir)

	if err != nil {
		t.Fatalf("OpenBucket: %v", err)
	}

	defer bucket.Close()

	// Already-missing keys are skipped rather than reported as failures.

	err = PruneOriginals(ctx, zerolog.Nop(), bucket, []string{"a.jpg", "b.jpg", "missing.jpg"})

	if err != nil {
		t.Fatalf("PruneOriginals: %v", err)
	}

	for _, name := range []string{"a.jpg", "b.jpg"} {

		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("expected %s to be deleted", name)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "c.jpg")); err != nil {
		t.Errorf("expected c.jpg to survive: %v", err)
	}
}
