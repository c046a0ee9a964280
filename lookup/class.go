package lookup

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sync"
)

// ClassAppendLookupFunc parses a two-column (filename, class) CSV body with
// no header row and appends its entries to lu, keyed by filename. A filename
// appearing twice with conflicting labels is an error.
func ClassAppendLookupFunc(ctx context.Context, lu *sync.Map, fh io.ReadCloser) error {

	r := csv.NewReader(fh)
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true

	for {

		select {
		case <-ctx.Done():
			return nil
		default:
			// pass
		}

		row, err := r.Read()

		if err == io.EOF {
			break
		}

		if err != nil {
			return fmt.Errorf("Failed to read class table row, %w", err)
		}

		name := row[0]
		class := row[1]

		prev, exists := lu.LoadOrStore(name, class)

		if exists && prev.(string) != class {
			return fmt.Errorf("Conflicting class entries for '%s'", name)
		}
	}

	return nil
}

// ClassFor returns the class label recorded for name, or "" when the lookup
// map has no entry. A miss is expected and is never an error.
func ClassFor(lu *sync.Map, name string) string {

	if lu == nil {
		return ""
	}

	v, ok := lu.Load(name)

	if !ok {
		return ""
	}

	return v.(string)
}
