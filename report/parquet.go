package report

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
)

// WriteParquet writes rows to w as a Parquet file. Absent numeric fields are
// written as nulls via optional columns.
func WriteParquet(w io.Writer, rows []Row) error {

	pq_wr := parquet.NewGenericWriter[Row](w)

	_, err := pq_wr.Write(rows)

	if err != nil {
		pq_wr.Close()
		return fmt.Errorf("Failed to write Parquet rows, %w", err)
	}

	err = pq_wr.Close()

	if err != nil {
		return fmt.Errorf("Failed to close Parquet writer, %w", err)
	}

	return nil
}

// ReadParquet reads a table previously written by WriteParquet.
func ReadParquet(r io.ReaderAt, size int64) ([]Row, error) {

	pf, err := parquet.OpenFile(r, size)

	if err != nil {
		return nil, fmt.Errorf("Failed to open Parquet file, %w", err)
	}

	pq_r := parquet.NewGenericReader[Row](pf)
	defer pq_r.Close()

	rows := make([]Row, pq_r.NumRows())

	if len(rows) == 0 {
		return rows, nil
	}

	n, err := pq_r.Read(rows)

	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("Failed to read Parquet rows, %w", err)
	}

	return rows[:n], nil
}
