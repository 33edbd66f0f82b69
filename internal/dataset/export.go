package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/KaramelBytes/dataprep-cli/internal/utils"
)

// EncodeCSV renders the dataset as comma-separated text with a header and no
// index column. Missing cells are written empty.
func (d *Dataset) EncodeCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(d.Names()); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(d.Records()); err != nil {
		return nil, fmt.Errorf("write rows: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the dataset to path as CSV, atomically.
func (d *Dataset) Save(path string) error {
	b, err := d.EncodeCSV()
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
