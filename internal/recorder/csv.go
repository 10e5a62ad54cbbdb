package recorder

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"forager/internal/solver"
)

// CSVRecorder writes the decision matrix as comma-separated integers, one row
// per reserve level and one column per time step, without a header.
type CSVRecorder struct {
	path string
}

func NewCSVRecorder(path string) *CSVRecorder { return &CSVRecorder{path: path} }

// Record writes to a temp file next to the target and renames it into place,
// so a failed write never leaves a partial matrix behind.
func (c *CSVRecorder) Record(runID string, p *solver.Policy) error {
	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, p); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("move decisions into place: %w", err)
	}
	log.Printf("[INFO] run %s: decisions written to %s", runID, c.path)
	return nil
}

func (c *CSVRecorder) Close() error { return nil }

// WriteCSV serializes the decision matrix of p to w.
func WriteCSV(out io.Writer, p *solver.Policy) error {
	w := csv.NewWriter(out)
	for _, row := range p.Decisions.Rows() {
		record := make([]string, len(row))
		for i, id := range row {
			record[i] = strconv.Itoa(id)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
