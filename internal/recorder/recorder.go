package recorder

import (
	"fmt"

	"forager/internal/solver"
)

// Output formats understood by New.
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// Recorder writes the decision matrix of a solved policy to its output artifact.
// Each Record replaces the previous artifact as a whole; runID identifies the run
// that produced it.
type Recorder interface {
	Record(runID string, p *solver.Policy) error
	Close() error
}

// New opens the recorder for the given output format.
func New(format, path string) (Recorder, error) {
	switch format {
	case FormatCSV:
		return NewCSVRecorder(path), nil
	case FormatSQLite:
		return NewSQLiteRecorder(path)
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
