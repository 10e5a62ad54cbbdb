package solver

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"forager/internal/reserve"
)

// ErrDomainViolation is returned when a lookup leaves the reserve domain or the season.
var ErrDomainViolation = errors.New("reserve/time domain violation")

type grid struct {
	space  reserve.Space
	season int
}

func (g grid) cell(r, t int) (row, col int, err error) {
	if !g.space.Contains(r) {
		return 0, 0, fmt.Errorf("%w: reserve %d outside [%d,%d]", ErrDomainViolation, r, g.space.Min, g.space.Max)
	}
	if t < 1 || t > g.season {
		return 0, 0, fmt.Errorf("%w: time step %d outside [1,%d]", ErrDomainViolation, t, g.season)
	}
	return g.space.Index(r), t - 1, nil
}

// FitnessTable holds the expected fitness for every (reserve, time step) cell.
// Rows are reserve levels in ascending order, columns are time steps 1..season.
type FitnessTable struct {
	grid
	data *mat.Dense
}

func newFitnessTable(space reserve.Space, season int) *FitnessTable {
	return &FitnessTable{
		grid: grid{space: space, season: season},
		data: mat.NewDense(space.States(), season, nil),
	}
}

// At returns the fitness of reserve r at time step t.
func (f *FitnessTable) At(r, t int) (float64, error) {
	row, col, err := f.cell(r, t)
	if err != nil {
		return 0, err
	}
	return f.data.At(row, col), nil
}

func (f *FitnessTable) set(r, t int, v float64) error {
	row, col, err := f.cell(r, t)
	if err != nil {
		return err
	}
	f.data.Set(row, col, v)
	return nil
}

// Matrix returns a copy of the table as a dense reserve x time matrix.
func (f *FitnessTable) Matrix() *mat.Dense {
	return mat.DenseCopyOf(f.data)
}

// Column returns the fitness of every reserve level at time step t, ascending by reserve.
func (f *FitnessTable) Column(t int) ([]float64, error) {
	_, col, err := f.cell(f.space.Min, t)
	if err != nil {
		return nil, err
	}
	return mat.Col(nil, col, f.data), nil
}

// DecisionTable holds the chosen patch id for every (reserve, time step) cell.
// A zero id means no decision was made there.
type DecisionTable struct {
	grid
	ids []int
}

func newDecisionTable(space reserve.Space, season int) *DecisionTable {
	return &DecisionTable{
		grid: grid{space: space, season: season},
		ids:  make([]int, space.States()*season),
	}
}

// At returns the patch chosen at reserve r and time step t. The boolean is
// false for the terminal step, for undecided cells and for cells outside the table.
func (d *DecisionTable) At(r, t int) (int, bool) {
	row, col, err := d.cell(r, t)
	if err != nil {
		return 0, false
	}
	id := d.ids[row*d.season+col]
	return id, id != 0
}

func (d *DecisionTable) set(r, t, id int) error {
	row, col, err := d.cell(r, t)
	if err != nil {
		return err
	}
	d.ids[row*d.season+col] = id
	return nil
}

// Rows returns a copy of the table, one slice per reserve level in ascending
// order, each holding season entries. Undecided cells are zero.
func (d *DecisionTable) Rows() [][]int {
	rows := make([][]int, d.space.States())
	for i := range rows {
		rows[i] = append([]int(nil), d.ids[i*d.season:(i+1)*d.season]...)
	}
	return rows
}

// Space returns the reserve domain covered by the table.
func (d *DecisionTable) Space() reserve.Space { return d.space }

// Season returns the number of time steps covered by the table.
func (d *DecisionTable) Season() int { return d.season }
