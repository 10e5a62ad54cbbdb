package solver

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"forager/internal/model"
)

// Policy is the immutable result of a solve.
type Policy struct {
	Params    model.Params
	Decisions *DecisionTable
	Fitness   *FitnessTable
}

// Engine runs the backward induction over one set of params.
type Engine struct {
	params       model.Params
	patches      []model.Patch
	workers      int
	skipCritical bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers evaluates up to n reserve levels of a time step concurrently.
// Time steps always run one after another.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithCriticalReserveSkipped leaves the reserve floor without decisions below
// the terminal step; those cells keep id 0 and fitness 0.
func WithCriticalReserveSkipped(skip bool) Option {
	return func(e *Engine) { e.skipCritical = skip }
}

// New validates params and builds an Engine.
func New(params model.Params, opts ...Option) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	patches := slices.Clone(params.Patches)
	slices.SortFunc(patches, func(a, b model.Patch) int { return cmp.Compare(a.ID, b.ID) })
	params.Patches = slices.Clone(patches)

	e := &Engine{params: params, patches: patches, workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Solve seeds the terminal column and sweeps time backwards to step 1.
func (e *Engine) Solve() (*Policy, error) {
	space := e.params.Space()
	season := e.params.SeasonLength
	fit := newFitnessTable(space, season)
	dec := newDecisionTable(space, season)

	for _, r := range space.Levels() {
		if err := fit.set(r, season, TerminalFitness(e.params, r)); err != nil {
			return nil, fmt.Errorf("seed terminal fitness: %w", err)
		}
	}

	first := space.Min
	if e.skipCritical {
		first++
	}
	for t := season - 1; t >= 1; t-- {
		if err := e.sweep(t, first, fit, dec); err != nil {
			return nil, fmt.Errorf("time step %d: %w", t, err)
		}
	}

	params := e.params
	params.Patches = slices.Clone(e.params.Patches)
	return &Policy{Params: params, Decisions: dec, Fitness: fit}, nil
}

func (e *Engine) sweep(t, first int, fit *FitnessTable, dec *DecisionTable) error {
	last := e.params.ReserveMax
	if e.workers <= 1 {
		for r := first; r <= last; r++ {
			if err := e.resolve(r, t, fit, dec); err != nil {
				return err
			}
		}
		return nil
	}

	// Cells of step t only read step t+1 and each writes its own cell.
	var g errgroup.Group
	g.SetLimit(e.workers)
	for r := first; r <= last; r++ {
		r := r
		g.Go(func() error { return e.resolve(r, t, fit, dec) })
	}
	return g.Wait()
}

func (e *Engine) resolve(r, t int, fit *FitnessTable, dec *DecisionTable) error {
	best, err := e.best(r, t, fit)
	if err != nil {
		return fmt.Errorf("reserve %d: %w", r, err)
	}
	if err := dec.set(r, t, best.id); err != nil {
		return err
	}
	return fit.set(r, t, best.value)
}

type choice struct {
	id    int
	value float64
}

// better orders choices: maximize value first, then prefer the smaller id.
func better(a, b choice) bool {
	if a.value != b.value {
		return a.value > b.value
	}
	return a.id < b.id
}

func (e *Engine) best(r, t int, fit *FitnessTable) (choice, error) {
	var best choice
	for i, p := range e.patches {
		v, err := Transition(p, r, t, fit)
		if err != nil {
			return choice{}, fmt.Errorf("patch %d: %w", p.ID, err)
		}
		c := choice{id: p.ID, value: v}
		if i == 0 || better(c, best) {
			best = c
		}
	}
	return best, nil
}
