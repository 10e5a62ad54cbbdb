package solver

import (
	"fmt"

	"forager/internal/model"
)

// evaluator computes the expected fitness of visiting a patch at reserve r and
// time step t, reading only the finalized slice at t+1.
type evaluator func(p model.Patch, r, t int, fit *FitnessTable) (float64, error)

var evaluators = map[model.Kind]evaluator{
	model.KindForage: forage,
	model.KindRefuge: refuge,
}

// Transition returns the expected post-visit fitness of choosing patch p at
// reserve r and time step t.
func Transition(p model.Patch, r, t int, fit *FitnessTable) (float64, error) {
	eval, ok := evaluators[p.Kind]
	if !ok {
		return 0, fmt.Errorf("%w: patch %d: unknown kind %q", model.ErrInvalidConfig, p.ID, p.Kind)
	}
	return eval(p, r, t, fit)
}

func forage(p model.Patch, r, t int, fit *FitnessTable) (float64, error) {
	failure := fit.space.Clamp(r - p.Cost)
	success := fit.space.Clamp(r - p.Cost + p.EnergyGain)

	onSuccess, err := fit.At(success, t+1)
	if err != nil {
		return 0, err
	}
	onFailure, err := fit.At(failure, t+1)
	if err != nil {
		return 0, err
	}
	expected := p.SuccessProbability*onSuccess + (1-p.SuccessProbability)*onFailure
	return (1 - p.MortalityRisk) * expected, nil
}

// refuge carries reserves forward unchanged; the cost never moves the lookup.
func refuge(p model.Patch, r, t int, fit *FitnessTable) (float64, error) {
	next, err := fit.At(r, t+1)
	if err != nil {
		return 0, err
	}
	return (1 - p.MortalityRisk) * next, nil
}
