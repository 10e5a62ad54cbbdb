package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forager/internal/model"
	"forager/internal/reserve"
)

// rampTable fills step t+1 with fitness equal to the reserve level and leaves step t empty.
func rampTable(t *testing.T, space reserve.Space, season, step int) *FitnessTable {
	t.Helper()
	fit := newFitnessTable(space, season)
	for _, r := range space.Levels() {
		require.NoError(t, fit.set(r, step+1, float64(r)))
		require.NoError(t, fit.set(r, step, -1000))
	}
	return fit
}

func TestTransition_Forage(t *testing.T) {
	space := reserve.Space{Min: 0, Max: 10}
	fit := rampTable(t, space, 3, 1)
	p := model.Patch{ID: 1, Kind: model.KindForage, EnergyGain: 4, SuccessProbability: 0.25, MortalityRisk: 0.1, Cost: 1}

	got, err := Transition(p, 5, 1, fit)
	require.NoError(t, err)
	// success -> 8, failure -> 4
	assert.InDelta(t, 0.9*(0.25*8+0.75*4), got, 1e-12)
}

func TestTransition_ForageClampsBothEnds(t *testing.T) {
	space := reserve.Space{Min: 0, Max: 10}
	fit := rampTable(t, space, 3, 1)

	t.Run("failure clamps to the floor", func(t *testing.T) {
		p := model.Patch{ID: 1, Kind: model.KindForage, EnergyGain: 2, SuccessProbability: 0.5, Cost: 3}
		got, err := Transition(p, space.Min, 1, fit)
		require.NoError(t, err)
		// success -> clamp(-1)=0, failure -> clamp(-3)=0
		assert.Equal(t, 0.0, got)
	})

	t.Run("success clamps to the ceiling", func(t *testing.T) {
		p := model.Patch{ID: 1, Kind: model.KindForage, EnergyGain: 20, SuccessProbability: 1, Cost: 0}
		got, err := Transition(p, 9, 1, fit)
		require.NoError(t, err)
		assert.Equal(t, 10.0, got)
	})
}

func TestTransition_RefugeReadsNextStep(t *testing.T) {
	space := reserve.Space{Min: 0, Max: 10}
	fit := rampTable(t, space, 3, 1)
	p := model.Patch{ID: 3, Kind: model.KindRefuge, MortalityRisk: 0.2, Cost: 3}

	got, err := Transition(p, 6, 1, fit)
	require.NoError(t, err)
	// Cost does not move the lookup and step 1 itself is never read.
	assert.InDelta(t, 0.8*6, got, 1e-12)
}

func TestTransition_UnknownKind(t *testing.T) {
	fit := rampTable(t, reserve.Space{Min: 0, Max: 3}, 2, 1)
	_, err := Transition(model.Patch{ID: 9, Kind: "burrow"}, 1, 1, fit)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}

func TestTransition_PastSeasonEnd(t *testing.T) {
	fit := rampTable(t, reserve.Space{Min: 0, Max: 3}, 2, 1)
	_, err := Transition(model.Patch{ID: 1, Kind: model.KindRefuge}, 1, 2, fit)
	assert.ErrorIs(t, err, ErrDomainViolation)
}

func TestFitnessTable_RejectsOutOfDomain(t *testing.T) {
	fit := newFitnessTable(reserve.Space{Min: 0, Max: 3}, 2)
	_, err := fit.At(-1, 1)
	assert.ErrorIs(t, err, ErrDomainViolation)
	_, err = fit.At(4, 1)
	assert.ErrorIs(t, err, ErrDomainViolation)
	_, err = fit.At(0, 0)
	assert.ErrorIs(t, err, ErrDomainViolation)
	assert.ErrorIs(t, fit.set(0, 3, 1), ErrDomainViolation)
}
