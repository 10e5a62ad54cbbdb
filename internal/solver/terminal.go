package solver

import "forager/internal/model"

// TerminalFitness is the fitness credited for ending the season at reserve level r.
// It is zero at the reserve floor and rises towards AsymptoticFitness, with
// StartingReserves as the half-saturation surplus.
func TerminalFitness(p model.Params, r int) float64 {
	surplus := float64(r - p.ReserveMin)
	return p.AsymptoticFitness * surplus / (surplus + p.StartingReserves)
}
