package report

import (
	"fmt"
	"strings"

	"forager/internal/solver"
)

// Band is a run of consecutive reserve levels sharing one decision.
type Band struct {
	From  int
	To    int
	Patch int
}

// Bands splits the reserve axis at time step t into runs of equal decisions.
// Undecided cells form bands with Patch 0.
func Bands(p *solver.Policy, t int) []Band {
	space := p.Decisions.Space()
	var bands []Band
	for r := space.Min; r <= space.Max; r++ {
		id, _ := p.Decisions.At(r, t)
		if n := len(bands); n > 0 && bands[n-1].Patch == id {
			bands[n-1].To = r
			continue
		}
		bands = append(bands, Band{From: r, To: r, Patch: id})
	}
	return bands
}

// FormatStep renders the decision bands of time step t on one line.
func FormatStep(p *solver.Policy, t int) string {
	labels := patchLabels(p)
	var parts []string
	for _, b := range Bands(p, t) {
		label, ok := labels[b.Patch]
		if !ok {
			label = "none"
		}
		parts = append(parts, fmt.Sprintf("r %d-%d: %s", b.From, b.To, label))
	}
	return fmt.Sprintf("t=%d | %s", t, strings.Join(parts, "; "))
}

// FormatSummary renders a short report of a solved policy for the log.
func FormatSummary(p *solver.Policy) string {
	var b strings.Builder
	space := p.Decisions.Space()
	season := p.Decisions.Season()

	b.WriteString(fmt.Sprintf("policy | reserves %d..%d | season %d | %d patches\n",
		space.Min, space.Max, season, len(p.Params.Patches)))

	// Usage over every decision-bearing cell.
	counts := make(map[int]int)
	total := 0
	for _, row := range p.Decisions.Rows() {
		for _, id := range row {
			if id != 0 {
				counts[id]++
				total++
			}
		}
	}
	for _, patch := range p.Params.Patches {
		share := 0.0
		if total > 0 {
			share = float64(counts[patch.ID]) / float64(total) * 100
		}
		b.WriteString(fmt.Sprintf("  %s (id %d, %s): %d cells (%.1f%%)\n",
			patch.Label(), patch.ID, patch.Kind, counts[patch.ID], share))
	}

	for _, t := range sampleSteps(season) {
		b.WriteString("  " + FormatStep(p, t) + "\n")
	}
	return b.String()
}

// sampleSteps picks the first, middle and last decision-bearing steps.
func sampleSteps(season int) []int {
	last := season - 1
	steps := []int{1}
	if mid := (1 + last) / 2; mid > 1 && mid < last {
		steps = append(steps, mid)
	}
	if last > 1 {
		steps = append(steps, last)
	}
	return steps
}

func patchLabels(p *solver.Policy) map[int]string {
	labels := make(map[int]string, len(p.Params.Patches))
	for _, patch := range p.Params.Patches {
		labels[patch.ID] = patch.Label()
	}
	return labels
}
