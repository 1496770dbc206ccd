package planner

import "math"

// KcalTolerance is the largest accepted relative deviation from the target
// energy. A plan exactly at the bound is feasible.
const KcalTolerance = 0.10

// Evaluation is the verdict on one candidate plan. Score is only meaningful
// when Feasible is true; lower is better.
type Evaluation struct {
	Feasible bool
	Score    float64
	Totals   NutrientTotals
}

// Evaluate checks plan against the energy tolerance and scores its macro
// ratios. t.TotalKcal must be positive.
func Evaluate(plan DailyPlan, t Targets) Evaluation {
	totals := Aggregate(plan)

	if math.Abs(totals.Kcal-t.TotalKcal)/t.TotalKcal > KcalTolerance {
		return Evaluation{Totals: totals}
	}

	carb, protein, fat := totals.Ratios()
	score := math.Abs(carb-t.CarbRatio) +
		math.Abs(protein-t.ProteinRatio) +
		math.Abs(fat-t.FatRatio)

	return Evaluation{Feasible: true, Score: score, Totals: totals}
}
