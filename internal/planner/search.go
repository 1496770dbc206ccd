package planner

import (
	"context"

	"daily-meal-planner/internal/food"
)

// MinSideDishes is the number of distinct side dishes a day needs.
const MinSideDishes = 3

// Stats counts the work done by one search.
type Stats struct {
	Evaluated int `json:"evaluated"`
	Feasible  int `json:"feasible"`
}

// Result is the winning plan of a search.
type Result struct {
	Plan   DailyPlan      `json:"plan"`
	Totals NutrientTotals `json:"totals"`
	Score  float64        `json:"score"`
	Stats  Stats          `json:"stats"`
}

// Search enumerates every rice, soup and unordered side-dish triple in
// catalog order and returns the feasible plan with the lowest score. Among
// equal scores the earliest candidate wins.
//
// The catalog must already exclude the user's allergens. When no plan can be
// produced the error is a *Failure. ctx is checked between rice/soup pairs;
// an uncancelled context never changes the result.
func Search(ctx context.Context, catalog food.Catalog, t Targets) (Result, error) {
	rice, soup, sides := catalog.Rice, catalog.Soup, catalog.SideDish

	switch {
	case len(rice) == 0:
		return Result{}, insufficient(ReasonNoRiceOptions)
	case len(soup) == 0:
		return Result{}, insufficient(ReasonNoSoupOptions)
	case len(sides) < MinSideDishes:
		return Result{}, insufficient(ReasonInsufficientSideDishes)
	}

	var (
		best  Result
		found bool
		stats Stats
	)
	for _, r := range rice {
		for _, s := range soup {
			if err := ctx.Err(); err != nil {
				return Result{Stats: stats}, err
			}

			for i := 0; i < len(sides); i++ {
				for j := i + 1; j < len(sides); j++ {
					for k := j + 1; k < len(sides); k++ {
						plan := NewDailyPlan(r, s, sides[i], sides[j], sides[k])
						eval := Evaluate(plan, t)
						stats.Evaluated++
						if !eval.Feasible {
							continue
						}
						stats.Feasible++

						if !found || eval.Score < best.Score {
							best = Result{Plan: plan, Totals: eval.Totals, Score: eval.Score}
							found = true
						}
					}
				}
			}
		}
	}

	if !found {
		return Result{Stats: stats}, &Failure{Kind: KindNoFeasibleCombination, Reason: ReasonNoFeasibleCombination}
	}

	best.Stats = stats
	return best, nil
}
