package planner

import "daily-meal-planner/internal/food"

// NutrientTotals is the summed nutrition of a plan. Carb, Protein and Fat
// are grams.
type NutrientTotals struct {
	Kcal    float64 `json:"kcal"`
	Carb    float64 `json:"carb"`
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
}

func (n *NutrientTotals) add(item food.Item) {
	n.Kcal += item.Kcal
	n.Carb += item.Carb
	n.Protein += item.Protein
	n.Fat += item.Fat
}

// Ratios returns grams of each macro per kcal. A zero-energy total yields
// zero ratios.
func (n NutrientTotals) Ratios() (carb, protein, fat float64) {
	if n.Kcal == 0 {
		return 0, 0, 0
	}
	return n.Carb / n.Kcal, n.Protein / n.Kcal, n.Fat / n.Kcal
}

// Aggregate sums the nutrition of every item served in the plan: rice and
// soup of each meal, then its side dishes.
func Aggregate(plan DailyPlan) NutrientTotals {
	var totals NutrientTotals
	for _, meal := range plan.Meals() {
		totals.add(meal.Slot.Rice)
		totals.add(meal.Slot.Soup)
		for _, side := range meal.Slot.SideDishes {
			totals.add(side)
		}
	}
	return totals
}
