// Package planner composes a daily meal plan from a food catalog.
//
// A plan pairs one rice and one soup, repeated at breakfast, lunch and
// dinner, with three distinct side dishes, one per meal. Search walks every
// combination, drops those whose energy misses the target by more than 10%,
// and keeps the one whose macro ratios are closest to the targets.
//
// Macro ratios are computed as grams divided by kcal, not as the energy share
// of each macro (4/4/9 kcal per gram). The resulting scores are only compared
// with each other, so the ranking is what matters; changing the formula would
// change which plan wins.
package planner

import (
	"fmt"
	"math"

	"daily-meal-planner/internal/food"
)

// MealName identifies a meal within the day.
type MealName string

const (
	Breakfast MealName = "breakfast"
	Lunch     MealName = "lunch"
	Dinner    MealName = "dinner"
)

// MealSlot is what is served at one meal.
type MealSlot struct {
	Rice       food.Item   `json:"rice"`
	Soup       food.Item   `json:"soup"`
	SideDishes []food.Item `json:"side_dishes"`
}

// DailyPlan holds the three meals of a day. All three share the same rice
// and soup; each carries one side dish from a single distinct triple.
type DailyPlan struct {
	Breakfast MealSlot `json:"breakfast"`
	Lunch     MealSlot `json:"lunch"`
	Dinner    MealSlot `json:"dinner"`
}

// Meal is a named slot, used when walking a plan in serving order.
type Meal struct {
	Name MealName
	Slot MealSlot
}

// Meals returns the slots in serving order.
func (p DailyPlan) Meals() []Meal {
	return []Meal{
		{Name: Breakfast, Slot: p.Breakfast},
		{Name: Lunch, Slot: p.Lunch},
		{Name: Dinner, Slot: p.Dinner},
	}
}

// NewDailyPlan builds the plan for one candidate: side dishes are assigned to
// breakfast, lunch and dinner in the order given.
func NewDailyPlan(rice, soup, breakfastSide, lunchSide, dinnerSide food.Item) DailyPlan {
	return DailyPlan{
		Breakfast: MealSlot{Rice: rice, Soup: soup, SideDishes: []food.Item{breakfastSide}},
		Lunch:     MealSlot{Rice: rice, Soup: soup, SideDishes: []food.Item{lunchSide}},
		Dinner:    MealSlot{Rice: rice, Soup: soup, SideDishes: []food.Item{dinnerSide}},
	}
}

// Targets describes the desired day. Ratios are fractions in [0,1] that
// conventionally sum to 1.
type Targets struct {
	CarbRatio    float64 `json:"carb_ratio"`
	ProteinRatio float64 `json:"protein_ratio"`
	FatRatio     float64 `json:"fat_ratio"`
	TotalKcal    float64 `json:"total_kcal"`
}

// DefaultTargets returns the 5:2:3 carb/protein/fat split for kcal.
func DefaultTargets(kcal float64) Targets {
	return Targets{CarbRatio: 0.5, ProteinRatio: 0.2, FatRatio: 0.3, TotalKcal: kcal}
}

// Validate rejects targets a search cannot run with. Search itself assumes
// a positive TotalKcal.
func (t Targets) Validate() error {
	if math.IsNaN(t.TotalKcal) || math.IsInf(t.TotalKcal, 0) || t.TotalKcal <= 0 {
		return fmt.Errorf("target kcal must be a positive number, got %v", t.TotalKcal)
	}

	ratios := []struct {
		name  string
		value float64
	}{
		{"carb", t.CarbRatio},
		{"protein", t.ProteinRatio},
		{"fat", t.FatRatio},
	}
	for _, r := range ratios {
		if math.IsNaN(r.value) || r.value < 0 || r.value > 1 {
			return fmt.Errorf("%s ratio must be between 0 and 1, got %v", r.name, r.value)
		}
	}
	return nil
}
