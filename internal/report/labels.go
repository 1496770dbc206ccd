package report

import (
	"fmt"

	"daily-meal-planner/internal/planner"
)

// Labels holds the fixed strings of a report in one language.
type Labels struct {
	Title      string
	Meals      map[planner.MealName]string
	Rice       string
	Soup       string
	SideDishes string

	Nutrition string
	TotalKcal string
	Carb      string
	Protein   string
	Fat       string

	MissingKcal         string
	InsufficientCatalog string
	NoFeasible          string
}

var mealHeadings = map[planner.MealName]string{
	planner.Breakfast: "BREAKFAST",
	planner.Lunch:     "LUNCH",
	planner.Dinner:    "DINNER",
}

// KoreanLabels is the default report language.
var KoreanLabels = Labels{
	Title:      "## 오늘의 식단 ##",
	Meals:      mealHeadings,
	Rice:       "밥",
	Soup:       "국",
	SideDishes: "반찬",

	Nutrition: "### 영양 정보 (하루 총합) ###",
	TotalKcal: "총 칼로리",
	Carb:      "탄수화물",
	Protein:   "단백질",
	Fat:       "지방",

	MissingKcal:         "kcal 값을 입력해주세요.",
	InsufficientCatalog: "선택 가능한 음식 종류가 부족합니다.",
	NoFeasible:          "주어진 조건에 맞는 식단을 찾을 수 없습니다.",
}

var EnglishLabels = Labels{
	Title:      "## Today's Meal Plan ##",
	Meals:      mealHeadings,
	Rice:       "Rice",
	Soup:       "Soup",
	SideDishes: "Side dishes",

	Nutrition: "### Nutrition (daily total) ###",
	TotalKcal: "Total energy",
	Carb:      "Carbohydrate",
	Protein:   "Protein",
	Fat:       "Fat",

	MissingKcal:         "Please enter a kcal value.",
	InsufficientCatalog: "Not enough food options to choose from.",
	NoFeasible:          "No meal plan matches the given conditions.",
}

// LabelsFor returns the labels for a locale ("ko" or "en"). Empty means ko.
func LabelsFor(locale string) (Labels, error) {
	switch locale {
	case "", "ko":
		return KoreanLabels, nil
	case "en":
		return EnglishLabels, nil
	}
	return Labels{}, fmt.Errorf("unsupported locale %q", locale)
}
