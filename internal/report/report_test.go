package report

import (
	"errors"
	"strings"
	"testing"

	"daily-meal-planner/internal/food"
	"daily-meal-planner/internal/planner"
)

func testPlan() (planner.DailyPlan, planner.NutrientTotals) {
	plan := planner.NewDailyPlan(
		food.Item{Name: "흰쌀밥", Kcal: 300, Carb: 65, Protein: 5, Fat: 1},
		food.Item{Name: "미역국", Kcal: 80, Carb: 5, Protein: 3, Fat: 5},
		food.Item{Name: "김치", Kcal: 20, Carb: 3, Protein: 1, Fat: 0.5},
		food.Item{Name: "시금치나물", Kcal: 40, Carb: 3, Protein: 2, Fat: 2},
		food.Item{Name: "오이무침", Kcal: 30, Carb: 5, Protein: 0.5, Fat: 0.5},
	)
	return plan, planner.Aggregate(plan)
}

func TestTextFormatterKorean(t *testing.T) {
	plan, totals := testPlan()
	f := &TextFormatter{Labels: KoreanLabels}

	want := `## 오늘의 식단 ##

### BREAKFAST ###
- 밥: 흰쌀밥
- 국: 미역국
- 반찬:
  - 김치

### LUNCH ###
- 밥: 흰쌀밥
- 국: 미역국
- 반찬:
  - 시금치나물

### DINNER ###
- 밥: 흰쌀밥
- 국: 미역국
- 반찬:
  - 오이무침

### 영양 정보 (하루 총합) ###
- 총 칼로리: 1230 kcal
- 탄수화물: 221 g (18.0%)
- 단백질: 27.5 g (2.2%)
- 지방: 21 g (1.7%)
`
	if got := f.Format(plan, totals); got != want {
		t.Errorf("Unexpected report:\n%s\nwant:\n%s", got, want)
	}
}

func TestTextFormatterEnglish(t *testing.T) {
	plan, totals := testPlan()
	f, err := NewTextFormatter("en")
	if err != nil {
		t.Fatalf("NewTextFormatter failed: %v", err)
	}

	got := f.Format(plan, totals)
	for _, want := range []string{
		"## Today's Meal Plan ##",
		"### DINNER ###",
		"- Side dishes:\n  - 오이무침\n",
		"- Total energy: 1230 kcal",
		"- Protein: 27.5 g (2.2%)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected report to contain %q, got:\n%s", want, got)
		}
	}
}

func TestNewTextFormatterUnknownLocale(t *testing.T) {
	if _, err := NewTextFormatter("fr"); err == nil {
		t.Error("Expected an error for locale fr")
	}
}

func TestFormatFailure(t *testing.T) {
	f := &TextFormatter{Labels: KoreanLabels}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no rice", &planner.Failure{Kind: planner.KindInsufficientCatalog, Reason: planner.ReasonNoRiceOptions}, "선택 가능한 음식 종류가 부족합니다."},
		{"side dishes", &planner.Failure{Kind: planner.KindInsufficientCatalog, Reason: planner.ReasonInsufficientSideDishes}, "선택 가능한 음식 종류가 부족합니다."},
		{"no feasible", &planner.Failure{Kind: planner.KindNoFeasibleCombination, Reason: planner.ReasonNoFeasibleCombination}, "주어진 조건에 맞는 식단을 찾을 수 없습니다."},
		{"other", errors.New("disk full"), "disk full"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.FormatFailure(tt.err); got != tt.want {
				t.Errorf("FormatFailure() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatNumbers(t *testing.T) {
	if got := formatNumber(12.5); got != "12.5" {
		t.Errorf("formatNumber(12.5) = %q", got)
	}
	if got := formatNumber(300); got != "300" {
		t.Errorf("formatNumber(300) = %q", got)
	}
	if got := formatPercent(10, 0); got != "0.0" {
		t.Errorf("formatPercent with zero kcal = %q", got)
	}
}

func TestTerminalFormatter(t *testing.T) {
	plan, totals := testPlan()
	f := NewTerminalFormatter(&TextFormatter{Labels: KoreanLabels})

	got := f.Format(plan, totals)
	for _, want := range []string{"오늘의 식단", "BREAKFAST", "  - 밥: 흰쌀밥", "    - 김치"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected terminal report to contain %q, got:\n%s", want, got)
		}
	}

	failure := f.FormatFailure(planner.ErrNoFeasibleCombination)
	if !strings.Contains(failure, "주어진 조건에 맞는 식단을 찾을 수 없습니다.") {
		t.Errorf("Unexpected failure text %q", failure)
	}
}

func TestRenderHTML(t *testing.T) {
	plan, totals := testPlan()
	text := (&TextFormatter{Labels: KoreanLabels}).Format(plan, totals)

	got, err := RenderHTML(text)
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	for _, want := range []string{"<h2>오늘의 식단</h2>", "<h3>BREAKFAST</h3>", "<li>김치</li>", "<h3>영양 정보 (하루 총합)</h3>"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected HTML to contain %q, got:\n%s", want, got)
		}
	}
}
