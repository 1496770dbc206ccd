package telegram

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"daily-meal-planner/internal/app"
	"daily-meal-planner/internal/config"
	"daily-meal-planner/internal/food"
	"daily-meal-planner/internal/metrics"
	"daily-meal-planner/internal/report"
)

type mockSummarizer struct {
	summary []metrics.DailySummary
	err     error
}

func (m *mockSummarizer) DailySummary(context.Context, int) ([]metrics.DailySummary, error) {
	return m.summary, m.err
}

func newTestBot(t *testing.T, summarizer RunSummarizer) *Bot {
	t.Helper()
	logger := zerolog.New(io.Discard)
	formatter := &report.TextFormatter{Labels: report.KoreanLabels}
	planner := app.NewApp(food.NewFileSource(""), formatter, logger)
	cfg := &config.Config{AdminTelegramID: 99, DBPath: t.TempDir() + "/meal-planner.db"}
	return newBot(nil, cfg, planner, summarizer, report.KoreanLabels, logger)
}

func TestParsePlanCommand(t *testing.T) {
	tests := []struct {
		args      string
		kcal      float64
		allergens []string
		wantErr   bool
	}{
		{"1800", 1800, nil, false},
		{"  2000kcal ", 2000, nil, false},
		{"1800 egg,콩", 1800, []string{"egg", "콩"}, false},
		{"1800 egg 콩, fish", 1800, []string{"egg", "콩", "fish"}, false},
		{"1500.5 ,,", 1500.5, nil, false},
		{"", 0, nil, true},
		{"lots egg", 0, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.args, func(t *testing.T) {
			kcal, allergens, err := parsePlanCommand(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePlanCommand(%q) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if kcal != tt.kcal || !reflect.DeepEqual(allergens, tt.allergens) {
				t.Errorf("parsePlanCommand(%q) = %v, %v; want %v, %v", tt.args, kcal, allergens, tt.kcal, tt.allergens)
			}
		})
	}

	if _, _, err := parsePlanCommand(" "); !errors.Is(err, errMissingKcal) {
		t.Errorf("Expected errMissingKcal for blank input, got %v", err)
	}
}

func TestReplyPlan(t *testing.T) {
	b := newTestBot(t, &mockSummarizer{})
	ctx := context.Background()

	got := b.reply(ctx, 1, "plan", "2000 egg,soy", "/plan 2000 egg,soy")
	if !strings.HasPrefix(got, "## 오늘의 식단 ##") {
		t.Errorf("Expected a plan report, got:\n%s", got)
	}

	if got := b.reply(ctx, 1, "", "", "1800"); !strings.Contains(got, "### 영양 정보 (하루 총합) ###") {
		t.Errorf("Expected plain text to be read as a plan request, got:\n%s", got)
	}

	if got := b.reply(ctx, 1, "plan", "", "/plan"); got != "kcal 값을 입력해주세요." {
		t.Errorf("Expected the missing kcal prompt, got %q", got)
	}

	if got := b.reply(ctx, 1, "plan", "-5", "/plan -5"); !strings.HasPrefix(got, "❌") {
		t.Errorf("Expected an invalid request reply, got %q", got)
	}

	if got := b.reply(ctx, 1, "plan", "100", "/plan 100"); got != "주어진 조건에 맞는 식단을 찾을 수 없습니다." {
		t.Errorf("Expected the no feasible combination message, got %q", got)
	}
}

func TestReplyCommands(t *testing.T) {
	b := newTestBot(t, &mockSummarizer{summary: []metrics.DailySummary{
		{Date: "2026-03-10", Runs: 3, Planned: 2, Failed: 1, AvgLatencyMS: 12},
	}})
	ctx := context.Background()

	if got := b.reply(ctx, 1, "help", "", "/help"); got != helpText {
		t.Errorf("Unexpected help reply %q", got)
	}
	if got := b.reply(ctx, 1, "unknown", "", "/unknown"); got != helpText {
		t.Errorf("Expected help for unknown commands, got %q", got)
	}

	allergens := b.reply(ctx, 1, "allergens", "", "/allergens")
	for _, a := range food.KnownAllergens {
		if !strings.Contains(allergens, a) {
			t.Errorf("Expected %s in %q", a, allergens)
		}
	}

	if got := b.reply(ctx, 1, "metrics", "", "/metrics"); !strings.HasPrefix(got, "⛔") {
		t.Errorf("Expected non-admins to be denied, got %q", got)
	}

	got := b.reply(ctx, 99, "metrics", "", "/metrics")
	if !strings.Contains(got, "• 2026-03-10: 3 runs (2 planned, 1 failed), avg 12 ms") {
		t.Errorf("Unexpected metrics reply:\n%s", got)
	}
	if !strings.Contains(got, "Goroutines") {
		t.Errorf("Expected system health in the metrics reply:\n%s", got)
	}
}

func TestReplyMetricsError(t *testing.T) {
	b := newTestBot(t, &mockSummarizer{err: errors.New("db closed")})

	if got := b.reply(context.Background(), 99, "metrics", "", "/metrics"); got != "❌ Error fetching metrics." {
		t.Errorf("Unexpected reply %q", got)
	}
}
