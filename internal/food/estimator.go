package food

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"text/template"
	"time"

	"daily-meal-planner/internal/llm"
)

//go:embed estimator_prompt.md
var estimatorPrompt string

var estimatorTemplate = template.Must(template.New("estimator").Parse(estimatorPrompt))

type estimatorPromptData struct {
	Name      string
	Category  Category
	Allergens []string
}

// Estimation is an LLM-estimated item together with the call's usage.
type Estimation struct {
	Item    Item
	Usage   llm.TokenUsage
	Latency time.Duration
}

// Estimator asks a language model for the nutrition of a dish that is not in
// the catalog yet.
type Estimator struct {
	textGen llm.TextGenerator
}

// NewEstimator creates a new Estimator.
func NewEstimator(textGen llm.TextGenerator) *Estimator {
	return &Estimator{textGen: textGen}
}

// Estimate returns an Item for name. Unknown allergen tags in the answer are
// dropped.
func (e *Estimator) Estimate(ctx context.Context, name string, cat Category) (Estimation, error) {
	start := time.Now()

	var buf bytes.Buffer
	err := estimatorTemplate.Execute(&buf, estimatorPromptData{
		Name:      name,
		Category:  cat,
		Allergens: KnownAllergens,
	})
	if err != nil {
		return Estimation{}, fmt.Errorf("failed to build estimator prompt: %w", err)
	}

	resp, err := e.textGen.GenerateContent(ctx, buf.String())
	if err != nil {
		return Estimation{}, fmt.Errorf("failed to get LLM response: %w", err)
	}

	var raw struct {
		Kcal      float64  `json:"kcal"`
		Carb      float64  `json:"carb"`
		Protein   float64  `json:"protein"`
		Fat       float64  `json:"fat"`
		Allergies []string `json:"allergies"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &raw); err != nil {
		return Estimation{Usage: resp.Usage}, fmt.Errorf(
			"failed to unmarshal LLM response: %w. Response: %s",
			err,
			resp.Content,
		)
	}

	if raw.Kcal < 0 || raw.Carb < 0 || raw.Protein < 0 || raw.Fat < 0 {
		return Estimation{Usage: resp.Usage}, fmt.Errorf("estimate for %q has negative values", name)
	}

	known := NewAllergenSet(KnownAllergens...)
	allergens := []string{}
	for _, a := range NewAllergenSet(raw.Allergies...).Slice() {
		if known.Contains(a) {
			allergens = append(allergens, a)
		}
	}

	return Estimation{
		Item: Item{
			Name:      name,
			Kcal:      raw.Kcal,
			Carb:      raw.Carb,
			Protein:   raw.Protein,
			Fat:       raw.Fat,
			Allergens: allergens,
		},
		Usage:   resp.Usage,
		Latency: time.Since(start),
	}, nil
}
