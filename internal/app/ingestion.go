package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"daily-meal-planner/internal/food"
)

// ItemStore is where imported items are saved.
type ItemStore interface {
	Save(ctx context.Context, cat food.Category, item food.Item) error
}

// ItemScraper extracts items from a web page.
type ItemScraper interface {
	Scrape(ctx context.Context, url string) ([]food.Item, error)
}

// ItemEstimator fills in the nutrition of a named dish.
type ItemEstimator interface {
	Estimate(ctx context.Context, name string, cat food.Category) (food.Estimation, error)
}

// ImportResult summarizes an import.
type ImportResult struct {
	Saved   int
	Skipped []string
}

// ImportItems saves items under cat. Items already in the store are skipped;
// any other error stops the import.
func ImportItems(ctx context.Context, store ItemStore, cat food.Category, items []food.Item, logger zerolog.Logger) (ImportResult, error) {
	var res ImportResult
	for _, item := range items {
		err := store.Save(ctx, cat, item)
		if errors.Is(err, food.ErrDuplicateItem) {
			logger.Debug().Str("category", string(cat)).Str("name", item.Name).Msg("item already in catalog, skipping")
			res.Skipped = append(res.Skipped, item.Name)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("failed to save %q: %w", item.Name, err)
		}
		res.Saved++
	}

	logger.Info().
		Str("category", string(cat)).
		Int("saved", res.Saved).
		Int("skipped", len(res.Skipped)).
		Msg("catalog import finished")
	return res, nil
}

// ImportFromURL scrapes url and imports every item found under cat.
func ImportFromURL(ctx context.Context, scraper ItemScraper, store ItemStore, url string, cat food.Category, logger zerolog.Logger) (ImportResult, error) {
	items, err := scraper.Scrape(ctx, url)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to scrape nutrition table: %w", err)
	}
	return ImportItems(ctx, store, cat, items, logger)
}

// EstimateAndSave asks the estimator for name's nutrition and saves the
// answer under cat.
func EstimateAndSave(ctx context.Context, estimator ItemEstimator, store ItemStore, name string, cat food.Category, logger zerolog.Logger) (food.Item, error) {
	est, err := estimator.Estimate(ctx, name, cat)
	if err != nil {
		return food.Item{}, fmt.Errorf("failed to estimate %q: %w", name, err)
	}

	logger.Info().
		Str("name", name).
		Str("model", est.Usage.Model).
		Int("prompt_tokens", est.Usage.PromptTokens).
		Int("completion_tokens", est.Usage.CompletionTokens).
		Dur("latency", est.Latency).
		Msg("nutrition estimated")

	if err := store.Save(ctx, cat, est.Item); err != nil {
		return food.Item{}, fmt.Errorf("failed to save estimated item: %w", err)
	}
	return est.Item, nil
}
