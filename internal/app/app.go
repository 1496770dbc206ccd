package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"daily-meal-planner/internal/food"
	"daily-meal-planner/internal/metrics"
	"daily-meal-planner/internal/planner"
	"daily-meal-planner/internal/report"
)

// ErrInvalidRequest marks a request that was rejected before any search ran.
var ErrInvalidRequest = errors.New("invalid request")

// RunRecorder stores one row per plan request.
type RunRecorder interface {
	Record(ctx context.Context, run metrics.SearchRun) (string, error)
}

// Request is a plan request as it arrives from any front end.
type Request struct {
	Kcal      float64
	Allergens []string
	// Targets overrides the default macro ratios when set. Its TotalKcal is
	// ignored in favour of Kcal.
	Targets *planner.Targets
	Channel string
}

// Outcome is the answer to a valid request. Exactly one of Result and
// Failure is meaningful; Report is always set.
type Outcome struct {
	Result    planner.Result
	Failure   *planner.Failure
	Report    string
	Allergens []string
	RunID     string
}

// Planned reports whether the search produced a plan.
func (o Outcome) Planned() bool {
	return o.Failure == nil
}

// App holds the application's dependencies.
type App struct {
	source    food.Source
	runs      RunRecorder
	formatter report.Formatter
	labels    report.Labels
	defaults  planner.Targets
	logger    zerolog.Logger
}

// Option customizes an App.
type Option func(*App)

// WithDefaultTargets sets the macro ratios used when a request has none.
func WithDefaultTargets(t planner.Targets) Option {
	return func(a *App) { a.defaults = t }
}

// WithLabels sets the language of request validation messages.
func WithLabels(l report.Labels) Option {
	return func(a *App) { a.labels = l }
}

// WithRunRecorder enables per-request metrics.
func WithRunRecorder(r RunRecorder) Option {
	return func(a *App) { a.runs = r }
}

// NewApp creates and initializes a new App instance.
func NewApp(source food.Source, formatter report.Formatter, logger zerolog.Logger, opts ...Option) *App {
	a := &App{
		source:    source,
		formatter: formatter,
		labels:    report.KoreanLabels,
		defaults:  planner.DefaultTargets(0),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Catalog returns the full, unfiltered catalog.
func (a *App) Catalog(ctx context.Context) (food.Catalog, error) {
	catalog, err := a.source.Load(ctx)
	if err != nil {
		return food.Catalog{}, fmt.Errorf("failed to load catalog: %w", err)
	}
	return catalog, nil
}

// Plan validates req, searches the allergen-free part of the catalog and
// renders the result. A search that finds no plan is an Outcome with Failure
// set; errors are reserved for invalid requests and infrastructure faults.
func (a *App) Plan(ctx context.Context, req Request) (Outcome, error) {
	allergens := food.NewAllergenSet(req.Allergens...).Slice()

	targets, err := a.targets(req)
	if err != nil {
		a.record(ctx, metrics.SearchRun{
			Channel:    req.Channel,
			TargetKcal: req.Kcal,
			Allergens:  allergens,
			Outcome:    metrics.OutcomeInvalid,
		})
		return Outcome{}, err
	}

	a.logger.Info().
		Str("channel", req.Channel).
		Float64("kcal", targets.TotalKcal).
		Strs("allergens", allergens).
		Msg("plan requested")

	catalog, err := a.Catalog(ctx)
	if err != nil {
		return Outcome{}, err
	}
	catalog = catalog.WithoutAllergens(food.NewAllergenSet(allergens...))

	start := time.Now()
	res, err := planner.Search(ctx, catalog, targets)
	latency := time.Since(start)

	out := Outcome{Result: res, Allergens: allergens}
	run := metrics.SearchRun{
		Channel:    req.Channel,
		TargetKcal: targets.TotalKcal,
		Allergens:  allergens,
		Evaluated:  res.Stats.Evaluated,
		Feasible:   res.Stats.Feasible,
		Outcome:    metrics.OutcomePlanned,
		Latency:    latency,
	}

	if err != nil {
		failure, ok := planner.AsFailure(err)
		if !ok {
			return Outcome{}, fmt.Errorf("failed to search plans: %w", err)
		}
		out.Failure = failure
		out.Report = a.formatter.FormatFailure(failure)
		run.Outcome = string(failure.Kind)
	} else {
		out.Report = a.formatter.Format(res.Plan, res.Totals)
	}

	a.logger.Info().
		Str("channel", req.Channel).
		Int("evaluated", res.Stats.Evaluated).
		Int("feasible", res.Stats.Feasible).
		Dur("latency", latency).
		Str("outcome", run.Outcome).
		Msg("search finished")

	out.RunID = a.record(ctx, run)
	return out, nil
}

func (a *App) targets(req Request) (planner.Targets, error) {
	if req.Kcal == 0 {
		return planner.Targets{}, fmt.Errorf("%w: %s", ErrInvalidRequest, a.labels.MissingKcal)
	}
	if math.IsNaN(req.Kcal) || math.IsInf(req.Kcal, 0) || req.Kcal < 0 {
		return planner.Targets{}, fmt.Errorf("%w: kcal must be a positive number, got %v", ErrInvalidRequest, req.Kcal)
	}

	t := a.defaults
	if req.Targets != nil {
		t = *req.Targets
	}
	t.TotalKcal = req.Kcal
	if err := t.Validate(); err != nil {
		return planner.Targets{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return t, nil
}

// record stores run when metrics are enabled. Failures are logged, never
// returned.
func (a *App) record(ctx context.Context, run metrics.SearchRun) string {
	if a.runs == nil {
		return ""
	}
	id, err := a.runs.Record(ctx, run)
	if err != nil {
		a.logger.Warn().Err(err).Str("channel", run.Channel).Msg("failed to record search run")
		return ""
	}
	return id
}
