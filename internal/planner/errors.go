package planner

import "errors"

// Kind groups failures by when they are detected.
type Kind string

const (
	// KindInsufficientCatalog is reported before any candidate is built.
	KindInsufficientCatalog Kind = "insufficient_catalog"
	// KindNoFeasibleCombination is reported after the full enumeration.
	KindNoFeasibleCombination Kind = "no_feasible_combination"
)

// Reason says exactly why a search produced no plan.
type Reason string

const (
	ReasonNoRiceOptions          Reason = "no rice options"
	ReasonNoSoupOptions          Reason = "no soup options"
	ReasonInsufficientSideDishes Reason = "insufficient side dish options"
	ReasonNoFeasibleCombination  Reason = "no feasible combination found"
)

var (
	ErrInsufficientCatalog   = errors.New("insufficient catalog")
	ErrNoFeasibleCombination = errors.New("no feasible combination")
)

// Failure is the typed result of a search that found no plan. It is an
// expected outcome, not a fault: callers show it to the user.
type Failure struct {
	Kind   Kind
	Reason Reason
}

func (f *Failure) Error() string {
	return string(f.Reason)
}

// Is lets errors.Is match a Failure against ErrInsufficientCatalog and
// ErrNoFeasibleCombination.
func (f *Failure) Is(target error) bool {
	switch target {
	case ErrInsufficientCatalog:
		return f.Kind == KindInsufficientCatalog
	case ErrNoFeasibleCombination:
		return f.Kind == KindNoFeasibleCombination
	}
	return false
}

func insufficient(reason Reason) *Failure {
	return &Failure{Kind: KindInsufficientCatalog, Reason: reason}
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
