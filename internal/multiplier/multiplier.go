// Package multiplier derives billing multipliers from per-token model prices.
package multiplier

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Unit is the token count that a price is quoted against.
type Unit int

const (
	// PerThousand quotes prices per 1,000 tokens.
	PerThousand Unit = iota
	// PerMillion quotes prices per 1,000,000 tokens.
	PerMillion
)

// unitFactor is the ratio between a per-million and a per-thousand price.
const unitFactor = 1000

var (
	// ErrInvalidInput is returned when a price is NaN or infinite.
	ErrInvalidInput = errors.New("input and output prices must be finite numbers")
	// ErrDivisionUndefined is returned when the input price is zero.
	ErrDivisionUndefined = errors.New("input price cannot be zero to calculate multipliers")
)

// String returns the short label used in config files and the persisted unit slot.
func (u Unit) String() string {
	if u == PerMillion {
		return "1M"
	}
	return "1K"
}

// Other returns the opposite unit.
func (u Unit) Other() Unit {
	if u == PerMillion {
		return PerThousand
	}
	return PerMillion
}

// ParseUnit accepts "1K"/"1M" and a few spelled-out aliases.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "1k", "k", "thousand", "per-thousand":
		return PerThousand, nil
	case "1m", "m", "million", "per-million":
		return PerMillion, nil
	}
	return PerThousand, fmt.Errorf("unknown unit %q", s)
}

// BasePrice returns the reference price that a model multiplier of 1 corresponds to.
func BasePrice(u Unit) float64 {
	if u == PerMillion {
		return 2
	}
	return 0.002
}

// Result holds the two derived ratios for a row.
type Result struct {
	ModelMultiplier      float64
	CompletionMultiplier float64
}

// Compute derives the model and completion multipliers for the given prices.
func Compute(inputPrice, outputPrice float64, unit Unit) (Result, error) {
	if !finite(inputPrice) || !finite(outputPrice) {
		return Result{}, ErrInvalidInput
	}
	if inputPrice == 0 {
		return Result{}, ErrDivisionUndefined
	}
	return Result{
		ModelMultiplier:      inputPrice / BasePrice(unit),
		CompletionMultiplier: outputPrice / inputPrice,
	}, nil
}

// Rescale converts a price quoted in one unit to another.
func Rescale(price float64, from, to Unit) float64 {
	switch {
	case from == to:
		return price
	case to == PerMillion:
		return price * unitFactor
	default:
		return price * (1.0 / unitFactor)
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
