package encoder

import (
	"errors"
	"fmt"
	"strings"
)

// DebtUnit is the unit the neighbour index expects for indebtedness. The form
// always collects a percentage; the index was trained on one of the two units.
type DebtUnit string

const (
	DebtUnitPercent  DebtUnit = "percent"
	DebtUnitFraction DebtUnit = "fraction"
)

var ErrDebtUnitUndeclared = errors.New("debt ratio unit not declared")

func ParseDebtUnit(s string) (DebtUnit, error) {
	switch DebtUnit(strings.ToLower(strings.TrimSpace(s))) {
	case DebtUnitPercent:
		return DebtUnitPercent, nil
	case DebtUnitFraction:
		return DebtUnitFraction, nil
	case "":
		return "", ErrDebtUnitUndeclared
	}
	return "", fmt.Errorf("unknown debt ratio unit %q", s)
}

// Convert maps a percentage (0-100) to the index unit.
func (u DebtUnit) Convert(percent float64) float64 {
	if u == DebtUnitFraction {
		return percent / 100
	}
	return percent
}
