package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPolicy is returned when stock targets cannot describe a usable policy.
var ErrInvalidPolicy = errors.New("invalid stock policy")

// PolicyMode selects which purchase-order sizing rule the balancer applies.
type PolicyMode string

const (
	// ModeMinMax fills Bodegas towards their maximum and buys every node up to its ceiling.
	ModeMinMax PolicyMode = "minmax"
	// ModeMinOnly only replenishes to minimums and buys what transfers could not cover.
	ModeMinOnly PolicyMode = "min"
)

// Policy holds the min/max stock targets for the CEDI and each Bodega.
type Policy struct {
	MinStore     int        `yaml:"min_store" json:"min_store"`
	MaxStore     int        `yaml:"max_store" json:"max_store"`
	MinWarehouse int        `yaml:"min_warehouse" json:"min_warehouse"`
	MaxWarehouse int        `yaml:"max_warehouse" json:"max_warehouse"`
	Mode         PolicyMode `yaml:"mode" json:"mode"`
}

// NewPolicy builds a validated min/max policy.
func NewPolicy(minStore, maxStore, minWarehouse, maxWarehouse int) (Policy, error) {
	p := Policy{
		MinStore:     minStore,
		MaxStore:     maxStore,
		MinWarehouse: minWarehouse,
		MaxWarehouse: maxWarehouse,
		Mode:         ModeMinMax,
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// ParsePolicyMode maps user input onto a PolicyMode. Empty input selects min/max.
func ParsePolicyMode(value string) (PolicyMode, error) {
	switch PolicyMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModeMinMax:
		return ModeMinMax, nil
	case ModeMinOnly:
		return ModeMinOnly, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidPolicy, value)
	}
}

// Validate rejects negative targets and, for min/max mode, ceilings below floors.
func (p Policy) Validate() error {
	switch {
	case p.MinStore < 0:
		return fmt.Errorf("%w: min_store must not be negative", ErrInvalidPolicy)
	case p.MaxStore < 0:
		return fmt.Errorf("%w: max_store must not be negative", ErrInvalidPolicy)
	case p.MinWarehouse < 0:
		return fmt.Errorf("%w: min_warehouse must not be negative", ErrInvalidPolicy)
	case p.MaxWarehouse < 0:
		return fmt.Errorf("%w: max_warehouse must not be negative", ErrInvalidPolicy)
	}

	switch p.Mode {
	case ModeMinMax:
		if p.MaxStore < p.MinStore {
			return fmt.Errorf("%w: max_store %d is below min_store %d", ErrInvalidPolicy, p.MaxStore, p.MinStore)
		}
		if p.MaxWarehouse < p.MinWarehouse {
			return fmt.Errorf("%w: max_warehouse %d is below min_warehouse %d", ErrInvalidPolicy, p.MaxWarehouse, p.MinWarehouse)
		}
	case ModeMinOnly:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidPolicy, p.Mode)
	}

	return nil
}
