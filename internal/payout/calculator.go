package payout

import (
	"errors"
	"math"
)

// Reimbursement policy constants. Solo losses are reimbursed at a reduced
// rate; designated fleet roles (logistics, command) earn a bonus.
const (
	SoloMultiplier        = 0.5
	FleetMultiplier       = 1.0
	SpecialRoleMultiplier = 1.2
)

// Operation types accepted by the calculator.
const (
	OperationSolo  = "solo"
	OperationFleet = "fleet"
)

// ErrNegativeClaimedValue is returned when the claimed value is below zero.
var ErrNegativeClaimedValue = errors.New("claimed value must not be negative")

// ErrInvalidOperationType is returned when the operation type is neither
// "solo" nor "fleet".
var ErrInvalidOperationType = errors.New(`operation type must be "solo" or "fleet"`)

// TierLookup supplies payout caps per asset category. *tier.Table satisfies it.
type TierLookup interface {
	MaxPayout(category string) (int64, bool)
	TierName(category string) (string, bool)
}

// Input holds the facts a payout is computed from.
type Input struct {
	Category      string
	ClaimedValue  int64
	OperationType string
	SpecialRole   bool
}

// Breakdown explains how a payout figure was reached.
type Breakdown struct {
	BaseValue           int64   `json:"baseValue"`
	OperationMultiplier float64 `json:"operationMultiplier"`
	SpecialRole         bool    `json:"specialRole"`
	Cap                 *int64  `json:"cap,omitempty"`
	TierApplied         *string `json:"tierApplied,omitempty"`
}

// Result is a computed payout together with its breakdown.
type Result struct {
	FinalAmount int64     `json:"finalAmount"`
	Breakdown   Breakdown `json:"breakdown"`
}

// Calculate computes the allowed payout for a loss. Pure: the only lookup is
// the tier table it is given. A category with no tier entry is uncapped; the
// permissive default is deliberate, uncatalogued assets still get paid.
func Calculate(lookup TierLookup, in Input) (Result, error) {
	if in.ClaimedValue < 0 {
		return Result{}, ErrNegativeClaimedValue
	}

	var opMultiplier float64
	switch in.OperationType {
	case OperationSolo:
		opMultiplier = SoloMultiplier
	case OperationFleet:
		opMultiplier = FleetMultiplier
	default:
		return Result{}, ErrInvalidOperationType
	}

	amount := float64(in.ClaimedValue) * opMultiplier
	if in.SpecialRole {
		amount *= SpecialRoleMultiplier
	}
	final := int64(math.Floor(amount))

	breakdown := Breakdown{
		BaseValue:           in.ClaimedValue,
		OperationMultiplier: opMultiplier,
		SpecialRole:         in.SpecialRole,
	}

	if cap, ok := lookup.MaxPayout(in.Category); ok {
		breakdown.Cap = &cap
		if name, ok := lookup.TierName(in.Category); ok {
			breakdown.TierApplied = &name
		}
		if final > cap {
			final = cap
		}
	}

	return Result{FinalAmount: final, Breakdown: breakdown}, nil
}
