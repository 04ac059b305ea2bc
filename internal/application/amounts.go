package application

import (
	"fmt"
	"math"

	"github.com/verenigingen/membership-api/internal/model"
)

// minimumFraction is the floor for custom amounts relative to a membership
// type's standard amount.
const minimumFraction = 0.5

// AmountValidationResult is the outcome of a custom-amount check. Warning is
// non-fatal: the amount is accepted but flagged as unusually high.
type AmountValidationResult struct {
	Valid          bool    `json:"valid"`
	Message        string  `json:"message,omitempty"`
	Warning        string  `json:"warning,omitempty"`
	StandardAmount float64 `json:"standard_amount"`
}

// ValidateCustomAmount enforces the floor and flags implausibly high amounts.
// The standard amount resolves from the type's dues template amount, falling
// back to its minimum amount.
func ValidateCustomAmount(mt *model.MembershipType, amount *float64, maxMultiplier float64) AmountValidationResult {
	if mt == nil {
		return AmountValidationResult{Valid: false, Message: "Membership type is required"}
	}

	standard := mt.StandardAmount()
	result := AmountValidationResult{StandardAmount: standard}

	if amount == nil {
		result.Message = "Amount is required and must be a number"
		return result
	}
	if *amount <= 0 {
		result.Message = "Amount must be greater than zero"
		return result
	}

	minimum := standard * minimumFraction
	if *amount < minimum {
		result.Message = fmt.Sprintf("Amount must be at least %.2f (50%% of the standard amount %.2f)", minimum, standard)
		return result
	}

	result.Valid = true
	if maxMultiplier > 0 && *amount > standard*maxMultiplier {
		result.Warning = fmt.Sprintf("Amount %.2f is unusually high compared to the standard amount %.2f", *amount, standard)
	}
	return result
}

// ValidateAmountSelection cross-checks the selected amount against the
// uses-custom flag: a non-custom selection must equal the standard amount to
// the cent, a custom one re-applies the floor rule.
func ValidateAmountSelection(mt *model.MembershipType, amount *float64, usesCustom bool, maxMultiplier float64) AmountValidationResult {
	if mt == nil {
		return AmountValidationResult{Valid: false, Message: "Membership type is required"}
	}

	standard := mt.StandardAmount()

	if !usesCustom {
		if amount != nil && math.Abs(*amount-standard) > 0.01 {
			return AmountValidationResult{
				Valid:          false,
				Message:        fmt.Sprintf("Amount %.2f does not match the standard amount %.2f", *amount, standard),
				StandardAmount: standard,
			}
		}
		return AmountValidationResult{Valid: true, StandardAmount: standard}
	}

	return ValidateCustomAmount(mt, amount, maxMultiplier)
}
