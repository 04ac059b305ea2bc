package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/verenigingen/membership-api/internal/application"
	"github.com/verenigingen/membership-api/internal/model"
)

func standardType() *model.MembershipType {
	return &model.MembershipType{
		Name:               "Standard",
		Active:             true,
		DuesTemplateAmount: 100,
		MinimumAmount:      50,
	}
}

func amountPtr(v float64) *float64 {
	return &v
}

func TestValidateCustomAmount(t *testing.T) {
	testCases := []struct {
		name    string
		amount  *float64
		valid   bool
		warning bool
	}{
		{name: "Equal to standard", amount: amountPtr(100), valid: true},
		{name: "Above standard", amount: amountPtr(150), valid: true},
		{name: "Exactly at the 50 percent floor", amount: amountPtr(50), valid: true},
		{name: "Below the floor", amount: amountPtr(49.99), valid: false},
		{name: "Far below the floor", amount: amountPtr(10), valid: false},
		{name: "Zero", amount: amountPtr(0), valid: false},
		{name: "Negative", amount: amountPtr(-5), valid: false},
		{name: "Missing amount", amount: nil, valid: false},
		{name: "Unusually high gets a warning", amount: amountPtr(1500), valid: true, warning: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := application.ValidateCustomAmount(standardType(), tc.amount, 10)

			assert.Equal(t, tc.valid, result.Valid)
			if tc.warning {
				assert.NotEmpty(t, result.Warning)
			} else {
				assert.Empty(t, result.Warning)
			}
		})
	}
}

func TestValidateCustomAmount_NilMembershipType(t *testing.T) {
	result := application.ValidateCustomAmount(nil, amountPtr(100), 10)
	assert.False(t, result.Valid)
}

func TestValidateCustomAmount_FallsBackToMinimumAmount(t *testing.T) {
	// No dues template amount: the minimum amount is the standard.
	mt := &model.MembershipType{Name: "Reduced", MinimumAmount: 40}

	result := application.ValidateCustomAmount(mt, amountPtr(20), 10)

	assert.True(t, result.Valid)
	assert.Equal(t, 40.0, result.StandardAmount)
}

func TestValidateAmountSelection(t *testing.T) {
	t.Run("Non-custom amount must match the standard", func(t *testing.T) {
		result := application.ValidateAmountSelection(standardType(), amountPtr(100), false, 10)
		assert.True(t, result.Valid)

		result = application.ValidateAmountSelection(standardType(), amountPtr(95), false, 10)
		assert.False(t, result.Valid)
	})

	t.Run("Non-custom without an amount is valid", func(t *testing.T) {
		result := application.ValidateAmountSelection(standardType(), nil, false, 10)
		assert.True(t, result.Valid)
	})

	t.Run("Rounding slack of one cent", func(t *testing.T) {
		result := application.ValidateAmountSelection(standardType(), amountPtr(100.01), false, 10)
		assert.True(t, result.Valid)
	})

	t.Run("Custom amount applies the floor", func(t *testing.T) {
		result := application.ValidateAmountSelection(standardType(), amountPtr(45), true, 10)
		assert.False(t, result.Valid)

		result = application.ValidateAmountSelection(standardType(), amountPtr(60), true, 10)
		assert.True(t, result.Valid)
	})
}
