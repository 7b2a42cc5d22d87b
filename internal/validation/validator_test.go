package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"receipt-dashboard/internal/dto"
)

func validUpdate() dto.UpdateTransactionRequest {
	return dto.UpdateTransactionRequest{
		Merchant:     "Coffee Shop",
		Amount:       dto.NewAmount(decimal.RequireFromString("-4.50")),
		Date:         "2024-03-01",
		Category:     "food",
		BusinessType: "Down Home",
	}
}

func TestValidator_UpdateTransactionRequest(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Struct(validUpdate()))

	tests := []struct {
		name   string
		mutate func(r *dto.UpdateTransactionRequest)
		field  string
	}{
		{"zero amount", func(r *dto.UpdateTransactionRequest) { r.Amount = dto.NewAmount(decimal.Zero) }, "amount"},
		{"bad date", func(r *dto.UpdateTransactionRequest) { r.Date = "03/01/2024" }, "date"},
		{"unknown category", func(r *dto.UpdateTransactionRequest) { r.Category = "gambling" }, "category"},
		{"unknown business", func(r *dto.UpdateTransactionRequest) { r.BusinessType = "Side Hustle" }, "business_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validUpdate()
			tt.mutate(&req)
			err := v.Struct(req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidator_SplitRequest(t *testing.T) {
	v := NewValidator()

	req := dto.SplitTransactionRequest{
		OriginalTransactionID: "42",
		Splits: []dto.SplitLine{
			{Amount: dto.NewAmount(decimal.NewFromInt(10)), Category: "food"},
			{Amount: dto.NewAmount(decimal.NewFromInt(5)), Category: "travel"},
		},
	}
	assert.NoError(t, v.Struct(req))

	req.Splits[1].Amount = dto.NewAmount(decimal.NewFromInt(-5))
	assert.Error(t, v.Struct(req))

	req.Splits = req.Splits[:1]
	assert.Error(t, v.Struct(req))
}

func TestGetValidator_Singleton(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}
