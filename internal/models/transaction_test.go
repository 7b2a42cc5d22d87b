package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_TypeAndDisplayAmount(t *testing.T) {
	debit := Transaction{Amount: decimal.RequireFromString("-25.40")}
	credit := Transaction{Amount: decimal.RequireFromString("100")}

	assert.True(t, debit.IsDebit())
	assert.Equal(t, TransactionTypeDebit, debit.Type())
	assert.Equal(t, "25.4", debit.DisplayAmount().String())

	assert.False(t, credit.IsDebit())
	assert.Equal(t, TransactionTypeCredit, credit.Type())
}

func TestTransaction_SearchText(t *testing.T) {
	txn := Transaction{
		Merchant:     "Whole Foods",
		Description:  "Weekly GROCERIES",
		Category:     CategoryFood,
		BusinessType: BusinessTypeDownHome,
	}

	assert.Equal(t, "whole foods weekly groceries food down home", txn.SearchText())
}

func TestTransaction_DisplayHelpers(t *testing.T) {
	tests := []struct {
		name     string
		txn      Transaction
		wantName string
		wantDate string
	}{
		{"merchant preferred", Transaction{Merchant: "Shell", Description: "Fuel", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}, "Shell", "2024-02-01"},
		{"description fallback", Transaction{Description: "Transfer"}, "Transfer", ""},
		{"nothing", Transaction{}, "Unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.txn.DisplayName())
			assert.Equal(t, tt.wantDate, tt.txn.FormatDate())
		})
	}
}

func TestTransaction_ReceiptStatus(t *testing.T) {
	assert.Equal(t, ReceiptStatusMatched, Transaction{HasReceipt: true}.ReceiptStatus())
	assert.Equal(t, ReceiptStatusMissing, Transaction{}.ReceiptStatus())
}

func TestNormalizeCategoryAndBusinessType(t *testing.T) {
	assert.Equal(t, CategoryTravel, NormalizeCategory(" Travel "))
	assert.Equal(t, CategoryOther, NormalizeCategory("gambling"))
	assert.Equal(t, CategoryOther, NormalizeCategory(""))

	assert.Equal(t, BusinessTypeMusicCityRodeo, NormalizeBusinessType("music city rodeo"))
	assert.Equal(t, BusinessTypePersonal, NormalizeBusinessType("Side Hustle"))
	assert.Equal(t, BusinessTypePersonal, NormalizeBusinessType(""))
}
