package services

import (
	"bgc-cart-backend/internal/models"

	"github.com/shopspring/decimal"
)

// CartCount is the total number of units across all line items.
func CartCount(items []models.LineItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// CartTotal sums quantity × unit price. Missing or unparseable prices count as zero.
func CartTotal(items []models.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(unitPrice(item).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func unitPrice(item models.LineItem) decimal.Decimal {
	if item.Variant == nil || item.Variant.Price.Amount == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(item.Variant.Price.Amount)
	if err != nil {
		return decimal.Zero
	}
	return d
}
