package services

import (
	"testing"

	"bgc-cart-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCartCountAndTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []models.LineItem
		count int
		total string
	}{
		{name: "empty", items: nil, count: 0, total: "0"},
		{
			name: "priced",
			items: []models.LineItem{
				remoteItem("a", "v1", 2, "80.33"),
				remoteItem("b", "v2", 1, "30.00"),
			},
			count: 3,
			total: "190.66",
		},
		{
			name: "unparseable amount counts as zero",
			items: []models.LineItem{
				remoteItem("a", "v1", 1, "abc"),
				remoteItem("b", "v2", 4, "0.10"),
			},
			count: 5,
			total: "0.4",
		},
		{
			name: "missing variant or price",
			items: []models.LineItem{
				{ID: "a", Quantity: 3},
				remoteItem("b", "v2", 1, ""),
			},
			count: 4,
			total: "0",
		},
		{
			name: "no float drift",
			items: []models.LineItem{
				remoteItem("a", "v1", 3, "0.10"),
				remoteItem("b", "v2", 1, "0.20"),
			},
			count: 4,
			total: "0.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.count, CartCount(tt.items))
			assert.Equal(t, tt.total, CartTotal(tt.items).String())
		})
	}
}
