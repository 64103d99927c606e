package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLineItem(t *testing.T) {
	ok := LineItem{ID: "li-1", Quantity: 1, Variant: &Variant{ID: "v1", Image: &Image{URL: "https://cdn.example/1.png"}}}
	assert.NoError(t, ValidateLineItem(ok))
	assert.NoError(t, ValidateLineItem(LineItem{ID: "li-2", Quantity: 3}))

	cases := map[string]LineItem{
		"line item id is empty":                      {Quantity: 1},
		"line item li-1 has non-positive quantity 0": {ID: "li-1"},
		"line item li-1 has a variant without id":    {ID: "li-1", Quantity: 1, Variant: &Variant{}},
		"line item li-1 has an image without url":    {ID: "li-1", Quantity: 1, Variant: &Variant{ID: "v1", Image: &Image{}}},
	}
	for msg, item := range cases {
		err := ValidateLineItem(item)
		require.Error(t, err, msg)
		assert.EqualError(t, err, msg)
	}
}

func TestValidateCheckout(t *testing.T) {
	assert.EqualError(t, ValidateCheckout(nil), "checkout is nil")
	assert.ErrorIs(t, ValidateCheckout(&Checkout{WebURL: "https://shop.example/c"}), ErrMissingCheckoutID)
	assert.ErrorIs(t, ValidateCheckout(&Checkout{ID: "checkout_1"}), ErrMissingCheckoutURL)
	assert.NoError(t, ValidateCheckout(&Checkout{ID: "checkout_1", WebURL: "https://shop.example/c"}))
}

func TestSanitizeLineItemsDropsDuplicates(t *testing.T) {
	items := []LineItem{
		{ID: "li-1", Quantity: 1},
		{ID: "li-1", Quantity: 2},
		{ID: "", Quantity: 1},
		{ID: "li-2", Quantity: 1},
	}

	valid, rejected := SanitizeLineItems(items)
	assert.Equal(t, []LineItem{{ID: "li-1", Quantity: 1}, {ID: "li-2", Quantity: 1}}, valid)
	require.Len(t, rejected, 2)
	assert.EqualError(t, rejected[0], "duplicate line item id li-1")
}

func TestDecodeLineItemsRejectsWholeSnapshot(t *testing.T) {
	raw, err := EncodeLineItems([]LineItem{{ID: "li-1", Quantity: 2}})
	require.NoError(t, err)
	items, err := DecodeLineItems(raw)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = DecodeLineItems(`[{"id":"li-1","quantity":2},{"id":"li-2","quantity":-1}]`)
	assert.EqualError(t, err, "line item li-2 has non-positive quantity -1")

	_, err = DecodeLineItems(`{not json`)
	assert.Error(t, err)

	empty, err := EncodeLineItems(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)
}
