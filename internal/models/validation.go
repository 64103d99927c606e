package models

import (
	"encoding/json"

	"github.com/pkg/errors"
)

var (
	ErrMissingCheckoutID  = errors.New("checkout has no id")
	ErrMissingCheckoutURL = errors.New("checkout has no web url")
)

// ValidateLineItem checks the shape of a line item that crossed a trust
// boundary (gateway response or persisted snapshot).
func ValidateLineItem(item LineItem) error {
	if item.ID == "" {
		return errors.New("line item id is empty")
	}
	if item.Quantity <= 0 {
		return errors.Errorf("line item %s has non-positive quantity %d", item.ID, item.Quantity)
	}
	if item.Variant != nil {
		if item.Variant.ID == "" {
			return errors.Errorf("line item %s has a variant without id", item.ID)
		}
		if item.Variant.Image != nil && item.Variant.Image.URL == "" {
			return errors.Errorf("line item %s has an image without url", item.ID)
		}
	}
	return nil
}

// ValidateCheckout rejects checkouts the cart can't stand on: no id, or no
// hosted payment URL.
func ValidateCheckout(c *Checkout) error {
	if c == nil {
		return errors.New("checkout is nil")
	}
	if c.ID == "" {
		return ErrMissingCheckoutID
	}
	if c.WebURL == "" {
		return ErrMissingCheckoutURL
	}
	return nil
}

// SanitizeLineItems keeps the valid items and reports the rejected ones.
func SanitizeLineItems(items []LineItem) ([]LineItem, []error) {
	valid := make([]LineItem, 0, len(items))
	var rejected []error
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if err := ValidateLineItem(item); err != nil {
			rejected = append(rejected, err)
			continue
		}
		if _, dup := seen[item.ID]; dup {
			rejected = append(rejected, errors.Errorf("duplicate line item id %s", item.ID))
			continue
		}
		seen[item.ID] = struct{}{}
		valid = append(valid, item)
	}
	return valid, rejected
}

// DecodeLineItems parses a persisted local-cart snapshot. Any item failing
// validation makes the whole snapshot invalid.
func DecodeLineItems(raw string) ([]LineItem, error) {
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	valid, rejected := SanitizeLineItems(items)
	if len(rejected) > 0 {
		return nil, rejected[0]
	}
	return valid, nil
}

func EncodeLineItems(items []LineItem) (string, error) {
	if items == nil {
		items = []LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
