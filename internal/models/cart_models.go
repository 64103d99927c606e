package models

// Price is a decimal amount kept as the string the storefront sent.
type Price struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode,omitempty"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

// ProductRef points a variant back at its parent product.
type ProductRef struct {
	Handle string `json:"handle"`
	Title  string `json:"title"`
}

type Variant struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Price   Price       `json:"price"`
	Image   *Image      `json:"image,omitempty"`
	Product *ProductRef `json:"product,omitempty"`
}

// LineItem is one resolved entry in a cart. Variant is nil when the source
// did not supply one.
type LineItem struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Quantity int      `json:"quantity"`
	Variant  *Variant `json:"variant,omitempty"`
}

// DisplayTitle prefers the parent product title over the line item title.
func (li LineItem) DisplayTitle() string {
	if li.Variant != nil && li.Variant.Product != nil && li.Variant.Product.Title != "" {
		return li.Variant.Product.Title
	}
	return li.Title
}

// VariantID returns the variant identifier or "" when the item has no variant.
func (li LineItem) VariantID() string {
	if li.Variant == nil {
		return ""
	}
	return li.Variant.ID
}

// Checkout is the remote gateway's in-progress order.
type Checkout struct {
	ID        string     `json:"id"`
	WebURL    string     `json:"webUrl"`
	LineItems []LineItem `json:"lineItems"`
}

// LineItemInput is what gets sent to the gateway when adding to a checkout.
type LineItemInput struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// CloneLineItems deep-copies a line item list so callers can't alias session state.
func CloneLineItems(items []LineItem) []LineItem {
	if items == nil {
		return []LineItem{}
	}
	out := make([]LineItem, len(items))
	for i, item := range items {
		out[i] = item
		if item.Variant != nil {
			v := *item.Variant
			if v.Image != nil {
				img := *v.Image
				v.Image = &img
			}
			if v.Product != nil {
				p := *v.Product
				v.Product = &p
			}
			out[i].Variant = &v
		}
	}
	return out
}
