package shopify

import (
	"fmt"
	"strings"
)

type Price struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode,omitempty"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

type ProductRef struct {
	Handle string `json:"handle"`
	Title  string `json:"title"`
}

type Variant struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Price   *Price      `json:"price"`
	Image   *Image      `json:"image"`
	Product *ProductRef `json:"product"`
}

type LineItem struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Quantity int      `json:"quantity"`
	Variant  *Variant `json:"variant"`
}

type LineItemEdge struct {
	Node LineItem `json:"node"`
}

type LineItemConnection struct {
	Edges []LineItemEdge `json:"edges"`
}

type Checkout struct {
	ID        string              `json:"id"`
	WebURL    string              `json:"webUrl"`
	LineItems *LineItemConnection `json:"lineItems"`
}

// Lines flattens the edges/node connection.
func (c *Checkout) Lines() []LineItem {
	if c == nil || c.LineItems == nil {
		return nil
	}
	out := make([]LineItem, 0, len(c.LineItems.Edges))
	for _, edge := range c.LineItems.Edges {
		out = append(out, edge.Node)
	}
	return out
}

type LineItemInput struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type UserError struct {
	Code    string   `json:"code"`
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type checkoutPayload struct {
	Checkout           *Checkout   `json:"checkout"`
	CheckoutUserErrors []UserError `json:"checkoutUserErrors"`
}

func (p *checkoutPayload) result(op string) (*Checkout, error) {
	if p == nil {
		return nil, nil
	}
	if len(p.CheckoutUserErrors) > 0 {
		return nil, &UserErrors{Operation: op, Errors: p.CheckoutUserErrors}
	}
	if p.Checkout == nil || p.Checkout.ID == "" {
		return nil, nil
	}
	return p.Checkout, nil
}

type UserErrors struct {
	Operation string
	Errors    []UserError
}

func (e *UserErrors) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ue := range e.Errors {
		if ue.Code != "" {
			msgs = append(msgs, ue.Code+": "+ue.Message)
		} else {
			msgs = append(msgs, ue.Message)
		}
	}
	return fmt.Sprintf("%s: %s", e.Operation, strings.Join(msgs, "; "))
}

type GraphQLError struct {
	Message string `json:"message"`
}

type GraphQLErrors []GraphQLError

func (e GraphQLErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ge := range e {
		msgs = append(msgs, ge.Message)
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("storefront returned HTTP %d: %s", e.StatusCode, e.Body)
}
