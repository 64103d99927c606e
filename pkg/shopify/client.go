// Package shopify is a minimal Storefront API client covering the checkout
// mutations the cart needs.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

const (
	DefaultAPIVersion  = "2024-01"
	DefaultMaxQuantity = 10000

	accessTokenHeader = "X-Shopify-Storefront-Access-Token"
	maxErrorBody      = 1 << 12
)

var (
	ErrQuantityTooSmall = errors.New("quantity must be greater than 0")
	ErrQuantityTooLarge = errors.New("quantity exceeds maximum limit")
)

type Client struct {
	endpoint    string
	token       string
	httpClient  *http.Client
	maxQuantity int
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithMaxQuantity(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxQuantity = n
		}
	}
}

// WithEndpoint overrides the GraphQL URL derived from the store domain.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

func NewClient(domain, token, apiVersion string, opts ...Option) *Client {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	domain = strings.TrimSuffix(strings.TrimPrefix(domain, "https://"), "/")
	c := &Client{
		endpoint:    fmt.Sprintf("https://%s/api/%s/graphql.json", domain, apiVersion),
		token:       token,
		httpClient:  http.DefaultClient,
		maxQuantity: DefaultMaxQuantity,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateCheckout starts a new checkout holding a single line.
func (c *Client) CreateCheckout(ctx context.Context, variantID string, quantity int) (*Checkout, error) {
	if err := c.checkQuantity(quantity); err != nil {
		return nil, err
	}
	vars := map[string]interface{}{
		"input": map[string]interface{}{
			"lineItems": []LineItemInput{{VariantID: variantID, Quantity: quantity}},
		},
	}
	var out struct {
		CheckoutCreate *checkoutPayload `json:"checkoutCreate"`
	}
	if err := c.do(ctx, createCheckoutMutation, vars, &out); err != nil {
		return nil, errors.Wrap(err, "checkoutCreate")
	}
	return out.CheckoutCreate.result("checkoutCreate")
}

func (c *Client) AddLineItems(ctx context.Context, checkoutID string, items []LineItemInput) (*Checkout, error) {
	for _, item := range items {
		if err := c.checkQuantity(item.Quantity); err != nil {
			return nil, err
		}
	}
	vars := map[string]interface{}{
		"checkoutId": checkoutID,
		"lineItems":  items,
	}
	var out struct {
		CheckoutLineItemsAdd *checkoutPayload `json:"checkoutLineItemsAdd"`
	}
	if err := c.do(ctx, addLineItemsMutation, vars, &out); err != nil {
		return nil, errors.Wrapf(err, "checkoutLineItemsAdd %s", checkoutID)
	}
	return out.CheckoutLineItemsAdd.result("checkoutLineItemsAdd")
}

func (c *Client) RemoveLineItems(ctx context.Context, checkoutID string, lineItemIDs []string) (*Checkout, error) {
	vars := map[string]interface{}{
		"checkoutId":  checkoutID,
		"lineItemIds": lineItemIDs,
	}
	var out struct {
		CheckoutLineItemsRemove *checkoutPayload `json:"checkoutLineItemsRemove"`
	}
	if err := c.do(ctx, removeLineItemsMutation, vars, &out); err != nil {
		return nil, errors.Wrapf(err, "checkoutLineItemsRemove %s", checkoutID)
	}
	return out.CheckoutLineItemsRemove.result("checkoutLineItemsRemove")
}

// GetCheckout returns nil, nil when the id no longer resolves to a checkout.
func (c *Client) GetCheckout(ctx context.Context, checkoutID string) (*Checkout, error) {
	var out struct {
		Node *Checkout `json:"node"`
	}
	if err := c.do(ctx, getCheckoutQuery, map[string]interface{}{"id": checkoutID}, &out); err != nil {
		return nil, errors.Wrapf(err, "checkout %s", checkoutID)
	}
	if out.Node == nil || out.Node.ID == "" {
		return nil, nil
	}
	return out.Node, nil
}

func (c *Client) checkQuantity(q int) error {
	if q <= 0 {
		return ErrQuantityTooSmall
	}
	if q > c.maxQuantity {
		return ErrQuantityTooLarge
	}
	return nil
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

func (c *Client) do(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return errors.Wrap(err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set(accessTokenHeader, c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "storefront request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	var gr graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return errors.Wrap(err, "decode response")
	}
	if len(gr.Errors) > 0 {
		return GraphQLErrors(gr.Errors)
	}
	if len(gr.Data) == 0 || string(gr.Data) == "null" {
		return errors.New("empty data")
	}
	if err := json.Unmarshal(gr.Data, out); err != nil {
		return errors.Wrap(err, "decode data")
	}
	return nil
}
