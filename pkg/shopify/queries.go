package shopify

const checkoutFields = `
fragment CheckoutFields on Checkout {
  id
  webUrl
  lineItems(first: 250) {
    edges {
      node {
        id
        title
        quantity
        variant {
          id
          title
          price { amount currencyCode }
          image { url altText }
          product { handle title }
        }
      }
    }
  }
}`

const createCheckoutMutation = `
mutation checkoutCreate($input: CheckoutCreateInput!) {
  checkoutCreate(input: $input) {
    checkout { ...CheckoutFields }
    checkoutUserErrors { code field message }
  }
}` + checkoutFields

const addLineItemsMutation = `
mutation checkoutLineItemsAdd($checkoutId: ID!, $lineItems: [CheckoutLineItemInput!]!) {
  checkoutLineItemsAdd(checkoutId: $checkoutId, lineItems: $lineItems) {
    checkout { ...CheckoutFields }
    checkoutUserErrors { code field message }
  }
}` + checkoutFields

const removeLineItemsMutation = `
mutation checkoutLineItemsRemove($checkoutId: ID!, $lineItemIds: [ID!]!) {
  checkoutLineItemsRemove(checkoutId: $checkoutId, lineItemIds: $lineItemIds) {
    checkout { ...CheckoutFields }
    checkoutUserErrors { code field message }
  }
}` + checkoutFields

const getCheckoutQuery = `
query checkout($id: ID!) {
  node(id: $id) {
    ... on Checkout { ...CheckoutFields }
  }
}` + checkoutFields
