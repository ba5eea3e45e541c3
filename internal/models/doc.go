// Package models defines the core domain models for tablepay.
//
// # Upstream Models
//
// Orders are produced outside the checkout engine and are only read here:
//   - Table: A dining table that orders are attached to
//   - Order: One round of ordering at a table, optionally tied to a client
//   - OrderItem: A product line on an order with ordered and paid quantities
//
// # Checkout Models
//
// The working set of a checkout session is built from orders and is never
// persisted directly:
//   - OwedItem: A line of product quantity still unpaid
//   - Discount: A percentage or fixed reduction on one OwedItem
//   - Payer / PayerGroup: Who an OwedItem is attributed to
//
// # Settlement Models
//
//   - SettlementRequest: The payload handed to the settlement collaborator
//   - SettlementLine: One committed OwedItem inside a settlement
//   - Settlement: A persisted, confirmed settlement
//
// Money is always money.Cents. Quantities are decimals so that an item split
// into thirds still adds back up to the ordered quantity.
package models
