// Package order provides the sub-order aggregate and its status state machine.
//
// The package includes:
//   - Cart: a validated waitress submission holding drink and meal lines
//   - LineItem: an immutable cart line
//   - Order: the sub-order aggregate, homogeneous in kind
//   - Status: the state machine every sub-order follows
//
// Key business rules:
//   - A sub-order holds only drink lines or only meal lines, never both
//   - Meals follow Pending -> Ready -> Delivered, the kitchen drives Ready
//   - Drinks go Pending -> Delivered directly, there is no kitchen step
//   - Pending and Ready orders can be Cancelled; Delivered and Cancelled are final
package order
