// Package kernel provides the value objects shared across the order coordination domain.
//
// The package includes:
//   - Kind: the class of a sub-order (drinks or meals)
//   - OrderID: the sortable, human-readable sub-order identifier
//   - UUID: a validated wrapper around github.com/google/uuid for locally generated IDs
//
// All values are immutable and safe for concurrent use.
package kernel
