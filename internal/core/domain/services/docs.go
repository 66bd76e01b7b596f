// Package services provides domain services that work across aggregates and
// do not belong to a single one.
//
// The package includes:
//   - OrderSplitter: turns a waitress cart into per-kind sub-orders and guards
//     against accidental duplicate submissions
//   - TicketRenderer: lays out a print job snapshot as a fixed-width ticket
package services
