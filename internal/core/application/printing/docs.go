// Package printing keeps the device-local print queue and decides when it
// is drained.
//
// Every device enqueues a job for each new sub-order that matches its
// auto-print policy. Only the device flagged as the printing device executes
// jobs. The flag is set by hand; nothing stops two devices from holding it,
// so keeping exactly one printing device is an operational duty.
//
// # Components
//
//   - Election: reads and writes the printing-device flag
//   - Coordinator: enqueues, drains, retries and clears jobs
//
// # Idempotency
//
// The queue stores at most one regular job per order, so replayed change
// events never create a second job. A processed job is never executed again;
// Reprint is the only way to print an order twice and it creates a new job.
// Drain passes are serialised by an in-process lock. A pass requested while
// another runs is folded into a rerun of the running pass.
package printing
