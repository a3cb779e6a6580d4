// Package booking is the single in-process authority for center mutations.
// It is structured into small files by concern:
//
//   - authority.go: Authority type, Book and the admin operations.
//   - config.go: Config and package defaults; New applies defaults.
//   - gate.go: per-center gates bounding how long a mutation waits for its turn.
//   - errors.go: error types and helpers (IsNotFound, IsNoSlots, IsTimeout, ...).
//   - events.go: EventPublisher and the no-op default.
//   - metrics.go: Prometheus collectors for booking outcomes and gate waits.
//
// All mutations of one center run one at a time; mutations of different
// centers never wait on each other. Change events are handed to the publisher
// after the store write succeeded and before the next mutation of the same
// center may start, so observers see events in commit order.
package booking
