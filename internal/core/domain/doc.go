// Package domain defines the core domain models for VoltKV.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling. This package contains:
//
//   - Kind: the tagged-union discriminator for stored values
//   - List: ordered, front/back addressable byte-string sequence
//   - Set: insertion-ordered string set
//   - Stream: append-only entry log with (ms, seq) identifiers
//   - Errors: protocol-visible error definitions
//
// All mutation entry points live behind the store; the types here
// carry no locking of their own.
package domain
