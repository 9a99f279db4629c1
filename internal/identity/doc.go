// Package identity provides entity identifier normalization and dyad
// identifier derivation.
//
// This package contains the identity layer only. All other internal packages
// that deal with entities import identity; identity imports nothing internal.
//
// Key design constraints:
//   - Normalization is pure and idempotent: Normalize(Normalize(x)) == Normalize(x)
//   - Dyad ids are order-independent: DyadID(a, b) == DyadID(b, a)
//   - Identifiers are never mutated after normalization
package identity
