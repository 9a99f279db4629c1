// Package doc provides the HARP document model and the canonical text codec.
//
// This package is the foundational layer: every other internal package imports
// doc; doc imports only identity. A document is a frontmatter block, a free
// preamble, and an ordered sequence of typed sections. Epochs form a
// singly-linked append-only chain per (dyad, layer) via content ids.
//
// Key design constraints:
//   - Documents are immutable value objects; every mutating operation returns
//     a new Document and the prior version stays valid.
//   - Serialize is deterministic: fixed field order, fixed scalar emission.
//     Serialize(Parse(Serialize(d))) == Serialize(d) for every valid d.
//   - The body checksum is recomputed from the serialized body on every
//     Serialize call; a stored checksum is never trusted as current.
//   - Raw fields are derived caches. An empty Raw means "stale, recompute";
//     the structured fields are always the source of truth.
//   - Parsing is lenient on vocabulary (unknown metadata keys pass through
//     opaquely) and strict on structure (delimiter counts, heading shape,
//     required field types).
package doc
