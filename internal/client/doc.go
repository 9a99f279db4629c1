// Package client orchestrates dyad lifecycles over a storage backend.
//
// A Client owns the mutable state the document format deliberately leaves
// out: the pointer from each (dyad, layer) pair to the content id of its
// current epoch, and the accumulated epoch history behind that pointer.
// Documents themselves stay immutable; advancing a dyad means storing a new
// epoch and swapping the pointer.
//
// Pointer advancement is optimistic. AddSection re-checks the pointer it
// read before swapping; if another writer advanced it in the meantime the
// call fails with EPOCH_CONFLICT and the caller retries against the new
// current epoch. Epochs never fork silently.
//
// The wall clock is injectable so tests produce byte-stable documents.
package client
