// Package storage provides content-addressed storage for serialized
// documents.
//
// Every backend derives the id of a stored blob from its bytes, so storing
// the same content twice always yields the same id and never duplicates
// data. Ids are backend-independent: a document stored in the in-memory
// backend and later stored in SQLite resolves to the same id.
//
// Pinning marks content as retained. Backends in this package never evict,
// pinned or not, but callers that layer garbage collection on top rely on
// the pin set to decide what survives.
package storage
