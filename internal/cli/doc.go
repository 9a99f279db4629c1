// Package cli implements the harp command line interface.
//
// Commands operate on a dyad state database (--db): blob storage for
// serialized epochs plus the pointer and epoch index tables. Without --db
// the commands run against an in-memory store, which only makes sense for
// single-shot experiments like piping a created document to stdout.
package cli
