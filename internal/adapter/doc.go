// Package adapter translates platform activity into document sections.
//
// Each platform adapter turns its events into zero or more sections: an
// event can be irrelevant to the relationship record (zero) or carry more
// than one relational fact (a bounty payment is both an interaction and a
// payment record). A Registry routes events to the adapter registered for
// their platform; events for unregistered platforms translate to nothing
// rather than failing, so feeds can carry traffic from platforms this
// process does not care about.
package adapter
