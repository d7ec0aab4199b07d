// Package fetch carries fetch commands from the UI to background workers
// and executes them against the remote log store.
//
// The UI never calls the remote API itself. It sends Command values through
// an unbounded Queue (usually via an Issuer, which also keeps the stores'
// query parameters in step) and keeps rendering. A Worker receives commands
// in order, performs the remote call outside any lock, and merges the result
// into the paged or tail state.Store.
//
// Commands are never cancelled once sent. Each event command carries the
// query it was issued for and its own page token: nil for a first page, a
// copy of the held token for the next one. Issuer.RequestEvents resets the
// paged store before sending a command for a different query, and a result
// whose query has since been replaced is dropped on completion, so neither
// its rows nor its next-page token reach the new query. A late result for
// the same query still merges.
package fetch
