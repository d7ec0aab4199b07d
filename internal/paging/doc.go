// Package paging implements the selectable, paginated collections behind the
// log group menu and the log event table.
//
// A Collection keeps its items in fetch order, an optional next-page token and
// a cursor. When a token is present the last item is a synthetic "More..."
// sentinel; selecting and confirming it is how callers ask for the next page.
//
// Merge folds a fetched page into cached items by identity, since remote
// tokens may re-return part of the page already seen. IsSame is the cheap
// staleness check the UI uses to decide whether a cached projection must be
// rebuilt.
//
// Menus use Wrap cursors, tables use Clamp cursors. Every mutation keeps the
// selection within bounds, so a reset racing with navigation can never leave
// an out-of-range index behind.
package paging
