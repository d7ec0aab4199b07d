// Package ui provides the Bubble Tea dashboard for browsing log groups and
// their events.
//
// # Layout
//
//	┌ Log Groups [query] ┐┌ Filter ─────────────────────────┐
//	│ /aws/lambda/api    │└─────────────────────────────────┘
//	│ /aws/lambda/auth   │┌ Events: /aws/lambda/api ────────┐
//	│ ...                ││ 2024-05-01 10:00:00 UTC  msg    │
//	│                    ││ More...                         │
//	│                    │└─────────────────────────────────┘
//	│                    │┌ Detail ─────────────────────────┐
//	│                    ││ full message, JMESPath fields   │
//	└────────────────────┘└─────────────────────────────────┘
//
// # Data Flow
//
// The model never calls the remote API. Keys that need data go through
// fetch.Issuer, which updates the store query and enqueues a command for the
// workers. On every tick the model reads the stores with TrySnapshot and
// rebuilds its local row projections only when paging.IsSame reports a
// different result set (or the token or fetching flags moved). When a store
// is busy the previous projection is kept for that frame.
//
// The local projections own the selection. The paged table and the log group
// menu move their own cursors; in tail mode the table mirrors the selection
// the worker set, so it keeps following the newest event and cursor keys are
// ignored.
//
// # Key Handling
//
// Overlays and the open text input take every key. Otherwise the focused
// component handles the key first and anything it leaves is matched against
// the global bindings. In the log group menu printable keys edit the name
// filter, so the letter bindings (q, T, D) only act from the event table.
package ui
