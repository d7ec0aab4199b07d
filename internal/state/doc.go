// Package state provides the shared cache between fetch workers and the UI.
//
// # Overview
//
// A Store holds the log groups and log events fetched so far, their pagination
// tokens, per-collection fetch-in-progress flags, and the query the events
// belong to. Two stores exist at runtime: one for interactively paged queries
// and one dedicated to tail mode, so switching modes never mixes results.
//
// # Concurrency Model
//
//	Issuer:  BeginEventsFetch()        Consumer (ui.Model):
//	Producer (fetch.Worker):           ┌──────────────────────┐
//	┌──────────────────────────┐       │ tick                 │
//	│ api.FilterLogEvents      │       │ TrySnapshot()        │
//	│ CompleteEventsFetch(q,..)│──────→│   ok: rebuild rows   │
//	└──────────────────────────┘(mutex)│   busy: keep last    │
//	                                   └──────────────────────┘
//
// Writers take the lock only for the in-memory merge, never across network
// I/O. The render path uses TrySnapshot, which never waits: on contention it
// returns ok=false and the UI keeps its previous projection for that frame.
// Staleness is bounded by the UI tick, not by fetch latency.
//
// Snapshots clone the item slices and the error value so the UI can hold on
// to them without sharing memory with the worker.
//
// # Query Changes
//
// SetQuery compares the requested log group, filter and window mode with the
// stored query and clears the event collection when they differ. Fetches
// already in flight are not cancelled. Each one completes through
// CompleteEventsFetch with the query it was issued for, and a result whose
// query no longer targets the stored one is dropped, so neither its rows nor
// its next-page token reach the new query.
//
// # Fetch Flags
//
// The fetching flags let callers skip issuing a second command for a query
// already being fetched. The issuer raises them when it queues a command and
// the worker lowers them when the command completes. Event fetches are
// counted, so a finished command of a replaced query leaves the flag up while
// the new query's command is still queued. A redundant command for the same
// query merges the same page again, which de-duplication turns into a no-op.
//
// # Error Propagation
//
// EndGroupsFetch, EndEventsFetch and CompleteEventsFetch record the last error and a consecutive
// failure counter, the same way the collections are never touched by a
// failed fetch. The UI may surface LastError; the store itself never does.
package state
