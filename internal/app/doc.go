// Package app is the composition root of cwlogs.
//
// # Overview
//
// Run wires configuration, logging, the remote log API, the shared stores,
// the fetch workers, the tail poller and the UI, then blocks in the UI until
// the user quits or the context is cancelled.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()          TOML settings, flags override
//	       ├─────> logging.Setup()        zerolog to the log file
//	       ├─────> extract.New()          JMESPath detail fields
//	       ├─────> cloudwatch.Connect()   or cloudwatch.NewDemo()
//	       ├─────> state.NewStore() x2    paged and tail caches
//	       ├─────> fetch.NewQueue()       UI to worker commands
//	       ├─────> startWorkers()         cfg.Workers goroutines
//	       ├─────> StartTailPoller()      tail requests every interval
//	       ├─────> issuer.RequestGroups() initial log group listing
//	       └─────> ui.Run()               blocks
//
// # Tail Polling
//
// The poller asks the issuer for a tail fetch on every interval. The issuer
// ignores the request when tailing is inactive or a tail fetch is still in
// flight, so the poller needs no knowledge of the UI mode. After consecutive
// tail failures the delay doubles per failure up to 30 seconds and returns
// to the interval after the next success.
//
// # Shutdown
//
// When the UI returns, the context is cancelled and the queue closed. Workers
// finish the call in progress, bounded by the fetch timeout, and exit.
package app
