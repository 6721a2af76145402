// package progress implements the download-progress monitor core: a
// server-sent-events subscriber with exponential reconnect backoff and an
// in-memory latest-by-id store of playlist and track snapshots.
//
// The Subscriber owns the connection lifecycle and emits typed events on a
// channel. A single consumer (the TUI or the export command) applies them to
// a Store and renders, which keeps event processing in arrival order.
package progress
