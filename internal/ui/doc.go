// Package ui implements the interactive terminal views using bubbletea's Elm
// architecture.
//
// Two top-level models exist:
//   - [MonitorModel] : live download progress fed by the SSE subscriber, plus
//     an inline submission form for new playlist jobs
//   - [RadioModel] : the radio player view fed by the Icecast poller, with
//     song history, cover artwork, and MPRIS metadata export
//
// Both models implement bubbletea's standard Init/Update/View pattern and
// consume their domain engines through channels, so no network or database
// work happens on the render path.
package ui
