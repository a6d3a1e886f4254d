// Package tui provides the terminal dashboard for terraform-applier.
//
// The TUI replaces the applier's browser page. It fetches the status page,
// holds it in an in-memory document and drives the dashboard components over
// it, so filtering, detail polling, force runs and alerts behave exactly as
// they do in the web UI.
//
// # Architecture
//
// The TUI follows a Model-View-Controller (MVC) pattern:
//
//   - Model (internal/tui/model/): the document, the dashboard controller and
//     the widget state
//   - View (internal/tui/view/): renders the navigator, the detail pane, the
//     alerts and the overlays
//   - Controller (internal/tui/controller/): turns key presses into hash
//     changes and run control clicks, and owns the Bubble Tea program
//
// # Message Flow
//
// The dashboard components only touch the document from the UI thread. Their
// network calls and timers post closures back through model.ProgramLoop,
// which wraps each closure in a TaskMsg and hands it to Program.Send. The
// controller runs the closure inside Update, so the document is only ever
// mutated by the Bubble Tea event loop.
//
// # Key Bindings
//
//   - ↑/k, ↓/j: move through namespaces and modules
//   - enter: select the entry under the cursor (sets the hash)
//   - esc: go up one level
//   - p / f: plan / apply the selected module
//   - l: edit the lock id sent with force runs
//   - #: type a hash directly
//   - x: dismiss alerts
//   - y: copy the detail pane
//   - ctrl+r: reload the status page
//   - L: activity log, ?: help, q: quit
package tui
