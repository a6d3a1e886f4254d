// Package dashboard implements the behaviour of the terraform-applier
// dashboard independently of how it is displayed.
//
// # Architecture
//
// Every component works against a View, a small DOM-like surface made of
// queryable elements with classes, attributes, text and markup. The view is
// owned by a single goroutine, the Loop; components only mutate it from
// tasks running on that loop. Network calls run in their own goroutines and
// post their results back as loop tasks, and timers do the same through the
// Scheduler.
//
// # Core Components
//
//   - ViewFilter: applies a "namespace" or "namespace_module" hash to the
//     namespace and module lists
//   - DetailLoader: loads a module's detail fragment into the detail pane and
//     keeps polling while the module is Running
//   - RunTrigger: submits force runs while the run controls are disabled
//   - AlertPresenter: success and failure banners with auto dismissal
//   - Controller: routes hash changes and control clicks to the above
//
// # Staleness
//
// At most one detail pane is current. Its identity is the id of the
// .module-info element the loader wraps every fragment in. Poll timers are
// cancelled when the selector changes, and every delayed or asynchronous
// completion re-checks that identity before touching the pane, so a late
// response for a module the operator has left is dropped.
package dashboard
