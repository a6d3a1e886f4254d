// Package testing provides a fake terraform-applier web server.
//
// The fake serves the three endpoints the dashboard talks to:
//
//   - GET  /                 the status page listing namespaces and modules
//   - POST /module           the detail fragment of one module
//   - POST /api/v1/forceRun  queues a run
//
// Modules are described by a Scenario, which can be built in code or loaded
// from YAML:
//
//	modules:
//	  - namespace: dev
//	    name: network
//	    state: Ready
//	    output: "No changes."
//	  - namespace: dev
//	    name: dns
//	    state: Running
//	    lockedBy: alice
//
// Accepted force runs switch the module to Running, just like the real
// applier does, and every request is recorded for later assertions. The
// package is imported by tests and by the hidden `fake-server` command, so it
// must not depend on the standard testing package.
package testing
