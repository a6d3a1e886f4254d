// Package config provides configuration management for applierctl.
//
// This package implements a layered configuration system that allows users to
// customize applierctl's behavior through YAML files. Configuration is loaded
// from multiple sources and merged in a specific order, with later sources
// overriding earlier ones.
//
// # Configuration Layers
//
// Configuration is loaded and merged in the following order:
//
//  1. Default Configuration (embedded in binary)
//     - Ten second poll, refresh and alert dismissal delays
//     - Sanitised alert markup, controls left disabled after a failed run
//
//  2. User Configuration (~/.config/applierctl/config.yaml)
//     - Usually just the server URL of the applier the operator works with
//
//  3. Project Configuration (./.applierctl/config.yaml)
//     - Lets a team pin the applier for a given repository checkout
//
//  4. Explicit path passed with --config, which replaces layers 2 and 3
//
// Command line flags such as --server are applied by the caller afterwards.
//
// # Configuration Structure
//
//	server:
//	  url: http://terraform-applier.sys-applier:8080
//	  timeout: 30s
//	dashboard:
//	  pollInterval: 10s
//	  refreshDelay: 10s
//	  alertDismissDelay: 10s
//	  rawMarkup: false
//	  reenableOnFailure: false
//
// Boolean switches can only be turned on by an overlay; a layer that omits
// them leaves the value of the previous layer untouched.
package config
