// Package commands defines the pinmap CLI.
//
// Commands
//
//   - list      Show a page of saved locations and the page window
//   - drop      Resolve the address of a dropped pin, optionally saving it
//   - save      Save a location with a known address
//   - reverse   Print the address for a coordinate pair
//
// Negative coordinates must follow "--" so they are not read as flags:
//
//	pinmap drop --save -- 37.7749 -122.4194
//
// # Implementation
//
// The root command loads configuration through viper (flags, PINMAP_*
// environment variables, then an optional config file) and builds a store
// backed by the locations API, a paginator and a geocode resolver before any
// subcommand runs.
package commands
