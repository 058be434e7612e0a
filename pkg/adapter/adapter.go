// Package adapter provides the database/sql plumbing shared by backends, the
// adapter registry and the read/write engine dispatcher.
//
// The capability interfaces live in pkg/core; this package re-exports them
// for adapter implementations. Concrete adapters are in pkg/adapters/
// subdirectories and register themselves on import.
package adapter

import "github.com/leapstack-labs/querykit/pkg/core"

// Type aliases for the contract types defined in pkg/core.
type (
	// Adapter is an alias for core.Adapter.
	Adapter = core.Adapter

	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig
)
