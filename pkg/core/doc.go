// Package core defines the contract between query composition and database
// backends.
//
// This package contains:
//   - The Engine and Adapter capability interfaces
//   - Query results (RowCount, Row, cursors, None) and their options
//   - Statement classification and debug formatting
//   - Backend error kinds (query, unavailable, connection)
//   - Connection descriptors and snapshots
//
// pkg/core imports only the standard library. All other packages depend on
// core, not the reverse.
package core
