// Package main provides the querykit command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/querykit/internal/cli"

	// Register database adapters.
	_ "github.com/leapstack-labs/querykit/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/querykit/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/querykit/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/querykit/pkg/adapters/sqlite"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
