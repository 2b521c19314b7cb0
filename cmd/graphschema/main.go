// Package main is the entry point for the graphschema CLI.
//
// Usage:
//
//	graphschema [flags] <command> [args]
//
// Commands:
//
//	check       - Parse and load a schema file
//	render      - Print the canonical form of a schema file
//	describe    - Print the schema snapshot as YAML
//	jsonschema  - Export one class as JSON Schema
//	gen         - Generate Go structs bound to the schema
//	validate    - Validate YAML records against a schema
//	snapshot    - Record a schema in the catalog
//	history     - List recorded snapshots
//	diff        - Compare two schemas
package main

import (
	"fmt"
	"os"

	"github.com/CaliLuke/go-graphschema/cmd/graphschema/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
