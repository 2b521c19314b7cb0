// Package graphschema provides declarative schemas for graph data.
//
// Declare nodes and relationships with typed properties, bind them to class
// identifiers, and validate application objects against them, either from Go
// code, from struct tags, or from a schema file.
//
// The module is organized into the following packages:
//
//   - [github.com/CaliLuke/go-graphschema/blueprint]: properties, models, adjacencies, the class registry and the validator
//   - [github.com/CaliLuke/go-graphschema/types]: built-in value types and their constraints
//   - [github.com/CaliLuke/go-graphschema/bind]: models derived from Go structs via `graph` struct tags
//   - [github.com/CaliLuke/go-graphschema/schemadsl]: the schema language parser, loader and renderer
//   - [github.com/CaliLuke/go-graphschema/schemadoc]: serializable snapshots, hashing, JSON Schema export and diffs
//   - [github.com/CaliLuke/go-graphschema/catalog]: SQLite history of recorded snapshots
//
// The graphschema command in cmd/graphschema wraps these for use from a shell.
package graphschema
