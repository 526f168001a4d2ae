// Package tool defines how host-callable tools are described and invoked.
//
// A [Tool] binds a name and description to a typed Go function and derives the
// JSON schema of its input with invopop/jsonschema. Hosts that only see raw
// JSON arguments dispatch through the [GenericTool] interface, and a [Catalog]
// keeps the tools a host exposes, keyed by case-insensitive name.
package tool
