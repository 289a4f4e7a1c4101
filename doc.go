// Package oasresolve provides the reference resolution and schema
// normalization engine that sits beneath OpenAPI-driven generators.
//
// The engine loads a root OpenAPI or JSON-Schema document together with any
// locally referenced files, resolves every $ref pointer into a cycle-safe
// graph, flattens allOf/oneOf/anyOf composition into canonical property
// sets, and promotes anonymous inline schemas into a shared registry under
// deterministic names. The result is a single immutable model that code,
// test, mock, and documentation generators consume without re-deriving any
// of this work.
//
// # Packages
//
//   - resolver: the resolution pass and the resolved model (start here)
//   - document: document loading, caching, and the path sandbox guard
//   - pointer: JSON Pointer parsing and $ref target lookup
//   - reserrors: structured error types for programmatic handling
//
// # Quick Start
//
//	model, err := resolver.ResolveWithOptions(
//		resolver.WithFilePath("openapi.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for name, schema := range model.Schemas.All() {
//		fmt.Println(name, schema.Kind)
//	}
//
// External references are restricted to files beneath a sandbox root
// (defaulting to the root document's directory); network references are
// rejected. See the resolver package documentation for details.
package oasresolve
