// Package resolver turns a raw OpenAPI or JSON-Schema document into an
// immutable, fully resolved model.
//
// A resolution pass loads the root document (and any file it references)
// through a sandboxed document store, follows every $ref, flattens
// allOf/oneOf/anyOf composition, hoists anonymous request/response/parameter
// schemas into a unified named registry, and returns a Model that contains
// no unresolved references.
//
// # Basic Usage
//
//	model, err := resolver.ResolveWithOptions(
//	    resolver.WithFilePath("openapi.yaml"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for name, schema := range model.Schemas.All() {
//	    fmt.Println(name, schema.Kind)
//	}
//
// # Circular References
//
// Cycles are not errors. When inlining a schema would recurse forever,
// the cycle edge becomes a *BackReference carrying the canonical
// reference key and, once naming is complete, the registry name of its
// target. Every other occurrence of the same reference resolves to the
// same *Schema instance, so structural sharing in the source document
// survives resolution.
//
// # Determinism
//
// Two passes over the same input produce identical models: property
// order follows source declaration order, methods iterate in fixed HTTP
// order, promoted schema names are generated by a fixed walk, and name
// collisions resolve by structural deduplication or numeric suffixing,
// never by overwriting.
package resolver
