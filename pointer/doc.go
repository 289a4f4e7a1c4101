// Package pointer implements JSON Pointer (RFC 6901) parsing and $ref
// target lookup for specification documents.
//
// A $ref value has an optional document part and a fragment:
//
//	#/components/schemas/Pet          same-document reference
//	./common.yaml#/components/Pet     external file reference
//	common.yaml                       whole external document
//
// The Resolver turns a $ref string plus the current document context into
// a canonical ReferenceKey and the raw node it addresses, loading external
// documents through the document store (and therefore through its sandbox)
// on demand. Network references are rejected as malformed: only local
// filesystem-resident documents are in scope.
package pointer
