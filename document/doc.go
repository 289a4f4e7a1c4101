// Package document loads, parses, and caches specification documents.
//
// A Store owns one parsed tree per canonical file path. Trees are generic
// yaml.Node values (YAML and JSON both parse through the same decoder), and
// mapping key order is preserved so downstream consumers see properties in
// declaration order. Documents are immutable once loaded.
//
// Every externally referenced path passes through a Sandbox before any
// filesystem read. The sandbox canonicalizes the path and rejects anything
// that escapes the configured root directory, so a document under
// /specs cannot pull in /etc/passwd via "../../../etc/passwd".
package document
