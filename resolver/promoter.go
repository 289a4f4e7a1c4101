package resolver

import (
	"github.com/specfold/oasresolve/internal/naming"
)

// promoteInlineSchemas hoists anonymous request, response, and parameter
// schemas into the registry under deterministic generated names. The walk
// order is fixed (operations in model order; per operation: parameters,
// request body, responses) so generated names are stable across runs.
//
// Structurally identical inline schemas deduplicate onto one registry
// entry; distinct schemas whose generated names collide get numeric
// suffixes. Scalar schemas stay inline: promoting a bare string adds a
// name without adding meaning.
func promoteInlineSchemas(registry *SchemaRegistry, ops []*Operation, log Logger) {
	for _, op := range ops {
		base := operationBaseName(op)

		for _, p := range op.Parameters {
			candidate := base + naming.ToPascalCase(p.Name) + "Parameter"
			p.Schema = promote(registry, candidate, p.Schema, log)
		}

		if op.RequestBody != nil {
			op.RequestBody.Schema = promote(registry, base+"Request", op.RequestBody.Schema, log)
		}

		if op.Responses != nil {
			for code, resp := range op.Responses.All() {
				candidate := base + "Response" + naming.ToPascalCase(code)
				resp.Schema = promote(registry, candidate, resp.Schema, log)
			}
		}
	}
}

// promote registers a single inline schema when it is worth naming,
// returning the canonical registry instance to substitute at the use
// site. Back-references, already named schemas, and scalars pass through
// untouched.
func promote(registry *SchemaRegistry, candidate string, n SchemaNode, log Logger) SchemaNode {
	s, ok := n.(*Schema)
	if !ok || s == nil {
		return n
	}
	if _, named := registry.NameFor(s); named {
		return n
	}
	if s.Kind == KindScalar {
		return n
	}

	name, canonical, existed := registry.BindPromoted(candidate, s)
	if existed && canonical != s {
		log.Debug("inline schema deduplicated", "candidate", candidate, "name", name)
		return canonical
	}
	if name != candidate {
		log.Debug("inline schema name suffixed", "candidate", candidate, "name", name)
	}
	return canonical
}

// operationBaseName derives the naming stem for an operation's promoted
// schemas: the operationId in PascalCase when declared, otherwise the
// method and sanitized path.
func operationBaseName(op *Operation) string {
	if op.OperationID != "" {
		return naming.ToPascalCase(op.OperationID)
	}
	return naming.ToPascalCase(op.Method) + naming.SanitizePath(op.Path)
}
