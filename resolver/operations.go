package resolver

import (
	"sort"
	"strconv"

	"go.yaml.in/yaml/v4"

	"github.com/speakeasy-api/openapi/sequencedmap"

	"github.com/specfold/oasresolve/document"
	"github.com/specfold/oasresolve/internal/nodeutil"
)

// methodOrder fixes the HTTP method iteration order within a path item.
var methodOrder = []string{"get", "post", "put", "delete", "patch", "head", "options", "trace"}

// Operation is one HTTP method on one path, with every schema it touches
// fully resolved.
type Operation struct {
	// Method is the lowercase HTTP method.
	Method string `json:"method"`
	// Path is the path template as written in the source document.
	Path string `json:"path"`
	// OperationID is the declared operationId, when present.
	OperationID string `json:"operationId,omitempty"`
	// Summary is carried through for documentation.
	Summary string `json:"summary,omitempty"`
	// Parameters lists path-level parameters first, then operation-level,
	// each in declaration order.
	Parameters []*Parameter `json:"parameters,omitempty"`
	// RequestBody is the resolved request body, when present.
	RequestBody *RequestBody `json:"requestBody,omitempty"`
	// Responses maps status codes (and "default") to resolved responses,
	// sorted ascending with "default" last.
	Responses *sequencedmap.Map[string, *Response] `json:"responses,omitempty"`
}

// Parameter is a resolved operation parameter.
type Parameter struct {
	// Name is the parameter name.
	Name string `json:"name"`
	// In is the parameter location: "path", "query", "header", or "cookie"
	// ("formData" in older documents).
	In string `json:"in"`
	// Required reports whether the parameter must be supplied.
	Required bool `json:"required,omitempty"`
	// Schema is the resolved parameter schema.
	Schema SchemaNode `json:"schema,omitempty"`
}

// RequestBody is a resolved request body. When multiple media types are
// declared, application/json wins; otherwise the first declared media
// type is used.
type RequestBody struct {
	// Required reports whether a body must be supplied.
	Required bool `json:"required,omitempty"`
	// MediaType is the selected media type.
	MediaType string `json:"mediaType,omitempty"`
	// Schema is the resolved body schema.
	Schema SchemaNode `json:"schema,omitempty"`
}

// Response is one resolved response of an operation.
type Response struct {
	// StatusCode is the status code string, or "default".
	StatusCode string `json:"statusCode"`
	// Description is the response description.
	Description string `json:"description,omitempty"`
	// MediaType is the selected media type, when a body schema exists.
	MediaType string `json:"mediaType,omitempty"`
	// Schema is the resolved body schema, when present.
	Schema SchemaNode `json:"schema,omitempty"`
}

// buildOperations walks the paths object of the root document and
// resolves every operation. Paths iterate in declaration order; methods
// iterate in fixed HTTP method order.
func (g *graphResolver) buildOperations(root *yaml.Node, doc document.ID) ([]*Operation, error) {
	paths := nodeutil.MapValue(root, "paths")
	if paths == nil {
		return nil, nil
	}

	var ops []*Operation
	for path, rawItem := range nodeutil.Pairs(paths) {
		item, itemDoc, err := g.resolveRawRef(rawItem, doc)
		if err != nil {
			return nil, err
		}

		shared, err := g.buildParameters(nodeutil.MapValue(item, "parameters"), itemDoc)
		if err != nil {
			return nil, err
		}

		for _, method := range methodOrder {
			opNode := nodeutil.MapValue(item, method)
			if opNode == nil {
				continue
			}
			op, err := g.buildOperation(method, path, opNode, itemDoc, shared)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
	}
	return ops, nil
}

func (g *graphResolver) buildOperation(method, path string, node *yaml.Node, doc document.ID, shared []*Parameter) (*Operation, error) {
	op := &Operation{Method: method, Path: path}
	op.OperationID, _ = nodeutil.ScalarString(nodeutil.MapValue(node, "operationId"))
	op.Summary, _ = nodeutil.ScalarString(nodeutil.MapValue(node, "summary"))

	own, err := g.buildParameters(nodeutil.MapValue(node, "parameters"), doc)
	if err != nil {
		return nil, err
	}
	// operation parameters override shared ones with the same (name, in)
	for _, p := range shared {
		if !containsParam(own, p) {
			op.Parameters = append(op.Parameters, p)
		}
	}
	op.Parameters = append(op.Parameters, own...)

	// OAS 2 carries the request body as an in:body parameter
	var bodyParams []*Parameter
	op.Parameters, bodyParams = splitBodyParams(op.Parameters)
	if len(bodyParams) > 0 {
		op.RequestBody = &RequestBody{
			Required:  bodyParams[0].Required,
			MediaType: "application/json",
			Schema:    bodyParams[0].Schema,
		}
	}

	if rb := nodeutil.MapValue(node, "requestBody"); rb != nil {
		body, err := g.buildRequestBody(rb, doc)
		if err != nil {
			return nil, err
		}
		op.RequestBody = body
	}

	responses, err := g.buildResponses(nodeutil.MapValue(node, "responses"), doc)
	if err != nil {
		return nil, err
	}
	op.Responses = responses
	return op, nil
}

func (g *graphResolver) buildParameters(node *yaml.Node, doc document.ID) ([]*Parameter, error) {
	if node == nil {
		return nil, nil
	}
	var params []*Parameter
	for raw := range nodeutil.Items(node) {
		pNode, pDoc, err := g.resolveRawRef(raw, doc)
		if err != nil {
			return nil, err
		}
		p := &Parameter{}
		p.Name, _ = nodeutil.ScalarString(nodeutil.MapValue(pNode, "name"))
		p.In, _ = nodeutil.ScalarString(nodeutil.MapValue(pNode, "in"))
		p.Required, _ = nodeutil.ScalarBool(nodeutil.MapValue(pNode, "required"))

		switch {
		case nodeutil.MapValue(pNode, "schema") != nil:
			schema, err := g.resolveNode(nodeutil.MapValue(pNode, "schema"), pDoc, 0)
			if err != nil {
				return nil, err
			}
			p.Schema = schema
		case nodeutil.MapValue(pNode, "type") != nil:
			// OAS 2 non-body parameters declare their type inline; the
			// parameter node doubles as the schema node.
			schema, err := g.buildSchema(pNode, pDoc, 0)
			if err != nil {
				return nil, err
			}
			p.Schema = schema
		}
		params = append(params, p)
	}
	return params, nil
}

func (g *graphResolver) buildRequestBody(node *yaml.Node, doc document.ID) (*RequestBody, error) {
	rbNode, rbDoc, err := g.resolveRawRef(node, doc)
	if err != nil {
		return nil, err
	}
	body := &RequestBody{}
	body.Required, _ = nodeutil.ScalarBool(nodeutil.MapValue(rbNode, "required"))

	mediaType, schemaNode := selectMediaType(nodeutil.MapValue(rbNode, "content"))
	if schemaNode != nil {
		schema, err := g.resolveNode(schemaNode, rbDoc, 0)
		if err != nil {
			return nil, err
		}
		body.MediaType = mediaType
		body.Schema = schema
	}
	return body, nil
}

func (g *graphResolver) buildResponses(node *yaml.Node, doc document.ID) (*sequencedmap.Map[string, *Response], error) {
	if node == nil {
		return nil, nil
	}

	codes := make([]string, 0, 4)
	raws := make(map[string]*yaml.Node)
	for code, raw := range nodeutil.Pairs(node) {
		codes = append(codes, code)
		raws[code] = raw
	}
	sortStatusCodes(codes)

	responses := sequencedmap.New[string, *Response]()
	for _, code := range codes {
		rNode, rDoc, err := g.resolveRawRef(raws[code], doc)
		if err != nil {
			return nil, err
		}
		resp := &Response{StatusCode: code}
		resp.Description, _ = nodeutil.ScalarString(nodeutil.MapValue(rNode, "description"))

		// OAS 3 nests the schema under content; OAS 2 puts it directly
		// on the response.
		mediaType, schemaNode := selectMediaType(nodeutil.MapValue(rNode, "content"))
		if schemaNode == nil {
			if s := nodeutil.MapValue(rNode, "schema"); s != nil {
				mediaType, schemaNode = "application/json", s
			}
		}
		if schemaNode != nil {
			schema, err := g.resolveNode(schemaNode, rDoc, 0)
			if err != nil {
				return nil, err
			}
			resp.MediaType = mediaType
			resp.Schema = schema
		}
		responses.Set(code, resp)
	}
	return responses, nil
}

// selectMediaType picks the schema-bearing media type from a content
// mapping: application/json when declared, otherwise the first entry.
func selectMediaType(content *yaml.Node) (string, *yaml.Node) {
	if content == nil {
		return "", nil
	}
	if j := nodeutil.MapValue(content, "application/json"); j != nil {
		if s := nodeutil.MapValue(j, "schema"); s != nil {
			return "application/json", s
		}
	}
	for mt, mtNode := range nodeutil.Pairs(content) {
		if s := nodeutil.MapValue(mtNode, "schema"); s != nil {
			return mt, s
		}
	}
	return "", nil
}

// sortStatusCodes orders status codes ascending with "default" last.
// Non-numeric codes other than "default" (range keys like "2XX") sort
// after numeric codes, alphabetically.
func sortStatusCodes(codes []string) {
	sort.SliceStable(codes, func(i, j int) bool {
		return statusRank(codes[i]) < statusRank(codes[j]) ||
			(statusRank(codes[i]) == statusRank(codes[j]) && codes[i] < codes[j])
	})
}

func statusRank(code string) int {
	if code == "default" {
		return 1 << 20
	}
	if n, err := strconv.Atoi(code); err == nil {
		return n
	}
	return 1 << 19
}

func containsParam(params []*Parameter, p *Parameter) bool {
	for _, q := range params {
		if q.Name == p.Name && q.In == p.In {
			return true
		}
	}
	return false
}

func splitBodyParams(params []*Parameter) (rest, body []*Parameter) {
	for _, p := range params {
		if p.In == "body" {
			body = append(body, p)
		} else {
			rest = append(rest, p)
		}
	}
	return rest, body
}
