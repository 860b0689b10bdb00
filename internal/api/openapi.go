package api

import (
	"net/url"
	"sync"

	"github.com/go-openapi/spec"

	"github.com/bobmcallan/opsgate/internal/registry"
	"github.com/bobmcallan/opsgate/internal/schema"
)

// Fixed tag names for the non-tool endpoints.
const (
	tagDiscovery     = "Tool Discovery"
	tagDocumentation = "Documentation"
	tagUncategorized = "Uncategorized"
)

// DocConfig is generator-level metadata embedded in the document.
type DocConfig struct {
	Title       string
	Version     string
	Description string
	ServerURL   string
}

// Generator builds the OpenAPI document describing every registered tool as
// a POST endpoint plus the fixed discovery and documentation endpoints.
//
// The document is generated lazily and cached by reference: Generate returns
// the identical object until Invalidate is called. The cache is not tied to
// registry mutation — callers that mutate the registry after the first
// generation are responsible for invalidating.
type Generator struct {
	registry *registry.Registry

	mu     sync.Mutex
	cfg    DocConfig
	cached *spec.Swagger
}

// NewGenerator creates a generator over the given registry.
func NewGenerator(reg *registry.Registry, cfg DocConfig) *Generator {
	return &Generator{registry: reg, cfg: cfg}
}

// Generate returns the current document, building it on first call or after
// invalidation.
func (g *Generator) Generate() *spec.Swagger {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cached == nil {
		g.cached = g.build()
	}
	return g.cached
}

// Invalidate discards the cached document so the next Generate reflects the
// current registry state.
func (g *Generator) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cached = nil
}

// UpdateConfig merges the non-zero fields of cfg into the generator
// metadata. Metadata is embedded in the document, so the cache is
// invalidated and the change takes effect on the next generation.
func (g *Generator) UpdateConfig(cfg DocConfig) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if cfg.Title != "" {
		g.cfg.Title = cfg.Title
	}
	if cfg.Version != "" {
		g.cfg.Version = cfg.Version
	}
	if cfg.Description != "" {
		g.cfg.Description = cfg.Description
	}
	if cfg.ServerURL != "" {
		g.cfg.ServerURL = cfg.ServerURL
	}
	g.cached = nil
}

// build walks the registry and assembles the full document. A registry with
// zero tools still produces a valid document containing only the fixed
// endpoints and shared definitions.
func (g *Generator) build() *spec.Swagger {
	doc := &spec.Swagger{
		SwaggerProps: spec.SwaggerProps{
			Swagger: "2.0",
			Info: &spec.Info{
				InfoProps: spec.InfoProps{
					Title:       g.cfg.Title,
					Description: g.cfg.Description,
					Version:     g.cfg.Version,
				},
			},
			BasePath:    BasePath,
			Consumes:    []string{"application/json"},
			Produces:    []string{"application/json"},
			Paths:       &spec.Paths{Paths: map[string]spec.PathItem{}},
			Definitions: spec.Definitions{},
		},
	}

	if g.cfg.ServerURL != "" {
		if u, err := url.Parse(g.cfg.ServerURL); err == nil && u.Host != "" {
			doc.Host = u.Host
			if u.Scheme != "" {
				doc.Schemes = []string{u.Scheme}
			}
		}
	}

	doc.Tags = g.buildTags()
	g.addSharedDefinitions(doc)
	g.addFixedPaths(doc)
	g.addToolPaths(doc)

	return doc
}

// buildTags emits the fixed tags plus one per distinct category, with an
// Uncategorized tag when any tool lacks a category.
func (g *Generator) buildTags() []spec.Tag {
	tags := []spec.Tag{
		{TagProps: spec.TagProps{Name: tagDiscovery, Description: "Discover registered tools"}},
		{TagProps: spec.TagProps{Name: tagDocumentation, Description: "API documentation"}},
	}

	for _, category := range g.registry.Categories() {
		tags = append(tags, spec.Tag{TagProps: spec.TagProps{
			Name:        category,
			Description: "Tools in the " + category + " category",
		}})
	}

	for _, def := range g.registry.List(nil) {
		if def.Category == "" {
			tags = append(tags, spec.Tag{TagProps: spec.TagProps{
				Name:        tagUncategorized,
				Description: "Tools without a category",
			}})
			break
		}
	}

	return tags
}

// addFixedPaths emits the discovery and spec-document endpoints.
func (g *Generator) addFixedPaths(doc *spec.Swagger) {
	doc.Paths.Paths["/tools"] = spec.PathItem{
		PathItemProps: spec.PathItemProps{
			Get: &spec.Operation{
				OperationProps: spec.OperationProps{
					ID:      "listTools",
					Summary: "List registered tools",
					Tags:    []string{tagDiscovery},
					Parameters: []spec.Parameter{
						*spec.QueryParam("category").Typed("string", "").WithDescription("Exact category filter"),
						*spec.QueryParam("tag").Typed("string", "").WithDescription("Exact tag membership filter"),
						*spec.QueryParam("search").Typed("string", "").WithDescription("Case-insensitive substring match on name and description"),
					},
					Responses: responses(map[int]*spec.Response{
						200: spec.NewResponse().
							WithDescription("Matching tools").
							WithSchema(spec.RefSchema("#/definitions/ToolDiscoveryResult")),
					}),
				},
			},
		},
	}

	doc.Paths.Paths["/openapi"] = spec.PathItem{
		PathItemProps: spec.PathItemProps{
			Get: &spec.Operation{
				OperationProps: spec.OperationProps{
					ID:      "getOpenAPIDocument",
					Summary: "Get the OpenAPI document for this API",
					Tags:    []string{tagDocumentation},
					Responses: responses(map[int]*spec.Response{
						200: spec.NewResponse().
							WithDescription("The OpenAPI document").
							WithSchema(objectSchemaOf(nil, nil)),
					}),
				},
			},
		},
	}
}

// addToolPaths emits one POST path and one request definition per tool.
func (g *Generator) addToolPaths(doc *spec.Swagger) {
	for _, def := range g.registry.List(nil) {
		wire, ok := g.registry.WireSchema(def.Name)
		if !ok {
			continue
		}

		requestName := def.Name + "Request"
		doc.Definitions[requestName] = specSchema(wire)

		tag := def.Category
		if tag == "" {
			tag = tagUncategorized
		}

		doc.Paths.Paths["/tools/"+def.Name] = spec.PathItem{
			PathItemProps: spec.PathItemProps{
				Post: &spec.Operation{
					OperationProps: spec.OperationProps{
						ID:          "execute_" + def.Name,
						Summary:     "Execute the " + def.Name + " tool",
						Description: def.Description,
						Tags:        []string{tag},
						Parameters: []spec.Parameter{
							*spec.BodyParam("body", spec.RefSchema("#/definitions/"+requestName)).AsRequired(),
						},
						Responses: responses(map[int]*spec.Response{
							200: spec.NewResponse().
								WithDescription("Tool executed successfully").
								WithSchema(spec.RefSchema("#/definitions/ToolExecutionResult")),
							400: spec.NewResponse().
								WithDescription("Missing or malformed request body").
								WithSchema(spec.RefSchema("#/definitions/ApiResponse")),
							404: spec.NewResponse().
								WithDescription("Tool is not registered").
								WithSchema(spec.RefSchema("#/definitions/ApiResponse")),
							500: spec.NewResponse().
								WithDescription("Tool execution failed").
								WithSchema(spec.RefSchema("#/definitions/ApiResponse")),
						}),
					},
				},
			},
		}
	}
}

// addSharedDefinitions emits the schemas every operation's responses
// reference: the envelope, the execution-result shape, and the
// discovery-result shape.
func (g *Generator) addSharedDefinitions(doc *spec.Swagger) {
	doc.Definitions["ApiResponse"] = *objectSchemaOf(map[string]spec.Schema{
		"success": *spec.BooleanProperty().WithDescription("Whether the request succeeded"),
		"data":    *objectSchemaOf(nil, nil).WithDescription("Response payload, present on success"),
		"error": *objectSchemaOf(map[string]spec.Schema{
			"code":    *spec.StringProperty().WithDescription("Stable machine-readable error code"),
			"message": *spec.StringProperty(),
		}, []string{"code", "message"}).WithDescription("Error details, present on failure"),
		"meta": *objectSchemaOf(map[string]spec.Schema{
			"version":         *spec.StringProperty(),
			"timestamp":       *spec.StringProperty(),
			"executionTimeMs": *spec.Int64Property(),
		}, []string{"version", "timestamp"}),
	}, []string{"success", "meta"})

	doc.Definitions["ToolExecutionResult"] = *objectSchemaOf(map[string]spec.Schema{
		"tool":          *spec.StringProperty().WithDescription("Name of the executed tool"),
		"result":        *objectSchemaOf(nil, nil).WithDescription("Tool handler result"),
		"executionTime": *spec.Int64Property().WithDescription("Elapsed execution time in milliseconds"),
	}, []string{"tool", "executionTime"})

	doc.Definitions["ToolDiscoveryResult"] = *objectSchemaOf(map[string]spec.Schema{
		"tools": *spec.ArrayProperty(objectSchemaOf(map[string]spec.Schema{
			"name":        *spec.StringProperty(),
			"description": *spec.StringProperty(),
			"category":    *spec.StringProperty(),
			"tags":        *spec.ArrayProperty(spec.StringProperty()),
		}, []string{"name"})),
		"total": *spec.Int64Property().WithDescription("Number of tools returned"),
	}, []string{"tools", "total"})
}

// specSchema converts a translated wire schema into its go-openapi form.
func specSchema(js *schema.JSONSchema) spec.Schema {
	s := spec.Schema{
		SchemaProps: spec.SchemaProps{
			Type:        spec.StringOrArray{js.Type},
			Description: js.Description,
			Required:    js.Required,
		},
	}

	if len(js.Properties) > 0 {
		s.Properties = make(map[string]spec.Schema, len(js.Properties))
		for name, prop := range js.Properties {
			s.Properties[name] = specSchema(prop)
		}
	}

	if js.Items != nil {
		items := specSchema(js.Items)
		s.Items = &spec.SchemaOrArray{Schema: &items}
	}

	return s
}

// objectSchemaOf builds an inline object schema.
func objectSchemaOf(properties map[string]spec.Schema, required []string) *spec.Schema {
	return &spec.Schema{
		SchemaProps: spec.SchemaProps{
			Type:       spec.StringOrArray{"object"},
			Properties: properties,
			Required:   required,
		},
	}
}

// responses assembles a Responses block from per-status responses.
func responses(byStatus map[int]*spec.Response) *spec.Responses {
	out := &spec.Responses{
		ResponsesProps: spec.ResponsesProps{
			StatusCodeResponses: make(map[int]spec.Response, len(byStatus)),
		},
	}
	for status, resp := range byStatus {
		out.StatusCodeResponses[status] = *resp
	}
	return out
}
