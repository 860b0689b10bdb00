package schema

import "sort"

// JSONSchema is the wire representation of a translated parameter schema.
// It marshals to standard JSON Schema and is embedded verbatim in MCP tool
// input schemas; the OpenAPI generator derives its component schemas from
// the same structure.
type JSONSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
	Items       *JSONSchema            `json:"items,omitempty"`
}

// ToWire translates a parameter schema tree into its JSON-Schema wire form.
// The translation is total and deterministic: every primitive kind maps to
// exactly one JSON-Schema type, descriptions are carried through verbatim,
// and the required array lists exactly the fields marked required, sorted
// for stable output. An unrecognized kind returns UnknownKindError.
func ToWire(params Params) (*JSONSchema, error) {
	return objectSchema("", params)
}

// objectSchema builds the schema for an object with the given field map.
func objectSchema(name string, fields map[string]Field) (*JSONSchema, error) {
	out := &JSONSchema{
		Type:       "object",
		Properties: make(map[string]*JSONSchema, len(fields)),
	}

	var required []string
	for fieldName, field := range fields {
		prop, err := fieldSchema(qualify(name, fieldName), field)
		if err != nil {
			return nil, err
		}
		out.Properties[fieldName] = prop
		if field.Required {
			required = append(required, fieldName)
		}
	}

	sort.Strings(required)
	out.Required = required
	return out, nil
}

// fieldSchema translates a single field, recursing into object and array kinds.
func fieldSchema(name string, field Field) (*JSONSchema, error) {
	switch field.Kind {
	case String, Number, Boolean:
		return &JSONSchema{
			Type:        string(field.Kind),
			Description: field.Description,
		}, nil

	case Object:
		nested, err := objectSchema(name, field.Fields)
		if err != nil {
			return nil, err
		}
		nested.Description = field.Description
		return nested, nil

	case Array:
		out := &JSONSchema{
			Type:        "array",
			Description: field.Description,
		}
		if field.Items != nil {
			items, err := fieldSchema(name+"[]", *field.Items)
			if err != nil {
				return nil, err
			}
			out.Items = items
		}
		return out, nil

	default:
		return nil, &UnknownKindError{Field: name, Kind: field.Kind}
	}
}

func qualify(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
