// Package schema defines the parameter schema tree that is the single source
// of truth for every tool's input shape, and the translation from that tree
// to the JSON-Schema wire format both protocol surfaces consume.
package schema

import "fmt"

// Kind is the primitive kind of a schema field.
type Kind string

const (
	String  Kind = "string"
	Number  Kind = "number"
	Boolean Kind = "boolean"
	Object  Kind = "object"
	Array   Kind = "array"
)

// Field describes one named parameter. Object fields carry a nested field
// map; array fields carry an item schema.
type Field struct {
	Kind        Kind
	Description string
	Required    bool
	Fields      map[string]Field // object kind only
	Items       *Field           // array kind only
}

// Params is the root of a tool's parameter schema: a map of field name to
// field definition. The wire schema derived from it is always an object.
type Params map[string]Field

// UnknownKindError reports a field kind the translator does not recognize.
// It is a programmer error surfaced at registration time so the two protocol
// surfaces can never drift from the registry's notion of a tool's shape.
type UnknownKindError struct {
	Field string
	Kind  Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("schema field %q has unknown kind %q", e.Field, e.Kind)
}
