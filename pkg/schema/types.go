// Package schema defines the Schema/FieldDef document model and the
// process-wide Schema Registry (spec.md section 3 and 4.1).
package schema

// FieldType enumerates the field types a FieldDef may declare. Unknown
// types are accepted by the parser and ignored by the validator per
// spec.md 4.2 ("Unknown types are ignored"); the Synthetic Generator fills
// them with random strings.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeInteger  FieldType = "integer"
	TypeFloat    FieldType = "float"
	TypeBoolean  FieldType = "boolean"
	TypeDate     FieldType = "date"
	TypeDateTime FieldType = "datetime"
	TypeEmail    FieldType = "email"
	TypePhone    FieldType = "phone"
	TypeAddress  FieldType = "address"
	TypeUUID     FieldType = "uuid"
	TypeEnum     FieldType = "enum"
	TypeObject   FieldType = "object"
	TypeArray    FieldType = "array"
)

// FieldDef describes one field of a Schema (spec.md section 3).
type FieldDef struct {
	Type        FieldType
	Required    bool
	Description string
	Format      string // template, e.g. "CRT-{year}-{random:7}"
	Default     interface{}

	Min *float64
	Max *float64

	MinLength *int
	MaxLength *int
	Pattern   string

	Values []interface{} // enum values

	// Fields/FieldOrder describe nested object fields; FieldOrder preserves
	// declaration order (insertion order matters for prompt rendering and
	// output stability per spec.md section 3).
	Fields     map[string]*FieldDef
	FieldOrder []string

	ItemSchema *FieldDef // array element schema
}

// Schema is a named entity document (spec.md section 3).
type Schema struct {
	Name            string
	Domain          string
	Description     string
	Fields          map[string]*FieldDef
	FieldOrder      []string
	CoherenceRules  []string
}

// FieldInfo is the flattened, read-only view returned by Registry.Info
// (spec.md 4.1).
type FieldInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Required    bool        `json:"required"`
	Description string      `json:"description,omitempty"`
	Example     interface{} `json:"example,omitempty"`
}

// Info is the registry-facing summary of a Schema.
type Info struct {
	Name        string      `json:"name"`
	Domain      string      `json:"domain"`
	Description string      `json:"description"`
	Fields      []FieldInfo `json:"fields"`
}

// ToInfo flattens a Schema into its Info view, in field declaration order.
func (s *Schema) ToInfo() *Info {
	info := &Info{Name: s.Name, Domain: s.Domain, Description: s.Description}
	for _, name := range s.FieldOrder {
		f := s.Fields[name]
		if f == nil {
			continue
		}
		info.Fields = append(info.Fields, FieldInfo{
			Name:        name,
			Type:        string(f.Type),
			Required:    f.Required,
			Description: f.Description,
			Example:     f.Default,
		})
	}
	return info
}
