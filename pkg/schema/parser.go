package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/specmint/syndata/pkg/synerr"
)

// inlineDocumentMeta is the structural contract an inline GenerateRequest
// schema_ref document must satisfy, compiled once at package init and
// exercised by jsonschema/v6 on every inline schema before it is parsed
// into a *Schema.
const inlineDocumentMeta = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["name", "domain", "description", "fields"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"domain": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"fields": {"type": "object"},
		"coherence_rules": {"type": "array", "items": {"type": "string"}}
	}
}`

var compiledInlineDocument *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("inline-schema.json", strings.NewReader(inlineDocumentMeta)); err != nil {
		panic(fmt.Sprintf("synschema: invalid embedded meta-schema: %v", err))
	}
	compiled, err := compiler.Compile("inline-schema.json")
	if err != nil {
		panic(fmt.Sprintf("synschema: meta-schema failed to compile: %v", err))
	}
	compiledInlineDocument = compiled
}

// ParseInline parses a GenerateRequest's inline schema_ref document into a
// *Schema, preserving field declaration order (spec.md section 3 requires
// "insertion order matters"). It structurally validates the document via
// jsonschema/v6 before building the typed Schema.
func ParseInline(data []byte) (*Schema, error) {
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, synerr.Wrap(synerr.InvalidRequest, err, "inline schema is not valid JSON")
	}
	if err := compiledInlineDocument.Validate(generic); err != nil {
		return nil, synerr.Wrap(synerr.InvalidRequest, err, "inline schema failed structural validation")
	}

	root, fieldOrder, err := decodeOrderedObject(data)
	if err != nil {
		return nil, synerr.Wrap(synerr.InvalidRequest, err, "failed to decode inline schema")
	}

	s := &Schema{
		Name:        stringField(root, "name"),
		Domain:      stringField(root, "domain"),
		Description: stringField(root, "description"),
	}
	for _, rule := range sliceField(root, "coherence_rules") {
		if str, ok := rule.(string); ok {
			s.CoherenceRules = append(s.CoherenceRules, str)
		}
	}

	fieldsRaw, ok := root["fields"]
	if !ok {
		return s, nil
	}
	fieldsMap, ok := fieldsRaw.(map[string]interface{})
	if !ok {
		return nil, synerr.New(synerr.InvalidSchema, "fields must be an object")
	}
	_ = fieldOrder // field order of the top-level document isn't semantically meaningful; field order *within* "fields" is what matters and is recovered below.

	fieldsPath := []string{"fields"}
	order, err := orderedKeysAtPath(data, fieldsPath)
	if err != nil {
		order = sortedKeysFallback(fieldsMap)
	}

	s.FieldOrder = order
	s.Fields = make(map[string]*FieldDef, len(fieldsMap))
	for _, name := range order {
		raw, ok := fieldsMap[name].(map[string]interface{})
		if !ok {
			continue
		}
		fd, err := buildFieldDef(data, append(append([]string{}, fieldsPath...), name), raw)
		if err != nil {
			return nil, synerr.Wrap(synerr.InvalidSchema, err, fmt.Sprintf("field %q is invalid", name))
		}
		s.Fields[name] = fd
	}

	return s, nil
}

// buildFieldDef builds a FieldDef from its decoded JSON object. path is the
// key path from the document root down to raw, used to re-walk the raw
// token stream and recover declaration order for any nested "fields"
// object — encoding/json's map decoding above does not preserve it.
func buildFieldDef(data []byte, path []string, raw map[string]interface{}) (*FieldDef, error) {
	fd := &FieldDef{
		Type:        FieldType(stringField(raw, "type")),
		Required:    boolField(raw, "required"),
		Description: stringField(raw, "description"),
		Format:      stringField(raw, "format"),
		Default:     raw["default"],
		Pattern:     stringField(raw, "pattern"),
	}
	if v, ok := numericField(raw, "min"); ok {
		fd.Min = &v
	}
	if v, ok := numericField(raw, "max"); ok {
		fd.Max = &v
	}
	if v, ok := numericField(raw, "min_length"); ok {
		iv := int(v)
		fd.MinLength = &iv
	}
	if v, ok := numericField(raw, "max_length"); ok {
		iv := int(v)
		fd.MaxLength = &iv
	}
	fd.Values = sliceField(raw, "values")

	if nested, ok := raw["fields"].(map[string]interface{}); ok {
		nestedPath := append(append([]string{}, path...), "fields")
		order, err := orderedKeysAtPath(data, nestedPath)
		if err != nil {
			order = sortedKeysFallback(nested)
		}

		fd.FieldOrder = order
		fd.Fields = make(map[string]*FieldDef, len(nested))
		for _, name := range order {
			nraw, ok := nested[name].(map[string]interface{})
			if !ok {
				continue
			}
			childPath := append(append([]string{}, nestedPath...), name)
			nfd, err := buildFieldDef(data, childPath, nraw)
			if err != nil {
				return nil, err
			}
			fd.Fields[name] = nfd
		}
	}
	if item, ok := raw["item_schema"].(map[string]interface{}); ok {
		itemPath := append(append([]string{}, path...), "item_schema")
		ifd, err := buildFieldDef(data, itemPath, item)
		if err != nil {
			return nil, err
		}
		fd.ItemSchema = ifd
	}

	return fd, nil
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func boolField(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

func numericField(m map[string]interface{}, key string) (float64, bool) {
	v, ok := m[key].(float64)
	return v, ok
}

func sliceField(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key].([]interface{}); ok {
		return v
	}
	return nil
}

func sortedKeysFallback(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// decodeOrderedObject decodes the top-level JSON object into a generic map
// plus the declaration order of its keys.
func decodeOrderedObject(data []byte) (map[string]interface{}, []string, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, nil, err
	}
	order, err := orderedKeysAtPath(data, nil)
	if err != nil {
		order = sortedKeysFallback(m)
	}
	return m, order, nil
}

// orderedKeysAtPath walks the raw JSON token stream to recover the
// declaration order of the object reached by descending path from the
// document root, one key per level (an empty path means the root object
// itself). encoding/json's map decoding does not preserve order, and the
// Schema/FieldDef model requires it at every nesting depth for prompt
// rendering and output stability (spec.md section 3), not just at the
// top level.
func orderedKeysAtPath(data []byte, path []string) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening '{' of root object
		return nil, err
	}
	return objectKeysAtPath(dec, path)
}

// objectKeysAtPath expects dec positioned so dec.More() iterates the
// current object's key/value pairs (its opening '{' already consumed). It
// descends one path segment per recursive call and returns the key order
// of the object found once path is exhausted.
func objectKeysAtPath(dec *json.Decoder, path []string) ([]string, error) {
	if len(path) == 0 {
		return collectOpenObjectKeyOrder(dec)
	}

	target := path[0]
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)

		if key == target {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			delim, ok := tok.(json.Delim)
			if !ok || delim != '{' {
				return nil, fmt.Errorf("expected object at key %q", target)
			}
			return objectKeysAtPath(dec, path[1:])
		}
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("key %q not found", target)
}

// collectOpenObjectKeyOrder reads an object's key order given dec
// positioned just after that object's opening '{'.
func collectOpenObjectKeyOrder(dec *json.Decoder) ([]string, error) {
	var order []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		order = append(order, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, err
	}
	return order, nil
}

// skipValue consumes the next JSON value from dec, recursing through
// nested objects/arrays so the stream position lands after it.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil // scalar already consumed
	}
	switch delim {
	case '{', '[':
		depth := 1
		for depth > 0 {
			t, err := dec.Token()
			if err != nil {
				return err
			}
			if d, ok := t.(json.Delim); ok {
				switch d {
				case '{', '[':
					depth++
				case '}', ']':
					depth--
				}
			}
		}
	}
	return nil
}
