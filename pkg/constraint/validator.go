// Package constraint implements the Constraint Validator (spec.md 4.2): a
// pure, recursive, non-short-circuiting check of a record against its
// schema plus any request-level per-field constraint overrides.
package constraint

import (
	"fmt"
	"regexp"
	"sync"
	"unicode/utf8"

	"github.com/specmint/syndata/pkg/model"
	"github.com/specmint/syndata/pkg/schema"
)

// Issue is one validation failure (spec.md 4.2).
type Issue struct {
	FieldPath      string
	Message        string
	OffendingValue interface{}
}

// regexCache memoizes compiled patterns across concurrent Validate calls
// (spec.md section 5: multiple RPCs share this process). sync.Map avoids
// a hand-rolled mutex for what is a pure read-mostly memoization cache.
var regexCache sync.Map

// Validate checks record against sch (may be nil, meaning no schema
// resolved — spec.md 4.10 step 4 treats this as empty context, not
// failure) and the request-level constraints map. It never short-circuits:
// every violation in the record is collected and returned.
//
// Open question (spec.md section 9) resolved: pattern/regex values are
// matched full-string. A caller-supplied pattern that does not already
// start with "^" or end with "$" is wrapped so both ends are anchored.
func Validate(sch *schema.Schema, constraints map[string]model.ConstraintSpec, record model.Record) []Issue {
	if sch == nil {
		return nil
	}

	var issues []Issue
	for _, name := range sch.FieldOrder {
		fd := sch.Fields[name]
		if fd == nil {
			continue
		}
		value, present := record[name]
		validateField(name, fd, constraints, value, present, &issues)
	}
	return issues
}

func validateField(path string, fd *schema.FieldDef, constraints map[string]model.ConstraintSpec, value interface{}, present bool, issues *[]Issue) {
	if !present {
		if fd.Required {
			*issues = append(*issues, Issue{FieldPath: path, Message: "required field is missing"})
		}
		return
	}

	override, hasOverride := constraints[path]

	switch fd.Type {
	case schema.TypeInteger:
		validateInteger(path, fd, override, hasOverride, value, issues)
	case schema.TypeFloat:
		validateFloat(path, fd, override, hasOverride, value, issues)
	case schema.TypeString, schema.TypeEmail, schema.TypePhone, schema.TypeAddress,
		schema.TypeUUID, schema.TypeDate, schema.TypeDateTime:
		validateString(path, fd, override, hasOverride, value, issues)
	case schema.TypeEnum:
		validateEnum(path, fd, override, hasOverride, value, issues)
	case schema.TypeBoolean:
		if _, ok := value.(bool); !ok {
			*issues = append(*issues, Issue{FieldPath: path, Message: "expected boolean", OffendingValue: value})
		}
	case schema.TypeArray:
		validateArray(path, fd, constraints, value, issues)
	case schema.TypeObject:
		validateObject(path, fd, constraints, value, issues)
	default:
		// Unknown types are ignored (spec.md 4.2).
	}
}

func validateInteger(path string, fd *schema.FieldDef, override model.ConstraintSpec, hasOverride bool, value interface{}, issues *[]Issue) {
	if _, isBool := value.(bool); isBool {
		*issues = append(*issues, Issue{FieldPath: path, Message: "integer field must not be boolean", OffendingValue: value})
		return
	}
	num, ok := asFloat(value)
	if !ok {
		*issues = append(*issues, Issue{FieldPath: path, Message: "expected integer", OffendingValue: value})
		return
	}

	min, max, hasMin, hasMax := resolveMinMax(fd.Min, fd.Max, override, hasOverride)
	if hasMin && num < min {
		*issues = append(*issues, Issue{FieldPath: path, Message: fmt.Sprintf("value %v below minimum %v", num, min), OffendingValue: value})
	}
	if hasMax && num > max {
		*issues = append(*issues, Issue{FieldPath: path, Message: fmt.Sprintf("value %v above maximum %v", num, max), OffendingValue: value})
	}
}

func validateFloat(path string, fd *schema.FieldDef, override model.ConstraintSpec, hasOverride bool, value interface{}, issues *[]Issue) {
	num, ok := asFloat(value)
	if !ok {
		*issues = append(*issues, Issue{FieldPath: path, Message: "expected numeric value", OffendingValue: value})
		return
	}
	min, max, hasMin, hasMax := resolveMinMax(fd.Min, fd.Max, override, hasOverride)
	if hasMin && num < min {
		*issues = append(*issues, Issue{FieldPath: path, Message: fmt.Sprintf("value %v below minimum %v", num, min), OffendingValue: value})
	}
	if hasMax && num > max {
		*issues = append(*issues, Issue{FieldPath: path, Message: fmt.Sprintf("value %v above maximum %v", num, max), OffendingValue: value})
	}
}

func validateString(path string, fd *schema.FieldDef, override model.ConstraintSpec, hasOverride bool, value interface{}, issues *[]Issue) {
	str, ok := value.(string)
	if !ok {
		*issues = append(*issues, Issue{FieldPath: path, Message: "expected string", OffendingValue: value})
		return
	}

	minLen, maxLen, hasMin, hasMax := resolveLengths(fd.MinLength, fd.MaxLength, override, hasOverride)
	n := utf8.RuneCountInString(str)
	if hasMin && n < minLen {
		*issues = append(*issues, Issue{FieldPath: path, Message: fmt.Sprintf("length %d below minimum %d", n, minLen), OffendingValue: value})
	}
	if hasMax && n > maxLen {
		*issues = append(*issues, Issue{FieldPath: path, Message: fmt.Sprintf("length %d above maximum %d", n, maxLen), OffendingValue: value})
	}

	pattern := fd.Pattern
	if hasOverride && override.Regex != "" {
		pattern = override.Regex
	}
	if pattern != "" {
		re, err := compileAnchored(pattern)
		if err == nil && !re.MatchString(str) {
			*issues = append(*issues, Issue{FieldPath: path, Message: fmt.Sprintf("value does not match pattern %q", pattern), OffendingValue: value})
		}
	}
}

func validateEnum(path string, fd *schema.FieldDef, override model.ConstraintSpec, hasOverride bool, value interface{}, issues *[]Issue) {
	values := fd.Values
	if hasOverride && len(override.EnumValues) > 0 {
		values = override.EnumValues
	}
	for _, v := range values {
		if v == value {
			return
		}
	}
	*issues = append(*issues, Issue{FieldPath: path, Message: "value not in enum", OffendingValue: value})
}

func validateArray(path string, fd *schema.FieldDef, constraints map[string]model.ConstraintSpec, value interface{}, issues *[]Issue) {
	items, ok := value.([]interface{})
	if !ok {
		*issues = append(*issues, Issue{FieldPath: path, Message: "expected array", OffendingValue: value})
		return
	}
	if fd.ItemSchema == nil {
		return
	}
	for i, item := range items {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		if fd.ItemSchema.Type == schema.TypeObject {
			validateObject(itemPath, fd.ItemSchema, constraints, item, issues)
			continue
		}
		validateField(itemPath, fd.ItemSchema, constraints, item, true, issues)
	}
}

func validateObject(path string, fd *schema.FieldDef, constraints map[string]model.ConstraintSpec, value interface{}, issues *[]Issue) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		if rec, ok := value.(model.Record); ok {
			obj = map[string]interface{}(rec)
		} else {
			*issues = append(*issues, Issue{FieldPath: path, Message: "expected object", OffendingValue: value})
			return
		}
	}
	for _, name := range fd.FieldOrder {
		nested := fd.Fields[name]
		if nested == nil {
			continue
		}
		nestedPath := path + "." + name
		v, present := obj[name]
		validateField(nestedPath, nested, constraints, v, present, issues)
	}
}

func resolveMinMax(schemaMin, schemaMax *float64, override model.ConstraintSpec, hasOverride bool) (min, max float64, hasMin, hasMax bool) {
	if hasOverride && override.Min != nil {
		min, hasMin = *override.Min, true
	} else if schemaMin != nil {
		min, hasMin = *schemaMin, true
	}
	if hasOverride && override.Max != nil {
		max, hasMax = *override.Max, true
	} else if schemaMax != nil {
		max, hasMax = *schemaMax, true
	}
	return
}

func resolveLengths(schemaMin, schemaMax *int, override model.ConstraintSpec, hasOverride bool) (min, max int, hasMin, hasMax bool) {
	if hasOverride && override.MinLength != nil {
		min, hasMin = *override.MinLength, true
	} else if schemaMin != nil {
		min, hasMin = *schemaMin, true
	}
	if hasOverride && override.MaxLength != nil {
		max, hasMax = *override.MaxLength, true
	} else if schemaMax != nil {
		max, hasMax = *schemaMax, true
	}
	return
}

func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func compileAnchored(pattern string) (*regexp.Regexp, error) {
	if cached, ok := regexCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	anchored := pattern
	if len(anchored) == 0 || anchored[0] != '^' {
		anchored = "^" + anchored
	}
	if len(anchored) == 0 || anchored[len(anchored)-1] != '$' {
		anchored = anchored + "$"
	}
	re, err := regexp.Compile(anchored)
	if err != nil {
		return nil, err
	}
	actual, _ := regexCache.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp), nil
}
