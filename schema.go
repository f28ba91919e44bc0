package scrub

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register tags with sentinel
	sentinel.Tag("scrub")
	sentinel.Tag("json")
}

// Tag presets accepted in `scrub:"..."`.
const (
	PresetPhone  = "phone"
	PresetIDCard = "idcard"
	PresetEmail  = "email"
	PresetToken  = "token"
	PresetFull   = "full"
	PresetDigest = "digest"
)

var (
	schemaCache = make(map[reflect.Type]*Registry)
	schemaMu    sync.RWMutex
)

// RegistryFor returns a registry derived from the `scrub` tags of struct T.
//
// Each tagged field contributes its json name (or, without one, its Go
// name) as an alias of the rule for its preset. Nested structs, pointers
// to structs and slices of structs are scanned too. Results are cached
// per type.
func RegistryFor[T any]() (*Registry, error) {
	typ := reflect.TypeFor[T]()

	// Fast path: read-lock cache check
	schemaMu.RLock()
	if cached, ok := schemaCache[typ]; ok {
		schemaMu.RUnlock()
		return cached, nil
	}
	schemaMu.RUnlock()

	// Slow path: build and cache with write-lock
	schemaMu.Lock()
	defer schemaMu.Unlock()

	// Double-check pattern
	if cached, ok := schemaCache[typ]; ok {
		return cached, nil
	}

	if typ.Kind() != reflect.Struct {
		return nil, newRuleError(ErrInvalidTag, "", fmt.Sprintf("%s is not a struct", typ))
	}

	reg, err := buildSchemaRegistry(typ, sentinel.Scan[T]())
	if err != nil {
		return nil, err
	}

	schemaCache[typ] = reg
	return reg, nil
}

// Reset clears the struct registry cache.
// This is primarily useful for test isolation.
func Reset() {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	schemaCache = make(map[reflect.Type]*Registry)
}

// schemaAliases groups aliases by preset, keeping first-seen preset order.
type schemaAliases struct {
	order   []string
	aliases map[string][]string
	visited map[reflect.Type]bool
}

func buildSchemaRegistry(typ reflect.Type, spec sentinel.Metadata) (*Registry, error) {
	sa := &schemaAliases{
		aliases: make(map[string][]string),
		visited: map[reflect.Type]bool{typ: true},
	}
	if err := sa.collect(spec.Fields, ""); err != nil {
		return nil, err
	}

	rules := make([]*Rule, 0, len(sa.order))
	for _, preset := range sa.order {
		rule, err := presetRule(spec.TypeName+"."+preset, preset, sa.aliases[preset])
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return NewRegistry(rules...), nil
}

// collect walks fields recursively and records tagged aliases. Untagged
// struct fields are descended into; a tagged struct field masks as a whole.
func (sa *schemaAliases) collect(fields []sentinel.FieldMetadata, namePrefix string) error {
	for _, field := range fields {
		fullName := field.Name
		if namePrefix != "" {
			fullName = namePrefix + "." + field.Name
		}

		preset, ok := field.Tags["scrub"]
		if !ok || preset == "" || preset == "-" {
			nested := nestedStructType(field)
			if nested == nil || sa.visited[nested] {
				continue
			}
			sa.visited[nested] = true
			if err := sa.collect(nestedFields(nested), fullName); err != nil {
				return err
			}
			continue
		}
		preset = strings.ToLower(strings.TrimSpace(preset))
		if !isValidPreset(preset) {
			return newRuleError(ErrInvalidTag, "", fmt.Sprintf("preset %q for field %s", preset, fullName))
		}

		if _, seen := sa.aliases[preset]; !seen {
			sa.order = append(sa.order, preset)
		}
		sa.aliases[preset] = append(sa.aliases[preset], fieldAlias(field))
	}
	return nil
}

// nestedStructType returns the struct type to descend into, or nil.
func nestedStructType(field sentinel.FieldMetadata) reflect.Type {
	rt := field.ReflectType
	if rt == nil {
		return nil
	}
	for rt.Kind() == reflect.Ptr || rt.Kind() == reflect.Slice || rt.Kind() == reflect.Array {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil
	}
	return rt
}

// fieldAlias returns the json name of a field, falling back to its Go name.
func fieldAlias(field sentinel.FieldMetadata) string {
	if tag, ok := field.Tags["json"]; ok {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}

// nestedFields returns the exported fields of a nested struct type. Types
// sentinel has already scanned come from its cache; others are read with
// reflect, keeping only the name, type and the tags collect looks at.
func nestedFields(rt reflect.Type) []sentinel.FieldMetadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return spec.Fields
	}

	fields := make([]sentinel.FieldMetadata, 0, rt.NumField())
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		fields = append(fields, sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        schemaTags(sf.Tag),
		})
	}
	return fields
}

// schemaTags extracts the scrub and json tags.
func schemaTags(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string, 2)
	for _, key := range []string{"scrub", "json"} {
		if v, ok := tag.Lookup(key); ok {
			tags[key] = v
		}
	}
	return tags
}

func isValidPreset(preset string) bool {
	switch preset {
	case PresetPhone, PresetIDCard, PresetEmail, PresetToken, PresetFull, PresetDigest:
		return true
	}
	return false
}

// presetRule builds a rule for aliases with the parameters of a preset.
func presetRule(name, preset string, aliases []string) (*Rule, error) {
	var base *Rule
	switch preset {
	case PresetPhone:
		base = phoneRule
	case PresetIDCard:
		base = idCardRule
	case PresetEmail:
		base = emailRule
	case PresetDigest:
		return NewRule(name).Fields(aliases...).Type(MaskDigest).Build()
	default:
		return NewRule(name).Fields(aliases...).Type(MaskFull).Kind(KindToken).Build()
	}

	return NewRule(name).
		Fields(aliases...).
		Type(base.maskType).
		Kind(base.kind).
		KeepPrefix(base.keepPrefix).
		KeepSuffix(base.keepSuffix).
		MaskChar(base.maskChar).
		MinLength(base.minLength).
		Build()
}
