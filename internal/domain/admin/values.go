package admin

import (
	"math"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rotisserie/eris"

	"sdaadmin/app/internal/domain/content"
)

// Values holds normalized attribute values keyed by field key.
//
// Text kinds map to string (or nil for an empty nullable field), int kinds to
// int, refs to uint, bools to bool, tags to content.Tags and localized fields
// to a map of language code to string or nil.
type Values map[string]any

// readOnlyKeys are accepted in JSON bodies and ignored, so clients can send
// back a record they fetched.
var readOnlyKeys = []string{"id", "created_at", "updated_at"}

const (
	msgRequired = "This field is required."
	msgInteger  = "Enter a whole number."
	msgChoice   = "Select a valid choice."
)

// LanguageCodes returns the base codes of the supported languages.
func LanguageCodes() []string {
	codes := make([]string, 0, len(content.Languages))
	for _, tag := range content.Languages {
		base, _ := tag.Base()
		codes = append(codes, base.String())
	}
	return codes
}

// LocalizedInputName returns the form input name of one language variant.
func LocalizedInputName(field Field, code string) string {
	return field.Key + "." + code
}

// ParseForm normalizes an HTML form submission. Inputs absent from the form
// leave the field untouched, except checkboxes which are absent when unchecked.
func ParseForm(res *Resource, form url.Values) (Values, error) {
	values := Values{}
	verr := NewValidationError()

	for _, field := range res.Fields {
		switch field.Kind {
		case KindLocalized:
			variants := map[string]any{}
			for _, code := range LanguageCodes() {
				name := LocalizedInputName(field, code)
				if _, present := form[name]; present {
					variants[code] = optionalString(form.Get(name))
				}
			}
			if len(variants) > 0 {
				values[field.Key] = variants
			}
		case KindBool:
			values[field.Key] = parseCheckbox(form.Get(field.Key))
		default:
			if _, present := form[field.Key]; !present {
				continue
			}
			value, msg := coerceString(field, form.Get(field.Key))
			if msg != "" {
				verr.Add(field.Key, msg)
				continue
			}
			values[field.Key] = value
		}
	}

	if !verr.Empty() {
		return values, verr
	}
	return values, nil
}

// FromJSON normalizes a decoded JSON object. Unknown keys are rejected.
func FromJSON(res *Resource, body map[string]any) (Values, error) {
	values := Values{}
	verr := NewValidationError()

	for key, raw := range body {
		if slices.Contains(readOnlyKeys, key) {
			continue
		}
		field, ok := res.Field(key)
		if !ok {
			verr.Add(key, "Unknown field.")
			continue
		}

		value, msg := coerceJSON(field, raw)
		if msg != "" {
			verr.Add(key, msg)
			continue
		}
		values[key] = value
	}

	if !verr.Empty() {
		return values, verr
	}
	return values, nil
}

// Decode applies values onto a record pointer.
func Decode(record any, values Values) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Squash:     true,
		ZeroFields: true,
		Result:     record,
	})
	if err != nil {
		return eris.Wrap(err, "building record decoder")
	}

	if err := decoder.Decode(map[string]any(values)); err != nil {
		return eris.Wrap(err, "decoding values into record")
	}
	return nil
}

// Snapshot reads a record into a map keyed by JSON name. Pointers are
// dereferenced, nil pointers become nil.
func Snapshot(record any) map[string]any {
	out := map[string]any{}
	value := reflect.Indirect(reflect.ValueOf(record))
	if value.Kind() != reflect.Struct {
		return out
	}
	snapshotStruct(value, out)
	return out
}

func snapshotStruct(value reflect.Value, out map[string]any) {
	typ := value.Type()
	for i := 0; i < typ.NumField(); i++ {
		structField := typ.Field(i)
		if !structField.IsExported() {
			continue
		}
		fieldValue := value.Field(i)

		name := strings.Split(structField.Tag.Get("json"), ",")[0]
		if structField.Anonymous && name == "" && fieldValue.Kind() == reflect.Struct {
			snapshotStruct(fieldValue, out)
			continue
		}
		if name == "" || name == "-" {
			continue
		}

		if fieldValue.Kind() == reflect.Pointer {
			if fieldValue.IsNil() {
				out[name] = nil
				continue
			}
			fieldValue = fieldValue.Elem()
		}
		out[name] = fieldValue.Interface()
	}
}

func coerceString(field Field, raw string) (any, string) {
	trimmed := strings.TrimSpace(raw)

	switch field.Kind {
	case KindInt:
		if trimmed == "" {
			if field.Nullable {
				return nil, ""
			}
			return 0, ""
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, msgInteger
		}
		return n, ""
	case KindRef:
		if trimmed == "" {
			if field.Nullable {
				return nil, ""
			}
			return nil, msgRequired
		}
		id, err := strconv.ParseUint(trimmed, 10, 64)
		if err != nil || id == 0 {
			return nil, "Select a valid record."
		}
		return uint(id), ""
	case KindTags:
		return content.ParseTags(raw), ""
	case KindChoice:
		if trimmed == "" {
			return "", ""
		}
		if !slices.Contains(field.Choices, trimmed) {
			return nil, msgChoice
		}
		return trimmed, ""
	case KindBool:
		return parseCheckbox(trimmed), ""
	default:
		if field.Nullable {
			return optionalString(raw), ""
		}
		return strings.TrimSpace(raw), ""
	}
}

func coerceJSON(field Field, raw any) (any, string) {
	if raw == nil {
		switch field.Kind {
		case KindTags:
			return content.Tags{}, ""
		case KindBool:
			return false, ""
		case KindLocalized:
			return map[string]any{}, ""
		}
		if field.Nullable {
			return nil, ""
		}
		if field.Kind == KindText || field.Kind == KindImage || field.Kind == KindFile {
			return "", ""
		}
		return nil, msgRequired
	}

	switch field.Kind {
	case KindLocalized:
		object, ok := raw.(map[string]any)
		if !ok {
			return nil, "Expected an object keyed by language code."
		}
		variants := map[string]any{}
		for code, variant := range object {
			if !slices.Contains(LanguageCodes(), code) {
				return nil, "Unsupported language " + strconv.Quote(code) + "."
			}
			switch v := variant.(type) {
			case nil:
				variants[code] = nil
			case string:
				variants[code] = optionalString(v)
			default:
				return nil, "Expected a string for language " + strconv.Quote(code) + "."
			}
		}
		return variants, ""
	case KindBool:
		switch v := raw.(type) {
		case bool:
			return v, ""
		case string:
			return parseCheckbox(v), ""
		}
		return nil, "Expected a boolean."
	case KindTags:
		switch v := raw.(type) {
		case string:
			return content.ParseTags(v), ""
		case []any:
			tags := make(content.Tags, 0, len(v))
			for _, item := range v {
				text, ok := item.(string)
				if !ok {
					return nil, "Expected a list of strings."
				}
				if trimmed := strings.TrimSpace(text); trimmed != "" {
					tags = append(tags, trimmed)
				}
			}
			return tags, ""
		}
		return nil, "Expected a list of strings."
	case KindInt, KindRef:
		if number, ok := raw.(float64); ok {
			if number != math.Trunc(number) {
				return nil, msgInteger
			}
			raw = strconv.FormatFloat(number, 'f', 0, 64)
		}
		text, ok := raw.(string)
		if !ok {
			return nil, msgInteger
		}
		return coerceString(field, text)
	default:
		text, ok := raw.(string)
		if !ok {
			return nil, "Expected a string."
		}
		return coerceString(field, text)
	}
}

func parseCheckbox(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

func optionalString(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return trimmed
}
