package http

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"sdaadmin/app/internal/domain/admin"
	"sdaadmin/app/internal/domain/content"
	"sdaadmin/app/internal/presentation/http/templates"
	"sdaadmin/app/internal/textutil"
)

const (
	noImageLabel = "No image"
	noFileLabel  = "No file"
	emptyLabel   = "-"
	// refOptionLimit caps the records loaded for a select input; larger
	// tables fall back to an id input.
	refOptionLimit = 100
)

func resourceURL(key string) string {
	return adminRoot + "/" + key
}

func recordURL(key string, id any) string {
	return resourceURL(key) + "/" + fmt.Sprint(id)
}

func apiRecordURL(key string, id any) string {
	return "/api/resources/" + key + "/" + fmt.Sprint(id)
}

func withQuery(base string, params url.Values) string {
	if len(params) == 0 {
		return base
	}
	return base + "?" + params.Encode()
}

// displayText renders a single value as plain text in the given language.
// Localized values fall back to the other languages and then to legacy.
func displayText(value any, legacy string, tag language.Tag) string {
	switch v := value.(type) {
	case nil:
		return ""
	case content.Localized:
		return v.Resolve(tag, legacy)
	case map[string]any:
		if text, ok := v[languageCode(tag)].(string); ok && text != "" {
			return text
		}
		for _, code := range admin.LanguageCodes() {
			if text, ok := v[code].(string); ok && text != "" {
				return text
			}
		}
		return legacy
	case string:
		return v
	case content.Tags:
		return v.String()
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	default:
		return fmt.Sprint(v)
	}
}

func legacyValue(field admin.Field, values map[string]any) string {
	if field.Kind != admin.KindLocalized {
		return ""
	}
	legacy, _ := values[field.Key+"_legacy"].(string)
	return legacy
}

func recordTitle(res *admin.Resource, values map[string]any, tag language.Tag) string {
	return res.Title(values, func(field admin.Field, value any) string {
		return displayText(value, legacyValue(field, values), tag)
	})
}

func listCell(field admin.Field, values map[string]any, tag language.Tag) templates.Cell {
	value := values[field.Key]

	switch field.Kind {
	case admin.KindImage:
		if link, _ := value.(string); link != "" {
			return templates.Cell{ImageURL: link, Text: field.Label}
		}
		return templates.Cell{Placeholder: noImageLabel}
	case admin.KindFile:
		if link, _ := value.(string); link != "" {
			return templates.Cell{LinkURL: link, Text: path.Base(link)}
		}
		return templates.Cell{Placeholder: noFileLabel}
	case admin.KindRef:
		if id, ok := value.(uint); ok && id != 0 {
			return templates.Cell{LinkURL: recordURL(field.Ref, id), Text: "#" + strconv.FormatUint(uint64(id), 10)}
		}
		return templates.Cell{Placeholder: emptyLabel}
	case admin.KindText, admin.KindLocalized:
		text := textutil.Summarize(displayText(value, legacyValue(field, values), tag), textutil.SummaryLength)
		return templates.Cell{Text: text, Placeholder: emptyLabel}
	default:
		return templates.Cell{Text: displayText(value, "", tag), Placeholder: emptyLabel}
	}
}

// buildTable renders records of a resource as a list table.
func buildTable(res *admin.Resource, records []any, tag language.Tag) templates.Table {
	fields := res.ListFields()

	data := templates.Table{Empty: "No " + strings.ToLower(res.Plural) + " yet."}
	if len(fields) == 0 {
		data.Columns = []string{res.Singular}
	}
	for _, field := range fields {
		data.Columns = append(data.Columns, field.Label)
	}

	for _, record := range records {
		values := admin.Snapshot(record)
		row := templates.Row{
			EditURL: recordURL(res.Key, values["id"]),
			Title:   recordTitle(res, values, tag),
		}
		if len(fields) == 0 {
			row.Cells = []templates.Cell{{Text: row.Title}}
		}
		for _, field := range fields {
			row.Cells = append(row.Cells, listCell(field, values, tag))
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// navigation lists the top level resources with the active one marked.
func navigation(registry *admin.Registry, active string) []templates.NavItem {
	var items []templates.NavItem
	for _, res := range registry.TopLevel() {
		items = append(items, templates.NavItem{
			Label:  res.Plural,
			URL:    resourceURL(res.Key),
			Active: res.Key == active,
		})
	}
	return items
}

// navigationKey maps a child resource onto its top level ancestor.
func navigationKey(registry *admin.Registry, res *admin.Resource) string {
	for res != nil && res.Parent != nil {
		parent, err := registry.Get(res.Parent.Resource)
		if err != nil {
			break
		}
		res = parent
	}
	if res == nil {
		return ""
	}
	return res.Key
}

// formFields builds the inputs of a resource form from the current values.
// Values may hold stored record values or values submitted with a form.
func (s *Server) formFields(ctx context.Context, res *admin.Resource, values map[string]any, verr *admin.ValidationError, tag language.Tag) ([]templates.FormField, error) {
	fields := make([]templates.FormField, 0, len(res.Fields))
	for _, field := range res.Fields {
		input := templates.FormField{
			Name:      field.Key,
			Label:     field.Label,
			Kind:      string(field.Kind),
			Required:  field.Required,
			Multiline: field.Multiline,
		}
		if verr != nil {
			input.Error = verr.Fields[field.Key]
		}

		value := values[field.Key]
		switch field.Kind {
		case admin.KindLocalized:
			for _, code := range admin.LanguageCodes() {
				input.Variants = append(input.Variants, templates.Variant{
					Code:  code,
					Name:  languageNames[code],
					Value: variantValue(value, code),
				})
			}
		case admin.KindBool:
			input.Checked, _ = value.(bool)
		case admin.KindImage, admin.KindFile:
			input.CurrentURL, _ = value.(string)
			input.IsImage = field.Kind == admin.KindImage
			input.Clearable = !field.Required && input.CurrentURL != ""
		case admin.KindChoice:
			input.Value = displayText(value, "", tag)
			for _, choice := range field.Choices {
				input.Options = append(input.Options, templates.Option{Value: choice, Label: choice, Selected: choice == input.Value})
			}
		case admin.KindRef:
			input.Value = displayText(value, "", tag)
			options, err := s.refOptions(ctx, field, input.Value, tag)
			if err != nil {
				return nil, err
			}
			input.Options = options
		default:
			input.Value = displayText(value, "", tag)
		}

		fields = append(fields, input)
	}
	return fields, nil
}

func variantValue(value any, code string) string {
	switch v := value.(type) {
	case content.Localized:
		tag, err := language.Parse(code)
		if err != nil {
			return ""
		}
		return v.Get(tag)
	case map[string]any:
		text, _ := v[code].(string)
		return text
	default:
		return ""
	}
}

func (s *Server) refOptions(ctx context.Context, field admin.Field, selected string, tag language.Tag) ([]templates.Option, error) {
	target, err := s.admin.Registry().Get(field.Ref)
	if err != nil {
		return nil, err
	}

	page, err := s.admin.List(ctx, field.Ref, admin.ListOptions{PerPage: refOptionLimit})
	if err != nil {
		return nil, err
	}
	if page.Total > int64(len(page.Items)) {
		return nil, nil
	}

	options := make([]templates.Option, 0, len(page.Items))
	for _, item := range page.Items {
		values := admin.Snapshot(item)
		id := fmt.Sprint(values["id"])
		options = append(options, templates.Option{
			Value:    id,
			Label:    recordTitle(target, values, tag),
			Selected: id == selected,
		})
	}
	return options, nil
}

// mergeValues overlays submitted values onto a record snapshot.
func mergeValues(snapshot map[string]any, submitted admin.Values) map[string]any {
	merged := make(map[string]any, len(snapshot)+len(submitted))
	for key, value := range snapshot {
		merged[key] = value
	}
	for key, value := range submitted {
		merged[key] = value
	}
	return merged
}
