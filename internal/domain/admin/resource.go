package admin

import (
	"strings"

	"sdaadmin/app/internal/domain/content"
)

// Kind describes how a field is edited and displayed.
type Kind string

const (
	KindText      Kind = "text"
	KindLocalized Kind = "localized"
	KindInt       Kind = "int"
	KindBool      Kind = "bool"
	KindImage     Kind = "image"
	KindFile      Kind = "file"
	KindTags      Kind = "tags"
	KindRef       Kind = "ref"
	KindChoice    Kind = "choice"
)

// Field describes one editable attribute of a resource.
type Field struct {
	// Key is the JSON name of the attribute and the form input name.
	Key string `json:"key"`
	// Column is the database column. Localized fields use it as the column prefix.
	Column    string   `json:"column"`
	Label     string   `json:"label"`
	Kind      Kind     `json:"kind"`
	Multiline bool     `json:"multiline,omitempty"`
	Required  bool     `json:"required,omitempty"`
	Nullable  bool     `json:"nullable,omitempty"`
	List      bool     `json:"list,omitempty"`
	Search    bool     `json:"search,omitempty"`
	Choices   []string `json:"choices,omitempty"`
	Ref       string   `json:"ref,omitempty"`
}

// Listed marks the field as a list view column.
func (f Field) Listed() Field { f.List = true; return f }

// Searchable includes the field's columns in list searches.
func (f Field) Searchable() Field { f.Search = true; return f }

// Mandatory marks the field as required on forms.
func (f Field) Mandatory() Field { f.Required = true; return f }

// Textarea renders the field as a multi-line input.
func (f Field) Textarea() Field { f.Multiline = true; return f }

// Columns returns the database columns backing the field.
func (f Field) Columns() []string {
	if f.Kind != KindLocalized {
		return []string{f.Column}
	}

	columns := make([]string, 0, len(content.Languages))
	for _, tag := range content.Languages {
		base, _ := tag.Base()
		columns = append(columns, f.Column+base.String())
	}
	return columns
}

// IsUpload reports whether the field accepts a file that is relayed to storage.
func (f Field) IsUpload() bool {
	return f.Kind == KindImage || f.Kind == KindFile
}

// OrderBy is one term of a resource's default list ordering.
type OrderBy struct {
	Column string `json:"column"`
	Desc   bool   `json:"desc,omitempty"`
}

// ParentLink marks a resource as an inline child of another resource.
type ParentLink struct {
	Resource string `json:"resource"`
	// Field is the key of the foreign key field on the child.
	Field string `json:"field"`
}

// Resource binds a content table to its admin screens.
type Resource struct {
	Key      string      `json:"key"`
	Table    string      `json:"table"`
	Singular string      `json:"singular"`
	Plural   string      `json:"plural"`
	Ordering []OrderBy   `json:"ordering"`
	Parent   *ParentLink `json:"parent,omitempty"`
	Fields   []Field     `json:"fields"`

	newRecord func() any
	newList   func() any
}

func define[T any](r Resource) *Resource {
	r.newRecord = func() any { return new(T) }
	r.newList = func() any { return new([]T) }
	return &r
}

// New returns a pointer to a zero record of the resource's model.
func (r *Resource) New() any {
	return r.newRecord()
}

// NewList returns a pointer to an empty slice of the resource's model.
func (r *Resource) NewList() any {
	return r.newList()
}

// Field finds a field by key.
func (r *Resource) Field(key string) (Field, bool) {
	for _, field := range r.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return Field{}, false
}

// ListFields returns the fields shown as list columns, in declaration order.
func (r *Resource) ListFields() []Field {
	fields := make([]Field, 0, len(r.Fields))
	for _, field := range r.Fields {
		if field.List {
			fields = append(fields, field)
		}
	}
	return fields
}

// UploadFields returns the fields that accept relayed files.
func (r *Resource) UploadFields() []Field {
	var fields []Field
	for _, field := range r.Fields {
		if field.IsUpload() {
			fields = append(fields, field)
		}
	}
	return fields
}

// SearchColumns returns every column matched by a list search.
func (r *Resource) SearchColumns() []string {
	var columns []string
	for _, field := range r.Fields {
		if field.Search {
			columns = append(columns, field.Columns()...)
		}
	}
	return columns
}

// ParentColumn returns the foreign key column linking to the parent, if any.
func (r *Resource) ParentColumn() string {
	if r.Parent == nil {
		return ""
	}
	if field, ok := r.Field(r.Parent.Field); ok {
		return field.Column
	}
	return ""
}

// Title returns the human label shown for a record: the first listed text
// value, or the singular name with the record identifier.
func (r *Resource) Title(values map[string]any, display func(Field, any) string) string {
	for _, field := range r.ListFields() {
		if field.Kind != KindText && field.Kind != KindLocalized {
			continue
		}
		if text := strings.TrimSpace(display(field, values[field.Key])); text != "" {
			return text
		}
	}
	return r.Singular + " #" + idString(values["id"])
}
