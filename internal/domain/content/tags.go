package content

import (
	"database/sql/driver"
	"strings"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Tags maps a Postgres text[] column. SQLite stores the same array literal in a text column.
type Tags []string

// GormDBDataType selects the column type per dialect.
func (Tags) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// Value encodes the tags as a Postgres array literal.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}

	var b strings.Builder
	b.WriteByte('{')
	for i, tag := range t {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		for _, r := range tag {
			if r == '"' || r == '\\' {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
		b.WriteByte('"')
	}
	b.WriteByte('}')

	return b.String(), nil
}

// Scan decodes a Postgres array literal.
func (t *Tags) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return eris.Errorf("unsupported tags source type %T", src)
	}

	parsed, err := parseArrayLiteral(raw)
	if err != nil {
		return eris.Wrapf(err, "parsing tags literal %q", raw)
	}

	*t = parsed
	return nil
}

// ParseTags splits a comma separated list, trimming blanks and dropping empties.
func ParseTags(raw string) Tags {
	parts := strings.Split(raw, ",")
	tags := make(Tags, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// String renders the tags the way the admin form expects them.
func (t Tags) String() string {
	return strings.Join(t, ", ")
}

func parseArrayLiteral(raw string) (Tags, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 || raw[0] != '{' || raw[len(raw)-1] != '}' {
		return nil, eris.New("array literal must be wrapped in braces")
	}

	body := raw[1 : len(raw)-1]
	tags := Tags{}
	if strings.TrimSpace(body) == "" {
		return tags, nil
	}

	var (
		current strings.Builder
		quoted  bool
		escaped bool
		wasQuot bool
	)

	flush := func() {
		value := current.String()
		if !wasQuot {
			value = strings.TrimSpace(value)
			if strings.EqualFold(value, "NULL") {
				value = ""
			}
		}
		tags = append(tags, value)
		current.Reset()
		wasQuot = false
	}

	for _, r := range body {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			if !quoted && strings.TrimSpace(current.String()) == "" {
				current.Reset()
			}
			quoted = !quoted
			wasQuot = true
		case r == ',' && !quoted:
			flush()
		case !quoted && wasQuot && (r == ' ' || r == '\t'):
			// whitespace after a closing quote
		default:
			current.WriteRune(r)
		}
	}

	if quoted || escaped {
		return nil, eris.New("unterminated quoted element")
	}
	flush()

	return tags, nil
}
