package content

import (
	"time"

	"golang.org/x/text/language"
)

// Base carries the identifier and timestamp columns every content table shares.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Languages lists the content languages supported by the site, in fallback order.
var Languages = []language.Tag{
	language.English,
	language.Azerbaijani,
	language.Russian,
}

var languageMatcher = language.NewMatcher(Languages)

// Localized holds the per-language variants of a text column.
//
// It is embedded with a column prefix, so a `Title Localized` field with
// `embeddedPrefix:title_` maps to title_en, title_az and title_ru.
type Localized struct {
	EN *string `gorm:"column:en;type:text" json:"en,omitempty"`
	AZ *string `gorm:"column:az;type:text" json:"az,omitempty"`
	RU *string `gorm:"column:ru;type:text" json:"ru,omitempty"`
}

// Text builds a Localized value from explicit variants. Empty strings stay unset.
func Text(en, az, ru string) Localized {
	return Localized{EN: optional(en), AZ: optional(az), RU: optional(ru)}
}

// Get returns the variant for the given language base, or "" when unset.
func (l Localized) Get(tag language.Tag) string {
	base, _ := tag.Base()
	switch base.String() {
	case "az":
		return deref(l.AZ)
	case "ru":
		return deref(l.RU)
	default:
		return deref(l.EN)
	}
}

// Resolve picks the best available text for the requested language.
// It tries the closest supported language first, then the remaining ones
// in fallback order, and finally the legacy single-language value.
func (l Localized) Resolve(tag language.Tag, legacy string) string {
	_, idx, _ := languageMatcher.Match(tag)
	if text := l.Get(Languages[idx]); text != "" {
		return text
	}

	for _, candidate := range Languages {
		if text := l.Get(candidate); text != "" {
			return text
		}
	}

	return legacy
}

// IsZero reports whether no variant is set.
func (l Localized) IsZero() bool {
	return deref(l.EN) == "" && deref(l.AZ) == "" && deref(l.RU) == ""
}

// MatchLanguage maps an arbitrary tag list (for example a parsed
// Accept-Language header) onto the supported languages.
func MatchLanguage(fallback language.Tag, preferred ...language.Tag) language.Tag {
	if len(preferred) == 0 {
		preferred = []language.Tag{fallback}
	}

	_, idx, confidence := languageMatcher.Match(preferred...)
	if confidence == language.No {
		_, idx, _ = languageMatcher.Match(fallback)
	}

	return Languages[idx]
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
