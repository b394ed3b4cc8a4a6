package http

import (
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"sdaadmin/app/internal/domain/admin"
	"sdaadmin/app/internal/domain/content"
	"sdaadmin/app/internal/presentation/http/templates"
)

var languageNames = map[string]string{
	"en": "English",
	"az": "Azərbaycan",
	"ru": "Русский",
}

// requestLanguage picks the display language from the lang query parameter,
// then the Accept-Language header, then the configured default.
func (s *Server) requestLanguage(lang, acceptLanguage string) language.Tag {
	if lang = strings.TrimSpace(lang); lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			return content.MatchLanguage(s.language, tag)
		}
	}

	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
			return content.MatchLanguage(s.language, tags...)
		}
	}

	return s.language
}

func languageCode(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

// languageLinks builds the language switches for a page URL, keeping its
// other query parameters.
func languageLinks(path string, query url.Values, current language.Tag) []templates.LanguageLink {
	active := languageCode(current)
	links := make([]templates.LanguageLink, 0, len(content.Languages))
	for _, code := range admin.LanguageCodes() {
		params := url.Values{}
		for key, values := range query {
			params[key] = values
		}
		params.Set("lang", code)
		links = append(links, templates.LanguageLink{
			Code:   code,
			URL:    path + "?" + params.Encode(),
			Active: code == active,
		})
	}
	return links
}
