package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestLocalizedResolvePrefersRequestedLanguage(t *testing.T) {
	t.Parallel()

	text := Text("Projects", "Layihələr", "Проекты")

	assert.Equal(t, "Layihələr", text.Resolve(language.Azerbaijani, "legacy"))
	assert.Equal(t, "Проекты", text.Resolve(language.MustParse("ru-RU"), "legacy"))
	assert.Equal(t, "Projects", text.Resolve(language.English, "legacy"))
}

func TestLocalizedResolveFallsBackInOrder(t *testing.T) {
	t.Parallel()

	onlyRussian := Text("", "", "Проекты")
	assert.Equal(t, "Проекты", onlyRussian.Resolve(language.Azerbaijani, "legacy"))

	empty := Localized{}
	assert.Equal(t, "legacy", empty.Resolve(language.English, "legacy"))
	assert.True(t, empty.IsZero())
}

func TestMatchLanguageUsesFallbackForUnsupportedTags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, language.Azerbaijani, MatchLanguage(language.Azerbaijani, language.Japanese))
	assert.Equal(t, language.Russian, MatchLanguage(language.English, language.MustParse("ru-UA"), language.English))
	assert.Equal(t, language.English, MatchLanguage(language.English))
}

func TestContactMessageDisplayName(t *testing.T) {
	t.Parallel()

	first, last, name := "Aysel", "Mammadova", "Aysel M."

	assert.Equal(t, "Aysel M.", ContactMessage{Name: &name, FirstName: &first}.DisplayName())
	assert.Equal(t, "Aysel Mammadova", ContactMessage{FirstName: &first, LastName: &last}.DisplayName())
	assert.Equal(t, "Mammadova", ContactMessage{LastName: &last}.DisplayName())
}

func TestContactMessageBeforeSaveDefaultsStatus(t *testing.T) {
	t.Parallel()

	msg := &ContactMessage{}
	assert.NoError(t, msg.BeforeSave(nil))
	assert.Equal(t, StatusNew, msg.Status)
	assert.False(t, msg.IsRead)

	replied := &ContactMessage{Status: StatusReplied}
	assert.NoError(t, replied.BeforeSave(nil))
	assert.True(t, replied.IsRead)
}

func TestNewsBeforeSaveFillsLegacyTitle(t *testing.T) {
	t.Parallel()

	article := &News{Title: Text("", "Yeni layihə", "")}
	assert.NoError(t, article.BeforeSave(nil))
	assert.Equal(t, "Yeni layihə", article.TitleLegacy)
	assert.NotNil(t, article.Tags)
}
