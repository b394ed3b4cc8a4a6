package textutil

import (
	"strings"

	"golang.org/x/net/html"
)

// SummaryLength is the list view summary length in characters.
const SummaryLength = 100

// PlainText strips HTML markup and collapses whitespace. Script and style
// contents are dropped.
func PlainText(input string) string {
	if !strings.ContainsAny(input, "<&") {
		return strings.Join(strings.Fields(input), " ")
	}

	tokenizer := html.NewTokenizer(strings.NewReader(input))
	var (
		b       strings.Builder
		skipped int
	)

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isSkipped(name) {
				skipped++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isSkipped(name) && skipped > 0 {
				skipped--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skipped == 0 {
				b.Write(tokenizer.Text())
			}
		}
	}
}

// Summarize returns the plain text cut to limit characters, with "..."
// appended when anything was cut.
func Summarize(input string, limit int) string {
	text := PlainText(input)
	if limit <= 0 {
		return text
	}

	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

func isSkipped(name []byte) bool {
	tag := string(name)
	return tag == "script" || tag == "style"
}
