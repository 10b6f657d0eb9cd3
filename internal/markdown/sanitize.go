package markdown

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var publishedPolicy = newPublishedPolicy()

func newPublishedPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoReferrerOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

// Sanitize filters rendered HTML through a user-generated-content policy. The
// published view runs every fragment through it; the author's own preview does not.
func Sanitize(fragment string) string {
	return publishedPolicy.Sanitize(fragment)
}

// RenderPublished renders source and sanitizes the result.
func RenderPublished(source string) string {
	return Sanitize(Render(source))
}

var summaryReplacer = strings.NewReplacer(
	"#", " ",
	"*", " ",
	"`", " ",
	"_", " ",
	">", " ",
	"[", " ",
	"]", " ",
	"(", " ",
	")", " ",
	"!", " ",
)

// Summary flattens source into a single line of plain text of at most limit runes,
// suitable for a meta description.
func Summary(source string, limit int) string {
	plain := strings.Join(strings.Fields(summaryReplacer.Replace(source)), " ")
	if plain == "" || limit <= 0 {
		return ""
	}

	if utf8.RuneCountInString(plain) <= limit {
		return plain
	}

	runes := []rune(plain)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
